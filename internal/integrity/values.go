package integrity

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/AndreAle94/moneywallet-sub005/internal/refs"
	"github.com/AndreAle94/moneywallet-sub005/internal/schema"
)

// Fields carries the values of an insert or update, keyed by field name.
// Accepted Go types per semantic type:
//
//	text, date, datetime  string (dates also time.Time)
//	integer, money, enum  any integer type, integral float64, json.Number
//	real                  any number
//	flag                  bool, or 0/1
//	ref                   int64-compatible row id (string ISO code for currencies)
//	multiref              encoded string "<1>,<2>" or []int64
//
// A nil value clears the column.
type Fields map[string]any

// Row is a stored row keyed by column name. Integers come back as int64,
// flags as bool, text as string and NULL as nil.
type Row map[string]any

// ID returns the row id.
func (r Row) ID() int64 {
	id, _ := r[schema.ColID].(int64)
	return id
}

// UUID returns the portable identifier of the row.
func (r Row) UUID() string {
	s, _ := r[schema.ColUUID].(string)
	return s
}

// Int returns an integer column, false when NULL.
func (r Row) Int(name string) (int64, bool) {
	v, ok := r[name].(int64)
	return v, ok
}

// String returns a text column, "" when NULL.
func (r Row) String(name string) string {
	s, _ := r[name].(string)
	return s
}

// Bool returns a flag column.
func (r Row) Bool(name string) bool {
	b, _ := r[name].(bool)
	return b
}

// record is the normalized, column-ready form of a row: nil, int64,
// float64 or string values only.
type record map[string]any

func (r record) clone() record {
	out := make(record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

func (r record) int(name string) (int64, bool) {
	v, ok := r[name].(int64)
	return v, ok
}

func (r record) str(name string) (string, bool) {
	v, ok := r[name].(string)
	return v, ok
}

func (r record) ids(name string) []int64 {
	s, ok := r[name].(string)
	if !ok {
		return nil
	}
	ids, err := refs.Decode(s)
	if err != nil {
		return nil
	}
	return ids
}

func normalizeValue(f schema.Field, v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	switch p := v.(type) {
	case *string:
		if p == nil {
			return nil, nil
		}
		v = *p
	case *int64:
		if p == nil {
			return nil, nil
		}
		v = *p
	}

	switch f.Type {
	case schema.TypeText:
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("want text, got %T", v)
		}
		return s, nil
	case schema.TypeDate, schema.TypeDateTime:
		layout := schema.DateLayout
		if f.Type == schema.TypeDateTime {
			layout = schema.DateTimeLayout
		}
		switch t := v.(type) {
		case time.Time:
			return t.Format(layout), nil
		case string:
			if _, err := time.Parse(layout, t); err != nil {
				return nil, fmt.Errorf("want %s layout %q", f.Type, layout)
			}
			return t, nil
		}
		return nil, fmt.Errorf("want %s, got %T", f.Type, v)
	case schema.TypeInteger, schema.TypeMoney:
		return toInt64(v)
	case schema.TypeEnum:
		n, err := toInt64(v)
		if err != nil {
			return nil, err
		}
		if n < 0 || n > f.Max {
			return nil, fmt.Errorf("value %d out of range 0..%d", n, f.Max)
		}
		return n, nil
	case schema.TypeReal:
		return toFloat64(v)
	case schema.TypeFlag:
		switch b := v.(type) {
		case bool:
			if b {
				return int64(1), nil
			}
			return int64(0), nil
		}
		n, err := toInt64(v)
		if err != nil || (n != 0 && n != 1) {
			return nil, fmt.Errorf("want flag, got %v", v)
		}
		return n, nil
	case schema.TypeRef:
		if f.Ref == schema.KindCurrency {
			s, ok := v.(string)
			if !ok || s == "" {
				return nil, fmt.Errorf("want currency code, got %v", v)
			}
			return strings.ToUpper(s), nil
		}
		n, err := toInt64(v)
		if err != nil {
			return nil, err
		}
		if n <= 0 {
			return nil, fmt.Errorf("invalid row id %d", n)
		}
		return n, nil
	case schema.TypeMultiRef:
		switch l := v.(type) {
		case []int64:
			if enc := refs.Encode(l); enc != nil {
				return *enc, nil
			}
			return nil, nil
		case string:
			if l == "" {
				return nil, nil
			}
			if _, err := refs.Decode(l); err != nil {
				return nil, err
			}
			return l, nil
		}
		return nil, fmt.Errorf("want reference list, got %T", v)
	}
	return nil, fmt.Errorf("unsupported field type %s", f.Type)
}

func toInt64(v any) (int64, error) {
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case int8:
		return int64(n), nil
	case int16:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case int64:
		return n, nil
	case uint:
		return int64(n), nil
	case uint8:
		return int64(n), nil
	case uint16:
		return int64(n), nil
	case uint32:
		return int64(n), nil
	case uint64:
		if n > math.MaxInt64 {
			return 0, fmt.Errorf("value %d overflows int64", n)
		}
		return int64(n), nil
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) {
			return 0, fmt.Errorf("want integer, got %v", n)
		}
		return int64(n), nil
	case json.Number:
		return n.Int64()
	}
	return 0, fmt.Errorf("want integer, got %T", v)
}

func toFloat64(v any) (float64, error) {
	switch n := v.(type) {
	case float32:
		return float64(n), nil
	case float64:
		return n, nil
	case json.Number:
		return n.Float64()
	}
	i, err := toInt64(v)
	if err != nil {
		return 0, fmt.Errorf("want number, got %T", v)
	}
	return float64(i), nil
}

// rowFromColumns converts scanned sqlite values into a Row.
func rowFromColumns(ent *schema.Entity, cols []string, vals []any) Row {
	row := make(Row, len(cols))
	for i, c := range cols {
		v := vals[i]
		if b, ok := v.([]byte); ok {
			v = string(b)
		}
		if c == schema.ColDeleted || isFlag(ent, c) {
			n, _ := v.(int64)
			v = n != 0
		}
		row[c] = v
	}
	return row
}

// recordFromRow converts a stored row back to its normalized form.
func recordFromRow(row Row) record {
	rec := make(record, len(row))
	for k, v := range row {
		if b, ok := v.(bool); ok {
			if b {
				v = int64(1)
			} else {
				v = int64(0)
			}
		}
		rec[k] = v
	}
	return rec
}

func isFlag(ent *schema.Entity, col string) bool {
	f, ok := ent.Field(col)
	return ok && f.Type == schema.TypeFlag
}
