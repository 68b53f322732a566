package integrity

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/AndreAle94/moneywallet-sub005/internal/schema"
)

// Query selects rows of one kind.
type Query struct {
	// Fields projects the result; empty means every column.
	Fields []string
	// Where holds equality predicates joined with AND. A nil value matches
	// NULL.
	Where map[string]any
	// OrderBy lists columns; a leading "-" sorts descending. Rows are
	// ordered by id when empty.
	OrderBy []string
	Limit   int
}

func quote(col string) string { return `"` + col + `"` }

func buildSelect(ent *schema.Entity, q Query) (string, []any, []string, error) {
	cols := q.Fields
	if len(cols) == 0 {
		cols = ent.Columns()
	}
	quoted := make([]string, len(cols))
	for i, c := range cols {
		if !ent.HasColumn(c) {
			return "", nil, nil, invalid(ent.Kind, c, "no such column")
		}
		quoted[i] = quote(c)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "SELECT %s FROM %s", strings.Join(quoted, ", "), ent.Name())

	var args []any
	if len(q.Where) > 0 {
		keys := make([]string, 0, len(q.Where))
		for k := range q.Where {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		conds := make([]string, 0, len(keys))
		for _, k := range keys {
			v, err := whereValue(ent, k, q.Where[k])
			if err != nil {
				return "", nil, nil, err
			}
			if v == nil {
				conds = append(conds, quote(k)+" IS NULL")
				continue
			}
			conds = append(conds, quote(k)+" = ?")
			args = append(args, v)
		}
		b.WriteString(" WHERE " + strings.Join(conds, " AND "))
	}

	order := []string{quote(schema.ColID)}
	if len(q.OrderBy) > 0 {
		order = order[:0]
		for _, o := range q.OrderBy {
			dir := "ASC"
			if strings.HasPrefix(o, "-") {
				o, dir = o[1:], "DESC"
			}
			if !ent.HasColumn(o) {
				return "", nil, nil, invalid(ent.Kind, o, "cannot order by unknown column")
			}
			order = append(order, quote(o)+" "+dir)
		}
	}
	b.WriteString(" ORDER BY " + strings.Join(order, ", "))
	if q.Limit > 0 {
		fmt.Fprintf(&b, " LIMIT %d", q.Limit)
	}
	return b.String(), args, cols, nil
}

func whereValue(ent *schema.Entity, col string, v any) (any, error) {
	switch col {
	case schema.ColID, schema.ColLastEdit:
		if v == nil {
			return nil, nil
		}
		n, err := toInt64(v)
		if err != nil {
			return nil, &ValidationError{Kind: ent.Kind, Field: col, Reason: "bad filter", Err: err}
		}
		return n, nil
	case schema.ColUUID:
		if v == nil {
			return nil, nil
		}
		s, ok := v.(string)
		if !ok {
			return nil, invalid(ent.Kind, col, "bad filter: want text")
		}
		return s, nil
	case schema.ColDeleted:
		return normalizeValue(schema.Field{Name: col, Type: schema.TypeFlag}, v)
	}
	f, ok := ent.Field(col)
	if !ok || f.Virtual {
		return nil, invalid(ent.Kind, col, "no such column")
	}
	out, err := normalizeValue(f, v)
	if err != nil {
		return nil, &ValidationError{Kind: ent.Kind, Field: col, Reason: "bad filter", Err: err}
	}
	return out, nil
}

// Each streams the rows matching q to fn, stopping at the first error.
// fn must not issue other statements through the same Tx.
func (tx *Tx) Each(ctx context.Context, k schema.Kind, q Query, fn func(Row) error) error {
	ent, err := entity(k)
	if err != nil {
		return err
	}
	stmt, args, cols, err := buildSelect(ent, q)
	if err != nil {
		return err
	}
	rows, err := tx.tx.QueryContext(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("query %s: %w", k, err)
	}
	defer rows.Close()
	vals := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	for rows.Next() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := rows.Scan(ptrs...); err != nil {
			return fmt.Errorf("scan %s: %w", k, err)
		}
		if err := fn(rowFromColumns(ent, cols, vals)); err != nil {
			return err
		}
	}
	return rows.Err()
}

// Query collects the rows matching q.
func (tx *Tx) Query(ctx context.Context, k schema.Kind, q Query) ([]Row, error) {
	var out []Row
	err := tx.Each(ctx, k, q, func(r Row) error {
		out = append(out, r)
		return nil
	})
	return out, err
}

// Get reads one row by id.
func (tx *Tx) Get(ctx context.Context, k schema.Kind, id int64) (Row, error) {
	rows, err := tx.Query(ctx, k, Query{Where: map[string]any{schema.ColID: id}})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, &NotFoundError{Kind: k, ID: id}
	}
	return rows[0], nil
}

// FindByUUID resolves a portable identifier to a row id.
func (tx *Tx) FindByUUID(ctx context.Context, k schema.Kind, uuid string) (int64, bool, error) {
	return tx.FindBy(ctx, k, schema.ColUUID, uuid)
}

// FindBy returns the lowest id whose column equals value.
func (tx *Tx) FindBy(ctx context.Context, k schema.Kind, col string, value any) (int64, bool, error) {
	rows, err := tx.Query(ctx, k, Query{
		Fields: []string{schema.ColID},
		Where:  map[string]any{col: value},
		Limit:  1,
	})
	if err != nil {
		return 0, false, err
	}
	if len(rows) == 0 {
		return 0, false, nil
	}
	return rows[0].ID(), true, nil
}

// exists reports whether a row of k has key (id or ISO code) equal to v.
func (tx *Tx) exists(ctx context.Context, k schema.Kind, v any) (bool, error) {
	ent, err := entity(k)
	if err != nil {
		return false, err
	}
	var one int
	err = tx.tx.QueryRowContext(ctx,
		fmt.Sprintf("SELECT 1 FROM %s WHERE %s = ? LIMIT 1", ent.Name(), quote(ent.Key)), v).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("lookup %s: %w", k, err)
	}
	return true, nil
}

func (tx *Tx) ids(ctx context.Context, stmt string, args ...any) ([]int64, error) {
	rows, err := tx.tx.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func (tx *Tx) count(ctx context.Context, stmt string, args ...any) (int, error) {
	var n int
	if err := tx.tx.QueryRowContext(ctx, stmt, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func entity(k schema.Kind) (*schema.Entity, error) {
	ent, ok := schema.Lookup(k)
	if !ok {
		return nil, fmt.Errorf("unknown kind %d", int(k))
	}
	return ent, nil
}
