package schema

// FieldType is the semantic type of a column.
type FieldType int

const (
	TypeText FieldType = iota + 1
	TypeInteger
	TypeReal
	TypeMoney
	TypeFlag
	TypeEnum
	TypeDate
	TypeDateTime
	TypeRef
	TypeMultiRef
)

func (t FieldType) String() string {
	switch t {
	case TypeText:
		return "text"
	case TypeInteger:
		return "integer"
	case TypeReal:
		return "real"
	case TypeMoney:
		return "money"
	case TypeFlag:
		return "flag"
	case TypeEnum:
		return "enum"
	case TypeDate:
		return "date"
	case TypeDateTime:
		return "datetime"
	case TypeRef:
		return "ref"
	case TypeMultiRef:
		return "multiref"
	}
	return "unknown"
}

// Columns present on every table.
const (
	ColID       = "id"
	ColUUID     = "uuid"
	ColLastEdit = "last_edit"
	ColDeleted  = "deleted"
)

// Date layouts used by TypeDate and TypeDateTime columns.
const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02 15:04:05"
)

// Field describes one column of an entity.
type Field struct {
	Name string
	Type FieldType
	// Ref is the referenced kind for TypeRef and TypeMultiRef.
	Ref      Kind
	Required bool
	// Max is the highest accepted value of a TypeEnum field (the lowest is 0).
	Max     int64
	Default any
	// Snapshot overrides the record key used in the portable format.
	Snapshot string
	// Virtual fields are accepted on insert/update but are not columns.
	Virtual bool
}

// SnapshotName returns the record key of the field in a snapshot.
func (f Field) SnapshotName() string {
	if f.Snapshot != "" {
		return f.Snapshot
	}
	return f.Name
}

// IsRef reports whether the field points at rows of another entity.
func (f Field) IsRef() bool {
	return f.Type == TypeRef || f.Type == TypeMultiRef
}

// Entity is the declaration of one table.
type Entity struct {
	Kind Kind
	// Key is the column other entities store when they reference this one.
	Key    string
	Fields []Field
}

// Name is the table name, also used as the snapshot array name.
func (e *Entity) Name() string { return e.Kind.String() }

// Field returns the named field.
func (e *Entity) Field(name string) (Field, bool) {
	for _, f := range e.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Stored returns the fields backed by a column, in declaration order.
func (e *Entity) Stored() []Field {
	out := make([]Field, 0, len(e.Fields))
	for _, f := range e.Fields {
		if !f.Virtual {
			out = append(out, f)
		}
	}
	return out
}

// Columns returns every column of the table: the common ones first, then
// the stored fields.
func (e *Entity) Columns() []string {
	cols := []string{ColID, ColUUID, ColLastEdit, ColDeleted}
	for _, f := range e.Stored() {
		cols = append(cols, f.Name)
	}
	return cols
}

// HasColumn reports whether name is a column of the table.
func (e *Entity) HasColumn(name string) bool {
	switch name {
	case ColID, ColUUID, ColLastEdit, ColDeleted:
		return true
	}
	f, ok := e.Field(name)
	return ok && !f.Virtual
}

// Lookup returns the declaration of k.
func Lookup(k Kind) (*Entity, bool) {
	e, ok := entities[k]
	return e, ok
}

// MustLookup is Lookup for kinds known to be valid.
func MustLookup(k Kind) *Entity {
	e, ok := entities[k]
	if !ok {
		panic("schema: unknown kind " + k.String())
	}
	return e
}
