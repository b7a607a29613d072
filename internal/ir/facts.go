package ir

// Facts are the raw, unresolved catalog rows of one namespace as read by the
// inspector. Type names are kept exactly as the catalog reports them.
type Facts struct {
	Schema     string
	Enums      []RawEnum
	Composites []RawComposite
	Tables     []RawTable
	Routines   []RawRoutine
	// RowTypes names table and view row types that have no entry in Tables,
	// such as ignored tables.
	RowTypes []string
}

// RawEnum is an enumeration and its labels in any order.
type RawEnum struct {
	Name   string
	Labels []EnumValue
}

// RawComposite is a composite type and its attribute rows.
type RawComposite struct {
	Name       string
	Attributes []RawAttribute
}

// RawTable is a table or view and its column rows.
type RawTable struct {
	Name    string
	Kind    TableKind
	Columns []RawAttribute
}

// RawRoutine is a routine with its IN parameters and return type.
type RawRoutine struct {
	Name       string
	Parameters []RawAttribute
	Returns    RawAttribute
}

// RawAttribute is one attribute row.
type RawAttribute struct {
	Name     string
	Position int
	DataType string // information_schema data_type, e.g. "integer", "ARRAY", "USER-DEFINED"
	UDTName  string // underlying udt or domain name, e.g. "int4", "_mood", "text_not_null"
	Nullable bool
}
