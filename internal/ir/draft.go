package ir

// Draft is the schema between the deduction and resolution passes. Attribute
// types may still hold Unresolved names.
type Draft struct {
	Name       string
	Enums      map[string]*EnumType
	Composites map[string]*DraftComposite
	Tables     map[string]*DraftTable
	Routines   map[string]*DraftRoutine
}

// DraftComposite is a composite type awaiting resolution.
type DraftComposite struct {
	Name        string
	DisplayName string
	Attributes  []*DraftAttribute
}

// DraftTable is a table awaiting resolution.
type DraftTable struct {
	Name        string
	DisplayName string
	Kind        TableKind
	Attributes  []*DraftAttribute
}

// DraftRoutine is a routine awaiting resolution.
type DraftRoutine struct {
	Name       string
	Parameters []*DraftAttribute
	Returns    DraftType
}

// DraftAttribute is an attribute whose type may be a placeholder.
type DraftAttribute struct {
	Name     string
	Position int
	Nullable bool
	Type     DraftType
}

// NewDraft creates an empty draft for the given namespace.
func NewDraft(name string) *Draft {
	return &Draft{
		Name:       name,
		Enums:      make(map[string]*EnumType),
		Composites: make(map[string]*DraftComposite),
		Tables:     make(map[string]*DraftTable),
		Routines:   make(map[string]*DraftRoutine),
	}
}
