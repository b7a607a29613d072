package ir

import (
	"github.com/pgschema/pgintrospect/internal/utils"
)

// Schema is the resolved description of one database namespace.
// It is built once by Build or Resolve and must be treated as read-only afterwards.
type Schema struct {
	Name       string                    // namespace, e.g. "public"
	Enums      map[string]*EnumType      // enum_name -> EnumType
	Composites map[string]*CompositeType // type_name -> CompositeType
	Tables     map[string]*Table         // table_name -> Table
	Routines   map[string]*Routine       // routine_name -> Routine
}

// EnumType is a PostgreSQL enumeration with its labels in sort order.
type EnumType struct {
	Name        string
	DisplayName string
	Values      []EnumValue
}

// EnumValue is a single enumeration label.
type EnumValue struct {
	Label string
	Sort  float64 // pg_enum.enumsortorder
}

// CompositeType is a user-defined structured type.
type CompositeType struct {
	Name        string
	DisplayName string
	Attributes  []*Attribute
}

// TableKind distinguishes base tables from views.
type TableKind string

const (
	TableKindBase TableKind = "BASE TABLE"
	TableKindView TableKind = "VIEW"
)

// Table is a relation whose attributes are its columns.
type Table struct {
	Name        string
	DisplayName string
	Kind        TableKind
	Attributes  []*Attribute
}

// Routine is a callable function or procedure.
type Routine struct {
	Name       string
	Parameters []*Attribute
	Returns    Type
}

// Attribute is a column, a composite attribute or a routine parameter.
type Attribute struct {
	Name     string
	Position int
	Nullable bool
	Type     Type
}

// NewSchema creates an empty schema for the given namespace.
func NewSchema(name string) *Schema {
	return &Schema{
		Name:       name,
		Enums:      make(map[string]*EnumType),
		Composites: make(map[string]*CompositeType),
		Tables:     make(map[string]*Table),
		Routines:   make(map[string]*Routine),
	}
}

// GetSortedEnumNames returns enum names sorted alphabetically
func (s *Schema) GetSortedEnumNames() []string {
	return utils.SortedKeys(s.Enums)
}

// GetSortedCompositeNames returns composite type names sorted alphabetically
func (s *Schema) GetSortedCompositeNames() []string {
	return utils.SortedKeys(s.Composites)
}

// GetSortedTableNames returns table names sorted alphabetically
func (s *Schema) GetSortedTableNames() []string {
	return utils.SortedKeys(s.Tables)
}

// GetSortedRoutineNames returns routine names sorted alphabetically
func (s *Schema) GetSortedRoutineNames() []string {
	return utils.SortedKeys(s.Routines)
}

// Attribute looks up a column by name.
func (t *Table) Attribute(name string) (*Attribute, bool) {
	return findAttribute(t.Attributes, name)
}

// Attribute looks up a composite attribute by name.
func (c *CompositeType) Attribute(name string) (*Attribute, bool) {
	return findAttribute(c.Attributes, name)
}

// Labels returns the enum labels in sort order.
func (e *EnumType) Labels() []string {
	labels := make([]string, len(e.Values))
	for i, v := range e.Values {
		labels[i] = v.Label
	}
	return labels
}

// ParameterNames returns the routine's parameter names in position order.
func (r *Routine) ParameterNames() []string {
	names := make([]string, len(r.Parameters))
	for i, p := range r.Parameters {
		names[i] = p.Name
	}
	return names
}

func findAttribute(attrs []*Attribute, name string) (*Attribute, bool) {
	for _, attr := range attrs {
		if attr.Name == name {
			return attr, true
		}
	}
	return nil, false
}

// Draft converts a resolved schema back into draft form. Resolving the result
// is a no-op that reports zero resolved attributes.
func (s *Schema) Draft() *Draft {
	d := NewDraft(s.Name)
	for name, e := range s.Enums {
		d.Enums[name] = e
	}
	for name, c := range s.Composites {
		d.Composites[name] = &DraftComposite{
			Name:        c.Name,
			DisplayName: c.DisplayName,
			Attributes:  draftAttributes(c.Attributes),
		}
	}
	for name, t := range s.Tables {
		d.Tables[name] = &DraftTable{
			Name:        t.Name,
			DisplayName: t.DisplayName,
			Kind:        t.Kind,
			Attributes:  draftAttributes(t.Attributes),
		}
	}
	for name, r := range s.Routines {
		d.Routines[name] = &DraftRoutine{
			Name:       r.Name,
			Parameters: draftAttributes(r.Parameters),
			Returns:    r.Returns,
		}
	}
	return d
}

func draftAttributes(attrs []*Attribute) []*DraftAttribute {
	out := make([]*DraftAttribute, len(attrs))
	for i, a := range attrs {
		out[i] = &DraftAttribute{
			Name:     a.Name,
			Position: a.Position,
			Nullable: a.Nullable,
			Type:     a.Type,
		}
	}
	return out
}
