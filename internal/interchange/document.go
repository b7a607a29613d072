// Package interchange converts a resolved schema to and from a serializable
// document.
package interchange

import (
	"fmt"

	"github.com/pgschema/pgintrospect/internal/ir"
)

// Version of the document layout.
const Version = 1

// Document mirrors ir.Schema with every collection as a list in name order.
type Document struct {
	Version    int            `json:"version" msgpack:"version"`
	Schema     string         `json:"schema" msgpack:"schema"`
	Enums      []EnumDoc      `json:"enums" msgpack:"enums"`
	Composites []CompositeDoc `json:"composites" msgpack:"composites"`
	Tables     []TableDoc     `json:"tables" msgpack:"tables"`
	Functions  []FunctionDoc  `json:"functions" msgpack:"functions"`
}

type EnumDoc struct {
	Name        string         `json:"name" msgpack:"name"`
	DisplayName string         `json:"displayName" msgpack:"displayName"`
	Values      []EnumValueDoc `json:"values" msgpack:"values"`
}

type EnumValueDoc struct {
	Label string  `json:"label" msgpack:"label"`
	Sort  float64 `json:"sort" msgpack:"sort"`
}

type CompositeDoc struct {
	Name        string         `json:"name" msgpack:"name"`
	DisplayName string         `json:"displayName" msgpack:"displayName"`
	Attributes  []AttributeDoc `json:"attributes" msgpack:"attributes"`
}

type TableDoc struct {
	Name        string         `json:"name" msgpack:"name"`
	DisplayName string         `json:"displayName" msgpack:"displayName"`
	Kind        string         `json:"kind" msgpack:"kind"`
	Attributes  []AttributeDoc `json:"attributes" msgpack:"attributes"`
}

type FunctionDoc struct {
	Name       string         `json:"name" msgpack:"name"`
	Parameters []AttributeDoc `json:"parameters" msgpack:"parameters"`
	Returns    *TypeDoc       `json:"returns" msgpack:"returns"`
}

type AttributeDoc struct {
	Name     string   `json:"name" msgpack:"name"`
	Position int      `json:"position" msgpack:"position"`
	Nullable bool     `json:"nullable" msgpack:"nullable"`
	Type     *TypeDoc `json:"type" msgpack:"type"`
}

// TypeDoc is the tagged form of ir.Type. Name is set for enum and composite
// references, Element for arrays.
type TypeDoc struct {
	Kind    ir.TypeKind `json:"kind" msgpack:"kind"`
	Name    string      `json:"name,omitempty" msgpack:"name,omitempty"`
	Element *TypeDoc    `json:"element,omitempty" msgpack:"element,omitempty"`
}

// InvalidTypeError reports a TypeDoc that does not denote a resolved type.
type InvalidTypeError struct {
	Kind   ir.TypeKind
	Reason string
}

func (e *InvalidTypeError) Error() string {
	return fmt.Sprintf("invalid type %q: %s", e.Kind, e.Reason)
}

// FromSchema converts s into a document.
func FromSchema(s *ir.Schema) *Document {
	doc := &Document{
		Version:    Version,
		Schema:     s.Name,
		Enums:      []EnumDoc{},
		Composites: []CompositeDoc{},
		Tables:     []TableDoc{},
		Functions:  []FunctionDoc{},
	}

	for _, name := range s.GetSortedEnumNames() {
		e := s.Enums[name]
		values := make([]EnumValueDoc, len(e.Values))
		for i, v := range e.Values {
			values[i] = EnumValueDoc{Label: v.Label, Sort: v.Sort}
		}
		doc.Enums = append(doc.Enums, EnumDoc{Name: e.Name, DisplayName: e.DisplayName, Values: values})
	}
	for _, name := range s.GetSortedCompositeNames() {
		c := s.Composites[name]
		doc.Composites = append(doc.Composites, CompositeDoc{
			Name:        c.Name,
			DisplayName: c.DisplayName,
			Attributes:  attributeDocs(c.Attributes),
		})
	}
	for _, name := range s.GetSortedTableNames() {
		t := s.Tables[name]
		doc.Tables = append(doc.Tables, TableDoc{
			Name:        t.Name,
			DisplayName: t.DisplayName,
			Kind:        string(t.Kind),
			Attributes:  attributeDocs(t.Attributes),
		})
	}
	for _, name := range s.GetSortedRoutineNames() {
		r := s.Routines[name]
		doc.Functions = append(doc.Functions, FunctionDoc{
			Name:       r.Name,
			Parameters: attributeDocs(r.Parameters),
			Returns:    TypeToDoc(r.Returns),
		})
	}
	return doc
}

// ToSchema converts doc back into a schema. Unknown or unresolved type kinds
// fail with *InvalidTypeError, and references must name a type of the
// document.
func ToSchema(doc *Document) (*ir.Schema, error) {
	if doc.Version != Version {
		return nil, fmt.Errorf("unsupported document version %d", doc.Version)
	}

	s := ir.NewSchema(doc.Schema)
	for _, e := range doc.Enums {
		values := make([]ir.EnumValue, len(e.Values))
		for i, v := range e.Values {
			values[i] = ir.EnumValue{Label: v.Label, Sort: v.Sort}
		}
		s.Enums[e.Name] = &ir.EnumType{Name: e.Name, DisplayName: e.DisplayName, Values: values}
	}

	d := s.Draft()
	for _, c := range doc.Composites {
		attrs, err := draftAttributes(c.Name, c.Attributes)
		if err != nil {
			return nil, err
		}
		d.Composites[c.Name] = &ir.DraftComposite{Name: c.Name, DisplayName: c.DisplayName, Attributes: attrs}
	}
	for _, t := range doc.Tables {
		attrs, err := draftAttributes(t.Name, t.Attributes)
		if err != nil {
			return nil, err
		}
		d.Tables[t.Name] = &ir.DraftTable{
			Name:        t.Name,
			DisplayName: t.DisplayName,
			Kind:        ir.TableKind(t.Kind),
			Attributes:  attrs,
		}
	}
	for _, f := range doc.Functions {
		params, err := draftAttributes(f.Name, f.Parameters)
		if err != nil {
			return nil, err
		}
		returns, err := DocToType(f.Returns)
		if err != nil {
			return nil, fmt.Errorf("function %s returns: %w", f.Name, err)
		}
		d.Routines[f.Name] = &ir.DraftRoutine{Name: f.Name, Parameters: params, Returns: returns}
	}

	// References are checked and cycles rejected the same way as after discovery.
	resolved, _, err := ir.Resolve(d)
	if err != nil {
		return nil, err
	}
	if err := checkReferences(resolved); err != nil {
		return nil, err
	}
	return resolved, nil
}

// TypeToDoc converts a resolved type into its tagged form.
func TypeToDoc(t ir.Type) *TypeDoc {
	switch t := t.(type) {
	case ir.Array:
		return &TypeDoc{Kind: ir.TypeKindArray, Element: TypeToDoc(t.Element)}
	case ir.EnumRef:
		return &TypeDoc{Kind: ir.TypeKindEnum, Name: t.Name}
	case ir.CompositeRef:
		return &TypeDoc{Kind: ir.TypeKindComposite, Name: t.Name}
	default:
		return &TypeDoc{Kind: t.Kind()}
	}
}

// DocToType converts a tagged type back.
func DocToType(d *TypeDoc) (ir.Type, error) {
	if d == nil {
		return nil, &InvalidTypeError{Reason: "missing type"}
	}
	switch d.Kind {
	case ir.TypeKindBoolean:
		return ir.Boolean{}, nil
	case ir.TypeKindNumber:
		return ir.Number{}, nil
	case ir.TypeKindString:
		return ir.String{}, nil
	case ir.TypeKindDate:
		return ir.Date{}, nil
	case ir.TypeKindArray:
		elem, err := DocToType(d.Element)
		if err != nil {
			return nil, err
		}
		return ir.Array{Element: elem}, nil
	case ir.TypeKindEnum, ir.TypeKindComposite:
		if d.Name == "" {
			return nil, &InvalidTypeError{Kind: d.Kind, Reason: "reference without a name"}
		}
		if d.Kind == ir.TypeKindEnum {
			return ir.EnumRef{Name: d.Name}, nil
		}
		return ir.CompositeRef{Name: d.Name}, nil
	case ir.TypeKindUnresolved:
		return nil, &InvalidTypeError{Kind: d.Kind, Reason: "unresolved types cannot be exchanged"}
	default:
		return nil, &InvalidTypeError{Kind: d.Kind, Reason: "unknown kind"}
	}
}

func attributeDocs(attrs []*ir.Attribute) []AttributeDoc {
	docs := make([]AttributeDoc, len(attrs))
	for i, a := range attrs {
		docs[i] = AttributeDoc{Name: a.Name, Position: a.Position, Nullable: a.Nullable, Type: TypeToDoc(a.Type)}
	}
	return docs
}

func draftAttributes(owner string, docs []AttributeDoc) ([]*ir.DraftAttribute, error) {
	attrs := make([]*ir.DraftAttribute, len(docs))
	for i, a := range docs {
		t, err := DocToType(a.Type)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", owner, a.Name, err)
		}
		attrs[i] = &ir.DraftAttribute{Name: a.Name, Position: a.Position, Nullable: a.Nullable, Type: t}
	}
	return attrs, nil
}

// checkReferences makes sure every EnumRef and CompositeRef names a type
// that the document declares with the matching kind.
func checkReferences(s *ir.Schema) error {
	check := func(owner, attr string, t ir.Type) error {
		switch ref := ir.ElementType(t).(type) {
		case ir.EnumRef:
			if _, ok := s.Enums[ref.Name]; !ok {
				return &ir.UnresolvedReferenceError{Name: ref.Name, Owner: owner, Attribute: attr}
			}
		case ir.CompositeRef:
			if _, ok := s.Composites[ref.Name]; !ok {
				return &ir.UnresolvedReferenceError{Name: ref.Name, Owner: owner, Attribute: attr}
			}
		}
		return nil
	}
	each := func(owner string, attrs []*ir.Attribute) error {
		for _, a := range attrs {
			if err := check(owner, a.Name, a.Type); err != nil {
				return err
			}
		}
		return nil
	}

	for _, c := range s.Composites {
		if err := each(c.Name, c.Attributes); err != nil {
			return err
		}
	}
	for _, t := range s.Tables {
		if err := each(t.Name, t.Attributes); err != nil {
			return err
		}
	}
	for _, r := range s.Routines {
		if err := each(r.Name, r.Parameters); err != nil {
			return err
		}
		if err := check(r.Name, "", r.Returns); err != nil {
			return err
		}
	}
	return nil
}
