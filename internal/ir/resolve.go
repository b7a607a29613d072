package ir

import (
	"errors"
	"fmt"

	"github.com/pgschema/pgintrospect/internal/utils"
)

// Resolve replaces every Unresolved placeholder of the draft with a
// CompositeRef or EnumRef, looking names up among composites first and enums
// second. It returns the resolved schema and the number of attributes that
// held a placeholder; a draft without placeholders resolves to an identical
// schema and a count of zero.
//
// Resolution is one linear sweep. Only array nesting is descended into, and
// references are matched by name, so the order in which objects are visited
// has no effect on the result. Composite types that reference each other are
// rejected with *CyclicReferenceError.
func Resolve(d *Draft) (*Schema, int, error) {
	r := &resolver{draft: d}
	s := NewSchema(d.Name)

	for name, e := range d.Enums {
		s.Enums[name] = e
	}

	for _, name := range utils.SortedKeys(d.Composites) {
		c := d.Composites[name]
		attrs, err := r.attributes(c.Name, c.Attributes)
		if err != nil {
			return nil, 0, err
		}
		s.Composites[name] = &CompositeType{
			Name:        c.Name,
			DisplayName: c.DisplayName,
			Attributes:  attrs,
		}
	}

	for _, name := range utils.SortedKeys(d.Tables) {
		t := d.Tables[name]
		attrs, err := r.attributes(t.Name, t.Attributes)
		if err != nil {
			return nil, 0, err
		}
		s.Tables[name] = &Table{
			Name:        t.Name,
			DisplayName: t.DisplayName,
			Kind:        t.Kind,
			Attributes:  attrs,
		}
	}

	for _, name := range utils.SortedKeys(d.Routines) {
		rt := d.Routines[name]
		params, err := r.attributes(rt.Name, rt.Parameters)
		if err != nil {
			return nil, 0, err
		}
		returns, changed, err := r.resolve(rt.Returns)
		if err != nil {
			return nil, 0, annotate(err, rt.Name, "")
		}
		if changed {
			r.resolved++
		}
		s.Routines[name] = &Routine{
			Name:       rt.Name,
			Parameters: params,
			Returns:    returns,
		}
	}

	if err := checkCycles(s); err != nil {
		return nil, 0, err
	}

	return s, r.resolved, nil
}

type resolver struct {
	draft    *Draft
	resolved int
}

func (r *resolver) attributes(owner string, attrs []*DraftAttribute) ([]*Attribute, error) {
	out := make([]*Attribute, 0, len(attrs))
	for _, a := range attrs {
		t, changed, err := r.resolve(a.Type)
		if err != nil {
			return nil, annotate(err, owner, a.Name)
		}
		if changed {
			r.resolved++
		}
		out = append(out, &Attribute{
			Name:     a.Name,
			Position: a.Position,
			Nullable: a.Nullable,
			Type:     t,
		})
	}
	return out, nil
}

// resolve returns the resolved type and whether a placeholder was replaced.
func (r *resolver) resolve(t DraftType) (Type, bool, error) {
	switch t := t.(type) {
	case Type:
		return t, false, nil
	case Unresolved:
		if _, ok := r.draft.Composites[t.Name]; ok {
			return CompositeRef{Name: t.Name}, true, nil
		}
		if _, ok := r.draft.Enums[t.Name]; ok {
			return EnumRef{Name: t.Name}, true, nil
		}
		return nil, false, &UnresolvedReferenceError{Name: t.Name}
	case DraftArray:
		elem, changed, err := r.resolve(t.Element)
		if err != nil {
			return nil, false, err
		}
		return Array{Element: elem}, changed, nil
	default:
		return nil, false, fmt.Errorf("unexpected draft type %T", t)
	}
}

func annotate(err error, owner, attribute string) error {
	var ref *UnresolvedReferenceError
	if errors.As(err, &ref) {
		ref.Owner = owner
		ref.Attribute = attribute
	}
	return err
}
