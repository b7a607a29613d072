package ir

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-openapi/inflect"

	"github.com/pgschema/pgintrospect/internal/logger"
)

// Build runs both passes over one namespace's facts: every attribute is
// deduced into a draft type, then the draft is resolved. It returns the
// frozen schema and the number of resolved attributes.
func Build(facts Facts, overrides TypeOverrides) (*Schema, int, error) {
	d, err := NewDraftFromFacts(facts, overrides)
	if err != nil {
		return nil, 0, err
	}
	s, n, err := Resolve(d)
	if err != nil {
		return nil, 0, err
	}
	logger.Get().Debug("Resolved schema",
		"schema", s.Name,
		"enums", len(s.Enums),
		"composites", len(s.Composites),
		"tables", len(s.Tables),
		"routines", len(s.Routines),
		"resolved_attributes", n,
	)
	return s, n, nil
}

// NewDraftFromFacts runs the deduction pass only.
func NewDraftFromFacts(facts Facts, overrides TypeOverrides) (*Draft, error) {
	d := NewDraft(facts.Schema)

	for _, e := range facts.Enums {
		enum, err := buildEnum(e)
		if err != nil {
			return nil, err
		}
		d.Enums[e.Name] = enum
	}

	for _, c := range facts.Composites {
		attrs, err := deduceAll(c.Name, c.Attributes, overrides)
		if err != nil {
			return nil, err
		}
		d.Composites[c.Name] = &DraftComposite{
			Name:        c.Name,
			DisplayName: DisplayName(c.Name),
			Attributes:  attrs,
		}
	}

	for _, t := range facts.Tables {
		attrs, err := deduceAll(t.Name, t.Columns, overrides)
		if err != nil {
			return nil, err
		}
		kind := t.Kind
		if kind == "" {
			kind = TableKindBase
		}
		d.Tables[t.Name] = &DraftTable{
			Name:        t.Name,
			DisplayName: DisplayName(t.Name),
			Kind:        kind,
			Attributes:  attrs,
		}
	}

	rowTypes := rowTypeNames(facts)
	for _, r := range facts.Routines {
		if name, ok := rowTypeSignature(r, rowTypes); ok {
			// Table row types are not composites, so no attribute can refer to them.
			logger.Get().Debug("Skipping routine with row type signature", "routine", r.Name, "type", name)
			continue
		}
		if _, exists := d.Routines[r.Name]; exists {
			// Overloads share a name; the first signature in catalog order wins.
			logger.Get().Debug("Skipping overloaded routine", "routine", r.Name)
			continue
		}
		params, err := deduceAll(r.Name, r.Parameters, overrides)
		if err != nil {
			return nil, err
		}
		returns, _, err := Deduce(r.Returns, overrides)
		if err != nil {
			return nil, withOwner(err, r.Name, "")
		}
		d.Routines[r.Name] = &DraftRoutine{
			Name:       r.Name,
			Parameters: params,
			Returns:    returns,
		}
	}

	return d, nil
}

func rowTypeNames(facts Facts) map[string]bool {
	names := make(map[string]bool, len(facts.Tables)+len(facts.RowTypes))
	for _, t := range facts.Tables {
		names[t.Name] = true
	}
	for _, name := range facts.RowTypes {
		names[name] = true
	}
	return names
}

// rowTypeSignature reports the first parameter or return type of r that is a
// table row type or an array of one.
func rowTypeSignature(r RawRoutine, rowTypes map[string]bool) (string, bool) {
	attrs := append([]RawAttribute{r.Returns}, r.Parameters...)
	for _, a := range attrs {
		if a.DataType != dataTypeUserDefined && a.DataType != dataTypeArray {
			continue
		}
		name, _ := stripNotNull(a.UDTName, true)
		name = strings.TrimLeft(name, arrayPrefix)
		if rowTypes[name] {
			return name, true
		}
	}
	return "", false
}

// DisplayName converts a catalog identifier into its exported Go form,
// e.g. "user_account" to "UserAccount".
func DisplayName(name string) string {
	return inflect.Camelize(name)
}

func buildEnum(e RawEnum) (*EnumType, error) {
	values := make([]EnumValue, len(e.Labels))
	copy(values, e.Labels)
	sort.SliceStable(values, func(i, j int) bool {
		return values[i].Sort < values[j].Sort
	})

	seen := make(map[string]bool, len(values))
	for _, v := range values {
		if seen[v.Label] {
			return nil, fmt.Errorf("enum %s has duplicate label %q", e.Name, v.Label)
		}
		seen[v.Label] = true
	}

	return &EnumType{
		Name:        e.Name,
		DisplayName: DisplayName(e.Name),
		Values:      values,
	}, nil
}

func deduceAll(owner string, raw []RawAttribute, overrides TypeOverrides) ([]*DraftAttribute, error) {
	sorted := make([]RawAttribute, len(raw))
	copy(sorted, raw)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Position < sorted[j].Position
	})

	attrs := make([]*DraftAttribute, 0, len(sorted))
	for _, a := range sorted {
		t, nullable, err := Deduce(a, overrides)
		if err != nil {
			return nil, withOwner(err, owner, a.Name)
		}
		attrs = append(attrs, &DraftAttribute{
			Name:     a.Name,
			Position: a.Position,
			Nullable: nullable,
			Type:     t,
		})
	}
	return attrs, nil
}

func withOwner(err error, owner, attribute string) error {
	if e, ok := err.(*UnsupportedTypeError); ok {
		e.Owner = owner
		if attribute != "" {
			e.Attribute = attribute
		}
	}
	return err
}
