// Package codegen emits Go types for a resolved schema.
package codegen

import (
	"bytes"
	"fmt"
	"strings"
	"unicode"

	"github.com/dave/jennifer/jen"
	"github.com/go-openapi/inflect"

	"github.com/pgschema/pgintrospect/internal/ir"
)

// NameCollisionError reports two catalog objects that map to the same Go
// identifier in one scope.
type NameCollisionError struct {
	Ident  string
	First  string
	Second string
}

func (e *NameCollisionError) Error() string {
	return fmt.Sprintf("%s and %s both generate Go identifier %s", e.First, e.Second, e.Ident)
}

// scope maps declared identifiers to the object that declared them.
type scope map[string]string

func (s scope) declare(ident, owner string) error {
	if first, ok := s[ident]; ok {
		return &NameCollisionError{Ident: ident, First: first, Second: owner}
	}
	s[ident] = owner
	return nil
}

// Generate renders one Go file declaring:
//   - a string type with one constant per label for every enum
//   - a struct for every composite type
//   - a struct with a TableName method for every table
func Generate(s *ir.Schema, pkg string) ([]byte, error) {
	g := &generator{schema: s, file: jen.NewFile(pkg), idents: scope{}}
	g.file.HeaderComment("Code generated by pgintrospect. DO NOT EDIT.")

	for _, name := range s.GetSortedEnumNames() {
		if err := g.enum(s.Enums[name]); err != nil {
			return nil, err
		}
	}
	for _, name := range s.GetSortedCompositeNames() {
		c := s.Composites[name]
		if err := g.structType(typeName(c.DisplayName, c.Name), c.Name, "composite type", c.Attributes); err != nil {
			return nil, err
		}
	}
	for _, name := range s.GetSortedTableNames() {
		t := s.Tables[name]
		id := typeName(t.DisplayName, t.Name)
		kind := "table"
		if t.Kind == ir.TableKindView {
			kind = "view"
		}
		if err := g.structType(id, t.Name, kind, t.Attributes, "TableName"); err != nil {
			return nil, err
		}
		g.file.Comment("TableName returns the name of the " + kind + ".")
		g.file.Func().Params(jen.Id(id)).Id("TableName").Params().String().Block(
			jen.Return(jen.Lit(t.Name)),
		)
	}

	var buf bytes.Buffer
	if err := g.file.Render(&buf); err != nil {
		return nil, fmt.Errorf("failed to render generated code: %w", err)
	}
	return buf.Bytes(), nil
}

type generator struct {
	schema *ir.Schema
	file   *jen.File
	idents scope // package level
}

func (g *generator) enum(e *ir.EnumType) error {
	id := typeName(e.DisplayName, e.Name)
	if err := g.idents.declare(id, "enum "+e.Name); err != nil {
		return err
	}
	for _, v := range e.Values {
		if err := g.idents.declare(id+exportedName(v.Label), fmt.Sprintf("label %q of enum %s", v.Label, e.Name)); err != nil {
			return err
		}
	}

	g.file.Commentf("%s is the %s enum.", id, e.Name)
	g.file.Type().Id(id).String()

	g.file.Const().DefsFunc(func(group *jen.Group) {
		for _, v := range e.Values {
			group.Id(id + exportedName(v.Label)).Id(id).Op("=").Lit(v.Label)
		}
	})

	g.file.Commentf("Valid reports whether v is a label of %s.", e.Name)
	g.file.Func().Params(jen.Id("v").Id(id)).Id("Valid").Params().Bool().Block(
		jen.Switch(jen.Id("v")).BlockFunc(func(group *jen.Group) {
			if len(e.Values) > 0 {
				cases := make([]jen.Code, len(e.Values))
				for i, v := range e.Values {
					cases[i] = jen.Id(id + exportedName(v.Label))
				}
				group.Case(cases...).Block(jen.Return(jen.True()))
			}
		}),
		jen.Return(jen.False()),
	)
	return nil
}

// structType declares a struct. methods are the names of methods generated
// for it, which no field may shadow.
func (g *generator) structType(id, name, kind string, attrs []*ir.Attribute, methods ...string) error {
	if err := g.idents.declare(id, kind+" "+name); err != nil {
		return err
	}
	members := scope{}
	for _, m := range methods {
		members[m] = "method " + id + "." + m
	}
	fields := make([]jen.Code, 0, len(attrs))
	for _, a := range attrs {
		if err := members.declare(exportedName(a.Name), "attribute "+name+"."+a.Name); err != nil {
			return err
		}
		t, err := g.fieldType(a.Type, a.Nullable)
		if err != nil {
			return fmt.Errorf("%s.%s: %w", name, a.Name, err)
		}
		fields = append(fields, jen.Id(exportedName(a.Name)).Add(t).Tag(map[string]string{"json": a.Name}))
	}
	g.file.Commentf("%s is the %s %s.", id, name, kind)
	g.file.Type().Id(id).Struct(fields...)
	return nil
}

// fieldType maps a resolved type to Go. Nullable scalars become pointers;
// slices already have a nil state.
func (g *generator) fieldType(t ir.Type, nullable bool) (*jen.Statement, error) {
	base, err := g.goType(t)
	if err != nil {
		return nil, err
	}
	if _, isArray := t.(ir.Array); nullable && !isArray {
		return jen.Op("*").Add(base), nil
	}
	return base, nil
}

func (g *generator) goType(t ir.Type) (*jen.Statement, error) {
	switch t := t.(type) {
	case ir.Boolean:
		return jen.Bool(), nil
	case ir.Number:
		return jen.Float64(), nil
	case ir.String:
		return jen.String(), nil
	case ir.Date:
		return jen.Qual("time", "Time"), nil
	case ir.Array:
		elem, err := g.goType(t.Element)
		if err != nil {
			return nil, err
		}
		return jen.Index().Add(elem), nil
	case ir.EnumRef:
		e, ok := g.schema.Enums[t.Name]
		if !ok {
			return nil, &ir.UnresolvedReferenceError{Name: t.Name}
		}
		return jen.Id(typeName(e.DisplayName, e.Name)), nil
	case ir.CompositeRef:
		c, ok := g.schema.Composites[t.Name]
		if !ok {
			return nil, &ir.UnresolvedReferenceError{Name: t.Name}
		}
		return jen.Id(typeName(c.DisplayName, c.Name)), nil
	default:
		return nil, fmt.Errorf("unexpected type %T", t)
	}
}

func typeName(display, name string) string {
	if display != "" && isIdentifier(display) {
		return display
	}
	return exportedName(name)
}

// exportedName turns any label or identifier into an exported Go name,
// e.g. "in-progress" to "InProgress" and "2fa" to "X2fa".
func exportedName(s string) string {
	mapped := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return '_'
	}, s)
	name := inflect.Camelize(mapped)
	name = strings.ReplaceAll(name, "_", "")
	if name == "" {
		return "Empty"
	}
	if r := []rune(name)[0]; !unicode.IsLetter(r) {
		name = "X" + name
	}
	return name
}

func isIdentifier(s string) bool {
	for i, r := range s {
		if !unicode.IsLetter(r) && r != '_' && (i == 0 || !unicode.IsDigit(r)) {
			return false
		}
	}
	return s != "" && unicode.IsUpper([]rune(s)[0])
}
