package ir

import (
	"slices"
	"strings"
)

const (
	dataTypeUserDefined = "USER-DEFINED"
	dataTypeArray       = "ARRAY"

	// notNullSuffix marks domains used to declare non-null composite attributes,
	// e.g. "create domain text_not_null as text not null".
	notNullSuffix = "_not_null"
	// arrayPrefix is how pg_type names array element types, e.g. "_int4".
	arrayPrefix = "_"
)

var booleanTypes = map[string]bool{
	"boolean": true,
	"bool":    true,
}

var numberTypes = map[string]bool{
	"smallint":         true,
	"integer":          true,
	"bigint":           true,
	"numeric":          true,
	"decimal":          true,
	"real":             true,
	"double precision": true,
	"int2":             true,
	"int4":             true,
	"int8":             true,
	"float4":           true,
	"float8":           true,
	"money":            true,
	"oid":              true,
	"smallserial":      true,
	"serial":           true,
	"bigserial":        true,
}

var stringTypes = map[string]bool{
	"text":              true,
	"character varying": true,
	"varchar":           true,
	"character":         true,
	"char":              true,
	"bpchar":            true,
	"name":              true,
	"citext":            true,
	"uuid":              true,
	"inet":              true,
	"cidr":              true,
	"macaddr":           true,
}

var dateTypes = map[string]bool{
	"timestamp":                   true,
	"timestamptz":                 true,
	"timestamp without time zone": true,
	"timestamp with time zone":    true,
	"date":                        true,
	"time":                        true,
	"timetz":                      true,
	"time without time zone":      true,
	"time with time zone":         true,
}

// TypeOverrides are caller supplied allow-lists of catalog type names, raw or
// underlying, to treat as numbers or strings.
type TypeOverrides struct {
	Numbers []string
	Strings []string
}

func (o TypeOverrides) isNumber(names ...string) bool {
	return containsAny(o.Numbers, names)
}

func (o TypeOverrides) isString(names ...string) bool {
	return containsAny(o.Strings, names)
}

func containsAny(list, names []string) bool {
	for _, name := range names {
		if name != "" && slices.Contains(list, name) {
			return true
		}
	}
	return false
}

// Deduce maps one raw attribute to a draft type. It also returns the
// attribute's effective nullability, which a "_not_null" domain forces to false.
// Attributes that match no rule fail with *UnsupportedTypeError.
func Deduce(attr RawAttribute, overrides TypeOverrides) (DraftType, bool, error) {
	name, nullable := stripNotNull(attr.UDTName, attr.Nullable)

	// The element name of an array must not be mistaken for the attribute's own type.
	// An array udt always carries the element prefix; a name without one is a
	// domain over an array and says nothing about the element.
	if attr.DataType == dataTypeArray {
		if elem, ok := strings.CutPrefix(name, arrayPrefix); ok && elem != "" {
			return DraftArray{Element: element(elem, overrides)}, nullable, nil
		}
	} else {
		udt := strings.TrimPrefix(name, arrayPrefix)
		if t, ok := primitive(attr.DataType, udt, overrides); ok {
			return t, nullable, nil
		}
		if attr.DataType == dataTypeUserDefined && udt != "" {
			return Unresolved{Name: udt}, nullable, nil
		}
	}

	return nil, nullable, &UnsupportedTypeError{
		Attribute: attr.Name,
		DataType:  attr.DataType,
		UDTName:   attr.UDTName,
	}
}

// stripNotNull removes the not-null domain suffix and reports the nullability
// that follows from it.
func stripNotNull(name string, nullable bool) (string, bool) {
	if base, ok := strings.CutSuffix(name, notNullSuffix); ok && base != "" {
		return base, false
	}
	return name, nullable
}

// element deduces an array element type. Every remaining array prefix is one
// more level of nesting.
func element(name string, overrides TypeOverrides) DraftType {
	if inner, ok := strings.CutPrefix(name, arrayPrefix); ok && inner != "" {
		return DraftArray{Element: element(inner, overrides)}
	}
	if t, ok := primitive(name, name, overrides); ok {
		return t
	}
	return Unresolved{Name: name}
}

// primitive applies the built-in rules in precedence order: boolean, number,
// string, date.
func primitive(dataType, udt string, overrides TypeOverrides) (Type, bool) {
	raw := strings.ToLower(dataType)
	under := strings.ToLower(udt)

	switch {
	case booleanTypes[raw] || booleanTypes[under]:
		return Boolean{}, true
	case numberTypes[raw] || numberTypes[under] || overrides.isNumber(dataType, udt):
		return Number{}, true
	case stringTypes[raw] || stringTypes[under] || overrides.isString(dataType, udt):
		return String{}, true
	case dateTypes[raw] || dateTypes[under]:
		return Date{}, true
	}
	return nil, false
}
