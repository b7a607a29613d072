package ir

import (
	"fmt"
	"strings"
)

// UnsupportedTypeError reports a catalog type that no deduction rule matches.
type UnsupportedTypeError struct {
	Owner     string // table, composite or routine name
	Attribute string
	DataType  string
	UDTName   string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported type %q (udt %q) for %s", e.DataType, e.UDTName, qualify(e.Owner, e.Attribute))
}

// UnresolvedReferenceError reports a user-defined type name that matches
// neither a composite type nor an enum of the schema.
type UnresolvedReferenceError struct {
	Name      string
	Owner     string
	Attribute string
}

func (e *UnresolvedReferenceError) Error() string {
	if e.Owner == "" && e.Attribute == "" {
		return fmt.Sprintf("unresolved type reference %q", e.Name)
	}
	return fmt.Sprintf("unresolved type reference %q in %s", e.Name, qualify(e.Owner, e.Attribute))
}

// CyclicReferenceError reports composite types that embed each other.
type CyclicReferenceError struct {
	Path []string // first and last element are the same type
}

func (e *CyclicReferenceError) Error() string {
	return "cyclic composite type reference: " + strings.Join(e.Path, " -> ")
}

func qualify(owner, attribute string) string {
	switch {
	case owner == "":
		return attribute
	case attribute == "":
		return owner
	default:
		return owner + "." + attribute
	}
}
