package ir

import (
	"github.com/pgschema/pgintrospect/internal/utils"
)

// checkCycles walks composite-to-composite references, including those nested
// in arrays, and fails on the first cycle found.
func checkCycles(s *Schema) error {
	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[string]int, len(s.Composites))
	var stack []string

	var visit func(name string) error
	visit = func(name string) error {
		switch state[name] {
		case done:
			return nil
		case visiting:
			path := []string{name}
			for i := len(stack) - 1; i >= 0; i-- {
				path = append([]string{stack[i]}, path...)
				if stack[i] == name {
					break
				}
			}
			return &CyclicReferenceError{Path: path}
		}

		state[name] = visiting
		stack = append(stack, name)
		for _, ref := range compositeRefs(s.Composites[name]) {
			if err := visit(ref); err != nil {
				return err
			}
		}
		stack = stack[:len(stack)-1]
		state[name] = done
		return nil
	}

	for _, name := range utils.SortedKeys(s.Composites) {
		if err := visit(name); err != nil {
			return err
		}
	}
	return nil
}

// compositeRefs lists the composite types referenced by c's attributes.
func compositeRefs(c *CompositeType) []string {
	if c == nil {
		return nil
	}
	var refs []string
	for _, attr := range c.Attributes {
		if ref, ok := ElementType(attr.Type).(CompositeRef); ok {
			refs = append(refs, ref.Name)
		}
	}
	return refs
}
