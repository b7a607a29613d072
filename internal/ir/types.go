package ir

// TypeKind is the discriminator of an attribute type.
type TypeKind string

const (
	TypeKindBoolean    TypeKind = "boolean"
	TypeKindNumber     TypeKind = "number"
	TypeKindString     TypeKind = "string"
	TypeKindDate       TypeKind = "date"
	TypeKindArray      TypeKind = "array"
	TypeKindEnum       TypeKind = "enum"
	TypeKindComposite  TypeKind = "composite"
	TypeKindUnresolved TypeKind = "unresolved"
)

// DraftType is an attribute type between deduction and resolution.
// Every Type is a DraftType; Unresolved and DraftArray exist only in drafts.
type DraftType interface {
	Kind() TypeKind
	isDraftType()
}

// Type is a resolved attribute type. The implementations are Boolean, Number,
// String, Date, Array, EnumRef and CompositeRef.
type Type interface {
	DraftType
	isType()
}

// Boolean is a boolean attribute.
type Boolean struct{}

// Number is any numeric attribute.
type Number struct{}

// String is any text or identifier attribute.
type String struct{}

// Date is any timestamp family attribute.
type Date struct{}

// Array is an array of Element.
type Array struct {
	Element Type
}

// EnumRef references an enumeration of the same schema by name.
type EnumRef struct {
	Name string
}

// CompositeRef references a composite type of the same schema by name.
type CompositeRef struct {
	Name string
}

// Unresolved is a user-defined type name that has not been matched against
// the schema's composites and enums yet.
type Unresolved struct {
	Name string
}

// DraftArray is an array whose element may still hold an Unresolved name.
type DraftArray struct {
	Element DraftType
}

func (Boolean) Kind() TypeKind      { return TypeKindBoolean }
func (Number) Kind() TypeKind       { return TypeKindNumber }
func (String) Kind() TypeKind       { return TypeKindString }
func (Date) Kind() TypeKind         { return TypeKindDate }
func (Array) Kind() TypeKind        { return TypeKindArray }
func (EnumRef) Kind() TypeKind      { return TypeKindEnum }
func (CompositeRef) Kind() TypeKind { return TypeKindComposite }
func (Unresolved) Kind() TypeKind   { return TypeKindUnresolved }
func (DraftArray) Kind() TypeKind   { return TypeKindArray }

func (Boolean) isDraftType()      {}
func (Number) isDraftType()       {}
func (String) isDraftType()       {}
func (Date) isDraftType()         {}
func (Array) isDraftType()        {}
func (EnumRef) isDraftType()      {}
func (CompositeRef) isDraftType() {}
func (Unresolved) isDraftType()   {}
func (DraftArray) isDraftType()   {}

func (Boolean) isType()      {}
func (Number) isType()       {}
func (String) isType()       {}
func (Date) isType()         {}
func (Array) isType()        {}
func (EnumRef) isType()      {}
func (CompositeRef) isType() {}

// FormatType renders a type for messages and logs, e.g. "enum mood[]".
func FormatType(t DraftType) string {
	switch t := t.(type) {
	case nil:
		return "<nil>"
	case Array:
		return FormatType(t.Element) + "[]"
	case DraftArray:
		return FormatType(t.Element) + "[]"
	case EnumRef:
		return "enum " + t.Name
	case CompositeRef:
		return "composite " + t.Name
	case Unresolved:
		return "unresolved " + t.Name
	default:
		return string(t.Kind())
	}
}

// ElementType strips every array level from t.
func ElementType(t Type) Type {
	for {
		arr, ok := t.(Array)
		if !ok {
			return t
		}
		t = arr.Element
	}
}
