package interchange

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/pgschema/pgintrospect/internal/ir"
)

func sampleSchema() *ir.Schema {
	s := ir.NewSchema("public")
	s.Enums["mood"] = &ir.EnumType{
		Name:        "mood",
		DisplayName: "Mood",
		Values:      []ir.EnumValue{{Label: "sad", Sort: 1}, {Label: "happy", Sort: 1.5}},
	}
	s.Composites["address"] = &ir.CompositeType{
		Name:        "address",
		DisplayName: "Address",
		Attributes: []*ir.Attribute{
			{Name: "street", Position: 1, Nullable: true, Type: ir.String{}},
			{Name: "zip", Position: 2, Type: ir.Number{}},
		},
	}
	s.Tables["users"] = &ir.Table{
		Name:        "users",
		DisplayName: "Users",
		Kind:        ir.TableKindBase,
		Attributes: []*ir.Attribute{
			{Name: "id", Position: 1, Type: ir.Number{}},
			{Name: "active", Position: 2, Type: ir.Boolean{}},
			{Name: "created_at", Position: 3, Type: ir.Date{}},
			{Name: "home", Position: 4, Nullable: true, Type: ir.CompositeRef{Name: "address"}},
			{Name: "moods", Position: 5, Type: ir.Array{Element: ir.Array{Element: ir.EnumRef{Name: "mood"}}}},
		},
	}
	s.Routines["mood_of"] = &ir.Routine{
		Name:       "mood_of",
		Parameters: []*ir.Attribute{{Name: "user_id", Position: 1, Type: ir.Number{}}},
		Returns:    ir.EnumRef{Name: "mood"},
	}
	return s
}

func TestRoundTrip(t *testing.T) {
	for _, format := range Formats() {
		t.Run(format, func(t *testing.T) {
			want := sampleSchema()
			data, err := Encode(want, format)
			if err != nil {
				t.Fatalf("Encode() error = %v", err)
			}
			got, err := Decode(data, format)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEncodeJSONShape(t *testing.T) {
	data, err := Encode(sampleSchema(), "json")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		`"kind": "array"`,
		`"kind": "enum"`,
		`"name": "mood"`,
		`"kind": "composite"`,
		`"functions"`,
	} {
		if !strings.Contains(string(data), want) {
			t.Errorf("encoded document missing %s", want)
		}
	}
}

func TestDecodeRejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{
			name: "unresolved kind",
			doc:  `{"version":1,"schema":"public","tables":[{"name":"t","attributes":[{"name":"a","type":{"kind":"unresolved","name":"ghost"}}]}]}`,
		},
		{
			name: "unknown kind",
			doc:  `{"version":1,"schema":"public","tables":[{"name":"t","attributes":[{"name":"a","type":{"kind":"blob"}}]}]}`,
		},
		{
			name: "missing type",
			doc:  `{"version":1,"schema":"public","tables":[{"name":"t","attributes":[{"name":"a"}]}]}`,
		},
		{
			name: "dangling enum reference",
			doc:  `{"version":1,"schema":"public","tables":[{"name":"t","attributes":[{"name":"a","type":{"kind":"enum","name":"ghost"}}]}]}`,
		},
		{
			name: "wrong version",
			doc:  `{"version":2,"schema":"public"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode([]byte(tt.doc), "json"); err == nil {
				t.Fatal("expected error")
			}
		})
	}

	_, err := Decode([]byte(`{"version":1,"tables":[{"name":"t","attributes":[{"name":"a","type":{"kind":"unresolved","name":"x"}}]}]}`), "json")
	var invalid *InvalidTypeError
	if !errors.As(err, &invalid) || invalid.Kind != ir.TypeKindUnresolved {
		t.Errorf("expected *InvalidTypeError for unresolved kind, got %v", err)
	}
}

func TestCodecFor(t *testing.T) {
	if _, err := CodecFor("YAML"); err != nil {
		t.Errorf("format names should be case insensitive: %v", err)
	}
	if _, err := CodecFor("xml"); err == nil {
		t.Error("expected error for xml")
	}
}

func TestFormatForPath(t *testing.T) {
	tests := map[string]Format{
		"schema.json":    FormatJSON,
		"out/schema.YML": FormatYAML,
		"schema.yaml":    FormatYAML,
		"schema.msgpack": FormatMsgpack,
		"schema.mp":      FormatMsgpack,
	}
	for path, want := range tests {
		got, ok := FormatForPath(path)
		if !ok || got != want {
			t.Errorf("FormatForPath(%q) = %q, %v; want %q", path, got, ok, want)
		}
	}
	if _, ok := FormatForPath("schema.sql"); ok {
		t.Error("expected no format for .sql")
	}
}
