package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pgschema/pgintrospect/internal/config"
	"github.com/pgschema/pgintrospect/internal/interchange"
	"github.com/pgschema/pgintrospect/internal/ir"
)

func TestReadSchemaFile(t *testing.T) {
	s, _, err := ir.Build(ir.Facts{
		Schema: "app",
		Tables: []ir.RawTable{{Name: "users", Columns: []ir.RawAttribute{
			{Name: "id", Position: 1, DataType: "integer", UDTName: "int4"},
		}}},
	}, ir.TypeOverrides{})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	data, err := interchange.Encode(s, "yaml")
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	path := filepath.Join(t.TempDir(), "schema.yaml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := ReadSchemaFile(path)
	if err != nil {
		t.Fatalf("ReadSchemaFile() error = %v", err)
	}
	if got.Tables["users"] == nil {
		t.Error("users table missing after reading document")
	}

	if _, err := ReadSchemaFile(filepath.Join(t.TempDir(), "schema.sql")); err == nil {
		t.Error("expected error for unknown extension")
	}
}

func TestInspectorOptions(t *testing.T) {
	cfg := &config.Config{
		Schema:      "app",
		Concurrency: 8,
		Types:       config.TypesConfig{Numbers: []string{"money"}, Strings: []string{"jsonb"}},
	}
	opts := InspectorOptions(cfg, nil)
	if opts.Schema != "app" || opts.Concurrency != 8 {
		t.Errorf("options = %+v", opts)
	}
	if len(opts.Types.Numbers) != 1 || opts.Types.Strings[0] != "jsonb" {
		t.Errorf("type overrides = %+v", opts.Types)
	}
}

func TestWithApplicationName(t *testing.T) {
	tests := map[string]string{
		"postgres://u@h:5432/db":                       "postgres://u@h:5432/db?application_name=pgintrospect",
		"postgres://u@h:5432/db?application_name=mine": "postgres://u@h:5432/db?application_name=mine",
		"host=h dbname=db":                             "host=h dbname=db",
	}
	for in, want := range tests {
		if got := withApplicationName(in); got != want {
			t.Errorf("withApplicationName(%q) = %q, want %q", in, got, want)
		}
	}
}
