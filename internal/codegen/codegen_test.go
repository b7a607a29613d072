package codegen

import (
	"errors"
	"go/parser"
	"go/token"
	"strings"
	"testing"

	"github.com/pgschema/pgintrospect/internal/ir"
)

func testSchema() *ir.Schema {
	s := ir.NewSchema("public")
	s.Enums["job_state"] = &ir.EnumType{
		Name:        "job_state",
		DisplayName: "JobState",
		Values:      []ir.EnumValue{{Label: "queued", Sort: 1}, {Label: "in-progress", Sort: 2}},
	}
	s.Composites["address"] = &ir.CompositeType{
		Name:        "address",
		DisplayName: "Address",
		Attributes:  []*ir.Attribute{{Name: "street", Position: 1, Nullable: true, Type: ir.String{}}},
	}
	s.Tables["user_account"] = &ir.Table{
		Name:        "user_account",
		DisplayName: "UserAccount",
		Kind:        ir.TableKindBase,
		Attributes: []*ir.Attribute{
			{Name: "id", Position: 1, Type: ir.Number{}},
			{Name: "active", Position: 2, Type: ir.Boolean{}},
			{Name: "created_at", Position: 3, Nullable: true, Type: ir.Date{}},
			{Name: "home", Position: 4, Nullable: true, Type: ir.CompositeRef{Name: "address"}},
			{Name: "states", Position: 5, Nullable: true, Type: ir.Array{Element: ir.EnumRef{Name: "job_state"}}},
		},
	}
	return s
}

func TestGenerate(t *testing.T) {
	src, err := Generate(testSchema(), "models")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	code := string(src)
	flat := strings.Join(strings.Fields(code), " ")

	if _, err := parser.ParseFile(token.NewFileSet(), "models.go", src, parser.AllErrors); err != nil {
		t.Fatalf("generated code does not parse: %v\n%s", err, code)
	}

	for _, want := range []string{
		"// Code generated by pgintrospect. DO NOT EDIT.",
		"package models",
		"type JobState string",
		`JobStateQueued JobState = "queued"`,
		`JobStateInProgress JobState = "in-progress"`,
		"func (v JobState) Valid() bool",
		"type Address struct",
		"Street *string `json:\"street\"`",
		"type UserAccount struct",
		"Id float64 `json:\"id\"`",
		"CreatedAt *time.Time `json:\"created_at\"`",
		"Home *Address `json:\"home\"`",
		"States []JobState `json:\"states\"`",
		`func (UserAccount) TableName() string`,
		`"time"`,
	} {
		if !strings.Contains(flat, want) {
			t.Errorf("generated code missing %q\n%s", want, code)
		}
	}
}

func TestGenerate_DanglingReference(t *testing.T) {
	s := ir.NewSchema("public")
	s.Tables["t"] = &ir.Table{
		Name:       "t",
		Attributes: []*ir.Attribute{{Name: "a", Position: 1, Type: ir.EnumRef{Name: "ghost"}}},
	}
	if _, err := Generate(s, "models"); err == nil {
		t.Fatal("expected error for reference to a missing enum")
	}
}

func TestExportedName(t *testing.T) {
	tests := map[string]string{
		"user_account": "UserAccount",
		"in-progress":  "InProgress",
		"":             "Empty",
	}
	for in, want := range tests {
		if got := exportedName(in); got != want {
			t.Errorf("exportedName(%q) = %q, want %q", in, got, want)
		}
	}
	if got := exportedName("2fa"); !strings.HasPrefix(got, "X") {
		t.Errorf("exportedName(%q) = %q, want an X prefix", "2fa", got)
	}
}

func TestGenerate_NameCollision(t *testing.T) {
	tests := []struct {
		name   string
		schema func() *ir.Schema
		ident  string
	}{
		{
			name: "tables",
			schema: func() *ir.Schema {
				s := ir.NewSchema("public")
				s.Tables["user_account"] = &ir.Table{Name: "user_account", DisplayName: "UserAccount"}
				s.Tables["UserAccount"] = &ir.Table{Name: "UserAccount", DisplayName: "UserAccount"}
				return s
			},
			ident: "UserAccount",
		},
		{
			name: "enum label and type",
			schema: func() *ir.Schema {
				s := ir.NewSchema("public")
				s.Enums["job"] = &ir.EnumType{Name: "job", DisplayName: "Job", Values: []ir.EnumValue{{Label: "state", Sort: 1}}}
				s.Composites["job_state"] = &ir.CompositeType{Name: "job_state", DisplayName: "JobState"}
				return s
			},
			ident: "JobState",
		},
		{
			name: "enum labels",
			schema: func() *ir.Schema {
				s := ir.NewSchema("public")
				s.Enums["job_state"] = &ir.EnumType{
					Name:        "job_state",
					DisplayName: "JobState",
					Values:      []ir.EnumValue{{Label: "in-progress", Sort: 1}, {Label: "in_progress", Sort: 2}},
				}
				return s
			},
			ident: "JobStateInProgress",
		},
		{
			name: "columns",
			schema: func() *ir.Schema {
				s := ir.NewSchema("public")
				s.Tables["t"] = &ir.Table{Name: "t", DisplayName: "T", Attributes: []*ir.Attribute{
					{Name: "user_id", Position: 1, Type: ir.Number{}},
					{Name: "UserId", Position: 2, Type: ir.Number{}},
				}}
				return s
			},
			ident: "UserId",
		},
		{
			name: "column shadows method",
			schema: func() *ir.Schema {
				s := ir.NewSchema("public")
				s.Tables["t"] = &ir.Table{Name: "t", DisplayName: "T", Attributes: []*ir.Attribute{
					{Name: "table_name", Position: 1, Type: ir.String{}},
				}}
				return s
			},
			ident: "TableName",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Generate(tt.schema(), "models")
			var collision *NameCollisionError
			if !errors.As(err, &collision) {
				t.Fatalf("expected *NameCollisionError, got %v", err)
			}
			if collision.Ident != tt.ident {
				t.Errorf("Ident = %q, want %q", collision.Ident, tt.ident)
			}
		})
	}
}
