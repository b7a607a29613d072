package ir

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func sampleFacts() Facts {
	return Facts{
		Schema: "public",
		Enums: []RawEnum{
			{Name: "mood", Labels: []EnumValue{{Label: "happy", Sort: 2}, {Label: "sad", Sort: 1}}},
		},
		Composites: []RawComposite{
			{Name: "address", Attributes: []RawAttribute{
				{Name: "street", Position: 1, DataType: "text", UDTName: "text", Nullable: true},
				{Name: "geo", Position: 2, DataType: "USER-DEFINED", UDTName: "point_ll"},
			}},
			// declared after address on purpose
			{Name: "point_ll", Attributes: []RawAttribute{
				{Name: "lat", Position: 1, DataType: "double precision", UDTName: "float8"},
				{Name: "lng", Position: 2, DataType: "double precision", UDTName: "float8"},
			}},
		},
		Tables: []RawTable{
			{Name: "user_account", Columns: []RawAttribute{
				{Name: "moods", Position: 3, DataType: "ARRAY", UDTName: "__mood"},
				{Name: "id", Position: 1, DataType: "integer", UDTName: "int4"},
				{Name: "home", Position: 2, DataType: "USER-DEFINED", UDTName: "address_not_null", Nullable: true},
			}},
		},
		Routines: []RawRoutine{
			{
				Name:       "mood_of",
				Parameters: []RawAttribute{{Name: "user_id", Position: 1, DataType: "integer", UDTName: "int4"}},
				Returns:    RawAttribute{DataType: "USER-DEFINED", UDTName: "mood"},
			},
		},
	}
}

func TestBuild(t *testing.T) {
	s, resolved, err := Build(sampleFacts(), TypeOverrides{})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	// address.geo, user_account.moods, user_account.home, mood_of return
	if resolved != 4 {
		t.Errorf("resolved = %d, want 4", resolved)
	}

	table := s.Tables["user_account"]
	if table.DisplayName != "UserAccount" {
		t.Errorf("DisplayName = %q, want UserAccount", table.DisplayName)
	}
	if table.Kind != TableKindBase {
		t.Errorf("Kind = %q, want %q", table.Kind, TableKindBase)
	}

	want := []*Attribute{
		{Name: "id", Position: 1, Type: Number{}},
		{Name: "home", Position: 2, Nullable: false, Type: CompositeRef{Name: "address"}},
		{Name: "moods", Position: 3, Type: Array{Element: Array{Element: EnumRef{Name: "mood"}}}},
	}
	if diff := cmp.Diff(want, table.Attributes); diff != "" {
		t.Errorf("table attributes mismatch (-want +got):\n%s", diff)
	}

	geo, ok := s.Composites["address"].Attribute("geo")
	if !ok {
		t.Fatal("address.geo not found")
	}
	if diff := cmp.Diff(Type(CompositeRef{Name: "point_ll"}), geo.Type); diff != "" {
		t.Errorf("forward reference mismatch (-want +got):\n%s", diff)
	}

	if got := s.Enums["mood"].Labels(); !cmp.Equal(got, []string{"sad", "happy"}) {
		t.Errorf("enum labels = %v, want [sad happy]", got)
	}

	if diff := cmp.Diff(Type(EnumRef{Name: "mood"}), s.Routines["mood_of"].Returns); diff != "" {
		t.Errorf("routine return mismatch (-want +got):\n%s", diff)
	}
}

func TestResolve_Idempotent(t *testing.T) {
	s, _, err := Build(sampleFacts(), TypeOverrides{})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	again, resolved, err := Resolve(s.Draft())
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if resolved != 0 {
		t.Errorf("resolved = %d, want 0", resolved)
	}
	if diff := cmp.Diff(s, again); diff != "" {
		t.Errorf("re-resolution changed the schema (-first +second):\n%s", diff)
	}
}

func TestResolve_Complete(t *testing.T) {
	s, _, err := Build(sampleFacts(), TypeOverrides{})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	var attrs []*Attribute
	for _, c := range s.Composites {
		attrs = append(attrs, c.Attributes...)
	}
	for _, tbl := range s.Tables {
		attrs = append(attrs, tbl.Attributes...)
	}
	for _, r := range s.Routines {
		attrs = append(attrs, r.Parameters...)
	}
	for _, a := range attrs {
		if strings.Contains(FormatType(a.Type), string(TypeKindUnresolved)) {
			t.Errorf("attribute %s still unresolved: %s", a.Name, FormatType(a.Type))
		}
	}
}

func TestResolve_MissingReference(t *testing.T) {
	d := NewDraft("public")
	d.Tables["users"] = &DraftTable{
		Name: "users",
		Attributes: []*DraftAttribute{
			{Name: "haunt", Position: 1, Type: DraftArray{Element: Unresolved{Name: "ghost"}}},
		},
	}

	_, _, err := Resolve(d)
	var ref *UnresolvedReferenceError
	if !errors.As(err, &ref) {
		t.Fatalf("expected *UnresolvedReferenceError, got %v", err)
	}
	if ref.Name != "ghost" {
		t.Errorf("Name = %q, want ghost", ref.Name)
	}
	if ref.Owner != "users" || ref.Attribute != "haunt" {
		t.Errorf("location = %s.%s, want users.haunt", ref.Owner, ref.Attribute)
	}
	if !strings.Contains(err.Error(), `"ghost"`) {
		t.Errorf("error %q does not name the missing type", err)
	}
}

func TestResolve_CompositeBeforeEnum(t *testing.T) {
	d := NewDraft("public")
	d.Enums["status"] = &EnumType{Name: "status"}
	d.Composites["status"] = &DraftComposite{Name: "status"}
	d.Tables["jobs"] = &DraftTable{
		Name:       "jobs",
		Attributes: []*DraftAttribute{{Name: "state", Position: 1, Type: Unresolved{Name: "status"}}},
	}

	s, _, err := Resolve(d)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if diff := cmp.Diff(Type(CompositeRef{Name: "status"}), s.Tables["jobs"].Attributes[0].Type); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestResolve_Cycle(t *testing.T) {
	tests := []struct {
		name       string
		composites map[string][]RawAttribute
		wantPath   []string
	}{
		{
			name: "mutual",
			composites: map[string][]RawAttribute{
				"a": {{Name: "b", Position: 1, DataType: "USER-DEFINED", UDTName: "b"}},
				"b": {{Name: "a", Position: 1, DataType: "ARRAY", UDTName: "_a"}},
			},
			wantPath: []string{"a", "b", "a"},
		},
		{
			name: "self",
			composites: map[string][]RawAttribute{
				"node": {{Name: "children", Position: 1, DataType: "ARRAY", UDTName: "_node"}},
			},
			wantPath: []string{"node", "node"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			facts := Facts{Schema: "public"}
			for name, attrs := range tt.composites {
				facts.Composites = append(facts.Composites, RawComposite{Name: name, Attributes: attrs})
			}

			_, _, err := Build(facts, TypeOverrides{})
			var cyc *CyclicReferenceError
			if !errors.As(err, &cyc) {
				t.Fatalf("expected *CyclicReferenceError, got %v", err)
			}
			if diff := cmp.Diff(tt.wantPath, cyc.Path); diff != "" {
				t.Errorf("path mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBuild_Errors(t *testing.T) {
	t.Run("unsupported type names its owner", func(t *testing.T) {
		facts := Facts{Tables: []RawTable{{
			Name:    "places",
			Columns: []RawAttribute{{Name: "shape", Position: 1, DataType: "polygon", UDTName: "polygon"}},
		}}}
		_, _, err := Build(facts, TypeOverrides{})
		var unsupported *UnsupportedTypeError
		if !errors.As(err, &unsupported) {
			t.Fatalf("expected *UnsupportedTypeError, got %v", err)
		}
		if unsupported.Owner != "places" || unsupported.Attribute != "shape" {
			t.Errorf("location = %s.%s, want places.shape", unsupported.Owner, unsupported.Attribute)
		}
	})

	t.Run("duplicate enum label", func(t *testing.T) {
		facts := Facts{Enums: []RawEnum{{
			Name:   "mood",
			Labels: []EnumValue{{Label: "ok", Sort: 1}, {Label: "ok", Sort: 2}},
		}}}
		if _, _, err := Build(facts, TypeOverrides{}); err == nil {
			t.Fatal("expected duplicate label error")
		}
	})

	t.Run("overloaded routine keeps first", func(t *testing.T) {
		facts := Facts{Routines: []RawRoutine{
			{Name: "add", Parameters: []RawAttribute{{Name: "a", Position: 1, DataType: "integer"}}, Returns: RawAttribute{DataType: "integer"}},
			{Name: "add", Parameters: []RawAttribute{{Name: "a", Position: 1, DataType: "text"}}, Returns: RawAttribute{DataType: "text"}},
		}}
		s, _, err := Build(facts, TypeOverrides{})
		if err != nil {
			t.Fatalf("Build() error = %v", err)
		}
		if diff := cmp.Diff(Type(Number{}), s.Routines["add"].Returns); diff != "" {
			t.Errorf("mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestBuild_RowTypeRoutines(t *testing.T) {
	orders := RawTable{Name: "orders", Columns: []RawAttribute{
		{Name: "id", Position: 1, DataType: "integer", UDTName: "int4"},
	}}
	facts := Facts{
		Tables:   []RawTable{orders},
		RowTypes: []string{"audit_log"},
		Routines: []RawRoutine{
			{Name: "recent_orders", Returns: RawAttribute{DataType: "USER-DEFINED", UDTName: "orders"}},
			{
				Name:       "archive",
				Parameters: []RawAttribute{{Name: "rows", Position: 1, DataType: "ARRAY", UDTName: "_orders"}},
				Returns:    RawAttribute{DataType: "integer", UDTName: "int4"},
			},
			{Name: "last_entry", Returns: RawAttribute{DataType: "USER-DEFINED", UDTName: "audit_log"}},
			// same name as a skipped routine; this overload is kept
			{Name: "recent_orders", Returns: RawAttribute{DataType: "integer", UDTName: "int4"}},
		},
	}

	s, _, err := Build(facts, TypeOverrides{})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	for _, name := range []string{"archive", "last_entry"} {
		if _, ok := s.Routines[name]; ok {
			t.Errorf("routine %s should be skipped", name)
		}
	}
	kept := s.Routines["recent_orders"]
	if kept == nil {
		t.Fatal("recent_orders overload without row type not kept")
	}
	if diff := cmp.Diff(Type(Number{}), kept.Returns); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}
