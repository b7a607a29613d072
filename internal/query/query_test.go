package query

import (
	"errors"
	"testing"
)

func TestParseDirection(t *testing.T) {
	tests := []struct {
		input   string
		want    Direction
		wantErr bool
	}{
		{input: "asc", want: Asc},
		{input: "desc", want: Desc},
		{input: "ASC", wantErr: true},
		{input: "ascending", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDirection(tt.input)
			if tt.wantErr {
				var dirErr *InvalidOrderDirectionError
				if !errors.As(err, &dirErr) {
					t.Fatalf("expected *InvalidOrderDirectionError, got %v", err)
				}
				if dirErr.Direction != tt.input {
					t.Errorf("Direction = %q, want %q", dirErr.Direction, tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseOperator(t *testing.T) {
	tests := []struct {
		input      string
		wantUnary  UnaryOperator
		wantBinary BinaryOperator
		wantErr    bool
	}{
		{input: "is null", wantUnary: IsNull},
		{input: "is not null", wantUnary: IsNotNull},
		{input: "=", wantBinary: Eq},
		{input: ">=", wantBinary: Gte},
		{input: "<", wantBinary: Lt},
		{input: "like", wantErr: true},
		{input: "!=", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			unary, binary, err := ParseOperator(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if unary != tt.wantUnary || binary != tt.wantBinary {
				t.Errorf("got (%q, %q), want (%q, %q)", unary, binary, tt.wantUnary, tt.wantBinary)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	if err := Validate(Binary{Column: "id", Operator: Eq, Value: 1}); err != nil {
		t.Errorf("valid binary: %v", err)
	}
	if err := Validate(Unary{Column: "id", Operator: IsNull}); err != nil {
		t.Errorf("valid unary: %v", err)
	}
	if err := Validate(Binary{Column: "id", Operator: "is null"}); err == nil {
		t.Error("unary operator accepted in binary condition")
	}
	if err := Validate(Unary{Column: "id", Operator: "="}); err == nil {
		t.Error("binary operator accepted in unary condition")
	}
}
