package validation

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type address struct {
	City string `json:"city" validate:"required"`
}

type signup struct {
	Email    string  `json:"email" validate:"required,email"`
	Name     string  `json:"name,omitempty" validate:"min=2"`
	Age      int     `validate:"gte=18"`
	Address  address `json:"address"`
	Internal string  `json:"-" validate:"required"`
}

func TestDescribeUsesJSONNames(t *testing.T) {
	err := New().Struct(signup{Email: "nope", Name: "A", Age: 3, Internal: "x"})
	if err == nil {
		t.Fatal("expected validation error")
	}

	want := []FieldError{
		{Field: "email", Rule: "email", Message: "must be a valid email address"},
		{Field: "name", Rule: "min", Message: "must be at least 2"},
		{Field: "age", Rule: "gte", Message: "must be at least 18"},
		{Field: "address.city", Rule: "required", Message: "is required"},
	}
	if diff := cmp.Diff(want, Fields(err)); diff != "" {
		t.Errorf("field errors mismatch (-want +got):\n%s", diff)
	}

	wantMsg := "email: must be a valid email address; name: must be at least 2; age: must be at least 18; address.city: is required"
	if got := Describe(err); got != wantMsg {
		t.Errorf("Describe() = %q, want %q", got, wantMsg)
	}
}

func TestValidStruct(t *testing.T) {
	err := New().Struct(signup{Email: "a@b.co", Name: "Ann", Age: 30, Address: address{City: "Oslo"}, Internal: "x"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if Describe(nil) != "" || Fields(nil) != nil {
		t.Error("nil error should describe as empty")
	}
}

func TestDescribeOtherErrors(t *testing.T) {
	err := errors.New("plain")
	if Describe(err) != "plain" {
		t.Errorf("unexpected description %q", Describe(err))
	}
	if Fields(err) != nil {
		t.Error("plain errors have no field errors")
	}
}

func TestToSnakeCase(t *testing.T) {
	tests := map[string]string{
		"Name":      "name",
		"FirstName": "first_name",
		"age":       "age",
	}
	for in, want := range tests {
		if got := toSnakeCase(in); got != want {
			t.Errorf("toSnakeCase(%q) = %q, want %q", in, got, want)
		}
	}
}
