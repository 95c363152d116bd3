package contract

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/go-cmp/cmp"
)

func newTestBuilder(t *testing.T, method, path string) *Builder {
	t.Helper()
	b := NewBuilder()
	if err := b.SetMethod(method); err != nil {
		t.Fatalf("SetMethod: %v", err)
	}
	if err := b.SetPath(path); err != nil {
		t.Fatalf("SetPath: %v", err)
	}
	return b
}

func apply(t *testing.T, b *Builder, fields ...Field) error {
	t.Helper()
	for _, f := range fields {
		if err := f.Param.FillRequest(f.Name, b); err != nil {
			return err
		}
	}
	return nil
}

func TestBuilder_SubstitutesPlaceholders(t *testing.T) {
	b := newTestBuilder(t, "get", "/orgs/{a}/repos/{b}")
	if err := apply(t, b, Bind("a", InPath("acme")), Bind("b", InPath(7))); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	p, err := b.Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Path() != "/orgs/acme/repos/7" {
		t.Errorf("expected /orgs/acme/repos/7, got %s", p.Path())
	}
	if p.Method() != http.MethodGet {
		t.Errorf("expected method upper-cased to GET, got %s", p.Method())
	}
}

func TestBuilder_RepeatedPlaceholder(t *testing.T) {
	b := newTestBuilder(t, "GET", "/{id}/copy/{id}")
	if err := apply(t, b, Bind("id", InPath("x"))); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p, err := b.Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Path() != "/x/copy/x" {
		t.Errorf("expected /x/copy/x, got %s", p.Path())
	}
}

func TestBuilder_EscapesPathValues(t *testing.T) {
	b := newTestBuilder(t, "GET", "/files/{name}")
	if err := apply(t, b, Bind("name", InPath("a b/{c}"))); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p, err := b.Build()
	if err != nil {
		t.Fatalf("escaped braces must not count as placeholders: %v", err)
	}
	if p.Path() != "/files/a%20b%2F%7Bc%7D" {
		t.Errorf("unexpected escaped path %s", p.Path())
	}
}

func TestBuilder_PathParamWithoutPlaceholder(t *testing.T) {
	b := newTestBuilder(t, "GET", "/users/{id}")
	err := apply(t, b, Bind("uid", InPath("42")))
	if !IsUnresolvedPlaceholder(err) {
		t.Fatalf("expected unresolved placeholder error, got %v", err)
	}

	var be *BuilderError
	if !errors.As(err, &be) || be.Name != "uid" {
		t.Errorf("expected error to name 'uid', got %+v", be)
	}

	if _, err := b.Build(); !IsUnresolvedPlaceholder(err) {
		t.Errorf("Build after failure should return the first error, got %v", err)
	}
}

func TestBuilder_PlaceholderWithoutPathParam(t *testing.T) {
	b := newTestBuilder(t, "GET", "/users/{id}/posts/{post}")
	if err := apply(t, b, Bind("id", InPath("1"))); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err := b.Build()
	if !IsUnresolvedPlaceholder(err) {
		t.Fatalf("expected unresolved placeholder error, got %v", err)
	}
	var be *BuilderError
	if errors.As(err, &be) && be.Name != "post" {
		t.Errorf("expected placeholder 'post', got %q", be.Name)
	}
}

func TestBuilder_DuplicateBody(t *testing.T) {
	type payload struct {
		N int `json:"n"`
	}
	b := newTestBuilder(t, "POST", "/items")
	err := apply(t, b, Bind("first", InBody(payload{1})), Bind("second", InBody(payload{2})))
	if !IsDuplicateBody(err) {
		t.Fatalf("expected duplicate body error, got %v", err)
	}
	if _, err := b.Build(); !IsDuplicateBody(err) {
		t.Errorf("Build should report the duplicate body, got %v", err)
	}
}

func TestBuilder_MissingMethodAndPath(t *testing.T) {
	b := NewBuilder()
	_ = b.SetPath("/x")
	if _, err := b.Build(); !IsMissingMethod(err) {
		t.Errorf("expected missing method, got %v", err)
	}

	b = NewBuilder()
	_ = b.SetMethod("GET")
	if _, err := b.Build(); !IsMissingPath(err) {
		t.Errorf("expected missing path, got %v", err)
	}

	b = NewBuilder()
	if err := b.SetPathParam("id", "1"); !IsMissingPath(err) {
		t.Errorf("path param before path should fail with missing path, got %v", err)
	}
}

func TestBuilder_SetMethodAndPathLastWriteWins(t *testing.T) {
	b := newTestBuilder(t, "GET", "/a")
	_ = b.SetMethod("DELETE")
	_ = b.SetPath("/b")
	p, err := b.Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Method() != "DELETE" || p.Path() != "/b" {
		t.Errorf("expected DELETE /b, got %s %s", p.Method(), p.Path())
	}
}

func TestBuilder_HeaderDeclarationOrder(t *testing.T) {
	b := newTestBuilder(t, "GET", "/")
	if err := apply(t, b, Bind("X-Mode", InHeader("first")), Bind("x-mode", InHeader("second"))); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p, err := b.Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := p.Header("X-Mode"); got != "second" {
		t.Errorf("expected later header to win, got %q", got)
	}
}

func TestBuilder_AddHeadersOverridesParams(t *testing.T) {
	b := newTestBuilder(t, "GET", "/")
	if err := apply(t, b, Bind("Authorization", InHeader("param"))); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_ = b.AddHeaders(map[string]string{"authorization": "custom", "X-Extra": "1"})
	p, err := b.Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := map[string]string{"Authorization": "custom", "X-Extra": "1"}
	if diff := cmp.Diff(want, p.Headers()); diff != "" {
		t.Errorf("headers mismatch (-want +got):\n%s", diff)
	}
}

func TestBuilder_QueryOrderAndDuplicates(t *testing.T) {
	b := newTestBuilder(t, "GET", "/search")
	err := apply(t, b,
		Bind("q", InQuery("go lang")),
		Bind("tag", InQueryList("a", "b")),
		Bind("q", InQuery("again")),
		Bind("limit", InQuery(10)),
		Bind("exact", InQuery(true)),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p, err := b.Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []QueryItem{
		{"q", "go lang"}, {"tag", "a"}, {"tag", "b"}, {"q", "again"}, {"limit", "10"}, {"exact", "true"},
	}
	if diff := cmp.Diff(want, p.Query()); diff != "" {
		t.Errorf("query mismatch (-want +got):\n%s", diff)
	}
	if got := p.URL(); got != "/search?q=go+lang&tag=a&tag=b&q=again&limit=10&exact=true" {
		t.Errorf("unexpected URL %s", got)
	}
}

func TestBuilder_QueryObject(t *testing.T) {
	type filter struct {
		Status string `schema:"status"`
		Page   int    `schema:"page"`
	}
	b := newTestBuilder(t, "GET", "/jobs")
	if err := apply(t, b, Bind("filter", InQueryObject(filter{Status: "done", Page: 2}))); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p, err := b.Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := p.RawQuery(); got != "page=2&status=done" {
		t.Errorf("expected sorted terms, got %s", got)
	}
}

func TestBuilder_BodyEncoding(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}
	b := newTestBuilder(t, "POST", "/users")
	if err := apply(t, b, Bind("body", InBody(payload{Name: "Ann"}))); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p, err := b.Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !p.HasBody() {
		t.Fatal("expected body")
	}
	if string(p.Body()) != `{"name":"Ann"}` {
		t.Errorf("unexpected body %s", p.Body())
	}
	if p.ContentType() != "application/json" {
		t.Errorf("unexpected content type %q", p.ContentType())
	}
}

func TestBuilder_BodyValidation(t *testing.T) {
	type payload struct {
		Email string `json:"email" validate:"required,email"`
	}
	b := NewBuilder(WithBuilderValidator(validator.New()))
	_ = b.SetMethod("POST")
	_ = b.SetPath("/signup")

	err := apply(t, b, Bind("body", InBody(payload{Email: "nope"})))
	if !IsInvalidBody(err) {
		t.Fatalf("expected invalid body error, got %v", err)
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		t.Errorf("expected wrapped validator errors, got %v", err)
	}
}

func TestBuilder_FinalizedAfterBuild(t *testing.T) {
	b := newTestBuilder(t, "GET", "/")
	if _, err := b.Build(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := b.SetHeader("X", "1"); !hasCode(err, ErrCodeFinalized) {
		t.Errorf("expected finalized error, got %v", err)
	}
	if _, err := b.Build(); !hasCode(err, ErrCodeFinalized) {
		t.Errorf("second Build should fail as finalized, got %v", err)
	}
}

func TestParams_AccessorsReturnCopies(t *testing.T) {
	b := newTestBuilder(t, "POST", "/")
	_ = b.SetHeader("X-A", "1")
	_ = b.AddQuery("k", "v")
	_ = b.SetBody("raw", []byte("abc"), "text/plain")
	p, err := b.Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	p.Headers()["X-A"] = "changed"
	p.Query()[0].Value = "changed"
	p.Body()[0] = 'z'

	if p.Header("x-a") != "1" || p.Query()[0].Value != "v" || string(p.Body()) != "abc" {
		t.Error("mutating accessor results must not change Params")
	}
}

func TestStringify(t *testing.T) {
	ts := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	tests := []struct {
		in   any
		want string
	}{
		{"plain", "plain"},
		{42, "42"},
		{int64(-7), "-7"},
		{1.5, "1.5"},
		{true, "true"},
		{[]byte("raw"), "raw"},
		{ts, "2024-05-06T07:08:09Z"},
		{struct{ A int }{1}, "{1}"},
	}
	for _, tt := range tests {
		if got, ok := stringify(tt.in); !ok || got != tt.want {
			t.Errorf("stringify(%#v) = %q, %v; want %q, true", tt.in, got, ok, tt.want)
		}
	}

	var since *time.Time
	for _, in := range []any{nil, since, (*int)(nil)} {
		if got, ok := stringify(in); ok || got != "" {
			t.Errorf("stringify(%#v) = %q, %v; want no wire form", in, got, ok)
		}
	}
}

func TestBuilder_NilPointerValues(t *testing.T) {
	var since *time.Time
	var trace *string
	limit := 5

	b := newTestBuilder(t, "GET", "/events")
	err := apply(t, b,
		Bind("since", InQuery(since)),
		Bind("limit", InQuery(&limit)),
		Bind("at", InQueryList(&eventTime, nil)),
		Bind("X-Trace", InHeader(trace)),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p, err := b.Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := p.RawQuery(); got != "limit=5&at=2024-05-06T07%3A08%3A09Z" {
		t.Errorf("nil query values should add no terms, got %s", got)
	}
	if _, ok := p.Headers()["X-Trace"]; ok {
		t.Error("nil header value should leave the header unset")
	}

	b = newTestBuilder(t, "GET", "/events/{id}")
	var id *string
	err = apply(t, b, Bind("id", InPath(id)))
	if !IsUnresolvedPlaceholder(err) {
		t.Fatalf("expected unresolved placeholder for nil path value, got %v", err)
	}
	var be *BuilderError
	if !errors.As(err, &be) || be.Name != "id" {
		t.Errorf("expected error to name 'id', got %+v", be)
	}
}

var eventTime = time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)

func TestFindPlaceholder(t *testing.T) {
	tests := []struct {
		path string
		name string
		ok   bool
	}{
		{"/users/{id}", "id", true},
		{"/users/42", "", false},
		{"/broken/{id", "", false},
		{"/{a}/{b}", "a", true},
	}
	for _, tt := range tests {
		name, ok := findPlaceholder(tt.path)
		if name != tt.name || ok != tt.ok {
			t.Errorf("findPlaceholder(%q) = %q, %v; want %q, %v", tt.path, name, ok, tt.name, tt.ok)
		}
	}
}
