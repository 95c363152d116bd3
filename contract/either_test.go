package contract

import (
	"encoding/json"
	"testing"

	"github.com/kbukum/apicontract/codec"
)

type job struct {
	ID string `json:"id"`
}

type problem struct {
	Code int `json:"code"`
}

func TestEither_AcceptsEmptyBody(t *testing.T) {
	if acceptsEmpty[Either[job, problem]]() {
		t.Error("Either without an empty-capable arm must not accept empty bodies")
	}
	if !acceptsEmpty[Either[job, EmptyResponse]]() {
		t.Error("Either with EmptyResponse on the right should accept empty bodies")
	}
	if !acceptsEmpty[Either[EmptyResponse, job]]() {
		t.Error("Either with EmptyResponse on the left should accept empty bodies")
	}
	if !acceptsEmpty[EmptyResponse]() || acceptsEmpty[job]() || acceptsEmpty[*EmptyResponse]() {
		t.Error("unexpected acceptsEmpty result for plain types")
	}
}

func TestEither_DecodeArms(t *testing.T) {
	var e Either[job, problem]
	if err := (codec.JSON{}).Decode([]byte(`{"code":429}`), &e); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p, ok := e.Right()
	if !ok || p.Code != 429 {
		t.Fatalf("expected right arm with code 429, got %+v", e)
	}

	if err := (codec.JSON{}).Decode([]byte(`{"id":"j1"}`), &e); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	j, ok := e.Left()
	if !ok || j.ID != "j1" {
		t.Fatalf("expected left arm with id j1, got %+v", e)
	}
	if _, ok := e.Right(); ok {
		t.Error("right arm must be cleared after decoding left")
	}
}

func TestEither_DecodeNoArmMatches(t *testing.T) {
	var e Either[job, problem]
	err := (codec.JSON{}).Decode([]byte(`{"other":true}`), &e)
	de, ok := err.(*codec.DecodeError)
	if !ok {
		t.Fatalf("expected *codec.DecodeError, got %T: %v", err, err)
	}
	if de.Kind != codec.KindKeyNotFound || de.Key != "id" {
		t.Errorf("expected the left arm's missing key, got %s %q", de.Kind, de.Key)
	}
}

func TestEither_EmptyArmDoesNotAbsorbPayloads(t *testing.T) {
	var e Either[job, EmptyResponse]
	err := (codec.JSON{}).Decode([]byte(`{"other":true}`), &e)
	if !codec.IsKeyNotFound(err) {
		t.Fatalf("expected the regular arm's error, got %v (result %+v)", err, e)
	}

	var both Either[EmptyResponse, EmptyResponse]
	if err := (codec.JSON{}).Decode([]byte(`{"other":true}`), &both); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !both.IsLeft() {
		t.Error("with two empty-capable arms the left arm should win")
	}
}

func TestEither_MarshalJSON(t *testing.T) {
	left, err := json.Marshal(NewLeft[job, problem](job{ID: "a"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(left) != `{"id":"a"}` {
		t.Errorf("unexpected left encoding %s", left)
	}
	right, err := json.Marshal(NewRight[job, problem](problem{Code: 1}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(right) != `{"code":1}` {
		t.Errorf("unexpected right encoding %s", right)
	}
}

func TestIsEmptyObject(t *testing.T) {
	tests := map[string]bool{
		`{}`:       true,
		" { \n } ": true,
		`{"a":1}`:  false,
		`[]`:       false,
		``:         false,
		`null`:     false,
	}
	for in, want := range tests {
		if got := isEmptyObject([]byte(in)); got != want {
			t.Errorf("isEmptyObject(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestPreview(t *testing.T) {
	if got := preview([]byte("short")); got != "short" {
		t.Errorf("unexpected preview %q", got)
	}
	if got := preview([]byte{0xc3}); got != noPreview {
		t.Errorf("invalid UTF-8 should not be previewed, got %q", got)
	}

	// A two-byte rune straddling the limit is dropped.
	data := make([]byte, 0, previewLimit+10)
	for len(data) < previewLimit-1 {
		data = append(data, 'a')
	}
	data = append(data, "éxyz"...)
	got := preview(data)
	if len(got) != previewLimit-1 {
		t.Errorf("expected %d bytes, got %d", previewLimit-1, len(got))
	}
}
