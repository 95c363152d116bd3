package contract

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/kbukum/apicontract/codec"
)

const (
	// previewLimit bounds the payload preview in a Diagnostic.
	previewLimit = 500

	noPreview = "unable to preview"
)

// Diagnostic describes a decode failure for humans.
type Diagnostic struct {
	// Method and Path identify the request whose response failed to decode.
	Method string
	Path   string
	// Kind classifies the failure.
	Kind codec.DecodeErrorKind
	// Key is the missing key for codec.KindKeyNotFound.
	Key string
	// Type is the expected type for type mismatches and missing values.
	Type string
	// CodingPath locates the failure inside the payload.
	CodingPath []string
	// Debug is the codec's note.
	Debug string
	// Preview is the start of the payload as text, or "unable to preview".
	Preview string
	// Err is the decode error.
	Err error
}

// NewDiagnostic describes err, a failure to decode data, for the request p.
func NewDiagnostic(p Params, err error, data []byte) Diagnostic {
	d := Diagnostic{
		Method:  p.Method(),
		Path:    p.Path(),
		Kind:    codec.KindUnknown,
		Preview: preview(data),
		Err:     err,
	}
	var de *codec.DecodeError
	if errors.As(err, &de) {
		d.Kind = de.Kind
		d.Key = de.Key
		d.Type = de.Type
		d.CodingPath = de.Path
		d.Debug = de.Debug
	}
	return d
}

// String renders the diagnostic as a single line.
func (d Diagnostic) String() string {
	var head string
	switch d.Kind {
	case codec.KindKeyNotFound:
		head = fmt.Sprintf("Key '%s' not found.", d.Key)
	case codec.KindTypeMismatch:
		head = fmt.Sprintf("Type mismatch for type '%s'.", d.Type)
	case codec.KindValueNotFound:
		head = fmt.Sprintf("Value of type '%s' not found.", d.Type)
	case codec.KindDataCorrupted:
		head = "Data corrupted."
	default:
		msg := "<nil>"
		if d.Err != nil {
			msg = d.Err.Error()
		}
		return fmt.Sprintf("Unknown decoding error: %s JSON preview: %s", msg, d.Preview)
	}
	return fmt.Sprintf("%s Path: %s Debug: %s JSON preview: %s",
		head, strings.Join(d.CodingPath, " -> "), d.Debug, d.Preview)
}

// preview returns up to previewLimit bytes of data as text. A rune cut by
// the limit is dropped; any other invalid UTF-8 yields "unable to preview".
func preview(data []byte) string {
	if len(data) <= previewLimit {
		if utf8.Valid(data) {
			return string(data)
		}
		return noPreview
	}
	head := data[:previewLimit]
	for cut := 0; cut < utf8.UTFMax; cut++ {
		if utf8.Valid(head[:len(head)-cut]) {
			return string(head[:len(head)-cut])
		}
	}
	return noPreview
}
