package contract

import (
	"fmt"
	"maps"
	"net/http"
	"net/url"
	"reflect"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/kbukum/apicontract/codec"
	"github.com/kbukum/apicontract/validation"
)

type builderState int

const (
	stateEmpty builderState = iota
	stateMethodSet
	statePathSet
	stateParamsApplied
	stateBuilt
	stateFailed
)

// Builder accumulates the parts of one request and freezes them into
// Params. It is single-use and not safe for concurrent use.
type Builder struct {
	codec    codec.Codec
	validate *validator.Validate

	state       builderState
	err         error
	method      string
	path        string
	headers     map[string]string
	query       []QueryItem
	body        []byte
	hasBody     bool
	contentType string
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithBuilderCodec sets the codec used for body parameters.
func WithBuilderCodec(c codec.Codec) BuilderOption {
	return func(b *Builder) {
		if c != nil {
			b.codec = c
		}
	}
}

// WithBuilderValidator validates struct body values before encoding them.
func WithBuilderValidator(v *validator.Validate) BuilderOption {
	return func(b *Builder) { b.validate = v }
}

// NewBuilder creates an empty builder using the JSON codec.
func NewBuilder(opts ...BuilderOption) *Builder {
	b := &Builder{
		codec:   codec.JSON{},
		headers: make(map[string]string),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// SetMethod sets the HTTP method. The last call wins.
func (b *Builder) SetMethod(method string) error {
	if err := b.checkOpen(); err != nil {
		return err
	}
	b.method = strings.ToUpper(method)
	if b.method != "" {
		b.advance(stateMethodSet)
	}
	return nil
}

// SetPath sets the path template. The last call wins.
func (b *Builder) SetPath(path string) error {
	if err := b.checkOpen(); err != nil {
		return err
	}
	b.path = path
	if path != "" {
		b.advance(statePathSet)
	}
	return nil
}

// SetPathParam replaces every {name} placeholder with the escaped value.
func (b *Builder) SetPathParam(name, value string) error {
	if err := b.checkOpen(); err != nil {
		return err
	}
	if b.path == "" {
		return b.fail(newMissingPath())
	}
	placeholder := "{" + name + "}"
	if !strings.Contains(b.path, placeholder) {
		return b.fail(newUnresolvedPlaceholder(name, "is not in the path template"))
	}
	b.path = strings.ReplaceAll(b.path, placeholder, url.PathEscape(value))
	b.advance(stateParamsApplied)
	return nil
}

// AddQuery appends a query term. Repeated keys are kept in order.
func (b *Builder) AddQuery(key, value string) error {
	if err := b.checkOpen(); err != nil {
		return err
	}
	b.query = append(b.query, QueryItem{Key: key, Value: value})
	b.advance(stateParamsApplied)
	return nil
}

// SetHeader sets a header. The last write for a name wins; names are
// compared in canonical form.
func (b *Builder) SetHeader(name, value string) error {
	if err := b.checkOpen(); err != nil {
		return err
	}
	b.headers[http.CanonicalHeaderKey(name)] = value
	b.advance(stateParamsApplied)
	return nil
}

// AddHeaders merges headers over the ones already set.
func (b *Builder) AddHeaders(headers map[string]string) error {
	if err := b.checkOpen(); err != nil {
		return err
	}
	for _, k := range slices.Sorted(maps.Keys(headers)) {
		b.headers[http.CanonicalHeaderKey(k)] = headers[k]
	}
	return nil
}

// SetBody sets the raw request body. A request has at most one body.
func (b *Builder) SetBody(name string, body []byte, contentType string) error {
	if err := b.checkOpen(); err != nil {
		return err
	}
	if b.hasBody {
		return b.fail(newDuplicateBody(name))
	}
	b.body = body
	b.hasBody = true
	b.contentType = contentType
	b.advance(stateParamsApplied)
	return nil
}

// SetBodyValue validates and encodes v with the builder codec and sets it
// as the body.
func (b *Builder) SetBodyValue(name string, v any) error {
	if err := b.checkOpen(); err != nil {
		return err
	}
	if b.hasBody {
		return b.fail(newDuplicateBody(name))
	}
	if b.validate != nil && isStruct(v) {
		if err := b.validate.Struct(v); err != nil {
			return b.fail(&BuilderError{
				Code:    ErrCodeInvalidBody,
				Name:    name,
				Message: fmt.Sprintf("body %q failed validation: %s", name, validation.Describe(err)),
				Err:     err,
			})
		}
	}
	data, err := b.codec.Encode(v)
	if err != nil {
		return b.fail(&BuilderError{
			Code:    ErrCodeEncodeBody,
			Name:    name,
			Message: fmt.Sprintf("encode body %q: %v", name, err),
			Err:     err,
		})
	}
	return b.SetBody(name, data, b.codec.ContentType())
}

// Build validates the accumulated state and returns the frozen Params.
// After Build, or after any failed mutation, the builder accepts no changes.
func (b *Builder) Build() (Params, error) {
	switch b.state {
	case stateFailed:
		return Params{}, b.err
	case stateBuilt:
		return Params{}, newFinalized()
	}
	if b.method == "" {
		return Params{}, b.fail(newMissingMethod())
	}
	if b.path == "" {
		return Params{}, b.fail(newMissingPath())
	}
	if name, ok := findPlaceholder(b.path); ok {
		return Params{}, b.fail(newUnresolvedPlaceholder(name, "has no path parameter"))
	}

	p := Params{
		method:      b.method,
		path:        b.path,
		headers:     maps.Clone(b.headers),
		query:       slices.Clone(b.query),
		contentType: b.contentType,
	}
	if b.hasBody {
		p.body = slices.Clone(b.body)
		if p.body == nil {
			p.body = []byte{}
		}
	}
	b.state = stateBuilt
	return p, nil
}

func (b *Builder) checkOpen() error {
	if b.state == stateBuilt || b.state == stateFailed {
		return newFinalized()
	}
	return nil
}

func (b *Builder) advance(s builderState) {
	if s > b.state {
		b.state = s
	}
}

func (b *Builder) fail(err *BuilderError) error {
	b.state = stateFailed
	b.err = err
	return err
}

// findPlaceholder returns the name of the first {...} token in path.
func findPlaceholder(path string) (string, bool) {
	start := strings.IndexByte(path, '{')
	if start < 0 {
		return "", false
	}
	end := strings.IndexByte(path[start:], '}')
	if end < 0 {
		return "", false
	}
	return path[start+1 : start+end], true
}

func isStruct(v any) bool {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return false
		}
		rv = rv.Elem()
	}
	return rv.Kind() == reflect.Struct
}
