package contract

import (
	"encoding"
	"fmt"
	"reflect"
	"slices"

	"github.com/gorilla/schema"
	"github.com/spf13/cast"
)

// Parameter is a request field value that knows which part of the HTTP
// request it fills. name is the name the field was bound under.
type Parameter interface {
	FillRequest(name string, b *Builder) error
}

// Field binds a Parameter to a name.
type Field struct {
	Name  string
	Param Parameter
}

// Bind creates a Field.
func Bind(name string, p Parameter) Field {
	return Field{Name: name, Param: p}
}

// Request is implemented by request objects. Fields are applied to the
// builder in the returned order.
type Request interface {
	Fields() []Field
}

// FieldList is a Request made of literal fields.
type FieldList []Field

// Fields returns the list itself.
func (l FieldList) Fields() []Field { return l }

// PathParam substitutes the {name} placeholder of the path template. A nil
// pointer value fails with an unresolved placeholder error.
type PathParam[T any] struct {
	Value T
}

// InPath creates a PathParam.
func InPath[T any](v T) PathParam[T] { return PathParam[T]{Value: v} }

// FillRequest implements Parameter.
func (p PathParam[T]) FillRequest(name string, b *Builder) error {
	value, ok := stringify(p.Value)
	if !ok {
		if err := b.checkOpen(); err != nil {
			return err
		}
		return b.fail(newUnresolvedPlaceholder(name, "has a nil value"))
	}
	return b.SetPathParam(name, value)
}

// QueryParam appends a name=value query term. A nil pointer value adds
// no term.
type QueryParam[T any] struct {
	Value T
}

// InQuery creates a QueryParam.
func InQuery[T any](v T) QueryParam[T] { return QueryParam[T]{Value: v} }

// FillRequest implements Parameter.
func (p QueryParam[T]) FillRequest(name string, b *Builder) error {
	value, ok := stringify(p.Value)
	if !ok {
		return nil
	}
	return b.AddQuery(name, value)
}

// QueryList appends one name=value term per element, repeating the key.
// Nil pointer elements are skipped.
type QueryList[T any] struct {
	Values []T
}

// InQueryList creates a QueryList.
func InQueryList[T any](vs ...T) QueryList[T] { return QueryList[T]{Values: vs} }

// FillRequest implements Parameter.
func (p QueryList[T]) FillRequest(name string, b *Builder) error {
	for _, v := range p.Values {
		value, ok := stringify(v)
		if !ok {
			continue
		}
		if err := b.AddQuery(name, value); err != nil {
			return err
		}
	}
	return nil
}

// QueryObject expands a struct into query terms using its `schema` tags.
// The bound name is not used; terms are appended sorted by key.
type QueryObject[T any] struct {
	Value T
}

// InQueryObject creates a QueryObject.
func InQueryObject[T any](v T) QueryObject[T] { return QueryObject[T]{Value: v} }

var queryEncoder = schema.NewEncoder()

// FillRequest implements Parameter.
func (p QueryObject[T]) FillRequest(name string, b *Builder) error {
	values := make(map[string][]string)
	if err := queryEncoder.Encode(p.Value, values); err != nil {
		return b.fail(&BuilderError{
			Code:    ErrCodeEncodeQuery,
			Name:    name,
			Message: fmt.Sprintf("encode query object %q: %v", name, err),
			Err:     err,
		})
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		for _, v := range values[k] {
			if err := b.AddQuery(k, v); err != nil {
				return err
			}
		}
	}
	return nil
}

// HeaderParam sets the header called name. A nil pointer value leaves the
// header unset.
type HeaderParam[T any] struct {
	Value T
}

// InHeader creates a HeaderParam.
func InHeader[T any](v T) HeaderParam[T] { return HeaderParam[T]{Value: v} }

// FillRequest implements Parameter.
func (p HeaderParam[T]) FillRequest(name string, b *Builder) error {
	value, ok := stringify(p.Value)
	if !ok {
		return nil
	}
	return b.SetHeader(name, value)
}

// BodyParam encodes its value as the request body.
type BodyParam[T any] struct {
	Value T
}

// InBody creates a BodyParam.
func InBody[T any](v T) BodyParam[T] { return BodyParam[T]{Value: v} }

// FillRequest implements Parameter.
func (p BodyParam[T]) FillRequest(name string, b *Builder) error {
	return b.SetBodyValue(name, p.Value)
}

// stringify converts a parameter value to its wire form. It reports false
// for nil values and nil pointers, which have no wire form.
func stringify(v any) (string, bool) {
	if isNil(v) {
		return "", false
	}
	switch x := v.(type) {
	case string:
		return x, true
	case encoding.TextMarshaler:
		if text, err := x.MarshalText(); err == nil {
			return string(text), true
		}
	}
	if s, err := cast.ToStringE(v); err == nil {
		return s, true
	}
	return fmt.Sprint(v), true
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}
