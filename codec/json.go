package codec

import (
	"encoding"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strconv"
	"strings"
)

// ContentTypeJSON is the media type produced by the JSON codec.
const ContentTypeJSON = "application/json"

// JSON is the JSON codec.
type JSON struct {
	// Lenient disables presence checks, so absent keys and nulls leave
	// fields at their zero value as plain encoding/json does.
	Lenient bool
}

var _ Codec = JSON{}

// ContentType returns application/json.
func (JSON) ContentType() string { return ContentTypeJSON }

// Encode marshals v as JSON.
func (JSON) Encode(v any) ([]byte, error) {
	return json.Marshal(v)
}

// Decode unmarshals data into v and, unless Lenient is set, verifies that
// every required field was present and non-null.
func (c JSON) Decode(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return classify(err)
	}
	if c.Lenient {
		return nil
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return nil
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return classify(err)
	}
	if de := checkPresence(rv.Type().Elem(), doc, nil); de != nil {
		return de
	}
	return nil
}

// classify maps encoding/json errors onto DecodeError kinds.
func classify(err error) error {
	var de *DecodeError
	if errors.As(err, &de) {
		return err
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return &DecodeError{
			Kind:  KindDataCorrupted,
			Debug: fmt.Sprintf("The given data was not valid JSON: %s (offset %d).", syntaxErr.Error(), syntaxErr.Offset),
			Err:   err,
		}
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		var path []string
		if typeErr.Field != "" {
			path = strings.Split(typeErr.Field, ".")
		}
		typeName := "unknown"
		if typeErr.Type != nil {
			typeName = typeErr.Type.String()
		}
		return &DecodeError{
			Kind:  KindTypeMismatch,
			Path:  path,
			Type:  typeName,
			Debug: fmt.Sprintf("Expected to decode %s but found %s instead.", typeName, typeErr.Value),
			Err:   err,
		}
	}

	return &DecodeError{Kind: KindUnknown, Debug: err.Error(), Err: err}
}

var (
	unmarshalerType     = reflect.TypeFor[json.Unmarshaler]()
	textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()
)

// customDecoded reports whether t (or *t) decodes itself.
func customDecoded(t reflect.Type) bool {
	if t.Implements(unmarshalerType) || t.Implements(textUnmarshalerType) {
		return true
	}
	if t.Kind() != reflect.Pointer {
		pt := reflect.PointerTo(t)
		return pt.Implements(unmarshalerType) || pt.Implements(textUnmarshalerType)
	}
	return false
}

// checkPresence walks t alongside the generic document doc.
func checkPresence(t reflect.Type, doc any, path []string) *DecodeError {
	for t.Kind() == reflect.Pointer {
		if doc == nil {
			return nil
		}
		t = t.Elem()
	}
	if customDecoded(t) {
		return nil
	}

	switch t.Kind() {
	case reflect.Struct:
		obj, ok := doc.(map[string]any)
		if !ok {
			return nil
		}
		return checkStruct(t, obj, path)

	case reflect.Slice, reflect.Array:
		items, ok := doc.([]any)
		if !ok {
			return nil
		}
		for i, item := range items {
			if t.Kind() == reflect.Array && i >= t.Len() {
				break
			}
			if de := checkPresence(t.Elem(), item, appendPath(path, "["+strconv.Itoa(i)+"]")); de != nil {
				return de
			}
		}

	case reflect.Map:
		obj, ok := doc.(map[string]any)
		if !ok {
			return nil
		}
		keys := make([]string, 0, len(obj))
		for k := range obj {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for _, k := range keys {
			if de := checkPresence(t.Elem(), obj[k], appendPath(path, k)); de != nil {
				return de
			}
		}
	}
	return nil
}

func checkStruct(t reflect.Type, obj map[string]any, path []string) *DecodeError {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		name, opts, skip := jsonName(f)
		if skip {
			continue
		}

		// Untagged embedded structs promote their fields.
		if f.Anonymous && name == "" {
			ft := f.Type
			if ft.Kind() == reflect.Pointer {
				continue
			}
			if ft.Kind() == reflect.Struct {
				if de := checkStruct(ft, obj, path); de != nil {
					return de
				}
				continue
			}
		}
		if !f.IsExported() {
			continue
		}
		if name == "" {
			name = f.Name
		}

		value, found := lookup(obj, name)
		req := required(f.Type, opts)
		if !found {
			if !req {
				continue
			}
			return &DecodeError{
				Kind:  KindKeyNotFound,
				Path:  slices.Clone(path),
				Key:   name,
				Debug: fmt.Sprintf("No value associated with key %q.", name),
			}
		}

		fieldPath := appendPath(path, name)
		if value == nil {
			if !req {
				continue
			}
			return &DecodeError{
				Kind:  KindValueNotFound,
				Path:  fieldPath,
				Type:  f.Type.String(),
				Debug: fmt.Sprintf("Expected %s value but found null instead.", f.Type),
			}
		}
		if de := checkPresence(f.Type, value, fieldPath); de != nil {
			return de
		}
	}
	return nil
}

// jsonName parses the json struct tag of f.
func jsonName(f reflect.StructField) (name, opts string, skip bool) {
	tag := f.Tag.Get("json")
	if tag == "-" {
		return "", "", true
	}
	name, opts, _ = strings.Cut(tag, ",")
	return name, opts, false
}

// required reports whether a field of type t with tag options opts must be
// present in the document.
func required(t reflect.Type, opts string) bool {
	for _, opt := range strings.Split(opts, ",") {
		if opt == "omitempty" || opt == "omitzero" {
			return false
		}
	}
	switch t.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice:
		return false
	}
	return true
}

// lookup finds key in obj, falling back to the case-insensitive match
// encoding/json accepts.
func lookup(obj map[string]any, key string) (any, bool) {
	if v, ok := obj[key]; ok {
		return v, true
	}
	for k, v := range obj {
		if strings.EqualFold(k, key) {
			return v, true
		}
	}
	return nil, false
}

func appendPath(path []string, elem string) []string {
	out := make([]string, len(path), len(path)+1)
	copy(out, path)
	return append(out, elem)
}
