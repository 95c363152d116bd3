package contract

import (
	"bytes"
	"encoding/json"

	"github.com/kbukum/apicontract/codec"
)

// Either is a response that decodes as one of two types, typically a
// regular result and an empty-capable one:
//
//	res, err := contract.Perform[contract.Either[Job, contract.EmptyResponse]](ctx, c, req, ep)
//
// Either is empty-capable when either arm is. An empty object goes to the
// empty-capable arm, Left first. Any other payload is decoded only into the
// arms that are not empty-capable, Left before Right, and the first arm's
// error is returned when none matches. When both arms are empty-capable both
// are tried.
//
// Perform decodes the arms with the client's codec. Either nested inside
// another type, or decoded through encoding/json directly, uses the strict
// JSON codec.
type Either[L, R any] struct {
	left    L
	right   R
	isRight bool
}

// NewLeft creates an Either holding l.
func NewLeft[L, R any](l L) Either[L, R] {
	return Either[L, R]{left: l}
}

// NewRight creates an Either holding r.
func NewRight[L, R any](r R) Either[L, R] {
	return Either[L, R]{right: r, isRight: true}
}

// IsLeft reports whether the left arm is held.
func (e Either[L, R]) IsLeft() bool { return !e.isRight }

// IsRight reports whether the right arm is held.
func (e Either[L, R]) IsRight() bool { return e.isRight }

// Left returns the left value and whether it is held.
func (e Either[L, R]) Left() (L, bool) { return e.left, !e.isRight }

// Right returns the right value and whether it is held.
func (e Either[L, R]) Right() (R, bool) { return e.right, e.isRight }

// AcceptsEmptyBody implements EmptyCapable.
func (e Either[L, R]) AcceptsEmptyBody() bool {
	return acceptsEmpty[L]() || acceptsEmpty[R]()
}

// MarshalJSON encodes the held arm.
func (e Either[L, R]) MarshalJSON() ([]byte, error) {
	if e.isRight {
		return json.Marshal(e.right)
	}
	return json.Marshal(e.left)
}

// UnmarshalJSON decodes data into one of the arms with the strict JSON codec.
func (e *Either[L, R]) UnmarshalJSON(data []byte) error {
	return e.decodeWith(codec.JSON{}, data)
}

// codecDecoder is implemented by responses that decode their parts with the
// client's codec instead of their own.
type codecDecoder interface {
	decodeWith(c codec.Codec, data []byte) error
}

func (e *Either[L, R]) decodeWith(c codec.Codec, data []byte) error {
	leftEmpty, rightEmpty := acceptsEmpty[L](), acceptsEmpty[R]()

	if isEmptyObject(data) {
		switch {
		case leftEmpty:
			return e.decodeLeft(c, data)
		case rightEmpty:
			return e.decodeRight(c, data)
		}
	}

	// Empty-capable arms accept any object, so they only take part when
	// both arms are empty-capable.
	var attempts []func(codec.Codec, []byte) error
	if !leftEmpty || rightEmpty {
		attempts = append(attempts, e.decodeLeft)
	}
	if !rightEmpty || leftEmpty {
		attempts = append(attempts, e.decodeRight)
	}

	var firstErr error
	for _, attempt := range attempts {
		err := attempt(c, data)
		if err == nil {
			return nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (e *Either[L, R]) decodeLeft(c codec.Codec, data []byte) error {
	var l L
	if err := c.Decode(data, &l); err != nil {
		return err
	}
	var r R
	e.left, e.right, e.isRight = l, r, false
	return nil
}

func (e *Either[L, R]) decodeRight(c codec.Codec, data []byte) error {
	var r R
	if err := c.Decode(data, &r); err != nil {
		return err
	}
	var l L
	e.left, e.right, e.isRight = l, r, true
	return nil
}

func isEmptyObject(data []byte) bool {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) < 2 || trimmed[0] != '{' || trimmed[len(trimmed)-1] != '}' {
		return false
	}
	return len(bytes.TrimSpace(trimmed[1:len(trimmed)-1])) == 0
}
