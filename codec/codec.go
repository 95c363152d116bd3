package codec

// Codec encodes request bodies and decodes response payloads.
type Codec interface {
	// Encode serializes v.
	Encode(v any) ([]byte, error)
	// Decode deserializes data into v, which must be a non-nil pointer.
	// Failures are reported as *DecodeError.
	Decode(data []byte, v any) error
	// ContentType is the media type of encoded payloads.
	ContentType() string
}
