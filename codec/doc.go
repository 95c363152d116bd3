// Package codec provides the structured encode/decode capability used by
// the contract pipeline.
//
// The JSON codec wraps encoding/json and reports decode failures as
// *DecodeError values carrying a kind (key not found, type mismatch,
// value not found, corrupted data), the coding path inside the document,
// and a debug note:
//
//	var u User
//	if err := codec.JSON{}.Decode(body, &u); err != nil {
//	    var de *codec.DecodeError
//	    if errors.As(err, &de) && de.Kind == codec.KindKeyNotFound {
//	        log.Printf("missing %s at %s", de.Key, de.PathString())
//	    }
//	}
//
// Decoding is strict about presence: a non-pointer struct field without
// omitempty must appear in the document and must not be null.
package codec
