// Package validation configures the struct-tag validator used for request
// bodies and turns its errors into field-level messages.
//
//	type CreateUser struct {
//	    Name  string `json:"name" validate:"required,min=2"`
//	    Email string `json:"email" validate:"required,email"`
//	}
//	err := validation.New().Struct(body)
//	msg := validation.Describe(err) // "email: must be a valid email address"
//
// Field names in errors follow the json tag, so messages name the wire field.
package validation
