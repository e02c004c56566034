package rpcfield

import "fmt"

// MissingFieldError reports a required field that was absent or null.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing field %q", e.Field)
}

// TypeMismatchError reports a field that was present but had the wrong shape.
type TypeMismatchError struct {
	Field string
	Want  string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("field %q: expected %s", e.Field, e.Want)
}

// MalformedAccountError reports a string field that decoded as neither an
// account address nor an account public key.
type MalformedAccountError struct {
	Field string
}

func (e *MalformedAccountError) Error() string {
	return fmt.Sprintf("field %q: malformed account", e.Field)
}

// FieldOf returns the field name carried by a reader error, or "" if the
// error is not one of this package's types.
func FieldOf(err error) string {
	switch e := err.(type) {
	case *MissingFieldError:
		return e.Field
	case *TypeMismatchError:
		return e.Field
	case *MalformedAccountError:
		return e.Field
	default:
		return ""
	}
}
