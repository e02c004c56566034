// Package rpcfield extracts typed fields from untyped JSON request
// parameters. A Reader records the first failed read; every read after the
// failure is a no-op returning the zero value, so callers can issue a fixed
// sequence of reads and check Err once. The field order of that sequence
// decides which error wins when several fields are invalid.
package rpcfield

import (
	"math"

	"github.com/xrpstat/gwstat/internal/domain"
)

// Reader reads typed fields out of a decoded JSON object.
type Reader struct {
	params map[string]any
	err    error
}

// NewReader wraps a params object. A nil map behaves as an empty one.
func NewReader(params map[string]any) *Reader {
	return &Reader{params: params}
}

// Err returns the first read error, or nil.
func (r *Reader) Err() error {
	return r.err
}

// Has reports whether the field is present and non-null.
func (r *Reader) Has(field string) bool {
	v, ok := r.params[field]
	return ok && v != nil
}

func (r *Reader) fail(err error) {
	if r.err == nil {
		r.err = err
	}
}

// value returns the raw field value, or ok=false when the field is absent,
// null, or a previous read already failed.
func (r *Reader) value(field string) (any, bool) {
	if r.err != nil {
		return nil, false
	}
	v, ok := r.params[field]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// String reads a required string field.
func (r *Reader) String(field string) string {
	v, ok := r.value(field)
	if !ok {
		if r.err == nil {
			r.fail(&MissingFieldError{Field: field})
		}
		return ""
	}
	return r.decodeString(field, v)
}

// OptionalString reads a string field, returning def when absent.
func (r *Reader) OptionalString(field, def string) string {
	v, ok := r.value(field)
	if !ok {
		return def
	}
	return r.decodeString(field, v)
}

// OptionalBool reads a boolean field, returning def when absent.
func (r *Reader) OptionalBool(field string, def bool) bool {
	v, ok := r.value(field)
	if !ok {
		return def
	}
	b, isBool := v.(bool)
	if !isBool {
		r.fail(&TypeMismatchError{Field: field, Want: "bool"})
		return def
	}
	return b
}

// OptionalUint reads a non-negative integer field, returning def when absent.
// JSON numbers arrive as float64; fractional or negative values are rejected.
func (r *Reader) OptionalUint(field string, def uint) uint {
	v, ok := r.value(field)
	if !ok {
		return def
	}
	switch n := v.(type) {
	case float64:
		if n < 0 || n != math.Trunc(n) {
			break
		}
		return uint(n)
	case int:
		if n < 0 {
			break
		}
		return uint(n)
	}
	r.fail(&TypeMismatchError{Field: field, Want: "unsigned integer"})
	return def
}

// OptionalStringList reads a field that is either a single string (promoted
// to a one-element list) or an array of strings. Absent yields nil.
func (r *Reader) OptionalStringList(field string) []string {
	v, ok := r.value(field)
	if !ok {
		return nil
	}
	return r.decodeStringList(field, v)
}

// Account reads a required field holding an account address or public key.
func (r *Reader) Account(field string) domain.AccountID {
	s := r.String(field)
	if r.err != nil {
		return domain.AccountID{}
	}
	return r.decodeAccount(field, s)
}

// OptionalAccountSet reads a field holding one account string or an array of
// them, decoding each into a deduplicated set. Absent yields an empty set.
// Decoding is all-or-nothing: the first bad element fails the whole read and
// the set is never partially populated.
func (r *Reader) OptionalAccountSet(field string) domain.HotWalletSet {
	set := make(domain.HotWalletSet)
	v, ok := r.value(field)
	if !ok {
		return set
	}
	for _, s := range r.decodeStringList(field, v) {
		id := r.decodeAccount(field, s)
		if r.err != nil {
			return make(domain.HotWalletSet)
		}
		set.Add(id)
	}
	if r.err != nil {
		return make(domain.HotWalletSet)
	}
	return set
}

func (r *Reader) decodeString(field string, v any) string {
	s, isString := v.(string)
	if !isString {
		r.fail(&TypeMismatchError{Field: field, Want: "string"})
		return ""
	}
	return s
}

func (r *Reader) decodeStringList(field string, v any) []string {
	if s, isString := v.(string); isString {
		return []string{s}
	}
	items, isArray := v.([]any)
	if !isArray {
		r.fail(&TypeMismatchError{Field: field, Want: "list of strings"})
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		s, isString := item.(string)
		if !isString {
			r.fail(&TypeMismatchError{Field: field, Want: "list of strings"})
			return nil
		}
		out = append(out, s)
	}
	return out
}

func (r *Reader) decodeAccount(field, s string) domain.AccountID {
	id, err := domain.ParseAccount(s)
	if err != nil {
		r.fail(&MalformedAccountError{Field: field})
		return domain.AccountID{}
	}
	return id
}
