package rpcfield

import (
	"errors"
	"testing"

	"github.com/xrpstat/gwstat/internal/domain"
)

const (
	addrA = "rrrrrrrrrrrrrrrrrrrrrhoLvTp"
	addrB = "rrrrrrrrrrrrrrrrrrrrBZbvji"
)

func TestStringRequired(t *testing.T) {
	r := NewReader(map[string]any{"account": "abc"})
	if got := r.String("account"); got != "abc" || r.Err() != nil {
		t.Errorf("String = %q, err %v", got, r.Err())
	}

	r = NewReader(map[string]any{})
	r.String("account")
	var missing *MissingFieldError
	if !errors.As(r.Err(), &missing) || missing.Field != "account" {
		t.Errorf("err = %v, want MissingFieldError(account)", r.Err())
	}

	// Explicit null counts as absent.
	r = NewReader(map[string]any{"account": nil})
	r.String("account")
	if !errors.As(r.Err(), &missing) {
		t.Errorf("null field err = %v, want MissingFieldError", r.Err())
	}
}

func TestStringTypeMismatch(t *testing.T) {
	r := NewReader(map[string]any{"account": 42.0})
	r.String("account")
	var mismatch *TypeMismatchError
	if !errors.As(r.Err(), &mismatch) || mismatch.Field != "account" || mismatch.Want != "string" {
		t.Errorf("err = %v, want TypeMismatchError(account, string)", r.Err())
	}
}

func TestOptionalDefaults(t *testing.T) {
	r := NewReader(map[string]any{})
	if got := r.OptionalBool("strict", false); got != false {
		t.Error("OptionalBool default broken")
	}
	if got := r.OptionalUint("account_index", 0); got != 0 {
		t.Error("OptionalUint default broken")
	}
	if got := r.OptionalString("marker", "m"); got != "m" {
		t.Error("OptionalString default broken")
	}
	if r.Err() != nil {
		t.Errorf("unexpected err %v", r.Err())
	}
}

func TestOptionalUint(t *testing.T) {
	r := NewReader(map[string]any{"account_index": 3.0})
	if got := r.OptionalUint("account_index", 0); got != 3 || r.Err() != nil {
		t.Errorf("OptionalUint = %d, err %v", got, r.Err())
	}

	for _, bad := range []any{-1.0, 1.5, "3", true} {
		r := NewReader(map[string]any{"account_index": bad})
		r.OptionalUint("account_index", 0)
		var mismatch *TypeMismatchError
		if !errors.As(r.Err(), &mismatch) {
			t.Errorf("OptionalUint(%v) err = %v, want TypeMismatchError", bad, r.Err())
		}
	}
}

func TestStringListPromotion(t *testing.T) {
	r := NewReader(map[string]any{"hotwallet": "one"})
	if got := r.OptionalStringList("hotwallet"); len(got) != 1 || got[0] != "one" {
		t.Errorf("single string not promoted: %v", got)
	}

	r = NewReader(map[string]any{"hotwallet": []any{"one", "two"}})
	if got := r.OptionalStringList("hotwallet"); len(got) != 2 {
		t.Errorf("array read = %v", got)
	}

	// A non-string element poisons the whole list.
	r = NewReader(map[string]any{"hotwallet": []any{"one", 2.0}})
	r.OptionalStringList("hotwallet")
	var mismatch *TypeMismatchError
	if !errors.As(r.Err(), &mismatch) || mismatch.Want != "list of strings" {
		t.Errorf("err = %v, want TypeMismatchError(list of strings)", r.Err())
	}

	// So does a wrong outer shape.
	r = NewReader(map[string]any{"hotwallet": 123.0})
	r.OptionalStringList("hotwallet")
	if !errors.As(r.Err(), &mismatch) {
		t.Errorf("err = %v, want TypeMismatchError", r.Err())
	}
}

func TestAccountField(t *testing.T) {
	r := NewReader(map[string]any{"account": addrB})
	id := r.Account("account")
	if r.Err() != nil {
		t.Fatalf("Account: %v", r.Err())
	}
	if id.String() != addrB {
		t.Errorf("account = %s, want %s", id, addrB)
	}

	r = NewReader(map[string]any{"account": "not-an-account"})
	r.Account("account")
	var malformed *MalformedAccountError
	if !errors.As(r.Err(), &malformed) || malformed.Field != "account" {
		t.Errorf("err = %v, want MalformedAccountError(account)", r.Err())
	}
}

func TestOptionalAccountSet(t *testing.T) {
	r := NewReader(map[string]any{})
	if set := r.OptionalAccountSet("hotwallet"); len(set) != 0 || r.Err() != nil {
		t.Errorf("absent field: set %v, err %v", set, r.Err())
	}

	r = NewReader(map[string]any{"hotwallet": []any{addrA, addrB, addrA}})
	set := r.OptionalAccountSet("hotwallet")
	if r.Err() != nil {
		t.Fatalf("OptionalAccountSet: %v", r.Err())
	}
	if len(set) != 2 {
		t.Errorf("set size = %d, want 2 (deduplicated)", len(set))
	}
	a, _ := domain.ParseAddress(addrA)
	if !set.Contains(a) {
		t.Error("set missing first element")
	}
}

func TestOptionalAccountSetAllOrNothing(t *testing.T) {
	r := NewReader(map[string]any{"hotwallet": []any{addrA, "bogus", addrB}})
	set := r.OptionalAccountSet("hotwallet")
	var malformed *MalformedAccountError
	if !errors.As(r.Err(), &malformed) {
		t.Fatalf("err = %v, want MalformedAccountError", r.Err())
	}
	if len(set) != 0 {
		t.Errorf("failed decode left %d elements in set, want 0", len(set))
	}
}

func TestFirstErrorWins(t *testing.T) {
	// Both fields are invalid; the error must come from the field read first.
	r := NewReader(map[string]any{"strict": "yes", "account_index": -1.0})
	r.OptionalBool("strict", false)
	r.OptionalUint("account_index", 0)

	if got := FieldOf(r.Err()); got != "strict" {
		t.Errorf("first error from %q, want strict", got)
	}

	// Reads after a failure are no-ops returning zero values.
	if got := r.OptionalString("marker", "def"); got != "def" {
		t.Errorf("read after failure = %q, want default", got)
	}
	if got := r.String("account"); got != "" {
		t.Errorf("required read after failure = %q, want zero value", got)
	}
	if got := FieldOf(r.Err()); got != "strict" {
		t.Errorf("later reads replaced the error: now from %q", got)
	}
}
