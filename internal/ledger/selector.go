package ledger

import (
	"strconv"

	"github.com/xrpstat/gwstat/internal/rpcfield"
)

// SelectorKind names the ways a request can pin a ledger.
type SelectorKind int

const (
	// SelectCurrent picks the in-progress ledger. Results over it are not
	// cacheable.
	SelectCurrent SelectorKind = iota
	// SelectValidated picks the latest fully validated ledger.
	SelectValidated
	// SelectClosed picks the most recently closed ledger.
	SelectClosed
	// SelectIndex picks a ledger by sequence number.
	SelectIndex
	// SelectHash picks a ledger by hash.
	SelectHash
)

// Selector identifies which ledger a query runs against.
type Selector struct {
	Kind  SelectorKind
	Index uint32
	Hash  string
}

// Immutable reports whether the selector pins a fixed ledger, making query
// results safe to cache.
func (s Selector) Immutable() bool {
	return s.Kind == SelectIndex || s.Kind == SelectHash
}

// ParseSelector reads the ledger_hash and ledger_index request fields.
// ledger_hash takes precedence; ledger_index accepts a sequence number or one
// of the shortcut strings "validated", "closed" and "current". Absent fields
// select the current ledger.
func ParseSelector(params map[string]any) (Selector, error) {
	r := rpcfield.NewReader(params)

	if hash := r.OptionalString("ledger_hash", ""); hash != "" || r.Err() != nil {
		if err := r.Err(); err != nil {
			return Selector{}, err
		}
		if len(hash) != 64 || !isHex(hash) {
			return Selector{}, &rpcfield.TypeMismatchError{Field: "ledger_hash", Want: "64-digit hex string"}
		}
		return Selector{Kind: SelectHash, Hash: hash}, nil
	}

	if !r.Has("ledger_index") {
		return Selector{Kind: SelectCurrent}, nil
	}

	switch v := params["ledger_index"].(type) {
	case string:
		switch v {
		case "validated":
			return Selector{Kind: SelectValidated}, nil
		case "closed":
			return Selector{Kind: SelectClosed}, nil
		case "current":
			return Selector{Kind: SelectCurrent}, nil
		}
		n, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return Selector{}, &rpcfield.TypeMismatchError{Field: "ledger_index", Want: "ledger index"}
		}
		return Selector{Kind: SelectIndex, Index: uint32(n)}, nil
	default:
		n := r.OptionalUint("ledger_index", 0)
		if err := r.Err(); err != nil {
			return Selector{}, err
		}
		return Selector{Kind: SelectIndex, Index: uint32(n)}, nil
	}
}

func isHex(s string) bool {
	for i := range len(s) {
		c := s[i]
		if !(c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F') {
			return false
		}
	}
	return true
}
