package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// ErrBadCurrency indicates a string that is not a recognized currency code.
	ErrBadCurrency = errors.New("bad currency code")

	// ErrCurrencyMismatch indicates an arithmetic operation across two
	// different currencies. Callers derive keys from amounts, so hitting this
	// means a broken invariant, not bad user input.
	ErrCurrencyMismatch = errors.New("currency mismatch")
)

// Currency is a canonical currency code: a three-character ASCII code for
// standard currencies, or forty hex digits for nonstandard ones. Ordering is
// lexicographic on the canonical form.
type Currency string

// ParseCurrency validates and canonicalizes a currency code.
func ParseCurrency(s string) (Currency, error) {
	switch len(s) {
	case 3:
		for i := range len(s) {
			if s[i] <= ' ' || s[i] > '~' {
				return "", fmt.Errorf("%w: %q", ErrBadCurrency, s)
			}
		}
		return Currency(s), nil
	case 40:
		for i := range len(s) {
			if !isHexDigit(s[i]) {
				return "", fmt.Errorf("%w: %q", ErrBadCurrency, s)
			}
		}
		return Currency(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrBadCurrency, s)
	}
}

func isHexDigit(c byte) bool {
	return c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F'
}

// Amount is an exact decimal value tagged with its currency. Negating a
// nonzero amount keeps the tag, and addition is only defined between amounts
// of the same currency.
type Amount struct {
	Currency Currency
	Value    decimal.Decimal
}

// NewAmount builds an amount from a currency and a decimal value.
func NewAmount(c Currency, v decimal.Decimal) Amount {
	return Amount{Currency: c, Value: v}
}

// ParseAmount builds an amount from a currency and its decimal text form.
// ParseAmount(c, a.String()) round-trips for every amount a with currency c.
func ParseAmount(c Currency, value string) (Amount, error) {
	v, err := decimal.NewFromString(value)
	if err != nil {
		return Amount{}, fmt.Errorf("parsing %s amount %q: %w", c, value, err)
	}
	return Amount{Currency: c, Value: v}, nil
}

// Sign returns -1, 0 or 1.
func (a Amount) Sign() int {
	return a.Value.Sign()
}

// Neg returns the amount with its sign flipped, same currency tag.
func (a Amount) Neg() Amount {
	return Amount{Currency: a.Currency, Value: a.Value.Neg()}
}

// Add returns a+b. Both amounts must carry the same currency.
func (a Amount) Add(b Amount) (Amount, error) {
	if a.Currency != b.Currency {
		return Amount{}, fmt.Errorf("%w: %s + %s", ErrCurrencyMismatch, a.Currency, b.Currency)
	}
	return Amount{Currency: a.Currency, Value: a.Value.Add(b.Value)}, nil
}

// String renders the canonical decimal text form of the value.
func (a Amount) String() string {
	return a.Value.String()
}
