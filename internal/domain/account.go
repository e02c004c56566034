package domain

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"math/big"
	"strings"

	"golang.org/x/crypto/ripemd160"
)

// ErrMalformedAccount indicates a string that decodes as neither an account
// address nor an account public key.
var ErrMalformedAccount = errors.New("malformed account")

// alphabet is the base58 dictionary used for account encodings. Note that it
// differs from the Bitcoin dictionary: the zero digit is 'r'.
const alphabet = "rpshnaf39wBUDNEGHJKLM4PQRST7VWXYZ2bcdeCg65jkm8oFqi1tuvAxyz"

// Version bytes for base58check payloads.
const (
	versionAccountID     = 0x00
	versionAccountPublic = 0x23
)

const accountPublicLen = 33

// AccountID identifies a ledger account. It is comparable and byte-ordered,
// so it can serve directly as a map or set key.
type AccountID [20]byte

// ParseAddress decodes a base58check account address ("r..." form).
func ParseAddress(s string) (AccountID, error) {
	payload, err := decodeChecked(s, versionAccountID)
	if err != nil {
		return AccountID{}, err
	}
	if len(payload) != len(AccountID{}) {
		return AccountID{}, ErrMalformedAccount
	}
	var id AccountID
	copy(id[:], payload)
	return id, nil
}

// ParsePublicKey decodes a base58check account public key and derives the
// account it controls: RIPEMD160 over SHA256 of the key bytes.
func ParsePublicKey(s string) (AccountID, error) {
	payload, err := decodeChecked(s, versionAccountPublic)
	if err != nil {
		return AccountID{}, err
	}
	if len(payload) != accountPublicLen {
		return AccountID{}, ErrMalformedAccount
	}
	sha := sha256.Sum256(payload)
	h := ripemd160.New()
	h.Write(sha[:])
	var id AccountID
	copy(id[:], h.Sum(nil))
	return id, nil
}

// ParseAccount accepts either encoding, trying the public key form first the
// way account fields are read from requests.
func ParseAccount(s string) (AccountID, error) {
	if id, err := ParsePublicKey(s); err == nil {
		return id, nil
	}
	return ParseAddress(s)
}

// String renders the canonical base58check address.
func (id AccountID) String() string {
	return encodeChecked(versionAccountID, id[:])
}

// Less reports whether id orders before other (byte-wise).
func (id AccountID) Less(other AccountID) bool {
	return bytes.Compare(id[:], other[:]) < 0
}

// HotWalletSet is a deduplicated set of accounts designated as the gateway's
// own operational wallets.
type HotWalletSet map[AccountID]struct{}

// Add inserts an account into the set.
func (s HotWalletSet) Add(id AccountID) {
	s[id] = struct{}{}
}

// Contains reports set membership.
func (s HotWalletSet) Contains(id AccountID) bool {
	_, ok := s[id]
	return ok
}

func checksum(b []byte) []byte {
	first := sha256.Sum256(b)
	second := sha256.Sum256(first[:])
	return second[:4]
}

func encodeChecked(version byte, payload []byte) string {
	b := make([]byte, 0, 1+len(payload)+4)
	b = append(b, version)
	b = append(b, payload...)
	b = append(b, checksum(b)...)

	zeros := 0
	for zeros < len(b) && b[zeros] == 0 {
		zeros++
	}

	n := new(big.Int).SetBytes(b)
	base := big.NewInt(58)
	mod := new(big.Int)
	var digits []byte
	for n.Sign() > 0 {
		n.DivMod(n, base, mod)
		digits = append(digits, alphabet[mod.Int64()])
	}

	out := make([]byte, 0, zeros+len(digits))
	for range zeros {
		out = append(out, alphabet[0])
	}
	for i := len(digits) - 1; i >= 0; i-- {
		out = append(out, digits[i])
	}
	return string(out)
}

func decodeChecked(s string, version byte) ([]byte, error) {
	if s == "" {
		return nil, ErrMalformedAccount
	}

	n := new(big.Int)
	base := big.NewInt(58)
	for _, c := range []byte(s) {
		d := strings.IndexByte(alphabet, c)
		if d < 0 {
			return nil, ErrMalformedAccount
		}
		n.Mul(n, base)
		n.Add(n, big.NewInt(int64(d)))
	}

	zeros := 0
	for zeros < len(s) && s[zeros] == alphabet[0] {
		zeros++
	}

	b := append(make([]byte, zeros), n.Bytes()...)
	if len(b) < 5 || b[0] != version {
		return nil, ErrMalformedAccount
	}
	body, check := b[:len(b)-4], b[len(b)-4:]
	if !bytes.Equal(checksum(body), check) {
		return nil, ErrMalformedAccount
	}
	return body[1:], nil
}
