package domain

import (
	"errors"
	"testing"
)

func TestZeroAccountAddress(t *testing.T) {
	// The all-zero account has a well-known address form.
	var zero AccountID
	if got := zero.String(); got != "rrrrrrrrrrrrrrrrrrrrrhoLvTp" {
		t.Errorf("zero account address = %q, want rrrrrrrrrrrrrrrrrrrrrhoLvTp", got)
	}

	var one AccountID
	one[19] = 1
	if got := one.String(); got != "rrrrrrrrrrrrrrrrrrrrBZbvji" {
		t.Errorf("account one address = %q, want rrrrrrrrrrrrrrrrrrrrBZbvji", got)
	}
}

func TestParseAddressRoundTrip(t *testing.T) {
	id := AccountID{0xad, 0xfc, 0xe5, 0x4f, 0x52, 0x9b, 0x21, 0x54, 0xe3, 0xc3,
		0x61, 0xbb, 0xe3, 0xf7, 0xd4, 0x1d, 0xb0, 0x63, 0x57, 0x17}

	addr := id.String()
	if addr != "rGixi6hzhn3DNddsVVSaDnwSSyt3ydP2Le" {
		t.Fatalf("address = %q, want rGixi6hzhn3DNddsVVSaDnwSSyt3ydP2Le", addr)
	}

	back, err := ParseAddress(addr)
	if err != nil {
		t.Fatalf("ParseAddress(%q) error: %v", addr, err)
	}
	if back != id {
		t.Errorf("round-trip mismatch: got %x, want %x", back, id)
	}
}

func TestParsePublicKeyDerivesAccount(t *testing.T) {
	// 0x02 followed by 32 0x11 bytes, base58check-encoded with the
	// account-public version byte.
	const pub = "aB4arAtgPo1A6zRgFU97PvucuqL4W39TBa3B93uLSQLEzQZ7jDcP"
	const wantAddr = "rGixi6hzhn3DNddsVVSaDnwSSyt3ydP2Le"

	id, err := ParsePublicKey(pub)
	if err != nil {
		t.Fatalf("ParsePublicKey error: %v", err)
	}
	if id.String() != wantAddr {
		t.Errorf("derived account = %s, want %s", id, wantAddr)
	}

	// ParseAccount accepts both encodings.
	if got, err := ParseAccount(pub); err != nil || got != id {
		t.Errorf("ParseAccount(public key) = %v, %v", got, err)
	}
	if got, err := ParseAccount(wantAddr); err != nil || got != id {
		t.Errorf("ParseAccount(address) = %v, %v", got, err)
	}
}

func TestParseAddressRejectsGarbage(t *testing.T) {
	cases := []string{
		"",
		"not base58 0OIl",
		"rGixi6hzhn3DNddsVVSaDnwSSyt3ydP2Lf", // corrupted checksum
		"aB4arAtgPo1A6zRgFU97PvucuqL4W39TBa3B93uLSQLEzQZ7jDcP", // wrong version byte for an address
	}
	for _, s := range cases {
		if _, err := ParseAddress(s); !errors.Is(err, ErrMalformedAccount) {
			t.Errorf("ParseAddress(%q) error = %v, want ErrMalformedAccount", s, err)
		}
	}
}

func TestHotWalletSet(t *testing.T) {
	a := AccountID{1}
	b := AccountID{2}

	set := make(HotWalletSet)
	set.Add(a)
	set.Add(a)

	if len(set) != 1 {
		t.Errorf("set size after duplicate add = %d, want 1", len(set))
	}
	if !set.Contains(a) {
		t.Error("set should contain a")
	}
	if set.Contains(b) {
		t.Error("set should not contain b")
	}
}

func TestAccountOrdering(t *testing.T) {
	a := AccountID{1}
	b := AccountID{2}
	if !a.Less(b) || b.Less(a) {
		t.Error("byte-wise ordering broken")
	}
}
