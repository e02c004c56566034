// Package ledger provides access to point-in-time ledger snapshots: account
// resolution and trust-line traversal. The report core treats everything here
// as an external collaborator and passes its errors through unchanged.
package ledger

import (
	"context"
	"errors"

	"github.com/xrpstat/gwstat/internal/domain"
)

var (
	// ErrLedgerNotFound indicates the selector matched no ledger.
	ErrLedgerNotFound = errors.New("ledger not found")

	// ErrAccountNotFound indicates the account does not exist in the ledger.
	ErrAccountNotFound = errors.New("account not found")

	// ErrAccountMalformed indicates an ident string that could not be
	// resolved to an account.
	ErrAccountMalformed = errors.New("account malformed")
)

// Source looks up ledger snapshots.
type Source interface {
	Lookup(ctx context.Context, sel Selector) (Snapshot, error)
}

// Snapshot is an immutable point-in-time view of one ledger.
type Snapshot interface {
	// Index returns the ledger sequence number of this snapshot.
	Index() uint32

	// ResolveAccount maps an ident string to an account. Strict resolution
	// accepts only an address or public key; non-strict resolution may also
	// consult a name directory, with index disambiguating multiple matches.
	ResolveAccount(ctx context.Context, ident string, index int, strict bool) (domain.AccountID, error)

	// VisitTrustLines calls fn for every trust line of the account, in
	// ledger order. Traversal stops on the first error, which is returned.
	VisitTrustLines(ctx context.Context, account domain.AccountID, fn func(domain.TrustLine) error) error
}
