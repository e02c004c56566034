// Package report implements the gateway_balances query: classification of a
// gateway's trust lines into obligations, hot-wallet balances and assets,
// with per-currency obligation totals in exact decimal arithmetic.
package report

import (
	"fmt"

	"github.com/xrpstat/gwstat/internal/domain"
)

// Class is the bucket a trust line lands in.
type Class int

const (
	// ClassIgnore marks a closed or net-zero line, excluded from all output.
	ClassIgnore Class = iota
	// ClassHotWallet marks a line whose peer is a declared hot wallet.
	ClassHotWallet
	// ClassAsset marks a positive balance held against a non-hot-wallet
	// peer: the gateway is owed, which is unusual for an issuer.
	ClassAsset
	// ClassObligation marks a normal negative balance: the gateway owes the
	// peer.
	ClassObligation
)

// Classification is the outcome for one trust line. Amount is sign-normalized
// so that hot-wallet and obligation entries read as positive holdings.
type Classification struct {
	Class  Class
	Peer   domain.AccountID
	Amount domain.Amount
}

// Classify assigns one trust line to its bucket. The rules form a strict
// priority chain: zero balance first, then hot-wallet membership, then sign.
// Hot-wallet membership outranks sign, so a hot wallet that somehow carries a
// positive balance still lands under ClassHotWallet, never ClassAsset.
func Classify(line domain.TrustLine, hotWallets domain.HotWalletSet) Classification {
	switch {
	case line.Balance.Sign() == 0:
		return Classification{Class: ClassIgnore}
	case hotWallets.Contains(line.Peer):
		return Classification{Class: ClassHotWallet, Peer: line.Peer, Amount: line.Balance.Neg()}
	case line.Balance.Sign() > 0:
		return Classification{Class: ClassAsset, Peer: line.Peer, Amount: line.Balance}
	default:
		return Classification{Class: ClassObligation, Peer: line.Peer, Amount: line.Balance.Neg()}
	}
}

// Result accumulates classifications over one traversal of a gateway's trust
// lines. It lives for a single query and is not safe for concurrent use.
type Result struct {
	obligations map[domain.Currency]domain.Amount
	hotBalances map[domain.AccountID][]domain.Amount
	assets      map[domain.AccountID][]domain.Amount
}

// NewResult creates empty accumulators.
func NewResult() *Result {
	return &Result{
		obligations: make(map[domain.Currency]domain.Amount),
		hotBalances: make(map[domain.AccountID][]domain.Amount),
		assets:      make(map[domain.AccountID][]domain.Amount),
	}
}

// Record folds one classification into the result. Obligations accumulate per
// currency; the first contribution for a currency establishes the entry (the
// amount already carries its tag, so no zero-initialization step exists).
func (r *Result) Record(c Classification) error {
	switch c.Class {
	case ClassIgnore:
		return nil
	case ClassHotWallet:
		r.hotBalances[c.Peer] = append(r.hotBalances[c.Peer], c.Amount)
		return nil
	case ClassAsset:
		r.assets[c.Peer] = append(r.assets[c.Peer], c.Amount)
		return nil
	case ClassObligation:
		current, ok := r.obligations[c.Amount.Currency]
		if !ok {
			r.obligations[c.Amount.Currency] = c.Amount
			return nil
		}
		sum, err := current.Add(c.Amount)
		if err != nil {
			return fmt.Errorf("accumulating obligation: %w", err)
		}
		r.obligations[c.Amount.Currency] = sum
		return nil
	default:
		return fmt.Errorf("unknown classification %d", c.Class)
	}
}
