package report

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/samber/lo"

	"github.com/xrpstat/gwstat/internal/domain"
	"github.com/xrpstat/gwstat/internal/ledger"
	"github.com/xrpstat/gwstat/internal/rpcfield"
)

// ErrInvalidHotWallet indicates a hotwallet field that is present but fails
// shape or element validation.
var ErrInvalidHotWallet = errors.New("invalid hotwallet")

// Cache stores rendered responses for queries against immutable ledgers.
// Implementations must treat lookup failures as misses.
type Cache interface {
	Get(ctx context.Context, key string) (Response, bool)
	Set(ctx context.Context, key string, resp Response)
}

// Service answers gateway_balances queries against a ledger source.
type Service struct {
	source ledger.Source
	cache  Cache // optional
}

// NewService creates a query service. cache may be nil.
func NewService(source ledger.Source, cache Cache) *Service {
	return &Service{source: source, cache: cache}
}

// GatewayBalances runs one query over untyped request parameters.
//
// Fields are read in a fixed order (ledger selector, account/ident,
// account_index, strict, then hotwallet) and validation stops at the first
// failure, so when several fields are invalid the earliest one in that order
// decides the error. Ledger and account resolution errors pass through
// unchanged.
func (s *Service) GatewayBalances(ctx context.Context, params map[string]any) (Response, error) {
	sel, err := ledger.ParseSelector(params)
	if err != nil {
		return Response{}, err
	}
	snap, err := s.source.Lookup(ctx, sel)
	if err != nil {
		return Response{}, err
	}

	r := rpcfield.NewReader(params)

	var ident string
	switch {
	case r.Has("account"):
		ident = r.String("account")
	case r.Has("ident"):
		ident = r.String("ident")
	default:
		return Response{}, &rpcfield.MissingFieldError{Field: "account"}
	}
	index := r.OptionalUint("account_index", 0)
	strict := r.OptionalBool("strict", false)
	if err := r.Err(); err != nil {
		return Response{}, err
	}

	account, err := snap.ResolveAccount(ctx, ident, int(index), strict)
	if err != nil {
		return Response{}, err
	}

	hotWallets := r.OptionalAccountSet("hotwallet")
	if err := r.Err(); err != nil {
		return Response{}, fmt.Errorf("%w: %w", ErrInvalidHotWallet, err)
	}

	cacheKey := ""
	if s.cache != nil && sel.Immutable() {
		cacheKey = queryKey(snap.Index(), account, hotWallets)
		if resp, ok := s.cache.Get(ctx, cacheKey); ok {
			return resp, nil
		}
	}

	res := NewResult()
	err = snap.VisitTrustLines(ctx, account, func(line domain.TrustLine) error {
		return res.Record(Classify(line, hotWallets))
	})
	if err != nil {
		return Response{}, err
	}

	resp := Assemble(account, snap.Index(), res)
	if cacheKey != "" {
		s.cache.Set(ctx, cacheKey, resp)
	}

	slog.Debug("gateway_balances served",
		"account", resp.Account,
		"ledger_index", resp.LedgerIndex,
		"obligations", len(resp.Obligations),
		"hot_wallets", len(hotWallets))
	return resp, nil
}

// queryKey builds a deterministic cache key: ledger index, gateway account
// and the sorted hot-wallet set.
func queryKey(ledgerIndex uint32, account domain.AccountID, hotWallets domain.HotWalletSet) string {
	wallets := lo.Map(lo.Keys(hotWallets), func(id domain.AccountID, _ int) string {
		return id.String()
	})
	sort.Strings(wallets)
	return fmt.Sprintf("gwbal:%d:%s:%s", ledgerIndex, account, strings.Join(wallets, ","))
}
