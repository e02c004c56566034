package report

import (
	"sort"

	"github.com/samber/lo"

	"github.com/xrpstat/gwstat/internal/domain"
)

// BalanceEntry is one rendered amount in the balances and assets sections.
type BalanceEntry struct {
	Currency string `json:"currency"`
	Value    string `json:"value"`
}

// Response is the rendered gateway_balances result. A section is omitted
// entirely (not rendered as an empty object) when its collection is empty.
// encoding/json sorts map keys, so all sections render in key order.
type Response struct {
	Account     string                    `json:"account"`
	LedgerIndex uint32                    `json:"ledger_index"`
	Obligations map[string]string         `json:"obligations,omitempty"`
	Balances    map[string][]BalanceEntry `json:"balances,omitempty"`
	Assets      map[string][]BalanceEntry `json:"assets,omitempty"`
}

// Assemble renders a traversal result. Empty collections become nil maps so
// their sections disappear from the JSON encoding.
func Assemble(account domain.AccountID, ledgerIndex uint32, res *Result) Response {
	out := Response{
		Account:     account.String(),
		LedgerIndex: ledgerIndex,
	}

	if len(res.obligations) > 0 {
		out.Obligations = make(map[string]string, len(res.obligations))
		for currency, amount := range res.obligations {
			out.Obligations[string(currency)] = amount.String()
		}
	}
	if len(res.hotBalances) > 0 {
		out.Balances = renderAccountAmounts(res.hotBalances)
	}
	if len(res.assets) > 0 {
		out.Assets = renderAccountAmounts(res.assets)
	}
	return out
}

func renderAccountAmounts(m map[domain.AccountID][]domain.Amount) map[string][]BalanceEntry {
	out := make(map[string][]BalanceEntry, len(m))
	for account, amounts := range m {
		out[account.String()] = lo.Map(amounts, func(a domain.Amount, _ int) BalanceEntry {
			return BalanceEntry{Currency: string(a.Currency), Value: a.String()}
		})
	}
	return out
}

// SortedObligations lists the obligations section in currency order, for
// renderers that need a deterministic sequence rather than a map.
func (r Response) SortedObligations() []BalanceEntry {
	currencies := lo.Keys(r.Obligations)
	sort.Strings(currencies)
	return lo.Map(currencies, func(c string, _ int) BalanceEntry {
		return BalanceEntry{Currency: c, Value: r.Obligations[c]}
	})
}

// SortedAccounts lists the keys of a balances or assets section in account
// order.
func SortedAccounts(section map[string][]BalanceEntry) []string {
	accounts := lo.Keys(section)
	sort.Strings(accounts)
	return accounts
}
