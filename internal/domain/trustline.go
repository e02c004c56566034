package domain

// TrustLine is one bilateral ledger edge between the queried account and a
// counterparty, in a single currency. Balance is signed from the queried
// account's perspective: negative means the queried account owes the peer,
// positive means the peer owes the queried account.
type TrustLine struct {
	Peer    AccountID
	Balance Amount
}
