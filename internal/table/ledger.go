package table

// Ledger persists bankrolls and per-table chip records. All chip movement in
// or out of a table goes through it; a player's table stack is never changed
// without a matching ledger call. Calls are synchronous and assumed strongly
// consistent per call.
type Ledger interface {
	// FetchBalance returns the bankroll for an identity, or an error if the
	// identity is unknown.
	FetchBalance(id string) (int, error)
	CreateAccount(id string, amount int) error
	SetBalance(id string, amount int) error

	// TransferToTable moves up to amount from the identity's bankroll into
	// its stack at the given table, clamped at the available balance, and
	// returns the resulting table stack.
	TransferToTable(id string, amount int, tableID string) (int, error)

	// SettleFromTable returns a player's table stack to their bankroll and
	// clears the table record.
	SettleFromTable(id, tableID string, amount int) error

	// SetTableStack records a player's final stack after a hand.
	SetTableStack(id, tableID string, amount int) error
}
