// Package sqlite provides a SQLite-backed ledger: bankrolls per identity and
// chip stacks per (identity, table).
package sqlite

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS accounts (
	id      TEXT PRIMARY KEY,
	balance INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS table_chips (
	account_id TEXT NOT NULL,
	table_id   TEXT NOT NULL,
	chips      INTEGER NOT NULL,
	PRIMARY KEY (account_id, table_id)
);
`

// Store persists ledger state in SQLite. It satisfies table.Ledger.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) a ledger database at path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("ledger path is required")
	}
	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open ledger db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping ledger db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply ledger schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// FetchBalance returns the bankroll for an identity.
func (s *Store) FetchBalance(id string) (int, error) {
	var balance int
	err := s.db.QueryRow(`SELECT balance FROM accounts WHERE id = ?`, id).Scan(&balance)
	if err == sql.ErrNoRows {
		return 0, fmt.Errorf("account %s not found", id)
	}
	if err != nil {
		return 0, fmt.Errorf("fetch balance: %w", err)
	}
	return balance, nil
}

// CreateAccount inserts a new account with the given starting balance.
func (s *Store) CreateAccount(id string, amount int) error {
	if _, err := s.db.Exec(`INSERT INTO accounts (id, balance) VALUES (?, ?)`, id, amount); err != nil {
		return fmt.Errorf("create account %s: %w", id, err)
	}
	return nil
}

// SetBalance overwrites an account's bankroll.
func (s *Store) SetBalance(id string, amount int) error {
	res, err := s.db.Exec(`UPDATE accounts SET balance = ? WHERE id = ?`, amount, id)
	if err != nil {
		return fmt.Errorf("set balance: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("account %s not found", id)
	}
	return nil
}

// TransferToTable moves up to amount from the bankroll onto the table,
// clamped at the available balance, and returns the resulting table stack. A
// broke player therefore ends up with a stack of zero rather than an error;
// the table turns that into its own rejection.
func (s *Store) TransferToTable(id string, amount int, tableID string) (int, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("transfer to table: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var balance int
	err = tx.QueryRow(`SELECT balance FROM accounts WHERE id = ?`, id).Scan(&balance)
	if err == sql.ErrNoRows {
		return 0, fmt.Errorf("account %s not found", id)
	}
	if err != nil {
		return 0, fmt.Errorf("transfer to table: %w", err)
	}

	moved := amount
	if moved > balance {
		moved = balance
	}
	if _, err := tx.Exec(`UPDATE accounts SET balance = balance - ? WHERE id = ?`, moved, id); err != nil {
		return 0, fmt.Errorf("transfer to table: %w", err)
	}
	if _, err := tx.Exec(
		`INSERT INTO table_chips (account_id, table_id, chips) VALUES (?, ?, ?)
		 ON CONFLICT (account_id, table_id) DO UPDATE SET chips = chips + excluded.chips`,
		id, tableID, moved,
	); err != nil {
		return 0, fmt.Errorf("transfer to table: %w", err)
	}

	var chips int
	if err := tx.QueryRow(
		`SELECT chips FROM table_chips WHERE account_id = ? AND table_id = ?`, id, tableID,
	).Scan(&chips); err != nil {
		return 0, fmt.Errorf("transfer to table: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("transfer to table: %w", err)
	}
	return chips, nil
}

// SettleFromTable returns a player's table stack to their bankroll and clears
// the table record.
func (s *Store) SettleFromTable(id, tableID string, amount int) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("settle from table: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`UPDATE accounts SET balance = balance + ? WHERE id = ?`, amount, id); err != nil {
		return fmt.Errorf("settle from table: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM table_chips WHERE account_id = ? AND table_id = ?`, id, tableID); err != nil {
		return fmt.Errorf("settle from table: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("settle from table: %w", err)
	}
	return nil
}

// SetTableStack records a player's current stack at a table.
func (s *Store) SetTableStack(id, tableID string, amount int) error {
	if _, err := s.db.Exec(
		`INSERT INTO table_chips (account_id, table_id, chips) VALUES (?, ?, ?)
		 ON CONFLICT (account_id, table_id) DO UPDATE SET chips = excluded.chips`,
		id, tableID, amount,
	); err != nil {
		return fmt.Errorf("set table stack: %w", err)
	}
	return nil
}
