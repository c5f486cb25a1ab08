package table

import (
	"errors"
	"fmt"
)

var (
	// ErrAlreadySeated is returned when an identity joins while holding a
	// seat that is not marked leaving.
	ErrAlreadySeated = errors.New("already in this table")

	// ErrNotSeated is returned for any operation naming an identity without
	// a seat at the table.
	ErrNotSeated = errors.New("is not in this table")

	// ErrNoFunds is returned when the buy-in transfer leaves a player with
	// an empty table stack.
	ErrNoFunds = errors.New("insufficient funds to buy in")

	// ErrHandRunning rejects Start while a hand is in progress.
	ErrHandRunning = errors.New("a hand is already running")

	// ErrNotEnoughPlayers rejects Start with fewer than two ready players.
	ErrNotEnoughPlayers = errors.New("need at least two players to start")
)

// ActionError reports a rule-engine rejection of a player action. It names
// the caller so the message can be surfaced verbatim in the session channel.
type ActionError struct {
	Player string
	Action string
	Err    error
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("%s, invalid %s", e.Player, e.Action)
}

func (e *ActionError) Unwrap() error { return e.Err }

// DeliveryError reports a presentation-channel failure. Inside the
// round-advance callback it is fatal for the current hand.
type DeliveryError struct {
	Op  string
	Err error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("deliver %s: %v", e.Op, e.Err)
}

func (e *DeliveryError) Unwrap() error { return e.Err }
