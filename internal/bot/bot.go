// Package bot provides built-in strategies for automated players. A strategy
// is handed the rule engine and its seat at the end of a clock tick and
// issues exactly one action.
package bot

import (
	"fmt"
	rand "math/rand/v2"

	"github.com/lox/tabled/internal/randutil"
	"github.com/lox/tabled/internal/table"
)

// New builds a strategy by name. Unknown names are an error so config typos
// surface at table setup rather than mid-hand.
func New(name string, seed int64) (table.Strategy, error) {
	switch name {
	case "", "calling":
		return CallingStation{}, nil
	case "maniac":
		return NewManiac(seed), nil
	default:
		return nil, fmt.Errorf("unknown bot strategy %q", name)
	}
}

// CallingStation checks whenever it can and calls otherwise. Never folds,
// never raises; useful as a predictable table filler.
type CallingStation struct{}

// React implements table.Strategy.
func (CallingStation) React(e table.Engine, pos int) error {
	if e.CheckAllowed(pos) {
		return e.Check(pos)
	}
	return e.Call(pos)
}

// Maniac mixes raises into a calling-station baseline and occasionally gives
// up on a bet. The clock loop serializes reactions, so the RNG needs no lock.
type Maniac struct {
	rng *rand.Rand
}

// NewManiac creates a Maniac seeded deterministically.
func NewManiac(seed int64) *Maniac {
	return &Maniac{rng: randutil.New(seed)}
}

// React implements table.Strategy.
func (m *Maniac) React(e table.Engine, pos int) error {
	prompt := e.Prompt(pos)

	roll := m.rng.IntN(10)
	if roll == 0 && prompt.ToCall > 0 {
		return e.Fold(pos)
	}
	if roll < 3 && prompt.MinRaise > 0 && prompt.ToCall+prompt.MinRaise < prompt.Stack {
		return e.Bet(pos, prompt.MinRaise)
	}
	if e.CheckAllowed(pos) {
		return e.Check(pos)
	}
	if prompt.ToCall >= prompt.Stack {
		return e.AllIn(pos)
	}
	return e.Call(pos)
}
