package table

import (
	"fmt"
	"strings"
)

// settle reconciles every hand player's final stack with the ledger, exactly
// once per hand. Players left without chips are marked leaving. Called from
// the clock loop's END branch with the lock held, before leaving players are
// filtered out.
func (t *Table) settle() {
	for _, p := range t.hand {
		if err := t.ledger.SetTableStack(p.ID, t.id, p.Stack); err != nil {
			t.logger.Error().Err(err).Str("player", p.ID).Msg("stack not recorded to ledger")
		}
		if p.Stack <= 0 {
			p.SetLeaving()
			t.announce(fmt.Sprintf("%s has no chips left and is leaving the table", p.Name))
		}
	}
}

// report announces each hand player's outcome, iterating from the seat after the
// last aggressor (wrap-around). Hole cards are revealed for every non-folded
// player when the result permits showing, regardless of hand strength.
func (t *Table) report(result Result) {
	n := len(t.hand)
	if n == 0 {
		return
	}
	v := t.engine.View()
	start := (t.engine.LastAggressor() + 1) % n

	for i := 0; i < n; i++ {
		pos := (start + i) % n
		player := t.hand[pos]

		outcome := "wins"
		delta := result.Delta(pos)
		if delta < 0 {
			outcome = "loses"
			delta = -delta
		}

		hand := ""
		if result.ShouldShow() && pos < len(v.Seats) && !v.Seats[pos].Folded {
			cards := t.engine.HoleCards(pos)
			if len(cards) > 0 {
				hand = " (" + strings.Join(cards, " ") + ")"
			}
		}

		t.announce(fmt.Sprintf("%s%s %s %d, stack now %d", player.Name, hand, outcome, delta, player.Stack))
	}
}
