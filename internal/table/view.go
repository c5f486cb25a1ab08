package table

import (
	"fmt"
	"strings"
)

// onRoundAdvance is the presentation binding the engine invokes on every round
// transition. It runs with the table lock already held (on whichever goroutine
// called the mutator) and must not re-acquire it.
//
// A failed view delivery is fatal for the hand: the table is marked broken and
// the engine is force-ended, so the next tick settles and stops the loop rather
// than progressing invisibly on a dead channel.
func (t *Table) onRoundAdvance(round string, stall bool) {
	t.countdown = MaxAwait

	old := t.viewHandle
	handle, err := t.msgr.SendToTable(t.id, t.renderView(t.engine.View(), stall))
	if err != nil {
		t.broken = true
		t.logger.Error().Err(err).Str("round", round).Msg("view delivery failed, aborting hand")
		t.engine.ForceEnd()
		return
	}
	t.viewHandle = handle
	t.stallView = stall

	if old != "" {
		if err := t.msgr.DeleteMessage(t.id, old); err != nil {
			t.logger.Warn().Err(err).Msg("stale view not deleted")
		}
	}
}

// renderView builds the shared table message: community cards, pot, positions,
// then one line per live player starting from the small blind. A player's
// recorded action is shown only once it no longer telegraphs the acting
// player's pending decision; folded players appear only on the fold line
// itself.
func (t *Table) renderView(v View, stall bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s]  %s\n", v.Round, strings.Join(v.Community, " "))
	fmt.Fprintf(&b, "pot %d  ante %d  btn %s  sb %s  bb %s\n",
		v.Pot, v.Ante, t.seatName(v.Button), t.seatName(v.SmallBlind), t.seatName(v.BigBlind))

	n := len(t.players)
	for i := 0; i < n; i++ {
		pos := (v.SmallBlind + i) % n
		player := t.players[pos]
		if !player.IsNormal() || pos >= len(v.Seats) {
			continue
		}
		seat := v.Seats[pos]

		action, bet := "", 0
		if seat.Active && (stall || pos != v.Acting) {
			action, bet = seat.Action, seat.Bet
		}
		if seat.Folded && action != "fold" {
			continue
		}

		fmt.Fprintf(&b, "%-*s  $%d", t.nameLen, player.Name, seat.Stack)
		if action != "" {
			fmt.Fprintf(&b, "  %s %d", action, bet)
		}
		if !stall && pos == v.Acting {
			fmt.Fprintf(&b, "  <- %ds", t.countdown)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func (t *Table) seatName(pos int) string {
	if pos < 0 || pos >= len(t.players) {
		return "?"
	}
	return t.players[pos].Name
}

// renderPrompt builds the private turn prompt for the acting player.
func renderPrompt(p Prompt) string {
	return fmt.Sprintf("your hand: %s | stack %d | %d to call | min raise %d",
		strings.Join(p.Cards, " "), p.Stack, p.ToCall, p.MinRaise)
}
