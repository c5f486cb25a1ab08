package table

import "fmt"

// runClock is the per-hand background loop. It polls the engine at a fixed
// cadence, treating "nothing changed" as the default case, and never blocks
// waiting for an external action. Tick processing time is subtracted from the
// sleep so a slow delivery call delays the cadence rather than stretching it.
func (t *Table) runClock(done chan struct{}) {
	defer close(done)

	<-t.clock.NewTimer(t.startDelay).C
	for {
		start := t.clock.Now()
		if t.tick() {
			t.logger.Debug().Msg("clock loop stopped")
			return
		}
		t.reactBot()
		if elapsed := t.clock.Since(start); elapsed < t.tickEvery {
			<-t.clock.NewTimer(t.tickEvery - elapsed).C
		}
	}
}

// tick runs one pass of the turn-state machine. It is the single writer of
// countdown, lastRound and lastActing; the action dispatcher only ever
// touches engine state. Returns true when the loop should stop.
func (t *Table) tick() (stop bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	round := t.engine.RoundStatus()
	acting := t.engine.ActingPos()

	if round == RoundEnd {
		t.announce("Game Over!")
		result := t.engine.Result()
		result.Execute()
		t.settle()
		t.report(result)
		t.hand = nil
		t.players = activePlayers(t.players)
		t.rebuildSeats()
		t.stallView = true
		t.viewHandle = ""
		return true
	}

	if t.countdown == 0 {
		player := t.players[acting]
		player.Timeouts++
		if player.Timeouts >= MaxTimeouts {
			t.forceFold(acting)
			t.announce(fmt.Sprintf("timed out %d times: %s is leaving the table", player.Timeouts, player.Name))
			player.SetLeaving()
		} else if t.engine.CheckAllowed(acting) {
			t.forceCheck(acting)
		} else {
			t.forceFold(acting)
		}
		t.countdown = MaxAwait
		return false
	}

	if t.lastRound != round || t.lastActing != acting {
		// Transition tick: a new round or a new acting player. The next seat
		// gets a full turn, so the countdown restarts even when only the
		// acting position moved. Prompt the player privately; the shared view
		// was already refreshed by the engine's round-advance callback.
		t.countdown = MaxAwait
		t.lastRound = round
		player := t.players[acting]
		prompt := t.engine.Prompt(acting)
		if _, err := t.msgr.SendPrivate(t.id, player.ID, renderPrompt(prompt)); err != nil {
			t.logger.Warn().Err(err).Str("player", player.ID).Msg("turn prompt not delivered")
		}
	} else {
		t.countdown--
		if t.viewHandle != "" {
			text := t.renderView(t.engine.View(), t.stallView)
			if err := t.msgr.UpdateMessage(t.id, t.viewHandle, text); err != nil {
				t.logger.Warn().Err(err).Msg("countdown refresh not delivered")
			}
		}
	}

	// A player who left mid-hand still holds the acting position until
	// folded on their behalf.
	if current := t.engine.ActingPos(); !t.players[current].IsNormal() {
		t.forceFold(current)
		t.announce(fmt.Sprintf("leaving: %s folds", t.players[current].Name))
		t.countdown = MaxAwait
		return false
	}

	t.lastActing = acting
	return false
}

// reactBot triggers the acting seat's bot strategy, if any, after a tick.
func (t *Table) reactBot() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.engine.RoundStatus() == RoundEnd {
		return
	}
	acting := t.engine.ActingPos()
	if acting < 0 || acting >= len(t.players) {
		return
	}
	strategy, ok := t.bots[t.players[acting].ID]
	if !ok {
		return
	}
	if err := strategy.React(t.engine, acting); err != nil {
		t.logger.Warn().Err(err).Int("seat", acting).Msg("bot reaction failed")
	}
}

// Forced actions are always expected to succeed; a rejection means the clock
// and the engine disagree about whose turn it is.

func (t *Table) forceFold(pos int) {
	if err := t.engine.Fold(pos); err != nil {
		t.logger.Error().Err(err).Int("seat", pos).Msg("invariant violation: forced fold rejected")
	}
}

func (t *Table) forceCheck(pos int) {
	if err := t.engine.Check(pos); err != nil {
		t.logger.Error().Err(err).Int("seat", pos).Msg("invariant violation: forced check rejected")
	}
}
