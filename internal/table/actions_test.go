package table

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActionsRouteToCallerSeat(t *testing.T) {
	tbl, engine, _, _ := startHand(t)

	require.NoError(t, tbl.Check("alice"))
	require.NoError(t, tbl.Fold("bob"))
	require.NoError(t, tbl.Call("alice"))
	require.NoError(t, tbl.Bet("bob", 40))
	require.NoError(t, tbl.AllIn("alice"))

	assert.Equal(t, []int{0}, engine.checks)
	assert.Equal(t, []int{1}, engine.folds)
	assert.Equal(t, []int{0}, engine.calls)
	assert.Equal(t, 40, engine.bets[1])
	assert.Equal(t, []int{0}, engine.allIns)
}

func TestActionsRejectUnseatedCaller(t *testing.T) {
	tbl, _, _, _ := startHand(t)

	assert.ErrorIs(t, tbl.Check("mallory"), ErrNotSeated)
	assert.ErrorIs(t, tbl.Fold("mallory"), ErrNotSeated)
	assert.ErrorIs(t, tbl.Call("mallory"), ErrNotSeated)
	assert.ErrorIs(t, tbl.Bet("mallory", 10), ErrNotSeated)
	assert.ErrorIs(t, tbl.AllIn("mallory"), ErrNotSeated)
	assert.ErrorIs(t, tbl.CheckOrCall("mallory"), ErrNotSeated)
}

func TestCheckOrCallPrefersCheck(t *testing.T) {
	tbl, engine, _, _ := startHand(t)

	engine.canCheck[0] = true
	require.NoError(t, tbl.CheckOrCall("alice"))
	assert.Equal(t, []int{0}, engine.checks)
	assert.Empty(t, engine.calls)

	require.NoError(t, tbl.CheckOrCall("bob"))
	assert.Equal(t, []int{1}, engine.calls)
}

func TestEngineRejectionBecomesActionError(t *testing.T) {
	tbl, engine, _, _ := startHand(t)
	rejected := errors.New("not your turn")
	engine.actionErr = rejected

	err := tbl.Bet("alice", 40)
	require.Error(t, err)

	var actionErr *ActionError
	require.ErrorAs(t, err, &actionErr)
	assert.Equal(t, "alice", actionErr.Player)
	assert.Equal(t, "bet", actionErr.Action)
	assert.Equal(t, "alice, invalid bet", err.Error())
	assert.ErrorIs(t, err, rejected)
}
