package table

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderViewOrdersFromSmallBlind(t *testing.T) {
	tbl, _, _, _ := newTestTable(t)
	for _, id := range []string{"alice", "bob", "carol"} {
		_, _, _, _, err := tbl.Join(id, id, false)
		require.NoError(t, err)
	}
	for _, p := range tbl.players {
		p.SetNormal()
	}

	v := View{
		Round:      "FLOP",
		Acting:     0,
		Button:     0,
		SmallBlind: 1,
		BigBlind:   2,
		Community:  []string{"Ah", "7c", "2d"},
		Pot:        30,
		Ante:       2,
		Seats:      []SeatView{{Stack: 190}, {Stack: 210}, {Stack: 170}},
	}
	out := tbl.renderView(v, true)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "[FLOP]  Ah 7c 2d", lines[0])
	assert.Contains(t, lines[1], "pot 30")
	assert.Contains(t, lines[1], "btn alice")
	assert.Contains(t, lines[1], "sb bob")
	assert.Contains(t, lines[2], "bob")
	assert.Contains(t, lines[3], "carol")
	assert.Contains(t, lines[4], "alice")
}

func TestRenderViewMasksActingPlayersPendingAction(t *testing.T) {
	tbl, _, _, _ := newTestTable(t)
	for _, id := range []string{"alice", "bob"} {
		_, _, _, _, err := tbl.Join(id, id, false)
		require.NoError(t, err)
	}
	for _, p := range tbl.players {
		p.SetNormal()
	}
	tbl.countdown = 42

	v := View{
		Round:      "TURN",
		Acting:     0,
		SmallBlind: 0,
		Seats: []SeatView{
			{Stack: 150, Action: "bet", Bet: 20, Active: true},
			{Stack: 180, Action: "call", Bet: 20, Active: true},
		},
	}
	out := tbl.renderView(v, false)

	assert.NotContains(t, out, "bet 20", "the acting seat's recorded action stays hidden")
	assert.Contains(t, out, "call 20")
	assert.Contains(t, out, "<- 42s")
}

func TestRenderViewSkipsFoldedAndLeavingSeats(t *testing.T) {
	tbl, _, _, _ := newTestTable(t)
	for _, id := range []string{"alice", "bob", "carol"} {
		_, _, _, _, err := tbl.Join(id, id, false)
		require.NoError(t, err)
	}
	for _, p := range tbl.players {
		p.SetNormal()
	}
	tbl.players[2].SetLeaving()

	v := View{
		Round:      "RIVER",
		Acting:     1,
		SmallBlind: 0,
		Seats: []SeatView{
			{Stack: 100, Folded: true, Action: "check", Active: true},
			{Stack: 120},
			{Stack: 80},
		},
	}
	out := tbl.renderView(v, true)

	assert.NotContains(t, out, "$100", "folded seats disappear unless showing the fold itself")
	assert.NotContains(t, out, "$80", "leaving seats are not rendered")
	assert.Contains(t, out, "$120")
}

func TestRenderViewShowsFoldLine(t *testing.T) {
	tbl, _, _, _ := newTestTable(t)
	for _, id := range []string{"alice", "bob"} {
		_, _, _, _, err := tbl.Join(id, id, false)
		require.NoError(t, err)
	}
	for _, p := range tbl.players {
		p.SetNormal()
	}

	v := View{
		Round:      "FLOP",
		Acting:     1,
		SmallBlind: 0,
		Seats: []SeatView{
			{Stack: 100, Folded: true, Action: "fold", Active: true},
			{Stack: 120},
		},
	}
	out := tbl.renderView(v, true)

	assert.Contains(t, out, "fold 0")
	assert.Contains(t, out, "alice")
}

func TestRenderPrompt(t *testing.T) {
	out := renderPrompt(Prompt{
		Cards:    []string{"Ah", "Kd"},
		Stack:    180,
		ToCall:   20,
		MinRaise: 8,
	})
	assert.Equal(t, "your hand: Ah Kd | stack 180 | 20 to call | min raise 8", out)
}
