package table

// RoundEnd is the terminal round status. Observing it is the clock loop's only
// normal exit.
const RoundEnd = "END"

// RoundAdvance is invoked by the rule engine whenever it transitions round
// status. It runs synchronously on whichever goroutine called the engine
// mutator, with the table lock already held; implementations must not
// re-acquire it. stall marks a view with no countdown semantics (end of hand).
type RoundAdvance func(round string, stall bool)

// EngineFactory builds a rule engine bound to a round-advance callback.
type EngineFactory func(advance RoundAdvance) Engine

// Engine is the rule-engine contract the orchestrator depends on. The engine
// owns all betting rules, round progression, showdown evaluation and pot
// distribution; the table never second-guesses it. Start receives the table's
// own *Player values and the engine mutates their stacks in place.
//
// The engine must tolerate ForceEnd being called reentrantly from within the
// round-advance callback: that is how a broken presentation channel aborts a
// hand.
type Engine interface {
	Start(players []*Player, ante, button int) error
	Running() bool

	// RoundStatus and ActingPos are polled by the clock loop once per tick.
	// Whenever Running reports false, RoundStatus must report RoundEnd; the
	// clock loop exits on that status and hand restarts wait for it.
	RoundStatus() string
	ActingPos() int
	LastAggressor() int

	CheckAllowed(pos int) bool
	Check(pos int) error
	Fold(pos int) error
	Call(pos int) error
	Bet(pos int, chips int) error
	AllIn(pos int) error

	ForceEnd()

	HoleCards(pos int) []string
	Prompt(pos int) Prompt
	View() View
	Result() Result
}

// Prompt is what the acting player needs to decide: their cards, what is left
// behind them, and the price of continuing.
type Prompt struct {
	Cards    []string
	Stack    int
	ToCall   int
	MinRaise int
}

// View is a snapshot of the public hand state, sufficient to render the shared
// table message. Seats are indexed by hand position, aligned with the player
// list passed to Start.
type View struct {
	Round      string
	Acting     int
	Button     int
	SmallBlind int
	BigBlind   int
	Community  []string
	Pot        int
	Ante       int
	Seats      []SeatView
}

// SeatView is one player's public line in the view. Action/Bet describe the
// seat's recorded action for the current round; Active reports whether that
// action was taken this round rather than carried over.
type SeatView struct {
	Stack  int
	Folded bool
	Action string
	Bet    int
	Active bool
}

// Result exposes the outcome of a finished hand. Execute applies the chip
// movements to the players; it is called exactly once, by the clock loop's
// END branch.
type Result interface {
	Execute()
	Delta(pos int) int
	ShouldShow() bool
}

// Strategy decides an action for an automated player. React is invoked at the
// end of a clock tick with the table lock held, so it must act on the engine
// directly rather than going back through the table's dispatcher.
type Strategy interface {
	React(e Engine, pos int) error
}
