// Package table orchestrates a single multiplayer poker session: seating,
// betting-round progression, per-turn timeouts, automated players, and chip
// settlement against a ledger. The poker rules themselves live behind the
// Engine interface; this package owns the turn-state machine around them.
package table

import (
	"fmt"
	rand "math/rand/v2"
	"sync"
	"time"

	"github.com/coder/quartz"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/lox/tabled/internal/randutil"
)

const (
	// MaxAwait is the per-turn countdown in ticks (one tick per second).
	MaxAwait = 60

	// MaxTimeouts is how many consecutive expired turns remove a player.
	MaxTimeouts = 2

	// InitialBalance seeds newly created ledger accounts.
	InitialBalance = 1000

	// TableBuyIn is transferred from bankroll to table stack on every join.
	TableBuyIn = 200

	// DefaultAnte is the per-hand ante unless configured otherwise.
	DefaultAnte = 2
)

// Table is one game session. Two execution contexts mutate it: the per-hand
// clock loop and synchronous action calls arriving from request handlers.
// Every access to the engine and to the turn-tracking fields (countdown,
// lastRound, lastActing) happens under mu; game semantics make the two
// contexts mutually exclusive once serialized, so no finer locking exists.
type Table struct {
	mu sync.Mutex

	// startMu serializes hand-boundary transitions (Start, Close) so the
	// engine is never restarted while a previous clock loop is being joined.
	startMu sync.Mutex

	id     string
	owner  string
	logger zerolog.Logger

	engine Engine
	ledger Ledger
	msgr   Messenger

	players []*Player
	hand    []*Player      // players dealt into the running hand, by engine position
	seats   map[string]int // identity -> position in players
	bots    map[string]Strategy

	countdown  int
	lastRound  string
	lastActing int
	viewHandle string
	stallView  bool
	broken     bool // presentation channel failed mid-hand

	button  int
	ante    int
	hands   int
	nameLen int

	loopDone   chan struct{}
	clock      quartz.Clock
	tickEvery  time.Duration
	startDelay time.Duration
	rng        *rand.Rand
}

// Option configures a Table at construction.
type Option func(*Table)

// WithLogger sets the base logger; the table derives a component logger from it.
func WithLogger(logger zerolog.Logger) Option {
	return func(t *Table) { t.logger = logger }
}

// WithAnte overrides the per-hand ante.
func WithAnte(ante int) Option {
	return func(t *Table) { t.ante = ante }
}

// WithClock injects the clock driving the turn loop.
func WithClock(c quartz.Clock) Option {
	return func(t *Table) { t.clock = c }
}

// WithCadence overrides the tick interval and the delay before the first tick.
func WithCadence(tick, delay time.Duration) Option {
	return func(t *Table) {
		t.tickEvery = tick
		t.startDelay = delay
	}
}

// WithRand injects the RNG used to seat the first button.
func WithRand(rng *rand.Rand) Option {
	return func(t *Table) { t.rng = rng }
}

// New creates a table owned by the given user. The engine is constructed here
// so it can be bound to the table's round-advance callback.
func New(owner string, newEngine EngineFactory, ledger Ledger, msgr Messenger, opts ...Option) *Table {
	t := &Table{
		id:         uuid.NewString(),
		owner:      owner,
		logger:     zerolog.Nop(),
		ledger:     ledger,
		msgr:       msgr,
		seats:      make(map[string]int),
		bots:       make(map[string]Strategy),
		countdown:  MaxAwait,
		lastActing: -1,
		button:     -1,
		ante:       DefaultAnte,
		clock:      quartz.NewReal(),
		tickEvery:  time.Second,
		startDelay: 3 * time.Second,
		rng:        randutil.New(time.Now().UnixNano()),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.logger = t.logger.With().Str("component", "table").Str("table_id", t.id).Logger()
	t.engine = newEngine(t.onRoundAdvance)
	return t
}

// ID returns the table's unique identifier.
func (t *Table) ID() string { return t.id }

// Owner returns the identity that opened the table.
func (t *Table) Owner() string { return t.owner }

// Join seats an identity at the table, buying in through the ledger. It
// returns the seat position, the count of ready players, the bankroll before
// buy-in, and the resulting table stack.
func (t *Table) Join(id, name string, isBot bool) (pos, ready, balance, stack int, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.join(id, name, isBot)
}

func (t *Table) join(id, name string, isBot bool) (int, int, int, int, error) {
	balance, err := t.ledger.FetchBalance(id)
	if err != nil {
		if err := t.ledger.CreateAccount(id, InitialBalance); err != nil {
			return -1, -1, -1, -1, fmt.Errorf("create account: %w", err)
		}
		balance = InitialBalance
	}
	if isBot {
		// Bots are not persisted real players; their bankroll is pinned to
		// the initial balance on every join.
		if err := t.ledger.SetBalance(id, InitialBalance); err != nil {
			return -1, -1, -1, -1, fmt.Errorf("reset bot balance: %w", err)
		}
		balance = InitialBalance
	}

	player := NewPlayer(id, name)
	pos := len(t.players)
	if existing, ok := t.seats[id]; ok {
		pos = existing
		player = t.players[pos]
		if !player.IsLeaving() {
			return -1, -1, -1, -1, ErrAlreadySeated
		}
		player.SetEntering()
	}

	if len(name) > t.nameLen {
		t.nameLen = len(name)
	}

	stack, err := t.ledger.TransferToTable(id, TableBuyIn, t.id)
	if err != nil {
		return -1, -1, -1, -1, fmt.Errorf("buy in: %w", err)
	}
	player.Stack = stack
	if stack == 0 {
		return -1, -1, -1, -1, ErrNoFunds
	}

	if _, ok := t.seats[id]; !ok {
		t.players = append(t.players, player)
		t.seats[id] = pos
	}
	t.logger.Info().Str("player", id).Int("seat", pos).Int("stack", stack).Msg("player joined")
	return pos, t.ready(), balance, stack, nil
}

// Leave settles a player's table stack back to the ledger and marks the seat
// leaving. The seat itself is released at the next hand boundary.
func (t *Table) Leave(id string) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.leave(id)
}

func (t *Table) leave(id string) (int, error) {
	pos, ok := t.seats[id]
	if !ok {
		return -1, ErrNotSeated
	}
	player := t.players[pos]
	if err := t.ledger.SettleFromTable(player.ID, t.id, player.Stack); err != nil {
		return -1, fmt.Errorf("settle: %w", err)
	}
	player.SetLeaving()
	t.logger.Info().Str("player", id).Msg("player leaving")
	return t.ready(), nil
}

// AddBot seats an automated player and registers its strategy.
func (t *Table) AddBot(s Strategy) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	id := fmt.Sprintf("bot_%d", len(t.bots))
	pos, _, _, stack, err := t.join(id, id, true)
	if err != nil {
		return err
	}
	t.bots[id] = s
	t.announce(fmt.Sprintf("%s has joined at seat %d with $%d", id, pos, stack))
	return nil
}

// Ready returns the number of players not marked leaving.
func (t *Table) Ready() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.ready()
}

func (t *Table) ready() int {
	n := 0
	for _, p := range t.players {
		if !p.IsLeaving() {
			n++
		}
	}
	return n
}

// Hand is one player's hole cards, returned from Start so the caller can
// deliver them privately.
type Hand struct {
	ID    string
	Cards []string
}

// Start deals a new hand. Leaving players are dropped and the seat mapping is
// rebuilt before the engine starts; the button is seated randomly on the
// table's first hand and advances by one thereafter. Any previous clock loop
// is fully joined before the engine restarts, or the restart would wipe the
// END status the old loop exits on.
func (t *Table) Start() ([]Hand, error) {
	t.startMu.Lock()
	defer t.startMu.Unlock()

	t.mu.Lock()
	if t.engine.Running() {
		t.mu.Unlock()
		return nil, ErrHandRunning
	}
	prev := t.loopDone
	t.loopDone = nil
	t.mu.Unlock()

	// The previous loop is past its hand (the engine is idle) and exits on
	// its next tick.
	if prev != nil {
		<-prev
	}

	t.mu.Lock()
	if t.ready() < 2 {
		t.mu.Unlock()
		return nil, ErrNotEnoughPlayers
	}

	t.players = activePlayers(t.players)
	t.rebuildSeats()

	if t.button < 0 {
		t.button = t.rng.IntN(len(t.players))
	} else {
		t.button = (t.button + 1) % len(t.players)
	}
	for _, p := range t.players {
		p.SetNormal()
	}

	// Turn tracking restarts per hand; the first tick treats the opening
	// round as a transition.
	t.lastRound = ""
	t.lastActing = -1
	t.broken = false

	if err := t.engine.Start(t.players, t.ante, t.button); err != nil {
		t.mu.Unlock()
		return nil, fmt.Errorf("start hand: %w", err)
	}
	t.hands++

	// Settlement runs over this snapshot: seats added while the hand is live
	// have no engine position and are not part of its result.
	t.hand = t.players[:len(t.players):len(t.players)]

	hands := make([]Hand, len(t.players))
	for pos, p := range t.players {
		hands[pos] = Hand{ID: p.ID, Cards: t.engine.HoleCards(pos)}
	}

	done := make(chan struct{})
	t.loopDone = done
	t.logger.Debug().Int("hand", t.hands).Int("button", t.button).Msg("hand started")
	t.mu.Unlock()

	go t.runClock(done)
	return hands, nil
}

// Close ends any running hand, waits for the clock loop to exit, and releases
// every seat through the ledger.
func (t *Table) Close() {
	t.startMu.Lock()
	defer t.startMu.Unlock()

	t.mu.Lock()
	t.engine.ForceEnd()
	done := t.loopDone
	t.loopDone = nil
	t.mu.Unlock()

	if done != nil {
		<-done
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	for _, p := range t.players {
		if p.IsLeaving() {
			continue
		}
		if _, err := t.leave(p.ID); err != nil {
			t.logger.Error().Err(err).Str("player", p.ID).Msg("failed to release seat on close")
		}
	}
	t.logger.Info().Msg("table closed")
}

// rebuildSeats recomputes the identity-to-position mapping from the current
// player ordering. Called whenever the player list changes shape so the
// mapping never goes stale.
func (t *Table) rebuildSeats() {
	for id := range t.seats {
		delete(t.seats, id)
	}
	for pos, p := range t.players {
		t.seats[p.ID] = pos
	}
}

func activePlayers(players []*Player) []*Player {
	active := players[:0:0]
	for _, p := range players {
		if !p.IsLeaving() {
			active = append(active, p)
		}
	}
	return active
}

// announce sends a plain notification to the session channel. Announcement
// loss is logged, not fatal; only view delivery aborts a hand.
func (t *Table) announce(text string) {
	if _, err := t.msgr.SendToTable(t.id, text); err != nil {
		t.logger.Warn().Err(err).Str("text", text).Msg("announcement not delivered")
	}
}

// GameInfo renders a debugging snapshot of the current hand state.
func (t *Table) GameInfo() string {
	t.mu.Lock()
	defer t.mu.Unlock()

	v := t.engine.View()
	info := fmt.Sprintf("round %s, hand %d\n", v.Round, t.hands)
	info += fmt.Sprintf("button %d, sb %d, bb %d, acting %d\n", v.Button, v.SmallBlind, v.BigBlind, v.Acting)
	info += fmt.Sprintf("community %v, pot %d, ante %d\n", v.Community, v.Pot, v.Ante)
	for pos, p := range t.players {
		line := fmt.Sprintf("%s: stack %d, state %s, timeouts %d", p.Name, p.Stack, p.Lifecycle, p.Timeouts)
		if pos < len(v.Seats) {
			line += fmt.Sprintf(", folded %v, can_check %v", v.Seats[pos].Folded, t.engine.CheckAllowed(pos))
		}
		info += line + "\n"
	}
	return info
}
