package table

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

// fakeLedger keeps bankrolls and table stacks in memory. A single table is
// assumed, so stacks are keyed by identity only.
type fakeLedger struct {
	mu       sync.Mutex
	balances map[string]int
	stacks   map[string]int
	settled  map[string]int // SettleFromTable call count per identity
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		balances: make(map[string]int),
		stacks:   make(map[string]int),
		settled:  make(map[string]int),
	}
}

func (l *fakeLedger) FetchBalance(id string) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	balance, ok := l.balances[id]
	if !ok {
		return 0, fmt.Errorf("account %s not found", id)
	}
	return balance, nil
}

func (l *fakeLedger) CreateAccount(id string, amount int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balances[id] = amount
	return nil
}

func (l *fakeLedger) SetBalance(id string, amount int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balances[id] = amount
	return nil
}

func (l *fakeLedger) TransferToTable(id string, amount int, tableID string) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	moved := amount
	if balance := l.balances[id]; balance < moved {
		moved = balance
	}
	l.balances[id] -= moved
	l.stacks[id] += moved
	return l.stacks[id], nil
}

func (l *fakeLedger) SettleFromTable(id, tableID string, amount int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balances[id] += amount
	delete(l.stacks, id)
	l.settled[id]++
	return nil
}

func (l *fakeLedger) SetTableStack(id, tableID string, amount int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.stacks[id] = amount
	return nil
}

func (l *fakeLedger) balance(id string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balances[id]
}

func (l *fakeLedger) stack(id string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stacks[id]
}

// fakeMessenger records every delivery. Set failSend to make SendToTable and
// SendPrivate fail.
type fakeMessenger struct {
	mu       sync.Mutex
	failSend error

	sent     []string
	updates  map[string]string // handle -> latest text
	deleted  []string
	privates map[string][]string // player -> texts
	handles  int
}

func newFakeMessenger() *fakeMessenger {
	return &fakeMessenger{
		updates:  make(map[string]string),
		privates: make(map[string][]string),
	}
}

func (m *fakeMessenger) SendToTable(tableID, text string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSend != nil {
		return "", m.failSend
	}
	m.sent = append(m.sent, text)
	m.handles++
	return fmt.Sprintf("msg_%d", m.handles), nil
}

func (m *fakeMessenger) UpdateMessage(tableID, handle, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updates[handle] = text
	return nil
}

func (m *fakeMessenger) DeleteMessage(tableID, handle string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, handle)
	return nil
}

func (m *fakeMessenger) SendPrivate(tableID, playerID, text string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSend != nil {
		return "", m.failSend
	}
	m.privates[playerID] = append(m.privates[playerID], text)
	m.handles++
	return fmt.Sprintf("msg_%d", m.handles), nil
}

func (m *fakeMessenger) sentContaining(substr string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, text := range m.sent {
		if strings.Contains(text, substr) {
			return true
		}
	}
	return false
}

func (m *fakeMessenger) sentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

func (m *fakeMessenger) privateCount(playerID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.privates[playerID])
}

func (m *fakeMessenger) setFailSend(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failSend = err
}

// fakeResult scripts a hand outcome.
type fakeResult struct {
	deltas   map[int]int
	show     bool
	executed int
}

func (r *fakeResult) Execute()         { r.executed++ }
func (r *fakeResult) Delta(pos int) int { return r.deltas[pos] }
func (r *fakeResult) ShouldShow() bool { return r.show }

// fakeEngine is a scripted rule engine. Tests drive it by mutating round,
// acting and the per-seat flags; every action call is recorded.
type fakeEngine struct {
	mu      sync.Mutex
	advance RoundAdvance

	running    bool
	round      string
	acting     int
	aggressor  int
	canCheck   map[int]bool
	folded     map[int]bool
	cards      map[int][]string
	view       View
	result     *fakeResult
	actionErr  error
	forceEnded int

	startedWith []*Player
	startAnte   int
	startButton int
	checks      []int
	folds       []int
	calls       []int
	allIns      []int
	bets        map[int]int
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{
		round:     "PREFLOP",
		aggressor: 0,
		canCheck:  make(map[int]bool),
		folded:    make(map[int]bool),
		cards:     make(map[int][]string),
		result:    &fakeResult{deltas: make(map[int]int)},
		bets:      make(map[int]int),
	}
}

// factory returns an EngineFactory that hands out this fake and captures the
// table's round-advance callback.
func (e *fakeEngine) factory() EngineFactory {
	return func(advance RoundAdvance) Engine {
		e.advance = advance
		return e
	}
}

func (e *fakeEngine) Start(players []*Player, ante, button int) error {
	e.mu.Lock()
	e.running = true
	e.round = "PREFLOP"
	e.startedWith = players
	e.startAnte = ante
	e.startButton = button
	seats := make([]SeatView, len(players))
	for pos, p := range players {
		seats[pos].Stack = p.Stack
		if len(e.cards[pos]) == 0 {
			e.cards[pos] = []string{"2c", "7d"}
		}
	}
	e.view = View{Round: e.round, Acting: e.acting, Button: button, Seats: seats}
	advance := e.advance
	e.mu.Unlock()

	// Opening view, like a real engine announcing the first round.
	if advance != nil {
		advance("PREFLOP", false)
	}
	return nil
}

func (e *fakeEngine) Running() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.running
}

func (e *fakeEngine) RoundStatus() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.round
}

func (e *fakeEngine) ActingPos() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.acting
}

func (e *fakeEngine) LastAggressor() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.aggressor
}

func (e *fakeEngine) CheckAllowed(pos int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.canCheck[pos]
}

func (e *fakeEngine) Check(pos int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.actionErr != nil {
		return e.actionErr
	}
	e.checks = append(e.checks, pos)
	return nil
}

func (e *fakeEngine) Fold(pos int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.actionErr != nil {
		return e.actionErr
	}
	e.folds = append(e.folds, pos)
	e.folded[pos] = true
	return nil
}

func (e *fakeEngine) Call(pos int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.actionErr != nil {
		return e.actionErr
	}
	e.calls = append(e.calls, pos)
	return nil
}

func (e *fakeEngine) Bet(pos int, chips int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.actionErr != nil {
		return e.actionErr
	}
	e.bets[pos] = chips
	return nil
}

func (e *fakeEngine) AllIn(pos int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.actionErr != nil {
		return e.actionErr
	}
	e.allIns = append(e.allIns, pos)
	return nil
}

func (e *fakeEngine) ForceEnd() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.forceEnded++
	e.running = false
	e.round = RoundEnd
}

func (e *fakeEngine) HoleCards(pos int) []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cards[pos]
}

func (e *fakeEngine) Prompt(pos int) Prompt {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Prompt{Cards: e.cards[pos], Stack: 100, ToCall: 10, MinRaise: 4}
}

func (e *fakeEngine) View() View {
	e.mu.Lock()
	defer e.mu.Unlock()
	v := e.view
	v.Round = e.round
	v.Acting = e.acting
	for pos := range v.Seats {
		v.Seats[pos].Folded = e.folded[pos]
	}
	return v
}

func (e *fakeEngine) Result() Result {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.result
}

func (e *fakeEngine) setRound(round string, acting int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.round = round
	e.acting = acting
	if round == RoundEnd {
		e.running = false
	}
}

func (e *fakeEngine) foldCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.folds)
}

func (e *fakeEngine) checkCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.checks)
}

// stubStrategy checks or calls, recording nothing.
type stubStrategy struct{}

func (stubStrategy) React(e Engine, pos int) error {
	if e.CheckAllowed(pos) {
		return e.Check(pos)
	}
	return e.Call(pos)
}

var errDown = errors.New("channel unavailable")
