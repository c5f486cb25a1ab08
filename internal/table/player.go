package table

// Lifecycle tracks a seat across hand boundaries. A player joins as Entering,
// becomes Normal when a hand starts, and is marked Leaving when they cash out.
// Leaving seats are only removed from the table at the next hand boundary, so a
// player can rejoin their old seat in between.
type Lifecycle int

const (
	Entering Lifecycle = iota
	Normal
	Leaving
)

func (l Lifecycle) String() string {
	switch l {
	case Entering:
		return "entering"
	case Normal:
		return "normal"
	case Leaving:
		return "leaving"
	default:
		return "unknown"
	}
}

// Player is one seat at a table. Stack is table chips only; the player's
// remaining bankroll lives in the ledger. The rule engine adjusts Stack
// directly during a hand, the table reconciles it back to the ledger at
// settlement.
type Player struct {
	ID        string
	Name      string
	Stack     int
	Lifecycle Lifecycle

	// Timeouts counts turns the player let expire; reaching two gets them
	// removed from the table.
	Timeouts int
}

// NewPlayer creates a seat in the Entering state.
func NewPlayer(id, name string) *Player {
	return &Player{ID: id, Name: name, Lifecycle: Entering}
}

func (p *Player) IsEntering() bool { return p.Lifecycle == Entering }
func (p *Player) IsNormal() bool   { return p.Lifecycle == Normal }
func (p *Player) IsLeaving() bool  { return p.Lifecycle == Leaving }

func (p *Player) SetEntering() { p.Lifecycle = Entering }
func (p *Player) SetNormal()   { p.Lifecycle = Normal }
func (p *Player) SetLeaving()  { p.Lifecycle = Leaving }
