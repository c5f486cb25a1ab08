package table

// Action entry points for external callers. Each resolves the caller to a
// seat, issues exactly one rule-engine call under the table lock, and returns
// an ActionError if the engine rejects it. Success is silent: the resulting
// state change is picked up by the next clock tick.

// CheckOrCall checks when a check is legal for the caller's seat, otherwise
// calls.
func (t *Table) CheckOrCall(id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	pos, ok := t.seats[id]
	if !ok {
		return ErrNotSeated
	}
	if t.engine.CheckAllowed(pos) {
		return t.action(id, "check", t.engine.Check(pos))
	}
	return t.action(id, "call", t.engine.Call(pos))
}

// Check performs a check for the caller.
func (t *Table) Check(id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	pos, ok := t.seats[id]
	if !ok {
		return ErrNotSeated
	}
	return t.action(id, "check", t.engine.Check(pos))
}

// Fold folds the caller's hand.
func (t *Table) Fold(id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	pos, ok := t.seats[id]
	if !ok {
		return ErrNotSeated
	}
	return t.action(id, "fold", t.engine.Fold(pos))
}

// Call matches the outstanding bet for the caller.
func (t *Table) Call(id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	pos, ok := t.seats[id]
	if !ok {
		return ErrNotSeated
	}
	return t.action(id, "call", t.engine.Call(pos))
}

// Bet raises by the given amount of chips for the caller.
func (t *Table) Bet(id string, chips int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	pos, ok := t.seats[id]
	if !ok {
		return ErrNotSeated
	}
	return t.action(id, "bet", t.engine.Bet(pos, chips))
}

// AllIn puts the caller's whole stack in.
func (t *Table) AllIn(id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	pos, ok := t.seats[id]
	if !ok {
		return ErrNotSeated
	}
	return t.action(id, "all in", t.engine.AllIn(pos))
}

func (t *Table) action(id, name string, err error) error {
	if err != nil {
		return &ActionError{Player: id, Action: name, Err: err}
	}
	return nil
}
