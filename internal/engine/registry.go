// Package engine is the linkage point between the orchestrator and a rule
// engine. The rules themselves live outside this repository; an
// implementation registers its factory (typically from an init function in
// the binding package) and the server wires it into every table it creates.
package engine

import (
	"errors"
	"sync"

	"github.com/lox/tabled/internal/table"
)

// ErrNoEngine is returned when no rule engine has been registered.
var ErrNoEngine = errors.New("no rule engine registered: link an engine binding into the binary")

var (
	mu      sync.RWMutex
	factory table.EngineFactory
)

// Register installs the rule-engine factory. Registering twice panics; there
// is exactly one engine per binary.
func Register(f table.EngineFactory) {
	mu.Lock()
	defer mu.Unlock()
	if factory != nil {
		panic("engine: Register called twice")
	}
	factory = f
}

// Default returns the registered factory.
func Default() (table.EngineFactory, error) {
	mu.RLock()
	defer mu.RUnlock()
	if factory == nil {
		return nil, ErrNoEngine
	}
	return factory, nil
}
