package llm

import (
	"fmt"
	"sync"
)

// Factory builds one transport from a resolved provider configuration.
type Factory func(cfg ProviderConfig) (Transport, error)

var (
	mu        sync.RWMutex
	factories = make(map[Kind]Factory)
)

// Register installs a transport factory for a provider kind. Adapter
// packages call this from init(); registering a kind twice is a
// programming error.
func Register(kind Kind, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	if _, exists := factories[kind]; exists {
		panic(fmt.Sprintf("transport factory %s already registered", kind))
	}
	factories[kind] = f
}

// New looks up the registered factory for cfg.Kind and constructs the
// transport. No network calls happen here.
func New(cfg ProviderConfig) (Transport, error) {
	mu.RLock()
	f, ok := factories[cfg.Kind]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("no transport registered for provider kind %q", cfg.Kind)
	}
	return f(cfg)
}
