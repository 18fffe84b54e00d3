package viewportsense

import (
	"errors"
	"sync"
)

// ErrAlreadyInitialized is returned by Configure once the shared engine has
// been created.
var ErrAlreadyInitialized = errors.New("shared engine already initialized")

// The shared engine is an explicit process-wide state cell: created on first
// use from the configured Config, torn down and cleared by Reset so tests
// can isolate themselves.
var (
	globalMu     sync.Mutex
	globalEngine *Engine
	globalConfig = DefaultConfig()
)

// Configure sets the configuration the shared engine will be created with.
// It must be called before first use; afterwards it returns
// ErrAlreadyInitialized (Reset first to reconfigure).
func Configure(cfg Config) error {
	globalMu.Lock()
	defer globalMu.Unlock()

	if globalEngine != nil {
		return ErrAlreadyInitialized
	}
	globalConfig = cfg
	return nil
}

// Default returns the shared engine, creating it on first use. A malformed
// configured breakpoint set falls back to an inert default-state engine with
// a diagnostic, keeping the convenience surface available.
func Default() *Engine {
	globalMu.Lock()
	defer globalMu.Unlock()

	if globalEngine == nil {
		eng, err := New(globalConfig)
		if err != nil {
			fallback := globalConfig
			fallback.Breakpoints = nil
			fallback.CustomBreakpoints = nil
			eng, _ = New(fallback)
			eng.logger.Printf("invalid shared breakpoint set, using defaults: %v", err)
		}
		globalEngine = eng
	}
	return globalEngine
}

// Reset destroys the shared engine, if any, and clears the cell so the next
// use creates a fresh one. The configured Config is retained.
func Reset() {
	globalMu.Lock()
	eng := globalEngine
	globalEngine = nil
	globalMu.Unlock()

	if eng != nil {
		eng.Destroy()
	}
}

// Destroy tears down the shared engine and clears the cell. Equivalent to
// Reset; the next use creates a fresh engine from the configured Config.
func Destroy() { Reset() }

// GetState returns the shared engine's current state.
func GetState() State { return Default().GetState() }

// GetBreakpoint returns the shared engine's current breakpoint name.
func GetBreakpoint() string { return Default().GetBreakpoint() }

// IsMobile reports the shared engine's mobile split.
func IsMobile() bool { return Default().IsMobile() }

// IsTablet reports the shared engine's tablet split.
func IsTablet() bool { return Default().IsTablet() }

// IsDesktop reports the shared engine's desktop split.
func IsDesktop() bool { return Default().IsDesktop() }

// IsTouch reports the shared engine's touch capability snapshot.
func IsTouch() bool { return Default().IsTouch() }

// On subscribes to the shared engine.
func On(kind Kind, handler Handler) func() { return Default().On(kind, handler) }

// Off unsubscribes from the shared engine.
func Off(kind Kind, handler Handler) { Default().Off(kind, handler) }
