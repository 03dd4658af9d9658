package laurel

import (
	"sync"

	"github.com/laurel-etl/laurel/pkg/errors"
)

// Hook function types for pass events
type (
	// SourceFailedHook is called when a source is treated as empty
	SourceFailedHook func(err *errors.SourceError)

	// PassCompletedHook is called after a pass, including dry runs
	PassCompletedHook func(result *Result)
)

// hooks manages event callbacks for passes
type hooks struct {
	mu              sync.RWMutex
	onSourceFailed  []SourceFailedHook
	onPassCompleted []PassCompletedHook
}

// newHooks creates a new hooks instance
func newHooks() *hooks {
	return &hooks{}
}

// OnSourceFailed registers a callback for absorbed source failures
func (p *Pipeline) OnSourceFailed(fn SourceFailedHook) {
	p.hooks.mu.Lock()
	defer p.hooks.mu.Unlock()
	p.hooks.onSourceFailed = append(p.hooks.onSourceFailed, fn)
}

// OnPassCompleted registers a callback for finished passes
func (p *Pipeline) OnPassCompleted(fn PassCompletedHook) {
	p.hooks.mu.Lock()
	defer p.hooks.mu.Unlock()
	p.hooks.onPassCompleted = append(p.hooks.onPassCompleted, fn)
}

func (h *hooks) sourceFailed(err *errors.SourceError) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, hook := range h.onSourceFailed {
		hook(err)
	}
}

func (h *hooks) passCompleted(result *Result) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, hook := range h.onPassCompleted {
		hook(result)
	}
}
