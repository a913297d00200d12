package driver

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/adyen/shopsuite/internal/browser"
)

// State is the lifecycle state of a worker's session association
type State string

// Worker states
const (
	StateUninitialized State = "uninitialized"
	StateActive        State = "active"
)

// Worker is one unit of concurrent test execution. It owns at most one
// browser session at a time and never shares it
type Worker struct {
	id      string
	factory browser.Factory
	opts    browser.Options
	logger  *zap.Logger

	mu      sync.Mutex
	session *browser.Session
}

// ID returns the worker identifier
func (w *Worker) ID() string {
	return w.id
}

// State reports whether the worker currently holds a session
func (w *Worker) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.session == nil {
		return StateUninitialized
	}
	return StateActive
}

// Start creates a session of the given kind and associates it with the worker.
// A worker that already holds a session is left untouched and
// ErrSessionAlreadyActive is returned
func (w *Worker) Start(ctx context.Context, kind browser.Kind) (*browser.Session, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %s", browser.ErrUnsupportedBrowserKind, kind)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.session != nil {
		return nil, fmt.Errorf("worker %s: %w", w.id, ErrSessionAlreadyActive)
	}

	session, err := w.factory.Create(ctx, kind, w.opts)
	if err != nil {
		return nil, fmt.Errorf("failed to start %s session: %w", kind, err)
	}
	w.session = session

	w.logger.Info("session started", zap.String("session_id", session.ID), zap.Stringer("browser", kind))
	return session, nil
}

// Session returns the worker's current session
func (w *Worker) Session() (*browser.Session, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.session == nil {
		return nil, ErrSessionNotInitialized
	}
	return w.session, nil
}

// Stop closes the current session and clears the association. The worker is
// uninitialized afterwards even when closing fails. Stopping an uninitialized
// worker does nothing
func (w *Worker) Stop() error {
	w.mu.Lock()
	session := w.session
	w.session = nil
	w.mu.Unlock()

	if session == nil {
		return nil
	}

	if err := session.Close(); err != nil {
		w.logger.Warn("session closed with errors", zap.String("session_id", session.ID), zap.Error(err))
		return fmt.Errorf("failed to close session %s: %w", session.ID, err)
	}

	w.logger.Info("session stopped", zap.String("session_id", session.ID))
	return nil
}
