// Package driver keeps track of which worker owns which browser session
package driver

import (
	"errors"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/adyen/shopsuite/internal/browser"
	"github.com/adyen/shopsuite/internal/logging"
)

// Registry creates workers and tracks them until they are released
type Registry struct {
	factory browser.Factory
	opts    browser.Options
	logger  *zap.Logger

	mu      sync.Mutex
	workers map[string]*Worker
}

// NewRegistry returns a registry whose workers start sessions through factory with opts
func NewRegistry(factory browser.Factory, opts browser.Options, logger *zap.Logger) *Registry {
	return &Registry{
		factory: factory,
		opts:    opts,
		logger:  logging.OrNop(logger),
		workers: make(map[string]*Worker),
	}
}

// NewWorker registers a fresh, uninitialized worker
func (r *Registry) NewWorker() *Worker {
	id := uuid.New().String()
	w := &Worker{
		id:      id,
		factory: r.factory,
		opts:    r.opts,
		logger:  r.logger.With(zap.String("worker_id", id)),
	}

	r.mu.Lock()
	r.workers[id] = w
	r.mu.Unlock()

	return w
}

// Worker looks up a registered worker by ID
func (r *Registry) Worker(id string) (*Worker, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	w, ok := r.workers[id]
	return w, ok
}

// Release stops the worker's session and forgets the worker
func (r *Registry) Release(id string) error {
	r.mu.Lock()
	w, ok := r.workers[id]
	delete(r.workers, id)
	r.mu.Unlock()

	if !ok {
		return ErrUnknownWorker
	}
	return w.Stop()
}

// Len returns the number of registered workers
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.workers)
}

// Active returns the number of workers holding a session
func (r *Registry) Active() int {
	r.mu.Lock()
	workers := make([]*Worker, 0, len(r.workers))
	for _, w := range r.workers {
		workers = append(workers, w)
	}
	r.mu.Unlock()

	active := 0
	for _, w := range workers {
		if w.State() == StateActive {
			active++
		}
	}
	return active
}

// StopAll stops every worker's session. Workers stay registered
func (r *Registry) StopAll() error {
	r.mu.Lock()
	workers := make([]*Worker, 0, len(r.workers))
	for _, w := range r.workers {
		workers = append(workers, w)
	}
	r.mu.Unlock()

	var errs []error
	for _, w := range workers {
		if err := w.Stop(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		r.logger.Warn("some sessions failed to stop", zap.Int("failures", len(errs)))
	}
	return errors.Join(errs...)
}
