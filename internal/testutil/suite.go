// Package testutil wires the suite components together for browser tests
package testutil

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	"go.uber.org/zap"

	"github.com/adyen/shopsuite/internal/browser"
	"github.com/adyen/shopsuite/internal/config"
	"github.com/adyen/shopsuite/internal/driver"
	"github.com/adyen/shopsuite/internal/logging"
	"github.com/adyen/shopsuite/internal/testdata"
	"github.com/adyen/shopsuite/internal/wait"
)

// Suite holds everything shared by the tests of one package run
type Suite struct {
	Config   *config.SuiteConfig
	Kind     browser.Kind
	Logger   *zap.Logger
	Registry *driver.Registry
	Data     *testdata.Resolver

	closers []func() error
}

// Fixture is the per-test view of the suite
type Fixture struct {
	Worker  *driver.Worker
	Session *browser.Session
	Wait    *wait.Waiter
	Data    *testdata.Resolver
	Logger  *zap.Logger
}

// Load reads the properties file at path and starts a playwright-backed suite
func Load(path string) (*Suite, error) {
	props, err := config.LoadProperties(path)
	if err != nil {
		return nil, err
	}

	cfg, err := config.LoadSuiteConfig(props)
	if err != nil {
		return nil, fmt.Errorf("invalid suite configuration: %w", err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	factory, err := browser.NewPlaywrightFactory(logger)
	if err != nil {
		return nil, err
	}

	opts := browser.DefaultOptions(cfg.Headless)
	opts.ExecutablePath = os.Getenv("PLAYWRIGHT_CHROMIUM_EXECUTABLE_PATH")

	suite, err := NewSuite(cfg, factory, opts, logger)
	if err != nil {
		factory.Close()
		return nil, err
	}
	suite.closers = append(suite.closers, factory.Close)
	return suite, nil
}

// NewSuite builds a suite around an existing factory
func NewSuite(cfg *config.SuiteConfig, factory browser.Factory, opts browser.Options, logger *zap.Logger) (*Suite, error) {
	kind, err := browser.ParseKind(cfg.Browser)
	if err != nil {
		return nil, err
	}
	logger = logging.OrNop(logger)

	return &Suite{
		Config:   cfg,
		Kind:     kind,
		Logger:   logger,
		Registry: driver.NewRegistry(factory, opts, logger),
		Data:     testdata.NewResolver(cfg.TestDataDir, logger),
	}, nil
}

// Setup starts a browser for t on a fresh worker and opens the shop's base
// URL. The worker is released when t finishes
func (s *Suite) Setup(t testing.TB) *Fixture {
	t.Helper()

	w := s.Registry.NewWorker()
	t.Cleanup(func() {
		if err := s.Registry.Release(w.ID()); err != nil {
			t.Logf("failed to release worker %s: %v", w.ID(), err)
		}
	})

	session, err := w.Start(context.Background(), s.Kind)
	if err != nil {
		t.Fatalf("Failed to start %s session: %v", s.Kind, err)
	}

	if s.Config.BaseURL != "" {
		if err := session.Navigate(s.Config.BaseURL); err != nil {
			t.Fatalf("Failed to open %s: %v", s.Config.BaseURL, err)
		}
	}

	logger := s.Logger.With(zap.String("test", t.Name()), zap.String("worker_id", w.ID()))
	return &Fixture{
		Worker:  w,
		Session: session,
		Wait:    wait.New(session, s.Config.WaitTimeout, logger),
		Data:    s.Data,
		Logger:  logger,
	}
}

// Close stops every remaining session and the browser driver
func (s *Suite) Close() error {
	errs := []error{s.Registry.StopAll()}
	for i := len(s.closers) - 1; i >= 0; i-- {
		errs = append(errs, s.closers[i]())
	}
	s.Logger.Sync()
	return errors.Join(errs...)
}
