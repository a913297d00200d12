package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/adyen/shopsuite/internal/browser"
	"github.com/adyen/shopsuite/internal/driver"
	"github.com/adyen/shopsuite/internal/logging"
	"github.com/adyen/shopsuite/internal/wait"
)

// SmokeDependencies holds everything the smoke check needs
type SmokeDependencies struct {
	Registry    *driver.Registry
	Kind        browser.Kind
	BaseURL     string
	WaitTimeout time.Duration
	Logger      *zap.Logger
}

// RunSmoke starts one browser, opens the base URL, prints the page title and
// stops the browser again. A shutdown signal stops the browser early
func RunSmoke(ctx context.Context, deps SmokeDependencies, out io.Writer) error {
	logger := logging.OrNop(deps.Logger)
	stop := StopOnSignal(deps.Registry, nil, logger)
	defer stop()

	w := deps.Registry.NewWorker()
	defer func() {
		if err := deps.Registry.Release(w.ID()); err != nil {
			logger.Warn("failed to release browser", zap.String("worker_id", w.ID()), zap.Error(err))
		}
	}()

	session, err := w.Start(ctx, deps.Kind)
	if err != nil {
		return err
	}

	if err := session.Navigate(deps.BaseURL); err != nil {
		return err
	}

	waiter := wait.New(session, deps.WaitTimeout, logger)
	if _, err := waiter.Visible("body"); err != nil {
		return fmt.Errorf("page did not render: %w", err)
	}

	title, err := session.Page.Title()
	if err != nil {
		return fmt.Errorf("failed to read page title: %w", err)
	}

	if _, err := fmt.Fprintf(out, "%s %s: %s\n", deps.Kind, deps.BaseURL, title); err != nil {
		return fmt.Errorf("failed to write result: %w", err)
	}
	return nil
}

// StopOnSignal stops every session in registry when a shutdown signal arrives.
// If shutdown is nil, a new channel is registered with signal.Notify.
// The returned function stops listening
func StopOnSignal(registry *driver.Registry, shutdown chan os.Signal, logger *zap.Logger) func() {
	logger = logging.OrNop(logger)
	if shutdown == nil {
		shutdown = make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	}

	done := make(chan struct{})
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		select {
		case sig := <-shutdown:
			logger.Info("received signal, stopping browsers", zap.Stringer("signal", sig))
			if err := registry.StopAll(); err != nil {
				logger.Warn("failed to stop browsers", zap.Error(err))
			}
		case <-done:
		}
	}()

	return func() {
		signal.Stop(shutdown)
		close(done)
		<-finished
	}
}
