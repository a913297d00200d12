package browser

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"

	"github.com/adyen/shopsuite/internal/logging"
)

// Session errors
var (
	ErrNoPage   = errors.New("session has no page")
	ErrNoDialog = errors.New("no dialog is open")
)

// DefaultDialogGrace is how long an opened dialog waits for WaitDialog to
// claim it before the session dismisses it
const DefaultDialogGrace = 2 * time.Second

// Session is a live browser instance with one context and one page.
// It belongs to exactly one worker
type Session struct {
	ID        string
	Kind      Kind
	Options   Options
	StartedAt time.Time

	Browser playwright.Browser
	Context playwright.BrowserContext
	Page    playwright.Page

	dialogMu    sync.Mutex
	pending     []playwright.Dialog
	dialog      playwright.Dialog
	dialogReady chan struct{}
	closed      bool
	closeOnce   sync.Once
	closeErr    error
	logger      *zap.Logger
}

func newSession(kind Kind, opts Options, b playwright.Browser, bctx playwright.BrowserContext, page playwright.Page, logger *zap.Logger) *Session {
	s := &Session{
		ID:        uuid.New().String(),
		Kind:      kind,
		Options:   opts,
		StartedAt: time.Now(),
		Browser:   b,
		Context:   bctx,
		Page:      page,
	}
	s.logger = logging.OrNop(logger).With(zap.String("session_id", s.ID), zap.Stringer("browser", kind))

	if page != nil {
		page.OnDialog(s.queueDialog)
	}
	return s
}

func (s *Session) log() *zap.Logger {
	return logging.OrNop(s.logger)
}

func (s *Session) dialogGrace() time.Duration {
	if s.Options.DialogGrace > 0 {
		return s.Options.DialogGrace
	}
	return DefaultDialogGrace
}

// ready returns the channel signalled when a dialog is queued.
// dialogMu must be held
func (s *Session) ready() chan struct{} {
	if s.dialogReady == nil {
		s.dialogReady = make(chan struct{}, 1)
	}
	return s.dialogReady
}

// A dialog listener stops playwright from auto-dismissing dialogs, so a
// dialog nobody claims within the grace period is dismissed here
func (s *Session) queueDialog(dialog playwright.Dialog) {
	s.dialogMu.Lock()
	if s.closed {
		s.dialogMu.Unlock()
		s.dismiss(dialog, "session closed")
		return
	}
	s.pending = append(s.pending, dialog)
	select {
	case s.ready() <- struct{}{}:
	default:
	}
	s.dialogMu.Unlock()

	s.log().Debug("dialog opened", zap.String("type", dialog.Type()), zap.String("message", dialog.Message()))
	time.AfterFunc(s.dialogGrace(), func() { s.expireDialog(dialog) })
}

// expireDialog dismisses dialog if it is still waiting to be claimed
func (s *Session) expireDialog(dialog playwright.Dialog) {
	s.dialogMu.Lock()
	found := false
	for i, d := range s.pending {
		if d == dialog {
			s.pending = append(s.pending[:i], s.pending[i+1:]...)
			found = true
			break
		}
	}
	s.dialogMu.Unlock()

	if found {
		s.dismiss(dialog, "not claimed")
	}
}

func (s *Session) dismiss(dialog playwright.Dialog, reason string) {
	s.log().Warn("dismissing dialog",
		zap.String("reason", reason),
		zap.String("type", dialog.Type()),
		zap.String("message", dialog.Message()),
	)
	if err := dialog.Dismiss(); err != nil {
		s.log().Warn("failed to dismiss dialog", zap.Error(err))
	}
}

// WaitDialog returns the open JavaScript dialog, waiting up to timeout for
// one to appear. The returned dialog is claimed: it stays open until passed
// to CloseDialog and is never dismissed automatically
func (s *Session) WaitDialog(timeout time.Duration) (playwright.Dialog, bool) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		s.dialogMu.Lock()
		if s.dialog != nil {
			d := s.dialog
			s.dialogMu.Unlock()
			return d, true
		}
		if len(s.pending) > 0 {
			s.dialog = s.pending[0]
			s.pending = s.pending[1:]
			d := s.dialog
			s.dialogMu.Unlock()
			return d, true
		}
		ready := s.ready()
		s.dialogMu.Unlock()

		select {
		case <-ready:
		case <-timer.C:
			return nil, false
		}
	}
}

// CloseDialog accepts (or dismisses) the claimed dialog and forgets it.
// promptText is only used by prompt dialogs
func (s *Session) CloseDialog(accept bool, promptText ...string) error {
	s.dialogMu.Lock()
	dialog := s.dialog
	s.dialog = nil
	s.dialogMu.Unlock()

	if dialog == nil {
		return ErrNoDialog
	}
	if accept {
		return dialog.Accept(promptText...)
	}
	return dialog.Dismiss()
}

// Navigate loads url, waiting according to the session's page load strategy
func (s *Session) Navigate(url string) error {
	if s.Page == nil {
		return ErrNoPage
	}
	if _, err := s.Page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: s.Options.PageLoadStrategy.waitUntil(),
	}); err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	return nil
}

// Close releases the context and the browser. Later calls return the
// result of the first one
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		s.dialogMu.Lock()
		open := s.pending
		if s.dialog != nil {
			open = append(open, s.dialog)
		}
		s.pending, s.dialog, s.closed = nil, nil, true
		s.dialogMu.Unlock()
		for _, d := range open {
			s.dismiss(d, "session closed")
		}

		var errs []error
		if s.Context != nil {
			if err := s.Context.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close context: %w", err))
			}
		}
		if s.Browser != nil {
			if err := s.Browser.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close browser: %w", err))
			}
		}
		s.closeErr = errors.Join(errs...)
		s.log().Debug("session closed", zap.Duration("lifetime", time.Since(s.StartedAt)))
	})
	return s.closeErr
}
