package browser

import (
	"context"
	"fmt"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"

	"github.com/adyen/shopsuite/internal/logging"
)

// Factory creates browser sessions
type Factory interface {
	Create(ctx context.Context, kind Kind, opts Options) (*Session, error)
}

// PlaywrightFactory launches sessions through one shared playwright driver
type PlaywrightFactory struct {
	pw     *playwright.Playwright
	logger *zap.Logger
}

// NewPlaywrightFactory starts the playwright driver. Browsers must already be
// installed (see Install)
func NewPlaywrightFactory(logger *zap.Logger) (*PlaywrightFactory, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}
	return &PlaywrightFactory{pw: pw, logger: logging.OrNop(logger)}, nil
}

// Create launches a browser of the given kind with one context and page
func (f *PlaywrightFactory) Create(ctx context.Context, kind Kind, opts Options) (*Session, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedBrowserKind, kind)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	browserType := f.pw.Chromium
	if kind == Firefox {
		browserType = f.pw.Firefox
	}

	b, err := browserType.Launch(kind.launchOptions(opts))
	if err != nil {
		return nil, fmt.Errorf("failed to launch %s: %w", kind, err)
	}

	bctx, err := b.NewContext(kind.contextOptions(opts))
	if err != nil {
		b.Close()
		return nil, fmt.Errorf("failed to create %s context: %w", kind, err)
	}

	page, err := bctx.NewPage()
	if err != nil {
		bctx.Close()
		b.Close()
		return nil, fmt.Errorf("failed to open %s page: %w", kind, err)
	}

	session := newSession(kind, opts, b, bctx, page, f.logger)
	f.logger.Info("browser launched",
		zap.String("session_id", session.ID),
		zap.Stringer("browser", kind),
		zap.Bool("headless", opts.Headless),
	)
	return session, nil
}

// Close stops the playwright driver. Sessions still open are closed with it
func (f *PlaywrightFactory) Close() error {
	if err := f.pw.Stop(); err != nil {
		return fmt.Errorf("failed to stop playwright: %w", err)
	}
	return nil
}

// Install downloads the playwright driver and the browsers for kinds.
// With no kinds, every supported browser is installed
func Install(kinds ...Kind) error {
	if len(kinds) == 0 {
		kinds = Kinds()
	}

	names := make([]string, 0, len(kinds))
	for _, kind := range kinds {
		if !kind.Valid() {
			return fmt.Errorf("%w: %s", ErrUnsupportedBrowserKind, kind)
		}
		names = append(names, kind.installName())
	}

	if err := playwright.Install(&playwright.RunOptions{Browsers: names}); err != nil {
		return fmt.Errorf("failed to install browsers: %w", err)
	}
	return nil
}
