// Package wait blocks until page conditions hold or a timeout expires
package wait

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"

	"github.com/adyen/shopsuite/internal/browser"
	"github.com/adyen/shopsuite/internal/logging"
)

// DefaultTimeout applies when a Waiter is created with a zero timeout
const DefaultTimeout = 10 * time.Second

// Waiter runs waits against the page of one session
type Waiter struct {
	session *browser.Session
	timeout time.Duration
	logger  *zap.Logger
}

// New returns a waiter for session using timeout for every wait that does
// not name its own
func New(session *browser.Session, timeout time.Duration, logger *zap.Logger) *Waiter {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Waiter{
		session: session,
		timeout: timeout,
		logger:  logging.OrNop(logger).With(zap.String("session_id", session.ID)),
	}
}

// Timeout returns the default wait timeout
func (w *Waiter) Timeout() time.Duration {
	return w.timeout
}

// WithTimeout returns a waiter on the same session whose waits use timeout
func (w *Waiter) WithTimeout(timeout time.Duration) *Waiter {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Waiter{session: w.session, timeout: timeout, logger: w.logger}
}

func (w *Waiter) page() (playwright.Page, error) {
	if w.session.Page == nil {
		return nil, browser.ErrNoPage
	}
	return w.session.Page, nil
}

func (w *Waiter) locate(selector string) (playwright.Locator, error) {
	page, err := w.page()
	if err != nil {
		return nil, err
	}
	return page.Locator(selector).First(), nil
}

func (w *Waiter) waitState(loc playwright.Locator, state *playwright.WaitForSelectorState, timeout time.Duration) error {
	return loc.WaitFor(playwright.LocatorWaitForOptions{
		State:   state,
		Timeout: millis(timeout),
	})
}

// millis converts timeout to playwright milliseconds. Zero means no timeout
// to playwright, so the result is at least one millisecond
func millis(timeout time.Duration) *float64 {
	return playwright.Float(float64(max(timeout.Milliseconds(), 1)))
}

// Visible waits for the first element matching selector to be visible
func (w *Waiter) Visible(selector string) (playwright.Locator, error) {
	return w.VisibleWithin(selector, w.timeout)
}

// VisibleWithin is Visible with an explicit timeout
func (w *Waiter) VisibleWithin(selector string, timeout time.Duration) (playwright.Locator, error) {
	loc, err := w.locate(selector)
	if err != nil {
		return nil, err
	}
	if err := w.waitState(loc, playwright.WaitForSelectorStateVisible, timeout); err != nil {
		return nil, wrapErr(selector+" to be visible", timeout, err)
	}
	w.logger.Debug("element visible", zap.String("selector", selector))
	return loc, nil
}

// AllVisible waits until at least one element matches selector and every
// match is visible
func (w *Waiter) AllVisible(selector string) ([]playwright.Locator, error) {
	deadline := time.Now().Add(w.timeout)
	if _, err := w.Visible(selector); err != nil {
		return nil, err
	}

	page, err := w.page()
	if err != nil {
		return nil, err
	}
	items, err := page.Locator(selector).All()
	if err != nil {
		return nil, wrapErr("all of "+selector, w.timeout, err)
	}

	for _, item := range items {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nil, fmt.Errorf("%w after %s waiting for all of %s to be visible", ErrTimeout, w.timeout, selector)
		}
		if err := w.waitState(item, playwright.WaitForSelectorStateVisible, remaining); err != nil {
			return nil, wrapErr("all of "+selector+" to be visible", w.timeout, err)
		}
	}
	return items, nil
}

// Invisible waits for the first element matching selector to be hidden or
// detached. It succeeds at once when nothing matches
func (w *Waiter) Invisible(selector string) error {
	loc, err := w.locate(selector)
	if err != nil {
		return err
	}
	return wrapErr(selector+" to be hidden", w.timeout, w.waitState(loc, playwright.WaitForSelectorStateHidden, w.timeout))
}

// Clickable waits for the first element matching selector to be visible and
// enabled
func (w *Waiter) Clickable(selector string) (playwright.Locator, error) {
	start := time.Now()
	loc, err := w.Visible(selector)
	if err != nil {
		return nil, err
	}
	page, err := w.page()
	if err != nil {
		return nil, err
	}

	handle, err := loc.ElementHandle()
	if err != nil {
		return nil, wrapErr(selector+" to be enabled", w.timeout, err)
	}
	defer handle.Dispose()

	remaining := w.timeout - time.Since(start)
	result, err := page.WaitForFunction(enabledExpr, handle, playwright.PageWaitForFunctionOptions{
		Timeout: millis(remaining),
	})
	if err != nil {
		return nil, wrapErr(selector+" to be enabled", w.timeout, err)
	}
	result.Dispose()
	return loc, nil
}

const (
	enabledExpr = `el => !el.disabled && el.getAttribute('aria-disabled') !== 'true'`
	titleExpr   = `fragment => document.title.includes(fragment)`
)

// TextInElement waits until an element matching selector contains text.
// The match is case-sensitive
func (w *Waiter) TextInElement(selector, text string) error {
	page, err := w.page()
	if err != nil {
		return err
	}

	loc := page.Locator(selector).Filter(playwright.LocatorFilterOptions{
		HasText: regexp.MustCompile(regexp.QuoteMeta(text)),
	}).First()
	if err := w.waitState(loc, playwright.WaitForSelectorStateAttached, w.timeout); err != nil {
		return wrapErr(fmt.Sprintf("%q in %s", text, selector), w.timeout, err)
	}
	return nil
}

// TitleContains waits until the page title contains fragment
func (w *Waiter) TitleContains(fragment string) error {
	page, err := w.page()
	if err != nil {
		return err
	}

	result, err := page.WaitForFunction(titleExpr, fragment, playwright.PageWaitForFunctionOptions{
		Timeout: millis(w.timeout),
	})
	if err != nil {
		return wrapErr(fmt.Sprintf("title to contain %q", fragment), w.timeout, err)
	}
	result.Dispose()
	return nil
}

// URLEquals waits until the page URL is exactly url
func (w *Waiter) URLEquals(url string) error {
	return w.waitURL(fmt.Sprintf("url to be %q", url), w.timeout, func(current string) bool {
		return current == url
	})
}

// URLContains waits until the page URL contains part
func (w *Waiter) URLContains(part string) error {
	return w.URLContainsWithin(part, w.timeout)
}

// URLContainsWithin is URLContains with an explicit timeout
func (w *Waiter) URLContainsWithin(part string, timeout time.Duration) error {
	return w.waitURL(fmt.Sprintf("url to contain %q", part), timeout, func(current string) bool {
		return strings.Contains(current, part)
	})
}

func (w *Waiter) waitURL(what string, timeout time.Duration, match func(string) bool) error {
	page, err := w.page()
	if err != nil {
		return err
	}

	err = page.WaitForURL(match, playwright.PageWaitForURLOptions{
		Timeout: millis(timeout),
	})
	if err != nil {
		return wrapErr(what, timeout, err)
	}
	w.logger.Debug("url matched", zap.String("url", page.URL()))
	return nil
}

// Probe waits for selector to become visible and reports the outcome.
// Timeouts are reported as Timeout, other failures are returned
func (w *Waiter) Probe(selector string) (Outcome, error) {
	_, err := w.Visible(selector)
	return outcomeOf(err)
}

// ProbeURL waits for the page URL to contain part and reports the outcome
func (w *Waiter) ProbeURL(part string) (Outcome, error) {
	return outcomeOf(w.URLContains(part))
}

// Check reports whether selector is visible right now, without waiting
func (w *Waiter) Check(selector string) (Outcome, error) {
	loc, err := w.locate(selector)
	if err != nil {
		return NotFound, err
	}
	visible, err := loc.IsVisible()
	if err != nil {
		return NotFound, err
	}
	if visible {
		return Found, nil
	}
	return NotFound, nil
}
