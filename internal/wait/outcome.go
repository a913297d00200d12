package wait

import (
	"errors"
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"
)

// ErrTimeout is returned when a condition does not hold within the wait timeout
var ErrTimeout = errors.New("timed out")

// Outcome is the result of checking for a condition
type Outcome int

// Outcomes
const (
	// NotFound means the condition was checked and does not hold
	NotFound Outcome = iota
	// Found means the condition holds
	Found
	// Timeout means the condition did not hold before the timeout expired
	Timeout
)

func (o Outcome) String() string {
	switch o {
	case Found:
		return "found"
	case Timeout:
		return "timeout"
	default:
		return "not found"
	}
}

// OK reports whether the condition was met
func (o Outcome) OK() bool {
	return o == Found
}

// outcomeOf turns the result of a wait into an outcome. Timeouts are an
// outcome, not an error; anything else is passed back
func outcomeOf(err error) (Outcome, error) {
	switch {
	case err == nil:
		return Found, nil
	case errors.Is(err, ErrTimeout):
		return Timeout, nil
	default:
		return NotFound, err
	}
}

// wrapErr marks library timeouts with ErrTimeout and keeps the underlying
// error in the chain
func wrapErr(what string, timeout time.Duration, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, playwright.ErrTimeout) {
		return fmt.Errorf("%w after %s waiting for %s: %w", ErrTimeout, timeout, what, err)
	}
	return fmt.Errorf("waiting for %s: %w", what, err)
}
