package wait

import (
	"fmt"
	"strings"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"
)

// Alert waits for a JavaScript dialog to open on the page
func (w *Waiter) Alert() (playwright.Dialog, error) {
	dialog, ok := w.session.WaitDialog(w.timeout)
	if !ok {
		return nil, fmt.Errorf("%w after %s waiting for alert", ErrTimeout, w.timeout)
	}
	return dialog, nil
}

// ProbeAlert reports whether a dialog opens within the timeout. The dialog is
// left open
func (w *Waiter) ProbeAlert() Outcome {
	outcome, _ := outcomeOf(func() error {
		_, err := w.Alert()
		return err
	}())
	return outcome
}

// AlertText returns the message of the open dialog
func (w *Waiter) AlertText() (string, error) {
	dialog, err := w.Alert()
	if err != nil {
		return "", err
	}
	return dialog.Message(), nil
}

// AlertContains reports whether the open dialog's message contains message
func (w *Waiter) AlertContains(message string) (bool, error) {
	text, err := w.AlertText()
	if err != nil {
		return false, err
	}
	return strings.Contains(text, message), nil
}

// AcceptAlert waits for a dialog and accepts it. promptText answers prompt dialogs
func (w *Waiter) AcceptAlert(promptText ...string) error {
	dialog, err := w.Alert()
	if err != nil {
		return err
	}
	w.logger.Debug("accepting alert", zap.String("message", dialog.Message()))
	return w.session.CloseDialog(true, promptText...)
}

// DismissAlert waits for a dialog and dismisses it
func (w *Waiter) DismissAlert() error {
	dialog, err := w.Alert()
	if err != nil {
		return err
	}
	w.logger.Debug("dismissing alert", zap.String("message", dialog.Message()))
	return w.session.CloseDialog(false)
}
