// Package locator builds element locators from templates with %s placeholders
package locator

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// Template errors
var (
	ErrUnsafeValue   = errors.New("value cannot be embedded in a locator")
	ErrArgumentCount = errors.New("wrong number of locator arguments")
)

const placeholder = "%s"

// unsafeChars could end a quoted literal or open a new predicate
const unsafeChars = `'"[]<>\`

// Template is an XPath or CSS locator containing %s placeholders
type Template string

// Format substitutes values into the placeholders in order
func (t Template) Format(values ...string) (string, error) {
	if want := strings.Count(string(t), placeholder); want != len(values) {
		return "", fmt.Errorf("%w: %q takes %d, got %d", ErrArgumentCount, t, want, len(values))
	}

	args := make([]interface{}, len(values))
	for i, v := range values {
		if err := Validate(v); err != nil {
			return "", err
		}
		args[i] = v
	}
	return fmt.Sprintf(string(t), args...), nil
}

// MustFormat is like Format but panics on error
func (t Template) MustFormat(values ...string) string {
	s, err := t.Format(values...)
	if err != nil {
		panic(err)
	}
	return s
}

// Validate reports whether v is safe to place inside a quoted locator literal
func Validate(v string) error {
	for _, r := range v {
		if strings.ContainsRune(unsafeChars, r) || unicode.IsControl(r) {
			return fmt.Errorf("%w: %q contains %q", ErrUnsafeValue, v, r)
		}
	}
	return nil
}
