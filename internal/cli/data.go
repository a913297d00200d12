package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/adyen/shopsuite/internal/testdata"
)

// ErrValueUnavailable is returned when a data lookup resolves to nothing
var ErrValueUnavailable = errors.New("value unavailable")

// RunDataGet prints the scalar at path in the named document
func RunDataGet(out io.Writer, resolver *testdata.Resolver, document, path string) error {
	value, ok := resolver.Value(document, path)
	if !ok {
		return fmt.Errorf("%s %s: %w", document, path, ErrValueUnavailable)
	}
	_, err := fmt.Fprintln(out, value)
	return err
}

// RunDataRecords prints every flattened record of the named document as
// key=value lines, records separated by a blank line
func RunDataRecords(out io.Writer, resolver *testdata.Resolver, document string) error {
	records := resolver.Records(document)
	if len(records) == 0 {
		return fmt.Errorf("%s: %w", document, ErrValueUnavailable)
	}

	for i, rec := range records {
		if i > 0 {
			if _, err := fmt.Fprintln(out); err != nil {
				return err
			}
		}
		for _, key := range rec.Keys() {
			value, _ := rec.Get(key)
			if _, err := fmt.Fprintf(out, "%s=%s\n", key, value); err != nil {
				return err
			}
		}
	}
	return nil
}
