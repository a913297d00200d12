package browser

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupportedBrowserKind is returned for browser names outside the supported set
var ErrUnsupportedBrowserKind = errors.New("unsupported browser kind")

// Kind identifies a browser engine. The set is closed: Chrome, Firefox, Edge
type Kind int

// Supported browser kinds
const (
	Chrome Kind = iota + 1
	Firefox
	Edge
)

var kindNames = map[Kind]string{
	Chrome:  "CHROME",
	Firefox: "FIREFOX",
	Edge:    "EDGE",
}

// Kinds returns every supported kind in declaration order
func Kinds() []Kind {
	return []Kind{Chrome, Firefox, Edge}
}

// ParseKind matches raw case-insensitively against the supported kinds
func ParseKind(raw string) (Kind, error) {
	name := strings.ToUpper(strings.TrimSpace(raw))
	for kind, kindName := range kindNames {
		if kindName == name {
			return kind, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedBrowserKind, raw)
}

// Valid reports whether k is one of the supported kinds
func (k Kind) Valid() bool {
	_, ok := kindNames[k]
	return ok
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// installName is the browser name understood by the playwright installer
func (k Kind) installName() string {
	switch k {
	case Firefox:
		return "firefox"
	case Edge:
		return "msedge"
	default:
		return "chromium"
	}
}
