package browser

import (
	"time"

	"github.com/playwright-community/playwright-go"
)

// PageLoadStrategy controls how long navigation waits before returning
type PageLoadStrategy string

// Page load strategies
const (
	// PageLoadNormal waits for the load event
	PageLoadNormal PageLoadStrategy = "normal"
	// PageLoadEager waits for DOMContentLoaded
	PageLoadEager PageLoadStrategy = "eager"
	// PageLoadNone returns once the response is committed
	PageLoadNone PageLoadStrategy = "none"
)

func (s PageLoadStrategy) waitUntil() *playwright.WaitUntilState {
	switch s {
	case PageLoadEager:
		return playwright.WaitUntilStateDomcontentloaded
	case PageLoadNone:
		return playwright.WaitUntilStateCommit
	default:
		return playwright.WaitUntilStateLoad
	}
}

// Options is the startup configuration applied to every new session
type Options struct {
	StartMaximized         bool
	DisableNotifications   bool
	DisablePopups          bool
	DisableInfobars        bool
	DisableAutofill        bool
	DisablePasswordManager bool
	PageLoadStrategy       PageLoadStrategy
	Headless               bool
	AcceptInsecureCerts    bool
	Locale                 string
	SlowMo                 time.Duration
	ExecutablePath         string
	// DialogGrace is how long an unclaimed dialog stays open. Zero means
	// DefaultDialogGrace
	DialogGrace            time.Duration
}

// DefaultOptions returns the fixed option set sessions start with
func DefaultOptions(headless bool) Options {
	return Options{
		StartMaximized:         true,
		DisableNotifications:   true,
		DisablePopups:          true,
		DisableInfobars:        true,
		DisableAutofill:        true,
		DisablePasswordManager: true,
		PageLoadStrategy:       PageLoadNormal,
		Headless:               headless,
		AcceptInsecureCerts:    true,
		Locale:                 "en-US",
		DialogGrace:            DefaultDialogGrace,
	}
}

func (k Kind) launchOptions(opts Options) playwright.BrowserTypeLaunchOptions {
	launch := playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
	}
	if opts.SlowMo > 0 {
		launch.SlowMo = playwright.Float(float64(opts.SlowMo.Milliseconds()))
	}

	switch k {
	case Firefox:
		launch.FirefoxUserPrefs = firefoxPrefs(opts)
	case Edge:
		launch.Channel = playwright.String("msedge")
		launch.Args = chromiumArgs(opts)
	default:
		launch.Args = chromiumArgs(opts)
		if opts.ExecutablePath != "" {
			launch.ExecutablePath = playwright.String(opts.ExecutablePath)
		}
	}
	return launch
}

func (k Kind) contextOptions(opts Options) playwright.BrowserNewContextOptions {
	ctxOpts := playwright.BrowserNewContextOptions{
		IgnoreHttpsErrors: playwright.Bool(opts.AcceptInsecureCerts),
	}
	// A fixed viewport would override the maximized window size
	if opts.StartMaximized {
		ctxOpts.NoViewport = playwright.Bool(true)
	}
	if opts.Locale != "" {
		ctxOpts.Locale = playwright.String(opts.Locale)
	}
	return ctxOpts
}

func chromiumArgs(opts Options) []string {
	args := []string{"--disable-dev-shm-usage", "--disable-extensions"}
	if opts.StartMaximized {
		args = append(args, "--start-maximized")
	}
	if opts.DisableNotifications {
		args = append(args, "--disable-notifications")
	}
	if opts.DisablePopups {
		args = append(args, "--disable-popup-blocking")
	}
	if opts.DisableInfobars {
		args = append(args, "--disable-infobars")
	}
	if opts.DisablePasswordManager {
		args = append(args, "--password-store=basic", "--disable-save-password-bubble")
	}
	if opts.DisableAutofill {
		args = append(args, "--disable-features=AutofillServerCommunication")
	}
	if opts.Locale != "" {
		args = append(args, "--lang="+opts.Locale)
	}
	return args
}

func firefoxPrefs(opts Options) map[string]interface{} {
	prefs := map[string]interface{}{}
	if opts.DisableNotifications {
		prefs["dom.webnotifications.enabled"] = false
		prefs["permissions.default.desktop-notification"] = 2
	}
	if opts.DisablePopups {
		prefs["dom.disable_open_during_load"] = false
	}
	if opts.DisablePasswordManager {
		prefs["signon.rememberSignons"] = false
	}
	if opts.DisableAutofill {
		prefs["browser.formfill.enable"] = false
		prefs["extensions.formautofill.addresses.enabled"] = false
		prefs["extensions.formautofill.creditCards.enabled"] = false
	}
	if opts.Locale != "" {
		prefs["intl.accept_languages"] = opts.Locale
	}
	return prefs
}
