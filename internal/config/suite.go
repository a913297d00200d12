package config

import (
	"fmt"
	"time"
)

// Suite defaults
const (
	DefaultWaitTimeout = 10 * time.Second
	DefaultLogLevel    = "info"
	DefaultTestDataDir = "testdata"
)

// SuiteConfig holds the settings every test run needs
type SuiteConfig struct {
	Browser     string
	BaseURL     string
	Environment Environment
	Headless    bool
	WaitTimeout time.Duration
	TestDataDir string
	LogLevel    string
}

// LoadSuiteConfig validates and collects suite settings from props
func LoadSuiteConfig(props *Properties) (*SuiteConfig, error) {
	var cfg SuiteConfig

	browser, ok := props.Get(KeyBrowser)
	if !ok || browser == "" {
		return nil, fmt.Errorf("%s is required", KeyBrowser)
	}
	cfg.Browser = browser

	baseURL, ok := props.Get(KeyBaseURL)
	if !ok || baseURL == "" {
		return nil, fmt.Errorf("%s is required", KeyBaseURL)
	}
	cfg.BaseURL = baseURL

	env, err := props.Environment()
	if err != nil {
		return nil, err
	}
	cfg.Environment = env

	cfg.Headless = props.IsHeadless()

	cfg.WaitTimeout = DefaultWaitTimeout
	if _, ok := props.Get(KeyWaitTimeout); ok {
		seconds, err := props.GetInt(KeyWaitTimeout)
		if err != nil {
			return nil, err
		}
		if seconds <= 0 {
			return nil, fmt.Errorf("%s must be positive", KeyWaitTimeout)
		}
		cfg.WaitTimeout = time.Duration(seconds) * time.Second
	}

	cfg.TestDataDir = DefaultTestDataDir
	if dir, ok := props.Path(KeyTestDataDir); ok {
		cfg.TestDataDir = dir
	}

	cfg.LogLevel = DefaultLogLevel
	if level, ok := props.Get(KeyLogLevel); ok && level != "" {
		cfg.LogLevel = level
	}

	return &cfg, nil
}
