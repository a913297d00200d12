package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to property keys when looking for environment overrides.
// The key base.url.shop is overridden by SHOPSUITE_BASE_URL_SHOP
const EnvPrefix = "SHOPSUITE"

// keyDelimiter separates nested viper keys. Property keys are flat and may
// contain dots, so the delimiter must never appear in one
const keyDelimiter = "::"

// Property keys
const (
	KeyBrowser       = "browser"
	KeyExecutionType = "executionType"
	KeyEnvironment   = "env"
	KeyBaseURL       = "base.url.shop"
	KeyWaitTimeout   = "wait.timeout.seconds"
	KeyTestDataDir   = "testdata.dir"
	KeyLogLevel      = "log.level"
)

// Configuration errors
var (
	ErrMissingKey         = errors.New("property not set")
	ErrInvalidEnvironment = errors.New("invalid environment")
	ErrNotDecimal         = errors.New("not a decimal integer")
)

var decimalPattern = regexp.MustCompile(`^[+-]?[0-9]+$`)

// Properties is a read-only key/value configuration source backed by a
// properties file. It is loaded once and safe for concurrent reads
type Properties struct {
	v   *viper.Viper
	dir string
}

// LoadProperties reads key=value pairs from path
func LoadProperties(path string) (*Properties, error) {
	values, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read properties %s: %w", path, err)
	}

	props := NewProperties(values)
	props.dir = filepath.Dir(path)
	return props, nil
}

// NewProperties builds a configuration source from in-memory values.
// Relative paths resolve against the working directory
func NewProperties(values map[string]string) *Properties {
	v := viper.NewWithOptions(viper.KeyDelimiter(keyDelimiter))
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, value := range values {
		v.SetDefault(key, value)
	}

	return &Properties{v: v, dir: "."}
}

// Get returns the raw value for key and whether it was present
func (p *Properties) Get(key string) (string, bool) {
	if !p.v.IsSet(key) {
		return "", false
	}
	return p.v.GetString(key), true
}

// GetInt returns the value for key parsed as a base 10 integer. Leading
// zeros are ignored
func (p *Properties) GetInt(key string) (int, error) {
	raw, ok := p.Get(key)
	if !ok {
		return 0, fmt.Errorf("%s: %w", key, ErrMissingKey)
	}

	n, err := parseDecimal(raw)
	if err != nil {
		return 0, fmt.Errorf("%s is not an integer: %w", key, err)
	}
	return n, nil
}

func parseDecimal(raw string) (int, error) {
	s := strings.TrimSpace(raw)
	if !decimalPattern.MatchString(s) {
		return 0, fmt.Errorf("%w: %q", ErrNotDecimal, s)
	}

	var sign string
	if s[0] == '+' || s[0] == '-' {
		sign, s = s[:1], s[1:]
	}
	s = strings.TrimLeft(s, "0")
	if s == "" {
		s = "0"
	}
	return cast.ToIntE(sign + s)
}

// IsHeadless reports whether browsers should run without a visible window.
// Only executionType=local runs headed; an absent key counts as local
func (p *Properties) IsHeadless() bool {
	executionType, ok := p.Get(KeyExecutionType)
	if !ok {
		return false
	}
	return !strings.EqualFold(strings.TrimSpace(executionType), "local")
}

// Environment returns the configured deployment environment
func (p *Properties) Environment() (Environment, error) {
	raw, ok := p.Get(KeyEnvironment)
	if !ok {
		return "", fmt.Errorf("%s: %w", KeyEnvironment, ErrMissingKey)
	}
	return ParseEnvironment(raw)
}

// Path returns the value for key as a filesystem path. Relative values are
// resolved against the directory holding the properties file
func (p *Properties) Path(key string) (string, bool) {
	raw, ok := p.Get(key)
	if !ok || raw == "" {
		return "", false
	}
	if filepath.IsAbs(raw) {
		return raw, true
	}
	return filepath.Join(p.dir, raw), true
}
