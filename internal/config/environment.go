package config

import (
	"fmt"
	"strings"
)

// Environment is the deployment environment the suite runs against
type Environment string

// Environments
const (
	EnvironmentDev     Environment = "DEV"
	EnvironmentQA      Environment = "QA"
	EnvironmentStaging Environment = "STAGING"
	EnvironmentProd    Environment = "PROD"
)

// ParseEnvironment matches raw case-insensitively against the known environments
func ParseEnvironment(raw string) (Environment, error) {
	env := Environment(strings.ToUpper(strings.TrimSpace(raw)))
	switch env {
	case EnvironmentDev, EnvironmentQA, EnvironmentStaging, EnvironmentProd:
		return env, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidEnvironment, raw)
}

func (e Environment) String() string {
	return string(e)
}
