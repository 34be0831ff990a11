package envs

import (
	"fmt"
	"os"
	"regexp"
)

// EnvName identifies one deployment environment of a project.
type EnvName string

// Builtin environment names. Projects declare their own subset via Names;
// these cover the common promotion path plus the shared devops environment.
const (
	EnvDevOps EnvName = "devops"
	EnvSbx    EnvName = "sbx"
	EnvDev    EnvName = "dev"
	EnvTst    EnvName = "tst"
	EnvStg    EnvName = "stg"
	EnvQA     EnvName = "qa"
	EnvPrd    EnvName = "prd"
)

// All selects the consolidated configuration covering every environment.
// It is reserved and never a valid environment name.
const All = "all"

// Environment variable names read and produced by this library.
const (
	EnvVarEnvName       = "ENV_NAME"
	EnvVarProjectName   = "PROJECT_NAME"
	EnvVarParameterName = "PARAMETER_NAME"
)

var envNamePattern = regexp.MustCompile(`^[a-z][a-z0-9]{0,11}$`)

// ValidateEnvName checks that an environment name follows the naming
// standard: short, lowercase alphanumeric, starting with a letter.
func ValidateEnvName(name string) error {
	if name == All {
		return fmt.Errorf("environment name %q is reserved", All)
	}
	if !envNamePattern.MatchString(name) {
		return fmt.Errorf("invalid environment name %q: must match %s", name, envNamePattern)
	}
	return nil
}

// Names is the set of environment names a project declares.
type Names []EnvName

// BuiltinNames returns every builtin environment name.
func BuiltinNames() Names {
	return Names{EnvDevOps, EnvSbx, EnvDev, EnvTst, EnvStg, EnvQA, EnvPrd}
}

// ParseNames builds a validated Names set from raw name strings.
func ParseNames(raw []string) (Names, error) {
	names := make(Names, 0, len(raw))
	for _, name := range raw {
		names = append(names, EnvName(name))
	}
	if err := names.Validate(); err != nil {
		return nil, err
	}
	return names, nil
}

// Validate checks every declared name.
func (n Names) Validate() error {
	if len(n) == 0 {
		return fmt.Errorf("no environment names declared")
	}
	seen := make(map[EnvName]bool, len(n))
	for _, name := range n {
		if err := ValidateEnvName(string(name)); err != nil {
			return err
		}
		if seen[name] {
			return fmt.Errorf("duplicate environment name %q", name)
		}
		seen[name] = true
	}
	return nil
}

// Contains reports whether name is one of the declared environments.
func (n Names) Contains(name string) bool {
	for _, candidate := range n {
		if string(candidate) == name {
			return true
		}
	}
	return false
}

// Ensure validates that name is a declared environment and returns it typed.
func (n Names) Ensure(name string) (EnvName, error) {
	if !n.Contains(name) {
		return "", fmt.Errorf("unknown environment name %q, declared: %v", name, n)
	}
	return EnvName(name), nil
}

// Detect resolves the current environment from the ENV_NAME environment
// variable, falling back to fallback when unset. The result must be one of
// the declared names.
func (n Names) Detect(fallback EnvName) (EnvName, error) {
	name := os.Getenv(EnvVarEnvName)
	if name == "" {
		name = string(fallback)
	}
	return n.Ensure(name)
}
