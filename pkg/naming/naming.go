package naming

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/stoewer/go-strcase"
)

// Project names become AWS resource names (SSM parameters, S3 prefixes,
// CloudFormation stacks), so the allowed character set is the intersection
// of what those services accept: start with a letter, then letters, digits,
// hyphens or underscores, and end with a letter or digit.
var projectNamePattern = regexp.MustCompile(`^[a-zA-Z](?:[a-zA-Z0-9_-]*[a-zA-Z0-9])?$`)

// ValidateProjectName checks that a project name follows the naming standard.
func ValidateProjectName(name string) error {
	if name == "" {
		return fmt.Errorf("project name must not be empty")
	}
	if !projectNamePattern.MatchString(name) {
		return fmt.Errorf("invalid project name %q: must start with a letter, contain only letters, digits, '-' or '_', and end with a letter or digit", name)
	}
	return nil
}

// NormalizeParameterName makes a name acceptable to SSM Parameter Store.
// SSM rejects parameter names beginning with "aws" or "ssm" (case-insensitive),
// so those get a "p-" prefix.
func NormalizeParameterName(name string) string {
	lower := strings.ToLower(name)
	if strings.HasPrefix(lower, "aws") || strings.HasPrefix(lower, "ssm") {
		return "p-" + name
	}
	return name
}

// Slugify converts a name to its hyphen-delimited form: "my_app" -> "my-app".
func Slugify(name string) string {
	return strcase.KebabCase(name)
}

// Snakeify converts a name to its underscore-delimited form: "my-app" -> "my_app".
func Snakeify(name string) string {
	return strcase.SnakeCase(name)
}

// UnderToCamel converts under_score to CamelCase: "my_app" -> "MyApp".
func UnderToCamel(s string) string {
	return strcase.UpperCamelCase(s)
}

// CamelToUnder converts CamelCase to under_score: "MyApp" -> "my_app".
func CamelToUnder(s string) string {
	return strcase.SnakeCase(s)
}
