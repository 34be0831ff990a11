package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateProjectName(t *testing.T) {
	goodCases := []string{
		"my_project",
		"my-project",
		"my_1_project",
		"my1project",
		"myproject1",
		"a",
	}
	badCases := []string{
		"",
		"my project",
		"1-my-project",
		"-my-project",
		"my-project-",
		"my_project_",
		"my.project",
	}

	for _, name := range goodCases {
		assert.NoError(t, ValidateProjectName(name), "expected %q to be valid", name)
	}
	for _, name := range badCases {
		assert.Error(t, ValidateProjectName(name), "expected %q to be invalid", name)
	}
}

func TestNormalizeParameterName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		// Parameters starting with "aws" need the "p-" prefix
		{"aws bare", "aws", "p-aws"},
		{"aws prefixed", "aws-project", "p-aws-project"},
		{"aws uppercase", "AWS-project", "p-AWS-project"},
		// Parameters starting with "ssm" need the "p-" prefix
		{"ssm bare", "ssm", "p-ssm"},
		{"ssm prefixed", "ssm-project", "p-ssm-project"},
		// Normal parameters pass through unchanged
		{"normal", "normal-after_param", "normal-after_param"},
		{"project", "my-project", "my-project"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeParameterName(tt.in))
		})
	}
}

func TestSlugifyAndSnakeify(t *testing.T) {
	assert.Equal(t, "my-app", Slugify("my_app"))
	assert.Equal(t, "my-app", Slugify("my-app"))
	assert.Equal(t, "my_app", Snakeify("my-app"))
	assert.Equal(t, "my_app", Snakeify("my_app"))
}

func TestCaseConversions(t *testing.T) {
	require.Equal(t, "MyApp", UnderToCamel("my_app"))
	require.Equal(t, "my_app", CamelToUnder("MyApp"))
	require.Equal(t, "my_app_v2", CamelToUnder("MyAppV2"))
}
