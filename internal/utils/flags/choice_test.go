package flags

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormatChoiceUsage(testInstance *testing.T) {
	testCases := []struct {
		name           string
		defaultChoice  string
		choices        []string
		description    string
		expectedOutput string
	}{
		{
			name:           "default_first_choice",
			defaultChoice:  "text",
			choices:        []string{"text", "yaml", "json"},
			description:    "Report format.",
			expectedOutput: "`<TEXT|yaml|json>` Report format.",
		},
		{
			name:           "default_last_choice",
			defaultChoice:  "merge-commit",
			choices:        []string{"ancestry", "merge-commit"},
			description:    "Merge detection strategy.",
			expectedOutput: "`<ancestry|MERGE-COMMIT>` Merge detection strategy.",
		},
		{
			name:           "empty_description",
			defaultChoice:  "log",
			choices:        []string{"log", "rev-list"},
			expectedOutput: "`<LOG|rev-list>`",
		},
		{
			name:           "duplicates_and_whitespace_ignored",
			defaultChoice:  "yaml",
			choices:        []string{" yaml ", "YAML", "", "json"},
			description:    "Pick one.",
			expectedOutput: "`<YAML|json>` Pick one.",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subtestInstance *testing.T) {
			require.Equal(subtestInstance, testCase.expectedOutput, FormatChoiceUsage(testCase.defaultChoice, testCase.choices, testCase.description))
		})
	}
}

func TestParseChoice(testInstance *testing.T) {
	choices := []string{"text", "yaml", "json"}

	testCases := []struct {
		name          string
		value         string
		expectedValue string
		expectError   bool
	}{
		{name: "exact", value: "yaml", expectedValue: "yaml"},
		{name: "case_insensitive", value: " JSON ", expectedValue: "json"},
		{name: "unsupported", value: "xml", expectError: true},
		{name: "empty", value: "", expectError: true},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subtestInstance *testing.T) {
			parsedValue, parseError := ParseChoice(testCase.value, choices)
			if testCase.expectError {
				require.ErrorIs(subtestInstance, parseError, ErrUnsupportedChoice)
				return
			}
			require.NoError(subtestInstance, parseError)
			require.Equal(subtestInstance, testCase.expectedValue, parsedValue)
		})
	}
}
