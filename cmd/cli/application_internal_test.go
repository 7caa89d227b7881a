package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/gitdrill/internal/checklist"
)

func TestEmbeddedDefaultsMatchChecklistDefaults(testInstance *testing.T) {
	testInstance.Setenv("HOME", testInstance.TempDir())

	application := NewApplication()
	require.NoError(testInstance, application.initializeConfiguration(application.rootCommand))

	require.Equal(testInstance, checklist.DefaultConfiguration(), application.configuration.Checklist)
	require.Equal(testInstance, "error", application.configuration.Common.LogLevel)
	require.Equal(testInstance, "structured", application.configuration.Common.LogFormat)
	require.Nil(testInstance, application.progressObserver())
}

func TestEmbeddedDefaultConfigurationReturnsCopy(testInstance *testing.T) {
	firstContent, configurationType := EmbeddedDefaultConfiguration()
	require.Equal(testInstance, configurationTypeConstant, configurationType)
	require.NotEmpty(testInstance, firstContent)

	firstContent[0] = '#'
	secondContent, _ := EmbeddedDefaultConfiguration()
	require.NotEqual(testInstance, firstContent[0], secondContent[0])
}

func TestConsoleFormatEnablesProgressObserver(testInstance *testing.T) {
	testCases := []struct {
		name            string
		logFormat       string
		expectsObserver bool
	}{
		{name: "structured", logFormat: "structured", expectsObserver: false},
		{name: "console", logFormat: "console", expectsObserver: true},
		{name: "console mixed case", logFormat: " Console ", expectsObserver: true},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			application := NewApplication()
			application.configuration.Common.LogFormat = testCase.logFormat
			require.Equal(testInstance, testCase.expectsObserver, application.progressObserver() != nil)
		})
	}
}

func TestApplicationVersionFlagPrintsVersion(testInstance *testing.T) {
	application := NewApplication(WithVersion("v2.0.0"))

	var output bytes.Buffer
	application.SetOutput(&output)
	application.SetArguments([]string{"--version"})

	require.NoError(testInstance, application.Execute())
	require.Equal(testInstance, "gitdrill version v2.0.0\n", output.String())
}

func TestApplicationRegistersSubcommands(testInstance *testing.T) {
	application := NewApplication()

	registeredNames := make([]string, 0, len(application.rootCommand.Commands()))
	for _, subcommand := range application.rootCommand.Commands() {
		registeredNames = append(registeredNames, subcommand.Name())
	}
	require.Subset(testInstance, registeredNames, []string{"requirements", "watch"})
	require.Equal(testInstance, applicationNameConstant, application.rootCommand.Name())
}
