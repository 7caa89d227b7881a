package ui_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/temirov/gitdrill/internal/checklist"
	"github.com/temirov/gitdrill/internal/execshell"
	"github.com/temirov/gitdrill/internal/ui"
)

const (
	testWorkingDirectoryConstant = "/workspace/lab"
	testStandardErrorConstant    = "fatal: ambiguous argument 'feature'"
)

func TestConsoleProgressLoggerEmitsMessages(testInstance *testing.T) {
	command := execshell.ShellCommand{
		Name: execshell.CommandGit,
		Details: execshell.CommandDetails{
			Arguments:        []string{"config", "--get", "user.email"},
			WorkingDirectory: testWorkingDirectoryConstant,
		},
	}
	requirement := checklist.Requirement{
		ID:             "2.1",
		Task:           checklist.TaskFileState,
		Description:    "notes.txt exists and is not empty",
		FailureMessage: "Task 2: notes.txt is missing or empty",
	}

	testCases := []struct {
		name            string
		invoke          func(progressLogger *ui.ConsoleProgressLogger)
		expectedLevel   zapcore.Level
		expectedMessage string
	}{
		{
			name: "command_started",
			invoke: func(progressLogger *ui.ConsoleProgressLogger) {
				progressLogger.CommandStarted(command)
			},
			expectedLevel:   zapcore.DebugLevel,
			expectedMessage: "Reading git setting user.email in /workspace/lab",
		},
		{
			name: "command_failed_with_exit_code",
			invoke: func(progressLogger *ui.ConsoleProgressLogger) {
				progressLogger.CommandCompleted(command, execshell.ExecutionResult{ExitCode: 1, StandardError: testStandardErrorConstant})
			},
			expectedLevel:   zapcore.InfoLevel,
			expectedMessage: "Failed to read git setting user.email in /workspace/lab (exit code 1: " + testStandardErrorConstant + ")",
		},
		{
			name: "command_execution_failed",
			invoke: func(progressLogger *ui.ConsoleProgressLogger) {
				progressLogger.CommandExecutionFailed(command, errors.New("executable file not found"))
			},
			expectedLevel:   zapcore.ErrorLevel,
			expectedMessage: execshell.CommandMessageFormatter{}.BuildExecutionFailureMessage(command, errors.New("executable file not found")),
		},
		{
			name: "requirement_passed",
			invoke: func(progressLogger *ui.ConsoleProgressLogger) {
				progressLogger.RequirementEvaluated(requirement, checklist.CheckResult{RequirementID: "2.1", Task: checklist.TaskFileState, Passed: true})
			},
			expectedLevel:   zapcore.InfoLevel,
			expectedMessage: "PASS [2.1] notes.txt exists and is not empty",
		},
		{
			name: "requirement_failed",
			invoke: func(progressLogger *ui.ConsoleProgressLogger) {
				progressLogger.RequirementEvaluated(requirement, checklist.CheckResult{RequirementID: "2.1", Task: checklist.TaskFileState, FailureMessage: requirement.FailureMessage})
			},
			expectedLevel:   zapcore.WarnLevel,
			expectedMessage: "FAIL [2.1] Task 2: notes.txt is missing or empty",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subtestInstance *testing.T) {
			observedCore, observedLogs := observer.New(zapcore.DebugLevel)
			progressLogger := ui.NewConsoleProgressLogger(zap.New(observedCore))

			testCase.invoke(progressLogger)

			entries := observedLogs.All()
			require.Len(subtestInstance, entries, 1)
			require.Equal(subtestInstance, testCase.expectedLevel, entries[0].Level)
			require.Equal(subtestInstance, testCase.expectedMessage, entries[0].Message)
		})
	}
}

func TestConsoleProgressLoggerToleratesNilReceiver(testInstance *testing.T) {
	var progressLogger *ui.ConsoleProgressLogger
	require.NotPanics(testInstance, func() {
		progressLogger.CommandStarted(execshell.ShellCommand{})
		progressLogger.RequirementEvaluated(checklist.Requirement{}, checklist.CheckResult{})
	})
}
