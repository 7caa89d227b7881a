package ui

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/temirov/gitdrill/internal/checklist"
	"github.com/temirov/gitdrill/internal/execshell"
)

const (
	requirementPassedTemplateConstant = "PASS [%s] %s"
	requirementFailedTemplateConstant = "FAIL [%s] %s"
)

// ConsoleProgressLogger renders command and requirement events using a zap logger configured for console output.
type ConsoleProgressLogger struct {
	logger    *zap.Logger
	formatter execshell.CommandMessageFormatter
}

// NewConsoleProgressLogger constructs a progress logger backed by the provided zap logger.
func NewConsoleProgressLogger(logger *zap.Logger) *ConsoleProgressLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConsoleProgressLogger{logger: logger, formatter: execshell.CommandMessageFormatter{}}
}

// CommandStarted implements execshell.CommandEventObserver.
func (progressLogger *ConsoleProgressLogger) CommandStarted(command execshell.ShellCommand) {
	if progressLogger == nil {
		return
	}
	progressLogger.logger.Debug(progressLogger.formatter.BuildStartedMessage(command))
}

// CommandCompleted implements execshell.CommandEventObserver.
func (progressLogger *ConsoleProgressLogger) CommandCompleted(command execshell.ShellCommand, result execshell.ExecutionResult) {
	if progressLogger == nil {
		return
	}
	if result.ExitCode == 0 {
		progressLogger.logger.Debug(progressLogger.formatter.BuildSuccessMessage(command))
		return
	}
	progressLogger.logger.Info(progressLogger.formatter.BuildFailureMessage(command, result))
}

// CommandExecutionFailed implements execshell.CommandEventObserver.
func (progressLogger *ConsoleProgressLogger) CommandExecutionFailed(command execshell.ShellCommand, failure error) {
	if progressLogger == nil {
		return
	}
	progressLogger.logger.Error(progressLogger.formatter.BuildExecutionFailureMessage(command, failure))
}

// RequirementEvaluated implements checklist.EvaluationObserver.
func (progressLogger *ConsoleProgressLogger) RequirementEvaluated(requirement checklist.Requirement, result checklist.CheckResult) {
	if progressLogger == nil {
		return
	}
	if result.Passed {
		progressLogger.logger.Info(fmt.Sprintf(requirementPassedTemplateConstant, requirement.ID, requirement.Description))
		return
	}
	progressLogger.logger.Warn(fmt.Sprintf(requirementFailedTemplateConstant, requirement.ID, result.FailureMessage))
}
