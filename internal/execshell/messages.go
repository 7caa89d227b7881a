package execshell

import (
	"fmt"
	"strings"
)

type messageStage int

const (
	messageStageStart messageStage = iota
	messageStageSuccess
	messageStageFailure
	messageStageExecutionFailure
)

const (
	genericStartTemplateConstant            = "Running %s"
	genericSuccessTemplateConstant          = "Completed %s"
	genericFailureTemplateConstant          = "%s failed with exit code %d%s"
	genericExecutionFailureTemplateConstant = "%s failed: %s"
	workingDirectorySuffixTemplateConstant  = " (in %s)"
	commandArgumentsJoinSeparatorConstant   = " "
	standardErrorSuffixTemplateConstant     = ": %s"
	exitCodeSuffixTemplateConstant          = " (exit code %d%s)"
	executionFailureSuffixTemplateConstant  = ": %s"
	unknownFailureMessageConstant           = "unknown error"
	emptyStringConstant                     = ""
	defaultWorkingDirectoryLabelConstant    = "current directory"
	fallbackUnknownValueLabelConstant       = "unknown"
	flagPrefixConstant                      = "-"
)

const (
	gitConfigSubcommandNameConstant     = "config"
	gitForEachRefSubcommandNameConstant = "for-each-ref"
	gitShowRefSubcommandNameConstant    = "show-ref"
	gitLogSubcommandNameConstant        = "log"
	gitRevListSubcommandNameConstant    = "rev-list"
	gitLSTreeSubcommandNameConstant     = "ls-tree"
	gitMergeBaseSubcommandNameConstant  = "merge-base"
	gitRevParseSubcommandNameConstant   = "rev-parse"
	gitStatusSubcommandNameConstant     = "status"
	gitTagSubcommandNameConstant        = "tag"
	gitRemoteSubcommandNameConstant     = "remote"
	gitLSRemoteSubcommandNameConstant   = "ls-remote"
	gitMergesFlagConstant               = "--merges"
	gitHeadsFlagConstant                = "--heads"
	gitTagsFlagConstant                 = "--tags"
	gitGetFlagConstant                  = "--get"
	gitHeadReferenceConstant            = "HEAD"
)

// gitMessageTemplates holds the four lifecycle phrasings of one git subcommand. Every template
// receives the subject first and the working directory second.
type gitMessageTemplates struct {
	start            string
	success          string
	failure          string
	executionFailure string
}

var gitMessageTemplatesBySubcommand = map[string]gitMessageTemplates{
	gitConfigSubcommandNameConstant: {
		start:            "Reading git setting %s in %s",
		success:          "Read git setting %s in %s",
		failure:          "Failed to read git setting %s in %s",
		executionFailure: "Unable to read git setting %s in %s",
	},
	gitForEachRefSubcommandNameConstant: {
		start:            "Listing %s in %s",
		success:          "Listed %s in %s",
		failure:          "Failed to list %s in %s",
		executionFailure: "Unable to list %s in %s",
	},
	gitShowRefSubcommandNameConstant: {
		start:            "Looking up %s in %s",
		success:          "Found %s in %s",
		failure:          "Did not find %s in %s",
		executionFailure: "Unable to look up %s in %s",
	},
	gitLogSubcommandNameConstant: {
		start:            "Reading %s in %s",
		success:          "Read %s in %s",
		failure:          "Failed to read %s in %s",
		executionFailure: "Unable to read %s in %s",
	},
	gitRevListSubcommandNameConstant: {
		start:            "Counting commits reachable from %s in %s",
		success:          "Counted commits reachable from %s in %s",
		failure:          "Failed to count commits reachable from %s in %s",
		executionFailure: "Unable to count commits reachable from %s in %s",
	},
	gitLSTreeSubcommandNameConstant: {
		start:            "Listing files tracked at %s in %s",
		success:          "Listed files tracked at %s in %s",
		failure:          "Failed to list files tracked at %s in %s",
		executionFailure: "Unable to list files tracked at %s in %s",
	},
	gitMergeBaseSubcommandNameConstant: {
		start:            "Computing merge base of %s in %s",
		success:          "Computed merge base of %s in %s",
		failure:          "Failed to compute merge base of %s in %s",
		executionFailure: "Unable to compute merge base of %s in %s",
	},
	gitRevParseSubcommandNameConstant: {
		start:            "Resolving %s in %s",
		success:          "Resolved %s in %s",
		failure:          "Failed to resolve %s in %s",
		executionFailure: "Unable to resolve %s in %s",
	},
	gitStatusSubcommandNameConstant: {
		start:            "Reviewing %s in %s",
		success:          "Collected %s for %s",
		failure:          "Failed to review %s in %s",
		executionFailure: "Unable to review %s in %s",
	},
	gitTagSubcommandNameConstant: {
		start:            "Listing %s in %s",
		success:          "Listed %s in %s",
		failure:          "Failed to list %s in %s",
		executionFailure: "Unable to list %s in %s",
	},
	gitRemoteSubcommandNameConstant: {
		start:            "Listing %s in %s",
		success:          "Listed %s in %s",
		failure:          "Failed to list %s in %s",
		executionFailure: "Unable to list %s in %s",
	},
	gitLSRemoteSubcommandNameConstant: {
		start:            "Querying %s from %s",
		success:          "Queried %s from %s",
		failure:          "Failed to query %s from %s",
		executionFailure: "Unable to query %s from %s",
	},
}

// CommandMessageFormatter builds human-readable messages for command lifecycle events.
type CommandMessageFormatter struct{}

// BuildStartedMessage formats the message describing a command about to run.
func (formatter CommandMessageFormatter) BuildStartedMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageStart)
}

// BuildSuccessMessage formats the message describing a completed command with a zero exit code.
func (formatter CommandMessageFormatter) BuildSuccessMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageSuccess)
}

// BuildFailureMessage formats the message describing a command that returned a non-zero exit code.
func (formatter CommandMessageFormatter) BuildFailureMessage(command ShellCommand, result ExecutionResult) string {
	return formatter.buildMessage(command, result, nil, messageStageFailure)
}

// BuildExecutionFailureMessage formats the message describing an unexpected execution failure.
func (formatter CommandMessageFormatter) BuildExecutionFailureMessage(command ShellCommand, failure error) string {
	return formatter.buildMessage(command, ExecutionResult{}, failure, messageStageExecutionFailure)
}

func (formatter CommandMessageFormatter) buildMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	if command.Name != CommandGit || len(command.Details.Arguments) == 0 {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	subcommand := strings.TrimSpace(command.Details.Arguments[0])
	templates, known := gitMessageTemplatesBySubcommand[subcommand]
	if !known {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	subject := formatter.describeGitSubject(subcommand, command.Details.Arguments[1:])
	workingDirectory := formatter.describeWorkingDirectory(command)

	switch stage {
	case messageStageStart:
		return fmt.Sprintf(templates.start, subject, workingDirectory)
	case messageStageSuccess:
		return fmt.Sprintf(templates.success, subject, workingDirectory)
	case messageStageFailure:
		return fmt.Sprintf(templates.failure, subject, workingDirectory) + fmt.Sprintf(exitCodeSuffixTemplateConstant, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(templates.executionFailure, subject, workingDirectory) + fmt.Sprintf(executionFailureSuffixTemplateConstant, formatter.describeFailure(failure))
	default:
		return emptyStringConstant
	}
}

func (formatter CommandMessageFormatter) describeGitSubject(subcommand string, arguments []string) string {
	positional := formatter.positionalArguments(arguments)

	switch subcommand {
	case gitConfigSubcommandNameConstant:
		return formatter.ensureValue(findFlagValue(arguments, gitGetFlagConstant))
	case gitForEachRefSubcommandNameConstant:
		return "local branches"
	case gitShowRefSubcommandNameConstant:
		return formatter.ensureValue(formatter.lastValue(positional))
	case gitLogSubcommandNameConstant:
		reference := gitHeadReferenceConstant
		if len(positional) > 0 {
			reference = positional[0]
		}
		if containsArgument(arguments, gitMergesFlagConstant) {
			return fmt.Sprintf("merge commits on %s", reference)
		}
		return fmt.Sprintf("commit log of %s", reference)
	case gitRevListSubcommandNameConstant:
		return formatter.ensureValue(formatter.lastValue(positional))
	case gitLSTreeSubcommandNameConstant:
		return formatter.ensureValue(formatter.lastValue(positional))
	case gitMergeBaseSubcommandNameConstant:
		return strings.Join(positional, " and ")
	case gitRevParseSubcommandNameConstant:
		return formatter.ensureValue(formatter.lastValue(positional))
	case gitStatusSubcommandNameConstant:
		return "working tree status"
	case gitTagSubcommandNameConstant:
		return "tags"
	case gitRemoteSubcommandNameConstant:
		return "remotes"
	case gitLSRemoteSubcommandNameConstant:
		remoteName := formatter.ensureValue(formatter.lastValue(positional))
		switch {
		case containsArgument(arguments, gitHeadsFlagConstant):
			return fmt.Sprintf("branches on %s", remoteName)
		case containsArgument(arguments, gitTagsFlagConstant):
			return fmt.Sprintf("tags on %s", remoteName)
		default:
			return fmt.Sprintf("references on %s", remoteName)
		}
	default:
		return fallbackUnknownValueLabelConstant
	}
}

func (formatter CommandMessageFormatter) buildGenericMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	commandLabel := formatter.formatCommandLabel(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(genericStartTemplateConstant, commandLabel)
	case messageStageSuccess:
		return fmt.Sprintf(genericSuccessTemplateConstant, commandLabel)
	case messageStageFailure:
		return fmt.Sprintf(genericFailureTemplateConstant, commandLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(genericExecutionFailureTemplateConstant, commandLabel, formatter.describeFailure(failure))
	default:
		return emptyStringConstant
	}
}

func (formatter CommandMessageFormatter) formatCommandLabel(command ShellCommand) string {
	commandLabel := describeCommandLine(command)
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return commandLabel
	}
	return commandLabel + fmt.Sprintf(workingDirectorySuffixTemplateConstant, trimmedWorkingDirectory)
}

func (formatter CommandMessageFormatter) formatStandardErrorSuffix(standardError string) string {
	trimmedStandardError := strings.TrimSpace(standardError)
	if len(trimmedStandardError) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(standardErrorSuffixTemplateConstant, trimmedStandardError)
}

func (formatter CommandMessageFormatter) describeWorkingDirectory(command ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return defaultWorkingDirectoryLabelConstant
	}
	return trimmedWorkingDirectory
}

func (formatter CommandMessageFormatter) describeFailure(failure error) string {
	if failure == nil {
		return unknownFailureMessageConstant
	}
	return failure.Error()
}

func (formatter CommandMessageFormatter) positionalArguments(arguments []string) []string {
	positional := make([]string, 0, len(arguments))
	for _, argument := range arguments {
		trimmedArgument := strings.TrimSpace(argument)
		if len(trimmedArgument) == 0 || strings.HasPrefix(trimmedArgument, flagPrefixConstant) {
			continue
		}
		positional = append(positional, trimmedArgument)
	}
	return positional
}

func (formatter CommandMessageFormatter) lastValue(values []string) string {
	if len(values) == 0 {
		return emptyStringConstant
	}
	return values[len(values)-1]
}

func (formatter CommandMessageFormatter) ensureValue(value string) string {
	trimmedValue := strings.TrimSpace(value)
	if len(trimmedValue) == 0 {
		return fallbackUnknownValueLabelConstant
	}
	return trimmedValue
}

func containsArgument(arguments []string, value string) bool {
	for _, argument := range arguments {
		if strings.TrimSpace(argument) == value {
			return true
		}
	}
	return false
}

func findFlagValue(arguments []string, flag string) string {
	for index := 0; index < len(arguments)-1; index++ {
		if strings.TrimSpace(arguments[index]) == flag {
			return arguments[index+1]
		}
	}
	return emptyStringConstant
}
