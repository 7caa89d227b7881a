package checklist

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/gitdrill/internal/dependencies"
	"github.com/temirov/gitdrill/internal/execshell"
	"github.com/temirov/gitdrill/internal/gitrepo"
	"github.com/temirov/gitdrill/internal/utils/flags"
	pathutils "github.com/temirov/gitdrill/internal/utils/path"
)

const (
	verifyCommandUseConstant               = "gitdrill [path]"
	verifyCommandShortDescriptionConstant  = "Verify a git training lab repository"
	verifyCommandLongDescriptionConstant   = "gitdrill checks a learner's lab repository against every task of the git training exercise and reports all unmet requirements at once."
	requirementsCommandUseConstant         = "requirements"
	requirementsCommandShortDescription    = "List the requirements checked by gitdrill"
	requirementsCommandLongDescription     = "requirements prints every task group and requirement evaluated for the active configuration."
	unexpectedArgumentsMessageConstant     = "requirements does not accept positional arguments"
	flagFormatNameConstant                 = "format"
	flagFormatDescriptionConstant          = "Report output format."
	flagRemoteNameConstant                 = "remote"
	flagRemoteDescriptionConstant          = "Also verify that the primary branch and release tag were pushed to the configured remote."
	reportWriteErrorTemplateConstant       = "unable to write verification report: %w"
	catalogWriteErrorTemplateConstant      = "unable to write requirement catalog: %w"
	verificationCompletedLogMessage        = "Verification completed"
	logFieldTargetPathConstant             = "target_path"
	logFieldSuccessConstant                = "success"
	logFieldFailedRequirementCountConstant = "failed_requirements"
)

var (
	errUnexpectedArguments = errors.New(unexpectedArgumentsMessageConstant)
	supportedReportFormats = []string{string(ReportFormatText), string(ReportFormatYAML), string(ReportFormatJSON)}
)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider supplies the active checklist configuration.
type ConfigurationProvider func() Configuration

// ProgressObserver follows both git command execution and requirement outcomes.
type ProgressObserver interface {
	EvaluationObserver
	execshell.CommandEventObserver
}

// ProgressObserverProvider returns the observer for human-readable progress, or nil when disabled.
type ProgressObserverProvider func() ProgressObserver

// CommandBuilder assembles the Cobra command that verifies a lab repository.
type CommandBuilder struct {
	LoggerProvider           LoggerProvider
	ConfigurationProvider    ConfigurationProvider
	ProgressObserverProvider ProgressObserverProvider
	GitExecutor              gitrepo.GitExecutor
	FileSystem               FileSystem
	HomeExpander             *pathutils.HomeExpander
}

// Build constructs the verification command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	defaults := DefaultConfiguration()
	command := &cobra.Command{
		Use:   verifyCommandUseConstant,
		Short: verifyCommandShortDescriptionConstant,
		Long:  verifyCommandLongDescriptionConstant,
		Args:  cobra.MaximumNArgs(1),
		RunE:  builder.run,
	}

	command.Flags().String(flagFormatNameConstant, "", flags.FormatChoiceUsage(string(defaults.ReportFormat), supportedReportFormats, flagFormatDescriptionConstant))
	command.Flags().Bool(flagRemoteNameConstant, false, flagRemoteDescriptionConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	preparedRun, prepareError := builder.prepareRun(command, arguments)
	if prepareError != nil {
		return prepareError
	}

	report, runError := preparedRun.execute(command.Context(), command.OutOrStdout())
	if runError != nil {
		return runError
	}
	if !report.Success {
		return ErrVerificationFailed
	}
	return nil
}

// verificationRun holds everything needed to evaluate one target repeatedly.
type verificationRun struct {
	configuration Configuration
	targetPath    string
	verifier      *Verifier
	repository    RepositoryQuerier
	logger        *zap.Logger
}

func (builder *CommandBuilder) prepareRun(command *cobra.Command, arguments []string) (verificationRun, error) {
	configuration, optionsError := builder.parseOptions(command)
	if optionsError != nil {
		return verificationRun{}, optionsError
	}

	targetPath := configuration.TargetPath
	if len(arguments) == 1 && len(strings.TrimSpace(arguments[0])) > 0 {
		targetPath = arguments[0]
	}
	targetPath = builder.resolveHomeExpander().Expand(targetPath)

	logger := resolveLogger(builder.LoggerProvider)
	progressObserver := builder.resolveProgressObserver()

	var commandEventObserver execshell.CommandEventObserver
	verifierOptions := []VerifierOption{
		WithLogger(logger),
		WithFileSystem(dependencies.ResolveFileSystem(builder.FileSystem)),
	}
	if progressObserver != nil {
		commandEventObserver = progressObserver
		verifierOptions = append(verifierOptions, WithEvaluationObserver(progressObserver))
	}

	executor, executorError := dependencies.ResolveGitExecutor(builder.GitExecutor, logger, commandEventObserver)
	if executorError != nil {
		return verificationRun{}, executorError
	}
	repositoryManager, managerError := dependencies.ResolveRepositoryManager(executor, configuration.Remote.Timeout)
	if managerError != nil {
		return verificationRun{}, managerError
	}
	verifierOptions = append(verifierOptions, WithRemoteQuerier(repositoryManager))

	verifier, verifierError := NewVerifier(configuration, verifierOptions...)
	if verifierError != nil {
		return verificationRun{}, verifierError
	}

	return verificationRun{
		configuration: configuration,
		targetPath:    targetPath,
		verifier:      verifier,
		repository:    repositoryManager,
		logger:        logger,
	}, nil
}

func (preparedRun verificationRun) execute(executionContext context.Context, writer io.Writer) (VerificationReport, error) {
	evaluation := preparedRun.verifier.Evaluate(executionContext, preparedRun.targetPath, preparedRun.repository)
	report := evaluation.Report()

	preparedRun.logger.Info(
		verificationCompletedLogMessage,
		zap.String(logFieldTargetPathConstant, preparedRun.targetPath),
		zap.Bool(logFieldSuccessConstant, report.Success),
		zap.Int(logFieldFailedRequirementCountConstant, len(evaluation.Failures())),
	)

	if writeError := WriteReport(writer, report, preparedRun.configuration.ReportFormat); writeError != nil {
		return report, fmt.Errorf(reportWriteErrorTemplateConstant, writeError)
	}
	return report, nil
}

func (builder *CommandBuilder) parseOptions(command *cobra.Command) (Configuration, error) {
	configuration := resolveConfiguration(builder.ConfigurationProvider)

	if command.Flags().Changed(flagFormatNameConstant) {
		formatValue, _ := command.Flags().GetString(flagFormatNameConstant)
		parsedFormat, parseError := flags.ParseChoice(formatValue, supportedReportFormats)
		if parseError != nil {
			return Configuration{}, parseError
		}
		configuration.ReportFormat = ReportFormat(parsedFormat)
	}

	if command.Flags().Changed(flagRemoteNameConstant) {
		remoteEnabled, _ := command.Flags().GetBool(flagRemoteNameConstant)
		configuration.Remote.Enabled = remoteEnabled
	}

	return configuration.sanitize(), nil
}

func (builder *CommandBuilder) resolveHomeExpander() *pathutils.HomeExpander {
	if builder.HomeExpander != nil {
		return builder.HomeExpander
	}
	return pathutils.NewHomeExpander()
}

func (builder *CommandBuilder) resolveProgressObserver() ProgressObserver {
	if builder.ProgressObserverProvider == nil {
		return nil
	}
	return builder.ProgressObserverProvider()
}

// RequirementsCommandBuilder assembles the Cobra command that lists the active requirements.
type RequirementsCommandBuilder struct {
	ConfigurationProvider ConfigurationProvider
}

// Build constructs the requirements command.
func (builder *RequirementsCommandBuilder) Build() (*cobra.Command, error) {
	defaults := DefaultConfiguration()
	command := &cobra.Command{
		Use:   requirementsCommandUseConstant,
		Short: requirementsCommandShortDescription,
		Long:  requirementsCommandLongDescription,
		RunE:  builder.run,
	}

	command.Flags().String(flagFormatNameConstant, "", flags.FormatChoiceUsage(string(defaults.ReportFormat), supportedReportFormats, flagFormatDescriptionConstant))
	command.Flags().Bool(flagRemoteNameConstant, false, flagRemoteDescriptionConstant)

	return command, nil
}

func (builder *RequirementsCommandBuilder) run(command *cobra.Command, arguments []string) error {
	if len(arguments) > 0 {
		return errUnexpectedArguments
	}

	verifyBuilder := CommandBuilder{ConfigurationProvider: builder.ConfigurationProvider}
	configuration, optionsError := verifyBuilder.parseOptions(command)
	if optionsError != nil {
		return optionsError
	}

	if writeError := WriteCatalog(command.OutOrStdout(), BuildCatalog(configuration), configuration.ReportFormat); writeError != nil {
		return fmt.Errorf(catalogWriteErrorTemplateConstant, writeError)
	}
	return nil
}

func resolveLogger(provider LoggerProvider) *zap.Logger {
	if provider == nil {
		return zap.NewNop()
	}
	logger := provider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

func resolveConfiguration(provider ConfigurationProvider) Configuration {
	if provider == nil {
		return DefaultConfiguration()
	}
	return provider()
}
