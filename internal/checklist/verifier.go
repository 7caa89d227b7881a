package checklist

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

const (
	successInfoMessageConstant              = "All checks passed. Great job!"
	missingTargetFatalTemplateConstant      = "Fatal: target directory %s does not exist"
	missingRepositoryFatalTemplateConstant  = "Fatal: %s is not a git repository (no .git directory found)"
	queryFailedSuffixTemplateConstant       = "%s (query failed: %v)"
	requirementPanicTemplateConstant        = "requirement panicked: %v"
	failureSeparatorConstant                = "\n"
	repositoryMarkerNameConstant            = ".git"
	primaryBranchMainConstant               = "main"
	primaryBranchMasterConstant             = "master"
	repositoryQuerierMissingMessageConstant = "repository querier not configured"
	remoteQuerierMissingMessageConstant     = "remote querier not configured"
	fileSystemMissingMessageConstant        = "file system not configured"
	verificationFailedMessageConstant       = "verification failed"
	requirementEvaluatedLogMessageConstant  = "Requirement evaluated"
	fatalPreconditionLogMessageConstant     = "Verification stopped before evaluating requirements"
	requirementIDLogFieldConstant           = "requirement_id"
	taskLogFieldConstant                    = "task"
	passedLogFieldConstant                  = "passed"
	targetPathLogFieldConstant              = "target_path"
	primaryBranchLogFieldConstant           = "primary_branch"
	queryErrorLogFieldConstant              = "query_error"
)

// ErrRepositoryQuerierNotConfigured indicates Verify received a nil RepositoryQuerier.
var ErrRepositoryQuerierNotConfigured = errors.New(repositoryQuerierMissingMessageConstant)

// ErrRemoteQuerierNotConfigured indicates remote requirements were enabled without a RemoteQuerier.
var ErrRemoteQuerierNotConfigured = errors.New(remoteQuerierMissingMessageConstant)

// ErrFileSystemNotConfigured indicates the verifier was constructed without a FileSystem.
var ErrFileSystemNotConfigured = errors.New(fileSystemMissingMessageConstant)

// ErrVerificationFailed is returned by the command after printing a failed report.
var ErrVerificationFailed = errors.New(verificationFailedMessageConstant)

// Evaluation holds the detailed outcome of one verification run.
type Evaluation struct {
	TargetPath    string
	PrimaryBranch string
	FatalMessage  string
	Results       []CheckResult
	Groups        []TaskGroupOutcome
}

// Report folds the evaluation into the two-field VerificationReport.
func (evaluation Evaluation) Report() VerificationReport {
	if len(evaluation.FatalMessage) > 0 {
		return VerificationReport{Success: false, Info: evaluation.FatalMessage}
	}

	failureMessages := make([]string, 0)
	for _, result := range evaluation.Results {
		if result.Passed {
			continue
		}
		failureMessages = append(failureMessages, result.FailureMessage)
	}
	if len(failureMessages) == 0 {
		return VerificationReport{Success: true, Info: successInfoMessageConstant}
	}
	return VerificationReport{Success: false, Info: strings.Join(failureMessages, failureSeparatorConstant)}
}

// Failures returns the failed results in evaluation order.
func (evaluation Evaluation) Failures() []CheckResult {
	failures := make([]CheckResult, 0)
	for _, result := range evaluation.Results {
		if !result.Passed {
			failures = append(failures, result)
		}
	}
	return failures
}

// VerifierOption customizes a Verifier.
type VerifierOption func(*Verifier)

// WithFileSystem overrides the filesystem used for path and file checks.
func WithFileSystem(fileSystem FileSystem) VerifierOption {
	return func(verifier *Verifier) {
		verifier.fileSystem = fileSystem
	}
}

// WithRemoteQuerier supplies the querier used by remote requirements.
func WithRemoteQuerier(remoteQuerier RemoteQuerier) VerifierOption {
	return func(verifier *Verifier) {
		verifier.remoteQuerier = remoteQuerier
	}
}

// WithLogger sets the logger that receives one debug entry per requirement.
func WithLogger(logger *zap.Logger) VerifierOption {
	return func(verifier *Verifier) {
		if logger != nil {
			verifier.logger = logger
		}
	}
}

// WithEvaluationObserver registers an observer notified after every requirement.
func WithEvaluationObserver(observer EvaluationObserver) VerifierOption {
	return func(verifier *Verifier) {
		verifier.observer = observer
	}
}

// Verifier evaluates the requirement catalog against a lab repository.
type Verifier struct {
	taskGroups    []TaskGroup
	fileSystem    FileSystem
	remoteQuerier RemoteQuerier
	logger        *zap.Logger
	observer      EvaluationObserver
}

// NewVerifier builds a Verifier whose catalog reflects the provided configuration.
func NewVerifier(configuration Configuration, options ...VerifierOption) (*Verifier, error) {
	verifier := &Verifier{
		taskGroups: BuildCatalog(configuration),
		logger:     zap.NewNop(),
	}
	for _, option := range options {
		option(verifier)
	}
	if verifier.fileSystem == nil {
		return nil, ErrFileSystemNotConfigured
	}
	return verifier, nil
}

// TaskGroups returns a copy of the catalog evaluated by the verifier.
func (verifier *Verifier) TaskGroups() []TaskGroup {
	taskGroups := make([]TaskGroup, len(verifier.taskGroups))
	for groupIndex, taskGroup := range verifier.taskGroups {
		taskGroups[groupIndex] = taskGroup
		taskGroups[groupIndex].Requirements = append([]Requirement(nil), taskGroup.Requirements...)
	}
	return taskGroups
}

// Verify runs every requirement and returns the aggregate report.
func (verifier *Verifier) Verify(executionContext context.Context, targetPath string, repository RepositoryQuerier) VerificationReport {
	return verifier.Evaluate(executionContext, targetPath, repository).Report()
}

// Evaluate runs the precondition gates and then every requirement of every task group in order.
// Requirement failures never stop the run; only a missing target directory or repository marker does.
func (verifier *Verifier) Evaluate(executionContext context.Context, targetPath string, repository RepositoryQuerier) Evaluation {
	evaluation := Evaluation{TargetPath: targetPath}

	if fatalMessage, fatal := verifier.checkPreconditions(targetPath); fatal {
		verifier.logger.Debug(fatalPreconditionLogMessageConstant, zap.String(targetPathLogFieldConstant, targetPath))
		evaluation.FatalMessage = fatalMessage
		return evaluation
	}

	environment := EvaluationEnvironment{
		RepositoryPath: targetPath,
		Repository:     repository,
		Remote:         verifier.remoteQuerier,
		FileSystem:     verifier.fileSystem,
	}
	environment.PrimaryBranch = resolvePrimaryBranch(executionContext, environment)
	evaluation.PrimaryBranch = environment.PrimaryBranch

	for _, taskGroup := range verifier.taskGroups {
		groupPassed := true
		for _, requirement := range taskGroup.Requirements {
			result := verifier.evaluateRequirement(executionContext, environment, requirement)
			evaluation.Results = append(evaluation.Results, result)
			groupPassed = groupPassed && result.Passed
		}
		evaluation.Groups = append(evaluation.Groups, TaskGroupOutcome{Number: taskGroup.Number, Title: taskGroup.Title, Passed: groupPassed})
	}

	return evaluation
}

func (verifier *Verifier) checkPreconditions(targetPath string) (string, bool) {
	targetInfo, statError := verifier.fileSystem.Stat(targetPath)
	if statError != nil || !targetInfo.IsDir() {
		return fmt.Sprintf(missingTargetFatalTemplateConstant, targetPath), true
	}
	if _, markerError := verifier.fileSystem.Stat(filepath.Join(targetPath, repositoryMarkerNameConstant)); markerError != nil {
		return fmt.Sprintf(missingRepositoryFatalTemplateConstant, targetPath), true
	}
	return "", false
}

func resolvePrimaryBranch(executionContext context.Context, environment EvaluationEnvironment) string {
	if environment.Repository == nil {
		return primaryBranchMasterConstant
	}
	mainExists, queryError := environment.Repository.BranchExists(executionContext, environment.RepositoryPath, primaryBranchMainConstant)
	if queryError == nil && mainExists {
		return primaryBranchMainConstant
	}
	return primaryBranchMasterConstant
}

func (verifier *Verifier) evaluateRequirement(executionContext context.Context, environment EvaluationEnvironment, requirement Requirement) CheckResult {
	result := CheckResult{RequirementID: requirement.ID, Task: requirement.Task}

	passed, queryError := runPredicate(executionContext, environment, requirement.Evaluate)
	switch {
	case queryError != nil:
		result.FailureMessage = fmt.Sprintf(queryFailedSuffixTemplateConstant, requirement.FailureMessage, queryError)
	case passed:
		result.Passed = true
	default:
		result.FailureMessage = requirement.FailureMessage
	}

	logFields := []zap.Field{
		zap.String(requirementIDLogFieldConstant, requirement.ID),
		zap.Int(taskLogFieldConstant, int(requirement.Task)),
		zap.Bool(passedLogFieldConstant, result.Passed),
		zap.String(primaryBranchLogFieldConstant, environment.PrimaryBranch),
	}
	if queryError != nil {
		logFields = append(logFields, zap.NamedError(queryErrorLogFieldConstant, queryError))
	}
	verifier.logger.Debug(requirementEvaluatedLogMessageConstant, logFields...)

	if verifier.observer != nil {
		verifier.observer.RequirementEvaluated(requirement, result)
	}
	return result
}

func runPredicate(executionContext context.Context, environment EvaluationEnvironment, predicate Predicate) (passed bool, predicateError error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			passed = false
			predicateError = fmt.Errorf(requirementPanicTemplateConstant, recovered)
		}
	}()
	if environment.Repository == nil {
		return false, ErrRepositoryQuerierNotConfigured
	}
	return predicate(executionContext, environment)
}
