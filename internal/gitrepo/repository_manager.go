package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/temirov/gitdrill/internal/execshell"
)

const (
	gitConfigSubcommandConstant                 = "config"
	gitGetFlagConstant                          = "--get"
	gitForEachRefSubcommandConstant             = "for-each-ref"
	gitShortRefFormatFlagConstant               = "--format=%(refname:short)"
	gitLocalBranchesNamespaceConstant           = "refs/heads"
	gitShowRefSubcommandConstant                = "show-ref"
	gitVerifyFlagConstant                       = "--verify"
	gitQuietFlagConstant                        = "--quiet"
	gitLocalBranchReferenceTemplateConstant     = "refs/heads/%s"
	gitLogSubcommandConstant                    = "log"
	gitOneLineFlagConstant                      = "--oneline"
	gitFullLogFormatFlagConstant                = "--format=%H %s"
	gitSubjectFormatFlagConstant                = "--format=%s"
	gitMergesFlagConstant                       = "--merges"
	gitRevListSubcommandConstant                = "rev-list"
	gitCountFlagConstant                        = "--count"
	gitHeadReferenceConstant                    = "HEAD"
	gitLSTreeSubcommandConstant                 = "ls-tree"
	gitRecursiveFlagConstant                    = "-r"
	gitNameOnlyFlagConstant                     = "--name-only"
	gitMergeBaseSubcommandConstant              = "merge-base"
	gitRevParseSubcommandConstant               = "rev-parse"
	gitCommitPeelTemplateConstant               = "%s^{commit}"
	gitStatusSubcommandConstant                 = "status"
	gitPorcelainFlagConstant                    = "--porcelain"
	gitTagSubcommandConstant                    = "tag"
	gitListFlagConstant                         = "--list"
	gitRemoteSubcommandConstant                 = "remote"
	gitLSRemoteSubcommandConstant               = "ls-remote"
	gitHeadsFlagConstant                        = "--heads"
	gitTagsFlagConstant                         = "--tags"
	gitRemoteBranchPrefixConstant               = "refs/heads/"
	gitRemoteTagPrefixConstant                  = "refs/tags/"
	gitPeeledTagSuffixConstant                  = "^{}"
	gitReferenceFieldSeparatorConstant          = "\t"
	gitLineTerminatorCharactersConstant         = "\r\n"
	gitTerminalPromptEnvironmentNameConstant    = "GIT_TERMINAL_PROMPT"
	gitTerminalPromptEnvironmentDisableConstant = "0"
	gitOptionalLocksEnvironmentNameConstant     = "GIT_OPTIONAL_LOCKS"
	gitOptionalLocksEnvironmentDisableConstant  = "0"
	gitConfigMissingExitCodeConstant            = 1
	gitShowRefMissingExitCodeConstant           = 1
	gitUnbornHeadExitCodeConstant               = 1
	gitUnrelatedHistoriesExitCodeConstant       = 1
	executorMissingMessageConstant              = "git executor not configured"
	repositoryPathRequiredMessageConstant       = "repository path must be provided"
	referenceRequiredMessageConstant            = "git reference must be provided"
	commitCountParseErrorTemplateConstant       = "unable to parse commit count %q: %w"
	defaultRemoteQueryTimeout                   = 10 * time.Second
)

// ErrGitExecutorNotConfigured indicates the manager was constructed without an executor.
var ErrGitExecutorNotConfigured = errors.New(executorMissingMessageConstant)

// ErrRepositoryPathRequired indicates an empty repository path was supplied.
var ErrRepositoryPathRequired = errors.New(repositoryPathRequiredMessageConstant)

// ErrReferenceRequired indicates an empty git reference was supplied.
var ErrReferenceRequired = errors.New(referenceRequiredMessageConstant)

// GitExecutor exposes the subset of shell execution used by RepositoryManager.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// RepositoryManager answers read-only queries about a git repository.
type RepositoryManager struct {
	executor           GitExecutor
	remoteQueryTimeout time.Duration
}

// RepositoryManagerOption customizes a RepositoryManager.
type RepositoryManagerOption func(*RepositoryManager)

// WithRemoteQueryTimeout bounds every query that contacts a remote.
func WithRemoteQueryTimeout(timeout time.Duration) RepositoryManagerOption {
	return func(manager *RepositoryManager) {
		if timeout > 0 {
			manager.remoteQueryTimeout = timeout
		}
	}
}

// NewRepositoryManager constructs a RepositoryManager backed by the provided executor.
func NewRepositoryManager(executor GitExecutor, options ...RepositoryManagerOption) (*RepositoryManager, error) {
	if executor == nil {
		return nil, ErrGitExecutorNotConfigured
	}
	manager := &RepositoryManager{executor: executor, remoteQueryTimeout: defaultRemoteQueryTimeout}
	for _, option := range options {
		option(manager)
	}
	return manager, nil
}

// ConfigValue returns the effective value of a git configuration key. Unset keys yield an empty string.
func (manager *RepositoryManager) ConfigValue(executionContext context.Context, repositoryPath string, key string) (string, error) {
	output, executionError := manager.run(executionContext, repositoryPath, gitConfigSubcommandConstant, gitGetFlagConstant, key)
	if executionError != nil {
		if exitCode, isCommandFailure := execshell.ExitCodeOf(executionError); isCommandFailure && exitCode == gitConfigMissingExitCodeConstant {
			return "", nil
		}
		return "", executionError
	}
	return strings.TrimRight(output, gitLineTerminatorCharactersConstant), nil
}

// ListLocalBranches returns the short names of all local branches.
func (manager *RepositoryManager) ListLocalBranches(executionContext context.Context, repositoryPath string) ([]string, error) {
	output, executionError := manager.run(executionContext, repositoryPath, gitForEachRefSubcommandConstant, gitShortRefFormatFlagConstant, gitLocalBranchesNamespaceConstant)
	if executionError != nil {
		return nil, executionError
	}
	return splitNonEmptyLines(output), nil
}

// BranchExists reports whether a local branch with the given name exists.
func (manager *RepositoryManager) BranchExists(executionContext context.Context, repositoryPath string, branchName string) (bool, error) {
	trimmedBranchName := strings.TrimSpace(branchName)
	if len(trimmedBranchName) == 0 {
		return false, ErrReferenceRequired
	}
	_, executionError := manager.run(executionContext, repositoryPath, gitShowRefSubcommandConstant, gitVerifyFlagConstant, gitQuietFlagConstant, fmt.Sprintf(gitLocalBranchReferenceTemplateConstant, trimmedBranchName))
	if executionError != nil {
		if exitCode, isCommandFailure := execshell.ExitCodeOf(executionError); isCommandFailure && exitCode == gitShowRefMissingExitCodeConstant {
			return false, nil
		}
		return false, executionError
	}
	return true, nil
}

// CommitLog returns one "<hash> <subject>" entry per commit reachable from HEAD. An unborn HEAD yields no entries.
func (manager *RepositoryManager) CommitLog(executionContext context.Context, repositoryPath string) ([]string, error) {
	output, executionError := manager.run(executionContext, repositoryPath, gitLogSubcommandConstant, gitFullLogFormatFlagConstant)
	if executionError != nil {
		if manager.headIsUnborn(executionContext, repositoryPath) {
			return []string{}, nil
		}
		return nil, executionError
	}
	return splitNonEmptyLines(output), nil
}

// OneLineLog returns the abbreviated one-line log reachable from HEAD.
func (manager *RepositoryManager) OneLineLog(executionContext context.Context, repositoryPath string) ([]string, error) {
	output, executionError := manager.run(executionContext, repositoryPath, gitLogSubcommandConstant, gitOneLineFlagConstant)
	if executionError != nil {
		if manager.headIsUnborn(executionContext, repositoryPath) {
			return []string{}, nil
		}
		return nil, executionError
	}
	return splitNonEmptyLines(output), nil
}

// CommitCount returns the number of commits reachable from HEAD as reported by rev-list.
func (manager *RepositoryManager) CommitCount(executionContext context.Context, repositoryPath string) (int, error) {
	output, executionError := manager.run(executionContext, repositoryPath, gitRevListSubcommandConstant, gitCountFlagConstant, gitHeadReferenceConstant)
	if executionError != nil {
		if manager.headIsUnborn(executionContext, repositoryPath) {
			return 0, nil
		}
		return 0, executionError
	}
	trimmedOutput := strings.TrimSpace(output)
	commitCount, parseError := strconv.Atoi(trimmedOutput)
	if parseError != nil {
		return 0, fmt.Errorf(commitCountParseErrorTemplateConstant, trimmedOutput, parseError)
	}
	return commitCount, nil
}

// ListFilesAtReference returns every path tracked in the tree of the given reference.
func (manager *RepositoryManager) ListFilesAtReference(executionContext context.Context, repositoryPath string, reference string) ([]string, error) {
	trimmedReference := strings.TrimSpace(reference)
	if len(trimmedReference) == 0 {
		return nil, ErrReferenceRequired
	}
	output, executionError := manager.run(executionContext, repositoryPath, gitLSTreeSubcommandConstant, gitRecursiveFlagConstant, gitNameOnlyFlagConstant, trimmedReference)
	if executionError != nil {
		return nil, executionError
	}
	return splitNonEmptyLines(output), nil
}

// MergeCommitMessages returns the subjects of merge commits reachable from the branch.
func (manager *RepositoryManager) MergeCommitMessages(executionContext context.Context, repositoryPath string, branchName string) ([]string, error) {
	trimmedBranchName := strings.TrimSpace(branchName)
	if len(trimmedBranchName) == 0 {
		return nil, ErrReferenceRequired
	}
	output, executionError := manager.run(executionContext, repositoryPath, gitLogSubcommandConstant, trimmedBranchName, gitMergesFlagConstant, gitSubjectFormatFlagConstant)
	if executionError != nil {
		return nil, executionError
	}
	return splitNonEmptyLines(output), nil
}

// MergeBase returns the best common ancestor of two references. Unrelated histories yield an empty string.
func (manager *RepositoryManager) MergeBase(executionContext context.Context, repositoryPath string, firstReference string, secondReference string) (string, error) {
	if len(strings.TrimSpace(firstReference)) == 0 || len(strings.TrimSpace(secondReference)) == 0 {
		return "", ErrReferenceRequired
	}
	output, executionError := manager.run(executionContext, repositoryPath, gitMergeBaseSubcommandConstant, strings.TrimSpace(firstReference), strings.TrimSpace(secondReference))
	if executionError != nil {
		if exitCode, isCommandFailure := execshell.ExitCodeOf(executionError); isCommandFailure && exitCode == gitUnrelatedHistoriesExitCodeConstant {
			return "", nil
		}
		return "", executionError
	}
	return strings.TrimSpace(output), nil
}

// ResolveRevision returns the commit hash a reference points to.
func (manager *RepositoryManager) ResolveRevision(executionContext context.Context, repositoryPath string, reference string) (string, error) {
	trimmedReference := strings.TrimSpace(reference)
	if len(trimmedReference) == 0 {
		return "", ErrReferenceRequired
	}
	output, executionError := manager.run(executionContext, repositoryPath, gitRevParseSubcommandConstant, gitVerifyFlagConstant, fmt.Sprintf(gitCommitPeelTemplateConstant, trimmedReference))
	if executionError != nil {
		return "", executionError
	}
	return strings.TrimSpace(output), nil
}

// WorkingTreeStatus returns the porcelain status summary; an empty summary means a clean tree.
func (manager *RepositoryManager) WorkingTreeStatus(executionContext context.Context, repositoryPath string) (string, error) {
	return manager.run(executionContext, repositoryPath, gitStatusSubcommandConstant, gitPorcelainFlagConstant)
}

// ListTags returns the names of all local tags.
func (manager *RepositoryManager) ListTags(executionContext context.Context, repositoryPath string) ([]string, error) {
	output, executionError := manager.run(executionContext, repositoryPath, gitTagSubcommandConstant, gitListFlagConstant)
	if executionError != nil {
		return nil, executionError
	}
	return splitNonEmptyLines(output), nil
}

// RemoteNames returns the configured remote names.
func (manager *RepositoryManager) RemoteNames(executionContext context.Context, repositoryPath string) ([]string, error) {
	output, executionError := manager.run(executionContext, repositoryPath, gitRemoteSubcommandConstant)
	if executionError != nil {
		return nil, executionError
	}
	return splitNonEmptyLines(output), nil
}

// ListRemoteBranches returns the branch names advertised by the remote.
func (manager *RepositoryManager) ListRemoteBranches(executionContext context.Context, repositoryPath string, remoteName string) ([]string, error) {
	references, queryError := manager.listRemoteReferences(executionContext, repositoryPath, remoteName, gitHeadsFlagConstant)
	if queryError != nil {
		return nil, queryError
	}
	return trimReferencePrefix(references, gitRemoteBranchPrefixConstant), nil
}

// ListRemoteTags returns the tag names advertised by the remote.
func (manager *RepositoryManager) ListRemoteTags(executionContext context.Context, repositoryPath string, remoteName string) ([]string, error) {
	references, queryError := manager.listRemoteReferences(executionContext, repositoryPath, remoteName, gitTagsFlagConstant)
	if queryError != nil {
		return nil, queryError
	}
	return trimReferencePrefix(references, gitRemoteTagPrefixConstant), nil
}

func (manager *RepositoryManager) listRemoteReferences(executionContext context.Context, repositoryPath string, remoteName string, namespaceFlag string) ([]string, error) {
	trimmedRemoteName := strings.TrimSpace(remoteName)
	if len(trimmedRemoteName) == 0 {
		return nil, ErrReferenceRequired
	}

	remoteContext, cancel := context.WithTimeout(executionContext, manager.remoteQueryTimeout)
	defer cancel()

	output, executionError := manager.run(remoteContext, repositoryPath, gitLSRemoteSubcommandConstant, namespaceFlag, trimmedRemoteName)
	if executionError != nil {
		return nil, executionError
	}

	references := make([]string, 0)
	for _, line := range splitNonEmptyLines(output) {
		fields := strings.Split(line, gitReferenceFieldSeparatorConstant)
		if len(fields) < 2 {
			continue
		}
		references = append(references, strings.TrimSpace(fields[1]))
	}
	return references, nil
}

// headIsUnborn reports whether HEAD names a branch without commits, as in a freshly initialized repository.
func (manager *RepositoryManager) headIsUnborn(executionContext context.Context, repositoryPath string) bool {
	_, probeError := manager.run(executionContext, repositoryPath, gitRevParseSubcommandConstant, gitVerifyFlagConstant, gitQuietFlagConstant, gitHeadReferenceConstant)
	exitCode, isCommandFailure := execshell.ExitCodeOf(probeError)
	return isCommandFailure && exitCode == gitUnbornHeadExitCodeConstant
}

func (manager *RepositoryManager) run(executionContext context.Context, repositoryPath string, arguments ...string) (string, error) {
	trimmedRepositoryPath := strings.TrimSpace(repositoryPath)
	if len(trimmedRepositoryPath) == 0 {
		return "", ErrRepositoryPathRequired
	}

	executionResult, executionError := manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        arguments,
		WorkingDirectory: trimmedRepositoryPath,
		EnvironmentVariables: map[string]string{
			gitTerminalPromptEnvironmentNameConstant: gitTerminalPromptEnvironmentDisableConstant,
			gitOptionalLocksEnvironmentNameConstant:  gitOptionalLocksEnvironmentDisableConstant,
		},
	})
	if executionError != nil {
		return "", executionError
	}
	return executionResult.StandardOutput, nil
}

func splitNonEmptyLines(output string) []string {
	lines := make([]string, 0)
	for _, line := range strings.Split(output, "\n") {
		trimmedLine := strings.TrimSpace(line)
		if len(trimmedLine) == 0 {
			continue
		}
		lines = append(lines, trimmedLine)
	}
	return lines
}

func trimReferencePrefix(references []string, prefix string) []string {
	names := make([]string, 0, len(references))
	seen := make(map[string]struct{}, len(references))
	for _, reference := range references {
		name := strings.TrimSuffix(strings.TrimPrefix(reference, prefix), gitPeeledTagSuffixConstant)
		if _, duplicate := seen[name]; duplicate {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}
