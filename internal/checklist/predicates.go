package checklist

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"
)

const (
	localBranchReferencePrefixConstant = "refs/heads/"
	lineSeparatorConstant              = "\n"
	carriageReturnConstant             = "\r"
)

// localBranchReference qualifies a branch name so a tag with the same name cannot shadow it.
func localBranchReference(branchName string) string {
	return localBranchReferencePrefixConstant + branchName
}

func identityMatches(configurationKey string, expectedValue string) Predicate {
	return func(executionContext context.Context, environment EvaluationEnvironment) (bool, error) {
		actualValue, queryError := environment.Repository.ConfigValue(executionContext, environment.RepositoryPath, configurationKey)
		if queryError != nil {
			return false, queryError
		}
		return actualValue == expectedValue, nil
	}
}

func primaryBranchExists() Predicate {
	return func(executionContext context.Context, environment EvaluationEnvironment) (bool, error) {
		return environment.Repository.BranchExists(executionContext, environment.RepositoryPath, environment.PrimaryBranch)
	}
}

func minimumCommitCount(minimum int, method CommitCountMethod) Predicate {
	return func(executionContext context.Context, environment EvaluationEnvironment) (bool, error) {
		count, countError := countCommits(executionContext, environment, method)
		if countError != nil {
			return false, countError
		}
		return count >= minimum, nil
	}
}

func countCommits(executionContext context.Context, environment EvaluationEnvironment, method CommitCountMethod) (int, error) {
	if method == CommitCountMethodRevList {
		return environment.Repository.CommitCount(executionContext, environment.RepositoryPath)
	}
	entries, logError := environment.Repository.OneLineLog(executionContext, environment.RepositoryPath)
	if logError != nil {
		return 0, logError
	}
	return len(entries), nil
}

func fileExists(relativePath string) Predicate {
	return func(_ context.Context, environment EvaluationEnvironment) (bool, error) {
		_, statError := environment.FileSystem.Stat(filepath.Join(environment.RepositoryPath, relativePath))
		if statError == nil {
			return true, nil
		}
		if errors.Is(statError, fs.ErrNotExist) {
			return false, nil
		}
		return false, statError
	}
}

func fileNonEmpty(relativePath string) Predicate {
	return func(_ context.Context, environment EvaluationEnvironment) (bool, error) {
		fileInfo, statError := environment.FileSystem.Stat(filepath.Join(environment.RepositoryPath, relativePath))
		if statError != nil {
			if errors.Is(statError, fs.ErrNotExist) {
				return false, nil
			}
			return false, statError
		}
		return fileInfo.Mode().IsRegular() && fileInfo.Size() > 0, nil
	}
}

func fileContainsAllPatterns(relativePath string, patterns []string) Predicate {
	return func(_ context.Context, environment EvaluationEnvironment) (bool, error) {
		contents, readError := environment.FileSystem.ReadFile(filepath.Join(environment.RepositoryPath, relativePath))
		if readError != nil {
			if errors.Is(readError, fs.ErrNotExist) {
				return false, nil
			}
			return false, readError
		}

		lines := strings.Split(string(contents), lineSeparatorConstant)
		for lineIndex, line := range lines {
			lines[lineIndex] = strings.TrimSuffix(line, carriageReturnConstant)
		}

		for _, pattern := range patterns {
			if !anyLineContains(lines, pattern) {
				return false, nil
			}
		}
		return true, nil
	}
}

func anyLineContains(lines []string, pattern string) bool {
	for _, line := range lines {
		if strings.Contains(line, pattern) {
			return true
		}
	}
	return false
}

// trackedAtReference resolves an empty reference to the primary branch.
func trackedAtReference(reference string, relativePath string) Predicate {
	return func(executionContext context.Context, environment EvaluationEnvironment) (bool, error) {
		resolvedReference := reference
		if len(resolvedReference) == 0 {
			resolvedReference = environment.PrimaryBranch
		}
		exists, existsError := environment.Repository.BranchExists(executionContext, environment.RepositoryPath, resolvedReference)
		if existsError != nil {
			return false, existsError
		}
		if !exists {
			return false, nil
		}
		trackedFiles, listError := environment.Repository.ListFilesAtReference(executionContext, environment.RepositoryPath, localBranchReference(resolvedReference))
		if listError != nil {
			return false, listError
		}
		return slices.Contains(trackedFiles, filepath.ToSlash(relativePath)), nil
	}
}

func branchExists(branchName string) Predicate {
	return func(executionContext context.Context, environment EvaluationEnvironment) (bool, error) {
		return environment.Repository.BranchExists(executionContext, environment.RepositoryPath, branchName)
	}
}

func mergedIntoPrimary(sourceBranch string, strategy MergeDetectionStrategy) Predicate {
	return func(executionContext context.Context, environment EvaluationEnvironment) (bool, error) {
		for _, branchName := range []string{sourceBranch, environment.PrimaryBranch} {
			exists, existsError := environment.Repository.BranchExists(executionContext, environment.RepositoryPath, branchName)
			if existsError != nil {
				return false, existsError
			}
			if !exists {
				return false, nil
			}
		}

		if strategy == MergeDetectionMergeCommit {
			messages, logError := environment.Repository.MergeCommitMessages(executionContext, environment.RepositoryPath, localBranchReference(environment.PrimaryBranch))
			if logError != nil {
				return false, logError
			}
			return anyLineContains(messages, sourceBranch), nil
		}

		sourceTip, resolveError := environment.Repository.ResolveRevision(executionContext, environment.RepositoryPath, localBranchReference(sourceBranch))
		if resolveError != nil {
			return false, resolveError
		}
		mergeBase, mergeBaseError := environment.Repository.MergeBase(executionContext, environment.RepositoryPath, localBranchReference(sourceBranch), localBranchReference(environment.PrimaryBranch))
		if mergeBaseError != nil {
			return false, mergeBaseError
		}
		return len(sourceTip) > 0 && sourceTip == mergeBase, nil
	}
}

func workingTreeClean() Predicate {
	return func(executionContext context.Context, environment EvaluationEnvironment) (bool, error) {
		status, statusError := environment.Repository.WorkingTreeStatus(executionContext, environment.RepositoryPath)
		if statusError != nil {
			return false, statusError
		}
		return len(strings.TrimSpace(status)) == 0, nil
	}
}

func tagExists(tagName string) Predicate {
	return func(executionContext context.Context, environment EvaluationEnvironment) (bool, error) {
		tags, listError := environment.Repository.ListTags(executionContext, environment.RepositoryPath)
		if listError != nil {
			return false, listError
		}
		return slices.Contains(tags, tagName), nil
	}
}

func remoteConfigured(remoteName string) Predicate {
	return func(executionContext context.Context, environment EvaluationEnvironment) (bool, error) {
		if environment.Remote == nil {
			return false, ErrRemoteQuerierNotConfigured
		}
		remoteNames, listError := environment.Remote.RemoteNames(executionContext, environment.RepositoryPath)
		if listError != nil {
			return false, listError
		}
		return slices.Contains(remoteNames, remoteName), nil
	}
}

// remoteBranchExists resolves an empty branch name to the primary branch.
func remoteBranchExists(remoteName string, branchName string) Predicate {
	return func(executionContext context.Context, environment EvaluationEnvironment) (bool, error) {
		if environment.Remote == nil {
			return false, ErrRemoteQuerierNotConfigured
		}
		resolvedBranch := branchName
		if len(resolvedBranch) == 0 {
			resolvedBranch = environment.PrimaryBranch
		}
		remoteBranches, listError := environment.Remote.ListRemoteBranches(executionContext, environment.RepositoryPath, remoteName)
		if listError != nil {
			return false, listError
		}
		return slices.Contains(remoteBranches, resolvedBranch), nil
	}
}

func remoteTagExists(remoteName string, tagName string) Predicate {
	return func(executionContext context.Context, environment EvaluationEnvironment) (bool, error) {
		if environment.Remote == nil {
			return false, ErrRemoteQuerierNotConfigured
		}
		remoteTags, listError := environment.Remote.ListRemoteTags(executionContext, environment.RepositoryPath, remoteName)
		if listError != nil {
			return false, listError
		}
		return slices.Contains(remoteTags, tagName), nil
	}
}
