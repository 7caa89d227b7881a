package checklist_test

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/temirov/gitdrill/internal/checklist"
	"github.com/temirov/gitdrill/internal/execshell"
	"github.com/temirov/gitdrill/internal/gitrepo"
)

func runGit(testInstance *testing.T, repositoryPath string, arguments ...string) {
	testInstance.Helper()
	gitCommand := exec.Command("git", arguments...)
	gitCommand.Dir = repositoryPath
	output, runError := gitCommand.CombinedOutput()
	require.NoError(testInstance, runError, string(output))
}

func commitLabFile(testInstance *testing.T, repositoryPath string, fileName string, contents string) {
	testInstance.Helper()
	require.NoError(testInstance, os.WriteFile(filepath.Join(repositoryPath, fileName), []byte(contents), 0o644))
	runGit(testInstance, repositoryPath, "add", fileName)
	runGit(testInstance, repositoryPath, "commit", "-q", "-m", "Add "+fileName)
}

func newGitRepositoryManager(testInstance *testing.T) *gitrepo.RepositoryManager {
	testInstance.Helper()
	shellExecutor, executorError := execshell.NewShellExecutor(zap.NewNop(), execshell.NewOSCommandRunner())
	require.NoError(testInstance, executorError)
	repositoryManager, managerError := gitrepo.NewRepositoryManager(shellExecutor)
	require.NoError(testInstance, managerError)
	return repositoryManager
}

func findResult(testInstance *testing.T, evaluation checklist.Evaluation, requirementID string) checklist.CheckResult {
	testInstance.Helper()
	for _, result := range evaluation.Results {
		if result.RequirementID == requirementID {
			return result
		}
	}
	require.Failf(testInstance, "missing result", "requirement %s was not evaluated", requirementID)
	return checklist.CheckResult{}
}

func TestVerifyAgainstRealGitRepository(testInstance *testing.T) {
	if _, lookupError := exec.LookPath("git"); lookupError != nil {
		testInstance.Skip("git executable not available")
	}
	testInstance.Setenv("GIT_CONFIG_GLOBAL", os.DevNull)
	testInstance.Setenv("GIT_CONFIG_NOSYSTEM", "1")

	testCases := []struct {
		name           string
		divergeFeature bool
		expectedMerged bool
	}{
		{name: "fast_forward_merge_counts_as_merged", expectedMerged: true},
		{name: "unmerged_feature_commit", divergeFeature: true, expectedMerged: false},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subtestInstance *testing.T) {
			repositoryPath := subtestInstance.TempDir()
			runGit(subtestInstance, repositoryPath, "init", "-q", "-b", "main")
			runGit(subtestInstance, repositoryPath, "config", "user.name", testIdentityNameConstant)
			runGit(subtestInstance, repositoryPath, "config", "user.email", testIdentityEmailConstant)
			commitLabFile(subtestInstance, repositoryPath, "README.md", "# Git lab\n")

			runGit(subtestInstance, repositoryPath, "checkout", "-q", "-b", "feature")
			commitLabFile(subtestInstance, repositoryPath, "feature.txt", "feature work\n")
			runGit(subtestInstance, repositoryPath, "checkout", "-q", "main")
			runGit(subtestInstance, repositoryPath, "merge", "-q", "--ff-only", "feature")
			if testCase.divergeFeature {
				runGit(subtestInstance, repositoryPath, "checkout", "-q", "feature")
				commitLabFile(subtestInstance, repositoryPath, "feature-followup.txt", "more work\n")
				runGit(subtestInstance, repositoryPath, "checkout", "-q", "main")
			}

			verifier := newTestVerifier(subtestInstance, checklist.DefaultConfiguration())
			evaluation := verifier.Evaluate(context.Background(), repositoryPath, newGitRepositoryManager(subtestInstance))

			require.Equal(subtestInstance, "main", evaluation.PrimaryBranch)
			require.True(subtestInstance, findResult(subtestInstance, evaluation, "1.1").Passed)
			require.True(subtestInstance, findResult(subtestInstance, evaluation, "1.2").Passed)
			require.True(subtestInstance, findResult(subtestInstance, evaluation, "1.4").Passed)
			require.True(subtestInstance, findResult(subtestInstance, evaluation, "4.1").Passed)
			require.True(subtestInstance, findResult(subtestInstance, evaluation, "4.3").Passed)
			require.True(subtestInstance, findResult(subtestInstance, evaluation, "5.1").Passed)
			require.Equal(subtestInstance, testCase.expectedMerged, findResult(subtestInstance, evaluation, "4.4").Passed)
		})
	}
}

func TestVerifyPrefersBranchesOverSameNamedTags(testInstance *testing.T) {
	if _, lookupError := exec.LookPath("git"); lookupError != nil {
		testInstance.Skip("git executable not available")
	}
	testInstance.Setenv("GIT_CONFIG_GLOBAL", os.DevNull)
	testInstance.Setenv("GIT_CONFIG_NOSYSTEM", "1")

	repositoryPath := testInstance.TempDir()
	runGit(testInstance, repositoryPath, "init", "-q", "-b", "main")
	runGit(testInstance, repositoryPath, "config", "user.name", testIdentityNameConstant)
	runGit(testInstance, repositoryPath, "config", "user.email", testIdentityEmailConstant)
	commitLabFile(testInstance, repositoryPath, "README.md", "# Git lab\n")

	runGit(testInstance, repositoryPath, "checkout", "-q", "--orphan", "feature")
	runGit(testInstance, repositoryPath, "rm", "-q", "-r", "-f", "--cached", ".")
	require.NoError(testInstance, os.Remove(filepath.Join(repositoryPath, "README.md")))
	commitLabFile(testInstance, repositoryPath, "feature.txt", "feature work\n")
	runGit(testInstance, repositoryPath, "checkout", "-q", "main")
	runGit(testInstance, repositoryPath, "tag", "feature", "main")

	verifier := newTestVerifier(testInstance, checklist.DefaultConfiguration())
	evaluation := verifier.Evaluate(context.Background(), repositoryPath, newGitRepositoryManager(testInstance))

	require.True(testInstance, findResult(testInstance, evaluation, "4.1").Passed)
	require.True(testInstance, findResult(testInstance, evaluation, "4.3").Passed)
	require.Equal(testInstance,
		checklist.CheckResult{RequirementID: "4.4", Task: checklist.TaskBranching, FailureMessage: "Task 4: branch feature has not been merged into the primary branch"},
		findResult(testInstance, evaluation, "4.4"),
	)
}

func TestVerifyAgainstEmptyGitRepository(testInstance *testing.T) {
	if _, lookupError := exec.LookPath("git"); lookupError != nil {
		testInstance.Skip("git executable not available")
	}
	testInstance.Setenv("GIT_CONFIG_GLOBAL", os.DevNull)
	testInstance.Setenv("GIT_CONFIG_NOSYSTEM", "1")

	repositoryPath := testInstance.TempDir()
	runGit(testInstance, repositoryPath, "init", "-q", "-b", "main")

	verifier := newTestVerifier(testInstance, checklist.DefaultConfiguration())
	evaluation := verifier.Evaluate(context.Background(), repositoryPath, newGitRepositoryManager(testInstance))

	require.Equal(testInstance, "master", evaluation.PrimaryBranch)
	require.Equal(testInstance, checklist.CheckResult{RequirementID: "1.4", Task: checklist.TaskSetup, FailureMessage: "Task 1: repository has no commits"}, findResult(testInstance, evaluation, "1.4"))
	require.Equal(testInstance, checklist.CheckResult{RequirementID: "1.1", Task: checklist.TaskSetup, FailureMessage: `Task 1: git user.name is not set to "Git Learner"`}, findResult(testInstance, evaluation, "1.1"))
}
