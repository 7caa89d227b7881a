package checklist_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/gitdrill/internal/checklist"
)

const (
	testIdentityNameConstant  = "Git Learner"
	testIdentityEmailConstant = "learner@example.com"
	testFeatureTipConstant    = "4b825dc642cb6eb9a060e54bf8d69288fbee4904"
	testOtherCommitConstant   = "9fceb02d0ae598e95dc970b74767f19372d61af8"
	testBranchPrefixConstant  = "refs/heads/"
)

type stubRepositoryQuerier struct {
	configValues     map[string]string
	branches         map[string]bool
	branchFailures   map[string]error
	oneLineLog       []string
	commitCount      int
	filesAtReference map[string][]string
	mergeMessages    []string
	revisions        map[string]string
	mergeBases       map[string]string
	status           string
	tags             []string
	failures         map[string]error
	panics           map[string]string
	calls            []string
	references       []string
}

// branchName records a queried reference and strips its local branch qualifier.
func (querier *stubRepositoryQuerier) branchName(reference string) string {
	querier.references = append(querier.references, reference)
	return strings.TrimPrefix(reference, testBranchPrefixConstant)
}

func (querier *stubRepositoryQuerier) record(method string) error {
	querier.calls = append(querier.calls, method)
	if panicMessage, shouldPanic := querier.panics[method]; shouldPanic {
		panic(panicMessage)
	}
	return querier.failures[method]
}

func (querier *stubRepositoryQuerier) ConfigValue(_ context.Context, _ string, key string) (string, error) {
	if failure := querier.record("ConfigValue"); failure != nil {
		return "", failure
	}
	return querier.configValues[key], nil
}

func (querier *stubRepositoryQuerier) ListLocalBranches(context.Context, string) ([]string, error) {
	if failure := querier.record("ListLocalBranches"); failure != nil {
		return nil, failure
	}
	branchNames := make([]string, 0, len(querier.branches))
	for branchName, exists := range querier.branches {
		if exists {
			branchNames = append(branchNames, branchName)
		}
	}
	return branchNames, nil
}

func (querier *stubRepositoryQuerier) BranchExists(_ context.Context, _ string, branchName string) (bool, error) {
	if failure := querier.record("BranchExists"); failure != nil {
		return false, failure
	}
	if branchFailure := querier.branchFailures[branchName]; branchFailure != nil {
		return false, branchFailure
	}
	return querier.branches[branchName], nil
}

func (querier *stubRepositoryQuerier) CommitLog(context.Context, string) ([]string, error) {
	if failure := querier.record("CommitLog"); failure != nil {
		return nil, failure
	}
	return querier.oneLineLog, nil
}

func (querier *stubRepositoryQuerier) OneLineLog(context.Context, string) ([]string, error) {
	if failure := querier.record("OneLineLog"); failure != nil {
		return nil, failure
	}
	return querier.oneLineLog, nil
}

func (querier *stubRepositoryQuerier) CommitCount(context.Context, string) (int, error) {
	if failure := querier.record("CommitCount"); failure != nil {
		return 0, failure
	}
	return querier.commitCount, nil
}

func (querier *stubRepositoryQuerier) ListFilesAtReference(_ context.Context, _ string, reference string) ([]string, error) {
	if failure := querier.record("ListFilesAtReference"); failure != nil {
		return nil, failure
	}
	return querier.filesAtReference[querier.branchName(reference)], nil
}

func (querier *stubRepositoryQuerier) MergeCommitMessages(_ context.Context, _ string, branchName string) ([]string, error) {
	if failure := querier.record("MergeCommitMessages"); failure != nil {
		return nil, failure
	}
	querier.branchName(branchName)
	return querier.mergeMessages, nil
}

func (querier *stubRepositoryQuerier) MergeBase(_ context.Context, _ string, firstReference string, secondReference string) (string, error) {
	if failure := querier.record("MergeBase"); failure != nil {
		return "", failure
	}
	return querier.mergeBases[querier.branchName(firstReference)+" "+querier.branchName(secondReference)], nil
}

func (querier *stubRepositoryQuerier) ResolveRevision(_ context.Context, _ string, reference string) (string, error) {
	if failure := querier.record("ResolveRevision"); failure != nil {
		return "", failure
	}
	return querier.revisions[querier.branchName(reference)], nil
}

func (querier *stubRepositoryQuerier) WorkingTreeStatus(context.Context, string) (string, error) {
	if failure := querier.record("WorkingTreeStatus"); failure != nil {
		return "", failure
	}
	return querier.status, nil
}

func (querier *stubRepositoryQuerier) ListTags(context.Context, string) ([]string, error) {
	if failure := querier.record("ListTags"); failure != nil {
		return nil, failure
	}
	return querier.tags, nil
}

type stubRemoteQuerier struct {
	remoteNames    []string
	remoteBranches []string
	remoteTags     []string
	failure        error
	calls          int
}

func (querier *stubRemoteQuerier) RemoteNames(context.Context, string) ([]string, error) {
	querier.calls++
	return querier.remoteNames, querier.failure
}

func (querier *stubRemoteQuerier) ListRemoteBranches(context.Context, string, string) ([]string, error) {
	querier.calls++
	return querier.remoteBranches, querier.failure
}

func (querier *stubRemoteQuerier) ListRemoteTags(context.Context, string, string) ([]string, error) {
	querier.calls++
	return querier.remoteTags, querier.failure
}

type recordingEvaluationObserver struct {
	requirementIDs []string
	passed         []bool
}

func (observer *recordingEvaluationObserver) RequirementEvaluated(requirement checklist.Requirement, result checklist.CheckResult) {
	observer.requirementIDs = append(observer.requirementIDs, requirement.ID)
	observer.passed = append(observer.passed, result.Passed)
}

// newSatisfiedQuerier answers every repository question the way a finished lab would.
func newSatisfiedQuerier() *stubRepositoryQuerier {
	return &stubRepositoryQuerier{
		configValues: map[string]string{
			"user.name":  testIdentityNameConstant,
			"user.email": testIdentityEmailConstant,
		},
		branches:   map[string]bool{"main": true, "feature": true, "hotfix": true},
		oneLineLog: []string{
			"a1 Add contributing guide",
			"b2 Merge feature",
			"c3 Add changelog",
			"d4 Add notes and todo",
			"e5 Initial commit",
		},
		commitCount:      5,
		filesAtReference: map[string][]string{
			"main":    {".gitignore", "CHANGELOG.md", "CONTRIBUTING.md", "README.md", "feature.txt", "notes.txt", "todo.md"},
			"feature": {".gitignore", "README.md", "feature.txt", "notes.txt", "todo.md"},
		},
		revisions:  map[string]string{"feature": testFeatureTipConstant},
		mergeBases: map[string]string{"feature main": testFeatureTipConstant},
		tags:       []string{"v1.0"},
	}
}

// newLabDirectory creates a repository directory holding the files of a finished lab.
func newLabDirectory(testInstance *testing.T) string {
	testInstance.Helper()
	labDirectory := testInstance.TempDir()
	require.NoError(testInstance, os.Mkdir(filepath.Join(labDirectory, ".git"), 0o755))

	labFiles := map[string]string{
		"README.md":       "# Git lab\n",
		".gitignore":      "*.log\n.env\nnode_modules/\n",
		"setup.log":       "initialized repository\n",
		"notes.txt":       "staging vs committing\n",
		"todo.md":         "- [x] learn branching\n",
		"CHANGELOG.md":    "## v1.0\n",
		"CONTRIBUTING.md": "Open a pull request.\n",
	}
	for fileName, contents := range labFiles {
		writeLabFile(testInstance, labDirectory, fileName, contents)
	}
	return labDirectory
}

func writeLabFile(testInstance *testing.T, labDirectory string, fileName string, contents string) {
	testInstance.Helper()
	require.NoError(testInstance, os.WriteFile(filepath.Join(labDirectory, fileName), []byte(contents), 0o644))
}

func removeLabFile(testInstance *testing.T, labDirectory string, fileName string) {
	testInstance.Helper()
	require.NoError(testInstance, os.Remove(filepath.Join(labDirectory, fileName)))
}
