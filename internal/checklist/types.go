package checklist

import (
	"context"
	"io/fs"
)

// RepositoryQuerier answers the local repository questions requirements depend on.
type RepositoryQuerier interface {
	ConfigValue(executionContext context.Context, repositoryPath string, key string) (string, error)
	ListLocalBranches(executionContext context.Context, repositoryPath string) ([]string, error)
	BranchExists(executionContext context.Context, repositoryPath string, branchName string) (bool, error)
	CommitLog(executionContext context.Context, repositoryPath string) ([]string, error)
	OneLineLog(executionContext context.Context, repositoryPath string) ([]string, error)
	CommitCount(executionContext context.Context, repositoryPath string) (int, error)
	ListFilesAtReference(executionContext context.Context, repositoryPath string, reference string) ([]string, error)
	MergeCommitMessages(executionContext context.Context, repositoryPath string, branchName string) ([]string, error)
	MergeBase(executionContext context.Context, repositoryPath string, firstReference string, secondReference string) (string, error)
	ResolveRevision(executionContext context.Context, repositoryPath string, reference string) (string, error)
	WorkingTreeStatus(executionContext context.Context, repositoryPath string) (string, error)
	ListTags(executionContext context.Context, repositoryPath string) ([]string, error)
}

// RemoteQuerier answers questions that require contacting a remote.
type RemoteQuerier interface {
	RemoteNames(executionContext context.Context, repositoryPath string) ([]string, error)
	ListRemoteBranches(executionContext context.Context, repositoryPath string, remoteName string) ([]string, error)
	ListRemoteTags(executionContext context.Context, repositoryPath string, remoteName string) ([]string, error)
}

// FileSystem provides the read-only filesystem operations requirements depend on.
type FileSystem interface {
	Stat(path string) (fs.FileInfo, error)
	ReadFile(path string) ([]byte, error)
}

// EvaluationObserver is notified after each requirement is evaluated.
type EvaluationObserver interface {
	RequirementEvaluated(requirement Requirement, result CheckResult)
}

// TaskNumber identifies a task group of the lab.
type TaskNumber int

// Task groups in evaluation order.
const (
	TaskSetup         TaskNumber = 1
	TaskFileState     TaskNumber = 2
	TaskHistory       TaskNumber = 3
	TaskBranching     TaskNumber = 4
	TaskBestPractices TaskNumber = 5
)

// EvaluationEnvironment carries the state shared by every predicate of one run.
type EvaluationEnvironment struct {
	RepositoryPath string
	PrimaryBranch  string
	Repository     RepositoryQuerier
	Remote         RemoteQuerier
	FileSystem     FileSystem
}

// Predicate decides whether a requirement holds. A returned error means the question could not be answered.
type Predicate func(executionContext context.Context, environment EvaluationEnvironment) (bool, error)

// Requirement is one named, independent pass/fail predicate over repository and filesystem state.
type Requirement struct {
	ID             string     `yaml:"id" json:"id"`
	Task           TaskNumber `yaml:"task" json:"task"`
	Description    string     `yaml:"description" json:"description"`
	FailureMessage string     `yaml:"failure_message" json:"failure_message"`
	Evaluate       Predicate  `yaml:"-" json:"-"`
}

// TaskGroup bundles the requirements of one lab task.
type TaskGroup struct {
	Number       TaskNumber    `yaml:"task" json:"task"`
	Title        string        `yaml:"title" json:"title"`
	Requirements []Requirement `yaml:"requirements" json:"requirements"`
}

// CheckResult is the outcome of evaluating one requirement.
type CheckResult struct {
	RequirementID  string
	Task           TaskNumber
	Passed         bool
	FailureMessage string
}

// TaskGroupOutcome records whether every requirement of a task group passed.
type TaskGroupOutcome struct {
	Number TaskNumber
	Title  string
	Passed bool
}

// VerificationReport is the aggregate result returned to callers.
type VerificationReport struct {
	Success bool   `yaml:"success" json:"success"`
	Info    string `yaml:"info" json:"info"`
}
