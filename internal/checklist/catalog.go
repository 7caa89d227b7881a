package checklist

import (
	"fmt"
	"strings"
)

const (
	taskSetupTitleConstant         = "Repository setup"
	taskFileStateTitleConstant     = "File states"
	taskHistoryTitleConstant       = "History"
	taskBranchingTitleConstant     = "Branching and merging"
	taskBestPracticesTitleConstant = "Best practices"

	readmeFileNameConstant       = "README.md"
	gitignoreFileNameConstant    = ".gitignore"
	setupLogFileNameConstant     = "setup.log"
	notesFileNameConstant        = "notes.txt"
	todoFileNameConstant         = "todo.md"
	changelogFileNameConstant    = "CHANGELOG.md"
	featureFileNameConstant      = "feature.txt"
	contributingFileNameConstant = "CONTRIBUTING.md"

	userNameConfigurationKeyConstant  = "user.name"
	userEmailConfigurationKeyConstant = "user.email"

	identityNameFailureTemplateConstant          = "Task 1: git user.name is not set to %q"
	identityEmailFailureTemplateConstant         = "Task 1: git user.email is not set to %q"
	primaryBranchFailureMessageConstant          = "Task 1: primary branch (main or master) does not exist"
	noCommitsFailureMessageConstant              = "Task 1: repository has no commits"
	missingFileFailureTemplateConstant           = "Task %d: %s is missing"
	missingOrEmptyFileFailureTemplateConstant    = "Task %d: %s is missing or empty"
	ignorePatternsFailureTemplateConstant        = "Task 1: .gitignore does not contain all required patterns (%s)"
	untrackedOnPrimaryFailureTemplateConstant    = "Task 2: %s is not committed on the primary branch"
	commitCountFailureTemplateConstant           = "Task 3: repository has fewer than %d commits"
	missingBranchFailureTemplateConstant         = "Task 4: branch %s does not exist"
	untrackedOnBranchFailureTemplateConstant     = "Task 4: %s is not committed on branch %s"
	unmergedBranchFailureTemplateConstant        = "Task 4: branch %s has not been merged into the primary branch"
	dirtyWorkingTreeFailureMessageConstant       = "Task 5: working tree has uncommitted changes"
	missingTagFailureTemplateConstant            = "Task 5: tag %s does not exist"
	missingRemoteFailureTemplateConstant         = "Task 5: remote %s is not configured"
	unpushedPrimaryBranchFailureTemplateConstant = "Task 5: primary branch has not been pushed to %s"
	unpushedTagFailureTemplateConstant           = "Task 5: tag %s has not been pushed to %s"

	identityNameDescriptionTemplateConstant   = "git user.name equals %q"
	identityEmailDescriptionTemplateConstant  = "git user.email equals %q"
	primaryBranchDescriptionConstant          = "a main or master branch exists"
	hasCommitsDescriptionConstant             = "the repository has at least one commit"
	fileExistsDescriptionTemplateConstant     = "%s exists"
	fileNonEmptyDescriptionTemplateConstant   = "%s exists and is not empty"
	ignorePatternsDescriptionTemplateConstant = ".gitignore lists %s"
	trackedOnPrimaryDescriptionTemplate       = "%s is committed on the primary branch"
	commitCountDescriptionTemplateConstant    = "at least %d commits are reachable from HEAD"
	branchExistsDescriptionTemplateConstant   = "branch %s exists"
	trackedOnBranchDescriptionTemplate        = "%s is committed on branch %s"
	mergedDescriptionTemplateConstant         = "branch %s is merged into the primary branch"
	cleanTreeDescriptionConstant              = "the working tree has no uncommitted changes"
	tagExistsDescriptionTemplateConstant      = "tag %s exists"
	remoteDescriptionTemplateConstant         = "remote %s is configured"
	pushedPrimaryDescriptionTemplateConstant  = "the primary branch is pushed to %s"
	pushedTagDescriptionTemplateConstant      = "tag %s is pushed to %s"

	patternListSeparatorConstant = ", "
	minimumCommitsForHistory     = 1
)

// BuildCatalog returns the ordered task groups for the provided configuration.
func BuildCatalog(configuration Configuration) []TaskGroup {
	sanitized := configuration.sanitize()
	joinedPatterns := strings.Join(sanitized.IgnorePatterns, patternListSeparatorConstant)

	taskGroups := []TaskGroup{
		{
			Number: TaskSetup,
			Title:  taskSetupTitleConstant,
			Requirements: []Requirement{
				{
					ID:             "1.1",
					Description:    fmt.Sprintf(identityNameDescriptionTemplateConstant, sanitized.Identity.Name),
					FailureMessage: fmt.Sprintf(identityNameFailureTemplateConstant, sanitized.Identity.Name),
					Evaluate:       identityMatches(userNameConfigurationKeyConstant, sanitized.Identity.Name),
				},
				{
					ID:             "1.2",
					Description:    fmt.Sprintf(identityEmailDescriptionTemplateConstant, sanitized.Identity.Email),
					FailureMessage: fmt.Sprintf(identityEmailFailureTemplateConstant, sanitized.Identity.Email),
					Evaluate:       identityMatches(userEmailConfigurationKeyConstant, sanitized.Identity.Email),
				},
				{
					ID:             "1.3",
					Description:    primaryBranchDescriptionConstant,
					FailureMessage: primaryBranchFailureMessageConstant,
					Evaluate:       primaryBranchExists(),
				},
				{
					ID:             "1.4",
					Description:    hasCommitsDescriptionConstant,
					FailureMessage: noCommitsFailureMessageConstant,
					Evaluate:       minimumCommitCount(minimumCommitsForHistory, sanitized.CommitCountMethod),
				},
				{
					ID:             "1.5",
					Description:    fmt.Sprintf(fileExistsDescriptionTemplateConstant, readmeFileNameConstant),
					FailureMessage: fmt.Sprintf(missingFileFailureTemplateConstant, TaskSetup, readmeFileNameConstant),
					Evaluate:       fileExists(readmeFileNameConstant),
				},
				nonEmptyFileRequirement("1.6", TaskSetup, gitignoreFileNameConstant),
				{
					ID:             "1.7",
					Description:    fmt.Sprintf(ignorePatternsDescriptionTemplateConstant, joinedPatterns),
					FailureMessage: fmt.Sprintf(ignorePatternsFailureTemplateConstant, joinedPatterns),
					Evaluate:       fileContainsAllPatterns(gitignoreFileNameConstant, sanitized.IgnorePatterns),
				},
				nonEmptyFileRequirement("1.8", TaskSetup, setupLogFileNameConstant),
			},
		},
		{
			Number: TaskFileState,
			Title:  taskFileStateTitleConstant,
			Requirements: []Requirement{
				nonEmptyFileRequirement("2.1", TaskFileState, notesFileNameConstant),
				{
					ID:             "2.2",
					Description:    fmt.Sprintf(trackedOnPrimaryDescriptionTemplate, notesFileNameConstant),
					FailureMessage: fmt.Sprintf(untrackedOnPrimaryFailureTemplateConstant, notesFileNameConstant),
					Evaluate:       trackedAtReference("", notesFileNameConstant),
				},
				nonEmptyFileRequirement("2.3", TaskFileState, todoFileNameConstant),
			},
		},
		{
			Number: TaskHistory,
			Title:  taskHistoryTitleConstant,
			Requirements: []Requirement{
				{
					ID:             "3.1",
					Description:    fmt.Sprintf(commitCountDescriptionTemplateConstant, sanitized.MinimumCommitCount),
					FailureMessage: fmt.Sprintf(commitCountFailureTemplateConstant, sanitized.MinimumCommitCount),
					Evaluate:       minimumCommitCount(sanitized.MinimumCommitCount, sanitized.CommitCountMethod),
				},
				nonEmptyFileRequirement("3.2", TaskHistory, changelogFileNameConstant),
			},
		},
		{
			Number: TaskBranching,
			Title:  taskBranchingTitleConstant,
			Requirements: []Requirement{
				branchRequirement("4.1", sanitized.FeatureBranch),
				branchRequirement("4.2", sanitized.HotfixBranch),
				{
					ID:             "4.3",
					Description:    fmt.Sprintf(trackedOnBranchDescriptionTemplate, featureFileNameConstant, sanitized.FeatureBranch),
					FailureMessage: fmt.Sprintf(untrackedOnBranchFailureTemplateConstant, featureFileNameConstant, sanitized.FeatureBranch),
					Evaluate:       trackedAtReference(sanitized.FeatureBranch, featureFileNameConstant),
				},
				{
					ID:             "4.4",
					Description:    fmt.Sprintf(mergedDescriptionTemplateConstant, sanitized.FeatureBranch),
					FailureMessage: fmt.Sprintf(unmergedBranchFailureTemplateConstant, sanitized.FeatureBranch),
					Evaluate:       mergedIntoPrimary(sanitized.FeatureBranch, sanitized.MergeDetection),
				},
			},
		},
		{
			Number: TaskBestPractices,
			Title:  taskBestPracticesTitleConstant,
			Requirements: []Requirement{
				{
					ID:             "5.1",
					Description:    cleanTreeDescriptionConstant,
					FailureMessage: dirtyWorkingTreeFailureMessageConstant,
					Evaluate:       workingTreeClean(),
				},
				nonEmptyFileRequirement("5.2", TaskBestPractices, contributingFileNameConstant),
				{
					ID:             "5.3",
					Description:    fmt.Sprintf(tagExistsDescriptionTemplateConstant, sanitized.ReleaseTag),
					FailureMessage: fmt.Sprintf(missingTagFailureTemplateConstant, sanitized.ReleaseTag),
					Evaluate:       tagExists(sanitized.ReleaseTag),
				},
			},
		},
	}

	if sanitized.Remote.Enabled {
		remoteName := sanitized.Remote.Name
		lastGroup := &taskGroups[len(taskGroups)-1]
		lastGroup.Requirements = append(lastGroup.Requirements,
			Requirement{
				ID:             "5.4",
				Description:    fmt.Sprintf(remoteDescriptionTemplateConstant, remoteName),
				FailureMessage: fmt.Sprintf(missingRemoteFailureTemplateConstant, remoteName),
				Evaluate:       remoteConfigured(remoteName),
			},
			Requirement{
				ID:             "5.5",
				Description:    fmt.Sprintf(pushedPrimaryDescriptionTemplateConstant, remoteName),
				FailureMessage: fmt.Sprintf(unpushedPrimaryBranchFailureTemplateConstant, remoteName),
				Evaluate:       remoteBranchExists(remoteName, ""),
			},
			Requirement{
				ID:             "5.6",
				Description:    fmt.Sprintf(pushedTagDescriptionTemplateConstant, sanitized.ReleaseTag, remoteName),
				FailureMessage: fmt.Sprintf(unpushedTagFailureTemplateConstant, sanitized.ReleaseTag, remoteName),
				Evaluate:       remoteTagExists(remoteName, sanitized.ReleaseTag),
			},
		)
	}

	for groupIndex := range taskGroups {
		for requirementIndex := range taskGroups[groupIndex].Requirements {
			taskGroups[groupIndex].Requirements[requirementIndex].Task = taskGroups[groupIndex].Number
		}
	}

	return taskGroups
}

func nonEmptyFileRequirement(identifier string, task TaskNumber, fileName string) Requirement {
	return Requirement{
		ID:             identifier,
		Description:    fmt.Sprintf(fileNonEmptyDescriptionTemplateConstant, fileName),
		FailureMessage: fmt.Sprintf(missingOrEmptyFileFailureTemplateConstant, task, fileName),
		Evaluate:       fileNonEmpty(fileName),
	}
}

func branchRequirement(identifier string, branchName string) Requirement {
	return Requirement{
		ID:             identifier,
		Description:    fmt.Sprintf(branchExistsDescriptionTemplateConstant, branchName),
		FailureMessage: fmt.Sprintf(missingBranchFailureTemplateConstant, branchName),
		Evaluate:       branchExists(branchName),
	}
}
