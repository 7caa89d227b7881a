package checklist

import (
	"fmt"
	"strings"
	"time"
)

const (
	defaultTargetPathConstant         = "~/Desktop/git-lab"
	defaultIdentityNameConstant       = "Git Learner"
	defaultIdentityEmailConstant      = "learner@example.com"
	defaultMinimumCommitCountConstant = 5
	defaultFeatureBranchConstant      = "feature"
	defaultHotfixBranchConstant       = "hotfix"
	defaultReleaseTagConstant         = "v1.0"
	defaultRemoteNameConstant         = "origin"
	defaultRemoteTimeoutConstant      = 10 * time.Second
	configurationKeyTemplateConstant  = "%s.%s"
)

var defaultIgnorePatterns = []string{"*.log", ".env", "node_modules/"}

// MergeDetectionStrategy selects how "branch merged into the primary branch" is decided.
type MergeDetectionStrategy string

// Supported merge detection strategies.
const (
	// MergeDetectionAncestry treats a branch as merged when its tip is the merge base with the primary branch.
	MergeDetectionAncestry MergeDetectionStrategy = MergeDetectionStrategy("ancestry")
	// MergeDetectionMergeCommit looks for a merge commit on the primary branch naming the source branch.
	// Fast-forward merges produce no merge commit and are reported as unmerged.
	MergeDetectionMergeCommit MergeDetectionStrategy = MergeDetectionStrategy("merge-commit")
)

// CommitCountMethod selects how commits are counted.
type CommitCountMethod string

// Supported commit counting methods.
const (
	CommitCountMethodLog     CommitCountMethod = CommitCountMethod("log")
	CommitCountMethodRevList CommitCountMethod = CommitCountMethod("rev-list")
)

// ReportFormat selects how the verification report is rendered.
type ReportFormat string

// Supported report formats.
const (
	ReportFormatText ReportFormat = ReportFormat("text")
	ReportFormatYAML ReportFormat = ReportFormat("yaml")
	ReportFormatJSON ReportFormat = ReportFormat("json")
)

// IdentityConfiguration holds the git identity learners must configure.
type IdentityConfiguration struct {
	Name  string `mapstructure:"name"`
	Email string `mapstructure:"email"`
}

// RemoteConfiguration controls the optional checks that contact a remote.
type RemoteConfiguration struct {
	Enabled bool          `mapstructure:"enabled"`
	Name    string        `mapstructure:"name"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// Configuration captures the tunable parts of the requirement catalog.
type Configuration struct {
	TargetPath         string                 `mapstructure:"target_path"`
	Identity           IdentityConfiguration  `mapstructure:"identity"`
	IgnorePatterns     []string               `mapstructure:"ignore_patterns"`
	MinimumCommitCount int                    `mapstructure:"minimum_commit_count"`
	CommitCountMethod  CommitCountMethod      `mapstructure:"commit_count_method"`
	MergeDetection     MergeDetectionStrategy `mapstructure:"merge_detection"`
	FeatureBranch      string                 `mapstructure:"feature_branch"`
	HotfixBranch       string                 `mapstructure:"hotfix_branch"`
	ReleaseTag         string                 `mapstructure:"release_tag"`
	ReportFormat       ReportFormat           `mapstructure:"report_format"`
	Remote             RemoteConfiguration    `mapstructure:"remote"`
}

// DefaultConfiguration returns the configuration of the standard lab.
func DefaultConfiguration() Configuration {
	return Configuration{
		TargetPath: defaultTargetPathConstant,
		Identity: IdentityConfiguration{
			Name:  defaultIdentityNameConstant,
			Email: defaultIdentityEmailConstant,
		},
		IgnorePatterns:     append([]string{}, defaultIgnorePatterns...),
		MinimumCommitCount: defaultMinimumCommitCountConstant,
		CommitCountMethod:  CommitCountMethodLog,
		MergeDetection:     MergeDetectionAncestry,
		FeatureBranch:      defaultFeatureBranchConstant,
		HotfixBranch:       defaultHotfixBranchConstant,
		ReleaseTag:         defaultReleaseTagConstant,
		ReportFormat:       ReportFormatText,
		Remote: RemoteConfiguration{
			Enabled: false,
			Name:    defaultRemoteNameConstant,
			Timeout: defaultRemoteTimeoutConstant,
		},
	}
}

// DefaultConfigurationValues exposes the defaults as Viper keys rooted at the provided prefix.
func DefaultConfigurationValues(prefix string) map[string]any {
	defaults := DefaultConfiguration()
	keyed := func(key string) string {
		return fmt.Sprintf(configurationKeyTemplateConstant, prefix, key)
	}
	return map[string]any{
		keyed("target_path"):          defaults.TargetPath,
		keyed("identity.name"):        defaults.Identity.Name,
		keyed("identity.email"):       defaults.Identity.Email,
		keyed("ignore_patterns"):      defaults.IgnorePatterns,
		keyed("minimum_commit_count"): defaults.MinimumCommitCount,
		keyed("commit_count_method"):  string(defaults.CommitCountMethod),
		keyed("merge_detection"):      string(defaults.MergeDetection),
		keyed("feature_branch"):       defaults.FeatureBranch,
		keyed("hotfix_branch"):        defaults.HotfixBranch,
		keyed("release_tag"):          defaults.ReleaseTag,
		keyed("report_format"):        string(defaults.ReportFormat),
		keyed("remote.enabled"):       defaults.Remote.Enabled,
		keyed("remote.name"):          defaults.Remote.Name,
		keyed("remote.timeout"):       defaults.Remote.Timeout.String(),
	}
}

// sanitize trims values and restores defaults for unset or unsupported settings.
// Identity values are compared verbatim and therefore only fall back when empty.
func (configuration Configuration) sanitize() Configuration {
	defaults := DefaultConfiguration()
	sanitized := configuration

	sanitized.TargetPath = fallbackString(configuration.TargetPath, defaults.TargetPath)
	if len(configuration.Identity.Name) == 0 {
		sanitized.Identity.Name = defaults.Identity.Name
	}
	if len(configuration.Identity.Email) == 0 {
		sanitized.Identity.Email = defaults.Identity.Email
	}

	sanitized.IgnorePatterns = sanitizePatterns(configuration.IgnorePatterns)
	if len(sanitized.IgnorePatterns) == 0 {
		sanitized.IgnorePatterns = defaults.IgnorePatterns
	}

	if configuration.MinimumCommitCount <= 0 {
		sanitized.MinimumCommitCount = defaults.MinimumCommitCount
	}

	switch CommitCountMethod(strings.ToLower(strings.TrimSpace(string(configuration.CommitCountMethod)))) {
	case CommitCountMethodRevList:
		sanitized.CommitCountMethod = CommitCountMethodRevList
	default:
		sanitized.CommitCountMethod = CommitCountMethodLog
	}

	switch MergeDetectionStrategy(strings.ToLower(strings.TrimSpace(string(configuration.MergeDetection)))) {
	case MergeDetectionMergeCommit:
		sanitized.MergeDetection = MergeDetectionMergeCommit
	default:
		sanitized.MergeDetection = MergeDetectionAncestry
	}

	switch ReportFormat(strings.ToLower(strings.TrimSpace(string(configuration.ReportFormat)))) {
	case ReportFormatYAML:
		sanitized.ReportFormat = ReportFormatYAML
	case ReportFormatJSON:
		sanitized.ReportFormat = ReportFormatJSON
	default:
		sanitized.ReportFormat = ReportFormatText
	}

	sanitized.FeatureBranch = fallbackString(configuration.FeatureBranch, defaults.FeatureBranch)
	sanitized.HotfixBranch = fallbackString(configuration.HotfixBranch, defaults.HotfixBranch)
	sanitized.ReleaseTag = fallbackString(configuration.ReleaseTag, defaults.ReleaseTag)
	sanitized.Remote.Name = fallbackString(configuration.Remote.Name, defaults.Remote.Name)
	if configuration.Remote.Timeout <= 0 {
		sanitized.Remote.Timeout = defaults.Remote.Timeout
	}

	return sanitized
}

func fallbackString(value string, fallback string) string {
	trimmed := strings.TrimSpace(value)
	if len(trimmed) == 0 {
		return fallback
	}
	return trimmed
}

func sanitizePatterns(raw []string) []string {
	sanitized := make([]string, 0, len(raw))
	for _, candidate := range raw {
		trimmed := strings.TrimSpace(candidate)
		if len(trimmed) == 0 {
			continue
		}
		sanitized = append(sanitized, trimmed)
	}
	return sanitized
}
