package checklist

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefaultConfigurationValues(testInstance *testing.T) {
	values := DefaultConfigurationValues("checklist")

	require.Equal(testInstance, "~/Desktop/git-lab", values["checklist.target_path"])
	require.Equal(testInstance, "Git Learner", values["checklist.identity.name"])
	require.Equal(testInstance, []string{"*.log", ".env", "node_modules/"}, values["checklist.ignore_patterns"])
	require.Equal(testInstance, 5, values["checklist.minimum_commit_count"])
	require.Equal(testInstance, "ancestry", values["checklist.merge_detection"])
	require.Equal(testInstance, "10s", values["checklist.remote.timeout"])
	require.Equal(testInstance, false, values["checklist.remote.enabled"])
}

func TestConfigurationSanitize(testInstance *testing.T) {
	testCases := []struct {
		name          string
		configuration Configuration
		assert        func(testInstance *testing.T, sanitized Configuration)
	}{
		{
			name:          "zero_value_restores_defaults",
			configuration: Configuration{},
			assert: func(testInstance *testing.T, sanitized Configuration) {
				require.Equal(testInstance, DefaultConfiguration(), sanitized)
			},
		},
		{
			name: "unsupported_enumerations_fall_back",
			configuration: Configuration{
				CommitCountMethod: CommitCountMethod("reflog"),
				MergeDetection:    MergeDetectionStrategy("squash"),
				ReportFormat:      ReportFormat("xml"),
			},
			assert: func(testInstance *testing.T, sanitized Configuration) {
				require.Equal(testInstance, CommitCountMethodLog, sanitized.CommitCountMethod)
				require.Equal(testInstance, MergeDetectionAncestry, sanitized.MergeDetection)
				require.Equal(testInstance, ReportFormatText, sanitized.ReportFormat)
			},
		},
		{
			name: "supported_enumerations_normalized",
			configuration: Configuration{
				CommitCountMethod: CommitCountMethod(" Rev-List "),
				MergeDetection:    MergeDetectionStrategy("MERGE-COMMIT"),
				ReportFormat:      ReportFormat("Json"),
			},
			assert: func(testInstance *testing.T, sanitized Configuration) {
				require.Equal(testInstance, CommitCountMethodRevList, sanitized.CommitCountMethod)
				require.Equal(testInstance, MergeDetectionMergeCommit, sanitized.MergeDetection)
				require.Equal(testInstance, ReportFormatJSON, sanitized.ReportFormat)
			},
		},
		{
			name: "identity_kept_verbatim",
			configuration: Configuration{
				Identity: IdentityConfiguration{Name: " Ada ", Email: "ada@example.com"},
			},
			assert: func(testInstance *testing.T, sanitized Configuration) {
				require.Equal(testInstance, " Ada ", sanitized.Identity.Name)
				require.Equal(testInstance, "ada@example.com", sanitized.Identity.Email)
			},
		},
		{
			name: "patterns_trimmed_and_blank_dropped",
			configuration: Configuration{
				IgnorePatterns: []string{" *.tmp ", "", "   "},
			},
			assert: func(testInstance *testing.T, sanitized Configuration) {
				require.Equal(testInstance, []string{"*.tmp"}, sanitized.IgnorePatterns)
			},
		},
		{
			name: "invalid_numbers_fall_back",
			configuration: Configuration{
				MinimumCommitCount: -2,
				Remote:             RemoteConfiguration{Timeout: -time.Second},
			},
			assert: func(testInstance *testing.T, sanitized Configuration) {
				require.Equal(testInstance, 5, sanitized.MinimumCommitCount)
				require.Equal(testInstance, 10*time.Second, sanitized.Remote.Timeout)
			},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subtestInstance *testing.T) {
			testCase.assert(subtestInstance, testCase.configuration.sanitize())
		})
	}
}

func TestBuildCatalogRendersConfiguredMessages(testInstance *testing.T) {
	configuration := DefaultConfiguration()
	configuration.Identity = IdentityConfiguration{Name: "Ada Lovelace", Email: "ada@example.com"}
	configuration.IgnorePatterns = []string{"*.tmp", "dist/"}
	configuration.MinimumCommitCount = 8
	configuration.FeatureBranch = "feature/login"
	configuration.ReleaseTag = "v2.0"
	configuration.Remote.Enabled = true
	configuration.Remote.Name = "upstream"

	failureMessages := map[string]string{}
	for _, taskGroup := range BuildCatalog(configuration) {
		for _, requirement := range taskGroup.Requirements {
			require.Equal(testInstance, taskGroup.Number, requirement.Task)
			require.NotNil(testInstance, requirement.Evaluate)
			failureMessages[requirement.ID] = requirement.FailureMessage
		}
	}

	require.Len(testInstance, failureMessages, 23)
	require.Equal(testInstance, `Task 1: git user.name is not set to "Ada Lovelace"`, failureMessages["1.1"])
	require.Equal(testInstance, "Task 1: .gitignore does not contain all required patterns (*.tmp, dist/)", failureMessages["1.7"])
	require.Equal(testInstance, "Task 3: repository has fewer than 8 commits", failureMessages["3.1"])
	require.Equal(testInstance, "Task 4: feature.txt is not committed on branch feature/login", failureMessages["4.3"])
	require.Equal(testInstance, "Task 4: branch feature/login has not been merged into the primary branch", failureMessages["4.4"])
	require.Equal(testInstance, "Task 5: tag v2.0 does not exist", failureMessages["5.3"])
	require.Equal(testInstance, "Task 5: remote upstream is not configured", failureMessages["5.4"])
	require.Equal(testInstance, "Task 5: tag v2.0 has not been pushed to upstream", failureMessages["5.6"])
}
