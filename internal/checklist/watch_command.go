package checklist

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/gitdrill/internal/utils/flags"
	"github.com/temirov/gitdrill/internal/watch"
)

const (
	watchCommandUseConstant          = "watch [path]"
	watchCommandShortDescription     = "Re-run verification whenever the lab changes"
	watchCommandLongDescription      = "watch verifies the lab once, then verifies it again after every burst of file or git changes until interrupted."
	flagDebounceNameConstant         = "debounce"
	flagDebounceDescriptionConstant  = "Quiet period after the last change before verification runs again."
	defaultWatchDebounceConstant     = 300 * time.Millisecond
	watchRunSeparatorConstant        = "---\n"
	watchStartErrorTemplateConstant  = "unable to watch lab directory: %w"
	watchRunFailedLogMessageConstant = "Verification run failed"
)

// WatchCommandBuilder assembles the Cobra command that re-verifies a lab on every change.
type WatchCommandBuilder struct {
	Verification CommandBuilder
}

// Build constructs the watch command.
func (builder *WatchCommandBuilder) Build() (*cobra.Command, error) {
	defaults := DefaultConfiguration()
	command := &cobra.Command{
		Use:   watchCommandUseConstant,
		Short: watchCommandShortDescription,
		Long:  watchCommandLongDescription,
		Args:  cobra.MaximumNArgs(1),
		RunE:  builder.run,
	}

	command.Flags().String(flagFormatNameConstant, "", flags.FormatChoiceUsage(string(defaults.ReportFormat), supportedReportFormats, flagFormatDescriptionConstant))
	command.Flags().Bool(flagRemoteNameConstant, false, flagRemoteDescriptionConstant)
	command.Flags().Duration(flagDebounceNameConstant, defaultWatchDebounceConstant, flagDebounceDescriptionConstant)

	return command, nil
}

func (builder *WatchCommandBuilder) run(command *cobra.Command, arguments []string) error {
	preparedRun, prepareError := builder.Verification.prepareRun(command, arguments)
	if prepareError != nil {
		return prepareError
	}
	debounceWindow, _ := command.Flags().GetDuration(flagDebounceNameConstant)

	labWatcher, watcherError := watch.NewLabWatcher(preparedRun.targetPath, debounceWindow, preparedRun.logger)
	output := command.OutOrStdout()
	if _, runError := preparedRun.execute(command.Context(), output); runError != nil {
		return runError
	}
	if watcherError != nil {
		return fmt.Errorf(watchStartErrorTemplateConstant, watcherError)
	}
	defer labWatcher.Close()

	return labWatcher.Run(command.Context(), func() {
		if _, writeError := io.WriteString(output, watchRunSeparatorConstant); writeError != nil {
			preparedRun.logger.Warn(watchRunFailedLogMessageConstant, zap.Error(writeError))
			return
		}
		if _, runError := preparedRun.execute(command.Context(), output); runError != nil {
			preparedRun.logger.Warn(watchRunFailedLogMessageConstant, zap.Error(runError))
		}
	})
}
