package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const (
	gitDirectoryNameConstant         = ".git"
	watcherCreationErrorTemplate     = "unable to create file system watcher: %w"
	watchDirectoryErrorTemplate      = "unable to watch %s: %w"
	watchErrorLogMessageConstant     = "File system watcher reported an error"
	watchAddFailedLogMessageConstant = "Unable to watch created directory"
	logFieldPathConstant             = "path"
	defaultDebounceWindowConstant    = 300 * time.Millisecond
	lockFileSuffixConstant           = ".lock"
)

// gitMetadataDirectories lists the .git entries whose changes affect verification: the index and HEAD
// live in .git itself, branch and tag updates land under refs.
var gitMetadataDirectories = []string{
	gitDirectoryNameConstant,
	filepath.Join(gitDirectoryNameConstant, "refs", "heads"),
	filepath.Join(gitDirectoryNameConstant, "refs", "tags"),
}

// ErrRootPathRequired indicates that no directory was supplied to watch.
var ErrRootPathRequired = errors.New("watch root path required")

// LabWatcher coalesces file system events under a lab directory into change notifications.
type LabWatcher struct {
	rootPath          string
	debounceWindow    time.Duration
	logger            *zap.Logger
	fileSystemWatcher *fsnotify.Watcher
}

// NewLabWatcher watches every working-tree directory under rootPath plus the git metadata that
// records commits, branches and tags. A non-positive window selects the default.
func NewLabWatcher(rootPath string, debounceWindow time.Duration, logger *zap.Logger) (*LabWatcher, error) {
	if len(strings.TrimSpace(rootPath)) == 0 {
		return nil, ErrRootPathRequired
	}
	if debounceWindow <= 0 {
		debounceWindow = defaultDebounceWindowConstant
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	fileSystemWatcher, creationError := fsnotify.NewWatcher()
	if creationError != nil {
		return nil, fmt.Errorf(watcherCreationErrorTemplate, creationError)
	}

	labWatcher := &LabWatcher{
		rootPath:          filepath.Clean(rootPath),
		debounceWindow:    debounceWindow,
		logger:            logger,
		fileSystemWatcher: fileSystemWatcher,
	}
	if registrationError := labWatcher.registerDirectories(); registrationError != nil {
		_ = fileSystemWatcher.Close()
		return nil, registrationError
	}
	return labWatcher, nil
}

// Run invokes onChange once per burst of relevant events until the context is cancelled.
func (labWatcher *LabWatcher) Run(executionContext context.Context, onChange func()) error {
	debounceTimer := time.NewTimer(labWatcher.debounceWindow)
	debounceTimer.Stop()
	defer debounceTimer.Stop()

	for {
		select {
		case <-executionContext.Done():
			return nil
		case event, open := <-labWatcher.fileSystemWatcher.Events:
			if !open {
				return nil
			}
			if !labWatcher.relevant(event) {
				continue
			}
			labWatcher.followCreatedDirectory(event)
			debounceTimer.Reset(labWatcher.debounceWindow)
		case watchError, open := <-labWatcher.fileSystemWatcher.Errors:
			if !open {
				return nil
			}
			labWatcher.logger.Warn(watchErrorLogMessageConstant, zap.Error(watchError))
		case <-debounceTimer.C:
			onChange()
		}
	}
}

// Close releases the underlying watcher.
func (labWatcher *LabWatcher) Close() error {
	return labWatcher.fileSystemWatcher.Close()
}

func (labWatcher *LabWatcher) registerDirectories() error {
	walkError := filepath.WalkDir(labWatcher.rootPath, func(path string, entry fs.DirEntry, entryError error) error {
		if entryError != nil {
			if path == labWatcher.rootPath {
				return entryError
			}
			return nil
		}
		if !entry.IsDir() {
			return nil
		}
		if entry.Name() == gitDirectoryNameConstant && path != labWatcher.rootPath {
			return filepath.SkipDir
		}
		return labWatcher.fileSystemWatcher.Add(path)
	})
	if walkError != nil {
		return fmt.Errorf(watchDirectoryErrorTemplate, labWatcher.rootPath, walkError)
	}

	for _, metadataDirectory := range gitMetadataDirectories {
		metadataPath := filepath.Join(labWatcher.rootPath, metadataDirectory)
		if addError := labWatcher.fileSystemWatcher.Add(metadataPath); addError != nil && !errors.Is(addError, fs.ErrNotExist) {
			return fmt.Errorf(watchDirectoryErrorTemplate, metadataPath, addError)
		}
	}
	return nil
}

func (labWatcher *LabWatcher) relevant(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	return !strings.HasSuffix(event.Name, lockFileSuffixConstant)
}

func (labWatcher *LabWatcher) followCreatedDirectory(event fsnotify.Event) {
	if !event.Has(fsnotify.Create) || labWatcher.insideGitDirectory(event.Name) {
		return
	}
	if !isDirectory(event.Name) {
		return
	}
	if addError := labWatcher.fileSystemWatcher.Add(event.Name); addError != nil {
		labWatcher.logger.Debug(watchAddFailedLogMessageConstant, zap.String(logFieldPathConstant, event.Name), zap.Error(addError))
	}
}

func (labWatcher *LabWatcher) insideGitDirectory(path string) bool {
	relativePath, relativeError := filepath.Rel(labWatcher.rootPath, path)
	if relativeError != nil {
		return false
	}
	firstSegment, _, _ := strings.Cut(filepath.ToSlash(relativePath), "/")
	return firstSegment == gitDirectoryNameConstant
}

func isDirectory(path string) bool {
	fileInfo, statError := os.Stat(path)
	return statError == nil && fileInfo.IsDir()
}
