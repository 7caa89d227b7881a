package watch_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/temirov/gitdrill/internal/watch"
)

const (
	testDebounceWindowConstant      = 50 * time.Millisecond
	testBurstDebounceWindowConstant = 200 * time.Millisecond
	testEventTimeoutConstant        = 5 * time.Second
)

func startWatcher(testInstance *testing.T, rootPath string, debounceWindow time.Duration) <-chan struct{} {
	testInstance.Helper()
	labWatcher, creationError := watch.NewLabWatcher(rootPath, debounceWindow, zap.NewNop())
	require.NoError(testInstance, creationError)

	executionContext, cancel := context.WithCancel(context.Background())
	notifications := make(chan struct{}, 16)
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		_ = labWatcher.Run(executionContext, func() {
			notifications <- struct{}{}
		})
	}()
	testInstance.Cleanup(func() {
		cancel()
		<-finished
		require.NoError(testInstance, labWatcher.Close())
	})
	return notifications
}

func awaitNotification(testInstance *testing.T, notifications <-chan struct{}) {
	testInstance.Helper()
	select {
	case <-notifications:
	case <-time.After(testEventTimeoutConstant):
		require.FailNow(testInstance, "no change notification received")
	}
}

func TestLabWatcherNotifiesOnChanges(testInstance *testing.T) {
	testCases := []struct {
		name   string
		mutate func(testInstance *testing.T, rootPath string)
	}{
		{
			name: "file written in lab root",
			mutate: func(testInstance *testing.T, rootPath string) {
				require.NoError(testInstance, os.WriteFile(filepath.Join(rootPath, "notes.txt"), []byte("notes\n"), 0o644))
			},
		},
		{
			name: "file written in existing subdirectory",
			mutate: func(testInstance *testing.T, rootPath string) {
				require.NoError(testInstance, os.WriteFile(filepath.Join(rootPath, "docs", "guide.md"), []byte("guide\n"), 0o644))
			},
		},
		{
			name: "branch reference created",
			mutate: func(testInstance *testing.T, rootPath string) {
				require.NoError(testInstance, os.WriteFile(filepath.Join(rootPath, ".git", "refs", "heads", "feature"), []byte("4f1c\n"), 0o644))
			},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			rootPath := testInstance.TempDir()
			require.NoError(testInstance, os.MkdirAll(filepath.Join(rootPath, ".git", "refs", "heads"), 0o755))
			require.NoError(testInstance, os.MkdirAll(filepath.Join(rootPath, "docs"), 0o755))

			notifications := startWatcher(testInstance, rootPath, testDebounceWindowConstant)
			testCase.mutate(testInstance, rootPath)
			awaitNotification(testInstance, notifications)
		})
	}
}

func TestLabWatcherCoalescesBursts(testInstance *testing.T) {
	rootPath := testInstance.TempDir()
	notifications := startWatcher(testInstance, rootPath, testBurstDebounceWindowConstant)

	for fileIndex := 0; fileIndex < 5; fileIndex++ {
		require.NoError(testInstance, os.WriteFile(filepath.Join(rootPath, "burst.txt"), []byte{byte('a' + fileIndex)}, 0o644))
	}
	awaitNotification(testInstance, notifications)

	select {
	case <-notifications:
		require.FailNow(testInstance, "burst produced more than one notification")
	case <-time.After(3 * testBurstDebounceWindowConstant):
	}
}

func TestNewLabWatcherValidatesRoot(testInstance *testing.T) {
	_, creationError := watch.NewLabWatcher("  ", testDebounceWindowConstant, nil)
	require.ErrorIs(testInstance, creationError, watch.ErrRootPathRequired)

	_, creationError = watch.NewLabWatcher(filepath.Join(testInstance.TempDir(), "missing"), testDebounceWindowConstant, nil)
	require.Error(testInstance, creationError)
}
