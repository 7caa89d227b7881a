package dependencies

import (
	"io/fs"
	"time"

	"go.uber.org/zap"

	"github.com/temirov/gitdrill/internal/execshell"
	"github.com/temirov/gitdrill/internal/filesystem"
	"github.com/temirov/gitdrill/internal/gitrepo"
)

// FileSystem is the read-only filesystem surface shared by verification components.
type FileSystem interface {
	Stat(path string) (fs.FileInfo, error)
	ReadFile(path string) ([]byte, error)
}

// ResolveFileSystem returns the provided filesystem or an OS-backed default.
func ResolveFileSystem(existing FileSystem) FileSystem {
	if existing != nil {
		return existing
	}
	return filesystem.OSFileSystem{}
}

// ResolveGitExecutor returns the provided executor or constructs a shell-backed default.
func ResolveGitExecutor(existing gitrepo.GitExecutor, logger *zap.Logger, observer execshell.CommandEventObserver) (gitrepo.GitExecutor, error) {
	if existing != nil {
		return existing, nil
	}

	executorOptions := make([]execshell.ShellExecutorOption, 0, 1)
	if observer != nil {
		executorOptions = append(executorOptions, execshell.WithCommandEventObserver(observer))
	}

	commandRunner := execshell.NewOSCommandRunner()
	shellExecutor, creationError := execshell.NewShellExecutor(logger, commandRunner, executorOptions...)
	if creationError != nil {
		return nil, creationError
	}
	return shellExecutor, nil
}

// ResolveRepositoryManager constructs a repository manager whose remote queries are bounded by the timeout.
func ResolveRepositoryManager(executor gitrepo.GitExecutor, remoteQueryTimeout time.Duration) (*gitrepo.RepositoryManager, error) {
	return gitrepo.NewRepositoryManager(executor, gitrepo.WithRemoteQueryTimeout(remoteQueryTimeout))
}
