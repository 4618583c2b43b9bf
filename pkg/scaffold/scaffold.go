package scaffold

import (
	"path/filepath"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Directories is the fixed project layout, relative to the project root.
var Directories = []string{
	"data/raw",
	"data/interim",
	"data/processed",
	"data/external",
	"notebooks",
	"src/data",
	"src/features",
	"src/models",
	"src/visualization",
	"tests",
	"docs",
	"models",
	"reports/figures",
}

const dirPerm = 0o755

// Scaffolder creates project layouts on a filesystem.
type Scaffolder struct {
	fs     afero.Fs
	logger *zap.Logger
}

// New returns a Scaffolder writing to fs. A nil logger discards output.
func New(fs afero.Fs, logger *zap.Logger) *Scaffolder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scaffolder{fs: fs, logger: logger}
}

// CreateProjectStructure creates every directory of the layout under root,
// including missing parents. Existing directories are left as they are, so
// calling it again is a no-op. The first filesystem error is returned as is
// and directories created before it are kept.
func (s *Scaffolder) CreateProjectStructure(root string) error {
	for _, dir := range Directories {
		path := filepath.Join(root, filepath.FromSlash(dir))
		if err := s.fs.MkdirAll(path, dirPerm); err != nil {
			return err
		}
		s.logger.Debug("directory ready", zap.String("path", path))
	}
	s.logger.Info("Project structure created", zap.String("path", root))
	return nil
}

// CreateProjectStructure scaffolds root on the OS filesystem, logging
// through the global zap logger.
func CreateProjectStructure(root string) error {
	return New(afero.NewOsFs(), zap.L()).CreateProjectStructure(root)
}
