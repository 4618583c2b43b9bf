package scaffold

import (
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func listDirs(t *testing.T, fs afero.Fs, root string) []string {
	t.Helper()
	var dirs []string
	err := afero.Walk(fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			rel, err := filepath.Rel(root, path)
			if err != nil {
				return err
			}
			dirs = append(dirs, filepath.ToSlash(rel))
		}
		return nil
	})
	require.NoError(t, err)
	sort.Strings(dirs)
	return dirs
}

func TestCreateProjectStructure(t *testing.T) {
	fs := afero.NewMemMapFs()
	core, logs := observer.New(zap.InfoLevel)
	s := New(fs, zap.New(core))

	require.NoError(t, s.CreateProjectStructure("/work/project"))

	for _, dir := range Directories {
		ok, err := afero.DirExists(fs, filepath.Join("/work/project", dir))
		require.NoError(t, err)
		assert.True(t, ok, dir)
	}

	assert.Equal(t, []string{
		".", "data", "data/external", "data/interim", "data/processed", "data/raw",
		"docs", "models", "notebooks", "reports", "reports/figures",
		"src", "src/data", "src/features", "src/models", "src/visualization", "tests",
	}, listDirs(t, fs, "/work/project"))

	entries := logs.FilterMessage("Project structure created").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "/work/project", entries[0].ContextMap()["path"])
}

func TestCreateProjectStructure_Idempotent(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := New(fs, nil)

	require.NoError(t, s.CreateProjectStructure("/proj"))
	require.NoError(t, afero.WriteFile(fs, "/proj/data/raw/keep.csv", []byte("a\n1\n"), 0o644))
	first := listDirs(t, fs, "/proj")

	require.NoError(t, s.CreateProjectStructure("/proj"))
	assert.Equal(t, first, listDirs(t, fs, "/proj"))

	content, err := afero.ReadFile(fs, "/proj/data/raw/keep.csv")
	require.NoError(t, err)
	assert.Equal(t, "a\n1\n", string(content), "existing content is left untouched")
}

func TestCreateProjectStructure_OS(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, CreateProjectStructure(root))
	require.NoError(t, CreateProjectStructure(root))

	for _, dir := range Directories {
		info, err := os.Stat(filepath.Join(root, dir))
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}

func TestCreateProjectStructure_Unwritable(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced")
	}
	parent := t.TempDir()
	require.NoError(t, os.Chmod(parent, 0o555))
	t.Cleanup(func() { os.Chmod(parent, 0o755) })

	err := CreateProjectStructure(filepath.Join(parent, "proj"))
	assert.ErrorIs(t, err, os.ErrPermission)
}

func TestCreateProjectStructure_ReadOnlyFs(t *testing.T) {
	fs := afero.NewReadOnlyFs(afero.NewMemMapFs())
	err := New(fs, nil).CreateProjectStructure("proj")
	assert.Error(t, err)
}
