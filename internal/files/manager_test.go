package files

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"energycli/internal/config"
)

func newTestManager(t *testing.T) (*Manager, *config.Paths) {
	t.Helper()
	paths := config.NewPaths(t.TempDir(), "data", "output", "logs")
	require.NoError(t, paths.EnsureDirectories())
	return NewManager(paths), paths
}

func TestManager_FileExists(t *testing.T) {
	manager, paths := newTestManager(t)

	assert.False(t, manager.FileExists("data/admin.csv"))

	err := os.WriteFile(paths.GetDataFilePath("admin.csv"), []byte("timestamp,kwh\n"), 0644)
	require.NoError(t, err)

	assert.True(t, manager.FileExists("data/admin.csv"))
	assert.True(t, manager.FileExists(paths.GetDataFilePath("admin.csv")))
}

func TestManager_GetFileSize(t *testing.T) {
	manager, paths := newTestManager(t)

	content := []byte("timestamp,kwh\n2024-01-01 00:00:00,10.5\n")
	err := os.WriteFile(paths.GetOutputFilePath("cleaned.csv"), content, 0644)
	require.NoError(t, err)

	size, err := manager.GetFileSize("output/cleaned.csv")
	require.NoError(t, err)
	assert.Equal(t, int64(len(content)), size)

	_, err = manager.GetFileSize("output/missing.csv")
	assert.Error(t, err)
}

func TestManager_EnsureDirectory(t *testing.T) {
	manager, paths := newTestManager(t)

	err := manager.EnsureDirectory("data/archive")
	require.NoError(t, err)
	assert.DirExists(t, filepath.Join(paths.DataDir, "archive"))

	// Idempotent
	err = manager.EnsureDirectory("data/archive")
	assert.NoError(t, err)
}

func TestManager_ListFiles(t *testing.T) {
	manager, paths := newTestManager(t)

	require.NoError(t, os.WriteFile(paths.GetOutputFilePath("a.csv"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(paths.GetOutputFilePath("b.txt"), []byte("x"), 0644))
	require.NoError(t, os.Mkdir(paths.GetOutputFilePath("sub"), 0755))

	names, err := manager.ListFiles("output/")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a.csv", "b.txt"}, names)
}

func TestManager_ArtifactStatus(t *testing.T) {
	manager, paths := newTestManager(t)

	status := manager.ArtifactStatus()
	require.Len(t, status, 4)
	for _, a := range status {
		assert.False(t, a.Exists, "artifact %s should not exist yet", a.Name)
	}

	require.NoError(t, os.WriteFile(paths.CleanedCSV, []byte("timestamp,kwh,building\n"), 0644))
	require.NoError(t, os.WriteFile(paths.SummaryTXT, []byte("summary"), 0644))

	status = manager.ArtifactStatus()
	byName := make(map[string]ArtifactInfo, len(status))
	for _, a := range status {
		byName[a.Name] = a
	}

	assert.True(t, byName[config.CleanedDataFileName].Exists)
	assert.Greater(t, byName[config.CleanedDataFileName].SizeBytes, int64(0))
	assert.True(t, byName[config.ExecutiveSummaryFileName].Exists)
	assert.False(t, byName[config.BuildingSummaryFileName].Exists)
	assert.False(t, byName[config.DashboardFileName].Exists)
}
