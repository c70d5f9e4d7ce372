package taskstore

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storysynth/internal/models"
)

func TestLoadMissingFileReturnsEmptyJournal(t *testing.T) {
	dir := t.TempDir()
	store, err := Open(filepath.Join(dir, "tasks.json"))
	require.NoError(t, err)

	j, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, j.Tasks)
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	dir := t.TempDir()
	store, err := Open(filepath.Join(dir, "tasks.json"))
	require.NoError(t, err)

	task := models.NewTask("task-1", "demo", models.TaskInputs{SpeakerWAV: "speaker.wav"}, time.Now())
	err = store.Save(&Journal{Tasks: map[string]*models.Task{"task-1": task}})
	require.NoError(t, err)

	j, err := store.Load()
	require.NoError(t, err)
	require.Contains(t, j.Tasks, "task-1")
	assert.Equal(t, "demo", j.Tasks["task-1"].Name)
	assert.Equal(t, "speaker.wav", j.Tasks["task-1"].Inputs.SpeakerWAV)
}

func TestLoadCorruptFileBacksUpAndReturnsEmptyJournal(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tasks.json")
	require.NoError(t, os.WriteFile(path, []byte("{not valid json"), 0644))

	store, err := Open(path)
	require.NoError(t, err)

	j, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, j.Tasks)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var foundBackup bool
	for _, e := range entries {
		if filepath.Ext(e.Name()) != ".json" && e.Name() != "tasks.json" {
			foundBackup = true
		}
	}
	assert.True(t, foundBackup, "expected a .corrupt-* backup file to be written")
}

func TestHealthCheckOnWritableDir(t *testing.T) {
	dir := t.TempDir()
	store, err := Open(filepath.Join(dir, "tasks.json"))
	require.NoError(t, err)

	assert.NoError(t, store.HealthCheck())
}
