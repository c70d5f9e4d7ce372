package collaborators

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storysynth/internal/dsp"
	"storysynth/internal/models"
)

func TestLeadingSortParsesPrefixIndex(t *testing.T) {
	n, ok := leadingSort("12_hello there.wav")
	assert.True(t, ok)
	assert.Equal(t, 12, n)
}

func TestLeadingSortRejectsMissingSeparator(t *testing.T) {
	_, ok := leadingSort("nounderscore.wav")
	assert.False(t, ok)
}

func TestLeadingSortRejectsNonNumericPrefix(t *testing.T) {
	_, ok := leadingSort("abc_hello.wav")
	assert.False(t, ok)
}

func TestEmotionModeStripsExtensionAndDir(t *testing.T) {
	assert.Equal(t, "happy", emotionMode("/refs/emotions/happy.wav"))
	assert.Equal(t, "calm", emotionMode("calm.wav"))
}

func TestClonedEntryCopiesCandidateAndAppliesFade(t *testing.T) {
	slot := models.SlotSpec{StartMs: 1000, ExpectedText: "hi"}
	cand := models.CloneCandidate{Path: "/x/1.wav", DurationMs: 500}

	entry := clonedEntry(slot, cand, "compensated", 30)

	assert.Equal(t, int64(1000), entry.StartMs)
	assert.Equal(t, int64(1500), entry.EndMs)
	assert.Equal(t, models.KindCloned, entry.Kind)
	assert.Equal(t, "/x/1.wav", entry.SourcePath)
	assert.Equal(t, "compensated", entry.Mode)
	assert.Equal(t, int64(30), entry.FadeInMs)
	assert.Equal(t, int64(30), entry.FadeOutMs)
}

func TestAnchorEntrySlicesSourceAndWritesFile(t *testing.T) {
	dir := t.TempDir()
	source := &dsp.Samples{
		Data:       make([]float64, 2000), // 2000ms at 1000Hz mono
		SampleRate: 1000,
		Channels:   1,
	}
	slot := models.SlotSpec{StartMs: 200, ExpectedDurationMs: 300}

	entry, err := anchorEntry(slot, source, dir, 4)
	require.NoError(t, err)

	assert.Equal(t, int64(200), entry.StartMs)
	assert.Equal(t, int64(500), entry.EndMs)
	assert.Equal(t, models.KindAnchor, entry.Kind)
	assert.Equal(t, filepath.Join(dir, "0004.wav"), entry.SourcePath)

	loaded, err := dsp.Load(entry.SourcePath)
	require.NoError(t, err)
	assert.Equal(t, int64(300), loaded.DurationMs())
}
