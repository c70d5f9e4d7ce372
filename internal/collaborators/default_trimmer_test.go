package collaborators

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storysynth/internal/dsp"
)

func TestNativeTrimmerTrimsAndWritesOutput(t *testing.T) {
	dir := t.TempDir()
	inPath := filepath.Join(dir, "in.wav")
	outPath := filepath.Join(dir, "out.wav")

	// 200ms of silence, 400ms of loud tone, 200ms of silence.
	sampleRate := 16000
	data := make([]float64, 0, sampleRate) // 1 second mono buffer
	appendMs := func(ms int, value float64) {
		n := sampleRate * ms / 1000
		for i := 0; i < n; i++ {
			data = append(data, value)
		}
	}
	appendMs(200, 0)
	appendMs(400, 0.8)
	appendMs(200, 0)

	require.NoError(t, dsp.Save(inPath, &dsp.Samples{Data: data, SampleRate: sampleRate, Channels: 1}))

	trimmer := NewNativeTrimmer()
	result, err := trimmer.Trim(context.Background(), inPath, outPath)
	require.NoError(t, err)
	assert.False(t, result.Untouched)
	assert.Greater(t, result.TrimmedMs, int64(0))

	out, err := dsp.Load(outPath)
	require.NoError(t, err)
	assert.Less(t, out.DurationMs(), int64(800))
}
