package collaborators

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storysynth/internal/apierr"
)

func writeFakeClonerBin(t *testing.T, script string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fake-cloner.sh")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+script+"\n"), 0755))
	return path
}

func TestSubprocessClonerParsesSuccessResponse(t *testing.T) {
	bin := writeFakeClonerBin(t, `cat >/dev/null; echo '{"success":true,"duration_ms":1234}'`)
	cloner := NewSubprocessCloner(bin, 5*time.Second)

	result, err := cloner.CloneWithEmotionAudio(context.Background(), "hello", "speaker.wav", "happy.wav", "out.wav")
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, int64(1234), result.DurationMs)
	assert.Empty(t, result.Error)
}

func TestSubprocessClonerParsesFailureResponse(t *testing.T) {
	bin := writeFakeClonerBin(t, `cat >/dev/null; echo '{"success":false,"error":"model not found"}'`)
	cloner := NewSubprocessCloner(bin, 5*time.Second)

	result, err := cloner.CloneWithEmotionAudio(context.Background(), "hello", "speaker.wav", "happy.wav", "out.wav")
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "model not found", result.Error)
}

func TestSubprocessClonerNonZeroExitIsStepFailure(t *testing.T) {
	bin := writeFakeClonerBin(t, `exit 1`)
	cloner := NewSubprocessCloner(bin, 5*time.Second)

	_, err := cloner.CloneWithEmotionAudio(context.Background(), "hello", "speaker.wav", "happy.wav", "out.wav")
	require.Error(t, err)
	assert.Equal(t, apierr.StepFailure, apierr.KindOf(err))
}
