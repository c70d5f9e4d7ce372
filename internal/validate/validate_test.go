package validate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storysynth/internal/apierr"
)

func writeTempJSON(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDialogueJSONAcceptsValidRecords(t *testing.T) {
	v, err := New()
	require.NoError(t, err)

	path := writeTempJSON(t, "dialogue.json", `[{"sort":0,"text":"hi","emo_audio":"happy.wav"}]`)
	assert.NoError(t, v.DialogueJSON(path))
}

func TestDialogueJSONRejectsMissingRequiredField(t *testing.T) {
	v, err := New()
	require.NoError(t, err)

	path := writeTempJSON(t, "dialogue.json", `[{"sort":0,"text":"hi"}]`)
	err = v.DialogueJSON(path)
	require.Error(t, err)
	assert.Equal(t, apierr.InvalidInput, apierr.KindOf(err))
}

func TestDialogueJSONRejectsMalformedJSON(t *testing.T) {
	v, err := New()
	require.NoError(t, err)

	path := writeTempJSON(t, "dialogue.json", `{not json`)
	err = v.DialogueJSON(path)
	require.Error(t, err)
	assert.Equal(t, apierr.InvalidInput, apierr.KindOf(err))
}

func TestDialogueJSONRejectsMissingFile(t *testing.T) {
	v, err := New()
	require.NoError(t, err)

	err = v.DialogueJSON(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.Equal(t, apierr.InvalidInput, apierr.KindOf(err))
}

func TestScriptJSONAcceptsValidRecords(t *testing.T) {
	v, err := New()
	require.NoError(t, err)

	path := writeTempJSON(t, "script.json", `[{"expected_text":"hi","expected_duration_ms":500,"expected_role":"narrator","start_ms":0}]`)
	assert.NoError(t, v.ScriptJSON(path))
}

func TestScriptJSONRejectsNegativeDuration(t *testing.T) {
	v, err := New()
	require.NoError(t, err)

	path := writeTempJSON(t, "script.json", `[{"expected_text":"hi","expected_duration_ms":-1,"expected_role":"narrator","start_ms":0}]`)
	err = v.ScriptJSON(path)
	require.Error(t, err)
	assert.Equal(t, apierr.InvalidInput, apierr.KindOf(err))
}

func TestScriptJSONAcceptsEmptyArray(t *testing.T) {
	v, err := New()
	require.NoError(t, err)

	path := writeTempJSON(t, "script.json", `[]`)
	assert.NoError(t, v.ScriptJSON(path))
}
