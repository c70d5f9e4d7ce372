package subprocess

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storysynth/internal/apierr"
)

func TestInvokeEmptyArgvReturnsInternalError(t *testing.T) {
	_, err := Invoke(context.Background(), Request{})
	require.Error(t, err)
	assert.Equal(t, apierr.Internal, apierr.KindOf(err))
}

func TestInvokeReturnsParsedStdout(t *testing.T) {
	resp, err := Invoke(context.Background(), Request{
		Argv: []string{"sh", "-c", `echo '{"ok":true}'`},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, resp.ExitCode)

	var out struct {
		OK bool `json:"ok"`
	}
	require.NoError(t, Decode(resp, &out))
	assert.True(t, out.OK)
}

func TestInvokeNonZeroExitReturnsStepFailure(t *testing.T) {
	_, err := Invoke(context.Background(), Request{
		Argv: []string{"sh", "-c", "echo boom >&2; exit 3"},
	})
	require.Error(t, err)
	assert.Equal(t, apierr.StepFailure, apierr.KindOf(err))
	assert.Contains(t, err.Error(), "exited 3")
}

func TestInvokeTimeoutReturnsStepFailure(t *testing.T) {
	_, err := Invoke(context.Background(), Request{
		Argv:    []string{"sh", "-c", "sleep 5"},
		Timeout: 20 * time.Millisecond,
	})
	require.Error(t, err)
	assert.Equal(t, apierr.StepFailure, apierr.KindOf(err))
	assert.Contains(t, err.Error(), "timed out")
}

func TestInvokeParentCancelReturnsInterrupted(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := Invoke(ctx, Request{
		Argv: []string{"sh", "-c", "sleep 5"},
	})
	require.Error(t, err)
	assert.Equal(t, apierr.Interrupted, apierr.KindOf(err))
}

func TestInvokeInvalidJSONStdoutIsStepFailure(t *testing.T) {
	_, err := Invoke(context.Background(), Request{
		Argv: []string{"sh", "-c", "echo not-json"},
	})
	require.Error(t, err)
	assert.Equal(t, apierr.StepFailure, apierr.KindOf(err))
}

func TestInvokePassesStdinAndEnv(t *testing.T) {
	resp, err := Invoke(context.Background(), Request{
		Argv:  []string{"sh", "-c", `read line; echo "{\"stdin\":$line,\"env\":\"$MY_ENV_VAR\"}"`},
		Stdin: map[string]string{"hello": "world"},
		Env:   []string{"MY_ENV_VAR=present"},
	})
	require.NoError(t, err)
	assert.Contains(t, string(resp.Stdout), `"hello":"world"`)
	assert.Contains(t, string(resp.Stdout), `"env":"present"`)
}

func TestDecodeEmptyStdoutReturnsStepFailure(t *testing.T) {
	err := Decode(&Response{}, &struct{}{})
	require.Error(t, err)
	assert.Equal(t, apierr.StepFailure, apierr.KindOf(err))
}

func TestDecodeMalformedJSONReturnsStepFailure(t *testing.T) {
	resp := &Response{Stdout: []byte(`{"a":`)}
	err := Decode(resp, &struct{}{})
	require.Error(t, err)
	assert.Equal(t, apierr.StepFailure, apierr.KindOf(err))
}
