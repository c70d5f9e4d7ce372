package apierr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewErrorHasNoCause(t *testing.T) {
	err := New(NotFound, "task missing")
	assert.Equal(t, "task missing", err.Error())
	assert.Nil(t, err.Unwrap())
}

func TestWrapIncludesCauseInMessage(t *testing.T) {
	cause := errors.New("disk full")
	err := Wrap(Internal, "failed to save", cause)
	assert.Equal(t, "failed to save: disk full", err.Error())
	assert.Equal(t, cause, err.Unwrap())
}

func TestKindOfReturnsDirectKind(t *testing.T) {
	err := New(QueueFull, "no room")
	assert.Equal(t, QueueFull, KindOf(err))
}

func TestKindOfDefaultsToInternalForPlainErrors(t *testing.T) {
	assert.Equal(t, Internal, KindOf(errors.New("plain")))
	assert.Equal(t, Internal, KindOf(nil))
}

func TestKindOfUnwrapsStandardWrapping(t *testing.T) {
	inner := New(Conflict, "already processing")
	outer := fmt.Errorf("delete failed: %w", inner)
	assert.Equal(t, Conflict, KindOf(outer))
}
