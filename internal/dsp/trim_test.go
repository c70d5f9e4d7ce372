package dsp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildSegments(sampleRate int, segments ...struct {
	ms   int
	loud bool
}) *Samples {
	var data []float64
	for _, seg := range segments {
		n := sampleRate * seg.ms / 1000
		amp := 0.0
		if seg.loud {
			amp = 1.0
		}
		for i := 0; i < n; i++ {
			data = append(data, amp)
		}
	}
	return &Samples{Data: data, SampleRate: sampleRate, Channels: 1}
}

func TestTrimSilenceTrimsLeadAndTrailKeepingGuardBand(t *testing.T) {
	s := buildSegments(1000,
		struct {
			ms   int
			loud bool
		}{200, false},
		struct {
			ms   int
			loud bool
		}{200, true},
		struct {
			ms   int
			loud bool
		}{200, false},
	)

	result := TrimSilence(s)

	require.False(t, result.Untouched)
	assert.Equal(t, int64(300), result.TrimmedMs)
	assert.Len(t, s.Data, 300)
}

func TestTrimSilenceUntouchedWhenTooShortForOneFrame(t *testing.T) {
	s := &Samples{Data: []float64{0.1, 0.1}, SampleRate: 1000, Channels: 1}
	result := TrimSilence(s)
	assert.True(t, result.Untouched)
}

func TestTrimSilenceUntouchedWhenTrimWouldExceedMaxRatio(t *testing.T) {
	// Almost entirely silent with a tiny loud sliver: the would-be trim
	// would remove far more than half the buffer, so it must be left alone.
	s := buildSegments(1000,
		struct {
			ms   int
			loud bool
		}{1000, false},
		struct {
			ms   int
			loud bool
		}{20, true},
		struct {
			ms   int
			loud bool
		}{1000, false},
	)

	result := TrimSilence(s)
	assert.True(t, result.Untouched)
}

func TestTrimSilenceAllSilentLeavesBufferUntouched(t *testing.T) {
	s := buildSegments(1000, struct {
		ms   int
		loud bool
	}{500, false})

	result := TrimSilence(s)
	assert.True(t, result.Untouched)
}

func TestSliceClampsAndZeroPads(t *testing.T) {
	s := &Samples{Data: []float64{1, 2, 3, 4, 5}, SampleRate: 1000, Channels: 1}

	inRange := Slice(s, 1, 3)
	assert.Equal(t, []float64{2, 3}, inRange.Data)

	pastEnd := Slice(s, 3, 10)
	assert.Equal(t, []float64{4, 5, 0, 0, 0, 0, 0}, pastEnd.Data)
}
