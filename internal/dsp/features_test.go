package dsp

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnergyCurveConstantSignalYieldsConstantAmplitude(t *testing.T) {
	// 50ms at 1000Hz == 50 frames per feature window.
	s := constSamples(1000, 1, 150, 0.5)
	curve := EnergyCurve(s)

	assert := assert.New(t)
	assert.Len(curve, 3)
	for _, v := range curve {
		assert.InDelta(0.5, v, 1e-9)
	}
}

func TestEnergyCurveTooShortForOneFrameReturnsNil(t *testing.T) {
	s := constSamples(1000, 1, 10, 0.5) // 10ms, shorter than the 50ms window
	assert.Nil(t, EnergyCurve(s))
}

func TestEnergyCurveSilenceIsZero(t *testing.T) {
	s := constSamples(1000, 1, 100, 0.0)
	curve := EnergyCurve(s)
	for _, v := range curve {
		assert.Equal(t, 0.0, v)
	}
}

func TestPitchCurveConstantSignalHasNoCrossings(t *testing.T) {
	s := constSamples(1000, 1, 100, 0.3)
	curve := PitchCurve(s)
	for _, v := range curve {
		assert.Equal(t, 0.0, v)
	}
}

func TestPitchCurveAlternatingSignalCountsEveryCrossing(t *testing.T) {
	frameLen := 50 // 50ms at 1000Hz mono
	data := make([]float64, frameLen)
	for i := range data {
		if i%2 == 0 {
			data[i] = 1.0
		} else {
			data[i] = -1.0
		}
	}
	s := &Samples{Data: data, SampleRate: 1000, Channels: 1}
	curve := PitchCurve(s)

	assert.Len(t, curve, 1)
	assert.Equal(t, float64(frameLen-1), curve[0])
}

func TestPitchCurveTooShortForOneFrameReturnsNil(t *testing.T) {
	s := constSamples(1000, 1, 10, 0.5)
	assert.Nil(t, PitchCurve(s))
}

func TestEnergyCurveIgnoresIncompleteTrailingFrame(t *testing.T) {
	// 50ms frames at 1000Hz mono == 50 samples/frame; 120 samples
	// covers exactly 2 whole frames with 20 leftover, which must be
	// dropped rather than padded.
	s := constSamples(1000, 1, 120, 1.0)
	curve := EnergyCurve(s)
	assert.Len(t, curve, 2)
	assert.False(t, math.IsNaN(curve[0]))
}
