package dsp

import "math"

const featureFrameMs = 50

// EnergyCurve returns per-frame RMS energy across s, using
// featureFrameMs windows. Used as the "energy" half of the Build
// Sequence step's prosody-consistency check.
func EnergyCurve(s *Samples) []float64 {
	frameLen := frameLength(s.SampleRate, s.Channels, featureFrameMs)
	if frameLen <= 0 || len(s.Data) < frameLen {
		return nil
	}
	frames := len(s.Data) / frameLen
	curve := make([]float64, frames)
	for i := 0; i < frames; i++ {
		frame := s.Data[i*frameLen : (i+1)*frameLen]
		var sumSq float64
		for _, v := range frame {
			sumSq += v * v
		}
		curve[i] = math.Sqrt(sumSq / float64(len(frame)))
	}
	return curve
}

// PitchCurve returns a per-frame zero-crossing rate, a cheap proxy for
// pitch movement that needs no full pitch tracker: voiced frames with
// stable pitch have a low, steady crossing rate, while noisy or
// unvoiced frames swing widely.
func PitchCurve(s *Samples) []float64 {
	frameLen := frameLength(s.SampleRate, s.Channels, featureFrameMs)
	if frameLen <= 0 || len(s.Data) < frameLen {
		return nil
	}
	frames := len(s.Data) / frameLen
	curve := make([]float64, frames)
	for i := 0; i < frames; i++ {
		frame := s.Data[i*frameLen : (i+1)*frameLen]
		crossings := 0
		for j := 1; j < len(frame); j++ {
			if (frame[j-1] >= 0) != (frame[j] >= 0) {
				crossings++
			}
		}
		curve[i] = float64(crossings)
	}
	return curve
}
