package dsp

import "math"

const (
	trimFrameMs     = 20
	trimGuardMs     = 50
	trimThresholdDB = -40.0
	trimMaxRatio    = 0.5
)

// TrimResult reports what TrimSilence did to one buffer.
type TrimResult struct {
	TrimmedMs int64
	Untouched bool
}

// TrimSilence removes leading and trailing silence from s in place,
// returning the original audio unchanged (Untouched=true) whenever the
// would-be trim exceeds half the original duration.
func TrimSilence(s *Samples) TrimResult {
	frameLen := frameLength(s.SampleRate, s.Channels, trimFrameMs)
	if frameLen <= 0 || len(s.Data) < frameLen {
		return TrimResult{Untouched: true}
	}

	leadFrame := firstLoudFrame(s.Data, frameLen)
	trailFrame := firstLoudFrame(reversed(s.Data), frameLen)

	guardSamples := frameLength(s.SampleRate, s.Channels, trimGuardMs)

	leadCut := leadFrame*frameLen - guardSamples
	if leadCut < 0 {
		leadCut = 0
	}
	trailCutFromEnd := trailFrame*frameLen - guardSamples
	if trailCutFromEnd < 0 {
		trailCutFromEnd = 0
	}

	totalLen := len(s.Data)
	keepStart := leadCut
	keepEnd := totalLen - trailCutFromEnd
	if keepEnd <= keepStart {
		return TrimResult{Untouched: true}
	}

	originalMs := s.DurationMs()
	trimmedSamples := keepStart + (totalLen - keepEnd)
	trimmedMs := samplesToMs(trimmedSamples, s.SampleRate, s.Channels)

	if originalMs > 0 && float64(trimmedMs)/float64(originalMs) > trimMaxRatio {
		return TrimResult{Untouched: true}
	}
	if trimmedSamples == 0 {
		return TrimResult{Untouched: true}
	}

	s.Data = append([]float64(nil), s.Data[keepStart:keepEnd]...)
	return TrimResult{TrimmedMs: trimmedMs}
}

// firstLoudFrame returns the index (in frames of frameLen samples) of
// the first frame whose RMS is at or above the silence threshold, or
// the total frame count if the buffer never exceeds it.
func firstLoudFrame(data []float64, frameLen int) int {
	frames := len(data) / frameLen
	for i := 0; i < frames; i++ {
		frame := data[i*frameLen : (i+1)*frameLen]
		if rmsDBFS(frame) >= trimThresholdDB {
			return i
		}
	}
	return frames
}

func rmsDBFS(frame []float64) float64 {
	var sumSq float64
	for _, v := range frame {
		sumSq += v * v
	}
	rms := math.Sqrt(sumSq / float64(len(frame)))
	if rms <= 0 {
		return math.Inf(-1)
	}
	return 20 * math.Log10(rms)
}

func frameLength(sampleRate, channels, ms int) int {
	return (sampleRate * ms / 1000) * channels
}

func samplesToMs(samples, sampleRate, channels int) int64 {
	if sampleRate == 0 || channels == 0 {
		return 0
	}
	frames := samples / channels
	return int64(frames) * 1000 / int64(sampleRate)
}

func reversed(data []float64) []float64 {
	out := make([]float64, len(data))
	for i, v := range data {
		out[len(data)-1-i] = v
	}
	return out
}
