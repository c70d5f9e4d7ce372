package models

// DialogueRecord is one entry of the step-1 input dialogue JSON: an
// ordered list of lines to clone with a specific emotion reference.
type DialogueRecord struct {
	Sort     int    `json:"sort"`
	Text     string `json:"text"`
	EmoAudio string `json:"emo_audio"`
	Role     string `json:"role,omitempty"`
}

// SlotSpec is one scripted position in the final story timeline,
// consumed by the Sequence step.
type SlotSpec struct {
	ExpectedText       string `json:"expected_text"`
	ExpectedDurationMs int64  `json:"expected_duration_ms"`
	ExpectedRole       string `json:"expected_role"`
	StartMs            int64  `json:"start_ms"`
}

// SequenceEntryKind discriminates a SequenceEntry's audio source.
type SequenceEntryKind string

const (
	KindCloned SequenceEntryKind = "cloned"
	KindAnchor SequenceEntryKind = "anchor"
)

// SequenceEntry is one scheduled clip in the assembled timeline,
// produced by the Sequence step and consumed by the Align step.
type SequenceEntry struct {
	StartMs    int64             `json:"start_ms"`
	EndMs      int64             `json:"end_ms"`
	Kind       SequenceEntryKind `json:"kind"`
	SourcePath string            `json:"source_path"`
	GainDB     float64           `json:"gain_db"`
	FadeInMs   int64             `json:"fade_in_ms"`
	FadeOutMs  int64             `json:"fade_out_ms"`
	Mode       string            `json:"mode,omitempty"` // "" or "compensated"
}

// CloneCandidate is a produced line WAV available for matching against
// a SlotSpec during sequence assembly.
type CloneCandidate struct {
	Index       int
	Path        string
	Role        string
	DurationMs  int64
	VocalMode   string
	HasNoise    bool
	EnergyCurve []float64
	PitchCurve  []float64
	Text        string
}
