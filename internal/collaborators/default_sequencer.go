package collaborators

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"storysynth/internal/dsp"
	"storysynth/internal/embedding"
	"storysynth/internal/models"
)

// NativeSequencer is the default SequenceBuilder: it inventories the
// trimmed-line WAVs as clone candidates, scores them against each
// script slot with the ScoringConfig cascade, and falls back to slices
// of the original source audio where no candidate clears the bar.
type NativeSequencer struct {
	Scoring  ScoringConfig
	Embedder embedding.Provider
}

// NewNativeSequencer returns a NativeSequencer with default scoring and
// the hashing embedding provider.
func NewNativeSequencer() *NativeSequencer {
	return &NativeSequencer{
		Scoring:  DefaultScoringConfig(),
		Embedder: embedding.NewHashingProvider(),
	}
}

// Build implements SequenceBuilder.
func (n *NativeSequencer) Build(ctx context.Context, trimmedDir, dialogueJSON, scriptJSON, sourceAudio, outJSON string) (BuildResult, error) {
	slots, err := loadSlots(scriptJSON)
	if err != nil {
		return BuildResult{}, err
	}

	dialogue, err := loadDialogue(dialogueJSON)
	if err != nil {
		return BuildResult{}, err
	}

	candidates, err := n.loadCandidates(trimmedDir, dialogue)
	if err != nil {
		return BuildResult{}, err
	}

	source, err := dsp.Load(sourceAudio)
	if err != nil {
		return BuildResult{}, fmt.Errorf("failed to load source audio for anchor fallback: %w", err)
	}

	anchorDir := filepath.Join(filepath.Dir(outJSON), "anchors")
	if err := os.MkdirAll(anchorDir, 0755); err != nil {
		return BuildResult{}, fmt.Errorf("failed to create anchor directory: %w", err)
	}

	entries := make([]models.SequenceEntry, 0, len(slots))
	result := BuildResult{Slots: len(slots)}

	for _, slot := range slots {
		expectClean := true // script slots don't currently carry a noise expectation; default to clean
		semanticSim := func(c models.CloneCandidate) float64 {
			return embedding.CosineSimilarity(n.Embedder.Embed(slot.ExpectedText), n.Embedder.Embed(c.Text))
		}

		admitted := ScoreCandidates(n.Scoring, slot, candidates, expectClean, semanticSim)
		winner, mode, useAnchor := Decide(n.Scoring, admitted)

		var entry models.SequenceEntry
		switch {
		case useAnchor:
			entry, err = anchorEntry(slot, source, anchorDir, len(entries))
			if err != nil {
				return BuildResult{}, err
			}
			result.Anchored++
		default:
			entry = clonedEntry(slot, *winner, mode, n.Scoring.DefaultFadeMs)
			if mode == "compensated" {
				result.Comped++
			} else {
				result.Cloned++
			}
		}
		entries = append(entries, entry)
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return BuildResult{}, fmt.Errorf("failed to marshal sequence: %w", err)
	}
	if err := os.WriteFile(outJSON, data, 0644); err != nil {
		return BuildResult{}, fmt.Errorf("failed to write sequence json: %w", err)
	}

	return result, nil
}

func clonedEntry(slot models.SlotSpec, cand models.CloneCandidate, mode string, fadeMs int64) models.SequenceEntry {
	return models.SequenceEntry{
		StartMs:    slot.StartMs,
		EndMs:      slot.StartMs + cand.DurationMs,
		Kind:       models.KindCloned,
		SourcePath: cand.Path,
		GainDB:     0,
		FadeInMs:   fadeMs,
		FadeOutMs:  fadeMs,
		Mode:       mode,
	}
}

// anchorEntry slices [slot.StartMs, slot.StartMs+slot.ExpectedDurationMs)
// out of the original source audio and writes it as a standalone WAV,
// since the Align step mixes each entry from its own file.
func anchorEntry(slot models.SlotSpec, source *dsp.Samples, anchorDir string, seq int) (models.SequenceEntry, error) {
	slice := dsp.Slice(source, slot.StartMs, slot.StartMs+slot.ExpectedDurationMs)
	path := filepath.Join(anchorDir, fmt.Sprintf("%04d.wav", seq))
	if err := dsp.Save(path, slice); err != nil {
		return models.SequenceEntry{}, fmt.Errorf("failed to write anchor slice: %w", err)
	}

	return models.SequenceEntry{
		StartMs:    slot.StartMs,
		EndMs:      slot.StartMs + slot.ExpectedDurationMs,
		Kind:       models.KindAnchor,
		SourcePath: path,
		GainDB:     0,
		FadeInMs:   10,
		FadeOutMs:  10,
	}, nil
}

func loadSlots(scriptJSON string) ([]models.SlotSpec, error) {
	data, err := os.ReadFile(scriptJSON)
	if err != nil {
		return nil, fmt.Errorf("failed to read script json: %w", err)
	}
	var slots []models.SlotSpec
	if err := json.Unmarshal(data, &slots); err != nil {
		return nil, fmt.Errorf("failed to parse script json: %w", err)
	}
	sort.Slice(slots, func(i, j int) bool { return slots[i].StartMs < slots[j].StartMs })
	return slots, nil
}

func loadDialogue(dialogueJSON string) ([]models.DialogueRecord, error) {
	data, err := os.ReadFile(dialogueJSON)
	if err != nil {
		return nil, fmt.Errorf("failed to read dialogue json: %w", err)
	}
	var records []models.DialogueRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse dialogue json: %w", err)
	}
	return records, nil
}

// loadCandidates inventories every WAV under trimmedDir, pairing each
// with its dialogue metadata by filename stem (matching the
// leading sort index the Clone step names its outputs with) and
// computing energy/pitch curves for the prosody check.
func (n *NativeSequencer) loadCandidates(trimmedDir string, dialogue []models.DialogueRecord) ([]models.CloneCandidate, error) {
	entries, err := os.ReadDir(trimmedDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read trimmed directory: %w", err)
	}

	byIndex := make(map[int]models.DialogueRecord, len(dialogue))
	for _, d := range dialogue {
		byIndex[d.Sort] = d
	}

	var candidates []models.CloneCandidate
	idx := 0
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(strings.ToLower(e.Name()), ".wav") {
			continue
		}
		path := filepath.Join(trimmedDir, e.Name())
		samples, err := dsp.Load(path)
		if err != nil {
			continue // unreadable candidate is simply not offered, per collaborator contract
		}

		sortIdx, _ := leadingSort(e.Name())
		dialogue := byIndex[sortIdx]

		candidates = append(candidates, models.CloneCandidate{
			Index:       idx,
			Path:        path,
			Role:        dialogue.Role,
			DurationMs:  samples.DurationMs(),
			VocalMode:   emotionMode(dialogue.EmoAudio),
			HasNoise:    strings.Contains(strings.ToLower(e.Name()), "noisy"),
			EnergyCurve: dsp.EnergyCurve(samples),
			PitchCurve:  dsp.PitchCurve(samples),
			Text:        dialogue.Text,
		})
		idx++
	}
	return candidates, nil
}

// emotionMode derives a vocal-mode tag from the emotion reference clip
// filename, e.g. "happy.wav" -> "happy".
func emotionMode(emoAudio string) string {
	base := filepath.Base(emoAudio)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// leadingSort extracts the sort index prefixing a cloned-line filename
// (e.g. "3_hello_there.wav" -> 3), per the step 1 filename convention.
func leadingSort(filename string) (int, bool) {
	i := strings.IndexByte(filename, '_')
	if i <= 0 {
		return 0, false
	}
	n := 0
	for _, c := range filename[:i] {
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	return n, true
}
