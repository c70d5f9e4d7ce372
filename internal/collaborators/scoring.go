package collaborators

import "storysynth/internal/models"

// ScoringConfig externalizes every tunable constant of the Build
// Sequence step's candidate-scoring cascade, so a deployment can retune
// the cascade without code changes.
type ScoringConfig struct {
	// L1.5 physical-duration-ratio bands.
	HardDiscardHighRatio float64 // R above this: hard discard
	HardDiscardLowRatio  float64 // R below this: hard discard
	GreenZoneHigh        float64 // R at/below this and at/above GreenZoneLow: no penalty
	GreenZoneLow         float64
	OutOfBandPenalty     float64 // applied to candidates outside the green zone but inside the hard bounds

	// L2 weights.
	VocalModeExact    float64
	VocalModeDegraded float64
	ProsodyConsistent float64
	SemanticMaxBonus  float64
	NoiseCleanPenalty float64

	// L3 decision thresholds.
	ClonedThreshold      float64 // S >= this: kind=cloned
	CompensatedThreshold float64 // this <= S < ClonedThreshold: kind=cloned, mode=compensated

	// Emitted-entry defaults.
	DefaultFadeMs int64
}

// DefaultScoringConfig returns the cascade's documented defaults.
func DefaultScoringConfig() ScoringConfig {
	return ScoringConfig{
		HardDiscardHighRatio: 4.0,
		HardDiscardLowRatio:  0.2,
		GreenZoneHigh:        2.5,
		GreenZoneLow:         0.4,
		OutOfBandPenalty:     -50,

		VocalModeExact:    40,
		VocalModeDegraded: 20,
		ProsodyConsistent: 30,
		SemanticMaxBonus:  20,
		NoiseCleanPenalty: -30,

		ClonedThreshold:      80,
		CompensatedThreshold: 60,

		DefaultFadeMs: 10,
	}
}

// scoredCandidate pairs a CloneCandidate with its computed L2 score.
type scoredCandidate struct {
	candidate models.CloneCandidate
	score     float64
}

// ScoreCandidates applies the L1/L1.5/L2 cascade to candidates for
// slot, returning the admitted set with scores, ordered by descending
// score with ties broken by ascending candidate index (stable for
// equal scores).
func ScoreCandidates(cfg ScoringConfig, slot models.SlotSpec, candidates []models.CloneCandidate, expectClean bool, semanticSim func(models.CloneCandidate) float64) []scoredCandidate {
	admitted := make([]scoredCandidate, 0, len(candidates))

	for _, cand := range candidates {
		// L1 identity gate.
		if slot.ExpectedRole != "" && cand.Role != "" && cand.Role != slot.ExpectedRole {
			continue
		}
		if cand.DurationMs <= 0 {
			continue
		}

		// L1.5 physical constraint.
		ratio := float64(slot.ExpectedDurationMs) / float64(cand.DurationMs)
		if ratio > cfg.HardDiscardHighRatio || ratio < cfg.HardDiscardLowRatio {
			continue
		}
		outOfGreenZone := ratio < cfg.GreenZoneLow || ratio > cfg.GreenZoneHigh

		// L2 weighted score.
		score := 0.0
		score += vocalModeScore(cfg, slot, cand)
		if prosodyConsistent(cand) {
			score += cfg.ProsodyConsistent
		}
		score += cfg.SemanticMaxBonus * clamp01(semanticSim(cand))
		if expectClean && cand.HasNoise {
			score += cfg.NoiseCleanPenalty
		}
		if outOfGreenZone {
			score += cfg.OutOfBandPenalty
		}

		admitted = append(admitted, scoredCandidate{candidate: cand, score: score})
	}

	stableSortByScoreDesc(admitted)
	return admitted
}

// vocalModeScore scores exact vs degraded vocal-mode match. A candidate
// with no vocal mode scores 0; one whose role equals the slot's expected
// role earns the full bonus; any other candidate with a non-empty mode
// earns the degraded bonus.
func vocalModeScore(cfg ScoringConfig, slot models.SlotSpec, cand models.CloneCandidate) float64 {
	if cand.VocalMode == "" {
		return 0
	}
	if cand.Role == slot.ExpectedRole {
		return cfg.VocalModeExact
	}
	return cfg.VocalModeDegraded
}

// prosodyConsistent reports whether a candidate's energy/pitch curves
// look stable enough to call "consistent": non-empty and without wild
// swings relative to their own mean.
func prosodyConsistent(cand models.CloneCandidate) bool {
	return curveIsStable(cand.EnergyCurve) && curveIsStable(cand.PitchCurve)
}

func curveIsStable(curve []float64) bool {
	if len(curve) == 0 {
		return false
	}
	mean := 0.0
	for _, v := range curve {
		mean += v
	}
	mean /= float64(len(curve))
	if mean == 0 {
		return false
	}
	var maxDev float64
	for _, v := range curve {
		dev := (v - mean) / mean
		if dev < 0 {
			dev = -dev
		}
		if dev > maxDev {
			maxDev = dev
		}
	}
	return maxDev <= 0.6
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func stableSortByScoreDesc(s []scoredCandidate) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0; j-- {
			if s[j].score > s[j-1].score {
				s[j], s[j-1] = s[j-1], s[j]
			} else if s[j].score == s[j-1].score && s[j].candidate.Index < s[j-1].candidate.Index {
				s[j], s[j-1] = s[j-1], s[j]
			} else {
				break
			}
		}
	}
}

// Decide applies the L3 dispatch to an admitted, score-sorted
// candidate set, returning the winning candidate (if any), its mode
// ("" or "compensated"), and whether an anchor fallback is required.
func Decide(cfg ScoringConfig, admitted []scoredCandidate) (winner *models.CloneCandidate, mode string, useAnchor bool) {
	if len(admitted) == 0 {
		return nil, "", true
	}
	best := admitted[0]
	switch {
	case best.score >= cfg.ClonedThreshold:
		return &best.candidate, "", false
	case best.score >= cfg.CompensatedThreshold:
		return &best.candidate, "compensated", false
	default:
		return nil, "", true
	}
}
