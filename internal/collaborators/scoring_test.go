package collaborators

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storysynth/internal/models"
)

func stableCurve() []float64 {
	return []float64{1.0, 1.05, 0.95, 1.02, 0.98}
}

func TestScoreCandidatesRejectsRoleMismatch(t *testing.T) {
	cfg := DefaultScoringConfig()
	slot := models.SlotSpec{ExpectedRole: "narrator", ExpectedDurationMs: 1000}
	candidates := []models.CloneCandidate{
		{Index: 0, Role: "villain", DurationMs: 1000},
	}

	admitted := ScoreCandidates(cfg, slot, candidates, true, func(models.CloneCandidate) float64 { return 0 })
	assert.Empty(t, admitted)
}

func TestScoreCandidatesHardDiscardsOutOfRatioBounds(t *testing.T) {
	cfg := DefaultScoringConfig()
	slot := models.SlotSpec{ExpectedRole: "narrator", ExpectedDurationMs: 10000}
	candidates := []models.CloneCandidate{
		{Index: 0, Role: "narrator", DurationMs: 1000}, // ratio 10.0, above HardDiscardHighRatio
	}

	admitted := ScoreCandidates(cfg, slot, candidates, true, func(models.CloneCandidate) float64 { return 1 })
	assert.Empty(t, admitted)
}

func TestScoreCandidatesGreenZoneNoPenalty(t *testing.T) {
	cfg := DefaultScoringConfig()
	slot := models.SlotSpec{ExpectedRole: "narrator", ExpectedDurationMs: 1000, ExpectedText: "hello there"}
	candidates := []models.CloneCandidate{
		{
			Index: 0, Role: "narrator", DurationMs: 1000, VocalMode: "calm",
			EnergyCurve: stableCurve(), PitchCurve: stableCurve(), Text: "hello there",
		},
	}

	admitted := ScoreCandidates(cfg, slot, candidates, false, func(models.CloneCandidate) float64 { return 1 })
	require.Len(t, admitted, 1)
	// VocalModeExact(40) + ProsodyConsistent(30) + SemanticMaxBonus(20) = 90, in-band so no penalty.
	assert.Equal(t, 90.0, admitted[0].score)
}

func TestScoreCandidatesOutOfBandPenaltyApplied(t *testing.T) {
	cfg := DefaultScoringConfig()
	slot := models.SlotSpec{ExpectedRole: "narrator", ExpectedDurationMs: 3000}
	candidates := []models.CloneCandidate{
		{Index: 0, Role: "narrator", DurationMs: 1000}, // ratio 3.0: within hard bounds, outside green zone (2.5 high)
	}

	admitted := ScoreCandidates(cfg, slot, candidates, false, func(models.CloneCandidate) float64 { return 0 })
	require.Len(t, admitted, 1)
	assert.Equal(t, cfg.OutOfBandPenalty, admitted[0].score)
}

func TestScoreCandidatesNoisePenaltyOnlyWhenCleanExpected(t *testing.T) {
	cfg := DefaultScoringConfig()
	slot := models.SlotSpec{ExpectedRole: "narrator", ExpectedDurationMs: 1000}
	noisy := models.CloneCandidate{Index: 0, Role: "narrator", DurationMs: 1000, HasNoise: true}

	withPenalty := ScoreCandidates(cfg, slot, []models.CloneCandidate{noisy}, true, func(models.CloneCandidate) float64 { return 0 })
	withoutPenalty := ScoreCandidates(cfg, slot, []models.CloneCandidate{noisy}, false, func(models.CloneCandidate) float64 { return 0 })

	require.Len(t, withPenalty, 1)
	require.Len(t, withoutPenalty, 1)
	assert.Equal(t, cfg.NoiseCleanPenalty, withPenalty[0].score)
	assert.Equal(t, 0.0, withoutPenalty[0].score)
}

func TestScoreCandidatesOrderedByScoreDescWithIndexTiebreak(t *testing.T) {
	cfg := DefaultScoringConfig()
	slot := models.SlotSpec{ExpectedDurationMs: 1000}
	candidates := []models.CloneCandidate{
		{Index: 0, DurationMs: 1000},
		{Index: 1, DurationMs: 1000, VocalMode: "calm"},
		{Index: 2, DurationMs: 1000},
	}

	admitted := ScoreCandidates(cfg, slot, candidates, false, func(models.CloneCandidate) float64 { return 0 })
	require.Len(t, admitted, 3)
	assert.Equal(t, 1, admitted[0].candidate.Index, "highest-scoring candidate (vocal mode match) ranks first")
	assert.Equal(t, 0, admitted[1].candidate.Index, "ties broken by ascending index")
	assert.Equal(t, 2, admitted[2].candidate.Index)
}

func TestDecideClonedWhenAboveThreshold(t *testing.T) {
	cfg := DefaultScoringConfig()
	admitted := []scoredCandidate{{candidate: models.CloneCandidate{Index: 0}, score: 85}}

	winner, mode, useAnchor := Decide(cfg, admitted)
	require.NotNil(t, winner)
	assert.Equal(t, "", mode)
	assert.False(t, useAnchor)
}

func TestDecideCompensatedInMidBand(t *testing.T) {
	cfg := DefaultScoringConfig()
	admitted := []scoredCandidate{{candidate: models.CloneCandidate{Index: 0}, score: 65}}

	winner, mode, useAnchor := Decide(cfg, admitted)
	require.NotNil(t, winner)
	assert.Equal(t, "compensated", mode)
	assert.False(t, useAnchor)
}

func TestDecideAnchorFallbackWhenBelowThresholdOrEmpty(t *testing.T) {
	cfg := DefaultScoringConfig()

	winner, _, useAnchor := Decide(cfg, []scoredCandidate{{candidate: models.CloneCandidate{Index: 0}, score: 10}})
	assert.Nil(t, winner)
	assert.True(t, useAnchor)

	winner, _, useAnchor = Decide(cfg, nil)
	assert.Nil(t, winner)
	assert.True(t, useAnchor)
}
