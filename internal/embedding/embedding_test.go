package embedding

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmbedIsDeterministic(t *testing.T) {
	p := NewHashingProvider()
	a := p.Embed("hello there friend")
	b := p.Embed("hello there friend")
	assert.Equal(t, a, b)
}

func TestEmbedIsUnitNormalized(t *testing.T) {
	p := NewHashingProvider()
	vec := p.Embed("the quick brown fox jumps")

	var sumSq float64
	for _, v := range vec {
		sumSq += v * v
	}
	assert.InDelta(t, 1.0, math.Sqrt(sumSq), 1e-9)
}

func TestEmbedEmptyTextIsZeroVector(t *testing.T) {
	p := NewHashingProvider()
	vec := p.Embed("")
	for _, v := range vec {
		assert.Equal(t, 0.0, v)
	}
}

func TestCosineSimilarityIdenticalVectorsIsOne(t *testing.T) {
	p := NewHashingProvider()
	vec := p.Embed("hello world")
	assert.InDelta(t, 1.0, CosineSimilarity(vec, vec), 1e-9)
}

func TestCosineSimilarityMismatchedLengthIsZero(t *testing.T) {
	assert.Equal(t, 0.0, CosineSimilarity([]float64{1, 2}, []float64{1, 2, 3}))
}

func TestCosineSimilarityOrthogonalIsZero(t *testing.T) {
	assert.Equal(t, 0.0, CosineSimilarity([]float64{1, 0}, []float64{0, 1}))
}
