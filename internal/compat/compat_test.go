package compat

import (
	"testing"

	"hugo/internal/personality"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupSymmetricOverAllPairs(t *testing.T) {
	for _, a := range personality.Types {
		for _, b := range personality.Types {
			ab, ba := Lookup(a, b), Lookup(b, a)
			assert.Equal(t, ab, ba, "%s-%s", a, b)
			assert.GreaterOrEqual(t, ab.Score, 0.0)
			assert.LessOrEqual(t, ab.Score, 1.0)
			assert.Equal(t, LevelFor(ab.Score), ab.Level)
		}
		same := Lookup(a, a)
		assert.Equal(t, SameTypeScore, same.Score)
		assert.Equal(t, LevelHigh, same.Level)
		assert.Equal(t, "natural alignment", same.Description)
	}
}

func TestLookupScenarios(t *testing.T) {
	e := Lookup("C1", "C2")
	assert.Equal(t, 0.95, e.Score)
	assert.Equal(t, LevelHigh, e.Level)
	assert.True(t, e.Authored)

	fallback := Lookup("V1", "E2")
	assert.Equal(t, 0.70, fallback.Score)
	assert.Equal(t, LevelModerate, fallback.Level)
	assert.False(t, fallback.Authored)
	assert.Equal(t, fallback, Lookup("E2", "V1"))

	low := Lookup("E2", "I1")
	assert.Equal(t, LevelLow, low.Level)
	assert.Equal(t, 0.50, low.Score)

	// level follows the score, not the author's label
	assert.Equal(t, LevelModerate, Lookup("C2", "E2").Level)
}

func TestLevelFor(t *testing.T) {
	cases := []struct {
		score float64
		want  Level
	}{
		{1, LevelHigh},
		{0.8, LevelHigh},
		{0.79, LevelModerate},
		{0.6, LevelModerate},
		{0.59, LevelLow},
		{0, LevelLow},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, LevelFor(tc.score), "%v", tc.score)
	}
}

func TestNewMatrixRejectsBadRows(t *testing.T) {
	cases := map[string][]Pair{
		"unknown type": {{"V1", "X9", 0.5, ""}},
		"self pair":    {{"V1", "V1", 0.5, ""}},
		"out of range": {{"V1", "V2", 1.5, ""}},
		"both orders":  {{"V1", "V2", 0.5, ""}, {"V2", "V1", 0.6, ""}},
		"twice":        {{"V1", "V2", 0.5, ""}, {"V1", "V2", 0.6, ""}},
	}
	for name, pairs := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewMatrix(pairs)
			assert.Error(t, err)
		})
	}
}

func TestNilMatrixFallsBack(t *testing.T) {
	var m *Matrix
	assert.Equal(t, DefaultScore, m.Lookup("V1", "C3").Score)
	assert.Nil(t, m.Pairs())
}

func TestPairsOrdered(t *testing.T) {
	pairs := Default().Pairs()
	require.Len(t, pairs, len(authored))
	assert.Equal(t, personality.TypeCode("V1"), pairs[0].A)
	assert.Equal(t, personality.TypeCode("V2"), pairs[0].B)
	last := pairs[len(pairs)-1]
	assert.Equal(t, personality.TypeCode("C2"), last.A)
	assert.Equal(t, personality.TypeCode("C3"), last.B)
}
