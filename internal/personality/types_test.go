package personality

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTypeCode(t *testing.T) {
	cases := []struct {
		in      string
		want    TypeCode
		wantErr bool
	}{
		{in: "V2", want: "V2"},
		{in: " c3 ", want: "C3"},
		{in: "E1", want: "E1"},
		{in: "X1", wantErr: true},
		{in: "V4", wantErr: true},
		{in: "V", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseTypeCode(tc.in)
			if tc.wantErr {
				assert.True(t, errors.Is(err, ErrInvalidTypeCode))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseTypeCodesReportsIndex(t *testing.T) {
	_, err := ParseTypeCodes([]string{"V1", "Q9"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "member 1")
}

func TestTypeCodeDimension(t *testing.T) {
	for _, code := range Types {
		assert.Equal(t, code.Dimension().Letter(), string(code[0]), string(code))
		assert.Contains(t, TypesOf(code.Dimension()), code)
	}
}

func TestParseDimension(t *testing.T) {
	d, err := ParseDimension("C")
	require.NoError(t, err)
	assert.Equal(t, Collaboration, d)

	d, err = ParseDimension("Innovation")
	require.NoError(t, err)
	assert.Equal(t, Innovation, d)

	_, err = ParseDimension("charisma")
	assert.ErrorIs(t, err, ErrInvalidDimension)
}

func TestDimensionScoresTopTieBreak(t *testing.T) {
	assert.Equal(t, Vision, NewDimensionScores().Top())

	s := DimensionScores{Vision: 1, Innovation: 3, Expertise: 3, Collaboration: 2}
	assert.Equal(t, Innovation, s.Top())
}

func TestDimensionScoresAddIsPure(t *testing.T) {
	base := DimensionScores{Vision: 1}
	sum := base.Add(DimensionScores{Vision: 2, Expertise: 0.5, Innovation: -4})

	assert.Equal(t, 1.0, base[Vision])
	assert.Equal(t, 3.0, sum[Vision])
	assert.Equal(t, 0.5, sum[Expertise])
	assert.Equal(t, 0.0, sum[Innovation])
}

func TestTypeScoresByDimension(t *testing.T) {
	s := TypeScores{"V1": 4, "V2": 5, "C3": 2}
	dims := s.ByDimension()
	assert.Equal(t, 9.0, dims[Vision])
	assert.Equal(t, 2.0, dims[Collaboration])
	assert.Equal(t, 0.0, dims[Expertise])
}

func TestCatalogFallbacks(t *testing.T) {
	info, ok := Info("C2")
	require.True(t, ok)
	assert.Equal(t, "The Bridge Builder", info.Name.In(Danish))
	assert.Equal(t, "Der Brückenbauer", info.Name.In(German))
	assert.Len(t, Catalog(), 12)
	assert.Equal(t, "Samarbejde", DimensionName(Collaboration, Danish))
	assert.Equal(t, English, ParseLanguage("en-GB", German))
	assert.Equal(t, German, ParseLanguage("fr", German))
}
