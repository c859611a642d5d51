package recommend

import (
	"fmt"
	"strings"

	"hugo/internal/personality"
)

// Insights is the human-readable reading of a scored team.
type Insights struct {
	Strengths             []string                          `json:"strengths"`
	Weaknesses            []string                          `json:"weaknesses"`
	Recommendations       []string                          `json:"recommendations"`
	DimensionDistribution map[personality.Dimension]float64 `json:"dimension_distribution"`
	MissingDimensions     []personality.Dimension           `json:"missing_dimensions"`
}

func (e *Engine) Insights(team []Member, s Scores) Insights {
	dist := Distribution(team)
	missing := e.MissingDimensions(team)

	var strengths []string
	if s.DimensionBalance > 0.8 {
		strengths = append(strengths, "Excellent dimension balance")
	}
	if s.TypeCompatibility > 0.85 {
		strengths = append(strengths, "High team compatibility")
	}
	if s.CulturalFit > 0.8 {
		strengths = append(strengths, "Strong cultural alignment")
	}
	dominant := personality.Dimensions[0]
	for _, d := range personality.Dimensions[1:] {
		if dist[d] > dist[dominant] {
			dominant = d
		}
	}
	if dist[dominant] > 0.4 {
		strengths = append(strengths, fmt.Sprintf("Strong %s focus", dominant.Title()))
	}

	var weaknesses []string
	if s.DimensionBalance < 0.6 {
		weaknesses = append(weaknesses, "Unbalanced dimension distribution")
	}
	if s.TypeCompatibility < 0.7 {
		weaknesses = append(weaknesses, "Potential compatibility issues")
	}
	var recs []string
	if len(missing) > 0 {
		names := make([]string, 0, len(missing))
		for _, d := range missing {
			names = append(names, d.Title())
			recs = append(recs, fmt.Sprintf("Consider adding %s %s-oriented member", article(d.Title()), d.Title()))
		}
		weaknesses = append(weaknesses, "Missing dimensions: "+strings.Join(names, ", "))
	}
	if s.TeamSize < 0.7 {
		if len(team) < 5 {
			recs = append(recs, "Team might be too small for complex projects")
		} else {
			recs = append(recs, "Team might be too large, consider splitting")
		}
	}

	if len(strengths) == 0 {
		strengths = []string{"Team has potential for improvement"}
	}
	if len(weaknesses) == 0 {
		weaknesses = []string{"No major weaknesses identified"}
	}
	if len(recs) == 0 {
		recs = []string{"Team composition is solid"}
	}
	return Insights{
		Strengths:             strengths,
		Weaknesses:            weaknesses,
		Recommendations:       recs,
		DimensionDistribution: dist,
		MissingDimensions:     missing,
	}
}

func article(word string) string {
	if word != "" && strings.ContainsRune("AEIOU", rune(word[0])) {
		return "an"
	}
	return "a"
}
