// Package classifier scores free-text answers against the keyword tables of
// a question. Matching is a plain lower-case substring test with no stemming
// or word boundaries. Every function is pure.
package classifier

import (
	"strings"

	"hugo/internal/lexicon"
	"hugo/internal/personality"
)

// FocusBonus is added once per focus dimension of a question, whether or not
// any keyword matched.
const FocusBonus = 0.5

// ScoreDimension scores one answer against the four dimensions of q. hits is
// the number of matched keywords; the focus bonus does not count as a hit.
func ScoreDimension(answer string, q lexicon.Question) (partial personality.DimensionScores, hits int) {
	text := normalize(answer)
	partial = personality.NewDimensionScores()
	for _, d := range personality.Dimensions {
		n := countMatches(text, q.DimensionKeywords(d))
		hits += n
		partial[d] += float64(n)
		if q.HasFocus(d) {
			partial[d] += FocusBonus
		}
	}
	return partial, hits
}

// ClassifyDimension folds one answer into the running vector and returns the
// updated vector. running is not modified.
func ClassifyDimension(answer string, q lexicon.Question, running personality.DimensionScores) personality.DimensionScores {
	partial, _ := ScoreDimension(answer, q)
	if running == nil {
		running = personality.NewDimensionScores()
	}
	return running.Add(partial)
}

// ScoreType scores one answer against the three sub-types of d only.
func ScoreType(answer string, q lexicon.Question, d personality.Dimension) (partial personality.TypeScores, hits int) {
	text := normalize(answer)
	codes := personality.TypesOf(d)
	partial = personality.NewTypeScores(codes)
	for _, code := range codes {
		n := countMatches(text, q.TypeKeywords(code))
		hits += n
		partial[code] += float64(n)
	}
	return partial, hits
}

// ClassifyType folds one answer into the running type vector for d.
func ClassifyType(answer string, q lexicon.Question, d personality.Dimension, running personality.TypeScores) personality.TypeScores {
	partial, _ := ScoreType(answer, q, d)
	if running == nil {
		running = personality.NewTypeScores(personality.TypesOf(d))
	}
	return running.Add(partial)
}

// SelectDimension picks the dimension with the greatest score. Ties go to the
// earlier dimension in V, I, E, C order.
func SelectDimension(scores personality.DimensionScores) personality.Dimension {
	return scores.Top()
}

// SelectType picks the best sub-type of d. Ties go to the lower number.
func SelectType(scores personality.TypeScores, d personality.Dimension) personality.TypeCode {
	return scores.TopWithin(personality.TypesOf(d))
}

func normalize(answer string) string {
	return strings.ToLower(strings.TrimSpace(answer))
}

func countMatches(text string, keywords []string) int {
	if text == "" {
		return 0
	}
	n := 0
	for _, kw := range keywords {
		if kw != "" && strings.Contains(text, kw) {
			n++
		}
	}
	return n
}
