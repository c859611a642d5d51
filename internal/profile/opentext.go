package profile

import (
	"fmt"

	"hugo/internal/classifier"
	"hugo/internal/lexicon"
	"hugo/internal/personality"
)

// OpenTextScorer carries the final vectors of a free-text assessment.
type OpenTextScorer struct {
	Dimensions    personality.DimensionScores
	Types         personality.TypeScores
	DimensionHits int
	TypeHits      int
}

func (o OpenTextScorer) Modality() Modality { return ModalityOpenText }

func (o OpenTextScorer) Score() (Scores, error) {
	dims := o.Dimensions
	if dims == nil {
		dims = personality.NewDimensionScores()
	}
	primary := dims.Top()
	types := o.Types
	if types == nil {
		types = personality.NewTypeScores(personality.TypesOf(primary))
	}
	for code, v := range types {
		if v > 0 && code.Dimension() != primary {
			return Scores{}, fmt.Errorf("%w: %s scored under %s", ErrDimensionMismatch, code, primary)
		}
	}
	conf := Confidence{KeywordHits: o.DimensionHits + o.TypeHits}
	switch {
	case o.DimensionHits == 0:
		conf.LowConfidence = true
		conf.Reason = "no keyword matched in the dimension questions"
	case o.TypeHits == 0:
		conf.LowConfidence = true
		conf.Reason = "no keyword matched in the type questions"
	}
	return Scores{Dimensions: dims, Types: types, Confidence: conf}, nil
}

// ScoreOpenText runs both classifier phases over the bank in order. The type
// answers are matched against the questions of whichever dimension wins the
// first phase.
func ScoreOpenText(bank *lexicon.Bank, dimensionAnswers, typeAnswers []string) (OpenTextScorer, error) {
	if bank == nil {
		return OpenTextScorer{}, fmt.Errorf("nil question bank")
	}
	if len(dimensionAnswers) != len(bank.DimensionQuestions) {
		return OpenTextScorer{}, fmt.Errorf("%w: %d of %d dimension answers", ErrIncompleteAnswers, len(dimensionAnswers), len(bank.DimensionQuestions))
	}
	var out OpenTextScorer
	out.Dimensions = personality.NewDimensionScores()
	for i, q := range bank.DimensionQuestions {
		partial, hits := classifier.ScoreDimension(dimensionAnswers[i], q)
		out.Dimensions = out.Dimensions.Add(partial)
		out.DimensionHits += hits
	}
	primary := classifier.SelectDimension(out.Dimensions)
	questions := bank.TypeQuestionsFor(primary)
	if len(typeAnswers) != len(questions) {
		return OpenTextScorer{}, fmt.Errorf("%w: %d of %d type answers", ErrIncompleteAnswers, len(typeAnswers), len(questions))
	}
	out.Types = personality.NewTypeScores(personality.TypesOf(primary))
	for i, q := range questions {
		partial, hits := classifier.ScoreType(typeAnswers[i], q, primary)
		out.Types = out.Types.Add(partial)
		out.TypeHits += hits
	}
	return out, nil
}
