package profile

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"hugo/internal/lexicon"
	"hugo/internal/personality"
)

// MaxTypeScore is the highest raw score one type can reach on the battery:
// three statements at five points each.
const MaxTypeScore = 15

// LikertScorer sums each answer straight into the type its statement is
// tagged with.
type LikertScorer struct {
	Battery      lexicon.Likert
	Answers      map[string]int
	AllowPartial bool
}

func (l LikertScorer) Modality() Modality { return ModalityLikert }

func (l LikertScorer) Score() (Scores, error) {
	known := make(map[string]personality.TypeCode, len(l.Battery.Statements))
	for _, s := range l.Battery.Statements {
		known[s.ID] = s.Type
	}
	lo, hi := l.Battery.MinValue(), l.Battery.MaxValue()
	for id, v := range l.Answers {
		if _, ok := known[id]; !ok {
			return Scores{}, fmt.Errorf("%w: %s", lexicon.ErrUnknownQuestion, id)
		}
		if v < lo || v > hi {
			return Scores{}, fmt.Errorf("%w: %s=%d not in %d..%d", ErrLikertOutOfRange, id, v, lo, hi)
		}
	}
	if !l.AllowPartial && len(l.Answers) < len(known) {
		return Scores{}, fmt.Errorf("%w: %d of %d statements answered", ErrIncompleteAnswers, len(l.Answers), len(known))
	}
	if len(l.Answers) == 0 {
		return Scores{}, fmt.Errorf("%w: no statements answered", ErrIncompleteAnswers)
	}

	types := personality.NewTypeScores(personality.Types)
	for id, v := range l.Answers {
		types[known[id]] += float64(v)
	}
	percentages := make(map[personality.TypeCode]int, len(types))
	for code, v := range types {
		percentages[code] = Percentage(v)
	}
	return Scores{
		Dimensions:  types.ByDimension(),
		Types:       types,
		Percentages: percentages,
		Confidence:  likertConfidence(l.Answers),
	}, nil
}

// Percentage normalizes a raw type score against MaxTypeScore, rounding half
// up and clamping to 0..100.
func Percentage(raw float64) int {
	if raw <= 0 {
		return 0
	}
	pct := decimal.NewFromFloat(raw).
		Div(decimal.NewFromInt(MaxTypeScore)).
		Mul(decimal.NewFromInt(100)).
		Round(0).
		IntPart()
	if pct > 100 {
		return 100
	}
	return int(pct)
}

func likertConfidence(answers map[string]int) Confidence {
	conf := Confidence{}
	first, flat := 0, true
	ids := make([]string, 0, len(answers))
	for id := range answers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for i, id := range ids {
		if i == 0 {
			first = answers[id]
			continue
		}
		if answers[id] != first {
			flat = false
			break
		}
	}
	if flat && len(ids) > 1 {
		conf.LowConfidence = true
		conf.Reason = "every statement received the same value"
	}
	return conf
}

// LikertProgress describes how far a respondent is through the battery.
type LikertProgress struct {
	Total      int  `json:"total"`
	Answered   int  `json:"answered"`
	Remaining  int  `json:"remaining"`
	Percentage int  `json:"percentage"`
	Complete   bool `json:"complete"`
}

// Progress counts answers that belong to the battery. Unknown ids are ignored.
func Progress(battery lexicon.Likert, answers map[string]int) LikertProgress {
	total := len(battery.Statements)
	answered := 0
	for _, s := range battery.Statements {
		if _, ok := answers[s.ID]; ok {
			answered++
		}
	}
	p := LikertProgress{Total: total, Answered: answered, Remaining: total - answered}
	if total > 0 {
		p.Percentage = int(decimal.NewFromInt(int64(answered)).
			Div(decimal.NewFromInt(int64(total))).
			Mul(decimal.NewFromInt(100)).
			Round(0).
			IntPart())
	}
	p.Complete = total > 0 && answered == total
	return p
}
