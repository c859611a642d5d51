// Package profile turns scored answers into a PersonalityProfile. Both
// assessment modalities implement Scorer, so profile construction lives in
// one place.
package profile

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"hugo/internal/personality"
)

var (
	ErrIncompleteAnswers = errors.New("incomplete answers")
	ErrLikertOutOfRange  = errors.New("likert value out of range")
	ErrDimensionMismatch = errors.New("type scores outside primary dimension")
)

// Modality names the assessment variant that produced a profile.
type Modality string

const (
	ModalityOpenText Modality = "open_text"
	ModalityLikert   Modality = "likert"
)

// TopN is the size of the "top types" summary.
const TopN = 3

var timeNow = time.Now

// Scores is what a Scorer hands to Build.
type Scores struct {
	Dimensions  personality.DimensionScores
	Types       personality.TypeScores
	Percentages map[personality.TypeCode]int
	Confidence  Confidence
}

// Scorer is one assessment modality.
type Scorer interface {
	Modality() Modality
	Score() (Scores, error)
}

// Confidence flags results that rest on little or no signal.
type Confidence struct {
	KeywordHits   int    `json:"keyword_hits"`
	LowConfidence bool   `json:"low_confidence"`
	Reason        string `json:"reason,omitempty"`
}

// RankedType is one row of the top-types summary.
type RankedType struct {
	Type       personality.TypeCode `json:"type"`
	Score      float64              `json:"score"`
	Percentage *int                 `json:"percentage,omitempty"`
}

// Profile is the immutable outcome of one completed assessment.
type Profile struct {
	ID               string                       `json:"id,omitempty"`
	RespondentID     string                       `json:"respondent_id,omitempty"`
	Modality         Modality                     `json:"modality"`
	PrimaryDimension personality.Dimension        `json:"primary_dimension"`
	FinalType        personality.TypeCode         `json:"final_type"`
	DimensionScores  personality.DimensionScores  `json:"dimension_scores"`
	TypeScores       personality.TypeScores       `json:"type_scores"`
	Percentages      map[personality.TypeCode]int `json:"percentages,omitempty"`
	TopTypes         []RankedType                 `json:"top_types"`
	Confidence       Confidence                   `json:"confidence"`
	CompletedAt      time.Time                    `json:"completed_at"`
}

// Build scores s and assembles the profile: top dimension first, then the
// top type within it. IDs are left to the caller.
func Build(s Scorer) (Profile, error) {
	if s == nil {
		return Profile{}, fmt.Errorf("nil scorer")
	}
	scores, err := s.Score()
	if err != nil {
		return Profile{}, err
	}
	dims := scores.Dimensions
	if dims == nil {
		dims = scores.Types.ByDimension()
	}
	primary := dims.Top()
	final := scores.Types.TopWithin(personality.TypesOf(primary))
	return Profile{
		Modality:         s.Modality(),
		PrimaryDimension: primary,
		FinalType:        final,
		DimensionScores:  dims.Clone(),
		TypeScores:       scores.Types.Clone(),
		Percentages:      clonePercentages(scores.Percentages),
		TopTypes:         TopTypes(scores.Types, scores.Percentages, TopN),
		Confidence:       scores.Confidence,
		CompletedAt:      timeNow().UTC(),
	}, nil
}

// TopTypes returns the n highest types by raw score, descending. Equal
// scores keep catalog order.
func TopTypes(scores personality.TypeScores, percentages map[personality.TypeCode]int, n int) []RankedType {
	if n <= 0 || len(scores) == 0 {
		return nil
	}
	out := make([]RankedType, 0, len(scores))
	for _, code := range personality.Types {
		v, ok := scores[code]
		if !ok {
			continue
		}
		row := RankedType{Type: code, Score: v}
		if pct, ok := percentages[code]; ok {
			p := pct
			row.Percentage = &p
		}
		out = append(out, row)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if len(out) > n {
		out = out[:n]
	}
	return out
}

func clonePercentages(src map[personality.TypeCode]int) map[personality.TypeCode]int {
	if len(src) == 0 {
		return nil
	}
	out := make(map[personality.TypeCode]int, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
