// Package recommend scores team compositions against a project profile and
// ranks candidates by the total a team would reach with them added.
package recommend

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"hugo/internal/compat"
	"hugo/internal/culture"
	"hugo/internal/personality"
)

type ProjectType string

const (
	ProjectInnovation   ProjectType = "innovation"
	ProjectExecution    ProjectType = "execution"
	ProjectClientFacing ProjectType = "client_facing"
	ProjectStrategic    ProjectType = "strategic"
	ProjectResearch     ProjectType = "research"
	ProjectBalanced     ProjectType = "balanced"
)

// Profile is the ideal share of each dimension for a project type.
type Profile map[personality.Dimension]float64

var projectProfiles = map[ProjectType]Profile{
	ProjectInnovation:   {personality.Vision: 0.25, personality.Innovation: 0.40, personality.Expertise: 0.20, personality.Collaboration: 0.15},
	ProjectExecution:    {personality.Vision: 0.15, personality.Innovation: 0.15, personality.Expertise: 0.50, personality.Collaboration: 0.20},
	ProjectClientFacing: {personality.Vision: 0.20, personality.Innovation: 0.15, personality.Expertise: 0.25, personality.Collaboration: 0.40},
	ProjectStrategic:    {personality.Vision: 0.45, personality.Innovation: 0.25, personality.Expertise: 0.20, personality.Collaboration: 0.10},
	ProjectResearch:     {personality.Vision: 0.20, personality.Innovation: 0.30, personality.Expertise: 0.40, personality.Collaboration: 0.10},
	ProjectBalanced:     {personality.Vision: 0.25, personality.Innovation: 0.25, personality.Expertise: 0.25, personality.Collaboration: 0.25},
}

// ParseProjectType accepts the names above; empty means balanced.
func ParseProjectType(raw string) (ProjectType, error) {
	p := ProjectType(strings.ToLower(strings.TrimSpace(raw)))
	if p == "" {
		return ProjectBalanced, nil
	}
	if _, ok := projectProfiles[p]; !ok {
		return "", fmt.Errorf("unknown project type %q", raw)
	}
	return p, nil
}

// ProfileFor returns a copy of the ideal distribution for p.
func ProfileFor(p ProjectType) Profile {
	src, ok := projectProfiles[p]
	if !ok {
		src = projectProfiles[ProjectBalanced]
	}
	out := make(Profile, len(src))
	for d, v := range src {
		out[d] = v
	}
	return out
}

type SizeCategory string

const (
	SizeSmall  SizeCategory = "small"
	SizeMedium SizeCategory = "medium"
	SizeLarge  SizeCategory = "large"
)

var sizeRanges = map[SizeCategory][2]int{
	SizeSmall:  {3, 5},
	SizeMedium: {5, 8},
	SizeLarge:  {8, 12},
}

// ParseSizeCategory accepts small, medium or large; empty means medium.
func ParseSizeCategory(raw string) (SizeCategory, error) {
	s := SizeCategory(strings.ToLower(strings.TrimSpace(raw)))
	if s == "" {
		return SizeMedium, nil
	}
	if _, ok := sizeRanges[s]; !ok {
		return "", fmt.Errorf("unknown team size %q", raw)
	}
	return s, nil
}

// Member is a team member or candidate. Country is optional.
type Member struct {
	ID      string               `json:"id,omitempty"`
	Name    string               `json:"name,omitempty"`
	Type    personality.TypeCode `json:"type"`
	Country string               `json:"country,omitempty"`
}

type Weights struct {
	DimensionBalance  float64
	TypeCompatibility float64
	ProjectFit        float64
	TeamSize          float64
	CulturalFit       float64
	HistoricalSuccess float64
}

var DefaultWeights = Weights{
	DimensionBalance:  0.25,
	TypeCompatibility: 0.25,
	ProjectFit:        0.20,
	TeamSize:          0.10,
	CulturalFit:       0.10,
	HistoricalSuccess: 0.10,
}

// Scores are the factor values in [0,1] and their weighted total.
type Scores struct {
	DimensionBalance  float64 `json:"dimension_balance"`
	TypeCompatibility float64 `json:"type_compatibility"`
	ProjectFit        float64 `json:"project_fit"`
	TeamSize          float64 `json:"team_size"`
	CulturalFit       float64 `json:"cultural_fit"`
	HistoricalSuccess float64 `json:"historical_success"`
	Total             float64 `json:"total"`
}

const (
	DefaultTopN             = 5
	DefaultMissingThreshold = 0.15
	DefaultHistoricalScore  = 0.5
	neutralCulturalFit      = 0.8
	maxCultureVariance      = 25.0
)

// Engine is immutable and safe for concurrent use.
type Engine struct {
	matrix           *compat.Matrix
	weights          Weights
	topN             int
	missingThreshold float64
	historical       float64
}

type Option func(*Engine)

func WithTopN(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.topN = n
		}
	}
}

func WithMissingThreshold(v float64) Option {
	return func(e *Engine) {
		if v >= 0 && v <= 1 {
			e.missingThreshold = v
		}
	}
}

func WithHistoricalScore(v float64) Option {
	return func(e *Engine) {
		if v >= 0 && v <= 1 {
			e.historical = v
		}
	}
}

func WithWeights(w Weights) Option {
	return func(e *Engine) { e.weights = w }
}

func NewEngine(matrix *compat.Matrix, opts ...Option) *Engine {
	if matrix == nil {
		matrix = compat.Default()
	}
	e := &Engine{
		matrix:           matrix,
		weights:          DefaultWeights,
		topN:             DefaultTopN,
		missingThreshold: DefaultMissingThreshold,
		historical:       DefaultHistoricalScore,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Score evaluates a team for the given project and size.
func (e *Engine) Score(team []Member, project ProjectType, size SizeCategory) Scores {
	s := Scores{
		DimensionBalance:  dimensionBalance(team),
		TypeCompatibility: e.typeCompatibility(team),
		ProjectFit:        projectFit(team, project),
		TeamSize:          sizeScore(len(team), size),
		CulturalFit:       culturalFit(team),
		HistoricalSuccess: e.historical,
	}
	w := e.weights
	s.Total = s.DimensionBalance*w.DimensionBalance +
		s.TypeCompatibility*w.TypeCompatibility +
		s.ProjectFit*w.ProjectFit +
		s.TeamSize*w.TeamSize +
		s.CulturalFit*w.CulturalFit +
		s.HistoricalSuccess*w.HistoricalSuccess
	return s
}

// Distribution is the share of members per dimension; empty teams are all 0.
func Distribution(team []Member) map[personality.Dimension]float64 {
	out := make(map[personality.Dimension]float64, len(personality.Dimensions))
	for _, d := range personality.Dimensions {
		out[d] = 0
	}
	if len(team) == 0 {
		return out
	}
	for _, m := range team {
		if d := m.Type.Dimension(); d != "" {
			out[d]++
		}
	}
	for d := range out {
		out[d] /= float64(len(team))
	}
	return out
}

// MissingDimensions lists dimensions whose share is below threshold, in
// V, I, E, C order.
func MissingDimensions(team []Member, threshold float64) []personality.Dimension {
	dist := Distribution(team)
	var out []personality.Dimension
	for _, d := range personality.Dimensions {
		if dist[d] < threshold {
			out = append(out, d)
		}
	}
	return out
}

func (e *Engine) MissingDimensions(team []Member) []personality.Dimension {
	return MissingDimensions(team, e.missingThreshold)
}

// Ranked is one candidate's predicted effect on the team.
type Ranked struct {
	Candidate   Member  `json:"candidate"`
	Current     float64 `json:"current"`
	Predicted   float64 `json:"predicted"`
	Improvement float64 `json:"improvement"`
	Scores      Scores  `json:"scores"`
	FillsGap    bool    `json:"fills_gap"`
}

// RankCandidates adds each candidate to the team in turn and sorts by the
// predicted total, highest first. Equal totals keep input order. topN <= 0
// uses the engine default.
func (e *Engine) RankCandidates(team, candidates []Member, project ProjectType, size SizeCategory, topN int) []Ranked {
	if topN <= 0 {
		topN = e.topN
	}
	current := e.Score(team, project, size).Total
	missing := make(map[personality.Dimension]bool)
	for _, d := range e.MissingDimensions(team) {
		missing[d] = true
	}
	out := make([]Ranked, 0, len(candidates))
	for _, c := range candidates {
		next := make([]Member, 0, len(team)+1)
		next = append(next, team...)
		next = append(next, c)
		scores := e.Score(next, project, size)
		out = append(out, Ranked{
			Candidate:   c,
			Current:     current,
			Predicted:   scores.Total,
			Improvement: scores.Total - current,
			Scores:      scores,
			FillsGap:    missing[c.Type.Dimension()],
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Predicted > out[j].Predicted })
	if len(out) > topN {
		out = out[:topN]
	}
	return out
}

// dimensionBalance is 1 at an even 25% split and 0 at maximal deviation.
func dimensionBalance(team []Member) float64 {
	if len(team) == 0 {
		return 0
	}
	var dev float64
	for _, share := range Distribution(team) {
		dev += math.Abs(share - 0.25)
	}
	return clamp01(1 - (dev/4)/0.75)
}

func (e *Engine) typeCompatibility(team []Member) float64 {
	if len(team) < 2 {
		return 1
	}
	var sum float64
	var pairs int
	for i := range team {
		for j := i + 1; j < len(team); j++ {
			sum += e.matrix.Lookup(team[i].Type, team[j].Type).Score
			pairs++
		}
	}
	return sum / float64(pairs)
}

// projectFit is the cosine similarity between the team's distribution and
// the project's ideal profile.
func projectFit(team []Member, project ProjectType) float64 {
	if len(team) == 0 {
		return 0
	}
	ideal := ProfileFor(project)
	actual := Distribution(team)
	var dot, ni, na float64
	for _, d := range personality.Dimensions {
		dot += ideal[d] * actual[d]
		ni += ideal[d] * ideal[d]
		na += actual[d] * actual[d]
	}
	if ni == 0 || na == 0 {
		return 0
	}
	return clamp01(dot / (math.Sqrt(ni) * math.Sqrt(na)))
}

func sizeScore(n int, size SizeCategory) float64 {
	r, ok := sizeRanges[size]
	if !ok {
		r = sizeRanges[SizeMedium]
	}
	lo, hi := r[0], r[1]
	switch {
	case n >= lo && n <= hi:
		return 1
	case n < lo:
		return clamp01(float64(n) / float64(lo))
	default:
		excess := float64(n-hi) / float64(hi)
		return clamp01(1 - math.Pow(excess, 1.5))
	}
}

// culturalFit falls to 0 as Culture Map variance approaches 25. Teams with
// fewer than two known countries score a neutral 0.8.
func culturalFit(team []Member) float64 {
	var known []culture.Country
	for _, m := range team {
		if m.Country == "" {
			continue
		}
		if c, err := culture.Lookup(m.Country); err == nil {
			known = append(known, c)
		}
	}
	if len(known) < 2 {
		return neutralCulturalFit
	}
	return 1 - math.Min(1, culture.Variance(known)/maxCultureVariance)
}

func clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v) || v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
