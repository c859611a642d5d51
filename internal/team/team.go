// Package team analyzes rosters of personality types: dimension spread,
// pairwise compatibility, balance, conflicts and rule-based advice. Analysis
// is pure and synchronous; fetching the roster is the caller's job.
package team

import (
	"math"
	"math/rand/v2"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"hugo/internal/compat"
	"hugo/internal/personality"
)

const (
	DefaultOptimalSize = 6
	smallTeam          = 3
	largeTeam          = 10
	dominantShare      = 0.6
)

// PreviewMode selects how Preview treats the floor term.
type PreviewMode string

const (
	PreviewDeterministic PreviewMode = "deterministic"
	PreviewApproximate   PreviewMode = "approximate"
)

// ParsePreviewMode maps an empty string to deterministic.
func ParsePreviewMode(raw string) (PreviewMode, bool) {
	switch PreviewMode(strings.ToLower(strings.TrimSpace(raw))) {
	case "", PreviewDeterministic:
		return PreviewDeterministic, true
	case PreviewApproximate:
		return PreviewApproximate, true
	default:
		return "", false
	}
}

// Analyzer is immutable and safe for concurrent use.
type Analyzer struct {
	matrix        *compat.Matrix
	optimalSize   int
	conflictLevel compat.Level
	previewMode   PreviewMode
	jitter        func() float64
}

type Option func(*Analyzer)

func WithOptimalSize(n int) Option {
	return func(a *Analyzer) {
		if n > 0 {
			a.optimalSize = n
		}
	}
}

// WithConflictLevel sets the highest level that still counts as a conflict.
func WithConflictLevel(l compat.Level) Option {
	return func(a *Analyzer) {
		if l == compat.LevelLow || l == compat.LevelModerate {
			a.conflictLevel = l
		}
	}
}

func WithPreviewMode(m PreviewMode) Option {
	return func(a *Analyzer) {
		if m == PreviewDeterministic || m == PreviewApproximate {
			a.previewMode = m
		}
	}
}

// WithJitter replaces the random source of approximate previews. fn must
// return values in [0,1).
func WithJitter(fn func() float64) Option {
	return func(a *Analyzer) {
		if fn != nil {
			a.jitter = fn
		}
	}
}

func NewAnalyzer(matrix *compat.Matrix, opts ...Option) *Analyzer {
	if matrix == nil {
		matrix = compat.Default()
	}
	a := &Analyzer{
		matrix:        matrix,
		optimalSize:   DefaultOptimalSize,
		conflictLevel: compat.LevelLow,
		previewMode:   PreviewDeterministic,
		jitter:        rand.Float64,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Analyzer) OptimalSize() int { return a.optimalSize }

func (a *Analyzer) PreviewMode() PreviewMode { return a.previewMode }

var defaultAnalyzer = NewAnalyzer(nil)

// Analyze runs the default analyzer.
func Analyze(members []personality.TypeCode) Report {
	return defaultAnalyzer.Analyze(members)
}

// Analyze builds the full report. Codes outside the catalog are counted in
// the type distribution but ignored by dimension metrics.
func (a *Analyzer) Analyze(members []personality.TypeCode) Report {
	n := len(members)
	r := Report{
		TotalMembers:          n,
		DimensionDistribution: make(map[personality.Dimension]int, len(personality.Dimensions)),
		DimensionPercentages:  make(map[personality.Dimension]float64, len(personality.Dimensions)),
		TypeDistribution:      make(map[personality.TypeCode]int),
		PotentialConflicts:    []Conflict{},
	}
	for _, d := range personality.Dimensions {
		r.DimensionDistribution[d] = 0
	}
	for _, code := range members {
		r.TypeDistribution[code]++
		if d := code.Dimension(); d != "" {
			r.DimensionDistribution[d]++
		}
	}
	for _, d := range personality.Dimensions {
		r.DimensionPercentages[d] = percent(r.DimensionDistribution[d], n)
		if r.DimensionDistribution[d] > 0 {
			r.PresentDimensions++
		}
	}
	r.Size = a.sizeAnalysis(n)

	if n >= 2 {
		var sum float64
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				e := a.matrix.Lookup(members[i], members[j])
				sum += e.Score
				r.Pairs.Total++
				switch e.Level {
				case compat.LevelHigh:
					r.Pairs.High++
				case compat.LevelModerate:
					r.Pairs.Moderate++
				default:
					r.Pairs.Low++
				}
				if a.isConflict(e.Level) {
					r.PotentialConflicts = append(r.PotentialConflicts, Conflict{
						A:           members[i],
						B:           members[j],
						Members:     [2]int{i, j},
						Level:       e.Level,
						Score:       e.Score,
						Description: e.Description,
					})
				}
			}
		}
		avg := sum / float64(r.Pairs.Total)
		r.AverageCompatibility = &avg
		r.Balance = balance(r.DimensionDistribution, n, r.PresentDimensions)
		r.SynergyScore = clamp01(0.7*avg + 0.3*float64(r.PresentDimensions)/4)
	}
	r.SynergyLabel = synergyLabel(r.SynergyScore)
	r.Recommendations = recommendations(r, a.conflictLevel)
	r.CommunicationTips = communicationTips(r, a.conflictLevel)
	return r
}

func (a *Analyzer) isConflict(l compat.Level) bool {
	if l == compat.LevelLow {
		return true
	}
	return a.conflictLevel == compat.LevelModerate && l == compat.LevelModerate
}

func (a *Analyzer) sizeAnalysis(n int) SizeAnalysis {
	s := SizeAnalysis{OptimalSize: a.optimalSize}
	switch {
	case n < smallTeam:
		s.Category = SizeSmall
		s.Recommendations = []string{
			"Consider adding members to cover more dimensions",
			"Small teams can move fast but risk blind spots",
		}
	case n > largeTeam:
		s.Category = SizeLarge
		s.Recommendations = []string{
			"Consider splitting into sub-teams with clear ownership",
			"Large teams need explicit communication structures",
		}
	default:
		s.Category = SizeOptimal
		s.Recommendations = []string{"Team size supports effective collaboration"}
	}
	return s
}

// balance grades the spread of counts around the even split n/4.
func balance(dist map[personality.Dimension]int, n, present int) *Balance {
	mean := float64(n) / float64(len(personality.Dimensions))
	var sq float64
	for _, d := range personality.Dimensions {
		diff := float64(dist[d]) - mean
		sq += diff * diff
	}
	std := math.Sqrt(sq / float64(len(personality.Dimensions)))
	var cv float64
	if mean > 0 {
		cv = std / mean
	}
	b := &Balance{Score: float64(present) / 4, NormalizedStdDev: cv}
	switch {
	case cv > 0.8 || present < 3:
		b.Label = LabelNeedsImprovement
	case cv > 0.5 || present < 4:
		b.Label = LabelGood
	default:
		b.Label = LabelExcellent
	}
	return b
}

func synergyLabel(score float64) Label {
	switch {
	case score < 0.6:
		return LabelNeedsImprovement
	case score < 0.8:
		return LabelGood
	default:
		return LabelExcellent
	}
}

// Preview estimates synergy for a provisional roster from dimension spread
// and size alone. Approximate previews replace the 0.1 floor with random
// jitter in [0,0.1) and are flagged as such.
type Preview struct {
	Score       float64     `json:"score"`
	Balance     float64     `json:"balance"`
	SizeFactor  float64     `json:"size_factor"`
	Mode        PreviewMode `json:"mode"`
	Approximate bool        `json:"approximate"`
}

func (a *Analyzer) Preview(members []personality.TypeCode) Preview {
	return a.PreviewWith(members, a.previewMode)
}

func (a *Analyzer) PreviewWith(members []personality.TypeCode, mode PreviewMode) Preview {
	if mode != PreviewApproximate {
		mode = PreviewDeterministic
	}
	p := Preview{Mode: mode, Approximate: mode == PreviewApproximate}
	if len(members) == 0 {
		return p
	}
	seen := make(map[personality.Dimension]bool, len(personality.Dimensions))
	for _, code := range members {
		if d := code.Dimension(); d != "" {
			seen[d] = true
		}
	}
	p.Balance = float64(len(seen)) / 4
	p.SizeFactor = math.Min(float64(len(members))/float64(a.optimalSize), 1)
	floor := 0.1
	if p.Approximate {
		floor = a.jitter() * 0.1
	}
	p.Score = math.Min(p.Balance*p.SizeFactor*0.9+floor, 1)
	return p
}

// Fingerprint identifies a roster independent of member order.
func Fingerprint(members []personality.TypeCode) string {
	codes := make([]string, len(members))
	for i, c := range members {
		codes[i] = string(c)
	}
	sort.Strings(codes)
	return strings.Join(codes, ",")
}

func percent(count, total int) float64 {
	if total <= 0 {
		return 0
	}
	return decimal.NewFromInt(int64(count)).
		Div(decimal.NewFromInt(int64(total))).
		Mul(decimal.NewFromInt(100)).
		Round(1).
		InexactFloat64()
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
