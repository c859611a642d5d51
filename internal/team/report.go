package team

import (
	"hugo/internal/compat"
	"hugo/internal/personality"
)

// Label grades balance and synergy.
type Label string

const (
	LabelNeedsImprovement Label = "needs_improvement"
	LabelGood             Label = "good"
	LabelExcellent        Label = "excellent"
)

// SizeCategory buckets the roster length.
type SizeCategory string

const (
	SizeSmall   SizeCategory = "small"
	SizeOptimal SizeCategory = "optimal"
	SizeLarge   SizeCategory = "large"
)

// Report is recomputed from a roster on demand and never stored as the
// source of truth. Pairwise metrics are nil below two members.
type Report struct {
	TotalMembers          int                               `json:"total_members"`
	DimensionDistribution map[personality.Dimension]int     `json:"dimension_distribution"`
	DimensionPercentages  map[personality.Dimension]float64 `json:"dimension_percentages"`
	TypeDistribution      map[personality.TypeCode]int      `json:"type_distribution"`
	PresentDimensions     int                               `json:"present_dimensions"`
	Pairs                 PairSummary                       `json:"pairs"`
	AverageCompatibility  *float64                          `json:"average_compatibility,omitempty"`
	Balance               *Balance                          `json:"balance,omitempty"`
	SynergyScore          float64                           `json:"synergy_score"`
	SynergyLabel          Label                             `json:"synergy_label"`
	PotentialConflicts    []Conflict                        `json:"potential_conflicts"`
	Recommendations       []string                          `json:"recommendations"`
	CommunicationTips     []Tip                             `json:"communication_tips"`
	Size                  SizeAnalysis                      `json:"size"`
}

// PairSummary counts every unordered member pair by level.
type PairSummary struct {
	Total    int `json:"total"`
	High     int `json:"high"`
	Moderate int `json:"moderate"`
	Low      int `json:"low"`
}

// Balance measures how evenly the roster covers the four dimensions.
type Balance struct {
	Score            float64 `json:"score"`
	NormalizedStdDev float64 `json:"normalized_std_dev"`
	Label            Label   `json:"label"`
}

// Conflict is a member pair at or below the conflict level.
type Conflict struct {
	A           personality.TypeCode `json:"a"`
	B           personality.TypeCode `json:"b"`
	Members     [2]int               `json:"members"`
	Level       compat.Level         `json:"level"`
	Score       float64              `json:"score"`
	Description string               `json:"description"`
}

type Tip struct {
	Title  string `json:"title"`
	Advice string `json:"advice"`
}

type SizeAnalysis struct {
	Category        SizeCategory `json:"category"`
	OptimalSize     int          `json:"optimal_size"`
	Recommendations []string     `json:"recommendations"`
}
