// Package compat holds the pairwise compatibility table between personality
// types. Lookup is total: authored pairs are matched in either order, equal
// types share one entry and every other pair falls back to a default.
package compat

import (
	"fmt"
	"sort"

	"hugo/internal/personality"
)

// Level buckets a compatibility score.
type Level string

const (
	LevelHigh     Level = "high"
	LevelModerate Level = "moderate"
	LevelLow      Level = "low"
)

const (
	SameTypeScore = 0.80
	DefaultScore  = 0.70

	sameTypeDescription = "natural alignment"
	defaultDescription  = "complementary strengths with some adjustment needed"
)

// LevelFor maps a score onto its level: high from 0.8, moderate from 0.6.
func LevelFor(score float64) Level {
	switch {
	case score >= 0.8:
		return LevelHigh
	case score >= 0.6:
		return LevelModerate
	default:
		return LevelLow
	}
}

// Entry is the outcome of one lookup.
type Entry struct {
	Level       Level   `json:"level"`
	Score       float64 `json:"score"`
	Description string  `json:"description"`
	Authored    bool    `json:"authored"`
}

// Pair is one authored row of the table.
type Pair struct {
	A, B        personality.TypeCode
	Score       float64
	Description string
}

type pairKey struct{ a, b personality.TypeCode }

// Matrix is read-only after construction and safe for concurrent use.
type Matrix struct {
	entries map[pairKey]Entry
}

// NewMatrix indexes pairs. A pair listed twice, in any order, is an error, as
// is a score outside [0,1] or an unknown type.
func NewMatrix(pairs []Pair) (*Matrix, error) {
	m := &Matrix{entries: make(map[pairKey]Entry, len(pairs))}
	for _, p := range pairs {
		if !p.A.Valid() || !p.B.Valid() {
			return nil, fmt.Errorf("%w: %s-%s", personality.ErrInvalidTypeCode, p.A, p.B)
		}
		if p.A == p.B {
			return nil, fmt.Errorf("compat: %s paired with itself", p.A)
		}
		if p.Score < 0 || p.Score > 1 {
			return nil, fmt.Errorf("compat: %s-%s score %.2f outside [0,1]", p.A, p.B, p.Score)
		}
		if _, dup := m.entries[pairKey{p.B, p.A}]; dup {
			return nil, fmt.Errorf("compat: %s-%s listed in both orders", p.A, p.B)
		}
		if _, dup := m.entries[pairKey{p.A, p.B}]; dup {
			return nil, fmt.Errorf("compat: %s-%s listed twice", p.A, p.B)
		}
		m.entries[pairKey{p.A, p.B}] = Entry{
			Level:       LevelFor(p.Score),
			Score:       p.Score,
			Description: p.Description,
			Authored:    true,
		}
	}
	return m, nil
}

// Lookup resolves a pair: same type, then A-B, then B-A, then the default.
func (m *Matrix) Lookup(a, b personality.TypeCode) Entry {
	if a == b {
		return Entry{Level: LevelFor(SameTypeScore), Score: SameTypeScore, Description: sameTypeDescription}
	}
	if m != nil {
		if e, ok := m.entries[pairKey{a, b}]; ok {
			return e
		}
		if e, ok := m.entries[pairKey{b, a}]; ok {
			return e
		}
	}
	return Entry{Level: LevelFor(DefaultScore), Score: DefaultScore, Description: defaultDescription}
}

// Pairs lists the authored rows in catalog order.
func (m *Matrix) Pairs() []Pair {
	if m == nil {
		return nil
	}
	out := make([]Pair, 0, len(m.entries))
	for k, e := range m.entries {
		out = append(out, Pair{A: k.a, B: k.b, Score: e.Score, Description: e.Description})
	}
	rank := make(map[personality.TypeCode]int, len(personality.Types))
	for i, c := range personality.Types {
		rank[c] = i
	}
	sort.Slice(out, func(i, j int) bool {
		if rank[out[i].A] != rank[out[j].A] {
			return rank[out[i].A] < rank[out[j].A]
		}
		return rank[out[i].B] < rank[out[j].B]
	})
	return out
}

var defaultMatrix = mustMatrix(authored)

// Default returns the built-in table.
func Default() *Matrix { return defaultMatrix }

// Lookup queries the built-in table.
func Lookup(a, b personality.TypeCode) Entry { return defaultMatrix.Lookup(a, b) }

func mustMatrix(pairs []Pair) *Matrix {
	m, err := NewMatrix(pairs)
	if err != nil {
		panic(err)
	}
	return m
}
