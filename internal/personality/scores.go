package personality

// DimensionScores maps each dimension to a non-negative accumulated score.
type DimensionScores map[Dimension]float64

// TypeScores maps type codes to a non-negative accumulated score.
type TypeScores map[TypeCode]float64

// NewDimensionScores returns a vector with every dimension present at zero.
func NewDimensionScores() DimensionScores {
	out := make(DimensionScores, len(Dimensions))
	for _, d := range Dimensions {
		out[d] = 0
	}
	return out
}

// NewTypeScores returns a zeroed vector over the given codes.
func NewTypeScores(codes []TypeCode) TypeScores {
	out := make(TypeScores, len(codes))
	for _, c := range codes {
		out[c] = 0
	}
	return out
}

// Add returns the element-wise sum; neither input is modified. Negative
// partials are ignored so the running vector never decreases.
func (s DimensionScores) Add(partial DimensionScores) DimensionScores {
	out := NewDimensionScores()
	for d, v := range s {
		out[d] = v
	}
	for d, v := range partial {
		if v > 0 {
			out[d] += v
		}
	}
	return out
}

func (s DimensionScores) Clone() DimensionScores {
	out := make(DimensionScores, len(s))
	for d, v := range s {
		out[d] = v
	}
	return out
}

func (s DimensionScores) Total() float64 {
	var sum float64
	for _, v := range s {
		sum += v
	}
	return sum
}

// Top returns the highest-scoring dimension. Equal scores resolve in
// Dimensions order, so an all-zero vector yields Vision.
func (s DimensionScores) Top() Dimension {
	best := Dimensions[0]
	bestScore := s[best]
	for _, d := range Dimensions[1:] {
		if s[d] > bestScore {
			best, bestScore = d, s[d]
		}
	}
	return best
}

// Add returns the element-wise sum; neither input is modified.
func (s TypeScores) Add(partial TypeScores) TypeScores {
	out := make(TypeScores, len(s)+len(partial))
	for t, v := range s {
		out[t] = v
	}
	for t, v := range partial {
		if v > 0 {
			out[t] += v
		} else if _, ok := out[t]; !ok {
			out[t] = 0
		}
	}
	return out
}

func (s TypeScores) Clone() TypeScores {
	out := make(TypeScores, len(s))
	for t, v := range s {
		out[t] = v
	}
	return out
}

func (s TypeScores) Total() float64 {
	var sum float64
	for _, v := range s {
		sum += v
	}
	return sum
}

// TopWithin returns the best code among candidates, ties resolving to the
// earlier candidate.
func (s TypeScores) TopWithin(candidates []TypeCode) TypeCode {
	if len(candidates) == 0 {
		return ""
	}
	best := candidates[0]
	bestScore := s[best]
	for _, c := range candidates[1:] {
		if s[c] > bestScore {
			best, bestScore = c, s[c]
		}
	}
	return best
}

// ByDimension folds type scores into their dimensions.
func (s TypeScores) ByDimension() DimensionScores {
	out := NewDimensionScores()
	for t, v := range s {
		if d := t.Dimension(); d != "" {
			out[d] += v
		}
	}
	return out
}
