// Package culture holds per-country cultural profiles: Erin Meyer's eight
// Culture Map scales (0..10) and Hofstede's six dimensions (0..100).
package culture

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"hugo/internal/personality"
)

var ErrUnknownCountry = errors.New("unknown country")

// Scale names one Culture Map axis.
type Scale string

const (
	Communicating Scale = "communicating"
	Evaluating    Scale = "evaluating"
	Persuading    Scale = "persuading"
	Leading       Scale = "leading"
	Deciding      Scale = "deciding"
	Trusting      Scale = "trusting"
	Disagreeing   Scale = "disagreeing"
	Scheduling    Scale = "scheduling"
)

var Scales = []Scale{Communicating, Evaluating, Persuading, Leading, Deciding, Trusting, Disagreeing, Scheduling}

// CultureMap is one country's position on each scale.
type CultureMap struct {
	Communicating int `json:"communicating"`
	Evaluating    int `json:"evaluating"`
	Persuading    int `json:"persuading"`
	Leading       int `json:"leading"`
	Deciding      int `json:"deciding"`
	Trusting      int `json:"trusting"`
	Disagreeing   int `json:"disagreeing"`
	Scheduling    int `json:"scheduling"`
}

// Values returns the scales in Scales order.
func (c CultureMap) Values() []float64 {
	return []float64{
		float64(c.Communicating), float64(c.Evaluating), float64(c.Persuading), float64(c.Leading),
		float64(c.Deciding), float64(c.Trusting), float64(c.Disagreeing), float64(c.Scheduling),
	}
}

type Hofstede struct {
	PowerDistance        int `json:"power_distance"`
	Individualism        int `json:"individualism"`
	Masculinity          int `json:"masculinity"`
	UncertaintyAvoidance int `json:"uncertainty_avoidance"`
	LongTermOrientation  int `json:"long_term_orientation"`
	Indulgence           int `json:"indulgence"`
}

// Country is one entry of the catalog.
type Country struct {
	Code       string                `json:"code"`
	Name       personality.Localized `json:"name"`
	CultureMap CultureMap            `json:"culture_map"`
	Hofstede   Hofstede              `json:"hofstede"`
}

// Lookup finds a country by ISO code, ignoring case and surrounding space.
func Lookup(code string) (Country, error) {
	key := strings.ToUpper(strings.TrimSpace(code))
	c, ok := countries[key]
	if !ok {
		return Country{}, fmt.Errorf("%w: %q", ErrUnknownCountry, code)
	}
	return c, nil
}

// Codes lists every known country code, sorted.
func Codes() []string {
	out := make([]string, 0, len(countries))
	for code := range countries {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}

// All returns the catalog sorted by code.
func All() []Country {
	codes := Codes()
	out := make([]Country, 0, len(codes))
	for _, code := range codes {
		out = append(out, countries[code])
	}
	return out
}

// Interpretation is a short reading of a country's profile.
type Interpretation struct {
	Communicating string `json:"communicating"`
	Evaluating    string `json:"evaluating"`
	Leading       string `json:"leading"`
	Deciding      string `json:"deciding"`
	PowerDistance string `json:"power_distance"`
	Individualism string `json:"individualism"`
}

// Interpret renders six one-line readings of the country in lang.
func Interpret(code string, lang personality.Language) (Interpretation, error) {
	c, err := Lookup(code)
	if err != nil {
		return Interpretation{}, err
	}
	pick := func(cond bool, yes, no personality.Localized) string {
		if cond {
			return yes.In(lang)
		}
		return no.In(lang)
	}
	return Interpretation{
		Communicating: pick(c.CultureMap.Communicating < 5, readings["explicit"], readings["implicit"]),
		Evaluating:    pick(c.CultureMap.Evaluating > 5, readings["direct"], readings["indirect"]),
		Leading:       pick(c.CultureMap.Leading < 5, readings["flat"], readings["hierarchical"]),
		Deciding:      pick(c.CultureMap.Deciding > 5, readings["consensus"], readings["topdown"]),
		PowerDistance: pick(c.Hofstede.PowerDistance > 50, readings["highpd"], readings["lowpd"]),
		Individualism: pick(c.Hofstede.Individualism > 50, readings["individualist"], readings["collectivist"]),
	}, nil
}

// Variance is the mean, over the Culture Map scales, of the population
// variance across the given countries. Fewer than two countries yield 0.
func Variance(members []Country) float64 {
	if len(members) < 2 {
		return 0
	}
	rows := make([][]float64, len(members))
	for i, m := range members {
		rows[i] = m.CultureMap.Values()
	}
	n := float64(len(rows))
	var total float64
	for i := range Scales {
		var sum float64
		for _, r := range rows {
			sum += r[i]
		}
		mean := sum / n
		var sq float64
		for _, r := range rows {
			d := r[i] - mean
			sq += d * d
		}
		total += sq / n
	}
	return total / float64(len(Scales))
}
