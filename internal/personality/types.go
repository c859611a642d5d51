// Package personality holds the shared vocabulary of the Hugo model: the four
// dimensions, the twelve type codes and the score vectors built over them.
package personality

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidDimension = errors.New("invalid dimension")
	ErrInvalidTypeCode  = errors.New("invalid type code")
)

// Dimension is one of the four top-level axes.
type Dimension string

const (
	Vision        Dimension = "vision"
	Innovation    Dimension = "innovation"
	Expertise     Dimension = "expertise"
	Collaboration Dimension = "collaboration"
)

// Dimensions lists every dimension in preference order. Ties in any
// selection over dimensions resolve to the earlier entry.
var Dimensions = []Dimension{Vision, Innovation, Expertise, Collaboration}

// Letter returns the single-letter tag used in type codes.
func (d Dimension) Letter() string {
	switch d {
	case Vision:
		return "V"
	case Innovation:
		return "I"
	case Expertise:
		return "E"
	case Collaboration:
		return "C"
	default:
		return ""
	}
}

func (d Dimension) Valid() bool {
	return d.Letter() != ""
}

// Title is the English display name.
func (d Dimension) Title() string {
	switch d {
	case Vision:
		return "Vision"
	case Innovation:
		return "Innovation"
	case Expertise:
		return "Expertise"
	case Collaboration:
		return "Collaboration"
	default:
		return string(d)
	}
}

// ParseDimension accepts either the full name or the letter, case-insensitive.
func ParseDimension(raw string) (Dimension, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	switch s {
	case "v", string(Vision):
		return Vision, nil
	case "i", string(Innovation):
		return Innovation, nil
	case "e", string(Expertise):
		return Expertise, nil
	case "c", string(Collaboration), "connection":
		return Collaboration, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidDimension, raw)
}

// TypeCode is a dimension letter followed by a sub-type number 1..3, e.g. "V2".
type TypeCode string

// Types lists all twelve codes in preference order.
var Types = []TypeCode{
	"V1", "V2", "V3",
	"I1", "I2", "I3",
	"E1", "E2", "E3",
	"C1", "C2", "C3",
}

// ParseTypeCode normalizes and validates a code against ^[VIEC][1-3]$.
func ParseTypeCode(raw string) (TypeCode, error) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if len(s) != 2 {
		return "", fmt.Errorf("%w: %q", ErrInvalidTypeCode, raw)
	}
	if !strings.ContainsRune("VIEC", rune(s[0])) || s[1] < '1' || s[1] > '3' {
		return "", fmt.Errorf("%w: %q", ErrInvalidTypeCode, raw)
	}
	return TypeCode(s), nil
}

// ParseTypeCodes validates a roster, reporting the first bad entry by index.
func ParseTypeCodes(raw []string) ([]TypeCode, error) {
	out := make([]TypeCode, 0, len(raw))
	for i, r := range raw {
		code, err := ParseTypeCode(r)
		if err != nil {
			return nil, fmt.Errorf("member %d: %w", i, err)
		}
		out = append(out, code)
	}
	return out, nil
}

func (t TypeCode) Valid() bool {
	_, err := ParseTypeCode(string(t))
	return err == nil
}

// Dimension derives the dimension from the leading letter.
func (t TypeCode) Dimension() Dimension {
	if len(t) == 0 {
		return ""
	}
	switch t[0] {
	case 'V':
		return Vision
	case 'I':
		return Innovation
	case 'E':
		return Expertise
	case 'C':
		return Collaboration
	}
	return ""
}

// TypesOf returns the three sub-types of d in order.
func TypesOf(d Dimension) []TypeCode {
	l := d.Letter()
	if l == "" {
		return nil
	}
	return []TypeCode{TypeCode(l + "1"), TypeCode(l + "2"), TypeCode(l + "3")}
}
