package personality

import "strings"

// Language selects localized text. Danish falls back to English where a
// translation is missing.
type Language string

const (
	German  Language = "de"
	English Language = "en"
	Danish  Language = "da"
)

var Languages = []Language{German, English, Danish}

// ParseLanguage maps arbitrary input onto a supported language, falling back
// to def for anything unknown.
func ParseLanguage(raw string, def Language) Language {
	s := strings.ToLower(strings.TrimSpace(raw))
	if i := strings.IndexAny(s, "-_"); i > 0 {
		s = s[:i]
	}
	for _, l := range Languages {
		if string(l) == s {
			return l
		}
	}
	return def
}

// Localized holds per-language strings.
type Localized map[Language]string

// In returns the text for lang, falling back to English then German.
func (l Localized) In(lang Language) string {
	if s, ok := l[lang]; ok && s != "" {
		return s
	}
	if s, ok := l[English]; ok && s != "" {
		return s
	}
	return l[German]
}

// TypeInfo describes one of the twelve types.
type TypeInfo struct {
	Code      TypeCode  `json:"code"`
	Dimension Dimension `json:"dimension"`
	Name      Localized `json:"name"`
}

var dimensionNames = map[Dimension]Localized{
	Vision:        {German: "Vision", English: "Vision", Danish: "Vision"},
	Innovation:    {German: "Innovation", English: "Innovation", Danish: "Innovation"},
	Expertise:     {German: "Expertise", English: "Expertise", Danish: "Ekspertise"},
	Collaboration: {German: "Kollaboration", English: "Collaboration", Danish: "Samarbejde"},
}

var typeNames = map[TypeCode]Localized{
	"V1": {German: "Der Wegweiser", English: "The Pathfinder"},
	"V2": {German: "Der Entwickler", English: "The Developer"},
	"V3": {German: "Der Organisator", English: "The Organizer"},
	"I1": {German: "Der Pionier", English: "The Pioneer"},
	"I2": {German: "Der Architekt", English: "The Architect"},
	"I3": {German: "Der Inspirator", English: "The Inspirator"},
	"E1": {German: "Der Forscher", English: "The Researcher"},
	"E2": {German: "Der Meister", English: "The Master"},
	"E3": {German: "Der Berater", English: "The Advisor"},
	"C1": {German: "Der Harmonizer", English: "The Harmonizer"},
	"C2": {German: "Der Brückenbauer", English: "The Bridge Builder"},
	"C3": {German: "Der Umsetzer", English: "The Implementer"},
}

// DimensionName returns the localized dimension name.
func DimensionName(d Dimension, lang Language) string {
	if names, ok := dimensionNames[d]; ok {
		return names.In(lang)
	}
	return string(d)
}

// Info returns catalog data for code; ok is false for unknown codes.
func Info(code TypeCode) (TypeInfo, bool) {
	names, ok := typeNames[code]
	if !ok {
		return TypeInfo{}, false
	}
	return TypeInfo{Code: code, Dimension: code.Dimension(), Name: names}, true
}

// Catalog returns all twelve types in preference order.
func Catalog() []TypeInfo {
	out := make([]TypeInfo, 0, len(Types))
	for _, code := range Types {
		info, _ := Info(code)
		out = append(out, info)
	}
	return out
}
