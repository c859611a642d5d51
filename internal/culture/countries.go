package culture

import "hugo/internal/personality"

var countries = map[string]Country{
	"DE": {
		Code:       "DE",
		Name:       personality.Localized{"de": "Deutschland", "en": "Germany", "da": "Tyskland"},
		CultureMap: CultureMap{3, 7, 2, 3, 6, 3, 7, 2},
		Hofstede:   Hofstede{35, 67, 66, 65, 83, 40},
	},
	"US": {
		Code:       "US",
		Name:       personality.Localized{"de": "USA", "en": "United States", "da": "USA"},
		CultureMap: CultureMap{2, 5, 8, 2, 3, 2, 5, 1},
		Hofstede:   Hofstede{40, 91, 62, 46, 26, 68},
	},
	"GB": {
		Code:       "GB",
		Name:       personality.Localized{"de": "Großbritannien", "en": "United Kingdom", "da": "Storbritannien"},
		CultureMap: CultureMap{2, 6, 7, 2, 3, 2, 6, 2},
		Hofstede:   Hofstede{35, 89, 66, 35, 51, 69},
	},
	"DK": {
		Code:       "DK",
		Name:       personality.Localized{"de": "Dänemark", "en": "Denmark", "da": "Danmark"},
		CultureMap: CultureMap{2, 7, 6, 1, 7, 2, 6, 3},
		Hofstede:   Hofstede{18, 74, 16, 23, 35, 70},
	},
	"FR": {
		Code:       "FR",
		Name:       personality.Localized{"de": "Frankreich", "en": "France", "da": "Frankrig"},
		CultureMap: CultureMap{6, 7, 1, 7, 4, 4, 8, 7},
		Hofstede:   Hofstede{68, 71, 43, 86, 63, 48},
	},
	"JP": {
		Code:       "JP",
		Name:       personality.Localized{"de": "Japan", "en": "Japan", "da": "Japan"},
		CultureMap: CultureMap{9, 2, 5, 8, 8, 8, 2, 4},
		Hofstede:   Hofstede{54, 46, 95, 92, 88, 42},
	},
	"CN": {
		Code:       "CN",
		Name:       personality.Localized{"de": "China", "en": "China", "da": "Kina"},
		CultureMap: CultureMap{9, 3, 6, 9, 2, 9, 3, 8},
		Hofstede:   Hofstede{80, 20, 66, 30, 87, 24},
	},
	"IN": {
		Code:       "IN",
		Name:       personality.Localized{"de": "Indien", "en": "India", "da": "Indien"},
		CultureMap: CultureMap{8, 4, 5, 9, 3, 7, 4, 9},
		Hofstede:   Hofstede{77, 48, 56, 40, 51, 26},
	},
	"BR": {
		Code:       "BR",
		Name:       personality.Localized{"de": "Brasilien", "en": "Brazil", "da": "Brasilien"},
		CultureMap: CultureMap{7, 5, 7, 8, 4, 8, 5, 9},
		Hofstede:   Hofstede{69, 38, 49, 76, 44, 59},
	},
	"SE": {
		Code:       "SE",
		Name:       personality.Localized{"de": "Schweden", "en": "Sweden", "da": "Sverige"},
		CultureMap: CultureMap{2, 6, 6, 1, 8, 2, 5, 2},
		Hofstede:   Hofstede{31, 71, 5, 29, 53, 78},
	},
	"NO": {
		Code:       "NO",
		Name:       personality.Localized{"de": "Norwegen", "en": "Norway", "da": "Norge"},
		CultureMap: CultureMap{2, 6, 6, 1, 7, 2, 5, 2},
		Hofstede:   Hofstede{31, 69, 8, 50, 35, 55},
	},
	"NL": {
		Code:       "NL",
		Name:       personality.Localized{"de": "Niederlande", "en": "Netherlands", "da": "Holland"},
		CultureMap: CultureMap{2, 8, 6, 2, 6, 2, 7, 2},
		Hofstede:   Hofstede{38, 80, 14, 53, 67, 68},
	},
	"ES": {
		Code:       "ES",
		Name:       personality.Localized{"de": "Spanien", "en": "Spain", "da": "Spanien"},
		CultureMap: CultureMap{6, 5, 6, 6, 5, 6, 6, 8},
		Hofstede:   Hofstede{57, 51, 42, 86, 48, 44},
	},
	"IT": {
		Code:       "IT",
		Name:       personality.Localized{"de": "Italien", "en": "Italy", "da": "Italien"},
		CultureMap: CultureMap{7, 6, 5, 6, 5, 6, 7, 8},
		Hofstede:   Hofstede{50, 76, 70, 75, 61, 30},
	},
}

var readings = map[string]personality.Localized{
	"explicit":      {"de": "Explizite Kommunikation bevorzugt", "en": "Prefers explicit communication", "da": "Foretrækker eksplicit kommunikation"},
	"implicit":      {"de": "Implizite Kommunikation bevorzugt", "en": "Prefers implicit communication", "da": "Foretrækker implicit kommunikation"},
	"direct":        {"de": "Direktes Feedback", "en": "Direct feedback", "da": "Direkte feedback"},
	"indirect":      {"de": "Indirektes Feedback", "en": "Indirect feedback", "da": "Indirekte feedback"},
	"flat":          {"de": "Flache Hierarchien", "en": "Flat hierarchies", "da": "Flade hierarkier"},
	"hierarchical":  {"de": "Ausgeprägte Hierarchien", "en": "Strong hierarchies", "da": "Stærke hierarkier"},
	"consensus":     {"de": "Konsensbasierte Entscheidungen", "en": "Consensus-based decisions", "da": "Konsensusbaserede beslutninger"},
	"topdown":       {"de": "Top-Down Entscheidungen", "en": "Top-down decisions", "da": "Top-down beslutninger"},
	"highpd":        {"de": "Hohe Machtdistanz", "en": "High power distance", "da": "Høj magtdistance"},
	"lowpd":         {"de": "Niedrige Machtdistanz", "en": "Low power distance", "da": "Lav magtdistance"},
	"individualist": {"de": "Individualistisch", "en": "Individualistic", "da": "Individualistisk"},
	"collectivist":  {"de": "Kollektivistisch", "en": "Collectivistic", "da": "Kollektivistisk"},
}
