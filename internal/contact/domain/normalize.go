package domain

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

type serviceRule struct {
	keywords []string
	label    string
}

// Order matters: "Outdoor brand signage" is Signage, not Branding.
var serviceRules = []serviceRule{
	{keywords: []string{"INDOOR", "OUTDOOR"}, label: "Signage"},
	{keywords: []string{"BRAND"}, label: "Branding"},
	{keywords: []string{"WAYFIND"}, label: "Wayfinding"},
	{keywords: []string{"DESIGN"}, label: "Design"},
	{keywords: []string{"CONSULT"}, label: "Consultation"},
}

// NormalizeSubCategory maps a free-text sub-category hint (usually a catalogue
// title from a link) onto the label the contact form offers. The boolean is
// false when no canonical label applies.
func NormalizeSubCategory(category, hint string) (string, bool) {
	s := strings.TrimSpace(hint)
	if category == "" || s == "" {
		return "", false
	}

	switch category {
	case CategoryProject:
		return capitalize(s), true
	case CategoryServices:
		upper := strings.ToUpper(s)
		for _, rule := range serviceRules {
			for _, kw := range rule.keywords {
				if strings.Contains(upper, kw) {
					return rule.label, true
				}
			}
		}
		return "", false
	default:
		return "", false
	}
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError && size <= 1 {
		return strings.ToLower(s)
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}
