package enrich

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	digitsRe    = regexp.MustCompile(`\d+`)
	separatorRe = regexp.MustCompile(`[._\-]`)
	titleCaser  = cases.Title(language.English)
)

// nameFromLocalPart derives a display name from an email local part:
// digits stripped, split on dot/underscore/dash, single-letter fragments
// dropped, first two segments capitalized and joined.
func nameFromLocalPart(localPart string) string {
	cleaned := digitsRe.ReplaceAllString(localPart, "")
	parts := separatorRe.Split(cleaned, -1)

	var segments []string
	for _, p := range parts {
		if len(p) > 1 {
			segments = append(segments, titleCaser.String(strings.ToLower(p)))
		}
	}

	switch {
	case len(segments) >= 2:
		return segments[0] + " " + segments[1]
	case len(segments) == 1:
		return segments[0]
	default:
		return "Contact"
	}
}

// localPart returns everything before the @ of an email address.
func localPart(email string) string {
	if i := strings.Index(email, "@"); i >= 0 {
		return email[:i]
	}
	return email
}
