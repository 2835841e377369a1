package enrich

import (
	"regexp"
	"strings"
)

var emailRe = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)

// emailBlacklist filters obvious non-personal addresses: placeholder
// domains, role inboxes, asset filenames, and tracking/platform domains.
var emailBlacklist = []string{
	"example.com", "domain.com", "email.com", "test.com",
	"noreply", "no-reply", "donotreply",
	"careers@", "jobs@", "newsletter@", "unsubscribe@",
	".png", ".jpg", ".gif", "sentry.io", "wixpress.com",
}

// extractEmails scans text for email addresses, dropping blacklisted
// matches and duplicates while preserving first-seen order.
func extractEmails(text string) []string {
	matches := emailRe.FindAllString(text, -1)

	seen := make(map[string]bool, len(matches))
	var emails []string
	for _, m := range matches {
		lower := strings.ToLower(m)
		if seen[lower] {
			continue
		}
		blacklisted := false
		for _, b := range emailBlacklist {
			if strings.Contains(lower, b) {
				blacklisted = true
				break
			}
		}
		if blacklisted {
			continue
		}
		seen[lower] = true
		emails = append(emails, m)
	}
	return emails
}

// maxPhones caps how many phone numbers are carried per company.
const maxPhones = 3

var phonePatterns = []*regexp.Regexp{
	// North-American 10-digit with optional parens/dashes.
	regexp.MustCompile(`\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`),
	// +1 prefixed.
	regexp.MustCompile(`\+1[-.\s]?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`),
}

// extractPhones scans text for phone numbers, capped to maxPhones unique
// matches in first-seen order.
func extractPhones(text string) []string {
	seen := make(map[string]bool)
	var phones []string
	for _, re := range phonePatterns {
		for _, m := range re.FindAllString(text, -1) {
			if seen[m] {
				continue
			}
			seen[m] = true
			phones = append(phones, m)
			if len(phones) >= maxPhones {
				return phones
			}
		}
	}
	return phones
}
