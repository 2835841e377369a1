// Package model defines the value types passed between pipeline stages.
package model

import "strings"

// DiscoveredCompany is a candidate company produced by the discovery stage.
// Immutable after creation; all fields are free text except Website, which
// is normalized to an absolute URL with scheme.
type DiscoveredCompany struct {
	Name          string `json:"name"`
	Website       string `json:"website"`
	Description   string `json:"description"`
	Industry      string `json:"industry"`
	Region        string `json:"region"`
	EstimatedSize string `json:"estimated_size"`
}

// Contact is the single best contact resolved for a company. The pipeline
// never carries more than one contact per company past enrichment.
type Contact struct {
	Name            string  `json:"name"`
	Email           string  `json:"email"`
	Position        string  `json:"position"`
	ConfidenceScore float64 `json:"confidence_score"`
	LinkedInURL     string  `json:"linkedin_url,omitempty"`
	Phone           string  `json:"phone,omitempty"`
}

// FirstName returns the leading name segment, or "there" when empty.
// Used as the greeting in outreach templates.
func (c Contact) FirstName() string {
	fields := strings.Fields(c.Name)
	if len(fields) == 0 {
		return "there"
	}
	return fields[0]
}

// EnrichedCompany is a company after contact enrichment. A nil Contact means
// no usable contact was found, which is a valid terminal state, not an error.
type EnrichedCompany struct {
	CompanyName string   `json:"company_name"`
	Website     string   `json:"website"`
	Description string   `json:"description"`
	Industry    string   `json:"industry"`
	Region      string   `json:"region"`
	Contact     *Contact `json:"contact,omitempty"`
}

// HasContact reports whether the company has a contact with an email address.
func (e EnrichedCompany) HasContact() bool {
	return e.Contact != nil && e.Contact.Email != ""
}

// Enriched wraps a discovered company into an EnrichedCompany without a
// contact. Used both as the no-contact terminal state and as the fallback
// when enrichment fails for an individual company.
func Enriched(c DiscoveredCompany) EnrichedCompany {
	return EnrichedCompany{
		CompanyName: c.Name,
		Website:     c.Website,
		Description: c.Description,
		Industry:    c.Industry,
		Region:      c.Region,
	}
}

// EmailResult records the outcome of a single outreach attempt. Created once
// per attempt and never mutated.
type EmailResult struct {
	Success      bool   `json:"success"`
	Recipient    string `json:"recipient"`
	CompanyName  string `json:"company_name"`
	ErrorMessage string `json:"error_message,omitempty"`
}
