package outreach

import (
	"strings"

	"github.com/sells-group/leadgen-cli/internal/model"
)

// DefaultTemplate is the body used when no custom template is supplied.
// Placeholders use the {{key}} form and unknown keys are left untouched.
const DefaultTemplate = `Hi {{contact_name}},

I came across {{company_name}} while researching {{company_type}} companies in {{region}} and wanted to reach out.

I'd love to learn more about your work and explore if there might be any opportunities for collaboration.

Would you be open to a brief conversation?

Best regards,
{{sender_name}}
`

// DefaultSubject is the subject line used when no custom subject is supplied.
const DefaultSubject = "Quick Introduction - {{sender_name}} + {{company_name}}"

// renderTemplate substitutes {{key}} placeholders with their values. A nil
// value renders as the empty string.
func renderTemplate(text string, variables map[string]string) string {
	for key, value := range variables {
		text = strings.ReplaceAll(text, "{{"+key+"}}", value)
	}
	return text
}

// templateVariables builds the substitution set for one company. Extra
// entries override the standard set.
func templateVariables(company model.EnrichedCompany, companyType, senderName string, extra map[string]string) map[string]string {
	vars := map[string]string{
		"company_name":        company.CompanyName,
		"company_type":        companyType,
		"region":              company.Region,
		"sender_name":         senderName,
		"company_description": company.Description,
	}
	if company.Contact != nil {
		vars["contact_name"] = company.Contact.FirstName()
		vars["contact_position"] = company.Contact.Position
	} else {
		vars["contact_name"] = "there"
		vars["contact_position"] = ""
	}
	for k, v := range extra {
		vars[k] = v
	}
	return vars
}
