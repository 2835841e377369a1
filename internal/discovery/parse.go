package discovery

import (
	"encoding/json"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/internal/model"
)

// ParseError indicates the completion text could not be parsed as a company
// array. It is never retried at this layer; callers decide whether to rerun
// the whole request.
type ParseError struct {
	Reason  string
	Snippet string
}

func (e *ParseError) Error() string {
	return "discovery: " + e.Reason
}

var (
	fencedBlockRe = regexp.MustCompile("```(?:json)?\\s*([\\s\\S]*?)\\s*```")
	bareArrayRe   = regexp.MustCompile(`\[[\s\S]*\]`)
)

// extractJSON locates the JSON array in a completion. Models often wrap the
// payload in a fenced code block; failing that, the first top-level [...]
// span is taken.
func extractJSON(response string) (string, bool) {
	if m := fencedBlockRe.FindStringSubmatch(response); m != nil {
		return m[1], true
	}
	if m := bareArrayRe.FindString(response); m != "" {
		return m, true
	}
	return "", false
}

type rawCompany struct {
	Name          string `json:"name"`
	Website       string `json:"website"`
	Description   string `json:"description"`
	Industry      string `json:"industry"`
	EstimatedSize string `json:"estimated_size"`
}

// parseCompanies converts a completion into normalized companies. Malformed
// individual records are skipped with a warning; an unparseable payload is a
// *ParseError.
func parseCompanies(response, companyType, region string) ([]model.DiscoveredCompany, error) {
	jsonStr, ok := extractJSON(response)
	if !ok {
		return nil, &ParseError{Reason: "no JSON array found in response", Snippet: snippet(response)}
	}

	var records []json.RawMessage
	if err := json.Unmarshal([]byte(jsonStr), &records); err != nil {
		return nil, &ParseError{Reason: "invalid JSON: " + err.Error(), Snippet: snippet(jsonStr)}
	}

	companies := make([]model.DiscoveredCompany, 0, len(records))
	for _, record := range records {
		var raw rawCompany
		if err := json.Unmarshal(record, &raw); err != nil {
			zap.L().Warn("skipping malformed company record", zap.Error(err))
			continue
		}
		companies = append(companies, normalize(raw, companyType, region))
	}

	return companies, nil
}

// normalize applies the defensive defaults: scheme-prefixed website,
// industry falling back to the searched type, region stamped from the input.
func normalize(raw rawCompany, companyType, region string) model.DiscoveredCompany {
	website := strings.TrimSpace(raw.Website)
	if website != "" && !strings.HasPrefix(website, "http://") && !strings.HasPrefix(website, "https://") {
		website = "https://" + website
	}

	name := raw.Name
	if name == "" {
		name = "Unknown"
	}
	industry := raw.Industry
	if industry == "" {
		industry = companyType
	}

	return model.DiscoveredCompany{
		Name:          name,
		Website:       website,
		Description:   raw.Description,
		Industry:      industry,
		Region:        region,
		EstimatedSize: raw.EstimatedSize,
	}
}

func snippet(s string) string {
	if len(s) > 500 {
		return s[:500]
	}
	return s
}
