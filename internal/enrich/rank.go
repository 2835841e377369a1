package enrich

import (
	"sort"
	"strings"

	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/pkg/hunter"
)

// decisionMakerTitles ranks seniority keywords in priority order. The index
// of the first keyword found in a candidate's position is their title rank;
// no match ranks below every keyword.
var decisionMakerTitles = []string{
	"ceo", "chief executive", "founder", "co-founder", "owner",
	"president", "director", "vp", "vice president",
	"managing", "manager", "head", "lead", "partner",
}

// titleRank returns the rank of a position string: the index of the first
// matching keyword, or len(decisionMakerTitles) when none match.
func titleRank(position string) int {
	position = strings.ToLower(position)
	for i, title := range decisionMakerTitles {
		if strings.Contains(position, title) {
			return i
		}
	}
	return len(decisionMakerTitles)
}

// pickBestContact selects the most senior-sounding candidate, breaking ties
// by confidence. Returns nil for an empty candidate list.
func pickBestContact(emails []hunter.EmailRecord) *model.Contact {
	if len(emails) == 0 {
		return nil
	}

	ranked := make([]hunter.EmailRecord, len(emails))
	copy(ranked, emails)

	sort.SliceStable(ranked, func(i, j int) bool {
		ri, rj := titleRank(ranked[i].Position), titleRank(ranked[j].Position)
		if ri != rj {
			return ri < rj
		}
		return ranked[i].Confidence > ranked[j].Confidence
	})

	best := ranked[0]

	name := strings.TrimSpace(best.FirstName + " " + best.LastName)
	if name == "" {
		name = "Contact"
	}
	position := best.Position
	if position == "" {
		position = "Decision Maker"
	}

	return &model.Contact{
		Name:            name,
		Email:           best.Value,
		Position:        position,
		ConfidenceScore: best.Confidence,
		LinkedInURL:     best.LinkedIn,
		Phone:           best.PhoneNumber,
	}
}
