package enrich

import (
	"testing"

	"github.com/sells-group/leadgen-cli/pkg/hunter"
)

func TestTitleRankOrdering(t *testing.T) {
	ceo := titleRank("CEO & Founder")
	manager := titleRank("Office Manager")
	engineer := titleRank("Software Engineer")

	if ceo >= manager {
		t.Errorf("CEO rank %d should beat manager rank %d", ceo, manager)
	}
	if manager >= engineer {
		t.Errorf("manager rank %d should beat unmatched rank %d", manager, engineer)
	}
	if engineer != len(decisionMakerTitles) {
		t.Errorf("unmatched title rank = %d, want %d", engineer, len(decisionMakerTitles))
	}
}

func TestPickBestContactSeniorityBeatsConfidence(t *testing.T) {
	emails := []hunter.EmailRecord{
		{Value: "eng@acme.com", FirstName: "Eve", LastName: "Eng", Position: "Engineer", Confidence: 99},
		{Value: "ceo@acme.com", FirstName: "Carol", LastName: "Chief", Position: "CEO", Confidence: 40},
	}

	contact := pickBestContact(emails)
	if contact == nil {
		t.Fatal("expected a contact")
	}
	if contact.Email != "ceo@acme.com" {
		t.Errorf("picked %q, want the CEO despite lower confidence", contact.Email)
	}
	if contact.Name != "Carol Chief" {
		t.Errorf("name = %q", contact.Name)
	}
}

func TestPickBestContactConfidenceBreaksTies(t *testing.T) {
	emails := []hunter.EmailRecord{
		{Value: "a@acme.com", Position: "Director of Sales", Confidence: 60},
		{Value: "b@acme.com", Position: "Director of Ops", Confidence: 85},
	}

	contact := pickBestContact(emails)
	if contact.Email != "b@acme.com" {
		t.Errorf("picked %q, want higher-confidence director", contact.Email)
	}
}

func TestPickBestContactDefaults(t *testing.T) {
	contact := pickBestContact([]hunter.EmailRecord{{Value: "x@acme.com"}})
	if contact.Name != "Contact" {
		t.Errorf("name = %q, want Contact", contact.Name)
	}
	if contact.Position != "Decision Maker" {
		t.Errorf("position = %q, want Decision Maker", contact.Position)
	}
}

func TestPickBestContactEmpty(t *testing.T) {
	if pickBestContact(nil) != nil {
		t.Error("expected nil for empty candidates")
	}
}

func TestPickBestContactDoesNotMutateInput(t *testing.T) {
	emails := []hunter.EmailRecord{
		{Value: "z@acme.com", Position: "Engineer"},
		{Value: "a@acme.com", Position: "CEO"},
	}
	pickBestContact(emails)
	if emails[0].Value != "z@acme.com" {
		t.Error("input slice was reordered")
	}
}
