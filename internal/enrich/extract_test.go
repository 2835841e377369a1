package enrich

import "testing"

func TestExtractEmailsFiltersBlacklist(t *testing.T) {
	text := `Reach us at jane@acme.com or sales@acme.com.
Placeholder: user@example.com. Role inbox: careers@acme.com.
Asset: logo@2x.png@cdn.acme.com tracker@sentry.io`

	emails := extractEmails(text)
	want := []string{"jane@acme.com", "sales@acme.com"}
	if len(emails) != len(want) {
		t.Fatalf("got %v, want %v", emails, want)
	}
	for i := range want {
		if emails[i] != want[i] {
			t.Errorf("emails[%d] = %q, want %q", i, emails[i], want[i])
		}
	}
}

func TestExtractEmailsDeduplicates(t *testing.T) {
	emails := extractEmails("jane@acme.com JANE@ACME.COM jane@acme.com")
	if len(emails) != 1 {
		t.Fatalf("got %d emails, want 1: %v", len(emails), emails)
	}
}

func TestExtractEmailsEmpty(t *testing.T) {
	if got := extractEmails("no addresses here"); got != nil {
		t.Fatalf("got %v, want nil", got)
	}
}

func TestExtractPhonesCapped(t *testing.T) {
	text := "(555) 123-4567 555-234-5678 555.345.6789 555-456-7890"
	phones := extractPhones(text)
	if len(phones) != maxPhones {
		t.Fatalf("got %d phones, want %d: %v", len(phones), maxPhones, phones)
	}
	if phones[0] != "(555) 123-4567" {
		t.Errorf("phones[0] = %q", phones[0])
	}
}

func TestNameFromLocalPart(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"jane.doe", "Jane Doe"},
		{"john_smith", "John Smith"},
		{"bob-jones42", "Bob Jones"},
		{"info", "Info"},
		{"a.b", "Contact"},
		{"j.doe", "Doe"},
		{"", "Contact"},
	}
	for _, tt := range tests {
		if got := nameFromLocalPart(tt.in); got != tt.want {
			t.Errorf("nameFromLocalPart(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
