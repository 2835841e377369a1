package enrich

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/pkg/llm"
)

// contactPaths are the pages most likely to list people, tried in order
// after the homepage.
var contactPaths = []string{
	"/contact", "/contact-us", "/about", "/about-us",
	"/team", "/our-team", "/leadership", "/management",
}

// maxScrapeChars bounds how much page text is fed to the model.
const maxScrapeChars = 15000

var (
	tagRe        = regexp.MustCompile(`<[^>]*>`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// ScrapeEnricher resolves contacts by crawling a company's public pages and
// extracting addresses directly. It spends no contact-API credits; when a
// page yields several candidates, a model picks the best one.
type ScrapeEnricher struct {
	httpClient *http.Client
	llm        llm.Client
	pacer      *rate.Limiter
	scheme     string
}

// NewScrapeEnricher creates the credit-free scraping strategy. The model
// client may be nil, in which case multi-candidate pages fall back to the
// first extracted address.
func NewScrapeEnricher(llmClient llm.Client) *ScrapeEnricher {
	return &ScrapeEnricher{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		llm:        llmClient,
		pacer:      rate.NewLimiter(rate.Every(500*time.Millisecond), 1),
		scheme:     "https",
	}
}

// WithHTTPClient overrides the page-fetching client.
func (s *ScrapeEnricher) WithHTTPClient(c *http.Client) *ScrapeEnricher {
	s.httpClient = c
	return s
}

// Enrich fetches the company's homepage and contact pages, extracts email
// addresses and phone numbers, and builds the best contact it can.
func (s *ScrapeEnricher) Enrich(ctx context.Context, company model.DiscoveredCompany) (model.EnrichedCompany, error) {
	enriched := model.Enriched(company)

	domain := extractDomain(company.Website)
	if domain == "" {
		zap.L().Warn("no valid domain for company", zap.String("company", company.Name))
		return enriched, nil
	}

	log := zap.L().With(zap.String("company", company.Name), zap.String("domain", domain))

	text, emails, phones := s.collectPages(ctx, domain, log)
	if text == "" {
		log.Info("no pages fetched")
		return enriched, nil
	}
	log.Info("scrape complete", zap.Int("emails", len(emails)), zap.Int("phones", len(phones)))

	if len(emails) == 0 {
		return enriched, nil
	}

	var contact *model.Contact
	if len(emails) == 1 || s.llm == nil {
		contact = heuristicContact(emails[0], phones)
	} else {
		contact = s.pickWithModel(ctx, company, text, emails, phones, log)
	}
	enriched.Contact = contact

	log.Info("contact found",
		zap.String("name", contact.Name),
		zap.String("email", contact.Email),
		zap.String("position", contact.Position),
	)
	return enriched, nil
}

// collectPages fetches the homepage plus each contact path. Every fetched
// page is scanned for emails and phones in full; only the concatenated text
// returned for model inference is capped at maxScrapeChars. Individual page
// failures are logged and skipped.
func (s *ScrapeEnricher) collectPages(ctx context.Context, domain string, log *zap.Logger) (string, []string, []string) {
	var (
		b         strings.Builder
		emails    []string
		phones    []string
		seenEmail = map[string]bool{}
		seenPhone = map[string]bool{}
	)

	paths := append([]string{""}, contactPaths...)
	for _, path := range paths {
		if err := s.pacer.Wait(ctx); err != nil {
			break
		}

		pageURL := s.scheme + "://" + domain + path
		text, err := s.fetchPage(ctx, pageURL)
		if err != nil {
			log.Debug("page fetch failed", zap.String("url", pageURL), zap.Error(err))
			continue
		}

		for _, e := range extractEmails(text) {
			if key := strings.ToLower(e); !seenEmail[key] {
				seenEmail[key] = true
				emails = append(emails, e)
			}
		}
		for _, p := range extractPhones(text) {
			if len(phones) < maxPhones && !seenPhone[p] {
				seenPhone[p] = true
				phones = append(phones, p)
			}
		}

		if b.Len() < maxScrapeChars {
			b.WriteString(text)
			b.WriteString("\n")
		}
	}

	text := b.String()
	if len(text) > maxScrapeChars {
		text = text[:maxScrapeChars]
	}
	return text, emails, phones
}

func (s *ScrapeEnricher) fetchPage(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", eris.Wrap(err, "scrape: build request")
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; leadgen-cli)")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", eris.Wrap(err, "scrape: fetch page")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", eris.Errorf("scrape: fetch page: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", eris.Wrap(err, "scrape: read body")
	}

	text := tagRe.ReplaceAllString(string(body), " ")
	return whitespaceRe.ReplaceAllString(text, " "), nil
}

// heuristicContact builds a contact from a bare email address, deriving the
// display name from the local part.
func heuristicContact(email string, phones []string) *model.Contact {
	c := &model.Contact{
		Name:     nameFromLocalPart(localPart(email)),
		Email:    email,
		Position: "Contact",
	}
	if len(phones) > 0 {
		c.Phone = phones[0]
	}
	return c
}

// pickWithModel asks the model to select the best decision-maker from the
// scraped candidates. Any model or parse failure falls back to the first
// extracted email.
func (s *ScrapeEnricher) pickWithModel(ctx context.Context, company model.DiscoveredCompany, text string, emails, phones []string, log *zap.Logger) *model.Contact {
	prompt := fmt.Sprintf(`Below is text scraped from the website of %s, followed by email addresses found on it.
Identify the best decision-maker contact (owner, founder, executive, or senior manager).

Website text:
%s

Email addresses found:
%s

Respond with EXACTLY these four lines and nothing else:
EMAIL: <the best email address, chosen from the list above>
NAME: <the person's full name, or Unknown>
POSITION: <their job title, or Unknown>
PHONE: <a phone number if present in the text, or None>`,
		company.Name, text, strings.Join(emails, "\n"))

	resp, err := s.llm.Complete(ctx, llm.Request{
		System:      "You extract contact information from website text. Follow the output format exactly.",
		Prompt:      prompt,
		Temperature: 0.1,
		MaxTokens:   300,
	})
	if err != nil {
		log.Warn("model contact selection failed, using first email", zap.Error(err))
		return heuristicContact(emails[0], phones)
	}

	contact := parseContactLines(resp, emails)
	if contact == nil {
		log.Warn("model response unparseable, using first email")
		return heuristicContact(emails[0], phones)
	}
	if contact.Phone == "" && len(phones) > 0 {
		contact.Phone = phones[0]
	}
	return contact
}

// parseContactLines reads the EMAIL/NAME/POSITION/PHONE line format. The
// chosen email must be one the scraper actually found; otherwise the
// response is rejected.
func parseContactLines(resp string, emails []string) *model.Contact {
	fields := map[string]string{}
	for _, line := range strings.Split(resp, "\n") {
		line = strings.TrimSpace(line)
		for _, key := range []string{"EMAIL:", "NAME:", "POSITION:", "PHONE:"} {
			if strings.HasPrefix(strings.ToUpper(line), key) {
				fields[key] = strings.TrimSpace(line[len(key):])
			}
		}
	}

	email := fields["EMAIL:"]
	valid := false
	for _, e := range emails {
		if strings.EqualFold(e, email) {
			email = e
			valid = true
			break
		}
	}
	if !valid {
		return nil
	}

	name := fields["NAME:"]
	if name == "" || strings.EqualFold(name, "unknown") || strings.EqualFold(name, "contact") {
		name = nameFromLocalPart(localPart(email))
	}
	position := fields["POSITION:"]
	if position == "" || strings.EqualFold(position, "unknown") {
		position = "Decision Maker"
	}
	phone := fields["PHONE:"]
	if strings.EqualFold(phone, "none") {
		phone = ""
	}

	return &model.Contact{
		Name:     name,
		Email:    email,
		Position: position,
		Phone:    phone,
	}
}
