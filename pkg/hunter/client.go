// Package hunter is a client for the Hunter.io contacts API. It consumes
// three endpoints: the free email-count precheck, the paid domain search,
// and the account/credits status probe.
package hunter

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/internal/resilience"
)

const defaultBaseURL = "https://api.hunter.io/v2"

// rateLimitCooldown is how long to back off after a 429 before treating the
// call as having returned no data.
const rateLimitCooldown = 5 * time.Second

// EmailRecord is a single candidate email from a domain search.
type EmailRecord struct {
	Value       string  `json:"value"`
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	Position    string  `json:"position"`
	Confidence  float64 `json:"confidence"`
	LinkedIn    string  `json:"linkedin"`
	PhoneNumber string  `json:"phone_number"`
}

// Account reports remaining search credits.
type Account struct {
	SearchesUsed      int `json:"used"`
	SearchesAvailable int `json:"available"`
}

// Remaining returns the number of unspent paid searches.
func (a Account) Remaining() int {
	return a.SearchesAvailable - a.SearchesUsed
}

// Client exposes the contacts-API operations used by enrichment.
type Client interface {
	// EmailCount returns how many emails exist for a domain. Free.
	EmailCount(ctx context.Context, domain string) (int, error)

	// DomainSearch returns candidate email records for a domain. Costs one
	// credit when results are found. Quota and auth failures (401/403) and
	// rate limits (429, after a cooldown) yield an empty slice, not an
	// error: retrying an exhausted quota or a bad key won't help.
	DomainSearch(ctx context.Context, domain string) ([]EmailRecord, error)

	// GetAccount returns the account's search-credit status. Free.
	GetAccount(ctx context.Context) (*Account, error)
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithCooldown overrides the 429 cooldown (tests).
func WithCooldown(d time.Duration) Option {
	return func(c *httpClient) {
		c.cooldown = d
	}
}

type httpClient struct {
	apiKey   string
	baseURL  string
	cooldown time.Duration
	http     *http.Client
}

// NewClient creates a Hunter.io API client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:   apiKey,
		baseURL:  defaultBaseURL,
		cooldown: rateLimitCooldown,
		http: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) get(ctx context.Context, path string, params url.Values) (int, []byte, error) {
	params.Set("api_key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return 0, nil, eris.Wrapf(err, "hunter: create request %s", path)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, eris.Wrapf(err, "hunter: %s", path)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, eris.Wrapf(err, "hunter: read response %s", path)
	}

	return resp.StatusCode, body, nil
}

type countResponse struct {
	Data struct {
		Total int `json:"total"`
	} `json:"data"`
}

func (c *httpClient) EmailCount(ctx context.Context, domain string) (int, error) {
	status, body, err := c.get(ctx, "/email-count", url.Values{"domain": {domain}})
	if err != nil {
		return 0, err
	}
	if status != http.StatusOK {
		zap.L().Warn("hunter: email count failed", zap.String("domain", domain), zap.Int("status", status))
		if resilience.IsTransientHTTPStatus(status) {
			return 0, resilience.NewTransientError(eris.Errorf("hunter: email-count status %d", status), status)
		}
		return 0, nil
	}

	var result countResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return 0, eris.Wrap(err, "hunter: unmarshal email count")
	}
	return result.Data.Total, nil
}

type searchResponse struct {
	Data struct {
		Emails []EmailRecord `json:"emails"`
	} `json:"data"`
}

func (c *httpClient) DomainSearch(ctx context.Context, domain string) ([]EmailRecord, error) {
	status, body, err := c.get(ctx, "/domain-search", url.Values{
		"domain": {domain},
		"limit":  {"10"},
	})
	if err != nil {
		return nil, err
	}

	switch status {
	case http.StatusOK:
		// Fall through to parsing below.
	case http.StatusTooManyRequests:
		zap.L().Warn("hunter: rate limit hit, cooling down", zap.String("domain", domain))
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.cooldown):
		}
		return nil, nil
	case http.StatusUnauthorized:
		zap.L().Error("hunter: API key is invalid")
		return nil, nil
	case http.StatusForbidden:
		zap.L().Error("hunter: no credits remaining")
		return nil, nil
	default:
		zap.L().Warn("hunter: domain search failed", zap.String("domain", domain), zap.Int("status", status))
		if resilience.IsTransientHTTPStatus(status) {
			return nil, resilience.NewTransientError(eris.Errorf("hunter: domain-search status %d", status), status)
		}
		return nil, nil
	}

	var result searchResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, eris.Wrap(err, "hunter: unmarshal domain search")
	}
	return result.Data.Emails, nil
}

type accountResponse struct {
	Data struct {
		Requests struct {
			Searches Account `json:"searches"`
		} `json:"requests"`
	} `json:"data"`
}

func (c *httpClient) GetAccount(ctx context.Context) (*Account, error) {
	status, body, err := c.get(ctx, "/account", url.Values{})
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, eris.Errorf("hunter: account status %d", status)
	}

	var result accountResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, eris.Wrap(err, "hunter: unmarshal account")
	}

	acct := result.Data.Requests.Searches
	zap.L().Info("hunter: account status",
		zap.Int("searches_used", acct.SearchesUsed),
		zap.Int("searches_available", acct.SearchesAvailable),
	)
	return &acct, nil
}
