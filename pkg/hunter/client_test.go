package hunter

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient("test-key", WithBaseURL(srv.URL), WithCooldown(time.Millisecond))
}

func TestEmailCount(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/email-count", r.URL.Path)
		assert.Equal(t, "acme.com", r.URL.Query().Get("domain"))
		assert.Equal(t, "test-key", r.URL.Query().Get("api_key"))
		_, _ = w.Write([]byte(`{"data":{"total":7}}`))
	})

	n, err := c.EmailCount(context.Background(), "acme.com")
	require.NoError(t, err)
	assert.Equal(t, 7, n)
}

func TestEmailCount_NonOKReturnsZero(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	n, err := c.EmailCount(context.Background(), "acme.com")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestDomainSearch(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/domain-search", r.URL.Path)
		assert.Equal(t, "10", r.URL.Query().Get("limit"))
		_, _ = w.Write([]byte(`{"data":{"emails":[
			{"value":"jane@acme.com","first_name":"Jane","last_name":"Doe","position":"CEO","confidence":93},
			{"value":"info@acme.com","confidence":80}
		]}}`))
	})

	emails, err := c.DomainSearch(context.Background(), "acme.com")
	require.NoError(t, err)
	require.Len(t, emails, 2)
	assert.Equal(t, "jane@acme.com", emails[0].Value)
	assert.Equal(t, "CEO", emails[0].Position)
	assert.Equal(t, float64(93), emails[0].Confidence)
}

func TestDomainSearch_RateLimitCoolsDownAndReturnsEmpty(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	emails, err := c.DomainSearch(context.Background(), "acme.com")
	require.NoError(t, err)
	assert.Nil(t, emails)
}

func TestDomainSearch_AuthAndQuotaAreNotErrors(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden} {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		})

		emails, err := c.DomainSearch(context.Background(), "acme.com")
		require.NoError(t, err)
		assert.Nil(t, emails)
	}
}

func TestGetAccount(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/account", r.URL.Path)
		_, _ = w.Write([]byte(`{"data":{"requests":{"searches":{"used":40,"available":50}}}}`))
	})

	acct, err := c.GetAccount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 10, acct.Remaining())
}

func TestGetAccount_ErrorStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := c.GetAccount(context.Background())
	require.Error(t, err)
}
