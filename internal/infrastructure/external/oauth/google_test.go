package oauth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
	"google.golang.org/api/option"
)

func TestCalendarAuthorizer_AuthURL(t *testing.T) {
	c := NewGoogleProvider("client-id", "secret", "https://api.test/api/integrations/google-calendar/callback")
	require.True(t, c.Configured())

	u, err := url.Parse(c.GetAuthURL("st-1"))
	require.NoError(t, err)
	q := u.Query()
	assert.Equal(t, "st-1", q.Get("state"))
	assert.Equal(t, "offline", q.Get("access_type"))
	assert.Equal(t, "consent", q.Get("prompt"))
	assert.Contains(t, q.Get("scope"), "https://www.googleapis.com/auth/calendar.events")

	assert.False(t, NewGoogleProvider("", "", "").Configured())
}

func TestCalendarAuthorizer_AccountEmail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer ya29.a", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"1","email":"ada@acme.test","verified_email":true}`))
	}))
	defer srv.Close()

	c := NewGoogleProvider("client-id", "secret", "", option.WithEndpoint(srv.URL+"/"))
	email, err := c.AccountEmail(context.Background(), &oauth2.Token{AccessToken: "ya29.a"})

	require.NoError(t, err)
	assert.Equal(t, "ada@acme.test", email)
}

func TestCalendarAuthorizer_AccountEmailMissing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"1"}`))
	}))
	defer srv.Close()

	c := NewGoogleProvider("client-id", "secret", "", option.WithEndpoint(srv.URL+"/"))
	_, err := c.AccountEmail(context.Background(), &oauth2.Token{AccessToken: "ya29.a"})

	assert.Error(t, err)
}
