package oauth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func newTestOAuth(apiBase string) *GithubOAuth {
	g := NewGithubOAuth("client-id", "client-secret", "http://localhost/callback")
	g.apiBase = apiBase
	return g
}

func TestGithubOAuth_GetAuthURL(t *testing.T) {
	g := NewGithubOAuth("client-id", "client-secret", "http://localhost/callback")

	url := g.GetAuthURL("random-state")
	assert.Contains(t, url, "client_id=client-id")
	assert.Contains(t, url, "state=random-state")
	assert.Contains(t, url, "user%3Aemail")
}

func TestGithubOAuth_GetUser_PublicEmail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/user", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": 42, "login": "octocat", "email": "octo@example.com", "avatar_url": "https://img/a.png"}`))
	}))
	defer server.Close()

	g := newTestOAuth(server.URL)
	user, err := g.GetUser(context.Background(), &oauth2.Token{AccessToken: "tok"})
	require.NoError(t, err)
	assert.Equal(t, int64(42), user.ID)
	assert.Equal(t, "octocat", user.Login)
	assert.Equal(t, "octo@example.com", user.Email)
	assert.Equal(t, "https://img/a.png", user.AvatarURL)
}

func TestGithubOAuth_GetUser_PrimaryEmailFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/user":
			// 公开邮箱为空
			_, _ = w.Write([]byte(`{"id": 7, "login": "shy", "email": ""}`))
		case "/user/emails":
			_, _ = w.Write([]byte(`[
				{"email": "old@example.com", "primary": false, "verified": true},
				{"email": "main@example.com", "primary": true, "verified": true}
			]`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	g := newTestOAuth(server.URL)
	user, err := g.GetUser(context.Background(), &oauth2.Token{AccessToken: "tok"})
	require.NoError(t, err)
	assert.Equal(t, "main@example.com", user.Email)
}

func TestGithubOAuth_GetUser_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message": "Bad credentials"}`))
	}))
	defer server.Close()

	g := newTestOAuth(server.URL)
	_, err := g.GetUser(context.Background(), &oauth2.Token{AccessToken: "bad"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Bad credentials")
}
