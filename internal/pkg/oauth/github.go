package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
)

const defaultAPIBase = "https://api.github.com"

// GithubUser GitHub 返回的用户信息，只保留建账号需要的字段
type GithubUser struct {
	ID        int64  `json:"id"`
	Login     string `json:"login"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url"`
}

type GithubOAuth struct {
	config  *oauth2.Config
	apiBase string
}

func NewGithubOAuth(clientID, clientSecret, redirectURI string) *GithubOAuth {
	return &GithubOAuth{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURI,
			// user:email 覆盖主邮箱查询，够用
			Scopes:   []string{"user:email"},
			Endpoint: github.Endpoint,
		},
		apiBase: defaultAPIBase,
	}
}

// GetAuthURL 获取 GitHub 授权页地址
func (g *GithubOAuth) GetAuthURL(state string) string {
	return g.config.AuthCodeURL(state)
}

// Exchange 用授权码换取 access token
func (g *GithubOAuth) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	return g.config.Exchange(ctx, code)
}

// GetUser 拉取 GitHub 用户信息。公开邮箱为空时回退查主邮箱
func (g *GithubOAuth) GetUser(ctx context.Context, token *oauth2.Token) (*GithubUser, error) {
	client := g.config.Client(ctx, token)

	user, err := fetchJSON[GithubUser](client, g.apiBase+"/user")
	if err != nil {
		return nil, fmt.Errorf("failed to get github user: %w", err)
	}

	if user.Email == "" {
		if email, err := g.primaryEmail(client); err == nil {
			user.Email = email
		}
	}

	return user, nil
}

// primaryEmail 查用户的邮箱列表，优先取已验证的主邮箱
func (g *GithubOAuth) primaryEmail(client *http.Client) (string, error) {
	type githubEmail struct {
		Email    string `json:"email"`
		Primary  bool   `json:"primary"`
		Verified bool   `json:"verified"`
	}

	emails, err := fetchJSON[[]githubEmail](client, g.apiBase+"/user/emails")
	if err != nil {
		return "", err
	}

	var fallback string
	for _, e := range *emails {
		if e.Primary && e.Verified {
			return e.Email, nil
		}
		if fallback == "" {
			fallback = e.Email
		}
	}
	return fallback, nil
}

func fetchJSON[T any](client *http.Client, url string) (*T, error) {
	resp, err := client.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("github api %s: status %d: %s", url, resp.StatusCode, string(body))
	}

	var out T
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode github response: %w", err)
	}
	return &out, nil
}
