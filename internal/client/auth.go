// ABOUTME: Account endpoints: login, registration, profile, OAuth exchange
// ABOUTME: Each call returns typed results and APIError on rejection

package client

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/oauth2"
)

// ErrEmptyToken is returned when a login response carries no access token
var ErrEmptyToken = errors.New("réponse de connexion sans jeton")

// Login posts form-encoded credentials and returns the access token
func (c *Client) Login(ctx context.Context, email, password string) (*TokenResponse, error) {
	var tok TokenResponse
	err := c.Do(ctx, Request{
		Method:       http.MethodPost,
		Path:         "/auth/login",
		Body:         url.Values{"username": {email}, "password": {password}},
		DefaultError: "Identifiants invalides",
	}, &tok)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(tok.AccessToken) == "" {
		return nil, ErrEmptyToken
	}
	return &tok, nil
}

// Register creates an account. It does not log in.
func (c *Client) Register(ctx context.Context, email, password string) error {
	return c.Do(ctx, Request{
		Method:       http.MethodPost,
		Path:         "/auth/register",
		Body:         url.Values{"email": {email}, "password": {password}},
		DefaultError: "Erreur lors de l'inscription",
	}, nil)
}

// Me fetches the profile for an explicit token
func (c *Client) Me(ctx context.Context, token string) (*User, error) {
	if token == "" {
		return nil, ErrAuthRequired
	}
	var u User
	err := c.Do(ctx, Request{
		Path:        "/custom/me",
		RequireAuth: true,
		Token:       token,
	}, &u)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Logout invalidates the token server-side
func (c *Client) Logout(ctx context.Context, token string) error {
	return c.Do(ctx, Request{
		Method:      http.MethodPost,
		Path:        "/auth/logout",
		RequireAuth: true,
		Token:       token,
	}, nil)
}

// GoogleLoginURL is the backend entry point that redirects to Google.
// state is echoed back by the callback when the backend forwards it.
func (c *Client) GoogleLoginURL(redirectURI, state string) string {
	q := url.Values{}
	if redirectURI != "" {
		q.Set("redirect_uri", redirectURI)
	}
	if state != "" {
		q.Set("state", state)
	}
	u := c.cfg.URL("/auth/google/login")
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	return u
}

// GoogleAuthorizationURL asks the backend for the Google consent URL. The
// login endpoint sits behind the tunnel, which a browser cannot cross, so the
// client resolves it and only the Google URL is opened.
func (c *Client) GoogleAuthorizationURL(ctx context.Context, redirectURI, state string) (string, error) {
	var resp struct {
		AuthorizationURL string `json:"authorization_url"`
	}
	err := c.Do(ctx, Request{
		Path:         c.GoogleLoginURL(redirectURI, state),
		DefaultError: "Impossible d'obtenir l'URL de connexion Google",
	}, &resp)
	if err != nil {
		return "", err
	}
	if resp.AuthorizationURL == "" {
		return "", errors.New("réponse sans authorization_url")
	}
	return resp.AuthorizationURL, nil
}

// GoogleCallback exchanges an authorization code for an access token
func (c *Client) GoogleCallback(ctx context.Context, code, state string) (*oauth2.Token, error) {
	var tok TokenResponse
	err := c.Do(ctx, Request{
		Method:       http.MethodPost,
		Path:         "/auth/google/callback",
		Body:         map[string]string{"code": code, "state": state},
		DefaultError: "Échec de l'authentification Google",
	}, &tok)
	if err != nil {
		return nil, err
	}
	if tok.AccessToken == "" {
		return nil, ErrEmptyToken
	}
	tokenType := tok.TokenType
	if tokenType == "" {
		tokenType = "Bearer"
	}
	return &oauth2.Token{AccessToken: tok.AccessToken, TokenType: tokenType}, nil
}
