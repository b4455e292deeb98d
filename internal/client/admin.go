// ABOUTME: Administrator endpoints for users and sessions
// ABOUTME: Require a superuser token; the backend answers 403 otherwise

package client

import (
	"context"
	"net/http"
)

// AdminUsers lists every account
func (c *Client) AdminUsers(ctx context.Context) ([]AdminUser, error) {
	var resp adminUsersResponse
	if err := c.Do(ctx, Request{Path: "/admin/users", RequireAuth: true}, &resp); err != nil {
		return nil, err
	}
	return resp.Users, nil
}

// AdminSessions lists every active session across accounts
func (c *Client) AdminSessions(ctx context.Context) ([]AdminSession, error) {
	var resp adminSessionsResponse
	if err := c.Do(ctx, Request{Path: "/admin/sessions", RequireAuth: true}, &resp); err != nil {
		return nil, err
	}
	return resp.Sessions, nil
}

// AdminRevokeSession invalidates any account's session by token id
func (c *Client) AdminRevokeSession(ctx context.Context, tokenID ID) error {
	return c.Do(ctx, Request{
		Method:       http.MethodDelete,
		Path:         "/admin/sessions/" + tokenID.String(),
		RequireAuth:  true,
		DefaultError: "Erreur lors de la révocation de la session",
	}, nil)
}

// DisableUser deactivates an account
func (c *Client) DisableUser(ctx context.Context, userID ID) error {
	return c.setUserActive(ctx, userID, "disable")
}

// EnableUser reactivates an account
func (c *Client) EnableUser(ctx context.Context, userID ID) error {
	return c.setUserActive(ctx, userID, "enable")
}

func (c *Client) setUserActive(ctx context.Context, userID ID, action string) error {
	return c.Do(ctx, Request{
		Method:       http.MethodPost,
		Path:         "/admin/users/" + userID.String() + "/" + action,
		RequireAuth:  true,
		DefaultError: "Erreur lors de la mise à jour de l'utilisateur",
	}, nil)
}
