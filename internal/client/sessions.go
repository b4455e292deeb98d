// ABOUTME: Own-account session endpoints
// ABOUTME: List, revoke one, and the server-side bulk revoke

package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// ActiveSessions lists the sessions of the logged-in account
func (c *Client) ActiveSessions(ctx context.Context) ([]Session, error) {
	var resp sessionsResponse
	err := c.Do(ctx, Request{
		Path:        "/auth/sessions/active",
		RequireAuth: true,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Sessions, nil
}

// RevokeSession invalidates one session of the logged-in account
func (c *Client) RevokeSession(ctx context.Context, id ID) error {
	return c.Do(ctx, Request{
		Method:       http.MethodDelete,
		Path:         "/auth/sessions/" + id.String(),
		RequireAuth:  true,
		DefaultError: "Erreur lors de la révocation de la session",
	}, nil)
}

// RevokeAllSessionsBulk asks the server to revoke every session in one call
func (c *Client) RevokeAllSessionsBulk(ctx context.Context, keepCurrent bool) (*BulkRevokeResult, error) {
	var res BulkRevokeResult
	err := c.Do(ctx, Request{
		Method:       http.MethodDelete,
		Path:         "/auth/sessions/all",
		Query:        url.Values{"keep_current": {strconv.FormatBool(keepCurrent)}},
		RequireAuth:  true,
		DefaultError: "Erreur lors de la révocation des sessions",
	}, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}
