// ABOUTME: Backend reachability probe
// ABOUTME: GET / answers with a banner message when the API is up

package client

import "context"

// Health calls the root endpoint
func (c *Client) Health(ctx context.Context) (*Message, error) {
	var msg Message
	if err := c.Do(ctx, Request{Path: "/"}, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
