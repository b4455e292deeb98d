// ABOUTME: Abort-on-supersede wrapper around Client.Do
// ABOUTME: A newer call cancels the in-flight one, which then reports ErrAborted

package client

import (
	"context"
	"sync"
)

// Fetcher serialises one logical request slot, such as a form's submit.
// Use a fresh out value per call: a superseded call's result must be dropped.
type Fetcher struct {
	client *Client

	mu     sync.Mutex
	seq    uint64
	cancel context.CancelFunc
}

// NewFetcher returns a Fetcher bound to the client
func (c *Client) NewFetcher() *Fetcher {
	return &Fetcher{client: c}
}

// Fetch cancels any in-flight request from this fetcher, then performs r
func (f *Fetcher) Fetch(ctx context.Context, r Request, out any) error {
	ctx, cancel := context.WithCancel(ctx)

	f.mu.Lock()
	if f.cancel != nil {
		f.cancel()
	}
	f.seq++
	seq := f.seq
	f.cancel = cancel
	f.mu.Unlock()

	err := f.client.Do(ctx, r, out)

	f.mu.Lock()
	superseded := f.seq != seq
	if !superseded {
		f.cancel = nil
	}
	f.mu.Unlock()
	cancel()

	if superseded {
		return ErrAborted
	}
	return err
}

// Cancel aborts the in-flight request, if any
func (f *Fetcher) Cancel() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
	f.seq++
}
