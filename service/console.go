package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/erickaser0011-byte/royal-fox-admin/model"
)

// ErrDeleteInFlight is returned when a delete is already running for the
// same application id.
var ErrDeleteInFlight = errors.New("delete already in progress for this application")

// Console holds the single-owner in-memory state of the dashboard: the last
// fetched application list and the set of deletions currently in flight.
// Fetches carry a generation counter so a response that was superseded by a
// newer fetch (or by a base URL change) is discarded instead of overwriting
// fresher state.
type Console struct {
	client *BackendClient

	mu       sync.Mutex
	apps     []model.Application
	loaded   bool
	fetchGen uint64
	deleting map[string]bool // keyed by applicationId
}

func NewConsole(client *BackendClient) *Console {
	return &Console{
		client:   client,
		deleting: make(map[string]bool),
	}
}

// Refresh fetches the application list from the backend. On failure the
// previous snapshot is left in place and the error is returned. A response
// whose generation is stale is dropped silently.
func (c *Console) Refresh(ctx context.Context) error {
	c.mu.Lock()
	c.fetchGen++
	gen := c.fetchGen
	c.mu.Unlock()

	apps, err := c.client.ListApplications(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.fetchGen {
		slog.Debug("discarding stale application list fetch", "generation", gen)
		return nil
	}
	if err != nil {
		return err
	}

	c.apps = apps
	c.loaded = true
	return nil
}

// Invalidate forgets the current snapshot so the next dashboard view
// refetches, and invalidates any fetch still in flight. Called on login and
// whenever the API base URL changes.
func (c *Console) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fetchGen++
	c.apps = nil
	c.loaded = false
}

// Loaded reports whether a list snapshot is present.
func (c *Console) Loaded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loaded
}

// Applications returns a copy of the current snapshot in fetch order.
func (c *Console) Applications() []model.Application {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]model.Application, len(c.apps))
	copy(out, c.apps)
	return out
}

// Find looks up a record by its external application id.
func (c *Console) Find(applicationID string) (model.Application, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, app := range c.apps {
		if app.ApplicationID == applicationID {
			return app, true
		}
	}
	return model.Application{}, false
}

// Delete removes one application, backend first. The in-memory snapshot is
// only mutated after the backend confirms; on any error it stays as-is.
// Repeated deletes for the same id are serialized: a second attempt while
// one is in flight gets ErrDeleteInFlight. Different ids may delete
// concurrently.
func (c *Console) Delete(ctx context.Context, applicationID string) error {
	c.mu.Lock()
	if c.deleting[applicationID] {
		c.mu.Unlock()
		return ErrDeleteInFlight
	}
	c.deleting[applicationID] = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		delete(c.deleting, applicationID)
		c.mu.Unlock()
	}()

	if err := c.client.DeleteApplication(ctx, applicationID); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	kept := c.apps[:0:0]
	for _, app := range c.apps {
		if app.ApplicationID != applicationID {
			kept = append(kept, app)
		}
	}
	c.apps = kept
	return nil
}

// Deleting reports whether a delete is in flight for the given id.
func (c *Console) Deleting(applicationID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.deleting[applicationID]
}

// DeletingIDs returns the ids with deletions currently in flight.
func (c *Console) DeletingIDs() map[string]bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]bool, len(c.deleting))
	for id := range c.deleting {
		out[id] = true
	}
	return out
}
