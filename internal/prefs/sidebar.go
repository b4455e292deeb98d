// ABOUTME: Persisted navigation sidebar state shared by all TUI screens
// ABOUTME: Collapsed/expanded flag stored as "true"/"false" in the key-value store

package prefs

import (
	"log/slog"
	"strconv"
	"sync"

	"github.com/JinaneConsulting/pdf-qcm-generator-sub000/internal/store"
)

// Sidebar tracks whether the navigation pane is collapsed
type Sidebar struct {
	store     store.Store
	mu        sync.RWMutex
	collapsed bool
}

// NewSidebar restores the saved state, falling back to defaultCollapsed
func NewSidebar(s store.Store, defaultCollapsed bool) *Sidebar {
	sb := &Sidebar{store: s, collapsed: defaultCollapsed}

	saved, ok, err := s.Get(store.KeySidebarCollapsed)
	if err != nil {
		slog.Warn("Failed to read sidebar state", "error", err)
		return sb
	}
	if ok {
		if v, err := strconv.ParseBool(saved); err == nil {
			sb.collapsed = v
		}
	}
	return sb
}

// Collapsed reports the current state
func (sb *Sidebar) Collapsed() bool {
	sb.mu.RLock()
	defer sb.mu.RUnlock()
	return sb.collapsed
}

// Toggle flips the state and returns the new value
func (sb *Sidebar) Toggle() bool {
	sb.mu.Lock()
	sb.collapsed = !sb.collapsed
	v := sb.collapsed
	sb.mu.Unlock()

	sb.persist(v)
	return v
}

// SetCollapsed sets the state directly
func (sb *Sidebar) SetCollapsed(collapsed bool) {
	sb.mu.Lock()
	sb.collapsed = collapsed
	sb.mu.Unlock()

	sb.persist(collapsed)
}

// persist failures only cost the preference on next launch
func (sb *Sidebar) persist(v bool) {
	if err := sb.store.Set(store.KeySidebarCollapsed, strconv.FormatBool(v)); err != nil {
		slog.Warn("Failed to save sidebar state", "error", err)
	}
}
