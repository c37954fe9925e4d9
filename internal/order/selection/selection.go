// Package selection holds the ephemeral set of order IDs marked for the
// next bulk action. Membership survives pagination and filtering: an ID
// stays selected even when the current view no longer shows it.
package selection

import (
	"sort"
	"sync"
)

type Selection struct {
	mu      sync.Mutex
	members map[string]bool
}

func New() *Selection {
	return &Selection{members: make(map[string]bool)}
}

// Toggle sets membership for a single ID.
func (s *Selection) Toggle(id string, included bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if included {
		s.members[id] = true
		return
	}
	delete(s.members, id)
}

// SetPage sets membership for every ID on the displayed page, leaving
// off-page IDs untouched so selections accumulate across page navigation.
func (s *Selection) SetPage(ids []string, included bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range ids {
		if included {
			s.members[id] = true
		} else {
			delete(s.members, id)
		}
	}
}

// Clear empties the selection unconditionally.
func (s *Selection) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.members = make(map[string]bool)
}

// IDs returns the selected IDs in sorted order.
func (s *Selection) IDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, len(s.members))
	for id := range s.members {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Contains reports whether id is currently selected.
func (s *Selection) Contains(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.members[id]
}

// Registry owns one Selection per operator, keyed by the authenticated
// token subject.
type Registry struct {
	mu         sync.Mutex
	selections map[string]*Selection
}

func NewRegistry() *Registry {
	return &Registry{selections: make(map[string]*Selection)}
}

// For returns the owner's selection, creating it on first use.
func (r *Registry) For(owner string) *Selection {
	r.mu.Lock()
	defer r.mu.Unlock()

	sel, ok := r.selections[owner]
	if !ok {
		sel = New()
		r.selections[owner] = sel
	}
	return sel
}
