// Package selection reduces raw drag-selection events into a canonical set
// of selected task keys.
package selection

import (
	"sort"
	"strings"

	"github.com/google/uuid"
)

const keyPrefix = "task:"

// Clearer is the upstream selection mechanism that owns the visual
// selection region.
type Clearer interface {
	ClearSelection()
}

// ClearerFunc adapts a function to Clearer.
type ClearerFunc func()

// ClearSelection implements Clearer.
func (f ClearerFunc) ClearSelection() { f() }

// Reducer holds the set of selected task keys across drag events.
// The zero value is ready to use and has no upstream.
type Reducer struct {
	upstream Clearer
	selected map[string]struct{}
}

// New returns a Reducer that asks upstream to drop its visual selection on
// plain background clicks. upstream may be nil.
func New(upstream Clearer) *Reducer {
	return &Reducer{upstream: upstream, selected: make(map[string]struct{})}
}

// ParseKey extracts a task key from an element identifier, either a bare
// UUID or one prefixed with "task:". It reports false for anything else.
func ParseKey(raw string) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	trimmed = strings.TrimPrefix(trimmed, keyPrefix)
	if trimmed == "" {
		return "", false
	}
	id, err := uuid.Parse(trimmed)
	if err != nil {
		return "", false
	}
	return id.String(), true
}

// ElementKey returns the element identifier for a task key.
func ElementKey(key string) string {
	return keyPrefix + key
}

// ApplyChange adds every key in added and removes every key in removed.
// Identifiers that do not parse are ignored.
func (r *Reducer) ApplyChange(added, removed []string) {
	if r.selected == nil {
		r.selected = make(map[string]struct{})
	}
	for _, raw := range added {
		if key, ok := ParseKey(raw); ok {
			r.selected[key] = struct{}{}
		}
	}
	for _, raw := range removed {
		if key, ok := ParseKey(raw); ok {
			delete(r.selected, key)
		}
	}
}

// ApplyBackgroundClick clears the selection and the upstream visual
// selection unless a modifier key was held.
func (r *Reducer) ApplyBackgroundClick(hasModifier bool) {
	if hasModifier {
		return
	}
	r.Clear()
	if r.upstream != nil {
		r.upstream.ClearSelection()
	}
}

// Clear empties the set without notifying upstream.
func (r *Reducer) Clear() {
	for k := range r.selected {
		delete(r.selected, k)
	}
}

// Contains reports whether key is selected.
func (r *Reducer) Contains(key string) bool {
	_, ok := r.selected[key]
	return ok
}

// Len returns the number of selected keys.
func (r *Reducer) Len() int {
	return len(r.selected)
}

// Selected returns the selected keys in sorted order.
func (r *Reducer) Selected() []string {
	out := make([]string, 0, len(r.selected))
	for k := range r.selected {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Retain drops selected keys for which keep returns false, e.g. tasks that
// no longer exist.
func (r *Reducer) Retain(keep func(key string) bool) {
	for k := range r.selected {
		if !keep(k) {
			delete(r.selected, k)
		}
	}
}
