package graph

import "sort"

// SelectionStrategy decides how incoming ids combine with a bucket.
type SelectionStrategy uint8

const (
	// SelectionReplace makes the bucket exactly the given ids. An empty id
	// list clears the bucket.
	SelectionReplace SelectionStrategy = iota
	// SelectionAppend unions the given ids into the bucket.
	SelectionAppend
	// SelectionToggle takes the symmetric difference: present ids leave,
	// absent ids join. Applied twice with the same ids it is the identity.
	SelectionToggle
)

// SelectionDiff is the incremental change published for one selection
// update, so consumers can adjust visuals without recomputing from scratch.
// Added and Removed are sorted.
type SelectionDiff struct {
	Kind    EntityKind
	Added   []string
	Removed []string
}

// selectionBucket holds the selected ids of one entity kind together with
// the components currently resolved from them. The two are updated in the
// same synchronous pass.
type selectionBucket struct {
	ids        map[string]struct{}
	components map[string]Component
}

func newSelectionBucket() *selectionBucket {
	return &selectionBucket{
		ids:        make(map[string]struct{}),
		components: make(map[string]Component),
	}
}

// ComponentResolver maps selected ids of one kind to live components.
// Stale ids resolve to fewer components than ids; that is not an error.
type ComponentResolver func(kind EntityKind, ids []string) []Component

// Selection keeps independent per-entity-kind buckets of selected ids.
// Mutation goes through Select only; changes are diffed into added/removed
// sets, offered through a cancelable selection-change event, then applied
// to the bucket, the resolved components, and the components' own selected
// flags in one synchronous update.
type Selection struct {
	buckets map[EntityKind]*selectionBucket
	resolve ComponentResolver

	changed Emitter[SelectionDiff]
	applied Emitter[SelectionDiff]
}

// NewSelection creates an empty selection. resolve may be nil, in which
// case buckets track ids only.
func NewSelection(resolve ComponentResolver) *Selection {
	return &Selection{
		buckets: make(map[EntityKind]*selectionBucket),
		resolve: resolve,
	}
}

// OnChange registers a cancelable listener fired with the prospective diff
// before it is applied. PreventDefault vetoes the update. Returns an
// unsubscribe function.
func (s *Selection) OnChange(fn func(*EventContext, SelectionDiff)) func() {
	return s.changed.Listen(fn)
}

// Subscribe registers a listener fired with the diff after each applied
// update. Returns an unsubscribe function.
func (s *Selection) Subscribe(fn func(SelectionDiff)) func() {
	return s.applied.Listen(func(_ *EventContext, d SelectionDiff) { fn(d) })
}

// bucket returns the bucket for kind, creating it on first use.
func (s *Selection) bucket(kind EntityKind) *selectionBucket {
	b, ok := s.buckets[kind]
	if !ok {
		b = newSelectionBucket()
		s.buckets[kind] = b
	}
	return b
}

// Select applies ids to the kind's bucket under the given strategy and
// reports whether anything changed. A no-difference update fires no events.
func (s *Selection) Select(kind EntityKind, ids []string, strategy SelectionStrategy) bool {
	b := s.bucket(kind)
	diff := diffStrategy(b.ids, ids, strategy)
	if len(diff.Added) == 0 && len(diff.Removed) == 0 {
		return false
	}
	diff.Kind = kind
	if !s.changed.Emit(diff) {
		return false
	}

	for _, id := range diff.Removed {
		if c, ok := b.components[id]; ok {
			if sel, ok := c.(Selectable); ok {
				sel.SetSelected(false)
			}
		}
		delete(b.ids, id)
		delete(b.components, id)
	}
	for _, id := range diff.Added {
		b.ids[id] = struct{}{}
	}
	if s.resolve != nil {
		for _, c := range s.resolve(kind, diff.Added) {
			b.components[c.ComponentID()] = c
			if sel, ok := c.(Selectable); ok {
				sel.SetSelected(true)
			}
		}
	}

	s.applied.Emit(diff)
	return true
}

// diffStrategy computes the added/removed id sets for one strategy without
// mutating current.
func diffStrategy(current map[string]struct{}, ids []string, strategy SelectionStrategy) SelectionDiff {
	var diff SelectionDiff
	switch strategy {
	case SelectionReplace:
		incoming := make(map[string]struct{}, len(ids))
		for _, id := range ids {
			incoming[id] = struct{}{}
			if _, ok := current[id]; !ok {
				diff.Added = append(diff.Added, id)
			}
		}
		for id := range current {
			if _, ok := incoming[id]; !ok {
				diff.Removed = append(diff.Removed, id)
			}
		}
	case SelectionAppend:
		for _, id := range ids {
			if _, ok := current[id]; !ok {
				diff.Added = append(diff.Added, id)
			}
		}
	case SelectionToggle:
		for _, id := range ids {
			if _, ok := current[id]; ok {
				diff.Removed = append(diff.Removed, id)
			} else {
				diff.Added = append(diff.Added, id)
			}
		}
	}
	diff.Added = dedupSorted(diff.Added)
	diff.Removed = dedupSorted(diff.Removed)
	return diff
}

// dedupSorted sorts ids and drops duplicates in place.
func dedupSorted(ids []string) []string {
	if len(ids) < 2 {
		return ids
	}
	sort.Strings(ids)
	out := ids[:1]
	for _, id := range ids[1:] {
		if id != out[len(out)-1] {
			out = append(out, id)
		}
	}
	return out
}

// IDs returns the selected ids of one kind, sorted. Empty slice when
// nothing is selected.
func (s *Selection) IDs(kind EntityKind) []string {
	b, ok := s.buckets[kind]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(b.ids))
	for id := range b.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Components returns the live components resolved from one kind's bucket,
// sorted by id for determinism.
func (s *Selection) Components(kind EntityKind) []Component {
	b, ok := s.buckets[kind]
	if !ok {
		return nil
	}
	ids := make([]string, 0, len(b.components))
	for id := range b.components {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]Component, 0, len(ids))
	for _, id := range ids {
		out = append(out, b.components[id])
	}
	return out
}

// IsSelected reports whether the id is in the kind's bucket.
func (s *Selection) IsSelected(kind EntityKind, id string) bool {
	b, ok := s.buckets[kind]
	if !ok {
		return false
	}
	_, ok = b.ids[id]
	return ok
}

// Clear empties one kind's bucket. Other buckets are unaffected.
func (s *Selection) Clear(kind EntityKind) bool {
	return s.Select(kind, nil, SelectionReplace)
}

// ClearAll empties every bucket.
func (s *Selection) ClearAll() {
	for kind := range s.buckets {
		s.Clear(kind)
	}
}

// Discard drops an id from the kind's bucket without firing the cancelable
// change event; used when a component is removed from the scene. The
// applied event still fires so consumers stay in sync.
func (s *Selection) Discard(kind EntityKind, id string) {
	b, ok := s.buckets[kind]
	if !ok {
		return
	}
	if _, ok := b.ids[id]; !ok {
		return
	}
	delete(b.ids, id)
	delete(b.components, id)
	s.applied.Emit(SelectionDiff{Kind: kind, Removed: []string{id}})
}
