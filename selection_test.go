package graph

import (
	"reflect"
	"testing"
)

// newTestSelection builds a selection resolving ids against the given
// blocks.
func newTestSelection(blocks ...*Block) *Selection {
	byID := make(map[string]*Block, len(blocks))
	for _, b := range blocks {
		byID[b.ComponentID()] = b
	}
	return NewSelection(func(kind EntityKind, ids []string) []Component {
		if kind != KindBlock {
			return nil
		}
		out := make([]Component, 0, len(ids))
		for _, id := range ids {
			if b, ok := byID[id]; ok {
				out = append(out, b)
			}
		}
		return out
	})
}

func TestSelectionReplace(t *testing.T) {
	s := newTestSelection()
	if !s.Select(KindBlock, []string{"a", "b"}, SelectionReplace) {
		t.Fatal("initial select reported no change")
	}
	if got := s.IDs(KindBlock); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("IDs = %v, want [a b]", got)
	}

	s.Select(KindBlock, []string{"b", "c"}, SelectionReplace)
	if got := s.IDs(KindBlock); !reflect.DeepEqual(got, []string{"b", "c"}) {
		t.Errorf("IDs = %v, want [b c]", got)
	}
}

func TestSelectionReplaceEmptyClears(t *testing.T) {
	s := newTestSelection()
	s.Select(KindBlock, []string{"a"}, SelectionReplace)
	s.Select(KindBlock, nil, SelectionReplace)
	if got := s.IDs(KindBlock); len(got) != 0 {
		t.Errorf("IDs = %v, want empty", got)
	}
}

func TestSelectionAppend(t *testing.T) {
	s := newTestSelection()
	s.Select(KindBlock, []string{"a"}, SelectionReplace)
	s.Select(KindBlock, []string{"b"}, SelectionAppend)
	if got := s.IDs(KindBlock); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("IDs = %v, want [a b]", got)
	}
	// Appending a member is a no-difference update: no change reported.
	if s.Select(KindBlock, []string{"a"}, SelectionAppend) {
		t.Error("appending an existing id reported a change")
	}
}

func TestSelectionToggleTwiceIsIdentity(t *testing.T) {
	s := newTestSelection()
	s.Select(KindBlock, []string{"a", "b"}, SelectionReplace)

	s.Select(KindBlock, []string{"b", "c"}, SelectionToggle)
	if got := s.IDs(KindBlock); !reflect.DeepEqual(got, []string{"a", "c"}) {
		t.Fatalf("after toggle IDs = %v, want [a c]", got)
	}

	s.Select(KindBlock, []string{"b", "c"}, SelectionToggle)
	if got := s.IDs(KindBlock); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("toggle twice IDs = %v, want [a b]", got)
	}
}

func TestSelectionNoChangeFiresNoEvents(t *testing.T) {
	s := newTestSelection()
	s.Select(KindBlock, []string{"a"}, SelectionReplace)

	events := 0
	s.OnChange(func(*EventContext, SelectionDiff) { events++ })
	s.Subscribe(func(SelectionDiff) { events++ })

	if s.Select(KindBlock, []string{"a"}, SelectionReplace) {
		t.Error("identical replace reported a change")
	}
	if events != 0 {
		t.Errorf("no-difference update fired %d events", events)
	}
}

func TestSelectionDiffContents(t *testing.T) {
	s := newTestSelection()
	s.Select(KindBlock, []string{"a", "b"}, SelectionReplace)

	var got SelectionDiff
	s.Subscribe(func(d SelectionDiff) { got = d })

	s.Select(KindBlock, []string{"b", "c"}, SelectionReplace)

	if got.Kind != KindBlock {
		t.Errorf("diff kind = %v, want KindBlock", got.Kind)
	}
	if !reflect.DeepEqual(got.Added, []string{"c"}) {
		t.Errorf("Added = %v, want [c]", got.Added)
	}
	if !reflect.DeepEqual(got.Removed, []string{"a"}) {
		t.Errorf("Removed = %v, want [a]", got.Removed)
	}
}

func TestSelectionVeto(t *testing.T) {
	s := newTestSelection()
	s.OnChange(func(ctx *EventContext, d SelectionDiff) {
		for _, id := range d.Added {
			if id == "locked" {
				ctx.PreventDefault()
			}
		}
	})
	applied := 0
	s.Subscribe(func(SelectionDiff) { applied++ })

	if s.Select(KindBlock, []string{"locked"}, SelectionReplace) {
		t.Error("vetoed select reported a change")
	}
	if got := s.IDs(KindBlock); len(got) != 0 {
		t.Errorf("IDs = %v after veto, want empty", got)
	}
	if applied != 0 {
		t.Errorf("vetoed update fired %d applied events", applied)
	}
}

func TestSelectionBucketsIndependent(t *testing.T) {
	s := newTestSelection()
	s.Select(KindBlock, []string{"b1"}, SelectionReplace)
	s.Select(KindConnection, []string{"c1"}, SelectionReplace)

	s.Clear(KindBlock)

	if got := s.IDs(KindBlock); len(got) != 0 {
		t.Errorf("block bucket = %v, want empty", got)
	}
	if got := s.IDs(KindConnection); !reflect.DeepEqual(got, []string{"c1"}) {
		t.Errorf("connection bucket = %v, want [c1]", got)
	}
}

func TestSelectionClearAll(t *testing.T) {
	s := newTestSelection()
	s.Select(KindBlock, []string{"b1"}, SelectionReplace)
	s.Select(KindConnection, []string{"c1"}, SelectionReplace)
	s.ClearAll()
	if len(s.IDs(KindBlock)) != 0 || len(s.IDs(KindConnection)) != 0 {
		t.Error("buckets not empty after ClearAll")
	}
}

func TestSelectionDrivesComponentFlags(t *testing.T) {
	a := NewBlock("a", Rect{Width: 10, Height: 10})
	b := NewBlock("b", Rect{Width: 10, Height: 10})
	s := newTestSelection(a, b)

	s.Select(KindBlock, []string{"a"}, SelectionReplace)
	if !a.Selected() || b.Selected() {
		t.Errorf("flags after select: a=%v b=%v, want true false", a.Selected(), b.Selected())
	}

	s.Select(KindBlock, []string{"b"}, SelectionReplace)
	if a.Selected() || !b.Selected() {
		t.Errorf("flags after replace: a=%v b=%v, want false true", a.Selected(), b.Selected())
	}

	comps := s.Components(KindBlock)
	if len(comps) != 1 || comps[0].ComponentID() != "b" {
		t.Errorf("Components = %v, want [b]", ids(comps))
	}
}

func TestSelectionStaleIDsResolveToFewerComponents(t *testing.T) {
	a := NewBlock("a", Rect{Width: 10, Height: 10})
	s := newTestSelection(a)

	s.Select(KindBlock, []string{"a", "ghost"}, SelectionReplace)
	if got := s.IDs(KindBlock); len(got) != 2 {
		t.Errorf("IDs = %v, want both ids tracked", got)
	}
	if comps := s.Components(KindBlock); len(comps) != 1 {
		t.Errorf("Components = %v, want only the live one", ids(comps))
	}
}

func TestSelectionDiscard(t *testing.T) {
	a := NewBlock("a", Rect{Width: 10, Height: 10})
	s := newTestSelection(a)
	s.Select(KindBlock, []string{"a"}, SelectionReplace)

	vetoes := 0
	s.OnChange(func(ctx *EventContext, _ SelectionDiff) {
		vetoes++
		ctx.PreventDefault()
	})
	var got SelectionDiff
	s.Subscribe(func(d SelectionDiff) { got = d })

	// Discard bypasses the cancelable event entirely.
	s.Discard(KindBlock, "a")

	if vetoes != 0 {
		t.Errorf("Discard offered the cancelable event %d times", vetoes)
	}
	if len(s.IDs(KindBlock)) != 0 {
		t.Error("id still selected after Discard")
	}
	if !reflect.DeepEqual(got.Removed, []string{"a"}) {
		t.Errorf("applied diff = %+v, want Removed [a]", got)
	}

	s.Discard(KindBlock, "a") // absent: no-op
}

func TestSelectionIsSelected(t *testing.T) {
	s := newTestSelection()
	s.Select(KindBlock, []string{"a"}, SelectionReplace)
	if !s.IsSelected(KindBlock, "a") {
		t.Error("IsSelected(a) = false")
	}
	if s.IsSelected(KindBlock, "b") {
		t.Error("IsSelected(b) = true")
	}
	if s.IsSelected(KindAnchor, "a") {
		t.Error("IsSelected in empty bucket = true")
	}
}
