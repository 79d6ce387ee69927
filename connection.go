package graph

// Connection is a selectable edge between two blocks. Its bounding box is
// the AABB of the endpoint centers, refreshed in the spatial index whenever
// either block moves. Connections are not draggable; they follow their
// endpoints.
type Connection struct {
	id             string
	source, target *Block

	selected *Signal[bool]
	zIndex   int

	index  *HitTest
	unsubs []func()
}

// NewConnection creates a detached connection between two blocks. Attach it
// with [Scene.AddConnection].
func NewConnection(id string, source, target *Block) *Connection {
	return &Connection{
		id:       id,
		source:   source,
		target:   target,
		selected: NewSignal(false),
		zIndex:   zIndexConnection,
	}
}

// ComponentID returns the connection's stable identifier.
func (c *Connection) ComponentID() string { return c.id }

// Kind returns KindConnection.
func (c *Connection) Kind() EntityKind { return KindConnection }

// Source returns the block the connection starts at.
func (c *Connection) Source() *Block { return c.source }

// Target returns the block the connection ends at.
func (c *Connection) Target() *Block { return c.target }

// HitBox returns the AABB of the two endpoint centers.
func (c *Connection) HitBox() Rect {
	return rectFromPoints(c.source.Geometry().Center(), c.target.Geometry().Center())
}

// ZOrder returns the connection's explicit z-index (below blocks).
func (c *Connection) ZOrder() int { return c.zIndex }

// Selected reports whether the connection is in the selection.
func (c *Connection) Selected() bool { return c.selected.Get() }

// SetSelected is driven by [Selection].
func (c *Connection) SetSelected(selected bool) { c.selected.Set(selected) }

// OnSelectedChange registers a listener for selection flag updates.
func (c *Connection) OnSelectedChange(fn func(bool)) func() {
	return c.selected.Subscribe(fn)
}

// attach wires endpoint geometry changes to index invalidation.
func (c *Connection) attach(index *HitTest) {
	c.index = index
	invalidate := func(Rect) {
		index.Invalidate(c)
	}
	c.unsubs = append(c.unsubs,
		c.source.OnGeometryChange(invalidate),
		c.target.OnGeometryChange(invalidate),
	)
}

// detach releases endpoint subscriptions.
func (c *Connection) detach() {
	for _, unsub := range c.unsubs {
		unsub()
	}
	c.unsubs = nil
	c.index = nil
}

// Anchor is a selectable port attached to a block at a fixed offset from
// its origin. Its bounding box tracks the block. Anchors are not draggable
// on their own; they move with their block.
type Anchor struct {
	id    string
	block *Block

	// offset is the anchor center relative to the block origin.
	offset Point
	size   float64

	selected *Signal[bool]
	zIndex   int

	index *HitTest
	unsub func()
}

// NewAnchor creates a detached anchor on a block. Attach it with
// [Scene.AddAnchor]. size is the side length of the square hit area.
func NewAnchor(id string, block *Block, offset Point, size float64) *Anchor {
	return &Anchor{
		id:       id,
		block:    block,
		offset:   offset,
		size:     size,
		selected: NewSignal(false),
		zIndex:   zIndexAnchor,
	}
}

// ComponentID returns the anchor's stable identifier.
func (a *Anchor) ComponentID() string { return a.id }

// Kind returns KindAnchor.
func (a *Anchor) Kind() EntityKind { return KindAnchor }

// Block returns the block the anchor is attached to.
func (a *Anchor) Block() *Block { return a.block }

// HitBox returns the anchor's square hit area, centered on the block origin
// plus the configured offset.
func (a *Anchor) HitBox() Rect {
	g := a.block.Geometry()
	return Rect{
		X:      g.X + a.offset.X - a.size/2,
		Y:      g.Y + a.offset.Y - a.size/2,
		Width:  a.size,
		Height: a.size,
	}
}

// ZOrder returns the anchor's explicit z-index (above blocks).
func (a *Anchor) ZOrder() int { return a.zIndex }

// Selected reports whether the anchor is in the selection.
func (a *Anchor) Selected() bool { return a.selected.Get() }

// SetSelected is driven by [Selection].
func (a *Anchor) SetSelected(selected bool) { a.selected.Set(selected) }

// attach wires block geometry changes to index invalidation.
func (a *Anchor) attach(index *HitTest) {
	a.index = index
	a.unsub = a.block.OnGeometryChange(func(Rect) {
		index.Invalidate(a)
	})
}

// detach releases the block subscription.
func (a *Anchor) detach() {
	if a.unsub != nil {
		a.unsub()
		a.unsub = nil
	}
	a.index = nil
}
