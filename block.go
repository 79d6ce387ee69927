package graph

// Block is a positioned, selectable, draggable rectangle — the primary
// scene component. Geometry lives in a [Signal] so overlays and renderers
// can subscribe to moves; every geometry change also invalidates the
// scene's spatial index.
type Block struct {
	id string

	geometry *Signal[Rect]
	selected *Signal[bool]
	zIndex   int

	draggable bool

	// dragStart is the geometry captured at gesture start; drags apply
	// start+diff rather than accumulating deltas, so camera autopanning
	// during the gesture cannot drift the block.
	dragStart Rect

	// index is set when the block is attached to a scene.
	index *HitTest
}

// NewBlock creates a detached block. Attach it with [Scene.AddBlock] (the
// usual path) or register it manually on a [HitTest].
func NewBlock(id string, geometry Rect) *Block {
	return &Block{
		id:        id,
		geometry:  NewSignal(geometry),
		selected:  NewSignal(false),
		zIndex:    zIndexBlock,
		draggable: true,
	}
}

// Explicit z-index bands per entity kind: blocks above connections, anchors
// above their block.
const (
	zIndexConnection = 0
	zIndexBlock      = 10
	zIndexAnchor     = 20
)

// ComponentID returns the block's stable identifier.
func (b *Block) ComponentID() string { return b.id }

// Kind returns KindBlock.
func (b *Block) Kind() EntityKind { return KindBlock }

// HitBox returns the block's world-space geometry.
func (b *Block) HitBox() Rect { return b.geometry.Get() }

// ZOrder returns the block's explicit z-index.
func (b *Block) ZOrder() int { return b.zIndex }

// Geometry returns the current world-space rectangle.
func (b *Block) Geometry() Rect { return b.geometry.Get() }

// SetGeometry replaces the block's rectangle and invalidates the spatial
// index.
func (b *Block) SetGeometry(r Rect) {
	b.geometry.Set(r)
	if b.index != nil {
		b.index.Invalidate(b)
	}
}

// SetPosition moves the block, keeping its size.
func (b *Block) SetPosition(x, y float64) {
	r := b.geometry.Get()
	r.X, r.Y = x, y
	b.SetGeometry(r)
}

// OnGeometryChange registers a listener for geometry updates. Returns an
// unsubscribe function.
func (b *Block) OnGeometryChange(fn func(Rect)) func() {
	return b.geometry.Subscribe(fn)
}

// Selected reports whether the block is in the selection.
func (b *Block) Selected() bool { return b.selected.Get() }

// SetSelected is driven by [Selection]; applications select through
// [Selection.Select].
func (b *Block) SetSelected(selected bool) { b.selected.Set(selected) }

// OnSelectedChange registers a listener for selection flag updates.
func (b *Block) OnSelectedChange(fn func(bool)) func() {
	return b.selected.Subscribe(fn)
}

// SetDraggable toggles whether the block can take part in drag gestures.
func (b *Block) SetDraggable(draggable bool) { b.draggable = draggable }

// IsDraggable reports whether the block can take part in drag gestures.
func (b *Block) IsDraggable() bool { return b.draggable }

// HandleDragStart captures the geometry the gesture diffs against.
func (b *Block) HandleDragStart(DragContext) {
	b.dragStart = b.geometry.Get()
}

// HandleDrag applies the gesture's total offset to the captured start
// geometry.
func (b *Block) HandleDrag(ctx DragContext) {
	b.SetPosition(b.dragStart.X+ctx.DiffX, b.dragStart.Y+ctx.DiffY)
}

// HandleDragEnd applies the final offset.
func (b *Block) HandleDragEnd(ctx DragContext) {
	b.SetPosition(b.dragStart.X+ctx.DiffX, b.dragStart.Y+ctx.DiffY)
}
