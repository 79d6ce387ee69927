// Package graph is an interaction engine for pannable, zoomable canvas
// scenes built on [Ebitengine].
//
// Graph coordinates pointer, wheel, and keyboard input across the moving
// parts of a canvas editor: a cooperative frame-driven [Scheduler], a
// [Camera] with screen/world coordinate transforms, a z-ordered spatial
// [HitTest] index, per-entity-type [Selection] buckets, and a [DragService]
// that runs one drag gesture at a time across one or many components.
//
// # Quick start
//
// The simplest way to get started is [Run], which creates a window and game
// loop for you:
//
//	scene := graph.NewScene()
//	scene.AddBlock("a", graph.Rect{X: 100, Y: 100, Width: 200, Height: 100})
//	graph.Run(scene, graph.RunConfig{
//		Title: "My Editor", Width: 1280, Height: 720,
//	})
//
// For full control, implement [ebiten.Game] yourself, call [Scene.Start]
// once the viewport size is known, and drive [Scene.Update] once per frame:
//
//	type Game struct{ scene *graph.Scene }
//
//	func (g *Game) Update() error        { g.scene.Update(); return nil }
//	func (g *Game) Draw(s *ebiten.Image) {}
//	func (g *Game) Layout(w, h int) (int, int) { return w, h }
//
// # Components
//
// Every hit-testable element implements [Component]. Graph ships three
// concrete kinds: [Block] (draggable, selectable rectangle), [Connection]
// (selectable edge between two blocks), and [Anchor] (selectable port
// attached to a block). Custom components implement [Component] and,
// optionally, [Draggable].
//
// Pixel-level shape rendering is out of scope: the engine maintains
// geometry, selection, and camera state, and the owning application reads
// that state back to draw. [Run] includes a minimal AABB visualization for
// development.
//
// # Headless testing
//
// Synthetic input can be queued with [Scene.InjectPress], [Scene.InjectDrag],
// [Scene.InjectWheel], and friends; injected events are consumed by
// [Scene.Update] instead of live hardware input, so complete gestures can be
// exercised without a window.
//
// [Ebitengine]: https://ebitengine.org
package graph
