// Package ecs provides ECS adapters for graph's scene event system.
//
// The primary adapter is [NewDonburiStore], which bridges graph scene
// events (camera changes, selection diffs, drag lifecycle, clicks) into a
// [Donburi] world as typed events. Subscribe to [SceneEventType] in your
// ECS systems to receive them.
//
// Usage:
//
//	store := ecs.NewDonburiStore(world)
//	scene.SetEventStore(store)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
