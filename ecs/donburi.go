package ecs

import (
	graph "github.com/gravity-ui/graph-sub000"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// SceneEventType is the Donburi event type for graph scene events.
// Subscribe to this in your ECS systems to receive camera, selection, drag,
// and click events.
var SceneEventType = events.NewEventType[graph.SceneEvent]()

type donburiStore struct {
	world donburi.World
}

// NewDonburiStore creates a SceneEventStore backed by a Donburi world.
// Scene events are published to SceneEventType and can be consumed with
// events.Subscribe and ProcessEvents.
func NewDonburiStore(world donburi.World) graph.SceneEventStore {
	return &donburiStore{world: world}
}

func (s *donburiStore) EmitEvent(event graph.SceneEvent) {
	SceneEventType.Publish(s.world, event)
}
