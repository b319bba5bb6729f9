// Package sim is the corridor runner core: the kinematic controller
// wrapper, the streaming windows that recycle track entities, the contact
// classifier and the tick loop that drives the gameplay state machine.
//
// Nothing here renders or schedules. A Scene receives visual add/remove
// calls, and an external scheduler calls Loop.Tick once per frame.
package sim

import "errors"

// Fatal configuration errors. Constructors wrap them with context; check
// with errors.Is.
var (
	ErrNoPhysics   = errors.New("sim: no physics world")
	ErrNoScene     = errors.New("sim: no scene")
	ErrNoCharacter = errors.New("sim: no character controller")
	ErrBadSpawn    = errors.New("sim: invalid spawn transform")
	ErrBadLayout   = errors.New("sim: invalid track layout")
)

// Scene is the presentation collaborator. Entities are added when spawned
// and removed exactly once when destroyed.
type Scene interface {
	AddVisual(e *Entity)
	RemoveVisual(e *Entity)
}

// NopScene discards visual updates. Used by headless runs.
type NopScene struct{}

func (NopScene) AddVisual(*Entity)    {}
func (NopScene) RemoveVisual(*Entity) {}
