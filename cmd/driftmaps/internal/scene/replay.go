package scene

import (
	"fmt"

	"github.com/go-drift/maps/pkg/maps"
)

// Result is the outcome of one step.
type Result struct {
	Index int
	Step  Step
	State maps.ControllerState
	Err   error
}

// Player replays scenes. Controllers and the scope persist across Play
// calls so scenes can be chained.
type Player struct {
	// Engine is attached to the scope by attach steps.
	Engine maps.Map
	// Options are applied to every controller the player creates.
	Options []maps.ControllerOption
	// OnStep, if set, is called after every step.
	OnStep func(Result)

	scope       *maps.Scope
	controllers map[string]*maps.MarkerController
}

// NewPlayer returns a player that attaches engine on attach steps.
func NewPlayer(engine maps.Map, opts ...maps.ControllerOption) *Player {
	return &Player{
		Engine:      engine,
		Options:     opts,
		scope:       maps.NewScope(),
		controllers: make(map[string]*maps.MarkerController),
	}
}

// Scope returns the scope markers are mounted under.
func (p *Player) Scope() *maps.Scope {
	return p.scope
}

// Controller returns the controller for a marker name, or nil.
func (p *Player) Controller(name string) *maps.MarkerController {
	return p.controllers[name]
}

// Play runs every step in order. A failing step does not stop the replay;
// Play returns the number of failed steps.
func (p *Player) Play(s *Scene) int {
	failed := 0
	for i, step := range s.Steps {
		res := p.step(i+1, step)
		if res.Err != nil {
			failed++
		}
		if p.OnStep != nil {
			p.OnStep(res)
		}
	}
	return failed
}

func (p *Player) step(index int, step Step) Result {
	res := Result{Index: index, Step: step}
	c := p.controllers[step.Marker]

	switch step.Op {
	case OpAttach:
		res.Err = p.scope.Attach(p.Engine)
	case OpDetach:
		p.scope.Detach()
	case OpMount:
		if c != nil && c.State() != maps.StateDestroyed {
			res.Err = fmt.Errorf("marker %q already mounted", step.Marker)
			break
		}
		c = maps.NewMarkerController(p.scope, step.Apply(maps.Marker{}), p.Options...)
		p.controllers[step.Marker] = c
		res.Err = c.Mount()
	case OpUpdate:
		if c == nil {
			res.Err = fmt.Errorf("marker %q not mounted", step.Marker)
			break
		}
		res.Err = c.Update(step.Apply(c.Marker()))
	case OpUnmount:
		if c == nil {
			res.Err = fmt.Errorf("marker %q not mounted", step.Marker)
			break
		}
		res.Err = c.Unmount()
	}

	if c != nil {
		res.State = c.State()
	}
	return res
}
