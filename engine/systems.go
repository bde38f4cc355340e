package engine

import "github.com/plus3/blockfall/scheduler"

// CommandSource yields pending commands until it is empty.
type CommandSource interface {
	Next() (Command, bool)
}

// GravitySystem feeds the frame's elapsed time to Tick.
type GravitySystem struct {
	Engine *Engine
}

func (s *GravitySystem) Execute(frame *scheduler.UpdateFrame) {
	s.Engine.Tick(frame.DeltaTime)
}

// InputSystem drains every pending command into ApplyCommand. Commands are
// consumed even when the engine is over so they do not pile up.
type InputSystem struct {
	Engine *Engine
	Source CommandSource

	Applied  int64
	Rejected int64
}

func (s *InputSystem) Execute(frame *scheduler.UpdateFrame) {
	for {
		cmd, ok := s.Source.Next()
		if !ok {
			return
		}
		if s.Engine.ApplyCommand(cmd) {
			s.Applied++
		} else {
			s.Rejected++
		}
	}
}

// LineClearSystem resolves full rows once per frame.
type LineClearSystem struct {
	Engine *Engine
}

func (s *LineClearSystem) Execute(frame *scheduler.UpdateFrame) {
	s.Engine.ResolveLines()
}

// Register adds the engine's systems in frame order: gravity, input, line clear.
// It returns the input system so hosts can read its counters.
func Register(sched *scheduler.Scheduler, e *Engine, src CommandSource) *InputSystem {
	input := &InputSystem{Engine: e, Source: src}
	sched.Register(&GravitySystem{Engine: e})
	sched.Register(input)
	sched.Register(&LineClearSystem{Engine: e})
	return input
}
