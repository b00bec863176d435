// Package game ties the stack model, placement engine, physics world and
// renderer into a per-connection play session and its frame loop.
package game

import (
	"towerstack/internal/config"
	"towerstack/internal/physics"
	"towerstack/internal/render"
	"towerstack/internal/tower"
	"towerstack/internal/vec"
)

// State is the play phase of a session.
type State int

const (
	StateAwaitingStart State = iota // title screen, nothing moving
	StateDropping                   // a layer is in scripted motion
	StateGameOver                   // last drop missed entirely
)

func (s State) String() string {
	switch s {
	case StateAwaitingStart:
		return "awaiting-start"
	case StateDropping:
		return "dropping"
	case StateGameOver:
		return "game-over"
	default:
		return "unknown"
	}
}

// Session owns everything one game needs: the stack, the physics world,
// the scene and the state machine. Each session is driven by a single
// goroutine; the drop action always runs between frames, never during one.
type Session struct {
	tuning config.Tuning

	world *physics.World
	scene *render.Scene
	stack *tower.Stack

	state   State
	score   int
	dir     float64      // scripted travel direction along the active axis
	falling *tower.Layer // the missed layer, physics-driven after game over
}

// NewSession creates a session with a fresh foundation layer.
func NewSession(tuning config.Tuning) *Session {
	s := &Session{tuning: tuning}
	s.Reset()
	return s
}

// Reset rebuilds the session for a new round.
func (s *Session) Reset() {
	t := s.tuning
	s.world = physics.NewWorld(vec.New(0, -t.Gravity, 0), t.SolverIterations, t.WorldExtent)
	s.scene = render.NewScene()
	s.stack = tower.NewStack(s.scene, s.world, t.BoxHeight)

	s.state = StateAwaitingStart
	s.score = 0
	s.dir = 1
	s.falling = nil

	// Foundation block at the origin.
	s.stack.AddLayer(0, 0, t.BaseSize, t.BaseSize, tower.AxisX)
	s.scene.CameraY = t.BoxHeight + t.CameraLead
}

// State returns the current play phase.
func (s *Session) State() State { return s.state }

// Score returns the number of successfully placed layers.
func (s *Session) Score() int { return s.score }

// Stack returns the session's stack model.
func (s *Session) Stack() *tower.Stack { return s.stack }

// Scene returns the session's renderable scene.
func (s *Session) Scene() *render.Scene { return s.scene }

// World returns the session's physics world.
func (s *Session) World() *physics.World { return s.world }

// Tuning returns the session's gameplay parameters.
func (s *Session) Tuning() config.Tuning { return s.tuning }

// OnActivate handles the one discrete player action: the first activation
// starts the round, every later one attempts a drop. Activating after game
// over does nothing; restarting is an explicit Reset.
func (s *Session) OnActivate() {
	switch s.state {
	case StateAwaitingStart:
		s.spawnMovingLayer(s.stack.Top(), tower.AxisX)
		s.state = StateDropping
	case StateDropping:
		s.drop()
	}
}

// drop runs the placement engine for the active layer.
func (s *Session) drop() {
	res := s.stack.CutTop()
	if res.GameOver {
		// Nothing overlapped: the stack stays as it is and the missed
		// layer is handed over to gravity.
		top := s.stack.Top()
		top.Body.SetMass(top.Width * top.Depth * s.tuning.BoxHeight)
		s.falling = top
		s.state = StateGameOver
		return
	}

	s.score++
	s.spawnMovingLayer(s.stack.Top(), s.stack.Top().Axis.Other())
}

// spawnMovingLayer places the next active layer above prev: aligned with
// prev along prev's axis, at the scripted start offset along the new
// movement axis.
func (s *Session) spawnMovingLayer(prev *tower.Layer, axis tower.Axis) {
	pos := axis.With(prev.Body.Position, -s.tuning.StartOffset)
	s.stack.AddLayer(pos.X, pos.Z, prev.Width, prev.Depth, axis)
	s.dir = 1
}

// Step advances the session by the elapsed frame time: scripted motion of
// the active layer, one physics step, visual resynchronization of all
// physics-driven proxies, camera follow and fragment despawn.
func (s *Session) Step(elapsedMillis float64) {
	dt := elapsedMillis / 1000

	if dt > 0 && s.state == StateDropping {
		s.moveActiveLayer(dt)
	}

	s.world.Step(dt)

	// Physics is authoritative for detached fragments.
	for _, o := range s.stack.Overhangs() {
		o.Visual.SetPosition(o.Body.Position)
		o.Visual.SetOrientation(o.Body.Orientation)
	}
	if s.falling != nil {
		s.falling.Visual.SetPosition(s.falling.Body.Position)
		s.falling.Visual.SetOrientation(s.falling.Body.Orientation)
	}

	if dt > 0 {
		s.followCamera(dt)
		s.despawnFallen()
	}
}

// moveActiveLayer applies the scripted oscillation to the top layer. The
// visual and physics proxies are driven in lockstep; the layer is not
// synchronized from physics until it is cut.
func (s *Session) moveActiveLayer(dt float64) {
	top := s.stack.Top()
	axis := top.Axis

	pos := axis.Of(top.Body.Position) + s.dir*s.tuning.LayerSpeed*dt
	if pos > s.tuning.StartOffset {
		pos = s.tuning.StartOffset
		s.dir = -1
	} else if pos < -s.tuning.StartOffset {
		pos = -s.tuning.StartOffset
		s.dir = 1
	}

	p := axis.With(top.Body.Position, pos)
	top.Body.Position = p
	top.Visual.SetPosition(p)
}

// followCamera raises the view at layer speed while it is below the
// threshold derived from the current stack height.
func (s *Session) followCamera(dt float64) {
	target := s.tuning.BoxHeight*float64(s.stack.Len()) + s.tuning.CameraLead
	if s.scene.CameraY >= target {
		return
	}
	s.scene.CameraY += s.tuning.LayerSpeed * dt
	if s.scene.CameraY > target {
		s.scene.CameraY = target
	}
}

// despawnFallen removes fragments that fell below the retention threshold.
// Leaving them in the world forever would grow the body list without bound
// over a long SSH session.
func (s *Session) despawnFallen() {
	overhangs := s.stack.Overhangs()
	for i := len(overhangs) - 1; i >= 0; i-- {
		if overhangs[i].Body.Position.Y < s.tuning.DespawnY {
			s.stack.RemoveOverhang(overhangs[i])
		}
	}
}
