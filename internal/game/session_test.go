package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"towerstack/internal/config"
	"towerstack/internal/render"
	"towerstack/internal/tower"
)

func newTestSession() *Session {
	return NewSession(config.DefaultTuning())
}

// alignTop snaps the active layer onto the layer beneath it along its
// movement axis, simulating a perfectly timed drop.
func alignTop(s *Session) {
	top := s.Stack().Top()
	prev := s.Stack().Previous()
	top.Body.Position = top.Axis.With(top.Body.Position, top.Axis.Of(prev.Body.Position))
}

func TestNewSessionStartsAwaiting(t *testing.T) {
	s := newTestSession()

	assert.Equal(t, StateAwaitingStart, s.State())
	assert.Equal(t, 0, s.Score())
	require.Equal(t, 1, s.Stack().Len())

	base := s.Stack().Top()
	assert.Equal(t, s.Tuning().BaseSize, base.Width)
	assert.Equal(t, s.Tuning().BaseSize, base.Depth)
	assert.Equal(t, s.Tuning().BoxHeight+s.Tuning().CameraLead, s.Scene().CameraY)
}

func TestFirstActivateSpawnsMovingLayer(t *testing.T) {
	s := newTestSession()

	s.OnActivate()

	assert.Equal(t, StateDropping, s.State())
	require.Equal(t, 2, s.Stack().Len())

	top := s.Stack().Top()
	assert.Equal(t, tower.AxisX, top.Axis)
	assert.Equal(t, -s.Tuning().StartOffset, top.Body.Position.X)
	assert.Equal(t, 0.0, top.Body.Position.Z)
}

func TestPerfectDropScoresAndAlternatesAxis(t *testing.T) {
	s := newTestSession()
	s.OnActivate()
	alignTop(s)

	s.OnActivate()

	assert.Equal(t, StateDropping, s.State())
	assert.Equal(t, 1, s.Score())
	require.Equal(t, 3, s.Stack().Len())
	assert.Empty(t, s.Stack().Overhangs())

	top := s.Stack().Top()
	assert.Equal(t, tower.AxisZ, top.Axis)
	assert.Equal(t, -s.Tuning().StartOffset, top.Body.Position.Z)
	assert.Equal(t, s.Tuning().BaseSize, top.Width)
	assert.Equal(t, s.Tuning().BaseSize, top.Depth)
}

func TestOffsetDropSpawnsOverhang(t *testing.T) {
	s := newTestSession()
	s.OnActivate()
	alignTop(s)
	top := s.Stack().Top()
	top.Body.Position.X = 1

	s.OnActivate()

	assert.Equal(t, 1, s.Score())
	assert.Equal(t, s.Tuning().BaseSize-1, top.Width)
	require.Len(t, s.Stack().Overhangs(), 1)

	// The next layer inherits the shrunken footprint.
	next := s.Stack().Top()
	assert.Equal(t, top.Width, next.Width)
	assert.Equal(t, top.Depth, next.Depth)
}

func TestMissedDropEndsGame(t *testing.T) {
	s := newTestSession()
	s.OnActivate()
	top := s.Stack().Top()
	top.Body.Position.X = 20

	s.OnActivate()

	assert.Equal(t, StateGameOver, s.State())
	assert.Equal(t, 0, s.Score())
	require.Equal(t, 2, s.Stack().Len())

	// The stack is untouched and the missed layer now falls under physics.
	assert.Equal(t, s.Tuning().BaseSize, top.Width)
	assert.Equal(t, 20.0, top.Body.Position.X)
	assert.False(t, top.Body.Static())

	// Further activations are ignored until an explicit reset.
	s.OnActivate()
	assert.Equal(t, StateGameOver, s.State())
	assert.Equal(t, 2, s.Stack().Len())
}

func TestResetAfterGameOver(t *testing.T) {
	s := newTestSession()
	s.OnActivate()
	s.Stack().Top().Body.Position.X = 20
	s.OnActivate()
	require.Equal(t, StateGameOver, s.State())

	s.Reset()

	assert.Equal(t, StateAwaitingStart, s.State())
	assert.Equal(t, 0, s.Score())
	assert.Equal(t, 1, s.Stack().Len())
}

func TestStepZeroChangesNothing(t *testing.T) {
	s := newTestSession()
	s.OnActivate()
	top := s.Stack().Top()
	pos := top.Body.Position
	camera := s.Scene().CameraY

	s.Step(0)

	assert.Equal(t, pos, top.Body.Position)
	assert.Equal(t, camera, s.Scene().CameraY)
}

func TestStepMovesActiveLayer(t *testing.T) {
	s := newTestSession()
	s.OnActivate()
	top := s.Stack().Top()
	x0 := top.Body.Position.X

	s.Step(100) // 0.1s

	want := x0 + s.Tuning().LayerSpeed*0.1
	assert.InDelta(t, want, top.Body.Position.X, 1e-9)
	assert.Equal(t, 0.0, top.Body.Position.Z)
}

func TestActiveLayerReversesAtBounds(t *testing.T) {
	s := newTestSession()
	s.OnActivate()
	top := s.Stack().Top()
	limit := s.Tuning().StartOffset

	// Run long enough to cross the far bound at least once.
	for i := 0; i < 600; i++ {
		s.Step(16)
		x := top.Body.Position.X
		require.GreaterOrEqual(t, x, -limit)
		require.LessOrEqual(t, x, limit)
	}
}

func TestActiveLayerIgnoresGravity(t *testing.T) {
	s := newTestSession()
	s.OnActivate()
	top := s.Stack().Top()
	y0 := top.Body.Position.Y

	for i := 0; i < 60; i++ {
		s.Step(16)
	}

	assert.Equal(t, y0, top.Body.Position.Y)
}

func TestCameraFollowsStackHeight(t *testing.T) {
	s := newTestSession()
	s.OnActivate()
	camera0 := s.Scene().CameraY

	s.Step(100)

	assert.Greater(t, s.Scene().CameraY, camera0)

	// The camera never overshoots its target.
	target := s.Tuning().BoxHeight*float64(s.Stack().Len()) + s.Tuning().CameraLead
	for i := 0; i < 600; i++ {
		s.Step(16)
	}
	assert.InDelta(t, target, s.Scene().CameraY, 1e-9)
}

func TestFallenOverhangDespawns(t *testing.T) {
	s := newTestSession()
	s.OnActivate()
	alignTop(s)
	s.Stack().Top().Body.Position.X = 1
	s.OnActivate()
	require.Len(t, s.Stack().Overhangs(), 1)

	o := s.Stack().Overhangs()[0]
	o.Body.Position.Y = s.Tuning().DespawnY - 1

	s.Step(16)

	assert.Empty(t, s.Stack().Overhangs())
}

func TestOverhangVisualFollowsPhysics(t *testing.T) {
	s := newTestSession()
	s.OnActivate()
	alignTop(s)
	s.Stack().Top().Body.Position.X = 1
	s.OnActivate()
	require.Len(t, s.Stack().Overhangs(), 1)

	o := s.Stack().Overhangs()[0]
	y0 := o.Body.Position.Y

	for i := 0; i < 30; i++ {
		s.Step(16)
	}

	assert.Less(t, o.Body.Position.Y, y0, "an unsupported fragment falls")

	box, ok := o.Visual.(*render.Box)
	require.True(t, ok)
	assert.Equal(t, o.Body.Position, box.Position)
	assert.Equal(t, o.Body.Orientation, box.Orientation)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "awaiting-start", StateAwaitingStart.String())
	assert.Equal(t, "dropping", StateDropping.String())
	assert.Equal(t, "game-over", StateGameOver.String())
	assert.Equal(t, "unknown", State(99).String())
}
