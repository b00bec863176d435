package tower

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"towerstack/internal/physics"
	"towerstack/internal/render"
	"towerstack/internal/vec"
)

func newTestStack() *Stack {
	scene := render.NewScene()
	world := physics.NewWorld(vec.New(0, -18, 0), 4, 40)
	return NewStack(scene, world, 1)
}

func TestAddLayerHeights(t *testing.T) {
	s := newTestStack()

	for i := 0; i < 4; i++ {
		layer := s.AddLayer(0, 0, 3, 3, AxisX)
		assert.Equal(t, i, layer.Index)
		// Layer i occupies [i, i+1) vertically, so its center sits at i+0.5.
		assert.Equal(t, float64(i)+0.5, layer.Body.Position.Y)
		assert.True(t, layer.Body.Static())
	}
	assert.Equal(t, 4, s.Len())
}

func TestTopAndPrevious(t *testing.T) {
	s := newTestStack()

	assert.Nil(t, s.Top())
	assert.Nil(t, s.Previous())

	first := s.AddLayer(0, 0, 3, 3, AxisX)
	assert.Same(t, first, s.Top())
	assert.Nil(t, s.Previous())

	second := s.AddLayer(0, 0, 3, 3, AxisZ)
	assert.Same(t, second, s.Top())
	assert.Same(t, first, s.Previous())
}

func TestCutTopShrinksAlongAxis(t *testing.T) {
	s := newTestStack()
	s.AddLayer(0, 0, 3, 3, AxisX)
	top := s.AddLayer(1, 0, 3, 3, AxisX)

	res := s.CutTop()

	require.False(t, res.GameOver)
	assert.Equal(t, 2.0, top.Width)
	assert.Equal(t, 3.0, top.Depth, "the perpendicular extent is untouched")
	assert.Equal(t, 0.5, top.Body.Position.X)
	assert.Equal(t, vec.New(1, 0.5, 1.5), top.Body.HalfExtents)
}

func TestCutTopSpawnsOverhang(t *testing.T) {
	s := newTestStack()
	s.AddLayer(0, 0, 3, 3, AxisX)
	top := s.AddLayer(1, 0, 3, 3, AxisX)

	res := s.CutTop()

	require.True(t, res.HasOverhang)
	require.Len(t, s.Overhangs(), 1)
	o := s.Overhangs()[0]
	assert.Equal(t, 1.0, o.Width)
	assert.Equal(t, 3.0, o.Depth)
	assert.Equal(t, 2.0, o.Body.Position.X)
	// Fragment spawns at the same height as the layer it was cut from.
	assert.Equal(t, top.Body.Position.Y, o.Body.Position.Y)
	assert.False(t, o.Body.Static())

	// An x-axis fragment on the positive side tips toward +x, which is a
	// negative spin about z.
	assert.Less(t, o.Body.AngularVel.Z, 0.0)
	assert.Equal(t, 0.0, o.Body.AngularVel.X)
}

func TestCutTopAlongZ(t *testing.T) {
	s := newTestStack()
	s.AddLayer(0, 0, 3, 3, AxisX)
	top := s.AddLayer(0, -0.5, 3, 3, AxisZ)

	res := s.CutTop()

	require.False(t, res.GameOver)
	assert.Equal(t, 2.5, top.Depth)
	assert.Equal(t, 3.0, top.Width)
	assert.Equal(t, -0.25, top.Body.Position.Z)

	require.Len(t, s.Overhangs(), 1)
	o := s.Overhangs()[0]
	assert.Equal(t, 3.0, o.Width)
	assert.Equal(t, 0.5, o.Depth)
}

func TestCutTopAlignedSpawnsNothing(t *testing.T) {
	s := newTestStack()
	s.AddLayer(0, 0, 3, 3, AxisX)
	top := s.AddLayer(0, 0, 3, 3, AxisX)

	res := s.CutTop()

	require.False(t, res.GameOver)
	assert.False(t, res.HasOverhang)
	assert.Empty(t, s.Overhangs())
	assert.Equal(t, 3.0, top.Width)
}

func TestCutTopMissLeavesStackUntouched(t *testing.T) {
	s := newTestStack()
	s.AddLayer(0, 0, 3, 3, AxisX)
	top := s.AddLayer(10, 0, 3, 3, AxisX)

	res := s.CutTop()

	require.True(t, res.GameOver)
	assert.Equal(t, 3.0, top.Width)
	assert.Equal(t, 10.0, top.Body.Position.X)
	assert.Empty(t, s.Overhangs())
	assert.Equal(t, 2, s.Len())
}

func TestCutTopRepeatedShrink(t *testing.T) {
	// Two consecutive cuts along alternating axes shrink both extents.
	s := newTestStack()
	s.AddLayer(0, 0, 3, 3, AxisX)

	s.AddLayer(1, 0, 3, 3, AxisX)
	require.False(t, s.CutTop().GameOver)
	first := s.Top()

	s.AddLayer(first.Body.Position.X, 1, first.Width, first.Depth, AxisZ)
	res := s.CutTop()
	require.False(t, res.GameOver)

	top := s.Top()
	assert.Equal(t, 2.0, top.Width)
	assert.Equal(t, 2.0, top.Depth)
}

func TestRemoveOverhang(t *testing.T) {
	s := newTestStack()
	s.AddLayer(0, 0, 3, 3, AxisX)
	s.AddLayer(1, 0, 3, 3, AxisX)
	require.False(t, s.CutTop().GameOver)
	require.Len(t, s.Overhangs(), 1)

	o := s.Overhangs()[0]
	s.RemoveOverhang(o)
	assert.Empty(t, s.Overhangs())
}

func TestAxisHelpers(t *testing.T) {
	assert.Equal(t, AxisZ, AxisX.Other())
	assert.Equal(t, AxisX, AxisZ.Other())
	assert.Equal(t, "x", AxisX.String())
	assert.Equal(t, "z", AxisZ.String())

	p := vec.New(1, 2, 3)
	assert.Equal(t, 1.0, AxisX.Of(p))
	assert.Equal(t, 3.0, AxisZ.Of(p))
	assert.Equal(t, vec.New(7, 2, 3), AxisX.With(p, 7))
	assert.Equal(t, vec.New(1, 2, 7), AxisZ.With(p, 7))
}
