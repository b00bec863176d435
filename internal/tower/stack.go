package tower

import (
	"towerstack/internal/physics"
	"towerstack/internal/render"
	"towerstack/internal/vec"
)

// Layer shade cycles so consecutive layers stay visually distinct.
var layerShades = []uint8{2, 3, 1}

// overhangTipSpin is the initial angular speed (rad/s) of a cut fragment,
// tipping it away from the tower as it starts to fall.
const overhangTipSpin = 1.5

// Stack owns the ordered layer list and the detached overhangs. Adding a
// layer or overhang is the one place a visual and a physics proxy enter the
// world: both are created and attached here.
type Stack struct {
	BoxHeight float64

	scene *render.Scene
	world *physics.World

	layers    []*Layer
	overhangs []*Overhang
}

// NewStack creates an empty stack attached to the given scene and world.
func NewStack(scene *render.Scene, world *physics.World, boxHeight float64) *Stack {
	return &Stack{
		BoxHeight: boxHeight,
		scene:     scene,
		world:     world,
	}
}

// Len returns the number of placed layers.
func (s *Stack) Len() int {
	return len(s.layers)
}

// Layers returns the placed layers, bottom to top.
func (s *Stack) Layers() []*Layer {
	return s.layers
}

// Overhangs returns the live detached fragments.
func (s *Stack) Overhangs() []*Overhang {
	return s.overhangs
}

// Top returns the most recently added layer, or nil for an empty stack.
func (s *Stack) Top() *Layer {
	if len(s.layers) == 0 {
		return nil
	}
	return s.layers[len(s.layers)-1]
}

// Previous returns the layer beneath the top, or nil.
func (s *Stack) Previous() *Layer {
	if len(s.layers) < 2 {
		return nil
	}
	return s.layers[len(s.layers)-2]
}

// AddLayer places a new layer at stack height len(layers)*BoxHeight with
// the given footprint and movement axis. The body is static: stacked
// layers never move under physics.
func (s *Stack) AddLayer(x, z, width, depth float64, axis Axis) *Layer {
	index := len(s.layers)
	base := s.BoxHeight * float64(index)
	pos := vec.New(x, base+s.BoxHeight/2, z)
	size := vec.New(width, s.BoxHeight, depth)

	layer := &Layer{
		Width:     width,
		Depth:     depth,
		Axis:      axis,
		Index:     index,
		origWidth: width,
		origDepth: depth,
	}
	layer.Visual = s.scene.AddBox(pos, size, layerShades[index%len(layerShades)])
	layer.Body = physics.NewStaticBox(pos, size.Scale(0.5))
	s.world.AddBody(layer.Body)

	s.layers = append(s.layers, layer)
	return layer
}

// AddOverhang spawns a dynamic fragment at the height of the current top
// layer. Mass scales with volume so small slivers and big slabs collide
// believably.
func (s *Stack) AddOverhang(x, z, width, depth float64) *Overhang {
	base := s.BoxHeight * float64(len(s.layers)-1)
	pos := vec.New(x, base+s.BoxHeight/2, z)
	size := vec.New(width, s.BoxHeight, depth)

	o := &Overhang{Width: width, Depth: depth}
	shade := layerShades[(len(s.layers)-1)%len(layerShades)]
	o.Visual = s.scene.AddBox(pos, size, shade)
	o.Body = physics.NewDynamicBox(pos, size.Scale(0.5), width*depth*s.BoxHeight)
	s.world.AddBody(o.Body)

	s.overhangs = append(s.overhangs, o)
	return o
}

// RemoveOverhang despawns a fragment from both subsystems.
func (s *Stack) RemoveOverhang(target *Overhang) {
	s.scene.RemoveBox(target.Visual)
	s.world.RemoveBody(target.Body)

	kept := s.overhangs[:0]
	for _, o := range s.overhangs {
		if o != target {
			kept = append(kept, o)
		}
	}
	s.overhangs = kept
}

// CutTop runs the placement engine for the active top layer against the
// layer beneath it and applies the result: on a successful cut the top
// layer shrinks and recentres in place (physics shape replaced, visual
// rescaled) and the discarded piece becomes a falling overhang. On a miss
// (Overlap <= 0) the stack is left untouched and GameOver is set.
func (s *Stack) CutTop() CutResult {
	top := s.Top()
	prev := s.Previous()
	axis := top.Axis

	res := Cut(axis.Of(top.Body.Position), axis.Of(prev.Body.Position), top.SizeAlong(axis))
	if res.GameOver {
		return res
	}

	if axis == AxisX {
		top.Width = res.Overlap
	} else {
		top.Depth = res.Overlap
	}

	pos := axis.With(top.Body.Position, res.RetainedCenter)
	top.Body.Position = pos
	top.Body.SetHalfExtents(vec.New(top.Width, s.BoxHeight, top.Depth).Scale(0.5))
	top.Visual.SetPosition(pos)
	top.Visual.SetScale(vec.New(top.Width/top.origWidth, 1, top.Depth/top.origDepth))

	if res.HasOverhang {
		overhangPos := axis.With(pos, res.OverhangCenter)
		width, depth := res.OverhangSize, top.Depth
		if axis == AxisZ {
			width, depth = top.Width, res.OverhangSize
		}
		o := s.AddOverhang(overhangPos.X, overhangPos.Z, width, depth)

		// The unsupported weight tips the fragment over its near edge,
		// away from the tower.
		spin := overhangTipSpin
		if res.Delta < 0 {
			spin = -spin
		}
		if axis == AxisX {
			o.Body.AngularVel = vec.New(0, 0, -spin)
		} else {
			o.Body.AngularVel = vec.New(spin, 0, 0)
		}
	}

	return res
}
