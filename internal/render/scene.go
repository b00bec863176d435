package render

import (
	"sort"

	"towerstack/internal/vec"
)

// Fixed dimetric projection: x runs down-right, z runs down-left, y runs up.
// YScale is larger than DepthScale so thin layers stay readable.
const (
	projXScale     = 3.0
	projDepthScale = 1.5
	projYScale     = 6.0

	// horizonFactor places the camera height on the logical canvas.
	horizonFactor = 0.62
)

// viewDir points from the scene toward the viewer; faces whose world normal
// has a positive dot product with it are visible.
var viewDir = vec.New(1, 1.5, 1)

// Scene holds the renderable boxes and the camera height. It is the "scene
// container" visual proxies are attached to.
type Scene struct {
	CameraY float64

	boxes []*Box
}

// NewScene creates an empty scene.
func NewScene() *Scene {
	return &Scene{}
}

// AddBox creates a box with the given center, full extents and base shade,
// attaches it to the scene and returns its handle.
func (s *Scene) AddBox(pos, size vec.Vec3, shade uint8) *Box {
	if shade < 1 {
		shade = 1
	}
	if shade >= MaxShade {
		shade = MaxShade - 1
	}
	b := &Box{
		Position:    pos,
		Orientation: vec.QuatIdentity(),
		Size:        size,
		Scale:       vec.New(1, 1, 1),
		Shade:       shade,
	}
	s.boxes = append(s.boxes, b)
	return b
}

// RemoveBox detaches a box from the scene.
func (s *Scene) RemoveBox(h Handle) {
	target, ok := h.(*Box)
	if !ok {
		return
	}
	kept := s.boxes[:0]
	for _, b := range s.boxes {
		if b != target {
			kept = append(kept, b)
		}
	}
	s.boxes = kept
}

// Boxes returns the attached boxes. Callers must not mutate the slice.
func (s *Scene) Boxes() []*Box {
	return s.boxes
}

// Project maps a world position to logical canvas coordinates.
func (s *Scene) Project(p vec.Vec3, c *Canvas) Point {
	return Point{
		X: c.LogicalWidth()/2 + (p.X-p.Z)*projXScale,
		Y: c.LogicalHeight()*horizonFactor + (p.X+p.Z)*projDepthScale - (p.Y-s.CameraY)*projYScale,
	}
}

// Render draws all boxes back to front.
func (s *Scene) Render(c *Canvas) {
	// Painter's order: smaller x+z is farther from the viewer; for equal
	// depth draw lower boxes first so upper layers overpaint them.
	sort.SliceStable(s.boxes, func(i, j int) bool {
		bi, bj := s.boxes[i], s.boxes[j]
		di := bi.Position.X + bi.Position.Z
		dj := bj.Position.X + bj.Position.Z
		if di != dj {
			return di < dj
		}
		return bi.Position.Y < bj.Position.Y
	})

	for _, b := range s.boxes {
		s.drawBox(b, c)
	}
}

// boxFaces enumerates the six faces of a unit box: outward normal plus the
// four corners in winding order, all in local half-extent multiples.
var boxFaces = [6]struct {
	normal  vec.Vec3
	corners [4]vec.Vec3
}{
	{vec.New(0, 1, 0), [4]vec.Vec3{{X: -1, Y: 1, Z: -1}, {X: 1, Y: 1, Z: -1}, {X: 1, Y: 1, Z: 1}, {X: -1, Y: 1, Z: 1}}},
	{vec.New(0, -1, 0), [4]vec.Vec3{{X: -1, Y: -1, Z: -1}, {X: 1, Y: -1, Z: -1}, {X: 1, Y: -1, Z: 1}, {X: -1, Y: -1, Z: 1}}},
	{vec.New(1, 0, 0), [4]vec.Vec3{{X: 1, Y: -1, Z: -1}, {X: 1, Y: 1, Z: -1}, {X: 1, Y: 1, Z: 1}, {X: 1, Y: -1, Z: 1}}},
	{vec.New(-1, 0, 0), [4]vec.Vec3{{X: -1, Y: -1, Z: -1}, {X: -1, Y: 1, Z: -1}, {X: -1, Y: 1, Z: 1}, {X: -1, Y: -1, Z: 1}}},
	{vec.New(0, 0, 1), [4]vec.Vec3{{X: -1, Y: -1, Z: 1}, {X: -1, Y: 1, Z: 1}, {X: 1, Y: 1, Z: 1}, {X: 1, Y: -1, Z: 1}}},
	{vec.New(0, 0, -1), [4]vec.Vec3{{X: -1, Y: -1, Z: -1}, {X: -1, Y: 1, Z: -1}, {X: 1, Y: 1, Z: -1}, {X: 1, Y: -1, Z: -1}}},
}

// drawBox draws the visible faces of one box. A convex box's visible faces
// never overlap in projection, so face order does not matter.
func (s *Scene) drawBox(b *Box, c *Canvas) {
	half := b.halfExtents()

	for _, face := range boxFaces {
		normal := b.Orientation.Rotate(face.normal)
		if normal.Dot(viewDir) <= 0 {
			continue
		}

		points := c.BorrowPoints(4)
		for i, corner := range face.corners {
			world := b.Position.Add(b.Orientation.Rotate(corner.Mul(half)))
			points[i] = s.Project(world, c)
		}
		c.FillPolygon(points, faceShade(b.Shade, normal))
	}
}

// faceShade picks the shade for a face by its world normal: upward faces
// are lightest, right-facing (+x) keep the base shade, left-facing (+z)
// darken by one.
func faceShade(base uint8, normal vec.Vec3) uint8 {
	if normal.Y > 0.5 {
		if base+1 > MaxShade {
			return MaxShade
		}
		return base + 1
	}
	if normal.X > normal.Z {
		return base
	}
	if base <= 1 {
		return 1
	}
	return base - 1
}
