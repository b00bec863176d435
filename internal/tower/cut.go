package tower

import "math"

// CutResult is the outcome of cutting the moving layer against the stable
// layer beneath it. All centers are coordinates along the cut axis.
type CutResult struct {
	Delta        float64 // signed offset between moving and stable centers
	OverhangSize float64 // |Delta|, extent of the discarded piece
	Overlap      float64 // retained extent along the axis

	RetainedCenter float64 // recentred position of the kept region
	OverhangCenter float64 // position of the discarded piece, flush with the kept edge

	HasOverhang bool // false on a perfectly aligned drop
	GameOver    bool // true when nothing overlaps; the round is over
}

// Cut computes the retained and discarded geometry for a drop.
//
// topCenter and prevCenter are the centers of the moving layer and the layer
// beneath it along the movement axis; size is the moving layer's extent
// along that axis. When Overlap <= 0 the drop missed entirely: GameOver is
// set and no other output field is meaningful.
func Cut(topCenter, prevCenter, size float64) CutResult {
	delta := topCenter - prevCenter
	overhangSize := math.Abs(delta)

	res := CutResult{
		Delta:        delta,
		OverhangSize: overhangSize,
		Overlap:      size - overhangSize,
	}

	if res.Overlap <= 0 {
		res.GameOver = true
		return res
	}

	// Recentre the kept region over the stable layer below.
	res.RetainedCenter = topCenter - delta/2

	// A zero-size overhang would be a degenerate rigid body; skip it.
	if overhangSize > 0 {
		res.HasOverhang = true
		shift := res.Overlap/2 + overhangSize/2
		if delta < 0 {
			shift = -shift
		}
		res.OverhangCenter = res.RetainedCenter + shift
	}

	return res
}
