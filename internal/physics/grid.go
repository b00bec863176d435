package physics

import "math"

// spatialGrid is a uniform XZ-plane grid for broad-phase collision pruning.
// Bodies are inserted by position and index, then nearby bodies can be
// queried via a 3x3 neighborhood lookup. The tower world is bounded, so
// positions outside the covered extent clamp to the border cells.
//
// Cell size must be >= the maximum footprint of any colliding body so all
// potential contacts are found within the neighborhood.
type spatialGrid struct {
	cellSize    float64
	invCellSize float64
	halfExtent  float64 // grid covers [-halfExtent, halfExtent] in x and z
	cols        int
	cells       [][]int
}

// newSpatialGrid creates a grid covering [-halfExtent, halfExtent] squared.
func newSpatialGrid(halfExtent, cellSize float64) *spatialGrid {
	cols := int(math.Ceil(2 * halfExtent / cellSize))
	if cols < 1 {
		cols = 1
	}
	return &spatialGrid{
		cellSize:    cellSize,
		invCellSize: 1.0 / cellSize,
		halfExtent:  halfExtent,
		cols:        cols,
		cells:       make([][]int, cols*cols),
	}
}

// clear removes all items without deallocating cell memory.
func (g *spatialGrid) clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
}

// insert adds a body index at the given world position.
func (g *spatialGrid) insert(x, z float64, index int) {
	col, row := g.posToCell(x, z)
	idx := row*g.cols + col
	g.cells[idx] = append(g.cells[idx], index)
}

// queryAround calls fn for each body index in the 3x3 cell neighborhood
// around the given position. If fn returns true, iteration stops early.
func (g *spatialGrid) queryAround(x, z float64, fn func(index int) bool) {
	col, row := g.posToCell(x, z)

	for dr := -1; dr <= 1; dr++ {
		r := row + dr
		if r < 0 || r >= g.cols {
			continue
		}
		rowOffset := r * g.cols

		for dc := -1; dc <= 1; dc++ {
			c := col + dc
			if c < 0 || c >= g.cols {
				continue
			}
			for _, idx := range g.cells[rowOffset+c] {
				if fn(idx) {
					return
				}
			}
		}
	}
}

// posToCell converts world coordinates to cell coordinates, clamped to the
// grid border.
func (g *spatialGrid) posToCell(x, z float64) (col, row int) {
	col = int((x + g.halfExtent) * g.invCellSize)
	if col < 0 {
		col = 0
	} else if col >= g.cols {
		col = g.cols - 1
	}

	row = int((z + g.halfExtent) * g.invCellSize)
	if row < 0 {
		row = 0
	} else if row >= g.cols {
		row = g.cols - 1
	}

	return col, row
}
