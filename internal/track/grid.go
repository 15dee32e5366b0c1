package track

import "image/color"

// CellType represents the type of surface in a grid cell.
type CellType int

const (
	CellWall CellType = iota
	CellTarmac
	CellGravel
	CellStart
)

// Drivable reports whether the tracer may walk through the cell.
func (c CellType) Drivable() bool {
	return c != CellWall
}

// Grid is a painted track image reduced to cell types. Cells are indexed
// [x][y] in pixels; Scale converts pixels to world units.
type Grid struct {
	Width, Height int
	Cells         [][]CellType
	Scale         float64
}

// NewGrid creates a new all-wall grid of the specified size.
func NewGrid(width, height int) *Grid {
	cells := make([][]CellType, width)
	for i := range cells {
		cells[i] = make([]CellType, height)
	}
	return &Grid{
		Width:  width,
		Height: height,
		Cells:  cells,
		Scale:  1.0,
	}
}

// Get returns the cell at (x, y). Returns Wall if out of bounds.
func (g *Grid) Get(x, y int) CellType {
	if x < 0 || x >= g.Width || y < 0 || y >= g.Height {
		return CellWall
	}
	return g.Cells[x][y]
}

// Find returns the first cell of type want in column-major order.
func (g *Grid) Find(want CellType) (int, int, bool) {
	for x := 0; x < g.Width; x++ {
		for y := 0; y < g.Height; y++ {
			if g.Cells[x][y] == want {
				return x, y, true
			}
		}
	}
	return 0, 0, false
}

// ColorToCellType maps a pixel color to a cell type.
func ColorToCellType(c color.Color) CellType {
	r, g, b, _ := c.RGBA()
	r8, g8, b8 := r>>8, g>>8, b>>8

	// White/Light Gray = Tarmac
	if r8 > 200 && g8 > 200 && b8 > 200 {
		return CellTarmac
	}
	// Red = Start
	if r8 > 200 && g8 < 100 && b8 < 100 {
		return CellStart
	}
	// Green = Gravel
	if g8 > r8+50 && g8 > b8+50 {
		return CellGravel
	}
	// Dark = Wall. Anything else is an anti-aliased track edge.
	if r8 < 50 && g8 < 50 && b8 < 50 {
		return CellWall
	}
	return CellTarmac
}
