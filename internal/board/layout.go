package board

import (
	"github.com/farleyman/newsboard-go/internal/models"
)

// Layout computes the grid shape for n tiles. Auto picks a near-square
// grid biased toward more rows than columns: columns = floor(sqrt(n)),
// rows = ceil(n/columns).
func Layout(n int, mode models.LayoutMode) (rows, cols int) {
	if n <= 0 {
		return 0, 0
	}
	switch mode {
	case models.Layout2x2:
		cols = 2
	case models.Layout3x3:
		cols = 3
	case models.Layout1xN:
		return 1, n
	case models.LayoutNx1:
		return n, 1
	default:
		cols = isqrt(n)
	}
	if cols < 1 {
		cols = 1
	}
	rows = (n + cols - 1) / cols
	return rows, cols
}

// Place assigns grid cells to tiles row-major, left to right, top to
// bottom. Detached (picture-in-picture) tiles are excluded from the grid
// entirely.
func Place(tiles []models.Tile, mode models.LayoutMode) models.Grid {
	attached := make([]string, 0, len(tiles))
	for _, t := range tiles {
		if !t.Detached {
			attached = append(attached, t.ID)
		}
	}

	rows, cols := Layout(len(attached), mode)
	grid := models.Grid{Rows: rows, Cols: cols}
	for i, id := range attached {
		grid.Cells = append(grid.Cells, models.Cell{
			TileID: id,
			Row:    i / cols,
			Col:    i % cols,
		})
	}
	return grid
}

// isqrt is the integer square root (floor).
func isqrt(n int) int {
	r := 0
	for (r+1)*(r+1) <= n {
		r++
	}
	return r
}
