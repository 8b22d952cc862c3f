// Package grid provides the spatial placement service: a bounded,
// non-toroidal grid where any number of agents may share a cell.
//
// The simulation core places each agent once at construction and never reads
// coordinates back; the grid exists for renderers and drivers.
package grid

import "fmt"

// Coord is a cell position. (0,0) is the lower-left corner.
type Coord struct {
	X, Y int
}

// MultiGrid maps agent keys to cells. Not thread-safe.
type MultiGrid[K comparable] struct {
	width, height int
	positions     map[K]Coord
	cells         map[Coord][]K
}

// NewMultiGrid creates an empty width x height grid.
func NewMultiGrid[K comparable](width, height int) (*MultiGrid[K], error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("grid must be at least 1x1, got %dx%d", width, height)
	}
	return &MultiGrid[K]{
		width:     width,
		height:    height,
		positions: make(map[K]Coord),
		cells:     make(map[Coord][]K),
	}, nil
}

// Width returns the number of columns.
func (g *MultiGrid[K]) Width() int { return g.width }

// Height returns the number of rows.
func (g *MultiGrid[K]) Height() int { return g.height }

// InBounds reports whether (x, y) lies on the grid.
func (g *MultiGrid[K]) InBounds(x, y int) bool {
	return x >= 0 && x < g.width && y >= 0 && y < g.height
}

// Place puts key at (x, y). Placing an already placed key moves it.
func (g *MultiGrid[K]) Place(key K, x, y int) error {
	if !g.InBounds(x, y) {
		return fmt.Errorf("coordinates (%d,%d) outside %dx%d grid", x, y, g.width, g.height)
	}
	if old, ok := g.positions[key]; ok {
		g.removeFromCell(key, old)
	}
	c := Coord{X: x, Y: y}
	g.positions[key] = c
	g.cells[c] = append(g.cells[c], key)
	return nil
}

// Position returns where key was placed.
func (g *MultiGrid[K]) Position(key K) (Coord, bool) {
	c, ok := g.positions[key]
	return c, ok
}

// At returns the keys in cell (x, y), in placement order.
func (g *MultiGrid[K]) At(x, y int) []K {
	keys := g.cells[Coord{X: x, Y: y}]
	out := make([]K, len(keys))
	copy(out, keys)
	return out
}

// Len returns the number of placed keys.
func (g *MultiGrid[K]) Len() int {
	return len(g.positions)
}

func (g *MultiGrid[K]) removeFromCell(key K, c Coord) {
	keys := g.cells[c]
	for i, k := range keys {
		if k == key {
			g.cells[c] = append(keys[:i], keys[i+1:]...)
			break
		}
	}
	if len(g.cells[c]) == 0 {
		delete(g.cells, c)
	}
}
