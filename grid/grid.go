// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package grid provides the global toroidal grid of cells:
// its generation, the cyclic assignment of its rows to ranks,
// a sequential reference step, and snapshot rendering.
package grid

import (
	"fmt"
	"slices"
)

// Cell states. Sentinel marks padding slots of a block
// and is never a real cell value.
const (
	Dead     byte = 0
	Alive    byte = 1
	Sentinel byte = 2
)

// Grid is a row-major grid of Rows x Cols cells that wraps
// around in both directions.
type Grid struct {
	Rows  int
	Cols  int
	Cells []byte
}

// New returns an all-dead grid of the given size.
func New(rows, cols int) *Grid {
	return &Grid{Rows: rows, Cols: cols, Cells: make([]byte, rows*cols)}
}

// Row returns the cells of row i, sharing storage with the grid.
func (g *Grid) Row(i int) []byte {
	return g.Cells[i*g.Cols : (i+1)*g.Cols]
}

// At returns the cell at the given row and column, both
// taken modulo the grid size.
func (g *Grid) At(row, col int) byte {
	return g.Cells[mod(row, g.Rows)*g.Cols+mod(col, g.Cols)]
}

// Set sets the cell at the given row and column, both
// taken modulo the grid size.
func (g *Grid) Set(row, col int, v byte) {
	g.Cells[mod(row, g.Rows)*g.Cols+mod(col, g.Cols)] = v
}

// Alive returns the number of live cells.
func (g *Grid) Alive() int {
	n := 0
	for _, c := range g.Cells {
		if c == Alive {
			n++
		}
	}
	return n
}

// Equal returns whether the two grids have the same size and cells.
func (g *Grid) Equal(o *Grid) bool {
	return g.Rows == o.Rows && g.Cols == o.Cols && slices.Equal(g.Cells, o.Cells)
}

// Clone returns a deep copy of the grid.
func (g *Grid) Clone() *Grid {
	return &Grid{Rows: g.Rows, Cols: g.Cols, Cells: slices.Clone(g.Cells)}
}

func (g *Grid) String() string {
	return fmt.Sprintf("Grid %dx%d (%d alive)", g.Rows, g.Cols, g.Alive())
}

// Next returns the grid after one step of the game, computed
// sequentially. It is the reference for the distributed step.
func (g *Grid) Next() *Grid {
	n := New(g.Rows, g.Cols)
	for r := 0; r < g.Rows; r++ {
		for c := 0; c < g.Cols; c++ {
			sum := 0
			for dr := -1; dr <= 1; dr++ {
				for dc := -1; dc <= 1; dc++ {
					if dr != 0 || dc != 0 {
						sum += int(g.At(r+dr, c+dc))
					}
				}
			}
			n.Cells[r*g.Cols+c] = Rule(g.Cells[r*g.Cols+c], sum)
		}
	}
	return n
}

// Rule returns the next state of a cell with the given
// number of live neighbors.
func Rule(cell byte, neighbors int) byte {
	if neighbors == 3 || (cell == Alive && neighbors == 2) {
		return Alive
	}
	return Dead
}

func mod(a, n int) int {
	a %= n
	if a < 0 {
		a += n
	}
	return a
}
