// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package grid

import (
	"fmt"
	"slices"
	"strings"
)

// Pattern is a named arrangement of live cells.
type Pattern struct {
	Name string

	// Desc is a short description, including the suggested grid size.
	Desc string

	// Cells are the live cells as {row, col} offsets from the start.
	Cells [][2]int

	// start returns the linear index of the top-left corner
	// of the pattern in a grid of the given size.
	start func(rows, cols int) int
}

// Patterns are the seed patterns that can be placed with [Place].
var Patterns = []*Pattern{
	{
		Name:  "glider",
		Desc:  "glider, for a 15x40 grid",
		Cells: [][2]int{{0, 1}, {1, 2}, {2, 0}, {2, 1}, {2, 2}},
		start: func(rows, cols int) int { return 5*cols + rows/2 },
	},
	{
		Name:  "lwss",
		Desc:  "lightweight spaceship, for a 15x40 grid",
		Cells: [][2]int{{0, 1}, {0, 2}, {0, 3}, {0, 4}, {1, 0}, {1, 4}, {2, 4}, {3, 0}, {3, 3}},
		start: func(rows, cols int) int { return 5*cols + rows/2 },
	},
	{
		Name: "exploder",
		Desc: "exploder, for a 20x30 grid",
		Cells: [][2]int{
			{0, 0}, {1, 0}, {2, 0}, {3, 0}, {4, 0},
			{0, 4}, {1, 4}, {2, 4}, {3, 4}, {4, 4},
			{0, 2}, {4, 2},
		},
		start: func(rows, cols int) int { return 7*cols + rows/2 },
	},
	{
		Name:  "row10",
		Desc:  "10 cell row, for a 13x20 grid",
		Cells: [][2]int{{0, 0}, {0, 1}, {0, 2}, {0, 3}, {0, 4}, {0, 5}, {0, 6}, {0, 7}, {0, 8}, {0, 9}},
		start: func(rows, cols int) int { return 7*cols + 5 },
	},
	{
		Name:  "block",
		Desc:  "2x2 still life, any grid of at least 4x4",
		Cells: [][2]int{{0, 0}, {0, 1}, {1, 0}, {1, 1}},
		start: center,
	},
	{
		Name:  "blinker",
		Desc:  "period 2 oscillator, any grid of at least 5x5",
		Cells: [][2]int{{0, 0}, {0, 1}, {0, 2}},
		start: center,
	},
}

func center(rows, cols int) int {
	return (rows/2)*cols + cols/2 - 1
}

// PatternByName returns the pattern with the given name.
func PatternByName(name string) (*Pattern, error) {
	i := slices.IndexFunc(Patterns, func(p *Pattern) bool { return p.Name == name })
	if i < 0 {
		names := make([]string, len(Patterns))
		for i, p := range Patterns {
			names[i] = p.Name
		}
		return nil, fmt.Errorf("unknown pattern %q; known patterns: %s", name, strings.Join(names, ", "))
	}
	return Patterns[i], nil
}

// Place sets the cells of the given pattern alive in g.
// Cell offsets are added to the linear start index, so a
// pattern that runs past the end of a row continues on the
// next one, and past the last row on the first.
func Place(g *Grid, p *Pattern) {
	n := g.Rows * g.Cols
	start := p.start(g.Rows, g.Cols)
	for _, c := range p.Cells {
		g.Cells[mod(start+c[0]*g.Cols+c[1], n)] = Alive
	}
}
