// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package grid

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"
)

// Glyphs are the characters a snapshot is drawn with.
type Glyphs struct {
	Dead  string
	Alive string

	// Profile colors live cells unless it is [termenv.Ascii].
	Profile termenv.Profile
}

// DefaultGlyphs draws dead cells as . and live cells as O, without color.
var DefaultGlyphs = Glyphs{Dead: ".", Alive: "O", Profile: termenv.Ascii}

// aliveColor is the ANSI color of live cells.
const aliveColor = "2"

// Render writes a snapshot of g at the given step: a
// "Step: <n>" header, one line per row with the cells
// separated by spaces, and a closing line of 2*Cols dashes.
func Render(w io.Writer, g *Grid, step int, gl Glyphs) error {
	alive := gl.Alive
	if gl.Profile != termenv.Ascii {
		alive = termenv.String(alive).Foreground(gl.Profile.Color(aliveColor)).Bold().String()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Step: %d\n", step)
	for r := 0; r < g.Rows; r++ {
		for c, v := range g.Row(r) {
			if c > 0 {
				b.WriteByte(' ')
			}
			if v == Alive {
				b.WriteString(alive)
			} else {
				b.WriteString(gl.Dead)
			}
		}
		b.WriteByte('\n')
	}
	b.WriteString(strings.Repeat("-", 2*g.Cols))
	b.WriteByte('\n')
	_, err := io.WriteString(w, b.String())
	return err
}
