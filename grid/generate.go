// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package grid

import "cogentcore.org/gol/base/randx"

// Generate returns a grid with exactly min(live, rows*cols) live
// cells. Each cell goes to a random index; if that cell is already
// alive, the following indexes are tried in turn, wrapping around.
func Generate(rows, cols, live int, rnd randx.Rand) *Grid {
	g := New(rows, cols)
	n := rows * cols
	live = min(live, n)
	for ; live > 0; live-- {
		i := rnd.Intn(n)
		for g.Cells[i] == Alive {
			i = (i + 1) % n
		}
		g.Cells[i] = Alive
	}
	return g
}
