// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package life

import (
	"fmt"

	"cogentcore.org/gol/grid"
)

// Step computes the next state of the first owned rows of the
// store from the current Above, Block and Below rows, wrapping
// around the columns, and then swaps Block and Next. It panics
// if a neighbor row of an owned row was never filled.
func (st *Store) Step(owned int) {
	cols := st.Block.Cols
	for k := range owned {
		if st.Above.IsSentinel(k) || st.Below.IsSentinel(k) {
			panic(fmt.Sprintf("life: neighbor row of slot %d is padding", k))
		}
		above, cur, below := st.Above.Row(k), st.Block.Row(k), st.Below.Row(k)
		next := st.Next.Row(k)
		for c := range cols {
			l := (c - 1 + cols) % cols
			r := (c + 1) % cols
			n := above[l] + above[c] + above[r] +
				cur[l] + cur[r] +
				below[l] + below[c] + below[r]
			next[c] = grid.Rule(cur[c], int(n))
		}
	}
	st.Block, st.Next = st.Next, st.Block
}
