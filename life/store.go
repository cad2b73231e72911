// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package life

import (
	"cogentcore.org/gol/grid"
)

// Block is the rows of one rank: slot k holds global row
// rank + k*size. Slots past the last owned row are padding
// filled with [grid.Sentinel].
type Block struct {
	Cols  int
	Cells []byte
}

// NewBlock returns a block of the given number of slots,
// filled with [grid.Sentinel].
func NewBlock(slots, cols int) *Block {
	b := &Block{Cols: cols, Cells: make([]byte, slots*cols)}
	b.Fill(grid.Sentinel)
	return b
}

// Slots returns the number of row slots.
func (b *Block) Slots() int {
	return len(b.Cells) / b.Cols
}

// Row returns the cells of slot k.
func (b *Block) Row(k int) []byte {
	return b.Cells[k*b.Cols : (k+1)*b.Cols]
}

// IsSentinel returns whether slot k is padding.
func (b *Block) IsSentinel(k int) bool {
	return b.Cells[k*b.Cols] == grid.Sentinel
}

// Fill sets every cell to v.
func (b *Block) Fill(v byte) {
	for i := range b.Cells {
		b.Cells[i] = v
	}
}

// Load fills the block with the rows of g owned by rank,
// and the remaining slots with [grid.Sentinel].
func (b *Block) Load(g *grid.Grid, rank, size int) {
	for k := range b.Slots() {
		row := grid.GlobalRow(rank, k, size)
		if row < g.Rows {
			copy(b.Row(k), g.Row(row))
		} else {
			fill(b.Row(k), grid.Sentinel)
		}
	}
}

// Unload writes the owned rows of the block back into g.
func (b *Block) Unload(g *grid.Grid, rank, size int) {
	for k := range b.Slots() {
		row := grid.GlobalRow(rank, k, size)
		if row >= g.Rows {
			return
		}
		copy(g.Row(row), b.Row(k))
	}
}

func fill(row []byte, v byte) {
	for i := range row {
		row[i] = v
	}
}

// Store is the local state of one rank. Every buffer has the
// same number of slots, is allocated once and is reused for
// every step.
type Store struct {

	// Block holds the current state of the owned rows.
	Block *Block

	// Next receives the next state, and is swapped with Block after a step.
	Next *Block

	// Above holds in slot k the row above the row of Block slot k.
	Above *Block

	// Below holds in slot k the row below the row of Block slot k.
	Below *Block

	// receive buffers for ranks whose neighbor rows need shifting
	aboveScratch *Block
	belowScratch *Block
}

// NewStore returns a store with blocks of the given size.
func NewStore(slots, cols int) *Store {
	return &Store{
		Block:        NewBlock(slots, cols),
		Next:         NewBlock(slots, cols),
		Above:        NewBlock(slots, cols),
		Below:        NewBlock(slots, cols),
		aboveScratch: NewBlock(slots, cols),
		belowScratch: NewBlock(slots, cols),
	}
}
