// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package grid

// Rows are dealt to ranks cyclically: row i is owned by rank
// i mod size and is slot i / size of that rank's block.

// Owner returns the rank that owns the given row.
func Owner(row, size int) int {
	return row % size
}

// Slots returns the number of row slots of every block:
// the number of rows owned by rank 0.
func Slots(rows, size int) int {
	return (rows + size - 1) / size
}

// Owned returns the number of rows owned by the given rank.
func Owned(rank, size, rows int) int {
	if rank >= rows {
		return 0
	}
	return (rows - rank + size - 1) / size
}

// GlobalRow returns the global row held in slot k of the given rank.
func GlobalRow(rank, k, size int) int {
	return rank + k*size
}

// LastOwner returns the rank that owns the last row.
func LastOwner(rows, size int) int {
	return (rows - 1) % size
}
