// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package life

import (
	"context"

	"cogentcore.org/gol/grid"
)

// Snapshot gathers the blocks of all ranks into the whole grid
// on rank 0, receiving from each other rank in rank order. It
// returns the grid on rank 0, and nil on the other ranks once
// their block has been sent. The grid is reused by the next call.
func (w *Worker) Snapshot(ctx context.Context) (*grid.Grid, error) {
	cm, st := w.Comm, w.Store
	if !cm.IsRoot() {
		return nil, cm.Send(ctx, 0, TagSnapshot, st.Block.Cells)
	}
	if w.snap == nil {
		w.snap = grid.New(w.Sim.Rows, w.Sim.Cols)
	}
	st.Block.Unload(w.snap, 0, cm.Size())
	buf := st.belowScratch
	for r := 1; r < cm.Size(); r++ {
		if err := cm.Recv(ctx, r, TagSnapshot, buf.Cells); err != nil {
			return nil, err
		}
		buf.Unload(w.snap, r, cm.Size())
	}
	return w.snap, nil
}
