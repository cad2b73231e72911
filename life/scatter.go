// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package life

import (
	"context"

	"cogentcore.org/gol/base/errors"
	"cogentcore.org/gol/grid"
)

// Scatter deals the rows of g, which is only used on rank 0,
// to the blocks of all ranks. Rank 0 sends to each other rank
// in rank order and then loads its own rows.
func (w *Worker) Scatter(ctx context.Context, g *grid.Grid) error {
	cm, st := w.Comm, w.Store
	if !cm.IsRoot() {
		return cm.Recv(ctx, 0, TagScatter, st.Block.Cells)
	}
	if g == nil || g.Rows != w.Sim.Rows || g.Cols != w.Sim.Cols {
		return errors.Errorf("life: scatter needs a %dx%d grid on rank 0", w.Sim.Rows, w.Sim.Cols)
	}
	buf := st.aboveScratch
	for r := 1; r < cm.Size(); r++ {
		buf.Load(g, r, cm.Size())
		if err := cm.Send(ctx, r, TagScatter, buf.Cells); err != nil {
			return err
		}
	}
	st.Block.Load(g, 0, cm.Size())
	return nil
}
