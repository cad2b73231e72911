// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package life

import (
	"context"
	"fmt"
	"testing"
	"time"

	"cogentcore.org/gol/base/mpi"
	"cogentcore.org/gol/base/randx"
	"cogentcore.org/gol/config"
	"cogentcore.org/gol/grid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

// runLocal runs f on every rank of an in-process world
// whose sends all block until received.
func runLocal(t *testing.T, size int, f func(ctx context.Context, cm *mpi.Comm) error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	world := mpi.NewWorld(size, 0)
	eg, ctx := errgroup.WithContext(ctx)
	for r := range size {
		eg.Go(func() error {
			cm := world.Comm(r)
			if err := f(ctx, cm); err != nil {
				cm.Abort()
				return err
			}
			return nil
		})
	}
	require.NoError(t, eg.Wait())
}

// snapshots runs g for the given number of steps on size ranks
// and returns a copy of every snapshot.
func snapshots(t *testing.T, size int, g *grid.Grid, steps, every int) []*grid.Grid {
	t.Helper()
	var snaps []*grid.Grid
	runLocal(t, size, func(ctx context.Context, cm *mpi.Comm) error {
		w := NewWorker(cm, config.Sim{Rows: g.Rows, Cols: g.Cols, Steps: steps, Every: every})
		w.Verify = true
		w.OnSnapshot = func(step int, s *grid.Grid) error {
			snaps = append(snaps, s.Clone())
			return nil
		}
		return w.Run(ctx, g)
	})
	return snaps
}

// rowGrid returns a grid whose rows are all different.
func rowGrid(rows int) *grid.Grid {
	g := grid.New(rows, 6)
	for r := range rows {
		for c := range 6 {
			g.Cells[r*6+c] = byte((r+1)>>c) & 1
		}
	}
	return g
}

func TestPlan(t *testing.T) {
	assert.Equal(t, Singleton, NewPlan(0, 1, 5).Mode)
	assert.Equal(t, RingEven, NewPlan(1, 2, 5).Mode)
	assert.Equal(t, RingOdd, NewPlan(2, 3, 5).Mode)

	assert.Equal(t, WrapRing, NewPlan(0, 1, 5).Wrap())
	assert.Equal(t, WrapRing, NewPlan(0, 4, 8).Wrap())
	assert.Equal(t, WrapLocal, NewPlan(0, 4, 9).Wrap())
	assert.Equal(t, WrapMessage, NewPlan(0, 4, 10).Wrap())
	assert.Equal(t, WrapLocal, NewPlan(0, 3, 1).Wrap())

	p := NewPlan(0, 4, 10)
	assert.Equal(t, 3, p.Top)
	assert.Equal(t, 1, p.Bottom)
	assert.Equal(t, 1, p.LastOwner)
	assert.Equal(t, 3, p.Slots)
	assert.Equal(t, 3, p.Owned)
	assert.Equal(t, "rank 0/4: RingEven WrapMessage, 3 of 3 slots", p.String())
	assert.Equal(t, "ExchangeModes(7)", ExchangeModes(7).String())
}

func TestBlock(t *testing.T) {
	g := rowGrid(7)
	b := NewBlock(grid.Slots(7, 3), 6)
	b.Load(g, 1, 3)
	assert.Equal(t, g.Row(1), b.Row(0))
	assert.Equal(t, g.Row(4), b.Row(1))
	assert.True(t, b.IsSentinel(2))

	h := grid.New(7, 6)
	b.Unload(h, 1, 3)
	assert.Equal(t, g.Row(1), h.Row(1))
	assert.Equal(t, g.Row(4), h.Row(4))
	assert.Equal(t, countAlive(g.Row(1))+countAlive(g.Row(4)), h.Alive())
}

func countAlive(row []byte) int {
	n := 0
	for _, c := range row {
		n += int(c)
	}
	return n
}

func TestExchangeAlignment(t *testing.T) {
	for size := 1; size <= 7; size++ {
		for rows := 1; rows <= 20; rows++ {
			t.Run(fmt.Sprintf("P%dR%d", size, rows), func(t *testing.T) {
				g := rowGrid(rows)
				runLocal(t, size, func(ctx context.Context, cm *mpi.Comm) error {
					w := NewWorker(cm, config.Sim{Rows: rows, Cols: 6, Steps: 1, Every: 1})
					if err := w.Setup(ctx); err != nil {
						return err
					}
					if err := w.Scatter(ctx, g); err != nil {
						return err
					}
					// twice, to check that buffers are reused correctly
					for range 2 {
						if err := Exchange(ctx, cm, w.Plan, w.Store); err != nil {
							return err
						}
					}
					for k := range w.Plan.Owned {
						row := grid.GlobalRow(cm.Rank(), k, size)
						assert.Equal(t, g.Row((row-1+rows)%rows), w.Store.Above.Row(k), "rank %d row %d above", cm.Rank(), row)
						assert.Equal(t, g.Row((row+1)%rows), w.Store.Below.Row(k), "rank %d row %d below", cm.Rank(), row)
					}
					return nil
				})
			})
		}
	}
}

func TestStepPanics(t *testing.T) {
	st := NewStore(1, 4)
	fill(st.Block.Row(0), grid.Dead)
	fill(st.Below.Row(0), grid.Dead)
	assert.Panics(t, func() { st.Step(1) })
	assert.NotPanics(t, func() { st.Step(0) })
}

func TestIsolatedCell(t *testing.T) {
	g := grid.New(5, 5)
	g.Set(2, 2, grid.Alive)
	snaps := snapshots(t, 2, g, 1, 1)
	require.Len(t, snaps, 2)
	assert.Equal(t, 1, snaps[0].Alive())
	assert.Equal(t, 0, snaps[1].Alive())
}

func TestStillLife(t *testing.T) {
	block, err := grid.PatternByName("block")
	require.NoError(t, err)
	for _, size := range []int{1, 3} {
		g := grid.New(6, 6)
		grid.Place(g, block)
		for _, s := range snapshots(t, size, g, 3, 1) {
			assert.True(t, s.Equal(g), "size %d", size)
		}
	}
}

func TestBlinker(t *testing.T) {
	blinker, err := grid.PatternByName("blinker")
	require.NoError(t, err)
	for _, size := range []int{1, 2} {
		g := grid.New(5, 5)
		grid.Place(g, blinker)
		snaps := snapshots(t, size, g, 4, 1)
		require.Len(t, snaps, 5)
		for i, s := range snaps {
			assert.Equal(t, i%2 == 0, s.Equal(g), "size %d step %d", size, i)
			assert.Equal(t, 3, s.Alive())
		}
	}
}

func TestScatterSnapshot(t *testing.T) {
	rnd := randx.NewSysRand(3)
	for size := 1; size <= 7; size++ {
		for _, rows := range []int{1, 4, 7, 12} {
			g := grid.Generate(rows, 5, rows*2, rnd)
			runLocal(t, size, func(ctx context.Context, cm *mpi.Comm) error {
				w := NewWorker(cm, config.Sim{Rows: rows, Cols: 5, Steps: 1, Every: 1})
				if err := w.Setup(ctx); err != nil {
					return err
				}
				if err := w.Scatter(ctx, g); err != nil {
					return err
				}
				s, err := w.Snapshot(ctx)
				if err != nil {
					return err
				}
				if cm.IsRoot() {
					assert.True(t, s.Equal(g), "size %d rows %d", size, rows)
				} else {
					assert.Nil(t, s)
				}
				return nil
			})
		}
	}
}

func TestMatchesSequential(t *testing.T) {
	rnd := randx.NewSysRand(11)
	for _, size := range []int{1, 2, 3, 4, 5, 7} {
		for _, dims := range [][2]int{{1, 5}, {3, 3}, {8, 8}, {11, 7}, {13, 20}} {
			g := grid.Generate(dims[0], dims[1], dims[0]*dims[1]/3, rnd)
			snaps := snapshots(t, size, g, 12, 3)
			require.Len(t, snaps, 5)
			ref := g.Clone()
			for i := range 12 {
				ref = ref.Next()
				if (i+1)%3 == 0 {
					assert.True(t, ref.Equal(snaps[(i+1)/3]), "size %d dims %v step %d", size, dims, i+1)
				}
			}
		}
	}
}

func TestRun(t *testing.T) {
	cfg := config.Defaults()
	cfg.Sim.Rows, cfg.Sim.Cols = 15, 40
	cfg.Sim.Pattern = "glider"
	cfg.Sim.Steps, cfg.Sim.Every = 8, 4
	cfg.World.Procs = 4
	cfg.World.Capacity = 1
	cfg.Output.Verify = true
	var steps []int
	err := Run(context.Background(), cfg, func(step int, g *grid.Grid) error {
		steps = append(steps, step)
		assert.Equal(t, 5, g.Alive())
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 4, 8}, steps)

	cfg.Sim.Pattern = "nope"
	assert.Error(t, Run(context.Background(), cfg, nil))
}

func TestRunHookError(t *testing.T) {
	cfg := config.Defaults()
	cfg.World.Procs = 3
	cfg.World.Timeout = 5
	err := Run(context.Background(), cfg, func(step int, g *grid.Grid) error {
		if step == 2 {
			return fmt.Errorf("stop at %d", step)
		}
		return nil
	})
	assert.ErrorContains(t, err, "stop at 2")
}
