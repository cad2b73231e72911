// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package life

import (
	"context"
	"io"
	"log/slog"

	"cogentcore.org/gol/base/errors"
	"cogentcore.org/gol/base/mpi"
	"cogentcore.org/gol/base/randx"
	"cogentcore.org/gol/config"
	"cogentcore.org/gol/grid"
	"golang.org/x/sync/errgroup"
)

// NewGrid returns the initial grid of cfg: the named pattern
// if there is one, and otherwise randomly placed live cells.
func NewGrid(cfg *config.Config) (*grid.Grid, error) {
	sim := cfg.Sim
	if sim.Pattern != "" {
		p, err := grid.PatternByName(sim.Pattern)
		if err != nil {
			return nil, err
		}
		g := grid.New(sim.Rows, sim.Cols)
		grid.Place(g, p)
		return g, nil
	}
	rnd, seed := randx.New(sim.Seed)
	slog.Info("generating grid", "rows", sim.Rows, "cols", sim.Cols, "live", sim.Live, "seed", seed)
	return grid.Generate(sim.Rows, sim.Cols, sim.Live, rnd), nil
}

// Printer returns a snapshot hook that renders to out.
func Printer(out io.Writer, gl grid.Glyphs) func(step int, g *grid.Grid) error {
	return func(step int, g *grid.Grid) error {
		return grid.Render(out, g, step, gl)
	}
}

// Run runs the simulation of cfg on an in-process world of
// cfg.World.Procs ranks, one goroutine each, calling onSnapshot
// on rank 0 with every snapshot. The first rank to fail aborts
// the world, and its error is returned rather than the errors
// of the ranks that stopped because of it.
func Run(ctx context.Context, cfg *config.Config, onSnapshot func(step int, g *grid.Grid) error) error {
	g, err := NewGrid(cfg)
	if err != nil {
		return err
	}
	world := mpi.NewWorld(cfg.World.Procs, cfg.World.Capacity)
	errs := make([]error, world.Size())
	eg, ctx := errgroup.WithContext(ctx)
	for r := range world.Size() {
		eg.Go(func() (err error) {
			defer func() { errs[r] = err }()
			cm := world.Comm(r)
			defer cm.Close()
			cm.Timeout = cfg.Timeout()
			w := NewWorker(cm, cfg.Sim)
			var rg *grid.Grid
			if cm.IsRoot() {
				w.Verify = cfg.Output.Verify
				w.OnSnapshot = onSnapshot
				rg = g
			}
			return w.Run(ctx, rg)
		})
	}
	if err := eg.Wait(); err != nil {
		return firstCause(errs, err)
	}
	return nil
}

// firstCause returns the first error of errs that is not a
// consequence of another rank failing, or else err.
func firstCause(errs []error, err error) error {
	for _, e := range errs {
		if e != nil && !errors.Is(e, mpi.ErrAborted) && !errors.Is(e, context.Canceled) {
			return e
		}
	}
	return err
}

// RunRank runs rank cfg.World.Rank of a world of separate
// processes, one per host of cfg.World.Hosts, connected by
// websockets. Only rank 0 generates the grid and calls onSnapshot.
func RunRank(ctx context.Context, cfg *config.Config, onSnapshot func(step int, g *grid.Grid) error) error {
	tr := mpi.NewSocketTransport(cfg.World.Rank, cfg.World.Hosts, cfg.World.Capacity)
	if err := tr.Listen(); err != nil {
		return err
	}
	if err := tr.Connect(ctx); err != nil {
		tr.Abort()
		return err
	}
	cm := tr.Comm()
	defer cm.Close()
	cm.Timeout = cfg.Timeout()
	w := NewWorker(cm, cfg.Sim)
	var g *grid.Grid
	if cm.IsRoot() {
		var err error
		if g, err = NewGrid(cfg); err != nil {
			cm.Abort()
			return err
		}
		w.Verify = cfg.Output.Verify
		w.OnSnapshot = onSnapshot
	}
	return w.Run(ctx, g)
}
