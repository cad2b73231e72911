// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package life runs Conway's Game of Life on a world of ranks
// that share no memory. Rows of the grid are dealt to the ranks
// cyclically, and every step each rank trades its rows with its
// two ring neighbors before computing the next state of its own.
package life

import (
	"context"
	"encoding/binary"
	"log/slog"

	"cogentcore.org/gol/base/errors"
	"cogentcore.org/gol/base/mpi"
	"cogentcore.org/gol/config"
	"cogentcore.org/gol/grid"
	"cogentcore.org/gol/logx"
)

// Worker runs the simulation on one rank.
type Worker struct {
	Comm   *mpi.Comm
	Logger *slog.Logger

	// Sim holds the simulation parameters. Only those of rank 0
	// are used: the grid size and the number of steps are
	// broadcast to the other ranks by [Worker.Setup].
	Sim config.Sim

	// Verify checks every snapshot on rank 0 against
	// the sequential [grid.Grid.Next].
	Verify bool

	// OnSnapshot is called on rank 0 with every snapshot.
	// The grid is reused for the next snapshot.
	OnSnapshot func(step int, g *grid.Grid) error

	// Plan and Store are set by [Worker.Setup].
	Plan  Plan
	Store *Store

	snap *grid.Grid
	ref  *grid.Grid
}

// NewWorker returns a worker for the rank of cm.
func NewWorker(cm *mpi.Comm, sim config.Sim) *Worker {
	return &Worker{Comm: cm, Sim: sim, Logger: logx.ForRank(cm.Rank())}
}

// Setup broadcasts the grid size and the number of steps from
// rank 0, and allocates the plan and store of this rank.
func (w *Worker) Setup(ctx context.Context) error {
	var buf [16]byte
	if w.Comm.IsRoot() {
		binary.BigEndian.PutUint32(buf[0:], uint32(w.Sim.Rows))
		binary.BigEndian.PutUint32(buf[4:], uint32(w.Sim.Cols))
		binary.BigEndian.PutUint32(buf[8:], uint32(w.Sim.Steps))
		binary.BigEndian.PutUint32(buf[12:], uint32(w.Sim.Every))
	}
	if err := w.Comm.Bcast(ctx, mpi.Root, buf[:]); err != nil {
		return err
	}
	w.Sim.Rows = int(binary.BigEndian.Uint32(buf[0:]))
	w.Sim.Cols = int(binary.BigEndian.Uint32(buf[4:]))
	w.Sim.Steps = int(binary.BigEndian.Uint32(buf[8:]))
	w.Sim.Every = int(binary.BigEndian.Uint32(buf[12:]))
	if w.Sim.Rows <= 0 || w.Sim.Cols <= 0 || w.Sim.Every <= 0 {
		return errors.Errorf("life: rank %d: invalid grid %dx%d every %d", w.Comm.Rank(), w.Sim.Rows, w.Sim.Cols, w.Sim.Every)
	}
	w.Plan = NewPlan(w.Comm.Rank(), w.Comm.Size(), w.Sim.Rows)
	w.Store = NewStore(w.Plan.Slots, w.Sim.Cols)
	w.Logger.Info("setup", "plan", w.Plan.String())
	return nil
}

// Run runs the whole simulation: it sets up the worker, scatters g
// from rank 0, which is the only rank that uses g, and then steps,
// taking a snapshot before the first step and after every
// Sim.Every steps. If anything fails, the world is aborted.
func (w *Worker) Run(ctx context.Context, g *grid.Grid) (err error) {
	defer func() {
		if err != nil {
			w.Comm.Abort()
		}
	}()
	if err := w.Setup(ctx); err != nil {
		return err
	}
	if err := w.Scatter(ctx, g); err != nil {
		return err
	}
	if w.Verify && w.Comm.IsRoot() {
		w.ref = g.Clone()
	}
	if err := w.snapshot(ctx, 0); err != nil {
		return err
	}
	for step := 1; step <= w.Sim.Steps; step++ {
		if err := Exchange(ctx, w.Comm, w.Plan, w.Store); err != nil {
			return err
		}
		w.Store.Step(w.Plan.Owned)
		if w.ref != nil {
			w.ref = w.ref.Next()
		}
		if step%w.Sim.Every != 0 {
			continue
		}
		if err := w.snapshot(ctx, step); err != nil {
			return err
		}
	}
	return nil
}

func (w *Worker) snapshot(ctx context.Context, step int) error {
	g, err := w.Snapshot(ctx)
	if err != nil || g == nil {
		return err
	}
	w.Logger.Debug("snapshot", "step", step, "alive", g.Alive())
	if w.ref != nil && !w.ref.Equal(g) {
		return errors.Errorf("life: snapshot at step %d differs from the sequential run", step)
	}
	if w.OnSnapshot != nil {
		return w.OnSnapshot(step, g)
	}
	return nil
}
