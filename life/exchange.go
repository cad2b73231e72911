// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package life

import (
	"context"

	"cogentcore.org/gol/base/mpi"
)

// Message tags.
const (
	TagScatter = iota + 1
	TagHaloUp
	TagHaloDown
	TagWrapLast
	TagWrapFirst
	TagSnapshot
)

// Exchange fills the Above and Below blocks of st with the
// neighbor rows of every owned row, trading blocks with the
// ring neighbors of the plan. Every rank of the world must
// call Exchange for the same step.
func Exchange(ctx context.Context, cm *mpi.Comm, p Plan, st *Store) error {
	above, below := st.Above, st.Below
	if p.Rank == 0 {
		above = st.aboveScratch
	}
	if p.IsLast() {
		below = st.belowScratch
	}
	if p.Mode == Singleton {
		copy(st.aboveScratch.Cells, st.Block.Cells)
		copy(st.belowScratch.Cells, st.Block.Cells)
	}
	for _, op := range p.ops() {
		var err error
		switch op {
		case sendUp:
			err = cm.Send(ctx, p.Top, TagHaloUp, st.Block.Cells)
		case sendDown:
			err = cm.Send(ctx, p.Bottom, TagHaloDown, st.Block.Cells)
		case recvBelow:
			err = cm.Recv(ctx, p.Bottom, TagHaloUp, below.Cells)
		case recvAbove:
			err = cm.Recv(ctx, p.Top, TagHaloDown, above.Cells)
		}
		if err != nil {
			return err
		}
	}
	align(p, st)
	return wrap(ctx, cm, p, st)
}

// align shifts the rows received by rank 0 from the last rank,
// and by the last rank from rank 0, by one slot, since row k of
// rank 0 lies one slot below row k of the last rank.
func align(p Plan, st *Store) {
	s := p.Slots
	if p.Rank == 0 {
		for k := 1; k < s; k++ {
			copy(st.Above.Row(k), st.aboveScratch.Row(k-1))
		}
		if p.Wrap() == WrapRing {
			copy(st.Above.Row(0), st.aboveScratch.Row(s-1))
		}
	}
	if p.IsLast() {
		for k := 0; k < s-1; k++ {
			copy(st.Below.Row(k), st.belowScratch.Row(k+1))
		}
		if p.Wrap() == WrapRing {
			copy(st.Below.Row(s-1), st.belowScratch.Row(0))
		}
	}
}

// wrap gives rank 0 the last row as the row above its first
// row, and the owner of the last row the first row as the
// row below it, when the ring exchange does not.
func wrap(ctx context.Context, cm *mpi.Comm, p Plan, st *Store) error {
	switch p.Wrap() {
	case WrapLocal:
		if p.Rank == 0 {
			copy(st.Above.Row(0), st.Block.Row(p.Owned-1))
			copy(st.Below.Row(p.Owned-1), st.Block.Row(0))
		}
	case WrapMessage:
		switch p.Rank {
		case 0:
			if err := cm.Recv(ctx, p.LastOwner, TagWrapLast, st.Above.Row(0)); err != nil {
				return err
			}
			return cm.Send(ctx, p.LastOwner, TagWrapFirst, st.Block.Row(0))
		case p.LastOwner:
			if err := cm.Send(ctx, 0, TagWrapLast, st.Block.Row(p.Owned-1)); err != nil {
				return err
			}
			return cm.Recv(ctx, 0, TagWrapFirst, st.Below.Row(p.Owned-1))
		}
	}
	return nil
}
