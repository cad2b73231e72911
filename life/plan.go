// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package life

import (
	"fmt"

	"cogentcore.org/gol/grid"
)

// ExchangeModes are the schedules of the halo exchange,
// chosen by the number of ranks.
type ExchangeModes int32

const (
	// Singleton is a world of one rank: its neighbor
	// rows are its own, and nothing is sent.
	Singleton ExchangeModes = iota

	// RingEven is an even number of ranks: even ranks send
	// while odd ranks receive, and then the other way around.
	RingEven

	// RingOdd is an odd number of ranks, where rank 0 and the
	// last rank are both even, so the exchange takes four phases.
	RingOdd
)

func (m ExchangeModes) String() string {
	switch m {
	case Singleton:
		return "Singleton"
	case RingEven:
		return "RingEven"
	case RingOdd:
		return "RingOdd"
	}
	return fmt.Sprintf("ExchangeModes(%d)", int32(m))
}

// WrapModes are the ways in which rank 0 and the owner of
// the last row get each other's rows.
type WrapModes int32

const (
	// WrapRing is when the rows divide evenly, so the wrapped
	// rows arrive with the ring exchange.
	WrapRing WrapModes = iota

	// WrapLocal is when rank 0 owns the last row too.
	WrapLocal

	// WrapMessage is when another rank owns the last row,
	// and it trades rows with rank 0 after the ring exchange.
	WrapMessage
)

func (m WrapModes) String() string {
	switch m {
	case WrapRing:
		return "WrapRing"
	case WrapLocal:
		return "WrapLocal"
	case WrapMessage:
		return "WrapMessage"
	}
	return fmt.Sprintf("WrapModes(%d)", int32(m))
}

// Plan is the exchange schedule of one rank, fixed for the whole run.
type Plan struct {
	Rank int
	Size int
	Rows int

	Mode ExchangeModes

	// Uneven is whether the rows do not divide evenly among the ranks.
	Uneven bool

	// Top and Bottom are the ring neighbors, which own the
	// rows above and below the rows of this rank.
	Top    int
	Bottom int

	// LastOwner owns the last row.
	LastOwner int

	// Slots is the number of slots of every block,
	// and Owned the number of them holding rows.
	Slots int
	Owned int
}

// NewPlan returns the plan of the given rank.
func NewPlan(rank, size, rows int) Plan {
	p := Plan{
		Rank:      rank,
		Size:      size,
		Rows:      rows,
		Uneven:    rows%size != 0,
		Top:       (rank - 1 + size) % size,
		Bottom:    (rank + 1) % size,
		LastOwner: grid.LastOwner(rows, size),
		Slots:     grid.Slots(rows, size),
		Owned:     grid.Owned(rank, size, rows),
	}
	switch {
	case size == 1:
		p.Mode = Singleton
	case size%2 == 0:
		p.Mode = RingEven
	default:
		p.Mode = RingOdd
	}
	return p
}

// Wrap returns how the wrapped rows are obtained.
func (p Plan) Wrap() WrapModes {
	switch {
	case !p.Uneven:
		return WrapRing
	case p.LastOwner == 0:
		return WrapLocal
	default:
		return WrapMessage
	}
}

// IsLast returns whether this is the highest rank.
func (p Plan) IsLast() bool {
	return p.Rank == p.Size-1
}

func (p Plan) String() string {
	return fmt.Sprintf("rank %d/%d: %s %s, %d of %d slots", p.Rank, p.Size, p.Mode, p.Wrap(), p.Owned, p.Slots)
}

type opKinds int32

const (
	sendUp opKinds = iota
	sendDown
	recvBelow
	recvAbove
)

// ops returns the ring exchange operations of this rank, in order.
// In every phase each sender is matched by a receiver in the same
// phase, so the exchange completes even when every send blocks
// until it is received.
func (p Plan) ops() []opKinds {
	even := p.Rank%2 == 0
	switch p.Mode {
	case RingEven:
		if even {
			return []opKinds{sendUp, sendDown, recvBelow, recvAbove}
		}
		return []opKinds{recvBelow, recvAbove, sendUp, sendDown}
	case RingOdd:
		switch {
		case p.Rank == 0:
			return []opKinds{sendUp, recvBelow, recvAbove, sendDown}
		case p.IsLast():
			return []opKinds{recvBelow, recvAbove, sendDown, sendUp}
		case even:
			return []opKinds{recvBelow, recvAbove, sendUp, sendDown}
		default:
			return []opKinds{sendUp, sendDown, recvBelow, recvAbove}
		}
	}
	return nil
}
