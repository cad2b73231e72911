// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package mpi provides a message-passing communicator modeled on MPI:
// a fixed world of ranks that exchange tagged point-to-point messages,
// with no memory shared between ranks. Messages travel over a
// [Transport]: either the in-process channels of a [World], with one
// goroutine per rank, or a [SocketTransport] with one process per rank.
package mpi

import (
	"context"
	"slices"
	"time"

	"cogentcore.org/gol/base/errors"
)

const (
	// Root is the rank 0 node -- it is more semantic to use this
	Root int = 0
)

// reserved tags for collective operations; user tags are >= 0.
const (
	tagBcast   = -1
	tagBarrier = -2
)

var (
	// ErrAborted is returned by every pending and subsequent
	// operation once any rank has aborted the world.
	ErrAborted = errors.New("mpi: world aborted")

	// ErrSize is returned when a received payload does not
	// have the size of the receive buffer.
	ErrSize = errors.New("mpi: payload size mismatch")
)

// Message is one tagged payload from a source rank.
type Message struct {
	Source int
	Tag    int
	Data   []byte

	release func()
}

// Release returns the payload buffer to its transport.
// Data must not be used afterwards.
func (m *Message) Release() {
	if m.release != nil {
		m.release()
		m.release = nil
	}
}

// Transport moves messages between the ranks of one world.
// Messages between a given pair of ranks are delivered in
// the order they were sent.
type Transport interface {

	// Send delivers a copy of data to rank to. The caller may
	// reuse data as soon as Send returns.
	Send(ctx context.Context, to, tag int, data []byte) error

	// Recv returns the next message sent by rank from.
	Recv(ctx context.Context, from int) (Message, error)

	// Abort tears down the whole world, so that every rank
	// blocked in Send or Recv returns [ErrAborted].
	Abort() error

	// Close releases the resources of this rank.
	Close() error
}

// Comm is the communicator of one rank -- all communication
// operates as methods on this struct. A Comm is owned by the
// goroutine of its rank and is not safe for concurrent use.
type Comm struct {

	// Timeout bounds every blocking operation when > 0.
	Timeout time.Duration

	rank int
	size int
	tr   Transport

	// pending holds messages received ahead of the tag
	// being waited for, per source rank.
	pending [][]Message
}

// NewComm returns the communicator for the given rank of a
// world of size ranks connected by tr.
func NewComm(rank, size int, tr Transport) *Comm {
	return &Comm{rank: rank, size: size, tr: tr, pending: make([][]Message, size)}
}

// Rank returns the rank/ID for this proc
func (cm *Comm) Rank() int { return cm.rank }

// Size returns the number of procs in this communicator
func (cm *Comm) Size() int { return cm.size }

// IsRoot returns whether this is the [Root] rank.
func (cm *Comm) IsRoot() bool { return cm.rank == Root }

func (cm *Comm) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if cm.Timeout > 0 {
		return context.WithTimeout(ctx, cm.Timeout)
	}
	return context.WithCancel(ctx)
}

func (cm *Comm) checkRank(r int) error {
	if r < 0 || r >= cm.size {
		return errors.Errorf("mpi: rank %d: peer rank %d out of range [0,%d)", cm.rank, r, cm.size)
	}
	return nil
}

// Send sends data to rank to with the given tag, blocking
// until the transport has accepted it.
func (cm *Comm) Send(ctx context.Context, to, tag int, data []byte) error {
	if err := cm.checkRank(to); err != nil {
		return err
	}
	ctx, cancel := cm.opContext(ctx)
	defer cancel()
	if err := cm.tr.Send(ctx, to, tag, data); err != nil {
		return errors.Errorf("mpi: rank %d send to %d (tag %d): %w", cm.rank, to, tag, err)
	}
	return nil
}

// Recv receives the next message with the given tag from rank
// from into buf, whose length must match the payload exactly.
// Messages from the same source with other tags that arrive
// first are kept for later Recv calls.
func (cm *Comm) Recv(ctx context.Context, from, tag int, buf []byte) error {
	if err := cm.checkRank(from); err != nil {
		return err
	}
	m, err := cm.match(ctx, from, tag)
	if err != nil {
		return errors.Errorf("mpi: rank %d recv from %d (tag %d): %w", cm.rank, from, tag, err)
	}
	defer m.Release()
	if len(m.Data) != len(buf) {
		return errors.Errorf("mpi: rank %d recv from %d (tag %d): %w: got %d bytes, want %d", cm.rank, from, tag, ErrSize, len(m.Data), len(buf))
	}
	copy(buf, m.Data)
	return nil
}

func (cm *Comm) match(ctx context.Context, from, tag int) (Message, error) {
	q := cm.pending[from]
	for i, m := range q {
		if m.Tag == tag {
			cm.pending[from] = slices.Delete(q, i, i+1)
			return m, nil
		}
	}
	ctx, cancel := cm.opContext(ctx)
	defer cancel()
	for {
		m, err := cm.tr.Recv(ctx, from)
		if err != nil {
			return m, err
		}
		if m.Tag == tag {
			return m, nil
		}
		cm.pending[from] = append(cm.pending[from], m)
	}
}

// Bcast copies buf from the root rank to the buf of every other rank.
func (cm *Comm) Bcast(ctx context.Context, root int, buf []byte) error {
	if cm.rank != root {
		return cm.Recv(ctx, root, tagBcast, buf)
	}
	for r := 0; r < cm.size; r++ {
		if r == root {
			continue
		}
		if err := cm.Send(ctx, r, tagBcast, buf); err != nil {
			return err
		}
	}
	return nil
}

// Barrier forces synchronisation: it returns only after
// every rank has entered it.
func (cm *Comm) Barrier(ctx context.Context) error {
	if cm.rank != Root {
		if err := cm.Send(ctx, Root, tagBarrier, nil); err != nil {
			return err
		}
		return cm.Recv(ctx, Root, tagBarrier, nil)
	}
	for r := 1; r < cm.size; r++ {
		if err := cm.Recv(ctx, r, tagBarrier, nil); err != nil {
			return err
		}
	}
	for r := 1; r < cm.size; r++ {
		if err := cm.Send(ctx, r, tagBarrier, nil); err != nil {
			return err
		}
	}
	return nil
}

// Abort aborts the whole world.
func (cm *Comm) Abort() error {
	return cm.tr.Abort()
}

// Close releases this rank's transport resources.
func (cm *Comm) Close() error {
	for _, q := range cm.pending {
		for i := range q {
			q[i].Release()
		}
	}
	return cm.tr.Close()
}
