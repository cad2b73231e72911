// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mpi

import (
	"context"
	"sync"
)

// World is an in-process world of ranks, one goroutine each,
// connected by a channel for every ordered pair of ranks.
// Payloads are copied into pooled buffers, so ranks never
// share memory through a message.
type World struct {
	size  int
	links [][]chan Message // links[from][to]
	done  chan struct{}
	once  sync.Once
	pool  sync.Pool
}

// NewWorld returns a world of size ranks whose channels hold
// up to capacity messages. With capacity 0 every Send is a
// rendezvous with the matching Recv.
func NewWorld(size, capacity int) *World {
	w := &World{size: size, done: make(chan struct{})}
	w.links = make([][]chan Message, size)
	for from := range w.links {
		w.links[from] = make([]chan Message, size)
		for to := range w.links[from] {
			w.links[from][to] = make(chan Message, capacity)
		}
	}
	return w
}

// Size returns the number of ranks.
func (w *World) Size() int { return w.size }

// Comm returns the communicator of the given rank.
func (w *World) Comm(rank int) *Comm {
	return NewComm(rank, w.size, &localTransport{w: w, rank: rank})
}

// Abort closes the world: all blocked and future
// operations return [ErrAborted]. It is safe to call
// more than once and from any goroutine.
func (w *World) Abort() {
	w.once.Do(func() { close(w.done) })
}

// Done is closed when the world is aborted.
func (w *World) Done() <-chan struct{} { return w.done }

func (w *World) get(n int) *[]byte {
	bp, _ := w.pool.Get().(*[]byte)
	if bp == nil || cap(*bp) < n {
		b := make([]byte, n)
		return &b
	}
	*bp = (*bp)[:n]
	return bp
}

type localTransport struct {
	w    *World
	rank int
}

func (t *localTransport) Send(ctx context.Context, to, tag int, data []byte) error {
	bp := t.w.get(len(data))
	copy(*bp, data)
	m := Message{Source: t.rank, Tag: tag, Data: *bp, release: func() { t.w.pool.Put(bp) }}
	select {
	case t.w.links[t.rank][to] <- m:
		return nil
	case <-t.w.done:
		m.Release()
		return ErrAborted
	case <-ctx.Done():
		m.Release()
		return ctx.Err()
	}
}

func (t *localTransport) Recv(ctx context.Context, from int) (Message, error) {
	select {
	case m := <-t.w.links[from][t.rank]:
		return m, nil
	case <-t.w.done:
		return Message{}, ErrAborted
	case <-ctx.Done():
		return Message{}, ctx.Err()
	}
}

func (t *localTransport) Abort() error {
	t.w.Abort()
	return nil
}

func (t *localTransport) Close() error { return nil }
