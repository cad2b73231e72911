// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mpi

import (
	"context"
	"net"
	"sync"
	"testing"
	"time"

	"cogentcore.org/gol/base/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// listenSockets opens a loopback listener per rank and
// returns the listeners and their addresses.
func listenSockets(t *testing.T, size int) ([]net.Listener, []string) {
	lns := make([]net.Listener, size)
	hosts := make([]string, size)
	for i := range lns {
		ln, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)
		lns[i] = ln
		hosts[i] = ln.Addr().String()
	}
	return lns, hosts
}

func runSockets(t *testing.T, size int, f func(cm *Comm) error) []error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	lns, hosts := listenSockets(t, size)
	errs := make([]error, size)
	var wg sync.WaitGroup
	for r := 0; r < size; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tr := NewSocketTransport(r, hosts, 4)
			tr.Serve(lns[r])
			if err := tr.Connect(ctx); err != nil {
				errs[r] = err
				tr.Abort()
				return
			}
			cm := tr.Comm()
			defer cm.Close()
			errs[r] = f(cm)
		}()
	}
	wg.Wait()
	return errs
}

func TestSocketRing(t *testing.T) {
	ctx := context.Background()
	errs := runSockets(t, 3, func(cm *Comm) error {
		next := (cm.Rank() + 1) % cm.Size()
		prev := (cm.Rank() - 1 + cm.Size()) % cm.Size()
		if err := cm.Send(ctx, next, 7, []byte{byte(cm.Rank())}); err != nil {
			return err
		}
		got := make([]byte, 1)
		if err := cm.Recv(ctx, prev, 7, got); err != nil {
			return err
		}
		assert.Equal(t, byte(prev), got[0])

		buf := make([]byte, 2)
		if cm.IsRoot() {
			buf[0], buf[1] = 4, 2
		}
		if err := cm.Bcast(ctx, Root, buf); err != nil {
			return err
		}
		assert.Equal(t, []byte{4, 2}, buf)
		return cm.Barrier(ctx)
	})
	for _, err := range errs {
		assert.NoError(t, err)
	}
}

func TestSocketAbort(t *testing.T) {
	ctx := context.Background()
	errs := runSockets(t, 2, func(cm *Comm) error {
		if cm.Rank() == 1 {
			time.Sleep(20 * time.Millisecond)
			return cm.Abort()
		}
		return cm.Recv(ctx, 1, 0, nil)
	})
	assert.True(t, errors.Is(errs[0], ErrAborted))
	assert.NoError(t, errs[1])
}

func TestSocketSingle(t *testing.T) {
	errs := runSockets(t, 1, func(cm *Comm) error {
		assert.Equal(t, 1, cm.Size())
		return cm.Barrier(context.Background())
	})
	assert.NoError(t, errs[0])
}
