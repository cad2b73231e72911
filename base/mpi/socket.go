// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mpi

import (
	"context"
	"encoding/binary"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"cogentcore.org/gol/base/errors"
	"github.com/gorilla/websocket"
)

// SocketPath is the HTTP path on which ranks accept peer connections.
const SocketPath = "/mpi"

// closeAborted is the websocket close code sent to peers by [SocketTransport.Abort].
const closeAborted = 4000

// SocketTransport connects ranks running in separate processes,
// with one websocket connection per pair of ranks: each rank
// dials every lower rank and accepts connections from every
// higher rank. Each message is one binary frame holding a
// 4-byte big-endian tag followed by the payload.
type SocketTransport struct {
	rank  int
	hosts []string

	upgrader websocket.Upgrader
	srv      *http.Server

	mu      sync.Mutex
	peers   []*peer
	waiting int
	ready   chan struct{}

	done    chan struct{}
	errOnce sync.Once
	err     error
	closed  sync.Once
}

type peer struct {
	conn  *websocket.Conn
	inbox chan Message
	gone  chan struct{}

	wmu sync.Mutex
	buf []byte
}

// NewSocketTransport returns the transport of the given rank in a
// world whose ranks listen on hosts (host:port, one per rank).
// Up to capacity incoming messages are buffered per peer.
func NewSocketTransport(rank int, hosts []string, capacity int) *SocketTransport {
	t := &SocketTransport{
		rank:    rank,
		hosts:   hosts,
		peers:   make([]*peer, len(hosts)),
		waiting: len(hosts) - 1,
		ready:   make(chan struct{}),
		done:    make(chan struct{}),
	}
	for i := range t.peers {
		if i != rank {
			t.peers[i] = &peer{inbox: make(chan Message, capacity), gone: make(chan struct{})}
		}
	}
	if t.waiting <= 0 {
		close(t.ready)
	}
	return t
}

// Listen listens on this rank's host address and serves peer connections.
func (t *SocketTransport) Listen() error {
	ln, err := net.Listen("tcp", t.hosts[t.rank])
	if err != nil {
		return errors.Wrap(err)
	}
	t.Serve(ln)
	return nil
}

// Serve accepts peer connections on ln in a separate goroutine.
func (t *SocketTransport) Serve(ln net.Listener) {
	mux := http.NewServeMux()
	mux.HandleFunc(SocketPath, t.handle)
	t.srv = &http.Server{Handler: mux}
	go t.srv.Serve(ln)
}

func (t *SocketTransport) handle(w http.ResponseWriter, r *http.Request) {
	from, err := strconv.Atoi(r.URL.Query().Get("rank"))
	if err != nil || from <= t.rank || from >= len(t.hosts) {
		http.Error(w, "invalid rank", http.StatusBadRequest)
		return
	}
	conn, err := t.upgrader.Upgrade(w, r, nil)
	if errors.Log(err) != nil {
		return
	}
	if err := t.attach(from, conn); err != nil {
		conn.Close()
		errors.Log(err)
	}
}

func (t *SocketTransport) attach(from int, conn *websocket.Conn) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	p := t.peers[from]
	if p.conn != nil {
		return errors.Errorf("mpi: rank %d: duplicate connection from rank %d", t.rank, from)
	}
	p.conn = conn
	go t.read(from, p)
	t.waiting--
	if t.waiting == 0 {
		close(t.ready)
	}
	return nil
}

// Connect dials every lower rank, retrying until it answers,
// and waits until every higher rank has connected.
func (t *SocketTransport) Connect(ctx context.Context) error {
	for to := 0; to < t.rank; to++ {
		conn, err := t.dial(ctx, to)
		if err != nil {
			return err
		}
		if err := t.attach(to, conn); err != nil {
			conn.Close()
			return err
		}
	}
	select {
	case <-t.ready:
		return nil
	case <-t.done:
		return t.err
	case <-ctx.Done():
		return errors.Errorf("mpi: rank %d: waiting for peers: %w", t.rank, ctx.Err())
	}
}

func (t *SocketTransport) dial(ctx context.Context, to int) (*websocket.Conn, error) {
	url := "ws://" + t.hosts[to] + SocketPath + "?rank=" + strconv.Itoa(t.rank)
	for {
		conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
		if err == nil {
			return conn, nil
		}
		select {
		case <-ctx.Done():
			return nil, errors.Errorf("mpi: rank %d: dialing rank %d at %s: %w", t.rank, to, t.hosts[to], err)
		case <-time.After(50 * time.Millisecond):
		}
	}
}

func (t *SocketTransport) read(from int, p *peer) {
	defer close(p.gone)
	for {
		typ, data, err := p.conn.ReadMessage()
		if err != nil {
			switch {
			case websocket.IsCloseError(err, websocket.CloseNormalClosure):
			case websocket.IsCloseError(err, closeAborted):
				t.fail(ErrAborted)
			default:
				t.fail(errors.Errorf("mpi: rank %d: connection to rank %d: %w", t.rank, from, err))
			}
			return
		}
		if typ != websocket.BinaryMessage {
			continue
		}
		if len(data) < 4 {
			t.fail(errors.Errorf("mpi: rank %d: %w: %d byte frame from rank %d", t.rank, ErrSize, len(data), from))
			return
		}
		m := Message{Source: from, Tag: int(int32(binary.BigEndian.Uint32(data))), Data: data[4:]}
		select {
		case p.inbox <- m:
		case <-t.done:
			return
		}
	}
}

func (t *SocketTransport) fail(err error) {
	t.errOnce.Do(func() {
		t.err = err
		close(t.done)
	})
}

// Comm returns the communicator for this transport.
func (t *SocketTransport) Comm() *Comm {
	return NewComm(t.rank, len(t.hosts), t)
}

func (t *SocketTransport) Send(ctx context.Context, to, tag int, data []byte) error {
	select {
	case <-t.done:
		return t.err
	default:
	}
	p := t.peers[to]
	if p == nil || p.conn == nil {
		return errors.Errorf("mpi: rank %d: no connection to rank %d", t.rank, to)
	}
	p.wmu.Lock()
	defer p.wmu.Unlock()
	p.buf = binary.BigEndian.AppendUint32(p.buf[:0], uint32(int32(tag)))
	p.buf = append(p.buf, data...)
	dl, _ := ctx.Deadline()
	p.conn.SetWriteDeadline(dl)
	return p.conn.WriteMessage(websocket.BinaryMessage, p.buf)
}

func (t *SocketTransport) Recv(ctx context.Context, from int) (Message, error) {
	p := t.peers[from]
	if p == nil {
		return Message{}, errors.Errorf("mpi: rank %d: no connection to rank %d", t.rank, from)
	}
	select {
	case m := <-p.inbox:
		return m, nil
	default:
	}
	select {
	case m := <-p.inbox:
		return m, nil
	case <-p.gone:
		select {
		case m := <-p.inbox:
			return m, nil
		default:
		}
		if t.err != nil {
			return Message{}, t.err
		}
		return Message{}, errors.Errorf("mpi: rank %d: rank %d closed its connection", t.rank, from)
	case <-t.done:
		return Message{}, t.err
	case <-ctx.Done():
		return Message{}, ctx.Err()
	}
}

// Abort marks the world aborted and tells every peer to abort.
func (t *SocketTransport) Abort() error {
	t.fail(ErrAborted)
	t.shutdown(closeAborted)
	return nil
}

// Close closes every peer connection normally and stops serving.
func (t *SocketTransport) Close() error {
	t.shutdown(websocket.CloseNormalClosure)
	return nil
}

func (t *SocketTransport) shutdown(code int) {
	t.closed.Do(func() {
		msg := websocket.FormatCloseMessage(code, "")
		dl := time.Now().Add(time.Second)
		t.mu.Lock()
		for _, p := range t.peers {
			if p == nil || p.conn == nil {
				continue
			}
			p.conn.WriteControl(websocket.CloseMessage, msg, dl)
			p.conn.Close()
		}
		t.mu.Unlock()
		if t.srv != nil {
			t.srv.Close()
		}
	})
}
