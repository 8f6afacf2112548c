package websocket

import (
	"errors"
	"sync"
	"time"
)

type written struct {
	kind int
	data []byte
}

// fakeConn is an in-memory Connection. Reads block until a frame is queued
// with push or the connection is closed.
type fakeConn struct {
	mu       sync.Mutex
	writes   []written
	closed   bool
	incoming chan []byte
	writeErr error
}

func newFakeConn() *fakeConn {
	return &fakeConn{incoming: make(chan []byte, 8)}
}

func (f *fakeConn) WriteMessage(kind int, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return f.writeErr
	}
	f.writes = append(f.writes, written{kind: kind, data: append([]byte(nil), data...)})
	return nil
}

func (f *fakeConn) ReadMessage() (int, []byte, error) {
	msg, ok := <-f.incoming
	if !ok {
		return 0, nil, errors.New("connection closed")
	}
	return 1, msg, nil
}

func (f *fakeConn) push(msg string) { f.incoming <- []byte(msg) }

func (f *fakeConn) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.closed {
		f.closed = true
		close(f.incoming)
	}
	return nil
}

func (f *fakeConn) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

func (f *fakeConn) frames() []written {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]written(nil), f.writes...)
}

func (f *fakeConn) SetReadDeadline(time.Time) error   { return nil }
func (f *fakeConn) SetWriteDeadline(time.Time) error  { return nil }
func (f *fakeConn) SetReadLimit(int64)                {}
func (f *fakeConn) SetPongHandler(func(string) error) {}
func (f *fakeConn) RemoteAddr() string                { return "127.0.0.1:50000" }
