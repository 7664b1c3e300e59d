package realtime

import (
	"encoding/binary"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

var errSocketClosed = errors.New("use of closed network connection")

// fakeSocket stands in for *websocket.Conn. Reads block until the test
// injects an error or the socket is closed.
type fakeSocket struct {
	mu       sync.Mutex
	messages [][]byte
	controls []controlFrame
	writeErr error
	block    chan struct{}
	release  sync.Once

	written   chan struct{}
	reads     chan error
	closed    chan struct{}
	closeOnce sync.Once
}

func newFakeSocket() *fakeSocket {
	return &fakeSocket{
		written: make(chan struct{}, 1024),
		reads:   make(chan error, 1),
		closed:  make(chan struct{}),
	}
}

type controlFrame struct {
	messageType int
	data        []byte
}

// blocking makes every data write hang until unblock is called or the
// socket is closed.
func (s *fakeSocket) blocking() *fakeSocket {
	s.block = make(chan struct{})
	return s
}

func (s *fakeSocket) unblock() {
	s.release.Do(func() { close(s.block) })
}

func (s *fakeSocket) failingWith(err error) *fakeSocket {
	s.writeErr = err
	return s
}

func (s *fakeSocket) WriteMessage(messageType int, data []byte) error {
	if s.block != nil {
		select {
		case <-s.block:
		case <-s.closed:
			return errSocketClosed
		}
	}
	select {
	case <-s.closed:
		return errSocketClosed
	default:
	}
	if s.writeErr != nil {
		return s.writeErr
	}
	s.mu.Lock()
	s.messages = append(s.messages, append([]byte(nil), data...))
	s.mu.Unlock()
	s.written <- struct{}{}
	return nil
}

func (s *fakeSocket) WriteControl(messageType int, data []byte, deadline time.Time) error {
	select {
	case <-s.closed:
		return errSocketClosed
	default:
	}
	s.mu.Lock()
	s.controls = append(s.controls, controlFrame{messageType, append([]byte(nil), data...)})
	s.mu.Unlock()
	return nil
}

// closeCode returns the status code of the first close frame written, or 0.
func (s *fakeSocket) closeCode() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range s.controls {
		if f.messageType == websocket.CloseMessage && len(f.data) >= 2 {
			return int(binary.BigEndian.Uint16(f.data[:2]))
		}
	}
	return 0
}

func (s *fakeSocket) SetWriteDeadline(t time.Time) error { return nil }

func (s *fakeSocket) SetReadLimit(limit int64) {}

func (s *fakeSocket) ReadMessage() (int, []byte, error) {
	select {
	case err := <-s.reads:
		return 0, nil, err
	case <-s.closed:
		return 0, nil, errSocketClosed
	}
}

func (s *fakeSocket) Close() error {
	s.closeOnce.Do(func() { close(s.closed) })
	return nil
}

// peerClose simulates the client sending a normal close frame.
func (s *fakeSocket) peerClose() {
	s.reads <- &websocket.CloseError{Code: websocket.CloseNormalClosure}
}

func (s *fakeSocket) received() [][]byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([][]byte(nil), s.messages...)
}

func (s *fakeSocket) isClosed() bool {
	select {
	case <-s.closed:
		return true
	default:
		return false
	}
}

// waitWrites blocks until n data messages were written or the timeout hits.
func (s *fakeSocket) waitWrites(n int, timeout time.Duration) bool {
	deadline := time.After(timeout)
	for len(s.received()) < n {
		select {
		case <-s.written:
		case <-deadline:
			return false
		}
	}
	return true
}
