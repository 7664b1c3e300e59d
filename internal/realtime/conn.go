package realtime

import (
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"livepoll/internal/metrics"
)

var (
	ErrConnClosed     = errors.New("connection closed")
	ErrSendBufferFull = errors.New("send buffer full")
)

const (
	defaultSendBuffer   = 16
	defaultWriteTimeout = 5 * time.Second
	defaultPingInterval = 30 * time.Second
	maxInboundBytes     = 512
)

// Socket is the subset of *websocket.Conn used by Conn. WriteControl and
// Close may be called concurrently with the other methods.
type Socket interface {
	WriteMessage(messageType int, data []byte) error
	WriteControl(messageType int, data []byte, deadline time.Time) error
	SetWriteDeadline(t time.Time) error
	SetReadLimit(limit int64)
	ReadMessage() (messageType int, p []byte, err error)
	Close() error
}

type Options struct {
	SendBuffer   int
	WriteTimeout time.Duration
	PingInterval time.Duration
}

func (o Options) withDefaults() Options {
	if o.SendBuffer <= 0 {
		o.SendBuffer = defaultSendBuffer
	}
	if o.WriteTimeout <= 0 {
		o.WriteTimeout = defaultWriteTimeout
	}
	if o.PingInterval <= 0 {
		o.PingInterval = defaultPingInterval
	}
	return o
}

// Conn is one subscriber. Outbound snapshots wait in a per-poll slot: a
// newer snapshot of a poll that is still queued replaces the older one in
// place, so a burst of votes on one poll costs a single slot. SendBuffer
// bounds how many distinct polls may be waiting at once. A single writer
// goroutine drains the slots in FIFO order, so Enqueue never blocks.
type Conn struct {
	id     uuid.UUID
	socket Socket
	opts   Options
	logger *slog.Logger

	mu      sync.Mutex
	order   []int64
	pending map[int64][]byte
	wake    chan struct{}

	done      chan struct{}
	state     atomic.Int32
	closeOnce sync.Once
	onClose   func(*Conn)
}

// NewConn wraps an upgraded socket. onClose runs exactly once, when the
// connection reaches a terminal state.
func NewConn(socket Socket, opts Options, onClose func(*Conn), logger *slog.Logger) *Conn {
	if logger == nil {
		logger = slog.Default()
	}
	opts = opts.withDefaults()
	c := &Conn{
		id:      uuid.New(),
		socket:  socket,
		opts:    opts,
		logger:  logger,
		pending: make(map[int64][]byte),
		wake:    make(chan struct{}, 1),
		done:    make(chan struct{}),
		onClose: onClose,
	}
	c.state.Store(int32(StateConnecting))
	return c
}

func (c *Conn) ID() uuid.UUID { return c.id }

func (c *Conn) State() State { return State(c.state.Load()) }

// Done is closed once the connection is terminal.
func (c *Conn) Done() <-chan struct{} { return c.done }

func (c *Conn) activate() bool {
	return c.state.CompareAndSwap(int32(StateConnecting), int32(StateActive))
}

// Enqueue hands the snapshot message of pollID to the writer without
// blocking. It reports whether an older queued snapshot of the same poll
// was replaced.
func (c *Conn) Enqueue(pollID int64, msg []byte) (replaced bool, err error) {
	if c.State() != StateActive {
		return false, ErrConnClosed
	}

	c.mu.Lock()
	if _, ok := c.pending[pollID]; ok {
		c.pending[pollID] = msg
		c.mu.Unlock()
		return true, nil
	}
	if len(c.order) >= c.opts.SendBuffer {
		c.mu.Unlock()
		return false, ErrSendBufferFull
	}
	c.pending[pollID] = msg
	c.order = append(c.order, pollID)
	c.mu.Unlock()

	select {
	case c.wake <- struct{}{}:
	default:
	}
	return false, nil
}

func (c *Conn) next() ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.order) == 0 {
		return nil, false
	}
	pollID := c.order[0]
	c.order[0] = 0
	c.order = c.order[1:]
	msg := c.pending[pollID]
	delete(c.pending, pollID)
	return msg, true
}

// Run serves the connection until it is closed from either side.
func (c *Conn) Run() {
	c.socket.SetReadLimit(maxInboundBytes)
	go c.writePump()
	c.readPump()
}

// Close performs a clean server-side close.
func (c *Conn) Close() {
	c.closeWith(websocket.CloseGoingAway, "server shutting down")
	c.finish(StateDisconnected, nil)
}

// fail ends the connection as Failed. An overflow still has a working
// socket, so the peer gets a close frame telling it to come back later.
func (c *Conn) fail(err error) {
	if errors.Is(err, ErrSendBufferFull) && !c.State().Terminal() {
		c.closeWith(websocket.CloseTryAgainLater, err.Error())
	}
	c.finish(StateFailed, err)
}

func (c *Conn) closeWith(code int, reason string) {
	deadline := time.Now().Add(c.opts.WriteTimeout)
	_ = c.socket.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(code, reason), deadline)
}

func (c *Conn) finish(state State, err error) {
	c.closeOnce.Do(func() {
		c.state.Store(int32(state))
		close(c.done)
		_ = c.socket.Close()
		if err != nil {
			c.logger.Info("connection failed", "conn_id", c.id, "error", err)
		}
		if c.onClose != nil {
			c.onClose(c)
		}
	})
}

func (c *Conn) writePump() {
	ticker := time.NewTicker(c.opts.PingInterval)
	defer ticker.Stop()

	for {
		if msg, ok := c.next(); ok {
			if err := c.write(msg); err != nil {
				if errors.Is(err, ErrConnClosed) {
					return
				}
				metrics.IncDelivery("failed")
				c.fail(err)
				return
			}
			metrics.IncDelivery("sent")
			continue
		}

		select {
		case <-c.done:
			return
		case <-c.wake:
		case <-ticker.C:
			deadline := time.Now().Add(c.opts.WriteTimeout)
			if err := c.socket.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				c.fail(err)
				return
			}
		}
	}
}

func (c *Conn) write(msg []byte) error {
	select {
	case <-c.done:
		return ErrConnClosed
	default:
	}
	if err := c.socket.SetWriteDeadline(time.Now().Add(c.opts.WriteTimeout)); err != nil {
		return err
	}
	return c.socket.WriteMessage(websocket.TextMessage, msg)
}

func (c *Conn) readPump() {
	for {
		if _, _, err := c.socket.ReadMessage(); err != nil {
			if websocket.IsCloseError(err,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway,
				websocket.CloseNoStatusReceived,
			) {
				c.finish(StateDisconnected, nil)
				return
			}
			c.fail(err)
			return
		}
	}
}
