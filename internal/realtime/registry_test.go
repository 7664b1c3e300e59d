package realtime

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryConcurrentMembership(t *testing.T) {
	reg := NewRegistry(quietLogger)
	b := NewBroadcaster(reg, quietLogger)

	const workers = 16
	var wg sync.WaitGroup
	stop := make(chan struct{})

	// keep broadcasting while membership churns
	var published atomic.Int64
	go func() {
		for {
			select {
			case <-stop:
				return
			default:
				b.Publish(1, snapshotWith(1, published.Add(1)))
			}
		}
	}()

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				c := NewConn(newFakeSocket(), Options{SendBuffer: 4096}, reg.OnDisconnect, quietLogger)
				if err := reg.OnConnect(c); err != nil {
					t.Errorf("connect: %v", err)
					return
				}
				_ = reg.Snapshot()
				c.Close()
			}
		}()
	}
	wg.Wait()
	close(stop)

	assert.Equal(t, 0, reg.Len())
}

func TestOnConnectActivates(t *testing.T) {
	reg := NewRegistry(quietLogger)
	c := NewConn(newFakeSocket(), Options{}, reg.OnDisconnect, quietLogger)
	assert.Equal(t, StateConnecting, c.State())
	_, err := c.Enqueue(1, []byte("x"))
	assert.ErrorIs(t, err, ErrConnClosed)

	require.NoError(t, reg.OnConnect(c))
	assert.Equal(t, StateActive, c.State())
	assert.Equal(t, 1, reg.Len())

	// a second registration of the same connection is refused
	assert.ErrorIs(t, reg.OnConnect(c), ErrConnClosed)
}

func TestOnDisconnectIsIdempotent(t *testing.T) {
	reg := NewRegistry(quietLogger)
	c := NewConn(newFakeSocket(), Options{}, reg.OnDisconnect, quietLogger)
	require.NoError(t, reg.OnConnect(c))

	reg.OnDisconnect(c)
	reg.OnDisconnect(c)
	assert.Equal(t, 0, reg.Len())
}

func TestShutdownClosesMembersAndRejectsNew(t *testing.T) {
	reg := NewRegistry(quietLogger)
	socks := []*fakeSocket{newFakeSocket(), newFakeSocket()}
	conns := make([]*Conn, 0, len(socks))
	for _, s := range socks {
		conns = append(conns, startConn(t, reg, s, Options{}))
	}

	reg.Shutdown()

	assert.Equal(t, 0, reg.Len())
	for i, c := range conns {
		assert.Equal(t, StateDisconnected, c.State())
		assert.True(t, socks[i].isClosed())
	}

	late := NewConn(newFakeSocket(), Options{}, reg.OnDisconnect, quietLogger)
	assert.ErrorIs(t, reg.OnConnect(late), ErrRegistryClosed)
}

func TestCloseRunsHookOnce(t *testing.T) {
	var calls atomic.Int32
	sock := newFakeSocket()
	c := NewConn(sock, Options{}, func(*Conn) { calls.Add(1) }, quietLogger)
	reg := NewRegistry(quietLogger)
	require.NoError(t, reg.OnConnect(c))
	go c.Run()

	sock.peerClose()
	select {
	case <-c.Done():
	case <-time.After(time.Second):
		t.Fatal("connection did not close")
	}
	c.Close()
	c.fail(assert.AnError)

	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, StateDisconnected, c.State())
	assert.True(t, c.State().Terminal())
}
