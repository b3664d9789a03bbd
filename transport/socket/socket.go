package socket

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jpillora/backoff"
	"go.uber.org/zap"

	"github.com/QuintaPe/resistance-client/game/protocol"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from the server.
	maxMessageSize = 64 * 1024
)

var (
	ErrClosed       = errors.New("connection closed")
	ErrNotConnected = errors.New("not connected")
	ErrSendBuffer   = errors.New("send buffer full")
)

// Options configures a Conn. Zero-valued fields fall back to defaults.
type Options struct {
	// URL is the ws:// or wss:// server endpoint.
	URL string

	// MinRetryDelay and MaxRetryDelay bound the reconnect backoff.
	MinRetryDelay time.Duration
	MaxRetryDelay time.Duration

	// HandshakeTimeout bounds a single dial attempt.
	HandshakeTimeout time.Duration

	Logger *zap.Logger
}

// Conn is the one persistent duplex channel to the server.
type Conn struct {
	opts Options
	log  *zap.Logger

	dialer *websocket.Dialer

	mu    sync.Mutex
	ws    *websocket.Conn
	state State
	epoch int

	outbox  chan []byte
	inbound chan protocol.Envelope
	status  chan StatusEvent

	done      chan struct{}
	closeOnce sync.Once
}

// New validates the options and builds an unstarted Conn.
func New(opts Options) (*Conn, error) {
	u, err := url.Parse(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid server URL: %w", err)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return nil, fmt.Errorf("server URL scheme must be ws or wss, got %q", u.Scheme)
	}

	if opts.MinRetryDelay <= 0 {
		opts.MinRetryDelay = time.Second
	}
	if opts.MaxRetryDelay < opts.MinRetryDelay {
		opts.MaxRetryDelay = 5 * time.Second
	}
	if opts.HandshakeTimeout <= 0 {
		opts.HandshakeTimeout = 10 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	return &Conn{
		opts:    opts,
		log:     opts.Logger.Named("socket"),
		dialer:  &websocket.Dialer{HandshakeTimeout: opts.HandshakeTimeout},
		outbox:  make(chan []byte, 32),
		inbound: make(chan protocol.Envelope, 32),
		status:  make(chan StatusEvent, 64),
		done:    make(chan struct{}),
	}, nil
}

// Start launches the connection loop. It returns immediately; the first
// transition arrives on Status.
func (c *Conn) Start(ctx context.Context) {
	go c.run(ctx)
}

// Inbound delivers decoded server envelopes in arrival order.
func (c *Conn) Inbound() <-chan protocol.Envelope {
	return c.inbound
}

// Status delivers connection state transitions.
func (c *Conn) Status() <-chan StatusEvent {
	return c.status
}

// State returns the current connection state.
func (c *Conn) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Epoch returns the current connection epoch.
func (c *Conn) Epoch() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.epoch
}

// Send queues an envelope for delivery on the live connection. It fails
// rather than buffering when the connection is down; callers decide whether
// re-issuing is safe.
func (c *Conn) Send(env protocol.Envelope) error {
	data, err := protocol.Encode(env)
	if err != nil {
		return err
	}

	c.mu.Lock()
	state := c.state
	c.mu.Unlock()

	switch state {
	case StateClosed:
		return ErrClosed
	case StateConnected:
	default:
		return ErrNotConnected
	}

	select {
	case c.outbox <- data:
		return nil
	case <-c.done:
		return ErrClosed
	default:
		return ErrSendBuffer
	}
}

// Close shuts the connection down for good, suppressing any further
// reconnect attempts. It is idempotent.
func (c *Conn) Close() error {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		old := c.state
		c.state = StateClosed
		ws := c.ws
		c.ws = nil
		epoch := c.epoch
		c.mu.Unlock()

		close(c.done)

		if ws != nil {
			ws.SetWriteDeadline(time.Now().Add(writeWait))
			ws.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"))
			ws.Close()
		}

		c.emit(StatusEvent{Old: old, New: StateClosed, Epoch: epoch})
		c.log.Info("connection closed")
	})
	return nil
}

// run dials and serves connections until Close or context cancellation.
func (c *Conn) run(ctx context.Context) {
	retry := &backoff.Backoff{
		Min:    c.opts.MinRetryDelay,
		Max:    c.opts.MaxRetryDelay,
		Jitter: true,
	}
	attempt := 0

	for {
		select {
		case <-c.done:
			return
		case <-ctx.Done():
			c.Close()
			return
		default:
		}

		c.mu.Lock()
		if c.state == StateClosed {
			c.mu.Unlock()
			return
		}
		old := c.state
		if old == StateDisconnected {
			c.state = StateConnecting
		} else {
			c.state = StateReconnecting
		}
		next := c.state
		epoch := c.epoch
		c.mu.Unlock()
		if old != next {
			c.emit(StatusEvent{Old: old, New: next, Epoch: epoch, Attempt: attempt})
		}

		ws, _, err := c.dialer.DialContext(ctx, c.opts.URL, nil)
		if err != nil {
			attempt++
			c.log.Warn("dial failed",
				zap.String("url", c.opts.URL),
				zap.Int("attempt", attempt),
				zap.Error(err))

			select {
			case <-time.After(retry.Duration()):
				continue
			case <-c.done:
				return
			case <-ctx.Done():
				c.Close()
				return
			}
		}

		retry.Reset()
		attempt = 0

		// Sends are refused while down, but a frame accepted just before the
		// previous drop may still sit in the outbox. It belongs to a dead
		// connection and must not leak onto this one.
		c.drainOutbox()

		c.mu.Lock()
		if c.state == StateClosed {
			c.mu.Unlock()
			ws.Close()
			return
		}
		old = c.state
		c.state = StateConnected
		c.ws = ws
		c.epoch++
		epoch = c.epoch
		c.mu.Unlock()

		c.log.Info("connected", zap.Int("epoch", epoch))
		c.emit(StatusEvent{Old: old, New: StateConnected, Epoch: epoch})

		err = c.serve(ws)

		c.mu.Lock()
		if c.state == StateClosed {
			c.mu.Unlock()
			return
		}
		c.ws = nil
		old = c.state
		c.state = StateReconnecting
		c.mu.Unlock()

		c.log.Warn("connection lost", zap.Int("epoch", epoch), zap.Error(err))
		c.emit(StatusEvent{Old: old, New: StateReconnecting, Epoch: epoch, Err: err})
	}
}

// serve pumps one live connection until it fails, returning the read error
// that ended it.
func (c *Conn) serve(ws *websocket.Conn) error {
	stop := make(chan struct{})
	var once sync.Once
	shutdown := func() { once.Do(func() { close(stop) }) }

	go c.writePump(ws, stop, shutdown)
	defer shutdown()

	ws.SetReadLimit(maxMessageSize)
	ws.SetReadDeadline(time.Now().Add(pongWait))
	ws.SetPongHandler(func(string) error {
		ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			ws.Close()
			return err
		}

		env, err := protocol.Decode(data)
		if err != nil {
			c.log.Warn("dropping malformed frame", zap.Error(err))
			continue
		}

		select {
		case c.inbound <- env:
		case <-c.done:
			return ErrClosed
		}
	}
}

// writePump drains the outbox and keeps the connection alive with pings.
func (c *Conn) writePump(ws *websocket.Conn, stop <-chan struct{}, shutdown func()) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		shutdown()
		ws.Close()
	}()

	for {
		select {
		case data := <-c.outbox:
			ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := ws.WriteMessage(websocket.TextMessage, data); err != nil {
				c.log.Warn("write failed", zap.Error(err))
				return
			}

		case <-ticker.C:
			ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-stop:
			return
		case <-c.done:
			return
		}
	}
}

// drainOutbox discards frames queued against a previous connection.
func (c *Conn) drainOutbox() {
	for {
		select {
		case data := <-c.outbox:
			c.log.Warn("discarding stale outbound frame", zap.Int("bytes", len(data)))
		default:
			return
		}
	}
}

// emit delivers a status event without ever blocking the connection loop.
// The owner is expected to drain Status; a full buffer drops the event.
func (c *Conn) emit(ev StatusEvent) {
	select {
	case c.status <- ev:
	default:
		c.log.Warn("status buffer full, dropping transition",
			zap.Stringer("from", ev.Old),
			zap.Stringer("to", ev.New))
	}
}
