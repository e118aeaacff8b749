// Package hostlink connects the activity backend to its host over a
// websocket. The host sends one JSON event per text message; the link
// decodes them into the activity queue and reconnects with backoff when the
// connection drops.
package hostlink

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/1broseidon/framecore/internal/platform"
)

const (
	DefaultPingInterval = 5 * time.Second
	DefaultPongWait     = 15 * time.Second
	DefaultMaxBackoff   = 10 * time.Second

	minBackoff   = 100 * time.Millisecond
	writeTimeout = 5 * time.Second
	readLimit    = 1 << 20
)

// Config describes the host endpoint and keepalive timing.
type Config struct {
	URL          string
	PingInterval time.Duration
	PongWait     time.Duration
	MaxBackoff   time.Duration
	Logger       *slog.Logger
}

// Stats are counters for status reporting.
type Stats struct {
	Connected    bool   `json:"connected"`
	Connects     uint64 `json:"connects"`
	Events       uint64 `json:"events"`
	DecodeErrors uint64 `json:"decode_errors"`
}

// Link is a platform.Transport backed by a websocket client.
type Link struct {
	url          string
	pingInterval time.Duration
	pongWait     time.Duration
	maxBackoff   time.Duration
	log          *slog.Logger
	dialer       websocket.Dialer

	connected    atomic.Bool
	connects     atomic.Uint64
	events       atomic.Uint64
	decodeErrors atomic.Uint64
}

var _ platform.Transport = (*Link)(nil)

// New validates cfg and builds a link. Nothing is dialed until Run.
func New(cfg Config) (*Link, error) {
	u, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse host url: %w", err)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return nil, fmt.Errorf("host url %q: scheme must be ws or wss", cfg.URL)
	}

	l := &Link{
		url:          u.String(),
		pingInterval: cfg.PingInterval,
		pongWait:     cfg.PongWait,
		maxBackoff:   cfg.MaxBackoff,
		log:          cfg.Logger,
		dialer: websocket.Dialer{
			HandshakeTimeout: 10 * time.Second,
			NetDialContext: (&net.Dialer{
				Timeout:   10 * time.Second,
				KeepAlive: 15 * time.Second,
			}).DialContext,
		},
	}
	if l.pingInterval <= 0 {
		l.pingInterval = DefaultPingInterval
	}
	if l.pongWait <= 0 {
		l.pongWait = DefaultPongWait
	}
	if l.pongWait <= l.pingInterval {
		l.pongWait = 3 * l.pingInterval
	}
	if l.maxBackoff <= 0 {
		l.maxBackoff = DefaultMaxBackoff
	}
	if l.log == nil {
		l.log = slog.New(slog.DiscardHandler)
	}
	l.log = l.log.With("component", "hostlink", "url", l.url)
	return l, nil
}

// Stats returns a copy of the link counters.
func (l *Link) Stats() Stats {
	return Stats{
		Connected:    l.connected.Load(),
		Connects:     l.connects.Load(),
		Events:       l.events.Load(),
		DecodeErrors: l.decodeErrors.Load(),
	}
}

// Run dials the host and feeds q until ctx is cancelled, reconnecting after
// every failure.
func (l *Link) Run(ctx context.Context, q *platform.Queue) error {
	backoff := minBackoff
	for {
		conn, _, err := l.dialer.DialContext(ctx, l.url, nil)
		if err == nil {
			l.connects.Add(1)
			l.connected.Store(true)
			l.log.Info("host connected")
			backoff = minBackoff
			err = l.serve(ctx, conn, q)
			l.connected.Store(false)
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		l.log.Warn("host link down, retrying", "error", err, "backoff", backoff)

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		backoff = nextBackoff(backoff, l.maxBackoff)
	}
}

func nextBackoff(cur, limit time.Duration) time.Duration {
	next := cur * 2
	if next > limit {
		return limit
	}
	return next
}

// serve reads events until the connection fails. A ping ticker keeps the
// host honest and the read deadline acts as the pong watchdog.
func (l *Link) serve(ctx context.Context, conn *websocket.Conn, q *platform.Queue) error {
	done := make(chan struct{})
	var wg sync.WaitGroup
	defer func() {
		close(done)
		conn.Close()
		wg.Wait()
	}()

	conn.SetReadLimit(readLimit)
	_ = conn.SetReadDeadline(time.Now().Add(l.pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(l.pongWait))
	})

	wg.Add(1)
	go func() {
		defer wg.Done()
		t := time.NewTicker(l.pingInterval)
		defer t.Stop()
		for {
			select {
			case <-done:
				return
			case <-ctx.Done():
				// Unblocks ReadMessage below.
				conn.Close()
				return
			case <-t.C:
				err := conn.WriteControl(websocket.PingMessage, []byte("ping"), time.Now().Add(writeTimeout))
				if err != nil {
					l.log.Debug("ping failed", "error", err)
					conn.Close()
					return
				}
			}
		}
	}()

	for {
		kind, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return errors.New("host closed the connection")
			}
			return err
		}
		if kind != websocket.TextMessage {
			continue
		}
		ev, err := platform.DecodeHostEvent(data)
		if err != nil {
			l.decodeErrors.Add(1)
			l.log.Warn("dropping malformed host event", "error", err)
			continue
		}
		l.events.Add(1)
		if !q.Push(ev) {
			l.log.Debug("host queue full", "dropped", q.Dropped())
		}
		// Any traffic proves the host is alive.
		_ = conn.SetReadDeadline(time.Now().Add(l.pongWait))
	}
}
