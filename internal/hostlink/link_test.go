package hostlink

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/1broseidon/framecore/internal/platform"
)

// hostServer upgrades every request and hands the connection to serve.
func hostServer(t *testing.T, serve func(n int, c *websocket.Conn)) (string, *atomic.Int32) {
	t.Helper()
	var conns atomic.Int32
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer c.Close()
		serve(int(conns.Add(1)), c)
	}))
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http"), &conns
}

func newLink(t *testing.T, u string) *Link {
	t.Helper()
	l, err := New(Config{URL: u, PingInterval: 50 * time.Millisecond, MaxBackoff: 200 * time.Millisecond})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return l
}

type running struct {
	cancel context.CancelFunc
	done   chan struct{}
	err    error
}

func runLink(t *testing.T, l *Link, q *platform.Queue) *running {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	r := &running{cancel: cancel, done: make(chan struct{})}
	go func() {
		r.err = l.Run(ctx, q)
		close(r.done)
	}()
	t.Cleanup(func() {
		cancel()
		<-r.done
	})
	return r
}

func collect(t *testing.T, q *platform.Queue, want int) []platform.HostEvent {
	t.Helper()
	var got []platform.HostEvent
	deadline := time.Now().Add(3 * time.Second)
	for len(got) < want && time.Now().Before(deadline) {
		q.Drain(func(ev platform.HostEvent) { got = append(got, ev) })
		time.Sleep(5 * time.Millisecond)
	}
	if len(got) < want {
		t.Fatalf("received %d events, want %d", len(got), want)
	}
	return got
}

// hold keeps a server connection open until the client goes away.
func hold(c *websocket.Conn) {
	for {
		if _, _, err := c.ReadMessage(); err != nil {
			return
		}
	}
}

func TestLinkDeliversEvents(t *testing.T) {
	u, _ := hostServer(t, func(_ int, c *websocket.Conn) {
		c.WriteMessage(websocket.TextMessage, []byte(`{"kind":"lifecycle","lifecycle":"init_window","width":640,"height":480}`))
		c.WriteMessage(websocket.TextMessage, []byte(`{"kind":"gesture"}`))
		c.WriteMessage(websocket.BinaryMessage, []byte{1, 2, 3})
		c.WriteMessage(websocket.TextMessage, []byte(`{"kind":"key","key_code":29,"down":true}`))
		hold(c)
	})

	l := newLink(t, u)
	q := platform.NewQueue(16)
	runLink(t, l, q)

	got := collect(t, q, 2)
	if got[0].Lifecycle != platform.LifecycleInitWindow || got[0].Width != 640 {
		t.Fatalf("first event = %+v", got[0])
	}
	if got[1].Kind != platform.EventKey || got[1].KeyCode != 29 {
		t.Fatalf("second event = %+v", got[1])
	}

	st := l.Stats()
	if !st.Connected || st.Connects != 1 || st.Events != 2 || st.DecodeErrors != 1 {
		t.Fatalf("stats = %+v", st)
	}
}

func TestLinkReconnects(t *testing.T) {
	u, conns := hostServer(t, func(n int, c *websocket.Conn) {
		c.WriteMessage(websocket.TextMessage, []byte(`{"kind":"lifecycle","lifecycle":"resume"}`))
		if n == 1 {
			c.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"))
			return
		}
		hold(c)
	})

	l := newLink(t, u)
	q := platform.NewQueue(16)
	runLink(t, l, q)

	collect(t, q, 2)
	if conns.Load() < 2 {
		t.Fatalf("connections = %d, want a reconnect", conns.Load())
	}
	if l.Stats().Connects < 2 {
		t.Fatalf("connects = %d", l.Stats().Connects)
	}
}

func TestLinkStopsOnCancel(t *testing.T) {
	u, _ := hostServer(t, func(_ int, c *websocket.Conn) { hold(c) })

	l := newLink(t, u)
	r := runLink(t, l, platform.NewQueue(4))

	deadline := time.Now().Add(2 * time.Second)
	for !l.Stats().Connected && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	r.cancel()
	select {
	case <-r.done:
		if !errors.Is(r.err, context.Canceled) {
			t.Fatalf("Run = %v, want context.Canceled", r.err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestLinkRetriesUnreachableHost(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	u := "ws" + strings.TrimPrefix(srv.URL, "http")
	srv.Close()

	l := newLink(t, u)
	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	err := l.Run(ctx, platform.NewQueue(4))
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Run = %v, want deadline exceeded", err)
	}
	if l.Stats().Connects != 0 {
		t.Fatal("no connection should have succeeded")
	}
}

func TestNewRejectsBadURL(t *testing.T) {
	for _, u := range []string{"http://host/events", "", "::bad"} {
		if _, err := New(Config{URL: u}); err == nil {
			t.Errorf("New(%q) should fail", u)
		}
	}
}

func TestNewDefaults(t *testing.T) {
	l, err := New(Config{URL: "ws://127.0.0.1:1/events", PingInterval: 10 * time.Second, PongWait: time.Second})
	if err != nil {
		t.Fatal(err)
	}
	if l.pongWait != 30*time.Second {
		t.Fatalf("pongWait = %v, want three ping intervals", l.pongWait)
	}
	if l.maxBackoff != DefaultMaxBackoff {
		t.Fatalf("maxBackoff = %v", l.maxBackoff)
	}
}

func TestNextBackoff(t *testing.T) {
	tests := []struct {
		cur, limit, want time.Duration
	}{
		{100 * time.Millisecond, time.Second, 200 * time.Millisecond},
		{800 * time.Millisecond, time.Second, time.Second},
		{time.Second, time.Second, time.Second},
	}
	for _, tt := range tests {
		if got := nextBackoff(tt.cur, tt.limit); got != tt.want {
			t.Errorf("nextBackoff(%v, %v) = %v, want %v", tt.cur, tt.limit, got, tt.want)
		}
	}
}
