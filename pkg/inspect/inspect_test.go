package inspect

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/reactor/pkg/metrics"
	"github.com/vango-dev/reactor/pkg/reactive"
)

func newTestServer(t *testing.T, cfg Config) (*Server, *httptest.Server) {
	t.Helper()
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if cfg.Gatherer == nil {
		cfg.Gatherer = prometheus.NewRegistry()
	}
	s := New(cfg)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestHistoryKeepsNewest(t *testing.T) {
	h := newHistory(3)
	assert.Empty(t, h.list())

	for i := 1; i <= 5; i++ {
		h.add(Report{Seq: uint64(i)})
	}
	got := h.list()
	require.Len(t, got, 3)
	assert.Equal(t, uint64(3), got[0].Seq)
	assert.Equal(t, uint64(5), got[2].Seq)
}

func TestNewReport(t *testing.T) {
	boom := errors.New("boom")
	r := newReport(reactive.FlushReport{
		Seq:        7,
		Duration:   2 * time.Millisecond,
		MemoRuns:   1,
		EffectRuns: 2,
		Errors:     []error{boom},
	})
	assert.Equal(t, uint64(7), r.Seq)
	assert.Equal(t, int64(2_000_000), r.DurationNanos)
	assert.Equal(t, []string{"boom"}, r.Errors)
}

func TestFlushesEndpoint(t *testing.T) {
	s, ts := newTestServer(t, Config{History: 2})

	rt := reactive.NewRuntime(
		reactive.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		reactive.WithFlushObserver(s),
	)
	root := rt.NewScope(nil)
	t.Cleanup(root.Dispose)

	root.Run(func() {
		count, err := reactive.NewSignal(rt, 0)
		require.NoError(t, err)
		_, err = reactive.NewEffect(rt, func() error {
			_ = count.Get()
			return nil
		})
		require.NoError(t, err)
		for i := 1; i <= 3; i++ {
			require.NoError(t, count.Set(i))
		}
	})

	resp, body := get(t, ts.URL+"/api/flushes")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var reports []Report
	require.NoError(t, json.Unmarshal([]byte(body), &reports))
	require.Len(t, reports, 2)
	assert.Equal(t, uint64(2), reports[0].Seq)
	assert.Equal(t, uint64(3), reports[1].Seq)
	assert.Equal(t, 1, reports[1].EffectRuns)
}

func TestViewEndpoint(t *testing.T) {
	s, ts := newTestServer(t, Config{})

	_, body := get(t, ts.URL+"/api/view")
	assert.Empty(t, body)

	s.PublishView("app\n  p \"hi\"\n")
	resp, body := get(t, ts.URL+"/api/view")
	assert.Equal(t, "text/plain; charset=utf-8", resp.Header.Get("Content-Type"))
	assert.Equal(t, "app\n  p \"hi\"\n", body)

	etag := resp.Header.Get("ETag")
	require.NotEmpty(t, etag)

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/api/view", nil)
	require.NoError(t, err)
	req.Header.Set("If-None-Match", etag)
	cached, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	cached.Body.Close()
	assert.Equal(t, http.StatusNotModified, cached.StatusCode)

	s.PublishView("app\n")
	resp, _ = get(t, ts.URL+"/api/view")
	assert.NotEqual(t, etag, resp.Header.Get("ETag"))
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	s, ts := newTestServer(t, Config{Gatherer: reg})
	collector := metrics.NewCollector(metrics.WithRegistry(reg))

	report := reactive.FlushReport{Seq: 1, MemoRuns: 3, EffectRuns: 1}
	collector.OnFlush(report)
	s.OnFlush(report)

	_, body := get(t, ts.URL+"/metrics")
	assert.Contains(t, body, "reactor_flushes_total 1")
	assert.Contains(t, body, `reactor_node_runs_total{kind="memo"} 3`)
}

func TestUnknownRoute(t *testing.T) {
	_, ts := newTestServer(t, Config{})
	resp, _ := get(t, ts.URL+"/nope")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var msg Message
	require.NoError(t, json.Unmarshal(data, &msg))
	return msg
}

func TestWebSocketStreamsFlushes(t *testing.T) {
	s, ts := newTestServer(t, Config{})
	conn := dial(t, ts)

	hello := readMessage(t, conn)
	assert.Equal(t, "hello", hello.Type)
	assert.NotEmpty(t, hello.Client)
	assert.Equal(t, 1, s.Clients())

	s.OnFlush(reactive.FlushReport{Seq: 42, Aborted: true})
	msg := readMessage(t, conn)
	assert.Equal(t, "flush", msg.Type)
	require.NotNil(t, msg.Report)
	assert.Equal(t, uint64(42), msg.Report.Seq)
	assert.True(t, msg.Report.Aborted)
}

func TestWebSocketClientDisconnect(t *testing.T) {
	s, ts := newTestServer(t, Config{})
	conn := dial(t, ts)
	readMessage(t, conn)

	require.NoError(t, conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")))

	require.Eventually(t, func() bool { return s.Clients() == 0 },
		2*time.Second, 10*time.Millisecond)
}

func TestSlowClientIsDropped(t *testing.T) {
	h := newHub(1, time.Second, slog.New(slog.NewTextHandler(io.Discard, nil)))
	c := &client{id: "slow", send: make(chan []byte, 1)}
	h.clients[c.id] = c

	h.broadcast([]byte("one"))
	assert.Equal(t, 1, h.count())
	h.broadcast([]byte("two"))
	assert.Equal(t, 0, h.count())

	// unregister closed the queue; the first message is still buffered
	msg, ok := <-c.send
	assert.True(t, ok)
	assert.Equal(t, "one", string(msg))
	_, ok = <-c.send
	assert.False(t, ok)
}

func TestHelloSurvivesImmediateClose(t *testing.T) {
	h := newHub(4, time.Second, slog.New(slog.NewTextHandler(io.Discard, nil)))
	var upgrader websocket.Upgrader
	registered := make(chan *client, 2)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		c := h.register(conn, helloMessage)
		if c != nil {
			h.closeAll()
		}
		registered <- c
	}))
	t.Cleanup(ts.Close)

	conn := dial(t, ts)
	require.NotNil(t, <-registered)
	hello := readMessage(t, conn)
	assert.Equal(t, "hello", hello.Type)
	assert.NotEmpty(t, hello.Client)

	_, _, err := conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "got %v", err)
	assert.Equal(t, 0, h.count())

	// a closed hub turns new connections away
	late := dial(t, ts)
	assert.Nil(t, <-registered)
	_, _, err = late.ReadMessage()
	assert.Error(t, err)
	assert.Equal(t, 0, h.count())
}

func TestServeShutsDownOnCancel(t *testing.T) {
	s := New(Config{
		Gatherer: prometheus.NewRegistry(),
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, l) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + l.Addr().String() + "/api/view")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
