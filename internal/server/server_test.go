package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/pdrpinto/gridastar"
	"github.com/pdrpinto/gridastar/internal/logging"
	"github.com/pdrpinto/gridastar/internal/maze"
	"github.com/pdrpinto/gridastar/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*Server, *gin.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	reg := prometheus.NewRegistry()
	srv := New(Options{
		Maze:           maze.Config{Rows: 10, Cols: 10, Density: 0.2},
		StreamInterval: time.Millisecond,
		MaxSessions:    2,
		SessionTTL:     time.Minute,
		Logger:         logging.Discard(),
		Metrics:        metrics.New(reg),
		MetricsHandler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	})
	return srv, srv.Router()
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func createSession(t *testing.T, router http.Handler, body any) gridDescription {
	t.Helper()
	w := doJSON(t, router, http.MethodPost, "/api/sessions", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var d gridDescription
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &d))
	return d
}

func TestCreate_TextGrid(t *testing.T) {
	_, router := newTestServer(t)

	d := createSession(t, router, map[string]any{"grid": "S..\n##.\n..G\n"})

	assert.NotEmpty(t, d.ID)
	assert.Equal(t, 3, d.Rows)
	assert.Equal(t, 3, d.Cols)
	assert.Equal(t, []gridastar.Cell{{Row: 1, Col: 0}, {Row: 1, Col: 1}}, d.Walls)
	assert.Equal(t, gridastar.Cell{Row: 0, Col: 0}, d.Start)
	assert.Equal(t, gridastar.Cell{Row: 2, Col: 2}, d.Goal)
	assert.Equal(t, gridastar.StateReady, d.State)
}

func TestCreate_GeneratedGridUsesDefaultsAndSeed(t *testing.T) {
	_, router := newTestServer(t)

	a := createSession(t, router, map[string]any{"seed": 17, "rows": 6})
	assert.Equal(t, 6, a.Rows)
	assert.Equal(t, 10, a.Cols)
	assert.Equal(t, int64(17), a.Seed)
	assert.Equal(t, gridastar.Cell{Row: 5, Col: 9}, a.Goal)

	b := createSession(t, router, map[string]any{"seed": 17, "rows": 6})
	assert.Equal(t, a.Walls, b.Walls)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestCreate_BadRequests(t *testing.T) {
	_, router := newTestServer(t)

	tests := []struct {
		name string
		body any
	}{
		{"ragged grid", map[string]any{"grid": "...\n.\n"}},
		{"blocked start", map[string]any{"grid": "#.\n..\n"}},
		{"bad frontier", map[string]any{"frontier": "eager"}},
		{"bad heuristic", map[string]any{"heuristic": "euclid"}},
		{"bad density", map[string]any{"density": 3}},
		{"too large", map[string]any{"rows": 10000}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, router, http.MethodPost, "/api/sessions", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
		})
	}
}

func TestCreate_SessionLimit(t *testing.T) {
	_, router := newTestServer(t)
	createSession(t, router, nil)
	createSession(t, router, nil)

	w := doJSON(t, router, http.MethodPost, "/api/sessions", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestCreate_EvictsIdleSessionsWhenFull(t *testing.T) {
	srv, router := newTestServer(t)
	clock := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	srv.now = func() time.Time { return clock }

	first := createSession(t, router, nil)
	createSession(t, router, nil)
	w := doJSON(t, router, http.MethodPost, "/api/sessions", nil)
	require.Equal(t, http.StatusTooManyRequests, w.Code)

	clock = clock.Add(2 * time.Minute)
	createSession(t, router, nil)
	assert.Equal(t, 1, srv.Len())

	w = doJSON(t, router, http.MethodGet, "/api/sessions/"+first.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreate_RecentUseKeepsSession(t *testing.T) {
	srv, router := newTestServer(t)
	clock := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	srv.now = func() time.Time { return clock }

	kept := createSession(t, router, map[string]any{"grid": "S...\n....\n...G\n"})
	createSession(t, router, nil)

	clock = clock.Add(50 * time.Second)
	w := doJSON(t, router, http.MethodPost, "/api/sessions/"+kept.ID+"/step", nil)
	require.Equal(t, http.StatusOK, w.Code)

	clock = clock.Add(50 * time.Second)
	createSession(t, router, nil)
	assert.Equal(t, 2, srv.Len())

	w = doJSON(t, router, http.MethodGet, "/api/sessions/"+kept.ID, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCreate_EvictsFinishedSessionWhenFull(t *testing.T) {
	srv, router := newTestServer(t)

	done := createSession(t, router, map[string]any{"grid": "SG\n"})
	for range 2 {
		w := doJSON(t, router, http.MethodPost, "/api/sessions/"+done.ID+"/step", nil)
		require.Equal(t, http.StatusOK, w.Code)
	}
	live := createSession(t, router, nil)

	createSession(t, router, nil)
	assert.Equal(t, 2, srv.Len())

	w := doJSON(t, router, http.MethodGet, "/api/sessions/"+done.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = doJSON(t, router, http.MethodGet, "/api/sessions/"+live.ID, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCreate_TextGridSizeLimits(t *testing.T) {
	_, router := newTestServer(t)

	wide := "S" + strings.Repeat(".", maxGridSide) + "\n"
	w := doJSON(t, router, http.MethodPost, "/api/sessions", map[string]any{"grid": wide})
	assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())

	huge := strings.Repeat(".", maxRequestBytes+1)
	w = doJSON(t, router, http.MethodPost, "/api/sessions", map[string]any{"grid": huge})
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestStep_UntilFinishedThenConflict(t *testing.T) {
	_, router := newTestServer(t)
	d := createSession(t, router, map[string]any{"grid": "S..\n##.\n..G\n"})

	var last snapshot
	for i := 0; i < 20; i++ {
		w := doJSON(t, router, http.MethodPost, "/api/sessions/"+d.ID+"/step", nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &last))
		if last.Done {
			break
		}
	}
	require.True(t, last.Done)
	assert.True(t, last.Found)
	assert.Equal(t, gridastar.StateSucceeded, last.State)
	assert.Len(t, last.Path, 5)

	w := doJSON(t, router, http.MethodPost, "/api/sessions/"+d.ID+"/step", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/sessions/"+d.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got gridDescription
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, gridastar.StateSucceeded, got.State)
	require.NotNil(t, got.Last)
	assert.Equal(t, last.Step, got.Last.Step)
}

func TestStep_UnreachableReport(t *testing.T) {
	_, router := newTestServer(t)
	d := createSession(t, router, map[string]any{"grid": ".#.\n#S#\n.#G\n"})

	w := doJSON(t, router, http.MethodPost, "/api/sessions/"+d.ID+"/step", nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, router, http.MethodPost, "/api/sessions/"+d.ID+"/step", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var snap snapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	assert.True(t, snap.Done)
	assert.False(t, snap.Found)
	assert.Nil(t, snap.Current)
	assert.Equal(t, gridastar.StateExhausted, snap.State)
}

func TestUnknownSessionAndDelete(t *testing.T) {
	srv, router := newTestServer(t)

	w := doJSON(t, router, http.MethodPost, "/api/sessions/nope/step", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	d := createSession(t, router, nil)
	assert.Equal(t, 1, srv.Len())

	w = doJSON(t, router, http.MethodDelete, "/api/sessions/"+d.ID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, 0, srv.Len())

	w = doJSON(t, router, http.MethodDelete, "/api/sessions/"+d.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestIndexAndMetrics(t *testing.T) {
	_, router := newTestServer(t)

	w := doJSON(t, router, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "<canvas")

	d := createSession(t, router, map[string]any{"grid": "SG\n"})
	for range 2 {
		w = doJSON(t, router, http.MethodPost, "/api/sessions/"+d.ID+"/step", nil)
		require.Equal(t, http.StatusOK, w.Code)
	}

	w = doJSON(t, router, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `gridastar_searches_total{outcome="found"} 1`)
}

func TestStream_PushesUntilDone(t *testing.T) {
	_, router := newTestServer(t)
	d := createSession(t, router, map[string]any{"grid": "S...\n.##.\n...G\n"})

	ts := httptest.NewServer(router)
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/sessions/" + d.ID + "/stream?interval_ms=1"
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer ws.Close()

	var snaps []snapshot
	for {
		var snap snapshot
		if err := ws.ReadJSON(&snap); err != nil {
			break
		}
		snaps = append(snaps, snap)
	}

	require.NotEmpty(t, snaps)
	for i, s := range snaps {
		assert.Equal(t, i+1, s.Step)
	}
	last := snaps[len(snaps)-1]
	assert.True(t, last.Done)
	assert.True(t, last.Found)
	assert.Len(t, last.Path, 6)
}

func TestStream_BadInterval(t *testing.T) {
	_, router := newTestServer(t)
	d := createSession(t, router, nil)

	w := doJSON(t, router, http.MethodGet, "/api/sessions/"+d.ID+"/stream?interval_ms=abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
