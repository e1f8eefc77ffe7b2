// Package server is the web front end for the search engine: it holds one
// Stepper per session and serves its step reports over JSON and WebSocket.
package server

import (
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/pdrpinto/gridastar"
	"github.com/pdrpinto/gridastar/internal/maze"
	"github.com/pdrpinto/gridastar/internal/metrics"
)

//go:embed static/index.html
var static embed.FS

const (
	minStreamInterval = 5 * time.Millisecond
	maxGridSide       = 500
	maxRequestBytes   = 1 << 20 // fits a maxGridSide square text grid
	defaultSessionTTL = 10 * time.Minute
)

// Options configures a Server.
type Options struct {
	// Maze supplies defaults for generated grids; requests override fields.
	Maze maze.Config
	// Search is applied to every new session's Stepper.
	Search         []gridastar.Option
	StreamInterval time.Duration
	MaxSessions    int
	// SessionTTL is how long an untouched session is kept once the server
	// is full.
	SessionTTL     time.Duration
	Logger         *slog.Logger
	Metrics        *metrics.Recorder
	// MetricsHandler is mounted at /metrics when non-nil.
	MetricsHandler http.Handler
}

// Server tracks live sessions.
type Server struct {
	opts     Options
	log      *slog.Logger
	now      func() time.Time
	mu       sync.Mutex
	sessions map[string]*session
}

func New(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.StreamInterval < minStreamInterval {
		opts.StreamInterval = minStreamInterval
	}
	if opts.MaxSessions <= 0 {
		opts.MaxSessions = 64
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = defaultSessionTTL
	}
	return &Server{
		opts:     opts,
		log:      opts.Logger,
		now:      time.Now,
		sessions: make(map[string]*session),
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Router builds the gin engine with every route registered.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/", s.handleIndex)
	api := router.Group("/api")
	api.POST("/sessions", s.handleCreate)
	api.GET("/sessions/:id", s.handleGet)
	api.POST("/sessions/:id/step", s.handleStep)
	api.GET("/sessions/:id/stream", s.handleStream)
	api.DELETE("/sessions/:id", s.handleDelete)
	if s.opts.MetricsHandler != nil {
		router.GET("/metrics", gin.WrapH(s.opts.MetricsHandler))
	}
	return router
}

// createRequest selects either a text grid or a generated one. Zero
// fields fall back to the server's maze defaults.
type createRequest struct {
	Grid      string          `json:"grid,omitempty"`
	Rows      int             `json:"rows,omitempty"`
	Cols      int             `json:"cols,omitempty"`
	Density   *float64        `json:"density,omitempty"`
	Layout    string          `json:"layout,omitempty"`
	Seed      int64           `json:"seed,omitempty"`
	Start     *gridastar.Cell `json:"start,omitempty"`
	Goal      *gridastar.Cell `json:"goal,omitempty"`
	Frontier  string          `json:"frontier,omitempty"`
	Heuristic string          `json:"heuristic,omitempty"`
}

func (s *Server) handleIndex(c *gin.Context) {
	page, err := static.ReadFile("static/index.html")
	if err != nil {
		c.String(http.StatusInternalServerError, "index.html not found")
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", page)
}

func (s *Server) handleCreate(c *gin.Context) {
	var req createRequest
	if c.Request.ContentLength != 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxRequestBytes)
		if err := c.ShouldBindJSON(&req); err != nil {
			status := http.StatusBadRequest
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				status = http.StatusRequestEntityTooLarge
			}
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}
	}

	sess, err := s.newSession(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.mu.Lock()
	if len(s.sessions) >= s.opts.MaxSessions {
		s.evictLocked(sess.created)
	}
	if len(s.sessions) >= s.opts.MaxSessions {
		s.mu.Unlock()
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many sessions"})
		return
	}
	s.sessions[sess.id] = sess
	n := len(s.sessions)
	s.mu.Unlock()

	s.opts.Metrics.SetSessions(n)
	s.log.Info("session created", "id", sess.id, "rows", sess.grid.Rows(), "cols", sess.grid.Cols(), "seed", sess.seed)
	c.JSON(http.StatusCreated, sess.describe(s.now()))
}

// evictLocked drops every session idle for longer than SessionTTL. When
// none has expired, the least recently used finished session goes
// instead. Callers hold s.mu.
func (s *Server) evictLocked(now time.Time) {
	var (
		removed  int
		oldestID string
		oldest   time.Time
	)
	for id, sess := range s.sessions {
		used, done := sess.idle()
		if now.Sub(used) > s.opts.SessionTTL {
			delete(s.sessions, id)
			removed++
			continue
		}
		if done && (oldestID == "" || used.Before(oldest)) {
			oldestID, oldest = id, used
		}
	}
	if removed == 0 && oldestID != "" {
		delete(s.sessions, oldestID)
		removed = 1
	}
	if removed > 0 {
		s.log.Info("sessions evicted", "count", removed, "remaining", len(s.sessions))
	}
}

func (s *Server) newSession(req createRequest) (*session, error) {
	opts := append([]gridastar.Option{gridastar.WithLogger(s.log)}, s.opts.Search...)
	if req.Frontier != "" {
		strategy, err := gridastar.ParseFrontierStrategy(req.Frontier)
		if err != nil {
			return nil, err
		}
		opts = append(opts, gridastar.WithFrontier(strategy))
	}
	if req.Heuristic != "" {
		h, ok := gridastar.HeuristicByName(req.Heuristic)
		if !ok {
			return nil, fmt.Errorf("unknown heuristic %q", req.Heuristic)
		}
		opts = append(opts, gridastar.WithHeuristic(h))
	}

	now := s.now()
	sess := &session{id: uuid.New().String(), created: now, used: now}
	if req.Grid != "" {
		layout, err := gridastar.ParseGrid(strings.NewReader(req.Grid))
		if err != nil {
			return nil, err
		}
		if layout.Grid.Rows() > maxGridSide || layout.Grid.Cols() > maxGridSide {
			return nil, fmt.Errorf("grid side above %d", maxGridSide)
		}
		sess.grid = layout.Grid
		sess.start = gridastar.Cell{Row: 0, Col: 0}
		sess.goal = gridastar.Cell{Row: layout.Grid.Rows() - 1, Col: layout.Grid.Cols() - 1}
		if layout.Start != nil {
			sess.start = *layout.Start
		}
		if layout.Goal != nil {
			sess.goal = *layout.Goal
		}
		if req.Start != nil {
			sess.start = *req.Start
		}
		if req.Goal != nil {
			sess.goal = *req.Goal
		}
	} else {
		cfg := s.opts.Maze
		if req.Rows > 0 {
			cfg.Rows = req.Rows
		}
		if req.Cols > 0 {
			cfg.Cols = req.Cols
		}
		if cfg.Rows > maxGridSide || cfg.Cols > maxGridSide {
			return nil, fmt.Errorf("grid side above %d", maxGridSide)
		}
		if req.Density != nil {
			cfg.Density = *req.Density
		}
		if req.Layout != "" {
			cfg.Kind = maze.Kind(req.Layout)
		}
		cfg.Seed = req.Seed
		cfg.Start, cfg.Goal = req.Start, req.Goal
		res, err := maze.Generate(cfg)
		if err != nil {
			return nil, err
		}
		sess.grid, sess.start, sess.goal, sess.seed = res.Grid, res.Start, res.Goal, res.Seed
	}

	stepper, err := gridastar.NewStepper(sess.grid, sess.start, sess.goal, opts...)
	if err != nil {
		return nil, err
	}
	sess.stepper = stepper
	return sess, nil
}

func (s *Server) lookup(c *gin.Context) (*session, bool) {
	s.mu.Lock()
	sess, ok := s.sessions[c.Param("id")]
	s.mu.Unlock()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
	}
	return sess, ok
}

func (s *Server) handleGet(c *gin.Context) {
	sess, ok := s.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, sess.describe(s.now()))
}

func (s *Server) handleStep(c *gin.Context) {
	sess, ok := s.lookup(c)
	if !ok {
		return
	}
	r, err := sess.advance(s.now())
	if errors.Is(err, gridastar.ErrSearchFinished) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	s.opts.Metrics.Observe(r)
	c.JSON(http.StatusOK, newSnapshot(r))
}

func (s *Server) handleDelete(c *gin.Context) {
	s.mu.Lock()
	_, ok := s.sessions[c.Param("id")]
	delete(s.sessions, c.Param("id"))
	n := len(s.sessions)
	s.mu.Unlock()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	s.opts.Metrics.SetSessions(n)
	c.Status(http.StatusNoContent)
}

// handleStream advances the session once per interval and pushes each
// snapshot until the search finishes or the client goes away.
func (s *Server) handleStream(c *gin.Context) {
	sess, ok := s.lookup(c)
	if !ok {
		return
	}
	interval := s.opts.StreamInterval
	if v := c.Query("interval_ms"); v != "" {
		ms, err := strconv.Atoi(v)
		if err != nil || ms < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "interval_ms must be a non-negative integer"})
			return
		}
		interval = max(time.Duration(ms)*time.Millisecond, minStreamInterval)
	}

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.log.Error("failed to upgrade the websocket", "error", err)
		return
	}
	defer ws.Close()

	// Reader goroutine: notices client close frames.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-gone:
			return
		case <-c.Request.Context().Done():
			return
		case <-ticker.C:
			r, err := sess.advance(s.now())
			if errors.Is(err, gridastar.ErrSearchFinished) {
				_ = ws.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "search finished"))
				return
			}
			if err != nil {
				s.log.Warn("stream advance failed", "id", sess.id, "error", err)
				return
			}
			s.opts.Metrics.Observe(r)
			if err := ws.WriteJSON(newSnapshot(r)); err != nil {
				s.log.Warn("Failed to write WebSocket JSON", "error", err)
				return
			}
			if r.Done() {
				_ = ws.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "search finished"))
				return
			}
		}
	}
}

// Len returns the number of live sessions.
func (s *Server) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
