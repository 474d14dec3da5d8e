package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"weather-dashboard/dashboard"
	"weather-dashboard/models"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// the dashboard is read-only, any origin may watch it
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Server represents the dashboard API server
type Server struct {
	dashboard *dashboard.Dashboard
	hub       *Hub
	engine    *gin.Engine
	server    *http.Server
	logger    *zap.Logger

	// sessions started over the API run under this context
	sessionCtx context.Context
}

// sessionResponse is the JSON form of a session
type sessionResponse struct {
	ID        string                   `json:"id"`
	State     dashboard.Kind           `json:"state"`
	StartedAt time.Time                `json:"startedAt"`
	SettledAt *time.Time               `json:"settledAt,omitempty"`
	Message   string                   `json:"message,omitempty"`
	Snapshot  *models.ForecastSnapshot `json:"snapshot,omitempty"`
}

// viewMessage is pushed to websocket viewers on every session change
type viewMessage struct {
	SessionID string         `json:"sessionId"`
	View      dashboard.View `json:"view"`
}

// NewServer creates a new API server. Sessions started through the API and the
// websocket hub live until ctx is cancelled.
func NewServer(ctx context.Context, logger *zap.Logger, d *dashboard.Dashboard, port int) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	engine := gin.New()
	engine.Use(gin.Recovery(), requestLogger(logger))

	s := &Server{
		dashboard:  d,
		hub:        NewHub(logger),
		engine:     engine,
		logger:     logger,
		sessionCtx: ctx,
		server: &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: engine,
		},
	}

	engine.GET("/api/health", s.handleHealthCheck)
	engine.GET("/api/session", s.handleGetSession)
	engine.POST("/api/session", s.handleStartSession)
	engine.GET("/api/view", s.handleGetView)
	engine.GET("/ws", s.handleWebSocket)

	d.Subscribe(s.publish)
	go s.hub.Run(ctx)

	return s
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start begins the API server
func (s *Server) Start() error {
	s.logger.Info("starting API server", zap.String("addr", s.server.Addr))
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the API server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// publish forwards a change of the current session to websocket viewers
func (s *Server) publish(id uuid.UUID, state dashboard.State) {
	if current := s.dashboard.Current(); current == nil || current.ID() != id {
		return
	}
	msg, err := json.Marshal(viewMessage{SessionID: id.String(), View: dashboard.BuildView(state)})
	if err != nil {
		s.logger.Error("failed to encode view", zap.Error(err))
		return
	}
	s.hub.Broadcast(msg)
}

func newSessionResponse(session *dashboard.Session) sessionResponse {
	resp := sessionResponse{
		ID:        session.ID().String(),
		StartedAt: session.StartedAt(),
	}
	if settled := session.SettledAt(); !settled.IsZero() {
		resp.SettledAt = &settled
	}

	state := session.State()
	resp.State = state.Kind()
	switch st := state.(type) {
	case dashboard.Failed:
		resp.Message = st.Message
	case dashboard.Ready:
		snapshot := st.Snapshot
		resp.Snapshot = &snapshot
	}
	return resp
}

// handleGetSession returns the current session
func (s *Server) handleGetSession(c *gin.Context) {
	session := s.dashboard.Current()
	if session == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No dashboard session started"})
		return
	}
	c.JSON(http.StatusOK, newSessionResponse(session))
}

// handleStartSession starts a new session in the background
func (s *Server) handleStartSession(c *gin.Context) {
	session, err := s.dashboard.Restart(s.sessionCtx)
	if errors.Is(err, dashboard.ErrSessionInProgress) {
		current := s.dashboard.Current()
		c.JSON(http.StatusConflict, gin.H{
			"error": "Dashboard session still in progress",
			"id":    current.ID().String(),
		})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{
		"id":    session.ID().String(),
		"state": session.State().Kind(),
	})
}

// handleGetView returns the display model of the current session
func (s *Server) handleGetView(c *gin.Context) {
	session := s.dashboard.Current()
	if session == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No dashboard session started"})
		return
	}
	c.JSON(http.StatusOK, viewMessage{SessionID: session.ID().String(), View: dashboard.BuildView(session.State())})
}

// handleWebSocket streams the current view and every later change
func (s *Server) handleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	// Broadcasts to the new viewer wait until the initial view is written,
	// and the view is read after registration so no change is missed.
	cl := &client{conn: conn}
	cl.mu.Lock()
	s.hub.add(cl)
	s.logger.Debug("websocket viewer connected", zap.Int("viewers", s.hub.ClientsCount()))
	defer func() {
		s.hub.remove(cl)
		s.logger.Debug("websocket viewer disconnected", zap.Int("viewers", s.hub.ClientsCount()))
	}()

	err = s.writeCurrentView(cl)
	cl.mu.Unlock()
	if err != nil {
		return
	}

	// Viewers do not send anything; reading detects disconnects
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				s.logger.Debug("websocket read error", zap.Error(err))
			}
			return
		}
	}
}

// writeCurrentView sends the current session's view; the caller holds cl.mu
func (s *Server) writeCurrentView(cl *client) error {
	session := s.dashboard.Current()
	if session == nil {
		return nil
	}
	msg, err := json.Marshal(viewMessage{SessionID: session.ID().String(), View: dashboard.BuildView(session.State())})
	if err != nil {
		s.logger.Error("failed to encode view", zap.Error(err))
		return nil
	}
	return cl.send(msg)
}

// handleHealthCheck provides a simple health check endpoint
func (s *Server) handleHealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// requestLogger logs each request through zap
func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)))
	}
}
