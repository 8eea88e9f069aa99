// Package devserver is an in-memory stand-in for the remote resource hub
// backend. It implements the same wire contract the client core speaks
// (plain JSON bodies, SSE change feed) for local development and
// integration tests. It is a test double, not the production server:
// nothing is persisted and authorization is not enforced.
package devserver

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/cse-resource-hub/internal/models"
	"github.com/noah-isme/cse-resource-hub/pkg/config"
	"github.com/noah-isme/cse-resource-hub/pkg/logger"
)

// Server bundles the stub backend's store, event hub and HTTP surface.
type Server struct {
	store   *Store
	hub     *Hub
	metrics *Metrics
	logger  *zap.Logger
	engine  *gin.Engine
}

// New assembles the stub backend.
func New(cfg *config.Config, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg != nil && cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		store:  NewStore(),
		hub:    NewHub(log),
		logger: log,
	}
	if cfg == nil || cfg.DevServer.MetricsEnabled {
		s.metrics = NewMetrics()
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(logger.GinMiddleware(log))
	if s.metrics != nil {
		engine.Use(s.metrics.Middleware())
	}

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if s.metrics != nil {
		engine.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}

	engine.POST("/auth/login", s.login)
	engine.GET("/resources", s.listResources)
	engine.GET("/resources/pending", s.listPending)
	engine.POST("/resources", s.createResource)
	engine.POST("/resources/:id/approve", s.approveResource)
	engine.GET("/events", s.events)

	s.engine = engine
	return s
}

// Store exposes the backing store so tests can seed and mutate data
// behind the API's back.
func (s *Server) Store() *Store {
	return s.store
}

// Hub exposes the event hub so tests can push raw notifications.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Handler returns the HTTP handler, suitable for httptest.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on the given port until the listener fails.
func (s *Server) Run(port int) error {
	addr := fmt.Sprintf(":%d", port)
	s.logger.Sugar().Infow("devserver starting", "addr", addr)
	return s.engine.Run(addr)
}

func (s *Server) login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid login payload"})
		return
	}
	if req.Name == "" || req.Email == "" || !req.Role.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name, email and a valid role are required"})
		return
	}
	if req.Role == models.RoleStudent && req.Semester == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "semester is required for students"})
		return
	}

	identity := models.Identity{Name: req.Name, Email: req.Email, Role: req.Role}
	if req.Role == models.RoleStudent {
		identity.Semester = req.Semester
	}
	c.JSON(http.StatusOK, identity)
}

func (s *Server) listResources(c *gin.Context) {
	var filter models.Filter
	if raw := c.Query("semester"); raw != "" {
		sem, err := strconv.Atoi(raw)
		if err != nil || sem < 1 || sem > 8 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "semester must be between 1 and 8"})
			return
		}
		filter.Semester = &sem
	}
	filter.Subject = strings.TrimSpace(c.Query("subject"))

	c.JSON(http.StatusOK, s.store.ListApproved(filter))
}

func (s *Server) listPending(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.ListPending())
}

func (s *Server) createResource(c *gin.Context) {
	var req models.CreateResourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid resource payload"})
		return
	}
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Subject) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title and subject are required"})
		return
	}
	if req.Semester < 1 || req.Semester > 8 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "semester must be between 1 and 8"})
		return
	}

	created := s.store.Create(req)
	s.publish(models.EventResourceCreated)
	c.JSON(http.StatusCreated, created)
}

func (s *Server) approveResource(c *gin.Context) {
	var req models.ApproveRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ApprovedBy == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "approved_by is required"})
		return
	}

	updated, ok := s.store.Approve(c.Param("id"), req.ApprovedBy)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "resource not found"})
		return
	}

	s.publish(models.EventResourceApproved)
	c.JSON(http.StatusOK, updated)
}

func (s *Server) publish(kind models.EventKind) {
	s.hub.Broadcast(models.ChangeEvent{Event: kind})
	if s.metrics != nil {
		s.metrics.EventPublished()
	}
}

// events serves the SSE change feed. Payloads go out as bare "data:"
// lines so browser EventSource onmessage handlers fire for them.
func (s *Server) events(c *gin.Context) {
	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "streaming not supported"})
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)
	flusher.Flush()

	events, cancel := s.hub.Subscribe()
	defer cancel()
	if s.metrics != nil {
		s.metrics.SubscriberOpened()
		defer s.metrics.SubscriberClosed()
	}

	heartbeat := time.NewTicker(15 * time.Second)
	defer heartbeat.Stop()

	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-heartbeat.C:
			fmt.Fprint(c.Writer, ": ping\n\n")
			flusher.Flush()
		case event := <-events:
			fmt.Fprintf(c.Writer, "data: {\"event\":%q}\n\n", event.Event)
			flusher.Flush()
		}
	}
}
