// Package server serves the task list over HTTP: a JSON API, a websocket
// render feed and Prometheus metrics.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"todo/internal/logger"
	"todo/internal/metrics"
	"todo/internal/task"
)

// ShutdownTimeout bounds graceful shutdown after the context ends.
const ShutdownTimeout = 5 * time.Second

// Server owns the HTTP routes and the websocket hub for one task list.
type Server struct {
	tasks  *task.Manager
	hub    *Hub
	log    *slog.Logger
	engine *gin.Engine

	unsubscribe []func()
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.log = l }
}

// New builds the routes and subscribes the hub and metrics to tasks.
// Call Close to unsubscribe.
func New(tasks *task.Manager, opts ...Option) *Server {
	s := &Server{tasks: tasks, log: logger.Get()}
	for _, opt := range opts {
		opt(s)
	}
	s.hub = NewHub(s.log)

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(s.log), metrics.Middleware())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/ws", func(c *gin.Context) {
		s.hub.Serve(c.Writer, c.Request, s.tasks.Tasks)
	})

	api := r.Group("/api")
	{
		api.GET("/todos", s.listTodos)
		api.POST("/todos", s.addTodo)
		api.GET("/todos/count", s.countTodos)
		api.POST("/todos/clear-completed", s.clearCompleted)
		api.PATCH("/todos/:id", s.updateTodo)
		api.POST("/todos/:id/toggle", s.toggleTodo)
		api.DELETE("/todos/:id", s.deleteTodo)
		api.GET("/export", s.exportTodos)
		api.POST("/import", s.importTodos)
	}
	s.engine = r

	metrics.View{}.Render(tasks.Tasks())
	s.unsubscribe = []func(){
		tasks.Subscribe(s.hub),
		tasks.Subscribe(metrics.View{}),
	}
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Close unsubscribes from the task list and disconnects websocket clients.
func (s *Server) Close() {
	for _, fn := range s.unsubscribe {
		fn()
	}
	s.unsubscribe = nil
	s.log.Debug("closing websocket clients", "clients", s.hub.Len())
	s.hub.Close()
}

// Run listens on addr until ctx ends, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		s.Close()
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutting down")
	s.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func requestLogger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
