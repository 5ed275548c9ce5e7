// Package web serves the session over a JSON API.
package web

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"zenflow/internal/session"
)

type ServerConfig struct {
	Addr string
	// JobTimeout bounds a collaborator call made on behalf of one request.
	JobTimeout time.Duration
	Logger     *slog.Logger
}

// Server owns one session. Every read and every mutation runs under mu, so HTTP
// handlers keep the session's single-writer model; collaborator jobs run outside it.
type Server struct {
	mu     sync.Mutex
	cfg    ServerConfig
	sess   *session.Session
	router *gin.Engine
	log    *slog.Logger
}

func NewServer(cfg ServerConfig, sess *session.Session) *Server {
	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(log))

	s := &Server{cfg: cfg, sess: sess, router: router, log: log}

	api := router.Group("/api")
	{
		api.GET("/tasks", s.handleTasks)
		api.PUT("/tasks/:id", s.handleEditTask)
		api.POST("/tasks/:id/status", s.handleSetStatus)
		api.POST("/tasks/:id/toggle", s.handleToggle)
		api.POST("/tasks/:id/move", s.handleMove)
		api.POST("/tasks/:id/decompose", s.handleDecompose)

		api.GET("/views/kanban", s.handleKanban)
		api.GET("/views/list", s.handleList)
		api.GET("/views/gantt", s.handleGantt)

		api.GET("/graphs/:graph", s.handleGraph)
		api.POST("/graphs/:graph/edges", s.handleConnect)
		api.POST("/nodes/:id/promote", s.handlePromote)
		api.POST("/nodes/:id/expand", s.handleExpand)

		api.POST("/quick-entry", s.handleQuickEntry)
		api.GET("/doctor", s.handleDoctor)
	}
	return s
}

func (s *Server) Handler() http.Handler { return s.router }

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("web api listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		s.log.Info("web api stopped")
		return nil
	}
}

// dispatch applies cmds in order under one lock, stopping at a stale reference. A
// collaborator job runs unlocked and its completion is applied under the lock again.
func (s *Server) dispatch(ctx context.Context, cmds ...session.Command) session.Result {
	var (
		res session.Result
		job session.Job
	)
	s.mu.Lock()
	for _, cmd := range cmds {
		res, job = s.sess.Dispatch(cmd)
		if res.NotFound || job != nil {
			break
		}
	}
	s.mu.Unlock()
	if job == nil {
		return res
	}
	if s.cfg.JobTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.JobTimeout)
		defer cancel()
	}
	done := job(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	return done.Apply(s.sess)
}

// read runs fn under the lock.
func (s *Server) read(fn func(*session.Session) any) any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.sess)
}

func requestLogger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug("http request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"dur", time.Since(start),
		)
	}
}
