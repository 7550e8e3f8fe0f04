// Package server exposes the focuslit service over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/julianstephens/focuslit/internal/focus"
	"github.com/julianstephens/focuslit/internal/logger"
	"github.com/julianstephens/focuslit/internal/service"
)

type Options struct {
	Addr        string
	CORSOrigins []string
	Debug       bool
}

type Server struct {
	svc    *service.Service
	timers *focus.Manager
	opts   Options
	router *gin.Engine
}

func New(svc *service.Service, timers *focus.Manager, opts Options) *Server {
	if !opts.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	s := &Server{svc: svc, timers: timers, opts: opts}
	s.router = s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	cfg.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type"}
	cfg.AllowMethods = []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}
	return cfg
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(requestLogger(), gin.Recovery(), cors.New(corsConfig(s.opts.CORSOrigins)))

	r.GET("/healthz", s.health)

	api := r.Group("/api")
	{
		api.POST("/users", s.createUser)
		api.POST("/tasks", s.createTask)
		api.PATCH("/tasks/:id", s.updateTask)
		api.DELETE("/tasks/:id", s.deleteTask)
		api.POST("/sessions", s.createSession)
		api.PATCH("/sessions/:id", s.updateSession)
		api.POST("/progress", s.upsertProgress)

		user := api.Group("/users/:id")
		{
			user.GET("", s.getUser)
			user.PATCH("", s.updateUser)
			user.GET("/tasks", s.listTasks)
			user.GET("/sessions", s.listSessions)
			user.GET("/progress", s.getProgress)
			user.GET("/progress/weekly", s.weeklyProgress)
			user.GET("/dashboard", s.dashboard)
			user.GET("/timer", s.timerStatus)
			user.POST("/timer/start", s.timerStart)
			user.POST("/timer/pause", s.timerPause)
			user.POST("/timer/reset", s.timerReset)
		}
	}
	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", "addr", s.opts.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	logger.Info("HTTP server shutting down")
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) health(c *gin.Context) {
	if err := s.svc.Store().Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "backend": s.svc.Store().GetConfigPath()})
}
