package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"mediadeck/internal/api/handlers"
	"mediadeck/internal/api/middleware"
	"mediadeck/internal/config"
	"mediadeck/internal/controllers"
	"mediadeck/internal/session"
)

// Server is the local HTTP view surface: it renders session and list
// state and accepts user intents.
type Server struct {
	server  *http.Server
	session *session.Store
	list    *controllers.ListController
	form    *controllers.FormEditor
	logger  *logrus.Logger
}

// NewServer creates a new HTTP server
func NewServer(cfg *config.Config, sess *session.Store, list *controllers.ListController, form *controllers.FormEditor, logger *logrus.Logger) *Server {
	s := &Server{
		session: sess,
		list:    list,
		form:    form,
		logger:  logger,
	}

	mux := http.NewServeMux()
	s.setupRoutes(mux)

	s.server = &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      middleware.Logging(mux, logger),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes(mux *http.ServeMux) {
	healthHandler := handlers.NewHealthHandler(s.logger)
	mux.HandleFunc("/health", healthHandler.ServeHTTP)

	sessionHandler := handlers.NewSessionHandler(s.session, s.logger)
	mux.HandleFunc("/api/session", sessionHandler.State)
	mux.HandleFunc("/api/session/register", sessionHandler.Register)
	mux.HandleFunc("/api/session/login", sessionHandler.Login)
	mux.HandleFunc("/api/session/logout", sessionHandler.Logout)

	libraryHandler := handlers.NewLibraryHandler(s.session, s.list, s.form, s.logger)
	mux.HandleFunc("/api/library", libraryHandler.Collection)
	mux.HandleFunc("/api/library/", libraryHandler.Item)
}

// Start starts the HTTP server
func (s *Server) Start(ctx context.Context) error {
	s.logger.WithField("addr", s.server.Addr).Info("Starting HTTP server")

	errChan := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		return s.Shutdown(context.Background())
	}
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.server.Shutdown(shutdownCtx)
}
