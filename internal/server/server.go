// ABOUTME: HTTP server wiring realm-protected static content and health checks
// ABOUTME: Manages listener setup, graceful shutdown and secret-wiping teardown

package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/2389/realmgate/internal/auth"
	"github.com/2389/realmgate/internal/config"
	"github.com/2389/realmgate/internal/realm"
)

// Server serves static content from the configured root and enforces Basic
// auth on every realm prefix declared in the manifest. It owns the realm
// password store; Shutdown closes the store, which wipes cached secrets.
type Server struct {
	config     *config.Config
	manifest   *config.Manifest
	store      *realm.Store
	checker    *auth.Checker
	httpServer *http.Server
	logger     *slog.Logger
}

// New creates a Server from the given configuration. It loads the realm
// manifest and builds the route table; password files themselves are read
// lazily on first request to their realm.
func New(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	manifest, err := config.LoadManifest(cfg.Realms.Manifest)
	if err != nil {
		return nil, fmt.Errorf("loading realm manifest: %w", err)
	}

	store := realm.NewStore(cfg.Cache.TTL, logger)

	s := &Server{
		config:   cfg,
		manifest: manifest,
		store:    store,
		checker:  auth.NewChecker(store, logger),
		logger:   logger.With("component", "server"),
	}

	mux := http.NewServeMux()

	// Health endpoint - no auth required
	mux.HandleFunc("/health", s.handleHealth)

	content := http.FileServer(http.Dir(cfg.Content.Root))

	rootProtected := false
	for _, r := range manifest.Realms {
		if r.Prefix == "/" {
			rootProtected = true
		}
		mw := s.checker.Middleware(r.Name, r.PasswordFile)
		mux.Handle(r.Prefix, mw(content))
		s.logger.Info("realm protected",
			"realm", r.Name, "prefix", r.Prefix, "password_file", r.PasswordFile)
	}

	if !rootProtected {
		mux.Handle("/", content)
	}

	s.httpServer = &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           s.withRequestLog(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s, nil
}

// Handler returns the server's root HTTP handler. Exposed for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// setupListener creates the TCP listener for the HTTP server.
func (s *Server) setupListener() (net.Listener, error) {
	s.logger.Info("starting realmgate", "http_addr", s.config.Server.HTTPAddr)

	ln, err := net.Listen("tcp", s.config.Server.HTTPAddr)
	if err != nil {
		return nil, fmt.Errorf("listening on HTTP address: %w", err)
	}
	return ln, nil
}

// startServer starts the HTTP server in a goroutine, returning an error channel.
func (s *Server) startServer(ln net.Listener) chan error {
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("HTTP server listening", "addr", ln.Addr().String())
		if err := s.httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("HTTP server: %w", err)
		}
	}()

	return errCh
}

// waitForShutdownSignal waits for context cancellation or a server error.
func (s *Server) waitForShutdownSignal(ctx context.Context, errCh chan error) error {
	select {
	case <-ctx.Done():
		s.logger.Info("context canceled, initiating shutdown")
		return nil
	case err := <-errCh:
		s.logger.Error("server error", "error", err)
		return err
	}
}

// Run starts the server and blocks until the context is canceled. Returns
// nil on graceful shutdown, or an error if the server fails.
func (s *Server) Run(ctx context.Context) error {
	ln, err := s.setupListener()
	if err != nil {
		return err
	}

	errCh := s.startServer(ln)
	serverErr := s.waitForShutdownSignal(ctx, errCh)

	shutdownErr := s.gracefulShutdown()

	if serverErr != nil {
		return serverErr
	}
	return shutdownErr
}

// gracefulShutdown performs shutdown with a fresh context and timeout.
// Uses context.Background() intentionally since the original context is
// already canceled.
func (s *Server) gracefulShutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.Shutdown(ctx)
}

// Shutdown stops the HTTP server and closes the realm store, wiping every
// cached credential.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down realmgate")

	err := s.httpServer.Shutdown(ctx)

	// The store closes after the listener so in-flight requests never see a
	// wiped index.
	s.store.Close()

	if err != nil {
		return fmt.Errorf("HTTP shutdown: %w", err)
	}
	return nil
}

// handleHealth returns 200 OK if the server is alive.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}
