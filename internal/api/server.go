package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/nordbad/signage-core/internal/auth"
	"github.com/nordbad/signage-core/internal/display"
	"github.com/nordbad/signage-core/internal/infrastructure/config"
	"github.com/nordbad/signage-core/internal/infrastructure/logging"
	"github.com/nordbad/signage-core/internal/infrastructure/tsdb"
	"github.com/nordbad/signage-core/internal/media"
	"github.com/nordbad/signage-core/internal/schedule"
	"github.com/nordbad/signage-core/internal/settings"
)

// gracefulShutdownTimeout is the maximum time to wait for in-flight requests
// to complete during shutdown.
const gracefulShutdownTimeout = 10 * time.Second

// Deps holds the dependencies required by the API server.
type Deps struct {
	Config     config.APIConfig
	WS         config.WebSocketConfig
	Security   config.SecurityConfig
	Logger     *logging.Logger
	Schedules  schedule.Store
	Settings   settings.Repository
	Displays   display.Repository
	Media      media.MediaRepository
	Slideshows media.SlideshowRepository
	TSDB       *tsdb.Client // optional: display telemetry
	Version    string
}

// Server is the HTTP API server for Signage Core.
//
// It manages the HTTP listener, routes, middleware, and WebSocket hub.
// The server is created with New() and started with Start().
type Server struct {
	cfg        config.APIConfig
	wsCfg      config.WebSocketConfig
	secCfg     config.SecurityConfig
	logger     *logging.Logger
	schedules  schedule.Store
	settings   settings.Repository
	displays   display.Repository
	media      media.MediaRepository
	slideshows media.SlideshowRepository
	tsdb       *tsdb.Client
	version    string
	server     *http.Server
	hub        *Hub
	tickets    *auth.TicketStore
	cancel     context.CancelFunc // cancels background goroutines on Close()
}

// New creates a new API server with the given dependencies.
//
// The server is not started until Start() is called.
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if deps.Schedules == nil {
		return nil, fmt.Errorf("schedule store is required")
	}
	if deps.Settings == nil {
		return nil, fmt.Errorf("settings repository is required")
	}
	if deps.Displays == nil {
		return nil, fmt.Errorf("display repository is required")
	}
	if deps.Media == nil || deps.Slideshows == nil {
		return nil, fmt.Errorf("media repositories are required")
	}
	// TSDB is optional — heartbeats still update last_seen without it

	return &Server{
		cfg:        deps.Config,
		wsCfg:      deps.WS,
		secCfg:     deps.Security,
		logger:     deps.Logger,
		schedules:  deps.Schedules,
		settings:   deps.Settings,
		displays:   deps.Displays,
		media:      deps.Media,
		slideshows: deps.Slideshows,
		tsdb:       deps.TSDB,
		version:    deps.Version,
		tickets:    auth.NewTicketStore(),
	}, nil
}

// Hub returns the WebSocket hub. Nil until Start() is called.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Start begins listening for HTTP connections.
//
// It sets up the router, starts the WebSocket hub, and launches the HTTP
// listener in a background goroutine. The server is stopped with Close().
func (s *Server) Start(ctx context.Context) error {
	// Internal context so Close() can stop background goroutines
	// independently of the parent context.
	var srvCtx context.Context
	srvCtx, s.cancel = context.WithCancel(ctx)

	s.hub = NewHub(s.wsCfg, s.logger)
	go s.hub.Run(srvCtx)

	router := s.buildRouter()

	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:           router,
		ReadTimeout:       time.Duration(s.cfg.Timeouts.Read) * time.Second,
		ReadHeaderTimeout: time.Duration(s.cfg.Timeouts.Read) * time.Second,
		WriteTimeout:      time.Duration(s.cfg.Timeouts.Write) * time.Second,
		IdleTimeout:       time.Duration(s.cfg.Timeouts.Idle) * time.Second,
	}

	go func() {
		var err error
		if s.cfg.TLS.Enabled {
			s.logger.Info("API server starting with TLS",
				"address", s.server.Addr,
				"cert", s.cfg.TLS.CertFile,
			)
			err = s.server.ListenAndServeTLS(s.cfg.TLS.CertFile, s.cfg.TLS.KeyFile)
		} else {
			s.logger.Info("API server starting", "address", s.server.Addr)
			err = s.server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server error", "error", err)
		}
	}()

	return nil
}

// Close gracefully shuts down the API server.
//
// It waits up to 10 seconds for in-flight requests to complete,
// then forcefully closes remaining connections.
func (s *Server) Close() error {
	if s.server == nil {
		return nil
	}

	// Cancel background goroutines (hub)
	if s.cancel != nil {
		s.cancel()
	}

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	s.logger.Info("API server shutting down")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down API server: %w", err)
	}
	return nil
}

// HealthCheck verifies the API server is running and responsive.
func (s *Server) HealthCheck(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("api health check: %w", ctx.Err())
	default:
	}

	if s.server == nil {
		return fmt.Errorf("api server not started")
	}

	return nil
}
