package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/nerrad567/masterdata-core/internal/infrastructure/config"
	"github.com/nerrad567/masterdata-core/internal/infrastructure/logging"
	"github.com/nerrad567/masterdata-core/internal/machine"
	"github.com/nerrad567/masterdata-core/internal/masterdata"
	"github.com/nerrad567/masterdata-core/internal/notification/sms"
)

// gracefulShutdownTimeout is the maximum time to wait for in-flight requests
// to complete during shutdown.
const gracefulShutdownTimeout = 10 * time.Second

// MachineService is the machine operations the API exposes.
type MachineService interface {
	GetByIDAndLocale(ctx context.Context, id, langCode string) (*masterdata.ResponseEnvelope[machine.View], error)
	GetByLocale(ctx context.Context, langCode string) (*masterdata.ResponseEnvelope[machine.View], error)
	GetAll(ctx context.Context) (*masterdata.ResponseEnvelope[machine.View], error)
	Create(ctx context.Context, req machine.Request, createdBy string) (*masterdata.IdentifierEnvelope, error)
}

// SMSSender sends a text message to a contact number.
type SMSSender interface {
	Send(ctx context.Context, contactNumber, message string) (*sms.Response, error)
}

// HealthChecker is implemented by every dependency reported on /health.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Deps holds the dependencies required by the API server.
type Deps struct {
	Config   config.APIConfig
	Logger   *logging.Logger
	Machines MachineService
	SMS      SMSSender // optional: /notifications/sms answers 503 without it
	Metrics  *Metrics  // optional: a fresh registry is created when nil

	// Health lists named dependencies reported by /health.
	Health  map[string]HealthChecker
	Version string
}

// Server is the HTTP API server of the master data service.
//
// The server is created with New() and started with Start().
type Server struct {
	cfg      config.APIConfig
	logger   *logging.Logger
	machines MachineService
	sms      SMSSender
	metrics  *Metrics
	health   map[string]HealthChecker
	version  string
	server   *http.Server
	listener net.Listener
}

// New creates a new API server with the given dependencies.
//
// The server is not started until Start() is called.
//
// Parameters:
//   - deps: Required dependencies (logger, machine service)
//
// Returns:
//   - *Server: Configured server ready to start
//   - error: If required dependencies are missing
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if deps.Machines == nil {
		return nil, fmt.Errorf("machine service is required")
	}

	metrics := deps.Metrics
	if metrics == nil {
		metrics = NewMetrics()
	}

	return &Server{
		cfg:      deps.Config,
		logger:   deps.Logger,
		machines: deps.Machines,
		sms:      deps.SMS,
		metrics:  metrics,
		health:   deps.Health,
		version:  deps.Version,
	}, nil
}

// Start begins listening for HTTP connections.
//
// The listener is bound before Start returns, so a port conflict is
// reported here; requests are then served in a background goroutine until
// Close is called.
//
// Parameters:
//   - ctx: Context for cancellation (not used for listener lifetime)
//
// Returns:
//   - error: If the server fails to bind (port in use, etc.)
func (s *Server) Start(ctx context.Context) error {
	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:           s.buildRouter(),
		ReadTimeout:       time.Duration(s.cfg.Timeouts.Read) * time.Second,
		ReadHeaderTimeout: time.Duration(s.cfg.Timeouts.Read) * time.Second,
		WriteTimeout:      time.Duration(s.cfg.Timeouts.Write) * time.Second,
		IdleTimeout:       time.Duration(s.cfg.Timeouts.Idle) * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.server.Addr, err)
	}
	s.listener = ln

	go func() {
		var err error
		if s.cfg.TLS.Enabled {
			s.logger.Info("API server starting with TLS",
				"address", ln.Addr().String(),
				"cert", s.cfg.TLS.CertFile,
			)
			err = s.server.ServeTLS(ln, s.cfg.TLS.CertFile, s.cfg.TLS.KeyFile)
		} else {
			s.logger.Info("API server starting", "address", ln.Addr().String())
			err = s.server.Serve(ln)
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server error", "error", err)
		}
	}()

	return nil
}

// Addr returns the bound listener address, or "" before Start.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Close gracefully shuts down the API server.
//
// It waits up to 10 seconds for in-flight requests to complete,
// then forcefully closes remaining connections.
//
// Returns:
//   - error: If shutdown encounters an error
func (s *Server) Close() error {
	if s.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	s.logger.Info("API server shutting down")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down API server: %w", err)
	}
	return nil
}

// HealthCheck verifies the API server has been started.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//
// Returns:
//   - error: nil if healthy, error describing the issue otherwise
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
