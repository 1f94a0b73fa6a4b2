package dashboard

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Mohsinsiddi/gasmon/internal/config"
	"github.com/Mohsinsiddi/gasmon/internal/fees"
)

//go:embed templates/index.html
var indexHTML string

// Reporter builds a fee report for one address and period.
type Reporter interface {
	Report(ctx context.Context, address string, period fees.Period) (*fees.Report, error)
}

// Options configures a Server.
type Options struct {
	Listen         string
	DefaultAddress string
	CORSOrigins    []string
	Debug          bool
}

// OptionsFromConfig derives server options from the loaded config.
func OptionsFromConfig(cfg *config.Config, debug bool) Options {
	return Options{
		Listen:         cfg.Listen,
		DefaultAddress: cfg.DefaultAddress,
		CORSOrigins:    cfg.CORSOrigins,
		Debug:          debug,
	}
}

// Server is the dashboard HTTP server.
type Server struct {
	opts    Options
	svc     Reporter
	log     *zap.Logger
	engine  *gin.Engine
	tracker *Tracker
}

// NewServer builds the gin engine and registers all routes.
func NewServer(opts Options, svc Reporter, log *zap.Logger) (*Server, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	tmpl, err := template.New("index").Funcs(templateFuncs).Parse(indexHTML)
	if err != nil {
		return nil, fmt.Errorf("parsing page template: %w", err)
	}

	s := &Server{
		opts:    opts,
		svc:     svc,
		log:     log,
		engine:  gin.New(),
		tracker: NewTracker(),
	}
	s.engine.SetHTMLTemplate(tmpl)
	s.engine.Use(Recovery(log), CorrelationID(), RequestLogger(log))

	if err := s.registerRoutes(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Server) registerRoutes() error {
	s.engine.GET("/", s.index)
	s.engine.GET("/healthz", s.healthz)

	api := s.engine.Group("/api/v1")
	if len(s.opts.CORSOrigins) > 0 {
		cc := cors.Config{
			AllowOrigins:  s.opts.CORSOrigins,
			AllowMethods:  []string{http.MethodGet, http.MethodOptions},
			AllowHeaders:  []string{"Origin", "Content-Type", CorrelationIDHeader},
			ExposeHeaders: []string{CorrelationIDHeader},
			MaxAge:        12 * time.Hour,
		}
		if err := cc.Validate(); err != nil {
			return fmt.Errorf("%w: cors_origins: %w", config.ErrInvalidConfig, err)
		}
		api.Use(cors.New(cc))
	}
	api.GET("/report", s.report)
	return nil
}

// Handler exposes the engine, mainly for tests.
func (s *Server) Handler() http.Handler { return s.engine }

// Tracker returns the session cycle tracker.
func (s *Server) Tracker() *Tracker { return s.tracker }

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.opts.Listen)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.opts.Listen, err)
	}
	srv := &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()
	s.log.Info("dashboard listening", zap.String("url", "http://"+ln.Addr().String()))

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutting down dashboard")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}
