// Package server wires the configuration, credential store, search tiers,
// and HTTP surface together and manages their lifecycle.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"

	"tenup-padel-service/internal/auth"
	"tenup-padel-service/internal/cache"
	"tenup-padel-service/internal/config"
	"tenup-padel-service/internal/credstore"
	httpserver "tenup-padel-service/internal/http"
	"tenup-padel-service/internal/http/handlers"
	"tenup-padel-service/internal/http/middleware"
	"tenup-padel-service/internal/logging"
	"tenup-padel-service/internal/metrics"
	"tenup-padel-service/internal/providers/headless"
	"tenup-padel-service/internal/providers/mobile"
	"tenup-padel-service/internal/providers/tenupweb"
	"tenup-padel-service/internal/search"
)

var metricsSetup = metrics.Setup

type Server struct {
	cfg           config.Config
	logger        *slog.Logger
	metrics       *metrics.Recorder
	creds         *credstore.Store
	orchestrator  *search.Orchestrator
	httpServer    httpServer
	metricsServer httpServer
	metricsStop   func(context.Context) error
}

// New constructs a server with the full tier cascade wired in.
func New(cfg config.Config, logger *slog.Logger) *Server {
	return newServerWithMetrics(cfg, logger, nil)
}

func newServerWithMetrics(cfg config.Config, logger *slog.Logger, recorder *metrics.Recorder) *Server {
	recorder, metricsSrv, metricsShutdown := buildMetrics(cfg, logger, recorder)

	creds := credstore.New(cfg.DataDir)
	orchestrator := buildOrchestrator(cfg, creds, recorder, logger)
	httpSrv := buildHTTPServer(cfg, orchestrator, creds, logger, recorder)

	return &Server{
		cfg:           cfg,
		logger:        logger,
		metrics:       recorder,
		creds:         creds,
		orchestrator:  orchestrator,
		httpServer:    httpSrv,
		metricsServer: metricsSrv,
		metricsStop:   metricsShutdown,
	}
}

// newServerWithDeps is used for testing to inject custom components.
func newServerWithDeps(cfg config.Config, logger *slog.Logger, httpSrv httpServer) *Server {
	return &Server{
		cfg:        cfg,
		logger:     logger,
		httpServer: httpSrv,
	}
}

func buildOrchestrator(cfg config.Config, creds *credstore.Store, recorder *metrics.Recorder, logger *slog.Logger) *search.Orchestrator {
	orchCfg := search.Config{
		Mobile: mobile.NewClient(mobile.Config{
			BaseURL:   cfg.Tenup.APIBase,
			AppID:     cfg.Tenup.ClientID,
			UserAgent: config.UserAgent,
		}),
		Tokens: auth.NewRefresher(auth.Config{
			TokenURL: cfg.Tenup.TokenURL,
			ClientID: cfg.Tenup.ClientID,
		}),
		Cookies: headless.NewRefresher(headless.Config{
			TargetURL:    cfg.Tenup.WebBase + tenupweb.SearchPath,
			CookieDomain: hostOf(cfg.Tenup.WebBase),
			UserAgent:    config.UserAgent,
			Disabled:     cfg.Headless.Disabled,
			Logger:       logger,
		}, creds),
		Creds:    creds,
		Cache:    cache.NewWithTTL(cfg.CacheTTL),
		Recorder: recorder,
		Logger:   logger,
	}

	web, err := tenupweb.NewClient(tenupweb.Config{
		BaseURL:   cfg.Tenup.WebBase,
		UserAgent: config.UserAgent,
		Logger:    logger,
	})
	if err != nil {
		if logger != nil {
			logger.Error("web tier unavailable", "error", err)
		}
	} else {
		orchCfg.Web = web
	}

	return search.NewOrchestrator(orchCfg)
}

func buildHTTPServer(cfg config.Config, orchestrator *search.Orchestrator, creds *credstore.Store, logger *slog.Logger, recorder *metrics.Recorder) httpServer {
	if logger == nil {
		logger = logging.NewLogger(logging.Config{})
	}

	handler := handlers.NewHandler(orchestrator, creds, logger)
	router := httpserver.NewRouter(handler)
	wrapped := middleware.CORS(middleware.Logging(logger, recorder, router))

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      wrapped,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	return netHTTPServer{srv: srv}
}

// Run starts the HTTP and metrics servers, then waits for context
// cancellation to shut down gracefully.
func (s *Server) Run(ctx context.Context, stop context.CancelFunc) {
	s.startMetrics()
	s.startServer(stop)

	<-ctx.Done()
	if s.logger != nil {
		s.logger.Info("shutdown signal received")
	}

	s.gracefulShutdown()
}

func (s *Server) startServer(stop context.CancelFunc) {
	launchServer("http", s.httpServer, s.logger, func(err error) {
		if stop != nil {
			stop()
		}
	})
}

func (s *Server) startMetrics() {
	if s.metricsServer == nil {
		return
	}
	launchServer("metrics", s.metricsServer, s.logger, nil)
}

func (s *Server) gracefulShutdown() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if s.metricsStop != nil {
		if err := s.metricsStop(shutdownCtx); err != nil && s.logger != nil {
			s.logger.Warn("metrics shutdown failed", "error", err)
		}
	}

	if s.metricsServer != nil {
		if err := s.metricsServer.Shutdown(shutdownCtx); err != nil && s.logger != nil {
			s.logger.Warn("metrics server shutdown failed", "error", err)
		}
	}

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil && s.logger != nil {
		s.logger.Error("graceful shutdown failed", "error", err)
	}

	if s.logger != nil {
		s.logger.Info("shutdown complete")
	}
}

func buildMetrics(cfg config.Config, logger *slog.Logger, recorder *metrics.Recorder) (*metrics.Recorder, httpServer, func(context.Context) error) {
	if recorder != nil {
		return recorder, nil, nil
	}

	recCfg := metrics.TelemetryConfig{
		Enabled:      cfg.Metrics.Enabled,
		Port:         cfg.Metrics.Port,
		ServiceName:  cfg.Metrics.ServiceName,
		OtlpEndpoint: cfg.Metrics.OtlpEndpoint,
		OtlpInsecure: cfg.Metrics.OtlpInsecure,
	}

	rec, handler, shutdown, err := metricsSetup(context.Background(), recCfg)
	if err != nil {
		if logger != nil {
			logger.Warn("metrics setup failed, continuing without telemetry", "err", err)
		}
		return metrics.NewRecorder(), nil, nil
	}

	var metricsSrv httpServer
	if handler != nil && recCfg.Enabled {
		metricsSrv = netHTTPServer{
			srv: &http.Server{
				Addr:    ":" + recCfg.Port,
				Handler: handler,
			},
		}
	}

	return rec, metricsSrv, shutdown
}

func launchServer(name string, srv httpServer, logger *slog.Logger, onError func(error)) {
	go func() {
		if logger != nil {
			logger.Info("starting "+name+" server", slog.String("addr", srv.Addr()))
		}
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			if logger != nil {
				logger.Warn(name+" server failed", "error", err)
			}
			if onError != nil {
				onError(err)
			}
		}
	}()
}

// Handler exposes the HTTP handler (useful for tests).
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler()
}

func hostOf(base string) string {
	u, err := url.Parse(base)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
