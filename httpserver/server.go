package httpserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/flashbots/go-utils/httplogger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"github.com/ruteri/secure-date-gateway/api"
	"github.com/ruteri/secure-date-gateway/availability"
	"github.com/ruteri/secure-date-gateway/gate"
	"github.com/ruteri/secure-date-gateway/metrics"
)

// RouteRegistrar is implemented by handlers mounted on the protected group.
type RouteRegistrar interface {
	RegisterRoutes(r chi.Router)
}

// Components are the collaborators a Server routes requests through.
type Components struct {
	Switch    *availability.Switch
	Gate      *gate.Gate
	AdminGate *gate.Gate
	Metrics   *metrics.Metrics

	// Handlers are mounted behind the availability switch and Gate.
	Handlers []RouteRegistrar
}

type Server struct {
	cfg  *api.HTTPServerConfig
	comp Components
	log  *slog.Logger

	srv        *http.Server
	metricsSrv *metrics.MetricsServer
}

func New(cfg *api.HTTPServerConfig, comp Components) (srv *Server, err error) {
	if comp.Switch == nil || comp.Gate == nil || comp.AdminGate == nil {
		return nil, errors.New("switch, gate and admin gate are required")
	}

	srv = &Server{
		cfg:  cfg,
		comp: comp,
		log:  cfg.Log,
	}

	if cfg.MetricsAddr != "" {
		if comp.Metrics == nil {
			return nil, fmt.Errorf("metrics address %s set without metrics", cfg.MetricsAddr)
		}
		srv.metricsSrv = metrics.New(comp.Metrics, cfg.MetricsAddr)
	}

	srv.srv = &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      srv.getRouter(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return srv, nil
}

// Handler returns the root handler, mostly for tests.
func (srv *Server) Handler() http.Handler {
	return srv.srv.Handler
}

func (srv *Server) getRouter() http.Handler {
	mux := chi.NewRouter()
	mux.Use(middleware.Recoverer)
	mux.Use(srv.httpLogger)
	mux.Use(srv.corsHandler().Handler)

	// Exempt from every check
	mux.Get("/health", srv.handleLivenessCheck)
	mux.Get("/readyz", srv.handleReadinessCheck)

	// Operator routes bypass the availability switch
	mux.Group(func(r chi.Router) {
		r.Use(srv.comp.AdminGate.Middleware)
		NewAdminHandler(srv.comp.Switch, srv.log).RegisterRoutes(r)
	})

	mux.Group(func(r chi.Router) {
		r.Use(srv.comp.Switch.Middleware)
		r.Use(srv.comp.Gate.Middleware)
		for _, h := range srv.comp.Handlers {
			h.RegisterRoutes(r)
		}
	})

	mux.NotFound(srv.comp.Switch.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		api.WriteError(w, http.StatusNotFound, "Route not found")
	})).ServeHTTP)
	mux.MethodNotAllowed(srv.comp.Switch.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		api.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})).ServeHTTP)

	if srv.cfg.EnablePprof {
		srv.log.Info("pprof API enabled")
		mux.Mount("/debug", middleware.Profiler())
	}
	return mux
}

func (srv *Server) httpLogger(next http.Handler) http.Handler {
	return httplogger.LoggingMiddlewareSlog(srv.log, next)
}

func (srv *Server) corsHandler() *cors.Cors {
	origins := srv.cfg.CORSAllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", srv.comp.Gate.Header(), srv.comp.AdminGate.Header()},
		MaxAge:         600,
	})
}

func (srv *Server) handleLivenessCheck(w http.ResponseWriter, r *http.Request) {
	_ = api.WriteJSON(w, http.StatusOK, api.StatusResponse{
		Status:    "ok",
		Timestamp: timestamp(time.Now()),
	})
}

func (srv *Server) handleReadinessCheck(w http.ResponseWriter, r *http.Request) {
	available := srv.comp.Switch.Available()
	if !available {
		_ = api.WriteJSON(w, http.StatusServiceUnavailable, api.StatusResponse{Status: "not ready", Available: &available})
		return
	}
	_ = api.WriteJSON(w, http.StatusOK, api.StatusResponse{Status: "ready", Available: &available})
}

func (srv *Server) RunInBackground() {
	// metrics
	if srv.metricsSrv != nil {
		go func() {
			srv.log.With("metricsAddress", srv.cfg.MetricsAddr).Info("Starting metrics server")
			err := srv.metricsSrv.ListenAndServe()
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				srv.log.Error("HTTP server failed", "err", err)
			}
		}()
	}

	// api
	go func() {
		srv.log.Info("Starting HTTP server", "listenAddress", srv.cfg.ListenAddr)
		if err := srv.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			srv.log.Error("HTTP server failed", "err", err)
		}
	}()
}

func (srv *Server) Shutdown() {
	// api
	ctx, cancel := context.WithTimeout(context.Background(), srv.cfg.GracefulShutdownDuration)
	defer cancel()
	if err := srv.srv.Shutdown(ctx); err != nil {
		srv.log.Error("Graceful HTTP server shutdown failed", "err", err)
	} else {
		srv.log.Info("HTTP server gracefully stopped")
	}

	// metrics
	if srv.metricsSrv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), srv.cfg.GracefulShutdownDuration)
		defer cancel()

		if err := srv.metricsSrv.Shutdown(ctx); err != nil {
			srv.log.Error("Graceful metrics server shutdown failed", "err", err)
		} else {
			srv.log.Info("Metrics server gracefully stopped")
		}
	}
}
