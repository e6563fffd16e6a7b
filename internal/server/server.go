// Package server exposes the ledger and dashboard services over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/hosteldesk/messpro/internal/clock"
	"github.com/hosteldesk/messpro/internal/config"
	dashboarddomain "github.com/hosteldesk/messpro/internal/dashboard/domain"
	ledgerdomain "github.com/hosteldesk/messpro/internal/ledger/domain"
	"github.com/hosteldesk/messpro/internal/observability/logger"
	"github.com/hosteldesk/messpro/internal/observability/metrics"
	"github.com/hosteldesk/messpro/internal/observability/tracing"
)

var Module = fx.Module("server",
	fx.Provide(New),
	fx.Invoke(registerHTTPServer),
)

type Params struct {
	fx.In

	Cfg       config.Config
	Log       *zap.Logger
	Ledger    ledgerdomain.Service
	Dashboard dashboarddomain.Service
	Clock     clock.Clock
}

// Server holds the HTTP handler dependencies.
type Server struct {
	cfg          config.Config
	log          *zap.Logger
	ledgerSvc    ledgerdomain.Service
	dashboardSvc dashboarddomain.Service
	clock        clock.Clock

	// portalLimiter throttles the self-service payment endpoint per client IP.
	portalLimiter *rateLimiter
}

func New(p Params) *Server {
	return &Server{
		cfg:           p.Cfg,
		log:           p.Log.Named("server"),
		ledgerSvc:     p.Ledger,
		dashboardSvc:  p.Dashboard,
		clock:         p.Clock,
		portalLimiter: newRateLimiter(10, time.Minute),
	}
}

// Router builds the gin engine with middleware and all routes registered.
func (s *Server) Router() *gin.Engine {
	if s.cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.GinMiddleware(logger.MiddlewareConfig{
		SkipPaths: []string{"/healthz", "/metrics"},
	}))
	r.Use(tracing.GinMiddleware())
	r.Use(metrics.GinMiddleware(metrics.HTTPWithConfig(metrics.Config{
		ServiceName: s.cfg.ServiceName,
		Environment: s.cfg.Environment,
	})))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1")
	{
		api.POST("/residents", s.CreateResident)
		api.GET("/residents", s.ListResidents)
		api.GET("/residents/:id", s.GetResident)
		api.DELETE("/residents/:id", s.DeleteResident)

		api.POST("/plans", s.CreatePlan)
		api.GET("/plans", s.ListPlans)
		api.PUT("/plans/:id", s.UpdatePlan)

		api.POST("/assignments", s.AssignPlan)

		api.POST("/payments", s.RecordPayment)
		api.GET("/payments/pending", s.ListPendingPayments)
		api.POST("/payments/:id/verify", s.VerifyPayment)
		api.POST("/payments/:id/reject", s.RejectPayment)

		api.GET("/dashboard/stats", s.DashboardStats)
		api.GET("/dashboard/activity", s.DashboardActivity)
		api.GET("/dashboard/overdue", s.DashboardOverdue)

		api.POST("/reload", s.Reload)
	}

	// Self-service portal: residents submit payments that land as pending.
	r.POST("/portal/payments", s.PortalRecordPayment)

	return r
}

// Reload forces a fresh snapshot, for admins who changed the database out of
// band.
func (s *Server) Reload(c *gin.Context) {
	if _, err := s.ledgerSvc.Reload(c.Request.Context()); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func registerHTTPServer(lc fx.Lifecycle, s *Server, cfg config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("shutting down http server")
			return srv.Shutdown(ctx)
		},
	})
}
