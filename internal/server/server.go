package server

import (
	"context"
	"net/http"
	"time"

	authdomain "github.com/edupay/feereport/internal/auth/domain"
	"github.com/edupay/feereport/internal/config"
	obslogger "github.com/edupay/feereport/internal/observability/logger"
	obsmetrics "github.com/edupay/feereport/internal/observability/metrics"
	"github.com/edupay/feereport/internal/policy"
	reportsdomain "github.com/edupay/feereport/internal/reports/domain"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(log *zap.Logger, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obslogger.GinMiddleware(log))
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(log *zap.Logger, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(log, httpMetrics)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine     *gin.Engine
	cfg        config.Config
	authsvc    authdomain.Service
	reportsSvc reportsdomain.Service
}

type ServerParams struct {
	fx.In

	Gin        *gin.Engine
	Cfg        config.Config
	Authsvc    authdomain.Service
	ReportsSvc reportsdomain.Service
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:     p.Gin,
		cfg:        p.Cfg,
		authsvc:    p.Authsvc,
		reportsSvc: p.ReportsSvc,
	}

	svc.registerAuthRoutes()
	svc.registerReportRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAuthRoutes() {
	auth := s.engine.Group("/auth")

	auth.POST("/login", s.Login)
}

func (s *Server) registerReportRoutes() {
	reports := s.engine.Group("/reports", s.AuthRequired())

	reports.GET("/dashboard", s.RequirePermission(policy.PermReportsRead), s.GetDashboard)
	reports.GET("/pending-payments", s.RequirePermission(policy.PermReportsPendingView), s.GetPendingPayments)
	reports.GET("/pending-payments/export", s.RequirePermission(policy.PermReportsPendingView), s.ExportPendingPayments)
	reports.GET("/transactions/failures", s.RequirePermission(policy.PermReportsMonitoring), s.GetTransactionFailures)
}
