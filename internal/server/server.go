package server

import (
	"context"
	"net/http"
	"time"

	"github.com/Achorval/Voouch-Api-sub001/internal/audit"
	auditdomain "github.com/Achorval/Voouch-Api-sub001/internal/audit/domain"
	"github.com/Achorval/Voouch-Api-sub001/internal/catalog"
	catalogdomain "github.com/Achorval/Voouch-Api-sub001/internal/catalog/domain"
	"github.com/Achorval/Voouch-Api-sub001/internal/config"
	"github.com/Achorval/Voouch-Api-sub001/internal/feeconfig"
	feeconfigdomain "github.com/Achorval/Voouch-Api-sub001/internal/feeconfig/domain"
	"github.com/Achorval/Voouch-Api-sub001/internal/locking"
	"github.com/Achorval/Voouch-Api-sub001/internal/observability"
	obsmiddleware "github.com/Achorval/Voouch-Api-sub001/internal/observability/logger"
	obsmetrics "github.com/Achorval/Voouch-Api-sub001/internal/observability/metrics"
	obstracing "github.com/Achorval/Voouch-Api-sub001/internal/observability/tracing"
	"github.com/Achorval/Voouch-Api-sub001/internal/ratelimit"
	"github.com/Achorval/Voouch-Api-sub001/internal/ticket"
	ticketdomain "github.com/Achorval/Voouch-Api-sub001/internal/ticket/domain"
	"github.com/Achorval/Voouch-Api-sub001/internal/tierlimit"
	tierlimitdomain "github.com/Achorval/Voouch-Api-sub001/internal/tierlimit/domain"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Module wires the domain services behind the admin HTTP surface. Config,
// observability, the database, the clock and the snowflake node come from the
// caller.
var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	locking.Module,
	ratelimit.Module,
	catalog.Module,
	tierlimit.Module,
	feeconfig.Module,
	audit.Module,
	ticket.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Info("http server listening", zap.String("addr", srv.Addr))
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server failed", zap.Error(err))
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
	engine       *gin.Engine
	cfg          config.Config
	log          *zap.Logger
	tierLimitSvc tierlimitdomain.Service
	feeSvc       feeconfigdomain.Service
	ticketSvc    ticketdomain.Service
	auditSvc     auditdomain.Service
	catalogSvc   catalogdomain.Service
	limiter      *ratelimit.Limiter
}

type ServerParams struct {
	fx.In

	Gin          *gin.Engine
	Cfg          config.Config
	Log          *zap.Logger
	TierLimitSvc tierlimitdomain.Service
	FeeSvc       feeconfigdomain.Service
	TicketSvc    ticketdomain.Service
	AuditSvc     auditdomain.Service
	CatalogSvc   catalogdomain.Service
	Limiter      *ratelimit.Limiter `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:       p.Gin,
		cfg:          p.Cfg,
		log:          p.Log.Named("http.server"),
		tierLimitSvc: p.TierLimitSvc,
		feeSvc:       p.FeeSvc,
		ticketSvc:    p.TicketSvc,
		auditSvc:     p.AuditSvc,
		catalogSvc:   p.CatalogSvc,
		limiter:      p.Limiter,
	}

	svc.registerAdminRoutes()
	svc.registerFallback()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAdminRoutes() {
	admin := s.engine.Group("/v1/admin")
	admin.Use(s.WriteRateLimit())

	// -------- Tier limits --------
	admin.GET("/tier-limits", s.ListTierLimits)
	admin.POST("/tier-limits", s.CreateTierLimit)
	admin.GET("/tier-limits/:id", s.GetTierLimitByID)
	admin.PATCH("/tier-limits/:id", s.UpdateTierLimit)

	// -------- Fee configurations --------
	admin.GET("/fee-configurations", s.ListFeeConfigurations)
	admin.PUT("/fee-configurations", s.ConfigureFee)
	admin.GET("/fee-configurations/default", s.GetDefaultFeeConfiguration)
	admin.POST("/fee-configurations/quote", s.QuoteFee)
	admin.POST("/fee-configurations/:id/enable", s.EnableFeeConfiguration)
	admin.POST("/fee-configurations/:id/disable", s.DisableFeeConfiguration)

	// -------- Support tickets --------
	admin.GET("/tickets", s.ListTickets)
	admin.POST("/tickets", s.CreateTicket)
	admin.GET("/tickets/:id", s.GetTicketByID)
	admin.PATCH("/tickets/:id", s.UpdateTicket)
	admin.POST("/tickets/:id/assign", s.AssignTicket)
	admin.POST("/tickets/:id/close", s.CloseTicket)
	admin.POST("/tickets/:id/replies", s.RecordTicketReply)

	// -------- Audit logs --------
	admin.GET("/audit-logs", s.ListAuditLogs)
	admin.POST("/audit-logs", s.RecordAuditLog)

	// -------- Catalog --------
	admin.GET("/categories", s.ListCategories)
	admin.POST("/categories", s.CreateCategory)
	admin.DELETE("/categories/:id", s.DeleteCategory)
	admin.GET("/products", s.ListProducts)
	admin.POST("/products", s.CreateProduct)
	admin.GET("/products/:id", s.GetProductByID)
	admin.PATCH("/products/:id", s.UpdateProduct)
	admin.GET("/providers", s.ListProviders)
	admin.POST("/providers", s.CreateProvider)
	admin.GET("/providers/:id", s.GetProviderByID)
	admin.PATCH("/providers/:id", s.UpdateProvider)
}

func (s *Server) registerFallback() {
	s.engine.NoRoute(func(c *gin.Context) {
		AbortWithError(c, ErrNotFound)
	})
}
