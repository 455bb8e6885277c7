package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/careops/carehome/internal/billing"
	billingdomain "github.com/careops/carehome/internal/billing/domain"
	"github.com/careops/carehome/internal/catalog"
	catalogdomain "github.com/careops/carehome/internal/catalog/domain"
	"github.com/careops/carehome/internal/config"
	"github.com/careops/carehome/internal/invoice"
	invoicedomain "github.com/careops/carehome/internal/invoice/domain"
	"github.com/careops/carehome/internal/ledger"
	ledgerdomain "github.com/careops/carehome/internal/ledger/domain"
	obsmiddleware "github.com/careops/carehome/internal/observability/logger"
	obsmetrics "github.com/careops/carehome/internal/observability/metrics"
	"github.com/careops/carehome/internal/resident"
	residentdomain "github.com/careops/carehome/internal/resident/domain"
	"github.com/careops/carehome/internal/usage"
	usagedomain "github.com/careops/carehome/internal/usage/domain"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	obsmetrics.Module,
	fx.Provide(NewEngine),
	catalog.Module,
	usage.Module,
	ledger.Module,
	resident.Module,
	invoice.Module,
	billing.Module,
	fx.Provide(NewServer),
	fx.Invoke(registerRoutes),
	fx.Invoke(run),
)

func NewEngine(log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(log.Named("http")))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

type Server struct {
	engine       *gin.Engine
	cfg          config.Config
	db           *gorm.DB
	genID        *snowflake.Node
	catalogSvc   catalogdomain.Service
	usageSvc     usagedomain.Service
	ledgerSvc    ledgerdomain.Service
	invoiceSvc   invoicedomain.Service
	billingSvc   billingdomain.Service
	residentRepo residentdomain.Repository
}

type Params struct {
	fx.In

	Gin          *gin.Engine
	Cfg          config.Config
	DB           *gorm.DB
	GenID        *snowflake.Node
	CatalogSvc   catalogdomain.Service
	UsageSvc     usagedomain.Service
	LedgerSvc    ledgerdomain.Service
	InvoiceSvc   invoicedomain.Service
	BillingSvc   billingdomain.Service
	ResidentRepo residentdomain.Repository
}

func NewServer(p Params) *Server {
	return &Server{
		engine:       p.Gin,
		cfg:          p.Cfg,
		db:           p.DB,
		genID:        p.GenID,
		catalogSvc:   p.CatalogSvc,
		usageSvc:     p.UsageSvc,
		ledgerSvc:    p.LedgerSvc,
		invoiceSvc:   p.InvoiceSvc,
		billingSvc:   p.BillingSvc,
		residentRepo: p.ResidentRepo,
	}
}

func registerRoutes(s *Server) {
	api := s.engine.Group("/api/v1")

	api.GET("/catalog", s.ListPriceEntries)
	api.POST("/catalog", s.CreatePriceEntry)
	api.GET("/catalog/:id", s.GetPriceEntry)
	api.PATCH("/catalog/:id", s.UpdatePriceEntry)
	api.DELETE("/catalog/:id", s.DeactivatePriceEntry)
	api.GET("/catalog/resolve", s.ResolvePrice)

	api.POST("/usage", s.RecordUsage)
	api.GET("/residents/:id/usage", s.ListUsage)

	api.PUT("/residents/:id/profile", s.UpsertResidentProfile)
	api.GET("/residents/:id/profile", s.GetResidentProfile)
	api.POST("/residents/:id/invoice", s.PreviewInvoice)
	api.GET("/residents/:id/statement", s.ResidentStatement)
	api.POST("/residents/:id/balance/recompute", s.RecomputeBalance)

	api.POST("/payments", s.ApplyPayment)
	api.POST("/transactions", s.RecordManualTransaction)
	api.PATCH("/transactions/:id/status", s.CorrectTransactionStatus)
	api.GET("/residents/:id/transactions", s.ListTransactions)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config) {
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
