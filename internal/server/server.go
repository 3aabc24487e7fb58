package server

import (
	"context"
	"net/http"

	clientdomain "github.com/JohnAlex1900/Smart-Invoice/internal/client/domain"
	"github.com/JohnAlex1900/Smart-Invoice/internal/config"
	dashboarddomain "github.com/JohnAlex1900/Smart-Invoice/internal/dashboard/domain"
	invoicedomain "github.com/JohnAlex1900/Smart-Invoice/internal/invoice/domain"
	userdomain "github.com/JohnAlex1900/Smart-Invoice/internal/user/domain"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(NewEngine),
	fx.Provide(NewServer),
	fx.Invoke(registerRoutes),
	fx.Invoke(run),
)

// NewEngine builds the gin engine with recovery, metrics and the error
// mapping middleware, plus the health and metrics endpoints.
func NewEngine(metrics *HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(MetricsMiddleware(metrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

type ServerParams struct {
	fx.In

	Cfg          config.Config
	Log          *zap.Logger
	Engine       *gin.Engine
	UserSvc      userdomain.Service
	ClientSvc    clientdomain.Service
	InvoiceSvc   invoicedomain.Service
	DashboardSvc dashboarddomain.Service
}

type Server struct {
	cfg          config.Config
	log          *zap.Logger
	engine       *gin.Engine
	userSvc      userdomain.Service
	clientSvc    clientdomain.Service
	invoiceSvc   invoicedomain.Service
	dashboardSvc dashboarddomain.Service
}

func NewServer(p ServerParams) *Server {
	return &Server{
		cfg:          p.Cfg,
		log:          p.Log.Named("http.server"),
		engine:       p.Engine,
		userSvc:      p.UserSvc,
		clientSvc:    p.ClientSvc,
		invoiceSvc:   p.InvoiceSvc,
		dashboardSvc: p.DashboardSvc,
	}
}

func registerRoutes(s *Server) {
	api := s.engine.Group("/api")
	api.Use(s.TokenRequired())

	// Profile creation only needs a verified token; everything else
	// needs the token resolved to an existing tenant.
	api.POST("/users", s.CreateUser)

	authed := api.Group("")
	authed.Use(s.TenantRequired())

	authed.GET("/users/me", s.GetCurrentUser)
	authed.PATCH("/users/me", s.UpdateCurrentUser)

	authed.GET("/clients", s.ListClients)
	authed.POST("/clients", s.CreateClient)
	authed.PATCH("/clients/:id", s.UpdateClient)
	authed.DELETE("/clients/:id", s.DeleteClient)

	authed.GET("/invoices", s.ListInvoices)
	authed.POST("/invoices", s.CreateInvoice)
	authed.GET("/invoices/recent", s.ListRecentInvoices)
	authed.GET("/invoices/:id", s.GetInvoice)
	authed.PATCH("/invoices/:id", s.UpdateInvoice)
	authed.DELETE("/invoices/:id", s.DeleteInvoice)
	authed.PUT("/invoices/:id/items", s.ReplaceInvoiceItems)
	authed.PATCH("/invoices/:id/status", s.UpdateInvoiceStatus)

	authed.GET("/dashboard/metrics", s.GetDashboardMetrics)
}

func run(lc fx.Lifecycle, s *Server) {
	srv := &http.Server{
		Addr:    s.cfg.HTTPAddr,
		Handler: s.engine,
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				s.log.Info("http server listening", zap.String("addr", srv.Addr))
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					s.log.Error("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}
