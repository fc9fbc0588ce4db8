// ABOUTME: HTTP/JSON API server built on gin
// ABOUTME: Wires middleware, route groups, and graceful shutdown
package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/harperreed/buildcrm/intake"
	"github.com/harperreed/buildcrm/logging"
	"github.com/harperreed/buildcrm/metrics"
	"github.com/harperreed/buildcrm/models"
	"github.com/harperreed/buildcrm/tracing"
	"github.com/jmoiron/sqlx"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// Options configures the server.
type Options struct {
	DB          *sqlx.DB
	Log         *logging.Logger
	Metrics     *metrics.Metrics
	Policy      models.TransitionPolicy
	CORSOrigins []string
}

type Server struct {
	db      *sqlx.DB
	log     *logging.Logger
	metrics *metrics.Metrics
	policy  models.TransitionPolicy
	intake  *intake.Service
	router  *gin.Engine
}

func NewServer(opts Options) *Server {
	log := opts.Log
	if log == nil {
		log = logging.Nop()
	}
	policy := opts.Policy
	if policy == nil {
		policy = models.PermissivePolicy{}
	}

	s := &Server{
		db:      opts.DB,
		log:     log,
		metrics: opts.Metrics,
		policy:  policy,
		intake:  intake.NewService(opts.DB, log, opts.Metrics),
	}
	s.router = s.routes(opts.CORSOrigins)
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes(origins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware(tracing.ServiceName))
	r.Use(RequestID())
	r.Use(RequestLogger(s.log))
	r.Use(Metrics(s.metrics))
	r.Use(CORS(origins))

	r.GET("/health", s.handleHealth)
	r.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	customers := r.Group("/customers")
	{
		customers.POST("", s.createCustomer)
		customers.GET("", s.listCustomers)
		customers.GET("/:id", s.getCustomer)
		customers.GET("/:id/projects", s.listCustomerProjects)
		customers.DELETE("/:id", s.deleteCustomer)
	}

	projects := r.Group("/projects")
	{
		projects.POST("", s.createProject)
		projects.GET("", s.listProjects)
		projects.GET("/:id", s.getProject)
		projects.DELETE("/:id", s.deleteProject)
	}

	vendors := r.Group("/vendors")
	{
		vendors.POST("", s.createVendor)
		vendors.GET("", s.listVendors)
		vendors.GET("/:id", s.getVendor)
		vendors.DELETE("/:id", s.deleteVendor)
		vendors.POST("/:id/projects", s.linkVendorProject)
	}

	interactions := r.Group("/interactions")
	{
		interactions.POST("", s.createInteraction)
		interactions.GET("/customer/:id", s.listCustomerInteractions)
	}

	notifications := r.Group("/notifications")
	{
		notifications.POST("", s.createNotification)
		notifications.GET("", s.listNotifications)
		notifications.POST("/:id/read", s.markNotificationRead)
	}

	leads := r.Group("/leads")
	{
		leads.POST("", s.createLead)
		leads.GET("", s.listLeads)
		leads.GET("/:id", s.getLead)
		leads.DELETE("/:id", s.deleteLead)
		leads.PUT("/:id/status", s.updateLeadStatus)
		leads.POST("/:id/convert", s.convertLead)
	}

	api := r.Group("/api")
	{
		api.POST("/website-form", s.submitWebsiteForm)
		api.GET("/dashboard/stats", s.dashboardStats)
	}

	return r
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context, port int) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("starting HTTP server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.log.Info("shutting down HTTP server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}

func (s *Server) handleHealth(c *gin.Context) {
	if err := s.db.PingContext(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "detail": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
