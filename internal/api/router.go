package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/oklog/ulid/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"

	_ "github.com/clientops/hub/docs"
	"github.com/clientops/hub/internal/api/handler"
	"github.com/clientops/hub/internal/api/middleware"
	"github.com/clientops/hub/internal/core/domain"
	"github.com/clientops/hub/internal/core/ports"
	"github.com/clientops/hub/internal/pkg/config"
	"github.com/clientops/hub/internal/pkg/metrics"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	Config *config.Config
	Logger zerolog.Logger

	Auth     ports.AuthService
	Clients  ports.ClientService
	Leads    ports.LeadService
	Invoices ports.InvoiceService
	Audit    ports.AuditService

	// Readiness lists the dependencies reported by /health/ready.
	Readiness []handler.Check

	// Registerer and Gatherer back the HTTP metrics and /metrics. A nil
	// Registerer leaves both out.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// entityHandler is the route surface shared by clients, leads and invoices.
type entityHandler interface {
	List(c echo.Context) error
	Get(c echo.Context) error
	Create(c echo.Context) error
	Update(c echo.Context) error
	Delete(c echo.Context) error
	Restore(c echo.Context) error
}

// routes registers protected API routes and records their access in policy.
type routes struct {
	group  *echo.Group
	prefix string
	policy middleware.Policy
	chain  []echo.MiddlewareFunc
}

func (r routes) add(method, path string, access middleware.Access, h echo.HandlerFunc) {
	r.policy[middleware.RouteKey(method, r.prefix+path)] = access
	r.group.Add(method, path, h, r.chain...)
}

func (r routes) entity(path string, h entityHandler) {
	read := middleware.Access{Role: domain.RoleStaff, ArchivedRole: domain.RoleAdmin}
	write := middleware.Access{Role: domain.RoleStaff}
	admin := middleware.Access{Role: domain.RoleAdmin}

	r.add(http.MethodGet, path, read, h.List)
	r.add(http.MethodPost, path, write, h.Create)
	r.add(http.MethodGet, path+"/:id", read, h.Get)
	r.add(http.MethodPut, path+"/:id", write, h.Update)
	r.add(http.MethodDelete, path+"/:id", admin, h.Delete)
	r.add(http.MethodPost, path+"/:id/restore", admin, h.Restore)
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	cfg := d.Config

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: func() string { return ulid.Make().String() },
	}))
	e.Use(middleware.RequestLogger(d.Logger))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.CORSAllowOrigins(),
		AllowCredentials: true,
		ExposeHeaders: []string{
			handler.HeaderTotalCount,
			handler.HeaderPage,
			handler.HeaderPageSize,
			handler.HeaderTotalPages,
		},
	}))
	if d.Registerer != nil {
		e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
			Namespace:  metrics.Namespace,
			Subsystem:  "http",
			Registerer: d.Registerer,
			Skipper: func(c echo.Context) bool {
				return c.Path() == "/metrics"
			},
		}))
		e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: d.Gatherer}))
	}

	// --- Health probes (no auth required) ---
	e.GET("/health", handler.NewHealthHandler().Liveness)
	e.GET("/health/ready", handler.NewReadinessHandler(d.Logger, d.Readiness...).Readiness)

	if cfg.SwaggerEnabled {
		e.GET("/swagger/*", echoSwagger.WrapHandler)
	}

	// --- Auth routes ---
	api := e.Group(cfg.APIPrefix)
	authHandler := handler.NewAuthHandler(d.Auth)

	var loginMW []echo.MiddlewareFunc
	if cfg.LoginRatePerMinute > 0 {
		loginMW = append(loginMW, loginLimiter(cfg.LoginRatePerMinute))
	}
	api.POST("/auth/login", authHandler.Login, loginMW...)
	api.POST("/auth/logout", authHandler.Logout)

	// --- Protected routes ---
	policy := middleware.Policy{}
	r := routes{
		group:  api,
		prefix: cfg.APIPrefix,
		policy: policy,
		chain:  []echo.MiddlewareFunc{middleware.Auth(d.Auth), middleware.Authorize(policy)},
	}

	r.add(http.MethodGet, "/auth/me", middleware.Access{Role: domain.RoleStaff}, authHandler.Me)
	r.entity("/clients", handler.NewClientHandler(d.Clients))
	r.entity("/leads", handler.NewLeadHandler(d.Leads))
	r.entity("/invoices", handler.NewInvoiceHandler(d.Invoices))
	r.add(http.MethodGet, "/audit-logs", middleware.Access{Role: domain.RoleAdmin}, handler.NewAuditHandler(d.Audit).List)

	return e
}

// loginLimiter throttles login attempts per client IP.
func loginLimiter(perMinute float64) echo.MiddlewareFunc {
	burst := int(perMinute)
	if burst < 1 {
		burst = 1
	}
	store := echomiddleware.NewRateLimiterMemoryStoreWithConfig(echomiddleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(perMinute / 60),
		Burst:     burst,
		ExpiresIn: 3 * time.Minute,
	})
	return echomiddleware.RateLimiterWithConfig(echomiddleware.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		DenyHandler: func(c echo.Context, _ string, _ error) error {
			return echo.NewHTTPError(http.StatusTooManyRequests, "Too many login attempts. Try again later.")
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusForbidden, "Unable to identify client.").SetInternal(err)
		},
	})
}
