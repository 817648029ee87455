package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/nekogravitycat/barber-booking-backend/internal/auth"
	"github.com/nekogravitycat/barber-booking-backend/internal/availability"
	availabilityHttp "github.com/nekogravitycat/barber-booking-backend/internal/availability/http"
	"github.com/nekogravitycat/barber-booking-backend/internal/ban"
	banHttp "github.com/nekogravitycat/barber-booking-backend/internal/ban/http"
	"github.com/nekogravitycat/barber-booking-backend/internal/booking"
	bookingHttp "github.com/nekogravitycat/barber-booking-backend/internal/booking/http"
	"github.com/nekogravitycat/barber-booking-backend/internal/logger"
	"github.com/nekogravitycat/barber-booking-backend/internal/offering"
	offeringHttp "github.com/nekogravitycat/barber-booking-backend/internal/offering/http"
	"github.com/nekogravitycat/barber-booking-backend/internal/organization"
	orgHttp "github.com/nekogravitycat/barber-booking-backend/internal/organization/http"
	"github.com/nekogravitycat/barber-booking-backend/internal/pkg/request"
	"github.com/nekogravitycat/barber-booking-backend/internal/schedule"
	scheduleHttp "github.com/nekogravitycat/barber-booking-backend/internal/schedule/http"
)

// Config holds the dependencies required to build the router.
type Config struct {
	IsProduction bool
	ProdOrigins  string
	Logger       zerolog.Logger
	// DBPool backs the readiness probe. Nil skips the database ping.
	DBPool *pgxpool.Pool

	AvailabilityService availability.Service
	BookingService      booking.Service
	BanService          ban.Service
	OrgService          organization.Service
	OfferingService     offering.Service
	ScheduleService     schedule.Service
	JWTManager          *auth.JWTManager
	// PublicRateLimit guards the unauthenticated customer routes.
	PublicRateLimit gin.HandlerFunc
}

// NewRouter initializes the HTTP router engine.
// It is responsible for assembling middleware (CORS, Logger, Auth) and registering routes for various modules.
func NewRouter(cfg Config) (*gin.Engine, error) {
	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := request.RegisterValidators(); err != nil {
		return nil, err
	}

	r := gin.New()

	// Global Middleware:
	// - Logger: attaches the request logger and writes one access line per request.
	// - Recovery: Captures panics to prevent server crashes and returns a 500 error.
	r.Use(logger.Middleware(cfg.Logger), gin.Recovery())

	// Configure CORS (Cross-Origin Resource Sharing).
	origins := allowedOrigins(cfg.IsProduction, cfg.ProdOrigins)
	if len(origins) == 0 {
		return nil, errors.New("PROD_ORIGINS is required in production")
	}
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = origins
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", logger.RequestIDHeader}
	corsConfig.ExposeHeaders = []string{logger.RequestIDHeader}
	r.Use(cors.New(corsConfig))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/readyz", func(c *gin.Context) {
		if cfg.DBPool != nil {
			if err := cfg.DBPool.Ping(c.Request.Context()); err != nil {
				zerolog.Ctx(c.Request.Context()).Warn().Err(err).Msg("readiness check failed")
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Initialize HTTP Handlers for each module (injecting Service dependencies).
	availabilityHandler := availabilityHttp.NewHandler(cfg.AvailabilityService)
	bookingHandler := bookingHttp.NewHandler(cfg.BookingService)
	banHandler := banHttp.NewHandler(cfg.BanService)
	orgHandler := orgHttp.NewOrganizationHandler(cfg.OrgService)
	offeringHandler := offeringHttp.NewHandler(cfg.OfferingService)
	scheduleHandler := scheduleHttp.NewHandler(cfg.ScheduleService)

	v1 := r.Group("/v1")

	// Customer-facing routes, no authentication.
	public := v1.Group("/public")
	if cfg.PublicRateLimit != nil {
		public.Use(cfg.PublicRateLimit)
	}
	{
		orgHttp.RegisterPublicRoutes(public, orgHandler)

		shop := public.Group("/organizations/:org_id")
		availabilityHttp.RegisterPublicRoutes(shop, availabilityHandler)
		bookingHttp.RegisterPublicRoutes(shop, bookingHandler)
		offeringHttp.RegisterPublicRoutes(shop, offeringHandler)
	}

	// Staff dashboard, scoped to the organization in the token.
	dashboard := v1.Group("/dashboard", auth.AuthRequired(cfg.JWTManager))
	{
		orgHttp.RegisterRoutes(dashboard, orgHandler)
		bookingHttp.RegisterRoutes(dashboard, bookingHandler)
		banHttp.RegisterRoutes(dashboard, banHandler)
		offeringHttp.RegisterRoutes(dashboard, offeringHandler)
		scheduleHttp.RegisterRoutes(dashboard, scheduleHandler)
	}

	return r, nil
}

func allowedOrigins(production bool, prodOrigins string) []string {
	if !production {
		return []string{"http://localhost:3000", "http://localhost:8081"}
	}

	var origins []string
	for _, o := range strings.Split(prodOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
