package app

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/nekogravitycat/barber-booking-backend/internal/api"
	"github.com/nekogravitycat/barber-booking-backend/internal/auth"
	"github.com/nekogravitycat/barber-booking-backend/internal/availability"
	"github.com/nekogravitycat/barber-booking-backend/internal/ban"
	"github.com/nekogravitycat/barber-booking-backend/internal/booking"
	"github.com/nekogravitycat/barber-booking-backend/internal/metrics"
	"github.com/nekogravitycat/barber-booking-backend/internal/offering"
	"github.com/nekogravitycat/barber-booking-backend/internal/organization"
	"github.com/nekogravitycat/barber-booking-backend/internal/pkg/ratelimit"
	"github.com/nekogravitycat/barber-booking-backend/internal/schedule"
)

// Config holds the dependencies and settings required to start the application.
type Config struct {
	IsProduction    bool
	ProdOrigins     string
	Logger          zerolog.Logger
	DBPool          *pgxpool.Pool
	JWTSecret       string
	JWTTTL          time.Duration
	DefaultTimezone string
	// Redis is optional. Without it the public rate limit is per process.
	Redis            *redis.Client
	PublicRateLimit  int
	PublicRateWindow time.Duration
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router     *gin.Engine
	JWTManager *auth.JWTManager
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg Config) (*Container, error) {
	defaultLoc, err := time.LoadLocation(cfg.DefaultTimezone)
	if err != nil {
		return nil, fmt.Errorf("load default timezone: %w", err)
	}

	metrics.Register()

	// Init Components
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)

	// Organization Module
	orgRepo := organization.NewPgxRepository(cfg.DBPool)
	orgService := organization.NewService(orgRepo)

	// Offering Module
	offeringRepo := offering.NewPgxRepository(cfg.DBPool)
	offeringService := offering.NewService(offeringRepo, orgService)

	// Schedule Module
	scheduleRepo := schedule.NewPgxRepository(cfg.DBPool)
	scheduleService := schedule.NewService(scheduleRepo, orgService)

	// Ban Module
	banRepo := ban.NewPgxRepository(cfg.DBPool)
	banService := ban.NewService(banRepo)

	// Availability Module
	availabilityRepo := availability.NewPgxRepository(cfg.DBPool)
	availabilityService := availability.NewService(availabilityRepo, defaultLoc)

	// Booking Module
	bookingRepo := booking.NewPgxRepository(cfg.DBPool)
	bookingService := booking.NewService(bookingRepo, availabilityRepo, availabilityService, banService, orgService)

	// Public rate limit: Redis when configured, in-process buckets otherwise
	// and as fallback during Redis outages.
	local := ratelimit.NewLocalLimiter(cfg.PublicRateLimit, cfg.PublicRateWindow)
	var primary ratelimit.Limiter = local
	if cfg.Redis != nil {
		primary = ratelimit.NewRedisLimiter(cfg.Redis, cfg.PublicRateLimit, cfg.PublicRateWindow)
	}

	// API Router Config
	routerParams := api.Config{
		IsProduction:        cfg.IsProduction,
		ProdOrigins:         cfg.ProdOrigins,
		Logger:              cfg.Logger,
		DBPool:              cfg.DBPool,
		AvailabilityService: availabilityService,
		BookingService:      bookingService,
		BanService:          banService,
		OrgService:          orgService,
		OfferingService:     offeringService,
		ScheduleService:     scheduleService,
		JWTManager:          jwtManager,
		PublicRateLimit:     ratelimit.Middleware(primary, local),
	}

	// Router
	router, err := api.NewRouter(routerParams)
	if err != nil {
		return nil, err
	}

	return &Container{
		Router:     router,
		JWTManager: jwtManager,
	}, nil
}
