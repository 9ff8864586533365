package api

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yennietran/AIDD-Final-Project/internal/auth"
	"github.com/yennietran/AIDD-Final-Project/internal/booking"
	bookingHttp "github.com/yennietran/AIDD-Final-Project/internal/booking/http"
	"github.com/yennietran/AIDD-Final-Project/internal/catalog"
	"github.com/yennietran/AIDD-Final-Project/internal/metrics"
	"github.com/yennietran/AIDD-Final-Project/internal/resource"
	resourceHttp "github.com/yennietran/AIDD-Final-Project/internal/resource/http"
	"github.com/yennietran/AIDD-Final-Project/internal/review"
	reviewHttp "github.com/yennietran/AIDD-Final-Project/internal/review/http"
	"github.com/yennietran/AIDD-Final-Project/internal/user"
	userHttp "github.com/yennietran/AIDD-Final-Project/internal/user/http"
	"github.com/yennietran/AIDD-Final-Project/internal/waitlist"
	waitlistHttp "github.com/yennietran/AIDD-Final-Project/internal/waitlist/http"
)

// Config holds everything the router needs to assemble the HTTP surface.
type Config struct {
	IsProduction bool
	ProdOrigins  string

	MetricsEnabled bool

	UserService     user.Service
	ResourceService resource.Service
	CatalogService  catalog.Service
	BookingService  booking.Service
	WaitlistService waitlist.Service
	ReviewService   review.Service

	JWTManager *auth.JWTManager
}

// NewRouter initializes the HTTP router engine.
// It is responsible for assembling middleware (CORS, Logger, Auth, Metrics)
// and registering routes for the modules.
func NewRouter(cfg Config) *gin.Engine {
	r := gin.New()

	// Global Middleware:
	// - Logger: Logs request information to the console.
	// - Recovery: Captures panics to prevent server crashes and returns a 500 error.
	r.Use(gin.Logger(), gin.Recovery())

	if cfg.MetricsEnabled {
		r.Use(metrics.GinMiddleware())
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	// Configure CORS (Cross-Origin Resource Sharing).
	corsConfig := cors.DefaultConfig()
	if cfg.IsProduction && cfg.ProdOrigins != "" {
		corsConfig.AllowOrigins = strings.Split(cfg.ProdOrigins, ",")
	} else {
		corsConfig.AllowOrigins = []string{
			"http://localhost:3000",
			"http://localhost:8081", // Swagger
		}
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	r.Use(cors.New(corsConfig))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// authMiddleware: Validates if the request contains a valid JWT.
	authMiddleware := auth.AuthRequired(cfg.JWTManager)

	// Initialize HTTP Handlers for each module (injecting Service dependencies).
	userHandler := userHttp.NewHandler(cfg.UserService, cfg.JWTManager)
	resourceHandler := resourceHttp.NewHandler(cfg.ResourceService, cfg.CatalogService, cfg.BookingService)
	bookingHandler := bookingHttp.NewHandler(cfg.BookingService, cfg.ResourceService)
	waitlistHandler := waitlistHttp.NewHandler(cfg.WaitlistService)
	reviewHandler := reviewHttp.NewHandler(cfg.ReviewService)

	// Register API routes under /v1
	v1 := r.Group("/v1")
	{
		userHttp.RegisterRoutes(v1, userHandler, authMiddleware)
		resourceHttp.RegisterRoutes(v1, resourceHandler, authMiddleware)
		bookingHttp.RegisterRoutes(v1, bookingHandler, authMiddleware)
		waitlistHttp.RegisterRoutes(v1, waitlistHandler, authMiddleware)
		reviewHttp.RegisterRoutes(v1, reviewHandler, authMiddleware)
	}

	return r
}
