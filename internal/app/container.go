package app

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yennietran/AIDD-Final-Project/internal/api"
	"github.com/yennietran/AIDD-Final-Project/internal/auth"
	"github.com/yennietran/AIDD-Final-Project/internal/booking"
	"github.com/yennietran/AIDD-Final-Project/internal/catalog"
	"github.com/yennietran/AIDD-Final-Project/internal/notification"
	"github.com/yennietran/AIDD-Final-Project/internal/resource"
	"github.com/yennietran/AIDD-Final-Project/internal/review"
	"github.com/yennietran/AIDD-Final-Project/internal/user"
	"github.com/yennietran/AIDD-Final-Project/internal/waitlist"
)

// Config holds the dependencies and settings required to start the application.
type Config struct {
	IsProduction   bool
	ProdOrigins    string
	MetricsEnabled bool
	DBPool         *pgxpool.Pool
	JWTSecret      string
	JWTTTL         time.Duration
	BcryptCost     int
	AMQPURL        string
	BookingBuffer  time.Duration
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router     *gin.Engine
	JWTManager *auth.JWTManager

	publisher notification.Publisher
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg Config) *Container {
	// Init Components
	passwordHasher := auth.NewBcryptPasswordHasherWithCost(cfg.BcryptCost)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)

	// Notification publisher: AMQP when a broker is configured, otherwise
	// events go to the process log.
	var publisher notification.Publisher
	if cfg.AMQPURL != "" {
		p, err := notification.NewAMQPPublisher(cfg.AMQPURL)
		if err != nil {
			log.Printf("amqp unavailable, falling back to log publisher: %v", err)
			publisher = notification.NewLogPublisher()
		} else {
			publisher = p
		}
	} else {
		publisher = notification.NewLogPublisher()
	}

	// User Module
	userRepo := user.NewPgxRepository(cfg.DBPool)
	userService := user.NewService(userRepo, passwordHasher)

	// Resource Module
	resRepo := resource.NewPgxRepository(cfg.DBPool)
	resService := resource.NewService(resRepo)

	// Booking Module
	bookingRepo := booking.NewPgxRepository(cfg.DBPool)
	bookingService := booking.NewService(bookingRepo, resService, publisher, cfg.BookingBuffer)

	// Waitlist Module (also serves as the booking engine's slot-freed hook)
	waitlistRepo := waitlist.NewPgxRepository(cfg.DBPool)
	waitlistService := waitlist.NewService(waitlistRepo, bookingService, bookingRepo, resService, publisher)
	bookingService.SetSlotFreedHook(waitlistService)

	// Review Module
	reviewRepo := review.NewPgxRepository(cfg.DBPool)
	reviewService := review.NewService(reviewRepo, bookingRepo)

	// Catalog Module
	catalogService := catalog.NewService(resService, bookingRepo, bookingRepo, reviewService)

	// Router
	router := api.NewRouter(api.Config{
		IsProduction:    cfg.IsProduction,
		ProdOrigins:     cfg.ProdOrigins,
		MetricsEnabled:  cfg.MetricsEnabled,
		UserService:     userService,
		ResourceService: resService,
		CatalogService:  catalogService,
		BookingService:  bookingService,
		WaitlistService: waitlistService,
		ReviewService:   reviewService,
		JWTManager:      jwtManager,
	})

	return &Container{
		Router:     router,
		JWTManager: jwtManager,
		publisher:  publisher,
	}
}

// Close releases long-lived collaborators owned by the container.
func (c *Container) Close() {
	if err := c.publisher.Close(); err != nil {
		log.Printf("closing notification publisher: %v", err)
	}
}
