package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"nexticket/internal/cache"
	"nexticket/internal/config"
	"nexticket/internal/database"
	"nexticket/internal/external"
	"nexticket/internal/handlers"
	"nexticket/internal/logger"
	"nexticket/internal/messaging"
	"nexticket/internal/metrics"
	"nexticket/internal/middleware"
	"nexticket/internal/repository"
	"nexticket/internal/search"
	"nexticket/internal/service"
)

type Server struct {
	router   *gin.Engine
	config   *config.Config
	db       *database.DB
	nats     *messaging.NATSClient
	valkey   *cache.ValkeyClient
	services *service.Services
}

func NewServer(cfg *config.Config) *Server {
	gin.SetMode(cfg.GinMode)

	db, err := database.Connect(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	if err := db.RunMigrations(); err != nil {
		logger.Fatal("Failed to run migrations", "error", err)
	}

	natsClient, err := messaging.NewNATSClient(cfg.NATS)
	if err != nil {
		logger.Fatal("Failed to connect to NATS", "error", err)
	}

	esClient, err := search.NewElasticsearchClient(cfg.Elasticsearch)
	if err != nil {
		logger.Fatal("Failed to connect to Elasticsearch", "error", err)
	}

	// Cache is an optimization; run without it if Valkey is down.
	valkeyClient, err := cache.NewValkeyClient(cfg.Valkey)
	if err != nil {
		logger.Get().Warn("Valkey unavailable, caching disabled", "error", err)
		valkeyClient = nil
	}

	stripeClient := external.NewStripeClient(cfg.Stripe)

	repos := repository.NewRepositories(db)

	deps := service.Deps{
		Users:        repos.Users,
		Tickets:      repos.Tickets,
		Bookings:     repos.Bookings,
		Transactions: repos.Transactions,
		Stats:        repos.Stats,
		Index:        esClient,
		Payments:     stripeClient,
		Publisher:    natsClient,
	}
	if valkeyClient != nil {
		deps.Cache = valkeyClient
	}

	services := service.NewServices(deps)

	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS())
	router.Use(middleware.Logger())
	router.Use(metrics.Middleware())

	server := &Server{
		router:   router,
		config:   cfg,
		db:       db,
		nats:     natsClient,
		valkey:   valkeyClient,
		services: services,
	}

	server.setupRoutes()

	return server
}

func (s *Server) setupRoutes() {
	h := handlers.NewHandlers(s.services)

	api := s.router.Group("/api")
	api.Use(middleware.Identity(s.config.JWTSecret))
	api.Use(middleware.Timeout(s.config.RequestTimeout))
	{
		users := api.Group("/users")
		{
			users.POST("", h.SaveUser)
			users.GET("", h.ListUsers)
			users.GET("/:email", h.GetUser)
			users.PATCH("/:email/role", h.UpdateUserRole)
			users.PATCH("/:email/fraud", h.MarkUserFraud)
		}

		tickets := api.Group("/tickets")
		{
			tickets.GET("", h.SearchTickets)
			tickets.GET("/advertised", h.AdvertisedTickets)
			tickets.GET("/pending", h.PendingTickets)
			tickets.GET("/latest", h.LatestTickets)
			tickets.GET("/vendor/:email", h.VendorTickets)
			tickets.GET("/:id", h.GetTicket)
			tickets.POST("", h.CreateTicket)
			tickets.PATCH("/:id", h.UpdateTicket)
			tickets.PATCH("/:id/verify", h.VerifyTicket)
			tickets.PATCH("/:id/advertise", h.AdvertiseTicket)
			tickets.DELETE("/:id", h.DeleteTicket)
		}

		bookings := api.Group("/bookings")
		{
			bookings.POST("", h.CreateBooking)
			bookings.GET("/user/:email", h.UserBookings)
			bookings.GET("/vendor/:email", h.VendorBookings)
			bookings.PATCH("/:id/accept", h.AcceptBooking)
			bookings.PATCH("/:id/reject", h.RejectBooking)
			bookings.PATCH("/:id/pay", h.PayBooking)
		}

		api.POST("/create-payment-intent", h.CreatePaymentIntent)
		api.GET("/transactions/user/:email", h.UserTransactions)

		stats := api.Group("/stats")
		{
			stats.GET("/vendor/:email", h.VendorStats)
			stats.GET("/admin", h.AdminStats)
		}
	}

	s.router.GET("/health", s.healthCheck)
	s.router.GET("/metrics", metrics.Handler())
}

func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "nexticket-api",
	})
}

func (s *Server) Run() error {
	addr := fmt.Sprintf(":%s", s.config.Port)
	return s.router.Run(addr)
}

// GetRouter returns the router for testing and for the http.Server wrapper.
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}

func (s *Server) Cleanup() error {
	if s.nats != nil {
		if err := s.nats.Close(); err != nil {
			logger.Get().Error("Error closing NATS connection", "error", err)
		}
	}

	if s.valkey != nil {
		if err := s.valkey.Close(); err != nil {
			logger.Get().Error("Error closing Valkey connection", "error", err)
		}
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			logger.Get().Error("Error closing database connection", "error", err)
			return err
		}
	}

	return nil
}
