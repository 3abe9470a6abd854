package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"trip_planner_app/internal/handlers"
	apiMiddleware "trip_planner_app/internal/middleware"
	"trip_planner_app/internal/models"
	"trip_planner_app/internal/repository"
	"trip_planner_app/internal/services"
	"trip_planner_app/internal/trips"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize Database
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL not set")
	}
	db, err := services.InitDB(databaseURL, os.Getenv("DB_DEBUG") == "true")
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := services.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run database migrations: %v", err)
	}

	// Places cache: Redis when configured, in-process otherwise
	var placesCache services.Cache = services.NewMemoryCache()
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		redisCache, err := services.NewRedisCache(redisURL)
		if err != nil {
			log.Printf("Warning: Redis unavailable, using in-memory places cache: %v", err)
		} else {
			defer redisCache.Close()
			placesCache = redisCache
		}
	}

	// Initialize Firebase
	var verifier apiMiddleware.TokenVerifier
	var issuer handlers.SessionIssuer
	authClient, err := services.InitFirebase(ctx, os.Getenv("FIREBASE_CREDENTIALS_PATH"))
	if err != nil {
		log.Printf("Warning: Firebase initialization failed: %v", err)
		log.Println("Auth features will not work until valid credentials are provided")
	} else {
		verifier = authClient
		issuer = authClient
	}

	// Trip events
	var events trips.EventPublisher = services.NoopPublisher{}
	if natsURL := os.Getenv("NATS_URL"); natsURL != "" {
		publisher, err := services.ConnectNats(natsURL)
		if err != nil {
			log.Printf("Warning: NATS unavailable, trip events disabled: %v", err)
		} else {
			defer publisher.Close()
			events = publisher
		}
	}

	// Planner
	var generator services.TextGenerator
	gemini, err := services.NewGeminiGenerator(ctx, os.Getenv("GEMINI_API_KEY"), os.Getenv("GEMINI_MODEL"))
	if err != nil {
		log.Printf("Warning: trip generation disabled: %v", err)
	} else {
		defer gemini.Close()
		generator = gemini
	}

	// Places
	var searcher services.NearbySearcher
	mapsClient, err := services.NewGooglePlacesClient(os.Getenv("GOOGLE_PLACES_API_KEY"))
	if err != nil {
		log.Printf("Warning: places lookup disabled: %v", err)
	} else {
		searcher = mapsClient
	}

	resolveUser := func(ctx context.Context, id apiMiddleware.Identity) (*models.User, error) {
		return services.EnsureUser(ctx, db, id.UID, id.Email, id.Name, id.Phone)
	}

	tripService := trips.NewService(repository.NewTripRepository(db), events)

	authHandler := handlers.NewAuthHandler(issuer, resolveUser)
	tripHandler := handlers.NewTripHandler(tripService)
	plannerHandler := handlers.NewPlannerHandler(services.NewPlannerService(generator))
	placesHandler := handlers.NewPlacesHandler(services.NewPlacesService(searcher, placesCache, placesCacheTTL()))
	healthHandler := handlers.NewHealthHandler(db)
	preferenceHandler := handlers.NewUserPreferenceHandler(db)
	userHandler := handlers.NewUserHandler(db)

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = apiMiddleware.CustomErrorHandler

	// Middleware
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: func() string { return uuid.NewString() },
	}))
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{clientURL()},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
	}))

	requireAuth := apiMiddleware.RequireAuth(verifier, resolveUser)

	e.GET("/healthz", healthHandler.Healthz)

	// Auth routes
	e.POST("/auth/login", authHandler.HandleLogin)
	e.POST("/auth/logout", authHandler.HandleLogout)
	e.GET("/auth/user", authHandler.CurrentUser, requireAuth)
	e.PUT("/auth/user", userHandler.UpdateProfile, requireAuth)
	e.GET("/auth/user/preference", preferenceHandler.GetPreference, requireAuth)
	e.PUT("/auth/user/preference", preferenceHandler.UpdatePreference, requireAuth)

	// Trip routes
	api := e.Group("/api")
	api.POST("/trip", plannerHandler.GenerateTrip)
	api.GET("/places/nearby", placesHandler.Nearby)

	tripBodyLimit := middleware.BodyLimit(handlers.MaxTripBody)
	api.POST("/trip/save", tripHandler.SaveTrip, requireAuth, tripBodyLimit)
	api.GET("/trip/user/trips", tripHandler.ListMyTrips, requireAuth)
	api.GET("/trip/:tripId", tripHandler.GetTrip, requireAuth)
	api.PUT("/trip/:tripId", tripHandler.UpdateTrip, requireAuth, tripBodyLimit)
	api.POST("/trip/:tripId/join", tripHandler.JoinTrip, requireAuth)
	api.GET("/trip/:tripId/members", tripHandler.ListMembers, requireAuth)

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	go func() {
		log.Printf("Server starting on port %s", port)
		if err := e.Start(":" + port); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server stopped: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown failed: %v", err)
	}
}

func clientURL() string {
	if url := os.Getenv("CLIENT_URL"); url != "" {
		return url
	}
	return "http://localhost:5173"
}

func placesCacheTTL() time.Duration {
	ttl := 10 * time.Minute
	if raw := os.Getenv("PLACES_CACHE_TTL"); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil || parsed <= 0 {
			log.Printf("Warning: invalid PLACES_CACHE_TTL %q, using %s", raw, ttl)
		} else {
			ttl = parsed
		}
	}
	return ttl
}
