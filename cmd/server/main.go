package main

import (
	"log"
	"log/slog"
	"net/http"
	"os"

	_ "bruinplace/docs" // swagger docs

	"github.com/labstack/echo/v4"

	"bruinplace/internal/auth"
	"bruinplace/internal/cache"
	"bruinplace/internal/config"
	"bruinplace/internal/db"
	"bruinplace/internal/handler"
	"bruinplace/internal/model"
	"bruinplace/internal/repository"
	"bruinplace/internal/router"
	"bruinplace/internal/service"
)

// @title BruinPlace API
// @version 1.0
// @description Housing platform API with property search, listings, reviews, and Google sign-in.
// @host localhost:8080
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the session token.
func main() {
	cfg := config.Load()

	e := echo.New()
	e.HideBanner = true

	gormDB, err := db.NewPostgres(cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	// Drop tables if RESET_DB environment variable is set
	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, dropping all tables...")
		tables := []interface{}{
			&model.SavedListing{},
			&model.ListingAmenity{},
			&model.Review{},
			&model.Listing{},
			&model.Amenity{},
			&model.Property{},
			&model.User{},
		}
		for _, table := range tables {
			if err := gormDB.Migrator().DropTable(table); err != nil {
				log.Printf("Warning: Failed to drop table (may not exist): %v", err)
			}
		}
		log.Println("Tables dropped")
	}

	// Run migrations for all models
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Property{},
		&model.Amenity{},
		&model.Listing{},
		&model.ListingAmenity{},
		&model.SavedListing{},
		&model.Review{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	propertyRepo := repository.NewPropertyRepository(gormDB)
	listingRepo := repository.NewListingRepository(gormDB)
	amenityRepo := repository.NewAmenityRepository(gormDB)
	reviewRepo := repository.NewReviewRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.JWTLifetime)
	tokenStore := auth.NewTokenStore(cacheClient)
	googleProvider := auth.NewGoogleProvider(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURI)

	// Initialize services
	authService := service.NewAuthService(userRepo, googleProvider, jwtService, tokenStore, cfg.AllowedEmailDomains)
	userService := service.NewUserService(userRepo)
	listingService := service.NewListingService(listingRepo, propertyRepo, amenityRepo)
	propertyService := service.NewPropertyService(propertyRepo, reviewRepo, listingService, cacheClient, cfg.PropertyOwnerCheck)
	reviewService := service.NewReviewService(reviewRepo, propertyRepo, cacheClient)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService, cfg.IsProduction(), cfg.JWTLifetime)
	userHandler := handler.NewUserHandler(userService, listingService)
	propertyHandler := handler.NewPropertyHandler(propertyService)
	listingHandler := handler.NewListingHandler(listingService)
	reviewHandler := handler.NewReviewHandler(reviewService)

	// Register routes
	router.Register(
		e,
		cfg,
		authService,
		authHandler,
		userHandler,
		propertyHandler,
		listingHandler,
		reviewHandler,
	)

	slog.Info("starting server",
		"port", cfg.ServerPort,
		"environment", cfg.Environment,
		"property_owner_check", cfg.PropertyOwnerCheck,
	)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
