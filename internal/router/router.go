package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"bruinplace/internal/config"
	"bruinplace/internal/handler"
	"bruinplace/internal/service"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	authService service.AuthService,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	propertyHandler *handler.PropertyHandler,
	listingHandler *handler.ListingHandler,
	reviewHandler *handler.ReviewHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api/v1")

	// Public routes
	api.GET("/auth/login", authHandler.Login)
	api.GET("/auth/callback", authHandler.Callback)

	api.GET("/properties", propertyHandler.Search)
	api.GET("/properties/:id", propertyHandler.Get)
	api.GET("/properties/:id/listings", propertyHandler.ListListings)
	api.GET("/properties/:id/reviews", propertyHandler.ListReviews)

	api.GET("/listings", listingHandler.Search)
	api.GET("/listings/amenities", listingHandler.ListAmenities)
	api.GET("/listings/:id", listingHandler.Get)

	api.GET("/reviews/:id", reviewHandler.Get)

	// Secured routes (require a valid, unrevoked session token)
	secured := api.Group("", handler.SessionMiddleware(authService))

	secured.GET("/auth/me", authHandler.Me)
	secured.POST("/auth/logout", authHandler.Logout)

	secured.PATCH("/me", userHandler.UpdateProfile)
	secured.GET("/me/saved", userHandler.ListSaved)

	secured.POST("/listings", listingHandler.Create)
	secured.PATCH("/listings/:id", listingHandler.Update)
	secured.DELETE("/listings/:id", listingHandler.Delete)
	secured.PUT("/listings/:id/save", listingHandler.Save)
	secured.DELETE("/listings/:id/save", listingHandler.Unsave)

	secured.POST("/properties/:id/reviews", reviewHandler.Create)

	// Property mutations only require a session when the owner check is on;
	// the compatibility default accepts them unauthenticated.
	propertyMutations := api
	if cfg.PropertyOwnerCheck {
		propertyMutations = secured
	}
	propertyMutations.POST("/properties", propertyHandler.Create)
	propertyMutations.PATCH("/properties/:id", propertyHandler.Update)
	propertyMutations.DELETE("/properties/:id", propertyHandler.Delete)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
