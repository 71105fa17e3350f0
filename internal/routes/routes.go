package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/RoberSamy04/natours/internal/handlers"
	"github.com/RoberSamy04/natours/internal/middleware"
	"github.com/RoberSamy04/natours/internal/repositories"
	"github.com/RoberSamy04/natours/pkg/apperrors"
)

// RegisterRoutes регистрирует все HTTP маршруты: JSON API под /api/v1
// и server-rendered страницы в корне.
func RegisterRoutes(
	ginRouter *gin.Engine,
	appHandlers *handlers.AppHandlers,
	userRepo repositories.UserRepository,
) {
	protect := middleware.Protect(userRepo)
	isLoggedIn := middleware.IsLoggedIn(userRepo)

	api := ginRouter.Group("/api/v1")
	api.Use(middleware.APIRateLimiter())
	{
		appHandlers.AuthHandler.RegisterRoutes(api, protect, middleware.LoginRateLimiter())
		appHandlers.UserHandler.RegisterRoutes(api, protect)
		appHandlers.TourHandler.RegisterRoutes(api, protect, appHandlers.ReviewHandler, appHandlers.BookingHandler)
		appHandlers.ReviewHandler.RegisterRoutes(api, protect)
		appHandlers.BookingHandler.RegisterRoutes(api, protect)
	}

	appHandlers.ViewHandler.RegisterRoutes(ginRouter, isLoggedIn, protect)

	ginRouter.NoRoute(apperrors.NotFoundHandler)
}
