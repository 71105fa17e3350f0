package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/RoberSamy04/natours/internal/middleware"
	"github.com/RoberSamy04/natours/internal/models"
)

// RegisterRoutes регистрирует маршруты аутентификации и пользователей
// под /api/v1/users
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup, protect, loginLimiter gin.HandlerFunc) {
	users := rg.Group("/users")
	{
		users.POST("/signup", h.Signup)
		users.POST("/verify-email", h.VerifyEmail)
		users.POST("/login", loginLimiter, h.Login)
		users.GET("/logout", h.Logout)
		users.POST("/forgotPassword", h.ForgotPassword)
		users.PATCH("/resetPassword/:token", h.ResetPassword)

		users.PATCH("/updateMyPassword", protect, h.UpdatePassword)
	}
}

// RegisterRoutes регистрирует профильные и админские маршруты
// под /api/v1/users. Все требуют аутентификации.
func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup, protect gin.HandlerFunc) {
	users := rg.Group("/users")
	users.Use(protect)
	{
		users.GET("/me", h.GetMe)
		users.PATCH("/updateMe", h.UpdateMe)
		users.DELETE("/deleteMe", h.DeleteMe)
	}

	admin := users.Group("")
	admin.Use(middleware.RestrictTo(models.UserRoleAdmin))
	{
		admin.GET("", h.GetAll)
		admin.POST("", h.CreateOne)
		admin.GET("/:id", h.GetOne)
		admin.PATCH("/:id", h.UpdateOne)
		admin.DELETE("/:id", h.DeleteOne)
	}
}

// RegisterRoutes регистрирует маршруты туров под /api/v1/tours,
// включая вложенные отзывы и бронирования тура
func (h *TourHandler) RegisterRoutes(rg *gin.RouterGroup, protect gin.HandlerFunc, reviews *ReviewHandler, bookings *BookingHandler) {
	tours := rg.Group("/tours")
	{
		tours.GET("/top-5-cheap", h.AliasTopTours)
		tours.GET("/tour-stats", h.GetStats)
		tours.GET("/monthly-plan/:year", protect,
			middleware.RestrictTo(models.UserRoleAdmin, models.UserRoleLeadGuide, models.UserRoleGuide),
			h.GetMonthlyPlan)

		tours.GET("/tours-within/:distance/center/:latlng/unit/:unit", h.GetToursWithin)
		tours.GET("/distances/:latlng/unit/:unit", h.GetDistances)

		tours.GET("", h.GetAll)
		tours.POST("", protect,
			middleware.RestrictTo(models.UserRoleAdmin, models.UserRoleLeadGuide),
			h.CreateOne)

		tours.GET("/:id", h.GetOne)
		tours.PATCH("/:id", protect,
			middleware.RestrictTo(models.UserRoleAdmin, models.UserRoleLeadGuide),
			h.UpdateOne)
		tours.PATCH("/:id/images", protect,
			middleware.RestrictTo(models.UserRoleAdmin, models.UserRoleLeadGuide),
			h.UploadImages)
		tours.DELETE("/:id", protect,
			middleware.RestrictTo(models.UserRoleAdmin, models.UserRoleLeadGuide),
			h.DeleteOne)

		// Вложенный ресурс: отзывы конкретного тура
		nested := tours.Group("/:id/reviews")
		nested.Use(protect)
		{
			nested.GET("", reviews.GetAll)
			nested.POST("", middleware.RestrictTo(models.UserRoleUser), reviews.CreateOne)
		}

		// Вложенный ресурс: бронирования конкретного тура
		tourBookings := tours.Group("/:id/bookings")
		tourBookings.Use(protect, middleware.RestrictTo(models.UserRoleAdmin, models.UserRoleLeadGuide))
		{
			tourBookings.GET("", bookings.GetAll)
		}
	}
}

// RegisterRoutes регистрирует маршруты отзывов под /api/v1/reviews.
// Все требуют аутентификации.
func (h *ReviewHandler) RegisterRoutes(rg *gin.RouterGroup, protect gin.HandlerFunc) {
	reviews := rg.Group("/reviews")
	reviews.Use(protect)
	{
		reviews.GET("", h.GetAll)
		reviews.POST("", middleware.RestrictTo(models.UserRoleUser), h.CreateOne)

		reviews.GET("/:id", h.GetOne)
		reviews.PATCH("/:id", middleware.RestrictTo(models.UserRoleUser, models.UserRoleAdmin), h.UpdateOne)
		reviews.DELETE("/:id", middleware.RestrictTo(models.UserRoleUser, models.UserRoleAdmin), h.DeleteOne)
	}
}

// RegisterRoutes регистрирует маршруты бронирований под /api/v1/bookings
func (h *BookingHandler) RegisterRoutes(rg *gin.RouterGroup, protect gin.HandlerFunc) {
	bookings := rg.Group("/bookings")
	bookings.Use(protect)
	{
		bookings.GET("/checkout-session/:tourid", h.GetCheckoutSession)

		admin := bookings.Group("")
		admin.Use(middleware.RestrictTo(models.UserRoleAdmin, models.UserRoleLeadGuide))
		{
			admin.GET("", h.GetAll)
			admin.POST("", h.CreateOne)
			admin.GET("/:id", h.GetOne)
			admin.PATCH("/:id", h.UpdateOne)
			admin.DELETE("/:id", h.DeleteOne)
		}
	}
}

// RegisterRoutes регистрирует server-rendered страницы в корне
func (h *ViewHandler) RegisterRoutes(r *gin.Engine, isLoggedIn, protect gin.HandlerFunc) {
	r.GET("/", isLoggedIn, h.Overview)
	r.GET("/tour/:slug", isLoggedIn, h.Tour)
	r.GET("/login", isLoggedIn, h.LoginForm)
	r.GET("/signup", isLoggedIn, h.SignupForm)
	r.GET("/verify-email", isLoggedIn, h.VerifyEmailForm)
	r.GET("/me", protect, h.Account)
	r.GET("/my-tours", protect, h.MyTours)
}
