package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/RoberSamy04/natours/internal/repositories"
	"github.com/RoberSamy04/natours/internal/services"
	"github.com/RoberSamy04/natours/pkg/apperrors"
)

// ViewHandler рендерит server-side страницы
type ViewHandler struct {
	*BaseHandler
	tourService    services.TourService
	bookingService services.BookingService
}

func NewViewHandler(base *BaseHandler, tourService services.TourService, bookingService services.BookingService) *ViewHandler {
	return &ViewHandler{
		BaseHandler:    base,
		tourService:    tourService,
		bookingService: bookingService,
	}
}

// Overview - главная страница со всеми турами. Сюда же приходит
// success-редирект оплаты: при наличии tour/user/price в query сначала
// создается бронирование, затем редирект на чистый URL.
func (h *ViewHandler) Overview(c *gin.Context) {
	tourID := c.Query("tour")
	userID := c.Query("user")
	priceRaw := c.Query("price")

	if tourID != "" && userID != "" && priceRaw != "" {
		price, err := strconv.ParseFloat(priceRaw, 64)
		if err != nil {
			apperrors.HandleError(c, apperrors.NewBadRequestError("Invalid price"))
			return
		}
		if err := h.bookingService.CreateFromCheckout(c.Request.Context(), tourID, userID, price); err != nil {
			apperrors.HandleError(c, err)
			return
		}
		// Убираем платежные параметры из адресной строки
		c.Redirect(http.StatusFound, c.Request.URL.Path)
		return
	}

	tours, err := h.tourService.List(c.Request.Context(), bson.M{}, repositories.ParseQuery(nil))
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}

	c.HTML(http.StatusOK, "overview.html", gin.H{
		"title": "All Tours",
		"tours": tours,
		"user":  viewUser(c),
	})
}

// Tour - страница одного тура по slug
func (h *ViewHandler) Tour(c *gin.Context) {
	tour, err := h.tourService.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		if apperrors.Is(err, repositories.ErrNotFound) {
			apperrors.HandleError(c, apperrors.NewNotFoundError("There is no tour with that name"))
			return
		}
		apperrors.HandleError(c, err)
		return
	}

	c.HTML(http.StatusOK, "tour.html", gin.H{
		"title": tour.Name + " Tour",
		"tour":  tour,
		"user":  viewUser(c),
	})
}

func (h *ViewHandler) LoginForm(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{
		"title": "Log into your account",
		"user":  viewUser(c),
	})
}

func (h *ViewHandler) SignupForm(c *gin.Context) {
	c.HTML(http.StatusOK, "signup.html", gin.H{
		"title": "Create your account",
		"user":  viewUser(c),
	})
}

func (h *ViewHandler) VerifyEmailForm(c *gin.Context) {
	c.HTML(http.StatusOK, "verify-email.html", gin.H{
		"title": "Verify your email",
		"user":  viewUser(c),
	})
}

// Account - страница профиля, требует Protect
func (h *ViewHandler) Account(c *gin.Context) {
	c.HTML(http.StatusOK, "account.html", gin.H{
		"title": "Your account",
		"user":  viewUser(c),
	})
}

// MyTours - туры из бронирований текущего пользователя
func (h *ViewHandler) MyTours(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		apperrors.HandleError(c, apperrors.ErrNotLoggedIn)
		return
	}

	tours, err := h.bookingService.BookedTours(c.Request.Context(), user.ID)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}

	c.HTML(http.StatusOK, "overview.html", gin.H{
		"title": "My Tours",
		"tours": tours,
		"user":  user,
	})
}

// viewUser - пользователь для шаблона, nil для анонима
func viewUser(c *gin.Context) interface{} {
	if user, ok := currentUser(c); ok {
		return user
	}
	return nil
}
