package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/RoberSamy04/natours/internal/models"
	"github.com/RoberSamy04/natours/internal/services"
	"github.com/RoberSamy04/natours/pkg/apperrors"
)

type BookingHandler struct {
	*CRUDHandler[models.Booking]
	bookingService services.BookingService
}

func NewBookingHandler(base *BaseHandler, bookingService services.BookingService) *BookingHandler {
	h := &BookingHandler{
		CRUDHandler:    NewCRUDHandler[models.Booking](base, bookingService),
		bookingService: bookingService,
	}
	h.FixedFilter = nestedTourFilter
	return h
}

// GetCheckoutSession создает Stripe Checkout сессию для тура и отдает
// ее клиенту для редиректа на оплату
func (h *BookingHandler) GetCheckoutSession(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		h.HandleServiceError(c, apperrors.ErrNotLoggedIn)
		return
	}

	sess, err := h.bookingService.CreateCheckoutSession(c.Request.Context(), c.Param("tourid"), user, requestBaseURL(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"session": sess,
	})
}
