package handlers

import (
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/RoberSamy04/natours/internal/models"
	"github.com/RoberSamy04/natours/internal/services"
	"github.com/RoberSamy04/natours/pkg/apperrors"
)

type ReviewHandler struct {
	*CRUDHandler[models.Review]
}

func NewReviewHandler(base *BaseHandler, reviewService services.ReviewService) *ReviewHandler {
	h := &ReviewHandler{
		CRUDHandler: NewCRUDHandler[models.Review](base, reviewService),
	}
	h.BeforeCreate = h.setTourUserIDs
	h.FixedFilter = nestedTourFilter
	return h
}

// setTourUserIDs подставляет tour из пути вложенного маршрута и user
// из аутентифицированного контекста, если тело их не задало
func (h *ReviewHandler) setTourUserIDs(c *gin.Context, review *models.Review) error {
	if review.Tour.IsZero() {
		tourID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			return apperrors.NewBadRequestError("Invalid tour id")
		}
		review.Tour = tourID
	}

	user, ok := currentUser(c)
	if !ok {
		return apperrors.ErrNotLoggedIn
	}
	review.User = user.ID
	return nil
}

// nestedTourFilter ограничивает выборку туром из пути, если маршрут
// вложенный (/tours/:id/reviews)
func nestedTourFilter(c *gin.Context) (bson.M, error) {
	raw := c.Param("id")
	if raw == "" {
		return bson.M{}, nil
	}

	tourID, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return nil, apperrors.NewBadRequestError("Invalid tour id")
	}
	return bson.M{"tour": tourID}, nil
}
