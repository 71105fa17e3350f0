package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/RoberSamy04/natours/internal/repositories"
)

// CRUDService - протокол сервиса, поверх которого работает generic
// CRUD хендлер. Доменные сервисы (туры, отзывы, бронирования)
// реализуют его поверх своих репозиториев.
type CRUDService[T any] interface {
	Create(ctx context.Context, doc *T) error
	GetByID(ctx context.Context, id string) (*T, error)
	List(ctx context.Context, fixed bson.M, q *repositories.QueryOptions) ([]T, error)
	Update(ctx context.Context, id string, update bson.M) (*T, error)
	Delete(ctx context.Context, id string) error
}

// CRUDHandler - фабрика типовых хендлеров. Вместо копипасты
// create/get/list/update/delete на каждый ресурс каждый хендлер
// встраивает сконфигурированный экземпляр.
//
// BeforeCreate - необязательный шаг подготовки документа (проставить
// tour/user из пути и контекста). FixedFilter - фиксированный фильтр
// вложенного маршрута (/tours/:id/reviews).
type CRUDHandler[T any] struct {
	*BaseHandler
	service      CRUDService[T]
	BeforeCreate func(c *gin.Context, doc *T) error
	FixedFilter  func(c *gin.Context) (bson.M, error)
}

func NewCRUDHandler[T any](base *BaseHandler, service CRUDService[T]) *CRUDHandler[T] {
	return &CRUDHandler[T]{
		BaseHandler: base,
		service:     service,
	}
}

func (h *CRUDHandler[T]) CreateOne(c *gin.Context) {
	var doc T
	if !h.BindAndValidate_JSON(c, &doc) {
		return
	}

	if h.BeforeCreate != nil {
		if err := h.BeforeCreate(c, &doc); err != nil {
			h.HandleServiceError(c, err)
			return
		}
	}

	if err := h.service.Create(c.Request.Context(), &doc); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status": "success",
		"data":   gin.H{"data": doc},
	})
}

func (h *CRUDHandler[T]) GetOne(c *gin.Context) {
	doc, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   gin.H{"data": doc},
	})
}

func (h *CRUDHandler[T]) GetAll(c *gin.Context) {
	fixed := bson.M{}
	if h.FixedFilter != nil {
		var err error
		if fixed, err = h.FixedFilter(c); err != nil {
			h.HandleServiceError(c, err)
			return
		}
	}

	q := repositories.ParseQuery(c.Request.URL.Query())

	docs, err := h.service.List(c.Request.Context(), fixed, q)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"results": len(docs),
		"data":    gin.H{"data": docs},
	})
}

func (h *CRUDHandler[T]) UpdateOne(c *gin.Context) {
	update := bson.M{}
	if err := c.ShouldBindJSON(&update); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	// _id менять нельзя
	delete(update, "_id")
	delete(update, "id")

	doc, err := h.service.Update(c.Request.Context(), c.Param("id"), update)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   gin.H{"data": doc},
	})
}

func (h *CRUDHandler[T]) DeleteOne(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusNoContent, gin.H{
		"status": "success",
		"data":   nil,
	})
}
