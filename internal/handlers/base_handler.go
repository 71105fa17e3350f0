package handlers

import (
	"sort"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/RoberSamy04/natours/internal/logger"
	"github.com/RoberSamy04/natours/internal/middleware"
	"github.com/RoberSamy04/natours/internal/models"
	"github.com/RoberSamy04/natours/internal/validator"
	"github.com/RoberSamy04/natours/pkg/apperrors"
)

// currentUser - шорткат к пользователю, положенному Protect/IsLoggedIn
func currentUser(c *gin.Context) (*models.User, bool) {
	return middleware.CurrentUser(c)
}

// BaseHandler - общая основа хендлеров: биндинг, валидация, ошибки.
// Встраивается в каждый конкретный хендлер.
type BaseHandler struct {
	validator *validator.Validator
}

func NewBaseHandler(v *validator.Validator) *BaseHandler {
	return &BaseHandler{
		validator: v,
	}
}

func (h *BaseHandler) BindAndValidate_JSON(c *gin.Context, obj interface{}) bool {
	ctx := c.Request.Context()

	if err := c.ShouldBind(obj); err != nil {
		logger.CtxWithError(ctx, "Failed to bind JSON body", err, "path", c.Request.URL.Path)
		apperrors.HandleError(c, apperrors.NewBadRequestError("Invalid request body: "+err.Error()))
		return false
	}

	if err := h.validator.Validate(obj); err != nil {
		if vErr, ok := err.(*validator.ValidationError); ok {
			logger.CtxWarn(ctx, "Validation failed", "errors", vErr.Errors, "path", c.Request.URL.Path)
			apperrors.HandleError(c, validationAppError(vErr))
		} else {
			logger.CtxWithError(ctx, "Internal validator error", err, "path", c.Request.URL.Path)
			apperrors.HandleError(c, apperrors.Internal(err))
		}
		return false
	}
	return true
}

func (h *BaseHandler) HandleServiceError(c *gin.Context, err error) {
	ctx := c.Request.Context()

	var appErr *apperrors.AppError
	if apperrors.As(err, &appErr) {
		logger.CtxWarn(ctx, "Service error",
			"error", appErr.Message,
			"status", appErr.StatusCode,
			"path", c.Request.URL.Path,
		)
	} else {
		logger.CtxWithError(ctx, "Internal server error", err, "path", c.Request.URL.Path)
	}
	apperrors.HandleError(c, err)
}

// validationAppError собирает сообщения полей в одну 400-ошибку в
// стабильном порядке
func validationAppError(vErr *validator.ValidationError) *apperrors.AppError {
	fields := make([]string, 0, len(vErr.Errors))
	for f := range vErr.Errors {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	msgs := make([]string, 0, len(fields))
	for _, f := range fields {
		msgs = append(msgs, vErr.Errors[f])
	}
	return apperrors.NewBadRequestError("Invalid input data. " + strings.Join(msgs, ". "))
}
