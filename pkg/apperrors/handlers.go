package apperrors

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/RoberSamy04/natours/internal/logger"
)

// GinErrorHandler - терминальный обработчик ошибок для Gin.
// Debug = true в development: ответ включает исходную ошибку.
type GinErrorHandler struct {
	Debug bool
}

// HandleGinError - основная логика обработки ошибок для Gin.
// Два канала: JSON API и server-rendered страницы (разная форма ответа).
func (h *GinErrorHandler) HandleGinError(c *gin.Context, err error) {
	appErr := Classify(err)

	if appErr.StatusCode >= 500 {
		logger.CtxWithError(c.Request.Context(), "Server error", err, "path", c.Request.URL.Path)
	}

	if isAPIRequest(c) {
		h.sendJSON(c, appErr)
		return
	}
	h.sendPage(c, appErr)
}

func (h *GinErrorHandler) sendJSON(c *gin.Context, appErr *AppError) {
	body := gin.H{
		"status":  appErr.Status(),
		"message": appErr.Message,
	}

	if !appErr.Operational && !h.Debug {
		// Programming or unknown error: don't leak details to the client
		body["status"] = "error"
		body["message"] = "Something went wrong"
	} else if h.Debug && appErr.Err != nil {
		body["error"] = appErr.Err.Error()
	}

	c.AbortWithStatusJSON(appErr.StatusCode, body)
}

func (h *GinErrorHandler) sendPage(c *gin.Context, appErr *AppError) {
	msg := appErr.Message
	if !appErr.Operational && !h.Debug {
		msg = "Please try again later"
	}

	c.Abort()
	c.HTML(appErr.StatusCode, "error.html", gin.H{
		"title": "Something went wrong!",
		"msg":   msg,
	})
}

func isAPIRequest(c *gin.Context) bool {
	return len(c.Request.URL.Path) >= 4 && c.Request.URL.Path[:4] == "/api"
}

var defaultHandler = &GinErrorHandler{Debug: true}

// SetDebug переключает режим обработчика (вызывается один раз при старте).
func SetDebug(debug bool) {
	defaultHandler = &GinErrorHandler{Debug: debug}
}

// HandleError - обработка ошибок для Gin контекста
func HandleError(c *gin.Context, err error) {
	defaultHandler.HandleGinError(c, err)
}

// NotFoundHandler - catch-all для несуществующих маршрутов
func NotFoundHandler(c *gin.Context) {
	HandleError(c, New("Can't find "+c.Request.URL.Path+" on this server", http.StatusNotFound))
}
