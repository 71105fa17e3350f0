package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/RoberSamy04/natours/internal/repositories"
	"github.com/RoberSamy04/natours/internal/services"
	"github.com/RoberSamy04/natours/internal/services/dto"
	"github.com/RoberSamy04/natours/pkg/apperrors"
)

type UserHandler struct {
	*BaseHandler
	userService   services.UserService
	uploadService services.UploadService
}

func NewUserHandler(base *BaseHandler, userService services.UserService, uploadService services.UploadService) *UserHandler {
	return &UserHandler{
		BaseHandler:   base,
		userService:   userService,
		uploadService: uploadService,
	}
}

func (h *UserHandler) GetAll(c *gin.Context) {
	q := repositories.ParseQuery(c.Request.URL.Query())

	users, err := h.userService.List(c.Request.Context(), bson.M{}, q)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"results": len(users),
		"data":    gin.H{"data": users},
	})
}

func (h *UserHandler) GetOne(c *gin.Context) {
	user, err := h.userService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   gin.H{"data": user},
	})
}

// CreateOne намеренно не реализован: регистрация только через /signup
func (h *UserHandler) CreateOne(c *gin.Context) {
	c.JSON(http.StatusInternalServerError, gin.H{
		"status":  "error",
		"message": "This route is not defined! Please use /signup instead",
	})
}

func (h *UserHandler) UpdateOne(c *gin.Context) {
	update := bson.M{}
	if err := c.ShouldBindJSON(&update); err != nil {
		h.HandleServiceError(c, apperrors.NewBadRequestError("Invalid request body: "+err.Error()))
		return
	}
	delete(update, "_id")
	delete(update, "id")
	delete(update, "password")
	delete(update, "passwordConfirm")

	user, err := h.userService.Update(c.Request.Context(), c.Param("id"), update)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   gin.H{"data": user},
	})
}

func (h *UserHandler) DeleteOne(c *gin.Context) {
	if err := h.userService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusNoContent, gin.H{
		"status": "success",
		"data":   nil,
	})
}

// GetMe возвращает профиль текущего пользователя
func (h *UserHandler) GetMe(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		h.HandleServiceError(c, apperrors.ErrNotLoggedIn)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   gin.H{"data": user},
	})
}

// UpdateMe обновляет имя/email/фото текущего пользователя.
// Поля пароля отклоняются: для них отдельный маршрут.
// Принимает JSON или multipart с файлом "photo".
func (h *UserHandler) UpdateMe(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		h.HandleServiceError(c, apperrors.ErrNotLoggedIn)
		return
	}

	var req dto.UpdateMeRequest
	photo := ""

	if isMultipart(c) {
		req.Name = c.PostForm("name")
		req.Email = c.PostForm("email")
		if c.PostForm("password") != "" || c.PostForm("passwordConfirm") != "" {
			h.HandleServiceError(c, apperrors.NewBadRequestError("this route is not for password updates. Please use /updateMyPassword"))
			return
		}

		if fh, err := c.FormFile("photo"); err == nil {
			f, err := fh.Open()
			if err != nil {
				h.HandleServiceError(c, apperrors.Internal(err))
				return
			}
			defer f.Close()

			photo, err = h.uploadService.SaveUserPhoto(c.Request.Context(), user.ID, f, user.Photo)
			if err != nil {
				h.HandleServiceError(c, err)
				return
			}
		}
	} else {
		raw := map[string]json.RawMessage{}
		if err := c.ShouldBindJSON(&raw); err != nil {
			h.HandleServiceError(c, apperrors.NewBadRequestError("Invalid request body: "+err.Error()))
			return
		}
		if _, has := raw["password"]; has {
			h.HandleServiceError(c, apperrors.NewBadRequestError("this route is not for password updates. Please use /updateMyPassword"))
			return
		}
		if _, has := raw["passwordConfirm"]; has {
			h.HandleServiceError(c, apperrors.NewBadRequestError("this route is not for password updates. Please use /updateMyPassword"))
			return
		}
		if v, has := raw["name"]; has {
			json.Unmarshal(v, &req.Name)
		}
		if v, has := raw["email"]; has {
			json.Unmarshal(v, &req.Email)
		}
	}

	if err := h.validator.Validate(&req); err != nil {
		h.HandleServiceError(c, apperrors.NewBadRequestError(err.Error()))
		return
	}

	updated, err := h.userService.UpdateMe(c.Request.Context(), user.ID, &req, photo)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   gin.H{"user": updated},
	})
}

// DeleteMe деактивирует аккаунт текущего пользователя
func (h *UserHandler) DeleteMe(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		h.HandleServiceError(c, apperrors.ErrNotLoggedIn)
		return
	}

	if err := h.userService.DeleteMe(c.Request.Context(), user.ID); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusNoContent, gin.H{
		"status": "success",
		"data":   nil,
	})
}

func isMultipart(c *gin.Context) bool {
	ct := c.ContentType()
	return ct == "multipart/form-data"
}
