package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/RoberSamy04/natours/internal/auth"
	"github.com/RoberSamy04/natours/internal/config"
	"github.com/RoberSamy04/natours/internal/models"
	"github.com/RoberSamy04/natours/internal/services"
	"github.com/RoberSamy04/natours/internal/services/dto"
	"github.com/RoberSamy04/natours/pkg/apperrors"
)

type AuthHandler struct {
	*BaseHandler
	authService services.AuthService
}

func NewAuthHandler(base *BaseHandler, authService services.AuthService) *AuthHandler {
	return &AuthHandler{
		BaseHandler: base,
		authService: authService,
	}
}

// createSendToken подписывает JWT, ставит httpOnly cookie и отправляет
// токен вместе с пользователем в теле ответа
func (h *AuthHandler) createSendToken(c *gin.Context, user *models.User, statusCode int) {
	token, err := auth.SignToken(user.ID.Hex())
	if err != nil {
		h.HandleServiceError(c, apperrors.Internal(err))
		return
	}

	cfg := config.GetConfig()
	maxAge := cfg.JWT.CookieExpiresDay * 24 * 60 * 60
	c.SetCookie("jwt", token, maxAge, "/", "", cfg.IsProduction(), true)

	c.JSON(statusCode, gin.H{
		"status": "success",
		"token":  token,
		"data":   gin.H{"user": user},
	})
}

// requestBaseURL восстанавливает внешний адрес приложения для ссылок
// в письмах и redirect-url оплаты
func requestBaseURL(c *gin.Context) string {
	scheme := "http"
	if c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s", scheme, c.Request.Host)
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var req dto.SignupRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	verifyURL := requestBaseURL(c) + "/verify-email"
	user, err := h.authService.Signup(c.Request.Context(), &req, verifyURL)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status":  "success",
		"message": "otp has been sent to your email, Please verify your email",
		"data":    gin.H{"user": user},
	})
}

func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	var req dto.VerifyEmailRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.authService.VerifyEmail(c.Request.Context(), &req); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Email verified successfully, you can login now",
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	user, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.createSendToken(c, user, http.StatusOK)
}

// Logout перетирает jwt-cookie коротким мусорным значением
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie("jwt", "loggedout", 10, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req dto.ForgotPasswordRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.authService.ForgotPassword(c.Request.Context(), req.Email, requestBaseURL(c)); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Token sent to email!",
	})
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req dto.ResetPasswordRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	user, err := h.authService.ResetPassword(c.Request.Context(), c.Param("token"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.createSendToken(c, user, http.StatusOK)
}

func (h *AuthHandler) UpdatePassword(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		h.HandleServiceError(c, apperrors.ErrNotLoggedIn)
		return
	}

	var req dto.UpdatePasswordRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	updated, err := h.authService.UpdatePassword(c.Request.Context(), user.ID.Hex(), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.createSendToken(c, updated, http.StatusOK)
}
