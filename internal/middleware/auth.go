package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/RoberSamy04/natours/internal/auth"
	"github.com/RoberSamy04/natours/internal/logger"
	"github.com/RoberSamy04/natours/internal/models"
	"github.com/RoberSamy04/natours/internal/repositories"
	"github.com/RoberSamy04/natours/pkg/apperrors"
)

const userContextKey = "currentUser"

// extractToken достает JWT из заголовка Authorization или cookie "jwt"
func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	if cookie, err := c.Cookie("jwt"); err == nil {
		return cookie
	}
	return ""
}

// resolveUser проверяет токен и возвращает его владельца.
// Три причины отказа: пользователь удален, пароль сменен после выдачи
// токена, сам токен невалиден (jwt-ошибка классифицируется отдельно).
func resolveUser(c *gin.Context, userRepo repositories.UserRepository, token string) (*models.User, error) {
	claims, err := auth.ParseToken(token)
	if err != nil {
		return nil, err
	}

	user, err := userRepo.FindByID(c.Request.Context(), claims.Subject)
	if err != nil {
		if apperrors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.ErrTokenUserGone
		}
		return nil, apperrors.Internal(err)
	}

	if claims.IssuedAt != nil && user.ChangedPasswordAfter(claims.IssuedAt.Time) {
		return nil, apperrors.ErrPasswordChanged
	}

	return user, nil
}

// Protect пропускает только аутентифицированных пользователей.
// Токен берется из Bearer-заголовка или cookie, пользователь
// перечитывается из БД на каждый запрос.
func Protect(userRepo repositories.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			apperrors.HandleError(c, apperrors.ErrNotLoggedIn)
			return
		}

		user, err := resolveUser(c, userRepo, token)
		if err != nil {
			apperrors.HandleError(c, err)
			return
		}

		c.Set(userContextKey, user)
		ctx := logger.WithUserID(c.Request.Context(), user.ID.Hex())
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// IsLoggedIn - мягкий вариант Protect для server-rendered страниц:
// никогда не отказывает, просто кладет пользователя в контекст, если
// валидная cookie есть
func IsLoggedIn(userRepo repositories.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		cookie, err := c.Cookie("jwt")
		if err != nil || cookie == "" {
			c.Next()
			return
		}

		user, err := resolveUser(c, userRepo, cookie)
		if err != nil {
			c.Next()
			return
		}

		c.Set(userContextKey, user)
		c.Next()
	}
}

// RestrictTo ограничивает маршрут перечисленными ролями.
// Должен стоять после Protect.
func RestrictTo(roles ...models.UserRole) gin.HandlerFunc {
	roleSet := make(map[models.UserRole]bool)
	for _, r := range roles {
		roleSet[r] = true
	}

	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok || !roleSet[user.Role] {
			apperrors.HandleError(c, apperrors.ErrNoPermission)
			return
		}
		c.Next()
	}
}

// CurrentUser извлекает аутентифицированного пользователя из контекста
func CurrentUser(c *gin.Context) (*models.User, bool) {
	val, exists := c.Get(userContextKey)
	if !exists {
		return nil, false
	}
	user, ok := val.(*models.User)
	return user, ok
}
