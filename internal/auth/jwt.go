package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/RoberSamy04/natours/internal/config"
)

// Claims - полезная нагрузка токена: только id пользователя плюс
// стандартные iat/exp. IssuedAt нужен для инвалидации токенов,
// выданных до смены пароля.
type Claims struct {
	jwt.RegisteredClaims
}

// SignToken выпускает подписанный HS256 токен для пользователя
func SignToken(userID string) (string, error) {
	cfg := config.GetConfig()
	now := time.Now()

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(cfg.JWT.TTL) * time.Minute)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.JWT.Secret))
}

// ParseToken проверяет подпись и срок действия, возвращает claims.
// Ошибки jwt (expired, malformed) пробрасываются как есть -
// их классифицирует pkg/apperrors.
func ParseToken(tokenStr string) (*Claims, error) {
	cfg := config.GetConfig()

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(cfg.JWT.Secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}

	return claims, nil
}
