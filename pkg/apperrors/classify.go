package apperrors

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Classify переводит сырые инфраструктурные ошибки (mongo, jwt, hex id)
// в операционные AppError до выбора формы ответа. Уже классифицированные
// AppError проходят без изменений, все остальное становится Internal.
func Classify(err error) *AppError {
	var appErr *AppError
	if As(err, &appErr) {
		return appErr
	}

	if Is(err, primitive.ErrInvalidHex) {
		return castError(err)
	}
	if mongo.IsDuplicateKeyError(err) {
		return duplicateFieldError(err)
	}
	if Is(err, jwt.ErrTokenExpired) {
		return New("Your token has expired! Please log in again", http.StatusUnauthorized)
	}
	if Is(err, jwt.ErrTokenMalformed) || Is(err, jwt.ErrSignatureInvalid) ||
		Is(err, jwt.ErrTokenSignatureInvalid) || Is(err, jwt.ErrTokenUnverifiable) {
		return New("Invalid token. Please log in again", http.StatusUnauthorized)
	}
	if Is(err, mongo.ErrNoDocuments) {
		return ErrDocumentNotFound
	}

	return Internal(err)
}

func castError(err error) *AppError {
	return Wrap(err, "Invalid _id: malformed identifier", http.StatusBadRequest)
}

// duplicateFieldError пытается вытащить имя поля из текста ошибки mongo
// ("... index: name_1 dup key: ...").
func duplicateFieldError(err error) *AppError {
	field := "value"
	msg := err.Error()
	if i := strings.Index(msg, "index: "); i != -1 {
		rest := msg[i+len("index: "):]
		if j := strings.IndexAny(rest, " _"); j != -1 {
			field = rest[:j]
		}
	}
	return Wrap(err, fmt.Sprintf("Duplicate field value: (%s). Please use another value!", field), http.StatusBadRequest)
}
