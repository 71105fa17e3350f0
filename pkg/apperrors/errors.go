package apperrors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// AppError - основная структура ошибки приложения.
// Operational = true означает ожидаемую ошибку, которую можно показать клиенту.
type AppError struct {
	Message     string `json:"message"`
	StatusCode  int    `json:"-"`
	Operational bool   `json:"-"`
	Err         error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s (%v)", e.StatusCode, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.StatusCode, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Status возвращает класс статуса для ответа: "fail" для 4xx, "error" для 5xx.
func (e *AppError) Status() string {
	if e.StatusCode >= 400 && e.StatusCode < 500 {
		return "fail"
	}
	return "error"
}

// New - базовый конструктор операционной ошибки
func New(message string, statusCode int) *AppError {
	return &AppError{
		Message:     message,
		StatusCode:  statusCode,
		Operational: true,
	}
}

// Wrap оборачивает существующую ошибку в операционную AppError
func Wrap(err error, message string, statusCode int) *AppError {
	return &AppError{
		Message:     message,
		StatusCode:  statusCode,
		Operational: true,
		Err:         err,
	}
}

// Is - обертка над стандартной функцией errors.Is
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As - обертка над стандартной функцией errors.As
func As(err error, target interface{}) bool {
	return stderrors.As(err, target)
}

// --- ОБЩИЕ ХЕЛПЕРЫ ---

// Internal оборачивает неизвестную системную ошибку. Не операционная:
// в production клиент увидит только generic сообщение.
func Internal(err error) *AppError {
	return &AppError{
		Message:     "Something went wrong",
		StatusCode:  http.StatusInternalServerError,
		Operational: false,
		Err:         err,
	}
}

// NewBadRequestError создает ошибку 400
func NewBadRequestError(message string) *AppError {
	return New(message, http.StatusBadRequest)
}

// NewUnauthorizedError создает ошибку аутентификации 401
func NewUnauthorizedError(message string) *AppError {
	return New(message, http.StatusUnauthorized)
}

// NewForbiddenError создает ошибку доступа 403
func NewForbiddenError(message string) *AppError {
	return New(message, http.StatusForbidden)
}

// NewNotFoundError создает ошибку 404
func NewNotFoundError(message string) *AppError {
	return New(message, http.StatusNotFound)
}
