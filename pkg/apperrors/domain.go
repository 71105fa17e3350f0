package apperrors

import "net/http"

// Доменные ошибки приложения. Сообщения видны клиенту, поэтому
// формулировки фиксированы (в частности, логин не раскрывает,
// что именно неверно - email или пароль).
var (
	ErrInvalidCredentials = New("Incorrect Email or Password", http.StatusUnauthorized)
	ErrEmailNotVerified   = New("Please verify your email to login", http.StatusForbidden)
	ErrEmailAlreadyVerified = New("Email already verified", http.StatusBadRequest)
	ErrInvalidOTP           = New("Invalid or expired otp", http.StatusBadRequest)

	ErrNotLoggedIn       = New("You are not logged in! Please log in to get access", http.StatusUnauthorized)
	ErrTokenUserGone     = New("The user belonging to this token does no longer exist", http.StatusUnauthorized)
	ErrPasswordChanged   = New("User recently changed password! Please log in again", http.StatusUnauthorized)
	ErrNoPermission      = New("you do not have permission to perform this action", http.StatusForbidden)
	ErrWrongPassword     = New("your current password is wrong", http.StatusUnauthorized)
	ErrResetTokenInvalid = New("Token is invalid or has expired", http.StatusBadRequest)

	ErrDocumentNotFound = New("No document found with that ID", http.StatusNotFound)
	ErrUserNotFound     = New("There is no user with this email address", http.StatusNotFound)

	ErrEmailSendFailed = New("there was an error sending the email, Try again later", http.StatusInternalServerError)

	ErrBookingRequired = New("you need to book the tour first to make a review", http.StatusForbidden)
)
