package services

import (
	"github.com/RoberSamy04/natours/internal/email"
	"github.com/RoberSamy04/natours/internal/storage"
)

// ServiceContainer содержит все сервисы приложения.
type ServiceContainer struct {
	AuthService    AuthService
	UserService    UserService
	TourService    TourService
	ReviewService  ReviewService
	BookingService BookingService
	UploadService  UploadService
	EmailService   email.Provider
	Storage        storage.Storage
}
