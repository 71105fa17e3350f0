package handlers

// AppHandlers содержит все хэндлеры приложения.
type AppHandlers struct {
	AuthHandler    *AuthHandler
	UserHandler    *UserHandler
	TourHandler    *TourHandler
	ReviewHandler  *ReviewHandler
	BookingHandler *BookingHandler
	ViewHandler    *ViewHandler
}
