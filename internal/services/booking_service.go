package services

import (
	"context"
	"fmt"
	"time"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/RoberSamy04/natours/internal/models"
	"github.com/RoberSamy04/natours/internal/repositories"
	"github.com/RoberSamy04/natours/pkg/apperrors"
)

type BookingService interface {
	CreateCheckoutSession(ctx context.Context, tourID string, user *models.User, baseURL string) (*stripe.CheckoutSession, error)
	CreateFromCheckout(ctx context.Context, tourID, userID string, price float64) error
	Create(ctx context.Context, booking *models.Booking) error
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	List(ctx context.Context, fixed bson.M, q *repositories.QueryOptions) ([]models.Booking, error)
	Update(ctx context.Context, id string, update bson.M) (*models.Booking, error)
	Delete(ctx context.Context, id string) error
	BookedTours(ctx context.Context, userID primitive.ObjectID) ([]models.Tour, error)
}

type BookingServiceImpl struct {
	bookingRepo repositories.BookingRepository
	tourRepo    repositories.TourRepository
}

func NewBookingService(bookingRepo repositories.BookingRepository, tourRepo repositories.TourRepository) BookingService {
	return &BookingServiceImpl{
		bookingRepo: bookingRepo,
		tourRepo:    tourRepo,
	}
}

// CreateCheckoutSession создает Stripe Checkout сессию для оплаты тура.
// success_url несет tour/user/price query-параметрами: бронирование
// создается на редиректе, без webhook
func (s *BookingServiceImpl) CreateCheckoutSession(ctx context.Context, tourID string, user *models.User, baseURL string) (*stripe.CheckoutSession, error) {
	tour, err := s.tourRepo.FindByID(ctx, tourID)
	if err != nil {
		return nil, err
	}

	successURL := fmt.Sprintf("%s/?tour=%s&user=%s&price=%v",
		baseURL, tour.ID.Hex(), user.ID.Hex(), tour.Price)

	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:         stripe.String(successURL),
		CancelURL:          stripe.String(fmt.Sprintf("%s/tour/%s", baseURL, tour.Slug)),
		CustomerEmail:      stripe.String(user.Email),
		ClientReferenceID:  stripe.String(tour.ID.Hex()),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(string(stripe.CurrencyUSD)),
					UnitAmount: stripe.Int64(int64(tour.Price * 100)),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name:        stripe.String(fmt.Sprintf("%s Tour", tour.Name)),
						Description: stripe.String(tour.Summary),
						Images:      stripe.StringSlice([]string{fmt.Sprintf("https://www.natours.dev/img/tours/%s", tour.ImageCover)}),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
	}

	sess, err := session.New(params)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to create checkout session", 500)
	}
	return sess, nil
}

// CreateFromCheckout создает бронирование из query-параметров
// success-редиректа
func (s *BookingServiceImpl) CreateFromCheckout(ctx context.Context, tourID, userID string, price float64) error {
	tourObjID, err := primitive.ObjectIDFromHex(tourID)
	if err != nil {
		return err
	}
	userObjID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return err
	}

	booking := &models.Booking{
		ID:        primitive.NewObjectID(),
		Tour:      tourObjID,
		User:      userObjID,
		Price:     price,
		CreatedAt: time.Now(),
		Paid:      true,
	}
	return s.bookingRepo.Create(ctx, booking)
}

func (s *BookingServiceImpl) Create(ctx context.Context, booking *models.Booking) error {
	if booking.ID.IsZero() {
		booking.ID = primitive.NewObjectID()
	}
	booking.CreatedAt = time.Now()
	if !booking.Paid {
		booking.Paid = true
	}
	return s.bookingRepo.Create(ctx, booking)
}

func (s *BookingServiceImpl) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	return s.bookingRepo.FindByID(ctx, id)
}

func (s *BookingServiceImpl) List(ctx context.Context, fixed bson.M, q *repositories.QueryOptions) ([]models.Booking, error) {
	return s.bookingRepo.Find(ctx, fixed, q)
}

func (s *BookingServiceImpl) Update(ctx context.Context, id string, update bson.M) (*models.Booking, error) {
	return s.bookingRepo.UpdateByID(ctx, id, update)
}

func (s *BookingServiceImpl) Delete(ctx context.Context, id string) error {
	return s.bookingRepo.DeleteByID(ctx, id)
}

// BookedTours возвращает туры из бронирований пользователя (страница
// "My bookings")
func (s *BookingServiceImpl) BookedTours(ctx context.Context, userID primitive.ObjectID) ([]models.Tour, error) {
	bookings, err := s.bookingRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	tours := []models.Tour{}
	for _, b := range bookings {
		tour, err := s.tourRepo.FindByID(ctx, b.Tour.Hex())
		if err != nil {
			if apperrors.Is(err, repositories.ErrNotFound) {
				continue
			}
			return nil, err
		}
		tours = append(tours, *tour)
	}
	return tours, nil
}
