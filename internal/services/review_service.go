package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/RoberSamy04/natours/internal/logger"
	"github.com/RoberSamy04/natours/internal/models"
	"github.com/RoberSamy04/natours/internal/repositories"
	"github.com/RoberSamy04/natours/internal/validator"
	"github.com/RoberSamy04/natours/pkg/apperrors"
)

type ReviewService interface {
	Create(ctx context.Context, review *models.Review) error
	GetByID(ctx context.Context, id string) (*models.Review, error)
	List(ctx context.Context, fixed bson.M, q *repositories.QueryOptions) ([]models.Review, error)
	Update(ctx context.Context, id string, update bson.M) (*models.Review, error)
	Delete(ctx context.Context, id string) error
}

type ReviewServiceImpl struct {
	reviewRepo  repositories.ReviewRepository
	bookingRepo repositories.BookingRepository
	tourRepo    repositories.TourRepository
	validate    *validator.Validator
}

func NewReviewService(reviewRepo repositories.ReviewRepository, bookingRepo repositories.BookingRepository, tourRepo repositories.TourRepository) ReviewService {
	return &ReviewServiceImpl{
		reviewRepo:  reviewRepo,
		bookingRepo: bookingRepo,
		tourRepo:    tourRepo,
		validate:    validator.New(),
	}
}

// Create пропускает отзыв только при существующем бронировании той же
// пары user+tour, затем пересчитывает рейтинг тура
func (s *ReviewServiceImpl) Create(ctx context.Context, review *models.Review) error {
	if _, err := s.bookingRepo.FindByUserAndTour(ctx, review.User, review.Tour); err != nil {
		if apperrors.Is(err, repositories.ErrNotFound) {
			return apperrors.ErrBookingRequired
		}
		return apperrors.Internal(err)
	}

	if review.ID.IsZero() {
		review.ID = primitive.NewObjectID()
	}
	review.CreatedAt = time.Now()

	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return err
	}

	s.recalcTourRatings(ctx, review.Tour)
	return nil
}

func (s *ReviewServiceImpl) GetByID(ctx context.Context, id string) (*models.Review, error) {
	return s.reviewRepo.FindByID(ctx, id)
}

func (s *ReviewServiceImpl) List(ctx context.Context, fixed bson.M, q *repositories.QueryOptions) ([]models.Review, error) {
	return s.reviewRepo.Find(ctx, fixed, q)
}

// Update валидирует отзыв целиком после наложения частичного обновления
func (s *ReviewServiceImpl) Update(ctx context.Context, id string, update bson.M) (*models.Review, error) {
	current, err := s.reviewRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	merged, err := mergeUpdate(current, update)
	if err != nil {
		return nil, apperrors.NewBadRequestError("Invalid update payload: " + err.Error())
	}
	if err := s.validate.Validate(merged); err != nil {
		return nil, apperrors.NewBadRequestError(err.Error())
	}

	review, err := s.reviewRepo.UpdateByID(ctx, id, update)
	if err != nil {
		return nil, err
	}

	s.recalcTourRatings(ctx, review.Tour)
	return review, nil
}

func (s *ReviewServiceImpl) Delete(ctx context.Context, id string) error {
	review, err := s.reviewRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.reviewRepo.DeleteByID(ctx, id); err != nil {
		return err
	}

	s.recalcTourRatings(ctx, review.Tour)
	return nil
}

// recalcTourRatings - явный шаг пересчета статистики после каждой записи.
// Без отзывов возвращаются дефолты: quantity 0, average 4.5.
// Ошибка пересчета логируется, но не проваливает основную операцию.
func (s *ReviewServiceImpl) recalcTourRatings(ctx context.Context, tourID primitive.ObjectID) {
	ratings, err := s.reviewRepo.RatingsForTour(ctx, tourID)
	if err != nil {
		logger.CtxWithError(ctx, "Failed to aggregate tour ratings", err, "tour_id", tourID.Hex())
		return
	}

	quantity, average := 0, 4.5
	if ratings != nil {
		quantity, average = ratings.NRating, ratings.AvgRating
	}

	if err := s.tourRepo.UpdateRatings(ctx, tourID, quantity, average); err != nil {
		logger.CtxWithError(ctx, "Failed to update tour ratings", err, "tour_id", tourID.Hex())
	}
}
