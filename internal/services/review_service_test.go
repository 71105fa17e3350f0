package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/RoberSamy04/natours/internal/models"
	"github.com/RoberSamy04/natours/internal/repositories"
	"github.com/RoberSamy04/natours/pkg/apperrors"
)

type fakeReviewRepo struct {
	reviews map[string]*models.Review
}

func newFakeReviewRepo() *fakeReviewRepo {
	return &fakeReviewRepo{reviews: map[string]*models.Review{}}
}

func (r *fakeReviewRepo) Create(_ context.Context, review *models.Review) error {
	cp := *review
	r.reviews[review.ID.Hex()] = &cp
	return nil
}

func (r *fakeReviewRepo) FindByID(_ context.Context, id string) (*models.Review, error) {
	rev, ok := r.reviews[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *rev
	return &cp, nil
}

func (r *fakeReviewRepo) Find(_ context.Context, _ bson.M, _ *repositories.QueryOptions) ([]models.Review, error) {
	out := []models.Review{}
	for _, rev := range r.reviews {
		out = append(out, *rev)
	}
	return out, nil
}

func (r *fakeReviewRepo) UpdateByID(_ context.Context, id string, update bson.M) (*models.Review, error) {
	rev, ok := r.reviews[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	if rating, ok := update["rating"].(float64); ok {
		rev.Rating = rating
	}
	cp := *rev
	return &cp, nil
}

func (r *fakeReviewRepo) DeleteByID(_ context.Context, id string) error {
	if _, ok := r.reviews[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.reviews, id)
	return nil
}

func (r *fakeReviewRepo) FindByTour(_ context.Context, tourID primitive.ObjectID) ([]models.Review, error) {
	out := []models.Review{}
	for _, rev := range r.reviews {
		if rev.Tour == tourID {
			out = append(out, *rev)
		}
	}
	return out, nil
}

func (r *fakeReviewRepo) RatingsForTour(_ context.Context, tourID primitive.ObjectID) (*repositories.ReviewRatings, error) {
	n, sum := 0, 0.0
	for _, rev := range r.reviews {
		if rev.Tour == tourID {
			n++
			sum += rev.Rating
		}
	}
	if n == 0 {
		return nil, nil
	}
	return &repositories.ReviewRatings{NRating: n, AvgRating: sum / float64(n)}, nil
}

type fakeBookingRepo struct {
	bookings map[string]*models.Booking
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: map[string]*models.Booking{}}
}

func (r *fakeBookingRepo) Create(_ context.Context, b *models.Booking) error {
	cp := *b
	r.bookings[b.ID.Hex()] = &cp
	return nil
}

func (r *fakeBookingRepo) FindByID(_ context.Context, id string) (*models.Booking, error) {
	b, ok := r.bookings[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (r *fakeBookingRepo) Find(_ context.Context, _ bson.M, _ *repositories.QueryOptions) ([]models.Booking, error) {
	out := []models.Booking{}
	for _, b := range r.bookings {
		out = append(out, *b)
	}
	return out, nil
}

func (r *fakeBookingRepo) UpdateByID(_ context.Context, id string, _ bson.M) (*models.Booking, error) {
	b, ok := r.bookings[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (r *fakeBookingRepo) DeleteByID(_ context.Context, id string) error {
	if _, ok := r.bookings[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.bookings, id)
	return nil
}

func (r *fakeBookingRepo) FindByUserAndTour(_ context.Context, userID, tourID primitive.ObjectID) (*models.Booking, error) {
	for _, b := range r.bookings {
		if b.User == userID && b.Tour == tourID {
			cp := *b
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeBookingRepo) FindByUser(_ context.Context, userID primitive.ObjectID) ([]models.Booking, error) {
	out := []models.Booking{}
	for _, b := range r.bookings {
		if b.User == userID {
			out = append(out, *b)
		}
	}
	return out, nil
}

// ratingTourRepo расширяет fakeTourRepo записью последнего пересчета
type ratingTourRepo struct {
	*fakeTourRepo
	lastQuantity int
	lastAverage  float64
	recalcs      int
}

func (r *ratingTourRepo) UpdateRatings(_ context.Context, _ interface{}, quantity int, average float64) error {
	r.lastQuantity = quantity
	r.lastAverage = average
	r.recalcs++
	return nil
}

func bookedPair(bookingRepo *fakeBookingRepo) (userID, tourID primitive.ObjectID) {
	userID = primitive.NewObjectID()
	tourID = primitive.NewObjectID()
	bookingRepo.Create(context.Background(), &models.Booking{
		ID:        primitive.NewObjectID(),
		Tour:      tourID,
		User:      userID,
		Price:     497,
		CreatedAt: time.Now(),
		Paid:      true,
	})
	return userID, tourID
}

func TestReviewService_Create_RequiresBooking(t *testing.T) {
	t.Parallel()

	svc := NewReviewService(newFakeReviewRepo(), newFakeBookingRepo(), newFakeTourRepo())

	review := &models.Review{
		Review: "Amazing tour!",
		Rating: 5,
		Tour:   primitive.NewObjectID(),
		User:   primitive.NewObjectID(),
	}

	err := svc.Create(context.Background(), review)
	assert.ErrorIs(t, err, apperrors.ErrBookingRequired)
}

func TestReviewService_Create_WithBooking(t *testing.T) {
	t.Parallel()

	reviewRepo := newFakeReviewRepo()
	bookingRepo := newFakeBookingRepo()
	tourRepo := &ratingTourRepo{fakeTourRepo: newFakeTourRepo()}
	svc := NewReviewService(reviewRepo, bookingRepo, tourRepo)

	userID, tourID := bookedPair(bookingRepo)

	review := &models.Review{Review: "Amazing tour!", Rating: 5, Tour: tourID, User: userID}
	require.NoError(t, svc.Create(context.Background(), review))

	assert.False(t, review.ID.IsZero())
	assert.False(t, review.CreatedAt.IsZero())

	// Рейтинг тура пересчитан по единственному отзыву
	assert.Equal(t, 1, tourRepo.recalcs)
	assert.Equal(t, 1, tourRepo.lastQuantity)
	assert.Equal(t, 5.0, tourRepo.lastAverage)
}

func TestReviewService_Delete_RecalculatesToDefaults(t *testing.T) {
	t.Parallel()

	reviewRepo := newFakeReviewRepo()
	bookingRepo := newFakeBookingRepo()
	tourRepo := &ratingTourRepo{fakeTourRepo: newFakeTourRepo()}
	svc := NewReviewService(reviewRepo, bookingRepo, tourRepo)

	userID, tourID := bookedPair(bookingRepo)

	review := &models.Review{Review: "Good", Rating: 4, Tour: tourID, User: userID}
	require.NoError(t, svc.Create(context.Background(), review))
	require.NoError(t, svc.Delete(context.Background(), review.ID.Hex()))

	// Без отзывов возвращаются дефолты схемы
	assert.Equal(t, 0, tourRepo.lastQuantity)
	assert.Equal(t, 4.5, tourRepo.lastAverage)
}

func TestReviewService_Update_Recalculates(t *testing.T) {
	t.Parallel()

	reviewRepo := newFakeReviewRepo()
	bookingRepo := newFakeBookingRepo()
	tourRepo := &ratingTourRepo{fakeTourRepo: newFakeTourRepo()}
	svc := NewReviewService(reviewRepo, bookingRepo, tourRepo)

	userID, tourID := bookedPair(bookingRepo)

	review := &models.Review{Review: "Good", Rating: 4, Tour: tourID, User: userID}
	require.NoError(t, svc.Create(context.Background(), review))

	_, err := svc.Update(context.Background(), review.ID.Hex(), bson.M{"rating": 2.0})
	require.NoError(t, err)

	assert.Equal(t, 2, tourRepo.recalcs)
	assert.Equal(t, 2.0, tourRepo.lastAverage)
}

func TestReviewService_Update_RejectsOutOfRangeRating(t *testing.T) {
	t.Parallel()

	reviewRepo := newFakeReviewRepo()
	bookingRepo := newFakeBookingRepo()
	tourRepo := &ratingTourRepo{fakeTourRepo: newFakeTourRepo()}
	svc := NewReviewService(reviewRepo, bookingRepo, tourRepo)

	userID, tourID := bookedPair(bookingRepo)

	review := &models.Review{Review: "Good", Rating: 4, Tour: tourID, User: userID}
	require.NoError(t, svc.Create(context.Background(), review))

	for _, rating := range []float64{0, 6, 42} {
		_, err := svc.Update(context.Background(), review.ID.Hex(), bson.M{"rating": rating})
		require.Error(t, err, "rating %v", rating)

		var appErr *apperrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, 400, appErr.StatusCode)
	}

	// Отклоненные обновления не трогают рейтинг тура
	stored, err := reviewRepo.FindByID(context.Background(), review.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, 4.0, stored.Rating)
	assert.Equal(t, 1, tourRepo.recalcs)
}
