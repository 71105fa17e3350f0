package repositories

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/RoberSamy04/natours/internal/models"
)

type BookingRepository interface {
	CRUDStore[models.Booking]
	FindByUserAndTour(ctx context.Context, userID, tourID primitive.ObjectID) (*models.Booking, error)
	FindByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Booking, error)
}

type bookingRepository struct {
	*BaseRepository[models.Booking]
}

func NewBookingRepository(db *mongo.Database) BookingRepository {
	return &bookingRepository{
		BaseRepository: NewBaseRepository[models.Booking](db.Collection("bookings"), nil),
	}
}

// FindByUserAndTour используется review-гейтом: отзыв разрешен только
// при существующем бронировании той же пары user+tour
func (r *bookingRepository) FindByUserAndTour(ctx context.Context, userID, tourID primitive.ObjectID) (*models.Booking, error) {
	return r.FindOne(ctx, bson.M{"user": userID, "tour": tourID})
}

func (r *bookingRepository) FindByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Booking, error) {
	return r.Find(ctx, bson.M{"user": userID}, nil)
}
