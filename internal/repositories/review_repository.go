package repositories

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/RoberSamy04/natours/internal/models"
)

// ReviewRatings - агрегат отзывов одного тура
type ReviewRatings struct {
	NRating   int     `bson:"nRating"`
	AvgRating float64 `bson:"avgRating"`
}

type ReviewRepository interface {
	CRUDStore[models.Review]
	FindByTour(ctx context.Context, tourID primitive.ObjectID) ([]models.Review, error)
	RatingsForTour(ctx context.Context, tourID primitive.ObjectID) (*ReviewRatings, error)
}

type reviewRepository struct {
	*BaseRepository[models.Review]
}

func NewReviewRepository(db *mongo.Database) ReviewRepository {
	return &reviewRepository{
		BaseRepository: NewBaseRepository[models.Review](db.Collection("reviews"), nil),
	}
}

func (r *reviewRepository) FindByTour(ctx context.Context, tourID primitive.ObjectID) ([]models.Review, error) {
	return r.Find(ctx, bson.M{"tour": tourID}, nil)
}

// RatingsForTour считает количество и средний рейтинг отзывов тура.
// nil без ошибки означает, что отзывов нет.
func (r *reviewRepository) RatingsForTour(ctx context.Context, tourID primitive.ObjectID) (*ReviewRatings, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"tour": tourID}}},
		{{Key: "$group", Value: bson.M{
			"_id":       "$tour",
			"nRating":   bson.M{"$sum": 1},
			"avgRating": bson.M{"$avg": "$rating"},
		}}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	results := []ReviewRatings{}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return &results[0], nil
}
