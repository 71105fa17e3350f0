package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/RoberSamy04/natours/internal/models"
)

// TourStats - агрегированная статистика по сложности
type TourStats struct {
	Difficulty string  `bson:"_id" json:"difficulty"`
	NumTours   int     `bson:"numTours" json:"numTours"`
	NumRatings int     `bson:"numRatings" json:"numRatings"`
	AvgRating  float64 `bson:"avgRating" json:"avgRating"`
	AvgPrice   float64 `bson:"avgPrice" json:"avgPrice"`
	MinPrice   float64 `bson:"minPrice" json:"minPrice"`
	MaxPrice   float64 `bson:"maxPrice" json:"maxPrice"`
}

// MonthlyPlanEntry - количество стартов туров в месяце
type MonthlyPlanEntry struct {
	Month         int      `bson:"month" json:"month"`
	NumTourStarts int      `bson:"numTourStarts" json:"numTourStarts"`
	Tours         []string `bson:"tours" json:"tours"`
}

type TourRepository interface {
	CRUDStore[models.Tour]
	FindBySlug(ctx context.Context, slug string) (*models.Tour, error)
	Stats(ctx context.Context) ([]TourStats, error)
	MonthlyPlan(ctx context.Context, year int) ([]MonthlyPlanEntry, error)
	FindWithinSphere(ctx context.Context, lng, lat, radius float64) ([]models.Tour, error)
	DistancesFrom(ctx context.Context, lng, lat, multiplier float64) ([]models.Tour, error)
	UpdateRatings(ctx context.Context, tourID interface{}, quantity int, average float64) error
}

type tourRepository struct {
	*BaseRepository[models.Tour]
}

// NewTourRepository создает репозиторий туров.
// Секретные туры исключаются из всех стандартных выборок.
func NewTourRepository(db *mongo.Database) TourRepository {
	return &tourRepository{
		BaseRepository: NewBaseRepository[models.Tour](
			db.Collection("tours"),
			bson.M{"secretTour": bson.M{"$ne": true}},
		),
	}
}

func (r *tourRepository) FindBySlug(ctx context.Context, slug string) (*models.Tour, error) {
	return r.FindOne(ctx, bson.M{"slug": slug})
}

// Stats группирует туры по сложности: количество, рейтинги, цены.
// Сортировка по возрастанию средней цены.
func (r *tourRepository) Stats(ctx context.Context) ([]TourStats, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"secretTour":     bson.M{"$ne": true},
			"ratingsAverage": bson.M{"$gte": 4.5},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":        bson.M{"$toUpper": "$difficulty"},
			"numTours":   bson.M{"$sum": 1},
			"numRatings": bson.M{"$sum": "$ratingsQuantity"},
			"avgRating":  bson.M{"$avg": "$ratingsAverage"},
			"avgPrice":   bson.M{"$avg": "$price"},
			"minPrice":   bson.M{"$min": "$price"},
			"maxPrice":   bson.M{"$max": "$price"},
		}}},
		{{Key: "$sort", Value: bson.M{"avgPrice": 1}}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	stats := []TourStats{}
	if err := cursor.All(ctx, &stats); err != nil {
		return nil, err
	}
	return stats, nil
}

// MonthlyPlan раскладывает стартовые даты туров за год по месяцам
func (r *tourRepository) MonthlyPlan(ctx context.Context, year int) ([]MonthlyPlanEntry, error) {
	from := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(year, 12, 31, 23, 59, 59, 0, time.UTC)

	pipeline := mongo.Pipeline{
		{{Key: "$unwind", Value: "$startDates"}},
		{{Key: "$match", Value: bson.M{
			"secretTour": bson.M{"$ne": true},
			"startDates": bson.M{"$gte": from, "$lte": to},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":           bson.M{"$month": "$startDates"},
			"numTourStarts": bson.M{"$sum": 1},
			"tours":         bson.M{"$push": "$name"},
		}}},
		{{Key: "$addFields", Value: bson.M{"month": "$_id"}}},
		{{Key: "$project", Value: bson.M{"_id": 0}}},
		{{Key: "$sort", Value: bson.M{"numTourStarts": -1}}},
		{{Key: "$limit", Value: 12}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	plan := []MonthlyPlanEntry{}
	if err := cursor.All(ctx, &plan); err != nil {
		return nil, err
	}
	return plan, nil
}

// FindWithinSphere ищет туры, чья стартовая локация попадает в сферу
// заданного радиуса (радианы) вокруг точки
func (r *tourRepository) FindWithinSphere(ctx context.Context, lng, lat, radius float64) ([]models.Tour, error) {
	filter := bson.M{
		"startLocation": bson.M{
			"$geoWithin": bson.M{
				"$centerSphere": bson.A{bson.A{lng, lat}, radius},
			},
		},
	}
	return r.Find(ctx, filter, nil)
}

// DistancesFrom считает расстояние от точки до стартовой локации каждого
// тура. $geoNear обязан быть первой стадией pipeline и сортирует по
// возрастанию расстояния сам.
func (r *tourRepository) DistancesFrom(ctx context.Context, lng, lat, multiplier float64) ([]models.Tour, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$geoNear", Value: bson.M{
			"near": bson.M{
				"type":        "Point",
				"coordinates": bson.A{lng, lat},
			},
			"distanceField":      "distance",
			"distanceMultiplier": multiplier,
			"query":              bson.M{"secretTour": bson.M{"$ne": true}},
		}}},
		{{Key: "$project", Value: bson.M{"distance": 1, "name": 1}}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	tours := []models.Tour{}
	if err := cursor.All(ctx, &tours); err != nil {
		return nil, err
	}
	return tours, nil
}

// UpdateRatings записывает пересчитанную статистику отзывов тура
func (r *tourRepository) UpdateRatings(ctx context.Context, tourID interface{}, quantity int, average float64) error {
	_, err := r.coll.UpdateByID(ctx, tourID, bson.M{"$set": bson.M{
		"ratingsQuantity": quantity,
		"ratingsAverage":  models.RoundRating(average),
	}})
	return err
}
