package repositories

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// indexModels - индексы по коллекциям. Уникальность email/имени тура
// обеспечивается только на этом уровне; гео-запросы ($geoNear,
// $geoWithin) без 2dsphere индекса отвергаются сервером.
func indexModels() map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		"users": {
			{
				Keys:    bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
		"tours": {
			{
				Keys:    bson.D{{Key: "name", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			{
				Keys: bson.D{{Key: "startLocation", Value: "2dsphere"}},
			},
			{
				Keys: bson.D{{Key: "price", Value: 1}, {Key: "ratingsAverage", Value: -1}},
			},
		},
		"reviews": {
			// Один отзыв на пару тур-пользователь
			{
				Keys:    bson.D{{Key: "tour", Value: 1}, {Key: "user", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
	}
}

// EnsureIndexes создает индексы при старте. Повторный вызов на уже
// существующих индексах - no-op для mongo.
func EnsureIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for coll, models := range indexModels() {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create indexes for %s: %w", coll, err)
		}
	}
	return nil
}
