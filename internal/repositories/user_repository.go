package repositories

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/RoberSamy04/natours/internal/models"
)

type UserRepository interface {
	CRUDStore[models.User]
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByResetToken(ctx context.Context, hashedToken string) (*models.User, error)
	FindManyByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error)
	SetFields(ctx context.Context, id primitive.ObjectID, fields bson.M) error
	UnsetFields(ctx context.Context, id primitive.ObjectID, fields ...string) error
}

type userRepository struct {
	*BaseRepository[models.User]
}

// NewUserRepository создает репозиторий пользователей.
// Мягко удаленные (active=false) исключаются из всех выборок.
func NewUserRepository(db *mongo.Database) UserRepository {
	return &userRepository{
		BaseRepository: NewBaseRepository[models.User](
			db.Collection("users"),
			bson.M{"active": bson.M{"$ne": false}},
		),
	}
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.FindOne(ctx, bson.M{"email": email})
}

// FindByResetToken ищет пользователя по sha256-хешу reset-токена
// с еще не истекшим окном сброса
func (r *userRepository) FindByResetToken(ctx context.Context, hashedToken string) (*models.User, error) {
	return r.FindOne(ctx, bson.M{
		"passwordResetToken":   hashedToken,
		"passwordResetExpires": bson.M{"$gt": nowFunc()},
	})
}

func (r *userRepository) FindManyByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	if len(ids) == 0 {
		return []models.User{}, nil
	}
	return r.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, nil)
}

// SetFields обновляет отдельные поля без полного пересохранения документа
func (r *userRepository) SetFields(ctx context.Context, id primitive.ObjectID, fields bson.M) error {
	_, err := r.coll.UpdateByID(ctx, id, bson.M{"$set": fields})
	return err
}

// UnsetFields удаляет поля документа (очистка OTP / reset-токена)
func (r *userRepository) UnsetFields(ctx context.Context, id primitive.ObjectID, fields ...string) error {
	unset := bson.M{}
	for _, f := range fields {
		unset[f] = ""
	}
	_, err := r.coll.UpdateByID(ctx, id, bson.M{"$unset": unset})
	return err
}
