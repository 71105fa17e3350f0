package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/RoberSamy04/natours/internal/models"
	"github.com/RoberSamy04/natours/internal/repositories"
	"github.com/RoberSamy04/natours/internal/services/dto"
)

type UserService interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context, fixed bson.M, q *repositories.QueryOptions) ([]models.User, error)
	Update(ctx context.Context, id string, update bson.M) (*models.User, error)
	Delete(ctx context.Context, id string) error
	UpdateMe(ctx context.Context, userID primitive.ObjectID, req *dto.UpdateMeRequest, photo string) (*models.User, error)
	DeleteMe(ctx context.Context, userID primitive.ObjectID) error
}

type UserServiceImpl struct {
	userRepo repositories.UserRepository
}

func NewUserService(userRepo repositories.UserRepository) UserService {
	return &UserServiceImpl{
		userRepo: userRepo,
	}
}

func (s *UserServiceImpl) GetByID(ctx context.Context, id string) (*models.User, error) {
	return s.userRepo.FindByID(ctx, id)
}

func (s *UserServiceImpl) List(ctx context.Context, fixed bson.M, q *repositories.QueryOptions) ([]models.User, error) {
	return s.userRepo.Find(ctx, fixed, q)
}

func (s *UserServiceImpl) Update(ctx context.Context, id string, update bson.M) (*models.User, error) {
	return s.userRepo.UpdateByID(ctx, id, update)
}

func (s *UserServiceImpl) Delete(ctx context.Context, id string) error {
	return s.userRepo.DeleteByID(ctx, id)
}

// UpdateMe обновляет только whitelisted поля профиля. Смена пароля
// идет отдельным маршрутом и здесь отклоняется на уровне хендлера.
func (s *UserServiceImpl) UpdateMe(ctx context.Context, userID primitive.ObjectID, req *dto.UpdateMeRequest, photo string) (*models.User, error) {
	update := bson.M{}
	if req.Name != "" {
		update["name"] = req.Name
	}
	if req.Email != "" {
		update["email"] = normalizeEmail(req.Email)
	}
	if photo != "" {
		update["photo"] = photo
	}

	if len(update) == 0 {
		return s.userRepo.FindByID(ctx, userID.Hex())
	}
	return s.userRepo.UpdateByID(ctx, userID.Hex(), update)
}

// DeleteMe - мягкое удаление: active=false исключает пользователя из
// всех выборок, документ остается
func (s *UserServiceImpl) DeleteMe(ctx context.Context, userID primitive.ObjectID) error {
	return s.userRepo.SetFields(ctx, userID, bson.M{"active": false})
}
