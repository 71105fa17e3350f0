package services

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/gosimple/slug"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/RoberSamy04/natours/internal/models"
	"github.com/RoberSamy04/natours/internal/repositories"
	"github.com/RoberSamy04/natours/internal/validator"
	"github.com/RoberSamy04/natours/pkg/apperrors"
)

// Радиусы Земли для перевода дистанции в радианы $centerSphere
const (
	earthRadiusMiles = 3963.2
	earthRadiusKM    = 6378.1
)

// Множители $geoNear: метры -> мили / километры
const (
	meterToMiles = 0.000621371
	meterToKM    = 0.001
)

type TourService interface {
	Create(ctx context.Context, tour *models.Tour) error
	GetByID(ctx context.Context, id string) (*models.Tour, error)
	GetBySlug(ctx context.Context, slugStr string) (*models.Tour, error)
	Update(ctx context.Context, id string, update bson.M) (*models.Tour, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, fixed bson.M, q *repositories.QueryOptions) ([]models.Tour, error)
	Stats(ctx context.Context) ([]repositories.TourStats, error)
	MonthlyPlan(ctx context.Context, year int) ([]repositories.MonthlyPlanEntry, error)
	ToursWithin(ctx context.Context, distance float64, latlng, unit string) ([]models.Tour, error)
	Distances(ctx context.Context, latlng, unit string) ([]models.Tour, error)
}

type TourServiceImpl struct {
	tourRepo   repositories.TourRepository
	reviewRepo repositories.ReviewRepository
	userRepo   repositories.UserRepository
	validate   *validator.Validator
}

func NewTourService(tourRepo repositories.TourRepository, reviewRepo repositories.ReviewRepository, userRepo repositories.UserRepository) TourService {
	return &TourServiceImpl{
		tourRepo:   tourRepo,
		reviewRepo: reviewRepo,
		userRepo:   userRepo,
		validate:   validator.New(),
	}
}

// Create проставляет slug и createdAt явным шагом перед вставкой
func (s *TourServiceImpl) Create(ctx context.Context, tour *models.Tour) error {
	if tour.ID.IsZero() {
		tour.ID = primitive.NewObjectID()
	}
	tour.Slug = slug.Make(tour.Name)
	tour.CreatedAt = time.Now()
	if tour.RatingsAverage == 0 {
		tour.RatingsAverage = 4.5
	}
	return s.tourRepo.Create(ctx, tour)
}

func (s *TourServiceImpl) GetByID(ctx context.Context, id string) (*models.Tour, error) {
	tour, err := s.tourRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.populateTour(ctx, tour); err != nil {
		return nil, apperrors.Internal(err)
	}
	return tour, nil
}

func (s *TourServiceImpl) GetBySlug(ctx context.Context, slugStr string) (*models.Tour, error) {
	tour, err := s.tourRepo.FindBySlug(ctx, slugStr)
	if err != nil {
		return nil, err
	}
	if err := s.populateTour(ctx, tour); err != nil {
		return nil, apperrors.Internal(err)
	}
	return tour, nil
}

// Update валидирует документ целиком после наложения частичного
// обновления и пересчитывает slug, если меняется название
func (s *TourServiceImpl) Update(ctx context.Context, id string, update bson.M) (*models.Tour, error) {
	current, err := s.tourRepo.FindByID(ctx, id)
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

	if name, ok := update["name"].(string); ok && name != "" {
		update["slug"] = slug.Make(name)
	}
	return s.tourRepo.UpdateByID(ctx, id, update)
}

func (s *TourServiceImpl) Delete(ctx context.Context, id string) error {
	return s.tourRepo.DeleteByID(ctx, id)
}

func (s *TourServiceImpl) List(ctx context.Context, fixed bson.M, q *repositories.QueryOptions) ([]models.Tour, error) {
	return s.tourRepo.Find(ctx, fixed, q)
}

func (s *TourServiceImpl) Stats(ctx context.Context) ([]repositories.TourStats, error) {
	return s.tourRepo.Stats(ctx)
}

func (s *TourServiceImpl) MonthlyPlan(ctx context.Context, year int) ([]repositories.MonthlyPlanEntry, error) {
	return s.tourRepo.MonthlyPlan(ctx, year)
}

// ToursWithin ищет туры в радиусе distance от точки "lat,lng".
// Радиус переводится в радианы делением на радиус Земли в единицах unit.
func (s *TourServiceImpl) ToursWithin(ctx context.Context, distance float64, latlng, unit string) ([]models.Tour, error) {
	lat, lng, err := parseLatLng(latlng)
	if err != nil {
		return nil, err
	}

	radiusDivisor := earthRadiusKM
	if unit == "mi" {
		radiusDivisor = earthRadiusMiles
	}

	return s.tourRepo.FindWithinSphere(ctx, lng, lat, distance/radiusDivisor)
}

// Distances возвращает расстояния от точки до стартовых локаций туров
func (s *TourServiceImpl) Distances(ctx context.Context, latlng, unit string) ([]models.Tour, error) {
	lat, lng, err := parseLatLng(latlng)
	if err != nil {
		return nil, err
	}

	multiplier := meterToKM
	if unit == "mi" {
		multiplier = meterToMiles
	}

	return s.tourRepo.DistancesFrom(ctx, lng, lat, multiplier)
}

// populateTour подгружает документы гидов и отзывы (read-time populate)
func (s *TourServiceImpl) populateTour(ctx context.Context, tour *models.Tour) error {
	if len(tour.Guides) > 0 {
		guides, err := s.userRepo.FindManyByIDs(ctx, tour.Guides)
		if err != nil {
			return err
		}
		tour.GuideUsers = guides
	}

	reviews, err := s.reviewRepo.FindByTour(ctx, tour.ID)
	if err != nil {
		return err
	}
	for i := range reviews {
		user, err := s.userRepo.FindByID(ctx, reviews[i].User.Hex())
		if err == nil {
			reviews[i].UserDoc = user
		}
	}
	tour.Reviews = reviews

	return nil
}

// parseLatLng разбирает параметр пути "lat,lng"
func parseLatLng(latlng string) (lat, lng float64, err error) {
	parts := strings.Split(latlng, ",")
	if len(parts) != 2 {
		return 0, 0, apperrors.NewBadRequestError("Please provide latitude and longitude in the format lat,lng")
	}

	lat, err = strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, apperrors.NewBadRequestError("Please provide latitude and longitude in the format lat,lng")
	}
	lng, err = strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, apperrors.NewBadRequestError("Please provide latitude and longitude in the format lat,lng")
	}

	return lat, lng, nil
}
