package services

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/RoberSamy04/natours/internal/imageprocessor"
	"github.com/RoberSamy04/natours/internal/logger"
	"github.com/RoberSamy04/natours/internal/storage"
	"github.com/RoberSamy04/natours/pkg/apperrors"
)

// UploadService обрабатывает и сохраняет загруженные изображения.
// Все выходные файлы - JPEG фиксированных размеров.
type UploadService interface {
	SaveUserPhoto(ctx context.Context, userID primitive.ObjectID, file io.Reader, oldPhoto string) (string, error)
	SaveTourImages(ctx context.Context, tourID string, cover io.Reader, images []io.Reader) (string, []string, error)
}

type UploadServiceImpl struct {
	processor *imageprocessor.Processor
	storage   storage.Storage
}

func NewUploadService(processor *imageprocessor.Processor, store storage.Storage) UploadService {
	return &UploadServiceImpl{
		processor: processor,
		storage:   store,
	}
}

// SaveUserPhoto ресайзит аватарку в квадрат 500x500 и сохраняет в
// img/users. Возвращает имя файла для записи в профиль.
// Прежняя аватарка (кроме default.jpg) удаляется.
func (s *UploadServiceImpl) SaveUserPhoto(ctx context.Context, userID primitive.ObjectID, file io.Reader, oldPhoto string) (string, error) {
	processed, err := s.processor.Process(file, imageprocessor.SizeUserPhoto)
	if err != nil {
		return "", apperrors.NewBadRequestError("Not an image! Please upload only images")
	}

	filename := fmt.Sprintf("user-%s-%d.jpeg", userID.Hex(), time.Now().Unix())
	if err := s.storage.Save(ctx, fmt.Sprintf("users/%s", filename), processed); err != nil {
		return "", apperrors.Internal(err)
	}

	if oldPhoto != "" && oldPhoto != "default.jpg" {
		if err := s.storage.Delete(ctx, fmt.Sprintf("users/%s", oldPhoto)); err != nil {
			logger.CtxWarn(ctx, "Failed to delete old user photo", "photo", oldPhoto, "error", err)
		}
	}
	return filename, nil
}

// SaveTourImages обрабатывает обложку и кадры галереи тура,
// все в формате 2000x1333
func (s *UploadServiceImpl) SaveTourImages(ctx context.Context, tourID string, cover io.Reader, images []io.Reader) (string, []string, error) {
	stamp := time.Now().Unix()

	coverName := ""
	if cover != nil {
		processed, err := s.processor.Process(cover, imageprocessor.SizeTourCover)
		if err != nil {
			return "", nil, apperrors.NewBadRequestError("Not an image! Please upload only images")
		}
		coverName = fmt.Sprintf("tour-%s-%d-cover.jpeg", tourID, stamp)
		if err := s.storage.Save(ctx, fmt.Sprintf("tours/%s", coverName), processed); err != nil {
			return "", nil, apperrors.Internal(err)
		}
	}

	names := []string{}
	for i, img := range images {
		processed, err := s.processor.Process(img, imageprocessor.SizeTourCover)
		if err != nil {
			return "", nil, apperrors.NewBadRequestError("Not an image! Please upload only images")
		}
		name := fmt.Sprintf("tour-%s-%d-%d.jpeg", tourID, stamp, i+1)
		if err := s.storage.Save(ctx, fmt.Sprintf("tours/%s", name), processed); err != nil {
			return "", nil, apperrors.Internal(err)
		}
		names = append(names, name)
	}

	return coverName, names, nil
}
