package storage

import (
	"context"
	"io"
)

// Storage - куда складываются обработанные изображения.
// Пути относительные: "users/<file>", "tours/<file>".
type Storage interface {
	Save(ctx context.Context, path string, reader io.Reader) error

	// Delete удаляет файл; отсутствующий файл - не ошибка
	Delete(ctx context.Context, path string) error
}
