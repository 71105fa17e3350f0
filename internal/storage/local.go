package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// LocalStorage хранит файлы на локальном диске под basePath.
// Тот же каталог раздается как /img, поэтому сохраненный файл сразу
// доступен по URL.
type LocalStorage struct {
	basePath string
}

// NewLocalStorage создает хранилище и заранее готовит подкаталоги
// для аватарок и картинок туров
func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if basePath == "" {
		basePath = "public/img"
	}

	for _, sub := range []string{"users", "tours"} {
		if err := os.MkdirAll(filepath.Join(basePath, sub), 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir %s: %w", sub, err)
		}
	}

	return &LocalStorage{basePath: basePath}, nil
}

func (s *LocalStorage) Save(_ context.Context, path string, reader io.Reader) error {
	full := filepath.Join(s.basePath, path)

	f, err := os.Create(full)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	if _, err := io.Copy(f, reader); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

func (s *LocalStorage) Delete(_ context.Context, path string) error {
	err := os.Remove(filepath.Join(s.basePath, path))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete %s: %w", path, err)
	}
	return nil
}
