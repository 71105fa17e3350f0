package repositories

import (
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
)

// Сентинельные ошибки слоя хранения.
// ErrNotFound оборачивает mongo.ErrNoDocuments, чтобы классификация
// ошибок видела исходную причину через errors.Is.
var (
	ErrNotFound = fmt.Errorf("document not found: %w", mongo.ErrNoDocuments)
)
