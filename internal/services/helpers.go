package services

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson"
)

// normalizeEmail приводит email к каноническому виду перед хранением и поиском
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// mergeUpdate накладывает $set-поля на копию документа через bson
// roundtrip: перезаписываются только присутствующие в update поля.
// Полученный документ валидируется целиком перед записью, поэтому
// частичное обновление не может обойти правила модели.
func mergeUpdate[T any](current *T, update bson.M) (*T, error) {
	merged := *current

	raw, err := bson.Marshal(update)
	if err != nil {
		return nil, err
	}
	if err := bson.Unmarshal(raw, &merged); err != nil {
		return nil, err
	}
	return &merged, nil
}
