package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Review - отзыв на тур. Tour и User - невладеющие ссылки:
// удаление тура не каскадирует на отзывы.
type Review struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Review string             `bson:"review" json:"review" validate:"required"`
	Rating float64            `bson:"rating" json:"rating" validate:"required,min=1,max=5"`

	Tour primitive.ObjectID `bson:"tour" json:"tour"`
	User primitive.ObjectID `bson:"user" json:"user"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`

	// Автор отзыва (name, photo), заполняется на чтении
	UserDoc *User `bson:"-" json:"userDoc,omitempty"`
}
