package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Booking - бронирование: ссылки на тур и пользователя плюс оплаченная цена.
// Создается админом/lead-guide вручную или success-редиректом после оплаты.
type Booking struct {
	ID    primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Tour  primitive.ObjectID `bson:"tour" json:"tour"`
	User  primitive.ObjectID `bson:"user" json:"user"`
	Price float64            `bson:"price" json:"price"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	Paid      bool      `bson:"paid" json:"paid"`

	// Тур бронирования, заполняется на чтении
	TourDoc *Tour `bson:"-" json:"tourDoc,omitempty"`
}
