package models

import (
	"encoding/json"
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Location - гео-точка GeoJSON, встроенный под-документ тура.
// Координаты в порядке [longitude, latitude].
type Location struct {
	Type        string    `bson:"type" json:"type"`
	Coordinates []float64 `bson:"coordinates" json:"coordinates"`
	Address     string    `bson:"address,omitempty" json:"address,omitempty"`
	Description string    `bson:"description,omitempty" json:"description,omitempty"`
	Day         int       `bson:"day,omitempty" json:"day,omitempty"`
}

// Tour - документ тура. Локации встроены (owned), гиды - ссылки на User.
type Tour struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name" validate:"required,min=10,max=40"`
	Slug         string             `bson:"slug,omitempty" json:"slug,omitempty"`
	Duration     int                `bson:"duration" json:"duration" validate:"required"`
	MaxGroupSize int                `bson:"maxGroupSize" json:"maxGroupSize" validate:"required"`
	Difficulty   Difficulty         `bson:"difficulty" json:"difficulty" validate:"required,is-difficulty"`

	RatingsAverage  float64 `bson:"ratingsAverage" json:"ratingsAverage" validate:"omitempty,min=1,max=5"`
	RatingsQuantity int     `bson:"ratingsQuantity" json:"ratingsQuantity"`

	Price         float64  `bson:"price" json:"price" validate:"required"`
	PriceDiscount *float64 `bson:"priceDiscount,omitempty" json:"priceDiscount,omitempty" validate:"omitempty,ltfield=Price"`

	Summary     string   `bson:"summary" json:"summary" validate:"required"`
	Description string   `bson:"description,omitempty" json:"description,omitempty"`
	ImageCover  string   `bson:"imageCover" json:"imageCover" validate:"required"`
	Images      []string `bson:"images,omitempty" json:"images,omitempty"`

	StartDates []time.Time `bson:"startDates,omitempty" json:"startDates,omitempty"`

	// Секретные туры не попадают в стандартные выборки
	SecretTour bool `bson:"secretTour" json:"-"`

	StartLocation Location   `bson:"startLocation,omitempty" json:"startLocation,omitempty"`
	Locations     []Location `bson:"locations,omitempty" json:"locations,omitempty"`

	Guides []primitive.ObjectID `bson:"guides,omitempty" json:"-"`

	CreatedAt time.Time `bson:"createdAt" json:"-"`

	// Вычисляемые поля, заполняются на чтении, никогда не сохраняются
	GuideUsers []User   `bson:"-" json:"guides,omitempty"`
	Reviews    []Review `bson:"-" json:"reviews,omitempty"`

	// Заполняется $geoNear
	Distance float64 `bson:"distance,omitempty" json:"distance,omitempty"`
}

// RoundRating приводит средний рейтинг к одному знаку: 4.6666 -> 4.7.
// Вызывается явно на каждом пути записи рейтинга.
func RoundRating(v float64) float64 {
	return math.Round(v*10) / 10
}

// MarshalJSON добавляет производное поле durationWeeks -
// вычисляемое представление, не хранится в БД.
func (t Tour) MarshalJSON() ([]byte, error) {
	type alias Tour
	return json.Marshal(struct {
		alias
		DurationWeeks float64 `json:"durationWeeks"`
	}{
		alias:         alias(t),
		DurationWeeks: float64(t.Duration) / 7,
	})
}
