package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/RoberSamy04/natours/internal/models"
)

func TestWithBase_MergesIntoIDFilter(t *testing.T) {
	t.Parallel()

	repo := NewBaseRepository[models.Tour](nil, bson.M{"secretTour": bson.M{"$ne": true}})

	objID := primitive.NewObjectID()
	merged := repo.withBase(bson.M{"_id": objID})

	// Условие видимости применяется и к точечным операциям (удаление по id)
	assert.Equal(t, objID, merged["_id"])
	assert.Equal(t, bson.M{"$ne": true}, merged["secretTour"])
}

func TestWithBase_FilterKeysWin(t *testing.T) {
	t.Parallel()

	repo := NewBaseRepository[models.User](nil, bson.M{"active": bson.M{"$ne": false}})

	merged := repo.withBase(bson.M{"active": true})
	assert.Equal(t, true, merged["active"])
}

func TestWithBase_EmptyBaseIsPassthrough(t *testing.T) {
	t.Parallel()

	repo := NewBaseRepository[models.Booking](nil, nil)

	filter := bson.M{"paid": true}
	assert.Equal(t, filter, repo.withBase(filter))
}
