package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func findIndex(t *testing.T, models []mongo.IndexModel, firstKey string) *mongo.IndexModel {
	t.Helper()
	for i := range models {
		keys, ok := models[i].Keys.(bson.D)
		require.True(t, ok)
		require.NotEmpty(t, keys)
		if keys[0].Key == firstKey {
			return &models[i]
		}
	}
	t.Fatalf("no index starting with key %q", firstKey)
	return nil
}

func isUnique(m *mongo.IndexModel) bool {
	return m.Options != nil && m.Options.Unique != nil && *m.Options.Unique
}

func TestIndexModels_UniqueEmail(t *testing.T) {
	idx := findIndex(t, indexModels()["users"], "email")
	assert.True(t, isUnique(idx))
}

func TestIndexModels_UniqueTourName(t *testing.T) {
	idx := findIndex(t, indexModels()["tours"], "name")
	assert.True(t, isUnique(idx))
}

func TestIndexModels_GeoIndexOnStartLocation(t *testing.T) {
	idx := findIndex(t, indexModels()["tours"], "startLocation")
	keys := idx.Keys.(bson.D)
	assert.Equal(t, "2dsphere", keys[0].Value)
}

func TestIndexModels_OneReviewPerUserAndTour(t *testing.T) {
	idx := findIndex(t, indexModels()["reviews"], "tour")
	keys := idx.Keys.(bson.D)
	require.Len(t, keys, 2)
	assert.Equal(t, "user", keys[1].Key)
	assert.True(t, isUnique(idx))
}
