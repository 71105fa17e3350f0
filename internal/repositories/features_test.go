package repositories

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestParseQuery_Defaults(t *testing.T) {
	t.Parallel()

	q := ParseQuery(url.Values{})

	assert.Equal(t, bson.M{}, q.Filter)
	assert.Equal(t, int64(0), q.Skip)
	assert.Equal(t, int64(100), q.Limit)
	// Дефолтная сортировка: новые документы первыми
	require.Len(t, q.Sort, 1)
	assert.Equal(t, "createdAt", q.Sort[0].Key)
	assert.Equal(t, -1, q.Sort[0].Value)
}

func TestParseQuery_EqualityFilter(t *testing.T) {
	t.Parallel()

	q := ParseQuery(url.Values{
		"difficulty": []string{"easy"},
	})

	assert.Equal(t, bson.M{"difficulty": "easy"}, q.Filter)
}

func TestParseQuery_ComparisonOperators(t *testing.T) {
	t.Parallel()

	q := ParseQuery(url.Values{
		"duration[gte]": []string{"5"},
		"price[lt]":     []string{"1500"},
	})

	assert.Equal(t, bson.M{"$gte": float64(5)}, q.Filter["duration"])
	assert.Equal(t, bson.M{"$lt": float64(1500)}, q.Filter["price"])
}

func TestParseQuery_CombinedOperatorsOnOneField(t *testing.T) {
	t.Parallel()

	q := ParseQuery(url.Values{
		"price[gte]": []string{"500"},
		"price[lte]": []string{"2000"},
	})

	assert.Equal(t, bson.M{"$gte": float64(500), "$lte": float64(2000)}, q.Filter["price"])
}

func TestParseQuery_ReservedKeysExcludedFromFilter(t *testing.T) {
	t.Parallel()

	q := ParseQuery(url.Values{
		"page":   []string{"2"},
		"sort":   []string{"price"},
		"limit":  []string{"10"},
		"fields": []string{"name"},
		"price":  []string{"997"},
	})

	assert.Equal(t, bson.M{"price": float64(997)}, q.Filter)
}

func TestParseQuery_Sort(t *testing.T) {
	t.Parallel()

	q := ParseQuery(url.Values{
		"sort": []string{"-ratingsAverage,price"},
	})

	require.Len(t, q.Sort, 2)
	assert.Equal(t, "ratingsAverage", q.Sort[0].Key)
	assert.Equal(t, -1, q.Sort[0].Value)
	assert.Equal(t, "price", q.Sort[1].Key)
	assert.Equal(t, 1, q.Sort[1].Value)
}

func TestParseQuery_FieldsProjection(t *testing.T) {
	t.Parallel()

	q := ParseQuery(url.Values{
		"fields": []string{"name,price,ratingsAverage"},
	})

	assert.Equal(t, bson.M{
		"name":           1,
		"price":          1,
		"ratingsAverage": 1,
	}, q.Projection)
}

func TestParseQuery_Pagination(t *testing.T) {
	t.Parallel()

	q := ParseQuery(url.Values{
		"page":  []string{"3"},
		"limit": []string{"10"},
	})

	assert.Equal(t, int64(20), q.Skip)
	assert.Equal(t, int64(10), q.Limit)
}

func TestParseQuery_InvalidPaginationFallsBack(t *testing.T) {
	t.Parallel()

	q := ParseQuery(url.Values{
		"page":  []string{"abc"},
		"limit": []string{"-5"},
	})

	assert.Equal(t, int64(0), q.Skip)
	assert.Equal(t, int64(100), q.Limit)
}

func TestParseQuery_BoolCoercion(t *testing.T) {
	t.Parallel()

	q := ParseQuery(url.Values{
		"paid": []string{"true"},
	})

	assert.Equal(t, bson.M{"paid": true}, q.Filter)
}

func TestQueryOptions_FindOptions(t *testing.T) {
	t.Parallel()

	q := ParseQuery(url.Values{
		"page":   []string{"2"},
		"limit":  []string{"5"},
		"sort":   []string{"price"},
		"fields": []string{"name"},
	})

	opts := q.FindOptions()
	require.NotNil(t, opts)
	assert.Equal(t, int64(5), *opts.Limit)
	assert.Equal(t, int64(5), *opts.Skip)
	assert.NotNil(t, opts.Sort)
	assert.NotNil(t, opts.Projection)
}
