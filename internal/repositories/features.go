package repositories

import (
	"net/url"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Параметры запроса, управляющие выборкой, а не фильтром
var reservedKeys = map[string]bool{
	"page":   true,
	"sort":   true,
	"limit":  true,
	"fields": true,
}

// Операторы сравнения, разрешенные в query string: duration[gte]=5
var comparisonOps = map[string]string{
	"gte": "$gte",
	"gt":  "$gt",
	"lte": "$lte",
	"lt":  "$lt",
}

const (
	defaultPage  = int64(1)
	defaultLimit = int64(100)
)

// QueryOptions - полностью разобранные параметры выборки.
// Порядок применения фиксирован: фильтр -> сортировка -> проекция ->
// пагинация (skip считается по уже отфильтрованному множеству).
type QueryOptions struct {
	Filter     bson.M
	Sort       bson.D
	Projection bson.M
	Skip       int64
	Limit      int64
}

// ParseQuery переводит HTTP query string в параметры mongo-выборки
func ParseQuery(values url.Values) *QueryOptions {
	q := &QueryOptions{
		Filter: bson.M{},
		Skip:   0,
		Limit:  defaultLimit,
	}

	q.parseFilter(values)
	q.parseSort(values.Get("sort"))
	q.parseFields(values.Get("fields"))
	q.parsePagination(values.Get("page"), values.Get("limit"))

	return q
}

// parseFilter собирает фильтр: точные совпадения field=v и операторы
// сравнения field[gte]=v. Служебные ключи пропускаются.
func (q *QueryOptions) parseFilter(values url.Values) {
	for key, vals := range values {
		if len(vals) == 0 || reservedKeys[key] {
			continue
		}

		field, op, hasOp := splitOperatorKey(key)
		if reservedKeys[field] {
			continue
		}

		value := coerceValue(vals[0])

		if !hasOp {
			q.Filter[field] = value
			continue
		}

		mongoOp, ok := comparisonOps[op]
		if !ok {
			continue
		}

		cond, ok := q.Filter[field].(bson.M)
		if !ok {
			cond = bson.M{}
			q.Filter[field] = cond
		}
		cond[mongoOp] = value
	}
}

// parseSort: список полей через запятую, префикс '-' = по убыванию.
// Без sort - стабильный порядок по дате создания (новые первыми).
func (q *QueryOptions) parseSort(raw string) {
	if raw == "" {
		q.Sort = bson.D{{Key: "createdAt", Value: -1}}
		return
	}

	for _, field := range strings.Split(raw, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		dir := 1
		if strings.HasPrefix(field, "-") {
			dir = -1
			field = field[1:]
		}
		q.Sort = append(q.Sort, bson.E{Key: field, Value: dir})
	}
}

// parseFields: inclusion-проекция, _id остается всегда
func (q *QueryOptions) parseFields(raw string) {
	if raw == "" {
		return
	}

	q.Projection = bson.M{}
	for _, field := range strings.Split(raw, ",") {
		field = strings.TrimSpace(strings.TrimPrefix(field, "-"))
		if field == "" {
			continue
		}
		q.Projection[field] = 1
	}
}

func (q *QueryOptions) parsePagination(pageRaw, limitRaw string) {
	page := defaultPage
	if v, err := strconv.ParseInt(pageRaw, 10, 64); err == nil && v > 0 {
		page = v
	}

	limit := defaultLimit
	if v, err := strconv.ParseInt(limitRaw, 10, 64); err == nil && v > 0 {
		limit = v
	}

	q.Skip = (page - 1) * limit
	q.Limit = limit
}

// FindOptions собирает options.Find для mongo-запроса
func (q *QueryOptions) FindOptions() *options.FindOptions {
	opts := options.Find().
		SetSkip(q.Skip).
		SetLimit(q.Limit)

	if len(q.Sort) > 0 {
		opts.SetSort(q.Sort)
	}
	if q.Projection != nil {
		opts.SetProjection(q.Projection)
	}

	return opts
}

// splitOperatorKey разбирает ключ вида "duration[gte]"
func splitOperatorKey(key string) (field, op string, ok bool) {
	open := strings.Index(key, "[")
	if open == -1 || !strings.HasSuffix(key, "]") {
		return key, "", false
	}
	return key[:open], key[open+1 : len(key)-1], true
}

// coerceValue: числовые значения сравниваются как числа, не строки
func coerceValue(raw string) interface{} {
	if n, err := strconv.ParseFloat(raw, 64); err == nil {
		return n
	}
	if raw == "true" || raw == "false" {
		return raw == "true"
	}
	return raw
}
