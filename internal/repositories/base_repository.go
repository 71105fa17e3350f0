package repositories

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CRUDStore - минимальный протокол хранилища, поверх которого работают
// generic CRUD хендлеры. Каждый доменный репозиторий реализует его
// через встраивание BaseRepository.
type CRUDStore[T any] interface {
	Create(ctx context.Context, doc *T) error
	FindByID(ctx context.Context, id string) (*T, error)
	Find(ctx context.Context, filter bson.M, q *QueryOptions) ([]T, error)
	UpdateByID(ctx context.Context, id string, update bson.M) (*T, error)
	DeleteByID(ctx context.Context, id string) error
}

// BaseRepository - generic mongo-репозиторий.
// baseFilter - постоянное условие, добавляемое к каждой выборке
// (soft-delete пользователей, секретные туры). Оно задается явно
// при конструировании, а не навешивается скрытым хуком.
type BaseRepository[T any] struct {
	coll       *mongo.Collection
	baseFilter bson.M
}

func NewBaseRepository[T any](coll *mongo.Collection, baseFilter bson.M) *BaseRepository[T] {
	return &BaseRepository[T]{
		coll:       coll,
		baseFilter: baseFilter,
	}
}

// Collection возвращает underlying коллекцию (для агрегаций)
func (r *BaseRepository[T]) Collection() *mongo.Collection {
	return r.coll
}

// withBase накладывает baseFilter поверх переданного фильтра
func (r *BaseRepository[T]) withBase(filter bson.M) bson.M {
	if len(r.baseFilter) == 0 {
		return filter
	}
	merged := bson.M{}
	for k, v := range r.baseFilter {
		merged[k] = v
	}
	for k, v := range filter {
		merged[k] = v
	}
	return merged
}

// Create вставляет новый документ
func (r *BaseRepository[T]) Create(ctx context.Context, doc *T) error {
	_, err := r.coll.InsertOne(ctx, doc)
	return err
}

// FindByID ищет документ по hex id с учетом baseFilter
func (r *BaseRepository[T]) FindByID(ctx context.Context, id string) (*T, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		// ErrInvalidHex пробрасывается как есть: классифицируется в 400
		return nil, err
	}

	return r.FindOne(ctx, bson.M{"_id": objID})
}

// FindOne ищет один документ по фильтру с учетом baseFilter
func (r *BaseRepository[T]) FindOne(ctx context.Context, filter bson.M) (*T, error) {
	var doc T
	err := r.coll.FindOne(ctx, r.withBase(filter)).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &doc, nil
}

// Find выполняет выборку: fixed filter (вложенный ресурс) + query
// features (фильтр, сортировка, проекция, пагинация) + baseFilter.
// Пустой результат - не ошибка.
func (r *BaseRepository[T]) Find(ctx context.Context, filter bson.M, q *QueryOptions) ([]T, error) {
	if q == nil {
		q = &QueryOptions{Filter: bson.M{}, Limit: defaultLimit}
	}

	merged := r.withBase(q.Filter)
	for k, v := range filter {
		merged[k] = v
	}

	cursor, err := r.coll.Find(ctx, merged, q.FindOptions())
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	docs := []T{}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// UpdateByID выполняет частичное обновление ($set) и возвращает
// обновленный документ
func (r *BaseRepository[T]) UpdateByID(ctx context.Context, id string, update bson.M) (*T, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc T
	err = r.coll.FindOneAndUpdate(ctx, r.withBase(bson.M{"_id": objID}), bson.M{"$set": update}, opts).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &doc, nil
}

// DeleteByID удаляет документ с учетом baseFilter: скрытые
// документы через API не удаляются
func (r *BaseRepository[T]) DeleteByID(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}

	res, err := r.coll.DeleteOne(ctx, r.withBase(bson.M{"_id": objID}))
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
