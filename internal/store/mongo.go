package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Mongo implements Store on a mongo.Database.
type Mongo struct {
	db *mongo.Database
}

// NewMongo wraps db. Call EnsureIndexes once at startup.
func NewMongo(db *mongo.Database) *Mongo {
	return &Mongo{db: db}
}

// EnsureIndexes creates the unique indexes the toggle and idempotency
// logic depend on. Idempotency keys are sparse so documents without one
// don't collide.
func (m *Mongo) EnsureIndexes(ctx context.Context) error {
	likePair := mongo.IndexModel{
		Keys:    bson.D{{Key: "comment_id", Value: 1}, {Key: "user_fingerprint", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	votePair := mongo.IndexModel{
		Keys:    bson.D{{Key: "suggestion_id", Value: 1}, {Key: "user_fingerprint", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	idemKey := mongo.IndexModel{
		Keys:    bson.D{{Key: "idempotency_key", Value: 1}},
		Options: options.Index().SetUnique(true).SetSparse(true),
	}

	if _, err := m.db.Collection(Likes).Indexes().CreateOne(ctx, likePair); err != nil {
		return err
	}
	if _, err := m.db.Collection(SuggestionVotes).Indexes().CreateOne(ctx, votePair); err != nil {
		return err
	}
	for _, coll := range []string{Comments, Suggestions} {
		if _, err := m.db.Collection(coll).Indexes().CreateOne(ctx, idemKey); err != nil {
			return err
		}
	}
	return nil
}

func (m *Mongo) Insert(ctx context.Context, collection string, doc interface{}) (string, error) {
	res, err := m.db.Collection(collection).InsertOne(ctx, doc)
	if err != nil {
		return "", err
	}
	return insertedHex(res), nil
}

func (m *Mongo) InsertUnique(ctx context.Context, collection string, doc interface{}) (string, error) {
	res, err := m.db.Collection(collection).InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", ErrDuplicate
		}
		return "", err
	}
	return insertedHex(res), nil
}

func (m *Mongo) Get(ctx context.Context, collection, id string, out interface{}) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	err = m.db.Collection(collection).FindOne(ctx, bson.M{"_id": objectID}).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}

func (m *Mongo) FindOne(ctx context.Context, collection string, filter Filter, out interface{}) error {
	err := m.db.Collection(collection).FindOne(ctx, toBSON(filter)).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}

func (m *Mongo) Find(ctx context.Context, collection string, q Query, out interface{}) error {
	findOptions := options.Find()
	if len(q.Sort) > 0 {
		sortDoc := bson.D{}
		for _, s := range q.Sort {
			order := 1
			if s.Desc {
				order = -1
			}
			sortDoc = append(sortDoc, bson.E{Key: s.Field, Value: order})
		}
		findOptions.SetSort(sortDoc)
	}
	if q.Limit > 0 {
		findOptions.SetLimit(q.Limit)
	}

	cursor, err := m.db.Collection(collection).Find(ctx, toBSON(q.Filter), findOptions)
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	return cursor.All(ctx, out)
}

func (m *Mongo) Count(ctx context.Context, collection string, filter Filter) (int64, error) {
	return m.db.Collection(collection).CountDocuments(ctx, toBSON(filter))
}

func (m *Mongo) UpdateByID(ctx context.Context, collection, id string, patch map[string]interface{}) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	res, err := m.db.Collection(collection).UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{"$set": bson.M(patch)})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *Mongo) IncrementByID(ctx context.Context, collection, id, field string, delta int64) (int64, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return 0, ErrNotFound
	}

	after := options.After
	res := m.db.Collection(collection).FindOneAndUpdate(
		ctx,
		bson.M{"_id": objectID},
		bson.M{"$inc": bson.M{field: delta}},
		&options.FindOneAndUpdateOptions{ReturnDocument: &after},
	)
	var doc bson.M
	if err := res.Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, ErrNotFound
		}
		return 0, err
	}

	value := counterValue(doc[field])
	if value < 0 {
		// Concurrent decrements can undershoot; clamp back to zero.
		_, err := m.db.Collection(collection).UpdateOne(ctx, bson.M{"_id": objectID, field: bson.M{"$lt": 0}}, bson.M{"$set": bson.M{field: int64(0)}})
		if err != nil {
			return 0, err
		}
		value = 0
	}
	return value, nil
}

func (m *Mongo) DeleteByID(ctx context.Context, collection, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	res, err := m.db.Collection(collection).DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *Mongo) DeleteOne(ctx context.Context, collection string, filter Filter) (bool, error) {
	res, err := m.db.Collection(collection).DeleteOne(ctx, toBSON(filter))
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

// toBSON converts a Filter into a bson.M, expanding Range values.
func toBSON(f Filter) bson.M {
	out := bson.M{}
	for key, value := range f {
		if r, ok := value.(Range); ok {
			bounds := bson.M{}
			if r.GTE != nil {
				bounds["$gte"] = r.GTE
			}
			if r.LT != nil {
				bounds["$lt"] = r.LT
			}
			out[key] = bounds
			continue
		}
		out[key] = value
	}
	return out
}

func insertedHex(res *mongo.InsertOneResult) string {
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		return oid.Hex()
	}
	return ""
}

func counterValue(v interface{}) int64 {
	switch n := v.(type) {
	case int32:
		return int64(n)
	case int64:
		return n
	case float64:
		return int64(n)
	}
	return 0
}
