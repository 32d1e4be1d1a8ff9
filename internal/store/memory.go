package store

import (
	"context"
	"reflect"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// uniqueKeys mirrors the unique indexes Mongo.EnsureIndexes creates.
// Keys with empty values are treated as sparse and never collide.
var uniqueKeys = map[string][][]string{
	Likes:           {{"comment_id", "user_fingerprint"}},
	SuggestionVotes: {{"suggestion_id", "user_fingerprint"}},
	Comments:        {{"idempotency_key"}},
	Suggestions:     {{"idempotency_key"}},
}

// Memory is an in-memory Store used by tests and by demo mode. Documents
// round-trip through bson so tag handling matches the Mongo
// implementation exactly.
type Memory struct {
	mu          sync.RWMutex
	collections map[string][]bson.M
}

func NewMemory() *Memory {
	return &Memory{collections: make(map[string][]bson.M)}
}

func (m *Memory) Insert(ctx context.Context, collection string, doc interface{}) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.insertLocked(collection, doc)
}

func (m *Memory) InsertUnique(ctx context.Context, collection string, doc interface{}) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	raw, err := toRaw(doc)
	if err != nil {
		return "", err
	}
	for _, keys := range uniqueKeys[collection] {
		if m.violatesLocked(collection, raw, keys) {
			return "", ErrDuplicate
		}
	}
	return m.storeLocked(collection, raw), nil
}

func (m *Memory) Get(ctx context.Context, collection, id string, out interface{}) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, doc := range m.collections[collection] {
		if docID(doc) == id {
			return decodeDoc(doc, out)
		}
	}
	return ErrNotFound
}

func (m *Memory) FindOne(ctx context.Context, collection string, filter Filter, out interface{}) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, doc := range m.collections[collection] {
		if matches(doc, filter) {
			return decodeDoc(doc, out)
		}
	}
	return ErrNotFound
}

func (m *Memory) Find(ctx context.Context, collection string, q Query, out interface{}) error {
	m.mu.RLock()
	matched := make([]bson.M, 0)
	for _, doc := range m.collections[collection] {
		if matches(doc, q.Filter) {
			matched = append(matched, doc)
		}
	}
	m.mu.RUnlock()

	if len(q.Sort) > 0 {
		sort.SliceStable(matched, func(i, j int) bool {
			for _, s := range q.Sort {
				c := compareValues(matched[i][s.Field], matched[j][s.Field])
				if c == 0 {
					continue
				}
				if s.Desc {
					return c > 0
				}
				return c < 0
			}
			return false
		})
	}
	if q.Limit > 0 && int64(len(matched)) > q.Limit {
		matched = matched[:q.Limit]
	}

	return decodeSlice(matched, out)
}

func (m *Memory) Count(ctx context.Context, collection string, filter Filter) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var n int64
	for _, doc := range m.collections[collection] {
		if matches(doc, filter) {
			n++
		}
	}
	return n, nil
}

func (m *Memory) UpdateByID(ctx context.Context, collection, id string, patch map[string]interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	normalized, err := toRaw(bson.M(patch))
	if err != nil {
		return err
	}
	for _, doc := range m.collections[collection] {
		if docID(doc) == id {
			for key, value := range normalized {
				doc[key] = value
			}
			return nil
		}
	}
	return ErrNotFound
}

func (m *Memory) IncrementByID(ctx context.Context, collection, id, field string, delta int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, doc := range m.collections[collection] {
		if docID(doc) == id {
			value := counterValue(doc[field]) + delta
			if value < 0 {
				value = 0
			}
			doc[field] = value
			return value, nil
		}
	}
	return 0, ErrNotFound
}

func (m *Memory) DeleteByID(ctx context.Context, collection, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	docs := m.collections[collection]
	for i, doc := range docs {
		if docID(doc) == id {
			m.collections[collection] = append(docs[:i], docs[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (m *Memory) DeleteOne(ctx context.Context, collection string, filter Filter) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	docs := m.collections[collection]
	for i, doc := range docs {
		if matches(doc, filter) {
			m.collections[collection] = append(docs[:i], docs[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (m *Memory) insertLocked(collection string, doc interface{}) (string, error) {
	raw, err := toRaw(doc)
	if err != nil {
		return "", err
	}
	return m.storeLocked(collection, raw), nil
}

func (m *Memory) storeLocked(collection string, raw bson.M) string {
	if _, ok := raw["_id"]; !ok {
		raw["_id"] = primitive.NewObjectID()
	}
	m.collections[collection] = append(m.collections[collection], raw)
	return docID(raw)
}

func (m *Memory) violatesLocked(collection string, candidate bson.M, keys []string) bool {
	values := make([]interface{}, len(keys))
	for i, key := range keys {
		v := candidate[key]
		if v == nil || v == "" {
			// sparse: absent key never collides
			return false
		}
		values[i] = v
	}
	for _, doc := range m.collections[collection] {
		same := true
		for i, key := range keys {
			if compareValues(doc[key], values[i]) != 0 {
				same = false
				break
			}
		}
		if same {
			return true
		}
	}
	return false
}

// toRaw round-trips a document through bson so tags, omitempty and type
// conversions behave exactly as they would against MongoDB.
func toRaw(doc interface{}) (bson.M, error) {
	data, err := bson.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var raw bson.M
	if err := bson.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func decodeDoc(doc bson.M, out interface{}) error {
	data, err := bson.Marshal(doc)
	if err != nil {
		return err
	}
	return bson.Unmarshal(data, out)
}

// decodeSlice decodes matched documents into out, a pointer to a slice.
func decodeSlice(docs []bson.M, out interface{}) error {
	slice := reflect.ValueOf(out).Elem()
	elemType := slice.Type().Elem()
	result := reflect.MakeSlice(slice.Type(), 0, len(docs))
	for _, doc := range docs {
		elem := reflect.New(elemType)
		if err := decodeDoc(doc, elem.Interface()); err != nil {
			return err
		}
		result = reflect.Append(result, elem.Elem())
	}
	slice.Set(result)
	return nil
}

func docID(doc bson.M) string {
	if oid, ok := doc["_id"].(primitive.ObjectID); ok {
		return oid.Hex()
	}
	return ""
}

func matches(doc bson.M, filter Filter) bool {
	for key, want := range filter {
		have := doc[key]
		if r, ok := want.(Range); ok {
			if r.GTE != nil && compareValues(have, r.GTE) < 0 {
				return false
			}
			if r.LT != nil && compareValues(have, r.LT) >= 0 {
				return false
			}
			continue
		}
		if compareValues(have, want) != 0 {
			return false
		}
	}
	return true
}

// compareValues orders two bson values of the same logical kind, after
// canonicalizing driver types (DateTime vs time.Time, int32 vs int64).
func compareValues(a, b interface{}) int {
	switch av := canonical(a).(type) {
	case string:
		bv, ok := canonical(b).(string)
		if !ok {
			return -1
		}
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		}
		return 0
	case float64:
		bv, ok := canonical(b).(float64)
		if !ok {
			return -1
		}
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		}
		return 0
	case bool:
		bv, ok := canonical(b).(bool)
		if !ok {
			return -1
		}
		if av == bv {
			return 0
		}
		if !av {
			return -1
		}
		return 1
	case timeValue:
		bv, ok := canonical(b).(timeValue)
		if !ok {
			return -1
		}
		switch {
		case av.unixMilli < bv.unixMilli:
			return -1
		case av.unixMilli > bv.unixMilli:
			return 1
		}
		return 0
	case nil:
		if canonical(b) == nil {
			return 0
		}
		return -1
	}
	if reflect.DeepEqual(a, b) {
		return 0
	}
	return -1
}

type timeValue struct{ unixMilli int64 }

func canonical(v interface{}) interface{} {
	switch tv := v.(type) {
	case nil:
		return nil
	case string:
		return tv
	case bool:
		return tv
	case int:
		return float64(tv)
	case int32:
		return float64(tv)
	case int64:
		return float64(tv)
	case float64:
		return tv
	case primitive.ObjectID:
		return tv.Hex()
	case primitive.DateTime:
		return timeValue{unixMilli: int64(tv)}
	}
	if t, ok := v.(interface{ UnixMilli() int64 }); ok {
		return timeValue{unixMilli: t.UnixMilli()}
	}
	return v
}
