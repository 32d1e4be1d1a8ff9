package feedback

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Quota gates submissions per fingerprint per calendar day. Allow
// consumes one slot and reports whether the submission may proceed.
type Quota interface {
	Allow(ctx context.Context, kind, fingerprint string) (bool, error)
}

const quotaKeyPrefix = "quota:"

// RedisQuota implements Quota with one atomic INCR per attempt on a
// (kind, fingerprint, day) key that expires at local midnight. The
// check and the count are a single operation, so concurrent submissions
// from the same fingerprint cannot slip past the ceiling.
type RedisQuota struct {
	Client *redis.Client
	// Limits maps submission kind ("comments", "suggestions") to its
	// daily ceiling.
	Limits map[string]int
}

func (q *RedisQuota) Allow(ctx context.Context, kind, fingerprint string) (bool, error) {
	limit, ok := q.Limits[kind]
	if !ok || limit <= 0 {
		return true, nil
	}

	now := time.Now()
	key := fmt.Sprintf("%s%s:%s:%s", quotaKeyPrefix, kind, fingerprint, now.Format("2006-01-02"))

	count, err := q.Client.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}
	if count == 1 {
		// Window closes at local midnight, not 24h from first submission
		midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
		q.Client.Expire(ctx, key, time.Until(midnight))
	}

	return count <= int64(limit), nil
}

// unlimitedQuota is used when no quota backend is configured.
type unlimitedQuota struct{}

func (unlimitedQuota) Allow(ctx context.Context, kind, fingerprint string) (bool, error) {
	return true, nil
}
