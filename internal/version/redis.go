package version

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// RedisKeyPrefix namespaces the counters kept by RedisStrategy.
const RedisKeyPrefix = "predictupload:version:"

// RedisStrategy reserves versions with an atomic INCR on a shared counter,
// so concurrent callers never receive the same number. It is opt-in: the
// counter must be seeded consistently with what storage already holds.
type RedisStrategy struct {
	rdb redis.Cmdable
}

func NewRedisStrategy(rdb redis.Cmdable) *RedisStrategy {
	return &RedisStrategy{rdb: rdb}
}

func (s *RedisStrategy) Name() string { return "redis" }

func (s *RedisStrategy) NextVersion(ctx context.Context, projectID string) (int, error) {
	n, err := s.rdb.Incr(ctx, RedisKeyPrefix+projectID).Result()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}
