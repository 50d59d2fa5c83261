package otp

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"servioBack/internal/models"
)

// RedisStore keeps codes in Redis so verification stays single-use across
// processes. The key TTL doubles as the expiry window; a consumed code keeps
// its record (used flag set) until expiry, so a replayed verify request is
// answered with "already used" rather than "expired".
type RedisStore struct {
	rdb *redis.Client
}

// NewRedisStore creates a store on the given client.
func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func redisKey(bookingID int64, kind Kind) string {
	return fmt.Sprintf("otp:%s:%d", kind, bookingID)
}

var consumeScript = redis.NewScript(`
local code = redis.call('HGET', KEYS[1], 'code')
if not code then
    return 'expired'
end
if code ~= ARGV[1] then
    return 'mismatch'
end
if redis.call('HGET', KEYS[1], 'used') == '1' then
    return 'used'
end
redis.call('HSET', KEYS[1], 'used', '1')
return 'ok'
`)

func (s *RedisStore) Put(ctx context.Context, bookingID int64, kind Kind, code string, ttl time.Duration) error {
	key := redisKey(bookingID, kind)
	pipe := s.rdb.TxPipeline()
	pipe.HSet(ctx, key, "code", code, "used", "0")
	pipe.PExpire(ctx, key, ttl)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *RedisStore) Consume(ctx context.Context, bookingID int64, kind Kind, code string) error {
	res, err := consumeScript.Run(ctx, s.rdb, []string{redisKey(bookingID, kind)}, code).Text()
	if err != nil {
		return err
	}
	switch res {
	case "ok":
		return nil
	case "expired":
		return models.ErrOtpExpired
	case "mismatch":
		return models.ErrOtpMismatch
	case "used":
		return models.ErrOtpUsed
	default:
		return fmt.Errorf("otp: unexpected consume result %q", res)
	}
}
