package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"assetguard/internal/compliance/models"
	"assetguard/pkg/platform/sentinel"
)

// lastRunKey is a hash holding the latest successful run: field "run" has
// its JSON and field "at" its RanAt in Unix microseconds.
const lastRunKey = "assetguard:runs:last"

// recordIfNewer replaces the stored run unless the stored one is newer, so
// runs that finish out of order never move the last run backwards.
var recordIfNewer = redis.NewScript(`
local at = redis.call('HGET', KEYS[1], 'at')
if at and tonumber(at) > tonumber(ARGV[1]) then
	return 0
end
redis.call('HSET', KEYS[1], 'at', ARGV[1], 'run', ARGV[2])
redis.call('PEXPIRE', KEYS[1], ARGV[3])
return 1
`)

// DefaultTTL is how long a run stays visible when no TTL is configured.
const DefaultTTL = 24 * time.Hour

// RedisStore keeps the last run in Redis so every instance behind a load
// balancer reports the same one.
type RedisStore struct {
	client redis.Cmdable
	ttl    time.Duration
}

// RedisOption configures a RedisStore.
type RedisOption func(*RedisStore)

// WithTTL sets the expiry of the stored run. Zero keeps DefaultTTL.
func WithTTL(ttl time.Duration) RedisOption {
	return func(s *RedisStore) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

func NewRedis(client redis.Cmdable, opts ...RedisOption) *RedisStore {
	s := &RedisStore{client: client, ttl: DefaultTTL}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Record stores run unless a later run is already stored.
func (s *RedisStore) Record(ctx context.Context, run models.RunRecord) error {
	raw, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("marshal run record: %w", err)
	}
	keys := []string{lastRunKey}
	err = recordIfNewer.Run(ctx, s.client, keys, run.RanAt.UnixMicro(), raw, s.ttl.Milliseconds()).Err()
	if err != nil {
		return fmt.Errorf("store run record: %w", err)
	}
	return nil
}

func (s *RedisStore) Last(ctx context.Context) (*models.RunRecord, error) {
	raw, err := s.client.HGet(ctx, lastRunKey, "run").Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("no run recorded: %w", sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load run record: %w", err)
	}
	var run models.RunRecord
	if err := json.Unmarshal(raw, &run); err != nil {
		return nil, fmt.Errorf("decode run record: %w", err)
	}
	return &run, nil
}
