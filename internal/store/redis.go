package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	domain "github.com/donaldgifford/manifest-analyzer/pkg/types"
)

// RedisStore implements Store on Redis. Each analysis is a JSON string at
// <prefix>:analysis:<id>; a sorted set at <prefix>:analyses scores IDs by
// upload time in unix milliseconds.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// RedisOptions configures NewRedisStore.
type RedisOptions struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(ctx context.Context, opts RedisOptions) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}

	return NewRedisStoreFromClient(client, opts.KeyPrefix), nil
}

// NewRedisStoreFromClient wraps an existing client.
func NewRedisStoreFromClient(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "mfa"
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) docKey(id string) string {
	return s.prefix + ":analysis:" + id
}

func (s *RedisStore) indexKey() string {
	return s.prefix + ":analyses"
}

// Close closes the client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// Ping verifies the server is reachable.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Put writes the document and index entry in one transaction.
func (s *RedisStore) Put(ctx context.Context, a *domain.ManifestAnalysis) error {
	if a == nil || a.ManifestID == "" {
		return fmt.Errorf("putting analysis: manifest id is required")
	}

	doc, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("encoding analysis: %w", err)
	}

	_, err = s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, s.docKey(a.ManifestID), doc, 0)
		p.ZAdd(ctx, s.indexKey(), redis.Z{
			Score:  float64(a.UploadTimestamp.UnixMilli()),
			Member: a.ManifestID,
		})
		return nil
	})
	if err != nil {
		return fmt.Errorf("writing analysis: %w", err)
	}
	return nil
}

// Get retrieves an analysis by manifest ID.
func (s *RedisStore) Get(ctx context.Context, id string) (*domain.ManifestAnalysis, error) {
	doc, err := s.client.Get(ctx, s.docKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting analysis: %w", err)
	}
	return decode(doc)
}

// Delete removes an analysis and its index entry.
func (s *RedisStore) Delete(ctx context.Context, id string) (bool, error) {
	var del *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		del = p.Del(ctx, s.docKey(id))
		p.ZRem(ctx, s.indexKey(), id)
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("deleting analysis: %w", err)
	}
	return del.Val() > 0, nil
}

// List reads a page of IDs from the index, newest first, and decodes the
// matching documents into summaries. IDs whose document has vanished are
// skipped.
func (s *RedisStore) List(ctx context.Context, q *ListQuery) ([]domain.ManifestSummary, int, error) {
	nq := q.Normalized()

	total, err := s.client.ZCard(ctx, s.indexKey()).Result()
	if err != nil {
		return nil, 0, fmt.Errorf("counting analyses: %w", err)
	}

	ids, err := s.client.ZRevRange(ctx, s.indexKey(),
		int64(nq.Offset), int64(nq.Offset+nq.Limit-1),
	).Result()
	if err != nil {
		return nil, 0, fmt.Errorf("querying analyses: %w", err)
	}

	out := []domain.ManifestSummary{}
	if len(ids) == 0 {
		return out, int(total), nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.docKey(id)
	}
	docs, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, 0, fmt.Errorf("loading analyses: %w", err)
	}

	for _, d := range docs {
		raw, ok := d.(string)
		if !ok {
			continue
		}
		a, err := decode([]byte(raw))
		if err != nil {
			return nil, 0, err
		}
		out = append(out, a.Summary())
	}

	return out, int(total), nil
}

// DeleteOlderThan removes analyses whose index score is before cutoff.
func (s *RedisStore) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	// Exclusive upper bound: strictly older than cutoff.
	maxScore := "(" + strconv.FormatInt(cutoff.UnixMilli(), 10)

	ids, err := s.client.ZRangeByScore(ctx, s.indexKey(), &redis.ZRangeBy{
		Min: "-inf",
		Max: maxScore,
	}).Result()
	if err != nil {
		return 0, fmt.Errorf("finding old analyses: %w", err)
	}
	if len(ids) == 0 {
		return 0, nil
	}

	keys := make([]string, len(ids))
	members := make([]any, len(ids))
	for i, id := range ids {
		keys[i] = s.docKey(id)
		members[i] = id
	}

	_, err = s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Del(ctx, keys...)
		p.ZRem(ctx, s.indexKey(), members...)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("deleting old analyses: %w", err)
	}
	return len(ids), nil
}

var _ Store = (*RedisStore)(nil)
