package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	dealKeyPrefix = "deal:"
	dealIndexKey  = "deal_ids"
	commentaryKey = "commentary"
)

// RedisStore persists deal states as whole JSON blobs, one key per deal id.
// Every mutation is a full read-modify-write of the deal's state; there is no
// partial update.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(redisURL string) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return &RedisStore{client: client}, nil
}

// NewRedisStoreWithClient wraps an existing Redis client.
func NewRedisStoreWithClient(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func dealKey(dealID string) string {
	return dealKeyPrefix + dealID
}

// LoadDeal fetches one deal's full state. A missing or malformed blob is
// reported as absent, never as an error; the desk starts fresh rather than
// being locked out of its own deal.
func (s *RedisStore) LoadDeal(ctx context.Context, dealID string) (DealState, bool, error) {
	raw, err := s.client.Get(ctx, dealKey(dealID)).Result()
	if err == redis.Nil {
		return DealState{}, false, nil
	}
	if err != nil {
		return DealState{}, false, fmt.Errorf("load deal %s: %w", dealID, err)
	}

	var state DealState
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		log.Printf("store: malformed state for deal %s, starting fresh: %v", dealID, err)
		return DealState{}, false, nil
	}
	return state, true, nil
}

// SaveDeal replaces the deal's entire persisted state.
func (s *RedisStore) SaveDeal(ctx context.Context, state DealState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal deal state: %w", err)
	}
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, dealKey(state.Deal.ID), data, 0)
	pipe.SAdd(ctx, dealIndexKey, state.Deal.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save deal %s: %w", state.Deal.ID, err)
	}
	return nil
}

// ListDeals loads every deal state. Malformed entries are skipped with a log
// line rather than failing the whole listing.
func (s *RedisStore) ListDeals(ctx context.Context) ([]DealState, error) {
	ids, err := s.client.SMembers(ctx, dealIndexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("list deal ids: %w", err)
	}

	states := make([]DealState, 0, len(ids))
	for _, id := range ids {
		state, ok, err := s.LoadDeal(ctx, id)
		if err != nil {
			return nil, err
		}
		if ok {
			states = append(states, state)
		}
	}
	return states, nil
}

// SaveCommentary appends a commentary item to the memory list.
func (s *RedisStore) SaveCommentary(ctx context.Context, item Commentary) error {
	data, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("marshal commentary: %w", err)
	}
	if err := s.client.LPush(ctx, commentaryKey, data).Err(); err != nil {
		return fmt.Errorf("save commentary: %w", err)
	}
	return nil
}

// ListCommentary returns all saved commentary items, newest first.
func (s *RedisStore) ListCommentary(ctx context.Context) ([]Commentary, error) {
	raw, err := s.client.LRange(ctx, commentaryKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list commentary: %w", err)
	}
	items := make([]Commentary, 0, len(raw))
	for _, entry := range raw {
		var item Commentary
		if err := json.Unmarshal([]byte(entry), &item); err != nil {
			log.Printf("store: malformed commentary entry skipped: %v", err)
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

// DeleteAll wipes every deal and commentary item. Used by the explicit
// memory-clear action only.
func (s *RedisStore) DeleteAll(ctx context.Context) error {
	ids, err := s.client.SMembers(ctx, dealIndexKey).Result()
	if err != nil {
		return fmt.Errorf("list deal ids: %w", err)
	}
	pipe := s.client.TxPipeline()
	for _, id := range ids {
		pipe.Del(ctx, dealKey(id))
	}
	pipe.Del(ctx, dealIndexKey)
	pipe.Del(ctx, commentaryKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("clear memory: %w", err)
	}
	return nil
}

// Ping checks Redis reachability.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
