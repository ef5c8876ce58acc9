package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
)

const (
	redisGameKey  = "simplechess:game:"
	redisIndexKey = "simplechess:games"
)

// RedisArchive keeps finished games in Redis so several machines can share
// one history.
type RedisArchive struct {
	rdb *redis.Client
}

// NewRedisArchive connects to the server named by a redis:// URL.
func NewRedisArchive(ctx context.Context, redisURL string) (*RedisArchive, error) {
	if strings.TrimSpace(redisURL) == "" {
		return nil, fmt.Errorf("redis url required")
	}
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis url: %w", err)
	}
	return NewRedisArchiveClient(ctx, redis.NewClient(opts))
}

// NewRedisArchiveClient wraps an existing client after checking it answers.
func NewRedisArchiveClient(ctx context.Context, rdb *redis.Client) (*RedisArchive, error) {
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &RedisArchive{rdb: rdb}, nil
}

// Close closes the client.
func (a *RedisArchive) Close() error {
	if a == nil || a.rdb == nil {
		return nil
	}
	return a.rdb.Close()
}

// Save stores rec and adds it to the index.
func (a *RedisArchive) Save(ctx context.Context, rec GameRecord) error {
	if rec.ID == "" {
		return fmt.Errorf("save game: empty id")
	}
	raw, err := json.Marshal(&rec)
	if err != nil {
		return err
	}
	pipe := a.rdb.TxPipeline()
	pipe.Set(ctx, redisGameKey+rec.ID, raw, 0)
	pipe.SAdd(ctx, redisIndexKey, rec.ID)
	_, err = pipe.Exec(ctx)
	return err
}

// Load returns the game with the given ID.
func (a *RedisArchive) Load(ctx context.Context, id string) (GameRecord, error) {
	raw, err := a.rdb.Get(ctx, redisGameKey+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return GameRecord{}, fmt.Errorf("%w: %s", ErrGameNotFound, id)
	}
	if err != nil {
		return GameRecord{}, err
	}
	var rec GameRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return GameRecord{}, err
	}
	return rec, nil
}

// List returns every indexed game, most recent first. Index entries whose
// record has expired or been removed are skipped.
func (a *RedisArchive) List(ctx context.Context) ([]GameRecord, error) {
	ids, err := a.rdb.SMembers(ctx, redisIndexKey).Result()
	if err != nil {
		return nil, err
	}
	games := make([]GameRecord, 0, len(ids))
	for _, id := range ids {
		rec, err := a.Load(ctx, id)
		if errors.Is(err, ErrGameNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		games = append(games, rec)
	}
	sortRecent(games)
	return games, nil
}

// MultiArchive saves to every archive and reads from the first.
type MultiArchive []Archive

func (m MultiArchive) Save(ctx context.Context, rec GameRecord) error {
	var errs []error
	for _, a := range m {
		if err := a.Save(ctx, rec); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m MultiArchive) Load(ctx context.Context, id string) (GameRecord, error) {
	if len(m) == 0 {
		return GameRecord{}, fmt.Errorf("%w: %s", ErrGameNotFound, id)
	}
	return m[0].Load(ctx, id)
}

func (m MultiArchive) List(ctx context.Context) ([]GameRecord, error) {
	if len(m) == 0 {
		return nil, nil
	}
	return m[0].List(ctx)
}
