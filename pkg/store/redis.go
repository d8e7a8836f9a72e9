package store

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisPrefix is the key prefix used when RedisConfig.Prefix is empty.
const DefaultRedisPrefix = "untangle:"

// RedisConfig configures a RedisStore.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// RedisStore keeps each save in a hash at <prefix>save:<id>. A sorted set
// at <prefix>saves indexes the IDs by creation time.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore connects to Redis and checks the connection.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	err := retry(ctx, connectAttempts, connectDelay, func() error {
		return transient(client.Ping(ctx).Err())
	})
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return newRedisStore(client, cfg.Prefix), nil
}

func newRedisStore(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) saveKey(id string) string { return s.prefix + "save:" + id }
func (s *RedisStore) indexKey() string         { return s.prefix + "saves" }

func (s *RedisStore) Put(ctx context.Context, e Entry, data []byte) (Entry, error) {
	e, err := prepare(e, data)
	if err != nil {
		return Entry{}, err
	}
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		key := s.saveKey(e.ID)
		pipe.Del(ctx, key)
		pipe.HSet(ctx, key,
			"name", e.Name,
			"level_number", e.LevelNumber,
			"created_at", e.CreatedAt.UnixNano(),
			"size", e.Size,
			"data", data,
		)
		pipe.ZAdd(ctx, s.indexKey(), redis.Z{
			Score:  float64(e.CreatedAt.UnixMilli()),
			Member: e.ID,
		})
		return nil
	})
	if err != nil {
		return Entry{}, fmt.Errorf("redis put: %w", err)
	}
	return e, nil
}

func (s *RedisStore) Get(ctx context.Context, id string) ([]byte, Entry, error) {
	fields, err := s.client.HGetAll(ctx, s.saveKey(id)).Result()
	if err != nil {
		return nil, Entry{}, fmt.Errorf("redis get: %w", err)
	}
	if len(fields) == 0 {
		return nil, Entry{}, notFound(id)
	}
	e, err := parseRedisEntry(id, fields["name"], fields["level_number"], fields["created_at"], fields["size"])
	if err != nil {
		return nil, Entry{}, err
	}
	return []byte(fields["data"]), e, nil
}

func (s *RedisStore) List(ctx context.Context) ([]Entry, error) {
	ids, err := s.client.ZRevRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis list: %w", err)
	}

	cmds := make([]*redis.SliceCmd, len(ids))
	_, err = s.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, id := range ids {
			cmds[i] = pipe.HMGet(ctx, s.saveKey(id), "name", "level_number", "created_at", "size")
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("redis list: %w", err)
	}

	out := make([]Entry, 0, len(ids))
	for i, cmd := range cmds {
		vals := cmd.Val()
		if len(vals) != 4 || vals[2] == nil {
			// Index entry without a hash; skip it.
			continue
		}
		e, err := parseRedisEntry(ids[i], asString(vals[0]), asString(vals[1]), asString(vals[2]), asString(vals[3]))
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	slices.SortFunc(out, newestFirst)
	return out, nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	var del *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		del = pipe.Del(ctx, s.saveKey(id))
		pipe.ZRem(ctx, s.indexKey(), id)
		return nil
	})
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("redis delete: %w", err)
	}
	if del.Val() == 0 {
		return notFound(id)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func asString(v any) string {
	str, _ := v.(string)
	return str
}

func parseRedisEntry(id, name, level, created, size string) (Entry, error) {
	e := Entry{ID: id, Name: name}
	var err error
	if e.LevelNumber, err = strconv.Atoi(level); err != nil {
		return Entry{}, fmt.Errorf("redis save %s: bad level_number: %w", id, err)
	}
	nanos, err := strconv.ParseInt(created, 10, 64)
	if err != nil {
		return Entry{}, fmt.Errorf("redis save %s: bad created_at: %w", id, err)
	}
	e.CreatedAt = time.Unix(0, nanos).UTC()
	if e.Size, err = strconv.Atoi(size); err != nil {
		return Entry{}, fmt.Errorf("redis save %s: bad size: %w", id, err)
	}
	return e, nil
}

var _ Store = (*RedisStore)(nil)
