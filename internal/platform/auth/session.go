package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Session is the server-side half of a login. The JWT only carries its id.
type Session struct {
	ID         string    `json:"sid"`
	UserID     int64     `json:"uid"`
	IssuedAt   time.Time `json:"iat"`
	LastActive time.Time `json:"last_active"`
}

type SessionStore interface {
	// Get returns (nil, nil) for an unknown id.
	Get(ctx context.Context, id string) (*Session, error)
	// Save creates or replaces the record; ttl is a garbage-collection hint only.
	Save(ctx context.Context, s Session, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
}

type RedisSessionStore struct {
	rdb *redis.Client
}

func NewRedisSessionStore(rdb *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{rdb: rdb}
}

func sessionKey(id string) string { return fmt.Sprintf("libris:sess:%s", id) }

func (s *RedisSessionStore) Get(ctx context.Context, id string) (*Session, error) {
	b, err := s.rdb.Get(ctx, sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var sess Session
	if err := json.Unmarshal(b, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

func (s *RedisSessionStore) Save(ctx context.Context, sess Session, ttl time.Duration) error {
	b, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, sessionKey(sess.ID), b, ttl).Err()
}

func (s *RedisSessionStore) Delete(ctx context.Context, id string) error {
	return s.rdb.Del(ctx, sessionKey(id)).Err()
}
