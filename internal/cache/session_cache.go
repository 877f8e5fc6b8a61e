package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Dylan-Mejia/QuizAppBCS377/internal/model"
)

const sessionTTL = 10 * time.Minute

// SessionCache keeps hot game sessions in Redis. Writes go through the
// cache after every MongoDB update; a miss falls back to the repository.
type SessionCache interface {
	Set(ctx context.Context, session *model.GameSession) error
	Get(ctx context.Context, id string) (*model.GameSession, error)
	Delete(ctx context.Context, id string) error
}

type sessionCache struct {
	client *redis.Client
}

// NewSessionCache creates a new game session cache
func NewSessionCache(client *redis.Client) SessionCache {
	return &sessionCache{
		client: client,
	}
}

func (c *sessionCache) Set(ctx context.Context, session *model.GameSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, "session:"+session.ID.Hex(), data, sessionTTL).Err()
}

// Get returns the cached session, or nil on a cache miss.
func (c *sessionCache) Get(ctx context.Context, id string) (*model.GameSession, error) {
	data, err := c.client.Get(ctx, "session:"+id).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var session model.GameSession
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *sessionCache) Delete(ctx context.Context, id string) error {
	return c.client.Del(ctx, "session:"+id).Err()
}
