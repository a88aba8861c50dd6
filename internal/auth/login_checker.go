package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

var ErrNotLogged = errors.New("not logged in")

var _ Checker = (*LoginChecker)(nil)
var _ Checker = (*LoginTestChecker)(nil)

type Checker interface {
	Check(ctx context.Context, token string) (*Context, error)
}

type LoginChecker struct {
	ttl         time.Duration
	redisClient *redis.Client
}

func NewLoginChecker(ttl time.Duration, redisClient *redis.Client) *LoginChecker {
	return &LoginChecker{
		ttl:         ttl,
		redisClient: redisClient,
	}
}

// Check resolves the token into the auth context it was issued for.
func (c *LoginChecker) Check(ctx context.Context, token string) (*Context, error) {
	cmd := c.redisClient.Get(ctx, sessionKeyPrefix+token)
	if err := cmd.Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotLogged
		}
		return nil, fmt.Errorf("get session: %w", err)
	}

	var session loginSession
	if err := json.Unmarshal([]byte(cmd.Val()), &session); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}

	if session.expired(c.ttl, time.Now()) {
		return nil, ErrNotLogged
	}

	return &Context{
		ClientID: session.ClientID,
		Token:    token,
		Role:     session.Role,
	}, nil
}
