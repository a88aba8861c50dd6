package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/fitcoach/internal/telemetry/tracing"
	"github.com/2beens/fitcoach/pkg"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const (
	DefaultTTL       = 24 * 7 * time.Hour
	sessionKeyPrefix = "fitcoach-session||"
	tokensSetKey     = "fitcoach-sessions"
)

var ErrWrongPassword = errors.New("wrong username or password")

//go:generate mockgen -source=$GOFILE -destination=service_mocks_test.go -package=auth

type accountsRepo interface {
	GetByUsername(ctx context.Context, username string) (*Account, error)
}

type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginSession struct {
	ClientID  int64  `json:"clientId"`
	Role      string `json:"role"`
	CreatedAt int64  `json:"createdAt"`
}

func (s loginSession) expired(ttl time.Duration, now time.Time) bool {
	return now.Sub(time.Unix(s.CreatedAt, 0)) > ttl
}

type Service struct {
	accounts    accountsRepo
	redisClient *redis.Client
	ttl         time.Duration
	// ability to inject random string generator func for tokens (for unit and dev testing)
	RandStringFunc func(s int) (string, error)
}

func NewAuthService(
	accounts accountsRepo,
	ttl time.Duration,
	redisClient *redis.Client,
) *Service {
	return &Service{
		accounts:       accounts,
		ttl:            ttl,
		redisClient:    redisClient,
		RandStringFunc: pkg.GenerateRandomString,
	}
}

func (as *Service) Login(ctx context.Context, creds Credentials, createdAt time.Time) (_ *Context, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.auth.login")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	account, err := as.accounts.GetByUsername(ctx, creds.Username)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return nil, ErrWrongPassword
		}
		return nil, fmt.Errorf("get account: %w", err)
	}

	if !pkg.CheckPasswordHash(creds.Password, account.PasswordHash) {
		return nil, ErrWrongPassword
	}
	span.SetAttributes(attribute.Int64("client.id", account.ID))

	token, err := as.RandStringFunc(35)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	sessionJson, err := json.Marshal(loginSession{
		ClientID:  account.ID,
		Role:      account.Role,
		CreatedAt: createdAt.Unix(),
	})
	if err != nil {
		return nil, fmt.Errorf("marshal session: %w", err)
	}

	if err := as.redisClient.Set(ctx, sessionKeyPrefix+token, string(sessionJson), as.ttl).Err(); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}

	// add token to list of sessions
	if err := as.redisClient.SAdd(ctx, tokensSetKey, token).Err(); err != nil {
		return nil, fmt.Errorf("add session token: %w", err)
	}

	return &Context{
		ClientID: account.ID,
		Token:    token,
		Role:     account.Role,
	}, nil
}

func (as *Service) Logout(ctx context.Context, token string) (bool, error) {
	sessionKey := sessionKeyPrefix + token
	deleted, err := as.redisClient.Del(ctx, sessionKey).Result()
	if err != nil {
		return false, err
	}

	// remove token from the list of sessions
	if err := as.redisClient.SRem(ctx, tokensSetKey, token).Err(); err != nil {
		return false, err
	}

	return deleted > 0, nil
}

// ScanAndClean will run through all sessions, check the TTL, and clean them if old
func (as *Service) ScanAndClean(ctx context.Context) {
	cmd := as.redisClient.SMembers(ctx, tokensSetKey)
	if err := cmd.Err(); err != nil {
		log.Errorf("auth service, scan and clean, get sessions: %s", err)
		return
	}

	sessionTokens := cmd.Val()
	if len(sessionTokens) == 0 {
		log.Debugln("auth service, scan and clean abort, no sessions")
		return
	}

	log.Debugf("auth service, scan and clean [%d sessions] start ...", len(sessionTokens))
	now := time.Now()
	var toRemove []string
	for _, token := range sessionTokens {
		val, err := as.redisClient.Get(ctx, sessionKeyPrefix+token).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				// already expired in redis
				toRemove = append(toRemove, token)
				continue
			}
			log.Errorf("auth service, scan and clean token %s: %s", token, err)
			continue
		}

		var session loginSession
		if err := json.Unmarshal([]byte(val), &session); err != nil {
			log.Errorf("auth service, scan and clean token %s: %s", token, err)
			toRemove = append(toRemove, token)
			continue
		}

		if session.expired(as.ttl, now) {
			toRemove = append(toRemove, token)
		}
	}

	for _, token := range toRemove {
		if err := as.redisClient.Del(ctx, sessionKeyPrefix+token).Err(); err != nil {
			log.Errorf("auth service, clean token %s: %s", token, err)
			continue
		}
		if err := as.redisClient.SRem(ctx, tokensSetKey, token).Err(); err != nil {
			log.Errorf("auth service, clean token %s: %s", token, err)
			continue
		}
	}
}
