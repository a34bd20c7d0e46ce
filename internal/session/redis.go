package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/elitefitness/internal/telemetry/metrics"
	"github.com/2beens/elitefitness/internal/telemetry/tracing"
	"github.com/2beens/elitefitness/pkg"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
)

var _ Manager = (*RedisManager)(nil)

type RedisManager struct {
	redisClient *redis.Client
	ttl         time.Duration
	metrics     *metrics.Manager
	// ability to inject random string generator func for tokens (for unit and dev testing)
	RandStringFunc func(s int) (string, error)
	Now            func() time.Time
}

func NewRedisManager(
	ttl time.Duration,
	redisClient *redis.Client,
	metricsManager *metrics.Manager,
) *RedisManager {
	return &RedisManager{
		ttl:            ttl,
		redisClient:    redisClient,
		metrics:        metricsManager,
		RandStringFunc: pkg.GenerateRandomString,
		Now:            time.Now,
	}
}

func (m *RedisManager) Create(ctx context.Context, userID int64, createdAt time.Time) (_ string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "session.redis.create")
	defer tracing.EndSpanWithErrCheck(span, &err)

	token, err := m.RandStringFunc(tokenLength)
	if err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}

	sessionKey := sessionKeyPrefix + token
	if err := m.redisClient.Set(ctx, sessionKey, encodeValue(userID, createdAt), 0).Err(); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}

	// add token to the set of sessions, used by the cleanup
	if err := m.redisClient.SAdd(ctx, tokensSetKey, token).Err(); err != nil {
		return "", fmt.Errorf("register session token: %w", err)
	}

	return token, nil
}

func (m *RedisManager) Lookup(ctx context.Context, token string) (_ Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "session.redis.lookup")
	defer tracing.EndSpanWithErrCheck(span, &err)

	value, err := m.redisClient.Get(ctx, sessionKeyPrefix+token).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Session{}, ErrSessionNotFound
		}
		return Session{}, fmt.Errorf("get session: %w", err)
	}

	s, err := decodeValue(token, value)
	if err != nil {
		return Session{}, err
	}
	if expired(s, m.ttl, m.Now()) {
		return Session{}, ErrSessionExpired
	}

	return s, nil
}

func (m *RedisManager) Delete(ctx context.Context, token string) (_ bool, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "session.redis.delete")
	defer tracing.EndSpanWithErrCheck(span, &err)

	deleted, err := m.redisClient.Del(ctx, sessionKeyPrefix+token).Result()
	if err != nil {
		return false, fmt.Errorf("delete session: %w", err)
	}

	// remove token from the set of sessions
	if err := m.redisClient.SRem(ctx, tokensSetKey, token).Err(); err != nil {
		return false, fmt.Errorf("unregister session token: %w", err)
	}

	return deleted > 0, nil
}

// ScanAndClean will run through all sessions, check the TTL, and clean them if old
func (m *RedisManager) ScanAndClean(ctx context.Context) (int, error) {
	sessionTokens, err := m.redisClient.SMembers(ctx, tokensSetKey).Result()
	if err != nil {
		return 0, fmt.Errorf("get sessions: %w", err)
	}

	if len(sessionTokens) == 0 {
		log.Debugln("=> sessions, scan and clean abort, no sessions")
		return 0, nil
	}

	log.Debugf("=> sessions, scan and clean [%d sessions] start ...", len(sessionTokens))
	now := m.Now()
	var toRemove []string
	for _, token := range sessionTokens {
		value, err := m.redisClient.Get(ctx, sessionKeyPrefix+token).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				// dangling token, the session key is already gone
				toRemove = append(toRemove, token)
				continue
			}
			log.Errorf("=> sessions, scan and clean token %s: %s", token, err)
			continue
		}

		s, err := decodeValue(token, value)
		if err != nil {
			log.Errorf("=> sessions, scan and clean token %s: %s", token, err)
			toRemove = append(toRemove, token)
			continue
		}

		if expired(s, m.ttl, now) {
			toRemove = append(toRemove, token)
		}
	}

	cleaned := 0
	for _, token := range toRemove {
		if err := m.redisClient.Del(ctx, sessionKeyPrefix+token).Err(); err != nil {
			log.Errorf("=> sessions, clean token %s: %s", token, err)
			continue
		}
		if err := m.redisClient.SRem(ctx, tokensSetKey, token).Err(); err != nil {
			log.Errorf("=> sessions, clean token %s: %s", token, err)
			continue
		}
		cleaned++
	}

	if m.metrics != nil {
		m.metrics.CounterSessionsCleaned.Add(float64(cleaned))
	}
	log.Debugf("=> sessions, scan and clean done, cleaned %d", cleaned)

	return cleaned, nil
}
