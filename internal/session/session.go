package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultTTL       = 24 * 7 * time.Hour
	sessionKeyPrefix = "currentFitnessUser||"
	tokensSetKey     = "currentFitnessUser-tokens"
	tokenLength      = 35
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session expired")
)

// Session only points to the user; the user itself is always read from the roster.
type Session struct {
	Token     string
	UserID    int64
	CreatedAt time.Time
}

//go:generate mockgen -source=$GOFILE -destination=../account/session_mocks_test.go -package=account_test

type Manager interface {
	Create(ctx context.Context, userID int64, createdAt time.Time) (string, error)
	Lookup(ctx context.Context, token string) (Session, error)
	Delete(ctx context.Context, token string) (bool, error)
	ScanAndClean(ctx context.Context) (int, error)
}

func encodeValue(userID int64, createdAt time.Time) string {
	return fmt.Sprintf("%d:%d", userID, createdAt.Unix())
}

func decodeValue(token, value string) (Session, error) {
	userIDStr, createdAtStr, found := strings.Cut(value, ":")
	if !found {
		return Session{}, fmt.Errorf("malformed session value: %q", value)
	}
	userID, err := strconv.ParseInt(userIDStr, 10, 64)
	if err != nil {
		return Session{}, fmt.Errorf("parse session user id: %w", err)
	}
	createdAtUnix, err := strconv.ParseInt(createdAtStr, 10, 64)
	if err != nil {
		return Session{}, fmt.Errorf("parse session created at: %w", err)
	}
	return Session{
		Token:     token,
		UserID:    userID,
		CreatedAt: time.Unix(createdAtUnix, 0),
	}, nil
}

func expired(s Session, ttl time.Duration, now time.Time) bool {
	return now.Sub(s.CreatedAt) > ttl
}
