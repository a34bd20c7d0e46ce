package kvstore

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("key not found")

//go:generate mockgen -source=$GOFILE -destination=../fitness/kvstore_mocks_test.go -package=fitness_test

// Store is a string keyed blob store. Get returns ErrNotFound for a missing key.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
