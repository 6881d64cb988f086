// Copyright (c) 2026 TNS Labs. All rights reserved.
// Author: dev@tnslabs.io

package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/tnslabs/trustns/internal/platform/constants"
)

// NonceStore persists login nonces. Get returns "" when no nonce is
// outstanding for the address.
type NonceStore interface {
	Set(context context.Context, address, nonce string) error
	Get(context context.Context, address string) (string, error)
	Delete(context context.Context, address string) error
}

// RedisNonceStore keeps nonces in Redis with the login TTL so stale
// challenges expire without bookkeeping.
type RedisNonceStore struct {
	client *redis.Client
}

func NewRedisNonceStore(client *redis.Client) *RedisNonceStore {
	return &RedisNonceStore{client: client}
}

func nonceKey(address string) string {
	return constants.RedisPrefixAuthNonce + strings.ToLower(address)
}

func (store *RedisNonceStore) Set(context context.Context, address, nonce string) error {
	return store.client.Set(context, nonceKey(address), nonce, constants.AuthNonceTTL).Err()
}

func (store *RedisNonceStore) Get(context context.Context, address string) (string, error) {
	value, err := store.client.Get(context, nonceKey(address)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

func (store *RedisNonceStore) Delete(context context.Context, address string) error {
	return store.client.Del(context, nonceKey(address)).Err()
}
