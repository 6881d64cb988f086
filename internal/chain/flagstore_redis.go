// Copyright (c) 2026 TNS Labs. All rights reserved.
// Author: dev@tnslabs.io

package chain

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

const disconnectFlagKey = "chain:manual_disconnect"

// RedisFlagStore persists the manual-disconnect flag in Redis so it
// survives process restarts.
type RedisFlagStore struct {
	client *redis.Client
}

func NewRedisFlagStore(client *redis.Client) *RedisFlagStore {
	return &RedisFlagStore{client: client}
}

func (s *RedisFlagStore) Get(ctx context.Context) (bool, error) {
	value, err := s.client.Get(ctx, disconnectFlagKey).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return value == "1", nil
}

func (s *RedisFlagStore) Set(ctx context.Context, disconnected bool) error {
	value := "0"
	if disconnected {
		value = "1"
	}
	return s.client.Set(ctx, disconnectFlagKey, value, 0).Err()
}
