// Copyright (c) 2026 TNS Labs. All rights reserved.
// Author: dev@tnslabs.io

package sync

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
	"github.com/tnslabs/trustns/internal/platform/constants"
)

// RedisCostCache keeps the per-atom stake in Redis so bursts of prepare
// calls do not each hit the getAtomCost view.
type RedisCostCache struct {
	client *redis.Client
}

func NewRedisCostCache(client *redis.Client) *RedisCostCache {
	return &RedisCostCache{client: client}
}

func (cache *RedisCostCache) Get(ctx context.Context) (string, error) {
	value, err := cache.client.Get(ctx, constants.RedisKeyAtomCost).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

func (cache *RedisCostCache) Set(ctx context.Context, costWei string) error {
	return cache.client.Set(ctx, constants.RedisKeyAtomCost, costWei, constants.AtomCostCacheTTL).Err()
}
