// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"tailwindplay/internal/recent"
)

// maxUpdateAttempts bounds optimistic retries when a watched key changes
// under an Update.
const maxUpdateAttempts = 50

// DefaultKVTTL keeps a visitor's recent list for a month of inactivity.
const DefaultKVTTL = 30 * 24 * time.Hour

// KV implements recent.KV on Valkey. Every failure is reported as
// recent.ErrStorageUnavailable.
type KV struct {
	client *redis.Client
	ttl    time.Duration
}

var (
	_ recent.KV      = (*KV)(nil)
	_ recent.Updater = (*KV)(nil)
)

// NewKV creates a KV whose keys expire after ttl (0 uses DefaultKVTTL).
func NewKV(client *redis.Client, ttl time.Duration) *KV {
	if ttl == 0 {
		ttl = DefaultKVTTL
	}
	return &KV{client: client, ttl: ttl}
}

func (k *KV) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := k.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("%w: get %s: %v", recent.ErrStorageUnavailable, key, err)
	}
	return val, true, nil
}

func (k *KV) Set(ctx context.Context, key, value string) error {
	if err := k.client.Set(ctx, key, value, k.ttl).Err(); err != nil {
		return fmt.Errorf("%w: set %s: %v", recent.ErrStorageUnavailable, key, err)
	}
	return nil
}

func (k *KV) Clear(ctx context.Context, key string) error {
	if err := k.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("%w: clear %s: %v", recent.ErrStorageUnavailable, key, err)
	}
	return nil
}

// Update reads key, applies fn and writes the result in a WATCH/MULTI
// transaction, retrying when another client changed the key meanwhile.
func (k *KV) Update(ctx context.Context, key string, fn func(string, bool) (string, error)) error {
	txf := func(tx *redis.Tx) error {
		val, err := tx.Get(ctx, key).Result()
		ok := true
		if errors.Is(err, redis.Nil) {
			ok, err = false, nil
		}
		if err != nil {
			return err
		}
		next, err := fn(val, ok)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, next, k.ttl)
			return nil
		})
		return err
	}

	for range maxUpdateAttempts {
		err := k.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return fmt.Errorf("%w: update %s: %v", recent.ErrStorageUnavailable, key, err)
		}
		return nil
	}
	return fmt.Errorf("%w: update %s: too many concurrent writers", recent.ErrStorageUnavailable, key)
}
