// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ventura Contributors

// Package store provides the shared PostgreSQL pool and schema management.
package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/oops"
	"github.com/sethvargo/go-retry"
)

// Connection retry policy. The database is often the last dependency to
// come up in a fresh deployment, so the first pings are allowed to fail.
const (
	connectAttempts = 5
	connectBackoff  = 500 * time.Millisecond
)

// Connect opens a pgx connection pool and verifies it with a ping,
// retrying with exponential backoff. The returned pool is the single
// shared handle injected into every repository; there is no package
// global.
func Connect(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	if databaseURL == "" {
		return nil, oops.Code("DB_CONFIG_INVALID").Errorf("database URL is required")
	}

	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, oops.Code("DB_CONNECT_FAILED").
			With("operation", "create pool").
			Wrap(err)
	}

	backoff := retry.WithMaxRetries(connectAttempts, retry.NewExponential(connectBackoff))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		if pingErr := pool.Ping(ctx); pingErr != nil {
			return retry.RetryableError(pingErr)
		}
		return nil
	})
	if err != nil {
		pool.Close()
		return nil, oops.Code("DB_PING_FAILED").
			With("operation", "ping database").
			Wrap(err)
	}

	return pool, nil
}
