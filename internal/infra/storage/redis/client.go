// Package redis provides Redis-backed infrastructure for the crawler service.
package redis

import (
	"context"
	"errors"

	redis "github.com/redis/go-redis/v9"
)

// client wraps a go-redis connection.
type client struct {
	conn *redis.Client
}

// Close closes the underlying connection pool.
func (c *client) Close() error {
	return c.conn.Close()
}

// NewClient connects to the Redis server at addr and checks the connection with a PING.
func NewClient(ctx context.Context, addr, username, password string, db int) (*client, error) {
	conn := redis.NewClient(&redis.Options{
		Addr:     addr,
		Username: username,
		Password: password,
		DB:       db,
	})

	if err := conn.Ping(ctx).Err(); err != nil {
		return nil, errors.Join(err, conn.Close())
	}

	return &client{
		conn: conn,
	}, nil
}
