// Package rediscache implementa un caché cache-aside sobre Redis para las
// respuestas de reportes. El caché es mejor-esfuerzo: un Redis caído degrada
// a consultar siempre la base, nunca a un error del request.
package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache envoltorio de go-redis con prefijo y TTL fijos.
type Cache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// Config conexión y comportamiento del caché.
type Config struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
	TTL      time.Duration
}

// New conecta a Redis y verifica con un ping. Devuelve error si Redis no
// responde; el caller decide si arranca sin caché.
func New(ctx context.Context, cfg Config) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	prefix := cfg.Prefix
	if prefix == "" {
		prefix = "stocktrack:"
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &Cache{client: client, prefix: prefix, ttl: ttl}, nil
}

// Get deserializa el valor cacheado en dest. Devuelve (false, nil) en miss.
func (c *Cache) Get(ctx context.Context, key string, dest any) (bool, error) {
	data, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("cache get: %w", err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("cache unmarshal: %w", err)
	}
	return true, nil
}

// Set serializa y guarda el valor con el TTL configurado.
func (c *Cache) Set(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache marshal: %w", err)
	}
	if err := c.client.Set(ctx, c.prefix+key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Close cierra la conexión subyacente.
func (c *Cache) Close() error {
	return c.client.Close()
}
