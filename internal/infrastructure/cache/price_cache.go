package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const priceVersionKey = "pricing:version"

// PriceCache caché de consultas de precio con versión global.
// Un PriceCache nil o sin cliente llama siempre al loader.
type PriceCache struct {
	client *redis.Client
	ttl    time.Duration
	now    func() time.Time
}

// NewPriceCache construye la caché. ttl acota la vigencia de cada entrada.
func NewPriceCache(client *redis.Client, ttl time.Duration) *PriceCache {
	return &PriceCache{client: client, ttl: ttl, now: time.Now}
}

// Version devuelve la versión vigente, inicializándola en 1.
func (c *PriceCache) Version(ctx context.Context) (int64, error) {
	if c == nil || c.client == nil {
		return 0, nil
	}
	ver, err := c.client.Get(ctx, priceVersionKey).Int64()
	if errors.Is(err, redis.Nil) || (err == nil && ver <= 0) {
		if err := c.client.SetNX(ctx, priceVersionKey, 1, 0).Err(); err != nil {
			return 0, err
		}
		return c.client.Get(ctx, priceVersionKey).Int64()
	}
	return ver, err
}

// BuildKey arma la clave con la versión vigente.
func (c *PriceCache) BuildKey(ctx context.Context, parts ...string) (string, error) {
	joined := strings.Join(parts, ":")
	if c == nil || c.client == nil {
		return joined, nil
	}
	ver, err := c.Version(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s:%d", joined, ver), nil
}

// FetchJSON lee el valor cacheado o lo carga con loader y lo guarda.
// Los errores del loader no se cachean. Si el loader devuelve validUntil no nulo,
// la entrada vence a más tardar en ese instante; si ya pasó, no se guarda.
func (c *PriceCache) FetchJSON(ctx context.Context, key string, dest interface{}, loader func(context.Context) (interface{}, time.Time, error)) error {
	if loader == nil {
		return errors.New("cache: loader requerido")
	}
	if c != nil && c.client != nil {
		payload, err := c.client.Get(ctx, key).Bytes()
		if err == nil {
			return json.Unmarshal(payload, dest)
		}
		if !errors.Is(err, redis.Nil) {
			return err
		}
	}
	value, validUntil, err := loader(ctx)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if c != nil && c.client != nil {
		if ttl, ok := c.entryTTL(validUntil); ok {
			if err := c.client.Set(ctx, key, raw, ttl).Err(); err != nil {
				return err
			}
		}
	}
	return json.Unmarshal(raw, dest)
}

// entryTTL recorta el TTL configurado a validUntil. ok=false si la entrada ya no vale.
func (c *PriceCache) entryTTL(validUntil time.Time) (time.Duration, bool) {
	if validUntil.IsZero() {
		return c.ttl, true
	}
	left := validUntil.Sub(c.now())
	if left < time.Millisecond {
		return 0, false
	}
	if c.ttl > 0 && c.ttl < left {
		return c.ttl, true
	}
	return left, true
}

// Bump invalida todas las entradas incrementando la versión.
func (c *PriceCache) Bump(ctx context.Context) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Incr(ctx, priceVersionKey).Err()
}
