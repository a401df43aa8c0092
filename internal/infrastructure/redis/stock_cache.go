// Package redis caché de totales disponibles por ítem sobre Redis.
package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/pkg/config"
)

const (
	keyPrefix     = "ledger:available:"
	versionPrefix = "ledger:available-version:"
)

// setIfVersion escribe el total sólo si la versión del ítem no cambió desde la lectura.
// KEYS: total, versión. ARGV: total, versión leída, ttl en ms (0 = sin expiración).
var setIfVersion = goredis.NewScript(`
local current = redis.call('GET', KEYS[2]) or '0'
if current ~= ARGV[2] then
	return 0
end
if tonumber(ARGV[3]) > 0 then
	redis.call('SET', KEYS[1], ARGV[1], 'PX', ARGV[3])
else
	redis.call('SET', KEYS[1], ARGV[1])
end
return 1
`)

var _ inventory.StockCache = (*StockCache)(nil)

// NewClient crea el cliente y verifica la conexión con un PING.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  3 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

// StockCache guarda el total AVAILABLE de cada ítem como string decimal con TTL, junto a un
// contador de versión. Las operaciones del libro incrementan la versión y borran el total
// después de confirmar.
type StockCache struct {
	client goredis.Cmdable
	ttl    time.Duration
}

// NewStockCache construye la caché. ttl <= 0 deja las llaves sin expiración.
func NewStockCache(client goredis.Cmdable, ttl time.Duration) *StockCache {
	return &StockCache{client: client, ttl: ttl}
}

// Key llave del total de un ítem: ledger:available:KIND:id.
func Key(item entity.StockItem) string {
	return keyPrefix + item.String()
}

// VersionKey llave del contador de versión del ítem.
func VersionKey(item entity.StockItem) string {
	return versionPrefix + item.String()
}

// GetTotal lee total y versión en un solo MGET. Sin total es un miss con la versión vigente.
func (c *StockCache) GetTotal(ctx context.Context, item entity.StockItem) (inventory.CachedTotal, error) {
	vals, err := c.client.MGet(ctx, Key(item), VersionKey(item)).Result()
	if err != nil {
		return inventory.CachedTotal{}, fmt.Errorf("redis mget: %w", err)
	}
	var out inventory.CachedTotal
	if len(vals) == 2 {
		if v, ok := vals[1].(string); ok {
			if out.Version, err = strconv.ParseInt(v, 10, 64); err != nil {
				return inventory.CachedTotal{}, fmt.Errorf("redis versión %q: %w", v, err)
			}
		}
		raw, ok := vals[0].(string)
		if !ok {
			return out, nil
		}
		total, err := decimal.NewFromString(raw)
		if err != nil {
			// valor corrupto: se trata como miss y se descarta
			_ = c.client.Del(ctx, Key(item)).Err()
			return out, nil
		}
		out.Total, out.Hit = total, true
	}
	return out, nil
}

// SetTotal escribe el total si la versión del ítem sigue siendo version.
func (c *StockCache) SetTotal(ctx context.Context, item entity.StockItem, total decimal.Decimal, version int64) error {
	ttl := c.ttl.Milliseconds()
	if ttl < 0 {
		ttl = 0
	}
	err := setIfVersion.Run(ctx, c.client,
		[]string{Key(item), VersionKey(item)},
		total.String(), strconv.FormatInt(version, 10), ttl,
	).Err()
	if err != nil && !errors.Is(err, goredis.Nil) {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Invalidate sube la versión de cada ítem y borra sus totales.
func (c *StockCache) Invalidate(ctx context.Context, items ...entity.StockItem) error {
	if len(items) == 0 {
		return nil
	}
	keys := make([]string, 0, len(items))
	for _, it := range items {
		if err := c.client.Incr(ctx, VersionKey(it)).Err(); err != nil {
			return fmt.Errorf("redis incr: %w", err)
		}
		keys = append(keys, Key(it))
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
