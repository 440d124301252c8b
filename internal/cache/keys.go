package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	storeSlugKeyPrefix   = "store:slug:%s"
	paymentLinkKeyPrefix = "paylink:slug:%s"
	bioKeyPrefix         = "bio:%s"
	userKeyPrefix        = "user:%d"
)

const (
	StoreTTL       = 5 * time.Minute
	PaymentLinkTTL = 5 * time.Minute
	BioTTL         = 10 * time.Minute
	UserTTL        = 5 * time.Minute
)

func StoreKey(slug string) string {
	return fmt.Sprintf(storeSlugKeyPrefix, slug)
}

func PaymentLinkKey(slug string) string {
	return fmt.Sprintf(paymentLinkKeyPrefix, slug)
}

func BioKey(username string) string {
	return fmt.Sprintf(bioKeyPrefix, username)
}

func UserKey(userID uint) string {
	return fmt.Sprintf(userKeyPrefix, userID)
}

// Aside implements the cache-aside pattern: on hit, dest is populated from
// the cached JSON; on miss, load fills dest and the result is cached with
// the given TTL. Cache failures degrade to the loader, never to an error.
func Aside(ctx context.Context, key string, dest any, ttl time.Duration, load func() error) error {
	if client != nil {
		raw, err := client.Get(ctx, key).Result()
		if err == nil {
			if unmarshalErr := json.Unmarshal([]byte(raw), dest); unmarshalErr == nil {
				return nil
			}
			// Corrupt entry; drop it and fall through to the loader.
			client.Del(ctx, key)
		} else if !errors.Is(err, redis.Nil) {
			// Redis unavailable; serve from the loader.
		}
	}

	if err := load(); err != nil {
		return err
	}

	if client != nil {
		if raw, err := json.Marshal(dest); err == nil {
			client.Set(ctx, key, raw, ttl)
		}
	}
	return nil
}

func Invalidate(ctx context.Context, keys ...string) {
	if client != nil && len(keys) > 0 {
		client.Del(ctx, keys...)
	}
}

func InvalidateStore(ctx context.Context, slug string) {
	Invalidate(ctx, StoreKey(slug))
}

func InvalidatePaymentLink(ctx context.Context, slug string) {
	Invalidate(ctx, PaymentLinkKey(slug))
}

func InvalidateBio(ctx context.Context, username string) {
	Invalidate(ctx, BioKey(username))
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}
