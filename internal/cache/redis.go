package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter compte les tentatives par clé et pose un cooldown quand la limite est atteinte.
type Limiter struct {
	client   *redis.Client
	prefix   string
	max      int
	cooldown time.Duration
}

func NewLimiter(client *redis.Client, prefix string, max int, cooldown time.Duration) *Limiter {
	return &Limiter{client: client, prefix: prefix, max: max, cooldown: cooldown}
}

// Enabled est faux quand Redis n'est pas disponible.
func (l *Limiter) Enabled() bool {
	return l != nil && l.client != nil
}

func (l *Limiter) attemptsKey(key string) string { return l.prefix + "_attempts:" + key }
func (l *Limiter) cooldownKey(key string) string { return l.prefix + "_cooldown:" + key }

// Blocked renvoie le temps restant si la clé est en cooldown, sinon 0.
// Atteindre la limite active le cooldown.
func (l *Limiter) Blocked(ctx context.Context, key string) (time.Duration, error) {
	ttl, err := l.client.TTL(ctx, l.cooldownKey(key)).Result()
	if err != nil {
		return 0, err
	}
	if ttl > 0 {
		return ttl, nil
	}

	attempts, err := l.client.Get(ctx, l.attemptsKey(key)).Int()
	if err != nil && err != redis.Nil {
		return 0, err
	}
	if attempts >= l.max {
		pipe := l.client.TxPipeline()
		pipe.Set(ctx, l.cooldownKey(key), "1", l.cooldown)
		pipe.Del(ctx, l.attemptsKey(key))
		if _, err := pipe.Exec(ctx); err != nil {
			return 0, err
		}
		return l.cooldown, nil
	}
	return 0, nil
}

// Fail enregistre un échec et renvoie le nombre de tentatives restantes.
func (l *Limiter) Fail(ctx context.Context, key string) (int, error) {
	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, l.attemptsKey(key))
	pipe.Expire(ctx, l.attemptsKey(key), l.cooldown)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	remaining := l.max - int(incr.Val())
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

// Reset efface le compteur après une réussite.
func (l *Limiter) Reset(ctx context.Context, key string) error {
	return l.client.Del(ctx, l.attemptsKey(key), l.cooldownKey(key)).Err()
}
