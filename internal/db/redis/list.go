package redis

import (
	"context"
	"fmt"
	"time"
)

// LPush prepends values to a list.
func (s *Store) LPush(ctx context.Context, key string, values ...string) error {
	cmd := s.client.B().Lpush().Key(key).Element(values...).Build()
	if err := s.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("lpush %s: %w", key, err)
	}
	return nil
}

// LTrim keeps only the [start, stop] range of a list.
func (s *Store) LTrim(ctx context.Context, key string, start, stop int64) error {
	cmd := s.client.B().Ltrim().Key(key).Start(start).Stop(stop).Build()
	if err := s.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("ltrim %s: %w", key, err)
	}
	return nil
}

// LRange reads the [start, stop] range of a list.
func (s *Store) LRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	cmd := s.client.B().Lrange().Key(key).Start(start).Stop(stop).Build()
	out, err := s.client.Do(ctx, cmd).AsStrSlice()
	if err != nil {
		return nil, fmt.Errorf("lrange %s: %w", key, err)
	}
	return out, nil
}

// Expire sets a TTL on a key.
func (s *Store) Expire(ctx context.Context, key string, ttl time.Duration) error {
	cmd := s.client.B().Expire().Key(key).Seconds(int64(ttl.Seconds())).Build()
	if err := s.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("expire %s: %w", key, err)
	}
	return nil
}
