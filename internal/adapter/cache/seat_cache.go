package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/srgjo27/showtime_booking/internal/core/domain"
)

// SeatCache keeps the JSON seat map of each show under seats:<showID>. It is
// a read-through convenience for browsing; the ledger stays authoritative.
type SeatCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewSeatCache(client redis.Cmdable, ttl time.Duration) *SeatCache {
	return &SeatCache{client: client, ttl: ttl}
}

func SeatsKey(showID uuid.UUID) string {
	return fmt.Sprintf("seats:%s", showID.String())
}

func (c *SeatCache) Get(ctx context.Context, showID uuid.UUID) ([]domain.SeatView, bool, error) {
	raw, err := c.client.Get(ctx, SeatsKey(showID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("get seat map: %w", err)
	}

	var seats []domain.SeatView
	if err := json.Unmarshal(raw, &seats); err != nil {
		return nil, false, fmt.Errorf("decode seat map: %w", err)
	}

	return seats, true, nil
}

func (c *SeatCache) Set(ctx context.Context, showID uuid.UUID, seats []domain.SeatView) error {
	raw, err := json.Marshal(seats)
	if err != nil {
		return fmt.Errorf("encode seat map: %w", err)
	}

	if err := c.client.Set(ctx, SeatsKey(showID), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("set seat map: %w", err)
	}

	return nil
}

func (c *SeatCache) Invalidate(ctx context.Context, showID uuid.UUID) error {
	if err := c.client.Del(ctx, SeatsKey(showID)).Err(); err != nil {
		return fmt.Errorf("delete seat map: %w", err)
	}

	return nil
}
