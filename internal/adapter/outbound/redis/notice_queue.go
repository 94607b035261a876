package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/micahbule/payments-via-paymongo-for-woo/internal/model"
	"github.com/micahbule/payments-via-paymongo-for-woo/internal/port/outbound"
	"github.com/redis/go-redis/v9"
)

const noticeKeyPrefix = "checkout:notices:"

const defaultNoticeTTL = 30 * time.Minute

// noticeQueue implements outbound.NoticePort on a Redis list per order.
type noticeQueue struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewNoticeQueue creates a new notice queue adapter. Queued notices expire
// after ttl when the storefront never drains them.
func NewNoticeQueue(client redis.UniversalClient, ttl time.Duration) outbound.NoticePort {
	if ttl <= 0 {
		ttl = defaultNoticeTTL
	}
	return &noticeQueue{client: client, ttl: ttl}
}

func noticeKey(orderID uuid.UUID) string {
	return noticeKeyPrefix + orderID.String()
}

func (q *noticeQueue) Notify(ctx context.Context, orderID uuid.UUID, notice model.Notice) error {
	data, err := json.Marshal(notice)
	if err != nil {
		return fmt.Errorf("marshal notice: %w", err)
	}

	key := noticeKey(orderID)
	pipe := q.client.TxPipeline()
	pipe.RPush(ctx, key, data)
	pipe.Expire(ctx, key, q.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("queue notice: %w", err)
	}
	return nil
}

func (q *noticeQueue) Drain(ctx context.Context, orderID uuid.UUID) ([]model.Notice, error) {
	key := noticeKey(orderID)
	pipe := q.client.TxPipeline()
	rangeCmd := pipe.LRange(ctx, key, 0, -1)
	pipe.Del(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("drain notices: %w", err)
	}

	raw := rangeCmd.Val()
	notices := make([]model.Notice, 0, len(raw))
	for _, item := range raw {
		var n model.Notice
		if err := json.Unmarshal([]byte(item), &n); err != nil {
			continue
		}
		notices = append(notices, n)
	}
	return notices, nil
}

// Compile-time check
var _ outbound.NoticePort = (*noticeQueue)(nil)
