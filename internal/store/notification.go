package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/pkg/apperr"
)

// notificationQueue はNotificationQueueインターフェースの実装。
// 送信予定時刻をスコアとするZSETと、本文を保持するHASHで構成する。
type notificationQueue struct {
	vc *ValkeyClient
}

// NewNotificationQueue は新しいNotificationQueueを生成する。
func NewNotificationQueue(vc *ValkeyClient) NotificationQueue {
	return &notificationQueue{vc: vc}
}

// Enqueue は通知を登録する。
func (q *notificationQueue) Enqueue(ctx context.Context, n *QueuedNotification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	_, err = q.vc.Client().TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZAdd(ctx, KeyNotifyDue, redis.Z{Score: float64(n.DueAt.Unix()), Member: n.ID})
		pipe.HSet(ctx, KeyNotifyPayload, n.ID, payload)
		return nil
	})
	if err != nil {
		return apperr.NewValkeyError("ZADD", KeyNotifyDue, err)
	}
	return nil
}

// Due は送信予定時刻を過ぎた通知を古い順に返す。
// 本文が失われている通知は読み飛ばす。
func (q *notificationQueue) Due(ctx context.Context, now time.Time, limit int64) ([]QueuedNotification, error) {
	ids, err := q.vc.Client().ZRangeByScore(ctx, KeyNotifyDue, &redis.ZRangeBy{
		Min:   "-inf",
		Max:   strconv.FormatInt(now.Unix(), 10),
		Count: limit,
	}).Result()
	if err != nil {
		return nil, apperr.NewValkeyError("ZRANGEBYSCORE", KeyNotifyDue, err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	payloads, err := q.vc.Client().HMGet(ctx, KeyNotifyPayload, ids...).Result()
	if err != nil {
		return nil, apperr.NewValkeyError("HMGET", KeyNotifyPayload, err)
	}

	list := make([]QueuedNotification, 0, len(ids))
	for _, p := range payloads {
		s, ok := p.(string)
		if !ok {
			continue
		}
		var n QueuedNotification
		if err := json.Unmarshal([]byte(s), &n); err != nil {
			continue
		}
		list = append(list, n)
	}
	return list, nil
}

// Claim は通知を取り出す。
// ZREMの結果で排他するため、複数プロセスが同一通知を送信しない。
func (q *notificationQueue) Claim(ctx context.Context, id string) (bool, error) {
	removed, err := q.vc.Client().ZRem(ctx, KeyNotifyDue, id).Result()
	if err != nil {
		return false, apperr.NewValkeyError("ZREM", KeyNotifyDue, err)
	}
	if removed == 0 {
		return false, nil
	}
	if err := q.vc.Client().HDel(ctx, KeyNotifyPayload, id).Err(); err != nil {
		return true, apperr.NewValkeyError("HDEL", KeyNotifyPayload, err)
	}
	return true, nil
}

// Cancel は通知を取り消す。
func (q *notificationQueue) Cancel(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	members := make([]any, len(ids))
	for i, id := range ids {
		members[i] = id
	}
	_, err := q.vc.Client().TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZRem(ctx, KeyNotifyDue, members...)
		pipe.HDel(ctx, KeyNotifyPayload, ids...)
		return nil
	})
	if err != nil {
		return apperr.NewValkeyError("ZREM", KeyNotifyDue, err)
	}
	return nil
}
