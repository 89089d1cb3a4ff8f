package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/pkg/apperr"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/pkg/model"
)

const policyColumns = `p.id, p.name, p.monthly_limit_gb, p.soft_cap_gb, p.action,
	p.throttle_download_mbps, p.throttle_upload_mbps, p.burst_enabled, p.burst_download_mbps,
	p.burst_upload_mbps, p.burst_duration_minutes, p.burst_cooldown_minutes,
	p.free_hours_start, p.free_hours_end`

const trackingColumns = `customer_id, service_id, period, total_upload_mb, total_download_mb,
	free_hours_mb, billable_mb, limit_reached, limit_reached_at, throttled, burst_count, last_burst_at`

// carriedBurst は新しい期間の行に前期間までの最終バースト時刻を引き継ぐ。
// 月を跨いでもバースト継続時間とクールダウンが途切れない。
const carriedBurst = `(SELECT max(prev.last_burst_at) FROM fair_use_tracking prev
	WHERE prev.customer_id = $1 AND prev.service_id = $2 AND prev.period < $3)`

// fairUseStore はFairUseStoreインターフェースの実装。
type fairUseStore struct {
	db *sql.DB
}

// NewFairUseStore は新しいFairUseStoreを生成する。
func NewFairUseStore(db *sql.DB) FairUseStore {
	return &fairUseStore{db: db}
}

// GetPolicyForService はサービスのプランに設定されたポリシーを取得する。
// サービス・プラン・ポリシーのいずれかが存在しない場合はErrNotFoundを返す。
func (s *fairUseStore) GetPolicyForService(ctx context.Context, serviceID int64) (*model.FairUsePolicy, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+policyColumns+`
		FROM customer_services s
		JOIN plans pl ON pl.id = s.plan_id
		JOIN fair_use_policies p ON p.id = pl.fair_use_policy_id
		WHERE s.id = $1`, serviceID)

	var (
		p                        model.FairUsePolicy
		action                   string
		durationMin, cooldownMin int
		freeStart, freeEnd       sql.NullInt32
	)
	err := row.Scan(&p.ID, &p.Name, &p.MonthlyLimitGB, &p.SoftCapGB, &action,
		&p.ThrottleDownloadMbps, &p.ThrottleUploadMbps, &p.BurstEnabled, &p.BurstDownloadMbps,
		&p.BurstUploadMbps, &durationMin, &cooldownMin, &freeStart, &freeEnd)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("policy for service %d: %w", serviceID, ErrNotFound)
		}
		return nil, apperr.NewDatabaseError("select", "fair_use_policies", err)
	}
	p.Action = model.FairUseAction(action)
	p.BurstDuration = time.Duration(durationMin) * time.Minute
	p.BurstCooldown = time.Duration(cooldownMin) * time.Minute
	p.FreeHoursStart = nullIntPtr(freeStart)
	p.FreeHoursEnd = nullIntPtr(freeEnd)
	return &p, nil
}

// GetOrCreateTracking は集計行を取得する。存在しない場合はゼロで作成する。
// 作成時のlast_burst_atは前期間から引き継ぐ。
func (s *fairUseStore) GetOrCreateTracking(ctx context.Context, key TrackingKey) (*model.FairUseTracking, error) {
	row := s.db.QueryRowContext(ctx,
		`INSERT INTO fair_use_tracking (customer_id, service_id, period, last_burst_at)
		VALUES ($1, $2, $3, `+carriedBurst+`)
		ON CONFLICT (customer_id, service_id, period) DO UPDATE SET period = EXCLUDED.period
		RETURNING `+trackingColumns,
		key.CustomerID, key.ServiceID, key.Period)
	t, err := scanTracking(row)
	if err != nil {
		return nil, apperr.NewDatabaseError("upsert", "fair_use_tracking", err)
	}
	return t, nil
}

// AddUsage は使用量を加算する。
// 無料時間帯の使用量はfree_hours_mbにのみ計上され、billable_mbには加算されない。
func (s *fairUseStore) AddUsage(ctx context.Context, key TrackingKey, uploadMB, downloadMB decimal.Decimal, freeHours bool) (*model.FairUseTracking, error) {
	total := uploadMB.Add(downloadMB)
	free, billable := decimal.Zero, total
	if freeHours {
		free, billable = total, decimal.Zero
	}

	row := s.db.QueryRowContext(ctx,
		`INSERT INTO fair_use_tracking (customer_id, service_id, period,
			total_upload_mb, total_download_mb, free_hours_mb, billable_mb, last_burst_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, `+carriedBurst+`)
		ON CONFLICT (customer_id, service_id, period) DO UPDATE SET
			total_upload_mb = fair_use_tracking.total_upload_mb + EXCLUDED.total_upload_mb,
			total_download_mb = fair_use_tracking.total_download_mb + EXCLUDED.total_download_mb,
			free_hours_mb = fair_use_tracking.free_hours_mb + EXCLUDED.free_hours_mb,
			billable_mb = fair_use_tracking.billable_mb + EXCLUDED.billable_mb
		RETURNING `+trackingColumns,
		key.CustomerID, key.ServiceID, key.Period,
		uploadMB.String(), downloadMB.String(), free.String(), billable.String())
	t, err := scanTracking(row)
	if err != nil {
		return nil, apperr.NewDatabaseError("upsert", "fair_use_tracking", err)
	}
	return t, nil
}

// MarkLimitReached は上限到達を記録する。
// 条件付き更新のため、同一期間で二度目以降の呼び出しはfalseを返す。
func (s *fairUseStore) MarkLimitReached(ctx context.Context, key TrackingKey, throttled bool, at time.Time) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE fair_use_tracking
		SET limit_reached = TRUE, limit_reached_at = $4, throttled = $5
		WHERE customer_id = $1 AND service_id = $2 AND period = $3 AND NOT limit_reached`,
		key.CustomerID, key.ServiceID, key.Period, at, throttled)
	if err != nil {
		return false, apperr.NewDatabaseError("update", "fair_use_tracking", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, apperr.NewDatabaseError("update", "fair_use_tracking", err)
	}
	return n > 0, nil
}

// RecordBurst はクールダウン経過時のみバースト回数と時刻を記録する。
func (s *fairUseStore) RecordBurst(ctx context.Context, key TrackingKey, at time.Time, cooldown time.Duration) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE fair_use_tracking
		SET burst_count = burst_count + 1, last_burst_at = $4
		WHERE customer_id = $1 AND service_id = $2 AND period = $3
			AND (last_burst_at IS NULL OR last_burst_at <= $5)`,
		key.CustomerID, key.ServiceID, key.Period, at, at.Add(-cooldown))
	if err != nil {
		return false, apperr.NewDatabaseError("update", "fair_use_tracking", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, apperr.NewDatabaseError("update", "fair_use_tracking", err)
	}
	return n > 0, nil
}

// InsertFairUseEvent はフェアユースイベントを追記する。
func (s *fairUseStore) InsertFairUseEvent(ctx context.Context, ev *model.FairUseEvent) error {
	metadata, err := marshalMetadata(ev.Metadata)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO fair_use_events (customer_id, service_id, period, event_type, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		ev.CustomerID, ev.ServiceID, ev.Period, string(ev.Type), metadata, ev.CreatedAt)
	if err != nil {
		return apperr.NewDatabaseError("insert", "fair_use_events", err)
	}
	return nil
}

func scanTracking(r rowScanner) (*model.FairUseTracking, error) {
	var (
		t                    model.FairUseTracking
		reachedAt, lastBurst sql.NullTime
	)
	if err := r.Scan(&t.CustomerID, &t.ServiceID, &t.Period, &t.TotalUploadMB, &t.TotalDownloadMB,
		&t.FreeHoursMB, &t.BillableMB, &t.LimitReached, &reachedAt, &t.Throttled,
		&t.BurstCount, &lastBurst); err != nil {
		return nil, err
	}
	t.LimitReachedAt = nullTimePtr(reachedAt)
	t.LastBurstAt = nullTimePtr(lastBurst)
	return &t, nil
}
