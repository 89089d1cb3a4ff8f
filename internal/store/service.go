package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/tmuthee9044-rgb/v0-isp-sub002/pkg/apperr"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/pkg/model"
)

const serviceColumns = `s.id, s.customer_id, s.plan_id, s.service_start, s.service_end,
	s.is_active, s.is_suspended, s.is_deleted, s.last_billed_at`

// serviceStore はServiceStoreインターフェースの実装。
type serviceStore struct {
	db *sql.DB
}

// NewServiceStore は新しいServiceStoreを生成する。
func NewServiceStore(db *sql.DB) ServiceStore {
	return &serviceStore{db: db}
}

// GetService はサービスを取得する。
func (s *serviceStore) GetService(ctx context.Context, id int64) (*model.CustomerService, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+serviceColumns+` FROM customer_services s WHERE s.id = $1`, id)
	svc, err := scanService(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("service %d: %w", id, ErrNotFound)
		}
		return nil, apperr.NewDatabaseError("select", "customer_services", err)
	}
	return svc, nil
}

// GetServiceByUsername は認証情報に紐づくサービスを取得する。
func (s *serviceStore) GetServiceByUsername(ctx context.Context, username string) (*model.CustomerService, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+serviceColumns+`
		FROM customer_services s
		JOIN subscriber_credentials c ON c.service_id = s.id
		WHERE c.username = $1`, username)
	svc, err := scanService(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("service for %s: %w", username, ErrNotFound)
		}
		return nil, apperr.NewDatabaseError("select", "customer_services", err)
	}
	return svc, nil
}

// GetPlan はプランを取得する。
func (s *serviceStore) GetPlan(ctx context.Context, id int64) (*model.Plan, error) {
	var (
		p        model.Plan
		policyID sql.NullInt64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, price, cycle_days, download_mbps, upload_mbps, fair_use_policy_id
		FROM plans WHERE id = $1`, id).
		Scan(&p.ID, &p.Name, &p.Price, &p.CycleDays, &p.DownloadMbps, &p.UploadMbps, &policyID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("plan %d: %w", id, ErrNotFound)
		}
		return nil, apperr.NewDatabaseError("select", "plans", err)
	}
	p.FairUsePolicyID = nullInt64Ptr(policyID)
	return &p, nil
}

// GetPayment は入金を取得する。
func (s *serviceStore) GetPayment(ctx context.Context, id int64) (*model.Payment, error) {
	var p model.Payment
	err := s.db.QueryRowContext(ctx,
		`SELECT id, customer_id, amount, paid_at FROM payments WHERE id = $1`, id).
		Scan(&p.ID, &p.CustomerID, &p.Amount, &p.PaidAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("payment %d: %w", id, ErrNotFound)
		}
		return nil, apperr.NewDatabaseError("select", "payments", err)
	}
	return &p, nil
}

// ApplyWindow は利用期間を比較更新する。
// service_endがPrevEndと一致し、かつ削除されていない場合のみ更新し、イベントを同一トランザクションで記録する。
func (s *serviceStore) ApplyWindow(ctx context.Context, upd WindowUpdate, ev model.ServiceEvent) (bool, error) {
	metadata, err := marshalMetadata(ev.Metadata)
	if err != nil {
		return false, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, apperr.NewDatabaseError("begin", "customer_services", err)
	}
	defer rollback(tx)

	var start any
	if upd.Start != nil {
		start = *upd.Start
	}
	res, err := tx.ExecContext(ctx,
		`UPDATE customer_services
		SET service_start = COALESCE($2, service_start), service_end = $3,
			is_active = TRUE, is_suspended = FALSE, last_billed_at = $4
		WHERE id = $1 AND service_end = $5 AND NOT is_deleted`,
		upd.ServiceID, start, upd.End, upd.BilledAt, upd.PrevEnd)
	if err != nil {
		return false, apperr.NewDatabaseError("update", "customer_services", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, apperr.NewDatabaseError("update", "customer_services", err)
	}
	if n == 0 {
		return false, nil
	}

	if err := insertServiceEvent(ctx, tx, ev.ServiceID, ev.Type, metadata, ev.CreatedAt); err != nil {
		return false, err
	}

	if err := tx.Commit(); err != nil {
		return false, apperr.NewDatabaseError("commit", "customer_services", err)
	}
	return true, nil
}

// SuspendExpired は期限切れサービスを一括停止する。
// 停止対象の判定と更新は単一のUPDATE文で行うため、並行実行しても同一サービスを二重に停止しない。
func (s *serviceStore) SuspendExpired(ctx context.Context, now time.Time) ([]SuspendedService, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, apperr.NewDatabaseError("begin", "customer_services", err)
	}
	defer rollback(tx)

	rows, err := tx.QueryContext(ctx,
		`UPDATE customer_services
		SET is_suspended = TRUE
		WHERE service_end < $1 AND is_active AND NOT is_suspended AND NOT is_deleted
		RETURNING id, customer_id, service_end`, now)
	if err != nil {
		return nil, apperr.NewDatabaseError("update", "customer_services", err)
	}

	var suspended []SuspendedService
	for rows.Next() {
		var ss SuspendedService
		if err := rows.Scan(&ss.ID, &ss.CustomerID, &ss.ServiceEnd); err != nil {
			rows.Close()
			return nil, apperr.NewDatabaseError("scan", "customer_services", err)
		}
		suspended = append(suspended, ss)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, apperr.NewDatabaseError("update", "customer_services", err)
	}
	rows.Close()

	for _, ss := range suspended {
		metadata, err := marshalMetadata(map[string]any{
			"reason":      "expired",
			"service_end": ss.ServiceEnd.UTC().Format(time.RFC3339),
		})
		if err != nil {
			return nil, err
		}
		if err := insertServiceEvent(ctx, tx, ss.ID, model.ServiceEventSuspended, metadata, now); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, apperr.NewDatabaseError("commit", "customer_services", err)
	}
	return suspended, nil
}

// SoftDelete はサービスを論理削除する。
func (s *serviceStore) SoftDelete(ctx context.Context, id int64, now time.Time) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, apperr.NewDatabaseError("begin", "customer_services", err)
	}
	defer rollback(tx)

	res, err := tx.ExecContext(ctx,
		`UPDATE customer_services SET is_deleted = TRUE, is_active = FALSE, is_suspended = TRUE
		WHERE id = $1 AND NOT is_deleted`, id)
	if err != nil {
		return false, apperr.NewDatabaseError("update", "customer_services", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, apperr.NewDatabaseError("update", "customer_services", err)
	}
	if n == 0 {
		return false, nil
	}

	if err := insertServiceEvent(ctx, tx, id, model.ServiceEventDeleted, []byte("{}"), now); err != nil {
		return false, err
	}

	if err := tx.Commit(); err != nil {
		return false, apperr.NewDatabaseError("commit", "customer_services", err)
	}
	return true, nil
}

func insertServiceEvent(ctx context.Context, tx *sql.Tx, serviceID int64, typ model.ServiceEventType, metadata []byte, at time.Time) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO service_events (service_id, event_type, metadata, created_at)
		VALUES ($1, $2, $3, $4)`,
		serviceID, string(typ), metadata, at)
	if err != nil {
		return apperr.NewDatabaseError("insert", "service_events", err)
	}
	return nil
}

func scanService(r rowScanner) (*model.CustomerService, error) {
	var (
		svc    model.CustomerService
		billed sql.NullTime
	)
	if err := r.Scan(&svc.ID, &svc.CustomerID, &svc.PlanID, &svc.ServiceStart, &svc.ServiceEnd,
		&svc.IsActive, &svc.IsSuspended, &svc.IsDeleted, &billed); err != nil {
		return nil, err
	}
	svc.LastBilledAt = nullTimePtr(billed)
	return &svc, nil
}

func marshalMetadata(m map[string]any) ([]byte, error) {
	if len(m) == 0 {
		return []byte("{}"), nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal metadata: %w", err)
	}
	return b, nil
}
