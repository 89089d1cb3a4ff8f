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

const sessionColumns = `session_id, unique_id, username, customer_id, service_id, nas_address,
	nas_port_id, service_type, framed_ip, calling_station_id, called_station_id, start_time,
	last_update, session_time, input_octets, output_octets, input_packets, output_packets`

// sessionStore はSessionStoreインターフェースの実装。
type sessionStore struct {
	db *sql.DB
}

// NewSessionStore は新しいSessionStoreを生成する。
func NewSessionStore(db *sql.DB) SessionStore {
	return &sessionStore{db: db}
}

// UpsertSession はセッションを登録する。
// 同一Acct-Session-IDの再送はlast_updateの更新のみとなり、行が重複しない。
func (s *sessionStore) UpsertSession(ctx context.Context, sess *model.ActiveSession) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO active_sessions (`+sessionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		ON CONFLICT (session_id) DO UPDATE SET last_update = EXCLUDED.last_update`,
		sess.SessionID, sess.UniqueID, sess.Username, sess.CustomerID, int64Arg(sess.ServiceID),
		sess.NASAddress, sess.NASPortID, sess.ServiceType, sess.FramedIPAddress,
		sess.CallingStationID, sess.CalledStationID, sess.StartTime, sess.LastUpdate,
		sess.SessionTime, sess.InputOctets, sess.OutputOctets, sess.InputPackets, sess.OutputPackets)
	if err != nil {
		return apperr.NewDatabaseError("upsert", "active_sessions", err)
	}
	return nil
}

// UpdateCounters はカウンタを後勝ちで更新し、更新前の値を同一文で返す。
func (s *sessionStore) UpdateCounters(ctx context.Context, sessionID string, c model.Counters, framedIP string, now time.Time) (*CounterUpdate, error) {
	row := s.db.QueryRowContext(ctx,
		`WITH prev AS (
			SELECT session_id, session_time, input_octets, output_octets, input_packets, output_packets
			FROM active_sessions WHERE session_id = $1 FOR UPDATE
		)
		UPDATE active_sessions a
		SET session_time = $2, input_octets = $3, output_octets = $4,
			input_packets = $5, output_packets = $6, last_update = $7,
			framed_ip = COALESCE(NULLIF($8, ''), a.framed_ip)
		FROM prev
		WHERE a.session_id = prev.session_id
		RETURNING a.session_id, a.unique_id, a.username, a.customer_id, a.service_id, a.nas_address,
			a.nas_port_id, a.service_type, a.framed_ip, a.calling_station_id, a.called_station_id,
			a.start_time, a.last_update, a.session_time, a.input_octets, a.output_octets,
			a.input_packets, a.output_packets,
			prev.session_time, prev.input_octets, prev.output_octets, prev.input_packets, prev.output_packets`,
		sessionID, c.SessionTime, c.InputOctets, c.OutputOctets, c.InputPackets, c.OutputPackets, now, framedIP)

	var (
		upd       CounterUpdate
		serviceID sql.NullInt64
	)
	dest := append(sessionDest(&upd.Session, &serviceID),
		&upd.Previous.SessionTime, &upd.Previous.InputOctets, &upd.Previous.OutputOctets,
		&upd.Previous.InputPackets, &upd.Previous.OutputPackets)
	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("session %s: %w", sessionID, ErrNotFound)
		}
		return nil, apperr.NewDatabaseError("update", "active_sessions", err)
	}
	upd.Session.ServiceID = nullInt64Ptr(serviceID)
	return &upd, nil
}

// ArchiveSession はセッションをアーカイブへ移動する。
// 読み取り・アーカイブ登録・削除を1トランザクションで行う。
func (s *sessionStore) ArchiveSession(ctx context.Context, sessionID string, final model.Counters, stopTime time.Time, cause string) (*CounterUpdate, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, apperr.NewDatabaseError("begin", "active_sessions", err)
	}
	defer rollback(tx)

	row := tx.QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM active_sessions WHERE session_id = $1 FOR UPDATE`, sessionID)
	active, err := scanSession(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("session %s: %w", sessionID, ErrNotFound)
		}
		return nil, apperr.NewDatabaseError("select", "active_sessions", err)
	}

	archived := model.NewArchivedSession(active, final, stopTime, cause)
	_, err = tx.ExecContext(ctx,
		`INSERT INTO archived_sessions (session_id, unique_id, username, customer_id, service_id,
			nas_address, nas_port_id, service_type, framed_ip, calling_station_id, called_station_id,
			start_time, stop_time, session_time, input_octets, output_octets, input_packets,
			output_packets, terminate_cause)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`,
		archived.SessionID, archived.UniqueID, archived.Username, archived.CustomerID,
		int64Arg(archived.ServiceID), archived.NASAddress, archived.NASPortID, archived.ServiceType,
		archived.FramedIPAddress, archived.CallingStationID, archived.CalledStationID,
		archived.StartTime, archived.StopTime, archived.SessionTime, archived.InputOctets,
		archived.OutputOctets, archived.InputPackets, archived.OutputPackets, archived.TerminateCause)
	if err != nil {
		return nil, apperr.NewDatabaseError("insert", "archived_sessions", err)
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM active_sessions WHERE session_id = $1`, sessionID); err != nil {
		return nil, apperr.NewDatabaseError("delete", "active_sessions", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, apperr.NewDatabaseError("commit", "active_sessions", err)
	}
	return &CounterUpdate{Session: archived.ActiveSession, Previous: active.Counters}, nil
}

// CountActiveByUsername はユーザーのアクティブセッション数を返す。
func (s *sessionStore) CountActiveByUsername(ctx context.Context, username string) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM active_sessions WHERE username = $1`, username).Scan(&n); err != nil {
		return 0, apperr.NewDatabaseError("count", "active_sessions", err)
	}
	return n, nil
}

// ListByNAS はNASのアクティブセッション一覧を返す。
func (s *sessionStore) ListByNAS(ctx context.Context, nasAddress string) ([]model.ActiveSession, error) {
	return s.list(ctx, `SELECT `+sessionColumns+` FROM active_sessions WHERE nas_address = $1 ORDER BY start_time`, nasAddress)
}

// ListByService はサービスのアクティブセッション一覧を返す。
func (s *sessionStore) ListByService(ctx context.Context, serviceID int64) ([]model.ActiveSession, error) {
	return s.list(ctx, `SELECT `+sessionColumns+` FROM active_sessions WHERE service_id = $1 ORDER BY start_time`, serviceID)
}

func (s *sessionStore) list(ctx context.Context, query string, arg any) ([]model.ActiveSession, error) {
	rows, err := s.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, apperr.NewDatabaseError("select", "active_sessions", err)
	}
	defer rows.Close()

	var list []model.ActiveSession
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, apperr.NewDatabaseError("scan", "active_sessions", err)
		}
		list = append(list, *sess)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.NewDatabaseError("select", "active_sessions", err)
	}
	return list, nil
}

// InsertAccountingRecord は課金監査ログを追記する。
func (s *sessionStore) InsertAccountingRecord(ctx context.Context, rec *model.AccountingRecord) error {
	payload := []byte("{}")
	if rec.Payload != nil {
		b, err := json.Marshal(rec.Payload)
		if err != nil {
			return fmt.Errorf("failed to marshal accounting payload: %w", err)
		}
		payload = b
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO accounting_records (status_type, session_id, username, nas_address, payload, received_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		rec.StatusType, rec.SessionID, rec.Username, rec.NASAddress, payload, rec.ReceivedAt)
	if err != nil {
		return apperr.NewDatabaseError("insert", "accounting_records", err)
	}
	return nil
}

func sessionDest(sess *model.ActiveSession, serviceID *sql.NullInt64) []any {
	return []any{
		&sess.SessionID, &sess.UniqueID, &sess.Username, &sess.CustomerID, serviceID,
		&sess.NASAddress, &sess.NASPortID, &sess.ServiceType, &sess.FramedIPAddress,
		&sess.CallingStationID, &sess.CalledStationID, &sess.StartTime, &sess.LastUpdate,
		&sess.SessionTime, &sess.InputOctets, &sess.OutputOctets, &sess.InputPackets, &sess.OutputPackets,
	}
}

func scanSession(r rowScanner) (*model.ActiveSession, error) {
	var (
		sess      model.ActiveSession
		serviceID sql.NullInt64
	)
	if err := r.Scan(sessionDest(&sess, &serviceID)...); err != nil {
		return nil, err
	}
	sess.ServiceID = nullInt64Ptr(serviceID)
	return &sess, nil
}
