package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/tmuthee9044-rgb/v0-isp-sub002/pkg/apperr"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/pkg/model"
)

const nasColumns = `id, address, secret, name, vendor, active`

// nasStore はNASStoreインターフェースの実装。
type nasStore struct {
	db *sql.DB
}

// NewNASStore は新しいNASStoreを生成する。
func NewNASStore(db *sql.DB) NASStore {
	return &nasStore{db: db}
}

// GetNASByAddress は有効なNASクライアントを送信元アドレスで取得する。
func (s *nasStore) GetNASByAddress(ctx context.Context, address string) (*model.NASClient, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+nasColumns+` FROM nas_clients WHERE address = $1 AND active`, address)

	nas, err := scanNAS(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("nas %s: %w", address, ErrNotFound)
		}
		return nil, apperr.NewDatabaseError("select", "nas_clients", err)
	}
	return nas, nil
}

// ListNAS は有効なNASクライアントの一覧を取得する。
func (s *nasStore) ListNAS(ctx context.Context) ([]model.NASClient, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+nasColumns+` FROM nas_clients WHERE active ORDER BY id`)
	if err != nil {
		return nil, apperr.NewDatabaseError("select", "nas_clients", err)
	}
	defer rows.Close()

	var list []model.NASClient
	for rows.Next() {
		nas, err := scanNAS(rows)
		if err != nil {
			return nil, apperr.NewDatabaseError("scan", "nas_clients", err)
		}
		list = append(list, *nas)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.NewDatabaseError("select", "nas_clients", err)
	}
	return list, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNAS(r rowScanner) (*model.NASClient, error) {
	var (
		nas    model.NASClient
		vendor string
	)
	if err := r.Scan(&nas.ID, &nas.Address, &nas.Secret, &nas.Name, &vendor, &nas.Active); err != nil {
		return nil, err
	}
	// 未知のベンダーはMikroTikとして扱う
	v, ok := model.ParseVendor(vendor)
	if !ok {
		v = model.VendorMikrotik
	}
	nas.Vendor = v
	return &nas, nil
}
