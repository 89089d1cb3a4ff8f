package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/tmuthee9044-rgb/v0-isp-sub002/pkg/apperr"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/pkg/model"
)

const credentialColumns = `id, username, password_hash, customer_id, service_id,
	COALESCE(ip_address, ''), COALESCE(ip_pool, ''), download_limit_mbps, upload_limit_mbps,
	session_timeout, idle_timeout, simultaneous_use, expiry_date, status`

// credentialStore はCredentialStoreインターフェースの実装。
type credentialStore struct {
	db *sql.DB
}

// NewCredentialStore は新しいCredentialStoreを生成する。
func NewCredentialStore(db *sql.DB) CredentialStore {
	return &credentialStore{db: db}
}

// GetCredential はユーザー名で認証情報を取得する。
func (s *credentialStore) GetCredential(ctx context.Context, username string) (*model.Credential, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+credentialColumns+` FROM subscriber_credentials WHERE username = $1`, username)

	var (
		c         model.Credential
		serviceID sql.NullInt64
		expiry    sql.NullTime
		status    string
	)
	err := row.Scan(&c.ID, &c.Username, &c.PasswordHash, &c.CustomerID, &serviceID,
		&c.IPAddress, &c.IPPool, &c.DownloadLimitMbps, &c.UploadLimitMbps,
		&c.SessionTimeout, &c.IdleTimeout, &c.SimultaneousUse, &expiry, &status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("credential: %w", ErrNotFound)
		}
		return nil, apperr.NewDatabaseError("select", "subscriber_credentials", err)
	}
	c.ServiceID = nullInt64Ptr(serviceID)
	c.ExpiryDate = nullTimePtr(expiry)
	c.Status = model.CredentialStatus(status)
	return &c, nil
}

// SetCredentialStatus は認証情報の状態を更新する。
func (s *credentialStore) SetCredentialStatus(ctx context.Context, id int64, status model.CredentialStatus) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE subscriber_credentials SET status = $2 WHERE id = $1`, id, string(status))
	if err != nil {
		return apperr.NewDatabaseError("update", "subscriber_credentials", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return apperr.NewDatabaseError("update", "subscriber_credentials", err)
	}
	if n == 0 {
		return fmt.Errorf("credential %d: %w", id, ErrNotFound)
	}
	return nil
}
