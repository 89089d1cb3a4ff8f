// Package radius はNASからのRADIUS UDPパケットを認可・課金エンジンへ橋渡しする。
package radius

import (
	"context"
	"errors"
	"log/slog"
	"net"

	"github.com/tmuthee9044-rgb/v0-isp-sub002/pkg/model"
)

// NASLookup はアドレスから登録済みNASを解決する。未登録の場合はnilを返す。
type NASLookup interface {
	Lookup(ctx context.Context, address string) (*model.NASClient, error)
}

var errNoSourceIP = errors.New("source address has no ip")

// SecretSource は送信元NASの登録SecretをShared Secretとして返す。
// 登録から引けない場合は既定Secretを使い、それも無ければnilを返してパケットを破棄させる。
type SecretSource struct {
	nas      NASLookup
	fallback []byte
}

// NewSecretSource はSecretSourceを生成する。fallbackが空なら既定Secretは使わない。
func NewSecretSource(nas NASLookup, fallback string) *SecretSource {
	s := &SecretSource{nas: nas}
	if fallback != "" {
		s.fallback = []byte(fallback)
	}
	return s
}

// RADIUSSecret はradius.SecretSourceの実装。
func (s *SecretSource) RADIUSSecret(ctx context.Context, remote net.Addr) ([]byte, error) {
	ip := sourceIP(remote)
	secret, err := s.registered(ctx, ip)
	if err != nil {
		slog.Warn("nas secret lookup failed",
			"event_id", "RADIUS_SECRET_ERR",
			"src_ip", ip,
			"error", err,
		)
	}
	if secret != nil {
		return secret, nil
	}
	if s.fallback == nil {
		slog.Warn("no radius secret for source", "event_id", "RADIUS_NO_SECRET", "src_ip", ip)
	}
	return s.fallback, nil
}

func (s *SecretSource) registered(ctx context.Context, ip string) ([]byte, error) {
	if ip == "" {
		return nil, errNoSourceIP
	}
	nas, err := s.nas.Lookup(ctx, ip)
	if err != nil || nas == nil || nas.Secret == "" {
		return nil, err
	}
	return []byte(nas.Secret), nil
}

// sourceIP はNAS識別に使う送信元IPを返す。
func sourceIP(addr net.Addr) string {
	switch a := addr.(type) {
	case nil:
		return ""
	case *net.UDPAddr:
		return a.IP.String()
	}
	host, _, err := net.SplitHostPort(addr.String())
	if err != nil {
		return ""
	}
	return host
}
