package radius

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/tmuthee9044-rgb/v0-isp-sub002/pkg/model"
)

type fakeNAS struct {
	nas map[string]*model.NASClient
	err error
}

func (f *fakeNAS) Lookup(_ context.Context, address string) (*model.NASClient, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.nas[address], nil
}

func TestSecretSource(t *testing.T) {
	registered := &fakeNAS{nas: map[string]*model.NASClient{
		"192.168.1.100": {Address: "192.168.1.100", Secret: "found-secret", Active: true},
	}}
	udp := func(ip string) net.Addr { return &net.UDPAddr{IP: net.ParseIP(ip), Port: 1812} }

	tests := []struct {
		name     string
		nas      *fakeNAS
		fallback string
		addr     net.Addr
		want     string
	}{
		{"registered", registered, "fallback", udp("192.168.1.100"), "found-secret"},
		{"unregistered with fallback", registered, "fallback", udp("192.168.1.200"), "fallback"},
		{"unregistered without fallback", registered, "", udp("192.168.1.200"), ""},
		{"lookup error with fallback", &fakeNAS{err: errors.New("db down")}, "fallback", udp("192.168.1.100"), "fallback"},
		{"lookup error without fallback", &fakeNAS{err: errors.New("db down")}, "", udp("192.168.1.100"), ""},
		{"nil addr", registered, "fallback", nil, "fallback"},
		{"tcp addr", registered, "", &net.TCPAddr{IP: net.ParseIP("192.168.1.100"), Port: 1812}, "found-secret"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ss := NewSecretSource(tt.nas, tt.fallback)
			secret, err := ss.RADIUSSecret(context.Background(), tt.addr)
			if err != nil {
				t.Fatalf("予期しないエラー: %v", err)
			}
			if string(secret) != tt.want {
				t.Errorf("secret = %q, want %q", string(secret), tt.want)
			}
			if tt.want == "" && secret != nil {
				t.Errorf("secret = %v, want nil", secret)
			}
		})
	}
}
