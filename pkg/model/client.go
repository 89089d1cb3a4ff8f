package model

import "strings"

// Vendor はNAS機器のベンダー種別を表す。
// 取りうる値は VendorMikrotik / VendorUbiquiti / VendorJuniper の3種のみ。
type Vendor string

const (
	// VendorMikrotik はMikroTik RouterOS
	VendorMikrotik Vendor = "mikrotik"
	// VendorUbiquiti はUbiquiti EdgeOS/UniFi
	VendorUbiquiti Vendor = "ubiquiti"
	// VendorJuniper はJuniper Junos (BNG)
	VendorJuniper Vendor = "juniper"
)

// ParseVendor は文字列をVendorに変換する。
// 未知のベンダー名の場合はfalseを返す。
func ParseVendor(s string) (Vendor, bool) {
	switch Vendor(strings.ToLower(strings.TrimSpace(s))) {
	case VendorMikrotik:
		return VendorMikrotik, true
	case VendorUbiquiti:
		return VendorUbiquiti, true
	case VendorJuniper:
		return VendorJuniper, true
	}
	return "", false
}

// NASClient はNAS（Network Access Server）の登録情報を表す。
// テーブル: nas_clients
type NASClient struct {
	ID      int64  `json:"id"`      // 識別子
	Address string `json:"address"` // NAS IPアドレス（有効なNAS間で一意）
	Secret  string `json:"-"`       // 共有シークレット（AAA検証以外に出さない）
	Name    string `json:"name"`    // 表示名
	Vendor  Vendor `json:"vendor"`  // ベンダー種別
	Active  bool   `json:"active"`  // 有効フラグ
}
