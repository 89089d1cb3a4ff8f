package provisioning

import (
	"fmt"
	"strconv"

	"github.com/tmuthee9044-rgb/v0-isp-sub002/pkg/model"
)

// VendorAttribute はベンダー固有の応答属性。
type VendorAttribute struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// DeviceProfile はベンダーごとの速度制限属性の表現を定義する。
type DeviceProfile interface {
	// Vendor はベンダー種別を返す
	Vendor() model.Vendor
	// RateLimitAttributes は上り・下り速度（Mbps）を表す属性を返す
	RateLimitAttributes(upMbps, downMbps int) []VendorAttribute
}

// RateLimitString は "<up>M/<down>M" 形式の速度制限文字列を返す。
func RateLimitString(upMbps, downMbps int) string {
	return fmt.Sprintf("%dM/%dM", upMbps, downMbps)
}

type mikrotikProfile struct{}

func (mikrotikProfile) Vendor() model.Vendor { return model.VendorMikrotik }

func (mikrotikProfile) RateLimitAttributes(up, down int) []VendorAttribute {
	return []VendorAttribute{{Name: "Mikrotik-Rate-Limit", Value: RateLimitString(up, down)}}
}

// ubiquitiProfile はWISPr属性をbps単位で返す。
type ubiquitiProfile struct{}

func (ubiquitiProfile) Vendor() model.Vendor { return model.VendorUbiquiti }

func (ubiquitiProfile) RateLimitAttributes(up, down int) []VendorAttribute {
	return []VendorAttribute{
		{Name: "WISPr-Bandwidth-Max-Up", Value: strconv.FormatInt(int64(up)*1_000_000, 10)},
		{Name: "WISPr-Bandwidth-Max-Down", Value: strconv.FormatInt(int64(down)*1_000_000, 10)},
	}
}

// juniperProfile はルーター側に定義済みのQoSプロファイル名を返す。
type juniperProfile struct{}

func (juniperProfile) Vendor() model.Vendor { return model.VendorJuniper }

func (juniperProfile) RateLimitAttributes(up, down int) []VendorAttribute {
	return []VendorAttribute{{Name: "ERX-Qos-Profile-Name", Value: fmt.Sprintf("rate-%dM-%dM", up, down)}}
}

// ProfileFor はベンダーに対応するDeviceProfileを返す。
// 未知のベンダーはMikrotikとして扱う。
func ProfileFor(v model.Vendor) DeviceProfile {
	switch v {
	case model.VendorUbiquiti:
		return ubiquitiProfile{}
	case model.VendorJuniper:
		return juniperProfile{}
	}
	return mikrotikProfile{}
}
