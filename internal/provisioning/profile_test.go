package provisioning

import (
	"reflect"
	"testing"

	"github.com/tmuthee9044-rgb/v0-isp-sub002/pkg/model"
)

func TestRateLimitString(t *testing.T) {
	if got := RateLimitString(5, 20); got != "5M/20M" {
		t.Errorf("RateLimitString() = %q, want %q", got, "5M/20M")
	}
}

func TestProfileFor(t *testing.T) {
	tests := []struct {
		vendor     model.Vendor
		wantVendor model.Vendor
		want       []VendorAttribute
	}{
		{model.VendorMikrotik, model.VendorMikrotik, []VendorAttribute{{"Mikrotik-Rate-Limit", "5M/20M"}}},
		{model.VendorUbiquiti, model.VendorUbiquiti, []VendorAttribute{
			{"WISPr-Bandwidth-Max-Up", "5000000"},
			{"WISPr-Bandwidth-Max-Down", "20000000"},
		}},
		{model.VendorJuniper, model.VendorJuniper, []VendorAttribute{{"ERX-Qos-Profile-Name", "rate-5M-20M"}}},
		{"", model.VendorMikrotik, []VendorAttribute{{"Mikrotik-Rate-Limit", "5M/20M"}}},
	}

	for _, tt := range tests {
		t.Run(string(tt.wantVendor), func(t *testing.T) {
			p := ProfileFor(tt.vendor)
			if p.Vendor() != tt.wantVendor {
				t.Errorf("Vendor() = %q, want %q", p.Vendor(), tt.wantVendor)
			}
			if got := p.RateLimitAttributes(5, 20); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("RateLimitAttributes() = %v, want %v", got, tt.want)
			}
		})
	}
}
