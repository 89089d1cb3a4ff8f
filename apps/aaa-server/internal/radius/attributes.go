package radius

import (
	"encoding/binary"
	"net"
	"strconv"

	"github.com/tmuthee9044-rgb/v0-isp-sub002/internal/acct"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/internal/auth"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/internal/provisioning"
	"layeh.com/radius"
	"layeh.com/radius/rfc2865"
	"layeh.com/radius/rfc2866"
	"layeh.com/radius/rfc2869"
)

// ベンダーID（IANA Private Enterprise Numbers）
const (
	vendorMikrotik = 14988
	vendorWISPr    = 14122
	vendorJuniper  = 4874
)

// vsaType はベンダー属性名に対応するVSA定義。
type vsaType struct {
	vendor  uint32
	typ     byte
	integer bool
}

var vendorAttributes = map[string]vsaType{
	"Mikrotik-Rate-Limit":      {vendor: vendorMikrotik, typ: 8},
	"WISPr-Bandwidth-Max-Up":   {vendor: vendorWISPr, typ: 7, integer: true},
	"WISPr-Bandwidth-Max-Down": {vendor: vendorWISPr, typ: 8, integer: true},
	"ERX-Qos-Profile-Name":     {vendor: vendorJuniper, typ: 26},
}

var serviceTypes = map[string]rfc2865.ServiceType{
	"Framed-User": rfc2865.ServiceType_Value_FramedUser,
	"Login-User":  rfc2865.ServiceType_Value_LoginUser,
	"Call-Check":  rfc2865.ServiceType_Value_CallCheck,
}

var statusTypes = map[rfc2866.AcctStatusType]acct.StatusType{
	rfc2866.AcctStatusType_Value_Start:         acct.StatusStart,
	rfc2866.AcctStatusType_Value_InterimUpdate: acct.StatusInterimUpdate,
	rfc2866.AcctStatusType_Value_Stop:          acct.StatusStop,
	rfc2866.AcctStatusType_Value_AccountingOn:  acct.StatusAccountingOn,
	rfc2866.AcctStatusType_Value_AccountingOff: acct.StatusAccountingOff,
}

// authRequest はAccess-Requestから認可要求を組み立てる。
func authRequest(p *radius.Packet, srcIP, traceID string) *auth.Request {
	req := &auth.Request{
		TraceID:          traceID,
		Username:         rfc2865.UserName_GetString(p),
		Password:         rfc2865.UserPassword_GetString(p),
		NASAddress:       srcIP,
		NASSecret:        string(p.Secret),
		CallingStationID: rfc2865.CallingStationID_GetString(p),
	}
	if st, err := rfc2865.ServiceType_Lookup(p); err == nil {
		req.ServiceType = st.String()
	}
	return req
}

// accountingEvent はAccounting-Requestから課金イベントを組み立てる。
// 要求認証子はサーバー側で検証済みのためSecretVerifiedを立てる。
func accountingEvent(p *radius.Packet, srcIP, traceID string) *acct.Event {
	ev := &acct.Event{
		TraceID:          traceID,
		SessionID:        rfc2866.AcctSessionID_GetString(p),
		Username:         rfc2865.UserName_GetString(p),
		NASAddress:       srcIP,
		NASSecret:        string(p.Secret),
		NASPortID:        rfc2869.NASPortID_GetString(p),
		CallingStationID: rfc2865.CallingStationID_GetString(p),
		CalledStationID:  rfc2865.CalledStationID_GetString(p),
		SessionTime:      int64(rfc2866.AcctSessionTime_Get(p)),
		InputOctets:      int64(rfc2866.AcctInputOctets_Get(p)),
		OutputOctets:     int64(rfc2866.AcctOutputOctets_Get(p)),
		InputGigawords:   int64(rfc2869.AcctInputGigawords_Get(p)),
		OutputGigawords:  int64(rfc2869.AcctOutputGigawords_Get(p)),
		InputPackets:     int64(rfc2866.AcctInputPackets_Get(p)),
		OutputPackets:    int64(rfc2866.AcctOutputPackets_Get(p)),
		SecretVerified:   true,
	}

	if st, err := rfc2866.AcctStatusType_Lookup(p); err == nil {
		if mapped, ok := statusTypes[st]; ok {
			ev.StatusType = mapped
		} else {
			ev.StatusType = acct.StatusType(st.String())
		}
	}
	if st, err := rfc2865.ServiceType_Lookup(p); err == nil {
		ev.ServiceType = st.String()
	}
	if ip := rfc2865.FramedIPAddress_Get(p); ip != nil {
		ev.FramedIPAddress = ip.String()
	}
	if tc, err := rfc2866.AcctTerminateCause_Lookup(p); err == nil {
		ev.TerminateCause = tc.String()
	}
	return ev
}

// applyAttributes は許可判定の応答属性をAccess-Acceptへ設定する。
func applyAttributes(resp *radius.Packet, attrs *auth.Attributes) error {
	if attrs == nil {
		return nil
	}
	if st, ok := serviceTypes[attrs.ServiceType]; ok {
		if err := rfc2865.ServiceType_Set(resp, st); err != nil {
			return err
		}
	}
	if attrs.SessionTimeout > 0 {
		if err := rfc2865.SessionTimeout_Set(resp, rfc2865.SessionTimeout(attrs.SessionTimeout)); err != nil {
			return err
		}
	}
	if attrs.IdleTimeout > 0 {
		if err := rfc2865.IdleTimeout_Set(resp, rfc2865.IdleTimeout(attrs.IdleTimeout)); err != nil {
			return err
		}
	}
	if ip := net.ParseIP(attrs.FramedIPAddress); ip != nil {
		if err := rfc2865.FramedIPAddress_Set(resp, ip); err != nil {
			return err
		}
	} else if attrs.FramedPool != "" {
		if err := rfc2869.FramedPool_SetString(resp, attrs.FramedPool); err != nil {
			return err
		}
	}
	if attrs.AcctInterimInterval > 0 {
		if err := rfc2869.AcctInterimInterval_Set(resp, rfc2869.AcctInterimInterval(attrs.AcctInterimInterval)); err != nil {
			return err
		}
	}
	for _, va := range attrs.Vendor {
		if err := addVendorAttribute(resp, va); err != nil {
			return err
		}
	}
	return nil
}

// addVendorAttribute はベンダー属性をVendor-Specificとして追加する。未知の属性名は無視する。
func addVendorAttribute(p *radius.Packet, va provisioning.VendorAttribute) error {
	def, ok := vendorAttributes[va.Name]
	if !ok {
		return nil
	}

	value := []byte(va.Value)
	if def.integer {
		n, err := strconv.ParseUint(va.Value, 10, 32)
		if err != nil {
			return err
		}
		value = binary.BigEndian.AppendUint32(nil, uint32(n))
	}

	sub := append([]byte{def.typ, byte(len(value) + 2)}, value...)
	vsa, err := radius.NewVendorSpecific(def.vendor, sub)
	if err != nil {
		return err
	}
	p.Add(rfc2865.VendorSpecific_Type, vsa)
	return nil
}
