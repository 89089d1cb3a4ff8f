package logging

import "log/slog"

// 構造化ログのキー
const (
	FieldTraceID    = "trace_id"
	FieldEventID    = "event_id"
	FieldError      = "error"
	FieldLatencyMs  = "latency_ms"
	FieldHTTPStatus = "http_status"

	FieldNASAddress     = "nas_address"
	FieldUsername       = "username"
	FieldCallingStation = "calling_station_id"
	FieldSessionID      = "acct_session_id"
	FieldCustomerID     = "customer_id"
	FieldServiceID      = "service_id"
)

// WithService は顧客ID・サービスIDの属性をslogの可変長引数として返す。
func WithService(customerID, serviceID int64) []any {
	return []any{FieldCustomerID, customerID, FieldServiceID, serviceID}
}

// CommonFields はマスキングを適用した加入者属性を組み立てる。
type CommonFields struct {
	masker *Masker
}

// NewCommonFields はCommonFieldsを生成する。maskerがnilの場合は伏せない。
func NewCommonFields(masker *Masker) *CommonFields {
	return &CommonFields{masker: masker}
}

func (cf *CommonFields) WithUsername(username string) slog.Attr {
	return slog.String(FieldUsername, cf.masker.Username(username))
}

func (cf *CommonFields) WithCallingStation(mac string) slog.Attr {
	return slog.String(FieldCallingStation, cf.masker.MAC(mac))
}

// AAALogFields は認可・課金ログに必ず付ける属性を返す。
func (cf *CommonFields) AAALogFields(traceID, eventID, username, nasAddress string) []any {
	return []any{
		FieldTraceID, traceID,
		FieldEventID, eventID,
		cf.WithUsername(username),
		FieldNASAddress, nasAddress,
	}
}
