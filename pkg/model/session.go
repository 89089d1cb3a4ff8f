package model

import "time"

// Counters はセッションの累積カウンタを表す。
// NASから通知される値は累積値であり、差分ではない。
type Counters struct {
	SessionTime   int64 `json:"session_time"`  // 秒
	InputOctets   int64 `json:"input_octets"`  // 加入者→網（上り）
	OutputOctets  int64 `json:"output_octets"` // 網→加入者（下り）
	InputPackets  int64 `json:"input_packets"`
	OutputPackets int64 `json:"output_packets"`
}

// ActiveSession は接続中セッションを表す。
// NASが払い出したセッションIDで一意。
// テーブル: active_sessions
type ActiveSession struct {
	SessionID        string    `json:"session_id"`
	UniqueID         string    `json:"unique_id"`
	Username         string    `json:"username"`
	CustomerID       int64     `json:"customer_id"`
	ServiceID        *int64    `json:"service_id,omitempty"`
	NASAddress       string    `json:"nas_address"`
	NASPortID        string    `json:"nas_port_id"`
	ServiceType      string    `json:"service_type"`
	FramedIPAddress  string    `json:"framed_ip_address"`
	CallingStationID string    `json:"calling_station_id"`
	CalledStationID  string    `json:"called_station_id"`
	StartTime        time.Time `json:"start_time"`
	LastUpdate       time.Time `json:"last_update"`
	Counters
}

// ArchivedSession は終了済みセッションの不変コピーを表す。
// テーブル: archived_sessions（追記のみ）
type ArchivedSession struct {
	ActiveSession
	StopTime       time.Time `json:"stop_time"`
	TerminateCause string    `json:"terminate_cause"`
}

// NewArchivedSession はアクティブセッションから終了レコードを生成する。
// final は Stop で通知された最終カウンタ。
func NewArchivedSession(active *ActiveSession, final Counters, stopTime time.Time, cause string) *ArchivedSession {
	archived := &ArchivedSession{
		ActiveSession:  *active,
		StopTime:       stopTime,
		TerminateCause: cause,
	}
	archived.Counters = final
	archived.LastUpdate = stopTime
	return archived
}

// AccountingRecord はAccountingイベントの監査ログを表す。
// テーブル: accounting_records（追記のみ）
type AccountingRecord struct {
	StatusType string    `json:"status_type"`
	SessionID  string    `json:"session_id"`
	Username   string    `json:"username"`
	NASAddress string    `json:"nas_address"`
	Payload    any       `json:"payload"`
	ReceivedAt time.Time `json:"received_at"`
}
