package acct

import (
	"time"

	"github.com/tmuthee9044-rgb/v0-isp-sub002/pkg/model"
)

// StatusType はAcct-Status-Type。
type StatusType string

const (
	StatusStart         StatusType = "Start"
	StatusInterimUpdate StatusType = "Interim-Update"
	StatusStop          StatusType = "Stop"
	StatusAccountingOn  StatusType = "Accounting-On"
	StatusAccountingOff StatusType = "Accounting-Off"
)

// TerminateCauseNASReboot はNAS再起動時に付与する切断理由。
const TerminateCauseNASReboot = "NAS-Reboot"

// Event は課金イベント。
type Event struct {
	TraceID          string     `json:"-"`
	StatusType       StatusType `json:"status_type"`
	SessionID        string     `json:"session_id"`
	UniqueID         string     `json:"unique_id,omitempty"`
	Username         string     `json:"username"`
	NASAddress       string     `json:"nas_address"`
	NASSecret        string     `json:"-"`
	NASPortID        string     `json:"nas_port_id,omitempty"`
	ServiceType      string     `json:"service_type,omitempty"`
	FramedIPAddress  string     `json:"framed_ip_address,omitempty"`
	CallingStationID string     `json:"calling_station_id,omitempty"`
	CalledStationID  string     `json:"called_station_id,omitempty"`
	SessionTime      int64      `json:"session_time"`
	InputOctets      int64      `json:"input_octets"`
	OutputOctets     int64      `json:"output_octets"`
	InputGigawords   int64      `json:"input_gigawords,omitempty"`
	OutputGigawords  int64      `json:"output_gigawords,omitempty"`
	InputPackets     int64      `json:"input_packets"`
	OutputPackets    int64      `json:"output_packets"`
	TerminateCause   string     `json:"terminate_cause,omitempty"`

	// SecretVerified はRADIUS層でシークレット検証済みの場合にtrue
	SecretVerified bool `json:"-"`
}

// Counters はギガワードを含む64ビットのカウンタを返す。
func (e *Event) Counters() model.Counters {
	return model.Counters{
		SessionTime:   e.SessionTime,
		InputOctets:   e.InputGigawords<<32 + e.InputOctets,
		OutputOctets:  e.OutputGigawords<<32 + e.OutputOctets,
		InputPackets:  e.InputPackets,
		OutputPackets: e.OutputPackets,
	}
}

func (e *Event) record(now time.Time) *model.AccountingRecord {
	return &model.AccountingRecord{
		StatusType: string(e.StatusType),
		SessionID:  e.SessionID,
		Username:   e.Username,
		NASAddress: e.NASAddress,
		Payload:    e,
		ReceivedAt: now,
	}
}

// usageDelta は前回値からの増分を返す。カウンタが減少した場合は0とする。
func usageDelta(cur, prev model.Counters) (in, out int64) {
	return max(cur.InputOctets-prev.InputOctets, 0), max(cur.OutputOctets-prev.OutputOctets, 0)
}
