package store

//go:generate mockgen -source=interfaces.go -destination=../mocks/store_mock.go -package=mocks

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/pkg/model"
)

// NASStore はNASクライアントデータへのアクセスを定義する
type NASStore interface {
	// GetNASByAddress は有効なNASクライアントを送信元アドレスで取得する
	// 未登録または無効の場合はErrNotFoundを返す
	GetNASByAddress(ctx context.Context, address string) (*model.NASClient, error)
	// ListNAS は有効なNASクライアントの一覧を取得する
	ListNAS(ctx context.Context) ([]model.NASClient, error)
}

// CredentialStore は加入者認証情報へのアクセスを定義する
type CredentialStore interface {
	// GetCredential はユーザー名で認証情報を取得する
	GetCredential(ctx context.Context, username string) (*model.Credential, error)
	// SetCredentialStatus は認証情報の状態を更新する
	SetCredentialStatus(ctx context.Context, id int64, status model.CredentialStatus) error
}

// ServiceStore は契約サービス・プラン・入金データへのアクセスを定義する
type ServiceStore interface {
	// GetService はサービスを取得する
	GetService(ctx context.Context, id int64) (*model.CustomerService, error)
	// GetServiceByUsername は認証情報に紐づくサービスを取得する
	GetServiceByUsername(ctx context.Context, username string) (*model.CustomerService, error)
	// GetPlan はプランを取得する
	GetPlan(ctx context.Context, id int64) (*model.Plan, error)
	// GetPayment は入金を取得する
	GetPayment(ctx context.Context, id int64) (*model.Payment, error)
	// ApplyWindow は利用期間を比較更新し、同一トランザクションでイベントを記録する
	// 直前のservice_endが変わっていた場合はfalseを返す
	ApplyWindow(ctx context.Context, upd WindowUpdate, ev model.ServiceEvent) (bool, error)
	// SuspendExpired は期限切れサービスを一括停止し、停止したサービスを返す
	SuspendExpired(ctx context.Context, now time.Time) ([]SuspendedService, error)
	// SoftDelete はサービスを論理削除する
	// 既に削除済みの場合はfalseを返す
	SoftDelete(ctx context.Context, id int64, now time.Time) (bool, error)
}

// SessionStore はアクティブ/アーカイブセッションと課金監査ログへのアクセスを定義する
type SessionStore interface {
	// UpsertSession はセッションを登録する。既存の場合はlast_updateのみ更新する
	UpsertSession(ctx context.Context, s *model.ActiveSession) error
	// UpdateCounters はカウンタを更新し、更新前の値を返す
	// セッションが存在しない場合はErrNotFoundを返す
	UpdateCounters(ctx context.Context, sessionID string, c model.Counters, framedIP string, now time.Time) (*CounterUpdate, error)
	// ArchiveSession はセッションをアーカイブへ移動する
	// セッションが存在しない場合はErrNotFoundを返す
	ArchiveSession(ctx context.Context, sessionID string, final model.Counters, stopTime time.Time, cause string) (*CounterUpdate, error)
	// CountActiveByUsername はユーザーのアクティブセッション数を返す
	CountActiveByUsername(ctx context.Context, username string) (int, error)
	// ListByNAS はNASのアクティブセッション一覧を返す
	ListByNAS(ctx context.Context, nasAddress string) ([]model.ActiveSession, error)
	// ListByService はサービスのアクティブセッション一覧を返す
	ListByService(ctx context.Context, serviceID int64) ([]model.ActiveSession, error)
	// InsertAccountingRecord は課金監査ログを追記する
	InsertAccountingRecord(ctx context.Context, rec *model.AccountingRecord) error
}

// FairUseStore はフェアユース集計データへのアクセスを定義する
type FairUseStore interface {
	// GetPolicyForService はサービスのプランに設定されたポリシーを取得する
	GetPolicyForService(ctx context.Context, serviceID int64) (*model.FairUsePolicy, error)
	// GetOrCreateTracking は当月の集計行を取得する。存在しない場合はゼロで作成する
	GetOrCreateTracking(ctx context.Context, key TrackingKey) (*model.FairUseTracking, error)
	// AddUsage は使用量を加算し、加算後の集計行を返す
	AddUsage(ctx context.Context, key TrackingKey, uploadMB, downloadMB decimal.Decimal, freeHours bool) (*model.FairUseTracking, error)
	// MarkLimitReached は上限到達を記録する。既に記録済みの場合はfalseを返す
	MarkLimitReached(ctx context.Context, key TrackingKey, throttled bool, at time.Time) (bool, error)
	// RecordBurst はクールダウン経過時のみバーストを記録する。記録できなかった場合はfalseを返す
	RecordBurst(ctx context.Context, key TrackingKey, at time.Time, cooldown time.Duration) (bool, error)
	// InsertFairUseEvent はフェアユースイベントを追記する
	InsertFairUseEvent(ctx context.Context, ev *model.FairUseEvent) error
}

// DuplicateStore は重複検出用のValkey操作を定義する
type DuplicateStore interface {
	// Get は指定キーの値を取得する（未存在時は空文字列とnilを返す）
	Get(ctx context.Context, acctSessionID string) (string, error)
	// Set は指定キーに値を設定する
	Set(ctx context.Context, acctSessionID, value string) error
}

// NotificationQueue は送信予定通知のValkey操作を定義する
type NotificationQueue interface {
	// Enqueue は通知を登録する。同一IDは送信予定時刻ごと置き換える
	Enqueue(ctx context.Context, n *QueuedNotification) error
	// Due は送信予定時刻を過ぎた通知を最大limit件返す
	Due(ctx context.Context, now time.Time, limit int64) ([]QueuedNotification, error)
	// Claim は通知を取り出す。他プロセスが取り出し済みの場合はfalseを返す
	Claim(ctx context.Context, id string) (bool, error)
	// Cancel は通知を取り消す
	Cancel(ctx context.Context, ids ...string) error
}

// WindowUpdate は利用期間の比較更新内容。
type WindowUpdate struct {
	ServiceID int64
	PrevEnd   time.Time  // 比較対象のservice_end
	Start     *time.Time // nilの場合はservice_startを変更しない
	End       time.Time
	BilledAt  time.Time
}

// SuspendedService は一括停止されたサービス。
type SuspendedService struct {
	ID         int64
	CustomerID int64
	ServiceEnd time.Time
}

// CounterUpdate はカウンタ更新結果。
type CounterUpdate struct {
	Session  model.ActiveSession // 更新後のセッション
	Previous model.Counters      // 更新前のカウンタ
}

// TrackingKey はフェアユース集計行のキー。
type TrackingKey struct {
	CustomerID int64
	ServiceID  int64
	Period     string
}

// QueuedNotification は送信予定の通知。
type QueuedNotification struct {
	ID         string    `json:"id"`
	CustomerID int64     `json:"customer_id"`
	ServiceID  int64     `json:"service_id"`
	Channel    string    `json:"channel"`
	Message    string    `json:"message"`
	DueAt      time.Time `json:"due_at"`
}
