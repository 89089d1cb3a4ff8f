// Package apperr はエンジン・ストア・連携クライアントが共有するエラー種別を定義する。
package apperr

import "errors"

var (
	// ErrServiceNotFound は加入サービスが存在しない。
	ErrServiceNotFound = errors.New("service not found")
	// ErrInsufficientPayment は入金額が1日分の料金に満たない。
	ErrInsufficientPayment = errors.New("insufficient payment")
)

// 失敗した依存先の種別。OpErrorはこのいずれかとしてerrors.Isに一致する。
var (
	ErrDatabase = errors.New("database")
	ErrValkey   = errors.New("valkey")
	ErrBackend  = errors.New("backend")
)

// Unavailable はRDBまたはValkeyの障害によるエラーかを返す。
// 呼び出し側はリトライ可能な一時障害として扱う。
func Unavailable(err error) bool {
	return errors.Is(err, ErrDatabase) || errors.Is(err, ErrValkey)
}
