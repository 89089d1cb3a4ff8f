package acct

import "errors"

// 受信したAccounting要求そのものが不正な場合のエラー。
// ストア障害と区別して扱うため、呼び出し側はInvalidRequestで判定する。
var (
	ErrUnknownStatusType = errors.New("unknown Acct-Status-Type")
	// ErrUnknownNAS は未登録・無効・Secret不一致のいずれか。
	ErrUnknownNAS       = errors.New("unknown NAS")
	ErrMissingSessionID = errors.New("missing Acct-Session-Id")
)

// InvalidRequest はerrが要求側の不備によるものかを返す。
func InvalidRequest(err error) bool {
	return errors.Is(err, ErrUnknownNAS) ||
		errors.Is(err, ErrUnknownStatusType) ||
		errors.Is(err, ErrMissingSessionID)
}
