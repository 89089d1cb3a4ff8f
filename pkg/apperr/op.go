package apperr

import (
	"fmt"
	"strings"
)

// OpError はRDB・Valkey・HTTP連携先への1回の操作の失敗を表す。
type OpError struct {
	Kind   error  // ErrDatabase / ErrValkey / ErrBackend
	Op     string // SELECT, ZADD, 連携先の操作名など
	Target string // テーブル名・キー・連携先ID
	Status int    // 連携先のHTTPステータス。応答が無かった場合は0
	Err    error
}

func (e *OpError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%v %s %s", e.Kind, e.Op, e.Target)
	if e.Status != 0 {
		fmt.Fprintf(&b, " status=%d", e.Status)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap は種別と原因の両方を返す。
func (e *OpError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// NewDatabaseError はテーブルに対するSQL操作の失敗を包む。
func NewDatabaseError(op, table string, err error) *OpError {
	return &OpError{Kind: ErrDatabase, Op: op, Target: table, Err: err}
}

// NewValkeyError はキーに対するコマンドの失敗を包む。
func NewValkeyError(op, key string, err error) *OpError {
	return &OpError{Kind: ErrValkey, Op: op, Target: key, Err: err}
}

// NewBackendError はHTTP連携先の呼び出し失敗を包む。statusは応答が無ければ0。
func NewBackendError(backendID string, status int, err error) *OpError {
	return &OpError{Kind: ErrBackend, Op: "call", Target: backendID, Status: status, Err: err}
}
