package fairuse

import "errors"

var (
	// ErrInvalidUsage は使用量が負の場合のエラー
	ErrInvalidUsage = errors.New("invalid usage")
	// ErrNoService はサービスが紐付いていない場合のエラー
	ErrNoService = errors.New("no service bound")
)
