package store

import "errors"

// ErrNotFound は対象の行が存在しない場合のエラー
var ErrNotFound = errors.New("record not found")
