package config

import "time"

const (
	valkeyCommandTimeout = 2 * time.Second

	// DuplicateTTL はacct:seenの保持期間。Stop後の遅延Startを抑止できる長さにする。
	DuplicateTTL = 24 * time.Hour

	ReadHeaderTimeout = 5 * time.Second
	// RequestTimeout はHTTPブリッジ1リクエストの処理上限。
	RequestTimeout = 10 * time.Second
	// RadiusHandleTimeout はRADIUSパケット1件の処理上限。NASの再送間隔より短くする。
	RadiusHandleTimeout = 5 * time.Second

	ShutdownTimeout = 5 * time.Second
)
