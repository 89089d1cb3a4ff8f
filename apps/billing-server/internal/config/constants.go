package config

import "time"

const (
	valkeyCommandTimeout = 2 * time.Second

	ReadHeaderTimeout = 5 * time.Second
	RequestTimeout    = 10 * time.Second

	// JobTimeout は定期ジョブ1回あたりの実行上限。
	JobTimeout = 30 * time.Second

	// 実行中のジョブを待つため長めに取る
	ShutdownTimeout = 10 * time.Second
)
