package store

// Valkeyキー
const (
	KeyPrefixAcctSeen = "acct:seen:"     // 重複検出用
	KeyNotifyDue      = "notify:due"     // 通知予定（ZSET、スコア=送信予定UNIX時刻）
	KeyNotifyPayload  = "notify:payload" // 通知本文（HASH、フィールド=ZSETメンバー）
)
