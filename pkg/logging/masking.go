// Package logging はslogの構成・共通属性・個人情報のマスキングを提供する。
package logging

import "strings"

// Masker はログに出す加入者識別子を伏せる。nilまたは無効なMaskerは値をそのまま返す。
type Masker struct {
	enabled bool
}

// NewMasker はLOG_MASK_USERNAMEの設定値からMaskerを生成する。
func NewMasker(enabled bool) *Masker {
	return &Masker{enabled: enabled}
}

func (m *Masker) active() bool { return m != nil && m.enabled }

// Username は先頭2文字と末尾1文字以外を伏せる。例: customer042 → cu********2
func (m *Masker) Username(username string) string {
	if !m.active() {
		return username
	}
	return maskMiddle(username, 2, 1)
}

// MAC はCalling-Station-IdのOUI（先頭3オクテット）以外を伏せる。
// 6オクテット形式でない値は先頭8文字のみ残す。
func (m *Masker) MAC(mac string) string {
	if !m.active() || mac == "" {
		return mac
	}
	sep := "-"
	if strings.Contains(mac, ":") {
		sep = ":"
	}
	octets := strings.Split(mac, sep)
	if len(octets) != 6 {
		return maskMiddle(mac, 8, 0)
	}
	for i := 3; i < 6; i++ {
		octets[i] = strings.Repeat("*", len(octets[i]))
	}
	return strings.Join(octets, sep)
}

// maskMiddle はhead文字とtail文字を残して間を*で埋める。
// 残す文字数以下の短い値は伏せない。
func maskMiddle(s string, head, tail int) string {
	r := []rune(s)
	if len(r) <= head+tail {
		return s
	}
	for i := head; i < len(r)-tail; i++ {
		r[i] = '*'
	}
	return string(r)
}
