// Package httputil はgin向けのエラーレスポンス・ミドルウェア・認証を提供する。
package httputil

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ContentType はRFC 7807のエラーレスポンスのContent-Type。
const ContentType = "application/problem+json"

// ProblemDetail はRFC 7807のエラーレスポンス。
// Extensionsはtype/title/status/detailと同じ階層に出力される。
type ProblemDetail struct {
	Type       string         `json:"type"`
	Title      string         `json:"title"`
	Status     int            `json:"status"`
	Detail     string         `json:"detail,omitempty"`
	Extensions map[string]any `json:"-"`
}

// NewProblemDetail はtypeをabout:blankとしたProblemDetailを生成する。
func NewProblemDetail(status int, title, detail string) *ProblemDetail {
	return &ProblemDetail{Type: "about:blank", Title: title, Status: status, Detail: detail}
}

// Problem はステータスの標準文言をtitleとしたProblemDetailを生成する。
func Problem(status int, detail string) *ProblemDetail {
	return NewProblemDetail(status, http.StatusText(status), detail)
}

// With は拡張メンバーを追加する。標準メンバーと同名のキーは出力されない。
func (p *ProblemDetail) With(key string, value any) *ProblemDetail {
	if p.Extensions == nil {
		p.Extensions = map[string]any{}
	}
	p.Extensions[key] = value
	return p
}

func (p ProblemDetail) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(p.Extensions)+4)
	for k, v := range p.Extensions {
		out[k] = v
	}
	out["type"] = p.Type
	out["title"] = p.Title
	out["status"] = p.Status
	if p.Detail != "" {
		out["detail"] = p.Detail
	} else {
		delete(out, "detail")
	}
	return json.Marshal(out)
}

// WriteProblem はProblemDetailを応答する。
func WriteProblem(c *gin.Context, p *ProblemDetail) {
	c.Header("Content-Type", ContentType)
	c.JSON(p.Status, p)
}

// AbortWithProblem はProblemDetailを応答し、後続のハンドラを実行しない。
func AbortWithProblem(c *gin.Context, p *ProblemDetail) {
	c.Header("Content-Type", ContentType)
	c.AbortWithStatusJSON(p.Status, p)
}
