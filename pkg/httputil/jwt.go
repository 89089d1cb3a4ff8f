package httputil

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// SubjectKey はgin.Contextに検証済みトークンのsubを格納するキー。
const SubjectKey = "jwt_subject"

// JWTMiddleware はAuthorization: Bearer のHS256トークンを検証する。
// 検証に失敗した場合は401のProblemDetailを返して処理を中断する。
func JWTMiddleware(secret string) gin.HandlerFunc {
	key := []byte(secret)
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		tokenString, found := strings.CutPrefix(header, "Bearer ")
		if !found || tokenString == "" {
			unauthorized(c, "Bearer token required", nil)
			return
		}

		token, err := parser.Parse(tokenString, func(*jwt.Token) (any, error) {
			return key, nil
		})
		if err != nil || !token.Valid {
			unauthorized(c, "Invalid token", err)
			return
		}

		if sub, err := token.Claims.GetSubject(); err == nil && sub != "" {
			c.Set(SubjectKey, sub)
		}
		c.Next()
	}
}

func unauthorized(c *gin.Context, detail string, err error) {
	attrs := []any{
		"event_id", "AUTH_TOKEN_INVALID",
		"trace_id", TraceID(c),
		"path", c.Request.URL.Path,
	}
	if err != nil {
		attrs = append(attrs, "error", err.Error())
	}
	slog.Warn("request rejected", attrs...)
	AbortWithProblem(c, Problem(http.StatusUnauthorized, detail))
}
