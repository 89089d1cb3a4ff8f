package server

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/apps/aaa-server/internal/config"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/apps/aaa-server/internal/handler"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/apps/aaa-server/internal/mocks"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/internal/auth"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/internal/metrics"
	"go.uber.org/mock/gomock"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer(t *testing.T, secret string) (*Server, *mocks.MockAuthorizer) {
	t.Helper()
	ctrl := gomock.NewController(t)
	authz := mocks.NewMockAuthorizer(ctrl)
	h := handler.NewBridgeHandler(authz, mocks.NewMockAccountingProcessor(ctrl), nil)
	cfg := &config.Config{ListenAddr: ":0", BridgeJWTSecret: secret}
	return New(cfg, h, metrics.New(prometheus.NewRegistry())), authz
}

func post(srv *Server, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/radius/authorize",
		bytes.NewBufferString(`{"username":"alice","nas_address":"10.0.0.1"}`))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	return w
}

func TestRouterWithoutJWT(t *testing.T) {
	srv, authz := newTestServer(t, "")
	authz.EXPECT().Authenticate(gomock.Any(), gomock.Any()).
		Return(&auth.Decision{Result: auth.ResultReject, Reason: auth.ReasonUserNotFound}, nil)

	w := post(srv, "")
	if w.Code != http.StatusOK {
		t.Errorf("Status = %d, want %d", w.Code, http.StatusOK)
	}
	if w.Header().Get("X-Trace-ID") == "" {
		t.Error("X-Trace-ID header is empty")
	}
}

func TestRouterWithJWT(t *testing.T) {
	const secret = "bridge-secret"

	t.Run("no token", func(t *testing.T) {
		srv, _ := newTestServer(t, secret)
		if w := post(srv, ""); w.Code != http.StatusUnauthorized {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusUnauthorized)
		}
	})

	t.Run("valid token", func(t *testing.T) {
		srv, authz := newTestServer(t, secret)
		authz.EXPECT().Authenticate(gomock.Any(), gomock.Any()).
			Return(&auth.Decision{Result: auth.ResultAccept}, nil)

		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"sub": "freeradius",
			"exp": time.Now().Add(time.Minute).Unix(),
		}).SignedString([]byte(secret))
		if err != nil {
			t.Fatalf("予期しないエラー: %v", err)
		}
		if w := post(srv, token); w.Code != http.StatusOK {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusOK)
		}
	})
}

func TestHealthAndMetricsArePublic(t *testing.T) {
	srv, _ := newTestServer(t, "bridge-secret")

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK {
		t.Errorf("/health Status = %d, want %d", w.Code, http.StatusOK)
	}

	w = httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("/metrics Status = %d, want %d", w.Code, http.StatusOK)
	}
	if !strings.Contains(w.Body.String(), "isp_http_requests_total") {
		t.Error("/metrics does not expose isp_http_requests_total")
	}
}
