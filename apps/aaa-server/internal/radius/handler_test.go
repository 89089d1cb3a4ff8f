package radius

import (
	"context"
	"encoding/binary"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/tmuthee9044-rgb/v0-isp-sub002/apps/aaa-server/internal/mocks"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/internal/acct"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/internal/auth"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/internal/provisioning"
	"go.uber.org/mock/gomock"
	"layeh.com/radius"
	"layeh.com/radius/rfc2865"
	"layeh.com/radius/rfc2866"
	"layeh.com/radius/rfc2869"
)

var testSecret = []byte("test-secret")

// mockResponseWriter はradius.ResponseWriterのモック
type mockResponseWriter struct {
	written  []*radius.Packet
	writeErr error
}

func (m *mockResponseWriter) Write(packet *radius.Packet) error {
	m.written = append(m.written, packet)
	return m.writeErr
}

func newRequest(p *radius.Packet) *radius.Request {
	return &radius.Request{
		Packet:     p,
		RemoteAddr: &net.UDPAddr{IP: net.ParseIP("10.0.0.1"), Port: 50000},
	}
}

func buildAccessRequest(t *testing.T, password string) *radius.Packet {
	t.Helper()
	p := radius.New(radius.CodeAccessRequest, testSecret)
	if err := rfc2865.UserName_SetString(p, "alice"); err != nil {
		t.Fatalf("予期しないエラー: %v", err)
	}
	if err := rfc2865.UserPassword_SetString(p, password); err != nil {
		t.Fatalf("予期しないエラー: %v", err)
	}
	_ = rfc2865.ServiceType_Set(p, rfc2865.ServiceType_Value_FramedUser)
	_ = rfc2865.CallingStationID_SetString(p, "AA-BB-CC-DD-EE-FF")
	return p
}

func newTestHandler(t *testing.T) (*Handler, *mocks.MockAuthorizer, *mocks.MockAccountingProcessor) {
	t.Helper()
	ctrl := gomock.NewController(t)
	authz := mocks.NewMockAuthorizer(ctrl)
	proc := mocks.NewMockAccountingProcessor(ctrl)
	return NewHandler(authz, proc, time.Second), authz, proc
}

func TestHandler_AccessRequest_Accept(t *testing.T) {
	h, authz, _ := newTestHandler(t)
	authz.EXPECT().Authenticate(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req *auth.Request) (*auth.Decision, error) {
			if req.Username != "alice" || req.Password != "s3cret" {
				t.Errorf("credentials = %q/%q", req.Username, req.Password)
			}
			if req.NASAddress != "10.0.0.1" || req.NASSecret != string(testSecret) {
				t.Errorf("nas = %q/%q", req.NASAddress, req.NASSecret)
			}
			if req.ServiceType != "Framed-User" {
				t.Errorf("ServiceType = %q, want Framed-User", req.ServiceType)
			}
			if req.TraceID == "" {
				t.Error("TraceID is empty")
			}
			return &auth.Decision{
				Result: auth.ResultAccept,
				Attributes: &auth.Attributes{
					ServiceType:         "Framed-User",
					RateLimit:           "5M/10M",
					Vendor:              []provisioning.VendorAttribute{{Name: "Mikrotik-Rate-Limit", Value: "5M/10M"}},
					SessionTimeout:      3600,
					FramedIPAddress:     "100.64.0.10",
					AcctInterimInterval: 300,
				},
			}, nil
		})

	w := &mockResponseWriter{}
	h.ServeRADIUS(w, newRequest(buildAccessRequest(t, "s3cret")))

	if len(w.written) != 1 {
		t.Fatalf("written = %d, want 1", len(w.written))
	}
	resp := w.written[0]
	if resp.Code != radius.CodeAccessAccept {
		t.Errorf("Code = %v, want %v", resp.Code, radius.CodeAccessAccept)
	}
	if got := rfc2865.SessionTimeout_Get(resp); got != 3600 {
		t.Errorf("Session-Timeout = %d, want 3600", got)
	}
	if got := rfc2865.FramedIPAddress_Get(resp); !got.Equal(net.ParseIP("100.64.0.10")) {
		t.Errorf("Framed-IP-Address = %v, want 100.64.0.10", got)
	}
	if got := rfc2869.AcctInterimInterval_Get(resp); got != 300 {
		t.Errorf("Acct-Interim-Interval = %d, want 300", got)
	}
	vendorID, value, err := radius.VendorSpecific(resp.Get(rfc2865.VendorSpecific_Type))
	if err != nil {
		t.Fatalf("予期しないエラー: %v", err)
	}
	if vendorID != vendorMikrotik {
		t.Errorf("vendor = %d, want %d", vendorID, vendorMikrotik)
	}
	if value[0] != 8 || string(value[2:]) != "5M/10M" {
		t.Errorf("Mikrotik-Rate-Limit = %v", value)
	}
}

func TestHandler_AccessRequest_Reject(t *testing.T) {
	h, authz, _ := newTestHandler(t)
	authz.EXPECT().Authenticate(gomock.Any(), gomock.Any()).
		Return(&auth.Decision{Result: auth.ResultReject, Reason: auth.ReasonServiceExpired}, nil)

	w := &mockResponseWriter{}
	h.ServeRADIUS(w, newRequest(buildAccessRequest(t, "s3cret")))

	if len(w.written) != 1 {
		t.Fatalf("written = %d, want 1", len(w.written))
	}
	if w.written[0].Code != radius.CodeAccessReject {
		t.Errorf("Code = %v, want %v", w.written[0].Code, radius.CodeAccessReject)
	}
	if got := rfc2865.ReplyMessage_GetString(w.written[0]); got != auth.ReasonServiceExpired {
		t.Errorf("Reply-Message = %q, want %q", got, auth.ReasonServiceExpired)
	}
}

func TestHandler_AccessRequest_EngineError(t *testing.T) {
	h, authz, _ := newTestHandler(t)
	authz.EXPECT().Authenticate(gomock.Any(), gomock.Any()).Return(nil, errors.New("db down"))

	w := &mockResponseWriter{}
	h.ServeRADIUS(w, newRequest(buildAccessRequest(t, "s3cret")))

	if len(w.written) != 0 {
		t.Errorf("written = %d, want 0", len(w.written))
	}
}

func TestHandler_AccessRequest_MessageAuthenticator(t *testing.T) {
	t.Run("valid is echoed", func(t *testing.T) {
		h, authz, _ := newTestHandler(t)
		authz.EXPECT().Authenticate(gomock.Any(), gomock.Any()).
			Return(&auth.Decision{Result: auth.ResultReject}, nil)

		p := buildAccessRequest(t, "s3cret")
		signMessageAuthenticator(p, p.Authenticator)

		w := &mockResponseWriter{}
		h.ServeRADIUS(w, newRequest(p))
		if len(w.written) != 1 {
			t.Fatalf("written = %d, want 1", len(w.written))
		}
		if !hasMessageAuthenticator(w.written[0]) {
			t.Error("response has no Message-Authenticator")
		}
	})

	t.Run("invalid is dropped", func(t *testing.T) {
		h, _, _ := newTestHandler(t)
		p := buildAccessRequest(t, "s3cret")
		_ = rfc2869.MessageAuthenticator_Set(p, make([]byte, 16))

		w := &mockResponseWriter{}
		h.ServeRADIUS(w, newRequest(p))
		if len(w.written) != 0 {
			t.Errorf("written = %d, want 0", len(w.written))
		}
	})
}

func buildAccountingRequest(t *testing.T, status rfc2866.AcctStatusType) *radius.Packet {
	t.Helper()
	p := radius.New(radius.CodeAccountingRequest, testSecret)
	_ = rfc2866.AcctStatusType_Set(p, status)
	_ = rfc2866.AcctSessionID_SetString(p, "sess-1")
	_ = rfc2865.UserName_SetString(p, "alice")
	_ = rfc2866.AcctSessionTime_Set(p, 120)
	_ = rfc2866.AcctInputOctets_Set(p, 500)
	_ = rfc2866.AcctOutputOctets_Set(p, 2000)
	_ = rfc2869.AcctOutputGigawords_Set(p, 1)
	_ = rfc2865.FramedIPAddress_Set(p, net.ParseIP("100.64.0.10"))
	_ = rfc2866.AcctTerminateCause_Set(p, rfc2866.AcctTerminateCause_Value_UserRequest)
	return p
}

func TestHandler_AccountingRequest(t *testing.T) {
	h, _, proc := newTestHandler(t)
	proc.EXPECT().Process(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, ev *acct.Event) error {
			if ev.StatusType != acct.StatusStop {
				t.Errorf("StatusType = %q, want %q", ev.StatusType, acct.StatusStop)
			}
			if ev.SessionID != "sess-1" || ev.Username != "alice" || ev.NASAddress != "10.0.0.1" {
				t.Errorf("event = %+v", ev)
			}
			if !ev.SecretVerified {
				t.Error("SecretVerified = false, want true")
			}
			c := ev.Counters()
			if c.InputOctets != 500 || c.OutputOctets != 1<<32+2000 || c.SessionTime != 120 {
				t.Errorf("counters = %+v", c)
			}
			if ev.FramedIPAddress != "100.64.0.10" {
				t.Errorf("FramedIPAddress = %q", ev.FramedIPAddress)
			}
			if ev.TerminateCause != "User-Request" {
				t.Errorf("TerminateCause = %q, want User-Request", ev.TerminateCause)
			}
			return nil
		})

	w := &mockResponseWriter{}
	h.ServeRADIUS(w, newRequest(buildAccountingRequest(t, rfc2866.AcctStatusType_Value_Stop)))

	if len(w.written) != 1 {
		t.Fatalf("written = %d, want 1", len(w.written))
	}
	if w.written[0].Code != radius.CodeAccountingResponse {
		t.Errorf("Code = %v, want %v", w.written[0].Code, radius.CodeAccountingResponse)
	}
}

func TestHandler_AccountingRequest_Dropped(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"unknown nas", acct.ErrUnknownNAS},
		{"store error", errors.New("insert failed")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _, proc := newTestHandler(t)
			proc.EXPECT().Process(gomock.Any(), gomock.Any()).Return(tt.err)

			w := &mockResponseWriter{}
			h.ServeRADIUS(w, newRequest(buildAccountingRequest(t, rfc2866.AcctStatusType_Value_Start)))
			if len(w.written) != 0 {
				t.Errorf("written = %d, want 0", len(w.written))
			}
		})
	}
}

func TestHandler_StatusServer(t *testing.T) {
	h, _, _ := newTestHandler(t)

	p := radius.New(radius.CodeStatusServer, testSecret)
	signMessageAuthenticator(p, p.Authenticator)

	w := &mockResponseWriter{}
	h.ServeRADIUS(w, newRequest(p))
	if len(w.written) != 1 {
		t.Fatalf("written = %d, want 1", len(w.written))
	}
	if w.written[0].Code != radius.CodeAccessAccept {
		t.Errorf("Code = %v, want %v", w.written[0].Code, radius.CodeAccessAccept)
	}

	unsigned := radius.New(radius.CodeStatusServer, testSecret)
	w = &mockResponseWriter{}
	h.ServeRADIUS(w, newRequest(unsigned))
	if len(w.written) != 0 {
		t.Errorf("unsigned written = %d, want 0", len(w.written))
	}
}

func TestHandler_UnknownCode(t *testing.T) {
	h, _, _ := newTestHandler(t)
	w := &mockResponseWriter{}
	h.ServeRADIUS(w, newRequest(radius.New(radius.CodeDisconnectRequest, testSecret)))
	if len(w.written) != 0 {
		t.Errorf("written = %d, want 0", len(w.written))
	}
}

func TestAddVendorAttribute(t *testing.T) {
	p := radius.New(radius.CodeAccessAccept, testSecret)
	attrs := []provisioning.VendorAttribute{
		{Name: "WISPr-Bandwidth-Max-Up", Value: "5000000"},
		{Name: "Unknown-Attribute", Value: "x"},
	}
	for _, va := range attrs {
		if err := addVendorAttribute(p, va); err != nil {
			t.Fatalf("予期しないエラー: %v", err)
		}
	}

	vendorID, value, err := radius.VendorSpecific(p.Get(rfc2865.VendorSpecific_Type))
	if err != nil {
		t.Fatalf("予期しないエラー: %v", err)
	}
	if vendorID != vendorWISPr || value[0] != 7 {
		t.Errorf("vendor/type = %d/%d, want %d/7", vendorID, value[0], vendorWISPr)
	}
	if got := binary.BigEndian.Uint32(value[2:]); got != 5000000 {
		t.Errorf("value = %d, want 5000000", got)
	}

	if err := addVendorAttribute(p, provisioning.VendorAttribute{Name: "WISPr-Bandwidth-Max-Down", Value: "fast"}); err == nil {
		t.Error("non-numeric integer attribute: want error")
	}
}
