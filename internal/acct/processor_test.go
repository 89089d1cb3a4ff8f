package acct

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/internal/mocks"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/internal/store"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/pkg/model"
	"go.uber.org/mock/gomock"
)

const (
	testNASAddr = "10.0.0.1"
	testSecret  = "nas-secret"
	testUser    = "alice"
	testSession = "sess-0001"
)

var (
	testNow       = time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	testServiceID = int64(10)
)

// fakeNAS はNASLookupのテスト実装。
type fakeNAS struct {
	clients map[string]*model.NASClient
	err     error
}

func (f *fakeNAS) Lookup(_ context.Context, address string) (*model.NASClient, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.clients[address], nil
}

type usageCall struct {
	customerID, serviceID int64
	in, out               int64
	at                    time.Time
}

// fakeUsage はUsageRecorderのテスト実装。
type fakeUsage struct {
	calls []usageCall
	err   error
}

func (f *fakeUsage) RecordSessionUsage(_ context.Context, customerID, serviceID, in, out int64, at time.Time) error {
	f.calls = append(f.calls, usageCall{customerID, serviceID, in, out, at})
	return f.err
}

type testEnv struct {
	mr       *miniredis.Miniredis
	sessions *mocks.MockSessionStore
	creds    *mocks.MockCredentialStore
	usage    *fakeUsage
	proc     *Processor
}

func setupProcessor(t *testing.T) *testEnv {
	t.Helper()
	ctrl := gomock.NewController(t)
	mr, tr := newTestTracker(t)
	env := &testEnv{
		mr:       mr,
		sessions: mocks.NewMockSessionStore(ctrl),
		creds:    mocks.NewMockCredentialStore(ctrl),
		usage:    &fakeUsage{},
	}
	nas := &fakeNAS{clients: map[string]*model.NASClient{
		testNASAddr: {ID: 1, Address: testNASAddr, Secret: testSecret, Vendor: model.VendorMikrotik, Active: true},
	}}
	env.proc = NewProcessor(nas, env.creds, env.sessions, tr, env.usage,
		WithClock(func() time.Time { return testNow }))
	return env
}

func newEvent(st StatusType) *Event {
	return &Event{
		TraceID:    "trace-1",
		StatusType: st,
		SessionID:  testSession,
		Username:   testUser,
		NASAddress: testNASAddr,
		NASSecret:  testSecret,
	}
}

func boundSession(c model.Counters) model.ActiveSession {
	sid := testServiceID
	return model.ActiveSession{
		SessionID:  testSession,
		Username:   testUser,
		CustomerID: 100,
		ServiceID:  &sid,
		NASAddress: testNASAddr,
		Counters:   c,
	}
}

func TestProcessStart(t *testing.T) {
	env := setupProcessor(t)
	ctx := context.Background()
	sid := testServiceID

	env.sessions.EXPECT().InsertAccountingRecord(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, rec *model.AccountingRecord) error {
			if rec.StatusType != "Start" || rec.SessionID != testSession {
				t.Errorf("record = %+v", rec)
			}
			if !rec.ReceivedAt.Equal(testNow) {
				t.Errorf("ReceivedAt = %v, want %v", rec.ReceivedAt, testNow)
			}
			return nil
		})
	env.creds.EXPECT().GetCredential(gomock.Any(), testUser).
		Return(&model.Credential{ID: 1, Username: testUser, CustomerID: 100, ServiceID: &sid}, nil)
	env.sessions.EXPECT().UpsertSession(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, s *model.ActiveSession) error {
			if s.CustomerID != 100 {
				t.Errorf("CustomerID = %d, want 100", s.CustomerID)
			}
			if s.ServiceID == nil || *s.ServiceID != testServiceID {
				t.Errorf("ServiceID = %v, want %d", s.ServiceID, testServiceID)
			}
			if !s.StartTime.Equal(testNow) {
				t.Errorf("StartTime = %v, want %v", s.StartTime, testNow)
			}
			return nil
		})

	ev := newEvent(StatusStart)
	ev.FramedIPAddress = "100.64.0.10"
	if err := env.proc.Process(ctx, ev); err != nil {
		t.Fatalf("予期しないエラー: %v", err)
	}
	if got, _ := env.mr.Get(store.KeyPrefixAcctSeen + testSession); got != markStart {
		t.Errorf("mark = %q, want %q", got, markStart)
	}
}

func TestProcessStartUnknownUser(t *testing.T) {
	env := setupProcessor(t)

	env.sessions.EXPECT().InsertAccountingRecord(gomock.Any(), gomock.Any()).Return(nil)
	env.creds.EXPECT().GetCredential(gomock.Any(), testUser).Return(nil, store.ErrNotFound)
	env.sessions.EXPECT().UpsertSession(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, s *model.ActiveSession) error {
			if s.CustomerID != 0 || s.ServiceID != nil {
				t.Errorf("session = %+v, want unbound", s)
			}
			return nil
		})

	if err := env.proc.Process(context.Background(), newEvent(StatusStart)); err != nil {
		t.Fatalf("予期しないエラー: %v", err)
	}
}

func TestProcessStartDuplicate(t *testing.T) {
	env := setupProcessor(t)
	env.mr.Set(store.KeyPrefixAcctSeen+testSession, markStart)

	env.sessions.EXPECT().InsertAccountingRecord(gomock.Any(), gomock.Any()).Return(nil)
	env.creds.EXPECT().GetCredential(gomock.Any(), testUser).Return(&model.Credential{CustomerID: 100}, nil)
	env.sessions.EXPECT().UpsertSession(gomock.Any(), gomock.Any()).Return(nil)

	if err := env.proc.Process(context.Background(), newEvent(StatusStart)); err != nil {
		t.Fatalf("予期しないエラー: %v", err)
	}
}

func TestProcessStartAfterStop(t *testing.T) {
	env := setupProcessor(t)
	env.mr.Set(store.KeyPrefixAcctSeen+testSession, markStop)

	// 監査ログのみでセッションは作成しない
	env.sessions.EXPECT().InsertAccountingRecord(gomock.Any(), gomock.Any()).Return(nil)

	if err := env.proc.Process(context.Background(), newEvent(StatusStart)); err != nil {
		t.Fatalf("予期しないエラー: %v", err)
	}
}

func TestProcessStartValkeyDown(t *testing.T) {
	env := setupProcessor(t)
	env.mr.Close()

	env.sessions.EXPECT().InsertAccountingRecord(gomock.Any(), gomock.Any()).Return(nil)
	env.creds.EXPECT().GetCredential(gomock.Any(), testUser).Return(&model.Credential{CustomerID: 100}, nil)
	env.sessions.EXPECT().UpsertSession(gomock.Any(), gomock.Any()).Return(nil)

	if err := env.proc.Process(context.Background(), newEvent(StatusStart)); err != nil {
		t.Fatalf("予期しないエラー: %v", err)
	}
}

func TestProcessInterim(t *testing.T) {
	env := setupProcessor(t)
	prev := model.Counters{SessionTime: 300, InputOctets: 1000, OutputOctets: 5000}

	env.sessions.EXPECT().InsertAccountingRecord(gomock.Any(), gomock.Any()).Return(nil)
	env.sessions.EXPECT().UpdateCounters(gomock.Any(), testSession, gomock.Any(), "", testNow).
		DoAndReturn(func(_ context.Context, _ string, c model.Counters, _ string, _ time.Time) (*store.CounterUpdate, error) {
			wantIn := int64(1)<<32 + 3000
			if c.InputOctets != wantIn {
				t.Errorf("InputOctets = %d, want %d", c.InputOctets, wantIn)
			}
			return &store.CounterUpdate{Session: boundSession(c), Previous: prev}, nil
		})

	ev := newEvent(StatusInterimUpdate)
	ev.SessionTime = 600
	ev.InputOctets = 3000
	ev.InputGigawords = 1
	ev.OutputOctets = 9000
	if err := env.proc.Process(context.Background(), ev); err != nil {
		t.Fatalf("予期しないエラー: %v", err)
	}

	if len(env.usage.calls) != 1 {
		t.Fatalf("usage calls = %d, want 1", len(env.usage.calls))
	}
	got := env.usage.calls[0]
	if got.serviceID != testServiceID || got.customerID != 100 {
		t.Errorf("usage target = %d/%d, want 100/%d", got.customerID, got.serviceID, testServiceID)
	}
	if want := int64(1)<<32 + 2000; got.in != want {
		t.Errorf("in = %d, want %d", got.in, want)
	}
	if got.out != 4000 {
		t.Errorf("out = %d, want 4000", got.out)
	}
}

func TestProcessInterimCounterReset(t *testing.T) {
	env := setupProcessor(t)
	prev := model.Counters{InputOctets: 5000, OutputOctets: 5000}

	env.sessions.EXPECT().InsertAccountingRecord(gomock.Any(), gomock.Any()).Return(nil)
	env.sessions.EXPECT().UpdateCounters(gomock.Any(), testSession, gomock.Any(), "", testNow).
		DoAndReturn(func(_ context.Context, _ string, c model.Counters, _ string, _ time.Time) (*store.CounterUpdate, error) {
			return &store.CounterUpdate{Session: boundSession(c), Previous: prev}, nil
		})

	ev := newEvent(StatusInterimUpdate)
	ev.InputOctets = 100
	ev.OutputOctets = 100
	if err := env.proc.Process(context.Background(), ev); err != nil {
		t.Fatalf("予期しないエラー: %v", err)
	}
	if len(env.usage.calls) != 0 {
		t.Errorf("usage calls = %d, want 0", len(env.usage.calls))
	}
}

func TestProcessInterimUnknownSession(t *testing.T) {
	env := setupProcessor(t)

	env.sessions.EXPECT().InsertAccountingRecord(gomock.Any(), gomock.Any()).Return(nil)
	env.sessions.EXPECT().UpdateCounters(gomock.Any(), testSession, gomock.Any(), "", testNow).
		Return(nil, store.ErrNotFound)

	if err := env.proc.Process(context.Background(), newEvent(StatusInterimUpdate)); err != nil {
		t.Fatalf("予期しないエラー: %v", err)
	}
	if len(env.usage.calls) != 0 {
		t.Errorf("usage calls = %d, want 0", len(env.usage.calls))
	}
}

func TestProcessInterimUsageErrorIgnored(t *testing.T) {
	env := setupProcessor(t)
	env.usage.err = errors.New("fair use down")

	env.sessions.EXPECT().InsertAccountingRecord(gomock.Any(), gomock.Any()).Return(nil)
	env.sessions.EXPECT().UpdateCounters(gomock.Any(), testSession, gomock.Any(), "", testNow).
		DoAndReturn(func(_ context.Context, _ string, c model.Counters, _ string, _ time.Time) (*store.CounterUpdate, error) {
			return &store.CounterUpdate{Session: boundSession(c)}, nil
		})

	ev := newEvent(StatusInterimUpdate)
	ev.InputOctets = 10
	if err := env.proc.Process(context.Background(), ev); err != nil {
		t.Fatalf("予期しないエラー: %v", err)
	}
}

func TestProcessStop(t *testing.T) {
	env := setupProcessor(t)
	prev := model.Counters{InputOctets: 1000, OutputOctets: 1000}

	env.sessions.EXPECT().InsertAccountingRecord(gomock.Any(), gomock.Any()).Return(nil)
	env.sessions.EXPECT().ArchiveSession(gomock.Any(), testSession, gomock.Any(), testNow, "User-Request").
		DoAndReturn(func(_ context.Context, _ string, c model.Counters, _ time.Time, _ string) (*store.CounterUpdate, error) {
			return &store.CounterUpdate{Session: boundSession(c), Previous: prev}, nil
		})

	ev := newEvent(StatusStop)
	ev.InputOctets = 1500
	ev.OutputOctets = 3000
	ev.TerminateCause = "User-Request"
	if err := env.proc.Process(context.Background(), ev); err != nil {
		t.Fatalf("予期しないエラー: %v", err)
	}

	if got, _ := env.mr.Get(store.KeyPrefixAcctSeen + testSession); got != markStop {
		t.Errorf("mark = %q, want %q", got, markStop)
	}
	if len(env.usage.calls) != 1 {
		t.Fatalf("usage calls = %d, want 1", len(env.usage.calls))
	}
	if c := env.usage.calls[0]; c.in != 500 || c.out != 2000 {
		t.Errorf("delta = %d/%d, want 500/2000", c.in, c.out)
	}
}

func TestProcessStopUnknownSession(t *testing.T) {
	env := setupProcessor(t)

	env.sessions.EXPECT().InsertAccountingRecord(gomock.Any(), gomock.Any()).Return(nil)
	env.sessions.EXPECT().ArchiveSession(gomock.Any(), testSession, gomock.Any(), testNow, "").
		Return(nil, store.ErrNotFound)

	if err := env.proc.Process(context.Background(), newEvent(StatusStop)); err != nil {
		t.Fatalf("予期しないエラー: %v", err)
	}
}

func TestProcessNASReboot(t *testing.T) {
	env := setupProcessor(t)
	sessions := []model.ActiveSession{
		{SessionID: "a", NASAddress: testNASAddr, Counters: model.Counters{InputOctets: 10}},
		{SessionID: "b", NASAddress: testNASAddr},
		{SessionID: "c", NASAddress: testNASAddr},
	}

	env.sessions.EXPECT().InsertAccountingRecord(gomock.Any(), gomock.Any()).Return(nil)
	env.sessions.EXPECT().ListByNAS(gomock.Any(), testNASAddr).Return(sessions, nil)
	env.sessions.EXPECT().ArchiveSession(gomock.Any(), "a", sessions[0].Counters, testNow, TerminateCauseNASReboot).
		Return(&store.CounterUpdate{}, nil)
	env.sessions.EXPECT().ArchiveSession(gomock.Any(), "b", gomock.Any(), testNow, TerminateCauseNASReboot).
		Return(nil, store.ErrNotFound)
	env.sessions.EXPECT().ArchiveSession(gomock.Any(), "c", gomock.Any(), testNow, TerminateCauseNASReboot).
		Return(&store.CounterUpdate{}, nil)

	ev := &Event{StatusType: StatusAccountingOn, NASAddress: testNASAddr, NASSecret: testSecret}
	if err := env.proc.Process(context.Background(), ev); err != nil {
		t.Fatalf("予期しないエラー: %v", err)
	}
	for _, id := range []string{"a", "b", "c"} {
		if got, _ := env.mr.Get(store.KeyPrefixAcctSeen + id); got != markStop {
			t.Errorf("mark[%s] = %q, want %q", id, got, markStop)
		}
	}
}

func TestProcessNASRebootPartialFailure(t *testing.T) {
	env := setupProcessor(t)
	dbErr := errors.New("db down")

	env.sessions.EXPECT().InsertAccountingRecord(gomock.Any(), gomock.Any()).Return(nil)
	env.sessions.EXPECT().ListByNAS(gomock.Any(), testNASAddr).
		Return([]model.ActiveSession{{SessionID: "a"}, {SessionID: "b"}}, nil)
	env.sessions.EXPECT().ArchiveSession(gomock.Any(), "a", gomock.Any(), testNow, TerminateCauseNASReboot).
		Return(nil, dbErr)
	env.sessions.EXPECT().ArchiveSession(gomock.Any(), "b", gomock.Any(), testNow, TerminateCauseNASReboot).
		Return(&store.CounterUpdate{}, nil)

	ev := &Event{StatusType: StatusAccountingOff, NASAddress: testNASAddr, NASSecret: testSecret}
	err := env.proc.Process(context.Background(), ev)
	if !errors.Is(err, dbErr) {
		t.Errorf("err = %v, want %v", err, dbErr)
	}
}

func TestProcessRejectsBeforeMutation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Event)
		wantErr error
	}{
		{"unknown NAS", func(e *Event) { e.NASAddress = "10.9.9.9" }, ErrUnknownNAS},
		{"secret mismatch", func(e *Event) { e.NASSecret = "wrong" }, ErrUnknownNAS},
		{"missing session id", func(e *Event) { e.SessionID = "" }, ErrMissingSessionID},
		{"unknown status type", func(e *Event) { e.StatusType = "Bogus" }, ErrUnknownStatusType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// モックに期待値を設定しないため、ストアが呼ばれるとテストが失敗する
			env := setupProcessor(t)
			ev := newEvent(StatusStart)
			tt.mutate(ev)
			if err := env.proc.Process(context.Background(), ev); !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestProcessSecretVerified(t *testing.T) {
	env := setupProcessor(t)

	env.sessions.EXPECT().InsertAccountingRecord(gomock.Any(), gomock.Any()).Return(nil)
	env.sessions.EXPECT().UpdateCounters(gomock.Any(), testSession, gomock.Any(), "", testNow).
		Return(nil, store.ErrNotFound)

	ev := newEvent(StatusInterimUpdate)
	ev.NASSecret = ""
	ev.SecretVerified = true
	if err := env.proc.Process(context.Background(), ev); err != nil {
		t.Fatalf("予期しないエラー: %v", err)
	}
}

func TestProcessAuditFailure(t *testing.T) {
	env := setupProcessor(t)
	dbErr := errors.New("db down")

	env.sessions.EXPECT().InsertAccountingRecord(gomock.Any(), gomock.Any()).Return(dbErr)

	if err := env.proc.Process(context.Background(), newEvent(StatusStart)); !errors.Is(err, dbErr) {
		t.Errorf("err = %v, want %v", err, dbErr)
	}
}

func TestProcessNASLookupError(t *testing.T) {
	env := setupProcessor(t)
	lookupErr := errors.New("db down")
	env.proc.nas = &fakeNAS{err: lookupErr}

	err := env.proc.Process(context.Background(), newEvent(StatusStart))
	if !errors.Is(err, lookupErr) {
		t.Errorf("err = %v, want %v", err, lookupErr)
	}
	if errors.Is(err, ErrUnknownNAS) {
		t.Error("検索エラーがErrUnknownNASとして扱われた")
	}
}

func TestInvalidRequest(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"unknown nas", fmt.Errorf("%w: 10.0.0.9", ErrUnknownNAS), true},
		{"unknown status", ErrUnknownStatusType, true},
		{"missing session", ErrMissingSessionID, true},
		{"store failure", errors.New("insert failed"), false},
		{"nil", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InvalidRequest(tt.err); got != tt.want {
				t.Errorf("InvalidRequest() = %v, want %v", got, tt.want)
			}
		})
	}
}
