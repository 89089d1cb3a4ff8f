package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/pkg/apperr"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/pkg/model"
)

var sessionRowColumns = []string{
	"session_id", "unique_id", "username", "customer_id", "service_id", "nas_address",
	"nas_port_id", "service_type", "framed_ip", "calling_station_id", "called_station_id",
	"start_time", "last_update", "session_time", "input_octets", "output_octets",
	"input_packets", "output_packets",
}

func testSession(now time.Time) *model.ActiveSession {
	serviceID := int64(55)
	return &model.ActiveSession{
		SessionID:        "sess-1",
		UniqueID:         "u-1",
		Username:         "alice",
		CustomerID:       100,
		ServiceID:        &serviceID,
		NASAddress:       "10.0.0.1",
		NASPortID:        "ether1",
		ServiceType:      "Framed-User",
		FramedIPAddress:  "100.64.0.10",
		CallingStationID: "AA:BB:CC:DD:EE:FF",
		StartTime:        now,
		LastUpdate:       now,
	}
}

func TestUpsertSession(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now().UTC()
	sess := testSession(now)
	mock.ExpectExec("INSERT INTO active_sessions (.+) ON CONFLICT \\(session_id\\) DO UPDATE SET last_update").
		WithArgs("sess-1", "u-1", "alice", int64(100), int64(55), "10.0.0.1", "ether1", "Framed-User",
			"100.64.0.10", "AA:BB:CC:DD:EE:FF", "", now, now,
			int64(0), int64(0), int64(0), int64(0), int64(0)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, NewSessionStore(db).UpsertSession(context.Background(), sess))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateCounters_ReturnsPrevious(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now().UTC()
	cols := append(append([]string{}, sessionRowColumns...),
		"prev_session_time", "prev_input_octets", "prev_output_octets", "prev_input_packets", "prev_output_packets")
	mock.ExpectQuery("WITH prev AS (.+) UPDATE active_sessions a").
		WithArgs("sess-1", int64(600), int64(5000), int64(9000), int64(10), int64(20), now, "").
		WillReturnRows(sqlmock.NewRows(cols).AddRow(
			"sess-1", "u-1", "alice", 100, int64(55), "10.0.0.1", "ether1", "Framed-User",
			"100.64.0.10", "", "", now.Add(-10*time.Minute), now,
			600, 5000, 9000, 10, 20,
			300, 1000, 2000, 5, 8))

	upd, err := NewSessionStore(db).UpdateCounters(context.Background(), "sess-1", model.Counters{
		SessionTime: 600, InputOctets: 5000, OutputOctets: 9000, InputPackets: 10, OutputPackets: 20,
	}, "", now)
	require.NoError(t, err)
	assert.Equal(t, int64(5000), upd.Session.InputOctets)
	assert.Equal(t, int64(1000), upd.Previous.InputOctets)
	assert.Equal(t, int64(2000), upd.Previous.OutputOctets)
	require.NotNil(t, upd.Session.ServiceID)
	assert.Equal(t, int64(55), *upd.Session.ServiceID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateCounters_NoSession(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("WITH prev AS").
		WillReturnRows(sqlmock.NewRows(sessionRowColumns))

	_, err = NewSessionStore(db).UpdateCounters(context.Background(), "ghost", model.Counters{}, "", time.Now())
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestArchiveSession(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now().UTC()
	start := now.Add(-time.Hour)
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM active_sessions WHERE session_id (.+) FOR UPDATE").
		WithArgs("sess-1").
		WillReturnRows(sqlmock.NewRows(sessionRowColumns).AddRow(
			"sess-1", "u-1", "alice", 100, int64(55), "10.0.0.1", "ether1", "Framed-User",
			"100.64.0.10", "", "", start, now.Add(-5*time.Minute),
			3300, 1000, 2000, 5, 8))
	mock.ExpectExec("INSERT INTO archived_sessions").
		WithArgs("sess-1", "u-1", "alice", int64(100), int64(55), "10.0.0.1", "ether1", "Framed-User",
			"100.64.0.10", "", "", start, now, int64(3600), int64(1500), int64(2600), int64(7), int64(9),
			"User-Request").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("DELETE FROM active_sessions WHERE session_id").
		WithArgs("sess-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	res, err := NewSessionStore(db).ArchiveSession(context.Background(), "sess-1", model.Counters{
		SessionTime: 3600, InputOctets: 1500, OutputOctets: 2600, InputPackets: 7, OutputPackets: 9,
	}, now, "User-Request")
	require.NoError(t, err)
	assert.Equal(t, int64(1000), res.Previous.InputOctets)
	assert.Equal(t, int64(1500), res.Session.InputOctets)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestArchiveSession_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM active_sessions WHERE session_id").
		WithArgs("sess-1").
		WillReturnRows(sqlmock.NewRows(sessionRowColumns))
	mock.ExpectRollback()

	_, err = NewSessionStore(db).ArchiveSession(context.Background(), "sess-1", model.Counters{}, time.Now(), "Lost-Carrier")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestArchiveSession_InsertFailsRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now().UTC()
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM active_sessions WHERE session_id").
		WillReturnRows(sqlmock.NewRows(sessionRowColumns).AddRow(
			"sess-1", "", "alice", 100, nil, "10.0.0.1", "", "", "", "", "", now, now, 0, 0, 0, 0, 0))
	mock.ExpectExec("INSERT INTO archived_sessions").
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	_, err = NewSessionStore(db).ArchiveSession(context.Background(), "sess-1", model.Counters{}, now, "")
	assert.True(t, errors.Is(err, apperr.ErrDatabase))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountActiveByUsername(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM active_sessions WHERE username").
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	n, err := NewSessionStore(db).CountActiveByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestListByNAS(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now().UTC()
	mock.ExpectQuery("SELECT (.+) FROM active_sessions WHERE nas_address").
		WithArgs("10.0.0.1").
		WillReturnRows(sqlmock.NewRows(sessionRowColumns).
			AddRow("a", "", "alice", 100, nil, "10.0.0.1", "", "", "", "", "", now, now, 0, 0, 0, 0, 0).
			AddRow("b", "", "bob", 101, int64(56), "10.0.0.1", "", "", "", "", "", now, now, 0, 0, 0, 0, 0))

	list, err := NewSessionStore(db).ListByNAS(context.Background(), "10.0.0.1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Nil(t, list[0].ServiceID)
	assert.Equal(t, "bob", list[1].Username)
}

func TestInsertAccountingRecord(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now().UTC()
	mock.ExpectExec("INSERT INTO accounting_records").
		WithArgs("Start", "sess-1", "alice", "10.0.0.1", []byte(`{"framed_ip":"100.64.0.10"}`), now).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = NewSessionStore(db).InsertAccountingRecord(context.Background(), &model.AccountingRecord{
		StatusType: "Start",
		SessionID:  "sess-1",
		Username:   "alice",
		NASAddress: "10.0.0.1",
		Payload:    map[string]string{"framed_ip": "100.64.0.10"},
		ReceivedAt: now,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
