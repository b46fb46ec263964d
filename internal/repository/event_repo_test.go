package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"plant_monitor/internal/models"
)

var eventColumns = []string{"id", "occurred_at", "type", "request_id", "plant_id", "sensor_node", "message", "meta", "requested_by"}

func ctx(t *testing.T) context.Context {
	t.Helper()
	c, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	t.Cleanup(cancel)
	return c
}

func TestAppend_Success_WithDefaults(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer func(db *sql.DB) { _ = db.Close() }(db)

	repo := NewEventSQLite(db)

	// id and occurred_at are generated; match the rest exactly.
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO analysis_events (id, occurred_at, type, request_id, plant_id, sensor_node, message, meta, requested_by)`)).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(),
			"TRIGGERED", "req-1", "p1", "s1", "analysis requested",
			sqlmock.AnyArg(), 7,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.Append(ctx(t), models.AnalysisEvent{
		Type:        "  triggered ",
		RequestID:   "req-1",
		PlantID:     "p1",
		SensorNode:  "s1",
		Description: "analysis requested",
		Metadata:    map[string]any{"attempts": 0},
		RequestedBy: 7,
	})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestAppend_DBError(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer func(db *sql.DB) { _ = db.Close() }(db)

	repo := NewEventSQLite(db)

	mock.ExpectExec("INSERT INTO analysis_events").
		WillReturnError(errors.New("down"))

	err = repo.Append(ctx(t), models.AnalysisEvent{
		Type:        "error",
		Description: "x",
		Metadata:    map[string]string{"k": "v"},
	})
	if err == nil || !strings.Contains(err.Error(), "down") {
		t.Fatalf("expected error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestList_NoFilters_And_MetadataParsing(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer func(db *sql.DB) { _ = db.Close() }(db)

	repo := NewEventSQLite(db)

	now := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	js, _ := json.Marshal(map[string]any{"a": "b"})

	rows := sqlmock.NewRows(eventColumns).
		AddRow("1", now, "TRIGGERED", "r1", "p1", "JSON", "m1", string(js), 7).
		AddRow("2", now.Add(time.Hour), "CLEARED", nil, nil, nil, "m2", nil, nil)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, occurred_at, type, request_id, plant_id, sensor_node, message, meta, requested_by FROM analysis_events ORDER BY occurred_at ASC`)).
		WillReturnRows(rows)

	got, err := repo.List(ctx(t), time.Time{}, time.Time{}, "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("want 2, got %d", len(got))
	}
	if got[0].EventID != "1" || got[1].EventID != "2" {
		t.Fatalf("unexpected ids: %v, %v", got[0].EventID, got[1].EventID)
	}
	if got[0].RequestID != "r1" || got[0].PlantID != "p1" || got[0].SensorNode != "JSON" {
		t.Fatalf("unexpected correlation fields: %+v", got[0])
	}
	if got[0].RequestedBy != 7 || got[1].RequestedBy != 0 {
		t.Fatalf("unexpected requested_by: %d, %d", got[0].RequestedBy, got[1].RequestedBy)
	}
	if got[1].RequestID != "" || got[1].PlantID != "" {
		t.Fatalf("null columns should map to empty strings: %+v", got[1])
	}
	b1, _ := json.Marshal(got[0].Metadata)
	if string(b1) != string(js) {
		t.Fatalf("metadata mismatch: %s vs %s", string(b1), string(js))
	}
	if got[1].Metadata != nil {
		t.Fatalf("expected nil meta, got %#v", got[1].Metadata)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestList_WithFilters_OrderAndArgs(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer func(db *sql.DB) { _ = db.Close() }(db)

	repo := NewEventSQLite(db)

	from := time.Date(2025, 1, 1, 11, 0, 0, 0, time.UTC)
	to := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	typ := " timeout "

	query := `SELECT id, occurred_at, type, request_id, plant_id, sensor_node, message, meta, requested_by FROM analysis_events WHERE occurred_at >= ? AND occurred_at <= ? AND type = ? ORDER BY occurred_at ASC`

	rows := sqlmock.NewRows(eventColumns).
		AddRow("2", from, "TIMEOUT", "r2", "p1", "JSON", "b", nil, 1).
		AddRow("3", to, "TIMEOUT", "r3", "p2", "JSON2", "c", nil, nil)

	mock.ExpectQuery(regexp.QuoteMeta(query)).
		WithArgs(from.UTC(), to.UTC(), "TIMEOUT").
		WillReturnRows(rows)

	got, err := repo.List(ctx(t), from, to, typ)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 || got[0].EventID != "2" || got[1].EventID != "3" {
		t.Fatalf("unexpected results: %+v", got)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestList_ScanError(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer func(db *sql.DB) { _ = db.Close() }(db)

	repo := NewEventSQLite(db)

	rows := sqlmock.NewRows(eventColumns).
		// occurred_at wrong type to force scan error
		AddRow("x", 123, "TRIGGERED", nil, nil, nil, "msg", nil, nil)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, occurred_at, type, request_id, plant_id, sensor_node, message, meta, requested_by FROM analysis_events ORDER BY occurred_at ASC`)).
		WillReturnRows(rows)

	_, err = repo.List(ctx(t), time.Time{}, time.Time{}, "")
	if err == nil {
		t.Fatalf("expected scan error, got nil")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}
