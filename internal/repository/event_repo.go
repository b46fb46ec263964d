package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"plant_monitor/internal/models"
)

type EventSQLite struct {
	db *sql.DB
}

func NewEventSQLite(db *sql.DB) *EventSQLite { return &EventSQLite{db: db} }

// Append inserts a new event. If EventID or OccurredAt are empty, they’re set.
func (r *EventSQLite) Append(ctx context.Context, e models.AnalysisEvent) error {
	if e.EventID == "" {
		e.EventID = uuid.NewString()
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now().UTC()
	} else {
		e.OccurredAt = e.OccurredAt.UTC()
	}

	var metaPtr *string
	if e.Metadata != nil {
		if b, err := json.Marshal(e.Metadata); err == nil {
			s := string(b)
			metaPtr = &s
		}
	}

	var requestedBy *int
	if e.RequestedBy != 0 {
		requestedBy = &e.RequestedBy
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO analysis_events (id, occurred_at, type, request_id, plant_id, sensor_node, message, meta, requested_by)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		e.EventID,
		e.OccurredAt,
		strings.ToUpper(strings.TrimSpace(e.Type)),
		e.RequestID,
		e.PlantID,
		e.SensorNode,
		e.Description,
		metaPtr,
		requestedBy,
	)
	return err
}

// List returns events filtered by [from, to] (inclusive) and/or type, ordered ASC.
func (r *EventSQLite) List(ctx context.Context, from, to time.Time, typ string) ([]models.AnalysisEvent, error) {
	var (
		conds []string
		args  []any
	)

	if !from.IsZero() {
		conds = append(conds, "occurred_at >= ?")
		args = append(args, from.UTC())
	}
	if !to.IsZero() {
		conds = append(conds, "occurred_at <= ?")
		args = append(args, to.UTC())
	}
	if typ = strings.ToUpper(strings.TrimSpace(typ)); typ != "" {
		conds = append(conds, "type = ?")
		args = append(args, typ)
	}

	q := `SELECT id, occurred_at, type, request_id, plant_id, sensor_node, message, meta, requested_by FROM analysis_events`
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY occurred_at ASC"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.AnalysisEvent, 0, 64)
	for rows.Next() {
		var (
			ev                       models.AnalysisEvent
			requestID, plantID, node sql.NullString
			metaStr                  sql.NullString
			requestedBy              sql.NullInt64
		)
		if err := rows.Scan(&ev.EventID, &ev.OccurredAt, &ev.Type, &requestID, &plantID, &node, &ev.Description, &metaStr, &requestedBy); err != nil {
			return nil, err
		}
		ev.OccurredAt = ev.OccurredAt.UTC()
		ev.RequestID = requestID.String
		ev.PlantID = plantID.String
		ev.SensorNode = node.String
		ev.RequestedBy = int(requestedBy.Int64)

		if metaStr.Valid && metaStr.String != "" {
			var v any
			if err := json.Unmarshal([]byte(metaStr.String), &v); err == nil {
				ev.Metadata = v
			} else {
				ev.Metadata = metaStr.String // keep raw if malformed
			}
		}
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
