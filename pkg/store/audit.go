package store

import (
	"context"

	"github.com/libvault/registry/pkg/events"
)

// AppendEvent writes one emitted notification to the audit log.
func (s *SQLiteStore) AppendEvent(ctx context.Context, env events.Envelope) error {
	payload, err := env.MarshalPayload()
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO audit_log (event_id, event_type, payload, emitted_at)
		VALUES (?, ?, ?, ?)`,
		env.ID, env.Type, string(payload), env.Timestamp)
	return err
}

// AuditHandler returns a bus handler that records every event.
func (s *SQLiteStore) AuditHandler() events.Handler {
	return func(env events.Envelope) error {
		return s.AppendEvent(context.Background(), env)
	}
}

// AuditEntry is one persisted notification.
type AuditEntry struct {
	Seq       int64  `json:"seq"`
	EventID   string `json:"event_id"`
	EventType string `json:"event_type"`
	Payload   string `json:"payload"`
	EmittedAt int64  `json:"emitted_at"`
}

// RecentEvents returns up to limit audit entries, newest first.
func (s *SQLiteStore) RecentEvents(ctx context.Context, limit int) ([]AuditEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, event_id, event_type, payload, emitted_at
		FROM audit_log ORDER BY seq DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []AuditEntry
	for rows.Next() {
		var e AuditEntry
		if err := rows.Scan(&e.Seq, &e.EventID, &e.EventType, &e.Payload, &e.EmittedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
