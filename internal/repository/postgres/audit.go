package postgres

import (
	"context"
	"encoding/json"

	"proposal-service/internal/audit"

	"github.com/jackc/pgx/v5"
)

var _ audit.Store = (*AuditStore)(nil)

const (
	insertAuditEventSQL = `
		INSERT INTO audit_events (
			id, event_type, actor_type, actor_id, resource_type, resource_id, action, status,
			ip_address, user_agent, request_id, metadata, error_message, created_at
		) VALUES (
			@id, @event_type, @actor_type, @actor_id, @resource_type, @resource_id, @action, @status,
			@ip_address, @user_agent, @request_id, @metadata, @error_message, @created_at
		)`

	// Empty filter values match everything.
	queryAuditEventsSQL = `
		SELECT id, event_type, actor_type, actor_id, resource_type, COALESCE(resource_id, ''),
		       action, status, COALESCE(ip_address, ''), COALESCE(user_agent, ''),
		       COALESCE(request_id, ''), metadata, COALESCE(error_message, ''), created_at
		FROM audit_events
		WHERE (@resource_type = '' OR resource_type = @resource_type)
		  AND (@resource_id = '' OR resource_id = @resource_id)
		  AND (@action = '' OR action = @action)
		  AND (@since::timestamptz IS NULL OR created_at >= @since)
		ORDER BY created_at DESC
		LIMIT @limit`
)

// AuditStore persists audit events in audit_events.
type AuditStore struct {
	db *DB
}

func NewAuditStore(db *DB) *AuditStore {
	return &AuditStore{db: db}
}

func (s *AuditStore) Write(ctx context.Context, event *audit.Event) error {
	var metadata []byte
	if len(event.Metadata) > 0 {
		raw, err := json.Marshal(event.Metadata)
		if err != nil {
			return errFailedWriteAuditEvent(err)
		}
		metadata = raw
	}

	_, err := s.db.Pool.Exec(ctx, insertAuditEventSQL, pgx.NamedArgs{
		"id":            event.ID,
		"event_type":    event.EventType,
		"actor_type":    string(event.ActorType),
		"actor_id":      event.ActorID,
		"resource_type": string(event.ResourceType),
		"resource_id":   nullableText(event.ResourceID),
		"action":        string(event.Action),
		"status":        string(event.Status),
		"ip_address":    nullableText(event.IPAddress),
		"user_agent":    nullableText(event.UserAgent),
		"request_id":    nullableText(event.RequestID),
		"metadata":      metadata,
		"error_message": nullableText(event.ErrorMessage),
		"created_at":    event.CreatedAt,
	})
	if err != nil {
		return errFailedWriteAuditEvent(err)
	}
	return nil
}

// Query returns matching events, newest first.
func (s *AuditStore) Query(ctx context.Context, filter audit.Filter) ([]*audit.Event, error) {
	rows, err := s.db.Pool.Query(ctx, queryAuditEventsSQL, pgx.NamedArgs{
		"resource_type": string(filter.ResourceType),
		"resource_id":   filter.ResourceID,
		"action":        string(filter.Action),
		"since":         filter.Since,
		"limit":         filter.EffectiveLimit(),
	})
	if err != nil {
		return nil, errFailedQueryAuditEvents(err)
	}

	events, err := pgx.CollectRows(rows, scanAuditEvent)
	if err != nil {
		return nil, errFailedQueryAuditEvents(err)
	}
	return events, nil
}

func scanAuditEvent(row pgx.CollectableRow) (*audit.Event, error) {
	var (
		event    audit.Event
		metadata []byte
	)

	err := row.Scan(
		&event.ID,
		&event.EventType,
		&event.ActorType,
		&event.ActorID,
		&event.ResourceType,
		&event.ResourceID,
		&event.Action,
		&event.Status,
		&event.IPAddress,
		&event.UserAgent,
		&event.RequestID,
		&metadata,
		&event.ErrorMessage,
		&event.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &event.Metadata); err != nil {
			return nil, err
		}
	}
	return &event, nil
}
