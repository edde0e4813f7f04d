package audit

import (
	"context"
	"database/sql"
	"fmt"
)

// PostgresRepo stores events in the audit_events table:
//
//	CREATE TABLE audit_events (
//		id            uuid PRIMARY KEY,
//		workspace_id  text NOT NULL,
//		type          text NOT NULL,
//		actor_user_id text,
//		actor_role    text,
//		ip_address    text,
//		call_id       text,
//		caller_number text,
//		agent_number  text,
//		outcome       text,
//		message       text,
//		metadata      jsonb,
//		created_at    timestamptz NOT NULL
//	);
type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo {
	return &PostgresRepo{db: db}
}

func (r *PostgresRepo) Append(ctx context.Context, e Event) error {
	const query = `
		INSERT INTO audit_events (
			id, workspace_id, type, actor_user_id, actor_role, ip_address,
			call_id, caller_number, agent_number, outcome, message, metadata, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err := r.db.ExecContext(ctx, query,
		e.ID,
		e.WorkspaceID,
		string(e.Type),
		nullString(e.ActorUserID),
		nullString(e.ActorRole),
		nullString(e.IPAddress),
		nullString(e.CallID),
		nullString(e.CallerNumber),
		nullString(e.AgentNumber),
		nullString(e.Outcome),
		nullString(e.Message),
		nullString(e.Metadata),
		e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("audit: append event: %w", err)
	}
	return nil
}

func (r *PostgresRepo) Recent(ctx context.Context, f Filter) ([]Event, error) {
	query := `
		SELECT id, workspace_id, type, actor_user_id, actor_role, ip_address,
			   call_id, caller_number, agent_number, outcome, message, metadata, created_at
		FROM audit_events
		WHERE workspace_id = $1
	`
	args := []any{f.WorkspaceID}
	if f.Type != "" {
		query += " AND type = $2"
		args = append(args, string(f.Type))
	}
	query += " ORDER BY created_at DESC"
	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", f.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("audit: query events: %w", err)
	}
	defer rows.Close()

	out := []Event{}
	for rows.Next() {
		var (
			e                                      Event
			typ                                    string
			actor, role, ip, callID, caller, agent sql.NullString
			outcome, message, metadata             sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.WorkspaceID, &typ, &actor, &role, &ip,
			&callID, &caller, &agent, &outcome, &message, &metadata, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("audit: scan event: %w", err)
		}
		e.Type = EventType(typ)
		e.ActorUserID = actor.String
		e.ActorRole = role.String
		e.IPAddress = ip.String
		e.CallID = callID.String
		e.CallerNumber = caller.String
		e.AgentNumber = agent.String
		e.Outcome = outcome.String
		e.Message = message.String
		e.Metadata = metadata.String
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("audit: iterate events: %w", err)
	}
	return out, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
