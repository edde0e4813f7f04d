package audit

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresRepo_Append(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	svc := NewService(NewPostgresRepo(db))

	mock.ExpectExec("INSERT INTO audit_events").
		WithArgs(sqlmock.AnyArg(), "w", "routing_outcome", nil, nil, nil,
			"call-1", "555", "A2", "redirected", "Call redirected to Bob", nil, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = svc.LogRoutingOutcome(context.Background(), "w", "", "call-1", "555", "A2", "redirected", "Call redirected to Bob")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepo_AppendWrapsError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO audit_events").WillReturnError(assert.AnError)

	err = NewPostgresRepo(db).Append(context.Background(), Event{ID: "x", WorkspaceID: "w", Type: EventTypeCredentialChanged})
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestPostgresRepo_Recent(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{
		"id", "workspace_id", "type", "actor_user_id", "actor_role", "ip_address",
		"call_id", "caller_number", "agent_number", "outcome", "message", "metadata", "created_at",
	}).AddRow(
		"e1", "w", "credential_changed", "u1", "admin", nil,
		nil, nil, nil, nil, "credential saved", nil, now,
	)

	mock.ExpectQuery("SELECT (.+) FROM audit_events").
		WithArgs("w", "credential_changed").
		WillReturnRows(rows)

	evs, err := NewPostgresRepo(db).Recent(context.Background(), Filter{WorkspaceID: "w", Type: EventTypeCredentialChanged, Limit: 10})
	require.NoError(t, err)
	require.Len(t, evs, 1)
	assert.Equal(t, EventTypeCredentialChanged, evs[0].Type)
	assert.Equal(t, "u1", evs[0].ActorUserID)
	assert.Empty(t, evs[0].CallID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
