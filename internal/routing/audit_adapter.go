package routing

import (
	"context"

	"callerdesk-console/internal/audit"
	"callerdesk-console/pkg/logger"
)

// AuditAdapter records routing outcomes in the shared audit.Service.
// Audit failures are logged and otherwise ignored.
type AuditAdapter struct {
	Audit *audit.Service
}

func (a AuditAdapter) RecordOutcome(ctx context.Context, call InboundCall, out Outcome) {
	if a.Audit == nil || call.WorkspaceID == "" {
		return
	}
	err := a.Audit.LogRoutingOutcome(ctx,
		call.WorkspaceID,
		ClientIPFromContext(ctx),
		call.ProviderCallID,
		call.CallerNumber,
		out.Decision.AgentNumber,
		string(out.Reason),
		out.Message,
	)
	if err != nil {
		logger.From(ctx).Error("audit routing outcome failed", "err", err)
	}
}
