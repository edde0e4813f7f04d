package calls

import (
	"context"

	"callerdesk-console/internal/callerdesk"
	"callerdesk-console/pkg/logger"
)

// DefaultHistoryPageSize is how many recent outbound records a lookup scans.
const DefaultHistoryPageSize = 100

// LogSource is the slice of the CallerDesk client the history query needs.
type LogSource interface {
	CallLogs(ctx context.Context, authCode string, f callerdesk.CallLogFilter) (*callerdesk.CallLogsResponse, error)
}

// HistoryQuery reads outbound call history for a tenant.
type HistoryQuery struct {
	source LogSource
}

func NewHistoryQuery(source LogSource) *HistoryQuery {
	return &HistoryQuery{source: source}
}

// FetchOutboundHistory returns up to pageSize of the most recent outbound
// records for the tenant identified by authCode.
//
// It fails soft: a transport failure, a malformed body, a non-success envelope
// or a missing result list all yield an empty slice. Callers cannot tell "no
// history" from "fetch failed", and must not need to.
//
// number is not used for filtering; it only tags the log lines.
func (q *HistoryQuery) FetchOutboundHistory(ctx context.Context, authCode, number string, pageSize int) []CallRecord {
	if pageSize <= 0 {
		pageSize = DefaultHistoryPageSize
	}
	log := logger.From(ctx).With("op", "fetch_outbound_history", "caller_number", number)
	if q == nil || q.source == nil {
		log.Error("history source not configured")
		return []CallRecord{}
	}

	resp, err := q.source.CallLogs(ctx, authCode, callerdesk.CallLogFilter{
		FlowType: callerdesk.FlowOutbound,
		PerPage:  pageSize,
	})
	if err != nil {
		log.Warn("outbound history fetch failed", "err", err)
		return []CallRecord{}
	}
	if resp == nil {
		log.Warn("outbound history fetch returned no body")
		return []CallRecord{}
	}
	if !resp.OK() || resp.Result == nil {
		log.Warn("outbound history unavailable", "type", resp.Type, "message", resp.Message)
		return []CallRecord{}
	}

	log.Debug("outbound history fetched", "records", len(resp.Result))
	return FromLogs(resp.Result)
}
