package reporting

import (
	"context"
	"errors"
	"strings"

	"callerdesk-console/internal/callerdesk"
	"callerdesk-console/internal/calls"
	"callerdesk-console/pkg/logger"
)

var ErrInvalidRequest = errors.New("reporting: invalid request")

// dashboardPreview is how many recent and live calls the dashboard carries.
const dashboardPreview = 5

// Source is the slice of the CallerDesk client the dashboard reads.
type Source interface {
	CallLogs(ctx context.Context, authCode string, f callerdesk.CallLogFilter) (*callerdesk.CallLogsResponse, error)
	Members(ctx context.Context, authCode string) (*callerdesk.MemberListResponse, error)
	ProfileBalance(ctx context.Context, authCode string) (*callerdesk.ProfileResponse, error)
	LiveCalls(ctx context.Context, authCode string) (*callerdesk.LiveCallsResponse, error)
}

type Service struct {
	src Source
}

func NewService(src Source) *Service { return &Service{src: src} }

// Dashboard reads call totals, members, balance and live calls for the tenant.
// Sections fail independently; only a missing credential fails the whole view.
func (s *Service) Dashboard(ctx context.Context, credential string) (Dashboard, error) {
	if strings.TrimSpace(credential) == "" {
		return Dashboard{}, ErrInvalidRequest
	}
	if s.src == nil {
		return Dashboard{}, errors.New("reporting: source not configured")
	}
	log := logger.From(ctx)

	out := Dashboard{LiveCalls: []callerdesk.LiveCall{}, RecentCalls: []calls.CallRecord{}}
	unavailable := func(section string, err error, message string) {
		if err != nil {
			log.Warn("dashboard section failed", "section", section, "err", err)
		} else {
			log.Warn("dashboard section unavailable", "section", section, "message", message)
		}
		out.Warnings = append(out.Warnings, section)
	}

	logs, err := s.src.CallLogs(ctx, credential, callerdesk.CallLogFilter{})
	switch {
	case err != nil:
		unavailable("calls", err, "")
	case !logs.OK():
		unavailable("calls", nil, logs.Message)
	default:
		out.TotalCalls = int(logs.Total)
		out.AnsweredCalls = int(logs.AnsweredTotal)
		out.MissedCalls = int(logs.NoAnswerTotal)
		out.AnswerRate = Percent(out.AnsweredCalls, out.TotalCalls)
		out.MissedRate = Percent(out.MissedCalls, out.TotalCalls)
		out.RecentCalls = calls.FromLogs(firstN(logs.Result, dashboardPreview))
	}

	members, err := s.src.Members(ctx, credential)
	switch {
	case err != nil:
		unavailable("members", err, "")
	case !members.OK():
		unavailable("members", nil, members.Message)
	default:
		out.TotalMembers = int(members.TotalRecord)
		for _, m := range members.Members {
			if m.Active() {
				out.ActiveMembers++
			}
		}
	}

	profile, err := s.src.ProfileBalance(ctx, credential)
	switch {
	case err != nil:
		unavailable("balance", err, "")
	case !profile.OK():
		unavailable("balance", nil, profile.Message)
	default:
		out.Balance = profile.Balance.String()
	}
	if out.Balance == "" {
		out.Balance = "0"
	}

	live, err := s.src.LiveCalls(ctx, credential)
	switch {
	case err != nil:
		unavailable("live_calls", err, "")
	case !live.OK():
		unavailable("live_calls", nil, live.Message)
	default:
		out.LiveCallCount = int(live.TotalLiveCalls)
		out.LiveCalls = append(out.LiveCalls, firstN(live.LiveCalls, dashboardPreview)...)
	}

	return out, nil
}

func firstN[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	return items
}

// Summarize counts a page of records by flow and status.
func Summarize(records []calls.CallRecord) Summary {
	var out Summary
	for _, r := range records {
		out.Total++
		switch r.Flow {
		case calls.FlowInbound:
			out.Inbound++
		case calls.FlowOutbound:
			out.Outbound++
		}
		switch r.Status {
		case calls.CallStatusAnswered:
			out.Answered++
		case calls.CallStatusNoAnswer:
			out.NoAnswer++
		default:
			out.Other++
		}
		out.TotalTalkSeconds += r.TalkDurationSeconds
		if r.RecordingURL != "" {
			out.Recorded++
		}
	}
	if out.Total > 0 {
		out.AverageTalkSeconds = out.TotalTalkSeconds / out.Total
	}
	return out
}

// Percent returns n as a whole percentage of total, rounded half up.
func Percent(n, total int) int {
	if total <= 0 || n <= 0 {
		return 0
	}
	return (n*200 + total) / (2 * total)
}
