package callerdesk

import "context"

const (
	opDashboardSummary = "dashboard_summary"
	opProfileBilling   = "profile_billing_v2"
	opDeskphones       = "getdeskphone_v2"
	opMemberAnalysis   = "member_analysis_report"
	opNotifications    = "notification_list"
)

type DashboardSummaryResponse struct {
	Envelope
	TotalCalls    FlexInt `json:"total_calls"`
	AnsweredCalls FlexInt `json:"answered_calls"`
	MissedCalls   FlexInt `json:"missed_calls"`
	TotalMembers  FlexInt `json:"total_members"`
	Balance       string  `json:"balance"`
}

func (c *Client) DashboardSummary(ctx context.Context, authCode string) (*DashboardSummaryResponse, error) {
	var out DashboardSummaryResponse
	if _, err := c.PostForm(ctx, opDashboardSummary, authCode, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type Profile struct {
	AccountID   FlexString `json:"account_id"`
	CompanyName string     `json:"company_name"`
	Email       string     `json:"email"`
	Mobile      string     `json:"mobile"`
}

type ProfileResponse struct {
	Envelope
	Profile *Profile   `json:"profile"`
	Balance FlexString `json:"balance"`
}

// ProfileBalance returns the account profile and balance. It is also the
// cheapest call that proves a credential is accepted.
func (c *Client) ProfileBalance(ctx context.Context, authCode string) (*ProfileResponse, error) {
	var out ProfileResponse
	if _, err := c.PostForm(ctx, opProfileBilling, authCode, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Deskphone is an IVR number that can be used as caller ID.
type Deskphone struct {
	DIDID     FlexString `json:"did_id"`
	DIDNum    string     `json:"did_num"`
	Deskphone string     `json:"deskphone"`
}

type DeskphonesResponse struct {
	Envelope
	Deskphones []Deskphone `json:"getdeskphone"`
}

func (c *Client) Deskphones(ctx context.Context, authCode string) (*DeskphonesResponse, error) {
	var out DeskphonesResponse
	if _, err := c.PostForm(ctx, opDeskphones, authCode, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type MemberAnalysis struct {
	MemberID      FlexString `json:"member_id"`
	MemberName    string     `json:"member_name"`
	TotalCalls    FlexInt    `json:"total_calls"`
	AnsweredCalls FlexInt    `json:"answered_calls"`
	MissedCalls   FlexInt    `json:"missed_calls"`
	AvgTalkTime   string     `json:"avg_talk_time"`
}

type MemberAnalysisResponse struct {
	Envelope
	Result []MemberAnalysis `json:"result"`
}

func (c *Client) MemberAnalysis(ctx context.Context, authCode string) (*MemberAnalysisResponse, error) {
	var out MemberAnalysisResponse
	if _, err := c.PostForm(ctx, opMemberAnalysis, authCode, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type Notification struct {
	ID        FlexString `json:"id"`
	Title     string     `json:"title"`
	Message   string     `json:"message"`
	CreatedAt string     `json:"created_at"`
	IsRead    FlexInt    `json:"is_read"`
}

type NotificationsResponse struct {
	Envelope
	Result []Notification `json:"result"`
}

func (c *Client) Notifications(ctx context.Context, authCode string) (*NotificationsResponse, error) {
	var out NotificationsResponse
	if _, err := c.PostForm(ctx, opNotifications, authCode, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
