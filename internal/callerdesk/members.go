package callerdesk

import (
	"context"
	"net/url"
	"strconv"
	"strings"
)

const (
	opMemberList   = "getmemberlist_V2"
	opAddMember    = "addmember_v2"
	opUpdateMember = "updatemember_v2"
	opDeleteMember = "deletemember_v2"

	defaultMemberAccess = 2
	defaultMemberActive = 1
)

type Member struct {
	MemberID    FlexString `json:"member_id"`
	MemberName  string     `json:"member_name"`
	MemberEmail string     `json:"member_email"`
	MemberNum   string     `json:"member_num"`
	Access      string     `json:"access"`
	Status      string     `json:"status"`
	Type        string     `json:"type"`
	AgentExtn   string     `json:"agent_extn"`
}

// Active reports whether the member is enabled for calls.
func (m Member) Active() bool { return m.Status == "1" }

type MemberListResponse struct {
	Envelope
	Members     []Member `json:"getmember"`
	TotalRecord FlexInt  `json:"total_record"`
}

func (c *Client) Members(ctx context.Context, authCode string) (*MemberListResponse, error) {
	var out MemberListResponse
	if _, err := c.PostForm(ctx, opMemberList, authCode, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type AddMemberRequest struct {
	Name   string `json:"member_name"`
	Number string `json:"member_num"`
	// Access and Active default to 2 and 1 when zero.
	Access int `json:"access,omitempty"`
	Active int `json:"active,omitempty"`
}

func (c *Client) AddMember(ctx context.Context, authCode string, req AddMemberRequest) (Envelope, error) {
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Number) == "" {
		return Envelope{}, invalid("member name and number required")
	}
	access, active := req.Access, req.Active
	if access == 0 {
		access = defaultMemberAccess
	}
	if active == 0 {
		active = defaultMemberActive
	}
	v := url.Values{}
	v.Set("member_name", req.Name)
	v.Set("member_num", req.Number)
	v.Set("access", strconv.Itoa(access))
	v.Set("active", strconv.Itoa(active))
	return c.PostForm(ctx, opAddMember, authCode, v, nil)
}

// UpdateMemberRequest changes a member. Nil pointers leave fields untouched.
type UpdateMemberRequest struct {
	MemberID string  `json:"member_id"`
	Number   string  `json:"member_num"`
	Name     *string `json:"member_name,omitempty"`
	Status   *int    `json:"status,omitempty"`
	Access   *int    `json:"access,omitempty"`
}

func (c *Client) UpdateMember(ctx context.Context, authCode string, req UpdateMemberRequest) (Envelope, error) {
	if strings.TrimSpace(req.MemberID) == "" || strings.TrimSpace(req.Number) == "" {
		return Envelope{}, invalid("member id and number required")
	}
	v := url.Values{}
	v.Set("member_id", req.MemberID)
	v.Set("member_num", req.Number)
	if req.Name != nil {
		v.Set("member_name", *req.Name)
	}
	if req.Status != nil {
		v.Set("status", strconv.Itoa(*req.Status))
	}
	if req.Access != nil {
		v.Set("access", strconv.Itoa(*req.Access))
	}
	return c.PostForm(ctx, opUpdateMember, authCode, v, nil)
}

func (c *Client) DeleteMember(ctx context.Context, authCode, memberID string) (Envelope, error) {
	if strings.TrimSpace(memberID) == "" {
		return Envelope{}, invalid("member id required")
	}
	return c.PostForm(ctx, opDeleteMember, authCode, url.Values{"member_id": {memberID}}, nil)
}
