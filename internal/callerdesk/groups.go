package callerdesk

import (
	"context"
	"net/url"
	"strings"
)

const (
	opGroupList         = "getgrouplist_v2"
	opCreateGroup       = "createcallgroup"
	opUpdateGroup       = "updategroup_v2"
	opDeleteGroup       = "deletegroup"
	opGroupByID         = "getgroupbyid_v2"
	opRemoveGroupMember = "delete_user_call_group"
)

type CallGroup struct {
	GroupID          FlexString `json:"group_id"`
	GroupName        string     `json:"group_name"`
	CallStrategy     string     `json:"call_strategy"`
	IsSticky         string     `json:"is_sticky"`
	IsMultiSticky    string     `json:"is_multi_sticky"`
	GroupOwnerName   *string    `json:"group_owner_name"`
	Extension        string     `json:"extension"`
	DeskphoneID      FlexString `json:"deskphone_id,omitempty"`
	DIDNo            string     `json:"did_no,omitempty"`
	DeskPhone        string     `json:"desk_phone,omitempty"`
	GroupMemberCount FlexInt    `json:"groupmember_count"`
}

// StrategyName is the human label for the group's call distribution strategy.
func (g CallGroup) StrategyName() string { return StrategyName(g.CallStrategy) }

type GroupListResponse struct {
	Envelope
	Groups []CallGroup `json:"grouplist"`
	Total  FlexInt     `json:"total"`
}

func (c *Client) CallGroups(ctx context.Context, authCode string) (*GroupListResponse, error) {
	var out GroupListResponse
	if _, err := c.PostForm(ctx, opGroupList, authCode, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type GroupRequest struct {
	Name        string `json:"group_name"`
	DeskphoneID string `json:"deskphone_id"`
}

func (r GroupRequest) validate() error {
	if strings.TrimSpace(r.Name) == "" || strings.TrimSpace(r.DeskphoneID) == "" {
		return invalid("group name and deskphone id required")
	}
	return nil
}

func (c *Client) CreateCallGroup(ctx context.Context, authCode string, req GroupRequest) (Envelope, error) {
	if err := req.validate(); err != nil {
		return Envelope{}, err
	}
	v := url.Values{}
	v.Set("group_name", req.Name)
	v.Set("deskphone_id", req.DeskphoneID)
	return c.PostForm(ctx, opCreateGroup, authCode, v, nil)
}

func (c *Client) UpdateCallGroup(ctx context.Context, authCode, groupID string, req GroupRequest) (Envelope, error) {
	if strings.TrimSpace(groupID) == "" {
		return Envelope{}, invalid("group id required")
	}
	if err := req.validate(); err != nil {
		return Envelope{}, err
	}
	v := url.Values{}
	v.Set("group_id", groupID)
	v.Set("group_name", req.Name)
	v.Set("deskphone_id", req.DeskphoneID)
	return c.PostForm(ctx, opUpdateGroup, authCode, v, nil)
}

func (c *Client) DeleteCallGroup(ctx context.Context, authCode, groupID string) (Envelope, error) {
	if strings.TrimSpace(groupID) == "" {
		return Envelope{}, invalid("group id required")
	}
	return c.PostForm(ctx, opDeleteGroup, authCode, url.Values{"group_id": {groupID}}, nil)
}

// GroupLiveMember is a member currently assigned to a group.
type GroupLiveMember struct {
	GroupMemberID     FlexString `json:"group_member_id"`
	MemberID          FlexString `json:"member_id"`
	MemberName        string     `json:"member_name"`
	MemberEmail       string     `json:"member_email"`
	MemberNum         string     `json:"member_num"`
	GroupMemberStatus string     `json:"group_member_status"`
	StartTime         string     `json:"starttime"`
	EndTime           string     `json:"endtime"`
	Weekdays          string     `json:"weekdays"`
	Priority          string     `json:"priority"`
	MemberStatus      string     `json:"member_status"`
}

// GroupAvailableMember is an account member not yet in the group.
type GroupAvailableMember struct {
	MemberID    FlexString `json:"member_id"`
	MemberName  string     `json:"member_name"`
	MemberEmail string     `json:"member_email"`
	MemberNum   string     `json:"member_num"`
	Access      string     `json:"access"`
	Status      string     `json:"status"`
}

type GroupDetailResponse struct {
	Envelope
	Members   []GroupLiveMember      `json:"group_user_live"`
	Available []GroupAvailableMember `json:"group_user_nonlive"`
	Groups    []CallGroup            `json:"grouplist"`
}

func (c *Client) GroupMembers(ctx context.Context, authCode, groupID string) (*GroupDetailResponse, error) {
	if strings.TrimSpace(groupID) == "" {
		return nil, invalid("group id required")
	}
	var out GroupDetailResponse
	if _, err := c.PostForm(ctx, opGroupByID, authCode, url.Values{"group_id": {groupID}}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AddGroupMember attaches an existing member to a group.
func (c *Client) AddGroupMember(ctx context.Context, authCode, groupID, memberID string) (Envelope, error) {
	if strings.TrimSpace(groupID) == "" || strings.TrimSpace(memberID) == "" {
		return Envelope{}, invalid("group id and member id required")
	}
	v := url.Values{}
	v.Set("group_id", groupID)
	v.Set("member_id", memberID)
	return c.PostForm(ctx, opUpdateGroup, authCode, v, nil)
}

// RemoveGroupMember detaches a membership row (group_member_id, not member_id).
func (c *Client) RemoveGroupMember(ctx context.Context, authCode, groupMemberID string) (Envelope, error) {
	if strings.TrimSpace(groupMemberID) == "" {
		return Envelope{}, invalid("group member id required")
	}
	return c.PostForm(ctx, opRemoveGroupMember, authCode, url.Values{"id": {groupMemberID}}, nil)
}
