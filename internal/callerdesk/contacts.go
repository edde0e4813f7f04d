package callerdesk

import (
	"context"
	"net/url"
	"strconv"
	"strings"
)

const (
	opContactList   = "contact_list_v2"
	opSaveContact   = "savecontact_v2"
	opDeleteContact = "deleteContact"
	opBlockNumber   = "block_number"
	opUnblockNumber = "unblock_number"
)

type Contact struct {
	ContactID    FlexString `json:"contact_id"`
	Number       string     `json:"contact_num"`
	Name         string     `json:"contact_name"`
	Email        string     `json:"contact_email"`
	Address      string     `json:"contact_address"`
	MemberName   *string    `json:"member_name"`
	Status       string     `json:"contact_status"`
	Comment      string     `json:"contact_comment"`
	SaveDate     string     `json:"contact_savedate"`
	FollowUpDate *string    `json:"contact_followupdate"`
	Deskphone    string     `json:"deskphone"`
}

// StatusLabel is the human label for the contact's lead status.
func (c Contact) StatusLabel() string { return ContactStatusLabel(c.Status) }

type ContactFilter struct {
	CurrentPage int
	PerPage     int
	StartDate   string
	EndDate     string
}

func (f ContactFilter) values() url.Values {
	v := url.Values{}
	if f.CurrentPage > 0 {
		v.Set("current_page", strconv.Itoa(f.CurrentPage))
	}
	if f.PerPage > 0 {
		v.Set("per_page", strconv.Itoa(f.PerPage))
	}
	if f.StartDate != "" {
		v.Set("start_date", f.StartDate)
	}
	if f.EndDate != "" {
		v.Set("end_date", f.EndDate)
	}
	return v
}

type ContactListResponse struct {
	Envelope
	Result []Contact `json:"result"`
	Total  FlexInt   `json:"total"`
}

func (c *Client) Contacts(ctx context.Context, authCode string, f ContactFilter) (*ContactListResponse, error) {
	var out ContactListResponse
	if _, err := c.PostForm(ctx, opContactList, authCode, f.values(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type SaveContactRequest struct {
	Number  string `json:"contact_num"`
	Name    string `json:"contact_name"`
	Email   string `json:"contact_email,omitempty"`
	Address string `json:"contact_address,omitempty"`
}

func (c *Client) SaveContact(ctx context.Context, authCode string, req SaveContactRequest) (Envelope, error) {
	if strings.TrimSpace(req.Number) == "" || strings.TrimSpace(req.Name) == "" {
		return Envelope{}, invalid("contact number and name required")
	}
	v := url.Values{}
	v.Set("contact_num", req.Number)
	v.Set("contact_name", req.Name)
	if req.Email != "" {
		v.Set("contact_email", req.Email)
	}
	if req.Address != "" {
		v.Set("contact_address", req.Address)
	}
	return c.PostForm(ctx, opSaveContact, authCode, v, nil)
}

func (c *Client) DeleteContact(ctx context.Context, authCode, number string) (Envelope, error) {
	if strings.TrimSpace(number) == "" {
		return Envelope{}, invalid("contact number required")
	}
	return c.PostForm(ctx, opDeleteContact, authCode, url.Values{"contact_num": {number}}, nil)
}

func (c *Client) BlockNumber(ctx context.Context, authCode, number string) (Envelope, error) {
	if strings.TrimSpace(number) == "" {
		return Envelope{}, invalid("caller number required")
	}
	return c.PostForm(ctx, opBlockNumber, authCode, url.Values{"caller_number": {number}}, nil)
}

func (c *Client) UnblockNumber(ctx context.Context, authCode, number string) (Envelope, error) {
	if strings.TrimSpace(number) == "" {
		return Envelope{}, invalid("caller number required")
	}
	return c.PostForm(ctx, opUnblockNumber, authCode, url.Values{"caller_number": {number}}, nil)
}
