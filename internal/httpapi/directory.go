package httpapi

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"callerdesk-console/internal/callerdesk"
)

// --- Members ---

func (h Handlers) ListMembers(c *gin.Context) {
	cred, ok := h.credential(c)
	if !ok {
		return
	}
	resp, err := h.API.Members(c.Request.Context(), cred)
	if err != nil {
		abortWithError(c, err)
		return
	}
	relay(c, resp.Envelope, resp)
}

func (h Handlers) AddMember(c *gin.Context) {
	var req callerdesk.AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	cred, ok := h.credential(c)
	if !ok {
		return
	}
	env, err := h.API.AddMember(c.Request.Context(), cred, req)
	if err != nil {
		abortWithError(c, err)
		return
	}
	relay(c, env, nil)
}

func (h Handlers) UpdateMember(c *gin.Context) {
	var req callerdesk.UpdateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	req.MemberID = c.Param("id")
	cred, ok := h.credential(c)
	if !ok {
		return
	}
	env, err := h.API.UpdateMember(c.Request.Context(), cred, req)
	if err != nil {
		abortWithError(c, err)
		return
	}
	relay(c, env, nil)
}

func (h Handlers) DeleteMember(c *gin.Context) {
	cred, ok := h.credential(c)
	if !ok {
		return
	}
	env, err := h.API.DeleteMember(c.Request.Context(), cred, c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	relay(c, env, nil)
}

// --- Call groups ---

func (h Handlers) ListGroups(c *gin.Context) {
	cred, ok := h.credential(c)
	if !ok {
		return
	}
	resp, err := h.API.CallGroups(c.Request.Context(), cred)
	if err != nil {
		abortWithError(c, err)
		return
	}
	relay(c, resp.Envelope, resp)
}

func (h Handlers) CreateGroup(c *gin.Context) {
	var req callerdesk.GroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	cred, ok := h.credential(c)
	if !ok {
		return
	}
	env, err := h.API.CreateCallGroup(c.Request.Context(), cred, req)
	if err != nil {
		abortWithError(c, err)
		return
	}
	relay(c, env, nil)
}

func (h Handlers) UpdateGroup(c *gin.Context) {
	var req callerdesk.GroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	cred, ok := h.credential(c)
	if !ok {
		return
	}
	env, err := h.API.UpdateCallGroup(c.Request.Context(), cred, c.Param("id"), req)
	if err != nil {
		abortWithError(c, err)
		return
	}
	relay(c, env, nil)
}

func (h Handlers) DeleteGroup(c *gin.Context) {
	cred, ok := h.credential(c)
	if !ok {
		return
	}
	env, err := h.API.DeleteCallGroup(c.Request.Context(), cred, c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	relay(c, env, nil)
}

func (h Handlers) GroupMembers(c *gin.Context) {
	cred, ok := h.credential(c)
	if !ok {
		return
	}
	resp, err := h.API.GroupMembers(c.Request.Context(), cred, c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	relay(c, resp.Envelope, resp)
}

type groupMemberRequest struct {
	MemberID string `json:"member_id"`
}

func (h Handlers) AddGroupMember(c *gin.Context) {
	var req groupMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	cred, ok := h.credential(c)
	if !ok {
		return
	}
	env, err := h.API.AddGroupMember(c.Request.Context(), cred, c.Param("id"), strings.TrimSpace(req.MemberID))
	if err != nil {
		abortWithError(c, err)
		return
	}
	relay(c, env, nil)
}

// RemoveGroupMember takes the group membership id (group_member_id), not the
// member id.
func (h Handlers) RemoveGroupMember(c *gin.Context) {
	cred, ok := h.credential(c)
	if !ok {
		return
	}
	env, err := h.API.RemoveGroupMember(c.Request.Context(), cred, c.Param("member_id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	relay(c, env, nil)
}

// --- Contacts and blocklist ---

func (h Handlers) ListContacts(c *gin.Context) {
	f := callerdesk.ContactFilter{
		StartDate: strings.TrimSpace(c.Query("start_date")),
		EndDate:   strings.TrimSpace(c.Query("end_date")),
	}
	var err error
	if f.CurrentPage, err = positiveQuery(c, "page"); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if f.PerPage, err = positiveQuery(c, "per_page"); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cred, ok := h.credential(c)
	if !ok {
		return
	}
	resp, err := h.API.Contacts(c.Request.Context(), cred, f)
	if err != nil {
		abortWithError(c, err)
		return
	}
	relay(c, resp.Envelope, resp)
}

func (h Handlers) SaveContact(c *gin.Context) {
	var req callerdesk.SaveContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	cred, ok := h.credential(c)
	if !ok {
		return
	}
	env, err := h.API.SaveContact(c.Request.Context(), cred, req)
	if err != nil {
		abortWithError(c, err)
		return
	}
	relay(c, env, nil)
}

func (h Handlers) DeleteContact(c *gin.Context) {
	cred, ok := h.credential(c)
	if !ok {
		return
	}
	env, err := h.API.DeleteContact(c.Request.Context(), cred, c.Param("number"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	relay(c, env, nil)
}

func (h Handlers) BlockNumber(c *gin.Context) {
	cred, ok := h.credential(c)
	if !ok {
		return
	}
	env, err := h.API.BlockNumber(c.Request.Context(), cred, c.Param("number"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	relay(c, env, nil)
}

func (h Handlers) UnblockNumber(c *gin.Context) {
	cred, ok := h.credential(c)
	if !ok {
		return
	}
	env, err := h.API.UnblockNumber(c.Request.Context(), cred, c.Param("number"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	relay(c, env, nil)
}

// --- Account ---

func (h Handlers) Deskphones(c *gin.Context) {
	cred, ok := h.credential(c)
	if !ok {
		return
	}
	resp, err := h.API.Deskphones(c.Request.Context(), cred)
	if err != nil {
		abortWithError(c, err)
		return
	}
	relay(c, resp.Envelope, resp)
}

func (h Handlers) MemberReport(c *gin.Context) {
	cred, ok := h.credential(c)
	if !ok {
		return
	}
	resp, err := h.API.MemberAnalysis(c.Request.Context(), cred)
	if err != nil {
		abortWithError(c, err)
		return
	}
	relay(c, resp.Envelope, resp)
}

func (h Handlers) Notifications(c *gin.Context) {
	cred, ok := h.credential(c)
	if !ok {
		return
	}
	resp, err := h.API.Notifications(c.Request.Context(), cred)
	if err != nil {
		abortWithError(c, err)
		return
	}
	relay(c, resp.Envelope, resp)
}
