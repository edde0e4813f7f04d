package httpapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"callerdesk-console/internal/callerdesk"
	"callerdesk-console/internal/calls"
	"callerdesk-console/internal/reporting"
)

func (h Handlers) Dashboard(c *gin.Context) {
	if h.Reporting == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "reporting not configured"})
		return
	}
	cred, ok := h.credential(c)
	if !ok {
		return
	}
	d, err := h.Reporting.Dashboard(c.Request.Context(), cred)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

type callListResponse struct {
	Calls       []calls.CallRecord `json:"calls"`
	Summary     reporting.Summary  `json:"summary"`
	Total       int                `json:"total"`
	CurrentPage int                `json:"current_page"`
}

// ListCalls returns one page of call logs. Query: start_date, end_date, page,
// per_page, result, flow (inbound or outbound).
func (h Handlers) ListCalls(c *gin.Context) {
	f, err := callFilterFromQuery(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cred, ok := h.credential(c)
	if !ok {
		return
	}
	resp, err := h.API.CallLogs(c.Request.Context(), cred, f)
	if err != nil {
		abortWithError(c, err)
		return
	}
	records := calls.FromLogs(resp.Result)
	relay(c, resp.Envelope, callListResponse{
		Calls:       records,
		Summary:     reporting.Summarize(records),
		Total:       int(resp.Total),
		CurrentPage: int(resp.CurrentPage),
	})
}

func callFilterFromQuery(c *gin.Context) (callerdesk.CallLogFilter, error) {
	f := callerdesk.CallLogFilter{
		StartDate:  strings.TrimSpace(c.Query("start_date")),
		EndDate:    strings.TrimSpace(c.Query("end_date")),
		CallResult: strings.ToUpper(strings.TrimSpace(c.Query("result"))),
	}
	var err error
	if f.CurrentPage, err = positiveQuery(c, "page"); err != nil {
		return f, err
	}
	if f.PerPage, err = positiveQuery(c, "per_page"); err != nil {
		return f, err
	}
	switch strings.ToLower(strings.TrimSpace(c.Query("flow"))) {
	case "":
	case string(calls.FlowInbound):
		f.FlowType = callerdesk.FlowInbound
	case string(calls.FlowOutbound):
		f.FlowType = callerdesk.FlowOutbound
	default:
		return f, errBadQuery("flow must be inbound or outbound")
	}
	return f, nil
}

type errBadQuery string

func (e errBadQuery) Error() string { return string(e) }

func positiveQuery(c *gin.Context, key string) (int, error) {
	v := strings.TrimSpace(c.Query(key))
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return 0, errBadQuery(key + " must be a positive integer")
	}
	return n, nil
}

func (h Handlers) LiveCalls(c *gin.Context) {
	cred, ok := h.credential(c)
	if !ok {
		return
	}
	resp, err := h.API.LiveCalls(c.Request.Context(), cred)
	if err != nil {
		abortWithError(c, err)
		return
	}
	relay(c, resp.Envelope, resp)
}

type dialRequest struct {
	AgentNumber    string `json:"agent_number"`
	CustomerNumber string `json:"customer_number"`
	Deskphone      string `json:"deskphone"`
}

// Dial rings the agent first and bridges the customer once the agent answers.
func (h Handlers) Dial(c *gin.Context) {
	var req dialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	req.AgentNumber = strings.TrimSpace(req.AgentNumber)
	req.CustomerNumber = strings.TrimSpace(req.CustomerNumber)
	req.Deskphone = strings.TrimSpace(req.Deskphone)
	if req.AgentNumber == "" || req.CustomerNumber == "" || req.Deskphone == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "agent_number, customer_number, deskphone required"})
		return
	}
	cred, ok := h.credential(c)
	if !ok {
		return
	}
	env, err := h.API.ClickToCall(c.Request.Context(), cred, callerdesk.ClickToCallRequest{
		PartyA:    req.AgentNumber,
		PartyB:    req.CustomerNumber,
		Deskphone: req.Deskphone,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	relay(c, env, nil)
}
