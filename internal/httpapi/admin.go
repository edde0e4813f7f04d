package httpapi

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"callerdesk-console/internal/audit"
	"callerdesk-console/internal/routing"
)

// --- Settings ---

func (h Handlers) CredentialStatus(c *gin.Context) {
	if h.Settings == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "settings not configured"})
		return
	}
	workspaceID, ok := workspaceFrom(c)
	if !ok {
		return
	}
	st, err := h.Settings.Status(c.Request.Context(), workspaceID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

type saveCredentialRequest struct {
	AuthCode string `json:"authcode"`
}

// SaveCredential verifies the credential upstream and stores it for the
// caller's workspace.
func (h Handlers) SaveCredential(c *gin.Context) {
	if h.Settings == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "settings not configured"})
		return
	}
	var req saveCredentialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	workspaceID, ok := workspaceFrom(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	if err := h.Settings.Save(ctx, workspaceID, req.AuthCode, actorFrom(c)); err != nil {
		abortWithError(c, err)
		return
	}
	st, err := h.Settings.Status(ctx, workspaceID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

func (h Handlers) ClearCredential(c *gin.Context) {
	if h.Settings == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "settings not configured"})
		return
	}
	workspaceID, ok := workspaceFrom(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	if err := h.Settings.Clear(ctx, workspaceID, actorFrom(c)); err != nil {
		abortWithError(c, err)
		return
	}
	st, err := h.Settings.Status(ctx, workspaceID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// --- Routing ---

type inboundRequest struct {
	CallerNumber string `json:"caller_number"`
	Deskphone    string `json:"deskphone"`
}

// TriggerInbound runs the inbound routing pipeline on demand, the same way the
// telephony webhook does.
func (h Handlers) TriggerInbound(c *gin.Context) {
	if h.Router == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "inbound routing not configured"})
		return
	}
	var req inboundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if strings.TrimSpace(req.CallerNumber) == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "caller_number required"})
		return
	}
	workspaceID, ok := workspaceFrom(c)
	if !ok {
		return
	}
	cred, ok := h.credential(c)
	if !ok {
		return
	}
	ctx := routing.WithClientIP(c.Request.Context(), c.ClientIP())
	out := h.Router.HandleIncomingCall(ctx, routing.InboundCall{
		WorkspaceID:    workspaceID,
		Credential:     cred,
		CallerNumber:   req.CallerNumber,
		Deskphone:      req.Deskphone,
		ProviderCallID: "manual-" + uuid.NewString(),
	})
	c.JSON(http.StatusOK, out)
}

// --- Audit ---

func (h Handlers) ListAudit(c *gin.Context) {
	if h.Audit == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "audit not configured"})
		return
	}
	limit, err := positiveQuery(c, "limit")
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	workspaceID, ok := workspaceFrom(c)
	if !ok {
		return
	}
	events, err := h.Audit.Recent(c.Request.Context(), audit.Filter{
		WorkspaceID: workspaceID,
		Type:        audit.EventType(strings.TrimSpace(c.Query("type"))),
		Limit:       limit,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}
