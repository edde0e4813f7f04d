package telephony

import (
	"context"
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"callerdesk-console/internal/routing"
	"callerdesk-console/pkg/logger"
	"callerdesk-console/pkg/utils"
)

// CallRouter runs the inbound pipeline. *routing.Router satisfies it.
type CallRouter interface {
	HandleIncomingCall(ctx context.Context, call routing.InboundCall) routing.Outcome
}

// CredentialResolver yields the CallerDesk credential for a workspace.
type CredentialResolver interface {
	Resolve(ctx context.Context, workspaceID string) (string, error)
}

// Claimer guards against processing the same delivery twice.
type Claimer interface {
	Claim(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

// WebhookObserver counts deliveries by status.
type WebhookObserver interface {
	ObserveWebhook(status string)
}

// RedisClaimer claims keys with SET NX.
type RedisClaimer struct {
	RDB *redis.Client
}

func (c RedisClaimer) Claim(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return utils.ClaimOnce(ctx, c.RDB, key, ttl)
}

const (
	webhookHandled   = "handled"
	webhookDuplicate = "duplicate"
	webhookRejected  = "rejected"

	headerWebhookToken = "X-Webhook-Token"
)

// InboundWebhookHandler turns an inbound-call webhook into a routing request
// and replies with the outcome as JSON.
//
// No business logic here.
type InboundWebhookHandler struct {
	Router      CallRouter
	Credentials CredentialResolver

	// Claims is optional; without it every delivery is processed.
	Claims    Claimer
	DedupeTTL time.Duration

	// Token, when non-empty, must match the X-Webhook-Token header or the
	// token query parameter.
	Token string

	// DefaultWorkspace applies when the delivery names no workspace_id.
	DefaultWorkspace string

	Metrics WebhookObserver
}

func (h InboundWebhookHandler) HandleInboundCall(c *gin.Context) {
	log := logger.FromGin(c)

	if h.Router == nil || h.Credentials == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "inbound routing not configured"})
		return
	}
	if !h.authorized(c) {
		h.observe(webhookRejected)
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid webhook token"})
		return
	}

	form, err := ParseInboundCall(c.Request)
	if err != nil {
		h.observe(webhookRejected)
		log.Warn("inbound webhook parse failed", "err", err)
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid form"})
		return
	}
	if form.CallerNumber == "" {
		h.observe(webhookRejected)
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "caller_num is required"})
		return
	}

	workspaceID := form.WorkspaceID
	if workspaceID == "" {
		workspaceID = h.DefaultWorkspace
	}
	c.Set("workspace_id", workspaceID)

	ctx := routing.WithClientIP(c.Request.Context(), c.ClientIP())

	if form.CallID != "" && h.Claims != nil {
		ttl := h.DedupeTTL
		if ttl <= 0 {
			ttl = 10 * time.Minute
		}
		first, err := h.Claims.Claim(ctx, "callerdesk:inbound:"+workspaceID+":"+form.CallID, ttl)
		switch {
		case err != nil:
			// Fail open.
			log.Warn("inbound dedupe claim failed", "call_id", form.CallID, "err", err)
		case !first:
			h.observe(webhookDuplicate)
			log.Info("duplicate inbound delivery ignored", "call_id", form.CallID)
			c.JSON(http.StatusOK, gin.H{"duplicate": true, "message": "Duplicate delivery ignored"})
			return
		}
	}

	credential, err := h.Credentials.Resolve(ctx, workspaceID)
	if err != nil {
		// Without a credential there is no history; the call proceeds normally.
		log.Warn("no credential for inbound routing", "workspace_id", workspaceID, "err", err)
		credential = ""
	}

	out := h.Router.HandleIncomingCall(ctx, form.ToInboundCall(workspaceID, credential))
	h.observe(webhookHandled)
	c.JSON(http.StatusOK, out)
}

func (h InboundWebhookHandler) authorized(c *gin.Context) bool {
	if h.Token == "" {
		return true
	}
	got := c.GetHeader(headerWebhookToken)
	if got == "" {
		got = c.Query("token")
	}
	return subtle.ConstantTimeCompare([]byte(got), []byte(h.Token)) == 1
}

func (h InboundWebhookHandler) observe(status string) {
	if h.Metrics != nil {
		h.Metrics.ObserveWebhook(status)
	}
}
