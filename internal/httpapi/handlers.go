package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"callerdesk-console/internal/audit"
	"callerdesk-console/internal/auth"
	"callerdesk-console/internal/callerdesk"
	"callerdesk-console/internal/rbac"
	"callerdesk-console/internal/reporting"
	"callerdesk-console/internal/routing"
	"callerdesk-console/internal/settings"
	"callerdesk-console/pkg/logger"
)

// CallRouter runs the inbound pipeline. *routing.Router satisfies it.
type CallRouter interface {
	HandleIncomingCall(ctx context.Context, call routing.InboundCall) routing.Outcome
}

// StreamObserver tracks open live-call streams.
type StreamObserver interface {
	StreamOpened()
	StreamClosed()
}

// Handlers groups HTTP handlers for dependency injection.
// Keep these thin: parse/validate input, call internal services, return JSON.
type Handlers struct {
	Auth      *auth.Manager
	API       *callerdesk.Client
	Settings  *settings.Service
	Router    CallRouter
	Reporting *reporting.Service
	Audit     *audit.Service

	// LivePollInterval is how often the live stream polls upstream.
	LivePollInterval time.Duration
	// StreamPongWait bounds how long a stream waits for a pong; pings go out
	// at nine tenths of it. Zero means 60s.
	StreamPongWait   time.Duration
	Streams          StreamObserver
}

const msgUpstreamUnavailable = "upstream unavailable"

// --- Auth ---

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Refresh exchanges a refresh token for a new pair.
func (h Handlers) Refresh(c *gin.Context) {
	if h.Auth == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "auth not configured"})
		return
	}
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "refresh_token required"})
		return
	}
	pair, err := h.Auth.Refresh(req.RefreshToken, time.Now())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh token"})
		return
	}
	c.JSON(http.StatusOK, pair)
}

func (h Handlers) Me(c *gin.Context) {
	id, err := auth.IdentityFrom(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "identity required"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user_id": id.UserID, "workspace_id": id.WorkspaceID, "role": id.Role})
}

// --- shared plumbing ---

// credential resolves the tenant credential for the caller's workspace.
// It writes the error response itself and reports false on failure.
func (h Handlers) credential(c *gin.Context) (string, bool) {
	if h.Settings == nil || h.API == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "callerdesk not configured"})
		return "", false
	}
	workspaceID, ok := workspaceFrom(c)
	if !ok {
		return "", false
	}
	cred, err := h.Settings.Resolve(c.Request.Context(), workspaceID)
	if err != nil {
		abortWithError(c, err)
		return "", false
	}
	return cred, true
}

// workspaceFrom reads the caller's workspace, answering 401 when it is absent.
func workspaceFrom(c *gin.Context) (string, bool) {
	workspaceID, err := auth.WorkspaceID(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "workspace_id required"})
		return "", false
	}
	return workspaceID, true
}

// abortWithError maps gateway and service errors onto HTTP statuses.
func abortWithError(c *gin.Context, err error) {
	var te *callerdesk.TransportError
	var rejected *settings.RejectedError
	switch {
	case errors.Is(err, settings.ErrNotConfigured), errors.Is(err, callerdesk.ErrMissingCredential):
		c.AbortWithStatusJSON(http.StatusPreconditionFailed, gin.H{"error": "callerdesk credential not configured"})
	case errors.Is(err, callerdesk.ErrInvalidRequest),
		errors.Is(err, reporting.ErrInvalidRequest),
		errors.Is(err, settings.ErrEmptyCredential):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &rejected):
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"error": rejected.Message})
	case errors.As(err, &te):
		logger.FromGin(c).Warn("callerdesk transport failure", "op", te.Op, "status", te.StatusCode, "err", err)
		c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{"error": msgUpstreamUnavailable})
	case errors.Is(err, callerdesk.ErrMalformedEnvelope):
		logger.FromGin(c).Warn("callerdesk malformed response", "err", err)
		c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{"error": "upstream returned a malformed response"})
	default:
		_ = c.Error(err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// relay writes body when the envelope reports success, and the envelope
// message as a 502 otherwise.
func relay(c *gin.Context, env callerdesk.Envelope, body any) {
	if !env.OK() {
		c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{"error": env.MessageOr("request failed")})
		return
	}
	if body == nil {
		body = env
	}
	c.JSON(http.StatusOK, body)
}

func actorFrom(c *gin.Context) settings.Actor {
	id, _ := auth.IdentityFrom(c.Request.Context())
	return settings.Actor{UserID: id.UserID, Role: id.Role, IP: c.ClientIP()}
}

// RequireWorkspaceAndAnyRole bundles the usual guards for a route group.
func RequireWorkspaceAndAnyRole(roles ...string) []gin.HandlerFunc {
	return []gin.HandlerFunc{rbac.RequireWorkspace(), rbac.RequireAnyRole(roles...)}
}
