package main

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"callerdesk-console/internal/auth"
	"callerdesk-console/internal/config"
	"callerdesk-console/internal/httpapi"
	"callerdesk-console/internal/observability/metrics"
	"callerdesk-console/internal/rbac"
	"callerdesk-console/internal/routing"
	"callerdesk-console/internal/settings"
	"callerdesk-console/internal/telephony"
	"callerdesk-console/pkg/utils"
)

type deps struct {
	cfg         config.Config
	db          *sql.DB
	rdb         *redis.Client
	auth        *auth.Manager
	metrics     *metrics.ConsoleMetrics
	credentials *settings.Service
	router      *routing.Router
	handlers    httpapi.Handlers
}

// registerRoutes wires HTTP routes to handlers.
// Keep this file free of business logic. Handlers should delegate to internal modules.
func registerRoutes(r *gin.Engine, d deps) {
	h := d.handlers

	// public
	r.GET("/healthz", func(c *gin.Context) {
		ctx := c.Request.Context()
		if err := d.rdb.Ping(ctx).Err(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "redis": err.Error()})
			return
		}
		if d.db != nil {
			if err := utils.HealthCheck(ctx, d.db, 2*time.Second); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "postgres": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.POST("/auth/refresh", h.Refresh)

	// Telephony webhook (public, token-guarded).
	{
		wh := telephony.InboundWebhookHandler{
			Router:           d.router,
			Credentials:      d.credentials,
			Claims:           telephony.RedisClaimer{RDB: d.rdb},
			DedupeTTL:        d.cfg.Routing.DedupeTTL,
			Token:            d.cfg.Routing.WebhookToken,
			DefaultWorkspace: d.cfg.Routing.DefaultWorkspace,
			Metrics:          d.metrics,
		}
		r.POST("/webhooks/inbound-call", wh.HandleInboundCall)
		r.GET("/webhooks/inbound-call", wh.HandleInboundCall)
	}

	// protected API group
	v1 := r.Group("/v1")
	v1.Use(auth.RequireAccessToken(d.auth))
	v1.Use(rbac.RequireWorkspace())
	{
		v1.GET("/me", h.Me)

		// Reads and click-to-call are open to every console role.
		read := v1.Group("")
		read.Use(rbac.RequireAnyRole(rbac.Everyone...))
		{
			read.GET("/dashboard", h.Dashboard)
			read.GET("/calls", h.ListCalls)
			read.GET("/calls/live", h.LiveCalls)
			read.GET("/calls/live/stream", h.LiveCallStream)
			read.POST("/calls/dial", h.Dial)
			read.GET("/members", h.ListMembers)
			read.GET("/groups", h.ListGroups)
			read.GET("/groups/:id/members", h.GroupMembers)
			read.GET("/contacts", h.ListContacts)
			read.GET("/deskphones", h.Deskphones)
			read.GET("/notifications", h.Notifications)
		}

		manage := v1.Group("")
		manage.Use(rbac.RequireAnyRole(rbac.Managers...))
		{
			manage.POST("/members", h.AddMember)
			manage.PUT("/members/:id", h.UpdateMember)
			manage.DELETE("/members/:id", h.DeleteMember)

			manage.POST("/groups", h.CreateGroup)
			manage.PUT("/groups/:id", h.UpdateGroup)
			manage.DELETE("/groups/:id", h.DeleteGroup)
			manage.POST("/groups/:id/members", h.AddGroupMember)
			manage.DELETE("/groups/:id/members/:member_id", h.RemoveGroupMember)

			manage.POST("/contacts", h.SaveContact)
			manage.DELETE("/contacts/:number", h.DeleteContact)
			manage.PUT("/blocklist/:number", h.BlockNumber)
			manage.DELETE("/blocklist/:number", h.UnblockNumber)

			manage.GET("/reports/members", h.MemberReport)
			manage.GET("/settings/credential", h.CredentialStatus)
			manage.PUT("/settings/credential", h.SaveCredential)
			manage.DELETE("/settings/credential", h.ClearCredential)
			manage.POST("/routing/inbound", h.TriggerInbound)
			manage.GET("/audit", h.ListAudit)
		}
	}
}
