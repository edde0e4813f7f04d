package rbac

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"callerdesk-console/internal/auth"
)

// RequireWorkspace enforces that every authenticated request is bound to a workspace.
func RequireWorkspace() gin.HandlerFunc {
	return func(c *gin.Context) {
		wid, err := auth.WorkspaceID(c.Request.Context())
		if err != nil || wid == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "workspace_id required"})
			return
		}
		c.Next()
	}
}

// RequireAnyRole allows access if the caller has any of the provided roles.
// admin bypasses all checks; unknown roles are always denied.
func RequireAnyRole(allowed ...string) gin.HandlerFunc {
	allowedSet := make(map[string]struct{}, len(allowed))
	for _, r := range allowed {
		allowedSet[r] = struct{}{}
	}

	return func(c *gin.Context) {
		role, err := auth.Role(c.Request.Context())
		if err != nil || role == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "role required"})
			return
		}
		if !Valid(role) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		if IsAdmin(role) {
			c.Next()
			return
		}
		if _, ok := allowedSet[role]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}
