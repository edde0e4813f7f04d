package auth

import "github.com/golang-jwt/jwt/v5"

type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// Claims is the only JWT claims shape the console issues or accepts.
// Every token is bound to one workspace; the workspace selects the CallerDesk
// credential used on the caller's behalf.
type Claims struct {
	jwt.RegisteredClaims

	UserID      string    `json:"user_id"`
	WorkspaceID string    `json:"workspace_id"`
	Role        string    `json:"role"`
	TokenType   TokenType `json:"token_type"`
}

func (c Claims) Identity() Identity {
	return Identity{UserID: c.UserID, WorkspaceID: c.WorkspaceID, Role: c.Role}
}
