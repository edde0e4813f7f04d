package rbac

// Role names. Keep these stable; they are part of auth/RBAC contracts.
const (
	RoleAdmin      = "admin"
	RoleSupervisor = "supervisor"
	RoleAgent      = "agent"
)

func IsAdmin(role string) bool { return role == RoleAdmin }

// Valid reports whether role is one the console issues tokens for.
func Valid(role string) bool {
	switch role {
	case RoleAdmin, RoleSupervisor, RoleAgent:
		return true
	default:
		return false
	}
}

// Managers may change members, groups, contacts, the blocklist and settings.
var Managers = []string{RoleAdmin, RoleSupervisor}

// Everyone may read console data and place click-to-call requests.
var Everyone = []string{RoleAdmin, RoleSupervisor, RoleAgent}
