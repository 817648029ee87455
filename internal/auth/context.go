package auth

import "github.com/gin-gonic/gin"

const actorKey = "actor"

// Role is a staff member's role inside their organization.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

func (r Role) Valid() bool {
	switch r {
	case RoleOwner, RoleAdmin, RoleMember:
		return true
	}
	return false
}

// Actor is the authenticated dashboard user acting on behalf of one organization.
type Actor struct {
	UserID         string
	OrganizationID string
	StaffID        string
	Role           Role
}

// IsManager reports whether the actor may manage the whole organization.
func (a Actor) IsManager() bool {
	return a.Role == RoleOwner || a.Role == RoleAdmin
}

// CanActOnStaff reports whether the actor may touch data owned by staffID:
// managers may act on anyone, members only on themselves.
func (a Actor) CanActOnStaff(staffID string) bool {
	return a.IsManager() || (a.StaffID != "" && a.StaffID == staffID)
}

// SetActor stores the actor in the Gin context.
func SetActor(c *gin.Context, a Actor) {
	c.Set(actorKey, a)
}

// GetActor returns the authenticated actor, if any.
func GetActor(c *gin.Context) (Actor, bool) {
	if v, ok := c.Get(actorKey); ok {
		if a, ok := v.(Actor); ok {
			return a, true
		}
	}
	return Actor{}, false
}

// GetUserID returns the authenticated user's ID or empty string.
func GetUserID(c *gin.Context) string {
	a, _ := GetActor(c)
	return a.UserID
}
