package auth

import "github.com/gin-gonic/gin"

type Role string

const (
	RoleCreator Role = "GramPanchayat"
	RoleWorker  Role = "CommunityMember"
	RoleAdmin   Role = "Admin"
)

func (r Role) Valid() bool {
	_, ok := rolePermissions[r]
	return ok
}

type Permission string

const (
	PermManageJobs        Permission = "jobs:manage"
	PermApplyJobs         Permission = "jobs:apply"
	PermForceJobStatus    Permission = "jobs:force_status"
	PermBypassOwnership   Permission = "ownership:bypass"
	PermSendNotifications Permission = "notifications:send"
)

// rolePermissions is the single source of role capabilities.
var rolePermissions = map[Role]map[Permission]bool{
	RoleWorker: {
		PermApplyJobs:         true,
		PermSendNotifications: true,
	},
	RoleCreator: {
		PermManageJobs:        true,
		PermApplyJobs:         true,
		PermSendNotifications: true,
	},
	RoleAdmin: {
		PermManageJobs:        true,
		PermApplyJobs:         true,
		PermForceJobStatus:    true,
		PermBypassOwnership:   true,
		PermSendNotifications: true,
	},
}

// Identity is the authenticated caller resolved by the guard.
type Identity struct {
	UserID string
	Role   Role
}

func (i Identity) Can(p Permission) bool {
	return rolePermissions[i.Role][p]
}

// CanManage reports whether the caller owns the resource or may bypass
// ownership.
func (i Identity) CanManage(ownerID string) bool {
	return (ownerID != "" && i.UserID == ownerID) || i.Can(PermBypassOwnership)
}

func (i Identity) IsAdmin() bool {
	return i.Can(PermBypassOwnership)
}

const identityKey = "identity"

// SetIdentity stores the caller on the gin context, along with the user_id and
// role keys used by request logging.
func SetIdentity(c *gin.Context, id Identity) {
	c.Set(identityKey, id)
	c.Set("user_id", id.UserID)
	c.Set("role", string(id.Role))
}

func IdentityFrom(c *gin.Context) (Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return Identity{}, false
	}
	id, ok := v.(Identity)
	return id, ok && id.UserID != ""
}
