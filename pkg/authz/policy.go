package authz

import "github.com/storerate/storerate-backend/pkg/enums"

// Operation names a protected API action.
type Operation string

const (
	OpUsersList      Operation = "users.list"
	OpUsersCreate    Operation = "users.create"
	OpUsersGet       Operation = "users.get"
	OpUsersUpdate    Operation = "users.update"
	OpUsersDelete    Operation = "users.delete"
	OpDashboardStats Operation = "users.dashboard_stats"

	OpStoresList    Operation = "stores.list"
	OpStoresCreate  Operation = "stores.create"
	OpStoresMine    Operation = "stores.mine"
	OpStoresGet     Operation = "stores.get"
	OpStoresUpdate  Operation = "stores.update"
	OpStoresDelete  Operation = "stores.delete"

	OpRatingsCreate    Operation = "ratings.create"
	OpRatingsList      Operation = "ratings.list"
	OpRatingsMine      Operation = "ratings.mine"
	OpRatingsByStore   Operation = "ratings.by_store"
	OpRatingsForStore  Operation = "ratings.user_rating"
	OpRatingsGet       Operation = "ratings.get"
	OpRatingsUpdate    Operation = "ratings.update"
	OpRatingsDelete    Operation = "ratings.delete"

	OpAuthChangePassword Operation = "auth.change_password"
	OpAuthProfile        Operation = "auth.profile"
)

var anyAuthenticated = []enums.Role{enums.RoleAdmin, enums.RoleStoreOwner, enums.RoleNormalUser}

// policy maps each protected operation to the set of roles that may invoke it.
// Object-level ownership checks (e.g. editing only your own rating) live in
// the resource services, not here.
var policy = map[Operation][]enums.Role{
	OpUsersList:      {enums.RoleAdmin},
	OpUsersCreate:    {enums.RoleAdmin},
	OpUsersGet:       anyAuthenticated,
	OpUsersUpdate:    {enums.RoleAdmin},
	OpUsersDelete:    {enums.RoleAdmin},
	OpDashboardStats: {enums.RoleAdmin},

	OpStoresList:   anyAuthenticated,
	OpStoresCreate: {enums.RoleAdmin},
	OpStoresMine:   {enums.RoleStoreOwner},
	OpStoresGet:    anyAuthenticated,
	OpStoresUpdate: {enums.RoleAdmin},
	OpStoresDelete: {enums.RoleAdmin},

	OpRatingsCreate:   anyAuthenticated,
	OpRatingsList:     {enums.RoleAdmin},
	OpRatingsMine:     anyAuthenticated,
	OpRatingsByStore:  anyAuthenticated,
	OpRatingsForStore: anyAuthenticated,
	OpRatingsGet:      anyAuthenticated,
	OpRatingsUpdate:   anyAuthenticated,
	OpRatingsDelete:   anyAuthenticated,

	OpAuthChangePassword: anyAuthenticated,
	OpAuthProfile:        anyAuthenticated,
}

// Allowed reports whether role may invoke op. Unknown operations deny.
func Allowed(role enums.Role, op Operation) bool {
	allowed, ok := policy[op]
	if !ok {
		return false
	}
	for _, candidate := range allowed {
		if candidate == role {
			return true
		}
	}
	return false
}
