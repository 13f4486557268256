package authz

import (
	"testing"

	"github.com/storerate/storerate-backend/pkg/enums"
)

func TestAllowedAdminOnlyOperations(t *testing.T) {
	adminOnly := []Operation{
		OpUsersList,
		OpUsersCreate,
		OpUsersUpdate,
		OpUsersDelete,
		OpDashboardStats,
		OpStoresCreate,
		OpStoresUpdate,
		OpStoresDelete,
		OpRatingsList,
	}

	for _, op := range adminOnly {
		if !Allowed(enums.RoleAdmin, op) {
			t.Fatalf("expected admin to be allowed %s", op)
		}
		if Allowed(enums.RoleStoreOwner, op) {
			t.Fatalf("expected store owner to be denied %s", op)
		}
		if Allowed(enums.RoleNormalUser, op) {
			t.Fatalf("expected normal user to be denied %s", op)
		}
	}
}

func TestAllowedStoreOwnerOperations(t *testing.T) {
	if !Allowed(enums.RoleStoreOwner, OpStoresMine) {
		t.Fatal("expected store owner to list their stores")
	}
	if Allowed(enums.RoleAdmin, OpStoresMine) {
		t.Fatal("expected admin to be denied owner dashboard")
	}
	if Allowed(enums.RoleNormalUser, OpStoresMine) {
		t.Fatal("expected normal user to be denied owner dashboard")
	}
}

func TestAllowedAuthenticatedOperations(t *testing.T) {
	shared := []Operation{
		OpUsersGet,
		OpStoresList,
		OpStoresGet,
		OpRatingsCreate,
		OpRatingsMine,
		OpRatingsByStore,
		OpRatingsForStore,
		OpRatingsGet,
		OpRatingsUpdate,
		OpRatingsDelete,
		OpAuthChangePassword,
		OpAuthProfile,
	}

	for _, op := range shared {
		for _, role := range []enums.Role{enums.RoleAdmin, enums.RoleStoreOwner, enums.RoleNormalUser} {
			if !Allowed(role, op) {
				t.Fatalf("expected %s to be allowed %s", role, op)
			}
		}
	}
}

func TestAllowedDeniesUnknowns(t *testing.T) {
	if Allowed(enums.RoleAdmin, Operation("nope.nothing")) {
		t.Fatal("unknown operation must deny")
	}
	if Allowed(enums.Role("SUPERVISOR"), OpStoresList) {
		t.Fatal("unknown role must deny")
	}
	if Allowed(enums.Role(""), OpStoresList) {
		t.Fatal("empty role must deny")
	}
}
