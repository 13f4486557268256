package enums

import "testing"

func TestParseRole(t *testing.T) {
	for _, value := range []string{"ADMIN", "STORE_OWNER", "NORMAL_USER"} {
		role, err := ParseRole(value)
		if err != nil {
			t.Fatalf("parse %s: %v", value, err)
		}
		if role.String() != value {
			t.Fatalf("expected %s, got %s", value, role)
		}
		if !role.IsValid() {
			t.Fatalf("expected %s to be valid", value)
		}
	}
}

func TestParseRoleRejectsUnknown(t *testing.T) {
	if _, err := ParseRole("admin"); err == nil {
		t.Fatal("expected lowercase role to be rejected")
	}
	if _, err := ParseRole("SUPERUSER"); err == nil {
		t.Fatal("expected unknown role to be rejected")
	}
	if Role("").IsValid() {
		t.Fatal("expected empty role to be invalid")
	}
}
