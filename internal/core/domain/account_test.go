package domain

import "testing"

func TestRole_Valid(t *testing.T) {
	if !RoleAdmin.Valid() || !RoleUser.Valid() {
		t.Fatalf("known roles must be valid")
	}
	for _, r := range []Role{"", "root", "Admin", "superuser"} {
		if r.Valid() {
			t.Fatalf("role %q must be invalid", r)
		}
	}
}

func TestAccount_HasRole(t *testing.T) {
	a := &Account{Roles: []Role{RoleUser}}
	if a.HasRole(RoleAdmin) {
		t.Fatalf("user account must not have admin role")
	}
	if !a.HasRole(RoleUser) {
		t.Fatalf("expected user role")
	}
	if a.IsAdmin() {
		t.Fatalf("IsAdmin must be false for a user account")
	}
}

func TestNormalizeEmail(t *testing.T) {
	cases := map[string]string{
		"Foo@Bar.com ":    "foo@bar.com",
		"  A@B.COM":       "a@b.com",
		"already@low.com": "already@low.com",
	}
	for in, want := range cases {
		if got := NormalizeEmail(in); got != want {
			t.Fatalf("NormalizeEmail(%q) = %q, want %q", in, got, want)
		}
	}
	// Idempotent: normalizing twice changes nothing.
	if NormalizeEmail(NormalizeEmail("Foo@Bar.com ")) != "foo@bar.com" {
		t.Fatalf("normalization must be idempotent")
	}
}
