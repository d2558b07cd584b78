package models

import "testing"

func TestUserPasswordRoundTrip(t *testing.T) {
	u, err := CreateUser("jdoe", "JDoe@Example.com", "s3cret-pass", ROLE_MANAGER)
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	if u.Email != "jdoe@example.com" {
		t.Fatalf("email not normalized: %q", u.Email)
	}
	if !u.CheckPassword("s3cret-pass") {
		t.Fatalf("expected password to verify")
	}
	if u.CheckPassword("wrong") {
		t.Fatalf("wrong password must not verify")
	}
}

func TestUserCanManageShipping(t *testing.T) {
	tests := []struct {
		role string
		want bool
	}{
		{role: ROLE_ADMIN, want: true},
		{role: ROLE_MANAGER, want: true},
		{role: ROLE_EMPLOYEE, want: false},
	}
	for _, tt := range tests {
		u := User{Role: tt.role}
		if got := u.CanManageShipping(); got != tt.want {
			t.Fatalf("CanManageShipping(%s) = %v, want %v", tt.role, got, tt.want)
		}
	}
}

func TestNormalizeProvider(t *testing.T) {
	if got := NormalizeProvider("  FedEx "); got != "fedex" {
		t.Fatalf("NormalizeProvider = %q, want fedex", got)
	}
}

func TestShippingAccountIsUnassigned(t *testing.T) {
	a := ShippingAccount{Provider: ProviderOther, AccountName: UnassignedAccountName}
	if !a.IsUnassigned() {
		t.Fatalf("sentinel account not detected")
	}
	b := ShippingAccount{Provider: ProviderUPS, AccountName: "UPS Main"}
	if b.IsUnassigned() {
		t.Fatalf("regular account misdetected as sentinel")
	}
}
