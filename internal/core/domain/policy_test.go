package domain

import "testing"

func TestCanApprove(t *testing.T) {
	sub := Submission{FirmCode: "KANN"}

	cases := []struct {
		name  string
		actor Actor
		want  bool
	}{
		{"superuser any firm", Actor{IsSuperuser: true}, true},
		{"business head same firm", Actor{Role: RoleBusinessHead, FirmCode: "KANN"}, true},
		{"business head other firm", Actor{Role: RoleBusinessHead, FirmCode: "OTHER"}, false},
		{"business head no firm", Actor{Role: RoleBusinessHead}, false},
		{"admin role only", Actor{Role: RoleAdmin, FirmCode: "KANN"}, false},
		{"buyer same firm", Actor{Role: RoleBuyer, FirmCode: "KANN"}, false},
		{"category head same firm", Actor{Role: RoleCategoryHead, FirmCode: "KANN"}, false},
	}
	for _, tc := range cases {
		if got := CanApprove(tc.actor, sub); got != tc.want {
			t.Errorf("%s: want %v, got %v", tc.name, tc.want, got)
		}
	}
}

func TestHasApprovalRole(t *testing.T) {
	if !HasApprovalRole(Actor{IsSuperuser: true}) {
		t.Error("superuser must have approval role")
	}
	if !HasApprovalRole(Actor{Role: RoleBusinessHead}) {
		t.Error("business head must have approval role even without a firm")
	}
	if HasApprovalRole(Actor{Role: RoleAdmin}) {
		t.Error("the admin role alone must not grant approval")
	}
}

func TestCanDisapprove(t *testing.T) {
	if !CanDisapprove(Actor{Role: RoleAdmin}) {
		t.Error("admin role must be allowed to disapprove")
	}
	if !CanDisapprove(Actor{Role: RoleBusinessHead, FirmCode: "OTHER"}) {
		t.Error("disapprove is role-gated, not firm-gated")
	}
	if CanDisapprove(Actor{Role: RoleBuyer}) {
		t.Error("buyer must not disapprove")
	}
}

func TestCanEdit(t *testing.T) {
	pending := Submission{BuyerID: "b1", Status: StatusPending}
	approved := Submission{BuyerID: "b1", Status: StatusApproved}

	if !CanEdit(Actor{ID: "b1", Role: RoleBuyer}, pending) {
		t.Error("owner must edit own pending submission")
	}
	if CanEdit(Actor{ID: "b2", Role: RoleBuyer}, pending) {
		t.Error("non-owner must not edit")
	}
	if CanEdit(Actor{ID: "b1", Role: RoleBuyer}, approved) {
		t.Error("approved submissions are immutable for buyers")
	}
	if !CanEdit(Actor{IsSuperuser: true}, approved) {
		t.Error("superuser may edit regardless of status")
	}
}

func TestCanViewSubmission(t *testing.T) {
	sub := Submission{FirmCode: "KANN", CategoryCode: "VEG", BuyerID: "b1"}

	cases := []struct {
		name  string
		actor Actor
		want  bool
	}{
		{"admin sees all", Actor{Role: RoleAdmin}, true},
		{"superuser sees all", Actor{IsSuperuser: true}, true},
		{"owner buyer", Actor{ID: "b1", Role: RoleBuyer, FirmCode: "KANN"}, true},
		{"other buyer", Actor{ID: "b2", Role: RoleBuyer, FirmCode: "KANN"}, false},
		{"cross-firm business head", Actor{Role: RoleBusinessHead, FirmCode: "OTHER"}, false},
		{"same-firm business head", Actor{Role: RoleBusinessHead, FirmCode: "KANN"}, true},
		{
			"category head in scope",
			Actor{Role: RoleCategoryHead, FirmCode: "KANN", CategoryScope: &CategoryScope{Categories: []string{"VEG"}}},
			true,
		},
		{
			"category head out of scope",
			Actor{Role: RoleCategoryHead, FirmCode: "KANN", CategoryScope: &CategoryScope{Categories: []string{"GRAIN"}}},
			false,
		},
		{"category head unrestricted", Actor{Role: RoleCategoryHead, FirmCode: "KANN"}, true},
	}
	for _, tc := range cases {
		if got := CanViewSubmission(tc.actor, sub); got != tc.want {
			t.Errorf("%s: want %v, got %v", tc.name, tc.want, got)
		}
	}
}

func TestValidRole(t *testing.T) {
	for _, r := range []Role{RoleBuyer, RoleCategoryHead, RoleBusinessHead, RoleAdmin, RoleNone} {
		if !ValidRole(r) {
			t.Errorf("%s must be valid", r)
		}
	}
	if ValidRole(Role("OVERLORD")) {
		t.Error("unknown role must be invalid")
	}
}
