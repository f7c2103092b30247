package domain

// Authorization policy: pure, deterministic predicates over an actor and a
// submission. The actor is always passed explicitly; nothing here reaches
// into ambient request state.

// IsAdmin reports whether the actor holds admin-level authority: either the
// superuser flag or the ADMIN role. Kept separate from the superuser check
// because approval is gated on superuser-or-business-head, not on the admin
// role alone.
func IsAdmin(a Actor) bool {
	return a.IsSuperuser || a.Role == RoleAdmin
}

// HasApprovalRole reports whether the actor's role class may approve at all,
// before any firm scoping. Used by the state machine so that role failures
// surface as Forbidden while firm failures surface as FirmMismatch.
func HasApprovalRole(a Actor) bool {
	return a.IsSuperuser || a.Role == RoleBusinessHead
}

// CanApprove reports whether the actor may approve the submission:
// superusers always, business heads only within their own firm. An actor
// without a firm who is not a superuser is never allowed.
func CanApprove(a Actor, s Submission) bool {
	if a.IsSuperuser {
		return true
	}
	return a.Role == RoleBusinessHead && a.FirmCode != "" && a.FirmCode == s.FirmCode
}

// CanCancelApproval mirrors CanApprove: the same authority approves and
// un-approves.
func CanCancelApproval(a Actor, s Submission) bool {
	return CanApprove(a, s)
}

// CanDisapprove reports whether the actor may revert an approved submission
// to pending. Role check only, no firm scoping.
func CanDisapprove(a Actor) bool {
	return IsAdmin(a) || a.Role == RoleBusinessHead
}

// CanEdit reports whether the actor may edit or delete the submission:
// superusers always, otherwise only the owning buyer while it is pending.
func CanEdit(a Actor, s Submission) bool {
	if a.IsSuperuser {
		return true
	}
	return a.ID == s.BuyerID && s.Status == StatusPending
}

// CanViewSubmission reports whether the actor may read the submission.
// Admins see everything; everyone else is confined to their firm, buyers to
// their own submissions, and category heads to their scoped categories.
func CanViewSubmission(a Actor, s Submission) bool {
	if IsAdmin(a) {
		return true
	}
	if a.FirmCode != "" && s.FirmCode != a.FirmCode {
		return false
	}
	if a.Role == RoleBuyer && s.BuyerID != a.ID {
		return false
	}
	if a.Role == RoleCategoryHead && a.CategoryScope != nil && len(a.CategoryScope.Categories) > 0 {
		for _, c := range a.CategoryScope.Categories {
			if c == s.CategoryCode {
				return true
			}
		}
		return false
	}
	return true
}
