package domain

import "time"

// Role is an actor's single, explicitly assigned role.
type Role string

const (
	RoleBuyer        Role = "BUYER"
	RoleCategoryHead Role = "CATEGORY_HEAD"
	RoleBusinessHead Role = "BUSINESS_HEAD"
	RoleAdmin        Role = "ADMIN"
	RoleNone         Role = "NONE"
)

// ValidRole reports whether r is one of the assignable roles.
func ValidRole(r Role) bool {
	switch r {
	case RoleBuyer, RoleCategoryHead, RoleBusinessHead, RoleAdmin, RoleNone:
		return true
	}
	return false
}

// BuyerScope is the role-specific payload for buyers: the location they buy
// for and the categories they may submit prices in (empty = unrestricted).
type BuyerScope struct {
	LocationCode      string   `json:"location_code,omitempty" bson:"location_code,omitempty"`
	AllowedCategories []string `json:"allowed_categories,omitempty" bson:"allowed_categories,omitempty"`
}

// CategoryScope is the role-specific payload for category heads: the
// categories they may view (empty = all).
type CategoryScope struct {
	Categories []string `json:"categories,omitempty" bson:"categories,omitempty"`
}

// Actor is a pre-authenticated principal. The core only reads its
// attributes; provisioning and authentication live at the edge.
//
// IsSuperuser is deliberately distinct from RoleAdmin: approval authority is
// gated on the superuser flag (or business-head-with-firm), while the admin
// role grants the global listing views.
type Actor struct {
	ID           string `json:"id" bson:"_id,omitempty"`
	Username     string `json:"username" bson:"username"`
	Email        string `json:"email,omitempty" bson:"email,omitempty"`
	PasswordHash string `json:"-" bson:"password_hash"`

	IsSuperuser bool   `json:"is_superuser" bson:"is_superuser"`
	FirmCode    string `json:"firm_code,omitempty" bson:"firm_code,omitempty"`
	Role        Role   `json:"role" bson:"role"`

	BuyerScope    *BuyerScope    `json:"buyer_scope,omitempty" bson:"buyer_scope,omitempty"`
	CategoryScope *CategoryScope `json:"category_scope,omitempty" bson:"category_scope,omitempty"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// Firm is the organisational tenant boundary scoping submissions and actors.
type Firm struct {
	Name      string    `json:"name" bson:"name"`
	Code      string    `json:"code" bson:"code"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}
