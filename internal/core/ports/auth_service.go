package ports

import (
	"context"

	"github.com/kannammal-agro/pricing-system/internal/core/domain"
)

// RegisterInput provisions an actor with a single explicit role. There is no
// role derivation from group membership: the role is set once, here.
type RegisterInput struct {
	Username    string
	Password    string
	Email       string
	Role        domain.Role
	FirmCode    string
	IsSuperuser bool
}

// AuthService handles actor provisioning and login. The core treats the
// resulting actor as a pre-authenticated input; tokens only exist at the
// HTTP edge.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.Actor, error)
	Login(ctx context.Context, username, password string) (string, *domain.Actor, error)
}
