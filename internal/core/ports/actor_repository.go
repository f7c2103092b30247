package ports

import (
	"context"

	"github.com/kannammal-agro/pricing-system/internal/core/domain"
)

// ActorRepository defines persistence for actor provisioning and lookup.
type ActorRepository interface {
	FindByUsername(ctx context.Context, username string) (*domain.Actor, error)
	FindByID(ctx context.Context, id string) (*domain.Actor, error)
	Create(ctx context.Context, a *domain.Actor) (*domain.Actor, error)
}
