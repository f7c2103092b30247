package service

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/kannammal-agro/pricing-system/internal/core/domain"
	"github.com/kannammal-agro/pricing-system/internal/core/ports"
)

// AuthService implements actor provisioning and login.
type AuthService struct {
	repo      ports.ActorRepository
	jwtSecret string
	tokenTTL  time.Duration
}

func NewAuthService(repo ports.ActorRepository, jwtSecret string, tokenTTL time.Duration) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{repo: repo, jwtSecret: jwtSecret, tokenTTL: tokenTTL}
}

// Register provisions an actor with an explicit role. Buyers, business heads
// and category heads require a firm; admins and superusers may have none.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.Actor, error) {
	if in.Username == "" || in.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}
	if !domain.ValidRole(in.Role) {
		return nil, domain.ErrInvalidCredentials
	}
	if in.FirmCode == "" && !in.IsSuperuser && in.Role != domain.RoleAdmin && in.Role != domain.RoleNone {
		return nil, fmt.Errorf("register: %w", domain.ErrInvalidCredentials)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	actor := &domain.Actor{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         in.Role,
		FirmCode:     in.FirmCode,
		IsSuperuser:  in.IsSuperuser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, actor)
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Login verifies credentials and returns a signed token carrying the actor's
// identity, role, firm and superuser flag.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *domain.Actor, error) {
	if username == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	actor, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(actor.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.generateToken(actor)
	if err != nil {
		return "", nil, err
	}

	return token, actor, nil
}

func (s *AuthService) generateToken(a *domain.Actor) (string, error) {
	claims := jwt.MapClaims{
		"sub":          a.ID,
		"username":     a.Username,
		"role":         string(a.Role),
		"firm_code":    a.FirmCode,
		"is_superuser": a.IsSuperuser,
		"exp":          time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
