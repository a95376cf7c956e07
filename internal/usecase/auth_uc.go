package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/gadgetwall/backoffice/internal/domain"
)

var ErrBadCredentials = errors.New("invalid email or password")

// AuthUC is deliberately a toy: credentials are compared as stored, plus one
// configurable admin fallback. Hardening is out of scope for this deployment.
type AuthUC struct {
	Users         domain.UserRepo
	AdminEmail    string
	AdminPassword string
}

func (uc *AuthUC) Login(ctx context.Context, email, password string) (*domain.User, error) {
	e := strings.ToLower(strings.TrimSpace(email))
	if u, err := uc.Users.FindByEmail(ctx, e); err == nil && u != nil && u.Password == password {
		return u, nil
	}
	if uc.AdminEmail != "" && e == strings.ToLower(uc.AdminEmail) && password == uc.AdminPassword {
		return &domain.User{Name: "Admin", Email: uc.AdminEmail}, nil
	}
	return nil, ErrBadCredentials
}

func (uc *AuthUC) Signup(ctx context.Context, name, email, password string) (*domain.User, error) {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(email) == "" || password == "" {
		return nil, errors.New("please fill all fields")
	}
	e := strings.ToLower(strings.TrimSpace(email))
	if existing, err := uc.Users.FindByEmail(ctx, e); err == nil && existing != nil {
		return nil, domain.ErrDuplicate
	}
	u := &domain.User{ID: uuid.New(), Name: strings.TrimSpace(name), Email: e, Password: password}
	if err := uc.Users.Save(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}
