package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gadgetwall/backoffice/internal/domain"
)

type memUsers struct {
	byEmail map[string]*domain.User
}

func (m *memUsers) Save(_ context.Context, u *domain.User) error {
	if m.byEmail == nil {
		m.byEmail = map[string]*domain.User{}
	}
	cp := *u
	m.byEmail[u.Email] = &cp
	return nil
}

func (m *memUsers) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	u, ok := m.byEmail[email]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func TestSignupAndLogin(t *testing.T) {
	uc := &AuthUC{Users: &memUsers{}}
	u, err := uc.Signup(context.Background(), "Jo", "JO@Example.com", "pw")
	require.NoError(t, err)
	require.Equal(t, "jo@example.com", u.Email)

	got, err := uc.Login(context.Background(), "jo@example.com", "pw")
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)

	_, err = uc.Login(context.Background(), "jo@example.com", "wrong")
	require.ErrorIs(t, err, ErrBadCredentials)
}

func TestSignupValidation(t *testing.T) {
	uc := &AuthUC{Users: &memUsers{}}
	_, err := uc.Signup(context.Background(), "", "a@b.c", "pw")
	require.Error(t, err)

	_, err = uc.Signup(context.Background(), "A", "a@b.c", "pw")
	require.NoError(t, err)
	_, err = uc.Signup(context.Background(), "A again", "a@b.c", "pw2")
	require.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestAdminFallbackLogin(t *testing.T) {
	uc := &AuthUC{Users: &memUsers{}, AdminEmail: "admin@gadgetwall.pt", AdminPassword: "admin"}
	u, err := uc.Login(context.Background(), "Admin@GadgetWall.pt", "admin")
	require.NoError(t, err)
	require.Equal(t, "Admin", u.Name)

	_, err = uc.Login(context.Background(), "admin@gadgetwall.pt", "nope")
	require.ErrorIs(t, err, ErrBadCredentials)
}
