package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/eta-einvoice/internal/application/auth"
	"github.com/jhoicas/eta-einvoice/internal/application/dto"
	"github.com/jhoicas/eta-einvoice/internal/domain"
	"github.com/jhoicas/eta-einvoice/internal/domain/entity"
	"github.com/jhoicas/eta-einvoice/pkg/jwt"
)

const secret = "test-secret"

type userRepo struct{ users []*entity.User }

func (r *userRepo) Create(_ context.Context, u *entity.User) error {
	r.users = append(r.users, u)
	return nil
}

func (r *userRepo) GetByEmailAndCompany(_ context.Context, email, companyID string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Email == email && u.CompanyID == companyID {
			return u, nil
		}
	}
	return nil, nil
}

func (r *userRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

type companyRepo struct{}

func (companyRepo) Create(context.Context, *entity.Company) error { return nil }

func (companyRepo) GetByID(_ context.Context, id string) (*entity.Company, error) {
	if id != "co-1" {
		return nil, nil
	}
	return &entity.Company{ID: "co-1"}, nil
}

func newUC() (*auth.AuthUseCase, *userRepo) {
	users := &userRepo{}
	return auth.NewAuthUseCase(users, companyRepo{}, auth.JWTConfig{Secret: secret, ExpMinutes: 5, Issuer: "test"}), users
}

func TestRegisterYLogin(t *testing.T) {
	uc, users := newUC()
	ctx := context.Background()

	out, err := uc.RegisterUser(ctx, dto.RegisterRequest{Email: "ana@acme.eg", Password: "password1", CompanyID: "co-1", Role: entity.RoleContador})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleContador, out.Role)
	require.Len(t, users.users, 1)
	assert.NotEqual(t, "password1", users.users[0].PasswordHash)

	login, err := uc.Login(ctx, dto.LoginRequest{Email: "ana@acme.eg", Password: "password1"})
	require.NoError(t, err)
	_, companyID, role, err := jwt.Parse(secret, login.Token)
	require.NoError(t, err)
	assert.Equal(t, "co-1", companyID)
	assert.Equal(t, entity.RoleContador, role)
}

func TestRegister_RolPorDefectoYDuplicado(t *testing.T) {
	uc, _ := newUC()
	ctx := context.Background()

	out, err := uc.RegisterUser(ctx, dto.RegisterRequest{Email: "b@acme.eg", Password: "password1", CompanyID: "co-1"})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleVendedor, out.Role)

	_, err = uc.RegisterUser(ctx, dto.RegisterRequest{Email: "b@acme.eg", Password: "password1", CompanyID: "co-1"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	_, err = uc.RegisterUser(ctx, dto.RegisterRequest{Email: "c@acme.eg", Password: "password1", CompanyID: "otra"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLogin_Errores(t *testing.T) {
	uc, users := newUC()
	ctx := context.Background()
	_, err := uc.RegisterUser(ctx, dto.RegisterRequest{Email: "d@acme.eg", Password: "password1", CompanyID: "co-1"})
	require.NoError(t, err)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "d@acme.eg", Password: "otra-clave"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "nadie@acme.eg", Password: "password1"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	users.users[0].Status = "suspended"
	_, err = uc.Login(ctx, dto.LoginRequest{Email: "d@acme.eg", Password: "password1"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestRegister_RolDesconocido(t *testing.T) {
	uc, users := newUC()
	_, err := uc.RegisterUser(context.Background(), dto.RegisterRequest{Email: "e@acme.eg", Password: "password1", CompanyID: "co-1", Role: "bodeguero"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, users.users)
}

func TestRegister_NormalizaEmailYRol(t *testing.T) {
	uc, users := newUC()
	ctx := context.Background()

	out, err := uc.RegisterUser(ctx, dto.RegisterRequest{Email: "  Ana@Acme.EG ", Password: "password1", CompanyID: "co-1", Role: "Admin"})
	require.NoError(t, err)
	assert.Equal(t, "ana@acme.eg", out.Email)
	assert.Equal(t, entity.RoleAdmin, out.Role)

	_, err = uc.RegisterUser(ctx, dto.RegisterRequest{Email: "ANA@acme.eg", Password: "password1", CompanyID: "co-1"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
	assert.Len(t, users.users, 1)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "Ana@ACME.eg", Password: "password1"})
	assert.NoError(t, err)
}
