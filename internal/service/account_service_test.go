package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/coursedeck/coursedeck-api/internal/models"
	"github.com/coursedeck/coursedeck-api/internal/repository"
	appErrors "github.com/coursedeck/coursedeck-api/pkg/errors"
)

type mockIdentityRepo struct {
	byEmail   map[string]*models.Identity
	created   []*models.Identity
	createErr error
	findErr   error
}

func key(role models.Role, email string) string {
	return string(role) + ":" + email
}

func (m *mockIdentityRepo) FindByEmail(ctx context.Context, role models.Role, email string) (*models.Identity, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	identity, ok := m.byEmail[key(role, email)]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return identity, nil
}

func (m *mockIdentityRepo) Create(ctx context.Context, role models.Role, identity *models.Identity) error {
	if m.createErr != nil {
		return m.createErr
	}
	if _, exists := m.byEmail[key(role, identity.Email)]; exists {
		return repository.ErrDuplicate
	}
	if m.byEmail == nil {
		m.byEmail = make(map[string]*models.Identity)
	}
	identity.ID = "generated-id"
	identity.Role = role
	m.byEmail[key(role, identity.Email)] = identity
	m.created = append(m.created, identity)
	return nil
}

func newTestAccountService(repo *mockIdentityRepo) *AccountService {
	tokens := newTestTokenService(0)
	return NewAccountService(repo, tokens, nil, zap.NewNop(), AccountConfig{MinPasswordLength: 6})
}

func TestAccountServiceSignupSuccess(t *testing.T) {
	repo := &mockIdentityRepo{}
	svc := newTestAccountService(repo)

	info, err := svc.Signup(context.Background(), models.RoleUser, models.SignupRequest{
		Email:     "a@x.com",
		Password:  "secret1",
		FirstName: "Ada",
		LastName:  "Lovelace",
	})
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", info.Email)
	assert.Equal(t, models.RoleUser, info.Role)

	require.Len(t, repo.created, 1)
	stored := repo.created[0]
	assert.NotEqual(t, "secret1", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secret1")))
}

func TestAccountServiceSignupDuplicateEmail(t *testing.T) {
	repo := &mockIdentityRepo{}
	svc := newTestAccountService(repo)

	req := models.SignupRequest{Email: "a@x.com", Password: "secret1", FirstName: "A", LastName: "B"}

	_, err := svc.Signup(context.Background(), models.RoleAdmin, req)
	require.NoError(t, err)

	_, err = svc.Signup(context.Background(), models.RoleAdmin, req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
	require.Len(t, repo.created, 1)
}

func TestAccountServiceSignupSameEmailDifferentRoles(t *testing.T) {
	repo := &mockIdentityRepo{}
	svc := newTestAccountService(repo)

	req := models.SignupRequest{Email: "a@x.com", Password: "secret1", FirstName: "A", LastName: "B"}

	_, err := svc.Signup(context.Background(), models.RoleUser, req)
	require.NoError(t, err)
	_, err = svc.Signup(context.Background(), models.RoleAdmin, req)
	require.NoError(t, err)
}

func TestAccountServiceSignupValidation(t *testing.T) {
	svc := newTestAccountService(&mockIdentityRepo{})

	cases := []models.SignupRequest{
		{Email: "not-an-email", Password: "secret1", FirstName: "A", LastName: "B"},
		{Email: "a@x.com", Password: "short", FirstName: "A", LastName: "B"},
		{Email: "a@x.com", Password: "secret1"},
	}
	for _, req := range cases {
		_, err := svc.Signup(context.Background(), models.RoleUser, req)
		require.Error(t, err)
		assert.Equal(t, appErrors.ErrValidation.Status, appErrors.FromError(err).Status)
	}
}

func signupFixture(t *testing.T, repo *mockIdentityRepo, svc *AccountService, role models.Role, email, password string) {
	t.Helper()
	_, err := svc.Signup(context.Background(), role, models.SignupRequest{
		Email:     email,
		Password:  password,
		FirstName: "Test",
		LastName:  "Identity",
	})
	require.NoError(t, err)
}

func TestAccountServiceSigninSuccess(t *testing.T) {
	repo := &mockIdentityRepo{}
	svc := newTestAccountService(repo)
	signupFixture(t, repo, svc, models.RoleUser, "a@x.com", "secret1")

	res, err := svc.Signin(context.Background(), models.RoleUser, models.SigninRequest{
		Email:    "a@x.com",
		Password: "secret1",
	})
	require.NoError(t, err)
	require.NotEmpty(t, res.Token)
	assert.Equal(t, "a@x.com", res.Identity.Email)

	// The issued token must verify for the signin role and no other.
	tokens := newTestTokenService(0)
	claims, err := tokens.Verify(res.Token, models.RoleUser)
	require.NoError(t, err)
	assert.Equal(t, res.Identity.ID, claims.IdentityID)

	_, err = tokens.Verify(res.Token, models.RoleAdmin)
	require.Error(t, err)
}

func TestAccountServiceSigninUnknownEmail(t *testing.T) {
	svc := newTestAccountService(&mockIdentityRepo{})

	_, err := svc.Signin(context.Background(), models.RoleUser, models.SigninRequest{
		Email:    "missing@x.com",
		Password: "secret1",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestAccountServiceSigninWrongPassword(t *testing.T) {
	repo := &mockIdentityRepo{}
	svc := newTestAccountService(repo)
	signupFixture(t, repo, svc, models.RoleUser, "a@x.com", "secret1")

	// Repeated wrong attempts behave identically; no lockout.
	for i := 0; i < 3; i++ {
		_, err := svc.Signin(context.Background(), models.RoleUser, models.SigninRequest{
			Email:    "a@x.com",
			Password: "wrong-password",
		})
		require.Error(t, err)
		assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
	}
}

func TestAccountServiceSigninRoleScoped(t *testing.T) {
	repo := &mockIdentityRepo{}
	svc := newTestAccountService(repo)
	signupFixture(t, repo, svc, models.RoleUser, "a@x.com", "secret1")

	// The same email is not registered as an admin.
	_, err := svc.Signin(context.Background(), models.RoleAdmin, models.SigninRequest{
		Email:    "a@x.com",
		Password: "secret1",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
