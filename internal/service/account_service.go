package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/coursedeck/coursedeck-api/internal/models"
	"github.com/coursedeck/coursedeck-api/internal/repository"
	appErrors "github.com/coursedeck/coursedeck-api/pkg/errors"
)

type accountIdentityRepository interface {
	FindByEmail(ctx context.Context, role models.Role, email string) (*models.Identity, error)
	Create(ctx context.Context, role models.Role, identity *models.Identity) error
}

type tokenIssuer interface {
	Issue(identityID string, role models.Role) (string, error)
}

// AccountConfig defines signup policy.
type AccountConfig struct {
	MinPasswordLength int
}

// AccountService provides signup and signin for both roles.
type AccountService struct {
	repo      accountIdentityRepository
	tokens    tokenIssuer
	validator *validator.Validate
	logger    *zap.Logger
	config    AccountConfig
}

// NewAccountService constructs an AccountService instance.
func NewAccountService(repo accountIdentityRepository, tokens tokenIssuer, validate *validator.Validate, logger *zap.Logger, config AccountConfig) *AccountService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if config.MinPasswordLength <= 0 {
		config.MinPasswordLength = 6
	}
	return &AccountService{repo: repo, tokens: tokens, validator: validate, logger: logger, config: config}
}

// Signup registers a new identity under the given role. Password hashing is
// bcrypt with the default cost; the raw password is never stored.
func (s *AccountService) Signup(ctx context.Context, role models.Role, req models.SignupRequest) (*models.IdentityInfo, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid signup payload")
	}
	if len(req.Password) < s.config.MinPasswordLength {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("password must be at least %d characters", s.config.MinPasswordLength))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	identity := &models.Identity{
		Email:        req.Email,
		PasswordHash: string(hash),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
	}

	if err := s.repo.Create(ctx, role, identity); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "email already registered")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create identity")
	}

	s.logger.Info("identity created",
		zap.String("identity_id", identity.ID),
		zap.String("role", string(role)),
	)

	info := identity.Info()
	return &info, nil
}

// Signin authenticates credentials against the role's table and issues a
// role-scoped token. The bcrypt comparison runs on every attempt.
func (s *AccountService) Signin(ctx context.Context, role models.Role, req models.SigninRequest) (*models.SigninResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid signin payload")
	}

	identity, err := s.repo.FindByEmail(ctx, role, req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "identity not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch identity")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(identity.PasswordHash), []byte(req.Password)); err != nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid email or password")
	}

	token, err := s.tokens.Issue(identity.ID, role)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to issue token")
	}

	return &models.SigninResponse{
		Token:    token,
		Identity: identity.Info(),
	}, nil
}
