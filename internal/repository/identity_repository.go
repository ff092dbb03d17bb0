package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/coursedeck/coursedeck-api/internal/models"
)

// IdentityRepository provides database access to the user and admin tables.
// The two roles live in parallel tables with identical columns; every query
// is routed by role so a user row can never satisfy an admin lookup.
type IdentityRepository struct {
	db *sqlx.DB
}

// NewIdentityRepository creates a new instance of IdentityRepository.
func NewIdentityRepository(db *sqlx.DB) *IdentityRepository {
	return &IdentityRepository{db: db}
}

func tableFor(role models.Role) string {
	if role == models.RoleAdmin {
		return "admins"
	}
	return "users"
}

// FindByEmail returns the identity registered under email for the given role.
func (r *IdentityRepository) FindByEmail(ctx context.Context, role models.Role, email string) (*models.Identity, error) {
	query := fmt.Sprintf(`SELECT id, email, password_hash, first_name, last_name, created_at, updated_at FROM %s WHERE email = $1 LIMIT 1`, tableFor(role))
	var identity models.Identity
	if err := r.db.GetContext(ctx, &identity, query, email); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find identity by email: %w", err)
	}
	identity.Role = role
	return &identity, nil
}

// FindByID returns the identity by identifier for the given role.
func (r *IdentityRepository) FindByID(ctx context.Context, role models.Role, id string) (*models.Identity, error) {
	query := fmt.Sprintf(`SELECT id, email, password_hash, first_name, last_name, created_at, updated_at FROM %s WHERE id = $1 LIMIT 1`, tableFor(role))
	var identity models.Identity
	if err := r.db.GetContext(ctx, &identity, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find identity by id: %w", err)
	}
	identity.Role = role
	return &identity, nil
}

// Create inserts a new identity into the role's table. A duplicate email
// surfaces as ErrDuplicate.
func (r *IdentityRepository) Create(ctx context.Context, role models.Role, identity *models.Identity) error {
	if identity.ID == "" {
		identity.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if identity.CreatedAt.IsZero() {
		identity.CreatedAt = now
	}
	identity.UpdatedAt = now
	identity.Role = role

	query := fmt.Sprintf(`INSERT INTO %s (id, email, password_hash, first_name, last_name, created_at, updated_at) VALUES (:id, :email, :password_hash, :first_name, :last_name, :created_at, :updated_at)`, tableFor(role))
	if _, err := r.db.NamedExecContext(ctx, query, identity); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("create identity: %w", err)
	}
	return nil
}
