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

// PurchaseRepository provides database access to the purchase ledger.
type PurchaseRepository struct {
	db *sqlx.DB
}

// NewPurchaseRepository creates a new instance of PurchaseRepository.
func NewPurchaseRepository(db *sqlx.DB) *PurchaseRepository {
	return &PurchaseRepository{db: db}
}

// Create inserts a purchase row. The purchases_user_course_key unique
// constraint is the real duplicate guard; a concurrent duplicate insert
// surfaces as ErrDuplicate no matter what any prior existence check saw.
func (r *PurchaseRepository) Create(ctx context.Context, purchase *models.Purchase) error {
	if purchase.ID == "" {
		purchase.ID = uuid.NewString()
	}
	if purchase.CreatedAt.IsZero() {
		purchase.CreatedAt = time.Now().UTC()
	}

	const query = `INSERT INTO purchases (id, user_id, course_id, created_at) VALUES (:id, :user_id, :course_id, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, purchase); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("create purchase: %w", err)
	}
	return nil
}

// FindByUserAndCourse returns the purchase for the pair, if any.
func (r *PurchaseRepository) FindByUserAndCourse(ctx context.Context, userID, courseID string) (*models.Purchase, error) {
	const query = `SELECT id, user_id, course_id, created_at FROM purchases WHERE user_id = $1 AND course_id = $2 LIMIT 1`
	var purchase models.Purchase
	if err := r.db.GetContext(ctx, &purchase, query, userID, courseID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find purchase by user and course: %w", err)
	}
	return &purchase, nil
}

const purchaseJoinColumns = `p.id, p.user_id, p.course_id, p.created_at, c.title AS course_title, c.description AS course_description, c.price AS course_price, c.image_url AS course_image_url, c.owner_admin_id AS course_owner_admin_id`

// ListByUser returns the user's purchases joined with their course records.
func (r *PurchaseRepository) ListByUser(ctx context.Context, userID string) ([]models.PurchaseRow, error) {
	query := fmt.Sprintf(`SELECT %s FROM purchases p JOIN courses c ON c.id = p.course_id WHERE p.user_id = $1 ORDER BY p.created_at DESC`, purchaseJoinColumns)
	rows := []models.PurchaseRow{}
	if err := r.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, fmt.Errorf("list purchases by user: %w", err)
	}
	return rows, nil
}

// FindDetail returns one joined purchase row scoped to the owning user.
// Another user's purchase id behaves exactly like a missing one.
func (r *PurchaseRepository) FindDetail(ctx context.Context, userID, purchaseID string) (*models.PurchaseRow, error) {
	query := fmt.Sprintf(`SELECT %s FROM purchases p JOIN courses c ON c.id = p.course_id WHERE p.id = $1 AND p.user_id = $2 LIMIT 1`, purchaseJoinColumns)
	var row models.PurchaseRow
	if err := r.db.GetContext(ctx, &row, query, purchaseID, userID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find purchase detail: %w", err)
	}
	return &row, nil
}
