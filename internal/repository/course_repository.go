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

// CourseRepository provides database access for the course registry.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository creates a new instance of CourseRepository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// Create inserts a new course and returns the stored record via the pointer.
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	if course.ID == "" {
		course.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if course.CreatedAt.IsZero() {
		course.CreatedAt = now
	}
	course.UpdatedAt = now

	const query = `INSERT INTO courses (id, title, description, price, image_url, owner_admin_id, created_at, updated_at) VALUES (:id, :title, :description, :price, :image_url, :owner_admin_id, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, course); err != nil {
		return fmt.Errorf("create course: %w", err)
	}
	return nil
}

// FindByID returns a course regardless of owner.
func (r *CourseRepository) FindByID(ctx context.Context, id string) (*models.Course, error) {
	const query = `SELECT id, title, description, price, image_url, owner_admin_id, created_at, updated_at FROM courses WHERE id = $1 LIMIT 1`
	var course models.Course
	if err := r.db.GetContext(ctx, &course, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find course by id: %w", err)
	}
	return &course, nil
}

// UpdateOwned replaces the mutable fields of a course, keyed jointly on the
// course id and the owning admin. Zero rows affected means the course either
// does not exist or belongs to someone else; the two cases are deliberately
// indistinguishable.
func (r *CourseRepository) UpdateOwned(ctx context.Context, course *models.Course) error {
	course.UpdatedAt = time.Now().UTC()
	const query = `UPDATE courses SET title = :title, description = :description, price = :price, image_url = :image_url, updated_at = :updated_at WHERE id = :id AND owner_admin_id = :owner_admin_id`
	result, err := r.db.NamedExecContext(ctx, query, course)
	if err != nil {
		return fmt.Errorf("update course: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update course rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ListByOwner returns every course owned by the given admin.
func (r *CourseRepository) ListByOwner(ctx context.Context, adminID string) ([]models.Course, error) {
	const query = `SELECT id, title, description, price, image_url, owner_admin_id, created_at, updated_at FROM courses WHERE owner_admin_id = $1 ORDER BY created_at DESC`
	courses := []models.Course{}
	if err := r.db.SelectContext(ctx, &courses, query, adminID); err != nil {
		return nil, fmt.Errorf("list courses by owner: %w", err)
	}
	return courses, nil
}

// ListAll returns the full public catalog.
func (r *CourseRepository) ListAll(ctx context.Context) ([]models.Course, error) {
	const query = `SELECT id, title, description, price, image_url, owner_admin_id, created_at, updated_at FROM courses ORDER BY created_at DESC`
	courses := []models.Course{}
	if err := r.db.SelectContext(ctx, &courses, query); err != nil {
		return nil, fmt.Errorf("list all courses: %w", err)
	}
	return courses, nil
}
