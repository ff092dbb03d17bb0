package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"github.com/coursedeck/coursedeck-api/internal/models"
)

func purchaseJoinTestColumns() []string {
	return []string{"id", "user_id", "course_id", "created_at", "course_title", "course_description", "course_price", "course_image_url", "course_owner_admin_id"}
}

func TestPurchaseRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewPurchaseRepository(db)

	mock.ExpectExec(`INSERT INTO purchases \(id, user_id, course_id, created_at\)`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	purchase := &models.Purchase{UserID: "user-1", CourseID: "course-1"}
	err := repo.Create(context.Background(), purchase)
	require.NoError(t, err)
	require.NotEmpty(t, purchase.ID)
	require.False(t, purchase.CreatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPurchaseRepositoryCreateUniqueViolation(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewPurchaseRepository(db)

	mock.ExpectExec(`INSERT INTO purchases`).
		WillReturnError(&pq.Error{Code: uniqueViolationCode, Constraint: "purchases_user_course_key"})

	purchase := &models.Purchase{UserID: "user-1", CourseID: "course-1"}
	err := repo.Create(context.Background(), purchase)
	require.ErrorIs(t, err, ErrDuplicate)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPurchaseRepositoryFindByUserAndCourse(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewPurchaseRepository(db)

	mock.ExpectQuery(`SELECT id, user_id, course_id, created_at FROM purchases WHERE user_id = \$1 AND course_id = \$2 LIMIT 1`).
		WithArgs("user-1", "course-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "course_id", "created_at"}).
			AddRow("purchase-1", "user-1", "course-1", time.Now()))

	purchase, err := repo.FindByUserAndCourse(context.Background(), "user-1", "course-1")
	require.NoError(t, err)
	require.Equal(t, "purchase-1", purchase.ID)

	mock.ExpectQuery(`SELECT id, user_id, course_id, created_at FROM purchases WHERE user_id = \$1 AND course_id = \$2 LIMIT 1`).
		WithArgs("user-1", "course-2").
		WillReturnError(sql.ErrNoRows)

	_, err = repo.FindByUserAndCourse(context.Background(), "user-1", "course-2")
	require.ErrorIs(t, err, sql.ErrNoRows)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPurchaseRepositoryListByUserJoinsCourses(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewPurchaseRepository(db)

	now := time.Now()
	mock.ExpectQuery(`SELECT p\.id, p\.user_id, p\.course_id, p\.created_at, c\.title AS course_title.+ FROM purchases p JOIN courses c ON c\.id = p\.course_id WHERE p\.user_id = \$1`).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows(purchaseJoinTestColumns()).
			AddRow("purchase-1", "user-1", "course-1", now, "Intro", "desc", 10.0, "", "admin-1"))

	rows, err := repo.ListByUser(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, rows, 1)

	detail := rows[0].Detail()
	require.Equal(t, "purchase-1", detail.Purchase.ID)
	require.Equal(t, "Intro", detail.Course.Title)
	require.Equal(t, "course-1", detail.Course.ID)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPurchaseRepositoryListByUserEmpty(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewPurchaseRepository(db)

	mock.ExpectQuery(`SELECT .+ FROM purchases p JOIN courses c`).
		WithArgs("user-2").
		WillReturnRows(sqlmock.NewRows(purchaseJoinTestColumns()))

	rows, err := repo.ListByUser(context.Background(), "user-2")
	require.NoError(t, err)
	require.NotNil(t, rows)
	require.Empty(t, rows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPurchaseRepositoryFindDetailScopedToUser(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewPurchaseRepository(db)

	mock.ExpectQuery(`SELECT .+ FROM purchases p JOIN courses c ON c\.id = p\.course_id WHERE p\.id = \$1 AND p\.user_id = \$2 LIMIT 1`).
		WithArgs("purchase-1", "user-2").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindDetail(context.Background(), "user-2", "purchase-1")
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}
