package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/coursedeck/coursedeck-api/internal/models"
	"github.com/coursedeck/coursedeck-api/internal/repository"
	appErrors "github.com/coursedeck/coursedeck-api/pkg/errors"
)

type purchaseLedgerRepository interface {
	Create(ctx context.Context, purchase *models.Purchase) error
	FindByUserAndCourse(ctx context.Context, userID, courseID string) (*models.Purchase, error)
	ListByUser(ctx context.Context, userID string) ([]models.PurchaseRow, error)
	FindDetail(ctx context.Context, userID, purchaseID string) (*models.PurchaseRow, error)
}

type courseFinder interface {
	FindByID(ctx context.Context, id string) (*models.Course, error)
}

type buyerFinder interface {
	FindByID(ctx context.Context, role models.Role, id string) (*models.Identity, error)
}

type purchaseObserver interface {
	ObservePurchase(outcome string)
}

// PurchaseService implements the purchase ledger.
type PurchaseService struct {
	purchases  purchaseLedgerRepository
	courses    courseFinder
	identities buyerFinder
	metrics    purchaseObserver
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewPurchaseService constructs a PurchaseService instance.
func NewPurchaseService(purchases purchaseLedgerRepository, courses courseFinder, identities buyerFinder, metrics purchaseObserver, validate *validator.Validate, logger *zap.Logger) *PurchaseService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &PurchaseService{purchases: purchases, courses: courses, identities: identities, metrics: metrics, validator: validate, logger: logger}
}

// Purchase records that the user bought the course. The pre-insert existence
// check only produces a friendly error for the common case; the unique
// constraint on (user_id, course_id) decides races, so under concurrent
// duplicate attempts exactly one insert wins and the rest map to the same
// already-purchased conflict.
func (s *PurchaseService) Purchase(ctx context.Context, userID string, req models.PurchaseRequest) (*models.Purchase, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid purchase payload")
	}

	if _, err := s.courses.FindByID(ctx, req.CourseID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch course")
	}

	if _, err := s.purchases.FindByUserAndCourse(ctx, userID, req.CourseID); err == nil {
		s.observe("duplicate")
		return nil, appErrors.Clone(appErrors.ErrAlreadyPurchased, "course already purchased")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check existing purchase")
	}

	purchase := &models.Purchase{
		UserID:   userID,
		CourseID: req.CourseID,
	}

	if err := s.purchases.Create(ctx, purchase); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			// Lost the race to a concurrent attempt for the same pair.
			s.observe("duplicate")
			return nil, appErrors.Clone(appErrors.ErrAlreadyPurchased, "course already purchased")
		}
		s.observe("error")
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record purchase")
	}

	s.observe("success")
	s.logger.Info("purchase recorded",
		zap.String("purchase_id", purchase.ID),
		zap.String("user_id", userID),
		zap.String("course_id", req.CourseID),
	)

	return purchase, nil
}

// List returns the user's purchases joined with course data. No purchases is
// an empty list, not an error.
func (s *PurchaseService) List(ctx context.Context, userID string) ([]models.PurchaseDetail, error) {
	rows, err := s.purchases.ListByUser(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list purchases")
	}

	details := make([]models.PurchaseDetail, 0, len(rows))
	for _, row := range rows {
		details = append(details, row.Detail())
	}
	return details, nil
}

// Detail returns one of the caller's purchases joined with its course.
func (s *PurchaseService) Detail(ctx context.Context, userID, purchaseID string) (*models.PurchaseDetail, error) {
	row, err := s.purchases.FindDetail(ctx, userID, purchaseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "purchase not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch purchase")
	}

	detail := row.Detail()
	return &detail, nil
}

// ReceiptData gathers the joined purchase and its buyer for receipt
// rendering. Scoping rules match Detail.
func (s *PurchaseService) ReceiptData(ctx context.Context, userID, purchaseID string) (*models.PurchaseDetail, *models.IdentityInfo, error) {
	detail, err := s.Detail(ctx, userID, purchaseID)
	if err != nil {
		return nil, nil, err
	}

	buyer, err := s.identities.FindByID(ctx, models.RoleUser, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "buyer not found")
		}
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch buyer")
	}

	info := buyer.Info()
	return detail, &info, nil
}

func (s *PurchaseService) observe(outcome string) {
	if s.metrics != nil {
		s.metrics.ObservePurchase(outcome)
	}
}
