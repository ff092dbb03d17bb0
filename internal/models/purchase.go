package models

import "time"

// Purchase is an immutable fact linking one user to one course they bought.
// At most one row exists per (UserID, CourseID); the pair is unique at the
// storage layer.
type Purchase struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	CourseID  string    `db:"course_id" json:"course_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// PurchaseDetail joins a purchase with its course record.
type PurchaseDetail struct {
	Purchase Purchase `json:"purchase"`
	Course   Course   `json:"course"`
}

// PurchaseRow is the flattened join row scanned from the ledger query.
type PurchaseRow struct {
	ID                string    `db:"id"`
	UserID            string    `db:"user_id"`
	CourseID          string    `db:"course_id"`
	CreatedAt         time.Time `db:"created_at"`
	CourseTitle       string    `db:"course_title"`
	CourseDescription string    `db:"course_description"`
	CoursePrice       float64   `db:"course_price"`
	CourseImageURL    string    `db:"course_image_url"`
	CourseOwnerID     string    `db:"course_owner_admin_id"`
}

// Detail reshapes the flat row into the nested API form.
func (r PurchaseRow) Detail() PurchaseDetail {
	return PurchaseDetail{
		Purchase: Purchase{
			ID:        r.ID,
			UserID:    r.UserID,
			CourseID:  r.CourseID,
			CreatedAt: r.CreatedAt,
		},
		Course: Course{
			ID:           r.CourseID,
			Title:        r.CourseTitle,
			Description:  r.CourseDescription,
			Price:        r.CoursePrice,
			ImageURL:     r.CourseImageURL,
			OwnerAdminID: r.CourseOwnerID,
		},
	}
}

// PurchaseRequest is the user payload for buying a course.
type PurchaseRequest struct {
	CourseID string `json:"course_id" validate:"required,uuid4"`
}
