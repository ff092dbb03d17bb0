package models

import "time"

// Course is a sellable course record. OwnerAdminID is always stamped from
// the authenticated admin, never from client input.
type Course struct {
	ID           string    `db:"id" json:"id"`
	Title        string    `db:"title" json:"title"`
	Description  string    `db:"description" json:"description"`
	Price        float64   `db:"price" json:"price"`
	ImageURL     string    `db:"image_url" json:"image_url"`
	OwnerAdminID string    `db:"owner_admin_id" json:"owner_admin_id"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// CreateCourseRequest is the admin payload for creating a course. There is
// deliberately no owner field.
type CreateCourseRequest struct {
	Title       string  `json:"title" validate:"required,min=1"`
	Description string  `json:"description"`
	Price       float64 `json:"price" validate:"gte=0"`
	ImageURL    string  `json:"image_url" validate:"omitempty,url"`
}

// UpdateCourseRequest carries the course id plus the replacement fields.
type UpdateCourseRequest struct {
	CourseID    string  `json:"course_id" validate:"required,uuid4"`
	Title       string  `json:"title" validate:"required,min=1"`
	Description string  `json:"description"`
	Price       float64 `json:"price" validate:"gte=0"`
	ImageURL    string  `json:"image_url" validate:"omitempty,url"`
}
