package model

import "time"

// StudentStatus marks whether a student is currently training.
type StudentStatus string

const (
	StudentActive   StudentStatus = "active"
	StudentInactive StudentStatus = "inactive"
)

// Student is a member of an academy.
type Student struct {
	ID                string        `json:"id"`
	AcademyID         *string       `json:"academy_id"`
	Name              string        `json:"name"`
	Email             *string       `json:"email"`
	Phone             *string       `json:"phone"`
	Belt              Belt          `json:"belt"`
	Stripes           int           `json:"stripes"`
	Status            StudentStatus `json:"status"`
	RegistrationDate  *time.Time    `json:"registration_date"`
	LastPromotionDate *time.Time    `json:"last_promotion_date"`
	ClassesPerWeek    int           `json:"classes_per_week"`
	ClassesAttended   int           `json:"classes_attended"`
	CreatedAt         time.Time     `json:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at"`
}

// StudentFilter narrows a student listing.
type StudentFilter struct {
	Belt   *Belt
	Status *StudentStatus
	Search string
}

// StudentRequest is the payload for creating or updating a student.
// AcademyID is only honored for platform admins.
type StudentRequest struct {
	AcademyID         string        `json:"academy_id" binding:"omitempty,uuid"`
	Name              string        `json:"name" binding:"required,min=2,max=120"`
	Email             string        `json:"email" binding:"omitempty,email,max=255"`
	Phone             string        `json:"phone" binding:"omitempty,max=20"`
	Belt              Belt          `json:"belt" binding:"required,belt"`
	Stripes           int           `json:"stripes" binding:"min=0,max=4"`
	Status            StudentStatus `json:"status" binding:"omitempty,oneof=active inactive"`
	RegistrationDate  string        `json:"registration_date" binding:"omitempty,datetime=2006-01-02"`
	LastPromotionDate string        `json:"last_promotion_date" binding:"omitempty,datetime=2006-01-02"`
	ClassesPerWeek    int           `json:"classes_per_week" binding:"omitempty,min=1,max=14"`
	ClassesAttended   int           `json:"classes_attended" binding:"min=0"`
}

// StudentProgression is returned by GET /api/v1/students/:id/progression.
type StudentProgression struct {
	StudentID        string `json:"student_id"`
	Belt             Belt   `json:"belt"`
	NextBelt         *Belt  `json:"next_belt"`
	RequiredClasses  int    `json:"required_classes"`
	ClassesAttended  int    `json:"classes_attended"`
	Percent          int    `json:"percent"`
	ClassesRemaining int    `json:"classes_remaining"`
	TimeRemaining    int    `json:"time_remaining_months"`
	Ready            bool   `json:"ready_for_promotion"`
	// ExpectedClasses is the class count the minimum time on the belt yields
	// at the student's weekly pace.
	ExpectedClasses int `json:"expected_classes"`
}
