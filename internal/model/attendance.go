package model

import "time"

// Attendance records which students attended a class on a date.
type Attendance struct {
	ID         string    `json:"id"`
	AcademyID  *string   `json:"academy_id"`
	ClassID    string    `json:"class_id"`
	ClassName  string    `json:"class_name,omitempty"`
	Date       time.Time `json:"date"`
	StudentIDs []string  `json:"student_ids"`
	CreatedBy  *string   `json:"created_by"`
	CreatedAt  time.Time `json:"created_at"`
}

// AttendanceFilter narrows an attendance listing.
type AttendanceFilter struct {
	ClassID *string
	From    *time.Time
	To      *time.Time
}

// AttendanceRequest records or replaces attendance for a class on a date.
type AttendanceRequest struct {
	ClassID    string   `json:"class_id" binding:"required,uuid"`
	Date       string   `json:"date" binding:"required,datetime=2006-01-02"`
	StudentIDs []string `json:"student_ids" binding:"dive,uuid"`
}

// AttendanceEvent is published whenever attendance is recorded.
type AttendanceEvent struct {
	Type         string    `json:"type"`
	AttendanceID string    `json:"attendance_id"`
	AcademyID    string    `json:"academy_id"`
	ClassID      string    `json:"class_id"`
	Date         string    `json:"date"`
	Present      int       `json:"present"`
	Added        int       `json:"added"`
	Removed      int       `json:"removed"`
	RecordedAt   time.Time `json:"recorded_at"`
}
