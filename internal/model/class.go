package model

import "time"

// ClassLevel is the audience of a class.
type ClassLevel string

const (
	ClassBeginner     ClassLevel = "beginner"
	ClassIntermediate ClassLevel = "intermediate"
	ClassAdvanced     ClassLevel = "advanced"
	ClassAll          ClassLevel = "all"
)

// Weekdays lists the accepted day_of_week values.
var Weekdays = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

// Class is a recurring training session of an academy.
type Class struct {
	ID         string     `json:"id"`
	AcademyID  *string    `json:"academy_id"`
	Name       string     `json:"name"`
	Instructor string     `json:"instructor"`
	Level      ClassLevel `json:"level"`
	DaysOfWeek []string   `json:"day_of_week"`
	TimeStart  string     `json:"time_start"`
	TimeEnd    string     `json:"time_end"`
	UserID     *string    `json:"user_id"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// ClassRequest is the payload for creating or updating a class.
type ClassRequest struct {
	AcademyID  string     `json:"academy_id" binding:"omitempty,uuid"`
	Name       string     `json:"name" binding:"required,min=2,max=120"`
	Instructor string     `json:"instructor" binding:"required,min=2,max=120"`
	Level      ClassLevel `json:"level" binding:"omitempty,oneof=beginner intermediate advanced all"`
	DaysOfWeek []string   `json:"day_of_week" binding:"required,min=1,dive,weekday"`
	TimeStart  string     `json:"time_start" binding:"required,datetime=15:04"`
	TimeEnd    string     `json:"time_end" binding:"required,datetime=15:04"`
}
