package models

import "time"

type Job struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	Title           string    `json:"title" gorm:"size:256;not null"`
	Location        string    `json:"location" gorm:"size:128;not null"`
	Description     string    `json:"description" gorm:"type:text;not null"`
	VisaConstraints string    `json:"visa_constraints" gorm:"size:256"`
	Active          bool      `json:"active" gorm:"default:true;index"`
	AssessmentURL   string    `json:"assessment_url" gorm:"size:512"`
	JobCategory     string    `json:"job_category" gorm:"size:64"`
	CreatedAt       time.Time `json:"created_at"`
}
