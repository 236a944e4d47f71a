package models

import "time"

// Application is a public job application. JobTitle is denormalized so the
// row survives the job being deactivated or removed.
type Application struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	Name            string    `json:"name" gorm:"size:128;not null"`
	Email           string    `json:"email" gorm:"size:128;not null"`
	ContactNo       string    `json:"contact_no" gorm:"size:32"`
	LinkedIn        string    `json:"linkedin" gorm:"size:256"`
	Location        string    `json:"location" gorm:"size:128"`
	VisaStatus      string    `json:"visa_status" gorm:"size:64"`
	Relocation      string    `json:"relocation" gorm:"size:32"`
	ExperienceYears float64   `json:"experience_years"`
	JobID           uint      `json:"job_id" gorm:"index"`
	JobTitle        string    `json:"job_title" gorm:"size:256"`
	ResumeFilename  string    `json:"resume_filename" gorm:"size:256"`
	AppliedAt       time.Time `json:"applied_at" gorm:"autoCreateTime"`
	Viewed          bool      `json:"viewed" gorm:"default:false;index"`
}
