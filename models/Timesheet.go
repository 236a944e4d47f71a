package models

import "time"

// Timesheet lifecycle: uploaded as draft, then submitted. The file itself
// lives in the upload dir; FilePath is relative to it.
type Timesheet struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	EmployeeID  uint       `json:"employee_id" gorm:"not null;index"`
	Year        int        `json:"year" gorm:"not null"`
	Month       int        `json:"month" gorm:"not null"`
	Week        int        `json:"week" gorm:"not null"`
	Filename    string     `json:"filename" gorm:"size:256;not null"`
	FilePath    string     `json:"file_path" gorm:"size:512;not null"`
	Status      string     `json:"status" gorm:"size:16;default:draft;index"` // draft|submitted
	SubmittedAt *time.Time `json:"submitted_at"`
	CreatedAt   time.Time  `json:"created_at"`
}
