package models

import "time"

type VisaDoc struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	EmployeeID  uint       `json:"employee_id" gorm:"not null;index"`
	Filename    string     `json:"filename" gorm:"size:256;not null"`
	FilePath    string     `json:"file_path" gorm:"size:512;not null"`
	DocName     string     `json:"doc_name" gorm:"size:128;not null"`
	VisaType    string     `json:"visa_type" gorm:"size:64"`
	SubmittedAt *time.Time `json:"submitted_at"`
	CreatedAt   time.Time  `json:"created_at"`
}
