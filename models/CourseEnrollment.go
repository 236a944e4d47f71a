package models

import "time"

type CourseEnrollment struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"size:128;not null"`
	Email       string    `json:"email" gorm:"size:128;not null"`
	ContactNo   string    `json:"contact_no" gorm:"size:32;not null"`
	CourseID    uint      `json:"course_id" gorm:"not null;index"`
	CourseTitle string    `json:"course_title" gorm:"size:256"`
	EnrolledAt  time.Time `json:"enrolled_at" gorm:"autoCreateTime"`
}
