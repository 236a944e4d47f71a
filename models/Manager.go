package models

import "time"

type Manager struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Username     string    `json:"username" gorm:"size:64;uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"size:128;not null"`
	EmployeeName string    `json:"employee_name" gorm:"size:128;not null"`
	Email        string    `json:"email" gorm:"size:128"`
	CreatedAt    time.Time `json:"created_at"`
}
