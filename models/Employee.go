package models

import "time"

type Employee struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Username     string    `json:"username" gorm:"size:64;uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"size:128;not null"`
	EmployeeName string    `json:"employee_name" gorm:"size:128;not null"`
	Email        string    `json:"email" gorm:"size:128"`
	// Company-assigned badge id, distinct from the row id. Employees log in
	// with this plus their username.
	EmployeeCode string    `json:"employee_id_field" gorm:"column:employee_id_field;size:32;uniqueIndex"`
	Role         string    `json:"role" gorm:"size:16;default:employee"`
	CreatedAt    time.Time `json:"created_at"`
}
