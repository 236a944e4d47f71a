package models

import "time"

// Notification is a per-employee portal notification (timesheet submitted,
// activity posted, ...). RelatedID points at the row of the originating
// resource, typed by Type.
type Notification struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	EmployeeID  uint      `json:"employee_id" gorm:"not null;index"`
	Type        string    `json:"type" gorm:"size:32;not null"`
	Title       string    `json:"title" gorm:"size:256;not null"`
	Description string    `json:"description" gorm:"type:text"`
	RelatedID   *uint     `json:"related_id"`
	Status      string    `json:"status" gorm:"size:16;default:new;index"` // new|read
	CreatedAt   time.Time `json:"created_at"`
}
