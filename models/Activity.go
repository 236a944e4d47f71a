package models

import "time"

type Activity struct {
	ID                  uint      `json:"id" gorm:"primaryKey"`
	EmployeeID          uint      `json:"employee_id" gorm:"not null;index"`
	ActivityName        string    `json:"activity_name" gorm:"size:256;not null"`
	ActivityDescription string    `json:"activity_description" gorm:"type:text"`
	CreatedAt           time.Time `json:"created_at"`
}
