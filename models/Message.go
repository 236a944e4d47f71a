package models

import "time"

// Roles recognized across the portal. Every message carries one for the
// sender and one for the receiver; ids are only meaningful within their
// role's directory.
const (
	RoleAdmin    = "admin"
	RoleManager  = "manager"
	RoleEmployee = "employee"
)

// AdminDisplayName is the fixed display name for the single admin identity.
const AdminDisplayName = "BrainHR Admin"

// Message is an internal portal message. SenderName is a snapshot taken at
// creation time and may hold a generic placeholder ("Admin", "Manager",
// "Employee", "Unknown") for legacy rows; listings correct those lazily
// without rewriting the row. SubjectEmployeeID is the employee a message is
// about, which routes admin/manager mail into that employee's inbox even
// when the literal receiver is someone else.
type Message struct {
	ID                uint      `json:"id" gorm:"primaryKey"`
	SenderRole        string    `json:"sender_role" gorm:"size:16;default:employee;index"`
	SenderID          *uint     `json:"sender_id" gorm:"index"`
	SenderName        string    `json:"sender_name" gorm:"size:128"`
	ReceiverRole      string    `json:"receiver_role" gorm:"size:16;default:employee;index"`
	ReceiverID        *uint     `json:"receiver_id" gorm:"index"`
	SubjectEmployeeID *uint     `json:"subject_employee_id" gorm:"index"`
	Context           string    `json:"context" gorm:"size:128;not null;index"`
	ContextRef        *uint     `json:"context_ref" gorm:"index"`
	Body              string    `json:"body" gorm:"column:message;type:text;not null"`
	IsRead            bool      `json:"is_read" gorm:"default:false;index"`
	CreatedAt         time.Time `json:"created_at"`
}

// ValidRole reports whether r is one of the three portal roles.
func ValidRole(r string) bool {
	return r == RoleAdmin || r == RoleManager || r == RoleEmployee
}

// Identity is an authenticated caller: a role plus the id within that
// role's directory. It is passed explicitly into every operation that
// depends on who is asking.
type Identity struct {
	Role string
	ID   uint
}
