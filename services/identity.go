package services

import (
	"brainhr-server/models"

	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

// placeholderNames are the generic stand-ins written when the real sender
// name was not known at creation time.
var placeholderNames = []string{"Admin", "Manager", "Employee", "Unknown"}

// IsPlaceholderName reports whether name needs a directory lookup.
func IsPlaceholderName(name string) bool {
	return name == "" || slices.Contains(placeholderNames, name)
}

// IdentityDirectory resolves (role, id) pairs to display names. Employees
// and managers come from their tables; the admin identity is fixed.
type IdentityDirectory struct {
	db *gorm.DB
}

func NewIdentityDirectory(db *gorm.DB) *IdentityDirectory {
	return &IdentityDirectory{db: db}
}

// Lookup returns the display name for (role, id), or false when the
// identity does not exist. Deleted identities are not an error; callers
// keep whatever name they already had.
func (d *IdentityDirectory) Lookup(role string, id uint) (string, bool) {
	switch role {
	case models.RoleAdmin:
		return models.AdminDisplayName, true
	case models.RoleEmployee:
		var emp models.Employee
		if err := d.db.Select("id, employee_name").First(&emp, id).Error; err != nil {
			return "", false
		}
		return emp.EmployeeName, true
	case models.RoleManager:
		var mgr models.Manager
		if err := d.db.Select("id, employee_name").First(&mgr, id).Error; err != nil {
			return "", false
		}
		return mgr.EmployeeName, true
	}
	return "", false
}

// ResolveSenderNames backfills placeholder sender names in msgs before they
// go out to the caller. Rows written before sender identities were tracked
// carry a generic name; this corrects them at read time only, never
// touching the stored rows. Lookup misses leave the placeholder as is.
func (d *IdentityDirectory) ResolveSenderNames(msgs []models.Message) []models.Message {
	type key struct {
		role string
		id   uint
	}
	seen := map[key]string{}

	for i := range msgs {
		if !IsPlaceholderName(msgs[i].SenderName) || msgs[i].SenderID == nil {
			continue
		}
		k := key{role: msgs[i].SenderRole, id: *msgs[i].SenderID}
		name, ok := seen[k]
		if !ok {
			name, ok = d.Lookup(k.role, k.id)
			if !ok {
				continue
			}
			seen[k] = name
		}
		msgs[i].SenderName = name
	}
	return msgs
}
