package services

import (
	"errors"
	"fmt"
	"strings"

	"brainhr-server/models"

	"gorm.io/gorm"
)

// ErrInvalidRole marks a caller role outside admin/manager/employee.
// Request handlers translate it to an empty result rather than an error so
// role probing reveals nothing.
var ErrInvalidRole = errors.New("unrecognized caller role")

// ValidationError names the missing required fields of a create request.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required fields: %s", strings.Join(e.Fields, ", "))
}

// visibilityRules maps a caller role to its inbox clause, bound with the
// caller id twice (receiver side, sender side). Employees are routed by
// subject employee rather than literal receiver so mail about them reaches
// them regardless of addressing.
var visibilityRules = map[string]string{
	models.RoleEmployee: "((subject_employee_id = ? AND receiver_role = 'employee') OR (sender_id = ? AND sender_role = 'employee'))",
	models.RoleManager:  "((receiver_id = ? AND receiver_role = 'manager') OR (sender_id = ? AND sender_role = 'manager'))",
	models.RoleAdmin:    "((receiver_id = ? AND receiver_role = 'admin') OR (sender_id = ? AND sender_role = 'admin'))",
}

// unreadRules is the receiver-side half of visibilityRules; sent messages
// never count toward unread.
var unreadRules = map[string]string{
	models.RoleEmployee: "is_read = ? AND subject_employee_id = ? AND receiver_role = 'employee'",
	models.RoleManager:  "is_read = ? AND receiver_id = ? AND receiver_role = 'manager'",
	models.RoleAdmin:    "is_read = ? AND receiver_id = ? AND receiver_role = 'admin'",
}

const messageOrder = "created_at DESC, id DESC"

// MessageService owns the message store and the role-scoped queries over
// it. Every operation takes the caller identity explicitly.
type MessageService struct {
	db  *gorm.DB
	dir *IdentityDirectory
}

func NewMessageService(db *gorm.DB, dir *IdentityDirectory) *MessageService {
	return &MessageService{db: db, dir: dir}
}

// CreateMessageInput carries everything a caller may set on a new message.
// Roles default to employee. SubjectEmployeeID defaults to the receiver
// when the receiver is an employee.
type CreateMessageInput struct {
	Context           string
	ContextRef        *uint
	Body              string
	SenderRole        string
	SenderID          *uint
	SenderName        string
	ReceiverRole      string
	ReceiverID        *uint
	SubjectEmployeeID *uint
}

// Create persists a new unread message and returns its id. The sender name
// snapshot is resolved through the directory when the caller supplied a
// placeholder; if the directory has no entry the placeholder is stored as
// is and corrected on a later read if the identity appears.
func (s *MessageService) Create(in CreateMessageInput) (uint, error) {
	var missing []string
	if in.Context == "" {
		missing = append(missing, "context")
	}
	if in.Body == "" {
		missing = append(missing, "body")
	}
	if len(missing) > 0 {
		return 0, &ValidationError{Fields: missing}
	}

	if in.SenderRole == "" {
		in.SenderRole = models.RoleEmployee
	}
	if in.ReceiverRole == "" {
		in.ReceiverRole = models.RoleEmployee
	}
	if in.SenderName == "" {
		in.SenderName = "Unknown"
	}
	if in.SubjectEmployeeID == nil && in.ReceiverRole == models.RoleEmployee {
		in.SubjectEmployeeID = in.ReceiverID
	}

	if IsPlaceholderName(in.SenderName) && in.SenderID != nil {
		if name, ok := s.dir.Lookup(in.SenderRole, *in.SenderID); ok {
			in.SenderName = name
		}
	}

	msg := models.Message{
		SenderRole:        in.SenderRole,
		SenderID:          in.SenderID,
		SenderName:        in.SenderName,
		ReceiverRole:      in.ReceiverRole,
		ReceiverID:        in.ReceiverID,
		SubjectEmployeeID: in.SubjectEmployeeID,
		Context:           in.Context,
		ContextRef:        in.ContextRef,
		Body:              in.Body,
		IsRead:            false,
	}
	if err := s.db.Create(&msg).Error; err != nil {
		return 0, err
	}
	return msg.ID, nil
}

// MarkRead flips a message to read. Idempotent; marking an already-read or
// nonexistent message is not an error. The boolean reports whether a row
// matched.
func (s *MessageService) MarkRead(id uint) (bool, error) {
	res := s.db.Model(&models.Message{}).Where("id = ?", id).Update("is_read", true)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// ListFor returns the caller's inbox, newest first, optionally narrowed to
// one context. Sender names are resolved before return.
func (s *MessageService) ListFor(caller models.Identity, context string) ([]models.Message, error) {
	rule, ok := visibilityRules[caller.Role]
	if !ok {
		return nil, ErrInvalidRole
	}
	q := s.db.Where(rule, caller.ID, caller.ID)
	if context != "" {
		q = q.Where("context = ?", context)
	}
	var msgs []models.Message
	if err := q.Order(messageOrder).Find(&msgs).Error; err != nil {
		return nil, err
	}
	return s.dir.ResolveSenderNames(msgs), nil
}

// ListThread opens one conversation. With a context ref the match is
// strictly (context, context_ref), replacing the caller's role rule: the
// difference between filtering an inbox and opening a specific thread.
// Without a ref it behaves like ListFor narrowed to the context.
func (s *MessageService) ListThread(caller models.Identity, context string, contextRef *uint) ([]models.Message, error) {
	if contextRef == nil {
		return s.ListFor(caller, context)
	}
	if !models.ValidRole(caller.Role) {
		return nil, ErrInvalidRole
	}
	var msgs []models.Message
	err := s.db.Where("context = ? AND context_ref = ?", context, *contextRef).
		Order(messageOrder).Find(&msgs).Error
	if err != nil {
		return nil, err
	}
	return s.dir.ResolveSenderNames(msgs), nil
}

// ListEmployeeThread is the manager/admin view of everything concerning
// one employee, optionally narrowed to a context.
func (s *MessageService) ListEmployeeThread(employeeID uint, context string) ([]models.Message, error) {
	q := s.db.Where("subject_employee_id = ?", employeeID)
	if context != "" {
		q = q.Where("context = ?", context)
	}
	var msgs []models.Message
	if err := q.Order(messageOrder).Find(&msgs).Error; err != nil {
		return nil, err
	}
	return s.dir.ResolveSenderNames(msgs), nil
}

// UnreadCount counts unread messages addressed to the caller. Unrecognized
// callers get 0, never an error.
func (s *MessageService) UnreadCount(caller models.Identity) (int64, error) {
	rule, ok := unreadRules[caller.Role]
	if !ok {
		return 0, nil
	}
	var count int64
	if err := s.db.Model(&models.Message{}).Where(rule, false, caller.ID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
