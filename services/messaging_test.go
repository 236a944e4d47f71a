package services

import (
	"fmt"
	"testing"
	"time"

	"brainhr-server/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestService(t *testing.T) *MessageService {
	t.Helper()
	// Named per test so the pooled connections all reach the same store.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.Message{}, &models.Employee{}, &models.Manager{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewMessageService(db, NewIdentityDirectory(db))
}

func uintPtr(v uint) *uint { return &v }

func TestCreateAppliesDefaults(t *testing.T) {
	svc := newTestService(t)

	id, err := svc.Create(CreateMessageInput{
		Context:    "timesheet",
		Body:       "please resubmit week 3",
		ReceiverID: uintPtr(7),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	var msg models.Message
	if err := svc.db.First(&msg, id).Error; err != nil {
		t.Fatalf("load: %v", err)
	}
	if msg.SenderRole != models.RoleEmployee || msg.ReceiverRole != models.RoleEmployee {
		t.Errorf("roles not defaulted: %s -> %s", msg.SenderRole, msg.ReceiverRole)
	}
	if msg.SenderName != "Unknown" {
		t.Errorf("sender name = %q, want Unknown", msg.SenderName)
	}
	if msg.SubjectEmployeeID == nil || *msg.SubjectEmployeeID != 7 {
		t.Errorf("subject employee not defaulted to receiver: %v", msg.SubjectEmployeeID)
	}
	if msg.IsRead {
		t.Error("new message must start unread")
	}
}

func TestCreateRejectsMissingFields(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Create(CreateMessageInput{Body: "no context"})
	verr, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(verr.Fields) != 1 || verr.Fields[0] != "context" {
		t.Errorf("fields = %v, want [context]", verr.Fields)
	}

	_, err = svc.Create(CreateMessageInput{})
	if verr, ok := err.(*ValidationError); !ok || len(verr.Fields) != 2 {
		t.Errorf("expected both fields reported, got %v", err)
	}
}

func TestSenderNameResolution(t *testing.T) {
	svc := newTestService(t)
	svc.db.Create(&models.Employee{Username: "jdoe", PasswordHash: "x", EmployeeName: "Jane Doe", EmployeeCode: "E100"})

	// Placeholder resolved at write time when the sender exists.
	id, err := svc.Create(CreateMessageInput{
		Context:    "visa",
		Body:       "uploaded my I-797",
		SenderRole: models.RoleEmployee,
		SenderID:   uintPtr(1),
		SenderName: "Employee",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	var msg models.Message
	svc.db.First(&msg, id)
	if msg.SenderName != "Jane Doe" {
		t.Errorf("sender name = %q, want Jane Doe", msg.SenderName)
	}

	// An explicit real name is never overwritten.
	id2, _ := svc.Create(CreateMessageInput{
		Context:    "visa",
		Body:       "second note",
		SenderRole: models.RoleEmployee,
		SenderID:   uintPtr(1),
		SenderName: "J. Doe (mobile)",
	})
	svc.db.First(&msg, id2)
	if msg.SenderName != "J. Doe (mobile)" {
		t.Errorf("explicit sender name overwritten: %q", msg.SenderName)
	}
}

func TestReadTimeResolutionDoesNotPersist(t *testing.T) {
	svc := newTestService(t)

	// Sender row does not exist yet, so the placeholder survives the write.
	id, _ := svc.Create(CreateMessageInput{
		Context:      "general",
		Body:         "hello",
		SenderRole:   models.RoleEmployee,
		SenderID:     uintPtr(1),
		ReceiverRole: models.RoleManager,
		ReceiverID:   uintPtr(2),
	})

	svc.db.Create(&models.Employee{Username: "late", PasswordHash: "x", EmployeeName: "Late Arrival", EmployeeCode: "E200"})
	svc.db.Create(&models.Manager{Username: "boss", PasswordHash: "x", EmployeeName: "The Boss"})

	msgs, err := svc.ListFor(models.Identity{Role: models.RoleManager, ID: 2}, "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(msgs) != 1 || msgs[0].SenderName != "Late Arrival" {
		t.Fatalf("read-time resolution failed: %+v", msgs)
	}

	// Stored row keeps the placeholder.
	var stored models.Message
	svc.db.First(&stored, id)
	if stored.SenderName != "Unknown" {
		t.Errorf("stored sender name mutated to %q", stored.SenderName)
	}
}

func TestAdminSenderName(t *testing.T) {
	svc := newTestService(t)

	id, _ := svc.Create(CreateMessageInput{
		Context:      "announcement",
		Body:         "office closed friday",
		SenderRole:   models.RoleAdmin,
		SenderID:     uintPtr(1),
		SenderName:   "Admin",
		ReceiverRole: models.RoleEmployee,
		ReceiverID:   uintPtr(3),
	})

	var msg models.Message
	svc.db.First(&msg, id)
	if msg.SenderName != models.AdminDisplayName {
		t.Errorf("admin sender name = %q, want %q", msg.SenderName, models.AdminDisplayName)
	}
}

func TestAdminBroadcastReachesEmployee(t *testing.T) {
	svc := newTestService(t)

	svc.Create(CreateMessageInput{
		Context: "onboarding", Body: "welcome aboard",
		SenderRole: models.RoleAdmin, SenderID: uintPtr(1), SenderName: "Admin",
		ReceiverRole: models.RoleEmployee, SubjectEmployeeID: uintPtr(1),
	})
	svc.Create(CreateMessageInput{
		Context: "general", Body: "unrelated",
		ReceiverRole: models.RoleEmployee, ReceiverID: uintPtr(1),
	})

	msgs, err := svc.ListFor(models.Identity{Role: models.RoleEmployee, ID: 1}, "onboarding")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(msgs) != 1 {
		t.Fatalf("onboarding inbox = %d messages, want 1", len(msgs))
	}
	if msgs[0].SenderName != models.AdminDisplayName {
		t.Errorf("sender name = %q, want %q", msgs[0].SenderName, models.AdminDisplayName)
	}
}

func TestRoleIsolation(t *testing.T) {
	svc := newTestService(t)

	// Admin -> employee 1, admin -> employee 2, employee 1 -> manager 5.
	svc.Create(CreateMessageInput{
		Context: "hr", Body: "for emp 1",
		SenderRole: models.RoleAdmin, SenderID: uintPtr(1),
		ReceiverRole: models.RoleEmployee, ReceiverID: uintPtr(1),
	})
	svc.Create(CreateMessageInput{
		Context: "hr", Body: "for emp 2",
		SenderRole: models.RoleAdmin, SenderID: uintPtr(1),
		ReceiverRole: models.RoleEmployee, ReceiverID: uintPtr(2),
	})
	svc.Create(CreateMessageInput{
		Context: "hr", Body: "emp 1 to manager",
		SenderRole: models.RoleEmployee, SenderID: uintPtr(1),
		ReceiverRole: models.RoleManager, ReceiverID: uintPtr(5),
		SubjectEmployeeID: uintPtr(1),
	})

	emp1, err := svc.ListFor(models.Identity{Role: models.RoleEmployee, ID: 1}, "")
	if err != nil {
		t.Fatalf("list emp1: %v", err)
	}
	if len(emp1) != 2 {
		t.Errorf("employee 1 sees %d messages, want 2", len(emp1))
	}
	for _, m := range emp1 {
		if m.Body == "for emp 2" {
			t.Error("employee 1 can see employee 2's mail")
		}
	}

	emp2, _ := svc.ListFor(models.Identity{Role: models.RoleEmployee, ID: 2}, "")
	if len(emp2) != 1 || emp2[0].Body != "for emp 2" {
		t.Errorf("employee 2 inbox wrong: %+v", emp2)
	}

	mgr, _ := svc.ListFor(models.Identity{Role: models.RoleManager, ID: 5}, "")
	if len(mgr) != 1 || mgr[0].Body != "emp 1 to manager" {
		t.Errorf("manager inbox wrong: %+v", mgr)
	}

	if _, err := svc.ListFor(models.Identity{Role: "super", ID: 1}, ""); err != ErrInvalidRole {
		t.Errorf("unknown role error = %v, want ErrInvalidRole", err)
	}
}

func TestOrderingNewestFirst(t *testing.T) {
	svc := newTestService(t)

	base := time.Now().Add(-time.Hour)
	for i, body := range []string{"oldest", "middle", "newest"} {
		id, _ := svc.Create(CreateMessageInput{
			Context: "general", Body: body,
			ReceiverRole: models.RoleEmployee, ReceiverID: uintPtr(1),
		})
		svc.db.Model(&models.Message{}).Where("id = ?", id).
			Update("created_at", base.Add(time.Duration(i)*time.Minute))
	}
	// Same timestamp as "newest"; higher id must win the tie.
	tied, _ := svc.Create(CreateMessageInput{
		Context: "general", Body: "tied",
		ReceiverRole: models.RoleEmployee, ReceiverID: uintPtr(1),
	})
	svc.db.Model(&models.Message{}).Where("id = ?", tied).
		Update("created_at", base.Add(2*time.Minute))

	msgs, err := svc.ListFor(models.Identity{Role: models.RoleEmployee, ID: 1}, "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	got := make([]string, len(msgs))
	for i, m := range msgs {
		got[i] = m.Body
	}
	want := []string{"tied", "newest", "middle", "oldest"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestMarkReadIdempotent(t *testing.T) {
	svc := newTestService(t)

	id, _ := svc.Create(CreateMessageInput{
		Context: "general", Body: "read me",
		ReceiverRole: models.RoleEmployee, ReceiverID: uintPtr(1),
	})

	matched, err := svc.MarkRead(id)
	if err != nil || !matched {
		t.Fatalf("first mark-read: matched=%v err=%v", matched, err)
	}
	matched, err = svc.MarkRead(id)
	if err != nil {
		t.Fatalf("second mark-read: %v", err)
	}

	var msg models.Message
	svc.db.First(&msg, id)
	if !msg.IsRead {
		t.Error("message not read after mark-read")
	}

	// Unknown id is a no-op, not an error.
	matched, err = svc.MarkRead(99999)
	if err != nil || matched {
		t.Errorf("unknown id: matched=%v err=%v", matched, err)
	}
}

func TestUnreadCount(t *testing.T) {
	svc := newTestService(t)

	// Two unread for employee 1, one already read, one sent by them.
	svc.Create(CreateMessageInput{
		Context: "hr", Body: "one",
		SenderRole: models.RoleAdmin, SenderID: uintPtr(1),
		ReceiverRole: models.RoleEmployee, ReceiverID: uintPtr(1),
	})
	svc.Create(CreateMessageInput{
		Context: "hr", Body: "two",
		SenderRole: models.RoleAdmin, SenderID: uintPtr(1),
		ReceiverRole: models.RoleEmployee, ReceiverID: uintPtr(1),
	})
	readID, _ := svc.Create(CreateMessageInput{
		Context: "hr", Body: "already read",
		SenderRole: models.RoleAdmin, SenderID: uintPtr(1),
		ReceiverRole: models.RoleEmployee, ReceiverID: uintPtr(1),
	})
	svc.MarkRead(readID)
	svc.Create(CreateMessageInput{
		Context: "hr", Body: "sent by employee",
		SenderRole: models.RoleEmployee, SenderID: uintPtr(1),
		ReceiverRole: models.RoleManager, ReceiverID: uintPtr(5),
		SubjectEmployeeID: uintPtr(1),
	})

	count, err := svc.UnreadCount(models.Identity{Role: models.RoleEmployee, ID: 1})
	if err != nil {
		t.Fatalf("unread: %v", err)
	}
	if count != 2 {
		t.Errorf("unread = %d, want 2", count)
	}

	count, err = svc.UnreadCount(models.Identity{Role: "ghost", ID: 1})
	if err != nil || count != 0 {
		t.Errorf("unknown role unread = %d err=%v, want 0 <nil>", count, err)
	}
}

func TestListThreadContextRef(t *testing.T) {
	svc := newTestService(t)

	svc.Create(CreateMessageInput{
		Context: "application", ContextRef: uintPtr(42), Body: "about app 42",
		SenderRole: models.RoleAdmin, SenderID: uintPtr(1),
		ReceiverRole: models.RoleEmployee, ReceiverID: uintPtr(9),
	})
	svc.Create(CreateMessageInput{
		Context: "application", ContextRef: uintPtr(43), Body: "about app 43",
		SenderRole: models.RoleAdmin, SenderID: uintPtr(1),
		ReceiverRole: models.RoleEmployee, ReceiverID: uintPtr(9),
	})
	svc.Create(CreateMessageInput{
		Context: "general", Body: "unrelated",
		ReceiverRole: models.RoleEmployee, ReceiverID: uintPtr(9),
	})

	// With a ref the thread match replaces the caller's inbox rule.
	msgs, err := svc.ListThread(models.Identity{Role: models.RoleManager, ID: 5}, "application", uintPtr(42))
	if err != nil {
		t.Fatalf("thread: %v", err)
	}
	if len(msgs) != 1 || msgs[0].Body != "about app 42" {
		t.Fatalf("thread = %+v, want just app 42", msgs)
	}

	// Without a ref it is the caller's inbox narrowed to the context.
	msgs, err = svc.ListThread(models.Identity{Role: models.RoleEmployee, ID: 9}, "application", nil)
	if err != nil {
		t.Fatalf("inbox: %v", err)
	}
	if len(msgs) != 2 {
		t.Errorf("context inbox = %d messages, want 2", len(msgs))
	}
}

func TestListEmployeeThread(t *testing.T) {
	svc := newTestService(t)

	svc.Create(CreateMessageInput{
		Context: "timesheet", Body: "about emp 4",
		SenderRole: models.RoleManager, SenderID: uintPtr(2),
		ReceiverRole: models.RoleEmployee, ReceiverID: uintPtr(4),
	})
	svc.Create(CreateMessageInput{
		Context: "timesheet", Body: "about emp 5",
		SenderRole: models.RoleManager, SenderID: uintPtr(2),
		ReceiverRole: models.RoleEmployee, ReceiverID: uintPtr(5),
	})

	msgs, err := svc.ListEmployeeThread(4, "timesheet")
	if err != nil {
		t.Fatalf("employee thread: %v", err)
	}
	if len(msgs) != 1 || msgs[0].Body != "about emp 4" {
		t.Errorf("employee thread = %+v", msgs)
	}
}
