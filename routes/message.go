package routes

import (
	"errors"

	"brainhr-server/models"
	"brainhr-server/services"
	"brainhr-server/utils"

	"github.com/kataras/iris/v12"
)

type CreateMessageInput struct {
	Context           string `json:"context"`
	ContextRef        *uint  `json:"context_ref"`
	Body              string `json:"body"`
	SenderRole        string `json:"sender_role" validate:"omitempty,oneof=admin manager employee"`
	SenderName        string `json:"sender_name"`
	SenderID          *uint  `json:"sender_id"`
	ReceiverRole      string `json:"receiver_role" validate:"omitempty,oneof=admin manager employee"`
	ReceiverID        *uint  `json:"receiver_id"`
	SubjectEmployeeID *uint  `json:"subject_employee_id"`
}

// CreateMessage stores a new message. Anonymous creation is allowed (the
// public site posts application questions); authenticated callers get
// their identity filled in as the sender when the payload leaves it out.
func CreateMessage(ctx iris.Context) {
	var input CreateMessageInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	if caller, ok := utils.CallerIdentity(ctx); ok && input.SenderID == nil {
		if input.SenderRole == "" || input.SenderRole == caller.Role {
			input.SenderRole = caller.Role
			id := caller.ID
			input.SenderID = &id
		}
	}

	msgID, err := messageService().Create(services.CreateMessageInput{
		Context:           input.Context,
		ContextRef:        input.ContextRef,
		Body:              input.Body,
		SenderRole:        input.SenderRole,
		SenderID:          input.SenderID,
		SenderName:        input.SenderName,
		ReceiverRole:      input.ReceiverRole,
		ReceiverID:        input.ReceiverID,
		SubjectEmployeeID: input.SubjectEmployeeID,
	})
	if err != nil {
		var verr *services.ValidationError
		if errors.As(err, &verr) {
			utils.JSONError(ctx, iris.StatusBadRequest, "validation_error", verr.Error())
			return
		}
		utils.LogStoreError(ctx, "create message", err)
		return
	}

	publishEvent(services.EventMessageCreated, iris.Map{"message_id": msgID, "context": input.Context})

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{"success": true, "message_id": msgID})
}

// MarkMessageRead acknowledges a message. Succeeds whether or not the id
// exists or was already read.
func MarkMessageRead(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, iris.StatusBadRequest, "bad_request", "invalid message id")
		return
	}
	if _, err := messageService().MarkRead(id); err != nil {
		utils.LogStoreError(ctx, "mark message read", err)
		return
	}
	ctx.JSON(iris.Map{"success": true})
}

// EmployeeMyMessages returns the employee's inbox: messages about them plus
// messages they sent, newest first.
func EmployeeMyMessages(ctx iris.Context) {
	listForCaller(ctx)
}

// ManagerMyMessages returns the manager's inbox.
func ManagerMyMessages(ctx iris.Context) {
	listForCaller(ctx)
}

// AdminMyMessages returns the admin's inbox.
func AdminMyMessages(ctx iris.Context) {
	listForCaller(ctx)
}

func listForCaller(ctx iris.Context) {
	caller, ok := utils.CallerIdentity(ctx)
	if !ok {
		ctx.JSON([]models.Message{})
		return
	}
	msgs, err := messageService().ListFor(caller, ctx.URLParam("context"))
	if err != nil {
		if errors.Is(err, services.ErrInvalidRole) {
			ctx.JSON([]models.Message{})
			return
		}
		utils.LogStoreError(ctx, "list messages", err)
		return
	}
	respondMessages(ctx, msgs)
}

// ContextMessages opens a conversation for the logged-in employee. With a
// context ref the result is exactly that thread; with only a context it is
// the employee's inbox narrowed to it.
func ContextMessages(ctx iris.Context) {
	caller, ok := utils.CallerIdentity(ctx)
	if !ok {
		ctx.JSON([]models.Message{})
		return
	}

	contextTag := ctx.URLParam("context")
	var contextRef *uint
	if v, err := ctx.URLParamInt("context_ref"); err == nil && v > 0 {
		u := uint(v)
		contextRef = &u
	} else if v, err := ctx.URLParamInt("context_id"); err == nil && v > 0 {
		// legacy query key
		u := uint(v)
		contextRef = &u
	}

	msgs, err := messageService().ListThread(caller, contextTag, contextRef)
	if err != nil {
		if errors.Is(err, services.ErrInvalidRole) {
			ctx.JSON([]models.Message{})
			return
		}
		utils.LogStoreError(ctx, "list thread", err)
		return
	}
	respondMessages(ctx, msgs)
}

// EmployeeInboxMessages is the plain "everything about me" listing kept
// for older portal screens.
func EmployeeInboxMessages(ctx iris.Context) {
	caller, ok := utils.CallerIdentity(ctx)
	if !ok {
		ctx.JSON([]models.Message{})
		return
	}
	msgs, err := messageService().ListEmployeeThread(caller.ID, ctx.URLParam("context"))
	if err != nil {
		utils.LogStoreError(ctx, "list employee inbox", err)
		return
	}
	respondMessages(ctx, msgs)
}

// ManagerEmployeeMessages is the staff view of one employee's thread.
func ManagerEmployeeMessages(ctx iris.Context) {
	empID, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, iris.StatusBadRequest, "bad_request", "invalid employee id")
		return
	}
	msgs, err := messageService().ListEmployeeThread(empID, ctx.URLParam("context"))
	if err != nil {
		utils.LogStoreError(ctx, "list employee messages", err)
		return
	}
	respondMessages(ctx, msgs)
}

// UnreadCount reports the caller's unread total. Anonymous or unrecognized
// callers get 0.
func UnreadCount(ctx iris.Context) {
	caller, ok := utils.CallerIdentity(ctx)
	if !ok {
		ctx.JSON(iris.Map{"unread_count": 0})
		return
	}
	count, err := messageService().UnreadCount(caller)
	if err != nil {
		utils.LogStoreError(ctx, "unread count", err)
		return
	}
	ctx.JSON(iris.Map{"unread_count": count})
}

func respondMessages(ctx iris.Context, msgs []models.Message) {
	if msgs == nil {
		msgs = []models.Message{}
	}
	ctx.JSON(msgs)
}
