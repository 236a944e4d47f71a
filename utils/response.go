package utils

import (
	"log"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/kataras/iris/v12"
)

func JSONError(ctx iris.Context, status int, code, message string) {
	ctx.StatusCode(status)
	ctx.JSON(iris.Map{"error": code, "message": message})
}

func CreateInternalServerError(ctx iris.Context) {
	// Detail stays in the server log; clients get a generic message.
	JSONError(ctx, iris.StatusInternalServerError, "internal_server_error", "Internal Server Error")
}

func CreateNotFound(ctx iris.Context) {
	JSONError(ctx, iris.StatusNotFound, "not_found", "Not Found")
}

// LogStoreError records a persistence failure with full detail and maps it
// to a generic 500 for the client.
func LogStoreError(ctx iris.Context, op string, err error) {
	log.Printf("store error in %s: %v", op, err)
	CreateInternalServerError(ctx)
}

// HandleValidationErrors maps ReadJSON/validator failures to a 400 naming
// the offending fields.
func HandleValidationErrors(err error, ctx iris.Context) {
	if errs, ok := err.(validator.ValidationErrors); ok {
		fields := make([]string, 0, len(errs))
		for _, e := range errs {
			fields = append(fields, e.Field())
		}
		JSONError(ctx, iris.StatusBadRequest, "validation_error",
			"Missing or invalid fields: "+strings.Join(fields, ", "))
		return
	}
	JSONError(ctx, iris.StatusBadRequest, "bad_request", "Invalid request payload")
}
