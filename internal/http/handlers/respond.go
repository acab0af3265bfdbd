package handlers

import (
	"log/slog"
	"net/http"

	"github.com/calloway/itemvault/internal/apperr"
	"github.com/gin-gonic/gin"
)

// ErrorBody is the one wire shape every failure collapses into.
type ErrorBody struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// RespondError is the single translation point from Go errors to the wire.
// Typed application errors keep their own code and status; anything
// unclassified is logged with request context and flattened to a bare 500.
func RespondError(ctx *gin.Context, err error) {
	ae, ok := apperr.From(err)

	if ok {
		ctx.JSON(ae.Status, ErrorBody{
			Success: false,
			Error:   ae.Code,
			Message: ae.Message,
			Details: ae.Details,
		})
		return
	}

	reqID, _ := ctx.Get("request_id")

	slog.Default().ErrorContext(ctx.Request.Context(), "unhandled error",
		"err", err,
		"method", ctx.Request.Method,
		"path", ctx.Request.URL.Path,
		"request_id", reqID,
	)

	ctx.JSON(http.StatusInternalServerError, ErrorBody{
		Success: false,
		Error:   "INTERNAL_SERVER_ERROR",
		Message: "An unexpected error occurred.",
	})
}

// RespondStatus covers framework-level failures that never became typed
// errors; the code comes from the status table.
func RespondStatus(ctx *gin.Context, status int, message string, details any) {
	ctx.JSON(status, ErrorBody{
		Success: false,
		Error:   apperr.CodeForStatus(status),
		Message: message,
		Details: details,
	})
}

// RespondData wraps successful payloads in the {success, data} envelope.
func RespondData(ctx *gin.Context, status int, data any) {
	ctx.JSON(status, gin.H{
		"success": true,
		"data":    data,
	})
}
