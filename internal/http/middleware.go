package http

import (
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-Id"

func RequestID() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		id := ctx.GetHeader(requestIDHeader)

		if id == "" {
			id = uuid.NewString()
		}

		ctx.Writer.Header().Set(requestIDHeader, id)

		ctx.Set("request_id", id)

		ctx.Next()
	}
}

func RequestLogger(log *slog.Logger) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		path := ctx.Request.URL.Path
		method := ctx.Request.Method

		ctx.Next()

		lat := time.Since(start)
		status := ctx.Writer.Status()

		reqID, _ := ctx.Get("request_id")

		log.Info("request", "method", method, "path", path, "status", status, "latency_ms", lat.Milliseconds(), "request_id", reqID)
	}
}

// Recovery converts panics into the standard 500 envelope. The panic value
// and stack stay server-side.
func Recovery(log *slog.Logger) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				reqID, _ := ctx.Get("request_id")

				log.Error("panic recovered",
					"panic", r,
					"method", ctx.Request.Method,
					"path", ctx.Request.URL.Path,
					"request_id", reqID,
					"stack", string(debug.Stack()),
				)

				ctx.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"success": false,
					"error":   "INTERNAL_SERVER_ERROR",
					"message": "An unexpected error occurred.",
				})
			}
		}()

		ctx.Next()
	}
}
