package respond

import (
	"github.com/gin-gonic/gin"

	"resume-service/internal/shared/telemetry"
)

// Client-facing error details. Internal causes never cross the HTTP boundary.
const (
	DetailUnauthorized   = "Доступ запрещен"
	DetailUnavailable    = "Сервис временно не доступен"
	DetailInternal       = "Внутренняя ошибка сервера"
	DetailInvalidRequest = "Некорректные данные запроса"
	DetailRateLimited    = "Слишком много запросов"
	DetailNotAllowed     = "Method Not Allowed"
)

// ErrorResponse is the error body shape shared by every endpoint.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// Error logs the failure and aborts with {"detail": detail}. code is a log-only classifier.
func Error(c *gin.Context, status int, code, detail string) {
	fields := map[string]any{
		"status":     status,
		"code":       code,
		"detail":     detail,
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
		"request_id": c.GetString("requestId"),
	}
	if userID, ok := c.Get("userId"); ok {
		fields["user_id"] = userID
	}
	if cause, ok := c.Get("errorCause"); ok {
		fields["cause"] = cause
	}
	telemetry.Error("http.error", fields)

	c.AbortWithStatusJSON(status, ErrorResponse{Detail: detail})
}

// ErrorWithCause records the internal cause for the http.error log line before responding.
func ErrorWithCause(c *gin.Context, status int, code, detail string, cause error) {
	if cause != nil {
		c.Set("errorCause", cause.Error())
	}
	Error(c, status, code, detail)
}
