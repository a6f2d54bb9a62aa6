package response

import (
	"errors"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-ddd-catalog/internal/domain/apperror"
)

// APIResponse is the single envelope for every endpoint. Success is the tag;
// failures carry Code and Error, successes carry Data.
type APIResponse[T any] struct {
	Status    int         `json:"status"`
	Timestamp time.Time   `json:"timestamp"`
	RequestID string      `json:"request_id"`
	Success   bool        `json:"success"`
	Code      string      `json:"code,omitempty"`
	Message   string      `json:"message"`
	Data      T           `json:"data,omitempty"`
	Meta      interface{} `json:"meta,omitempty"`
	Error     interface{} `json:"error,omitempty"`
}

var exposeInternal atomic.Bool

// ExposeInternalErrors toggles attaching infrastructure causes to responses.
// Enable in development only.
func ExposeInternalErrors(on bool) { exposeInternal.Store(on) }

func Success[T any](ctx *gin.Context, status int, data T, message string, meta interface{}) APIResponse[T] {
	if status == 0 {
		status = http.StatusOK
	}
	res := APIResponse[T]{
		Status:    status,
		Timestamp: time.Now(),
		RequestID: ctx.GetString("request_id"),
		Success:   true,
		Message:   message,
		Data:      data,
		Meta:      meta,
	}
	ctx.JSON(status, res)
	return res
}

func Error(ctx *gin.Context, status int, code apperror.Kind, message string, err interface{}) APIResponse[any] {
	if status == 0 {
		status = http.StatusBadRequest
	}
	res := APIResponse[any]{
		Status:    status,
		Timestamp: time.Now(),
		RequestID: ctx.GetString("request_id"),
		Success:   false,
		Code:      string(code),
		Message:   message,
		Error:     err,
	}
	ctx.AbortWithStatusJSON(status, res)
	return res
}

// StatusFor maps an error kind to its HTTP status.
func StatusFor(kind apperror.Kind) int {
	switch kind {
	case apperror.KindValidation, apperror.KindInvalidReference:
		return http.StatusBadRequest
	case apperror.KindInvalidCredentials, apperror.KindUnauthenticated:
		return http.StatusUnauthorized
	case apperror.KindForbidden:
		return http.StatusForbidden
	case apperror.KindNotFound, apperror.KindProductNotFound:
		return http.StatusNotFound
	case apperror.KindDuplicateEmail, apperror.KindDuplicateSKU:
		return http.StatusConflict
	case apperror.KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// FromError writes the failure envelope for err. Infrastructure faults get a
// generic message unless internal errors are exposed.
func FromError(ctx *gin.Context, err error) APIResponse[any] {
	kind := apperror.KindOf(err)
	status := StatusFor(kind)

	var ae *apperror.Error
	typed := errors.As(err, &ae)

	if kind == apperror.KindInfrastructure {
		_ = ctx.Error(err)
		message := "Internal server error"
		if typed && ae.Message != "" {
			message = ae.Message
		}
		var detail interface{}
		if exposeInternal.Load() {
			detail = gin.H{"cause": err.Error()}
		}
		return Error(ctx, status, kind, message, detail)
	}

	var detail interface{}
	if len(ae.Details) > 0 {
		detail = gin.H{"details": ae.Details}
	}
	return Error(ctx, status, kind, ae.Message, detail)
}
