/*
Package response - uniform API envelopes.

Success: { code, message, metadata: { data }, request_id }
Failure: { code, error, message, request_id }

HTTP status mapping from error codes lives here and only here; the domain
and application layers never see HTTP. Internal errors log the full chain
but cross the boundary as a fixed "internal server error" message.
*/
package response

import (
	"net/http"

	"marketbill/pkg/errors"
	"marketbill/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestIDKey context key for request id propagation
const RequestIDKey = "request_id"

// Metadata wraps the payload of a success envelope.
type Metadata struct {
	Data interface{} `json:"data"`
}

// Response Success envelope
type Response struct {
	Code      int       `json:"code"`
	Message   string    `json:"message"`
	Metadata  *Metadata `json:"metadata,omitempty"`
	RequestID string    `json:"request_id,omitempty"`
}

// ErrorResponse Failure envelope. Error carries the stable code, Message the
// human-readable text.
type ErrorResponse struct {
	Code      int    `json:"code"`
	Error     string `json:"error"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// httpStatusMap error code to HTTP status, API layer only
var httpStatusMap = map[errors.ErrorCode]int{
	errors.CodeInternal:       http.StatusInternalServerError,
	errors.CodeBadRequest:     http.StatusBadRequest,
	errors.CodeNotFound:       http.StatusNotFound,
	errors.CodeConflict:       http.StatusConflict,
	errors.CodeValidation:     http.StatusBadRequest,
	errors.CodeTooManyRequest: http.StatusTooManyRequests,

	errors.CodeBillNotFound:      http.StatusNotFound,
	errors.CodeUserNotFound:      http.StatusNotFound,
	errors.CodeStoreNotFound:     http.StatusNotFound,
	errors.CodeProductNotFound:   http.StatusNotFound,
	errors.CodeInvalidBillState:  http.StatusUnprocessableEntity,
	errors.CodeSettlementFailure: http.StatusBadGateway,
}

func mapErrorCodeToHTTPStatus(code errors.ErrorCode) int {
	if status, ok := httpStatusMap[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// GetRequestID reads the request id set by the middleware.
func GetRequestID(c *gin.Context) string {
	if requestID, exists := c.Get(RequestIDKey); exists {
		if id, ok := requestID.(string); ok {
			return id
		}
	}
	return ""
}

// HandleError handles framework-level errors (parameter binding, missing
// identity header) with an explicit status code.
func HandleError(c *gin.Context, err error, message string, code int) {
	requestID := GetRequestID(c)

	logger.Error(message,
		zap.String("request_id", requestID),
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method),
		zap.Int("status", code),
		zap.Error(err))

	c.JSON(code, &ErrorResponse{
		Code:      code,
		Error:     string(errors.CodeBadRequest),
		Message:   message,
		RequestID: requestID,
	})
}

// HandleAppError classifies a business error, maps the HTTP status, logs the
// full chain and returns the safe envelope.
func HandleAppError(c *gin.Context, err error) {
	requestID := GetRequestID(c)

	appErr := errors.FromDomainError(err)
	httpStatus := mapErrorCodeToHTTPStatus(appErr.Code)

	fields := []zap.Field{
		zap.String("request_id", requestID),
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method),
		zap.String("error_code", string(appErr.Code)),
		zap.Int("http_status", httpStatus),
	}
	if appErr.Err != nil {
		fields = append(fields, zap.Error(appErr.Err))
	}
	logger.Error(appErr.Message, fields...)

	userMessage := appErr.Message
	if appErr.Code == errors.CodeInternal {
		userMessage = "internal server error"
	}

	c.JSON(httpStatus, &ErrorResponse{
		Code:      httpStatus,
		Error:     string(appErr.Code),
		Message:   userMessage,
		RequestID: requestID,
	})
}

// HandleSuccess 200 OK
func HandleSuccess(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusOK, &Response{
		Code:      http.StatusOK,
		Message:   message,
		Metadata:  &Metadata{Data: data},
		RequestID: GetRequestID(c),
	})
}

// HandleCreated 201 Created
func HandleCreated(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusCreated, &Response{
		Code:      http.StatusCreated,
		Message:   message,
		Metadata:  &Metadata{Data: data},
		RequestID: GetRequestID(c),
	})
}
