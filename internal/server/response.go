package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// APIError is the machine-checkable error payload. Every failure path
// carries a human-readable message alongside the code.
type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// ErrorEnvelope wraps APIError for transport.
type ErrorEnvelope struct {
	Error  APIError `json:"error"`
	Errors []string `json:"errors,omitempty"`
}

// RespondError writes an error envelope with the given status.
func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

// RespondValidationErrors writes a 400 carrying the complete violation
// list so the caller can present every correction at once.
func RespondValidationErrors(c *gin.Context, messages []string) {
	c.JSON(http.StatusBadRequest, ErrorEnvelope{
		Error: APIError{
			Message: "onboarding config failed validation",
			Code:    "validation_failed",
		},
		Errors: messages,
	})
}

// RespondOK writes the payload with a 200.
func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}
