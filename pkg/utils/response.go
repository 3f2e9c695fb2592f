package utils

import (
	"github.com/gin-gonic/gin"
)

// Error kinds reported to clients so upstream AI failures can be told apart
// from local parsing failures.
const (
	KindValidation    = "validation_error"
	KindConfiguration = "configuration_error"
	KindPipeline      = "pipeline_error"
	KindExtraction    = "extraction_error"
	KindRateLimit     = "rate_limited"
	KindInternal      = "internal_error"
)

type APIResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	Kind    string `json:"kind,omitempty"`
}

func ErrorResponse(c *gin.Context, code int, kind, message string, err error) {
	response := APIResponse{
		Success: false,
		Message: message,
		Kind:    kind,
	}

	if err != nil {
		response.Error = err.Error()
	}

	c.JSON(code, response)
}
