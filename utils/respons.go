package utils

import (
	"github.com/gin-gonic/gin"
)

// JSONResponse is the envelope shared by every endpoint:
// {success, message, meta?, data?} on success,
// {success:false, message, errors?} on failure.
type JSONResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Meta    interface{} `json:"meta,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Errors  interface{} `json:"errors,omitempty"`
}

func RespondJSON(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, JSONResponse{
		Success: code >= 200 && code < 300,
		Message: message,
		Data:    data,
	})
}

func RespondWithMeta(c *gin.Context, code int, message string, meta interface{}, data interface{}) {
	c.JSON(code, JSONResponse{
		Success: code >= 200 && code < 300,
		Message: message,
		Meta:    meta,
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, err error) {
	c.JSON(code, JSONResponse{
		Success: false,
		Message: err.Error(),
	})
}
