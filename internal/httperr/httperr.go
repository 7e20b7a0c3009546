package httperr

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type HTTPError struct {
	Code    string `json:"error_code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func WriteDetails(c *gin.Context, status int, code, message string, details any) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
		Details: details,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

// Forbidden é usado para limites do plano; details leva os números da cota.
func Forbidden(c *gin.Context, code, message string, details any) {
	WriteDetails(c, http.StatusForbidden, code, message, details)
}

func Unprocessable(c *gin.Context, code, message string, details any) {
	WriteDetails(c, http.StatusUnprocessableEntity, code, message, details)
}

func Unavailable(c *gin.Context, code, message string) {
	Write(c, http.StatusServiceUnavailable, code, message)
}
