package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zerodesign/zerodesign-backend/internal/platform/apierr"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type Envelope struct {
	Success bool      `json:"success"`
	Data    any       `json:"data,omitempty"`
	Error   *APIError `json:"error,omitempty"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	RespondErrorWithData(c, status, code, err, nil)
}

// RespondErr maps err through apierr. Unclassified errors are reported as a
// generic 500 so internal details stay out of the body.
func RespondErr(c *gin.Context, err error) {
	status, code := apierr.Resolve(err)
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
		if code == "internal_error" {
			err = nil
		}
	}
	RespondErrorWithData(c, status, code, err, nil)
}

func RespondErrorWithData(c *gin.Context, status int, code string, err error, data any) {
	msg := "internal server error"
	if err != nil {
		msg = err.Error()
	}
	c.AbortWithStatusJSON(status, Envelope{
		Success: false,
		Data:    data,
		Error:   &APIError{Message: msg, Code: code},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: payload})
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, Envelope{Success: true, Data: payload})
}
