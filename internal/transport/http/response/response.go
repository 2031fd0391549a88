// Package response is the boundary between the service error taxonomy and
// HTTP. Handlers hand every failure to FromError; no error kind is mapped
// anywhere else.
package response

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"jobtracker/internal/app"
	"jobtracker/internal/pkg/jwtutil"
)

type ErrorBody struct {
	Timestamp        time.Time         `json:"timestamp"`
	Status           int               `json:"status"`
	Error            string            `json:"error"`
	Message          string            `json:"message"`
	Path             string            `json:"path"`
	ValidationErrors map[string]string `json:"validationErrors,omitempty"`
}

func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

func Fail(c *gin.Context, status int, message string) {
	c.JSON(status, ErrorBody{
		Timestamp: time.Now(),
		Status:    status,
		Error:     http.StatusText(status),
		Message:   message,
		Path:      c.Request.URL.Path,
	})
}

// BindError translates a gin binding failure. Validator errors carry a
// field→message map; anything else is a plain bad request.
func BindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		Fail(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[jsonFieldName(fe.Field())] = validationMessage(fe)
	}
	c.JSON(http.StatusBadRequest, ErrorBody{
		Timestamp:        time.Now(),
		Status:           http.StatusBadRequest,
		Error:            "Validation Failed",
		Message:          "Invalid input data",
		Path:             c.Request.URL.Path,
		ValidationErrors: fields,
	})
}

// FromError maps a service error to a status and structured body. Unknown
// errors are logged in full and reported generically.
func FromError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, app.ErrInvalidInput):
		Fail(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, app.ErrUsernameExists),
		errors.Is(err, app.ErrEmailExists),
		errors.Is(err, app.ErrDuplicateUser):
		Fail(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, app.ErrInvalidCredential),
		errors.Is(err, jwtutil.ErrTokenExpired),
		errors.Is(err, jwtutil.ErrTokenSignature),
		errors.Is(err, jwtutil.ErrTokenMalformed):
		Fail(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, app.ErrApplicationNotFound):
		Fail(c, http.StatusNotFound, err.Error())
	case errors.Is(err, app.ErrRoleNotConfigured):
		log.Printf("configuration error: %v", err)
		Fail(c, http.StatusInternalServerError, err.Error())
	default:
		log.Printf("internal error on %s: %v", c.Request.URL.Path, err)
		Fail(c, http.StatusInternalServerError, "unexpected server error")
	}
}

func jsonFieldName(structField string) string {
	if structField == "" {
		return structField
	}
	return strings.ToLower(structField[:1]) + structField[1:]
}

func validationMessage(fe validator.FieldError) string {
	field := jsonFieldName(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s should be valid", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must not exceed %s characters", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
