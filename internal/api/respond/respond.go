package respond

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"unicode"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// envelope is the uniform response wrapper every endpoint answers with.
type envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
	Message string      `json:"message,omitempty"`
}

// Success writes a success envelope.
func Success(c *gin.Context, code int, data interface{}, message string) {
	c.JSON(code, envelope{Success: true, Data: data, Message: message})
}

// Error writes a failure envelope.
func Error(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, envelope{Success: false, Data: data, Message: message})
}

// AbortError writes a failure envelope and stops the handler chain.
func AbortError(c *gin.Context, code int, message string, data interface{}) {
	Error(c, code, message, data)
	c.Abort()
}

// NoContent answers a bodyless 204.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// FieldErrors writes a 422 with per-field messages in data.
func FieldErrors(c *gin.Context, fields map[string]string) {
	Error(c, http.StatusUnprocessableEntity, "Validation failed.", fields)
}

// ValidationError translates a binding failure into a 422 envelope.
// Validator errors turn into per-field messages; anything else (malformed
// JSON, type mismatches) is reported under "body".
func ValidationError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[snakeCase(fe.Field())] = fieldMessage(fe)
		}
		FieldErrors(c, fields)
		return
	}
	FieldErrors(c, map[string]string{"body": err.Error()})
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "eqfield":
		return "does not match " + snakeCase(fe.Param())
	default:
		return "is invalid"
	}
}

// snakeCase converts a struct field name such as PasswordConfirmation or
// CategoryID to its json form for error reporting.
func snakeCase(s string) string {
	var b strings.Builder
	runes := []rune(s)
	for i, r := range runes {
		if unicode.IsUpper(r) {
			prevLower := i > 0 && (unicode.IsLower(runes[i-1]) || unicode.IsDigit(runes[i-1]))
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if i > 0 && (prevLower || nextLower) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
