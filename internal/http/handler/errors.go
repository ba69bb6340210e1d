package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"pinboard.app/api/internal/service"
)

// respondError maps service errors onto status codes. Anything unrecognised is a
// storage failure: it is logged here and the client gets a generic 500.
func respondError(c *gin.Context, err error, op string) {
	ctx := c.Request.Context()

	var vErr *service.ValidationError
	switch {
	case errors.As(err, &vErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": vErr.Error(), "field": vErr.Field})
	case errors.Is(err, service.ErrInvalidStatus):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrPinNotFound),
		errors.Is(err, service.ErrRequestNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrDuplicateRequest),
		errors.Is(err, service.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		slog.ErrorContext(ctx, op+" failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// bindError renders a binding failure as a 400 naming the offending fields.
func bindError(c *gin.Context, err error) {
	slog.WarnContext(c.Request.Context(), "invalid request body", "error", err)

	var vErrs validator.ValidationErrors
	if errors.As(err, &vErrs) {
		missing := make([]string, 0, len(vErrs))
		invalid := make([]string, 0, len(vErrs))
		for _, fe := range vErrs {
			if fe.Tag() == "required" {
				missing = append(missing, fe.Field())
			} else {
				invalid = append(invalid, fe.Field())
			}
		}
		msg := ""
		if len(missing) > 0 {
			msg = "missing required field: " + strings.Join(missing, ", ")
		}
		if len(invalid) > 0 {
			if msg != "" {
				msg += "; "
			}
			msg += "invalid field: " + strings.Join(invalid, ", ")
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid request: %v", err)})
}

// ConfigureBinding makes gin reject unknown JSON fields and report validation
// failures by their JSON names.
func ConfigureBinding() {
	configureOnce.Do(func() {
		binding.EnableDecoderDisallowUnknownFields = true
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			v.RegisterTagNameFunc(func(f reflect.StructField) string {
				for _, tag := range []string{"json", "form"} {
					name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
					if name != "" && name != "-" {
						return name
					}
				}
				return f.Name
			})
		}
	})
}

var configureOnce sync.Once
