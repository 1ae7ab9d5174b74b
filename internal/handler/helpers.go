package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/ridwanfathin/rug-estimate-service/internal/annotation"
	"github.com/ridwanfathin/rug-estimate-service/internal/domain"
	"github.com/ridwanfathin/rug-estimate-service/internal/model"
	"github.com/ridwanfathin/rug-estimate-service/internal/repository"
	"github.com/ridwanfathin/rug-estimate-service/internal/service"
	"github.com/ridwanfathin/rug-estimate-service/internal/storage"
)

// getPathParam retrieves a path parameter and validates it's not empty
func getPathParam(c *gin.Context, paramName string) (string, error) {
	value := c.Param(paramName)
	if value == "" {
		return "", fmt.Errorf("%s is required", paramName)
	}
	return value, nil
}

// getPathIndex retrieves a non-negative integer path parameter
func getPathIndex(c *gin.Context, paramName string) (int, error) {
	value, err := strconv.Atoi(c.Param(paramName))
	if err != nil || value < 0 {
		return 0, fmt.Errorf("invalid %s: must be a non-negative integer", paramName)
	}
	return value, nil
}

var registerTagNames sync.Once

// useJSONFieldNames makes validation errors report json field names
func useJSONFieldNames() {
	registerTagNames.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
	})
}

// bindJSON binds JSON request body to a struct
func bindJSON(c *gin.Context, obj any) error {
	if err := c.ShouldBindJSON(obj); err != nil {
		return fmt.Errorf("invalid JSON format: %w", err)
	}
	return nil
}

// bindingErrorDetails describes why a body could not be bound: one detail per
// failed field, or a single "body" detail when the JSON itself is unusable
func bindingErrorDetails(err error) []model.ErrorDetail {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			// Namespace starts with the request type name.
			field := fe.Field()
			if _, path, ok := strings.Cut(fe.Namespace(), "."); ok {
				field = path
			}
			if fe.Tag() == "required" {
				fields[field] = field + " is required"
			} else {
				fields[field] = fmt.Sprintf("%s failed %s validation", field, fe.Tag())
			}
		}
		return newErrorDetails(fields)
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return []model.ErrorDetail{newErrorDetail(typeErr.Field,
			fmt.Sprintf("%s must be %s, got %s", typeErr.Field, jsonType(typeErr.Type), typeErr.Value))}
	}
	return []model.ErrorDetail{newErrorDetail("body", "invalid JSON body")}
}

func jsonType(t reflect.Type) string {
	switch t.Kind() {
	case reflect.String:
		return "a string"
	case reflect.Bool:
		return "a boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return "a number"
	case reflect.Slice, reflect.Array:
		return "an array"
	default:
		return "an object"
	}
}

// bindOptionalJSON is bindJSON for bodies that may be omitted entirely
func bindOptionalJSON(c *gin.Context, obj any) error {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		return nil
	}
	if err := c.ShouldBindJSON(obj); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("invalid JSON format: %w", err)
	}
	return nil
}

// logError records a failed request. Internal error text goes to the log,
// never to the client.
func logError(c *gin.Context, logger *slog.Logger, event string, err error, args ...any) {
	attrs := append([]any{
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"error", err,
	}, args...)
	logger.Error(event, attrs...)
	_ = c.Error(err)
}

// respondServiceError maps service, repository and core errors to responses
func respondServiceError(c *gin.Context, logger *slog.Logger, event string, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		respondBadRequest(c, ErrValidationFailed, newErrorDetails(verr.Fields)...)
	case errors.Is(err, annotation.ErrIndexOutOfRange):
		var ierr *annotation.IndexError
		if errors.As(err, &ierr) {
			respondUnprocessableEntity(c, ErrIndexOutOfRange,
				newErrorDetail("index", fmt.Sprintf("%s: index %d, %d annotations", ierr.Op, ierr.Index, ierr.Len)))
			return
		}
		respondUnprocessableEntity(c, ErrIndexOutOfRange)
	case errors.Is(err, annotation.ErrUnknownEvent):
		respondBadRequest(c, ErrInvalidInput, newErrorDetail("events", err.Error()))
	case errors.Is(err, repository.ErrNotFound),
		errors.Is(err, service.ErrNoEstimates),
		errors.Is(err, service.ErrServiceNotFound):
		respondNotFound(c, ErrResourceNotFound)
	case errors.Is(err, service.ErrAlreadyApproved):
		respondConflict(c, ErrAlreadyApproved)
	case errors.Is(err, service.ErrEstimateLocked):
		respondConflict(c, ErrEstimateLocked)
	case errors.Is(err, repository.ErrConflict):
		respondConflict(c, ErrResourceExists)
	case errors.Is(err, storage.ErrNotConfigured):
		respondServiceUnavailable(c, ErrStorageUnavailable)
	default:
		logError(c, logger, event, err)
		respondInternalServerError(c, ErrInternalServer)
	}
}
