package httpserver

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"mini-shop/internal/domain"
	authsvc "mini-shop/internal/service/auth"
	ordersvc "mini-shop/internal/service/order"
	"mini-shop/internal/upload"
	"mini-shop/internal/wechat"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// envelope is the body shape of every API response.
type envelope struct {
	Success bool                `json:"success"`
	Message string              `json:"message,omitempty"`
	Data    interface{}         `json:"data,omitempty"`
	Errors  []domain.FieldError `json:"errors,omitempty"`
	Detail  string              `json:"detail,omitempty"`
}

func ok(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, envelope{Success: true, Message: message, Data: data})
}

func fail(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, envelope{Success: false, Message: message})
}

type statusRule struct {
	target  error
	status  int
	message string
}

var errorRules = []statusRule{
	{authsvc.ErrNoToken, http.StatusUnauthorized, "authentication required"},
	{authsvc.ErrTokenExpired, http.StatusUnauthorized, "token expired"},
	{authsvc.ErrInvalidToken, http.StatusUnauthorized, "invalid token"},
	{authsvc.ErrTokenRevoked, http.StatusUnauthorized, "token revoked"},
	{authsvc.ErrUnknownUser, http.StatusUnauthorized, "user not found"},
	{wechat.ErrNotConfigured, http.StatusInternalServerError, "wechat login is not configured"},
	{wechat.ErrInvalidAppID, http.StatusInternalServerError, "wechat app id is invalid"},
	{wechat.ErrInvalidSecret, http.StatusInternalServerError, "wechat app secret is invalid"},
	{wechat.ErrCodeUsed, http.StatusBadRequest, "login code already used"},
	{wechat.ErrMissingOpenID, http.StatusBadGateway, "wechat did not return an openid"},
	{wechat.ErrInvalidPayload, http.StatusBadGateway, "wechat returned a malformed response"},
	{wechat.ErrUnreachable, http.StatusBadGateway, "wechat server unreachable"},
	{wechat.ErrTimeout, http.StatusGatewayTimeout, "wechat request timed out"},
	{upload.ErrTooLarge, http.StatusRequestEntityTooLarge, "file too large"},
	{upload.ErrUnsupportedType, http.StatusBadRequest, upload.ErrUnsupportedType.Error()},
	{upload.ErrNoFile, http.StatusBadRequest, "no file uploaded"},
	{upload.ErrTooManyFiles, http.StatusBadRequest, upload.ErrTooManyFiles.Error()},
	{upload.ErrInvalidName, http.StatusBadRequest, "invalid file name"},
	{ordersvc.ErrOrderNoExhausted, http.StatusServiceUnavailable, "could not allocate an order number, retry later"},
	{domain.ErrNotFound, http.StatusNotFound, "not found"},
	{domain.ErrAlreadyExists, http.StatusConflict, "already exists"},
	{domain.ErrConflict, http.StatusConflict, "resource was modified concurrently, retry"},
	{domain.ErrForbidden, http.StatusForbidden, "forbidden"},
	{domain.ErrInvalidState, http.StatusBadRequest, "operation not allowed in the current state"},
	{domain.ErrInsufficientStock, http.StatusBadRequest, "insufficient stock"},
}

// writeError maps err to a status code and writes the failure envelope.
// The raw error text is exposed as detail outside production.
func (h *handler) writeError(c *gin.Context, err error) {
	body := envelope{Success: false}
	status := http.StatusInternalServerError

	var (
		verr   *domain.ValidationError
		apiErr *wechat.APIError
	)
	switch {
	case errors.As(err, &verr):
		status = http.StatusBadRequest
		body.Message = "validation failed"
		body.Errors = verr.Fields
	case errors.As(err, &apiErr):
		status = http.StatusBadRequest
		body.Message = "wechat login failed: " + apiErr.Message
	default:
		body.Message = "internal server error"
		for _, rule := range errorRules {
			if errors.Is(err, rule.target) {
				status, body.Message = rule.status, rule.message
				break
			}
		}
	}

	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", status),
			zap.Error(err))
	}
	if !h.production {
		body.Detail = err.Error()
	}
	c.AbortWithStatusJSON(status, body)
}

// bind decodes the JSON body into dst and turns binding failures into a
// ValidationError keyed by JSON field names.
func bind(c *gin.Context, dst interface{}) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return bindingError(err)
	}
	return nil
}

func bindingError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return domain.Invalid("", "malformed request body")
	}
	fields := make([]domain.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, domain.FieldError{Field: fe.Field(), Message: fieldMessage(fe)})
	}
	return &domain.ValidationError{Fields: fields}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " required"
	case "min", "gte":
		return fe.Field() + " must be at least " + fe.Param()
	case "max", "lte":
		return fe.Field() + " must be at most " + fe.Param()
	case "oneof":
		return fe.Field() + " must be one of " + fe.Param()
	case "cnmobile":
		return "invalid mobile number"
	}
	return fe.Field() + " is invalid"
}

var (
	validatorsOnce sync.Once
	validatorsErr  error
)

// registerValidators makes binding errors report JSON names and adds the
// cnmobile rule for mainland mobile numbers. The gin validator is process
// wide, so this runs once.
func registerValidators() error {
	validatorsOnce.Do(func() {
		validatorsErr = setupValidator()
	})
	return validatorsErr
}

func setupValidator() error {
	v, isValidator := binding.Validator.Engine().(*validator.Validate)
	if !isValidator {
		return nil
	}
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	if err := v.RegisterValidation("cnmobile", func(fl validator.FieldLevel) bool {
		return domain.MobilePattern.MatchString(fl.Field().String())
	}); err != nil {
		return fmt.Errorf("register cnmobile: %w", err)
	}
	return nil
}
