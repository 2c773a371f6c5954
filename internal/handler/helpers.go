package handler

import (
	"errors"
	"net/http"
	"reflect"
	"strconv"

	"retailing/internal/apierror"
	"retailing/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0 and gt=0 work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails -
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid JSON: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
			return false
		}
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// bindQuery binds and validates query parameters.
func bindQuery(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return false
	}
	return true
}

// parseID reads a positive integer path parameter.
func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, apierror.New("invalid "+name))
		return 0, false
	}
	return uint(id), true
}

// errorStatus maps a service error kind onto an HTTP status and stable code.
var errorStatus = []struct {
	kind   error
	status int
	code   string
}{
	{service.ErrInvalidCredentials, http.StatusUnauthorized, "invalid_credentials"},
	{service.ErrUnauthorized, http.StatusForbidden, "unauthorized"},
	{service.ErrInvalidOperationForSupplierType, http.StatusForbidden, "invalid_operation_for_supplier_type"},
	{service.ErrSelfTradeForbidden, http.StatusUnprocessableEntity, "self_trade_forbidden"},
	{service.ErrInsufficientStock, http.StatusUnprocessableEntity, "insufficient_stock"},
	{service.ErrInvalidInput, http.StatusBadRequest, "invalid_input"},
	{service.ErrOperationNotPermitted, http.StatusMethodNotAllowed, "operation_not_permitted"},
	{service.ErrAlreadyRegistered, http.StatusConflict, "already_registered"},
	{service.ErrNotFound, http.StatusNotFound, "not_found"},
	{service.ErrInUse, http.StatusConflict, "in_use"},
	{service.ErrConflict, http.StatusConflict, "conflict"},
}

// respondError writes the envelope for err. Unknown and internal errors are
// attached to the context for ErrorHandler to log and answered with a
// generic 500.
func respondError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrInternal) {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, apierror.WithCode("internal", "internal server error"))
		return
	}
	for _, e := range errorStatus {
		if errors.Is(err, e.kind) {
			c.JSON(e.status, apierror.WithCode(e.code, err.Error()))
			return
		}
	}
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, apierror.WithCode("internal", "internal server error"))
}

// NotPermitted answers write verbs on read-only resources.
func NotPermitted(c *gin.Context) {
	respondError(c, service.ErrOperationNotPermitted)
}
