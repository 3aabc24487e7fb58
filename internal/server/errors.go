package server

import (
	"errors"
	"net/http"

	clientdomain "github.com/JohnAlex1900/Smart-Invoice/internal/client/domain"
	dashboarddomain "github.com/JohnAlex1900/Smart-Invoice/internal/dashboard/domain"
	invoicedomain "github.com/JohnAlex1900/Smart-Invoice/internal/invoice/domain"
	"github.com/JohnAlex1900/Smart-Invoice/internal/money"
	userdomain "github.com/JohnAlex1900/Smart-Invoice/internal/user/domain"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type errorPayload struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrUnauthorized   = errors.New("unauthorized")
	ErrInvalidRequest = errors.New("invalid_request")
)

// validationErrs are rejected inputs. Unknown client references count as
// validation failures, not lookups, per the create contract.
var validationErrs = []error{
	ErrInvalidRequest,
	userdomain.ErrInvalidEmail,
	userdomain.ErrInvalidBusiness,
	userdomain.ErrInvalidContact,
	userdomain.ErrInvalidCurrency,
	userdomain.ErrInvalidTaxRate,
	userdomain.ErrInvalidExternalID,
	userdomain.ErrInvalidPaymentTerm,
	userdomain.ErrEmailTaken,
	userdomain.ErrExternalIDTaken,
	clientdomain.ErrInvalidName,
	clientdomain.ErrInvalidEmail,
	invoicedomain.ErrClientNotFound,
	invoicedomain.ErrEmptyItems,
	invoicedomain.ErrInvalidDescription,
	invoicedomain.ErrInvalidQuantity,
	invoicedomain.ErrInvalidRate,
	invoicedomain.ErrInvalidTaxRate,
	invoicedomain.ErrInvalidCurrency,
	invoicedomain.ErrInvalidNumber,
	invoicedomain.ErrInvalidDate,
	invoicedomain.ErrInvalidStatus,
	invoicedomain.ErrInvalidLimit,
	money.ErrInvalid,
	money.ErrTooPrecise,
	money.ErrNegative,
}

// notFoundErrs cover absent records and cross-tenant access alike, so
// existence never leaks across tenants.
var notFoundErrs = []error{
	userdomain.ErrNotFound,
	clientdomain.ErrNotFound,
	invoicedomain.ErrNotFound,
}

// unauthorizedErrs surface when no resolved tenant reached the service.
var unauthorizedErrs = []error{
	ErrUnauthorized,
	clientdomain.ErrInvalidTenant,
	invoicedomain.ErrInvalidTenant,
	dashboarddomain.ErrInvalidTenant,
}

// ErrorHandlingMiddleware maps errors collected during the request to a
// JSON payload once the handler chain finishes.
func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		if status == http.StatusInternalServerError {
			zap.L().Error("request failed", zap.Error(lastErr.Err))
		}
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func mapError(err error) (int, errorPayload) {
	switch {
	case matchesAny(err, unauthorizedErrs):
		return http.StatusUnauthorized, errorPayload{
			Type:    "unauthorized",
			Message: "unauthorized",
		}
	case matchesAny(err, validationErrs):
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: err.Error(),
		}
	case matchesAny(err, notFoundErrs):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: err.Error(),
		}
	case errors.Is(err, invoicedomain.ErrConflict):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: err.Error(),
		}
	default:
		// Storage failures stay opaque to the caller.
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func matchesAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
