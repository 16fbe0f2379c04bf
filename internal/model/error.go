package model

import "fmt"

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON        = "INVALID_JSON"
	ErrCodeMissingField       = "MISSING_FIELD"
	ErrCodeInvalidParameter   = "INVALID_PARAMETER"
	ErrCodeProductNotFound    = "PRODUCT_NOT_FOUND"
	ErrCodeCartNotFound       = "CART_NOT_FOUND"
	ErrCodeCartItemNotFound   = "CART_ITEM_NOT_FOUND"
	ErrCodeInvalidQuantity    = "INVALID_QUANTITY"
	ErrCodeInsufficientStock  = "INSUFFICIENT_STOCK"
	ErrCodeUnauthorised       = "UNAUTHORIZED"
	ErrCodeTokenExpired       = "TOKEN_EXPIRED"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	ErrCodeNotImplemented     = "NOT_IMPLEMENTED"
	ErrCodeInternalError      = "INTERNAL_ERROR"
)

// Domain errors for business logic
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// Is matches domain errors by code, so per-call errors such as
// insufficient stock compare equal to their sentinel.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrProductNotFound            = NewDomainError(ErrCodeProductNotFound, "Product not found")
	ErrCartNotFound               = NewDomainError(ErrCodeCartNotFound, "Cart not found")
	ErrCartItemNotFound           = NewDomainError(ErrCodeCartItemNotFound, "Product not found in cart or cart doesn't exist")
	ErrInvalidQuantity            = NewDomainError(ErrCodeInvalidQuantity, "Quantity must be greater than zero")
	ErrInsufficientStock          = NewDomainError(ErrCodeInsufficientStock, "Insufficient stock")
	ErrTokenExpired               = NewDomainError(ErrCodeTokenExpired, "Token has expired")
	ErrTokenInvalid               = NewDomainError(ErrCodeUnauthorised, "Could not validate credentials")
	ErrInvalidCredentials         = NewDomainError(ErrCodeInvalidCredentials, "Invalid username or password")
	ErrProductServiceUnavailable  = NewDomainError(ErrCodeServiceUnavailable, "Product service unavailable")
	ErrCognitoLoginNotImplemented = NewDomainError(ErrCodeNotImplemented, "Cognito authentication flow not implemented in this endpoint. Use Cognito hosted UI or SDK.")
)

// NewProductNotFoundError returns a product-not-found error naming the product.
func NewProductNotFoundError(id string) *DomainError {
	return NewDomainError(ErrCodeProductNotFound, fmt.Sprintf("Product with id %s not found", id))
}

// NewInsufficientStockError reports the available and requested quantities.
func NewInsufficientStockError(available, requested int) *DomainError {
	return NewDomainError(
		ErrCodeInsufficientStock,
		fmt.Sprintf("Insufficient stock. Available: %d, Requested: %d", available, requested),
	)
}
