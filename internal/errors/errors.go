package errors

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
)

var (
	// ErrEmailTaken is returned when signing up with an already registered email.
	ErrEmailTaken = errors.New("email already in use")
	// ErrInvalidCredentials is returned when email or password is incorrect.
	// The same error covers unknown email and wrong password so that login
	// responses cannot be used to enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken is returned when a bearer token fails verification.
	ErrInvalidToken = errors.New("invalid or expired token")
	// ErrFavoriteNotFound is returned when a favorite does not exist or is
	// owned by a different user. The two cases are deliberately
	// indistinguishable.
	ErrFavoriteNotFound = errors.New("favorite not found")
	// ErrNoUpdateFields is returned when an update supplies no fields.
	ErrNoUpdateFields = errors.New("at least one field must be provided")
)

// ValidationError carries per-field validation failures.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return "validation failed"
}

// NewValidation builds a ValidationError from a field->message map.
func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Fields: fields}
}

// ErrorResponse is the JSON body returned for every failed request.
type ErrorResponse struct {
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// ToResponse maps a domain error to an HTTP status and response body.
// Unrecognized errors map to a generic 500 so internals never leak.
func ToResponse(err error) (int, ErrorResponse) {
	var ve *ValidationError
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest, ErrorResponse{Message: ve.Error(), Errors: ve.Fields}
	case errors.Is(err, ErrNoUpdateFields):
		return http.StatusBadRequest, ErrorResponse{Message: err.Error()}
	case errors.Is(err, ErrInvalidCredentials), errors.Is(err, ErrInvalidToken):
		return http.StatusUnauthorized, ErrorResponse{Message: err.Error()}
	case errors.Is(err, ErrFavoriteNotFound):
		return http.StatusNotFound, ErrorResponse{Message: err.Error()}
	case errors.Is(err, ErrEmailTaken):
		return http.StatusConflict, ErrorResponse{Message: err.Error()}
	default:
		return http.StatusInternalServerError, ErrorResponse{Message: "internal server error"}
	}
}

// FromValidator converts validator.v10 errors to a ValidationError with one
// message per failed field. Other errors pass through unchanged.
func FromValidator(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = messageForTag(fe)
	}
	return NewValidation(fields)
}

func messageForTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of: " + fe.Param()
	default:
		return "is invalid"
	}
}
