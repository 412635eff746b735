package errs

import (
	"errors"
	"net/http"
)

const (
	ErrStatusInternalServer  = http.StatusInternalServerError
	ErrStatusClient          = http.StatusBadRequest
	ErrStatusNotFound        = http.StatusNotFound
	ErrStatusEntityTooLarge  = http.StatusRequestEntityTooLarge
	ErrStatusTooManyFiles    = http.StatusBadRequest
	ErrStatusUnexpectedField = http.StatusBadRequest
)

var (
	ErrInternalServer   = errors.New("Internal server error")
	ErrClient           = errors.New("Bad request")
	ErrNotFound         = errors.New("Resource not found")
	ErrProductNotFound  = errors.New("Product not found")
	ErrBannerNotFound   = errors.New("Banner not found")
	ErrBlobNotFound     = errors.New("File not found")
	ErrTooManyFiles     = errors.New("Too many files")
	ErrUnexpectedField  = errors.New("Unexpected field")
	ErrFileSizeExceeded = errors.New("Request body too large")
)

var errorMap = map[error]int{
	ErrInternalServer:   ErrStatusInternalServer,
	ErrClient:           ErrStatusClient,
	ErrNotFound:         ErrStatusNotFound,
	ErrProductNotFound:  ErrStatusNotFound,
	ErrBannerNotFound:   ErrStatusNotFound,
	ErrBlobNotFound:     ErrStatusNotFound,
	ErrTooManyFiles:     ErrStatusTooManyFiles,
	ErrUnexpectedField:  ErrStatusUnexpectedField,
	ErrFileSizeExceeded: ErrStatusEntityTooLarge,
}

// ValidationError carries the reason a record was rejected before persistence.
// It is reported to clients verbatim with a 400.
type ValidationError struct {
	Reason string
}

func NewValidationError(reason string) *ValidationError {
	return &ValidationError{Reason: reason}
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func (e *ValidationError) Unwrap() error {
	return ErrClient
}

// GetErrorStatusCode resolves wrapped errors too. Driver errors such as
// mongo.WriteException are not hashable, so the map is only ranged over.
func GetErrorStatusCode(err error) int {
	for target, errStatusCode := range errorMap {
		if errors.Is(err, target) {
			return errStatusCode
		}
	}

	return errorMap[ErrInternalServer]
}

// PublicMessage hides the details of server-side failures.
func PublicMessage(err error) string {
	if GetErrorStatusCode(err) >= http.StatusInternalServerError {
		return ErrInternalServer.Error()
	}

	return err.Error()
}
