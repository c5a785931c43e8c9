package catalogerrors

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/elkisser/the-cookie-box/internal/pkg/apperror"
)

var (
	ErrProductNotFound = apperror.New(
		apperror.CodeNotFound,
		"Product not found",
		http.StatusNotFound,
	)

	ErrInvalidProductID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid product id",
		http.StatusBadRequest,
	)

	ErrInvalidPrice = apperror.New(
		apperror.CodeInvalidInput,
		"Price must be zero or positive",
		http.StatusBadRequest,
	)

	ErrInvalidInput = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid product payload",
		http.StatusBadRequest,
	)

	ErrImageUploadFailed = apperror.New(
		apperror.CodeInternalError,
		"Image upload failed",
		http.StatusBadGateway,
	)
)

// MapValidationError collapses validator output into the generic
// invalid-payload error; field detail stays in logs, not responses.
func MapValidationError(err error) error {
	if _, ok := err.(validator.ValidationErrors); ok {
		return ErrInvalidInput
	}
	return err
}
