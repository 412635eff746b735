package response

import (
	"errors"
	"net/http"

	"github.com/alimikegami/point-of-sales/storefront-service/pkg/errs"
	"github.com/labstack/echo/v4"
)

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func WriteSuccessResponse(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, data)
}

func WriteMessageResponse(c echo.Context, message string) error {
	return c.JSON(http.StatusOK, MessageResponse{Message: message})
}

// WriteCreatedResponse renders {"message": ..., "<resource>": data} with a 201.
func WriteCreatedResponse(c echo.Context, message string, resource string, data interface{}) error {
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": message,
		resource:  data,
	})
}

func WriteErrorResponse(c echo.Context, err error) error {
	statusCode := errs.GetErrorStatusCode(err)

	return c.JSON(statusCode, ErrorResponse{Error: errs.PublicMessage(err)})
}

// HTTPErrorHandler renders errors raised outside the handlers (unknown routes,
// body limit, panics) with the same {error} body the handlers use.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var httpErr *echo.HTTPError
	if !errors.As(err, &httpErr) {
		_ = WriteErrorResponse(c, err)
		return
	}

	message := http.StatusText(httpErr.Code)
	switch httpErr.Code {
	case http.StatusNotFound:
		message = errs.ErrNotFound.Error()
	case http.StatusRequestEntityTooLarge:
		message = errs.ErrFileSizeExceeded.Error()
	}

	if httpErr.Code >= http.StatusInternalServerError {
		message = errs.ErrInternalServer.Error()
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(httpErr.Code)
		return
	}

	_ = c.JSON(httpErr.Code, ErrorResponse{Error: message})
}
