package middleware

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/alimikegami/point-of-sales/storefront-service/pkg/errs"
	"github.com/alimikegami/point-of-sales/storefront-service/pkg/response"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// MultipartFiles rejects multipart requests carrying more than limit files under
// field, or any file under another field, before the handler runs. Requests
// that are not multipart are passed through untouched.
func MultipartFiles(field string, limit int) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			form, err := c.MultipartForm()
			if err != nil {
				if errors.Is(err, http.ErrNotMultipart) {
					return next(c)
				}

				log.Ctx(c.Request().Context()).Warn().Err(err).Str("component", "MultipartFiles").Msg("")
				return response.WriteErrorResponse(c, multipartError(err))
			}

			for name, files := range form.File {
				if name != field && len(files) > 0 {
					return response.WriteErrorResponse(c, errs.ErrUnexpectedField)
				}
			}

			if len(form.File[field]) > limit {
				return response.WriteErrorResponse(c, errs.ErrTooManyFiles)
			}

			return next(c)
		}
	}
}

func multipartError(err error) error {
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) && httpErr.Code == http.StatusRequestEntityTooLarge {
		return errs.ErrFileSizeExceeded
	}

	if errors.Is(err, multipart.ErrMessageTooLarge) {
		return errs.ErrFileSizeExceeded
	}

	return errs.ErrClient
}
