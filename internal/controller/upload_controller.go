package controller

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/alimikegami/point-of-sales/storefront-service/internal/dto"
	"github.com/alimikegami/point-of-sales/storefront-service/internal/repository"
	"github.com/alimikegami/point-of-sales/storefront-service/pkg/errs"
	"github.com/alimikegami/point-of-sales/storefront-service/pkg/response"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

const imagesField = "images"

type UploadController struct {
	blobStore repository.BlobStore
}

func CreateUploadController(e *echo.Echo, blobStore repository.BlobStore) {
	c := UploadController{
		blobStore: blobStore,
	}
	e.GET("/uploads/:key", c.GetUpload)
}

// GetUpload serves a stored blob. The content type is derived from the key's
// extension and range requests are honoured.
func (c *UploadController) GetUpload(e echo.Context) error {
	key := e.Param("key")

	blob, err := c.blobStore.Open(e.Request().Context(), key)
	if err != nil {
		if !errors.Is(err, errs.ErrBlobNotFound) {
			log.Ctx(e.Request().Context()).Error().Err(err).Str("component", "GetUpload").Str("key", key).Msg("")
		}
		return response.WriteErrorResponse(e, err)
	}
	defer blob.Close()

	http.ServeContent(e.Response(), e.Request(), key, time.Time{}, blob)

	return nil
}

// imageFiles returns the files submitted under the images field in arrival
// order. A request that is not multipart has none.
func imageFiles(e echo.Context) []dto.ImageFile {
	form, err := e.MultipartForm()
	if err != nil {
		return nil
	}

	headers := form.File[imagesField]
	images := make([]dto.ImageFile, 0, len(headers))
	for _, header := range headers {
		images = append(images, dto.ImageFile{
			Filename: header.Filename,
			Open: func() (io.ReadCloser, error) {
				return header.Open()
			},
		})
	}

	return images
}
