package dto

import "io"

// ImageFile is one uploaded file part, opened lazily so that parts are streamed
// to the blob store one at a time.
type ImageFile struct {
	Filename string
	Open     func() (io.ReadCloser, error)
}
