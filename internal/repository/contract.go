package repository

import (
	"context"
	"io"

	"github.com/alimikegami/point-of-sales/storefront-service/internal/domain"
)

type ProductRepository interface {
	AddProduct(ctx context.Context, data domain.Product) (product domain.Product, err error)
	GetProducts(ctx context.Context) (data []domain.Product, err error)
	DeleteProduct(ctx context.Context, id string) (product domain.Product, err error)
}

type BannerRepository interface {
	AddBanner(ctx context.Context, data domain.Banner) (banner domain.Banner, err error)
	GetBanners(ctx context.Context) (data []domain.Banner, err error)
	DeleteBanner(ctx context.Context, id string) (banner domain.Banner, err error)
}

// BlobStore keeps uploaded image bytes under generated keys.
type BlobStore interface {
	// Store writes r under a new key derived from originalName's extension.
	Store(ctx context.Context, r io.Reader, originalName string) (key string, err error)
	// Open returns errs.ErrBlobNotFound for unknown or malformed keys.
	Open(ctx context.Context, key string) (io.ReadSeekCloser, error)
	// Delete removes the blob. A missing blob is not an error.
	Delete(ctx context.Context, key string) error
}
