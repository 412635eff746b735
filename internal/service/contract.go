package service

import (
	"context"

	"github.com/alimikegami/point-of-sales/storefront-service/internal/domain"
	"github.com/alimikegami/point-of-sales/storefront-service/internal/dto"
)

type ProductService interface {
	AddProduct(ctx context.Context, data dto.ProductRequest, images []dto.ImageFile) (domain.Product, error)
	GetProducts(ctx context.Context) ([]domain.Product, error)
	DeleteProduct(ctx context.Context, id string) error
}

type BannerService interface {
	AddBanner(ctx context.Context, images []dto.ImageFile) (domain.Banner, error)
	GetBanners(ctx context.Context) ([]domain.Banner, error)
	DeleteBanner(ctx context.Context, id string) error
}
