package service

import (
	"context"
	"math"
	"strconv"
	"strings"

	"github.com/alimikegami/point-of-sales/storefront-service/internal/domain"
	"github.com/alimikegami/point-of-sales/storefront-service/internal/dto"
	"github.com/alimikegami/point-of-sales/storefront-service/internal/repository"
	"github.com/alimikegami/point-of-sales/storefront-service/pkg/errs"
)

type ProductServiceImpl struct {
	repo   repository.ProductRepository
	upload uploadTransaction
}

func CreateProductService(repo repository.ProductRepository, blobStore repository.BlobStore, opts UploadOptions) ProductService {
	return &ProductServiceImpl{
		repo:   repo,
		upload: newUploadTransaction("product", blobStore, opts),
	}
}

// AddProduct runs detached from the caller's cancellation: once storing has
// started, a client disconnect does not abort the blob writes or the insert.
func (s *ProductServiceImpl) AddProduct(ctx context.Context, data dto.ProductRequest, images []dto.ImageFile) (product domain.Product, err error) {
	ctx = context.WithoutCancel(ctx)

	keys, err := s.upload.storeImages(ctx, images)
	if err != nil {
		return
	}

	price, err := parsePrice(data.Price)
	if err != nil {
		s.upload.discardImages(ctx, keys)
		return
	}

	product, err = s.repo.AddProduct(ctx, domain.Product{
		Name:   data.Name,
		Price:  price,
		Desc:   data.Desc,
		Images: keys,
	})
	if err != nil {
		s.upload.discardImages(ctx, keys)
		return
	}

	s.upload.publishEvent(ctx, dto.EventProductCreated, product.ID.Hex(), product)

	return product, nil
}

func (s *ProductServiceImpl) GetProducts(ctx context.Context) ([]domain.Product, error) {
	return s.repo.GetProducts(ctx)
}

func (s *ProductServiceImpl) DeleteProduct(ctx context.Context, id string) error {
	product, err := s.repo.DeleteProduct(ctx, id)
	if err != nil {
		return err
	}

	ctx = context.WithoutCancel(ctx)
	s.upload.removeImages(ctx, product.Images)
	s.upload.publishEvent(ctx, dto.EventProductDeleted, product.ID.Hex(), product)

	return nil
}

// parsePrice leaves an absent price unset so that record validation reports it.
func parsePrice(raw string) (*float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	price, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(price) || math.IsInf(price, 0) {
		return nil, errs.NewValidationError("Price must be a valid number")
	}

	return &price, nil
}
