package service

import (
	"context"

	"github.com/alimikegami/point-of-sales/storefront-service/internal/domain"
	"github.com/alimikegami/point-of-sales/storefront-service/internal/dto"
	"github.com/alimikegami/point-of-sales/storefront-service/internal/repository"
)

type BannerServiceImpl struct {
	repo   repository.BannerRepository
	upload uploadTransaction
}

func CreateBannerService(repo repository.BannerRepository, blobStore repository.BlobStore, opts UploadOptions) BannerService {
	return &BannerServiceImpl{
		repo:   repo,
		upload: newUploadTransaction("banner", blobStore, opts),
	}
}

func (s *BannerServiceImpl) AddBanner(ctx context.Context, images []dto.ImageFile) (banner domain.Banner, err error) {
	ctx = context.WithoutCancel(ctx)

	keys, err := s.upload.storeImages(ctx, images)
	if err != nil {
		return
	}

	banner, err = s.repo.AddBanner(ctx, domain.Banner{Images: keys})
	if err != nil {
		s.upload.discardImages(ctx, keys)
		return
	}

	s.upload.publishEvent(ctx, dto.EventBannerCreated, banner.ID.Hex(), banner)

	return banner, nil
}

func (s *BannerServiceImpl) GetBanners(ctx context.Context) ([]domain.Banner, error) {
	return s.repo.GetBanners(ctx)
}

func (s *BannerServiceImpl) DeleteBanner(ctx context.Context, id string) error {
	banner, err := s.repo.DeleteBanner(ctx, id)
	if err != nil {
		return err
	}

	ctx = context.WithoutCancel(ctx)
	s.upload.removeImages(ctx, banner.Images)
	s.upload.publishEvent(ctx, dto.EventBannerDeleted, banner.ID.Hex(), banner)

	return nil
}
