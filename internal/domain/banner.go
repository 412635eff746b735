package domain

import (
	"github.com/alimikegami/point-of-sales/storefront-service/pkg/errs"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	MaxBannerImages = 10

	bannerRequirement = "At least one image is required"
)

type Banner struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Images []string           `bson:"images" json:"images"`
}

func (b Banner) Validate() error {
	if !hasImages(b.Images) {
		return errs.NewValidationError(bannerRequirement)
	}

	return nil
}
