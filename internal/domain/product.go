package domain

import (
	"github.com/alimikegami/point-of-sales/storefront-service/pkg/errs"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	MaxProductImages = 5

	productRequirement = "Name, price, description, and at least one image are required"
)

type Product struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name   string             `bson:"name" json:"name"`
	Price  *float64           `bson:"price" json:"price"`
	Desc   string             `bson:"desc" json:"desc"`
	Images []string           `bson:"images" json:"images"`
}

func (p Product) Validate() error {
	if p.Name == "" || p.Price == nil || p.Desc == "" || !hasImages(p.Images) {
		return errs.NewValidationError(productRequirement)
	}

	return nil
}

func hasImages(images []string) bool {
	if len(images) == 0 {
		return false
	}

	for _, image := range images {
		if image == "" {
			return false
		}
	}

	return true
}
