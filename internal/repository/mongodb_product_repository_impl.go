package repository

import (
	"context"
	"errors"

	"github.com/alimikegami/point-of-sales/storefront-service/internal/domain"
	"github.com/alimikegami/point-of-sales/storefront-service/pkg/errs"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const productCollection = "products"

type MongoDBProductRepositoryImpl struct {
	db *mongo.Database
}

func CreateNewMongoDBProductRepository(db *mongo.Database) ProductRepository {
	return &MongoDBProductRepositoryImpl{db: db}
}

func (r *MongoDBProductRepositoryImpl) AddProduct(ctx context.Context, data domain.Product) (product domain.Product, err error) {
	if err = data.Validate(); err != nil {
		return
	}

	data.ID = primitive.NewObjectID()

	_, err = r.db.Collection(productCollection).InsertOne(ctx, data)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "AddProduct").Msg("")
		return
	}

	return data, nil
}

func (r *MongoDBProductRepositoryImpl) GetProducts(ctx context.Context) (data []domain.Product, err error) {
	cursor, err := r.db.Collection(productCollection).Find(ctx, bson.D{})
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "GetProducts").Msg("")
		return
	}

	defer cursor.Close(ctx)

	data = make([]domain.Product, 0)
	if err = cursor.All(ctx, &data); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "GetProducts").Msg("")
		return nil, err
	}

	return data, nil
}

func (r *MongoDBProductRepositoryImpl) DeleteProduct(ctx context.Context, id string) (product domain.Product, err error) {
	productID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("component", "DeleteProduct").Str("id", id).Msg("malformed product id")
		return product, errs.ErrProductNotFound
	}

	filter := bson.D{{Key: "_id", Value: productID}}

	err = r.db.Collection(productCollection).FindOneAndDelete(ctx, filter).Decode(&product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return product, errs.ErrProductNotFound
		}

		log.Ctx(ctx).Error().Err(err).Str("component", "DeleteProduct").Msg("")
		return product, err
	}

	return product, nil
}
