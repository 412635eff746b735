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

const bannerCollection = "banners"

type MongoDBBannerRepositoryImpl struct {
	db *mongo.Database
}

func CreateNewMongoDBBannerRepository(db *mongo.Database) BannerRepository {
	return &MongoDBBannerRepositoryImpl{db: db}
}

func (r *MongoDBBannerRepositoryImpl) AddBanner(ctx context.Context, data domain.Banner) (banner domain.Banner, err error) {
	if err = data.Validate(); err != nil {
		return
	}

	data.ID = primitive.NewObjectID()

	_, err = r.db.Collection(bannerCollection).InsertOne(ctx, data)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "AddBanner").Msg("")
		return
	}

	return data, nil
}

func (r *MongoDBBannerRepositoryImpl) GetBanners(ctx context.Context) (data []domain.Banner, err error) {
	cursor, err := r.db.Collection(bannerCollection).Find(ctx, bson.D{})
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "GetBanners").Msg("")
		return
	}

	defer cursor.Close(ctx)

	data = make([]domain.Banner, 0)
	if err = cursor.All(ctx, &data); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "GetBanners").Msg("")
		return nil, err
	}

	return data, nil
}

func (r *MongoDBBannerRepositoryImpl) DeleteBanner(ctx context.Context, id string) (banner domain.Banner, err error) {
	bannerID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("component", "DeleteBanner").Str("id", id).Msg("malformed banner id")
		return banner, errs.ErrBannerNotFound
	}

	filter := bson.D{{Key: "_id", Value: bannerID}}

	err = r.db.Collection(bannerCollection).FindOneAndDelete(ctx, filter).Decode(&banner)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return banner, errs.ErrBannerNotFound
		}

		log.Ctx(ctx).Error().Err(err).Str("component", "DeleteBanner").Msg("")
		return banner, err
	}

	return banner, nil
}
