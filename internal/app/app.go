package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/alimikegami/point-of-sales/storefront-service/config"
	"github.com/alimikegami/point-of-sales/storefront-service/internal/controller"
	"github.com/alimikegami/point-of-sales/storefront-service/internal/infrastructure/tracing"
	appmiddleware "github.com/alimikegami/point-of-sales/storefront-service/internal/middleware"
	"github.com/alimikegami/point-of-sales/storefront-service/internal/repository"
	"github.com/alimikegami/point-of-sales/storefront-service/internal/service"
	"github.com/alimikegami/point-of-sales/storefront-service/pkg/response"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/otel"
)

const (
	shutdownTimeout      = 10 * time.Second
	httpMetricsSubsystem = "storefront"
)

// App wires the HTTP surface. Repositories, the blob store and the metrics
// registerer default to their production implementations when left nil.
type App struct {
	DB          *mongo.Database
	Config      *config.Config
	Server      *echo.Echo
	BlobStore   repository.BlobStore
	ProductRepo repository.ProductRepository
	BannerRepo  repository.BannerRepository
	KafkaWriter *kafka.Writer
	Registerer  prometheus.Registerer

	metricsServer *echo.Echo
}

func (app *App) Setup() error {
	if app.BlobStore == nil {
		blobStore, err := repository.CreateNewFileSystemBlobStore(app.Config.UploadConfig.Directory, repository.ULIDKeyGenerator)
		if err != nil {
			return fmt.Errorf("creating upload directory: %w", err)
		}
		app.BlobStore = blobStore
	}

	if app.ProductRepo == nil {
		app.ProductRepo = repository.CreateNewMongoDBProductRepository(app.DB)
	}

	if app.BannerRepo == nil {
		app.BannerRepo = repository.CreateNewMongoDBBannerRepository(app.DB)
	}

	if app.Registerer == nil {
		app.Registerer = prometheus.DefaultRegisterer
	}

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = response.HTTPErrorHandler

	e.Use(middleware.Recover())
	e.Use(appmiddleware.Logger)
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		LogMethod:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			log.Ctx(c.Request().Context()).Info().
				Str("method", v.Method).
				Str("URI", v.URI).
				Int("status", v.Status).
				Int64("latency", v.Latency.Microseconds()).
				Str("remote IP", v.RemoteIP).
				Msg("Request")

			return nil
		},
	}))
	e.Use(appmiddleware.Tracing(otel.Tracer(tracing.ServiceName)))
	// HTTP metrics are exported as storefront_requests_total and friends.
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  httpMetricsSubsystem,
		Registerer: app.Registerer,
	}))
	e.Use(middleware.BodyLimit(app.Config.UploadConfig.MaxBodySize))

	opts := service.UploadOptions{
		CleanupOrphanedBlobs: app.Config.UploadConfig.CleanupOrphanedBlobs,
	}
	if app.KafkaWriter != nil {
		opts.Writer = app.KafkaWriter
	}

	productSvc := service.CreateProductService(app.ProductRepo, app.BlobStore, opts)
	bannerSvc := service.CreateBannerService(app.BannerRepo, app.BlobStore, opts)

	g := e.Group("/api")
	controller.CreateProductController(g, productSvc)
	controller.CreateBannerController(g, bannerSvc)
	controller.CreateUploadController(e, app.BlobStore)

	g.GET("/ping", func(c echo.Context) error {
		return response.WriteMessageResponse(c, "Hello, World!")
	})

	app.Server = e

	app.metricsServer = echo.New()
	app.metricsServer.HideBanner = true
	app.metricsServer.GET("/metrics", echoprometheus.NewHandler())

	return nil
}

// Start blocks until the server is shut down.
func (app *App) Start() error {
	if app.Server == nil {
		if err := app.Setup(); err != nil {
			return err
		}
	}

	go func() {
		if err := app.metricsServer.Start(fmt.Sprintf(":%s", app.Config.MetricsPort)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("Failed to start metrics server")
		}
	}()

	if err := app.Server.Start(fmt.Sprintf(":%s", app.Config.ServicePort)); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func (app *App) StopServer() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if app.metricsServer != nil {
		if err := app.metricsServer.Shutdown(ctx); err != nil {
			log.Error().Err(err).Msg("Failed to shutdown metrics server")
		}
	}

	if app.Server == nil {
		return nil
	}

	return app.Server.Shutdown(ctx)
}
