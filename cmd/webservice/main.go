package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/alimikegami/point-of-sales/storefront-service/config"
	"github.com/alimikegami/point-of-sales/storefront-service/internal/app"
	"github.com/alimikegami/point-of-sales/storefront-service/internal/infrastructure/database/mongodb"
	"github.com/alimikegami/point-of-sales/storefront-service/internal/infrastructure/message-queue/kafka"
	"github.com/alimikegami/point-of-sales/storefront-service/internal/infrastructure/tracing"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func setupLogger(conf config.LogConfig) {
	level, err := zerolog.ParseLevel(conf.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if conf.Format == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
		return
	}

	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}

func main() {
	config := config.CreateNewConfig()
	setupLogger(config.LogConfig)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := mongodb.Connect(ctx, config.MongoDBConfig.MongoDBURI(), config.MongoDBConfig.DBName)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to the database")
	}

	defer func() {
		if err := mongodb.Disconnect(context.Background(), db); err != nil {
			log.Error().Err(err).Msg("Failed to disconnect from the database")
		}
	}()

	if config.TracingConfig.CollectorHost != "" {
		traceProvider, err := tracing.InitTracing(ctx, config.TracingConfig)
		if err != nil {
			log.Error().Err(err).Msg("Failed to initialize tracing")
		} else {
			defer func() {
				if err := traceProvider.Shutdown(context.Background()); err != nil {
					log.Error().Err(err).Msg("Failed to shutdown tracing")
				}
			}()
		}
	}

	kafkaWriter := kafka.CreateKafkaWriter(config)
	if kafkaWriter != nil {
		defer func() {
			if err := kafkaWriter.Close(); err != nil {
				log.Error().Err(err).Msg("Failed to close kafka writer")
			}
		}()
	}

	server := app.App{
		DB:          db,
		Config:      config,
		KafkaWriter: kafkaWriter,
	}

	if err := server.Setup(); err != nil {
		log.Fatal().Err(err).Msg("Failed to set up server")
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	log.Info().Str("port", config.ServicePort).Str("upload_dir", config.UploadConfig.Directory).Msg("Server started")

	select {
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("Server stopped")
		}
	case <-ctx.Done():
		log.Info().Msg("Shutting down")
	}

	if err := server.StopServer(); err != nil {
		log.Error().Err(err).Msg("Failed to shutdown server")
	}
}
