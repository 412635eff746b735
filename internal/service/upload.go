package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/alimikegami/point-of-sales/storefront-service/internal/dto"
	"github.com/alimikegami/point-of-sales/storefront-service/internal/infrastructure/metrics"
	"github.com/alimikegami/point-of-sales/storefront-service/internal/repository"
	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
)

const (
	maxPublishRetries     = 3
	defaultPublishTimeout = 10 * time.Second
)

// MessageWriter is satisfied by *kafka.Writer.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

type UploadOptions struct {
	CleanupOrphanedBlobs bool
	Writer               MessageWriter
	NewBackOff           func() backoff.BackOff
	// PublishTimeout bounds every attempt and retry of a single event.
	PublishTimeout       time.Duration
}

func defaultBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 200 * time.Millisecond
	b.MaxElapsedTime = 5 * time.Second
	return b
}

// uploadTransaction holds the blob handling shared by the product and banner
// create/delete flows.
type uploadTransaction struct {
	resource       string
	blobStore      repository.BlobStore
	cleanup        bool
	writer         MessageWriter
	newBackOff     func() backoff.BackOff
	publishTimeout time.Duration
}

func newUploadTransaction(resource string, blobStore repository.BlobStore, opts UploadOptions) uploadTransaction {
	newBackOff := opts.NewBackOff
	if newBackOff == nil {
		newBackOff = defaultBackOff
	}

	publishTimeout := opts.PublishTimeout
	if publishTimeout <= 0 {
		publishTimeout = defaultPublishTimeout
	}

	return uploadTransaction{
		resource:       resource,
		blobStore:      blobStore,
		cleanup:        opts.CleanupOrphanedBlobs,
		writer:         opts.Writer,
		newBackOff:     newBackOff,
		publishTimeout: publishTimeout,
	}
}

// storeImages writes every file in arrival order and returns the keys in the
// same order. The first failure aborts the remaining files.
func (t uploadTransaction) storeImages(ctx context.Context, images []dto.ImageFile) ([]string, error) {
	keys := make([]string, 0, len(images))
	for _, image := range images {
		key, err := t.storeImage(ctx, image)
		if err != nil {
			log.Ctx(ctx).Error().Err(err).Str("component", "StoreImages").Str("filename", image.Filename).Msg("")
			t.discardImages(ctx, keys)
			return nil, err
		}

		metrics.StoredBlobs.WithLabelValues(t.resource).Inc()
		keys = append(keys, key)
	}

	return keys, nil
}

func (t uploadTransaction) storeImage(ctx context.Context, image dto.ImageFile) (string, error) {
	src, err := image.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	return t.blobStore.Store(ctx, src, image.Filename)
}

// discardImages handles blobs stored for a request whose record was never
// persisted.
func (t uploadTransaction) discardImages(ctx context.Context, keys []string) {
	if len(keys) == 0 {
		return
	}

	if !t.cleanup {
		metrics.OrphanedBlobs.WithLabelValues(t.resource).Add(float64(len(keys)))
		log.Ctx(ctx).Warn().Str("component", "DiscardImages").Strs("keys", keys).Msg("leaving orphaned blobs")
		return
	}

	t.removeImages(ctx, keys)
}

// removeImages is best-effort: failures are logged and counted, never returned.
func (t uploadTransaction) removeImages(ctx context.Context, keys []string) {
	for _, key := range keys {
		if err := t.blobStore.Delete(ctx, key); err != nil {
			metrics.BlobDeleteFailures.WithLabelValues(t.resource).Inc()
			log.Ctx(ctx).Error().Err(err).Str("component", "RemoveImages").Str("key", key).Msg("")
		}
	}
}

func (t uploadTransaction) publishEvent(ctx context.Context, eventType string, key string, data interface{}) {
	if t.writer == nil {
		return
	}

	value, err := json.Marshal(dto.KafkaMessage{EventType: eventType, Data: data})
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "PublishEvent").Msg("")
		return
	}

	ctx, cancel := context.WithTimeout(ctx, t.publishTimeout)
	defer cancel()

	msg := kafka.Message{Key: []byte(key), Value: value}
	operation := func() error {
		return t.writer.WriteMessages(ctx, msg)
	}
	notify := func(err error, wait time.Duration) {
		log.Ctx(ctx).Warn().Err(err).Str("component", "PublishEvent").Str("event_type", eventType).Dur("retry_in", wait).Msg("")
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(t.newBackOff(), maxPublishRetries), ctx)
	if err := backoff.RetryNotify(operation, policy, notify); err != nil {
		metrics.PublishFailures.WithLabelValues(eventType).Inc()
		log.Ctx(ctx).Error().Err(err).Str("component", "PublishEvent").Str("event_type", eventType).Msg("")
	}
}
