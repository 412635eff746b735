package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/alimikegami/point-of-sales/storefront-service/internal/domain"
	"github.com/alimikegami/point-of-sales/storefront-service/internal/dto"
	"github.com/alimikegami/point-of-sales/storefront-service/pkg/errs"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/mock"
)

type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) AddProduct(ctx context.Context, data domain.Product) (domain.Product, error) {
	args := m.Called(ctx, data)
	return args.Get(0).(domain.Product), args.Error(1)
}

func (m *MockProductRepository) GetProducts(ctx context.Context) ([]domain.Product, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *MockProductRepository) DeleteProduct(ctx context.Context, id string) (domain.Product, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Product), args.Error(1)
}

type MockBannerRepository struct {
	mock.Mock
}

func (m *MockBannerRepository) AddBanner(ctx context.Context, data domain.Banner) (domain.Banner, error) {
	args := m.Called(ctx, data)
	return args.Get(0).(domain.Banner), args.Error(1)
}

func (m *MockBannerRepository) GetBanners(ctx context.Context) ([]domain.Banner, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Banner), args.Error(1)
}

func (m *MockBannerRepository) DeleteBanner(ctx context.Context, id string) (domain.Banner, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Banner), args.Error(1)
}

// memoryBlobStore keeps blobs in a map and can be told to fail.
type memoryBlobStore struct {
	mu          sync.Mutex
	blobs       map[string][]byte
	next        int
	failStoreAt int
	failDelete  bool
	deleted     []string
}

func newMemoryBlobStore() *memoryBlobStore {
	return &memoryBlobStore{blobs: map[string][]byte{}, failStoreAt: -1}
}

func (s *memoryBlobStore) Store(ctx context.Context, r io.Reader, originalName string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failStoreAt == s.next {
		return "", errors.New("disk full")
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}

	s.next++
	key := fmt.Sprintf("key%d-%s", s.next, originalName)
	s.blobs[key] = data
	return key, nil
}

func (s *memoryBlobStore) Open(ctx context.Context, key string) (io.ReadSeekCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, ok := s.blobs[key]
	if !ok {
		return nil, errs.ErrBlobNotFound
	}

	return nopSeekCloser{bytes.NewReader(data)}, nil
}

func (s *memoryBlobStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.deleted = append(s.deleted, key)
	if s.failDelete {
		return errors.New("permission denied")
	}

	delete(s.blobs, key)
	return nil
}

func (s *memoryBlobStore) keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys := make([]string, 0, len(s.blobs))
	for key := range s.blobs {
		keys = append(keys, key)
	}
	return keys
}

type nopSeekCloser struct {
	*bytes.Reader
}

func (nopSeekCloser) Close() error { return nil }

type recordingWriter struct {
	mu       sync.Mutex
	failures int
	attempts int
	messages []kafka.Message
}

func (w *recordingWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.attempts++
	if w.failures > 0 {
		w.failures--
		return errors.New("leader not available")
	}

	w.messages = append(w.messages, msgs...)
	return nil
}

func imageFile(name string, content string) dto.ImageFile {
	return dto.ImageFile{
		Filename: name,
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewBufferString(content)), nil
		},
	}
}

// stalledWriter never succeeds and only returns once its context is done.
type stalledWriter struct {
	mu          sync.Mutex
	attempts    int
	hadDeadline bool
}

func (w *stalledWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	_, ok := ctx.Deadline()

	w.mu.Lock()
	w.attempts++
	w.hadDeadline = ok
	w.mu.Unlock()

	<-ctx.Done()
	return ctx.Err()
}

// cancellingImageFile cancels the request context when it is opened, as a
// client disconnect during the upload would.
func cancellingImageFile(name string, content string, cancel context.CancelFunc) dto.ImageFile {
	return dto.ImageFile{
		Filename: name,
		Open: func() (io.ReadCloser, error) {
			cancel()
			return io.NopCloser(bytes.NewBufferString(content)), nil
		},
	}
}

func liveContext() interface{} {
	return mock.MatchedBy(func(ctx context.Context) bool {
		return ctx.Err() == nil
	})
}
