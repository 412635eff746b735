package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/alimikegami/point-of-sales/storefront-service/config"
	"github.com/alimikegami/point-of-sales/storefront-service/internal/domain"
	"github.com/alimikegami/point-of-sales/storefront-service/internal/repository"
	"github.com/alimikegami/point-of-sales/storefront-service/pkg/errs"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/suite"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type memoryProductRepository struct {
	mu       sync.Mutex
	products []domain.Product
}

func (r *memoryProductRepository) AddProduct(ctx context.Context, data domain.Product) (domain.Product, error) {
	if err := data.Validate(); err != nil {
		return domain.Product{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	data.ID = primitive.NewObjectID()
	r.products = append(r.products, data)
	return data, nil
}

func (r *memoryProductRepository) GetProducts(ctx context.Context) ([]domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append(make([]domain.Product, 0, len(r.products)), r.products...), nil
}

func (r *memoryProductRepository) DeleteProduct(ctx context.Context, id string) (domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, product := range r.products {
		if product.ID.Hex() == id {
			r.products = append(r.products[:i], r.products[i+1:]...)
			return product, nil
		}
	}

	return domain.Product{}, errs.ErrProductNotFound
}

type memoryBannerRepository struct {
	mu      sync.Mutex
	banners []domain.Banner
}

func (r *memoryBannerRepository) AddBanner(ctx context.Context, data domain.Banner) (domain.Banner, error) {
	if err := data.Validate(); err != nil {
		return domain.Banner{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	data.ID = primitive.NewObjectID()
	r.banners = append(r.banners, data)
	return data, nil
}

func (r *memoryBannerRepository) GetBanners(ctx context.Context) ([]domain.Banner, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append(make([]domain.Banner, 0, len(r.banners)), r.banners...), nil
}

func (r *memoryBannerRepository) DeleteBanner(ctx context.Context, id string) (domain.Banner, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, banner := range r.banners {
		if banner.ID.Hex() == id {
			r.banners = append(r.banners[:i], r.banners[i+1:]...)
			return banner, nil
		}
	}

	return domain.Banner{}, errs.ErrBannerNotFound
}

type upload struct {
	name    string
	content []byte
}

type productResponse struct {
	Message string `json:"message"`
	Product struct {
		ID     string   `json:"_id"`
		Name   string   `json:"name"`
		Price  float64  `json:"price"`
		Desc   string   `json:"desc"`
		Images []string `json:"images"`
	} `json:"product"`
}

type bannerResponse struct {
	Message string `json:"message"`
	Banner  struct {
		ID     string   `json:"_id"`
		Images []string `json:"images"`
	} `json:"banner"`
}

type StorefrontTestSuite struct {
	suite.Suite
	app       App
	registry  *prometheus.Registry
	server    *httptest.Server
	uploadDir string
}

func (s *StorefrontTestSuite) SetupTest() {
	s.uploadDir = filepath.Join(s.T().TempDir(), "uploads")
	s.registry = prometheus.NewRegistry()
	blobStore, err := repository.CreateNewFileSystemBlobStore(s.uploadDir, nil)
	s.Require().NoError(err)

	s.app = App{
		Config: &config.Config{
			UploadConfig: config.UploadConfig{
				Directory:            s.uploadDir,
				MaxBodySize:          "1M",
				CleanupOrphanedBlobs: true,
			},
		},
		BlobStore:   blobStore,
		ProductRepo: &memoryProductRepository{},
		BannerRepo:  &memoryBannerRepository{},
		Registerer:  s.registry,
	}
	s.Require().NoError(s.app.Setup())

	s.server = httptest.NewServer(s.app.Server)
}

func (s *StorefrontTestSuite) TearDownTest() {
	s.server.Close()
}

func (s *StorefrontTestSuite) post(path string, fields map[string]string, uploads ...upload) *http.Response {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for key, value := range fields {
		s.Require().NoError(writer.WriteField(key, value))
	}
	for _, u := range uploads {
		fw, err := writer.CreateFormFile("images", u.name)
		s.Require().NoError(err)
		_, err = fw.Write(u.content)
		s.Require().NoError(err)
	}
	s.Require().NoError(writer.Close())

	resp, err := http.Post(s.server.URL+path, writer.FormDataContentType(), body)
	s.Require().NoError(err)
	return resp
}

func (s *StorefrontTestSuite) get(path string) *http.Response {
	resp, err := http.Get(s.server.URL + path)
	s.Require().NoError(err)
	return resp
}

func (s *StorefrontTestSuite) delete(path string) *http.Response {
	req, err := http.NewRequest(http.MethodDelete, s.server.URL+path, nil)
	s.Require().NoError(err)
	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	return resp
}

func (s *StorefrontTestSuite) decode(resp *http.Response, v interface{}) {
	defer resp.Body.Close()
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(v))
}

func (s *StorefrontTestSuite) blobFiles() []string {
	entries, err := os.ReadDir(s.uploadDir)
	s.Require().NoError(err)

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	return names
}

func (s *StorefrontTestSuite) Test_Ping() {
	resp := s.get("/api/ping")
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)
}

func (s *StorefrontTestSuite) Test_HTTPMetricsNames() {
	s.get("/api/ping").Body.Close()

	families, err := s.registry.Gather()
	s.Require().NoError(err)

	names := make([]string, 0, len(families))
	for _, family := range families {
		names = append(names, family.GetName())
	}
	s.Contains(names, "storefront_requests_total")
	for _, name := range names {
		s.NotContains(name, "echo_", name)
	}
}

func (s *StorefrontTestSuite) Test_CreateProduct() {
	image := []byte("\x89PNG\r\n\x1a\nwidget")
	resp := s.post("/api/products",
		map[string]string{"name": "Widget", "price": "9.99", "desc": "A widget"},
		upload{name: "fileA.png", content: image})

	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	var created productResponse
	s.decode(resp, &created)

	s.Equal("Product created", created.Message)
	s.Equal("Widget", created.Product.Name)
	s.Equal(9.99, created.Product.Price)
	s.Require().Len(created.Product.Images, 1)
	s.Regexp(`^[0-9A-Z]{26}\.png$`, created.Product.Images[0])

	blob := s.get("/uploads/" + created.Product.Images[0])
	defer blob.Body.Close()
	s.Equal(http.StatusOK, blob.StatusCode)
	got, err := io.ReadAll(blob.Body)
	s.Require().NoError(err)
	s.Equal(image, got)
}

func (s *StorefrontTestSuite) Test_CreateProduct_Invalid() {
	testCases := []struct {
		Name    string
		Fields  map[string]string
		Uploads []upload
		Error   string
	}{
		{
			Name:    "empty name",
			Fields:  map[string]string{"name": "", "price": "9.99", "desc": "A widget"},
			Uploads: []upload{{name: "a.png", content: []byte("a")}},
			Error:   "Name, price, description, and at least one image are required",
		},
		{
			Name:    "missing price",
			Fields:  map[string]string{"name": "Widget", "desc": "A widget"},
			Uploads: []upload{{name: "a.png", content: []byte("a")}},
			Error:   "Name, price, description, and at least one image are required",
		},
		{
			Name:    "unparsable price",
			Fields:  map[string]string{"name": "Widget", "price": "cheap", "desc": "A widget"},
			Uploads: []upload{{name: "a.png", content: []byte("a")}},
			Error:   "Price must be a valid number",
		},
		{
			Name:   "no images",
			Fields: map[string]string{"name": "Widget", "price": "9.99", "desc": "A widget"},
			Error:  "Name, price, description, and at least one image are required",
		},
	}

	for _, tc := range testCases {
		s.Run(tc.Name, func() {
			resp := s.post("/api/products", tc.Fields, tc.Uploads...)
			s.Equal(http.StatusBadRequest, resp.StatusCode)

			var body struct {
				Error string `json:"error"`
			}
			s.decode(resp, &body)
			s.Equal(tc.Error, body.Error)
		})
	}

	var products []json.RawMessage
	s.decode(s.get("/api/products"), &products)
	s.Empty(products)
	s.Empty(s.blobFiles())
}

func (s *StorefrontTestSuite) Test_DeleteProduct() {
	resp := s.post("/api/products",
		map[string]string{"name": "Widget", "price": "0", "desc": "A widget"},
		upload{name: "a.png", content: []byte("a")}, upload{name: "b.jpg", content: []byte("b")})
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	var created productResponse
	s.decode(resp, &created)
	s.Len(s.blobFiles(), 2)

	deleted := s.delete("/api/products/" + created.Product.ID)
	var message struct {
		Message string `json:"message"`
	}
	s.Equal(http.StatusOK, deleted.StatusCode)
	s.decode(deleted, &message)
	s.Equal("Product deleted", message.Message)

	var products []json.RawMessage
	s.decode(s.get("/api/products"), &products)
	s.Empty(products)
	s.Empty(s.blobFiles())

	again := s.delete("/api/products/" + created.Product.ID)
	defer again.Body.Close()
	s.Equal(http.StatusNotFound, again.StatusCode)

	for _, key := range created.Product.Images {
		blob := s.get("/uploads/" + key)
		blob.Body.Close()
		s.Equal(http.StatusNotFound, blob.StatusCode)
	}
}

func (s *StorefrontTestSuite) Test_DeleteUnknown() {
	s.post("/api/banners", nil, upload{name: "a.jpg", content: []byte("a")}).Body.Close()

	for _, path := range []string{"/api/banners/" + primitive.NewObjectID().Hex(), "/api/banners/not-an-id"} {
		resp := s.delete(path)
		var body struct {
			Error string `json:"error"`
		}
		s.Equal(http.StatusNotFound, resp.StatusCode)
		s.decode(resp, &body)
		s.Equal("Banner not found", body.Error)
	}

	var banners []json.RawMessage
	s.decode(s.get("/api/banners"), &banners)
	s.Len(banners, 1)
}

func (s *StorefrontTestSuite) Test_BannerLimits() {
	uploads := make([]upload, 0, 11)
	for i := 0; i < 11; i++ {
		uploads = append(uploads, upload{name: fmt.Sprintf("slide%d.jpg", i), content: []byte{byte(i)}})
	}

	resp := s.post("/api/banners", nil, uploads[:10]...)
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	var created bannerResponse
	s.decode(resp, &created)
	s.Equal("Banner created", created.Message)
	s.Len(created.Banner.Images, 10)
	for _, key := range created.Banner.Images {
		s.NotEmpty(key)
	}

	rejected := s.post("/api/banners", nil, uploads...)
	rejected.Body.Close()
	s.Equal(http.StatusBadRequest, rejected.StatusCode)

	empty := s.post("/api/banners", nil)
	var body struct {
		Error string `json:"error"`
	}
	s.Equal(http.StatusBadRequest, empty.StatusCode)
	s.decode(empty, &body)
	s.Equal("At least one image is required", body.Error)

	var banners []json.RawMessage
	s.decode(s.get("/api/banners"), &banners)
	s.Len(banners, 1)
	s.Len(s.blobFiles(), 10)
}

func (s *StorefrontTestSuite) Test_BodyLimit() {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	fw, err := writer.CreateFormFile("images", "huge.jpg")
	s.Require().NoError(err)
	_, err = fw.Write(bytes.Repeat([]byte("x"), 2<<20))
	s.Require().NoError(err)
	s.Require().NoError(writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/banners", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()
	s.app.Server.ServeHTTP(rec, req)

	s.Equal(http.StatusRequestEntityTooLarge, rec.Code)
	s.JSONEq(`{"error":"Request body too large"}`, rec.Body.String())
	s.Empty(s.blobFiles())
}

func (s *StorefrontTestSuite) Test_UnknownRoute() {
	resp := s.get("/api/orders")
	var body struct {
		Error string `json:"error"`
	}
	s.Equal(http.StatusNotFound, resp.StatusCode)
	s.decode(resp, &body)
	s.Equal("Resource not found", body.Error)
}

func TestStorefrontTestSuite(t *testing.T) {
	suite.Run(t, new(StorefrontTestSuite))
}
