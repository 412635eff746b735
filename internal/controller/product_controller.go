package controller

import (
	"github.com/alimikegami/point-of-sales/storefront-service/internal/domain"
	"github.com/alimikegami/point-of-sales/storefront-service/internal/dto"
	"github.com/alimikegami/point-of-sales/storefront-service/internal/middleware"
	"github.com/alimikegami/point-of-sales/storefront-service/internal/service"
	"github.com/alimikegami/point-of-sales/storefront-service/pkg/response"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

type ProductController struct {
	service service.ProductService
}

func CreateProductController(g *echo.Group, service service.ProductService) {
	c := ProductController{
		service: service,
	}
	g.POST("/products", c.AddProduct, middleware.MultipartFiles(imagesField, domain.MaxProductImages))
	g.GET("/products", c.GetProducts)
	g.DELETE("/products/:id", c.DeleteProduct)
}

func (c *ProductController) AddProduct(e echo.Context) error {
	payload := dto.ProductRequest{}
	if err := e.Bind(&payload); err != nil {
		log.Ctx(e.Request().Context()).Warn().Err(err).Str("component", "AddProduct").Msg("")
	}

	product, err := c.service.AddProduct(e.Request().Context(), payload, imageFiles(e))
	if err != nil {
		return response.WriteErrorResponse(e, err)
	}

	return response.WriteCreatedResponse(e, "Product created", "product", product)
}

func (c *ProductController) GetProducts(e echo.Context) error {
	products, err := c.service.GetProducts(e.Request().Context())
	if err != nil {
		return response.WriteErrorResponse(e, err)
	}

	return response.WriteSuccessResponse(e, products)
}

func (c *ProductController) DeleteProduct(e echo.Context) error {
	if err := c.service.DeleteProduct(e.Request().Context(), e.Param("id")); err != nil {
		return response.WriteErrorResponse(e, err)
	}

	return response.WriteMessageResponse(e, "Product deleted")
}
