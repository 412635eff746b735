package controller

import (
	"github.com/alimikegami/point-of-sales/storefront-service/internal/domain"
	"github.com/alimikegami/point-of-sales/storefront-service/internal/middleware"
	"github.com/alimikegami/point-of-sales/storefront-service/internal/service"
	"github.com/alimikegami/point-of-sales/storefront-service/pkg/response"
	"github.com/labstack/echo/v4"
)

type BannerController struct {
	service service.BannerService
}

func CreateBannerController(g *echo.Group, service service.BannerService) {
	c := BannerController{
		service: service,
	}
	g.POST("/banners", c.AddBanner, middleware.MultipartFiles(imagesField, domain.MaxBannerImages))
	g.GET("/banners", c.GetBanners)
	g.DELETE("/banners/:id", c.DeleteBanner)
}

func (c *BannerController) AddBanner(e echo.Context) error {
	banner, err := c.service.AddBanner(e.Request().Context(), imageFiles(e))
	if err != nil {
		return response.WriteErrorResponse(e, err)
	}

	return response.WriteCreatedResponse(e, "Banner created", "banner", banner)
}

func (c *BannerController) GetBanners(e echo.Context) error {
	banners, err := c.service.GetBanners(e.Request().Context())
	if err != nil {
		return response.WriteErrorResponse(e, err)
	}

	return response.WriteSuccessResponse(e, banners)
}

func (c *BannerController) DeleteBanner(e echo.Context) error {
	if err := c.service.DeleteBanner(e.Request().Context(), e.Param("id")); err != nil {
		return response.WriteErrorResponse(e, err)
	}

	return response.WriteMessageResponse(e, "Banner deleted")
}
