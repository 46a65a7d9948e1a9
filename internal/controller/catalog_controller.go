package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"ai-storefront-be/internal/dto"
	"ai-storefront-be/internal/pkg/serverutils"
	"ai-storefront-be/internal/service"
)

type ICatalogController interface {
	RegisterRoutes(r fiber.Router)
	ListCategories(ctx *fiber.Ctx) error
	ListProducts(ctx *fiber.Ctx) error
	ShowProduct(ctx *fiber.Ctx) error
}

type catalogController struct {
	catalogService service.ICatalogService
}

func NewCatalogController(catalogService service.ICatalogService) ICatalogController {
	return &catalogController{
		catalogService: catalogService,
	}
}

func (c *catalogController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/catalog/v1")
	h.Get("categories", c.ListCategories)
	h.Get("products", c.ListProducts)
	h.Get("products/:slug", c.ShowProduct)
}

func (c *catalogController) ListCategories(ctx *fiber.Ctx) error {
	res, err := c.catalogService.ListCategories(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list categories", res))
}

func (c *catalogController) ListProducts(ctx *fiber.Ctx) error {
	req := dto.ListProductsRequest{
		CategorySlug: ctx.Query("category"),
		Limit:        ctx.QueryInt("limit"),
		Offset:       ctx.QueryInt("offset"),
	}

	res, err := c.catalogService.ListProducts(ctx.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Category not found")
		}
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list products", res))
}

func (c *catalogController) ShowProduct(ctx *fiber.Ctx) error {
	res, err := c.catalogService.ShowProduct(ctx.Context(), ctx.Params("slug"))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Product not found")
		}
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show product", res))
}
