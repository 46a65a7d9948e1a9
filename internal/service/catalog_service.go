package service

import (
	"context"
	"errors"

	"ai-storefront-be/internal/dto"
	"ai-storefront-be/internal/entity"
	"ai-storefront-be/internal/repository/contract"
	"ai-storefront-be/internal/repository/specification"
)

const (
	defaultPageSize = 24
	maxPageSize     = 100
)

// ErrNotFound marks lookups for rows that do not exist
var ErrNotFound = errors.New("not found")

// ICatalogService serves the browse endpoints of the storefront
type ICatalogService interface {
	ListCategories(ctx context.Context) ([]*dto.CategoryResponse, error)
	ListProducts(ctx context.Context, req *dto.ListProductsRequest) ([]*dto.ProductResponse, error)
	ShowProduct(ctx context.Context, slug string) (*dto.ProductResponse, error)
}

type catalogService struct {
	categoryRepo contract.CategoryRepository
	productRepo  contract.ProductRepository
}

func NewCatalogService(
	categoryRepo contract.CategoryRepository,
	productRepo contract.ProductRepository,
) ICatalogService {
	return &catalogService{
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
	}
}

func (s *catalogService) ListCategories(ctx context.Context) ([]*dto.CategoryResponse, error) {
	categories, err := s.categoryRepo.FindAll(ctx,
		specification.OrderBy{Field: "name", Desc: false},
	)
	if err != nil {
		return nil, err
	}

	response := make([]*dto.CategoryResponse, 0, len(categories))
	for _, c := range categories {
		response = append(response, &dto.CategoryResponse{
			Id:   c.Id,
			Name: c.Name,
			Slug: c.Slug,
		})
	}
	return response, nil
}

func (s *catalogService) ListProducts(ctx context.Context, req *dto.ListProductsRequest) ([]*dto.ProductResponse, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	specs := []specification.Specification{
		specification.WithCategory{},
		specification.OrderBy{Field: "rating", Desc: true},
		specification.Pagination{Limit: limit, Offset: req.Offset},
	}

	if req.CategorySlug != "" {
		category, err := s.categoryRepo.FindOne(ctx, specification.BySlug{Slug: req.CategorySlug})
		if err != nil {
			return nil, err
		}
		if category == nil {
			return nil, ErrNotFound
		}
		specs = append(specs, specification.ByCategoryID{CategoryID: category.Id})
	}

	products, err := s.productRepo.FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	response := make([]*dto.ProductResponse, 0, len(products))
	for _, p := range products {
		response = append(response, toProductResponse(p))
	}
	return response, nil
}

func (s *catalogService) ShowProduct(ctx context.Context, slug string) (*dto.ProductResponse, error) {
	product, err := s.productRepo.FindOne(ctx,
		specification.BySlug{Slug: slug},
		specification.WithCategory{},
	)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrNotFound
	}
	return toProductResponse(product), nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	resp := &dto.ProductResponse{
		Id:          p.Id,
		Name:        p.Name,
		Slug:        p.Slug,
		Description: p.Description,
		Price:       p.Price,
		Image:       p.Image,
		Rating:      p.Rating,
		InStock:     p.InStock(),
		Specs:       p.Specs,
		CreatedAt:   p.CreatedAt,
	}
	if p.Category != nil {
		resp.Category = &dto.CategoryResponse{
			Id:   p.Category.Id,
			Name: p.Category.Name,
			Slug: p.Category.Slug,
		}
	}
	return resp
}
