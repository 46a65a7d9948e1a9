package mapper

import (
	"encoding/json"
	"time"

	"ai-storefront-be/internal/entity"
	"ai-storefront-be/internal/model"

	"gorm.io/datatypes"
)

type CategoryMapper struct{}

func NewCategoryMapper() *CategoryMapper {
	return &CategoryMapper{}
}

func (m *CategoryMapper) ToEntity(c *model.Category) *entity.Category {
	if c == nil {
		return nil
	}
	return &entity.Category{
		Id:        c.Id,
		Name:      c.Name,
		Slug:      c.Slug,
		CreatedAt: c.CreatedAt,
	}
}

func (m *CategoryMapper) ToEntities(models []*model.Category) []*entity.Category {
	entities := make([]*entity.Category, len(models))
	for i, c := range models {
		entities[i] = m.ToEntity(c)
	}
	return entities
}

func (m *CategoryMapper) ToModel(c *entity.Category) *model.Category {
	if c == nil {
		return nil
	}
	return &model.Category{
		Id:        c.Id,
		Name:      c.Name,
		Slug:      c.Slug,
		CreatedAt: c.CreatedAt,
	}
}

type ProductMapper struct {
	categoryMapper *CategoryMapper
}

func NewProductMapper() *ProductMapper {
	return &ProductMapper{
		categoryMapper: NewCategoryMapper(),
	}
}

func (m *ProductMapper) ToEntity(p *model.Product) *entity.Product {
	if p == nil {
		return nil
	}

	var updatedAt *time.Time
	if !p.UpdatedAt.IsZero() {
		t := p.UpdatedAt
		updatedAt = &t
	}

	var specs map[string]interface{}
	if len(p.Specs) > 0 {
		// Invalid JSONB content degrades to nil specs rather than failing the read
		_ = json.Unmarshal(p.Specs, &specs)
	}

	return &entity.Product{
		Id:          p.Id,
		Name:        p.Name,
		Slug:        p.Slug,
		Description: p.Description,
		Price:       p.Price,
		Image:       p.Image,
		Rating:      p.Rating,
		Stock:       p.Stock,
		Specs:       specs,
		CategoryId:  p.CategoryId,
		Category:    m.categoryMapper.ToEntity(p.Category),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   updatedAt,
	}
}

func (m *ProductMapper) ToEntities(models []*model.Product) []*entity.Product {
	entities := make([]*entity.Product, len(models))
	for i, p := range models {
		entities[i] = m.ToEntity(p)
	}
	return entities
}

func (m *ProductMapper) ToModel(p *entity.Product) *model.Product {
	if p == nil {
		return nil
	}

	var specs datatypes.JSON
	if p.Specs != nil {
		raw, err := json.Marshal(p.Specs)
		if err == nil {
			specs = datatypes.JSON(raw)
		}
	}

	var updatedAt time.Time
	if p.UpdatedAt != nil {
		updatedAt = *p.UpdatedAt
	}

	return &model.Product{
		Id:          p.Id,
		Name:        p.Name,
		Slug:        p.Slug,
		Description: p.Description,
		Price:       p.Price,
		Image:       p.Image,
		Rating:      p.Rating,
		Stock:       p.Stock,
		Specs:       specs,
		CategoryId:  p.CategoryId,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   updatedAt,
	}
}
