package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BySlug struct {
	Slug string
}

func (s BySlug) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("slug = ?", s.Slug)
}

type BySlugs struct {
	Slugs []string
}

func (s BySlugs) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("slug IN ?", s.Slugs)
}

type ByCategoryID struct {
	CategoryID uuid.UUID
}

func (s ByCategoryID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("category_id = ?", s.CategoryID)
}

// InStockOnly keeps products with positive stock
type InStockOnly struct{}

func (s InStockOnly) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("stock > 0")
}

// WithCategory preloads the product's category
type WithCategory struct{}

func (s WithCategory) Apply(db *gorm.DB) *gorm.DB {
	return db.Preload("Category")
}
