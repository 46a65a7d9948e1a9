package dto

import (
	"time"

	"github.com/google/uuid"
)

type CategoryResponse struct {
	Id   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Slug string    `json:"slug"`
}

type ProductResponse struct {
	Id          uuid.UUID              `json:"id"`
	Name        string                 `json:"name"`
	Slug        string                 `json:"slug"`
	Description string                 `json:"description,omitempty"`
	Price       int64                  `json:"price"`
	Image       *string                `json:"image"`
	Rating      float64                `json:"rating"`
	InStock     bool                   `json:"in_stock"`
	Specs       map[string]interface{} `json:"specs,omitempty"`
	Category    *CategoryResponse      `json:"category,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
}

type ListProductsRequest struct {
	CategorySlug string
	Limit        int
	Offset       int
}
