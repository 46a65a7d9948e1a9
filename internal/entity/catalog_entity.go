package entity

import (
	"time"

	"github.com/google/uuid"
)

type Category struct {
	Id        uuid.UUID
	Name      string
	Slug      string
	CreatedAt time.Time
}

type Product struct {
	Id          uuid.UUID
	Name        string
	Slug        string
	Description string
	Price       int64 // Hungarian forint, no minor unit
	Image       *string
	Rating      float64
	Stock       int
	Specs       map[string]interface{} // JSONB
	CategoryId  uuid.UUID
	Category    *Category // Loaded via join when requested
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

func (p *Product) InStock() bool {
	return p.Stock > 0
}
