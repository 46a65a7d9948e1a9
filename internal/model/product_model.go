package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Product struct {
	Id          uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name        string         `gorm:"type:varchar(255);not null"`
	Slug        string         `gorm:"type:varchar(255);not null;uniqueIndex"`
	Description string         `gorm:"type:text"`
	Price       int64          `gorm:"not null"`
	Image       *string        `gorm:"type:varchar(512)"`
	Rating      float64        `gorm:"not null;default:0;index"`
	Stock       int            `gorm:"not null;default:0"`
	Specs       datatypes.JSON `gorm:"type:jsonb"`
	CategoryId  uuid.UUID      `gorm:"type:uuid;not null;index"`
	Category    *Category      `gorm:"foreignKey:CategoryId"`
	CreatedAt   time.Time      `gorm:"autoCreateTime"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime"`
}

func (Product) TableName() string {
	return "products"
}
