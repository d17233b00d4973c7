package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Product struct {
	gorm.Model
	Name          string            `json:"name"`
	Image         []string          `json:"image" gorm:"serializer:json"`
	Categories    []Category        `json:"category" gorm:"many2many:product_categories"`
	SubCategories []SubCategory     `json:"subCategory" gorm:"many2many:product_sub_categories"`
	Unit          string            `json:"unit"`
	Stock         int               `json:"stock"`
	Price         decimal.Decimal   `json:"price" gorm:"type:decimal(12,2)"`
	Discount      decimal.Decimal   `json:"discount" gorm:"type:decimal(5,2)"`
	Description   string            `json:"description" gorm:"type:text"`
	MoreDetails   datatypes.JSONMap `json:"more_details"`
	Publish       bool              `json:"publish"`
}

// Snapshot copies the fields an order keeps regardless of later catalog edits.
func (p Product) Snapshot() ProductSnapshot {
	images := make([]string, len(p.Image))
	copy(images, p.Image)
	return ProductSnapshot{
		ProductID: p.ID,
		Name:      p.Name,
		Image:     images,
		Price:     p.Price,
		Discount:  p.Discount,
	}
}
