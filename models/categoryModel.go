package models

import "gorm.io/gorm"

type Category struct {
	gorm.Model
	Name  string `json:"name"`
	Image string `json:"image"`
}

type SubCategory struct {
	gorm.Model
	Name       string     `json:"name"`
	Image      string     `json:"image"`
	Categories []Category `json:"category" gorm:"many2many:sub_category_categories"`
}
