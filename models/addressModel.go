package models

import "gorm.io/gorm"

type Address struct {
	gorm.Model
	UserID      uint   `json:"userId" gorm:"index"`
	AddressLine string `json:"address_line"`
	City        string `json:"city"`
	State       string `json:"state"`
	Country     string `json:"country"`
	Pincode     string `json:"pincode"`
	Mobile      string `json:"mobile"`
	Status      bool   `json:"status"`
}
