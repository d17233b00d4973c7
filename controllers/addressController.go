package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-faster/errors"
	"gorm.io/gorm"

	"github.com/Kariqs/grocery-api/initializers"
	"github.com/Kariqs/grocery-api/models"
)

const msgAddressNotFound = "Address not found"

type addressInput struct {
	AddressLine string `json:"address_line"`
	City        string `json:"city"`
	State       string `json:"state"`
	Country     string `json:"country"`
	Pincode     string `json:"pincode"`
	Mobile      string `json:"mobile"`
}

func AddAddress(ctx *gin.Context) {
	var body addressInput
	if err := ctx.ShouldBindJSON(&body); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}
	if body.AddressLine == "" || body.City == "" || body.Pincode == "" {
		sendErrorResponse(ctx, http.StatusBadRequest, "Provide address_line, city, pincode")
		return
	}

	address := models.Address{
		UserID:      currentUserID(ctx),
		AddressLine: body.AddressLine,
		City:        body.City,
		State:       body.State,
		Country:     body.Country,
		Pincode:     body.Pincode,
		Mobile:      body.Mobile,
		Status:      true,
	}
	if err := initializers.DB.Create(&address).Error; err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Unable to save address", err)
		return
	}

	sendSuccess(ctx, http.StatusCreated, "Address Created Successfully", address)
}

// GetAddresses lists the user's active addresses, newest first.
func GetAddresses(ctx *gin.Context) {
	var addresses []models.Address
	err := initializers.DB.
		Where("user_id = ? AND status = ?", currentUserID(ctx), true).
		Order("created_at desc").
		Find(&addresses).Error
	if err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Unable to fetch addresses", err)
		return
	}
	sendSuccess(ctx, http.StatusOK, "List of address", addresses)
}

func findOwnAddress(ctx *gin.Context, id uint) (*models.Address, bool) {
	var address models.Address
	err := initializers.DB.Where("id = ? AND user_id = ?", id, currentUserID(ctx)).First(&address).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			sendErrorResponse(ctx, http.StatusNotFound, msgAddressNotFound)
			return nil, false
		}
		respondWithError(ctx, http.StatusInternalServerError, msgInternalServerError, err)
		return nil, false
	}
	return &address, true
}

func UpdateAddress(ctx *gin.Context) {
	id, ok := parseID(ctx.Param("id"))
	if !ok {
		sendErrorResponse(ctx, http.StatusBadRequest, "Provide _id")
		return
	}
	var body addressInput
	if err := ctx.ShouldBindJSON(&body); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	address, ok := findOwnAddress(ctx, id)
	if !ok {
		return
	}

	updates := map[string]any{}
	for column, value := range map[string]string{
		"address_line": body.AddressLine,
		"city":         body.City,
		"state":        body.State,
		"country":      body.Country,
		"pincode":      body.Pincode,
		"mobile":       body.Mobile,
	} {
		if value != "" {
			updates[column] = value
		}
	}
	if len(updates) > 0 {
		if err := initializers.DB.Model(address).Updates(updates).Error; err != nil {
			respondWithError(ctx, http.StatusInternalServerError, "Unable to update address", err)
			return
		}
	}

	sendSuccess(ctx, http.StatusOK, "Address Updated", address)
}

// DisableAddress hides an address from the book. Orders that reference it keep it.
func DisableAddress(ctx *gin.Context) {
	id, ok := parseID(ctx.Param("id"))
	if !ok {
		sendErrorResponse(ctx, http.StatusBadRequest, "Provide _id")
		return
	}

	address, ok := findOwnAddress(ctx, id)
	if !ok {
		return
	}
	if err := initializers.DB.Model(address).Update("status", false).Error; err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Unable to remove address", err)
		return
	}

	sendSuccess(ctx, http.StatusOK, "Address remove", address)
}
