package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-faster/errors"
	"gorm.io/gorm"

	"github.com/Kariqs/grocery-api/initializers"
	"github.com/Kariqs/grocery-api/models"
)

func AddSubCategory(ctx *gin.Context) {
	var body struct {
		Name     string `json:"name" binding:"required"`
		Image    string `json:"image" binding:"required"`
		Category []uint `json:"category" binding:"required,min=1"`
	}
	if err := ctx.ShouldBindJSON(&body); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Provide name, image, category")
		return
	}

	categories, err := loadCategories(body.Category)
	if err != nil {
		if errors.Is(err, errUnknownReference) {
			sendErrorResponse(ctx, http.StatusBadRequest, err.Error())
			return
		}
		respondWithError(ctx, http.StatusInternalServerError, msgInternalServerError, err)
		return
	}

	subCategory := models.SubCategory{Name: body.Name, Image: body.Image, Categories: categories}
	if err := initializers.DB.Omit("Categories.*").Create(&subCategory).Error; err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Unable to create sub category", err)
		return
	}

	sendSuccess(ctx, http.StatusCreated, "Sub Category Created", subCategory)
}

func GetSubCategories(ctx *gin.Context) {
	var subCategories []models.SubCategory
	err := initializers.DB.Preload("Categories").Order("created_at desc").Find(&subCategories).Error
	if err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Unable to fetch sub categories", err)
		return
	}
	sendSuccess(ctx, http.StatusOK, "Sub Category data", subCategories)
}

func UpdateSubCategory(ctx *gin.Context) {
	id, ok := parseID(ctx.Param("id"))
	if !ok {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid sub category id")
		return
	}
	var body struct {
		Name     string `json:"name"`
		Image    string `json:"image"`
		Category []uint `json:"category"`
	}
	if err := ctx.ShouldBindJSON(&body); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	var subCategory models.SubCategory
	if err := initializers.DB.First(&subCategory, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			sendErrorResponse(ctx, http.StatusBadRequest, "Check your _id")
			return
		}
		respondWithError(ctx, http.StatusInternalServerError, msgInternalServerError, err)
		return
	}

	var categories []models.Category
	if len(body.Category) > 0 {
		var err error
		if categories, err = loadCategories(body.Category); err != nil {
			if errors.Is(err, errUnknownReference) {
				sendErrorResponse(ctx, http.StatusBadRequest, err.Error())
				return
			}
			respondWithError(ctx, http.StatusInternalServerError, msgInternalServerError, err)
			return
		}
	}

	err := initializers.DB.Transaction(func(tx *gorm.DB) error {
		updates := map[string]any{}
		if body.Name != "" {
			updates["name"] = body.Name
		}
		if body.Image != "" {
			updates["image"] = body.Image
		}
		if len(updates) > 0 {
			if err := tx.Model(&subCategory).Updates(updates).Error; err != nil {
				return err
			}
		}
		if len(categories) > 0 {
			if err := tx.Model(&subCategory).Omit("Categories.*").Association("Categories").Replace(categories); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Unable to update sub category", err)
		return
	}

	initializers.DB.Preload("Categories").First(&subCategory, id)
	sendSuccess(ctx, http.StatusOK, "Updated successfully", subCategory)
}

func DeleteSubCategory(ctx *gin.Context) {
	id, ok := parseID(ctx.Param("id"))
	if !ok {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid sub category id")
		return
	}

	var subCategory models.SubCategory
	if err := initializers.DB.First(&subCategory, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			sendErrorResponse(ctx, http.StatusNotFound, "Sub category not found")
			return
		}
		respondWithError(ctx, http.StatusInternalServerError, msgInternalServerError, err)
		return
	}

	err := initializers.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&subCategory).Association("Categories").Clear(); err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM product_sub_categories WHERE sub_category_id = ?", subCategory.ID).Error; err != nil {
			return err
		}
		return tx.Delete(&subCategory).Error
	})
	if err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Unable to delete sub category", err)
		return
	}

	sendSuccess(ctx, http.StatusOK, "Delete successfully", subCategory)
}
