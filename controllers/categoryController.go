package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-faster/errors"
	"gorm.io/gorm"

	"github.com/Kariqs/grocery-api/initializers"
	"github.com/Kariqs/grocery-api/models"
)

type categoryInput struct {
	Name  string `json:"name" binding:"required"`
	Image string `json:"image" binding:"required"`
}

func AddCategory(ctx *gin.Context) {
	var body categoryInput
	if err := ctx.ShouldBindJSON(&body); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Enter required fields")
		return
	}

	category := models.Category{Name: body.Name, Image: body.Image}
	if err := initializers.DB.Create(&category).Error; err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Not created", err)
		return
	}

	sendSuccess(ctx, http.StatusCreated, "Add Category", category)
}

func GetCategories(ctx *gin.Context) {
	var categories []models.Category
	if err := initializers.DB.Order("created_at desc").Find(&categories).Error; err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Unable to fetch categories", err)
		return
	}
	sendSuccess(ctx, http.StatusOK, "", categories)
}

func UpdateCategory(ctx *gin.Context) {
	id, ok := parseID(ctx.Param("id"))
	if !ok {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid category id")
		return
	}
	var body struct {
		Name  string `json:"name"`
		Image string `json:"image"`
	}
	if err := ctx.ShouldBindJSON(&body); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	var category models.Category
	if err := initializers.DB.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			sendErrorResponse(ctx, http.StatusNotFound, "Category not found")
			return
		}
		respondWithError(ctx, http.StatusInternalServerError, msgInternalServerError, err)
		return
	}

	updates := map[string]any{}
	if body.Name != "" {
		updates["name"] = body.Name
	}
	if body.Image != "" {
		updates["image"] = body.Image
	}
	if len(updates) > 0 {
		if err := initializers.DB.Model(&category).Updates(updates).Error; err != nil {
			respondWithError(ctx, http.StatusInternalServerError, "Unable to update category", err)
			return
		}
	}

	sendSuccess(ctx, http.StatusOK, "Updated Category", category)
}

// DeleteCategory refuses to remove a category still used by a subcategory or product.
func DeleteCategory(ctx *gin.Context) {
	id, ok := parseID(ctx.Param("id"))
	if !ok {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid category id")
		return
	}

	var subCategoryRefs, productRefs int64
	if err := initializers.DB.Table("sub_category_categories").Where("category_id = ?", id).Count(&subCategoryRefs).Error; err != nil {
		respondWithError(ctx, http.StatusInternalServerError, msgInternalServerError, err)
		return
	}
	if err := initializers.DB.Table("product_categories").Where("category_id = ?", id).Count(&productRefs).Error; err != nil {
		respondWithError(ctx, http.StatusInternalServerError, msgInternalServerError, err)
		return
	}
	if subCategoryRefs > 0 || productRefs > 0 {
		sendErrorResponse(ctx, http.StatusBadRequest, "Category is already use can't delete")
		return
	}

	result := initializers.DB.Delete(&models.Category{}, id)
	if result.Error != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Unable to delete category", result.Error)
		return
	}
	if result.RowsAffected == 0 {
		sendErrorResponse(ctx, http.StatusNotFound, "Category not found")
		return
	}

	sendSuccess(ctx, http.StatusOK, "Delete category successfully", nil)
}

// loadCategories returns the categories with the given ids, failing if any is missing.
func loadCategories(ids []uint) ([]models.Category, error) {
	var categories []models.Category
	if len(ids) == 0 {
		return categories, nil
	}
	if err := initializers.DB.Find(&categories, uniqueIDs(ids)).Error; err != nil {
		return nil, err
	}
	if len(categories) != len(uniqueIDs(ids)) {
		return nil, errUnknownReference
	}
	return categories, nil
}

func loadSubCategories(ids []uint) ([]models.SubCategory, error) {
	var subCategories []models.SubCategory
	if len(ids) == 0 {
		return subCategories, nil
	}
	if err := initializers.DB.Find(&subCategories, uniqueIDs(ids)).Error; err != nil {
		return nil, err
	}
	if len(subCategories) != len(uniqueIDs(ids)) {
		return nil, errUnknownReference
	}
	return subCategories, nil
}

var errUnknownReference = errors.New("unknown category or subcategory")

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
