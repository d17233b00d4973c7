package controllers

import (
	"context"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Kariqs/grocery-api/initializers"
	"github.com/Kariqs/grocery-api/models"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100

	msgProductNotFound = "Product not found"
)

type productInput struct {
	Name        string            `json:"name" binding:"required"`
	Image       []string          `json:"image" binding:"required,min=1"`
	Category    []uint            `json:"category" binding:"required,min=1"`
	SubCategory []uint            `json:"subCategory" binding:"required,min=1"`
	Unit        string            `json:"unit" binding:"required"`
	Stock       int               `json:"stock" binding:"gte=0"`
	Price       *decimal.Decimal  `json:"price" binding:"required"`
	Discount    *decimal.Decimal  `json:"discount"`
	Description string            `json:"description"`
	MoreDetails datatypes.JSONMap `json:"more_details"`
	Publish     *bool             `json:"publish"`
}

var hundred = decimal.NewFromInt(100)

func validPrice(price *decimal.Decimal) bool {
	return price == nil || !price.IsNegative()
}

func validDiscount(discount *decimal.Decimal) bool {
	return discount == nil || (!discount.IsNegative() && discount.LessThanOrEqual(hundred))
}

// pagination reads page and limit from the query string, falling back to defaults.
func pagination(ctx *gin.Context) (page, limit int) {
	page, err := strconv.Atoi(ctx.DefaultQuery("page", strconv.Itoa(defaultPage)))
	if err != nil || page < 1 {
		page = defaultPage
	}
	limit, err = strconv.Atoi(ctx.DefaultQuery("limit", strconv.Itoa(defaultLimit)))
	if err != nil || limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return page, limit
}

func sendPage(ctx *gin.Context, message string, products []models.Product, total int64, page, limit int) {
	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"message":     message,
		"error":       false,
		"success":     true,
		"data":        products,
		"totalCount":  total,
		"totalNoPage": int(math.Ceil(float64(total) / float64(limit))),
		"page":        page,
		"limit":       limit,
	})
}

// listProducts counts and pages through query, newest first.
func listProducts(query *gorm.DB, page, limit int) ([]models.Product, int64, error) {
	var total int64
	if err := query.Session(&gorm.Session{}).Model(&models.Product{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var products []models.Product
	err := query.Session(&gorm.Session{}).
		Preload("Categories").
		Preload("SubCategories").
		Order("products.created_at desc").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&products).Error
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func CreateProduct(ctx *gin.Context) {
	var body productInput
	if err := ctx.ShouldBindJSON(&body); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Enter required fields")
		return
	}
	if !validPrice(body.Price) || !validDiscount(body.Discount) {
		sendErrorResponse(ctx, http.StatusBadRequest, "price must be positive and discount between 0 and 100")
		return
	}

	categories, err := loadCategories(body.Category)
	var subCategories []models.SubCategory
	if err == nil {
		subCategories, err = loadSubCategories(body.SubCategory)
	}
	if err != nil {
		if errors.Is(err, errUnknownReference) {
			sendErrorResponse(ctx, http.StatusBadRequest, err.Error())
			return
		}
		respondWithError(ctx, http.StatusInternalServerError, msgInternalServerError, err)
		return
	}

	product := models.Product{
		Name:          body.Name,
		Image:         body.Image,
		Categories:    categories,
		SubCategories: subCategories,
		Unit:          body.Unit,
		Stock:         body.Stock,
		Price:         *body.Price,
		Description:   body.Description,
		MoreDetails:   body.MoreDetails,
		Publish:       true,
	}
	if body.Discount != nil {
		product.Discount = *body.Discount
	}
	if body.Publish != nil {
		product.Publish = *body.Publish
	}
	if err := initializers.DB.Omit("Categories.*", "SubCategories.*").Create(&product).Error; err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to create product", err)
		return
	}

	sendSuccess(ctx, http.StatusCreated, "Product Created Successfully", product)
}

func GetProducts(ctx *gin.Context) {
	page, limit := pagination(ctx)

	query := initializers.DB.Model(&models.Product{})
	if search := ctx.Query("search"); search != "" {
		query = query.Where("name LIKE ?", "%"+search+"%")
	}

	products, total, err := listProducts(query, page, limit)
	if err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Unable to fetch products", err)
		return
	}
	sendPage(ctx, "Product data", products, total, page, limit)
}

func GetProductByCategory(ctx *gin.Context) {
	categoryID, ok := parseID(ctx.Param("categoryId"))
	if !ok {
		sendErrorResponse(ctx, http.StatusBadRequest, "provide category id")
		return
	}

	var products []models.Product
	err := initializers.DB.
		Joins("JOIN product_categories ON product_categories.product_id = products.id").
		Where("product_categories.category_id = ?", categoryID).
		Preload("Categories").
		Order("products.created_at desc").
		Limit(15).
		Find(&products).Error
	if err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Unable to fetch products", err)
		return
	}
	sendSuccess(ctx, http.StatusOK, "category product list", products)
}

func GetProductByCategoryAndSubCategory(ctx *gin.Context) {
	categoryID, okCategory := parseID(ctx.Param("categoryId"))
	subCategoryID, okSubCategory := parseID(ctx.Param("subCategoryId"))
	if !okCategory || !okSubCategory {
		sendErrorResponse(ctx, http.StatusBadRequest, "Provide categoryId and subCategoryId")
		return
	}
	page, limit := pagination(ctx)

	query := initializers.DB.Model(&models.Product{}).
		Where("products.id IN (?)", initializers.DB.Table("product_categories").
			Select("product_id").Where("category_id = ?", categoryID)).
		Where("products.id IN (?)", initializers.DB.Table("product_sub_categories").
			Select("product_id").Where("sub_category_id = ?", subCategoryID))

	products, total, err := listProducts(query, page, limit)
	if err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Unable to fetch products", err)
		return
	}
	sendPage(ctx, "Product list", products, total, page, limit)
}

func loadProduct(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	err := initializers.DB.WithContext(ctx).
		Preload("Categories").
		Preload("SubCategories").
		First(&product, id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// GetProductDetails serves a product through the read-through cache.
func GetProductDetails(ctx *gin.Context) {
	id, ok := parseID(ctx.Param("id"))
	if !ok {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid product id")
		return
	}

	product, err := initializers.Products.Fetch(ctx.Request.Context(), id, func(c context.Context) (*models.Product, error) {
		return loadProduct(c, id)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			sendErrorResponse(ctx, http.StatusNotFound, msgProductNotFound)
			return
		}
		respondWithError(ctx, http.StatusInternalServerError, "Unable to retrieve product", err)
		return
	}
	sendSuccess(ctx, http.StatusOK, "product details", product)
}

func UpdateProduct(ctx *gin.Context) {
	id, ok := parseID(ctx.Param("id"))
	if !ok {
		sendErrorResponse(ctx, http.StatusBadRequest, "provide product _id")
		return
	}
	var body struct {
		Name        string            `json:"name"`
		Image       []string          `json:"image"`
		Category    []uint            `json:"category"`
		SubCategory []uint            `json:"subCategory"`
		Unit        string            `json:"unit"`
		Stock       *int              `json:"stock"`
		Price       *decimal.Decimal  `json:"price"`
		Discount    *decimal.Decimal  `json:"discount"`
		Description *string           `json:"description"`
		MoreDetails datatypes.JSONMap `json:"more_details"`
		Publish     *bool             `json:"publish"`
	}
	if err := ctx.ShouldBindJSON(&body); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}
	if !validPrice(body.Price) || !validDiscount(body.Discount) {
		sendErrorResponse(ctx, http.StatusBadRequest, "price must be positive and discount between 0 and 100")
		return
	}

	var product models.Product
	if err := initializers.DB.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			sendErrorResponse(ctx, http.StatusNotFound, msgProductNotFound)
			return
		}
		respondWithError(ctx, http.StatusInternalServerError, msgInternalServerError, err)
		return
	}

	categories, err := loadCategories(body.Category)
	var subCategories []models.SubCategory
	if err == nil {
		subCategories, err = loadSubCategories(body.SubCategory)
	}
	if err != nil {
		if errors.Is(err, errUnknownReference) {
			sendErrorResponse(ctx, http.StatusBadRequest, err.Error())
			return
		}
		respondWithError(ctx, http.StatusInternalServerError, msgInternalServerError, err)
		return
	}

	if body.Name != "" {
		product.Name = body.Name
	}
	if len(body.Image) > 0 {
		product.Image = body.Image
	}
	if body.Unit != "" {
		product.Unit = body.Unit
	}
	if body.Stock != nil {
		product.Stock = *body.Stock
	}
	if body.Price != nil {
		product.Price = *body.Price
	}
	if body.Discount != nil {
		product.Discount = *body.Discount
	}
	if body.Description != nil {
		product.Description = *body.Description
	}
	if body.MoreDetails != nil {
		product.MoreDetails = body.MoreDetails
	}
	if body.Publish != nil {
		product.Publish = *body.Publish
	}

	err = initializers.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(&product).Error; err != nil {
			return err
		}
		if len(categories) > 0 {
			if err := tx.Model(&product).Omit("Categories.*").Association("Categories").Replace(categories); err != nil {
				return err
			}
		}
		if len(subCategories) > 0 {
			if err := tx.Model(&product).Omit("SubCategories.*").Association("SubCategories").Replace(subCategories); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Unable to update product", err)
		return
	}
	initializers.Products.Invalidate(ctx.Request.Context(), id)

	updated, err := loadProduct(ctx.Request.Context(), id)
	if err != nil {
		respondWithError(ctx, http.StatusInternalServerError, msgInternalServerError, err)
		return
	}
	sendSuccess(ctx, http.StatusOK, "updated successfully", updated)
}

// DeleteProduct removes a product and its category links. Cart rows for it go too;
// orders keep their own snapshot.
func DeleteProduct(ctx *gin.Context) {
	id, ok := parseID(ctx.Param("id"))
	if !ok {
		sendErrorResponse(ctx, http.StatusBadRequest, "provide _id")
		return
	}

	var product models.Product
	if err := initializers.DB.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			sendErrorResponse(ctx, http.StatusNotFound, msgProductNotFound)
			return
		}
		respondWithError(ctx, http.StatusInternalServerError, msgInternalServerError, err)
		return
	}

	err := initializers.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&product).Association("Categories").Clear(); err != nil {
			return err
		}
		if err := tx.Model(&product).Association("SubCategories").Clear(); err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", id).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&product).Error
	})
	if err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Unable to delete product", err)
		return
	}
	initializers.Products.Invalidate(ctx.Request.Context(), id)

	sendSuccess(ctx, http.StatusOK, "Delete successfully", nil)
}

// SearchProduct matches the query against product names and descriptions.
func SearchProduct(ctx *gin.Context) {
	page, limit := pagination(ctx)

	query := initializers.DB.Model(&models.Product{})
	if q := ctx.Query("q"); q != "" {
		like := "%" + q + "%"
		query = query.Where("name LIKE ? OR description LIKE ?", like, like)
	}

	products, total, err := listProducts(query, page, limit)
	if err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Unable to search products", err)
		return
	}
	sendPage(ctx, "Product data", products, total, page, limit)
}
