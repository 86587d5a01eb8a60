package adminapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/talkincode/storemom/internal/domain"
	"github.com/talkincode/storemom/internal/webserver"
)

func registerProductRoutes() {
	webserver.ApiGET("/products", listProducts)
	webserver.ApiGET("/products/:id", getProduct)
	webserver.ApiPOST("/products", createProduct)
	webserver.ApiPUT("/products/:id", updateProduct)
	webserver.ApiDELETE("/products/:id", deleteProduct)
}

type productPayload struct {
	Name            string  `json:"name"`
	Price           float64 `json:"price"`
	SellPrice       float64 `json:"sell_price"`
	QuantityInStock *int    `json:"quantity_in_stock"`
	Volume          string  `json:"volume"`
	Description     string  `json:"description"`
}

func (p *productPayload) validate() (code, message string) {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return "MISSING_NAME", "Product name is required"
	}
	if p.Price < 0 || p.SellPrice < 0 {
		return "INVALID_PRICE", "Price must not be negative"
	}
	if p.QuantityInStock != nil && *p.QuantityInStock < 0 {
		return "INVALID_STOCK", "Stock quantity must not be negative"
	}
	return "", ""
}

func listProducts(c echo.Context) error {
	page, pageSize := parsePagination(c)

	base := GetDB(c).Model(&domain.StoreProduct{})
	if q := strings.TrimSpace(c.QueryParam("search")); q != "" {
		if base.Dialector.Name() == "postgres" {
			base = base.Where("name ILIKE ?", "%"+q+"%")
		} else {
			base = base.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(q)+"%")
		}
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query products", err.Error())
	}

	var rows []domain.StoreProduct
	if err := base.Order("name ASC").Offset((page-1)*pageSize).Limit(pageSize).Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query products", err.Error())
	}
	return paged(c, rows, total, page, pageSize)
}

func getProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	var p domain.StoreProduct
	if err := GetDB(c).Where("id = ?", id).First(&p).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "PRODUCT_NOT_FOUND", "Product not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query product", err.Error())
	}
	return ok(c, p)
}

func createProduct(c echo.Context) error {
	var payload productPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product parameters", nil)
	}
	if code, msg := payload.validate(); code != "" {
		return fail(c, http.StatusBadRequest, code, msg, nil)
	}

	qty := 0
	if payload.QuantityInStock != nil {
		qty = *payload.QuantityInStock
	}
	sellPrice := payload.SellPrice
	if sellPrice == 0 {
		sellPrice = payload.Price
	}
	p := domain.StoreProduct{
		Name:            payload.Name,
		Price:           payload.Price,
		SellPrice:       sellPrice,
		QuantityInStock: qty,
		Volume:          strings.TrimSpace(payload.Volume),
		Description:     payload.Description,
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}
	if err := GetDB(c).Create(&p).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create product", err.Error())
	}
	return created(c, p)
}

func updateProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	var p domain.StoreProduct
	if err := GetDB(c).Where("id = ?", id).First(&p).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "PRODUCT_NOT_FOUND", "Product not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query product", err.Error())
	}

	var payload productPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product parameters", nil)
	}
	if code, msg := payload.validate(); code != "" {
		return fail(c, http.StatusBadRequest, code, msg, nil)
	}

	p.Name = payload.Name
	p.Price = payload.Price
	if payload.SellPrice > 0 {
		p.SellPrice = payload.SellPrice
	}
	if payload.QuantityInStock != nil {
		p.QuantityInStock = *payload.QuantityInStock
	}
	p.Volume = strings.TrimSpace(payload.Volume)
	p.Description = payload.Description
	p.UpdatedAt = time.Now()

	if err := GetDB(c).Save(&p).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update product", err.Error())
	}
	return ok(c, p)
}

func deleteProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}

	var refs int64
	if err := GetDB(c).Model(&domain.StoreOrderItem{}).Where("product_id = ?", id).Count(&refs).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query product references", err.Error())
	}
	if refs > 0 {
		return fail(c, http.StatusConflict, "CONSTRAINT_VIOLATION", "Cannot delete product with existing orders", nil)
	}

	res := GetDB(c).Where("id = ?", id).Delete(&domain.StoreProduct{})
	if res.Error != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete product", res.Error.Error())
	}
	if res.RowsAffected == 0 {
		return fail(c, http.StatusNotFound, "PRODUCT_NOT_FOUND", "Product not found", nil)
	}
	return ok(c, map[string]interface{}{"id": id})
}
