package adminapi

import (
	"errors"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/talkincode/storemom/internal/domain"
	"github.com/talkincode/storemom/internal/webserver"
)

func registerCustomerRoutes() {
	webserver.ApiGET("/customers", listCustomers)
	webserver.ApiGET("/customers/:id", getCustomer)
	webserver.ApiPOST("/customers", createCustomer)
	webserver.ApiPUT("/customers/:id", updateCustomer)
	webserver.ApiDELETE("/customers/:id", deleteCustomer)
}

type customerPayload struct {
	Fname   string `json:"fname"`
	Lname   string `json:"lname"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

func (p *customerPayload) validate() (code, message string) {
	p.Fname = strings.TrimSpace(p.Fname)
	p.Lname = strings.TrimSpace(p.Lname)
	p.Phone = strings.TrimSpace(p.Phone)
	if p.Fname == "" || p.Lname == "" {
		return "MISSING_NAME", "First and last name are required"
	}
	if p.Phone == "" {
		return "MISSING_PHONE", "Phone number is required"
	}
	if p.Email != "" {
		if _, err := mail.ParseAddress(p.Email); err != nil {
			return "INVALID_EMAIL", "Email address is not valid"
		}
	}
	return "", ""
}

func listCustomers(c echo.Context) error {
	page, pageSize := parsePagination(c)

	base := GetDB(c).Model(&domain.StoreCustomer{})
	if q := strings.TrimSpace(c.QueryParam("search")); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		base = base.Where(
			"LOWER(fname) LIKE ? OR LOWER(lname) LIKE ? OR phone LIKE ?",
			like, like, "%"+q+"%")
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query customers", err.Error())
	}

	var rows []domain.StoreCustomer
	if err := base.Order("fname ASC").Offset((page-1)*pageSize).Limit(pageSize).Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query customers", err.Error())
	}
	return paged(c, rows, total, page, pageSize)
}

func getCustomer(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid customer ID", nil)
	}
	var cust domain.StoreCustomer
	if err := GetDB(c).Where("id = ?", id).First(&cust).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "CUSTOMER_NOT_FOUND", "Customer not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query customer", err.Error())
	}
	return ok(c, cust)
}

func createCustomer(c echo.Context) error {
	var payload customerPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse customer parameters", nil)
	}
	if code, msg := payload.validate(); code != "" {
		return fail(c, http.StatusBadRequest, code, msg, nil)
	}

	cust := domain.StoreCustomer{
		Fname:     payload.Fname,
		Lname:     payload.Lname,
		Phone:     payload.Phone,
		Email:     payload.Email,
		Address:   payload.Address,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := GetDB(c).Create(&cust).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create customer", err.Error())
	}
	return created(c, cust)
}

func updateCustomer(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid customer ID", nil)
	}
	var cust domain.StoreCustomer
	if err := GetDB(c).Where("id = ?", id).First(&cust).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "CUSTOMER_NOT_FOUND", "Customer not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query customer", err.Error())
	}

	var payload customerPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse customer parameters", nil)
	}
	if code, msg := payload.validate(); code != "" {
		return fail(c, http.StatusBadRequest, code, msg, nil)
	}

	cust.Fname = payload.Fname
	cust.Lname = payload.Lname
	cust.Phone = payload.Phone
	cust.Email = payload.Email
	cust.Address = payload.Address
	cust.UpdatedAt = time.Now()

	if err := GetDB(c).Save(&cust).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update customer", err.Error())
	}
	return ok(c, cust)
}

func deleteCustomer(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid customer ID", nil)
	}

	var refs int64
	if err := GetDB(c).Model(&domain.StoreOrder{}).Where("customer_id = ?", id).Count(&refs).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query customer orders", err.Error())
	}
	if refs > 0 {
		return fail(c, http.StatusConflict, "CONSTRAINT_VIOLATION", "Cannot delete customer with existing orders", nil)
	}

	res := GetDB(c).Where("id = ?", id).Delete(&domain.StoreCustomer{})
	if res.Error != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete customer", res.Error.Error())
	}
	if res.RowsAffected == 0 {
		return fail(c, http.StatusNotFound, "CUSTOMER_NOT_FOUND", "Customer not found", nil)
	}
	return ok(c, map[string]interface{}{"id": id})
}
