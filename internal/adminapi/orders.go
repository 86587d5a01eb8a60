package adminapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/labstack/echo/v4"
	"github.com/spf13/cast"

	"github.com/talkincode/storemom/internal/orders"
	"github.com/talkincode/storemom/internal/webserver"
)

func registerOrderRoutes() {
	webserver.ApiGET("/orders", listOrders)
	webserver.ApiGET("/orders/:id", getOrder)
	webserver.ApiPOST("/orders", createOrder)
	webserver.ApiPUT("/orders/:id", updateOrder)
	webserver.ApiDELETE("/orders/:id", deleteOrder)
}

type orderItemPayload struct {
	ProductID       int64   `json:"product_id"`
	QuantityOrdered int     `json:"quantity_ordered"`
	PriceEach       float64 `json:"price_each"`
}

type orderPayload struct {
	CustomerID int64              `json:"customer_id"`
	OrderDate  string             `json:"order_date"`
	Status     string             `json:"status"`
	Note       string             `json:"note"`
	Items      []orderItemPayload `json:"items"`
}

func (p *orderPayload) lines() []orders.LineInput {
	lines := make([]orders.LineInput, 0, len(p.Items))
	for _, item := range p.Items {
		lines = append(lines, orders.LineInput{
			ProductID:       item.ProductID,
			QuantityOrdered: item.QuantityOrdered,
			PriceEach:       item.PriceEach,
		})
	}
	return lines
}

// parseOrderDate accepts any common timestamp or plain date form.
func parseOrderDate(s string) (*time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, true
	}
	t, err := dateparse.ParseAny(s)
	if err != nil {
		return nil, false
	}
	return &t, true
}

// orderFail maps engine error kinds onto HTTP statuses.
func orderFail(c echo.Context, err error, fallback string) error {
	var oe *orders.Error
	if errors.As(err, &oe) {
		status := http.StatusInternalServerError
		switch oe.Kind {
		case orders.KindOrderNotFound, orders.KindProductNotFound, orders.KindCustomerNotFound:
			status = http.StatusNotFound
		case orders.KindInsufficientStock, orders.KindInvalidState, orders.KindInvalidStatus,
			orders.KindInvalidRequest, orders.KindNoChanges:
			status = http.StatusBadRequest
		case orders.KindConstraint:
			status = http.StatusConflict
		}
		var detail interface{}
		if oe.Kind == orders.KindInsufficientStock {
			detail = map[string]interface{}{"product_id": oe.ProductID, "available": oe.Available}
		}
		return fail(c, status, string(oe.Kind), oe.Message, detail)
	}
	return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", fallback, err.Error())
}

func listOrders(c echo.Context) error {
	page, pageSize := parsePagination(c)

	base := GetDB(c).Table("store_order AS o").
		Joins("LEFT JOIN store_customer cu ON cu.id = o.customer_id")

	if v := strings.TrimSpace(c.QueryParam("customerId")); v != "" {
		base = base.Where("o.customer_id = ?", cast.ToInt64(v))
	}
	if v := strings.TrimSpace(c.QueryParam("status")); v != "" {
		base = base.Where("o.status = ?", v)
	}
	if v := strings.TrimSpace(c.QueryParam("productIds")); v != "" {
		var ids []int64
		for _, s := range strings.Split(v, ",") {
			if n := cast.ToInt64(strings.TrimSpace(s)); n > 0 {
				ids = append(ids, n)
			}
		}
		if len(ids) > 0 {
			base = base.Where("o.id IN (SELECT order_id FROM store_order_item WHERE product_id IN ?)", ids)
		}
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query orders", err.Error())
	}

	var rows []orders.OrderView
	err := base.
		Select("o.id, o.customer_id, cu.fname || ' ' || cu.lname AS customer_name, " +
			"o.order_date, o.status, o.total_amount, o.profit, o.note, o.created_at, o.updated_at").
		Order("o.order_date DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Scan(&rows).Error
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query orders", err.Error())
	}
	return paged(c, rows, total, page, pageSize)
}

func getOrder(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid order ID", nil)
	}
	view, err := orders.NewService(GetDB(c)).GetOrder(c.Request().Context(), id)
	if err != nil {
		return orderFail(c, err, "Failed to query order")
	}
	return ok(c, view)
}

func createOrder(c echo.Context) error {
	var payload orderPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse order parameters", nil)
	}
	if payload.CustomerID <= 0 {
		return fail(c, http.StatusBadRequest, "MISSING_CUSTOMER", "Customer is required", nil)
	}
	orderDate, valid := parseOrderDate(payload.OrderDate)
	if !valid {
		return fail(c, http.StatusBadRequest, "INVALID_DATE", "Unable to parse order date", nil)
	}

	view, err := orders.NewService(GetDB(c)).CreateOrder(c.Request().Context(), orders.CreateInput{
		CustomerID: payload.CustomerID,
		OrderDate:  orderDate,
		Status:     payload.Status,
		Note:       payload.Note,
		Items:      payload.lines(),
	})
	if err != nil {
		return orderFail(c, err, "Failed to create order")
	}
	return created(c, view)
}

func updateOrder(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid order ID", nil)
	}
	var payload orderPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse order parameters", nil)
	}

	view, err := orders.NewService(GetDB(c)).UpdateOrder(c.Request().Context(), id, orders.UpdateInput{
		CustomerID: payload.CustomerID,
		Status:     payload.Status,
		Items:      payload.lines(),
	})
	if err != nil {
		return orderFail(c, err, "Failed to update order")
	}
	return ok(c, view)
}

func deleteOrder(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid order ID", nil)
	}
	if err := orders.NewService(GetDB(c)).DeleteOrder(c.Request().Context(), id); err != nil {
		return orderFail(c, err, "Failed to delete order")
	}
	return ok(c, map[string]interface{}{"id": id, "message": "Order deleted successfully"})
}
