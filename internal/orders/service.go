package orders

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/talkincode/storemom/internal/domain"
)

// Service is the order lifecycle engine. Every mutation runs as one database
// transaction that validates stock, keeps order totals reconciled with the
// item set and never drives a product's stock below zero. On postgres the
// product rows touched by a mutation are read with row locks so concurrent
// mutations of the same product serialize instead of overselling.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// LineInput is one requested order line.
type LineInput struct {
	ProductID       int64   `json:"product_id"`
	QuantityOrdered int     `json:"quantity_ordered"`
	PriceEach       float64 `json:"price_each"`
}

// CreateInput carries a new order request. Status defaults to pending and
// OrderDate to now when omitted.
type CreateInput struct {
	CustomerID int64       `json:"customer_id"`
	OrderDate  *time.Time  `json:"order_date"`
	Status     string      `json:"status"`
	Note       string      `json:"note"`
	Items      []LineInput `json:"items"`
}

// UpdateInput carries an order edit. Zero values mean "not provided"; a
// non-empty Items slice requests a full item-set replacement, which is only
// permitted while the order is pending.
type UpdateInput struct {
	CustomerID int64       `json:"customer_id"`
	Status     string      `json:"status"`
	Items      []LineInput `json:"items"`
}

// normalizeLines validates the requested lines and merges duplicate product
// lines into one (quantities summed, the last price wins). The UI merges
// duplicates before submission; the engine does not rely on that.
func normalizeLines(items []LineInput) ([]LineInput, error) {
	if len(items) == 0 {
		return nil, errInvalidRequest("at least one order item is required")
	}
	merged := make([]LineInput, 0, len(items))
	index := make(map[int64]int, len(items))
	for _, l := range items {
		if l.ProductID <= 0 {
			return nil, errInvalidRequest("order item product_id is required")
		}
		if l.QuantityOrdered <= 0 {
			return nil, errInvalidRequest("order item quantity must be greater than zero")
		}
		if l.PriceEach <= 0 {
			return nil, errInvalidRequest("order item price must be greater than zero")
		}
		if i, ok := index[l.ProductID]; ok {
			merged[i].QuantityOrdered += l.QuantityOrdered
			merged[i].PriceEach = l.PriceEach
			continue
		}
		index[l.ProductID] = len(merged)
		merged = append(merged, l)
	}
	return merged, nil
}

// lockForUpdate adds SELECT ... FOR UPDATE on databases that support it.
// sqlite serializes writers on its own.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

func customerExists(tx *gorm.DB, cid int64) error {
	var count int64
	if err := tx.Model(&domain.StoreCustomer{}).Where("id = ?", cid).Count(&count).Error; err != nil {
		return errors.Wrap(err, "query customer")
	}
	if count == 0 {
		return errCustomerNotFound(cid)
	}
	return nil
}

// applyLines inserts the item rows for orderID and decrements stock,
// returning the computed total amount and profit. Profit uses each product's
// reference price at read time as cost-at-sale. The stock decrement is
// guarded so it can never produce a negative counter even without row locks.
func (s *Service) applyLines(tx *gorm.DB, orderID int64, lines []LineInput) (total, profit float64, err error) {
	for _, l := range lines {
		var product domain.StoreProduct
		err := lockForUpdate(tx).Where("id = ?", l.ProductID).First(&product).Error
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return 0, 0, errProductNotFound(l.ProductID)
		} else if err != nil {
			return 0, 0, errors.Wrap(err, "query product")
		}
		if product.QuantityInStock < l.QuantityOrdered {
			return 0, 0, errInsufficientStock(l.ProductID, l.QuantityOrdered, product.QuantityInStock)
		}

		item := domain.StoreOrderItem{
			OrderID:         orderID,
			ProductID:       l.ProductID,
			QuantityOrdered: l.QuantityOrdered,
			PriceEach:       l.PriceEach,
		}
		if err := tx.Create(&item).Error; err != nil {
			return 0, 0, errors.Wrap(err, "create order item")
		}

		res := tx.Model(&domain.StoreProduct{}).
			Where("id = ? AND quantity_in_stock >= ?", l.ProductID, l.QuantityOrdered).
			Update("quantity_in_stock", gorm.Expr("quantity_in_stock - ?", l.QuantityOrdered))
		if res.Error != nil {
			return 0, 0, errors.Wrap(res.Error, "decrement stock")
		}
		if res.RowsAffected == 0 {
			// stock changed underneath us; abort rather than go negative
			return 0, 0, errInsufficientStock(l.ProductID, l.QuantityOrdered, product.QuantityInStock)
		}

		if err := s.recordLastSalePrice(tx, l.ProductID, l.PriceEach); err != nil {
			return 0, 0, err
		}

		total += l.PriceEach * float64(l.QuantityOrdered)
		profit += (l.PriceEach - product.Price) * float64(l.QuantityOrdered)
	}
	return total, profit, nil
}

// recordLastSalePrice writes the sold price back onto the product as its
// current sell price. Kept as a separate step so the side effect stays
// disentangled from the stock arithmetic.
func (s *Service) recordLastSalePrice(tx *gorm.DB, productID int64, price float64) error {
	err := tx.Model(&domain.StoreProduct{}).
		Where("id = ?", productID).
		Update("sell_price", price).Error
	return errors.Wrap(err, "record sale price")
}

// restoreStock increments stock for every line of orderID, undoing the
// decrements applied when the lines were created.
func (s *Service) restoreStock(tx *gorm.DB, orderID int64) error {
	var items []domain.StoreOrderItem
	if err := tx.Where("order_id = ?", orderID).Find(&items).Error; err != nil {
		return errors.Wrap(err, "query order items")
	}
	for _, item := range items {
		err := tx.Model(&domain.StoreProduct{}).
			Where("id = ?", item.ProductID).
			Update("quantity_in_stock", gorm.Expr("quantity_in_stock + ?", item.QuantityOrdered)).Error
		if err != nil {
			return errors.Wrap(err, "restore stock")
		}
	}
	return nil
}

// CreateOrder creates an order with its item set, decrementing stock and
// computing totals atomically. Nothing is persisted when any line fails.
func (s *Service) CreateOrder(ctx context.Context, in CreateInput) (*OrderView, error) {
	lines, err := normalizeLines(in.Items)
	if err != nil {
		return nil, err
	}
	status := in.Status
	if status == "" {
		status = domain.OrderStatusPending
	}
	if !domain.ValidOrderStatus(status) {
		return nil, errInvalidStatus(status)
	}
	orderDate := time.Now()
	if in.OrderDate != nil && !in.OrderDate.IsZero() {
		orderDate = *in.OrderDate
	}

	var out *OrderView
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := customerExists(tx, in.CustomerID); err != nil {
			return err
		}
		order := domain.StoreOrder{
			CustomerID: in.CustomerID,
			OrderDate:  orderDate,
			Status:     status,
			Note:       in.Note,
		}
		if err := tx.Create(&order).Error; err != nil {
			return errors.Wrap(err, "create order")
		}
		total, profit, err := s.applyLines(tx, order.ID, lines)
		if err != nil {
			return err
		}
		if err := tx.Model(&order).Updates(map[string]interface{}{
			"total_amount": total,
			"profit":       profit,
		}).Error; err != nil {
			return errors.Wrap(err, "update order totals")
		}
		out, err = s.headerView(tx, order.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateOrder applies any subset of {status, customer, items} to an order.
// Item replacement first restores the stock consumed by the existing lines,
// then runs the new lines against that restored view; a failure rolls the
// restoration back together with everything else.
func (s *Service) UpdateOrder(ctx context.Context, id int64, in UpdateInput) (*OrderView, error) {
	var out *OrderView
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order domain.StoreOrder
		if err := tx.Where("id = ?", id).First(&order).Error; stderrors.Is(err, gorm.ErrRecordNotFound) {
			return errOrderNotFound(id)
		} else if err != nil {
			return errors.Wrap(err, "query order")
		}

		updates := map[string]interface{}{}
		if in.Status != "" {
			if !domain.ValidOrderStatus(in.Status) {
				return errInvalidStatus(in.Status)
			}
			updates["status"] = in.Status
		}
		if in.CustomerID != 0 {
			if err := customerExists(tx, in.CustomerID); err != nil {
				return err
			}
			updates["customer_id"] = in.CustomerID
		}

		if len(in.Items) > 0 {
			if order.Status != domain.OrderStatusPending {
				return errInvalidState("editing items is only allowed for pending orders")
			}
			lines, err := normalizeLines(in.Items)
			if err != nil {
				return err
			}
			if err := s.restoreStock(tx, order.ID); err != nil {
				return err
			}
			if err := tx.Where("order_id = ?", order.ID).Delete(&domain.StoreOrderItem{}).Error; err != nil {
				return errors.Wrap(err, "delete order items")
			}
			total, profit, err := s.applyLines(tx, order.ID, lines)
			if err != nil {
				return err
			}
			updates["total_amount"] = total
			updates["profit"] = profit
		} else if len(updates) == 0 {
			return errNoChanges()
		}

		if err := tx.Model(&order).Updates(updates).Error; err != nil {
			return errors.Wrap(err, "update order")
		}
		var err error
		out, err = s.headerView(tx, order.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteOrder removes an order and its items, restoring all consumed stock.
// The order header is checked directly, so an order that somehow has no
// lines is still deletable.
func (s *Service) DeleteOrder(ctx context.Context, id int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order domain.StoreOrder
		if err := tx.Where("id = ?", id).First(&order).Error; stderrors.Is(err, gorm.ErrRecordNotFound) {
			return errOrderNotFound(id)
		} else if err != nil {
			return errors.Wrap(err, "query order")
		}
		if err := s.restoreStock(tx, order.ID); err != nil {
			return err
		}
		if err := tx.Where("order_id = ?", order.ID).Delete(&domain.StoreOrderItem{}).Error; err != nil {
			return errors.Wrap(err, "delete order items")
		}
		if err := tx.Delete(&order).Error; err != nil {
			return errors.Wrap(err, "delete order")
		}
		return nil
	})
}

// GetOrder returns the full read model: header with customer name plus
// items joined with product name, current reference price and subtotal.
func (s *Service) GetOrder(ctx context.Context, id int64) (*OrderDetailView, error) {
	db := s.db.WithContext(ctx)
	header, err := s.headerView(db, id)
	if err != nil {
		return nil, err
	}
	var items []OrderItemView
	err = db.Table("store_order_item AS i").
		Select("i.id, i.order_id, i.product_id, p.name AS product_name, " +
			"i.quantity_ordered, i.price_each, p.price AS original_price, " +
			"i.price_each * i.quantity_ordered AS subtotal").
		Joins("LEFT JOIN store_product p ON p.id = i.product_id").
		Where("i.order_id = ?", id).
		Order("i.id").
		Scan(&items).Error
	if err != nil {
		return nil, errors.Wrap(err, "query order items")
	}
	return &OrderDetailView{OrderView: *header, Items: items}, nil
}

// headerView reads the order header joined with the customer name.
func (s *Service) headerView(db *gorm.DB, id int64) (*OrderView, error) {
	var v OrderView
	err := db.Table("store_order AS o").
		Select("o.id, o.customer_id, c.fname || ' ' || c.lname AS customer_name, " +
			"o.order_date, o.status, o.total_amount, o.profit, o.note, " +
			"o.created_at, o.updated_at").
		Joins("LEFT JOIN store_customer c ON c.id = o.customer_id").
		Where("o.id = ?", id).
		Scan(&v).Error
	if err != nil {
		return nil, errors.Wrap(err, "query order")
	}
	if v.ID == 0 {
		return nil, errOrderNotFound(id)
	}
	return &v, nil
}
