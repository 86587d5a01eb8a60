package domain

var Tables = []interface{}{
	// Store
	&StoreCustomer{},
	&StoreProduct{},
	&StoreOrder{},
	&StoreOrderItem{},
}
