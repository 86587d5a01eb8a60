package app

import (
	"time"

	"go.uber.org/zap"

	"github.com/talkincode/storemom/internal/domain"
)

// checkDemoCustomer seeds a walk-in customer so a fresh install can take
// orders immediately.
func (a *Application) checkDemoCustomer() {
	var count int64
	a.gormDB.Model(&domain.StoreCustomer{}).Count(&count)
	if count > 0 {
		return
	}
	err := a.gormDB.Create(&domain.StoreCustomer{
		Fname:     "Walk-in",
		Lname:     "Customer",
		Phone:     "0000000000",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}).Error
	if err != nil {
		zap.S().Errorf("seed customer failed: %v", err)
	}
}

// checkDemoProducts seeds a small starter catalog on an empty database.
func (a *Application) checkDemoProducts() {
	var count int64
	a.gormDB.Model(&domain.StoreProduct{}).Count(&count)
	if count > 0 {
		return
	}
	now := time.Now()
	items := []domain.StoreProduct{
		{Name: "Drinking Water", Price: 5, SellPrice: 7, QuantityInStock: 120, Volume: "600ml", CreatedAt: now, UpdatedAt: now},
		{Name: "Instant Noodles", Price: 6, SellPrice: 8, QuantityInStock: 80, Volume: "60g", CreatedAt: now, UpdatedAt: now},
		{Name: "Jasmine Rice", Price: 38, SellPrice: 45, QuantityInStock: 25, Volume: "1kg", CreatedAt: now, UpdatedAt: now},
	}
	for i := range items {
		if err := a.gormDB.Create(&items[i]).Error; err != nil {
			zap.S().Errorf("seed product %s failed: %v", items[i].Name, err)
		}
	}
	zap.S().Infof("seeded %d starter products", len(items))
}
