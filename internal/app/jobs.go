package app

import (
	"os"

	"github.com/robfig/cron/v3"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/process"
	"go.uber.org/zap"

	"github.com/talkincode/storemom/internal/domain"
	"github.com/talkincode/storemom/pkg/common"
)

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

func (a *Application) initJob() {
	loc := common.MustLocation(a.appConfig.System.Location)
	a.sched = cron.New(cron.WithParser(cronParser), cron.WithLocation(loc))

	_, err := a.sched.AddFunc(a.appConfig.Jobs.LowStockSpec, func() {
		defer func() {
			if r := recover(); r != nil {
				zap.S().Errorf("low stock scan panic: %v", r)
			}
		}()
		a.SchedLowStockScan()
	})
	if err != nil {
		zap.S().Errorf("schedule low stock scan failed: %v", err)
	}

	_, err = a.sched.AddFunc(a.appConfig.Jobs.TotalsAuditSpec, func() {
		defer func() {
			if r := recover(); r != nil {
				zap.S().Errorf("order totals audit panic: %v", r)
			}
		}()
		a.SchedOrderTotalsAudit()
	})
	if err != nil {
		zap.S().Errorf("schedule order totals audit failed: %v", err)
	}

	_, err = a.sched.AddFunc("@every 30s", func() {
		go a.SchedSystemMonitorTask()
		go a.SchedProcessMonitorTask()
	})
	if err != nil {
		zap.S().Errorf("schedule system monitor failed: %v", err)
	}

	a.sched.Start()
	zap.S().Info("background jobs started")
}

// SchedSystemMonitorTask logs host CPU and memory usage.
func (a *Application) SchedSystemMonitorTask() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()

	fields := []zap.Field{zap.String("namespace", "jobs")}
	cpuuse, err := cpu.Percent(0, false)
	if err == nil && len(cpuuse) > 0 {
		fields = append(fields, zap.Float64("cpu_percent", cpuuse[0]))
	}
	meminfo, err := mem.VirtualMemory()
	if err == nil {
		fields = append(fields, zap.Uint64("mem_used_mb", meminfo.Used/1024/1024))
	}
	zap.L().Info("system usage", fields...)
}

// SchedProcessMonitorTask logs this process's CPU and memory usage.
func (a *Application) SchedProcessMonitorTask() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()

	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return
	}
	fields := []zap.Field{zap.String("namespace", "jobs")}
	cpuuse, err := p.CPUPercent()
	if err == nil {
		fields = append(fields, zap.Float64("cpu_percent", cpuuse))
	}
	meminfo, err := p.MemoryInfo()
	if err == nil {
		fields = append(fields, zap.Uint64("mem_rss_mb", meminfo.RSS/1024/1024))
	}
	zap.L().Info("process usage", fields...)
}

// SchedLowStockScan logs a warning for every product at or below the
// configured restock threshold.
func (a *Application) SchedLowStockScan() {
	threshold := a.appConfig.Jobs.LowStockThreshold
	if threshold <= 0 {
		return
	}
	var rows []domain.StoreProduct
	err := a.gormDB.
		Where("quantity_in_stock <= ?", threshold).
		Order("quantity_in_stock ASC").
		Find(&rows).Error
	if err != nil {
		zap.S().Errorf("low stock scan failed: %v", err)
		return
	}
	for _, p := range rows {
		zap.L().Warn("product low on stock",
			zap.Int64("product_id", p.ID),
			zap.String("name", p.Name),
			zap.Int("quantity_in_stock", p.QuantityInStock),
			zap.Int("threshold", threshold),
			zap.String("namespace", "jobs"),
		)
	}
}

type totalsAuditRow struct {
	OrderID     int64   `gorm:"column:order_id"`
	TotalAmount float64 `gorm:"column:total_amount"`
	LineTotal   float64 `gorm:"column:line_total"`
}

// SchedOrderTotalsAudit recomputes each order's line total and reports
// headers that drifted from their items. Detection only, no repair.
func (a *Application) SchedOrderTotalsAudit() {
	var rows []totalsAuditRow
	err := a.gormDB.Raw(`
		SELECT o.id AS order_id, o.total_amount,
		       COALESCE(SUM(i.price_each * i.quantity_ordered), 0) AS line_total
		FROM store_order o
		LEFT JOIN store_order_item i ON i.order_id = o.id
		GROUP BY o.id, o.total_amount
		HAVING ABS(o.total_amount - COALESCE(SUM(i.price_each * i.quantity_ordered), 0)) > 0.005`).
		Scan(&rows).Error
	if err != nil {
		zap.S().Errorf("order totals audit failed: %v", err)
		return
	}
	if len(rows) == 0 {
		zap.S().Debug("order totals audit clean")
		return
	}
	for _, r := range rows {
		zap.L().Error("order total does not match its items",
			zap.Int64("order_id", r.OrderID),
			zap.Float64("total_amount", r.TotalAmount),
			zap.Float64("line_total", r.LineTotal),
			zap.String("namespace", "jobs"),
		)
	}
}
