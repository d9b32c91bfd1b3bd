package services

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"PosInventory/app/cache"
	"PosInventory/app/costing"
	"PosInventory/app/logger"
	"PosInventory/app/models"
)

// UsageReport is the cost-annotated theoretical usage for a location and
// date range. It is a management report: building one never mutates stock.
type UsageReport struct {
	LocationID     uint          `json:"location_id"`
	StartDate      time.Time     `json:"start_date"`
	EndDate        time.Time     `json:"end_date"`
	Department     string        `json:"department,omitempty"`
	OrderCount     int           `json:"order_count"`
	Rows           []UsageRecord `json:"rows"`
	GrandTotalCost float64       `json:"grand_total_cost"`
	GeneratedAt    time.Time     `json:"generated_at"`
}

// UsageReportService drives the usage aggregator across completed orders
type UsageReportService struct {
	*BaseService
	usageSvc    *UsageService
	settingsSvc *SettingsService
	log         zerolog.Logger
	reportCache *cache.ReportCache // optional, injected by the caller
}

// NewUsageReportService creates a new usage report service
func NewUsageReportService() *UsageReportService {
	return NewUsageReportServiceWithDB(nil)
}

// NewUsageReportServiceWithDB creates a report service bound to an explicit
// database handle (useful for testing)
func NewUsageReportServiceWithDB(db *gorm.DB) *UsageReportService {
	svc := &UsageReportService{
		BaseService: NewBaseService(),
		log:         logger.For("usage_report"),
	}
	if db != nil {
		svc.SetDB(db)
	}
	svc.usageSvc = NewUsageServiceWithDB(svc.GetDB())
	svc.settingsSvc = NewSettingsServiceWithDB(svc.GetDB())
	return svc
}

// SetReportCache injects an explicit bounded cache for repeated report
// requests. Without one, every call recomputes.
func (s *UsageReportService) SetReportCache(c *cache.ReportCache) {
	s.reportCache = c
}

// CalculateTheoreticalUsage aggregates theoretical inventory usage across
// every completed or paid order for a location in [start, end], optionally
// filtered by department (case-insensitive). Read-only.
func (s *UsageReportService) CalculateTheoreticalUsage(locationID uint, start, end time.Time, department string) (*UsageReport, error) {
	if err := s.EnsureDB(); err != nil {
		return nil, err
	}

	cacheKey := fmt.Sprintf("usage:%d:%d:%d:%s", locationID, start.Unix(), end.Unix(), strings.ToLower(department))
	if s.reportCache != nil {
		if cached, ok := s.reportCache.Get(cacheKey); ok {
			return cached.(*UsageReport), nil
		}
	}

	var orders []models.Order
	err := s.GetDB().
		Where("location_id = ?", locationID).
		Where("status IN ?", []string{string(models.OrderStatusCompleted), string(models.OrderStatusPaid)}).
		Where("created_at BETWEEN ? AND ?", start, end).
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load orders: %w", err)
	}

	report := &UsageReport{
		LocationID:  locationID,
		StartDate:   start,
		EndDate:     end,
		Department:  department,
		OrderCount:  len(orders),
		GeneratedAt: time.Now().UTC(),
	}

	if len(orders) > 0 {
		orderIDs := make([]uint, len(orders))
		for i, o := range orders {
			orderIDs[i] = o.ID
		}
		items, err := s.usageSvc.LoadOrderItemsForOrders(orderIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to load order items: %w", err)
		}

		settings := MultiplierSettingsFrom(s.settingsSvc.GetOrDefault(locationID))
		usage := s.usageSvc.AggregateUsage(items, settings, department)

		rows := make([]UsageRecord, 0, len(usage))
		costs := make([]float64, 0, len(usage))
		for _, rec := range usage {
			rows = append(rows, *rec)
			costs = append(costs, rec.TotalCost)
		}
		sort.Slice(rows, func(i, j int) bool {
			if rows[i].Category != rows[j].Category {
				return rows[i].Category < rows[j].Category
			}
			return rows[i].Name < rows[j].Name
		})
		report.Rows = rows
		report.GrandTotalCost = costing.SumCosts(costs)
	}

	if s.reportCache != nil {
		s.reportCache.Put(cacheKey, report)
	}

	s.log.Info().
		Uint("location_id", locationID).
		Int("order_count", report.OrderCount).
		Int("row_count", len(report.Rows)).
		Float64("grand_total_cost", report.GrandTotalCost).
		Msg("theoretical usage report generated")

	return report, nil
}
