package analytics

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/yahyarahhawi/StitchGuard-db/pkg/db/models"
	"github.com/yahyarahhawi/StitchGuard-db/pkg/enums"
)

// DateRange bounds aggregation on inspected_at; both ends inclusive and
// optional.
type DateRange struct {
	Start *time.Time
	End   *time.Time
}

// OrderCounts is the order-level slice of the overview.
type OrderCounts struct {
	Total     int64
	Completed int64
}

// StatusCounts is an item tally bucketed by inspection status.
type StatusCounts struct {
	Total      int64
	Passed     int64
	Failed     int64
	Overridden int64
}

// FlawCount is one row of the flaw frequency ranking.
type FlawCount struct {
	FlawType string `json:"flaw_type"`
	Count    int64  `json:"count"`
}

// DayCounts is one day of the trend series.
type DayCounts struct {
	Day    string
	Total  int64
	Passed int64
	Failed int64
}

// Repository runs the aggregate queries behind the analytics endpoints.
type Repository interface {
	CountOrders(ctx context.Context) (OrderCounts, error)
	CountItems(ctx context.Context, dateRange DateRange) (StatusCounts, error)
	CountItemsForSewer(ctx context.Context, sewerID int, dateRange DateRange) (StatusCounts, error)
	TopFlaws(ctx context.Context, dateRange DateRange, limit int) ([]FlawCount, error)
	DailyCounts(ctx context.Context, since time.Time) ([]DayCounts, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an analytics repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CountOrders(ctx context.Context) (OrderCounts, error) {
	var counts OrderCounts
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Count(&counts.Total).Error
	if err != nil {
		return OrderCounts{}, err
	}
	err = r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("completed >= quantity").
		Count(&counts.Completed).Error
	if err != nil {
		return OrderCounts{}, err
	}
	return counts, nil
}

func (r *repository) CountItems(ctx context.Context, dateRange DateRange) (StatusCounts, error) {
	return r.countItems(ctx, r.itemsInRange(ctx, dateRange))
}

func (r *repository) CountItemsForSewer(ctx context.Context, sewerID int, dateRange DateRange) (StatusCounts, error) {
	query := r.itemsInRange(ctx, dateRange).Where("sewer_id = ?", sewerID)
	return r.countItems(ctx, query)
}

func (r *repository) countItems(_ context.Context, query *gorm.DB) (StatusCounts, error) {
	type row struct {
		Status enums.ItemStatus
		Count  int64
	}
	var rows []row
	err := query.
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return StatusCounts{}, err
	}

	var counts StatusCounts
	for _, r := range rows {
		counts.Total += r.Count
		switch r.Status {
		case enums.ItemStatusPassed:
			counts.Passed += r.Count
		case enums.ItemStatusOverridden:
			counts.Overridden += r.Count
		case enums.ItemStatusFailed:
			counts.Failed += r.Count
		}
	}
	return counts, nil
}

func (r *repository) TopFlaws(ctx context.Context, dateRange DateRange, limit int) ([]FlawCount, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Flaw{}).
		Joins("JOIN inspected_items ON inspected_items.id = flaws.item_id")
	if dateRange.Start != nil {
		query = query.Where("inspected_items.inspected_at >= ?", *dateRange.Start)
	}
	if dateRange.End != nil {
		query = query.Where("inspected_items.inspected_at <= ?", *dateRange.End)
	}

	var rows []FlawCount
	err := query.
		Select("flaws.flaw_type AS flaw_type, COUNT(*) AS count").
		Group("flaws.flaw_type").
		Order("count DESC, flaw_type ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) DailyCounts(ctx context.Context, since time.Time) ([]DayCounts, error) {
	type row struct {
		Day    string
		Status enums.ItemStatus
		Count  int64
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&models.InspectedItem{}).
		Select("DATE(inspected_at) AS day, status, COUNT(*) AS count").
		Where("inspected_at >= ?", since).
		Group("DATE(inspected_at), status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	byDay := map[string]*DayCounts{}
	order := make([]string, 0)
	for _, r := range rows {
		day, ok := byDay[r.Day]
		if !ok {
			day = &DayCounts{Day: r.Day}
			byDay[r.Day] = day
			order = append(order, r.Day)
		}
		day.Total += r.Count
		if r.Status.CountsAsPassed() {
			day.Passed += r.Count
		} else {
			day.Failed += r.Count
		}
	}

	out := make([]DayCounts, 0, len(order))
	for _, key := range order {
		out = append(out, *byDay[key])
	}
	return out, nil
}

func (r *repository) itemsInRange(ctx context.Context, dateRange DateRange) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.InspectedItem{})
	if dateRange.Start != nil {
		query = query.Where("inspected_at >= ?", *dateRange.Start)
	}
	if dateRange.End != nil {
		query = query.Where("inspected_at <= ?", *dateRange.End)
	}
	return query
}
