package analytics

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/yahyarahhawi/StitchGuard-db/pkg/db/models"
	pkgerrors "github.com/yahyarahhawi/StitchGuard-db/pkg/errors"
)

const (
	defaultFlawLimit = 10
	defaultTrendDays = 30
	maxTrendDays     = 365
)

type usersRepository interface {
	FindByID(ctx context.Context, id int) (*models.User, error)
}

// Overview is the factory-wide rollup.
type Overview struct {
	TotalOrders     int64   `json:"total_orders"`
	CompletedOrders int64   `json:"completed_orders"`
	PendingOrders   int64   `json:"pending_orders"`
	TotalItems      int64   `json:"total_items"`
	PassedItems     int64   `json:"passed_items"`
	FailedItems     int64   `json:"failed_items"`
	PassRate        float64 `json:"pass_rate"`
}

// UserStats is one sewer's inspection tally.
type UserStats struct {
	UserID   int     `json:"user_id"`
	Name     string  `json:"name"`
	Total    int64   `json:"total_inspections"`
	Passed   int64   `json:"passed"`
	Failed   int64   `json:"failed"`
	PassRate float64 `json:"pass_rate"`
}

// DailyTrend is one day of the trend series, zero-filled for quiet days.
type DailyTrend struct {
	Date     string  `json:"date"`
	Total    int64   `json:"total"`
	Passed   int64   `json:"passed"`
	Failed   int64   `json:"failed"`
	PassRate float64 `json:"pass_rate"`
}

// Service answers the reporting queries.
type Service interface {
	GetOverview(ctx context.Context, dateRange DateRange) (*Overview, error)
	GetUserStats(ctx context.Context, userID int, dateRange DateRange) (*UserStats, error)
	GetFlawFrequency(ctx context.Context, dateRange DateRange, limit int) ([]FlawCount, error)
	GetDailyTrends(ctx context.Context, days int) ([]DailyTrend, error)
}

type service struct {
	repo     Repository
	userRepo usersRepository
	now      func() time.Time
}

// NewService builds the analytics aggregator.
func NewService(repo Repository, userRepo usersRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("analytics repository required")
	}
	if userRepo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	return &service{repo: repo, userRepo: userRepo, now: time.Now}, nil
}

func (s *service) GetOverview(ctx context.Context, dateRange DateRange) (*Overview, error) {
	if err := validateRange(dateRange); err != nil {
		return nil, err
	}

	orderCounts, err := s.repo.CountOrders(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count orders")
	}
	itemCounts, err := s.repo.CountItems(ctx, dateRange)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count items")
	}

	passed := itemCounts.Passed + itemCounts.Overridden
	return &Overview{
		TotalOrders:     orderCounts.Total,
		CompletedOrders: orderCounts.Completed,
		PendingOrders:   orderCounts.Total - orderCounts.Completed,
		TotalItems:      itemCounts.Total,
		PassedItems:     passed,
		FailedItems:     itemCounts.Failed,
		PassRate:        passRate(passed, itemCounts.Total),
	}, nil
}

func (s *service) GetUserStats(ctx context.Context, userID int, dateRange DateRange) (*UserStats, error) {
	if err := validateRange(dateRange); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup user")
	}

	counts, err := s.repo.CountItemsForSewer(ctx, userID, dateRange)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count user items")
	}

	passed := counts.Passed + counts.Overridden
	return &UserStats{
		UserID:   user.ID,
		Name:     user.Name,
		Total:    counts.Total,
		Passed:   passed,
		Failed:   counts.Failed,
		PassRate: passRate(passed, counts.Total),
	}, nil
}

func (s *service) GetFlawFrequency(ctx context.Context, dateRange DateRange, limit int) ([]FlawCount, error) {
	if err := validateRange(dateRange); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultFlawLimit
	}

	rows, err := s.repo.TopFlaws(ctx, dateRange, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rank flaws")
	}
	return rows, nil
}

func (s *service) GetDailyTrends(ctx context.Context, days int) ([]DailyTrend, error) {
	if days == 0 {
		days = defaultTrendDays
	}
	if days < 1 || days > maxTrendDays {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("days must be between 1 and %d", maxTrendDays))
	}

	// trailing window includes today as its last day
	today := s.now().UTC().Truncate(24 * time.Hour)
	start := today.AddDate(0, 0, -(days - 1))

	rows, err := s.repo.DailyCounts(ctx, start)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count daily items")
	}

	byDay := make(map[string]DayCounts, len(rows))
	for _, row := range rows {
		byDay[row.Day] = row
	}

	trends := make([]DailyTrend, 0, days)
	for i := 0; i < days; i++ {
		date := start.AddDate(0, 0, i).Format("2006-01-02")
		counts := byDay[date]
		trends = append(trends, DailyTrend{
			Date:     date,
			Total:    counts.Total,
			Passed:   counts.Passed,
			Failed:   counts.Failed,
			PassRate: passRate(counts.Passed, counts.Total),
		})
	}
	return trends, nil
}

// passRate is exactly 0 when nothing was inspected, never NaN.
func passRate(passed, total int64) float64 {
	if total == 0 {
		return 0
	}
	return float64(passed) / float64(total) * 100
}

func validateRange(dateRange DateRange) error {
	if dateRange.Start != nil && dateRange.End != nil && dateRange.End.Before(*dateRange.Start) {
		return pkgerrors.New(pkgerrors.CodeValidation, "end_date must not precede start_date")
	}
	return nil
}
