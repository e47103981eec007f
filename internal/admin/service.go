package admin

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/yahyarahhawi/StitchGuard-db/pkg/logger"
)

// execer is satisfied by db.Client.
type execer interface {
	Exec(ctx context.Context, query string, args ...any) *gorm.DB
}

// StepResult records one migration step's outcome. Failures are
// informational: a failed step does not stop the run.
type StepResult struct {
	Step   string `json:"step"`
	OK     bool   `json:"ok"`
	Detail string `json:"detail,omitempty"`
}

// MigrationResult summarizes a one-shot migration run.
type MigrationResult struct {
	StartedAt time.Time    `json:"started_at"`
	Duration  string       `json:"duration"`
	Succeeded int          `json:"succeeded"`
	Failed    int          `json:"failed"`
	Steps     []StepResult `json:"steps"`
}

// Service runs the legacy schema reconciliations.
type Service interface {
	MigrateOrderAssignment(ctx context.Context) (*MigrationResult, error)
}

type migrationStep struct {
	name string
	sql  string
}

// Order assignment moved from a many-to-many assigned_sewers table to a
// direct sewer_id column, and the boolean passed column became the
// tri-state status. Each step is safe to re-run on an already-migrated
// database: it fails, gets recorded, and the run moves on.
var orderAssignmentSteps = []migrationStep{
	{
		name: "add_sewer_id_column",
		sql:  `ALTER TABLE orders ADD COLUMN sewer_id INTEGER`,
	},
	{
		name: "backfill_sewer_id_from_assigned_sewers",
		sql: `UPDATE orders SET sewer_id = (
			SELECT MIN(asg.sewer_id) FROM assigned_sewers asg WHERE asg.order_id = orders.id
		) WHERE sewer_id IS NULL`,
	},
	{
		name: "default_unassigned_orders_to_first_sewer",
		sql: `UPDATE orders SET sewer_id = (
			SELECT MIN(u.id) FROM users u WHERE u.role = 'sewer'
		) WHERE sewer_id IS NULL`,
	},
	{
		name: "enforce_sewer_id_not_null",
		sql:  `ALTER TABLE orders ALTER COLUMN sewer_id SET NOT NULL`,
	},
	{
		name: "drop_assigned_by_column",
		sql:  `ALTER TABLE orders DROP COLUMN assigned_by`,
	},
	{
		name: "add_status_column",
		sql:  `ALTER TABLE inspected_items ADD COLUMN status TEXT`,
	},
	{
		name: "convert_passed_boolean_to_status",
		sql: `UPDATE inspected_items SET status = CASE WHEN passed THEN 'PASSED' ELSE 'FAILED' END
			WHERE status IS NULL`,
	},
	{
		name: "drop_passed_column",
		sql:  `ALTER TABLE inspected_items DROP COLUMN passed`,
	},
	{
		name: "index_orders_sewer_id",
		sql:  `CREATE INDEX IF NOT EXISTS idx_orders_sewer_id ON orders (sewer_id)`,
	},
}

type service struct {
	db    execer
	logg  *logger.Logger
	steps []migrationStep
	now   func() time.Time
}

// NewService builds the admin migration runner.
func NewService(db execer, logg *logger.Logger) (Service, error) {
	if db == nil {
		return nil, fmt.Errorf("db client required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{db: db, logg: logg, steps: orderAssignmentSteps, now: time.Now}, nil
}

// MigrateOrderAssignment replays the order-assignment and item-status
// schema reconciliation. Step failures are collected, not fatal; the
// aggregated error is logged and the per-step outcomes are returned to
// the caller either way.
func (s *service) MigrateOrderAssignment(ctx context.Context) (*MigrationResult, error) {
	started := s.now().UTC()
	result := &MigrationResult{
		StartedAt: started,
		Steps:     make([]StepResult, 0, len(s.steps)),
	}

	var errs error
	for _, step := range s.steps {
		stepResult := StepResult{Step: step.name, OK: true}
		if err := s.db.Exec(ctx, step.sql).Error; err != nil {
			stepResult.OK = false
			stepResult.Detail = err.Error()
			result.Failed++
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", step.name, err))
		} else {
			result.Succeeded++
		}
		result.Steps = append(result.Steps, stepResult)
	}
	result.Duration = s.now().UTC().Sub(started).String()

	if errs != nil {
		s.logg.Error(ctx, "order assignment migration finished with failed steps", errs)
	} else {
		s.logg.Info(ctx, "order assignment migration finished cleanly")
	}
	return result, nil
}
