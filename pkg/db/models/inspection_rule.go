package models

import (
	"time"

	"github.com/yahyarahhawi/StitchGuard-db/pkg/enums"
)

// InspectionRule maps (product, orientation, flaw type) to a pass/fail/alert
// action. StabilitySeconds is how long a detection must persist before the
// rule fires; the mobile client interprets it.
type InspectionRule struct {
	ID               int            `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ProductID        int            `gorm:"column:product_id;not null;index" json:"product_id"`
	Orientation      string         `gorm:"column:orientation;type:text;not null" json:"orientation"`
	FlawType         string         `gorm:"column:flaw_type;type:text;not null" json:"flaw_type"`
	RuleType         enums.RuleType `gorm:"column:rule_type;type:text;not null" json:"rule_type"`
	StabilitySeconds float64        `gorm:"column:stability_seconds;not null;default:3.0" json:"stability_seconds"`
	CreatedAt        time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}
