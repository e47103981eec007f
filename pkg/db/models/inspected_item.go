package models

import (
	"time"

	"github.com/yahyarahhawi/StitchGuard-db/pkg/enums"
)

// InspectedItem is one scanned garment unit. SerialNumber is globally
// unique, not per-order. InspectedAt is the business timestamp supplied by
// the client; CreatedAt is when the record landed and is what the progress
// recompute window filters on.
type InspectedItem struct {
	ID            int              `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	SerialNumber  string           `gorm:"column:serial_number;type:text;not null;uniqueIndex" json:"serial_number"`
	OrderID       int              `gorm:"column:order_id;not null;index" json:"order_id"`
	SewerID       int              `gorm:"column:sewer_id;not null;index" json:"sewer_id"`
	Status        enums.ItemStatus `gorm:"column:status;type:text;not null" json:"status"`
	FrontImageURL *string          `gorm:"column:front_image_url;type:text" json:"front_image_url,omitempty"`
	BackImageURL  *string          `gorm:"column:back_image_url;type:text" json:"back_image_url,omitempty"`
	Flaws         []Flaw           `gorm:"foreignKey:ItemID;constraint:OnDelete:CASCADE" json:"flaws"`
	InspectedAt   time.Time        `gorm:"column:inspected_at;not null" json:"inspected_at"`
	CreatedAt     time.Time        `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

// Flaw is a defect observed in one orientation of an inspected item.
type Flaw struct {
	ID          int       `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ItemID      int       `gorm:"column:item_id;not null;index" json:"item_id"`
	FlawType    string    `gorm:"column:flaw_type;type:text;not null" json:"flaw_type"`
	Orientation string    `gorm:"column:orientation;type:text;not null" json:"orientation"`
	DetectedAt  time.Time `gorm:"column:detected_at;not null" json:"detected_at"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}
