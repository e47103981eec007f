package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ShippingDetail is the single shipment record for a completed order.
// The unique index on order_id backs the application-level duplicate check.
type ShippingDetail struct {
	ID              int              `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	OrderID         int              `gorm:"column:order_id;not null;uniqueIndex" json:"order_id"`
	Address         string           `gorm:"column:address;type:text;not null" json:"address"`
	ShippingMethod  string           `gorm:"column:shipping_method;type:text;not null" json:"shipping_method"`
	TrackingNumber  string           `gorm:"column:tracking_number;type:text;not null" json:"tracking_number"`
	CompletionDate  *time.Time       `gorm:"column:completion_date;type:date" json:"completion_date,omitempty"`
	ShippingCost    *decimal.Decimal `gorm:"column:shipping_cost;type:numeric(10,2)" json:"shipping_cost,omitempty"`
	ReceiptPhotoURL *string          `gorm:"column:receipt_photo_url;type:text" json:"receipt_photo_url,omitempty"`
	Notes           *string          `gorm:"column:notes;type:text" json:"notes,omitempty"`
	ShippedAt       *time.Time       `gorm:"column:shipped_at" json:"shipped_at,omitempty"`
	CreatedAt       time.Time        `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time        `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
