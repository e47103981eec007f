package models

import (
	"time"
)

// Order is a production run of Quantity units of one product, created by a
// supervisor and assigned to a single sewer. Completed is a cached counter
// reconciled from inspected_items; it is never trusted as a source of truth
// beyond the 0 <= completed <= quantity bound enforced on update.
type Order struct {
	ID             int             `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name           string          `gorm:"column:name;type:text;not null" json:"name"`
	SupervisorID   int             `gorm:"column:supervisor_id;not null;index" json:"supervisor_id"`
	SewerID        int             `gorm:"column:sewer_id;not null;index" json:"sewer_id"`
	ProductID      int             `gorm:"column:product_id;not null;index" json:"product_id"`
	Quantity       int             `gorm:"column:quantity;not null" json:"quantity"`
	Completed      int             `gorm:"column:completed;not null;default:0" json:"completed"`
	Deadline       time.Time       `gorm:"column:deadline;type:date;not null" json:"deadline"`
	InspectedItems []InspectedItem `gorm:"foreignKey:OrderID" json:"-"`
	ShippingDetail *ShippingDetail `gorm:"foreignKey:OrderID" json:"-"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
