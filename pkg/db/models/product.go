package models

import (
	"time"

	"github.com/lib/pq"
)

// Product is a garment style. Orientations live in product_orientations;
// the OrientationsRequired array column is the pre-normalization shape and
// is kept read-only for older mobile clients.
type Product struct {
	ID                   int                  `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name                 string               `gorm:"column:name;type:text;not null" json:"name"`
	Description          *string              `gorm:"column:description;type:text" json:"description,omitempty"`
	OrientationsRequired pq.StringArray       `gorm:"column:orientations_required;type:text[]" json:"orientations_required"`
	Orientations         []ProductOrientation `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"orientations,omitempty"`
	InspectionRules      []InspectionRule     `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt            time.Time            `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt            time.Time            `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// ProductOrientation is one required viewing angle, unique per product.
type ProductOrientation struct {
	ID          int       `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ProductID   int       `gorm:"column:product_id;not null;uniqueIndex:idx_product_orientation,priority:1" json:"product_id"`
	Orientation string    `gorm:"column:orientation;type:text;not null;uniqueIndex:idx_product_orientation,priority:2" json:"orientation"`
	Position    int       `gorm:"column:position;not null;default:0" json:"position"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}
