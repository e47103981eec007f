package models

import (
	"time"

	"github.com/yahyarahhawi/StitchGuard-db/pkg/enums"
)

// MLModel is metadata for an inspection model. Only the weight file URL is
// stored; execution happens on the device.
type MLModel struct {
	ID          int                  `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name        string               `gorm:"column:name;type:text;not null" json:"name"`
	Type        *string              `gorm:"column:type;type:text" json:"type,omitempty"`
	Version     *string              `gorm:"column:version;type:text" json:"version,omitempty"`
	Description *string              `gorm:"column:description;type:text" json:"description,omitempty"`
	Platform    *enums.ModelPlatform `gorm:"column:platform;type:text" json:"platform,omitempty"`
	FileURL     *string              `gorm:"column:file_url;type:text" json:"file_url,omitempty"`
	ProductID   *int                 `gorm:"column:product_id" json:"product_id,omitempty"`
	CreatedAt   time.Time            `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time            `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// TableName keeps the legacy table name rather than GORM's "ml_models".
func (MLModel) TableName() string {
	return "models"
}
