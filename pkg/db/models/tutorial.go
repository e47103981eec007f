package models

import "time"

// Tutorial is ordered instructional content attached to a product. At most
// one tutorial per product is conventionally active; the flag is not
// DB-enforced.
type Tutorial struct {
	ID          int            `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ProductID   int            `gorm:"column:product_id;not null;index" json:"product_id"`
	Title       string         `gorm:"column:title;type:text;not null" json:"title"`
	Description *string        `gorm:"column:description;type:text" json:"description,omitempty"`
	IsActive    bool           `gorm:"column:is_active;not null;default:false" json:"is_active"`
	Steps       []TutorialStep `gorm:"foreignKey:TutorialID;constraint:OnDelete:CASCADE" json:"steps,omitempty"`
	CreatedAt   time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// TutorialStep is one step of a tutorial; StepNumber is unique per tutorial.
type TutorialStep struct {
	ID          int       `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	TutorialID  int       `gorm:"column:tutorial_id;not null;uniqueIndex:idx_tutorial_step,priority:1" json:"tutorial_id"`
	StepNumber  int       `gorm:"column:step_number;not null;uniqueIndex:idx_tutorial_step,priority:2" json:"step_number"`
	Title       string    `gorm:"column:title;type:text;not null" json:"title"`
	Instruction *string   `gorm:"column:instruction;type:text" json:"instruction,omitempty"`
	ImageURL    *string   `gorm:"column:image_url;type:text" json:"image_url,omitempty"`
	VideoURL    *string   `gorm:"column:video_url;type:text" json:"video_url,omitempty"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}
