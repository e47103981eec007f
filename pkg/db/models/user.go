package models

import (
	"time"

	"github.com/yahyarahhawi/StitchGuard-db/pkg/enums"
)

// User is a sewer or supervisor. AuthID carries the external identity
// provider subject; authentication itself is not enforced here.
type User struct {
	ID        int            `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name      string         `gorm:"column:name;type:text;not null" json:"name"`
	Email     string         `gorm:"column:email;type:text;not null;uniqueIndex" json:"email"`
	Role      enums.UserRole `gorm:"column:role;type:text;not null" json:"role"`
	AuthID    *string        `gorm:"column:auth_id;type:text;uniqueIndex" json:"auth_id,omitempty"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
