package models

import (
	"time"

	"github.com/google/uuid"
)

// VendorTeamMember grants a user management access to one vendor. A user may
// belong to many vendors; each vendor has exactly one owner.
type VendorTeamMember struct {
	ID       uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID   uuid.UUID  `gorm:"column:user_id;type:uuid;not null;uniqueIndex:uq_team_members_user_vendor"`
	VendorID uuid.UUID  `gorm:"column:vendor_id;type:uuid;not null;uniqueIndex:uq_team_members_user_vendor"`
	IsOwner  bool       `gorm:"column:is_owner;not null;default:false"`
	AddedBy  *uuid.UUID `gorm:"column:added_by;type:uuid"`
	JoinedAt time.Time  `gorm:"column:joined_at;autoCreateTime"`

	User *User `gorm:"foreignKey:UserID"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
