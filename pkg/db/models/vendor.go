package models

import (
	"time"

	"github.com/google/uuid"
)

// Vendor is a farm or food business selling through the marketplace.
type Vendor struct {
	ID              uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name            string     `gorm:"column:name;not null;uniqueIndex:uq_vendors_name"`
	Description     string     `gorm:"column:description;not null;default:''"`
	StoryMission    string     `gorm:"column:story_mission;not null;default:''"`
	Email           string     `gorm:"column:email;not null;default:''"`
	Phone           string     `gorm:"column:phone;not null;default:''"`
	Address         string     `gorm:"column:address;not null;default:''"`
	City            string     `gorm:"column:city;not null;default:''"`
	State           string     `gorm:"column:state;not null;default:''"`
	ZipCode         string     `gorm:"column:zip_code;not null;default:''"`
	Country         string     `gorm:"column:country;not null;default:''"`
	ServiceArea     string     `gorm:"column:service_area;not null;default:''"`
	ShipsGoods      bool       `gorm:"column:ships_goods;not null;default:false"`
	IsActive        bool       `gorm:"column:is_active;not null;default:true"`
	IsVerified      bool       `gorm:"column:is_verified;not null;default:false"`
	FeaturePriority int        `gorm:"column:feature_priority;not null;default:0"`
	ApplicationID   *uuid.UUID `gorm:"column:application_id;type:uuid"`

	Products    []Product          `gorm:"foreignKey:VendorID;constraint:OnDelete:CASCADE"`
	Reviews     []Review           `gorm:"foreignKey:VendorID;constraint:OnDelete:CASCADE"`
	TeamMembers []VendorTeamMember `gorm:"foreignKey:VendorID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
