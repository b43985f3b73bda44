package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/farm2fork/farm2fork-backend/pkg/enums"
)

// VendorApplication is a request to join the marketplace as a vendor.
// Approval materializes a Vendor and an owning team membership.
type VendorApplication struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ApplicantID uuid.UUID `gorm:"column:applicant_id;type:uuid;not null;index"`

	BusinessName string `gorm:"column:business_name;not null"`
	Description  string `gorm:"column:description;not null;default:''"`
	StoryMission string `gorm:"column:story_mission;not null;default:''"`
	Email        string `gorm:"column:email;not null"`
	Phone        string `gorm:"column:phone;not null;default:''"`
	Address      string `gorm:"column:address;not null;default:''"`
	City         string `gorm:"column:city;not null;default:''"`
	State        string `gorm:"column:state;not null;default:''"`
	ZipCode      string `gorm:"column:zip_code;not null;default:''"`
	Country      string `gorm:"column:country;not null;default:''"`
	ServiceArea  string `gorm:"column:service_area;not null;default:''"`
	ShipsGoods   bool   `gorm:"column:ships_goods;not null;default:false"`

	Status          enums.ApplicationStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	ReviewedBy      *uuid.UUID              `gorm:"column:reviewed_by;type:uuid"`
	ReviewedAt      *time.Time              `gorm:"column:reviewed_at"`
	RejectionReason string                  `gorm:"column:rejection_reason;not null;default:''"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
