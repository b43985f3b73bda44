package models

import (
	"time"

	"github.com/google/uuid"
)

// Review is public consumer feedback on a vendor. Reviews are not tied to a
// user account; the consumer supplies a display name.
type Review struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	VendorID     uuid.UUID `gorm:"column:vendor_id;type:uuid;not null;index"`
	ConsumerName string    `gorm:"column:consumer_name;not null"`
	Rating       int       `gorm:"column:rating;not null"`
	Comment      string    `gorm:"column:comment;not null;default:''"`

	Response *ReviewResponse `gorm:"foreignKey:ReviewID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// ReviewResponse is the vendor's single reply to a review. At most one exists
// per review; repeat submissions update it in place.
type ReviewResponse struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ReviewID     uuid.UUID `gorm:"column:review_id;type:uuid;not null;uniqueIndex:uq_review_responses_review"`
	VendorID     uuid.UUID `gorm:"column:vendor_id;type:uuid;not null;index"`
	ResponseText string    `gorm:"column:response_text;not null"`
	IsPublic     bool      `gorm:"column:is_public;not null;default:true"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
