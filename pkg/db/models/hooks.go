package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Primary keys default to gen_random_uuid() in postgres; the hooks cover
// drivers without that default (sqlite in repository tests).
func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

func (m *User) BeforeCreate(*gorm.DB) error              { ensureID(&m.ID); return nil }
func (m *Vendor) BeforeCreate(*gorm.DB) error            { ensureID(&m.ID); return nil }
func (m *Product) BeforeCreate(*gorm.DB) error           { ensureID(&m.ID); return nil }
func (m *Cart) BeforeCreate(*gorm.DB) error              { ensureID(&m.ID); return nil }
func (m *CartItem) BeforeCreate(*gorm.DB) error          { ensureID(&m.ID); return nil }
func (m *Order) BeforeCreate(*gorm.DB) error             { ensureID(&m.ID); return nil }
func (m *OrderItem) BeforeCreate(*gorm.DB) error         { ensureID(&m.ID); return nil }
func (m *Review) BeforeCreate(*gorm.DB) error            { ensureID(&m.ID); return nil }
func (m *ReviewResponse) BeforeCreate(*gorm.DB) error    { ensureID(&m.ID); return nil }
func (m *VendorTeamMember) BeforeCreate(*gorm.DB) error  { ensureID(&m.ID); return nil }
func (m *VendorApplication) BeforeCreate(*gorm.DB) error { ensureID(&m.ID); return nil }
