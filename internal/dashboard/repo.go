package dashboard

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/farm2fork/farm2fork-backend/internal/repo"
	"github.com/farm2fork/farm2fork-backend/pkg/db/models"
)

// GormRepository supplies the raw rows the aggregation engine works over.
type GormRepository struct {
	base repo.Base
}

// NewRepository constructs a dashboard repository bound to the provided DB.
func NewRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{base: repo.NewBase(db)}
}

// ListOrdersInWindow returns the vendor's orders created inside the window,
// items preloaded, optionally narrowed by buyer location.
func (r *GormRepository) ListOrdersInWindow(ctx context.Context, vendorID uuid.UUID, start, end time.Time, filters Filters) ([]models.Order, error) {
	query := r.base.DB(ctx).
		Preload("Items").
		Where("vendor_id = ?", vendorID).
		Where("created_at BETWEEN ? AND ?", start, end)
	if filters.BuyerState != "" {
		query = query.Where("LOWER(buyer_state) = LOWER(?)", filters.BuyerState)
	}
	if filters.BuyerCity != "" {
		query = query.Where("LOWER(buyer_city) = LOWER(?)", filters.BuyerCity)
	}

	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// ListReviewsInWindow returns the vendor's reviews created inside the window,
// responses preloaded.
func (r *GormRepository) ListReviewsInWindow(ctx context.Context, vendorID uuid.UUID, start, end time.Time) ([]models.Review, error) {
	var reviews []models.Review
	err := r.base.DB(ctx).
		Preload("Response").
		Where("vendor_id = ?", vendorID).
		Where("created_at BETWEEN ? AND ?", start, end).
		Find(&reviews).Error
	if err != nil {
		return nil, err
	}
	return reviews, nil
}

// ListCartItemsInWindow returns items of the vendor's carts whose carts were
// updated inside the window, live products attached.
func (r *GormRepository) ListCartItemsInWindow(ctx context.Context, vendorID uuid.UUID, start, end time.Time) ([]models.CartItem, error) {
	var items []models.CartItem
	err := r.base.DB(ctx).
		Preload("Product").
		Joins("JOIN carts ON carts.id = cart_items.cart_id").
		Where("carts.vendor_id = ?", vendorID).
		Where("carts.updated_at BETWEEN ? AND ?", start, end).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
