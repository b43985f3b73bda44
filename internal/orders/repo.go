package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/farm2fork/farm2fork-backend/internal/repo"
	"github.com/farm2fork/farm2fork-backend/pkg/db/models"
	"github.com/farm2fork/farm2fork-backend/pkg/pagination"
)

// GormRepository persists orders and their item snapshots.
type GormRepository struct {
	base repo.Base
}

// NewRepository constructs an order repository bound to the provided DB.
func NewRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{base: repo.NewBase(db)}
}

// WithTx binds the repository to a transaction.
func (r *GormRepository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &GormRepository{base: r.base.Rebind(tx)}
}

// FindCartLocked loads the (user, vendor) cart with items and live products,
// holding a row lock for the checkout transaction.
func (r *GormRepository) FindCartLocked(ctx context.Context, userID, vendorID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	err := r.base.Locked(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("cart_items.created_at ASC") }).
		Preload("Items.Product").
		Where("user_id = ? AND vendor_id = ?", userID, vendorID).
		First(&cart).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// DeleteCart removes the converted cart and its items.
func (r *GormRepository) DeleteCart(ctx context.Context, cartID uuid.UUID) error {
	conn := r.base.DB(ctx)
	if err := conn.Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error; err != nil {
		return err
	}
	return conn.Where("id = ?", cartID).Delete(&models.Cart{}).Error
}

// CreateOrder inserts the order row.
func (r *GormRepository) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.base.DB(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

// CreateItems inserts the snapshot lines.
func (r *GormRepository) CreateItems(ctx context.Context, items []models.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.base.DB(ctx).Create(&items).Error
}

// FindByID loads an order with its items.
func (r *GormRepository) FindByID(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	return r.findByID(r.base.DB(ctx), orderID)
}

// FindByIDLocked is FindByID holding a row lock, used by status transitions.
func (r *GormRepository) FindByIDLocked(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	return r.findByID(r.base.Locked(ctx), orderID)
}

func (r *GormRepository) findByID(conn *gorm.DB, orderID uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := conn.
		Preload("Items").
		Where("id = ?", orderID).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// UpdateStatus persists status and completion timestamp changes only.
func (r *GormRepository) UpdateStatus(ctx context.Context, order *models.Order) error {
	return r.base.DB(ctx).
		Model(&models.Order{}).
		Where("id = ?", order.ID).
		Updates(map[string]any{
			"status":       order.Status,
			"completed_at": order.CompletedAt,
		}).Error
}

// ListByUser returns the buyer's orders, newest first, cursor-paginated.
func (r *GormRepository) ListByUser(ctx context.Context, userID uuid.UUID, cursor *pagination.Cursor, limit int) ([]models.Order, error) {
	return r.list(ctx, "user_id = ?", userID, cursor, limit)
}

// ListByVendor returns a vendor's orders, newest first, cursor-paginated.
func (r *GormRepository) ListByVendor(ctx context.Context, vendorID uuid.UUID, cursor *pagination.Cursor, limit int) ([]models.Order, error) {
	return r.list(ctx, "vendor_id = ?", vendorID, cursor, limit)
}

func (r *GormRepository) list(ctx context.Context, cond string, id uuid.UUID, cursor *pagination.Cursor, limit int) ([]models.Order, error) {
	query := r.base.DB(ctx).
		Preload("Items").
		Where(cond, id).
		Order("created_at DESC, id DESC").
		Limit(limit)
	if cursor != nil {
		query = query.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var rows []models.Order
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
