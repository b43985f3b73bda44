package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/farm2fork/farm2fork-backend/internal/team"
	"github.com/farm2fork/farm2fork-backend/pkg/db/models"
	"github.com/farm2fork/farm2fork-backend/pkg/enums"
	pkgerrors "github.com/farm2fork/farm2fork-backend/pkg/errors"
	"github.com/farm2fork/farm2fork-backend/pkg/pagination"
)

// Service owns the order lifecycle: checkout snapshots, the status state
// machine, and buyer/vendor reads. Order totals are frozen at checkout and
// never recomputed from live products.
type Service interface {
	Checkout(ctx context.Context, userID uuid.UUID, input CheckoutInput) (*models.Order, error)
	UpdateStatus(ctx context.Context, actor team.Actor, vendorID, orderID uuid.UUID, next enums.OrderStatus) (*models.Order, error)
	CancelOwnOrder(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error)
	ListUserOrders(ctx context.Context, userID uuid.UUID, params pagination.Params) (*pagination.Page[models.Order], error)
	GetUserOrder(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error)
	ListVendorOrders(ctx context.Context, actor team.Actor, vendorID uuid.UUID, params pagination.Params) (*pagination.Page[models.Order], error)
}

type service struct {
	repo Repository
	tx   txRunner
	team vendorAuthorizer
}

// NewService builds an order service backed by the provided stack.
func NewService(repo Repository, tx txRunner, team vendorAuthorizer) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if team == nil {
		return nil, fmt.Errorf("team authorizer required")
	}
	return &service{repo: repo, tx: tx, team: team}, nil
}

// Checkout converts the (user, vendor) cart into a pending order. The cart is
// locked, snapshotted line by line at current prices, and deleted — all in
// one transaction.
func (s *service) Checkout(ctx context.Context, userID uuid.UUID, input CheckoutInput) (*models.Order, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if input.VendorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vendor id is required")
	}

	var order *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		cart, err := txRepo.FindCartLocked(ctx, userID, input.VendorID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
			}
			return err
		}

		items, total := snapshotItems(cart.Items)
		if len(items) == 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
		}

		cartID := cart.ID
		order = &models.Order{
			UserID:          userID,
			VendorID:        input.VendorID,
			CartID:          &cartID,
			Status:          enums.OrderStatusPending,
			TotalPrice:      total,
			Notes:           input.Notes,
			ShippingAddress: input.ShippingAddress,
			ShippingCity:    input.ShippingCity,
			ShippingState:   input.ShippingState,
			ShippingZipCode: input.ShippingZipCode,
			ShippingCountry: input.ShippingCountry,
			BuyerCity:       input.BuyerCity,
			BuyerState:      input.BuyerState,
			BuyerZipCode:    input.BuyerZipCode,
		}
		if _, err := txRepo.CreateOrder(ctx, order); err != nil {
			return err
		}

		for i := range items {
			items[i].OrderID = order.ID
		}
		if err := txRepo.CreateItems(ctx, items); err != nil {
			return err
		}
		order.Items = items

		// The cart row goes away; the order keeps a nulled reference.
		if err := txRepo.DeleteCart(ctx, cart.ID); err != nil {
			return err
		}
		order.CartID = nil
		return nil
	})
	if err != nil {
		return nil, asOrderError(err, "checkout")
	}
	return order, nil
}

// UpdateStatus advances an order through the state machine on behalf of the
// vendor. completed_at is stamped the first time the order enters a
// revenue-counting state and never cleared afterwards.
func (s *service) UpdateStatus(ctx context.Context, actor team.Actor, vendorID, orderID uuid.UUID, next enums.OrderStatus) (*models.Order, error) {
	if !next.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}
	if err := s.team.Authorize(ctx, actor, vendorID, false); err != nil {
		return nil, err
	}

	var order *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		loaded, err := txRepo.FindByIDLocked(ctx, orderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return err
		}
		if loaded.VendorID != vendorID {
			return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}

		if err := transition(loaded, next); err != nil {
			return err
		}
		if err := txRepo.UpdateStatus(ctx, loaded); err != nil {
			return err
		}
		order = loaded
		return nil
	})
	if err != nil {
		return nil, asOrderError(err, "update order status")
	}
	return order, nil
}

// CancelOwnOrder lets a buyer cancel their own order while it is still
// pending.
func (s *service) CancelOwnOrder(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error) {
	var order *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		loaded, err := txRepo.FindByIDLocked(ctx, orderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return err
		}
		if loaded.UserID != userID {
			return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		if loaded.Status != enums.OrderStatusPending {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "only pending orders can be cancelled")
		}

		if err := transition(loaded, enums.OrderStatusCancelled); err != nil {
			return err
		}
		if err := txRepo.UpdateStatus(ctx, loaded); err != nil {
			return err
		}
		order = loaded
		return nil
	})
	if err != nil {
		return nil, asOrderError(err, "cancel order")
	}
	return order, nil
}

// ListUserOrders returns the buyer's order history, newest first.
func (s *service) ListUserOrders(ctx context.Context, userID uuid.UUID, params pagination.Params) (*pagination.Page[models.Order], error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor")
	}
	limit := pagination.NormalizeLimit(params.Limit)

	rows, err := s.repo.ListByUser(ctx, userID, cursor, limit+1)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return buildPage(rows, limit), nil
}

// GetUserOrder returns one of the buyer's orders with its snapshot lines.
func (s *service) GetUserOrder(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if order.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return order, nil
}

// ListVendorOrders returns a vendor's incoming orders for team members.
func (s *service) ListVendorOrders(ctx context.Context, actor team.Actor, vendorID uuid.UUID, params pagination.Params) (*pagination.Page[models.Order], error) {
	if err := s.team.Authorize(ctx, actor, vendorID, false); err != nil {
		return nil, err
	}

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor")
	}
	limit := pagination.NormalizeLimit(params.Limit)

	rows, err := s.repo.ListByVendor(ctx, vendorID, cursor, limit+1)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list vendor orders")
	}
	return buildPage(rows, limit), nil
}

// snapshotItems freezes cart lines into order items. Lines whose product has
// vanished since being added are dropped.
func snapshotItems(lines []models.CartItem) ([]models.OrderItem, decimal.Decimal) {
	items := make([]models.OrderItem, 0, len(lines))
	total := decimal.Zero
	for _, line := range lines {
		if line.Product == nil || line.Quantity < 1 {
			continue
		}
		productID := line.ProductID
		subtotal := line.Product.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
		items = append(items, models.OrderItem{
			ProductID:       &productID,
			ProductName:     line.Product.Name,
			ProductCategory: line.Product.Category,
			Quantity:        line.Quantity,
			UnitPrice:       line.Product.Price,
			Subtotal:        subtotal,
		})
		total = total.Add(subtotal)
	}
	return items, total
}

func transition(order *models.Order, next enums.OrderStatus) error {
	if !order.Status.CanTransitionTo(next) {
		return pkgerrors.Newf(pkgerrors.CodeStateConflict,
			"cannot transition order from %s to %s", order.Status, next)
	}
	order.Status = next
	if next.CountsAsCompleted() && order.CompletedAt == nil {
		now := time.Now().UTC()
		order.CompletedAt = &now
	}
	return nil
}

func buildPage(rows []models.Order, limit int) *pagination.Page[models.Order] {
	page := &pagination.Page[models.Order]{Items: rows}
	if len(rows) > limit {
		page.Items = rows[:limit]
		last := page.Items[len(page.Items)-1]
		cursor := pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
		page.NextCursor = &cursor
	}
	return page
}

func asOrderError(err error, op string) error {
	if typed := pkgerrors.As(err); typed != nil {
		return typed
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, op)
}
