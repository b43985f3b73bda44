package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/farm2fork/farm2fork-backend/pkg/db/models"
	pkgerrors "github.com/farm2fork/farm2fork-backend/pkg/errors"
)

// Service manages per-(user, vendor) carts. Mutations run inside a
// transaction holding a row lock on the cart so concurrent merges of the same
// line cannot lose quantity.
type Service interface {
	GetOrCreateCart(ctx context.Context, userID, vendorID uuid.UUID) (*View, error)
	AddItem(ctx context.Context, userID, vendorID, productID uuid.UUID, quantity int) (*View, error)
	UpdateItem(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*View, error)
	RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (*View, error)
	ClearCart(ctx context.Context, userID, vendorID uuid.UUID) error
}

type service struct {
	repo     Repository
	tx       txRunner
	products productLoader
	vendors  vendorChecker
}

// NewService builds a cart service backed by the provided stack.
func NewService(repo Repository, tx txRunner, products productLoader, vendors vendorChecker) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	if vendors == nil {
		return nil, fmt.Errorf("vendor checker required")
	}
	return &service{repo: repo, tx: tx, products: products, vendors: vendors}, nil
}

// GetOrCreateCart returns the (user, vendor) cart, creating an empty one on
// first touch. Idempotent.
func (s *service) GetOrCreateCart(ctx context.Context, userID, vendorID uuid.UUID) (*View, error) {
	if userID == uuid.Nil || vendorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id and vendor id are required")
	}

	cart, err := s.repo.FindByUserVendor(ctx, userID, vendorID)
	if err == nil {
		view := BuildView(*cart)
		return &view, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	exists, err := s.vendors.VendorExists(ctx, vendorID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load vendor")
	}
	if !exists {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "vendor not found")
	}

	created, err := s.repo.Create(ctx, &models.Cart{UserID: userID, VendorID: vendorID})
	if err != nil {
		// Lost a create race; the winner's cart is the cart.
		if existing, findErr := s.repo.FindByUserVendor(ctx, userID, vendorID); findErr == nil {
			view := BuildView(*existing)
			return &view, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create cart")
	}
	view := BuildView(*created)
	return &view, nil
}

// AddItem creates or merges a line for the product. The merged quantity must
// stay within the product's per-order cap.
func (s *service) AddItem(ctx context.Context, userID, vendorID, productID uuid.UUID, quantity int) (*View, error) {
	if quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if product.VendorID != vendorID {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product does not belong to this vendor")
	}
	if !product.IsAvailable {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product is not available")
	}

	if _, err := s.GetOrCreateCart(ctx, userID, vendorID); err != nil {
		return nil, err
	}

	var view View
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		cart, err := txRepo.FindByUserVendorLocked(ctx, userID, vendorID)
		if err != nil {
			return err
		}

		merged := quantity
		var existing *models.CartItem
		for i := range cart.Items {
			if cart.Items[i].ProductID == productID {
				existing = &cart.Items[i]
				merged += existing.Quantity
				break
			}
		}
		if merged > product.MaxQuantity {
			return pkgerrors.Newf(pkgerrors.CodeValidation,
				"quantity exceeds limit of %d per order", product.MaxQuantity)
		}

		if existing != nil {
			if err := txRepo.UpdateItemQuantity(ctx, existing.ID, merged); err != nil {
				return err
			}
		} else {
			item := &models.CartItem{CartID: cart.ID, ProductID: productID, Quantity: quantity}
			if _, err := txRepo.CreateItem(ctx, item); err != nil {
				return err
			}
		}
		if err := txRepo.TouchCart(ctx, cart.ID); err != nil {
			return err
		}

		fresh, err := txRepo.FindByUserVendor(ctx, userID, vendorID)
		if err != nil {
			return err
		}
		view = BuildView(*fresh)
		return nil
	})
	if err != nil {
		return nil, asCartError(err, "add cart item")
	}
	return &view, nil
}

// UpdateItem replaces the quantity on a line.
func (s *service) UpdateItem(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*View, error) {
	if quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	var view View
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		item, cart, err := txRepo.FindItemForUser(ctx, itemID, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
			}
			return err
		}
		if _, err := txRepo.FindByUserVendorLocked(ctx, cart.UserID, cart.VendorID); err != nil {
			return err
		}

		if item.Product != nil && quantity > item.Product.MaxQuantity {
			return pkgerrors.Newf(pkgerrors.CodeValidation,
				"quantity exceeds limit of %d per order", item.Product.MaxQuantity)
		}

		if err := txRepo.UpdateItemQuantity(ctx, itemID, quantity); err != nil {
			return err
		}
		if err := txRepo.TouchCart(ctx, cart.ID); err != nil {
			return err
		}

		fresh, err := txRepo.FindByUserVendor(ctx, cart.UserID, cart.VendorID)
		if err != nil {
			return err
		}
		view = BuildView(*fresh)
		return nil
	})
	if err != nil {
		return nil, asCartError(err, "update cart item")
	}
	return &view, nil
}

// RemoveItem deletes a line.
func (s *service) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (*View, error) {
	var view View
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		_, cart, err := txRepo.FindItemForUser(ctx, itemID, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
			}
			return err
		}
		if _, err := txRepo.FindByUserVendorLocked(ctx, cart.UserID, cart.VendorID); err != nil {
			return err
		}

		if err := txRepo.DeleteItem(ctx, itemID); err != nil {
			return err
		}
		if err := txRepo.TouchCart(ctx, cart.ID); err != nil {
			return err
		}

		fresh, err := txRepo.FindByUserVendor(ctx, cart.UserID, cart.VendorID)
		if err != nil {
			return err
		}
		view = BuildView(*fresh)
		return nil
	})
	if err != nil {
		return nil, asCartError(err, "remove cart item")
	}
	return &view, nil
}

// ClearCart drops the whole cart; line items cascade with it.
func (s *service) ClearCart(ctx context.Context, userID, vendorID uuid.UUID) error {
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		cart, err := txRepo.FindByUserVendorLocked(ctx, userID, vendorID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")
			}
			return err
		}
		return txRepo.DeleteCart(ctx, cart.ID)
	})
	if err != nil {
		return asCartError(err, "clear cart")
	}
	return nil
}

func asCartError(err error, op string) error {
	if typed := pkgerrors.As(err); typed != nil {
		return typed
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, op)
}
