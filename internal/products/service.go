package products

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/farm2fork/farm2fork-backend/internal/team"
	"github.com/farm2fork/farm2fork-backend/pkg/db/models"
	"github.com/farm2fork/farm2fork-backend/pkg/enums"
	pkgerrors "github.com/farm2fork/farm2fork-backend/pkg/errors"
)

var oneHundred = decimal.NewFromInt(100)

// Service manages vendor product listings. Every operation is gated on team
// membership for the target vendor.
type Service interface {
	Create(ctx context.Context, actor team.Actor, vendorID uuid.UUID, input CreateInput) (*models.Product, error)
	Update(ctx context.Context, actor team.Actor, vendorID, productID uuid.UUID, input UpdateInput) (*models.Product, error)
	Delete(ctx context.Context, actor team.Actor, vendorID, productID uuid.UUID) error
	List(ctx context.Context, actor team.Actor, vendorID uuid.UUID) ([]models.Product, error)
	BulkUpdate(ctx context.Context, actor team.Actor, vendorID uuid.UUID, input BulkInput) (*BulkResult, error)
}

type service struct {
	repo Repository
	tx   txRunner
	team vendorAuthorizer
}

// NewService builds a product service backed by the provided stack.
func NewService(repo Repository, tx txRunner, team vendorAuthorizer) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if team == nil {
		return nil, fmt.Errorf("team authorizer required")
	}
	return &service{repo: repo, tx: tx, team: team}, nil
}

// Create validates and inserts a new listing.
func (s *service) Create(ctx context.Context, actor team.Actor, vendorID uuid.UUID, input CreateInput) (*models.Product, error) {
	if err := s.team.Authorize(ctx, actor, vendorID, false); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
	}
	if !input.Price.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must be greater than zero")
	}
	category := input.Category
	if category == "" {
		category = enums.ProductCategoryOther
	}
	if !category.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid product category")
	}
	maxQty := input.MaxQuantity
	if maxQty == 0 {
		maxQty = 10
	}
	if maxQty < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "max quantity must be at least 1")
	}

	product := &models.Product{
		VendorID:       vendorID,
		Name:           name,
		Description:    strings.TrimSpace(input.Description),
		Price:          input.Price.Round(2),
		Category:       category,
		IsFeatured:     input.IsFeatured,
		MaxQuantity:    maxQty,
		TrackInventory: input.TrackInventory,
		StockQuantity:  input.StockQuantity,
		IsAvailable:    true,
	}
	if input.IsAvailable != nil {
		product.IsAvailable = *input.IsAvailable
	}
	if err := validateInventory(product); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}
	return created, nil
}

// Update patches a listing. The inventory invariant is re-checked against the
// resulting state, not just the changed fields.
func (s *service) Update(ctx context.Context, actor team.Actor, vendorID, productID uuid.UUID, input UpdateInput) (*models.Product, error) {
	if err := s.team.Authorize(ctx, actor, vendorID, false); err != nil {
		return nil, err
	}

	product, err := s.loadVendorProduct(ctx, vendorID, productID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
		}
		product.Name = name
	}
	if input.Description != nil {
		product.Description = strings.TrimSpace(*input.Description)
	}
	if input.Price != nil {
		if !input.Price.IsPositive() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must be greater than zero")
		}
		product.Price = input.Price.Round(2)
	}
	if input.Category != nil {
		if !input.Category.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid product category")
		}
		product.Category = *input.Category
	}
	if input.IsFeatured != nil {
		product.IsFeatured = *input.IsFeatured
	}
	if input.MaxQuantity != nil {
		if *input.MaxQuantity < 1 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "max quantity must be at least 1")
		}
		product.MaxQuantity = *input.MaxQuantity
	}
	if input.TrackInventory != nil {
		product.TrackInventory = *input.TrackInventory
	}
	if input.StockQuantity != nil {
		product.StockQuantity = input.StockQuantity
	}
	if input.IsAvailable != nil {
		product.IsAvailable = *input.IsAvailable
	}
	if !product.TrackInventory {
		product.StockQuantity = nil
	}
	if err := validateInventory(product); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}
	return updated, nil
}

// Delete removes a listing. Order items keep their snapshot; their product
// reference is nulled by the schema.
func (s *service) Delete(ctx context.Context, actor team.Actor, vendorID, productID uuid.UUID) error {
	if err := s.team.Authorize(ctx, actor, vendorID, false); err != nil {
		return err
	}
	if _, err := s.loadVendorProduct(ctx, vendorID, productID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, productID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}
	return nil
}

// List returns the vendor's full catalog for management screens.
func (s *service) List(ctx context.Context, actor team.Actor, vendorID uuid.UUID) ([]models.Product, error) {
	if err := s.team.Authorize(ctx, actor, vendorID, false); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListByVendor(ctx, vendorID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return rows, nil
}

// BulkUpdate applies one operation to a set of the vendor's products inside a
// single transaction. Any invalid row aborts the whole batch.
func (s *service) BulkUpdate(ctx context.Context, actor team.Actor, vendorID uuid.UUID, input BulkInput) (*BulkResult, error) {
	if err := s.team.Authorize(ctx, actor, vendorID, false); err != nil {
		return nil, err
	}
	if len(input.ProductIDs) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product ids are required")
	}
	if err := validateBulkInput(input); err != nil {
		return nil, err
	}

	ids := dedupeIDs(input.ProductIDs)

	var affected int
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		rows, err := txRepo.FindByIDs(ctx, vendorID, ids)
		if err != nil {
			return err
		}
		if len(rows) != len(ids) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "one or more products not found")
		}

		if input.Operation == BulkDelete {
			if err := txRepo.DeleteByIDs(ctx, vendorID, ids); err != nil {
				return err
			}
			affected = len(rows)
			return nil
		}

		for i := range rows {
			product := &rows[i]
			switch input.Operation {
			case BulkAdjustPrice:
				factor := oneHundred.Add(*input.PricePercent).Div(oneHundred)
				next := product.Price.Mul(factor).Round(2)
				if !next.IsPositive() {
					return pkgerrors.Newf(pkgerrors.CodeValidation,
						"price adjustment drops %q to zero or below", product.Name)
				}
				product.Price = next
			case BulkSetCategory:
				product.Category = *input.Category
			case BulkSetAvailability:
				product.IsAvailable = *input.IsAvailable
			}
			if _, err := txRepo.Update(ctx, product); err != nil {
				return err
			}
		}
		affected = len(rows)
		return nil
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "apply bulk update")
	}
	return &BulkResult{Affected: affected}, nil
}

func (s *service) loadVendorProduct(ctx context.Context, vendorID, productID uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if product.VendorID != vendorID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return product, nil
}

func validateBulkInput(input BulkInput) error {
	switch input.Operation {
	case BulkAdjustPrice:
		if input.PricePercent == nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "price percent is required")
		}
		if input.PricePercent.LessThanOrEqual(oneHundred.Neg()) {
			return pkgerrors.New(pkgerrors.CodeValidation, "price percent must be greater than -100")
		}
	case BulkSetCategory:
		if input.Category == nil || !input.Category.IsValid() {
			return pkgerrors.New(pkgerrors.CodeValidation, "valid category is required")
		}
	case BulkSetAvailability:
		if input.IsAvailable == nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "availability flag is required")
		}
	case BulkDelete:
	default:
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown bulk operation")
	}
	return nil
}

func validateInventory(product *models.Product) error {
	if !product.TrackInventory {
		return nil
	}
	if product.StockQuantity == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "stock quantity is required when inventory is tracked")
	}
	if *product.StockQuantity < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "stock quantity cannot be negative")
	}
	return nil
}

func dedupeIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
