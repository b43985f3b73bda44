package products

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/farm2fork/farm2fork-backend/internal/team"
	"github.com/farm2fork/farm2fork-backend/pkg/db/models"
	"github.com/farm2fork/farm2fork-backend/pkg/enums"
	pkgerrors "github.com/farm2fork/farm2fork-backend/pkg/errors"
)

type stubProductRepo struct {
	products map[uuid.UUID]*models.Product
	deleted  []uuid.UUID
}

func newStubProductRepo(products ...*models.Product) *stubProductRepo {
	s := &stubProductRepo{products: map[uuid.UUID]*models.Product{}}
	for _, p := range products {
		if p.ID == uuid.Nil {
			p.ID = uuid.New()
		}
		s.products[p.ID] = p
	}
	return s
}

func (s *stubProductRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubProductRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	if p, ok := s.products[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubProductRepo) FindByIDs(_ context.Context, vendorID uuid.UUID, ids []uuid.UUID) ([]models.Product, error) {
	var rows []models.Product
	for _, id := range ids {
		if p, ok := s.products[id]; ok && p.VendorID == vendorID {
			rows = append(rows, *p)
		}
	}
	return rows, nil
}

func (s *stubProductRepo) ListByVendor(_ context.Context, vendorID uuid.UUID) ([]models.Product, error) {
	var rows []models.Product
	for _, p := range s.products {
		if p.VendorID == vendorID {
			rows = append(rows, *p)
		}
	}
	return rows, nil
}

func (s *stubProductRepo) Create(_ context.Context, product *models.Product) (*models.Product, error) {
	product.ID = uuid.New()
	s.products[product.ID] = product
	return product, nil
}

func (s *stubProductRepo) Update(_ context.Context, product *models.Product) (*models.Product, error) {
	cp := *product
	s.products[product.ID] = &cp
	return product, nil
}

func (s *stubProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(s.products, id)
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *stubProductRepo) DeleteByIDs(_ context.Context, vendorID uuid.UUID, ids []uuid.UUID) error {
	for _, id := range ids {
		if p, ok := s.products[id]; ok && p.VendorID == vendorID {
			delete(s.products, id)
			s.deleted = append(s.deleted, id)
		}
	}
	return nil
}

type stubTxRunner struct {
	rolledBack bool
}

func (s *stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	if err := fn(nil); err != nil {
		s.rolledBack = true
		return err
	}
	return nil
}

type allowAllTeam struct{}

func (allowAllTeam) Authorize(context.Context, team.Actor, uuid.UUID, bool) error { return nil }

type denyAllTeam struct{}

func (denyAllTeam) Authorize(context.Context, team.Actor, uuid.UUID, bool) error {
	return pkgerrors.New(pkgerrors.CodeForbidden, "no access to this vendor")
}

func newProductService(t *testing.T, repo Repository, auth vendorAuthorizer) Service {
	t.Helper()
	svc, err := NewService(repo, &stubTxRunner{}, auth)
	require.NoError(t, err)
	return svc
}

func mustDecimal(v string) decimal.Decimal { return decimal.RequireFromString(v) }

func TestCreateProduct(t *testing.T) {
	vendorID := uuid.New()
	actor := team.Actor{UserID: uuid.New()}

	t.Run("defaults applied", func(t *testing.T) {
		repo := newStubProductRepo()
		svc := newProductService(t, repo, allowAllTeam{})

		product, err := svc.Create(context.Background(), actor, vendorID, CreateInput{
			Name:  "  Heirloom Tomatoes ",
			Price: mustDecimal("4.99"),
		})
		require.NoError(t, err)
		require.Equal(t, "Heirloom Tomatoes", product.Name)
		require.Equal(t, enums.ProductCategoryOther, product.Category)
		require.Equal(t, 10, product.MaxQuantity)
		require.True(t, product.IsAvailable)
	})

	t.Run("rejects non-positive price", func(t *testing.T) {
		svc := newProductService(t, newStubProductRepo(), allowAllTeam{})
		_, err := svc.Create(context.Background(), actor, vendorID, CreateInput{Name: "Eggs", Price: decimal.Zero})
		require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	})

	t.Run("tracked inventory requires stock", func(t *testing.T) {
		svc := newProductService(t, newStubProductRepo(), allowAllTeam{})
		_, err := svc.Create(context.Background(), actor, vendorID, CreateInput{
			Name:           "Eggs",
			Price:          mustDecimal("6.00"),
			TrackInventory: true,
		})
		require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	})

	t.Run("non-member rejected", func(t *testing.T) {
		svc := newProductService(t, newStubProductRepo(), denyAllTeam{})
		_, err := svc.Create(context.Background(), actor, vendorID, CreateInput{Name: "Eggs", Price: mustDecimal("6.00")})
		require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeForbidden))
	})
}

func TestUpdateProduct(t *testing.T) {
	vendorID := uuid.New()
	actor := team.Actor{UserID: uuid.New()}
	stock := 5

	t.Run("patches fields and re-checks inventory", func(t *testing.T) {
		existing := &models.Product{VendorID: vendorID, Name: "Eggs", Price: mustDecimal("6.00"), Category: enums.ProductCategoryOther, MaxQuantity: 10, IsAvailable: true}
		repo := newStubProductRepo(existing)
		svc := newProductService(t, repo, allowAllTeam{})

		track := true
		updated, err := svc.Update(context.Background(), actor, vendorID, existing.ID, UpdateInput{
			TrackInventory: &track,
			StockQuantity:  &stock,
		})
		require.NoError(t, err)
		require.True(t, updated.TrackInventory)
		require.Equal(t, 5, *updated.StockQuantity)
	})

	t.Run("enabling tracking without stock fails", func(t *testing.T) {
		existing := &models.Product{VendorID: vendorID, Name: "Eggs", Price: mustDecimal("6.00"), MaxQuantity: 10}
		repo := newStubProductRepo(existing)
		svc := newProductService(t, repo, allowAllTeam{})

		track := true
		_, err := svc.Update(context.Background(), actor, vendorID, existing.ID, UpdateInput{TrackInventory: &track})
		require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	})

	t.Run("disabling tracking clears stock", func(t *testing.T) {
		qty := 3
		existing := &models.Product{VendorID: vendorID, Name: "Eggs", Price: mustDecimal("6.00"), MaxQuantity: 10, TrackInventory: true, StockQuantity: &qty}
		repo := newStubProductRepo(existing)
		svc := newProductService(t, repo, allowAllTeam{})

		track := false
		updated, err := svc.Update(context.Background(), actor, vendorID, existing.ID, UpdateInput{TrackInventory: &track})
		require.NoError(t, err)
		require.Nil(t, updated.StockQuantity)
	})

	t.Run("cross-vendor product invisible", func(t *testing.T) {
		existing := &models.Product{VendorID: uuid.New(), Name: "Eggs", Price: mustDecimal("6.00")}
		repo := newStubProductRepo(existing)
		svc := newProductService(t, repo, allowAllTeam{})

		_, err := svc.Update(context.Background(), actor, vendorID, existing.ID, UpdateInput{})
		require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
	})
}

func TestBulkUpdate(t *testing.T) {
	vendorID := uuid.New()
	actor := team.Actor{UserID: uuid.New()}

	seed := func() (*stubProductRepo, []uuid.UUID) {
		a := &models.Product{VendorID: vendorID, Name: "Kale", Price: mustDecimal("4.00"), Category: enums.ProductCategoryVegetables, IsAvailable: true}
		b := &models.Product{VendorID: vendorID, Name: "Chard", Price: mustDecimal("3.00"), Category: enums.ProductCategoryVegetables, IsAvailable: true}
		repo := newStubProductRepo(a, b)
		return repo, []uuid.UUID{a.ID, b.ID}
	}

	t.Run("price adjustment", func(t *testing.T) {
		repo, ids := seed()
		svc := newProductService(t, repo, allowAllTeam{})

		pct := mustDecimal("10")
		res, err := svc.BulkUpdate(context.Background(), actor, vendorID, BulkInput{
			ProductIDs:   ids,
			Operation:    BulkAdjustPrice,
			PricePercent: &pct,
		})
		require.NoError(t, err)
		require.Equal(t, 2, res.Affected)
		require.True(t, repo.products[ids[0]].Price.Equal(mustDecimal("4.40")))
		require.True(t, repo.products[ids[1]].Price.Equal(mustDecimal("3.30")))
	})

	t.Run("negative adjustment below zero aborts batch", func(t *testing.T) {
		repo, ids := seed()
		tx := &stubTxRunner{}
		svc, err := NewService(repo, tx, allowAllTeam{})
		require.NoError(t, err)

		pct := mustDecimal("-100")
		_, err = svc.BulkUpdate(context.Background(), actor, vendorID, BulkInput{
			ProductIDs:   ids,
			Operation:    BulkAdjustPrice,
			PricePercent: &pct,
		})
		require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	})

	t.Run("category reassignment", func(t *testing.T) {
		repo, ids := seed()
		svc := newProductService(t, repo, allowAllTeam{})

		cat := enums.ProductCategoryPrepared
		res, err := svc.BulkUpdate(context.Background(), actor, vendorID, BulkInput{
			ProductIDs: ids[:1],
			Operation:  BulkSetCategory,
			Category:   &cat,
		})
		require.NoError(t, err)
		require.Equal(t, 1, res.Affected)
		require.Equal(t, enums.ProductCategoryPrepared, repo.products[ids[0]].Category)
		require.Equal(t, enums.ProductCategoryVegetables, repo.products[ids[1]].Category)
	})

	t.Run("delete", func(t *testing.T) {
		repo, ids := seed()
		svc := newProductService(t, repo, allowAllTeam{})

		res, err := svc.BulkUpdate(context.Background(), actor, vendorID, BulkInput{
			ProductIDs: ids,
			Operation:  BulkDelete,
		})
		require.NoError(t, err)
		require.Equal(t, 2, res.Affected)
		require.Empty(t, repo.products)
	})

	t.Run("unknown id aborts", func(t *testing.T) {
		repo, ids := seed()
		tx := &stubTxRunner{}
		svc, err := NewService(repo, tx, allowAllTeam{})
		require.NoError(t, err)

		avail := false
		_, err = svc.BulkUpdate(context.Background(), actor, vendorID, BulkInput{
			ProductIDs:  append(ids, uuid.New()),
			Operation:   BulkSetAvailability,
			IsAvailable: &avail,
		})
		require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
		require.True(t, tx.rolledBack)
		require.True(t, repo.products[ids[0]].IsAvailable, "no partial application")
	})
}
