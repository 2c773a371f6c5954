package service_test

import (
	"context"
	"testing"

	"retailing/internal/dto"
	"retailing/internal/model"
	"retailing/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── Countries ────────────────────────────────────────────────────────────────

func TestCountries_LoadReplacesAndLists(t *testing.T) {
	f := newFixture(t)
	svc := service.NewCountryService(f.countries)
	ctx := context.Background()

	n, err := svc.Load(ctx, []model.Country{
		{Code: "FR", Name: "France"},
		{Code: "AT", Name: "Austria"},
		{Code: "FI", Name: "Finland"},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	all, err := svc.List(ctx, dto.CountryFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3) // Germany from the fixture is gone
	assert.Equal(t, "Austria", all[0].Name)

	desc, err := svc.List(ctx, dto.CountryFilter{Ordering: "-code"})
	require.NoError(t, err)
	assert.Equal(t, "FR", desc[0].Code)

	found, err := svc.List(ctx, dto.CountryFilter{Search: "fin"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "FI", found[0].Code)

	got, err := svc.Get(ctx, found[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "Finland", got.Name)
}

// ── Categories ───────────────────────────────────────────────────────────────

func TestCategories_CRUDAndInUse(t *testing.T) {
	f := newFixture(t)
	svc := service.NewCategoryService(f.categories)
	vendor, _ := f.party(t, model.SupplierVendor)
	f.product(t, vendor) // uses the fixture category
	ctx := context.Background()

	created, err := svc.Create(ctx, dto.CategoryRequest{Name: "Audio"})
	require.NoError(t, err)

	renamed, err := svc.Update(ctx, created.ID, dto.CategoryRequest{Name: "Hi-Fi"})
	require.NoError(t, err)
	assert.Equal(t, "Hi-Fi", renamed.Name)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	assert.ErrorIs(t, svc.Delete(ctx, f.category.ID), service.ErrInUse)
	require.NoError(t, svc.Delete(ctx, created.ID))

	_, err = svc.Get(ctx, created.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

// ── Products ─────────────────────────────────────────────────────────────────

func TestProducts_VendorOnlyCreateStampsOwner(t *testing.T) {
	f := newFixture(t)
	svc := service.NewProductService(f.products, f.categories)
	vendor, vc := f.party(t, model.SupplierVendor)
	_, dc := f.party(t, model.SupplierDistributor)
	ctx := context.Background()

	req := dto.CreateProductRequest{Name: "Tablet", CategoryID: f.category.ID, ReleaseDate: "2025-01-15"}

	_, err := svc.Create(ctx, dc, req)
	assert.ErrorIs(t, err, service.ErrInvalidOperationForSupplierType)

	p, err := svc.Create(ctx, vc, req)
	require.NoError(t, err)
	require.NotNil(t, p.SupplierID)
	assert.Equal(t, vendor.ID, *p.SupplierID)
	require.NotNil(t, p.UserID)
	assert.Equal(t, vc.UserID, *p.UserID)
	assert.Equal(t, "2025-01-15", p.ReleaseDate)

	req.ReleaseDate = "15/01/2025"
	_, err = svc.Create(ctx, vc, req)
	assert.ErrorIs(t, err, service.ErrInvalidInput)
}

func TestProducts_GetCountsViews(t *testing.T) {
	f := newFixture(t)
	svc := service.NewProductService(f.products, f.categories)
	vendor, _ := f.party(t, model.SupplierVendor)
	p := f.product(t, vendor)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		got, err := svc.Get(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, i, got.ViewCounter)
	}

	_, err := svc.Get(ctx, 999)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestProducts_ListFilters(t *testing.T) {
	f := newFixture(t)
	svc := service.NewProductService(f.products, f.categories)
	vendor, _ := f.party(t, model.SupplierVendor)
	for i := 0; i < 3; i++ {
		f.product(t, vendor)
	}
	other := model.Category{Name: "Garden"}
	require.NoError(t, f.db.Create(&other).Error)
	ctx := context.Background()

	page, err := svc.List(ctx, dto.ProductFilter{Limit: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 3, page.Total)
	assert.Len(t, page.Data, 2)
	assert.Equal(t, 1, page.Page)

	none, err := svc.List(ctx, dto.ProductFilter{CategoryID: other.ID})
	require.NoError(t, err)
	assert.Zero(t, none.Total)
}

func TestProducts_OwnerUpdateAndDelete(t *testing.T) {
	f := newFixture(t)
	svc := service.NewProductService(f.products, f.categories)
	orders := f.orderService(nil)
	vendor, vc := f.party(t, model.SupplierVendor)
	_, oc := f.party(t, model.SupplierVendor)
	used := f.product(t, vendor)
	unused := f.product(t, vendor)
	ctx := context.Background()

	name := "Phone X"
	_, err := svc.Update(ctx, oc, used.ID, dto.UpdateProductRequest{Name: &name})
	assert.ErrorIs(t, err, service.ErrUnauthorized)
	updated, err := svc.Update(ctx, vc, used.ID, dto.UpdateProductRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Phone X", updated.Name)

	_, err = submit(t, orders, vc, model.OpAddition, vendor.ID, used.ID, 1, nil)
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, vc, used.ID), service.ErrInUse)
	assert.ErrorIs(t, svc.Delete(ctx, oc, unused.ID), service.ErrUnauthorized)
	require.NoError(t, svc.Delete(ctx, vc, unused.ID))
}
