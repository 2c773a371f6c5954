package service_test

import (
	"context"
	"errors"
	"testing"

	"retailing/internal/model"
	"retailing/internal/repository"
	"retailing/internal/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// ── Inventory ────────────────────────────────────────────────────────────────

func TestInventory_GetStockWithoutLineIsZero(t *testing.T) {
	f := newFixture(t)
	assert.Zero(t, f.stock(t, 42, 7))
}

func TestInventory_AdjustUpsertsAndRejectsNegative(t *testing.T) {
	f := newFixture(t)
	adjust := func(owner, product uint, delta int) error {
		return f.db.Transaction(func(tx *gorm.DB) error {
			return f.inventory.Adjust(tx, owner, product, delta)
		})
	}

	require.NoError(t, adjust(1, 1, 4))
	require.NoError(t, adjust(1, 1, 6))
	require.NoError(t, adjust(1, 1, -3))
	assert.Equal(t, 7, f.stock(t, 1, 1))
	assert.EqualValues(t, 1, f.count(t, &model.Warehouse{}))

	// No clamping: the check constraint rejects the result.
	assert.Error(t, adjust(1, 1, -8))
	assert.Equal(t, 7, f.stock(t, 1, 1))

	assert.Error(t, adjust(2, 1, -1))
	assert.EqualValues(t, 1, f.count(t, &model.Warehouse{}))
}

func TestInventory_OwnRowsOnly(t *testing.T) {
	f := newFixture(t)
	vendor, vc := f.party(t, model.SupplierVendor)
	other, oc := f.party(t, model.SupplierVendor)
	p := f.product(t, vendor)
	require.NoError(t, f.db.Transaction(func(tx *gorm.DB) error {
		if err := f.inventory.Adjust(tx, vendor.ID, p.ID, 3); err != nil {
			return err
		}
		return f.inventory.Adjust(tx, other.ID, p.ID, 1)
	}))
	ctx := context.Background()

	rows, err := f.inventory.ListByOwner(ctx, vc)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 3, rows[0].Quantity)

	_, err = f.inventory.Get(ctx, oc, rows[0].ID)
	assert.ErrorIs(t, err, service.ErrNotFound)

	got, err := f.inventory.Get(ctx, vc, rows[0].ID)
	require.NoError(t, err)
	assert.Equal(t, vendor.ID, got.OwnerID)
}

// ── Payables ─────────────────────────────────────────────────────────────────

func adjustPayable(t *testing.T, f *fixture, owner, supplier uint, delta int64) {
	t.Helper()
	require.NoError(t, f.db.Transaction(func(tx *gorm.DB) error {
		return f.ledger.Adjust(tx, owner, supplier, decimal.NewFromInt(delta))
	}))
}

func TestPayables_SettleThenReopen(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	adjustPayable(t, f, 1, 2, 300)
	open, err := f.payables.FindOpen(ctx, 1, 2)
	require.NoError(t, err)

	settled, err := f.ledger.Settle(ctx, open.ID)
	require.NoError(t, err)
	assert.True(t, settled.IsPaid)
	assert.True(t, settled.Amount.IsZero())
	require.NotNil(t, settled.PaidDate)

	again, err := f.ledger.Settle(ctx, open.ID)
	require.NoError(t, err)
	assert.Equal(t, settled.PaidDate, again.PaidDate)

	// A new debt opens a fresh row next to the paid one.
	adjustPayable(t, f, 1, 2, 50)
	assert.EqualValues(t, 2, f.count(t, &model.Payable{}))
	open, err = f.payables.FindOpen(ctx, 1, 2)
	require.NoError(t, err)
	assert.True(t, open.Amount.Equal(decimal.NewFromInt(50)))

	all, err := f.ledger.List(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	onlyOpen, err := f.ledger.List(ctx, true)
	require.NoError(t, err)
	assert.Len(t, onlyOpen, 1)
}

// racingPayables commits a competing open row for the pair right after the
// ledger finds none, as a concurrent order for another product would.
type racingPayables struct {
	repository.PayableRepository
	raced bool
}

func (r *racingPayables) LockOpenTx(tx *gorm.DB, ownerID, supplierID uint) (*model.Payable, error) {
	p, err := r.PayableRepository.LockOpenTx(tx, ownerID, supplierID)
	if errors.Is(err, gorm.ErrRecordNotFound) && !r.raced {
		r.raced = true
		winner := &model.Payable{OwnerID: ownerID, SupplierID: supplierID, Amount: decimal.NewFromInt(70)}
		if err := r.PayableRepository.CreateTx(tx, winner); err != nil {
			return nil, err
		}
	}
	return p, err
}

func TestPayables_LostCreateRaceAccumulates(t *testing.T) {
	f := newFixture(t)
	repo := &racingPayables{PayableRepository: f.payables}
	ledger := service.NewPayableLedger(repo)

	require.NoError(t, f.db.Transaction(func(tx *gorm.DB) error {
		return ledger.Adjust(tx, 1, 2, decimal.NewFromInt(30))
	}))

	assert.True(t, repo.raced)
	assert.EqualValues(t, 1, f.count(t, &model.Payable{}))
	open, err := f.payables.FindOpen(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.True(t, open.Amount.Equal(decimal.NewFromInt(100)), open.Amount.String())
}

func TestPayables_SettleUnknown(t *testing.T) {
	f := newFixture(t)
	_, err := f.ledger.Settle(context.Background(), 404)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestPayables_VisibleToBothParties(t *testing.T) {
	f := newFixture(t)
	vendor, vc := f.party(t, model.SupplierVendor)
	dist, dc := f.party(t, model.SupplierDistributor)
	_, rc := f.party(t, model.SupplierRetailer)
	ctx := context.Background()

	adjustPayable(t, f, dist.ID, vendor.ID, 1000)

	for _, c := range []service.Caller{vc, dc} {
		rows, err := f.ledger.ListOpenFor(ctx, c)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		got, err := f.ledger.GetOpenFor(ctx, c, rows[0].ID)
		require.NoError(t, err)
		assert.Equal(t, dist.ID, got.OwnerID)
	}

	rows, err := f.ledger.ListOpenFor(ctx, rc)
	require.NoError(t, err)
	assert.Empty(t, rows)
}
