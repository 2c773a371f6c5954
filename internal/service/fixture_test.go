package service_test

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"retailing/internal/model"
	"retailing/internal/repository"
	"retailing/internal/service"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ── Test database ────────────────────────────────────────────────────────────

// newTestDB opens a file-backed SQLite database so every pooled connection
// sees the same schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.Country{}, &model.User{}, &model.Supplier{}, &model.Category{},
		&model.Product{}, &model.Order{}, &model.Warehouse{}, &model.Payable{},
	))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// ── Fixture ──────────────────────────────────────────────────────────────────

type fixture struct {
	db         *gorm.DB
	users      repository.UserRepository
	suppliers  repository.SupplierRepository
	countries  repository.CountryRepository
	categories repository.CategoryRepository
	products   repository.ProductRepository
	orders     repository.OrderRepository
	warehouses repository.WarehouseRepository
	payables   repository.PayableRepository

	inventory service.InventoryLedger
	ledger    service.PayableLedger
	identity  service.IdentityService

	country  model.Country
	category model.Category
	seq      int
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := newTestDB(t)
	f := &fixture{
		db:         db,
		users:      repository.NewUserRepository(db),
		suppliers:  repository.NewSupplierRepository(db),
		countries:  repository.NewCountryRepository(db),
		categories: repository.NewCategoryRepository(db),
		products:   repository.NewProductRepository(db),
		orders:     repository.NewOrderRepository(db),
		warehouses: repository.NewWarehouseRepository(db),
		payables:   repository.NewPayableRepository(db),
	}
	f.inventory = service.NewInventoryLedger(f.warehouses)
	f.ledger = service.NewPayableLedger(f.payables)
	f.identity = service.NewIdentityService(f.users)

	f.country = model.Country{Code: "DE", Name: "Germany"}
	require.NoError(t, db.Create(&f.country).Error)
	f.category = model.Category{Name: "Electronics"}
	require.NoError(t, db.Create(&f.category).Error)
	return f
}

func (f *fixture) orderService(payables service.PayableLedger) service.OrderService {
	if payables == nil {
		payables = f.ledger
	}
	return service.NewOrderService(f.orders, f.suppliers, f.products, f.inventory, payables, nil, nil)
}

// user inserts an active, unemployed user.
func (f *fixture) user(t *testing.T) model.User {
	t.Helper()
	f.seq++
	u := model.User{
		Username:     fmt.Sprintf("user%d", f.seq),
		Email:        fmt.Sprintf("user%d@example.com", f.seq),
		PasswordHash: "x",
		IsActive:     true,
	}
	require.NoError(t, f.db.Create(&u).Error)
	return u
}

// party registers a supplier of the given type with one employee and
// returns it together with that employee's resolved caller.
func (f *fixture) party(t *testing.T, kind model.SupplierType) (model.Supplier, service.Caller) {
	t.Helper()
	u := f.user(t)
	f.seq++
	s := model.Supplier{
		Name:         fmt.Sprintf("%s-%d", kind, f.seq),
		SupplierType: kind,
		Email:        fmt.Sprintf("%s-%d@example.com", kind, f.seq),
		UserID:       &u.ID,
		CountryID:    f.country.ID,
		City:         "Berlin",
		Street:       "Hauptstrasse",
		HouseNumber:  "1",
	}
	require.NoError(t, f.db.Create(&s).Error)
	require.NoError(t, f.db.Model(&u).Update("supplier_id", s.ID).Error)
	return s, f.caller(t, u.ID)
}

func (f *fixture) caller(t *testing.T, userID uint) service.Caller {
	t.Helper()
	c, err := f.identity.Resolve(context.Background(), userID)
	require.NoError(t, err)
	return *c
}

func (f *fixture) product(t *testing.T, vendor model.Supplier) model.Product {
	t.Helper()
	f.seq++
	p := model.Product{
		Name:        fmt.Sprintf("Phone %d", f.seq),
		CategoryID:  f.category.ID,
		SupplierID:  &vendor.ID,
		ReleaseDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, f.db.Create(&p).Error)
	return p
}

func (f *fixture) stock(t *testing.T, owner, product uint) int {
	t.Helper()
	n, err := f.inventory.GetStock(context.Background(), owner, product)
	require.NoError(t, err)
	return n
}

func (f *fixture) count(t *testing.T, m interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(m).Count(&n).Error)
	return n
}
