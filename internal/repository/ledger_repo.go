package repository

import (
	"context"
	"time"

	"retailing/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ── Warehouse ────────────────────────────────────────────────────────────────

type WarehouseRepository interface {
	Find(ctx context.Context, ownerID, productID uint) (*model.Warehouse, error)
	FindByIDForOwner(ctx context.Context, id, ownerID uint) (*model.Warehouse, error)
	ListByOwner(ctx context.Context, ownerID uint) ([]model.Warehouse, error)
	ListAll(ctx context.Context) ([]model.Warehouse, error)

	// LockTx selects the stock lines of (owner, product) FOR UPDATE.
	LockTx(tx *gorm.DB, ownerID, productID uint) ([]model.Warehouse, error)
	// IncrementTx upserts the line, creating it at delta when absent.
	IncrementTx(tx *gorm.DB, ownerID, productID uint, delta int) error
	// AddTx adds delta to an existing line and reports whether one was found.
	AddTx(tx *gorm.DB, ownerID, productID uint, delta int) (bool, error)
	CreateTx(tx *gorm.DB, w *model.Warehouse) error
}

type warehouseRepo struct{ db *gorm.DB }

func NewWarehouseRepository(db *gorm.DB) WarehouseRepository { return &warehouseRepo{db: db} }

func (r *warehouseRepo) Find(ctx context.Context, ownerID, productID uint) (*model.Warehouse, error) {
	var w model.Warehouse
	err := r.db.WithContext(ctx).Where("owner_id = ? AND product_id = ?", ownerID, productID).First(&w).Error
	return &w, err
}

func (r *warehouseRepo) FindByIDForOwner(ctx context.Context, id, ownerID uint) (*model.Warehouse, error) {
	var w model.Warehouse
	err := r.db.WithContext(ctx).Where("id = ? AND owner_id = ?", id, ownerID).First(&w).Error
	return &w, err
}

func (r *warehouseRepo) ListByOwner(ctx context.Context, ownerID uint) ([]model.Warehouse, error) {
	var rows []model.Warehouse
	err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).Order("product_id ASC").Find(&rows).Error
	return rows, err
}

func (r *warehouseRepo) ListAll(ctx context.Context) ([]model.Warehouse, error) {
	var rows []model.Warehouse
	err := r.db.WithContext(ctx).Order("owner_id ASC, product_id ASC").Find(&rows).Error
	return rows, err
}

func (r *warehouseRepo) LockTx(tx *gorm.DB, ownerID, productID uint) ([]model.Warehouse, error) {
	var rows []model.Warehouse
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("owner_id = ? AND product_id = ?", ownerID, productID).
		Find(&rows).Error
	return rows, err
}

func (r *warehouseRepo) IncrementTx(tx *gorm.DB, ownerID, productID uint, delta int) error {
	w := model.Warehouse{OwnerID: ownerID, ProductID: productID, Quantity: delta}
	return tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "owner_id"}, {Name: "product_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity": gorm.Expr("warehouses.quantity + ?", delta),
		}),
	}).Create(&w).Error
}

func (r *warehouseRepo) AddTx(tx *gorm.DB, ownerID, productID uint, delta int) (bool, error) {
	res := tx.Model(&model.Warehouse{}).
		Where("owner_id = ? AND product_id = ?", ownerID, productID).
		UpdateColumn("quantity", gorm.Expr("quantity + ?", delta))
	return res.RowsAffected > 0, res.Error
}

func (r *warehouseRepo) CreateTx(tx *gorm.DB, w *model.Warehouse) error {
	return tx.Create(w).Error
}

// ── Payables ─────────────────────────────────────────────────────────────────

type PayableRepository interface {
	FindByID(ctx context.Context, id uint) (*model.Payable, error)
	FindOpen(ctx context.Context, ownerID, supplierID uint) (*model.Payable, error)
	// ListOpenFor returns unpaid rows where the supplier is debtor or creditor.
	ListOpenFor(ctx context.Context, supplierID uint) ([]model.Payable, error)
	List(ctx context.Context, onlyOpen bool) ([]model.Payable, error)
	Settle(ctx context.Context, id uint, paidDate time.Time) (int64, error)

	LockOpenTx(tx *gorm.DB, ownerID, supplierID uint) (*model.Payable, error)
	AddAmountTx(tx *gorm.DB, id uint, delta decimal.Decimal) error
	CreateTx(tx *gorm.DB, p *model.Payable) error
}

type payableRepo struct{ db *gorm.DB }

func NewPayableRepository(db *gorm.DB) PayableRepository { return &payableRepo{db: db} }

func (r *payableRepo) FindByID(ctx context.Context, id uint) (*model.Payable, error) {
	var p model.Payable
	err := r.db.WithContext(ctx).First(&p, id).Error
	return &p, err
}

func (r *payableRepo) FindOpen(ctx context.Context, ownerID, supplierID uint) (*model.Payable, error) {
	var p model.Payable
	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND supplier_id = ? AND is_paid = ?", ownerID, supplierID, false).
		First(&p).Error
	return &p, err
}

func (r *payableRepo) ListOpenFor(ctx context.Context, supplierID uint) ([]model.Payable, error) {
	var rows []model.Payable
	err := r.db.WithContext(ctx).
		Where("is_paid = ? AND (owner_id = ? OR supplier_id = ?)", false, supplierID, supplierID).
		Order("id ASC").Find(&rows).Error
	return rows, err
}

func (r *payableRepo) List(ctx context.Context, onlyOpen bool) ([]model.Payable, error) {
	var rows []model.Payable
	q := r.db.WithContext(ctx).Model(&model.Payable{})
	if onlyOpen {
		q = q.Where("is_paid = ?", false)
	}
	err := q.Order("id ASC").Find(&rows).Error
	return rows, err
}

func (r *payableRepo) Settle(ctx context.Context, id uint, paidDate time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.Payable{}).Where("id = ?", id).Updates(map[string]interface{}{
		"amount":    decimal.Zero,
		"is_paid":   true,
		"paid_date": paidDate,
	})
	return res.RowsAffected, res.Error
}

func (r *payableRepo) LockOpenTx(tx *gorm.DB, ownerID, supplierID uint) (*model.Payable, error) {
	var p model.Payable
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("owner_id = ? AND supplier_id = ? AND is_paid = ?", ownerID, supplierID, false).
		First(&p).Error
	return &p, err
}

func (r *payableRepo) AddAmountTx(tx *gorm.DB, id uint, delta decimal.Decimal) error {
	return tx.Model(&model.Payable{}).Where("id = ?", id).
		UpdateColumn("amount", gorm.Expr("amount + ?", delta)).Error
}

func (r *payableRepo) CreateTx(tx *gorm.DB, p *model.Payable) error {
	return tx.Create(p).Error
}
