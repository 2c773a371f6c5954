package repository

import (
	"context"

	"retailing/internal/model"

	"gorm.io/gorm"
)

type SupplierRepository interface {
	CreateTx(tx *gorm.DB, s *model.Supplier) error
	FindByID(ctx context.Context, id uint) (*model.Supplier, error)
	List(ctx context.Context) ([]model.Supplier, error)
	Update(ctx context.Context, s *model.Supplier) error
	DeleteTx(tx *gorm.DB, id uint) error
	// CountCreatedBy returns how many suppliers the user registered.
	CountCreatedBy(ctx context.Context, userID uint) (int64, error)
	// CountReferencesTx counts rows in products, warehouses, orders and
	// payables that point at the supplier.
	CountReferencesTx(tx *gorm.DB, id uint) (int64, error)
	DB() *gorm.DB
}

type supplierRepo struct{ db *gorm.DB }

func NewSupplierRepository(db *gorm.DB) SupplierRepository { return &supplierRepo{db: db} }

func (r *supplierRepo) DB() *gorm.DB { return r.db }

func (r *supplierRepo) CreateTx(tx *gorm.DB, s *model.Supplier) error {
	return tx.Create(s).Error
}

func (r *supplierRepo) FindByID(ctx context.Context, id uint) (*model.Supplier, error) {
	var s model.Supplier
	err := r.db.WithContext(ctx).First(&s, id).Error
	return &s, err
}

func (r *supplierRepo) List(ctx context.Context) ([]model.Supplier, error) {
	var suppliers []model.Supplier
	err := r.db.WithContext(ctx).Order("name ASC").Find(&suppliers).Error
	return suppliers, err
}

func (r *supplierRepo) Update(ctx context.Context, s *model.Supplier) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *supplierRepo) DeleteTx(tx *gorm.DB, id uint) error {
	return tx.Delete(&model.Supplier{}, id).Error
}

func (r *supplierRepo) CountCreatedBy(ctx context.Context, userID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Supplier{}).Where("user_id = ?", userID).Count(&n).Error
	return n, err
}

func (r *supplierRepo) CountReferencesTx(tx *gorm.DB, id uint) (int64, error) {
	var total int64
	checks := []struct {
		model any
		where string
	}{
		{&model.Product{}, "supplier_id = @id"},
		{&model.Warehouse{}, "owner_id = @id"},
		{&model.Order{}, "owner_id = @id OR supplier_id = @id"},
		{&model.Payable{}, "owner_id = @id OR supplier_id = @id"},
	}
	for _, c := range checks {
		var n int64
		if err := tx.Model(c.model).Where(c.where, map[string]any{"id": id}).Count(&n).Error; err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}
