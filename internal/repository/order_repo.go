package repository

import (
	"context"

	"retailing/internal/model"

	"gorm.io/gorm"
)

type OrderRepository interface {
	CreateTx(tx *gorm.DB, o *model.Order) error
	FindByID(ctx context.Context, id uint) (*model.Order, error)
	ListByOwner(ctx context.Context, ownerID uint) ([]model.Order, error)
	// StockMoving streams every addition and buying order in id order.
	StockMoving(ctx context.Context, fn func(o *model.Order) error) error
	DB() *gorm.DB // exposes the DB for transaction creation in service layer
}

type orderRepo struct{ db *gorm.DB }

func NewOrderRepository(db *gorm.DB) OrderRepository { return &orderRepo{db: db} }

func (r *orderRepo) DB() *gorm.DB { return r.db }

func (r *orderRepo) CreateTx(tx *gorm.DB, o *model.Order) error {
	return tx.Create(o).Error
}

func (r *orderRepo) FindByID(ctx context.Context, id uint) (*model.Order, error) {
	var o model.Order
	err := r.db.WithContext(ctx).First(&o, id).Error
	return &o, err
}

func (r *orderRepo) ListByOwner(ctx context.Context, ownerID uint) ([]model.Order, error) {
	var orders []model.Order
	err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).Order("created_at DESC, id DESC").Find(&orders).Error
	return orders, err
}

func (r *orderRepo) StockMoving(ctx context.Context, fn func(o *model.Order) error) error {
	var batch []model.Order
	return r.db.WithContext(ctx).
		Where("operation IN ?", []model.Operation{model.OpAddition, model.OpBuying}).
		Order("id ASC").
		FindInBatches(&batch, 500, func(tx *gorm.DB, _ int) error {
			for i := range batch {
				if err := fn(&batch[i]); err != nil {
					return err
				}
			}
			return nil
		}).Error
}
