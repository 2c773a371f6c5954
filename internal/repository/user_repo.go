package repository

import (
	"context"

	"retailing/internal/model"

	"gorm.io/gorm"
)

// CallerRecord is the per-request projection of a user joined with the
// supplier they work for. SupplierType is nil when the user has no employer.
type CallerRecord struct {
	UserID       uint
	Email        string
	IsActive     bool
	IsSuperuser  bool
	SupplierID   *uint
	SupplierType *string
}

// UserRepository defines the data access contract for users.
type UserRepository interface {
	Create(ctx context.Context, u *model.User) error
	FindByID(ctx context.Context, id uint) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	Update(ctx context.Context, u *model.User) error
	Delete(ctx context.Context, id uint) error

	// FindCaller resolves identity claims fresh from the database.
	FindCaller(ctx context.Context, id uint) (*CallerRecord, error)

	// Used inside transactions: callers must pass the tx instance
	// AttachSupplierTx links an unemployed user; false when the user already
	// has a supplier.
	AttachSupplierTx(tx *gorm.DB, userID, supplierID uint) (bool, error)
	DetachEmployeesTx(tx *gorm.DB, supplierID uint) (int64, error)

	DB() *gorm.DB
}

type userRepo struct{ db *gorm.DB }

func NewUserRepository(db *gorm.DB) UserRepository { return &userRepo{db: db} }

func (r *userRepo) DB() *gorm.DB { return r.db }

func (r *userRepo) Create(ctx context.Context, u *model.User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *userRepo) FindByID(ctx context.Context, id uint) (*model.User, error) {
	var u model.User
	err := r.db.WithContext(ctx).First(&u, id).Error
	return &u, err
}

func (r *userRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error
	return &u, err
}

func (r *userRepo) List(ctx context.Context) ([]model.User, error) {
	var users []model.User
	err := r.db.WithContext(ctx).Order("id ASC").Find(&users).Error
	return users, err
}

func (r *userRepo) Update(ctx context.Context, u *model.User) error {
	return r.db.WithContext(ctx).Save(u).Error
}

func (r *userRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.User{}, id).Error
}

func (r *userRepo) FindCaller(ctx context.Context, id uint) (*CallerRecord, error) {
	var rec CallerRecord
	err := r.db.WithContext(ctx).
		Table("users").
		Select("users.id AS user_id, users.email, users.is_active, users.is_superuser, users.supplier_id, suppliers.type AS supplier_type").
		Joins("LEFT JOIN suppliers ON suppliers.id = users.supplier_id").
		Where("users.id = ?", id).
		Take(&rec).Error
	return &rec, err
}

func (r *userRepo) AttachSupplierTx(tx *gorm.DB, userID, supplierID uint) (bool, error) {
	res := tx.Model(&model.User{}).
		Where("id = ? AND supplier_id IS NULL", userID).
		Update("supplier_id", supplierID)
	return res.RowsAffected == 1, res.Error
}

func (r *userRepo) DetachEmployeesTx(tx *gorm.DB, supplierID uint) (int64, error) {
	res := tx.Model(&model.User{}).Where("supplier_id = ?", supplierID).Update("supplier_id", nil)
	return res.RowsAffected, res.Error
}
