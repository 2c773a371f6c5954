package repository

import (
	"context"

	"retailing/internal/dto"
	"retailing/internal/model"

	"gorm.io/gorm"
)

// ── Countries ────────────────────────────────────────────────────────────────

type CountryRepository interface {
	List(ctx context.Context, filter dto.CountryFilter) ([]model.Country, error)
	FindByID(ctx context.Context, id uint) (*model.Country, error)
	// ReplaceAll swaps the whole reference table in one transaction.
	ReplaceAll(ctx context.Context, countries []model.Country) error
}

type countryRepo struct{ db *gorm.DB }

func NewCountryRepository(db *gorm.DB) CountryRepository { return &countryRepo{db: db} }

var countryOrderings = map[string]string{
	"name":  "name ASC",
	"-name": "name DESC",
	"code":  "code ASC",
	"-code": "code DESC",
}

func (r *countryRepo) List(ctx context.Context, filter dto.CountryFilter) ([]model.Country, error) {
	var countries []model.Country
	q := r.db.WithContext(ctx).Model(&model.Country{})
	if filter.Search != "" {
		q = q.Where("LOWER(name) LIKE LOWER(?)", "%"+filter.Search+"%")
	}
	order, ok := countryOrderings[filter.Ordering]
	if !ok {
		order = "name ASC"
	}
	err := q.Order(order).Find(&countries).Error
	return countries, err
}

func (r *countryRepo) FindByID(ctx context.Context, id uint) (*model.Country, error) {
	var c model.Country
	err := r.db.WithContext(ctx).First(&c, id).Error
	return &c, err
}

func (r *countryRepo) ReplaceAll(ctx context.Context, countries []model.Country) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.Country{}).Error; err != nil {
			return err
		}
		if len(countries) == 0 {
			return nil
		}
		return tx.CreateInBatches(countries, 100).Error
	})
}

// ── Categories ───────────────────────────────────────────────────────────────

type CategoryRepository interface {
	Create(ctx context.Context, c *model.Category) error
	FindByID(ctx context.Context, id uint) (*model.Category, error)
	List(ctx context.Context) ([]model.Category, error)
	Update(ctx context.Context, c *model.Category) error
	Delete(ctx context.Context, id uint) error
	CountProducts(ctx context.Context, id uint) (int64, error)
}

type categoryRepo struct{ db *gorm.DB }

func NewCategoryRepository(db *gorm.DB) CategoryRepository { return &categoryRepo{db: db} }

func (r *categoryRepo) Create(ctx context.Context, c *model.Category) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *categoryRepo) FindByID(ctx context.Context, id uint) (*model.Category, error) {
	var c model.Category
	err := r.db.WithContext(ctx).First(&c, id).Error
	return &c, err
}

func (r *categoryRepo) List(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	err := r.db.WithContext(ctx).Order("name ASC").Find(&categories).Error
	return categories, err
}

func (r *categoryRepo) Update(ctx context.Context, c *model.Category) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *categoryRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Category{}, id).Error
}

func (r *categoryRepo) CountProducts(ctx context.Context, id uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Product{}).Where("category_id = ?", id).Count(&n).Error
	return n, err
}

// ── Products ─────────────────────────────────────────────────────────────────

type ProductRepository interface {
	Create(ctx context.Context, p *model.Product) error
	FindByID(ctx context.Context, id uint) (*model.Product, error)
	List(ctx context.Context, filter dto.ProductFilter) ([]model.Product, int64, error)
	Update(ctx context.Context, p *model.Product) error
	Delete(ctx context.Context, id uint) error
	IncrementViews(ctx context.Context, id uint) error
	// CountReferences counts orders and stock lines that point at the product.
	CountReferences(ctx context.Context, id uint) (int64, error)
}

type productRepo struct{ db *gorm.DB }

func NewProductRepository(db *gorm.DB) ProductRepository { return &productRepo{db: db} }

func (r *productRepo) Create(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productRepo) FindByID(ctx context.Context, id uint) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).First(&p, id).Error
	return &p, err
}

func (r *productRepo) List(ctx context.Context, filter dto.ProductFilter) ([]model.Product, int64, error) {
	var products []model.Product
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Product{})
	if filter.Search != "" {
		q = q.Where("LOWER(name) LIKE LOWER(?)", "%"+filter.Search+"%")
	}
	if filter.CategoryID != 0 {
		q = q.Where("category_id = ?", filter.CategoryID)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("name ASC").Limit(filter.Limit).Offset(offset).Find(&products).Error
	return products, total, err
}

func (r *productRepo) Update(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *productRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Product{}, id).Error
}

func (r *productRepo) IncrementViews(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&model.Product{}).Where("id = ?", id).
		UpdateColumn("view_counter", gorm.Expr("view_counter + 1")).Error
}

func (r *productRepo) CountReferences(ctx context.Context, id uint) (int64, error) {
	var orders, stock int64
	if err := r.db.WithContext(ctx).Model(&model.Order{}).Where("product_id = ?", id).Count(&orders).Error; err != nil {
		return 0, err
	}
	if err := r.db.WithContext(ctx).Model(&model.Warehouse{}).Where("product_id = ?", id).Count(&stock).Error; err != nil {
		return 0, err
	}
	return orders + stock, nil
}
