package service

import (
	"context"
	"fmt"
	"time"

	"retailing/internal/dto"
	"retailing/internal/model"
	"retailing/internal/repository"

	"github.com/rs/zerolog/log"
)

const releaseDateLayout = "2006-01-02"

// ── Countries ────────────────────────────────────────────────────────────────

type CountryService interface {
	List(ctx context.Context, filter dto.CountryFilter) ([]dto.CountryResponse, error)
	Get(ctx context.Context, id uint) (*dto.CountryResponse, error)
	// Load replaces the reference table with countries.
	Load(ctx context.Context, countries []model.Country) (int, error)
}

type countryService struct{ repo repository.CountryRepository }

func NewCountryService(repo repository.CountryRepository) CountryService {
	return &countryService{repo: repo}
}

func (s *countryService) List(ctx context.Context, filter dto.CountryFilter) ([]dto.CountryResponse, error) {
	countries, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, dbError(err, "countries")
	}
	resp := make([]dto.CountryResponse, len(countries))
	for i, c := range countries {
		resp[i] = dto.CountryResponse{ID: c.ID, Code: c.Code, Name: c.Name}
	}
	return resp, nil
}

func (s *countryService) Get(ctx context.Context, id uint) (*dto.CountryResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, dbError(err, fmt.Sprintf("country %d", id))
	}
	return &dto.CountryResponse{ID: c.ID, Code: c.Code, Name: c.Name}, nil
}

func (s *countryService) Load(ctx context.Context, countries []model.Country) (int, error) {
	if err := s.repo.ReplaceAll(ctx, countries); err != nil {
		return 0, dbError(err, "countries")
	}
	log.Info().Int("count", len(countries)).Msg("countries loaded")
	return len(countries), nil
}

// ── Categories ───────────────────────────────────────────────────────────────

type CategoryService interface {
	Create(ctx context.Context, req dto.CategoryRequest) (*dto.CategoryResponse, error)
	List(ctx context.Context) ([]dto.CategoryResponse, error)
	Get(ctx context.Context, id uint) (*dto.CategoryResponse, error)
	Update(ctx context.Context, id uint, req dto.CategoryRequest) (*dto.CategoryResponse, error)
	Delete(ctx context.Context, id uint) error
}

type categoryService struct{ repo repository.CategoryRepository }

func NewCategoryService(repo repository.CategoryRepository) CategoryService {
	return &categoryService{repo: repo}
}

func (s *categoryService) Create(ctx context.Context, req dto.CategoryRequest) (*dto.CategoryResponse, error) {
	c := &model.Category{Name: req.Name}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, dbError(err, "category "+req.Name)
	}
	return &dto.CategoryResponse{ID: c.ID, Name: c.Name}, nil
}

func (s *categoryService) List(ctx context.Context) ([]dto.CategoryResponse, error) {
	categories, err := s.repo.List(ctx)
	if err != nil {
		return nil, dbError(err, "categories")
	}
	resp := make([]dto.CategoryResponse, len(categories))
	for i, c := range categories {
		resp[i] = dto.CategoryResponse{ID: c.ID, Name: c.Name}
	}
	return resp, nil
}

func (s *categoryService) Get(ctx context.Context, id uint) (*dto.CategoryResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, dbError(err, fmt.Sprintf("category %d", id))
	}
	return &dto.CategoryResponse{ID: c.ID, Name: c.Name}, nil
}

func (s *categoryService) Update(ctx context.Context, id uint, req dto.CategoryRequest) (*dto.CategoryResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, dbError(err, fmt.Sprintf("category %d", id))
	}
	c.Name = req.Name
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, dbError(err, "category "+req.Name)
	}
	return &dto.CategoryResponse{ID: c.ID, Name: c.Name}, nil
}

// Delete refuses to remove a category that still has products.
func (s *categoryService) Delete(ctx context.Context, id uint) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return dbError(err, fmt.Sprintf("category %d", id))
	}
	n, err := s.repo.CountProducts(ctx, id)
	if err != nil {
		return dbError(err, "products")
	}
	if n > 0 {
		return fmt.Errorf("%w: category %d has %d products", ErrInUse, id, n)
	}
	return dbError(s.repo.Delete(ctx, id), fmt.Sprintf("category %d", id))
}

// ── Products ─────────────────────────────────────────────────────────────────

type ProductService interface {
	Create(ctx context.Context, caller Caller, req dto.CreateProductRequest) (*dto.ProductResponse, error)
	List(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error)
	// Get returns the product and counts the view.
	Get(ctx context.Context, id uint) (*dto.ProductResponse, error)
	Update(ctx context.Context, caller Caller, id uint, req dto.UpdateProductRequest) (*dto.ProductResponse, error)
	Delete(ctx context.Context, caller Caller, id uint) error
}

type productService struct {
	repo       repository.ProductRepository
	categories repository.CategoryRepository
}

func NewProductService(repo repository.ProductRepository, categories repository.CategoryRepository) ProductService {
	return &productService{repo: repo, categories: categories}
}

// Create registers a product for the caller's vendor.
func (s *productService) Create(ctx context.Context, caller Caller, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if err := CheckCaller(caller); err != nil {
		return nil, err
	}
	if caller.SupplierType != model.SupplierVendor {
		return nil, fmt.Errorf("%w: only vendors create products", ErrInvalidOperationForSupplierType)
	}
	release, err := time.Parse(releaseDateLayout, req.ReleaseDate)
	if err != nil {
		return nil, fmt.Errorf("%w: release_date must be YYYY-MM-DD", ErrInvalidInput)
	}
	if _, err := s.categories.FindByID(ctx, req.CategoryID); err != nil {
		return nil, dbError(err, fmt.Sprintf("category %d", req.CategoryID))
	}

	supplierID, userID := caller.Supplier(), caller.UserID
	p := &model.Product{
		Name:        req.Name,
		Model:       req.Model,
		CategoryID:  req.CategoryID,
		SupplierID:  &supplierID,
		UserID:      &userID,
		ReleaseDate: release,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, dbError(err, "product "+req.Name)
	}
	resp := productToResponse(p)
	return &resp, nil
}

func (s *productService) List(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}
	products, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, dbError(err, "products")
	}
	resp := &dto.ProductListResponse{
		Data:  make([]dto.ProductResponse, len(products)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for i := range products {
		resp.Data[i] = productToResponse(&products[i])
	}
	return resp, nil
}

func (s *productService) Get(ctx context.Context, id uint) (*dto.ProductResponse, error) {
	if err := s.repo.IncrementViews(ctx, id); err != nil {
		return nil, dbError(err, fmt.Sprintf("product %d", id))
	}
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, dbError(err, fmt.Sprintf("product %d", id))
	}
	resp := productToResponse(p)
	return &resp, nil
}

func (s *productService) Update(ctx context.Context, caller Caller, id uint, req dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	p, err := s.ownProduct(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Model != nil {
		p.Model = req.Model
	}
	if req.CategoryID != nil {
		if _, err := s.categories.FindByID(ctx, *req.CategoryID); err != nil {
			return nil, dbError(err, fmt.Sprintf("category %d", *req.CategoryID))
		}
		p.CategoryID = *req.CategoryID
	}
	if req.ReleaseDate != nil {
		release, err := time.Parse(releaseDateLayout, *req.ReleaseDate)
		if err != nil {
			return nil, fmt.Errorf("%w: release_date must be YYYY-MM-DD", ErrInvalidInput)
		}
		p.ReleaseDate = release
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, dbError(err, fmt.Sprintf("product %d", id))
	}
	resp := productToResponse(p)
	return &resp, nil
}

// Delete refuses to remove a product that appears in orders or stock lines.
func (s *productService) Delete(ctx context.Context, caller Caller, id uint) error {
	if _, err := s.ownProduct(ctx, caller, id); err != nil {
		return err
	}
	n, err := s.repo.CountReferences(ctx, id)
	if err != nil {
		return dbError(err, "product references")
	}
	if n > 0 {
		return fmt.Errorf("%w: product %d is referenced by %d orders or stock lines", ErrInUse, id, n)
	}
	return dbError(s.repo.Delete(ctx, id), fmt.Sprintf("product %d", id))
}

func (s *productService) ownProduct(ctx context.Context, caller Caller, id uint) (*model.Product, error) {
	if err := CheckCaller(caller); err != nil {
		return nil, err
	}
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, dbError(err, fmt.Sprintf("product %d", id))
	}
	if p.SupplierID == nil || *p.SupplierID != caller.Supplier() {
		return nil, fmt.Errorf("%w: product %d belongs to another supplier", ErrUnauthorized, id)
	}
	return p, nil
}

func productToResponse(p *model.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Model:       p.Model,
		CategoryID:  p.CategoryID,
		SupplierID:  p.SupplierID,
		UserID:      p.UserID,
		ReleaseDate: p.ReleaseDate.Format(releaseDateLayout),
		ViewCounter: p.ViewCounter,
	}
}
