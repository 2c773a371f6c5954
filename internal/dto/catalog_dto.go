package dto

// ─── Countries ───────────────────────────────────────────────────────────────

type CountryFilter struct {
	Search   string `form:"search"`
	Ordering string `form:"ordering"` // name | -name | code | -code
}

type CountryResponse struct {
	ID   uint   `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

// ─── Categories ──────────────────────────────────────────────────────────────

type CategoryRequest struct {
	Name string `json:"name" validate:"required,min=1,max=50"`
}

type CategoryResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// ─── Products ────────────────────────────────────────────────────────────────

type CreateProductRequest struct {
	Name        string  `json:"name"         validate:"required,min=1,max=25"`
	Model       *string `json:"model"        validate:"omitempty,max=50"`
	CategoryID  uint    `json:"category"     validate:"required"`
	ReleaseDate string  `json:"release_date" validate:"required,datetime=2006-01-02"`
}

type UpdateProductRequest struct {
	Name        *string `json:"name"         validate:"omitempty,min=1,max=25"`
	Model       *string `json:"model"        validate:"omitempty,max=50"`
	CategoryID  *uint   `json:"category"`
	ReleaseDate *string `json:"release_date" validate:"omitempty,datetime=2006-01-02"`
}

type ProductFilter struct {
	Search     string `form:"search"`
	CategoryID uint   `form:"category"`
	Page       int    `form:"page,default=1"   validate:"min=1"`
	Limit      int    `form:"limit,default=20" validate:"min=1,max=100"`
}

type ProductResponse struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	Model       *string `json:"model"`
	CategoryID  uint    `json:"category"`
	SupplierID  *uint   `json:"supplier"`
	UserID      *uint   `json:"user"`
	ReleaseDate string  `json:"release_date"`
	ViewCounter int     `json:"view_counter"`
}

type ProductListResponse struct {
	Data  []ProductResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}
