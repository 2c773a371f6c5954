package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"retailing/internal/dto"
	"retailing/internal/middleware"
	"retailing/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// ── Countries ────────────────────────────────────────────────────────────────

const countryCachePrefix = "countries:"

// CountriesHandler serves the public country reference list.
// Lists are cached in Redis; the cache is best effort and rdb may be nil.
type CountriesHandler struct {
	svc service.CountryService
	rdb *redis.Client
	ttl time.Duration
}

func NewCountriesHandler(svc service.CountryService, rdb *redis.Client, ttl time.Duration) *CountriesHandler {
	return &CountriesHandler{svc: svc, rdb: rdb, ttl: ttl}
}

// List godoc
// @Summary  List countries
// @Tags     reference
// @Produce  json
// @Param    search   query string false "Name contains"
// @Param    ordering query string false "name | -name | code | -code"
// @Success  200 {array} dto.CountryResponse
// @Router   /v1/countries [get]
func (h *CountriesHandler) List(c *gin.Context) {
	var filter dto.CountryFilter
	if !bindQuery(c, &filter) {
		return
	}
	ctx := c.Request.Context()
	cacheKey := countryCachePrefix + filter.Ordering + ":" + filter.Search

	// 1. Try Redis cache
	if h.rdb != nil {
		if cached, err := h.rdb.Get(ctx, cacheKey).Bytes(); err == nil {
			var resp []dto.CountryResponse
			if jsonErr := json.Unmarshal(cached, &resp); jsonErr == nil {
				c.JSON(http.StatusOK, resp)
				return
			}
		}
	}

	// 2. Cache miss: query DB
	resp, err := h.svc.List(ctx, filter)
	if err != nil {
		respondError(c, err)
		return
	}

	// 3. Populate cache: best effort, ignore errors
	if h.rdb != nil {
		if b, jsonErr := json.Marshal(resp); jsonErr == nil {
			if err := h.rdb.Set(context.WithoutCancel(ctx), cacheKey, b, h.ttl).Err(); err != nil {
				log.Debug().Err(err).Msg("country cache write failed")
			}
		}
	}

	c.JSON(http.StatusOK, resp)
}

// Get godoc
// @Summary  Retrieve a country
// @Tags     reference
// @Produce  json
// @Param    id path int true "Country id"
// @Success  200 {object} dto.CountryResponse
// @Router   /v1/countries/{id} [get]
func (h *CountriesHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ── Categories ───────────────────────────────────────────────────────────────

type CategoriesHandler struct{ svc service.CategoryService }

func NewCategoriesHandler(svc service.CategoryService) *CategoriesHandler {
	return &CategoriesHandler{svc: svc}
}

// List godoc
// @Summary  List categories
// @Tags     catalog
// @Produce  json
// @Success  200 {array} dto.CategoryResponse
// @Router   /v1/categories [get]
func (h *CategoriesHandler) List(c *gin.Context) {
	resp, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Get godoc
// @Summary  Retrieve a category
// @Tags     catalog
// @Produce  json
// @Param    id path int true "Category id"
// @Success  200 {object} dto.CategoryResponse
// @Router   /v1/categories/{id} [get]
func (h *CategoriesHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Create godoc
// @Summary   Create a category
// @Tags      catalog
// @Accept    json
// @Produce   json
// @Security  BearerAuth
// @Param     body body dto.CategoryRequest true "Category"
// @Success   201 {object} dto.CategoryResponse
// @Router    /v1/categories [post]
func (h *CategoriesHandler) Create(c *gin.Context) {
	var req dto.CategoryRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Update godoc
// @Summary   Rename a category
// @Tags      catalog
// @Accept    json
// @Produce   json
// @Security  BearerAuth
// @Param     id   path int                 true "Category id"
// @Param     body body dto.CategoryRequest true "Category"
// @Success   200 {object} dto.CategoryResponse
// @Router    /v1/categories/{id} [put]
func (h *CategoriesHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.CategoryRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Delete godoc
// @Summary   Delete an unused category
// @Tags      catalog
// @Security  BearerAuth
// @Param     id path int true "Category id"
// @Success   204
// @Failure   409 {object} apierror.APIError
// @Router    /v1/categories/{id} [delete]
func (h *CategoriesHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ── Products ─────────────────────────────────────────────────────────────────

type ProductsHandler struct{ svc service.ProductService }

func NewProductsHandler(svc service.ProductService) *ProductsHandler {
	return &ProductsHandler{svc: svc}
}

// List godoc
// @Summary  List products
// @Tags     catalog
// @Produce  json
// @Param    search   query string false "Name contains"
// @Param    category query int    false "Category id"
// @Param    page     query int    false "Page (default 1)"
// @Param    limit    query int    false "Page size (default 20)"
// @Success  200 {object} dto.ProductListResponse
// @Router   /v1/products [get]
func (h *ProductsHandler) List(c *gin.Context) {
	var filter dto.ProductFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Get godoc
// @Summary  Retrieve a product (counts a view)
// @Tags     catalog
// @Produce  json
// @Param    id path int true "Product id"
// @Success  200 {object} dto.ProductResponse
// @Router   /v1/products/{id} [get]
func (h *ProductsHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Create godoc
// @Summary   Create a product (vendors)
// @Tags      catalog
// @Accept    json
// @Produce   json
// @Security  BearerAuth
// @Param     body body dto.CreateProductRequest true "Product"
// @Success   201 {object} dto.ProductResponse
// @Failure   403 {object} apierror.APIError
// @Router    /v1/products [post]
func (h *ProductsHandler) Create(c *gin.Context) {
	var req dto.CreateProductRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), middleware.GetCaller(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Update godoc
// @Summary   Update an own product
// @Tags      catalog
// @Accept    json
// @Produce   json
// @Security  BearerAuth
// @Param     id   path int                      true "Product id"
// @Param     body body dto.UpdateProductRequest true "Fields to change"
// @Success   200 {object} dto.ProductResponse
// @Router    /v1/products/{id} [patch]
func (h *ProductsHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateProductRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), middleware.GetCaller(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Delete godoc
// @Summary   Delete an own, unreferenced product
// @Tags      catalog
// @Security  BearerAuth
// @Param     id path int true "Product id"
// @Success   204
// @Failure   409 {object} apierror.APIError
// @Router    /v1/products/{id} [delete]
func (h *ProductsHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), middleware.GetCaller(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
