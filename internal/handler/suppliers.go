package handler

import (
	"net/http"

	"retailing/internal/dto"
	"retailing/internal/middleware"
	"retailing/internal/service"

	"github.com/gin-gonic/gin"
)

type SuppliersHandler struct{ svc service.SupplierService }

func NewSuppliersHandler(svc service.SupplierService) *SuppliersHandler {
	return &SuppliersHandler{svc: svc}
}

// Register godoc
// @Summary      Register the caller's supplier
// @Description  A user registers at most one supplier and becomes its employee.
// @Tags         suppliers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.RegisterSupplierRequest true "Supplier"
// @Success      201 {object} dto.SupplierResponse
// @Failure      409 {object} apierror.APIError
// @Router       /v1/suppliers [post]
func (h *SuppliersHandler) Register(c *gin.Context) {
	var req dto.RegisterSupplierRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Register(c.Request.Context(), middleware.GetCaller(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// List godoc
// @Summary  List suppliers
// @Tags     suppliers
// @Produce  json
// @Success  200 {array} dto.SupplierResponse
// @Router   /v1/suppliers [get]
func (h *SuppliersHandler) List(c *gin.Context) {
	resp, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Get godoc
// @Summary  Retrieve a supplier
// @Tags     suppliers
// @Produce  json
// @Param    id path int true "Supplier id"
// @Success  200 {object} dto.SupplierResponse
// @Failure  404 {object} apierror.APIError
// @Router   /v1/suppliers/{id} [get]
func (h *SuppliersHandler) Get(c *gin.Context) {
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

// Update godoc
// @Summary   Update the caller's supplier
// @Tags      suppliers
// @Accept    json
// @Produce   json
// @Security  BearerAuth
// @Param     id   path int                       true "Supplier id"
// @Param     body body dto.UpdateSupplierRequest true "Fields to change"
// @Success   200 {object} dto.SupplierResponse
// @Router    /v1/suppliers/{id} [patch]
func (h *SuppliersHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateSupplierRequest
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
// @Summary      Delete the caller's supplier
// @Description  Detaches every employee, then deletes. Fails with 409 while trading data references it.
// @Tags         suppliers
// @Security     BearerAuth
// @Param        id path int true "Supplier id"
// @Success      204
// @Failure      409 {object} apierror.APIError
// @Router       /v1/suppliers/{id} [delete]
func (h *SuppliersHandler) Delete(c *gin.Context) {
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
