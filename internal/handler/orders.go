package handler

import (
	"fmt"
	"net/http"

	"retailing/internal/dto"
	"retailing/internal/middleware"
	"retailing/internal/service"

	"github.com/gin-gonic/gin"
)

type OrdersHandler struct{ svc service.OrderService }

func NewOrdersHandler(svc service.OrderService) *OrdersHandler {
	return &OrdersHandler{svc: svc}
}

// Submit godoc
// @Summary      Submit an order
// @Description  Records the order and applies its stock and payable effects in one transaction.
// @Description  Rejections carry a stable code: unauthorized, invalid_operation_for_supplier_type,
// @Description  self_trade_forbidden, insufficient_stock, invalid_input.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.SubmitOrderRequest true "Order"
// @Success      201 {object} dto.OrderResponse
// @Failure      403 {object} apierror.APIError
// @Failure      422 {object} apierror.APIError
// @Router       /v1/orders [post]
func (h *OrdersHandler) Submit(c *gin.Context) {
	var req dto.SubmitOrderRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Submit(c.Request.Context(), middleware.GetCaller(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// List godoc
// @Summary   List the caller's orders
// @Tags      orders
// @Produce   json
// @Security  BearerAuth
// @Success   200 {array} dto.OrderResponse
// @Router    /v1/orders [get]
func (h *OrdersHandler) List(c *gin.Context) {
	resp, err := h.svc.List(c.Request.Context(), middleware.GetCaller(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Get godoc
// @Summary   Retrieve an order
// @Tags      orders
// @Produce   json
// @Security  BearerAuth
// @Param     id path int true "Order id"
// @Success   200 {object} dto.OrderResponse
// @Failure   404 {object} apierror.APIError
// @Router    /v1/orders/{id} [get]
func (h *OrdersHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), middleware.GetCaller(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Receipt godoc
// @Summary   Download an order receipt
// @Tags      orders
// @Produce   application/pdf
// @Security  BearerAuth
// @Param     id path int true "Order id"
// @Success   200 {file} binary
// @Router    /v1/orders/{id}/receipt [get]
func (h *OrdersHandler) Receipt(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	pdf, err := h.svc.Receipt(c.Request.Context(), middleware.GetCaller(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="order-%d.pdf"`, id))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// Update godoc
// @Summary  Orders are immutable
// @Tags     orders
// @Failure  405 {object} apierror.APIError
// @Router   /v1/orders/{id} [put]
func (h *OrdersHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	respondError(c, h.svc.Update(c.Request.Context(), middleware.GetCaller(c), id))
}

// Delete godoc
// @Summary  Orders are immutable
// @Tags     orders
// @Failure  405 {object} apierror.APIError
// @Router   /v1/orders/{id} [delete]
func (h *OrdersHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	respondError(c, h.svc.Delete(c.Request.Context(), middleware.GetCaller(c), id))
}
