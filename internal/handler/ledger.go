package handler

import (
	"net/http"
	"strconv"

	"retailing/internal/apierror"
	"retailing/internal/middleware"
	"retailing/internal/service"

	"github.com/gin-gonic/gin"
)

// LedgerHandler exposes read-only views of both ledgers. Writes only happen
// as side effects of order submission and payable settlement.
type LedgerHandler struct {
	inventory  service.InventoryLedger
	payables   service.PayableLedger
	reconciler service.Reconciler
}

func NewLedgerHandler(inventory service.InventoryLedger, payables service.PayableLedger, reconciler service.Reconciler) *LedgerHandler {
	return &LedgerHandler{inventory: inventory, payables: payables, reconciler: reconciler}
}

// ListWarehouse godoc
// @Summary   List the caller's stock
// @Tags      ledger
// @Produce   json
// @Security  BearerAuth
// @Success   200 {array} dto.WarehouseResponse
// @Router    /v1/warehouse [get]
func (h *LedgerHandler) ListWarehouse(c *gin.Context) {
	resp, err := h.inventory.ListByOwner(c.Request.Context(), middleware.GetCaller(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetWarehouse godoc
// @Summary   Retrieve one of the caller's stock rows
// @Tags      ledger
// @Produce   json
// @Security  BearerAuth
// @Param     id path int true "Warehouse row id"
// @Success   200 {object} dto.WarehouseResponse
// @Router    /v1/warehouse/{id} [get]
func (h *LedgerHandler) GetWarehouse(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.inventory.Get(c.Request.Context(), middleware.GetCaller(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListPayables godoc
// @Summary      List open payables involving the caller
// @Description  Rows where the caller's supplier is either the debtor or the creditor.
// @Tags         ledger
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} dto.PayableResponse
// @Router       /v1/payables [get]
func (h *LedgerHandler) ListPayables(c *gin.Context) {
	resp, err := h.payables.ListOpenFor(c.Request.Context(), middleware.GetCaller(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetPayable godoc
// @Summary   Retrieve an open payable involving the caller
// @Tags      ledger
// @Produce   json
// @Security  BearerAuth
// @Param     id path int true "Payable id"
// @Success   200 {object} dto.PayableResponse
// @Router    /v1/payables/{id} [get]
func (h *LedgerHandler) GetPayable(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.payables.GetOpenFor(c.Request.Context(), middleware.GetCaller(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ── Admin ────────────────────────────────────────────────────────────────────

// AdminListPayables godoc
// @Summary   List all payables (superuser)
// @Tags      admin
// @Produce   json
// @Security  BearerAuth
// @Param     open query bool false "Only unpaid rows"
// @Success   200 {array} dto.PayableResponse
// @Router    /v1/admin/payables [get]
func (h *LedgerHandler) AdminListPayables(c *gin.Context) {
	onlyOpen := false
	if raw := c.Query("open"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("invalid open flag"))
			return
		}
		onlyOpen = v
	}
	resp, err := h.payables.List(c.Request.Context(), onlyOpen)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// SettlePayable godoc
// @Summary      Mark a payable as paid (superuser)
// @Description  Zeroes the amount and stamps today's date. Settling a paid row is a no-op.
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Payable id"
// @Success      200 {object} dto.PayableResponse
// @Router       /v1/admin/payables/{id}/settle [post]
func (h *LedgerHandler) SettlePayable(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.payables.Settle(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Reconcile godoc
// @Summary      Compare stock against the order journal (superuser)
// @Description  Returns every (owner, product) pair whose stored quantity differs from the replayed one.
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} dto.DriftResponse
// @Router       /v1/admin/reconcile [post]
func (h *LedgerHandler) Reconcile(c *gin.Context) {
	resp, err := h.reconciler.Run(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
