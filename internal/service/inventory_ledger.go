package service

import (
	"context"
	"errors"
	"fmt"

	"retailing/internal/dto"
	"retailing/internal/model"
	"retailing/internal/repository"

	"gorm.io/gorm"
)

// InventoryLedger is the stock projection: one line per (owner, product).
// It never clamps; a negative result is rejected by the quantity >= 0 check
// constraint and surfaces as an error.
type InventoryLedger interface {
	GetStock(ctx context.Context, ownerID, productID uint) (int, error)
	ListByOwner(ctx context.Context, caller Caller) ([]dto.WarehouseResponse, error)
	Get(ctx context.Context, caller Caller, id uint) (*dto.WarehouseResponse, error)

	// Called within an order transaction: requires a live *gorm.DB tx.
	AggregateStockForUpdate(tx *gorm.DB, ownerID, productID uint) (int, error)
	Adjust(tx *gorm.DB, ownerID, productID uint, delta int) error
}

type inventoryLedger struct {
	repo repository.WarehouseRepository
}

func NewInventoryLedger(repo repository.WarehouseRepository) InventoryLedger {
	return &inventoryLedger{repo: repo}
}

func (l *inventoryLedger) GetStock(ctx context.Context, ownerID, productID uint) (int, error) {
	w, err := l.repo.Find(ctx, ownerID, productID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, dbError(err, "warehouse")
	}
	return w.Quantity, nil
}

func (l *inventoryLedger) ListByOwner(ctx context.Context, caller Caller) ([]dto.WarehouseResponse, error) {
	if err := CheckCaller(caller); err != nil {
		return nil, err
	}
	rows, err := l.repo.ListByOwner(ctx, caller.Supplier())
	if err != nil {
		return nil, dbError(err, "warehouse")
	}
	resp := make([]dto.WarehouseResponse, len(rows))
	for i := range rows {
		resp[i] = warehouseToResponse(&rows[i])
	}
	return resp, nil
}

func (l *inventoryLedger) Get(ctx context.Context, caller Caller, id uint) (*dto.WarehouseResponse, error) {
	if err := CheckCaller(caller); err != nil {
		return nil, err
	}
	w, err := l.repo.FindByIDForOwner(ctx, id, caller.Supplier())
	if err != nil {
		return nil, dbError(err, fmt.Sprintf("warehouse %d", id))
	}
	resp := warehouseToResponse(w)
	return &resp, nil
}

// AggregateStockForUpdate locks and sums every line the owner holds for the
// product. Only one line is expected; the sum is a safety net.
func (l *inventoryLedger) AggregateStockForUpdate(tx *gorm.DB, ownerID, productID uint) (int, error) {
	rows, err := l.repo.LockTx(tx, ownerID, productID)
	if err != nil {
		return 0, err
	}
	total := 0
	for _, w := range rows {
		total += w.Quantity
	}
	return total, nil
}

func (l *inventoryLedger) Adjust(tx *gorm.DB, ownerID, productID uint, delta int) error {
	if delta == 0 {
		return nil
	}
	if delta > 0 {
		return l.repo.IncrementTx(tx, ownerID, productID, delta)
	}
	found, err := l.repo.AddTx(tx, ownerID, productID, delta)
	if err != nil {
		return err
	}
	if found {
		return nil
	}
	// Lazy zero row; the check constraint rejects the negative result.
	return l.repo.CreateTx(tx, &model.Warehouse{OwnerID: ownerID, ProductID: productID, Quantity: delta})
}

func warehouseToResponse(w *model.Warehouse) dto.WarehouseResponse {
	return dto.WarehouseResponse{ID: w.ID, OwnerID: w.OwnerID, ProductID: w.ProductID, Quantity: w.Quantity}
}
