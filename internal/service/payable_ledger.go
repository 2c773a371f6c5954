package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"retailing/internal/dto"
	"retailing/internal/model"
	"retailing/internal/repository"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PayableLedger keeps the running balance between two suppliers.
// Positive amounts mean the owner owes the supplier.
type PayableLedger interface {
	// Adjust is called within an order transaction. It accumulates delta on
	// the open row for the pair, creating the row at zero first if needed.
	Adjust(tx *gorm.DB, ownerID, supplierID uint, delta decimal.Decimal) error

	ListOpenFor(ctx context.Context, caller Caller) ([]dto.PayableResponse, error)
	GetOpenFor(ctx context.Context, caller Caller, id uint) (*dto.PayableResponse, error)

	// Administrative surface: not reachable by trading parties.
	List(ctx context.Context, onlyOpen bool) ([]dto.PayableResponse, error)
	Settle(ctx context.Context, id uint) (*dto.PayableResponse, error)
}

type payableLedger struct {
	repo repository.PayableRepository
	now  func() time.Time
}

func NewPayableLedger(repo repository.PayableRepository) PayableLedger {
	return &payableLedger{repo: repo, now: time.Now}
}

const openPayableSavepoint = "open_payable"

func (l *payableLedger) Adjust(tx *gorm.DB, ownerID, supplierID uint, delta decimal.Decimal) error {
	if delta.IsZero() {
		return nil
	}
	open, err := l.repo.LockOpenTx(tx, ownerID, supplierID)
	switch {
	case err == nil:
		return l.repo.AddAmountTx(tx, open.ID, delta)
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return err
	}

	// Another order for the same pair may commit the open row first. The
	// partial unique index then rejects this insert; roll back to the
	// savepoint and accumulate onto the winner's row instead.
	if err := tx.SavePoint(openPayableSavepoint).Error; err != nil {
		return err
	}
	err = l.repo.CreateTx(tx, &model.Payable{
		OwnerID:    ownerID,
		SupplierID: supplierID,
		Amount:     decimal.Zero.Add(delta),
	})
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		return err
	}
	if err := tx.RollbackTo(openPayableSavepoint).Error; err != nil {
		return err
	}
	open, err = l.repo.LockOpenTx(tx, ownerID, supplierID)
	if err != nil {
		return err
	}
	return l.repo.AddAmountTx(tx, open.ID, delta)
}

func (l *payableLedger) ListOpenFor(ctx context.Context, caller Caller) ([]dto.PayableResponse, error) {
	if err := CheckCaller(caller); err != nil {
		return nil, err
	}
	rows, err := l.repo.ListOpenFor(ctx, caller.Supplier())
	if err != nil {
		return nil, dbError(err, "payables")
	}
	return payablesToResponse(rows), nil
}

func (l *payableLedger) GetOpenFor(ctx context.Context, caller Caller, id uint) (*dto.PayableResponse, error) {
	if err := CheckCaller(caller); err != nil {
		return nil, err
	}
	p, err := l.repo.FindByID(ctx, id)
	if err != nil {
		return nil, dbError(err, fmt.Sprintf("payable %d", id))
	}
	own := caller.Supplier()
	if p.IsPaid || (p.OwnerID != own && p.SupplierID != own) {
		return nil, fmt.Errorf("%w: payable %d", ErrNotFound, id)
	}
	resp := payableToResponse(p)
	return &resp, nil
}

func (l *payableLedger) List(ctx context.Context, onlyOpen bool) ([]dto.PayableResponse, error) {
	rows, err := l.repo.List(ctx, onlyOpen)
	if err != nil {
		return nil, dbError(err, "payables")
	}
	return payablesToResponse(rows), nil
}

// Settle closes a payable: amount 0, paid today. Settling an already paid
// row is a no-op that returns it unchanged.
func (l *payableLedger) Settle(ctx context.Context, id uint) (*dto.PayableResponse, error) {
	p, err := l.repo.FindByID(ctx, id)
	if err != nil {
		return nil, dbError(err, fmt.Sprintf("payable %d", id))
	}
	if !p.IsPaid {
		y, m, d := l.now().Date()
		today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		if _, err := l.repo.Settle(ctx, id, today); err != nil {
			return nil, dbError(err, fmt.Sprintf("payable %d", id))
		}
		log.Info().Uint("payable_id", id).Str("amount", p.Amount.String()).Msg("payable settled")
		if p, err = l.repo.FindByID(ctx, id); err != nil {
			return nil, dbError(err, fmt.Sprintf("payable %d", id))
		}
	}
	resp := payableToResponse(p)
	return &resp, nil
}

func payablesToResponse(rows []model.Payable) []dto.PayableResponse {
	resp := make([]dto.PayableResponse, len(rows))
	for i := range rows {
		resp[i] = payableToResponse(&rows[i])
	}
	return resp
}

func payableToResponse(p *model.Payable) dto.PayableResponse {
	r := dto.PayableResponse{
		ID:         p.ID,
		OwnerID:    p.OwnerID,
		SupplierID: p.SupplierID,
		Amount:     p.Amount,
		IsPaid:     p.IsPaid,
		CreatedAt:  p.CreatedAt.Format(time.RFC3339),
	}
	if p.PaidDate != nil {
		s := p.PaidDate.Format("2006-01-02")
		r.PaidDate = &s
	}
	return r
}
