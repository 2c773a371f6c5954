package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"retailing/internal/dto"
	"retailing/internal/infra"
	"retailing/internal/model"
	"retailing/internal/repository"
	"retailing/internal/worker"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderService is the order processor: the only writer of the order journal
// and of both ledgers.
type OrderService interface {
	Submit(ctx context.Context, caller Caller, req dto.SubmitOrderRequest) (*dto.OrderResponse, error)
	List(ctx context.Context, caller Caller) ([]dto.OrderResponse, error)
	Get(ctx context.Context, caller Caller, id uint) (*dto.OrderResponse, error)
	Receipt(ctx context.Context, caller Caller, id uint) ([]byte, error)
	// Update and Delete exist so the API can answer them; orders are immutable.
	Update(ctx context.Context, caller Caller, id uint) error
	Delete(ctx context.Context, caller Caller, id uint) error
}

type orderService struct {
	orders     repository.OrderRepository
	suppliers  repository.SupplierRepository
	products   repository.ProductRepository
	inventory  InventoryLedger
	payables   PayableLedger
	dispatcher *worker.Dispatcher
	metrics    *infra.Metrics
}

func NewOrderService(
	orders repository.OrderRepository,
	suppliers repository.SupplierRepository,
	products repository.ProductRepository,
	inventory InventoryLedger,
	payables PayableLedger,
	dispatcher *worker.Dispatcher,
	metrics *infra.Metrics,
) OrderService {
	return &orderService{
		orders:     orders,
		suppliers:  suppliers,
		products:   products,
		inventory:  inventory,
		payables:   payables,
		dispatcher: dispatcher,
		metrics:    metrics,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// ── Submit ───────────────────────────────────────────────────────────────────
// Fail-fast sequence, first violation wins:
//   1. caller is active, not an administrator, employed
//   2. counterparty and product exist
//   3. operation rules for the caller's and counterparty's types
//   4. BEGIN TX: lock + check counterparty stock (buying), insert order,
//      buyer +qty, seller -qty, payable += amount - paid
//   5. COMMIT, then (async) notify the counterparty

func (s *orderService) Submit(ctx context.Context, caller Caller, req dto.SubmitOrderRequest) (*dto.OrderResponse, error) {
	op := model.Operation(req.Operation)

	if err := CheckCaller(caller); err != nil {
		return nil, s.rejected(err)
	}
	if req.Quantity <= 0 {
		return nil, s.rejected(fmt.Errorf("%w: quantity must be positive", ErrInvalidInput))
	}
	if req.Price == nil {
		return nil, s.rejected(fmt.Errorf("%w: price is required", ErrInvalidInput))
	}
	price := *req.Price
	amount := price.Mul(decimal.NewFromInt(int64(req.Quantity)))
	if err := checkMoney("price", price); err != nil {
		return nil, s.rejected(err)
	}
	if err := checkMoney("amount", amount); err != nil {
		return nil, s.rejected(err)
	}
	if req.PaymentAmount != nil {
		if err := checkMoney("payment_amount", *req.PaymentAmount); err != nil {
			return nil, s.rejected(err)
		}
	}

	counterparty, err := s.suppliers.FindByID(ctx, req.SupplierID)
	if err != nil {
		return nil, s.rejected(dbError(err, fmt.Sprintf("supplier %d", req.SupplierID)))
	}
	product, err := s.products.FindByID(ctx, req.ProductID)
	if err != nil {
		return nil, s.rejected(dbError(err, fmt.Sprintf("product %d", req.ProductID)))
	}
	if err := CheckSubmission(caller, op, counterparty.ID, counterparty.SupplierType); err != nil {
		return nil, s.rejected(err)
	}

	owner := caller.Supplier()
	order := model.Order{
		OwnerID:       owner,
		SupplierID:    counterparty.ID,
		ProductID:     product.ID,
		UserID:        caller.UserID,
		Operation:     op,
		Quantity:      req.Quantity,
		Price:         price,
		Amount:        amount,
		PaymentAmount: req.PaymentAmount,
	}

	start := time.Now()
	txErr := runTx(ctx, s.orders.DB(), func(tx *gorm.DB) error {
		if op == model.OpBuying {
			stock, err := s.inventory.AggregateStockForUpdate(tx, counterparty.ID, product.ID)
			if err != nil {
				return err
			}
			if stock < req.Quantity {
				return fmt.Errorf("%w: supplier %d holds %d of product %d, %d requested",
					ErrInsufficientStock, counterparty.ID, stock, product.ID, req.Quantity)
			}
		}

		if err := s.orders.CreateTx(tx, &order); err != nil {
			return err
		}
		if !movesStock(op) {
			return nil
		}

		if err := s.inventory.Adjust(tx, owner, product.ID, req.Quantity); err != nil {
			return fmt.Errorf("credit stock: %w", err)
		}
		if caller.SupplierType == model.SupplierVendor {
			return nil
		}
		if err := s.inventory.Adjust(tx, counterparty.ID, product.ID, -req.Quantity); err != nil {
			return fmt.Errorf("debit stock: %w", err)
		}
		paid := decimal.Zero
		if req.PaymentAmount != nil {
			paid = *req.PaymentAmount
		}
		if !order.Amount.Equal(paid) {
			if err := s.payables.Adjust(tx, owner, counterparty.ID, order.Amount.Sub(paid)); err != nil {
				return fmt.Errorf("adjust payable: %w", err)
			}
		}
		return nil
	})
	if txErr != nil {
		if errors.Is(txErr, ErrInsufficientStock) {
			return nil, s.rejected(txErr)
		}
		log.Error().Err(txErr).
			Uint("owner", owner).Uint("supplier", counterparty.ID).Uint("product", product.ID).
			Str("operation", string(op)).
			Msg("order transaction aborted")
		s.metrics.OrderRejected("internal")
		return nil, fmt.Errorf("%w: order could not be recorded: %w", ErrInternal, txErr)
	}
	s.metrics.OrderSubmitted(string(op), time.Since(start))

	log.Info().
		Uint("order_id", order.ID).
		Uint("owner", owner).
		Uint("supplier", counterparty.ID).
		Uint("product", product.ID).
		Str("operation", string(op)).
		Int("quantity", order.Quantity).
		Str("amount", order.Amount.String()).
		Msg("order recorded")

	if counterparty.ID != owner {
		s.notify(ctx, &order, counterparty, product)
	}
	resp := orderToResponse(&order)
	return &resp, nil
}

// notify enqueues the counterparty email. Failures are logged only: the
// order is already committed.
func (s *orderService) notify(ctx context.Context, o *model.Order, counterparty *model.Supplier, product *model.Product) {
	if s.dispatcher == nil {
		return
	}
	ownerName := fmt.Sprintf("supplier %d", o.OwnerID)
	if owner, err := s.suppliers.FindByID(ctx, o.OwnerID); err == nil {
		ownerName = owner.Name
	}
	payload := worker.NotificationPayload{
		ToEmail: counterparty.Email,
		Subject: fmt.Sprintf("New %s order #%d from %s", o.Operation, o.ID, ownerName),
		Body: fmt.Sprintf("%s recorded a %s order of %d x %s for %s. The receipt is attached.",
			ownerName, o.Operation, o.Quantity, product.Name, o.Amount.StringFixed(2)),
		Receipt: receiptData(o, ownerName, counterparty.Name, product.Name),
	}
	if err := s.dispatcher.EnqueueNotification(ctx, payload); err != nil {
		log.Warn().Err(err).Uint("order_id", o.ID).Msg("failed to enqueue order notification")
	}
}

func (s *orderService) rejected(err error) error {
	s.metrics.OrderRejected(rejectReason(err))
	log.Debug().Err(err).Msg("order rejected")
	return err
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, ErrInvalidOperationForSupplierType):
		return "invalid_operation"
	case errors.Is(err, ErrSelfTradeForbidden):
		return "self_trade"
	case errors.Is(err, ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	default:
		return "internal"
	}
}

// ── Queries ──────────────────────────────────────────────────────────────────

func (s *orderService) List(ctx context.Context, caller Caller) ([]dto.OrderResponse, error) {
	if err := CheckCaller(caller); err != nil {
		return nil, err
	}
	orders, err := s.orders.ListByOwner(ctx, caller.Supplier())
	if err != nil {
		return nil, dbError(err, "orders")
	}
	resp := make([]dto.OrderResponse, len(orders))
	for i := range orders {
		resp[i] = orderToResponse(&orders[i])
	}
	return resp, nil
}

// Get returns an order placed by the caller's supplier or by the caller.
func (s *orderService) Get(ctx context.Context, caller Caller, id uint) (*dto.OrderResponse, error) {
	o, err := s.visibleOrder(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	resp := orderToResponse(o)
	return &resp, nil
}

func (s *orderService) Receipt(ctx context.Context, caller Caller, id uint) ([]byte, error) {
	o, err := s.visibleOrder(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	names := map[uint]string{}
	for _, sid := range []uint{o.OwnerID, o.SupplierID} {
		if sup, err := s.suppliers.FindByID(ctx, sid); err == nil {
			names[sid] = sup.Name
		} else {
			names[sid] = fmt.Sprintf("supplier %d", sid)
		}
	}
	productName := fmt.Sprintf("product %d", o.ProductID)
	if p, err := s.products.FindByID(ctx, o.ProductID); err == nil {
		productName = p.Name
	}
	pdf, err := infra.RenderOrderReceipt(receiptData(o, names[o.OwnerID], names[o.SupplierID], productName))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInternal, err)
	}
	return pdf, nil
}

func (s *orderService) visibleOrder(ctx context.Context, caller Caller, id uint) (*model.Order, error) {
	if err := CheckCaller(caller); err != nil {
		return nil, err
	}
	o, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, dbError(err, fmt.Sprintf("order %d", id))
	}
	if o.OwnerID != caller.Supplier() && o.UserID != caller.UserID {
		return nil, fmt.Errorf("%w: order %d", ErrNotFound, id)
	}
	return o, nil
}

func (s *orderService) Update(_ context.Context, _ Caller, id uint) error {
	return fmt.Errorf("%w: order %d cannot be modified", ErrOperationNotPermitted, id)
}

func (s *orderService) Delete(_ context.Context, _ Caller, id uint) error {
	return fmt.Errorf("%w: order %d cannot be deleted", ErrOperationNotPermitted, id)
}

// maxMoney is the smallest value a DECIMAL(12,2) column cannot hold.
var maxMoney = decimal.New(1, 10)

// checkMoney rejects values the money columns would round or refuse, so the
// stored amount always equals price x quantity.
func checkMoney(field string, v decimal.Decimal) error {
	switch {
	case v.IsNegative():
		return fmt.Errorf("%w: %s must not be negative", ErrInvalidInput, field)
	case !v.Equal(v.Truncate(2)):
		return fmt.Errorf("%w: %s allows at most two decimal places", ErrInvalidInput, field)
	case v.GreaterThanOrEqual(maxMoney):
		return fmt.Errorf("%w: %s is out of range", ErrInvalidInput, field)
	}
	return nil
}

func receiptData(o *model.Order, ownerName, supplierName, productName string) infra.ReceiptData {
	return infra.ReceiptData{
		OrderID:       o.ID,
		CreatedAt:     o.CreatedAt.Format("2006-01-02 15:04"),
		Operation:     string(o.Operation),
		OwnerName:     ownerName,
		SupplierName:  supplierName,
		ProductName:   productName,
		Quantity:      o.Quantity,
		Price:         o.Price,
		Amount:        o.Amount,
		PaymentAmount: o.PaymentAmount,
	}
}

func orderToResponse(o *model.Order) dto.OrderResponse {
	return dto.OrderResponse{
		ID:            o.ID,
		OwnerID:       o.OwnerID,
		SupplierID:    o.SupplierID,
		ProductID:     o.ProductID,
		UserID:        o.UserID,
		Operation:     string(o.Operation),
		Quantity:      o.Quantity,
		Price:         o.Price,
		Amount:        o.Amount,
		PaymentAmount: o.PaymentAmount,
		CreatedAt:     o.CreatedAt,
	}
}
