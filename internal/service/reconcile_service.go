package service

import (
	"context"
	"sort"

	"retailing/internal/dto"
	"retailing/internal/infra"
	"retailing/internal/model"
	"retailing/internal/repository"

	"github.com/rs/zerolog/log"
)

// Reconciler replays the order journal into expected stock per
// (owner, product) and compares it with the warehouse projection.
type Reconciler interface {
	Run(ctx context.Context) ([]dto.DriftResponse, error)
}

type reconciler struct {
	orders     repository.OrderRepository
	warehouses repository.WarehouseRepository
	metrics    *infra.Metrics
}

func NewReconciler(orders repository.OrderRepository, warehouses repository.WarehouseRepository, metrics *infra.Metrics) Reconciler {
	return &reconciler{orders: orders, warehouses: warehouses, metrics: metrics}
}

type stockKey struct{ owner, product uint }

func (r *reconciler) Run(ctx context.Context) ([]dto.DriftResponse, error) {
	expected := make(map[stockKey]int)

	// Vendors never buy, so every buying order debits its seller.
	err := r.orders.StockMoving(ctx, func(o *model.Order) error {
		expected[stockKey{o.OwnerID, o.ProductID}] += o.Quantity
		if o.Operation == model.OpBuying {
			expected[stockKey{o.SupplierID, o.ProductID}] -= o.Quantity
		}
		return nil
	})
	if err != nil {
		return nil, dbError(err, "orders")
	}

	rows, err := r.warehouses.ListAll(ctx)
	if err != nil {
		return nil, dbError(err, "warehouses")
	}
	actual := make(map[stockKey]int, len(rows))
	for _, w := range rows {
		actual[stockKey{w.OwnerID, w.ProductID}] += w.Quantity
	}

	var drift []dto.DriftResponse
	seen := make(map[stockKey]bool, len(expected))
	for k, want := range expected {
		seen[k] = true
		if got := actual[k]; got != want {
			drift = append(drift, dto.DriftResponse{OwnerID: k.owner, ProductID: k.product, Expected: want, Actual: got})
		}
	}
	for k, got := range actual {
		if !seen[k] && got != 0 {
			drift = append(drift, dto.DriftResponse{OwnerID: k.owner, ProductID: k.product, Expected: 0, Actual: got})
		}
	}
	sort.Slice(drift, func(i, j int) bool {
		if drift[i].OwnerID != drift[j].OwnerID {
			return drift[i].OwnerID < drift[j].OwnerID
		}
		return drift[i].ProductID < drift[j].ProductID
	})

	r.metrics.SetDrift(len(drift))
	log.Info().Int("lines", len(rows)).Int("drift", len(drift)).Msg("reconciliation finished")
	return drift, nil
}
