package service_test

import (
	"testing"

	"retailing/internal/model"
	"retailing/internal/service"

	"github.com/stretchr/testify/assert"
)

func employee(supplierID uint, kind model.SupplierType) service.Caller {
	return service.Caller{UserID: 1, IsActive: true, SupplierID: &supplierID, SupplierType: kind}
}

func TestCheckSubmission(t *testing.T) {
	const own, other = uint(1), uint(2)
	vendor := employee(own, model.SupplierVendor)
	dist := employee(own, model.SupplierDistributor)
	retail := employee(own, model.SupplierRetailer)

	inactive := vendor
	inactive.IsActive = false
	admin := vendor
	admin.IsSuperuser = true
	unemployed := service.Caller{UserID: 9, IsActive: true}

	cases := []struct {
		name   string
		caller service.Caller
		op     model.Operation
		cpID   uint
		cpType model.SupplierType
		want   error
	}{
		{"inactive", inactive, model.OpAddition, own, model.SupplierVendor, service.ErrUnauthorized},
		{"administrator", admin, model.OpAddition, own, model.SupplierVendor, service.ErrUnauthorized},
		{"unemployed", unemployed, model.OpReturn, other, model.SupplierVendor, service.ErrUnauthorized},

		{"vendor adds to itself", vendor, model.OpAddition, own, model.SupplierVendor, nil},
		{"vendor adds to another", vendor, model.OpAddition, other, model.SupplierVendor, service.ErrUnauthorized},
		{"distributor adds", dist, model.OpAddition, own, model.SupplierDistributor, service.ErrInvalidOperationForSupplierType},
		{"retailer adds", retail, model.OpAddition, own, model.SupplierRetailer, service.ErrInvalidOperationForSupplierType},

		{"vendor buys from vendor", vendor, model.OpBuying, other, model.SupplierVendor, service.ErrInvalidOperationForSupplierType},
		{"vendor buys from distributor", vendor, model.OpBuying, other, model.SupplierDistributor, service.ErrInvalidOperationForSupplierType},
		{"distributor buys from vendor", dist, model.OpBuying, other, model.SupplierVendor, nil},
		{"distributor buys from distributor", dist, model.OpBuying, other, model.SupplierDistributor, service.ErrInvalidOperationForSupplierType},
		{"distributor buys from retailer", dist, model.OpBuying, other, model.SupplierRetailer, service.ErrInvalidOperationForSupplierType},
		{"retailer buys from vendor", retail, model.OpBuying, other, model.SupplierVendor, nil},
		{"retailer buys from distributor", retail, model.OpBuying, other, model.SupplierDistributor, nil},
		{"retailer buys from retailer", retail, model.OpBuying, other, model.SupplierRetailer, service.ErrInvalidOperationForSupplierType},

		{"distributor buys from itself", dist, model.OpBuying, own, model.SupplierDistributor, service.ErrSelfTradeForbidden},
		{"retailer buys from itself", retail, model.OpBuying, own, model.SupplierRetailer, service.ErrSelfTradeForbidden},
		{"vendor buys from itself", vendor, model.OpBuying, own, model.SupplierVendor, service.ErrSelfTradeForbidden},

		{"return", retail, model.OpReturn, other, model.SupplierVendor, nil},
		{"write off", vendor, model.OpWriteOff, own, model.SupplierVendor, nil},
		{"unknown operation", vendor, model.Operation("gift"), other, model.SupplierVendor, service.ErrInvalidInput},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := service.CheckSubmission(tc.caller, tc.op, tc.cpID, tc.cpType)
			if tc.want == nil {
				assert.NoError(t, err)
				assert.True(t, service.CanSubmit(tc.caller, tc.op, tc.cpID, tc.cpType))
				return
			}
			assert.ErrorIs(t, err, tc.want)
			assert.False(t, service.CanSubmit(tc.caller, tc.op, tc.cpID, tc.cpType))
		})
	}
}
