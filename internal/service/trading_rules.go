package service

import (
	"fmt"

	"retailing/internal/model"
)

// ── Trading rules ────────────────────────────────────────────────────────────
// Pure predicates over a resolved Caller. Nothing here touches the database
// or the HTTP layer, so the rule table is tested in isolation.

// CheckCaller rejects callers that may never transact: inactive users,
// administrators and users without an employer.
func CheckCaller(c Caller) error {
	switch {
	case !c.IsActive:
		return fmt.Errorf("%w: user %d is inactive", ErrUnauthorized, c.UserID)
	case c.IsSuperuser:
		return fmt.Errorf("%w: administrators do not submit orders", ErrUnauthorized)
	case !c.Employed():
		return fmt.Errorf("%w: user %d is not employed by a supplier", ErrUnauthorized, c.UserID)
	}
	return nil
}

// CheckSubmission returns the first rule an order would violate, in the
// order callers see them: caller state, addition rules, buying rules.
// Stock is checked later, inside the order transaction.
func CheckSubmission(c Caller, op model.Operation, counterpartyID uint, counterpartyType model.SupplierType) error {
	if err := CheckCaller(c); err != nil {
		return err
	}
	own := c.Supplier()

	switch op {
	case model.OpAddition:
		if c.SupplierType != model.SupplierVendor {
			return fmt.Errorf("%w: only vendors may add stock, caller is a %s", ErrInvalidOperationForSupplierType, c.SupplierType)
		}
		if counterpartyID != own {
			return fmt.Errorf("%w: vendors may only restock themselves", ErrUnauthorized)
		}

	case model.OpBuying:
		if counterpartyID == own {
			return fmt.Errorf("%w: supplier %d cannot buy from itself", ErrSelfTradeForbidden, own)
		}
		switch c.SupplierType {
		case model.SupplierVendor:
			return fmt.Errorf("%w: vendors cannot buy", ErrInvalidOperationForSupplierType)
		case model.SupplierDistributor:
			if counterpartyType != model.SupplierVendor {
				return fmt.Errorf("%w: distributors buy only from vendors, not from a %s", ErrInvalidOperationForSupplierType, counterpartyType)
			}
		case model.SupplierRetailer:
			if counterpartyType != model.SupplierVendor && counterpartyType != model.SupplierDistributor {
				return fmt.Errorf("%w: retailers buy only from vendors or distributors, not from a %s", ErrInvalidOperationForSupplierType, counterpartyType)
			}
		default:
			return fmt.Errorf("%w: unknown supplier type %q", ErrInvalidOperationForSupplierType, c.SupplierType)
		}

	case model.OpReturn, model.OpWriteOff:
		// Recorded in the journal only.

	default:
		return fmt.Errorf("%w: unknown operation %q", ErrInvalidInput, op)
	}
	return nil
}

// CanSubmit is the boolean form of CheckSubmission.
func CanSubmit(c Caller, op model.Operation, counterpartyID uint, counterpartyType model.SupplierType) bool {
	return CheckSubmission(c, op, counterpartyID, counterpartyType) == nil
}

// movesStock reports whether op touches the warehouse and payable ledgers.
func movesStock(op model.Operation) bool {
	return op == model.OpAddition || op == model.OpBuying
}
