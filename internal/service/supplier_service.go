package service

import (
	"context"
	"fmt"

	"retailing/internal/dto"
	"retailing/internal/model"
	"retailing/internal/repository"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// SupplierService is the registration gate: a user registers at most one
// supplier and becomes its first employee.
type SupplierService interface {
	Register(ctx context.Context, caller Caller, req dto.RegisterSupplierRequest) (*dto.SupplierResponse, error)
	List(ctx context.Context) ([]dto.SupplierResponse, error)
	Get(ctx context.Context, id uint) (*dto.SupplierResponse, error)
	Update(ctx context.Context, caller Caller, id uint, req dto.UpdateSupplierRequest) (*dto.SupplierResponse, error)
	Delete(ctx context.Context, caller Caller, id uint) error
}

type supplierService struct {
	repo      repository.SupplierRepository
	users     repository.UserRepository
	countries repository.CountryRepository
}

func NewSupplierService(repo repository.SupplierRepository, users repository.UserRepository, countries repository.CountryRepository) SupplierService {
	return &supplierService{repo: repo, users: users, countries: countries}
}

func (s *supplierService) Register(ctx context.Context, caller Caller, req dto.RegisterSupplierRequest) (*dto.SupplierResponse, error) {
	if !caller.IsActive || caller.IsSuperuser {
		return nil, fmt.Errorf("%w: only active trading users may register a supplier", ErrUnauthorized)
	}
	if caller.Employed() {
		return nil, fmt.Errorf("%w: user %d already belongs to supplier %d", ErrAlreadyRegistered, caller.UserID, caller.Supplier())
	}
	kind := model.SupplierType(req.Type)
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: unknown supplier type %q", ErrInvalidInput, req.Type)
	}
	if _, err := s.countries.FindByID(ctx, req.CountryID); err != nil {
		return nil, dbError(err, fmt.Sprintf("country %d", req.CountryID))
	}

	creator := caller.UserID
	sup := model.Supplier{
		Name:         req.Name,
		SupplierType: kind,
		Email:        req.Email,
		UserID:       &creator,
		CountryID:    req.CountryID,
		City:         req.City,
		Street:       req.Street,
		HouseNumber:  req.HouseNumber,
	}
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.CreateTx(tx, &sup); err != nil {
			return err
		}
		attached, err := s.users.AttachSupplierTx(tx, caller.UserID, sup.ID)
		if err != nil {
			return err
		}
		if !attached {
			return fmt.Errorf("%w: user %d already belongs to a supplier", ErrAlreadyRegistered, caller.UserID)
		}
		return nil
	})
	if isKind(err, ErrAlreadyRegistered) {
		return nil, err
	}
	if err != nil {
		return nil, dbError(err, "supplier "+req.Name)
	}
	log.Info().Uint("supplier_id", sup.ID).Str("type", string(kind)).Uint("user_id", caller.UserID).Msg("supplier registered")
	resp := supplierToResponse(&sup)
	return &resp, nil
}

func (s *supplierService) List(ctx context.Context) ([]dto.SupplierResponse, error) {
	suppliers, err := s.repo.List(ctx)
	if err != nil {
		return nil, dbError(err, "suppliers")
	}
	resp := make([]dto.SupplierResponse, len(suppliers))
	for i := range suppliers {
		resp[i] = supplierToResponse(&suppliers[i])
	}
	return resp, nil
}

func (s *supplierService) Get(ctx context.Context, id uint) (*dto.SupplierResponse, error) {
	sup, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, dbError(err, fmt.Sprintf("supplier %d", id))
	}
	resp := supplierToResponse(sup)
	return &resp, nil
}

// Update edits the caller's own supplier. The type cannot change.
func (s *supplierService) Update(ctx context.Context, caller Caller, id uint, req dto.UpdateSupplierRequest) (*dto.SupplierResponse, error) {
	sup, err := s.ownSupplier(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		sup.Name = *req.Name
	}
	if req.Email != nil {
		sup.Email = *req.Email
	}
	if req.CountryID != nil {
		if _, err := s.countries.FindByID(ctx, *req.CountryID); err != nil {
			return nil, dbError(err, fmt.Sprintf("country %d", *req.CountryID))
		}
		sup.CountryID = *req.CountryID
	}
	if req.City != nil {
		sup.City = *req.City
	}
	if req.Street != nil {
		sup.Street = *req.Street
	}
	if req.HouseNumber != nil {
		sup.HouseNumber = *req.HouseNumber
	}
	if err := s.repo.Update(ctx, sup); err != nil {
		return nil, dbError(err, fmt.Sprintf("supplier %d", id))
	}
	resp := supplierToResponse(sup)
	return &resp, nil
}

// Delete detaches every employee and then removes the supplier, in one
// transaction. A supplier still referenced by trading data is kept and
// nobody is detached.
func (s *supplierService) Delete(ctx context.Context, caller Caller, id uint) error {
	if _, err := s.ownSupplier(ctx, caller, id); err != nil {
		return err
	}
	var detached int64
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		n, err := s.users.DetachEmployeesTx(tx, id)
		if err != nil {
			return err
		}
		detached = n
		refs, err := s.repo.CountReferencesTx(tx, id)
		if err != nil {
			return err
		}
		if refs > 0 {
			return fmt.Errorf("%w: supplier %d has %d products, stock lines, orders or payables", ErrInUse, id, refs)
		}
		return s.repo.DeleteTx(tx, id)
	})
	if err != nil {
		if isKind(err, ErrInUse) {
			return err
		}
		return dbError(err, fmt.Sprintf("supplier %d", id))
	}
	log.Info().Uint("supplier_id", id).Int64("detached", detached).Msg("supplier deleted")
	return nil
}

func (s *supplierService) ownSupplier(ctx context.Context, caller Caller, id uint) (*model.Supplier, error) {
	if err := CheckCaller(caller); err != nil {
		return nil, err
	}
	if caller.Supplier() != id {
		return nil, fmt.Errorf("%w: supplier %d is not yours", ErrUnauthorized, id)
	}
	sup, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, dbError(err, fmt.Sprintf("supplier %d", id))
	}
	return sup, nil
}

func supplierToResponse(s *model.Supplier) dto.SupplierResponse {
	return dto.SupplierResponse{
		ID:          s.ID,
		Name:        s.Name,
		Type:        string(s.SupplierType),
		Email:       s.Email,
		UserID:      s.UserID,
		CountryID:   s.CountryID,
		City:        s.City,
		Street:      s.Street,
		HouseNumber: s.HouseNumber,
		CreatedAt:   s.CreatedAt,
	}
}
