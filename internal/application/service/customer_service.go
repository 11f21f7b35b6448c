package service

import (
	"context"

	"github.com/bkaradeniz/veresiye-api/internal/domain/entity"
	"github.com/bkaradeniz/veresiye-api/internal/domain/repository"
	"github.com/bkaradeniz/veresiye-api/pkg/apperror"
	"github.com/bkaradeniz/veresiye-api/pkg/pagination"
	"github.com/google/uuid"
)

// CustomerService handles customer-related operations. Debt balances are
// never touched here; only the ledger mutates CurrentDebt.
type CustomerService struct {
	customerRepo repository.CustomerRepository
	ledger       *LedgerService
}

// NewCustomerService creates a new customer service
func NewCustomerService(customerRepo repository.CustomerRepository, ledger *LedgerService) *CustomerService {
	return &CustomerService{
		customerRepo: customerRepo,
		ledger:       ledger,
	}
}

// CreateCustomerInput represents the create customer input
type CreateCustomerInput struct {
	Name        string
	Phone       *string
	Address     *string
	Note        *string
	CreditLimit int64 // kuruş
}

// CreateCustomer creates a new customer
func (s *CustomerService) CreateCustomer(ctx context.Context, input *CreateCustomerInput) (*entity.Customer, error) {
	if input.Name == "" {
		return nil, apperror.NewBadRequestError("Name is required")
	}
	if input.CreditLimit < 0 {
		return nil, apperror.NewBadRequestError("Credit limit cannot be negative")
	}

	customer := &entity.Customer{
		Name:        input.Name,
		Phone:       input.Phone,
		Address:     input.Address,
		Note:        input.Note,
		CreditLimit: input.CreditLimit,
	}

	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, err
	}

	return customer, nil
}

// GetCustomer retrieves a customer by ID
func (s *CustomerService) GetCustomer(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}
	return customer, nil
}

// ListCustomers lists customers matching an optional search term
func (s *CustomerService) ListCustomers(ctx context.Context, params *pagination.PaginationParams, search string) (*pagination.PaginatedResult[entity.Customer], error) {
	customers, total, err := s.customerRepo.List(ctx, params, search)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(customers, pag), nil
}

// ListIndebted lists customers with an outstanding balance, highest debt first
func (s *CustomerService) ListIndebted(ctx context.Context, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.Customer], error) {
	customers, total, err := s.customerRepo.ListIndebted(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(customers, pag), nil
}

// UpdateCustomerInput represents the update customer input
type UpdateCustomerInput struct {
	ID          uuid.UUID
	Name        *string
	Phone       *string
	Address     *string
	Note        *string
	CreditLimit *int64
}

// UpdateCustomer updates a customer's identity and limit. Lowering the limit
// below the current debt is allowed: it blocks further credit without
// invalidating debt that was extended under the old limit.
func (s *CustomerService) UpdateCustomer(ctx context.Context, input *UpdateCustomerInput) (*entity.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, apperror.NewBadRequestError("Name is required")
		}
		customer.Name = *input.Name
	}
	if input.Phone != nil {
		customer.Phone = input.Phone
	}
	if input.Address != nil {
		customer.Address = input.Address
	}
	if input.Note != nil {
		customer.Note = input.Note
	}
	if input.CreditLimit != nil {
		if *input.CreditLimit < 0 {
			return nil, apperror.NewBadRequestError("Credit limit cannot be negative")
		}
		customer.CreditLimit = *input.CreditLimit
	}

	if err := s.customerRepo.Update(ctx, customer); err != nil {
		return nil, err
	}

	return customer, nil
}

// DeleteCustomer removes a customer with no outstanding debt. When the
// balance is zero but stray outstanding entries remain, they are
// force-settled first; this is a repair path, not the normal flow.
func (s *CustomerService) DeleteCustomer(ctx context.Context, id uuid.UUID) error {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if customer == nil {
		return apperror.NewNotFoundError("Customer")
	}

	if customer.CurrentDebt > 0 {
		return apperror.ErrHasOutstandingDebt
	}

	if err := s.ledger.ForceSettleCustomer(ctx, id); err != nil {
		return err
	}

	return s.customerRepo.Delete(ctx, id)
}
