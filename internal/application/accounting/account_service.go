package accounting

import (
	"context"
	"time"

	"github.com/erp/accounting/internal/domain/accounting"
	"github.com/erp/accounting/internal/domain/shared"
	"github.com/erp/accounting/internal/domain/shared/valueobject"
	"github.com/erp/accounting/internal/infrastructure/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AccountService manages the chart of accounts
type AccountService struct {
	accounts accounting.AccountRepository
}

// NewAccountService creates a new AccountService
func NewAccountService(accounts accounting.AccountRepository) *AccountService {
	return &AccountService{accounts: accounts}
}

// CreateAccountRequest represents a request to create an account
type CreateAccountRequest struct {
	Code      string     `json:"code" binding:"required"`
	Name      string     `json:"name" binding:"required"`
	Type      string     `json:"type" binding:"required"`
	ParentID  *uuid.UUID `json:"parent_id"`
	Currency  string     `json:"currency" binding:"omitempty,currency"`
	CreatedBy uuid.UUID  `json:"-"`
}

// UpdateAccountRequest carries the mutable account fields
type UpdateAccountRequest struct {
	Name     *string `json:"name"`
	IsActive *bool   `json:"is_active"`
}

// AccountResponse represents an account in API responses
type AccountResponse struct {
	ID          uuid.UUID  `json:"id"`
	TenantID    uuid.UUID  `json:"tenant_id"`
	Code        string     `json:"code"`
	Name        string     `json:"name"`
	Type        string     `json:"type"`
	ParentID    *uuid.UUID `json:"parent_id,omitempty"`
	Currency    string     `json:"currency"`
	IsActive    bool       `json:"is_active"`
	IsProtected bool       `json:"is_protected"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	Version     int        `json:"version"`
}

// AccountListFilter defines filtering options for account list queries
type AccountListFilter struct {
	Type     string     `form:"type"`
	IsActive *bool      `form:"is_active"`
	ParentID *uuid.UUID `form:"parent_id"`
	SortBy   string     `form:"sort_by"`
	SortDir  string     `form:"sort_dir"`
	Page     int        `form:"page"`
	PageSize int        `form:"page_size"`
}

// CreateAccount adds a new account to the tenant's chart.
func (s *AccountService) CreateAccount(ctx context.Context, tenantID uuid.UUID, req CreateAccountRequest) (*AccountResponse, error) {
	existing, err := s.accounts.FindByCode(ctx, tenantID, req.Code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewConflictError("ACCOUNT_CODE_EXISTS", "Account code already exists")
	}

	if req.ParentID != nil {
		parent, err := s.accounts.FindByIDForTenant(ctx, tenantID, *req.ParentID)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, shared.NewNotFoundError("PARENT_ACCOUNT_NOT_FOUND", "Parent account not found")
		}
		if parent.Type != accounting.AccountType(req.Type) {
			return nil, shared.NewValidationError("PARENT_TYPE_MISMATCH", "Account type must match its parent")
		}
	}

	currency := valueobject.Currency(req.Currency)
	if currency == "" {
		currency = valueobject.DefaultCurrency
	}

	account, err := accounting.NewAccount(
		tenantID, req.Code, req.Name,
		accounting.AccountType(req.Type),
		currency, req.ParentID,
	)
	if err != nil {
		return nil, err
	}
	if req.CreatedBy != uuid.Nil {
		account.SetCreatedBy(req.CreatedBy)
	}

	if err := s.accounts.Save(ctx, account); err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("account created",
		zap.String("code", account.Code),
		zap.String("type", string(account.Type)),
	)

	return toAccountResponse(account), nil
}

// UpdateAccount renames or toggles an existing account.
func (s *AccountService) UpdateAccount(ctx context.Context, tenantID, accountID uuid.UUID, req UpdateAccountRequest) (*AccountResponse, error) {
	account, err := s.accounts.FindByIDForTenant(ctx, tenantID, accountID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, shared.NewNotFoundError("ACCOUNT_NOT_FOUND", "Account not found")
	}

	if req.Name != nil {
		if err := account.Rename(*req.Name); err != nil {
			return nil, err
		}
	}
	if req.IsActive != nil && *req.IsActive != account.IsActive {
		if *req.IsActive {
			err = account.Activate()
		} else {
			err = account.Deactivate()
		}
		if err != nil {
			return nil, err
		}
	}

	if err := s.accounts.Save(ctx, account); err != nil {
		return nil, err
	}
	return toAccountResponse(account), nil
}

// DeleteAccount removes an account after the deletion guard clears it.
// Accounts in use or with children survive; deactivation is the way out.
func (s *AccountService) DeleteAccount(ctx context.Context, tenantID, accountID uuid.UUID) error {
	account, err := s.accounts.FindByIDForTenant(ctx, tenantID, accountID)
	if err != nil {
		return err
	}
	if account == nil {
		return shared.NewNotFoundError("ACCOUNT_NOT_FOUND", "Account not found")
	}

	hasChildren, err := s.accounts.HasChildren(ctx, tenantID, accountID)
	if err != nil {
		return err
	}
	isUsed, err := s.accounts.IsUsed(ctx, tenantID, accountID)
	if err != nil {
		return err
	}

	if err := account.CanBeDeleted(hasChildren, isUsed); err != nil {
		return err
	}

	if err := s.accounts.DeleteForTenant(ctx, tenantID, accountID); err != nil {
		return err
	}

	logger.FromContext(ctx).Info("account deleted", zap.String("code", account.Code))
	return nil
}

// GetAccount returns a single account.
func (s *AccountService) GetAccount(ctx context.Context, tenantID, accountID uuid.UUID) (*AccountResponse, error) {
	account, err := s.accounts.FindByIDForTenant(ctx, tenantID, accountID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, shared.NewNotFoundError("ACCOUNT_NOT_FOUND", "Account not found")
	}
	return toAccountResponse(account), nil
}

// ListAccounts returns a filtered, paginated account list.
func (s *AccountService) ListAccounts(ctx context.Context, tenantID uuid.UUID, filter AccountListFilter) (*shared.Paginated[AccountResponse], error) {
	domainFilter := toAccountFilter(filter)

	accounts, err := s.accounts.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, err
	}
	total, err := s.accounts.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, err
	}

	items := make([]AccountResponse, 0, len(accounts))
	for i := range accounts {
		items = append(items, *toAccountResponse(&accounts[i]))
	}

	result := shared.NewPaginated(items, total, domainFilter.Page, domainFilter.PageSize)
	return &result, nil
}

func toAccountFilter(filter AccountListFilter) accounting.AccountFilter {
	out := accounting.AccountFilter{
		Filter:   shared.DefaultFilter(),
		IsActive: filter.IsActive,
		ParentID: filter.ParentID,
	}
	out.OrderBy = filter.SortBy
	out.OrderDir = filter.SortDir
	if filter.Page > 0 {
		out.Page = filter.Page
	}
	if filter.PageSize > 0 {
		out.PageSize = filter.PageSize
	}
	out.Normalize()
	if filter.Type != "" {
		t := accounting.AccountType(filter.Type)
		out.Type = &t
	}
	return out
}

func toAccountResponse(a *accounting.Account) *AccountResponse {
	return &AccountResponse{
		ID:          a.ID,
		TenantID:    a.TenantID,
		Code:        a.Code,
		Name:        a.Name,
		Type:        string(a.Type),
		ParentID:    a.ParentID,
		Currency:    string(a.Currency),
		IsActive:    a.IsActive,
		IsProtected: a.IsProtected,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
		Version:     a.Version,
	}
}
