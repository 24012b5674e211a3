package accounting

import (
	"context"
	"time"

	"github.com/erp/accounting/internal/domain/accounting"
	"github.com/erp/accounting/internal/domain/shared"
	"github.com/erp/accounting/internal/domain/shared/valueobject"
	"github.com/erp/accounting/internal/infrastructure/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// VoucherService orchestrates the voucher lifecycle: it resolves
// collaborators, runs the posting handler and rule chain, constructs the
// aggregate and persists the result. All business decisions live in the
// domain package.
type VoucherService struct {
	vouchers     accounting.VoucherRepository
	accounts     accounting.AccountRepository
	rates        accounting.ExchangeRateProvider
	baseCurrency accounting.BaseCurrencyProvider
	numbers      accounting.VoucherNumberGenerator
	rules        *accounting.RuleChain
}

// NewVoucherService creates a new VoucherService
func NewVoucherService(
	vouchers accounting.VoucherRepository,
	accounts accounting.AccountRepository,
	rates accounting.ExchangeRateProvider,
	baseCurrency accounting.BaseCurrencyProvider,
	numbers accounting.VoucherNumberGenerator,
	rules *accounting.RuleChain,
) *VoucherService {
	return &VoucherService{
		vouchers:     vouchers,
		accounts:     accounts,
		rates:        rates,
		baseCurrency: baseCurrency,
		numbers:      numbers,
		rules:        rules,
	}
}

// ===================== Request/Response DTOs =====================

// CreateVoucherRequest represents a request to create a draft voucher
type CreateVoucherRequest struct {
	Type             string             `json:"type" binding:"required"`
	Date             time.Time          `json:"date" binding:"required"`
	Description      string             `json:"description"`
	Currency         string             `json:"currency" binding:"omitempty,currency"`
	Amount           decimal.Decimal    `json:"amount"`
	CashAccountID    *uuid.UUID         `json:"cash_account_id"`
	ExpenseAccountID *uuid.UUID         `json:"expense_account_id"`
	RevenueAccountID *uuid.UUID         `json:"revenue_account_id"`
	Lines            []VoucherLineInput `json:"lines"`
	Notes            string             `json:"notes"`
	CostCenterID     *uuid.UUID         `json:"cost_center_id"`
	CreatedBy        uuid.UUID          `json:"-"` // Set from request context, not from body
}

// VoucherLineInput represents one user-authored debit/credit line
type VoucherLineInput struct {
	AccountID uuid.UUID       `json:"account_id" binding:"required"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
	Notes     string          `json:"notes"`
}

// VoucherLineResponse represents a voucher line in API responses
type VoucherLineResponse struct {
	ID           uuid.UUID       `json:"id"`
	LineNo       int             `json:"line_no"`
	AccountID    uuid.UUID       `json:"account_id"`
	Side         string          `json:"side"`
	Amount       decimal.Decimal `json:"amount"`
	Currency     string          `json:"currency"`
	BaseAmount   decimal.Decimal `json:"base_amount"`
	BaseCurrency string          `json:"base_currency"`
	ExchangeRate decimal.Decimal `json:"exchange_rate"`
	CostCenterID *uuid.UUID      `json:"cost_center_id,omitempty"`
	Notes        string          `json:"notes,omitempty"`
}

// VoucherResponse represents a voucher in API responses
type VoucherResponse struct {
	ID              uuid.UUID             `json:"id"`
	TenantID        uuid.UUID             `json:"tenant_id"`
	VoucherNumber   string                `json:"voucher_number"`
	Type            string                `json:"type"`
	Date            time.Time             `json:"date"`
	Description     string                `json:"description"`
	Currency        string                `json:"currency"`
	BaseCurrency    string                `json:"base_currency"`
	ExchangeRate    decimal.Decimal       `json:"exchange_rate"`
	Lines           []VoucherLineResponse `json:"lines"`
	TotalDebit      decimal.Decimal       `json:"total_debit"`
	TotalCredit     decimal.Decimal       `json:"total_credit"`
	Status          string                `json:"status"`
	CreatedBy       *uuid.UUID            `json:"created_by,omitempty"`
	ApprovedBy      *uuid.UUID            `json:"approved_by,omitempty"`
	ApprovedAt      *time.Time            `json:"approved_at,omitempty"`
	RejectedBy      *uuid.UUID            `json:"rejected_by,omitempty"`
	RejectedAt      *time.Time            `json:"rejected_at,omitempty"`
	RejectionReason string                `json:"rejection_reason,omitempty"`
	LockedBy        *uuid.UUID            `json:"locked_by,omitempty"`
	LockedAt        *time.Time            `json:"locked_at,omitempty"`
	CreatedAt       time.Time             `json:"created_at"`
	UpdatedAt       time.Time             `json:"updated_at"`
	Version         int                   `json:"version"`
}

// VoucherListFilter defines filtering options for voucher list queries
type VoucherListFilter struct {
	Type     string     `form:"type"`
	Status   string     `form:"status"`
	FromDate *time.Time `form:"from_date"`
	ToDate   *time.Time `form:"to_date"`
	SortBy   string     `form:"sort_by"`
	SortDir  string     `form:"sort_dir"`
	Page     int        `form:"page"`
	PageSize int        `form:"page_size"`
}

// ===================== Operations =====================

// CreateDraft builds and persists a new draft voucher from raw user intent.
// The posting handler validates the input and emits the lines; the rule
// chain clears every referenced account; the entity constructor re-checks
// the balance invariants.
func (s *VoucherService) CreateDraft(ctx context.Context, tenantID uuid.UUID, req CreateVoucherRequest) (*VoucherResponse, error) {
	voucherType := accounting.VoucherType(req.Type)
	handler, err := accounting.HandlerForType(voucherType)
	if err != nil {
		return nil, err
	}

	input := toPostingInput(req)
	if err := handler.Validate(input); err != nil {
		return nil, err
	}

	base, err := s.baseCurrency.GetBaseCurrency(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	currency := input.Currency
	if currency == "" {
		currency = base
	}

	rate := decimal.NewFromInt(1)
	if currency != base {
		rate, err = s.rates.GetRate(ctx, currency, base, input.Date)
		if err != nil {
			return nil, err
		}
	}

	if err := s.checkPostingTargets(ctx, tenantID, voucherType, input); err != nil {
		return nil, err
	}

	lines, err := handler.CreateLines(input, base, rate)
	if err != nil {
		return nil, err
	}

	number, err := s.numbers.Generate(ctx, tenantID, voucherType, input.Date)
	if err != nil {
		return nil, err
	}

	voucher, err := accounting.NewVoucher(
		tenantID, number, voucherType, input.Date, input.Description,
		currency, base, rate, lines, req.CreatedBy,
	)
	if err != nil {
		return nil, err
	}

	if err := s.vouchers.Save(ctx, voucher); err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("voucher draft created",
		zap.String("voucher_number", voucher.VoucherNumber),
		zap.String("voucher_type", string(voucher.Type)),
		zap.String("total_debit", voucher.TotalDebit.String()),
	)
	s.publishEvents(ctx, voucher)

	return toVoucherResponse(voucher), nil
}

// publishEvents drains the aggregate's pending domain events. There is no
// broker behind this service, so publication is a structured log entry per
// event; downstream consumers tail the log stream.
func (s *VoucherService) publishEvents(ctx context.Context, voucher *accounting.Voucher) {
	log := logger.FromContext(ctx)
	for _, event := range voucher.GetDomainEvents() {
		log.Info("domain event published",
			zap.String("event_type", event.EventType()),
			zap.String("aggregate_id", event.GetAggregateID().String()),
			zap.Time("occurred_at", event.GetOccurredAt()),
		)
	}
	voucher.ClearDomainEvents()
}

// checkPostingTargets loads every account the voucher would post to and
// runs the rule chain over all of them. No partial posting: every target
// must pass before any line is generated.
func (s *VoucherService) checkPostingTargets(ctx context.Context, tenantID uuid.UUID, voucherType accounting.VoucherType, input accounting.PostingInput) error {
	ids := accounting.AccountIDsForInput(voucherType, input)

	ctxs := make([]accounting.PostingContext, 0, len(ids))
	for _, id := range ids {
		account, err := s.accounts.FindByIDForTenant(ctx, tenantID, id)
		if err != nil {
			return err
		}
		if account == nil {
			return shared.NewNotFoundError("ACCOUNT_NOT_FOUND", "Account "+id.String()+" not found")
		}
		hasChildren, err := s.accounts.HasChildren(ctx, tenantID, id)
		if err != nil {
			return err
		}
		ctxs = append(ctxs, accounting.PostingContext{Account: account, HasChildren: hasChildren})
	}

	return s.rules.EvaluateAll(ctxs)
}

// Approve transitions a draft voucher to APPROVED.
func (s *VoucherService) Approve(ctx context.Context, tenantID, voucherID, approverID uuid.UUID) (*VoucherResponse, error) {
	return s.transition(ctx, tenantID, voucherID, func(v *accounting.Voucher) (*accounting.Voucher, error) {
		return v.Approve(approverID, time.Now())
	})
}

// Reject transitions a draft or approved voucher to REJECTED.
func (s *VoucherService) Reject(ctx context.Context, tenantID, voucherID, rejecterID uuid.UUID, reason string) (*VoucherResponse, error) {
	return s.transition(ctx, tenantID, voucherID, func(v *accounting.Voucher) (*accounting.Voucher, error) {
		return v.Reject(rejecterID, time.Now(), reason)
	})
}

// Lock transitions an approved voucher to the LOCKED terminal state.
func (s *VoucherService) Lock(ctx context.Context, tenantID, voucherID, lockerID uuid.UUID) (*VoucherResponse, error) {
	return s.transition(ctx, tenantID, voucherID, func(v *accounting.Voucher) (*accounting.Voucher, error) {
		return v.Lock(lockerID, time.Now())
	})
}

// transition applies load -> compute next -> save-with-lock as one logical
// unit. The optimistic version check turns a racing writer into a conflict
// error instead of a lost update.
func (s *VoucherService) transition(
	ctx context.Context,
	tenantID, voucherID uuid.UUID,
	fn func(*accounting.Voucher) (*accounting.Voucher, error),
) (*VoucherResponse, error) {
	voucher, err := s.vouchers.FindByIDForTenant(ctx, tenantID, voucherID)
	if err != nil {
		return nil, err
	}
	if voucher == nil {
		return nil, shared.NewNotFoundError("VOUCHER_NOT_FOUND", "Voucher not found")
	}

	next, err := fn(voucher)
	if err != nil {
		return nil, err
	}

	if err := s.vouchers.SaveWithLock(ctx, next); err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("voucher transitioned",
		zap.String("voucher_number", next.VoucherNumber),
		zap.String("status", string(next.Status)),
	)
	s.publishEvents(ctx, next)

	return toVoucherResponse(next), nil
}

// GetVoucherByNumber returns a single voucher looked up by its
// human-facing number, e.g. PV-202608-00001.
func (s *VoucherService) GetVoucherByNumber(ctx context.Context, tenantID uuid.UUID, voucherNumber string) (*VoucherResponse, error) {
	voucher, err := s.vouchers.FindByNumber(ctx, tenantID, voucherNumber)
	if err != nil {
		return nil, err
	}
	if voucher == nil {
		return nil, shared.NewNotFoundError("VOUCHER_NOT_FOUND", "Voucher not found")
	}
	return toVoucherResponse(voucher), nil
}

// GetVoucher returns a single voucher with its lines.
func (s *VoucherService) GetVoucher(ctx context.Context, tenantID, voucherID uuid.UUID) (*VoucherResponse, error) {
	voucher, err := s.vouchers.FindByIDForTenant(ctx, tenantID, voucherID)
	if err != nil {
		return nil, err
	}
	if voucher == nil {
		return nil, shared.NewNotFoundError("VOUCHER_NOT_FOUND", "Voucher not found")
	}
	return toVoucherResponse(voucher), nil
}

// ListVouchers returns a filtered, paginated voucher list.
func (s *VoucherService) ListVouchers(ctx context.Context, tenantID uuid.UUID, filter VoucherListFilter) (*shared.Paginated[VoucherResponse], error) {
	domainFilter := toVoucherFilter(filter)

	vouchers, err := s.vouchers.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, err
	}
	total, err := s.vouchers.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, err
	}

	items := make([]VoucherResponse, 0, len(vouchers))
	for i := range vouchers {
		items = append(items, *toVoucherResponse(&vouchers[i]))
	}

	result := shared.NewPaginated(items, total, domainFilter.Page, domainFilter.PageSize)
	return &result, nil
}

// PostingDescriptions returns the audit/help text of every voucher type.
func (s *VoucherService) PostingDescriptions() map[string]string {
	out := make(map[string]string, 4)
	for _, vt := range []accounting.VoucherType{
		accounting.VoucherTypeJournalEntry,
		accounting.VoucherTypePayment,
		accounting.VoucherTypeReceipt,
		accounting.VoucherTypeOpeningBalance,
	} {
		handler, err := accounting.HandlerForType(vt)
		if err != nil {
			continue
		}
		out[string(vt)] = handler.PostingDescription()
	}
	return out
}

// ===================== Mapping =====================

func toPostingInput(req CreateVoucherRequest) accounting.PostingInput {
	input := accounting.PostingInput{
		Date:         req.Date,
		Description:  req.Description,
		Currency:     valueobject.Currency(req.Currency),
		Amount:       req.Amount,
		Notes:        req.Notes,
		CostCenterID: req.CostCenterID,
	}
	if req.CashAccountID != nil {
		input.CashAccountID = *req.CashAccountID
	}
	if req.ExpenseAccountID != nil {
		input.ExpenseAccountID = *req.ExpenseAccountID
	}
	if req.RevenueAccountID != nil {
		input.RevenueAccountID = *req.RevenueAccountID
	}
	for _, line := range req.Lines {
		input.Lines = append(input.Lines, accounting.PostingLineInput{
			AccountID: line.AccountID,
			Debit:     line.Debit,
			Credit:    line.Credit,
			Notes:     line.Notes,
		})
	}
	return input
}

func toVoucherFilter(filter VoucherListFilter) accounting.VoucherFilter {
	out := accounting.VoucherFilter{
		Filter:   shared.DefaultFilter(),
		FromDate: filter.FromDate,
		ToDate:   filter.ToDate,
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
		t := accounting.VoucherType(filter.Type)
		out.Type = &t
	}
	if filter.Status != "" {
		st := accounting.VoucherStatus(filter.Status)
		out.Status = &st
	}
	return out
}

func toVoucherResponse(v *accounting.Voucher) *VoucherResponse {
	lines := make([]VoucherLineResponse, 0, len(v.Lines))
	for _, line := range v.Lines {
		lines = append(lines, VoucherLineResponse{
			ID:           line.ID,
			LineNo:       line.LineNo,
			AccountID:    line.AccountID,
			Side:         string(line.Side),
			Amount:       line.Amount,
			Currency:     string(line.Currency),
			BaseAmount:   line.BaseAmount,
			BaseCurrency: string(line.BaseCurrency),
			ExchangeRate: line.ExchangeRate,
			CostCenterID: line.CostCenterID,
			Notes:        line.Notes,
		})
	}

	return &VoucherResponse{
		ID:              v.ID,
		TenantID:        v.TenantID,
		VoucherNumber:   v.VoucherNumber,
		Type:            string(v.Type),
		Date:            v.Date,
		Description:     v.Description,
		Currency:        string(v.Currency),
		BaseCurrency:    string(v.BaseCurrency),
		ExchangeRate:    v.ExchangeRate,
		Lines:           lines,
		TotalDebit:      v.TotalDebit,
		TotalCredit:     v.TotalCredit,
		Status:          string(v.Status),
		CreatedBy:       v.CreatedBy,
		ApprovedBy:      v.ApprovedBy,
		ApprovedAt:      v.ApprovedAt,
		RejectedBy:      v.RejectedBy,
		RejectedAt:      v.RejectedAt,
		RejectionReason: v.RejectionReason,
		LockedBy:        v.LockedBy,
		LockedAt:        v.LockedAt,
		CreatedAt:       v.CreatedAt,
		UpdatedAt:       v.UpdatedAt,
		Version:         v.Version,
	}
}
