package accounting

import (
	"context"
	"testing"
	"time"

	"github.com/erp/accounting/internal/domain/accounting"
	"github.com/erp/accounting/internal/domain/shared"
	"github.com/erp/accounting/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Mock Repositories
// =============================================================================

// MockVoucherRepository is a mock implementation of VoucherRepository
type MockVoucherRepository struct {
	mock.Mock
}

func (m *MockVoucherRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*accounting.Voucher, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accounting.Voucher), args.Error(1)
}

func (m *MockVoucherRepository) FindByNumber(ctx context.Context, tenantID uuid.UUID, voucherNumber string) (*accounting.Voucher, error) {
	args := m.Called(ctx, tenantID, voucherNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accounting.Voucher), args.Error(1)
}

func (m *MockVoucherRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter accounting.VoucherFilter) ([]accounting.Voucher, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]accounting.Voucher), args.Error(1)
}

func (m *MockVoucherRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter accounting.VoucherFilter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockVoucherRepository) Save(ctx context.Context, voucher *accounting.Voucher) error {
	args := m.Called(ctx, voucher)
	return args.Error(0)
}

func (m *MockVoucherRepository) SaveWithLock(ctx context.Context, voucher *accounting.Voucher) error {
	args := m.Called(ctx, voucher)
	return args.Error(0)
}

// MockAccountRepository is a mock implementation of AccountRepository
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*accounting.Account, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accounting.Account), args.Error(1)
}

func (m *MockAccountRepository) FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*accounting.Account, error) {
	args := m.Called(ctx, tenantID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accounting.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter accounting.AccountFilter) ([]accounting.Account, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]accounting.Account), args.Error(1)
}

func (m *MockAccountRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter accounting.AccountFilter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAccountRepository) HasChildren(ctx context.Context, tenantID, accountID uuid.UUID) (bool, error) {
	args := m.Called(ctx, tenantID, accountID)
	return args.Get(0).(bool), args.Error(1)
}

func (m *MockAccountRepository) IsUsed(ctx context.Context, tenantID, accountID uuid.UUID) (bool, error) {
	args := m.Called(ctx, tenantID, accountID)
	return args.Get(0).(bool), args.Error(1)
}

func (m *MockAccountRepository) Save(ctx context.Context, account *accounting.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

// MockExchangeRateProvider is a mock implementation of ExchangeRateProvider
type MockExchangeRateProvider struct {
	mock.Mock
}

func (m *MockExchangeRateProvider) GetRate(ctx context.Context, from, to valueobject.Currency, date time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, from, to, date)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// MockBaseCurrencyProvider is a mock implementation of BaseCurrencyProvider
type MockBaseCurrencyProvider struct {
	mock.Mock
}

func (m *MockBaseCurrencyProvider) GetBaseCurrency(ctx context.Context, tenantID uuid.UUID) (valueobject.Currency, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).(valueobject.Currency), args.Error(1)
}

// MockVoucherNumberGenerator is a mock implementation of VoucherNumberGenerator
type MockVoucherNumberGenerator struct {
	mock.Mock
}

func (m *MockVoucherNumberGenerator) Generate(ctx context.Context, tenantID uuid.UUID, voucherType accounting.VoucherType, date time.Time) (string, error) {
	args := m.Called(ctx, tenantID, voucherType, date)
	return args.Get(0).(string), args.Error(1)
}

// =============================================================================
// Test Helpers
// =============================================================================

type voucherServiceFixture struct {
	vouchers *MockVoucherRepository
	accounts *MockAccountRepository
	rates    *MockExchangeRateProvider
	base     *MockBaseCurrencyProvider
	numbers  *MockVoucherNumberGenerator
	service  *VoucherService
}

func newVoucherServiceFixture() *voucherServiceFixture {
	f := &voucherServiceFixture{
		vouchers: new(MockVoucherRepository),
		accounts: new(MockAccountRepository),
		rates:    new(MockExchangeRateProvider),
		base:     new(MockBaseCurrencyProvider),
		numbers:  new(MockVoucherNumberGenerator),
	}
	f.service = NewVoucherService(
		f.vouchers, f.accounts, f.rates, f.base, f.numbers,
		accounting.NewRuleChain(accounting.PolicyFailFast),
	)
	return f
}

func createActiveAccount(tenantID uuid.UUID, id uuid.UUID, code string, accountType accounting.AccountType) *accounting.Account {
	account, _ := accounting.NewAccount(tenantID, code, "Account "+code, accountType, valueobject.USD, nil)
	account.ID = id
	return account
}

func createDraftVoucher(t *testing.T, tenantID uuid.UUID) *accounting.Voucher {
	t.Helper()
	req := paymentRequest(uuid.New(), uuid.New())
	handler, err := accounting.HandlerForType(accounting.VoucherTypePayment)
	require.NoError(t, err)
	lines, err := handler.CreateLines(toPostingInput(req), valueobject.USD, decimal.NewFromInt(1))
	require.NoError(t, err)
	voucher, err := accounting.NewVoucher(
		tenantID, "PV-202608-00001", accounting.VoucherTypePayment,
		req.Date, req.Description, valueobject.USD, valueobject.USD,
		decimal.NewFromInt(1), lines, uuid.New(),
	)
	require.NoError(t, err)
	return voucher
}

func paymentRequest(cashID, expenseID uuid.UUID) CreateVoucherRequest {
	return CreateVoucherRequest{
		Type:             string(accounting.VoucherTypePayment),
		Date:             time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC),
		Description:      "Office rent August",
		Amount:           decimal.NewFromInt(100),
		CashAccountID:    &cashID,
		ExpenseAccountID: &expenseID,
		CreatedBy:        uuid.New(),
	}
}

// =============================================================================
// CreateDraft
// =============================================================================

func TestVoucherService_CreateDraft_Payment(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	cashID := uuid.New()
	expenseID := uuid.New()

	f := newVoucherServiceFixture()
	req := paymentRequest(cashID, expenseID)

	f.base.On("GetBaseCurrency", ctx, tenantID).Return(valueobject.USD, nil)
	f.accounts.On("FindByIDForTenant", ctx, tenantID, cashID).
		Return(createActiveAccount(tenantID, cashID, "1001", accounting.AccountTypeAsset), nil)
	f.accounts.On("FindByIDForTenant", ctx, tenantID, expenseID).
		Return(createActiveAccount(tenantID, expenseID, "5001", accounting.AccountTypeExpense), nil)
	f.accounts.On("HasChildren", ctx, tenantID, mock.Anything).Return(false, nil)
	f.numbers.On("Generate", ctx, tenantID, accounting.VoucherTypePayment, req.Date).
		Return("PV-202608-00001", nil)
	f.vouchers.On("Save", ctx, mock.AnythingOfType("*accounting.Voucher")).Return(nil)

	resp, err := f.service.CreateDraft(ctx, tenantID, req)

	require.NoError(t, err)
	assert.Equal(t, "PV-202608-00001", resp.VoucherNumber)
	assert.Equal(t, string(accounting.VoucherStatusDraft), resp.Status)
	require.Len(t, resp.Lines, 2)
	assert.Equal(t, expenseID, resp.Lines[0].AccountID)
	assert.Equal(t, string(accounting.SideDebit), resp.Lines[0].Side)
	assert.Equal(t, cashID, resp.Lines[1].AccountID)
	assert.Equal(t, string(accounting.SideCredit), resp.Lines[1].Side)
	assert.True(t, resp.TotalDebit.Equal(resp.TotalCredit))

	// Same-currency posting must not consult the rate provider
	f.rates.AssertNotCalled(t, "GetRate", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.vouchers.AssertExpectations(t)
}

func TestVoucherService_CreateDraft_ForeignCurrency(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	cashID := uuid.New()
	expenseID := uuid.New()

	f := newVoucherServiceFixture()
	req := paymentRequest(cashID, expenseID)
	req.Currency = "EUR"

	f.base.On("GetBaseCurrency", ctx, tenantID).Return(valueobject.USD, nil)
	f.rates.On("GetRate", ctx, valueobject.Currency("EUR"), valueobject.USD, req.Date).
		Return(decimal.NewFromFloat(1.10), nil)
	f.accounts.On("FindByIDForTenant", ctx, tenantID, mock.Anything).
		Return(createActiveAccount(tenantID, cashID, "1001", accounting.AccountTypeAsset), nil)
	f.accounts.On("HasChildren", ctx, tenantID, mock.Anything).Return(false, nil)
	f.numbers.On("Generate", ctx, tenantID, accounting.VoucherTypePayment, req.Date).
		Return("PV-202608-00002", nil)
	f.vouchers.On("Save", ctx, mock.AnythingOfType("*accounting.Voucher")).Return(nil)

	resp, err := f.service.CreateDraft(ctx, tenantID, req)

	require.NoError(t, err)
	assert.Equal(t, "EUR", resp.Currency)
	assert.Equal(t, "USD", resp.BaseCurrency)
	for _, line := range resp.Lines {
		assert.True(t, line.Amount.Equal(decimal.NewFromInt(100)))
		assert.True(t, line.BaseAmount.Equal(decimal.NewFromInt(110)),
			"base amount should be 110, got %s", line.BaseAmount)
	}
}

func TestVoucherService_CreateDraft_InactiveAccount(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	cashID := uuid.New()
	expenseID := uuid.New()

	f := newVoucherServiceFixture()
	req := paymentRequest(cashID, expenseID)

	inactive := createActiveAccount(tenantID, cashID, "1001", accounting.AccountTypeAsset)
	require.NoError(t, inactive.Deactivate())

	f.base.On("GetBaseCurrency", ctx, tenantID).Return(valueobject.USD, nil)
	f.accounts.On("FindByIDForTenant", ctx, tenantID, cashID).Return(inactive, nil)
	f.accounts.On("FindByIDForTenant", ctx, tenantID, expenseID).
		Return(createActiveAccount(tenantID, expenseID, "5001", accounting.AccountTypeExpense), nil)
	f.accounts.On("HasChildren", ctx, tenantID, mock.Anything).Return(false, nil)

	_, err := f.service.CreateDraft(ctx, tenantID, req)

	require.Error(t, err)
	assert.True(t, shared.IsPolicy(err))
	f.vouchers.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	f.numbers.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestVoucherService_CreateDraft_ParentAccount(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	cashID := uuid.New()
	expenseID := uuid.New()

	f := newVoucherServiceFixture()
	req := paymentRequest(cashID, expenseID)

	f.base.On("GetBaseCurrency", ctx, tenantID).Return(valueobject.USD, nil)
	f.accounts.On("FindByIDForTenant", ctx, tenantID, mock.Anything).
		Return(createActiveAccount(tenantID, cashID, "1000", accounting.AccountTypeAsset), nil)
	f.accounts.On("HasChildren", ctx, tenantID, mock.Anything).Return(true, nil)

	_, err := f.service.CreateDraft(ctx, tenantID, req)

	require.Error(t, err)
	assert.True(t, shared.IsPolicy(err))
	f.vouchers.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestVoucherService_CreateDraft_AccountNotFound(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	cashID := uuid.New()
	expenseID := uuid.New()

	f := newVoucherServiceFixture()
	req := paymentRequest(cashID, expenseID)

	f.base.On("GetBaseCurrency", ctx, tenantID).Return(valueobject.USD, nil)
	f.accounts.On("FindByIDForTenant", ctx, tenantID, mock.Anything).Return(nil, nil)

	_, err := f.service.CreateDraft(ctx, tenantID, req)

	require.Error(t, err)
	assert.True(t, shared.IsNotFound(err))
}

func TestVoucherService_CreateDraft_UnsupportedType(t *testing.T) {
	ctx := context.Background()
	f := newVoucherServiceFixture()

	req := paymentRequest(uuid.New(), uuid.New())
	req.Type = "TRANSFER"

	_, err := f.service.CreateDraft(ctx, uuid.New(), req)

	require.Error(t, err)
	assert.True(t, shared.IsValidation(err))
	f.base.AssertNotCalled(t, "GetBaseCurrency", mock.Anything, mock.Anything)
}

func TestVoucherService_CreateDraft_HandlerRejectsInput(t *testing.T) {
	ctx := context.Background()
	f := newVoucherServiceFixture()

	req := paymentRequest(uuid.New(), uuid.New())
	req.Amount = decimal.Zero

	_, err := f.service.CreateDraft(ctx, uuid.New(), req)

	require.Error(t, err)
	assert.True(t, shared.IsValidation(err))
	f.vouchers.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

// =============================================================================
// Lifecycle transitions
// =============================================================================

func TestVoucherService_Approve(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	approverID := uuid.New()

	f := newVoucherServiceFixture()
	draft := createDraftVoucher(t, tenantID)

	f.vouchers.On("FindByIDForTenant", ctx, tenantID, draft.ID).Return(draft, nil)
	f.vouchers.On("SaveWithLock", ctx, mock.AnythingOfType("*accounting.Voucher")).Return(nil)

	resp, err := f.service.Approve(ctx, tenantID, draft.ID, approverID)

	require.NoError(t, err)
	assert.Equal(t, string(accounting.VoucherStatusApproved), resp.Status)
	require.NotNil(t, resp.ApprovedBy)
	assert.Equal(t, approverID, *resp.ApprovedBy)
	assert.Equal(t, draft.Version+1, resp.Version)

	// The loaded instance is untouched; only the derived one is persisted
	assert.Equal(t, accounting.VoucherStatusDraft, draft.Status)
	f.vouchers.AssertExpectations(t)
}

func TestVoucherService_Approve_NotFound(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	f := newVoucherServiceFixture()
	f.vouchers.On("FindByIDForTenant", ctx, tenantID, mock.Anything).Return(nil, nil)

	_, err := f.service.Approve(ctx, tenantID, uuid.New(), uuid.New())

	require.Error(t, err)
	assert.True(t, shared.IsNotFound(err))
}

func TestVoucherService_Lock_RequiresApproval(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	f := newVoucherServiceFixture()
	draft := createDraftVoucher(t, tenantID)
	f.vouchers.On("FindByIDForTenant", ctx, tenantID, draft.ID).Return(draft, nil)

	_, err := f.service.Lock(ctx, tenantID, draft.ID, uuid.New())

	require.Error(t, err)
	assert.True(t, shared.IsInvariant(err))
	f.vouchers.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
}

func TestVoucherService_Reject_RequiresReason(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	f := newVoucherServiceFixture()
	draft := createDraftVoucher(t, tenantID)
	f.vouchers.On("FindByIDForTenant", ctx, tenantID, draft.ID).Return(draft, nil)

	_, err := f.service.Reject(ctx, tenantID, draft.ID, uuid.New(), "   ")

	require.Error(t, err)
	assert.True(t, shared.IsValidation(err))
	f.vouchers.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
}

func TestVoucherService_Reject(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	f := newVoucherServiceFixture()
	draft := createDraftVoucher(t, tenantID)
	f.vouchers.On("FindByIDForTenant", ctx, tenantID, draft.ID).Return(draft, nil)
	f.vouchers.On("SaveWithLock", ctx, mock.AnythingOfType("*accounting.Voucher")).Return(nil)

	resp, err := f.service.Reject(ctx, tenantID, draft.ID, uuid.New(), "duplicate entry")

	require.NoError(t, err)
	assert.Equal(t, string(accounting.VoucherStatusRejected), resp.Status)
	assert.Equal(t, "duplicate entry", resp.RejectionReason)
}

func TestVoucherService_Transition_ConflictPropagates(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	f := newVoucherServiceFixture()
	draft := createDraftVoucher(t, tenantID)
	conflict := shared.NewConflictError("CONCURRENT_MODIFICATION", "Voucher was modified by another user")

	f.vouchers.On("FindByIDForTenant", ctx, tenantID, draft.ID).Return(draft, nil)
	f.vouchers.On("SaveWithLock", ctx, mock.Anything).Return(conflict)

	_, err := f.service.Approve(ctx, tenantID, draft.ID, uuid.New())

	require.Error(t, err)
	assert.True(t, shared.IsConflict(err))
}

// =============================================================================
// Queries
// =============================================================================

func TestVoucherService_GetVoucher_NotFound(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	f := newVoucherServiceFixture()
	f.vouchers.On("FindByIDForTenant", ctx, tenantID, mock.Anything).Return(nil, nil)

	_, err := f.service.GetVoucher(ctx, tenantID, uuid.New())

	require.Error(t, err)
	assert.True(t, shared.IsNotFound(err))
}

func TestVoucherService_GetVoucherByNumber(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	f := newVoucherServiceFixture()
	draft := createDraftVoucher(t, tenantID)

	f.vouchers.On("FindByNumber", ctx, tenantID, draft.VoucherNumber).Return(draft, nil)

	result, err := f.service.GetVoucherByNumber(ctx, tenantID, draft.VoucherNumber)

	require.NoError(t, err)
	assert.Equal(t, draft.VoucherNumber, result.VoucherNumber)
}

func TestVoucherService_GetVoucherByNumber_NotFound(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	f := newVoucherServiceFixture()
	f.vouchers.On("FindByNumber", ctx, tenantID, "PV-202608-99999").Return(nil, nil)

	_, err := f.service.GetVoucherByNumber(ctx, tenantID, "PV-202608-99999")

	require.Error(t, err)
	assert.True(t, shared.IsNotFound(err))
}

func TestVoucherService_ListVouchers(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	f := newVoucherServiceFixture()
	draft := createDraftVoucher(t, tenantID)

	f.vouchers.On("FindAllForTenant", ctx, tenantID, mock.AnythingOfType("accounting.VoucherFilter")).
		Return([]accounting.Voucher{*draft}, nil)
	f.vouchers.On("CountForTenant", ctx, tenantID, mock.AnythingOfType("accounting.VoucherFilter")).
		Return(int64(1), nil)

	result, err := f.service.ListVouchers(ctx, tenantID, VoucherListFilter{Page: 1, PageSize: 20})

	require.NoError(t, err)
	assert.Equal(t, int64(1), result.Total)
	require.Len(t, result.Items, 1)
	assert.Equal(t, draft.VoucherNumber, result.Items[0].VoucherNumber)
}

func TestVoucherService_PostingDescriptions(t *testing.T) {
	f := newVoucherServiceFixture()

	descriptions := f.service.PostingDescriptions()

	assert.Len(t, descriptions, 4)
	assert.NotEmpty(t, descriptions[string(accounting.VoucherTypePayment)])
}
