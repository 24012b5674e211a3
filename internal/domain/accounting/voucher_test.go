package accounting

import (
	"testing"
	"time"

	"github.com/erp/accounting/internal/domain/shared"
	"github.com/erp/accounting/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func balancedTestLines(amount decimal.Decimal) []VoucherLine {
	one := decimal.NewFromInt(1)
	return []VoucherLine{
		{
			LineNo: 1, AccountID: uuid.New(), Side: SideDebit,
			Amount: amount, Currency: valueobject.USD,
			BaseAmount: amount, BaseCurrency: valueobject.USD, ExchangeRate: one,
		},
		{
			LineNo: 2, AccountID: uuid.New(), Side: SideCredit,
			Amount: amount, Currency: valueobject.USD,
			BaseAmount: amount, BaseCurrency: valueobject.USD, ExchangeRate: one,
		},
	}
}

func createTestVoucher(t *testing.T) *Voucher {
	t.Helper()
	v, err := NewVoucher(
		uuid.New(),
		"PV-202601-00001",
		VoucherTypePayment,
		time.Now(),
		"Office supplies",
		valueobject.USD,
		valueobject.USD,
		decimal.NewFromInt(1),
		balancedTestLines(decimal.NewFromInt(100)),
		uuid.New(),
	)
	require.NoError(t, err)
	return v
}

func createApprovedVoucher(t *testing.T) *Voucher {
	t.Helper()
	approved, err := createTestVoucher(t).Approve(uuid.New(), time.Now())
	require.NoError(t, err)
	return approved
}

func TestNewVoucher(t *testing.T) {
	t.Run("creates a draft voucher with balanced lines", func(t *testing.T) {
		v := createTestVoucher(t)

		assert.Equal(t, VoucherStatusDraft, v.Status)
		assert.True(t, v.TotalDebit.Equal(decimal.NewFromInt(100)))
		assert.True(t, v.TotalCredit.Equal(decimal.NewFromInt(100)))
		assert.Equal(t, 1, v.Version)
		assert.Len(t, v.GetDomainEvents(), 1)
		for i, line := range v.Lines {
			assert.Equal(t, i+1, line.LineNo)
			assert.Equal(t, v.ID, line.VoucherID)
			assert.NotEqual(t, uuid.Nil, line.ID)
		}
	})

	t.Run("rejects fewer than 2 lines", func(t *testing.T) {
		lines := balancedTestLines(decimal.NewFromInt(100))[:1]
		_, err := NewVoucher(uuid.New(), "JE-1", VoucherTypeJournalEntry, time.Now(), "x",
			valueobject.USD, valueobject.USD, decimal.NewFromInt(1), lines, uuid.New())
		require.Error(t, err)
		assert.True(t, shared.IsInvariant(err))
		assert.Contains(t, err.Error(), "at least 2 lines")
	})

	t.Run("rejects non-positive line amounts", func(t *testing.T) {
		lines := balancedTestLines(decimal.NewFromInt(100))
		lines[0].Amount = decimal.Zero
		lines[0].BaseAmount = decimal.Zero
		_, err := NewVoucher(uuid.New(), "JE-1", VoucherTypeJournalEntry, time.Now(), "x",
			valueobject.USD, valueobject.USD, decimal.NewFromInt(1), lines, uuid.New())
		require.Error(t, err)
		assert.True(t, shared.IsInvariant(err))
	})

	t.Run("rejects line currency mismatch", func(t *testing.T) {
		lines := balancedTestLines(decimal.NewFromInt(100))
		lines[1].Currency = valueobject.EUR
		_, err := NewVoucher(uuid.New(), "JE-1", VoucherTypeJournalEntry, time.Now(), "x",
			valueobject.USD, valueobject.USD, decimal.NewFromInt(1), lines, uuid.New())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "currency")
	})

	t.Run("rejects line base currency mismatch", func(t *testing.T) {
		lines := balancedTestLines(decimal.NewFromInt(100))
		lines[1].BaseCurrency = valueobject.EUR
		_, err := NewVoucher(uuid.New(), "JE-1", VoucherTypeJournalEntry, time.Now(), "x",
			valueobject.USD, valueobject.USD, decimal.NewFromInt(1), lines, uuid.New())
		require.Error(t, err)
		assert.True(t, shared.IsInvariant(err))
		assert.Contains(t, err.Error(), "currency")
	})

	t.Run("rejects unbalanced lines beyond tolerance", func(t *testing.T) {
		lines := balancedTestLines(decimal.NewFromInt(100))
		lines[1].Amount = decimal.RequireFromString("100.01")
		lines[1].BaseAmount = decimal.RequireFromString("100.01")
		_, err := NewVoucher(uuid.New(), "JE-1", VoucherTypeJournalEntry, time.Now(), "x",
			valueobject.USD, valueobject.USD, decimal.NewFromInt(1), lines, uuid.New())
		require.Error(t, err)
		assert.True(t, shared.IsInvariant(err))
		assert.Contains(t, err.Error(), "unbalanced")
	})

	t.Run("accepts imbalance within rounding tolerance", func(t *testing.T) {
		lines := balancedTestLines(decimal.NewFromInt(100))
		lines[1].BaseAmount = decimal.RequireFromString("100.004")
		_, err := NewVoucher(uuid.New(), "JE-1", VoucherTypeJournalEntry, time.Now(), "x",
			valueobject.USD, valueobject.USD, decimal.NewFromInt(1), lines, uuid.New())
		assert.NoError(t, err)
	})

	t.Run("rejects empty voucher number", func(t *testing.T) {
		_, err := NewVoucher(uuid.New(), "", VoucherTypePayment, time.Now(), "x",
			valueobject.USD, valueobject.USD, decimal.NewFromInt(1),
			balancedTestLines(decimal.NewFromInt(100)), uuid.New())
		assert.Error(t, err)
	})
}

func TestVoucher_Approve(t *testing.T) {
	t.Run("approves a draft voucher", func(t *testing.T) {
		v := createTestVoucher(t)
		approverID := uuid.New()
		now := time.Now()

		approved, err := v.Approve(approverID, now)
		require.NoError(t, err)

		assert.Equal(t, VoucherStatusApproved, approved.Status)
		assert.Equal(t, approverID, *approved.ApprovedBy)
		assert.Equal(t, now, *approved.ApprovedAt)
		assert.Equal(t, v.Version+1, approved.Version)

		// The receiver is untouched.
		assert.Equal(t, VoucherStatusDraft, v.Status)
		assert.Nil(t, v.ApprovedBy)
	})

	t.Run("approving twice fails", func(t *testing.T) {
		approved := createApprovedVoucher(t)

		_, err := approved.Approve(uuid.New(), time.Now())
		require.Error(t, err)
		assert.True(t, shared.IsInvariant(err))
		assert.Contains(t, err.Error(), "DRAFT")
	})

	t.Run("requires an approver", func(t *testing.T) {
		_, err := createTestVoucher(t).Approve(uuid.Nil, time.Now())
		assert.Error(t, err)
	})
}

func TestVoucher_Lock(t *testing.T) {
	t.Run("locks an approved voucher", func(t *testing.T) {
		approved := createApprovedVoucher(t)
		lockerID := uuid.New()

		locked, err := approved.Lock(lockerID, time.Now())
		require.NoError(t, err)

		assert.Equal(t, VoucherStatusLocked, locked.Status)
		assert.Equal(t, lockerID, *locked.LockedBy)
		assert.True(t, locked.IsLocked())
	})

	t.Run("locking a draft fails naming the required status", func(t *testing.T) {
		_, err := createTestVoucher(t).Lock(uuid.New(), time.Now())
		require.Error(t, err)
		assert.True(t, shared.IsInvariant(err))
		assert.Contains(t, err.Error(), "APPROVED")
	})

	t.Run("no transition out of locked", func(t *testing.T) {
		approved := createApprovedVoucher(t)
		locked, err := approved.Lock(uuid.New(), time.Now())
		require.NoError(t, err)

		_, err = locked.Approve(uuid.New(), time.Now())
		assert.Error(t, err)
		_, err = locked.Lock(uuid.New(), time.Now())
		assert.Error(t, err)
		_, err = locked.Reject(uuid.New(), time.Now(), "too late")
		assert.Error(t, err)
	})
}

func TestVoucher_Reject(t *testing.T) {
	t.Run("rejects a draft with a reason", func(t *testing.T) {
		v := createTestVoucher(t)
		rejecterID := uuid.New()

		rejected, err := v.Reject(rejecterID, time.Now(), "wrong account")
		require.NoError(t, err)

		assert.Equal(t, VoucherStatusRejected, rejected.Status)
		assert.Equal(t, "wrong account", rejected.RejectionReason)
		assert.True(t, rejected.IsRejected())
		assert.Equal(t, VoucherStatusDraft, v.Status)
	})

	t.Run("rejects an approved voucher", func(t *testing.T) {
		_, err := createApprovedVoucher(t).Reject(uuid.New(), time.Now(), "period closed early")
		assert.NoError(t, err)
	})

	t.Run("empty or whitespace reason fails", func(t *testing.T) {
		for _, reason := range []string{"", "   ", "\t\n"} {
			_, err := createTestVoucher(t).Reject(uuid.New(), time.Now(), reason)
			require.Error(t, err)
			assert.True(t, shared.IsValidation(err))
		}
	})

	t.Run("rejecting twice fails", func(t *testing.T) {
		rejected, err := createTestVoucher(t).Reject(uuid.New(), time.Now(), "first")
		require.NoError(t, err)

		_, err = rejected.Reject(uuid.New(), time.Now(), "second")
		require.Error(t, err)
		assert.True(t, shared.IsInvariant(err))
	})
}

func TestVoucher_TransitionsDoNotShareLines(t *testing.T) {
	v := createTestVoucher(t)
	approved, err := v.Approve(uuid.New(), time.Now())
	require.NoError(t, err)

	approved.Lines[0].Notes = "mutated"
	assert.Empty(t, v.Lines[0].Notes)
}

func TestVoucher_AccountIDs(t *testing.T) {
	lines := balancedTestLines(decimal.NewFromInt(50))
	// Third line reuses the first line's account.
	extra := lines[0]
	extra.LineNo = 3
	extra.Side = SideDebit
	lines = append(lines, extra)
	lines[1].Amount = decimal.NewFromInt(100)
	lines[1].BaseAmount = decimal.NewFromInt(100)

	v, err := NewVoucher(uuid.New(), "JE-1", VoucherTypeJournalEntry, time.Now(), "x",
		valueobject.USD, valueobject.USD, decimal.NewFromInt(1), lines, uuid.New())
	require.NoError(t, err)

	assert.Len(t, v.AccountIDs(), 2)
}
