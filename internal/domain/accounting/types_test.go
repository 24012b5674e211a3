package accounting

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVoucherType_IsValid(t *testing.T) {
	tests := []struct {
		vtype   VoucherType
		isValid bool
	}{
		{VoucherTypeJournalEntry, true},
		{VoucherTypePayment, true},
		{VoucherTypeReceipt, true},
		{VoucherTypeOpeningBalance, true},
		{VoucherType("INVALID"), false},
		{VoucherType(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.vtype), func(t *testing.T) {
			assert.Equal(t, tt.isValid, tt.vtype.IsValid())
		})
	}
}

func TestVoucherStatus_IsTerminal(t *testing.T) {
	tests := []struct {
		status     VoucherStatus
		isTerminal bool
	}{
		{VoucherStatusDraft, false},
		{VoucherStatusApproved, false},
		{VoucherStatusRejected, true},
		{VoucherStatusLocked, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.isTerminal, tt.status.IsTerminal())
		})
	}
}

func TestVoucherStatus_Transitions(t *testing.T) {
	tests := []struct {
		status     VoucherStatus
		canApprove bool
		canLock    bool
		canReject  bool
	}{
		{VoucherStatusDraft, true, false, true},
		{VoucherStatusApproved, false, true, true},
		{VoucherStatusRejected, false, false, false},
		{VoucherStatusLocked, false, false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.canApprove, tt.status.CanApprove())
			assert.Equal(t, tt.canLock, tt.status.CanLock())
			assert.Equal(t, tt.canReject, tt.status.CanReject())
		})
	}
}

func TestVoucherType_NumberPrefix(t *testing.T) {
	assert.Equal(t, "PV", VoucherTypePayment.NumberPrefix())
	assert.Equal(t, "RV", VoucherTypeReceipt.NumberPrefix())
	assert.Equal(t, "JE", VoucherTypeJournalEntry.NumberPrefix())
	assert.Equal(t, "OB", VoucherTypeOpeningBalance.NumberPrefix())
}

func TestAccountType_IsValid(t *testing.T) {
	for _, at := range []AccountType{AccountTypeAsset, AccountTypeLiability, AccountTypeEquity, AccountTypeRevenue, AccountTypeExpense} {
		assert.True(t, at.IsValid(), string(at))
	}
	assert.False(t, AccountType("CASH").IsValid())
}
