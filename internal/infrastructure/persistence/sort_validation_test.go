package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSortOrder(t *testing.T) {
	assert.Equal(t, "ASC", ValidateSortOrder("asc", "DESC"))
	assert.Equal(t, "DESC", ValidateSortOrder(" DESC ", "ASC"))
	assert.Equal(t, "DESC", ValidateSortOrder("", "DESC"))
	assert.Equal(t, "ASC", ValidateSortOrder("1; DROP TABLE vouchers", "ASC"))
}

func TestValidateSortField(t *testing.T) {
	assert.Equal(t, "date", ValidateSortField("date", VoucherSortFields, "created_at"))
	assert.Equal(t, "created_at", ValidateSortField("", VoucherSortFields, "created_at"))
	assert.Equal(t, "code", ValidateSortField("password", AccountSortFields, "code"))
}
