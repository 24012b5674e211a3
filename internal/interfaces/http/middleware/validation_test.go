package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type currencyPayload struct {
	Currency string `json:"currency" binding:"required,currency"`
}

func TestSetupValidator_CurrencyTag(t *testing.T) {
	require.NoError(t, SetupValidator())
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.POST("/", func(c *gin.Context) {
		var payload currencyPayload
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.String(http.StatusBadRequest, err.Error())
			return
		}
		c.Status(http.StatusOK)
	})

	tests := []struct {
		name string
		body string
		want int
	}{
		{"valid code", `{"currency":"EUR"}`, http.StatusOK},
		{"lowercase rejected", `{"currency":"eur"}`, http.StatusBadRequest},
		{"too short", `{"currency":"EU"}`, http.StatusBadRequest},
		{"missing", `{}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestSetupValidator_UsesJSONFieldNames(t *testing.T) {
	require.NoError(t, SetupValidator())
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.POST("/", func(c *gin.Context) {
		var payload currencyPayload
		err := c.ShouldBindJSON(&payload)
		require.Error(t, err)
		c.String(http.StatusBadRequest, err.Error())
	})

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Contains(t, w.Body.String(), "'currency'")
}
